// Package dynamoregion persists stable memory partitions in a DynamoDB table
// keyed by (pk = partition name, sk = binary cell key). Binary sort keys are
// ordered bytewise, so a forward Query scans a partition in key order.
package dynamoregion

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var _ stablemem.Region = (*Region)(nil)

// DefaultTable is used when no table name is configured.
const DefaultTable = "agrovet-stable-memory"

// maxIncrementAttempts bounds compare-and-set retries under contention.
const maxIncrementAttempts = 64

// API is the subset of the DynamoDB client the region needs.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Region stores every partition in one table.
type Region struct {
	client API
	table  string
}

type cellItem struct {
	PK    string `dynamodbav:"pk"`
	SK    []byte `dynamodbav:"sk"`
	Value []byte `dynamodbav:"val"`
}

// NewRegion wires a DynamoDB-backed region. An empty table uses DefaultTable.
func NewRegion(client API, table string) *Region {
	if table == "" {
		table = DefaultTable
	}
	return &Region{client: client, table: table}
}

// NewClient loads the default AWS configuration and builds a DynamoDB client.
// A non-empty endpoint targets DynamoDB Local or another compatible service.
func NewClient(ctx context.Context, awsRegion, endpoint string) (*dynamodb.Client, error) {
	var opts []func(*config.LoadOptions) error
	if awsRegion != "" {
		opts = append(opts, config.WithRegion(awsRegion))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// EnsureTable creates the backing table when it does not exist yet.
func (r *Region) EnsureTable(ctx context.Context) error {
	_, err := r.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(r.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("sk"), AttributeType: types.ScalarAttributeTypeB},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("sk"), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

func (r *Region) Partition(id stablemem.MemoryID) (stablemem.Partition, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("dynamodb stable memory region not configured")
	}
	return &partition{client: r.client, table: r.table, pk: id.String()}, nil
}

func (r *Region) Close() error { return nil }

type partition struct {
	client API
	table  string
	pk     string
}

func (p *partition) key(key []byte) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: p.pk},
		"sk": &types.AttributeValueMemberB{Value: key},
	}
}

func (p *partition) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, stablemem.ErrEmptyKey
	}
	out, err := p.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(p.table),
		Key:            p.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, err
	}
	if out.Item == nil {
		return nil, false, nil
	}
	var item cellItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, fmt.Errorf("unmarshal cell: %w", err)
	}
	return item.Value, true, nil
}

func (p *partition) Put(ctx context.Context, key, value []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, stablemem.ErrEmptyKey
	}
	av, err := attributevalue.MarshalMap(cellItem{PK: p.pk, SK: bytes.Clone(key), Value: bytes.Clone(value)})
	if err != nil {
		return nil, false, fmt.Errorf("marshal cell: %w", err)
	}
	out, err := p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:    aws.String(p.table),
		Item:         av,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, false, err
	}
	if len(out.Attributes) == 0 {
		return nil, false, nil
	}
	var prev cellItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &prev); err != nil {
		return nil, false, fmt.Errorf("unmarshal previous cell: %w", err)
	}
	return prev.Value, true, nil
}

// Increment is a compare-and-set loop: the conditional PutItem only succeeds
// when the stored counter still holds the value it was computed from.
func (p *partition) Increment(ctx context.Context, key []byte, initial uint64) (uint64, error) {
	if len(key) == 0 {
		return 0, stablemem.ErrEmptyKey
	}
	for attempt := 0; attempt < maxIncrementAttempts; attempt++ {
		stored, ok, err := p.Get(ctx, key)
		if err != nil {
			return 0, err
		}
		next, encoded, err := stablemem.NextCounter(stored, ok, initial)
		if err != nil {
			return 0, err
		}
		av, err := attributevalue.MarshalMap(cellItem{PK: p.pk, SK: bytes.Clone(key), Value: encoded})
		if err != nil {
			return 0, fmt.Errorf("marshal cell: %w", err)
		}
		input := &dynamodb.PutItemInput{
			TableName:           aws.String(p.table),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(pk)"),
		}
		if ok {
			input.ConditionExpression = aws.String("val = :prev")
			input.ExpressionAttributeValues = map[string]types.AttributeValue{
				":prev": &types.AttributeValueMemberB{Value: stored},
			}
		}
		_, err = p.client.PutItem(ctx, input)
		if err == nil {
			return next, nil
		}
		var conflict *types.ConditionalCheckFailedException
		if !errors.As(err, &conflict) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("increment %s: gave up after %d conflicting attempts", p.pk, maxIncrementAttempts)
}

func (p *partition) Has(ctx context.Context, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, stablemem.ErrEmptyKey
	}
	out, err := p.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(p.table),
		Key:                  p.key(key),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("pk"),
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

func (p *partition) Scan(ctx context.Context, fn func(key, value []byte) error) error {
	paginator := dynamodb.NewQueryPaginator(p.client, &dynamodb.QueryInput{
		TableName:              aws.String(p.table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: p.pk},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		var items []cellItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return fmt.Errorf("unmarshal cells: %w", err)
		}
		for _, item := range items {
			if err := fn(item.SK, item.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
