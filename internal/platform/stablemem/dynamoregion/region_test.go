package dynamoregion

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/regiontest"
)

// fakeTable serves the key-value subset of DynamoDB the region uses and
// pages queries two items at a time.
type fakeTable struct {
	mu      sync.Mutex
	created bool
	items   map[string]map[string]map[string]types.AttributeValue
}

const fakePageSize = 2

func newFakeTable() *fakeTable {
	return &fakeTable{items: map[string]map[string]map[string]types.AttributeValue{}}
}

func keyOf(item map[string]types.AttributeValue) (string, string) {
	pk := item["pk"].(*types.AttributeValueMemberS).Value
	sk := item["sk"].(*types.AttributeValueMemberB).Value
	return pk, string(sk)
}

func (f *fakeTable) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk, sk := keyOf(in.Key)
	return &dynamodb.GetItemOutput{Item: f.items[pk][sk]}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk, sk := keyOf(in.Item)
	if f.items[pk] == nil {
		f.items[pk] = map[string]map[string]types.AttributeValue{}
	}
	prev := f.items[pk][sk]
	if !conditionHolds(in, prev) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.items[pk][sk] = in.Item
	out := &dynamodb.PutItemOutput{}
	if in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = prev
	}
	return out, nil
}

// conditionHolds evaluates the two condition expressions the region writes.
func conditionHolds(in *dynamodb.PutItemInput, current map[string]types.AttributeValue) bool {
	if in.ConditionExpression == nil {
		return true
	}
	switch *in.ConditionExpression {
	case "attribute_not_exists(pk)":
		return current == nil
	case "val = :prev":
		if current == nil {
			return false
		}
		stored := current["val"].(*types.AttributeValueMemberB).Value
		want := in.ExpressionAttributeValues[":prev"].(*types.AttributeValueMemberB).Value
		return bytes.Equal(stored, want)
	default:
		panic("unsupported condition " + *in.ConditionExpression)
	}
}

func (f *fakeTable) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk := in.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value
	keys := make([]string, 0, len(f.items[pk]))
	for sk := range f.items[pk] {
		keys = append(keys, sk)
	}
	sort.Strings(keys)
	start := 0
	if in.ExclusiveStartKey != nil {
		_, after := keyOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after) + 1
	}
	out := &dynamodb.QueryOutput{}
	end := min(start+fakePageSize, len(keys))
	for _, sk := range keys[start:end] {
		out.Items = append(out.Items, f.items[pk][sk])
	}
	if end < len(keys) {
		last := f.items[pk][keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"pk": last["pk"], "sk": last["sk"]}
	}
	return out, nil
}

func (f *fakeTable) CreateTable(_ context.Context, _ *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.created {
		return nil, &types.ResourceInUseException{}
	}
	f.created = true
	return &dynamodb.CreateTableOutput{}, nil
}

func TestRegionConformance(t *testing.T) {
	table := newFakeTable()
	regiontest.Run(t, func(*testing.T) stablemem.Region {
		return NewRegion(table, "")
	})
}

func TestEnsureTableIsIdempotent(t *testing.T) {
	region := NewRegion(newFakeTable(), "stable")
	require.NoError(t, region.EnsureTable(context.Background()))
	require.NoError(t, region.EnsureTable(context.Background()))
}

func TestPartitionsShareTableButNotKeys(t *testing.T) {
	ctx := context.Background()
	region := NewRegion(newFakeTable(), "")
	agrovets, err := region.Partition(stablemem.AgrovetsMemory)
	require.NoError(t, err)
	products, err := region.Partition(stablemem.ProductsMemory)
	require.NoError(t, err)

	_, _, err = agrovets.Put(ctx, []byte{0, 1}, []byte("agrovet"))
	require.NoError(t, err)
	has, err := products.Has(ctx, []byte{0, 1})
	require.NoError(t, err)
	require.False(t, has)
}

func TestIncrementRetriesAfterLostRace(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	region := NewRegion(&racingTable{fakeTable: table, interleave: 1}, "")
	counter, err := region.Partition(stablemem.CounterMemory)
	require.NoError(t, err)

	// another writer bumps the counter between our read and our write
	next, err := counter.Increment(ctx, []byte{0}, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(2), next)
}

// racingTable increments the counter behind the caller's back after the
// first interleave reads.
type racingTable struct {
	*fakeTable
	interleave int
}

func (r *racingTable) GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	out, err := r.fakeTable.GetItem(ctx, in, opts...)
	if err != nil || r.interleave == 0 {
		return out, err
	}
	r.interleave--
	rival := NewRegion(r.fakeTable, "")
	part, err := rival.Partition(stablemem.CounterMemory)
	if err != nil {
		return nil, err
	}
	if _, err := part.Increment(ctx, []byte{0}, 0); err != nil {
		return nil, err
	}
	return out, nil
}
