// Package pgregion persists stable memory partitions in PostgreSQL using GORM.
package pgregion

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var _ stablemem.Region = (*Region)(nil)

const defaultScanBatch = 256

// incrementSQL adds one to a big-endian bytea counter in a single upsert.
// Postgres has no unsigned 64-bit type, so counters stop at MaxInt64: the
// guarded update then returns no row.
const incrementSQL = `INSERT INTO stable_cells (partition_id, cell_key, cell_value, created_at, updated_at)
VALUES (?, ?, int8send(CAST(? AS bigint) + 1), NOW(), NOW())
ON CONFLICT (partition_id, cell_key) DO UPDATE
SET cell_value = int8send(('x' || encode(stable_cells.cell_value, 'hex'))::bit(64)::bigint + 1),
    updated_at = NOW()
WHERE stable_cells.cell_value <> int8send(9223372036854775807::bigint)
RETURNING cell_value`

// Region stores every partition in the stable_cells table. The schema is
// owned by the migrations package. Caller manages DB lifecycle.
type Region struct {
	db        *gorm.DB
	scanBatch int
}

// cellRecord maps one partition cell to a row.
type cellRecord struct {
	PartitionID int16     `gorm:"primaryKey;column:partition_id;autoIncrement:false"`
	Key         []byte    `gorm:"primaryKey;column:cell_key;type:bytea"`
	Value       []byte    `gorm:"column:cell_value;type:bytea;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (cellRecord) TableName() string { return "stable_cells" }

// NewRegion wires a PostgreSQL-backed region.
func NewRegion(db *gorm.DB) *Region {
	return &Region{db: db, scanBatch: defaultScanBatch}
}

// WithScanBatch overrides how many rows a scan fetches per round trip.
func (r *Region) WithScanBatch(n int) *Region {
	if n > 0 {
		r.scanBatch = n
	}
	return r
}

func (r *Region) Partition(id stablemem.MemoryID) (stablemem.Partition, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return &partition{region: r, id: int16(id)}, nil
}

// Close is a no-op; the *gorm.DB belongs to the caller.
func (r *Region) Close() error { return nil }

func (r *Region) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres stable memory region not configured")
	}
	return nil
}

type partition struct {
	region *Region
	id     int16
}

func (p *partition) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, stablemem.ErrEmptyKey
	}
	var record cellRecord
	err := p.region.db.WithContext(ctx).
		Where("partition_id = ? AND cell_key = ?", p.id, key).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return record.Value, true, nil
}

// Put locks the existing row (if any) so the returned previous value matches
// what the upsert replaced.
func (p *partition) Put(ctx context.Context, key, value []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, stablemem.ErrEmptyKey
	}
	var (
		prev    []byte
		existed bool
	)
	err := p.region.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current cellRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("partition_id = ? AND cell_key = ?", p.id, key).
			Take(&current).Error
		switch {
		case err == nil:
			prev, existed = current.Value, true
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}
		record := cellRecord{PartitionID: p.id, Key: bytes.Clone(key), Value: bytes.Clone(value)}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "partition_id"}, {Name: "cell_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"cell_value": record.Value,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
	})
	if err != nil {
		return nil, false, err
	}
	return prev, existed, nil
}

func (p *partition) Increment(ctx context.Context, key []byte, initial uint64) (uint64, error) {
	if len(key) == 0 {
		return 0, stablemem.ErrEmptyKey
	}
	if initial >= math.MaxInt64 {
		return 0, stablemem.ErrCounterOverflow
	}
	var value []byte
	err := p.region.db.WithContext(ctx).Raw(incrementSQL, p.id, key, int64(initial)).Row().Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, stablemem.ErrCounterOverflow
		}
		return 0, err
	}
	if len(value) != 8 {
		return 0, fmt.Errorf("counter value has %d bytes, want 8", len(value))
	}
	return binary.BigEndian.Uint64(value), nil
}

func (p *partition) Has(ctx context.Context, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, stablemem.ErrEmptyKey
	}
	var count int64
	err := p.region.db.WithContext(ctx).Model(&cellRecord{}).
		Where("partition_id = ? AND cell_key = ?", p.id, key).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Scan pages through the partition with keyset pagination on cell_key.
func (p *partition) Scan(ctx context.Context, fn func(key, value []byte) error) error {
	var after []byte
	for {
		var records []cellRecord
		query := p.region.db.WithContext(ctx).Where("partition_id = ?", p.id)
		if after != nil {
			query = query.Where("cell_key > ?", after)
		}
		if err := query.Order("cell_key ASC").Limit(p.region.scanBatch).Find(&records).Error; err != nil {
			return err
		}
		for i := range records {
			if err := fn(records[i].Key, records[i].Value); err != nil {
				return err
			}
		}
		if len(records) < p.region.scanBatch {
			return nil
		}
		after = records[len(records)-1].Key
	}
}
