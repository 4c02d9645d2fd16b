package migrations

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

// Partitions names every partition of the shared layout in stable_partitions
// so operators can read stable_cells without the Go constants at hand.
var Partitions = map[stablemem.MemoryID]string{
	stablemem.CounterMemory:     "id_counter",
	stablemem.AgrovetsMemory:    "agrovets",
	stablemem.ProductsMemory:    "products",
	stablemem.OrdersMemory:      "orders",
	stablemem.FeedbackMemory:    "feedback",
	stablemem.IdempotencyMemory: "order_idempotency_keys",
}

// Run applies the stable memory schema. pgregion expects it to be in place.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&cellRecord{}, &partitionRecord{}); err != nil {
		return err
	}
	records := make([]partitionRecord, 0, len(Partitions))
	for id, name := range Partitions {
		records = append(records, partitionRecord{ID: int16(id), Name: name})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partition_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&records).Error
}

// Cell schema mirrors the pgregion adapter.
type cellRecord struct {
	PartitionID int16     `gorm:"primaryKey;column:partition_id;autoIncrement:false"`
	Key         []byte    `gorm:"primaryKey;column:cell_key;type:bytea"`
	Value       []byte    `gorm:"column:cell_value;type:bytea;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (cellRecord) TableName() string { return "stable_cells" }

type partitionRecord struct {
	ID        int16     `gorm:"primaryKey;column:partition_id;autoIncrement:false"`
	Name      string    `gorm:"column:name;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (partitionRecord) TableName() string { return "stable_partitions" }
