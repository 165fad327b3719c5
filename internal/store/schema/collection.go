package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection represents the collections table. The normalized_floor_sell_* columns
// cache the collection-wide normalized floor ask; all NULL means the empty aggregate.
type Collection struct {
	// ID is the collection identifier assigned by the classifier
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Name is the display name of the collection
	Name *string `gorm:"column:name;type:text"`
	// NormalizedFloorSellID references the order currently backing the aggregate
	NormalizedFloorSellID *string `gorm:"column:normalized_floor_sell_id;type:text"`
	// NormalizedFloorSellValue is the normalized price of that order
	NormalizedFloorSellValue decimal.NullDecimal `gorm:"column:normalized_floor_sell_value;type:numeric(78,0)"`
	// NormalizedFloorSellMaker is the lowercase hex address of the order maker
	NormalizedFloorSellMaker *string `gorm:"column:normalized_floor_sell_maker;type:text"`
	// NormalizedFloorSellSourceIDInt identifies the marketplace the order came from
	NormalizedFloorSellSourceIDInt *int `gorm:"column:normalized_floor_sell_source_id_int;type:integer"`
	// NormalizedFloorSellValidFrom and NormalizedFloorSellValidTo copy the order's validity window
	NormalizedFloorSellValidFrom *time.Time `gorm:"column:normalized_floor_sell_valid_from;type:timestamptz"`
	NormalizedFloorSellValidTo   *time.Time `gorm:"column:normalized_floor_sell_valid_to;type:timestamptz"`
	// NormalizedFloorSellVersion is bumped by every applied aggregate transition
	NormalizedFloorSellVersion int64 `gorm:"column:normalized_floor_sell_version;not null;default:0"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Collection model
func (Collection) TableName() string {
	return "collections"
}
