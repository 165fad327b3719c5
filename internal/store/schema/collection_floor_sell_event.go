package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
)

// CollectionFloorSellEvent represents the collection_normalized_floor_sell_events table -
// the append-only log of normalized floor ask transitions
type CollectionFloorSellEvent struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// EventID is a ULID exposed to downstream consumers
	EventID string `gorm:"column:event_id;not null;uniqueIndex;type:text"`
	// Kind is the event kind that triggered the transition
	Kind domain.FloorAskEventKind `gorm:"column:kind;not null;type:text"`
	// CollectionID references the collection whose aggregate changed
	CollectionID string `gorm:"column:collection_id;not null;type:text;uniqueIndex:idx_floor_sell_events_collection_version,priority:1"`
	// Contract and TokenID attribute the transition to a token when the winning order targets exactly one
	Contract *string `gorm:"column:contract;type:text"`
	TokenID  *string `gorm:"column:token_id;type:numeric(78,0)"`
	// OrderID is the new floor order, nil when the aggregate became empty
	OrderID *string `gorm:"column:order_id;type:text"`
	// OrderSourceIDInt is the marketplace of the new floor order
	OrderSourceIDInt *int `gorm:"column:order_source_id_int;type:integer"`
	// OrderValidBetween is the validity window of the new floor order
	OrderValidBetween *datatypes.JSONType[domain.ValidityWindow] `gorm:"column:order_valid_between;type:jsonb"`
	// Maker is the lowercase hex address of the new floor order maker
	Maker *string `gorm:"column:maker;type:text"`
	// Price is the new aggregate value
	Price decimal.NullDecimal `gorm:"column:price;type:numeric(78,0)"`
	// PreviousPrice is the aggregate value immediately before the transition
	PreviousPrice decimal.NullDecimal `gorm:"column:previous_price;type:numeric(78,0)"`
	// Version is the collection's aggregate version produced by this transition
	Version int64 `gorm:"column:version;not null;uniqueIndex:idx_floor_sell_events_collection_version,priority:2"`
	// TxHash is the transaction that triggered the recompute, if any
	TxHash *string `gorm:"column:tx_hash;type:text"`
	// TxTimestamp is the block timestamp of TxHash in unix seconds
	TxTimestamp *int64 `gorm:"column:tx_timestamp;type:bigint"`
	// CreatedAt is the timestamp when this record was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the CollectionFloorSellEvent model
func (CollectionFloorSellEvent) TableName() string {
	return "collection_normalized_floor_sell_events"
}
