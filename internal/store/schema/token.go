package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Token represents the tokens table. The normalized_floor_sell_* columns are the
// per-token best order cache maintained by order ingestion.
type Token struct {
	// Contract is the lowercase hex address of the token contract
	Contract string `gorm:"column:contract;primaryKey;type:text"`
	// TokenID is the token id within the contract (string to support up to 78 digits)
	TokenID string `gorm:"column:token_id;primaryKey;type:numeric(78,0)"`
	// CollectionID is the collection this token was classified into, nil when unclassified
	CollectionID *string `gorm:"column:collection_id;type:text;index:idx_tokens_collection_id"`
	// NormalizedFloorSellID references the best order for this token
	NormalizedFloorSellID *string `gorm:"column:normalized_floor_sell_id;type:text"`
	// NormalizedFloorSellValue is the normalized price of that order
	NormalizedFloorSellValue decimal.NullDecimal `gorm:"column:normalized_floor_sell_value;type:numeric(78,0)"`
	// NormalizedFloorSellMaker is the lowercase hex address of the order maker
	NormalizedFloorSellMaker *string `gorm:"column:normalized_floor_sell_maker;type:text"`
	// CreatedAt is the timestamp when this record was first indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
