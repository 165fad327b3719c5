package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents the orders table. Only sell-side fields read by the floor ask pipeline are mapped.
type Order struct {
	// ID is the protocol-level order hash
	ID string `gorm:"column:id;primaryKey;type:text"`
	// TokenSetID identifies the set of tokens this order can fill
	TokenSetID string `gorm:"column:token_set_id;not null;type:text;index:idx_orders_token_set_id"`
	// Maker is the lowercase hex address of the order creator
	Maker string `gorm:"column:maker;not null;type:text"`
	// Value is the normalized price
	Value decimal.Decimal `gorm:"column:value;not null;type:numeric(78,0)"`
	// SourceIDInt identifies the marketplace the order came from
	SourceIDInt *int `gorm:"column:source_id_int;type:integer"`
	// ValidFrom is the inclusive start of the order's validity window
	ValidFrom time.Time `gorm:"column:valid_from;not null;type:timestamptz"`
	// ValidTo is the exclusive end of the validity window, nil when the order never expires
	ValidTo *time.Time `gorm:"column:valid_to;type:timestamptz"`
	// CreatedAt is the timestamp when this record was first indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// TokenSetToken represents the token_sets_tokens table - membership of a token in a token set
type TokenSetToken struct {
	TokenSetID string `gorm:"column:token_set_id;primaryKey;type:text"`
	Contract   string `gorm:"column:contract;primaryKey;type:text"`
	TokenID    string `gorm:"column:token_id;primaryKey;type:numeric(78,0)"`
}

// TableName specifies the table name for the TokenSetToken model
func (TokenSetToken) TableName() string {
	return "token_sets_tokens"
}
