package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

func lowerHex(address common.Address) string {
	return strings.ToLower(address.Hex())
}

// GetTokenCollectionID returns the collection a token belongs to
func (s *pgStore) GetTokenCollectionID(ctx context.Context, contract common.Address, tokenID *big.Int) (*string, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).
		Select("collection_id").
		Where("contract = ? AND token_id = ?", lowerHex(contract), tokenID.String()).
		Take(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token collection: %w", err)
	}

	return token.CollectionID, nil
}

// GetCollectionFloorAsk returns the stored aggregate of a collection
func (s *pgStore) GetCollectionFloorAsk(ctx context.Context, collectionID string) (*domain.CollectionFloorAsk, error) {
	var collection schema.Collection
	err := s.db.WithContext(ctx).Where("id = ?", collectionID).Take(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	floorAsk := domain.FloorAsk{
		OrderID:  collection.NormalizedFloorSellID,
		Value:    collection.NormalizedFloorSellValue,
		SourceID: collection.NormalizedFloorSellSourceIDInt,
	}
	if collection.NormalizedFloorSellMaker != nil {
		maker := common.HexToAddress(*collection.NormalizedFloorSellMaker)
		floorAsk.Maker = &maker
	}
	if collection.NormalizedFloorSellValidFrom != nil {
		floorAsk.Validity = &domain.ValidityWindow{
			From: *collection.NormalizedFloorSellValidFrom,
			To:   collection.NormalizedFloorSellValidTo,
		}
	}

	return &domain.CollectionFloorAsk{
		CollectionID: collection.ID,
		FloorAsk:     floorAsk,
		Version:      collection.NormalizedFloorSellVersion,
		UpdatedAt:    collection.UpdatedAt,
	}, nil
}

type floorAskRow struct {
	OrderID     string
	Value       decimal.Decimal
	Maker       *string
	SourceIDInt *int
	ValidFrom   time.Time
	ValidTo     *time.Time
}

// ComputeFloorAsk returns the cheapest live order among the collection's per-token best orders.
// Ties on value are broken by order id. Tokens of the excluded contracts never count.
func (s *pgStore) ComputeFloorAsk(ctx context.Context, collectionID string, now time.Time, excluded []common.Address) (*domain.FloorAsk, error) {
	query := `
		SELECT
			t.normalized_floor_sell_id AS order_id,
			t.normalized_floor_sell_value AS value,
			t.normalized_floor_sell_maker AS maker,
			o.source_id_int,
			o.valid_from,
			o.valid_to
		FROM tokens t
		JOIN orders o ON o.id = t.normalized_floor_sell_id
		WHERE t.collection_id = ?
			AND t.normalized_floor_sell_value IS NOT NULL
			AND o.valid_from <= ?
			AND (o.valid_to IS NULL OR o.valid_to > ?)`
	args := []interface{}{collectionID, now, now}

	// NOT IN with an empty list would render as NOT IN (NULL) and match nothing
	if len(excluded) > 0 {
		contracts := make([]string, 0, len(excluded))
		for _, contract := range excluded {
			contracts = append(contracts, lowerHex(contract))
		}
		query += `
			AND t.contract NOT IN ?`
		args = append(args, contracts)
	}

	query += `
		ORDER BY t.normalized_floor_sell_value ASC, t.normalized_floor_sell_id ASC
		LIMIT 1`

	var rows []floorAskRow
	err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute floor ask: %w", err)
	}

	if len(rows) == 0 {
		return &domain.FloorAsk{}, nil
	}

	row := rows[0]
	orderID := row.OrderID
	floorAsk := &domain.FloorAsk{
		OrderID:  &orderID,
		Value:    decimal.NewNullDecimal(row.Value),
		SourceID: row.SourceIDInt,
		Validity: &domain.ValidityWindow{From: row.ValidFrom, To: row.ValidTo},
	}
	if row.Maker != nil {
		maker := common.HexToAddress(*row.Maker)
		floorAsk.Maker = &maker
	}

	return floorAsk, nil
}

// WriteFloorAskIfDiffers applies the candidate aggregate under a version check and
// appends the matching audit event in the same transaction
func (s *pgStore) WriteFloorAskIfDiffers(ctx context.Context, input WriteFloorAskInput) (bool, error) {
	candidate := input.Candidate
	observed := input.Observed

	var maker *string
	if candidate.Maker != nil {
		m := lowerHex(*candidate.Maker)
		maker = &m
	}
	var validFrom, validTo *time.Time
	if candidate.Validity != nil {
		from := candidate.Validity.From
		validFrom = &from
		validTo = candidate.Validity.To
	}

	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var versions []int64
		err := tx.Raw(`
			UPDATE collections SET
				normalized_floor_sell_id = ?,
				normalized_floor_sell_value = ?,
				normalized_floor_sell_maker = ?,
				normalized_floor_sell_source_id_int = ?,
				normalized_floor_sell_valid_from = ?,
				normalized_floor_sell_valid_to = ?,
				normalized_floor_sell_version = normalized_floor_sell_version + 1,
				updated_at = ?
			WHERE id = ?
				AND normalized_floor_sell_version = ?
				AND (
					normalized_floor_sell_id IS DISTINCT FROM ?::text
					OR normalized_floor_sell_value IS DISTINCT FROM ?::numeric
				)
			RETURNING normalized_floor_sell_version
		`,
			candidate.OrderID,
			candidate.Value,
			maker,
			candidate.SourceID,
			validFrom,
			validTo,
			input.Now,
			observed.CollectionID,
			observed.Version,
			candidate.OrderID,
			candidate.Value,
		).Scan(&versions).Error
		if err != nil {
			return fmt.Errorf("failed to update collection floor ask: %w", err)
		}

		if len(versions) == 0 {
			return nil
		}

		event := schema.CollectionFloorSellEvent{
			EventID:          ulid.MustNewDefault(input.Now).String(),
			Kind:             input.Trigger.Kind,
			CollectionID:     observed.CollectionID,
			OrderID:          candidate.OrderID,
			OrderSourceIDInt: candidate.SourceID,
			Maker:            maker,
			Price:            candidate.Value,
			PreviousPrice:    observed.FloorAsk.Value,
			Version:          versions[0],
			TxTimestamp:      input.Trigger.TxTimestamp,
			CreatedAt:        input.Now,
		}
		if input.Trigger.TxHash != nil {
			txHash := input.Trigger.TxHash.Hex()
			event.TxHash = &txHash
		}
		if candidate.Validity != nil {
			validBetween := datatypes.NewJSONType(*candidate.Validity)
			event.OrderValidBetween = &validBetween
		}

		// Attribute the transition to a token only when the order targets exactly one
		if candidate.OrderID != nil {
			var members []schema.TokenSetToken
			err := tx.Raw(`
				SELECT tst.token_set_id, tst.contract, tst.token_id
				FROM token_sets_tokens tst
				JOIN orders o ON o.token_set_id = tst.token_set_id
				WHERE o.id = ?
				LIMIT 2
			`, *candidate.OrderID).Scan(&members).Error
			if err != nil {
				return fmt.Errorf("failed to resolve floor ask attribution: %w", err)
			}
			if len(members) == 1 {
				event.Contract = &members[0].Contract
				event.TokenID = &members[0].TokenID
			}
		}

		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create floor ask event: %w", err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

type staleFloorAskRow struct {
	CollectionID string
	OrderID      string
	Contract     string
	TokenID      string
}

func toStaleFloorAsks(rows []staleFloorAskRow) ([]domain.StaleFloorAsk, error) {
	stale := make([]domain.StaleFloorAsk, 0, len(rows))
	for _, row := range rows {
		tokenID, ok := new(big.Int).SetString(row.TokenID, 10)
		if !ok {
			return nil, fmt.Errorf("invalid token id %q for collection %s", row.TokenID, row.CollectionID)
		}
		stale = append(stale, domain.StaleFloorAsk{
			CollectionID: row.CollectionID,
			OrderID:      row.OrderID,
			Contract:     common.HexToAddress(row.Contract),
			TokenID:      tokenID,
		})
	}
	return stale, nil
}

// GetExpiredFloorAsks returns collections whose cached floor order expired at or before now,
// each with a token to attach the recompute job to
func (s *pgStore) GetExpiredFloorAsks(ctx context.Context, now time.Time, limit int) ([]domain.StaleFloorAsk, error) {
	var rows []staleFloorAskRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS collection_id,
			c.normalized_floor_sell_id AS order_id,
			t.contract,
			t.token_id
		FROM collections c
		JOIN LATERAL (
			SELECT tokens.contract, tokens.token_id
			FROM tokens
			WHERE tokens.collection_id = c.id
			ORDER BY (tokens.normalized_floor_sell_id IS NOT DISTINCT FROM c.normalized_floor_sell_id) DESC
			LIMIT 1
		) t ON TRUE
		WHERE c.normalized_floor_sell_id IS NOT NULL
			AND c.normalized_floor_sell_valid_to IS NOT NULL
			AND c.normalized_floor_sell_valid_to <= ?
		ORDER BY c.normalized_floor_sell_valid_to ASC, c.id ASC
		LIMIT ?
	`, now, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get expired floor asks: %w", err)
	}

	return toStaleFloorAsks(rows)
}

// GetActivatedFloorAsks returns collections where a per-token best order whose validity started
// in (since, now] is live at now and sorts before the cached floor. Such an order produced no
// event when it became live. One row per collection, naming the cheapest such token.
func (s *pgStore) GetActivatedFloorAsks(ctx context.Context, since, now time.Time, limit int) ([]domain.StaleFloorAsk, error) {
	var rows []staleFloorAskRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT collection_id, order_id, contract, token_id
		FROM (
			SELECT DISTINCT ON (c.id)
				c.id AS collection_id,
				t.normalized_floor_sell_id AS order_id,
				t.contract,
				t.token_id,
				o.valid_from
			FROM orders o
			JOIN tokens t ON t.normalized_floor_sell_id = o.id
			JOIN collections c ON c.id = t.collection_id
			WHERE o.valid_from > ?
				AND o.valid_from <= ?
				AND (o.valid_to IS NULL OR o.valid_to > ?)
				AND t.normalized_floor_sell_value IS NOT NULL
				AND (
					c.normalized_floor_sell_value IS NULL
					OR t.normalized_floor_sell_value < c.normalized_floor_sell_value
					OR (t.normalized_floor_sell_value = c.normalized_floor_sell_value
						AND t.normalized_floor_sell_id < c.normalized_floor_sell_id)
				)
			ORDER BY c.id, t.normalized_floor_sell_value ASC, t.normalized_floor_sell_id ASC
		) activated
		ORDER BY valid_from ASC, collection_id ASC
		LIMIT ?
	`, since, now, now, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get activated floor asks: %w", err)
	}

	return toStaleFloorAsks(rows)
}

// GetCollectionFloorAskEvents returns the latest aggregate transitions of a collection
func (s *pgStore) GetCollectionFloorAskEvents(ctx context.Context, collectionID string, limit int) ([]schema.CollectionFloorSellEvent, error) {
	var events []schema.CollectionFloorSellEvent
	err := s.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("version DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get floor ask events: %w", err)
	}

	return events, nil
}
