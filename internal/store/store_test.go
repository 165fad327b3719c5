package store

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/store/schema"
)

const (
	testContract  = "0x1111111111111111111111111111111111111111"
	otherContract = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testMaker     = "0x2222222222222222222222222222222222222222"
	oneEther      = "1000000000000000000"
	pointEight    = "800000000000000000"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// =============================================================================
// Fixtures
// =============================================================================

func seedCollection(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&schema.Collection{ID: id}).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, id, tokenSetID, value string, validFrom time.Time, validTo *time.Time) {
	t.Helper()
	sourceID := 1
	require.NoError(t, db.Create(&schema.Order{
		ID:          id,
		TokenSetID:  tokenSetID,
		Maker:       testMaker,
		Value:       decimal.RequireFromString(value),
		SourceIDInt: &sourceID,
		ValidFrom:   validFrom,
		ValidTo:     validTo,
	}).Error)
}

func seedToken(t *testing.T, db *gorm.DB, tokenID string, collectionID *string) {
	t.Helper()
	require.NoError(t, db.Create(&schema.Token{
		Contract:     testContract,
		TokenID:      tokenID,
		CollectionID: collectionID,
	}).Error)
}

// setTokenBestOrder mimics order ingestion updating the per-token best order cache
func setTokenBestOrder(t *testing.T, db *gorm.DB, tokenID string, orderID *string, value *string) {
	t.Helper()
	updates := map[string]interface{}{
		"normalized_floor_sell_id":    orderID,
		"normalized_floor_sell_value": nil,
		"normalized_floor_sell_maker": nil,
	}
	if value != nil {
		updates["normalized_floor_sell_value"] = decimal.RequireFromString(*value)
		updates["normalized_floor_sell_maker"] = testMaker
	}
	require.NoError(t, db.Model(&schema.Token{}).
		Where("contract = ? AND token_id = ?", testContract, tokenID).
		Updates(updates).Error)
}

func seedTokenSetMember(t *testing.T, db *gorm.DB, tokenSetID, tokenID string) {
	t.Helper()
	require.NoError(t, db.Create(&schema.TokenSetToken{
		TokenSetID: tokenSetID,
		Contract:   testContract,
		TokenID:    tokenID,
	}).Error)
}

// seedListedToken creates a token in the collection whose best order is a single-token listing
func seedListedToken(t *testing.T, db *gorm.DB, collectionID, tokenID, orderID, value string, validFrom time.Time, validTo *time.Time) {
	t.Helper()
	tokenSetID := "token:" + testContract + ":" + tokenID
	seedToken(t, db, tokenID, &collectionID)
	seedTokenSetMember(t, db, tokenSetID, tokenID)
	seedOrder(t, db, orderID, tokenSetID, value, validFrom, validTo)
	setTokenBestOrder(t, db, tokenID, &orderID, &value)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func testTrigger(kind domain.FloorAskEventKind, tokenID string) domain.FloorAskTrigger {
	id, _ := new(big.Int).SetString(tokenID, 10)
	return domain.FloorAskTrigger{
		Kind:     kind,
		Contract: common.HexToAddress(testContract),
		TokenID:  id,
	}
}

// recompute runs a single observe, compute, conditional write cycle
func recompute(t *testing.T, s Store, collectionID string, now time.Time, trigger domain.FloorAskTrigger) bool {
	t.Helper()
	ctx := context.Background()

	observed, err := s.GetCollectionFloorAsk(ctx, collectionID)
	require.NoError(t, err)
	require.NotNil(t, observed)

	candidate, err := s.ComputeFloorAsk(ctx, collectionID, now, nil)
	require.NoError(t, err)

	applied, err := s.WriteFloorAskIfDiffers(ctx, WriteFloorAskInput{
		Observed:  *observed,
		Candidate: *candidate,
		Trigger:   trigger,
		Now:       now,
	})
	require.NoError(t, err)
	return applied
}

func requireDecimal(t *testing.T, expected string, actual decimal.NullDecimal) {
	t.Helper()
	require.True(t, actual.Valid, "expected %s, got NULL", expected)
	assert.True(t, decimal.RequireFromString(expected).Equal(actual.Decimal), "expected %s, got %s", expected, actual.Decimal)
}

// =============================================================================
// Tests
// =============================================================================

func testGetTokenCollectionID(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedToken(t, db, "1", strPtr("c1"))
	seedToken(t, db, "2", nil)

	contract := common.HexToAddress(testContract)

	collectionID, err := s.GetTokenCollectionID(ctx, contract, big.NewInt(1))
	require.NoError(t, err)
	require.NotNil(t, collectionID)
	assert.Equal(t, "c1", *collectionID)

	collectionID, err = s.GetTokenCollectionID(ctx, contract, big.NewInt(2))
	require.NoError(t, err)
	assert.Nil(t, collectionID)

	collectionID, err = s.GetTokenCollectionID(ctx, contract, big.NewInt(3))
	require.NoError(t, err)
	assert.Nil(t, collectionID)
}

func testComputeFloorAskLiveness(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")

	// cheapest but expired
	seedListedToken(t, db, "c1", "1", "o-expired", "100", testNow.Add(-2*time.Hour), timePtr(testNow.Add(-time.Hour)))
	// cheaper than the winner but not yet valid
	seedListedToken(t, db, "c1", "2", "o-future", "200", testNow.Add(time.Hour), nil)
	// expires exactly now, so it is not live
	seedListedToken(t, db, "c1", "3", "o-boundary", "250", testNow.Add(-time.Hour), timePtr(testNow))
	// live with no expiry
	seedListedToken(t, db, "c1", "4", "o-live", "300", testNow, nil)
	// live but more expensive
	seedListedToken(t, db, "c1", "5", "o-pricier", "400", testNow.Add(-time.Hour), timePtr(testNow.Add(time.Hour)))

	floorAsk, err := s.ComputeFloorAsk(ctx, "c1", testNow, nil)
	require.NoError(t, err)
	require.NotNil(t, floorAsk.OrderID)
	assert.Equal(t, "o-live", *floorAsk.OrderID)
	requireDecimal(t, "300", floorAsk.Value)
	require.NotNil(t, floorAsk.Maker)
	assert.Equal(t, common.HexToAddress(testMaker), *floorAsk.Maker)
	require.NotNil(t, floorAsk.SourceID)
	assert.Equal(t, 1, *floorAsk.SourceID)
	require.NotNil(t, floorAsk.Validity)
	assert.True(t, floorAsk.Validity.From.Equal(testNow))
	assert.Nil(t, floorAsk.Validity.To)
}

func testComputeFloorAskTieBreak(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "1", "o-b", "500", testNow.Add(-time.Hour), nil)
	seedListedToken(t, db, "c1", "2", "o-a", "500", testNow.Add(-time.Hour), nil)
	seedListedToken(t, db, "c1", "3", "o-c", "500", testNow.Add(-time.Hour), nil)

	for i := 0; i < 3; i++ {
		floorAsk, err := s.ComputeFloorAsk(ctx, "c1", testNow, nil)
		require.NoError(t, err)
		require.NotNil(t, floorAsk.OrderID)
		assert.Equal(t, "o-a", *floorAsk.OrderID)
	}
}

func testComputeFloorAskEmpty(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedToken(t, db, "1", strPtr("c1"))

	floorAsk, err := s.ComputeFloorAsk(ctx, "c1", testNow, nil)
	require.NoError(t, err)
	assert.True(t, floorAsk.IsEmpty())

	// tokens of other collections never leak in
	seedCollection(t, db, "c2")
	seedListedToken(t, db, "c2", "2", "o-other", "1", testNow.Add(-time.Hour), nil)

	floorAsk, err = s.ComputeFloorAsk(ctx, "c1", testNow, nil)
	require.NoError(t, err)
	assert.True(t, floorAsk.IsEmpty())
}

func testComputeFloorAskExcludesContracts(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "1", "o1", "100", testNow.Add(-time.Hour), nil)

	// a cheaper listing on a token of another contract in the same collection
	collectionID := "c1"
	require.NoError(t, db.Create(&schema.Token{
		Contract:     otherContract,
		TokenID:      "2",
		CollectionID: &collectionID,
	}).Error)
	seedOrder(t, db, "o2", "token:"+otherContract+":2", "80", testNow.Add(-time.Hour), nil)
	require.NoError(t, db.Model(&schema.Token{}).
		Where("contract = ? AND token_id = ?", otherContract, "2").
		Updates(map[string]interface{}{
			"normalized_floor_sell_id":    "o2",
			"normalized_floor_sell_value": decimal.RequireFromString("80"),
			"normalized_floor_sell_maker": testMaker,
		}).Error)

	floorAsk, err := s.ComputeFloorAsk(ctx, "c1", testNow, nil)
	require.NoError(t, err)
	require.NotNil(t, floorAsk.OrderID)
	assert.Equal(t, "o2", *floorAsk.OrderID)

	// the floor was written before the contract got blocklisted
	assert.True(t, recompute(t, s, "c1", testNow, testTrigger(domain.FloorAskEventKindNewOrder, "1")))

	// its order is cancelled; the recompute must land on the true minimum
	require.NoError(t, db.Model(&schema.Token{}).
		Where("contract = ? AND token_id = ?", otherContract, "2").
		Updates(map[string]interface{}{
			"normalized_floor_sell_id":    nil,
			"normalized_floor_sell_value": nil,
			"normalized_floor_sell_maker": nil,
		}).Error)

	excluded := []common.Address{common.HexToAddress(otherContract)}
	floorAsk, err = s.ComputeFloorAsk(ctx, "c1", testNow, excluded)
	require.NoError(t, err)
	require.NotNil(t, floorAsk.OrderID)
	assert.Equal(t, "o1", *floorAsk.OrderID)
	requireDecimal(t, "100", floorAsk.Value)

	observed, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	applied, err := s.WriteFloorAskIfDiffers(ctx, WriteFloorAskInput{
		Observed:  *observed,
		Candidate: *floorAsk,
		Trigger:   domain.FloorAskTrigger{Kind: domain.FloorAskEventKindCancel, Contract: common.HexToAddress(otherContract), TokenID: big.NewInt(2)},
		Now:       testNow,
	})
	require.NoError(t, err)
	assert.True(t, applied)

	stored, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, stored.FloorAsk.OrderID)
	assert.Equal(t, "o1", *stored.FloorAsk.OrderID)

	// a live blocked listing stays out even while it is the cheapest
	seedOrder(t, db, "o3", "token:"+otherContract+":2", "10", testNow.Add(-time.Hour), nil)
	require.NoError(t, db.Model(&schema.Token{}).
		Where("contract = ? AND token_id = ?", otherContract, "2").
		Updates(map[string]interface{}{
			"normalized_floor_sell_id":    "o3",
			"normalized_floor_sell_value": decimal.RequireFromString("10"),
			"normalized_floor_sell_maker": testMaker,
		}).Error)

	floorAsk, err = s.ComputeFloorAsk(ctx, "c1", testNow, excluded)
	require.NoError(t, err)
	require.NotNil(t, floorAsk.OrderID)
	assert.Equal(t, "o1", *floorAsk.OrderID)
}

func testWriteFloorAskIfDiffers(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "7", "o1", oneEther, testNow.Add(-time.Hour), timePtr(testNow.Add(24*time.Hour)))

	txHash := common.HexToHash("0xabababababababababababababababababababababababababababababababab")
	txTimestamp := testNow.Unix()
	trigger := testTrigger(domain.FloorAskEventKindNewOrder, "7")
	trigger.TxHash = &txHash
	trigger.TxTimestamp = &txTimestamp

	assert.True(t, recompute(t, s, "c1", testNow, trigger))

	stored, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, stored.FloorAsk.OrderID)
	assert.Equal(t, "o1", *stored.FloorAsk.OrderID)
	requireDecimal(t, oneEther, stored.FloorAsk.Value)
	assert.Equal(t, int64(1), stored.Version)
	require.NotNil(t, stored.FloorAsk.Validity)
	require.NotNil(t, stored.FloorAsk.Validity.To)
	assert.True(t, stored.FloorAsk.Validity.To.Equal(testNow.Add(24*time.Hour)))

	events, err := s.GetCollectionFloorAskEvents(ctx, "c1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, domain.FloorAskEventKindNewOrder, event.Kind)
	assert.Equal(t, int64(1), event.Version)
	requireDecimal(t, oneEther, event.Price)
	assert.False(t, event.PreviousPrice.Valid)
	require.NotNil(t, event.OrderID)
	assert.Equal(t, "o1", *event.OrderID)
	require.NotNil(t, event.Contract)
	assert.Equal(t, testContract, *event.Contract)
	require.NotNil(t, event.TokenID)
	assert.Equal(t, "7", *event.TokenID)
	require.NotNil(t, event.Maker)
	assert.Equal(t, testMaker, *event.Maker)
	require.NotNil(t, event.TxHash)
	assert.Equal(t, txHash.Hex(), *event.TxHash)
	require.NotNil(t, event.TxTimestamp)
	assert.Equal(t, txTimestamp, *event.TxTimestamp)
	require.NotNil(t, event.OrderValidBetween)
	assert.True(t, event.OrderValidBetween.Data().From.Equal(testNow.Add(-time.Hour)))
}

func testWriteFloorAskIdempotent(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "1", "o1", oneEther, testNow.Add(-time.Hour), nil)

	trigger := testTrigger(domain.FloorAskEventKindNewOrder, "1")
	assert.True(t, recompute(t, s, "c1", testNow, trigger))

	before, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)

	// duplicate deliveries with no intervening state change
	assert.False(t, recompute(t, s, "c1", testNow, trigger))
	assert.False(t, recompute(t, s, "c1", testNow.Add(time.Minute), trigger))

	after, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
	assert.False(t, before.FloorAsk.Differs(after.FloorAsk))

	events, err := s.GetCollectionFloorAskEvents(ctx, "c1", 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func testWriteFloorAskStaleVersion(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "1", "o1", oneEther, testNow.Add(-time.Hour), nil)

	// two workers observe the same stored state
	observed, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)

	staleCandidate, err := s.ComputeFloorAsk(ctx, "c1", testNow, nil)
	require.NoError(t, err)

	// the state changes and the first worker writes the fresh aggregate
	seedListedToken(t, db, "c1", "2", "o2", pointEight, testNow.Add(-time.Hour), nil)
	freshCandidate, err := s.ComputeFloorAsk(ctx, "c1", testNow, nil)
	require.NoError(t, err)

	applied, err := s.WriteFloorAskIfDiffers(ctx, WriteFloorAskInput{
		Observed:  *observed,
		Candidate: *freshCandidate,
		Trigger:   testTrigger(domain.FloorAskEventKindNewOrder, "2"),
		Now:       testNow,
	})
	require.NoError(t, err)
	assert.True(t, applied)

	// the slower worker must not overwrite it with its stale candidate
	applied, err = s.WriteFloorAskIfDiffers(ctx, WriteFloorAskInput{
		Observed:  *observed,
		Candidate: *staleCandidate,
		Trigger:   testTrigger(domain.FloorAskEventKindNewOrder, "1"),
		Now:       testNow,
	})
	require.NoError(t, err)
	assert.False(t, applied)

	stored, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, stored.FloorAsk.OrderID)
	assert.Equal(t, "o2", *stored.FloorAsk.OrderID)

	events, err := s.GetCollectionFloorAskEvents(ctx, "c1", 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func testWriteFloorAskAttribution(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")

	// a collection-wide order whose token set covers two tokens
	seedToken(t, db, "1", strPtr("c1"))
	seedToken(t, db, "2", strPtr("c1"))
	seedTokenSetMember(t, db, "range:c1", "1")
	seedTokenSetMember(t, db, "range:c1", "2")
	seedOrder(t, db, "o-range", "range:c1", oneEther, testNow.Add(-time.Hour), nil)
	setTokenBestOrder(t, db, "1", strPtr("o-range"), strPtr(oneEther))
	setTokenBestOrder(t, db, "2", strPtr("o-range"), strPtr(oneEther))

	assert.True(t, recompute(t, s, "c1", testNow, testTrigger(domain.FloorAskEventKindNewOrder, "1")))

	events, err := s.GetCollectionFloorAskEvents(ctx, "c1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Contract)
	assert.Nil(t, events[0].TokenID)
	require.NotNil(t, events[0].OrderID)
	assert.Equal(t, "o-range", *events[0].OrderID)
}

func testFloorAskBecomesEmpty(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "1", "o1", oneEther, testNow.Add(-time.Hour), timePtr(testNow.Add(time.Hour)))

	assert.True(t, recompute(t, s, "c1", testNow, testTrigger(domain.FloorAskEventKindNewOrder, "1")))

	// the only order expires
	later := testNow.Add(2 * time.Hour)
	assert.True(t, recompute(t, s, "c1", later, testTrigger(domain.FloorAskEventKindExpiry, "1")))

	stored, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, stored.FloorAsk.IsEmpty())
	assert.Nil(t, stored.FloorAsk.Maker)
	assert.Nil(t, stored.FloorAsk.Validity)
	assert.Equal(t, int64(2), stored.Version)

	events, err := s.GetCollectionFloorAskEvents(ctx, "c1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	emptied := events[0]
	assert.Equal(t, domain.FloorAskEventKindExpiry, emptied.Kind)
	assert.Equal(t, int64(2), emptied.Version)
	assert.Nil(t, emptied.OrderID)
	assert.False(t, emptied.Price.Valid)
	requireDecimal(t, oneEther, emptied.PreviousPrice)
	assert.Nil(t, emptied.Contract)
	assert.Nil(t, emptied.OrderValidBetween)

	// still empty, nothing more to record
	assert.False(t, recompute(t, s, "c1", later, testTrigger(domain.FloorAskEventKindExpiry, "1")))
}

func testFloorAskEndToEnd(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "1", "O1", oneEther, testNow.Add(-time.Hour), nil)

	assert.True(t, recompute(t, s, "c1", testNow, testTrigger(domain.FloorAskEventKindNewOrder, "1")))

	// a cheaper order is listed on another token of the collection
	seedListedToken(t, db, "c1", "2", "O2", pointEight, testNow, nil)
	assert.True(t, recompute(t, s, "c1", testNow.Add(time.Second), testTrigger(domain.FloorAskEventKindNewOrder, "2")))

	stored, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, stored.FloorAsk.OrderID)
	assert.Equal(t, "O2", *stored.FloorAsk.OrderID)
	requireDecimal(t, pointEight, stored.FloorAsk.Value)

	events, err := s.GetCollectionFloorAskEvents(ctx, "c1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	latest := events[0]
	require.NotNil(t, latest.OrderID)
	assert.Equal(t, "O2", *latest.OrderID)
	requireDecimal(t, pointEight, latest.Price)
	requireDecimal(t, oneEther, latest.PreviousPrice)
	require.NotNil(t, latest.TokenID)
	assert.Equal(t, "2", *latest.TokenID)
	assert.Greater(t, latest.Version, events[1].Version)
}

func testFloorAskConvergence(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	seedCollection(t, db, "c1")
	seedListedToken(t, db, "c1", "1", "o1", "300", testNow.Add(-time.Hour), nil)
	seedListedToken(t, db, "c1", "2", "o2", "200", testNow.Add(-time.Hour), nil)
	seedListedToken(t, db, "c1", "3", "o3", "100", testNow.Add(-time.Hour), nil)

	// duplicated and reordered jobs for every token
	for _, tokenID := range []string{"3", "1", "3", "2", "1", "2", "3"} {
		recompute(t, s, "c1", testNow, testTrigger(domain.FloorAskEventKindNewOrder, tokenID))
	}

	stored, err := s.GetCollectionFloorAsk(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, stored.FloorAsk.OrderID)
	assert.Equal(t, "o3", *stored.FloorAsk.OrderID)
	requireDecimal(t, "100", stored.FloorAsk.Value)

	events, err := s.GetCollectionFloorAskEvents(ctx, "c1", 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func testGetExpiredFloorAsks(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()

	seedCollection(t, db, "c-expiring")
	seedListedToken(t, db, "c-expiring", "1", "o1", "100", testNow.Add(-time.Hour), timePtr(testNow.Add(time.Minute)))
	seedListedToken(t, db, "c-expiring", "2", "o2", "200", testNow.Add(-time.Hour), nil)
	assert.True(t, recompute(t, s, "c-expiring", testNow, testTrigger(domain.FloorAskEventKindNewOrder, "1")))

	seedCollection(t, db, "c-forever")
	seedToken(t, db, "3", strPtr("c-forever"))
	seedTokenSetMember(t, db, "token:3", "3")
	seedOrder(t, db, "o3", "token:3", "300", testNow.Add(-time.Hour), nil)
	setTokenBestOrder(t, db, "3", strPtr("o3"), strPtr("300"))
	assert.True(t, recompute(t, s, "c-forever", testNow, testTrigger(domain.FloorAskEventKindNewOrder, "3")))

	seedCollection(t, db, "c-empty")

	expired, err := s.GetExpiredFloorAsks(ctx, testNow, 10)
	require.NoError(t, err)
	assert.Empty(t, expired)

	expired, err = s.GetExpiredFloorAsks(ctx, testNow.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "c-expiring", expired[0].CollectionID)
	assert.Equal(t, "o1", expired[0].OrderID)
	assert.Equal(t, common.HexToAddress(testContract), expired[0].Contract)
	assert.Equal(t, 0, expired[0].TokenID.Cmp(big.NewInt(1)))

	expired, err = s.GetExpiredFloorAsks(ctx, testNow.Add(time.Minute), 0)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func testGetActivatedFloorAsks(t *testing.T, s Store, db *gorm.DB) {
	ctx := context.Background()
	earlier := testNow.Add(-30 * time.Minute)
	activatedAt := testNow.Add(-10 * time.Minute)

	// a cheaper order became live after the floor was written
	seedCollection(t, db, "c-undercut")
	seedListedToken(t, db, "c-undercut", "1", "o1", "300", testNow.Add(-2*time.Hour), nil)
	seedListedToken(t, db, "c-undercut", "2", "o2", "100", activatedAt, nil)
	assert.True(t, recompute(t, s, "c-undercut", earlier, testTrigger(domain.FloorAskEventKindNewOrder, "1")))

	// the newly live order is more expensive than the floor
	seedCollection(t, db, "c-pricier")
	seedListedToken(t, db, "c-pricier", "3", "o3", "100", testNow.Add(-2*time.Hour), nil)
	seedListedToken(t, db, "c-pricier", "4", "o4", "200", activatedAt, nil)
	assert.True(t, recompute(t, s, "c-pricier", earlier, testTrigger(domain.FloorAskEventKindNewOrder, "3")))

	// no floor was ever written
	seedCollection(t, db, "c-nofloor")
	seedListedToken(t, db, "c-nofloor", "5", "o5", "500", activatedAt, nil)

	// not live yet
	seedCollection(t, db, "c-future")
	seedListedToken(t, db, "c-future", "6", "o6", "1", testNow.Add(time.Hour), nil)

	activated, err := s.GetActivatedFloorAsks(ctx, testNow.Add(-20*time.Minute), testNow, 10)
	require.NoError(t, err)
	require.Len(t, activated, 2)
	assert.Equal(t, "c-nofloor", activated[0].CollectionID)
	assert.Equal(t, "o5", activated[0].OrderID)
	assert.Equal(t, "c-undercut", activated[1].CollectionID)
	assert.Equal(t, "o2", activated[1].OrderID)
	assert.Equal(t, common.HexToAddress(testContract), activated[1].Contract)
	assert.Equal(t, 0, activated[1].TokenID.Cmp(big.NewInt(2)))

	// the window excludes orders that became live before it
	activated, err = s.GetActivatedFloorAsks(ctx, testNow.Add(-5*time.Minute), testNow, 10)
	require.NoError(t, err)
	assert.Empty(t, activated)

	// once recomputed the collection is no longer undercut
	assert.True(t, recompute(t, s, "c-undercut", testNow, testTrigger(domain.FloorAskEventKindRevalidation, "2")))
	activated, err = s.GetActivatedFloorAsks(ctx, testNow.Add(-20*time.Minute), testNow, 10)
	require.NoError(t, err)
	require.Len(t, activated, 1)
	assert.Equal(t, "c-nofloor", activated[0].CollectionID)
}

// RunStoreTests runs all store tests against the given database initializer
func RunStoreTests(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store, *gorm.DB)
	}{
		{"GetTokenCollectionID", testGetTokenCollectionID},
		{"ComputeFloorAskLiveness", testComputeFloorAskLiveness},
		{"ComputeFloorAskTieBreak", testComputeFloorAskTieBreak},
		{"ComputeFloorAskEmpty", testComputeFloorAskEmpty},
		{"ComputeFloorAskExcludesContracts", testComputeFloorAskExcludesContracts},
		{"WriteFloorAskIfDiffers", testWriteFloorAskIfDiffers},
		{"WriteFloorAskIdempotent", testWriteFloorAskIdempotent},
		{"WriteFloorAskStaleVersion", testWriteFloorAskStaleVersion},
		{"WriteFloorAskAttribution", testWriteFloorAskAttribution},
		{"FloorAskBecomesEmpty", testFloorAskBecomesEmpty},
		{"FloorAskEndToEnd", testFloorAskEndToEnd},
		{"FloorAskConvergence", testFloorAskConvergence},
		{"GetExpiredFloorAsks", testGetExpiredFloorAsks},
		{"GetActivatedFloorAsks", testGetActivatedFloorAsks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, db := initDB(t)
			tt.fn(t, s, db)
		})
	}
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	maxOpen, maxIdle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 20, maxOpen)
	assert.Equal(t, 5, maxIdle)
	assert.Equal(t, 5*time.Minute, lifetime)
	assert.Equal(t, 10*time.Minute, idleTime)

	maxOpen, maxIdle, _, _ = NormalizeConnectionPoolSettings(4, 10, time.Minute, time.Minute)
	assert.Equal(t, 4, maxOpen)
	assert.Equal(t, 4, maxIdle)
}
