package store

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/store/schema"
)

// WriteFloorAskInput describes a conditional aggregate transition
type WriteFloorAskInput struct {
	// Observed is the stored aggregate the candidate was compared against
	Observed domain.CollectionFloorAsk
	// Candidate is the freshly computed aggregate
	Candidate domain.FloorAsk
	// Trigger annotates the audit row
	Trigger domain.FloorAskTrigger
	// Now stamps updated_at, created_at and the event id
	Now time.Time
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetTokenCollectionID returns the collection a token belongs to, nil when the token is unknown or unclassified
	GetTokenCollectionID(ctx context.Context, contract common.Address, tokenID *big.Int) (*string, error)
	// GetCollectionFloorAsk returns the stored aggregate of a collection with its version, nil when the collection does not exist
	GetCollectionFloorAsk(ctx context.Context, collectionID string) (*domain.CollectionFloorAsk, error)
	// ComputeFloorAsk returns the cheapest order live at now among the per-token best orders of the collection.
	// Tokens of the excluded contracts are left out.
	ComputeFloorAsk(ctx context.Context, collectionID string, now time.Time, excluded []common.Address) (*domain.FloorAsk, error)
	// WriteFloorAskIfDiffers writes the candidate and its audit event in one transaction.
	// It applies only when the stored aggregate still has the observed version and differs from the candidate.
	WriteFloorAskIfDiffers(ctx context.Context, input WriteFloorAskInput) (bool, error)
	// GetExpiredFloorAsks returns collections whose cached floor order stopped being live at or before now
	GetExpiredFloorAsks(ctx context.Context, now time.Time, limit int) ([]domain.StaleFloorAsk, error)
	// GetActivatedFloorAsks returns collections where an order that became live in (since, now]
	// undercuts the cached floor
	GetActivatedFloorAsks(ctx context.Context, since, now time.Time, limit int) ([]domain.StaleFloorAsk, error)
	// GetCollectionFloorAskEvents returns the latest aggregate transitions of a collection, newest first
	GetCollectionFloorAskEvents(ctx context.Context, collectionID string, limit int) ([]schema.CollectionFloorSellEvent, error)
}
