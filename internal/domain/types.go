package domain

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// FloorAskEventKind represents the on-chain or off-chain event that may have changed a token's best order
type FloorAskEventKind string

const (
	FloorAskEventKindBootstrap      FloorAskEventKind = "bootstrap"
	FloorAskEventKindNewOrder       FloorAskEventKind = "new-order"
	FloorAskEventKindExpiry         FloorAskEventKind = "expiry"
	FloorAskEventKindSale           FloorAskEventKind = "sale"
	FloorAskEventKindCancel         FloorAskEventKind = "cancel"
	FloorAskEventKindBalanceChange  FloorAskEventKind = "balance-change"
	FloorAskEventKindApprovalChange FloorAskEventKind = "approval-change"
	FloorAskEventKindRevalidation   FloorAskEventKind = "revalidation"
	FloorAskEventKindReprice        FloorAskEventKind = "reprice"
)

// FloorAskEventKinds lists every known event kind
var FloorAskEventKinds = []FloorAskEventKind{
	FloorAskEventKindBootstrap,
	FloorAskEventKindNewOrder,
	FloorAskEventKindExpiry,
	FloorAskEventKindSale,
	FloorAskEventKindCancel,
	FloorAskEventKindBalanceChange,
	FloorAskEventKindApprovalChange,
	FloorAskEventKindRevalidation,
	FloorAskEventKindReprice,
}

// ParseFloorAskEventKind converts a wire tag into a known event kind
func ParseFloorAskEventKind(s string) (FloorAskEventKind, error) {
	for _, kind := range FloorAskEventKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventKind, s)
}

var tokenIDPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// maxUint256 bounds token ids to the EVM word size
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// FloorAskJobPayload is the wire format of a change-notification job
type FloorAskJobPayload struct {
	Kind        string  `json:"kind"`
	Contract    string  `json:"contract"`
	TokenID     string  `json:"tokenId"`
	TxHash      *string `json:"txHash,omitempty"`
	TxTimestamp *int64  `json:"txTimestamp,omitempty"`
}

// Parse validates the payload and converts it into a typed job
func (p FloorAskJobPayload) Parse() (*FloorAskJob, error) {
	kind, err := ParseFloorAskEventKind(p.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	contract, err := ParseContractAddress(p.Contract)
	if err != nil {
		return nil, err
	}

	tokenID, err := ParseTokenID(p.TokenID)
	if err != nil {
		return nil, err
	}

	job := &FloorAskJob{
		Kind:     kind,
		Contract: contract,
		TokenID:  tokenID,
	}

	if p.TxHash != nil {
		hash, err := ParseTxHash(*p.TxHash)
		if err != nil {
			return nil, err
		}
		job.TxHash = &hash
	}

	if p.TxTimestamp != nil {
		if *p.TxTimestamp < 0 {
			return nil, fmt.Errorf("%w: negative txTimestamp %d", ErrInvalidJob, *p.TxTimestamp)
		}
		ts := *p.TxTimestamp
		job.TxTimestamp = &ts
	}

	return job, nil
}

// ParseContractAddress validates a lowercase 0x-prefixed contract address
func ParseContractAddress(s string) (common.Address, error) {
	if !strings.HasPrefix(s, "0x") || len(s) != 42 || !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: malformed contract %q", ErrInvalidJob, s)
	}
	if strings.ToLower(s) != s {
		return common.Address{}, fmt.Errorf("%w: contract must be lowercase %q", ErrInvalidJob, s)
	}
	return common.HexToAddress(s), nil
}

// ParseTokenID validates a decimal uint256 token id
func ParseTokenID(s string) (*big.Int, error) {
	if !tokenIDPattern.MatchString(s) {
		return nil, fmt.Errorf("%w: malformed tokenId %q", ErrInvalidJob, s)
	}
	tokenID, ok := new(big.Int).SetString(s, 10)
	if !ok || tokenID.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%w: tokenId out of range %q", ErrInvalidJob, s)
	}
	return tokenID, nil
}

// ParseTxHash validates a 0x-prefixed 32-byte transaction hash
func ParseTxHash(s string) (common.Hash, error) {
	raw, err := hexutil.Decode(s)
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: malformed txHash %q", ErrInvalidJob, s)
	}
	return common.BytesToHash(raw), nil
}

// FloorAskJob is a validated change notification for a single token
type FloorAskJob struct {
	Kind        FloorAskEventKind
	Contract    common.Address
	TokenID     *big.Int
	TxHash      *common.Hash
	TxTimestamp *int64
}

// ContractHex returns the lowercase hex form of the contract address
func (j *FloorAskJob) ContractHex() string {
	return strings.ToLower(j.Contract.Hex())
}

// Name returns the transport-level name of the job: contract-tokenId
func (j *FloorAskJob) Name() string {
	return fmt.Sprintf("%s-%s", j.ContractHex(), j.TokenID.String())
}

// Payload converts the job back into its wire format
func (j *FloorAskJob) Payload() FloorAskJobPayload {
	payload := FloorAskJobPayload{
		Kind:     string(j.Kind),
		Contract: j.ContractHex(),
		TokenID:  j.TokenID.String(),
	}
	if j.TxHash != nil {
		hash := j.TxHash.Hex()
		payload.TxHash = &hash
	}
	if j.TxTimestamp != nil {
		ts := *j.TxTimestamp
		payload.TxTimestamp = &ts
	}
	return payload
}

// Trigger returns the audit annotation carried by this job
func (j *FloorAskJob) Trigger() FloorAskTrigger {
	return FloorAskTrigger{
		Kind:        j.Kind,
		Contract:    j.Contract,
		TokenID:     j.TokenID,
		TxHash:      j.TxHash,
		TxTimestamp: j.TxTimestamp,
	}
}

// FloorAskTrigger describes what caused a recompute. It annotates audit rows
// and never influences the computed aggregate.
type FloorAskTrigger struct {
	Kind        FloorAskEventKind
	Contract    common.Address
	TokenID     *big.Int
	TxHash      *common.Hash
	TxTimestamp *int64
}

// ValidityWindow is the [From, To) interval in which an order is live. A nil To never expires.
type ValidityWindow struct {
	From time.Time  `json:"from"`
	To   *time.Time `json:"to,omitempty"`
}

// Contains reports whether t falls inside the window
func (w ValidityWindow) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	return w.To == nil || t.Before(*w.To)
}

// FloorAsk is a normalized floor ask aggregate. The zero value is the empty aggregate.
type FloorAsk struct {
	OrderID  *string
	Value    decimal.NullDecimal
	Maker    *common.Address
	SourceID *int
	Validity *ValidityWindow
}

// IsEmpty reports whether no order backs the aggregate
func (f FloorAsk) IsEmpty() bool {
	return f.OrderID == nil && !f.Value.Valid
}

// Differs compares (orderId, value) with NULL distinct from any concrete value
func (f FloorAsk) Differs(other FloorAsk) bool {
	if (f.OrderID == nil) != (other.OrderID == nil) {
		return true
	}
	if f.OrderID != nil && *f.OrderID != *other.OrderID {
		return true
	}
	if f.Value.Valid != other.Value.Valid {
		return true
	}
	return f.Value.Valid && !f.Value.Decimal.Equal(other.Value.Decimal)
}

// CollectionFloorAsk is the stored aggregate of a collection together with its transition version
type CollectionFloorAsk struct {
	CollectionID string
	FloorAsk     FloorAsk
	Version      int64
	UpdatedAt    time.Time
}

// StaleFloorAsk identifies a collection whose cached floor is out of date: its floor order
// stopped being live, or a cheaper order became live after the floor was written.
// OrderID is the expired floor order or the newly live cheaper order. Contract and TokenID
// name a token of the collection to attach the recompute job to.
type StaleFloorAsk struct {
	CollectionID string
	OrderID      string
	Contract     common.Address
	TokenID      *big.Int
}

// FailedJob is a job parked after exhausting its delivery attempts.
// RawPayload keeps the original bytes when the payload could not be decoded.
type FailedJob struct {
	Sequence   uint64             `json:"sequence"`
	Name       string             `json:"name"`
	Payload    FloorAskJobPayload `json:"payload"`
	RawPayload string             `json:"raw_payload,omitempty"`
	Error      string             `json:"error"`
	Attempts   uint64             `json:"attempts"`
	FailedAt   time.Time          `json:"failed_at"`
}

// CompletedJob is a short-lived record of a successfully processed job
type CompletedJob struct {
	Name        string             `json:"name"`
	Payload     FloorAskJobPayload `json:"payload"`
	Attempts    uint64             `json:"attempts"`
	CompletedAt time.Time          `json:"completed_at"`
}
