package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
)

// Blocklist holds contracts whose orders never count towards a collection floor ask
//
//go:generate mockgen -source=blocklist.go -destination=../mocks/blocklist.go -package=mocks -mock_names=Blocklist=MockBlocklist
type Blocklist interface {
	IsBlocked(contract common.Address) bool
	// Contracts returns the blocked contracts in ascending order
	Contracts() []common.Address
}

// BlocklistData is the blocklist file format: a JSON array of 0x-prefixed addresses
type BlocklistData []string

type blocklist struct {
	contracts map[common.Address]struct{}
}

// LoadBlocklist reads the blocklist file. An empty path yields an empty blocklist.
func LoadBlocklist(filePath string, jsonAdapter adapter.JSON) (Blocklist, error) {
	if filePath == "" {
		return &blocklist{contracts: map[common.Address]struct{}{}}, nil
	}

	data, err := os.ReadFile(filePath) //nolint:gosec,G304 // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read blocklist file: %w", err)
	}

	var entries BlocklistData
	if err := jsonAdapter.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse blocklist JSON: %w", err)
	}

	return NewBlocklist(entries)
}

// NewBlocklist builds a blocklist from addresses in any letter case
func NewBlocklist(addresses []string) (Blocklist, error) {
	b := &blocklist{contracts: make(map[common.Address]struct{}, len(addresses))}
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid blocklist address %q", addr)
		}
		b.contracts[common.HexToAddress(addr)] = struct{}{}
	}
	return b, nil
}

func (b *blocklist) IsBlocked(contract common.Address) bool {
	if b == nil {
		return false
	}
	_, ok := b.contracts[contract]
	return ok
}

func (b *blocklist) Contracts() []common.Address {
	if b == nil || len(b.contracts) == 0 {
		return nil
	}

	contracts := make([]common.Address, 0, len(b.contracts))
	for contract := range b.contracts {
		contracts = append(contracts, contract)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Cmp(contracts[j]) < 0
	})
	return contracts
}
