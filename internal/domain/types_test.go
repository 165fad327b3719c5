package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestFloorAskJobPayload_Parse(t *testing.T) {
	validHash := "0x" + "ab" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd"

	tests := []struct {
		name    string
		payload FloorAskJobPayload
		wantErr bool
	}{
		{
			name: "minimal payload",
			payload: FloorAskJobPayload{
				Kind:     "new-order",
				Contract: "0x1111111111111111111111111111111111111111",
				TokenID:  "1",
			},
		},
		{
			name: "full payload",
			payload: FloorAskJobPayload{
				Kind:        "sale",
				Contract:    "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
				TokenID:     "115792089237316195423570985008687907853269984665640564039457584007913129639935",
				TxHash:      strPtr(validHash),
				TxTimestamp: int64Ptr(1700000000),
			},
		},
		{
			name:    "unknown kind",
			payload: FloorAskJobPayload{Kind: "transfer", Contract: "0x1111111111111111111111111111111111111111", TokenID: "1"},
			wantErr: true,
		},
		{
			name:    "uppercase contract",
			payload: FloorAskJobPayload{Kind: "sale", Contract: "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD", TokenID: "1"},
			wantErr: true,
		},
		{
			name:    "contract without prefix",
			payload: FloorAskJobPayload{Kind: "sale", Contract: "1111111111111111111111111111111111111111", TokenID: "1"},
			wantErr: true,
		},
		{
			name:    "token id with leading zero",
			payload: FloorAskJobPayload{Kind: "sale", Contract: "0x1111111111111111111111111111111111111111", TokenID: "01"},
			wantErr: true,
		},
		{
			name:    "token id above uint256",
			payload: FloorAskJobPayload{Kind: "sale", Contract: "0x1111111111111111111111111111111111111111", TokenID: "115792089237316195423570985008687907853269984665640564039457584007913129639936"},
			wantErr: true,
		},
		{
			name:    "short tx hash",
			payload: FloorAskJobPayload{Kind: "sale", Contract: "0x1111111111111111111111111111111111111111", TokenID: "1", TxHash: strPtr("0xdead")},
			wantErr: true,
		},
		{
			name:    "negative tx timestamp",
			payload: FloorAskJobPayload{Kind: "sale", Contract: "0x1111111111111111111111111111111111111111", TokenID: "1", TxTimestamp: int64Ptr(-1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := tt.payload.Parse()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidJob))
				assert.Nil(t, job)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.payload, job.Payload())
		})
	}
}

func TestFloorAskJob_Name(t *testing.T) {
	job, err := FloorAskJobPayload{
		Kind:     "cancel",
		Contract: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
		TokenID:  "42",
	}.Parse()
	require.NoError(t, err)

	assert.Equal(t, "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd-42", job.Name())
}

func TestValidityWindow_Contains(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	bounded := ValidityWindow{From: from, To: &to}
	open := ValidityWindow{From: from}

	assert.False(t, bounded.Contains(from.Add(-time.Second)))
	assert.True(t, bounded.Contains(from))
	assert.True(t, bounded.Contains(to.Add(-time.Nanosecond)))
	assert.False(t, bounded.Contains(to))
	assert.True(t, open.Contains(from.Add(24*365*time.Hour)))
}

func TestFloorAsk_Differs(t *testing.T) {
	one := decimal.NewNullDecimal(decimal.RequireFromString("1000000000000000000"))
	oneAgain := decimal.NewNullDecimal(decimal.RequireFromString("1000000000000000000.0"))
	two := decimal.NewNullDecimal(decimal.RequireFromString("2000000000000000000"))

	tests := []struct {
		name string
		a, b FloorAsk
		want bool
	}{
		{name: "both empty", a: FloorAsk{}, b: FloorAsk{}, want: false},
		{name: "empty vs concrete", a: FloorAsk{}, b: FloorAsk{OrderID: strPtr("o1"), Value: one}, want: true},
		{name: "concrete vs empty", a: FloorAsk{OrderID: strPtr("o1"), Value: one}, b: FloorAsk{}, want: true},
		{name: "same order same value", a: FloorAsk{OrderID: strPtr("o1"), Value: one}, b: FloorAsk{OrderID: strPtr("o1"), Value: oneAgain}, want: false},
		{name: "same order new value", a: FloorAsk{OrderID: strPtr("o1"), Value: one}, b: FloorAsk{OrderID: strPtr("o1"), Value: two}, want: true},
		{name: "different order same value", a: FloorAsk{OrderID: strPtr("o1"), Value: one}, b: FloorAsk{OrderID: strPtr("o2"), Value: one}, want: true},
		{name: "value null only on one side", a: FloorAsk{OrderID: strPtr("o1")}, b: FloorAsk{OrderID: strPtr("o1"), Value: one}, want: true},
		{name: "source ignored", a: FloorAsk{OrderID: strPtr("o1"), Value: one, SourceID: new(int)}, b: FloorAsk{OrderID: strPtr("o1"), Value: one}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Differs(tt.b))
			assert.Equal(t, tt.want, tt.b.Differs(tt.a))
		})
	}
}

func TestParseFloorAskEventKind(t *testing.T) {
	for _, kind := range FloorAskEventKinds {
		parsed, err := ParseFloorAskEventKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseFloorAskEventKind("mint")
	assert.ErrorIs(t, err, ErrUnknownEventKind)
}
