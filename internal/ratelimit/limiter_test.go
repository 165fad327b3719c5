package ratelimit_test

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-floor-indexer/internal/mocks"
	"github.com/feral-file/ff-floor-indexer/internal/ratelimit"
)

type fakeNow struct {
	t time.Time
}

func setupLimiter(t *testing.T, cfg ratelimit.Config) (ratelimit.Limiter, *fakeNow) {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	now := &fakeNow{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	clock.EXPECT().Now().DoAndReturn(func() time.Time { return now.t }).AnyTimes()

	l, err := ratelimit.NewLimiter(cfg, clock)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l, now
}

func TestNewLimiter_Disabled(t *testing.T) {
	l, err := ratelimit.NewLimiter(ratelimit.Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestNewLimiter_InvalidConfig(t *testing.T) {
	_, err := ratelimit.NewLimiter(ratelimit.Config{RequestsPerSecond: -1}, nil)
	assert.Error(t, err)

	_, err = ratelimit.NewLimiter(ratelimit.Config{RequestsPerSecond: 1, Burst: -2}, nil)
	assert.Error(t, err)
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, now := setupLimiter(t, ratelimit.Config{RequestsPerSecond: 2, Burst: 3})

	for i := 0; i < 3; i++ {
		ok, wait := l.Allow("alice")
		assert.True(t, ok, "request %d", i)
		assert.Zero(t, wait)
	}

	ok, wait := l.Allow("alice")
	assert.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)

	// a denied request does not consume the next token
	now.t = now.t.Add(500 * time.Millisecond)
	ok, _ = l.Allow("alice")
	assert.True(t, ok)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := setupLimiter(t, ratelimit.Config{RequestsPerSecond: 1, Burst: 1})

	ok, _ := l.Allow("alice")
	assert.True(t, ok)
	ok, _ = l.Allow("alice")
	assert.False(t, ok)

	ok, _ = l.Allow("bob")
	assert.True(t, ok)
}

func TestLimiter_IdleBucketsEvicted(t *testing.T) {
	l, now := setupLimiter(t, ratelimit.Config{RequestsPerSecond: 0.001, Burst: 1, IdleTTL: time.Minute})

	ok, _ := l.Allow("alice")
	assert.True(t, ok)
	ok, _ = l.Allow("alice")
	assert.False(t, ok)

	// at this rate the bucket would need ~16m to refill; eviction resets it
	now.t = now.t.Add(2 * time.Minute)
	ok, _ = l.Allow("alice")
	assert.True(t, ok)
}
