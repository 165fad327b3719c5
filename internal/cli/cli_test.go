package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-floor-indexer/internal/cli"
	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/floorask"
	"github.com/feral-file/ff-floor-indexer/internal/mocks"
	"github.com/feral-file/ff-floor-indexer/internal/store/schema"
)

// testCLIMocks contains the mocks backing the services a command receives
type testCLIMocks struct {
	ctrl   *gomock.Controller
	queue  *mocks.MockJobQueue
	failed *mocks.MockFailedJobs
	store  *mocks.MockStore
	worker *mocks.MockFloorAskWorker

	needs  []cli.Need
	closed int
}

func setupTestCLI(t *testing.T) *testCLIMocks {
	ctrl := gomock.NewController(t)
	return &testCLIMocks{
		ctrl:   ctrl,
		queue:  mocks.NewMockJobQueue(ctrl),
		failed: mocks.NewMockFailedJobs(ctrl),
		store:  mocks.NewMockStore(ctrl),
		worker: mocks.NewMockFloorAskWorker(ctrl),
	}
}

func (tm *testCLIMocks) factory(_ context.Context, _ *cli.RootOptions, need cli.Need) (*cli.Services, error) {
	tm.needs = append(tm.needs, need)
	return &cli.Services{
		Queue:  tm.queue,
		Failed: tm.failed,
		Store:  tm.store,
		Worker: tm.worker,
		Close:  func() { tm.closed++ },
	}, nil
}

func execute(t *testing.T, factory cli.ServicesFactory, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand(factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const testContract = "0x1111111111111111111111111111111111111111"

func TestRoot_InvalidFormat(t *testing.T) {
	tm := setupTestCLI(t)

	_, err := execute(t, tm.factory, "failed", "list", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Empty(t, tm.needs)
}

func TestRoot_FactoryErrorIsCommandError(t *testing.T) {
	factory := func(context.Context, *cli.RootOptions, cli.Need) (*cli.Services, error) {
		return nil, errors.New("nats: no servers available")
	}

	_, err := execute(t, factory, "failed", "list")
	require.Error(t, err)
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
	assert.Contains(t, err.Error(), "no servers available")
}

func TestEnqueue_MultipleTokens(t *testing.T) {
	tm := setupTestCLI(t)

	tm.queue.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, jobs []domain.FloorAskJob) error {
			require.Len(t, jobs, 2)
			assert.Equal(t, domain.FloorAskEventKindSale, jobs[0].Kind)
			assert.Equal(t, "1", jobs[0].TokenID.String())
			assert.Equal(t, "2", jobs[1].TokenID.String())
			require.NotNil(t, jobs[0].TxTimestamp)
			assert.Equal(t, int64(1700000000), *jobs[0].TxTimestamp)
			assert.Nil(t, jobs[0].TxHash)
			return nil
		})

	out, err := execute(t, tm.factory, "enqueue",
		"--kind", "sale", "--contract", testContract,
		"--token-id", "1", "--token-id", "2",
		"--tx-timestamp", "1700000000")
	require.NoError(t, err)
	assert.Contains(t, out, "Enqueued 2 job(s)")
	assert.Contains(t, out, testContract+"-2")
	assert.Equal(t, []cli.Need{cli.NeedQueue}, tm.needs)
	assert.Equal(t, 1, tm.closed)
}

func TestEnqueue_JSONOutput(t *testing.T) {
	tm := setupTestCLI(t)
	tm.queue.EXPECT().Enqueue(gomock.Any(), gomock.Len(1)).Return(nil)

	out, err := execute(t, tm.factory, "enqueue", "--contract", testContract, "--token-id", "9", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Enqueued int      `json:"enqueued"`
		Names    []string `json:"names"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Enqueued)
	assert.Equal(t, []string{testContract + "-9"}, resp.Names)
}

func TestEnqueue_InvalidInputNeverConnects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"--kind", "mint", "--contract", testContract, "--token-id", "1"}},
		{"bad contract", []string{"--contract", "0x1234", "--token-id", "1"}},
		{"negative token", []string{"--contract", testContract, "--token-id=-5"}},
		{"bad tx hash", []string{"--contract", testContract, "--token-id", "1", "--tx-hash", "0xzz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestCLI(t)

			_, err := execute(t, tm.factory, append([]string{"enqueue"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
			assert.Empty(t, tm.needs)
		})
	}
}

func TestEnqueue_QueueError(t *testing.T) {
	tm := setupTestCLI(t)
	tm.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("publish timeout"))

	_, err := execute(t, tm.factory, "enqueue", "--contract", testContract, "--token-id", "1")
	require.Error(t, err)
	assert.Equal(t, cli.ExitFailure, cli.GetExitCode(err))
	assert.Equal(t, 1, tm.closed)
}

func TestRecompute_PrintsResult(t *testing.T) {
	tm := setupTestCLI(t)
	orderID := "order-7"

	tm.worker.EXPECT().
		Recompute(gomock.Any(), "c1", domain.FloorAskTrigger{Kind: domain.FloorAskEventKindRevalidation}).
		Return(&floorask.Result{
			CollectionID: "c1",
			Transitions:  1,
			FloorAsk: domain.FloorAsk{
				OrderID: &orderID,
				Value:   decimal.NewNullDecimal(decimal.RequireFromString("1.5")),
			},
		}, nil)

	out, err := execute(t, tm.factory, "recompute", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "order-7")
	assert.Contains(t, out, "1.5")
	assert.Equal(t, []cli.Need{cli.NeedStore}, tm.needs)
}

func TestRecompute_EmptyFloorJSON(t *testing.T) {
	tm := setupTestCLI(t)

	tm.worker.EXPECT().
		Recompute(gomock.Any(), "c1", domain.FloorAskTrigger{Kind: domain.FloorAskEventKindExpiry}).
		Return(&floorask.Result{CollectionID: "c1"}, nil)

	out, err := execute(t, tm.factory, "recompute", "c1", "--kind", "expiry", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"collection_id":"c1","transitions":0,"order_id":null,"value":null}`, out)
}

func TestRecompute_Errors(t *testing.T) {
	tm := setupTestCLI(t)

	_, err := execute(t, tm.factory, "recompute", "c1", "--kind", "mint")
	require.Error(t, err)
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))

	_, err = execute(t, tm.factory, "recompute")
	require.Error(t, err)

	tm.worker.EXPECT().
		Recompute(gomock.Any(), "gone", gomock.Any()).
		Return(nil, domain.ErrCollectionNotFound)

	_, err = execute(t, tm.factory, "recompute", "gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
	assert.Equal(t, cli.ExitFailure, cli.GetExitCode(err))
}

func TestFailedList(t *testing.T) {
	tm := setupTestCLI(t)
	failedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tm.failed.EXPECT().
		ListFailed(gomock.Any(), 5).
		Return([]domain.FailedJob{
			{
				Sequence: 12,
				Name:     testContract + "-1",
				Payload:  domain.FloorAskJobPayload{Kind: "sale", Contract: testContract, TokenID: "1"},
				Error:    "deadlock detected",
				Attempts: 10,
				FailedAt: failedAt,
			},
		}, nil)

	out, err := execute(t, tm.factory, "failed", "list", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "deadlock detected")
	assert.Contains(t, out, "2026-03-01T12:00:00Z")
	assert.Equal(t, []cli.Need{cli.NeedQueue}, tm.needs)
}

func TestFailedRetry(t *testing.T) {
	tm := setupTestCLI(t)

	tm.failed.EXPECT().
		RetryFailed(gomock.Any(), uint64(12)).
		Return(&domain.FailedJob{Sequence: 12, Name: testContract + "-1"}, nil)

	out, err := execute(t, tm.factory, "failed", "retry", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Re-enqueued "+testContract+"-1")
}

func TestFailedRetry_Errors(t *testing.T) {
	tm := setupTestCLI(t)

	for _, seq := range []string{"abc", "0", "18446744073709551616"} {
		_, err := execute(t, tm.factory, "failed", "retry", seq)
		require.Error(t, err, seq)
		assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err), seq)
	}
	assert.Empty(t, tm.needs)

	tm.failed.EXPECT().RetryFailed(gomock.Any(), uint64(99)).Return(nil, domain.ErrFailedJobNotFound)

	_, err := execute(t, tm.factory, "failed", "retry", "99")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFailedJobNotFound)
}

func TestEvents(t *testing.T) {
	tm := setupTestCLI(t)
	contract := testContract
	tokenID := "1"
	orderID := "order-2"

	tm.store.EXPECT().
		GetCollectionFloorAskEvents(gomock.Any(), "c1", 20).
		Return([]schema.CollectionFloorSellEvent{
			{
				Kind:          "new-order",
				CollectionID:  "c1",
				Contract:      &contract,
				TokenID:       &tokenID,
				OrderID:       &orderID,
				Price:         decimal.NewNullDecimal(decimal.RequireFromString("80")),
				PreviousPrice: decimal.NewNullDecimal(decimal.RequireFromString("100")),
				Version:       2,
				CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				Kind:         "expiry",
				CollectionID: "c1",
				Version:      1,
				CreatedAt:    time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
			},
		}, nil)

	out, err := execute(t, tm.factory, "events", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "order-2")
	assert.Contains(t, out, testContract+":1")
	assert.Contains(t, out, "expiry")
	assert.Equal(t, []cli.Need{cli.NeedStore}, tm.needs)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, cli.ExitSuccess, cli.GetExitCode(nil))
	assert.Equal(t, cli.ExitFailure, cli.GetExitCode(errors.New("boom")))

	wrapped := cli.WrapExitError(cli.ExitCommandError, "bad input", errors.New("boom"))
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(wrapped))
	assert.Equal(t, "bad input: boom", wrapped.Error())
}
