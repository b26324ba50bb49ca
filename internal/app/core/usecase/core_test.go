package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/adapter/in/logfile"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingReporter struct {
	snapshots []*domain.Snapshot
	err       error
}

func (r *recordingReporter) Report(ctx context.Context, snapshot *domain.Snapshot) error {
	r.snapshots = append(r.snapshots, snapshot)
	return r.err
}

type failingSource struct{}

func (failingSource) Next(ctx context.Context) (*domain.Record, error) {
	return nil, errors.New("broken pipe")
}

func TestCoreUseCase_Replay(t *testing.T) {
	log := strings.Join([]string{
		"A 1 John",
		"A 2 Max",
		"C 1 2",
		"S 1 0.2",
		"C 2 12",
		"K 1 0 1 456 2 0 Max",
		"D 9 0 10",
		"Z 1",
	}, "\n")
	bank := memory.NewBank(nil, discard)
	uc := usecase.NewCoreUseCase(bank, discard)

	stats, err := uc.Replay(context.Background(),
		logfile.NewReader(strings.NewReader(log), logfile.WithAllowUnknownActions(true)))
	require.NoError(t, err)

	assert.Equal(t, 8, stats.Records)
	assert.Equal(t, 5, stats.Applied)
	assert.Equal(t, 1, stats.Declined)
	assert.Equal(t, 1, stats.Ignored)
	assert.Equal(t, 1, stats.Unrecognized)
	assert.Equal(t, uint64(7), bank.TransactionCount())
}

func TestCoreUseCase_ReplayStopsOnMalformedRecord(t *testing.T) {
	bank := memory.NewBank(nil, discard)
	uc := usecase.NewCoreUseCase(bank, discard)

	stats, err := uc.Replay(context.Background(), logfile.NewReader(strings.NewReader("A 1 John\nD 1\nA 2 Max\n")))

	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Equal(t, 1, stats.Records)
	_, ok := bank.Customer(2)
	assert.False(t, ok)
}

func TestCoreUseCase_ReplaySourceError(t *testing.T) {
	uc := usecase.NewCoreUseCase(memory.NewBank(nil, discard), discard)

	_, err := uc.Replay(context.Background(), failingSource{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestCoreUseCase_ReplayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := usecase.NewCoreUseCase(memory.NewBank(nil, discard), discard)

	_, err := uc.Replay(ctx, logfile.NewReader(strings.NewReader("A 1 John\n")))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoreUseCase_Report(t *testing.T) {
	bank := memory.NewBank(nil, discard)
	uc := usecase.NewCoreUseCase(bank, discard)
	_, err := uc.Replay(context.Background(), logfile.NewReader(strings.NewReader("A 1 John\nC 1 2\nD 1 0 10\n")))
	require.NoError(t, err)

	first, second := &recordingReporter{}, &recordingReporter{}
	require.NoError(t, uc.Report(context.Background(), first, second))

	require.Len(t, first.snapshots, 1)
	require.Len(t, second.snapshots, 1)
	assert.Equal(t, domain.Dollars(10), first.snapshots[0].TotalTender)

	failing := &recordingReporter{err: errors.New("boom")}
	assert.Error(t, uc.Report(context.Background(), failing, first))
	assert.Len(t, first.snapshots, 1)
}
