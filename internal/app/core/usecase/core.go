package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
)

// ReplayStats 一次重放的統計
type ReplayStats struct {
	Records      int           `json:"records"`
	Applied      int           `json:"applied"`
	Declined     int           `json:"declined"`
	Ignored      int           `json:"ignored"`
	Unrecognized int           `json:"unrecognized"`
	Duration     time.Duration `json:"duration"`
}

func (s *ReplayStats) add(outcome domain.Outcome) {
	s.Records++
	switch outcome {
	case domain.OutcomeApplied:
		s.Applied++
	case domain.OutcomeDeclined:
		s.Declined++
	case domain.OutcomeIgnored:
		s.Ignored++
	case domain.OutcomeUnrecognized:
		s.Unrecognized++
	}
}

// CoreUseCase 是核心業務邏輯層
type CoreUseCase struct {
	ledger Ledger
	logger *slog.Logger
}

func NewCoreUseCase(ledger Ledger, logger *slog.Logger) *CoreUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoreUseCase{
		ledger: ledger,
		logger: logger,
	}
}

// Replay 依序讀取 src 的每筆交易並交給 Ledger 處理
//
// 參數:
//
//	ctx: 上下文，取消時停止重放
//	src: 交易來源
//
// 回傳:
//
//	ReplayStats: 已處理交易的統計 (發生錯誤時為錯誤前的統計)
//	error: 讀取或處理錯誤
func (c *CoreUseCase) Replay(ctx context.Context, src LogSource) (stats ReplayStats, err error) {
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read record: %w", err)
		}

		outcome, err := c.ledger.PostTransaction(ctx, rec)
		if err != nil {
			return stats, fmt.Errorf("post transaction at line %d: %w", rec.Line, err)
		}
		stats.add(outcome)
	}

	c.logger.Info("replay finished",
		"records", stats.Records,
		"applied", stats.Applied,
		"declined", stats.Declined,
		"ignored", stats.Ignored,
		"unrecognized", stats.Unrecognized,
		"transactions", c.ledger.TransactionCount(),
		"duration", time.Since(start),
	)
	return stats, nil
}

// Snapshot 取得帳本狀態
func (c *CoreUseCase) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	return c.ledger.Snapshot(ctx)
}

// Report 將目前帳本狀態交給每個 Reporter
func (c *CoreUseCase) Report(ctx context.Context, reporters ...Reporter) error {
	snapshot, err := c.ledger.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}
	for _, reporter := range reporters {
		if err := reporter.Report(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}
