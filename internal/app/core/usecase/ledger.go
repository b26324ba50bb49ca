package usecase

import (
	"context"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// 不分 Deposit/Withdraw，直接看 rec.Action 決定
	// 餘額不足等業務失敗以 Outcome 表示，error 只代表無法繼續重放 (如稽核日誌寫入失敗)
	PostTransaction(ctx context.Context, rec *domain.Record) (domain.Outcome, error)
	// Snapshot 取得目前帳本狀態的唯讀視圖
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	// TransactionCount 已計入的交易數
	TransactionCount() uint64
}

// LogSource 依檔案順序提供交易紀錄，結束時回傳 io.EOF
type LogSource interface {
	Next(ctx context.Context) (*domain.Record, error)
}

// Reporter 消費重放結束後的帳本狀態
type Reporter interface {
	Report(ctx context.Context, snapshot *domain.Snapshot) error
}
