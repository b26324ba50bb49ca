package mysql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-audit-ledger/pkg/mysql"
)

// 每次 INSERT 的筆數
const batchSize = 500

// sqlRun 對應資料庫的 audit_runs 表，一次重放一筆
type sqlRun struct {
	ID               []byte          `gorm:"column:id;type:binary(16);primaryKey"` // 對應 Snapshot.RunID
	PrimeRate        decimal.Decimal `gorm:"type:decimal(12,4)"`
	TransactionCount uint64
	TotalTender      int64 // 單位: 分
	GeneratedAt      time.Time
	CreatedAt        int64 `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlRun) TableName() string {
	return "audit_runs"
}

// sqlCustomer 對應資料庫的 audit_customers 表
type sqlCustomer struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	RunID      []byte `gorm:"column:run_id;type:binary(16);uniqueIndex:idx_run_customer"`
	CustomerID uint   `gorm:"uniqueIndex:idx_run_customer"`
	Name       string `gorm:"size:255"`
}

func (*sqlCustomer) TableName() string {
	return "audit_customers"
}

// sqlAccount 對應資料庫的 audit_accounts 表，每個 (客戶, slot) 一筆
type sqlAccount struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	RunID      []byte `gorm:"column:run_id;type:binary(16);index"`
	CustomerID uint   `gorm:"index"`
	Slot       uint8
	AccountID  uint32
	Kind       string          `gorm:"size:2"`
	Balance    int64           // 單位: 分
	APR        decimal.Decimal `gorm:"column:apr;type:decimal(8,2)"`
	Owner      uint
	Linked     string `gorm:"size:32"`
}

func (*sqlAccount) TableName() string {
	return "audit_accounts"
}

// SnapshotExporter 將重放結果寫入 MySQL，實作 usecase.Reporter
type SnapshotExporter struct {
	client *mysql.Client
	logger *slog.Logger
}

func NewSnapshotExporter(client *mysql.Client, logger *slog.Logger) *SnapshotExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotExporter{
		client: client,
		logger: logger,
	}
}

// Migrate 建立或更新資料表
func (e *SnapshotExporter) Migrate(ctx context.Context) error {
	return e.client.DB().WithContext(ctx).AutoMigrate(&sqlRun{}, &sqlCustomer{}, &sqlAccount{})
}

// Report 在同一個 Transaction 中寫入 run、客戶與帳戶
//
// 同一個 RunID 重複匯出時不會重複寫入。
func (e *SnapshotExporter) Report(ctx context.Context, snapshot *domain.Snapshot) error {
	run, customers, accounts := toRows(snapshot)

	err := e.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&run)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			e.logger.Info("snapshot already exported", "run_id", snapshot.RunID)
			return nil
		}
		if len(customers) > 0 {
			if err := tx.CreateInBatches(customers, batchSize).Error; err != nil {
				return err
			}
		}
		if len(accounts) > 0 {
			if err := tx.CreateInBatches(accounts, batchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export snapshot %s: %w", snapshot.RunID, err)
	}

	e.logger.Info("snapshot exported",
		"run_id", snapshot.RunID,
		"customers", len(customers),
		"accounts", len(accounts),
	)
	return nil
}

// CountAccounts 某次 run 匯出的帳戶筆數
func (e *SnapshotExporter) CountAccounts(ctx context.Context, runID []byte) (int64, error) {
	var n int64
	err := e.client.DB().WithContext(ctx).Model(&sqlAccount{}).Where("run_id = ?", runID).Count(&n).Error
	return n, err
}

// toRows 將 Snapshot 轉為資料列
func toRows(snapshot *domain.Snapshot) (sqlRun, []sqlCustomer, []sqlAccount) {
	runID := snapshot.RunID[:]
	run := sqlRun{
		ID:               runID,
		PrimeRate:        snapshot.PrimeRate,
		TransactionCount: snapshot.TransactionCount,
		TotalTender:      int64(snapshot.TotalTender),
		GeneratedAt:      snapshot.GeneratedAt,
	}

	customers := make([]sqlCustomer, 0, len(snapshot.Customers))
	accounts := make([]sqlAccount, 0, len(snapshot.Customers)*domain.MaxAccounts)
	for _, customer := range snapshot.Customers {
		customers = append(customers, sqlCustomer{
			RunID:      runID,
			CustomerID: customer.ID,
			Name:       customer.Name,
		})
		for _, account := range customer.Accounts {
			accounts = append(accounts, sqlAccount{
				RunID:      runID,
				CustomerID: customer.ID,
				Slot:       uint8(account.Slot),
				AccountID:  uint32(account.AccountID),
				Kind:       account.Kind.String(),
				Balance:    int64(account.Balance),
				APR:        account.APR,
				Owner:      account.Owner,
				Linked:     account.Linked,
			})
		}
	}
	return run, customers, accounts
}

var _ usecase.Reporter = (*SnapshotExporter)(nil)
