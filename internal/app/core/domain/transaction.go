package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action 交易代碼，直接使用日誌中的字母
type Action byte

const (
	ActionAddCustomer   Action = 'A'
	ActionAddChecking   Action = 'C'
	ActionAddSavings    Action = 'S'
	ActionRename        Action = 'N'
	ActionPrimeRate     Action = 'P'
	ActionLinkAccount   Action = 'L'
	ActionDeposit       Action = 'D'
	ActionWithdraw      Action = 'W'
	ActionCheck         Action = 'K'
	ActionTransfer      Action = 'X'
	ActionSwap          Action = 'E'
	ActionMonthEnd      Action = 'M'
	ActionChangeRate    Action = 'R'
	ActionDeleteAccount Action = 'Y'
)

// Known 是否為可處理的交易代碼
func (a Action) Known() bool {
	switch a {
	case ActionAddCustomer, ActionAddChecking, ActionAddSavings, ActionRename,
		ActionPrimeRate, ActionLinkAccount, ActionDeposit, ActionWithdraw,
		ActionCheck, ActionTransfer, ActionSwap, ActionMonthEnd,
		ActionChangeRate, ActionDeleteAccount:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(rune(a))
}

// Outcome 單筆交易的處理結果
type Outcome uint8

const (
	// 已套用 (成功)
	OutcomeApplied Outcome = iota + 1
	// 扣款類交易失敗 (餘額不足、超過次數、儲蓄帳戶開支票...)，可能已扣罰金
	OutcomeDeclined
	// 找不到客戶或帳戶等前置條件不成立，狀態未變更
	OutcomeIgnored
	// 不認得的交易代碼，不計入交易數
	OutcomeUnrecognized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDeclined:
		return "declined"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// MarshalText 讓 Outcome 在 JSON 中以字串呈現
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Record 一行交易日誌解析後的結果，注意欄位排序以避免 Padding
type Record struct {
	// Sequence: 由 Ledger 分配的順序號 (1, 2, 3...)，不認得的交易不分配
	Sequence uint64
	// Line: 在來源檔案中的行號
	Line int
	// CustomerID: 發起交易的客戶
	CustomerID uint
	// OtherCustomerID: L 的來源客戶、X 的收款客戶、K 的收款客戶 (0 代表全域)
	OtherCustomerID uint
	// CheckNumber: 支票號碼 (僅 K)
	CheckNumber uint
	// Amount: D/W/X/K 的金額
	Amount decimal.Decimal
	// Rate: C/S/R 的年利率或 P 的基準利率
	Rate decimal.Decimal
	// Name: A/N 的客戶名稱，K 的受款人名稱
	Name string
	// TransactionID: 外部追蹤號 (UUID)
	TransactionID uuid.UUID
	Slot          Slot
	OtherSlot     Slot
	Action        Action
}

// JournalEntry 寫入稽核日誌的一筆紀錄
type JournalEntry struct {
	Sequence      uint64    `json:"sequence"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Line          int       `json:"line"`
	Action        string    `json:"action"`
	CustomerID    uint      `json:"customer_id"`
	Outcome       Outcome   `json:"outcome"`
}

// NewJournalEntry 由處理完的交易建立稽核紀錄
func NewJournalEntry(rec *Record, outcome Outcome) JournalEntry {
	return JournalEntry{
		Sequence:      rec.Sequence,
		TransactionID: rec.TransactionID,
		Line:          rec.Line,
		Action:        rec.Action.String(),
		CustomerID:    rec.CustomerID,
		Outcome:       outcome,
	}
}
