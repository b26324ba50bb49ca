package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountView 帳戶在某位客戶名下的唯讀視圖
type AccountView struct {
	Slot      Slot            `json:"slot"`
	AccountID AccountID       `json:"account_id"`
	Kind      AccountKind     `json:"kind"`
	Balance   Money           `json:"balance"`
	APR       decimal.Decimal `json:"apr"`
	Owner     uint            `json:"owner"`
	// Linked: "No", "Yes: Master" 或 "Yes-(owner) P|S"
	Linked string `json:"linked"`
}

// CustomerView 客戶的唯讀視圖
type CustomerView struct {
	ID       uint          `json:"id"`
	Name     string        `json:"name"`
	Accounts []AccountView `json:"accounts"`
}

// Account 取得 slot 上的帳戶視圖
func (v CustomerView) Account(slot Slot) (AccountView, bool) {
	for _, account := range v.Accounts {
		if account.Slot == slot {
			return account, true
		}
	}
	return AccountView{}, false
}

// Snapshot 一次重放結束後的帳本狀態，交給 Reporter 使用
type Snapshot struct {
	RunID            uuid.UUID       `json:"run_id"`
	GeneratedAt      time.Time       `json:"generated_at"`
	PrimeRate        decimal.Decimal `json:"prime_rate"`
	TransactionCount uint64          `json:"transaction_count"`
	TotalTender      Money           `json:"total_tender"`
	// Customers 依客戶編號排序
	Customers []CustomerView `json:"customers"`
}

// SortCustomers 依客戶編號排序
func (s *Snapshot) SortCustomers() {
	sort.Slice(s.Customers, func(i, j int) bool {
		return s.Customers[i].ID < s.Customers[j].ID
	})
}

// Customer 依編號查詢客戶
func (s *Snapshot) Customer(id uint) (CustomerView, bool) {
	i := sort.Search(len(s.Customers), func(i int) bool {
		return s.Customers[i].ID >= id
	})
	if i < len(s.Customers) && s.Customers[i].ID == id {
		return s.Customers[i], true
	}
	return CustomerView{}, false
}

// MarshalText 帳戶種類以 "C" / "S" 呈現
func (k AccountKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MarshalJSON 金額以兩位小數的字串呈現
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}
