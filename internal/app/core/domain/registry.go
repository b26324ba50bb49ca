package domain

import "github.com/shopspring/decimal"

// Registry 集中保存所有帳戶
//
// Customer 只保存 AccountID，實體帳戶只存在於此處，
// 連結帳戶因此自然共享同一份狀態。
type Registry struct {
	accounts []*Account
}

func NewRegistry() *Registry {
	return &Registry{
		accounts: make([]*Account, 0, 16),
	}
}

// Open 建立新帳戶並回傳
func (r *Registry) Open(kind AccountKind, owner uint, apr decimal.Decimal) *Account {
	id := AccountID(len(r.accounts) + 1)
	account := newAccount(id, kind, owner, apr)
	r.accounts = append(r.accounts, account)
	return account
}

// Get 依 AccountID 取得帳戶 (包含已刪除的帳戶)
func (r *Registry) Get(id AccountID) (*Account, bool) {
	if id == 0 || int(id) > len(r.accounts) {
		return nil, false
	}
	return r.accounts[id-1], true
}

// Len 曾經建立過的帳戶數量
func (r *Registry) Len() int {
	return len(r.accounts)
}
