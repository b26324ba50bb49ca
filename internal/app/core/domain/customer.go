package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Slot 帳戶在客戶名下的位置
type Slot uint8

const (
	SlotPrimary   Slot = 0
	SlotSecondary Slot = 1
)

// MaxAccounts 每位客戶最多持有的帳戶數
const MaxAccounts = 2

func (s Slot) String() string {
	if s == SlotPrimary {
		return "P"
	}
	return "S"
}

// Check 一張支票
//
// Amount > 0: 由開票帳戶付款給收款人
// Amount <= 0: 反向支票，由收款方付款給開票帳戶
type Check struct {
	Number uint
	From   Slot
	Payee  string
	Amount Money
}

// Customer 客戶與其持有的帳戶
type Customer struct {
	ID   uint
	Name string

	registry *Registry
	// slots[0] 為主帳戶，slots[1] 為副帳戶
	slots []AccountID
}

func NewCustomer(id uint, name string, registry *Registry) *Customer {
	return &Customer{
		ID:       id,
		Name:     name,
		registry: registry,
		slots:    make([]AccountID, 0, MaxAccounts),
	}
}

// live 取得 slot 上仍有效的帳戶
//
// 帳戶已被刪除時，從本客戶的 slot 中移除並回傳 nil。
// 所有讀取帳戶的操作都必須先經過這裡。
func (c *Customer) live(slot Slot) *Account {
	idx := int(slot)
	if idx >= len(c.slots) {
		return nil
	}
	account, ok := c.registry.Get(c.slots[idx])
	if !ok || account.Deleted() {
		c.slots = slices.Delete(c.slots, idx, idx+1)
		return nil
	}
	return account
}

// compact 一次移除所有已刪除的帳戶
func (c *Customer) compact() {
	c.slots = slices.DeleteFunc(c.slots, func(id AccountID) bool {
		account, ok := c.registry.Get(id)
		return !ok || account.Deleted()
	})
}

// fallbackFor 主帳戶扣款時可使用的副帳戶
//
// 副帳戶已被刪除時會先移除它並回傳 ok=false，此次扣款直接失敗且不動主帳戶。
func (c *Customer) fallbackFor(slot Slot) (secondary *Account, ok bool) {
	if slot != SlotPrimary || len(c.slots) <= int(SlotSecondary) {
		return nil, true
	}
	secondary = c.live(SlotSecondary)
	return secondary, secondary != nil
}

// Account 取得 slot 上的帳戶
func (c *Customer) Account(slot Slot) (*Account, bool) {
	account := c.live(slot)
	return account, account != nil
}

// Accounts 依 slot 順序回傳所有有效帳戶
func (c *Customer) Accounts() []*Account {
	c.compact()
	out := make([]*Account, 0, len(c.slots))
	for _, id := range c.slots {
		account, _ := c.registry.Get(id)
		out = append(out, account)
	}
	return out
}

// AddAccount 開立新帳戶，已滿兩個帳戶時忽略
func (c *Customer) AddAccount(kind AccountKind, apr decimal.Decimal) (*Account, bool) {
	if kind != AccountKindChecking && kind != AccountKindSavings {
		return nil, false
	}
	c.compact()
	if len(c.slots) >= MaxAccounts {
		return nil, false
	}
	account := c.registry.Open(kind, c.ID, apr)
	c.slots = append(c.slots, account.ID)
	return account, true
}

// LinkAccount 引用其他客戶的帳戶
func (c *Customer) LinkAccount(account *Account) bool {
	if account == nil || account.Deleted() {
		return false
	}
	c.compact()
	if len(c.slots) >= MaxAccounts || slices.Contains(c.slots, account.ID) {
		return false
	}
	c.slots = append(c.slots, account.ID)
	return true
}

// DepositTo 存款至指定帳戶
func (c *Customer) DepositTo(slot Slot, amount Money) bool {
	account := c.live(slot)
	if account == nil {
		return false
	}
	account.Deposit(amount)
	return true
}

// WithdrawFrom 由指定帳戶提款，主帳戶不足時由副帳戶補足
func (c *Customer) WithdrawFrom(slot Slot, amount Money) bool {
	account := c.live(slot)
	if account == nil {
		return false
	}
	secondary, ok := c.fallbackFor(slot)
	if !ok {
		return false
	}
	return account.WithdrawWithFallback(amount, secondary)
}

// TransferBetween 由指定帳戶轉帳至 target，備援規則同 WithdrawFrom
func (c *Customer) TransferBetween(slot Slot, amount Money, target *Account) bool {
	if target == nil {
		return false
	}
	account := c.live(slot)
	if account == nil {
		return false
	}
	secondary, ok := c.fallbackFor(slot)
	if !ok {
		return false
	}
	return account.TransferWithFallback(amount, secondary, target)
}

// SwapAccounts 交換主副帳戶，必須剛好有兩個有效帳戶
func (c *Customer) SwapAccounts() bool {
	if c.live(SlotPrimary) == nil || c.live(SlotSecondary) == nil {
		return false
	}
	c.slots[SlotPrimary], c.slots[SlotSecondary] = c.slots[SlotSecondary], c.slots[SlotPrimary]
	return true
}

// DeleteAccount 標記刪除，只有擁有者可以刪除
//
// 其他持有者會在下次讀取時自行移除。
func (c *Customer) DeleteAccount(slot Slot) bool {
	account := c.live(slot)
	if account == nil || account.IsLinked(c.ID) != 0 {
		return false
	}
	account.markDeleted()
	return true
}

// SetAPR 變更指定帳戶的年利率
func (c *Customer) SetAPR(slot Slot, apr decimal.Decimal) bool {
	account := c.live(slot)
	if account == nil {
		return false
	}
	return account.SetAPR(apr)
}

// ProcessCheck 處理收款人不在本行的支票 (全域支票)
func (c *Customer) ProcessCheck(check Check) bool {
	return c.processCheck(check, nil, nil)
}

// ProcessCheckTo 處理存入單一收款帳戶的支票
func (c *Customer) ProcessCheckTo(check Check, recipient *Account) bool {
	if recipient == nil {
		return false
	}
	return c.processCheck(check, recipient, nil)
}

// ProcessCheckToPair 處理收款人為主帳戶的支票
//
// 反向支票時收款人的主帳戶不足可由 recipientSecondary 補足。
func (c *Customer) ProcessCheckToPair(check Check, recipient, recipientSecondary *Account) bool {
	if recipient == nil {
		return false
	}
	return c.processCheck(check, recipient, recipientSecondary)
}

func (c *Customer) processCheck(check Check, recipient, recipientSecondary *Account) bool {
	account := c.live(check.From)
	if account == nil {
		return false
	}

	if check.Amount > 0 {
		// 儲蓄帳戶不能開支票，即使有副帳戶
		if account.Kind != AccountKindChecking {
			return false
		}
		secondary, ok := c.fallbackFor(check.From)
		if !ok || !account.WithdrawWithFallback(check.Amount, secondary) {
			return false
		}
		if recipient != nil {
			recipient.Deposit(check.Amount)
		}
		return true
	}

	reversed := -check.Amount
	if recipient == nil {
		account.Deposit(reversed)
		return true
	}
	if recipient.Kind != AccountKindChecking {
		return false
	}
	if !recipient.WithdrawWithFallback(reversed, recipientSecondary) {
		return false
	}
	account.Deposit(reversed)
	return true
}

// PostInterest 對所有帳戶入帳利息
func (c *Customer) PostInterest(primeRate decimal.Decimal) {
	for _, account := range c.Accounts() {
		account.PostInterest(primeRate)
	}
}

// EndPosting 結束所有帳戶的本期結算
func (c *Customer) EndPosting() {
	for _, account := range c.Accounts() {
		account.EndPosting()
	}
}

// GetAccType 取得帳戶種類
func (c *Customer) GetAccType(slot Slot) (AccountKind, bool) {
	account := c.live(slot)
	if account == nil {
		return 0, false
	}
	return account.Kind, true
}

// AccountLinked 回傳 0 (自己擁有) 或擁有者編號；帳戶不存在時 ok 為 false
func (c *Customer) AccountLinked(slot Slot) (owner uint, ok bool) {
	account := c.live(slot)
	if account == nil {
		return 0, false
	}
	return account.IsLinked(c.ID), true
}

// Holds 是否持有此帳戶
func (c *Customer) Holds(id AccountID) bool {
	c.compact()
	return slices.Contains(c.slots, id)
}
