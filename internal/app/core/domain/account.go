package domain

import "github.com/shopspring/decimal"

// AccountKind 帳戶種類
type AccountKind uint8

const (
	// 支票帳戶: 無提款次數限制，可開立支票
	AccountKindChecking AccountKind = 1
	// 儲蓄帳戶: 每期最多扣款 3 次，不可開立支票
	AccountKindSavings AccountKind = 2
)

// MaxSavingsDebits 儲蓄帳戶每個結算期可扣款的次數
const MaxSavingsDebits = 3

var (
	// 年利率 (百分比) 換算成月利率: / 100 / 12
	monthlyDivisor = decimal.NewFromInt(100 * 12)
	two            = decimal.NewFromInt(2)
)

func (k AccountKind) String() string {
	switch k {
	case AccountKindChecking:
		return "C"
	case AccountKindSavings:
		return "S"
	default:
		return "--"
	}
}

// AccountID 帳戶在 Registry 中的編號 (由 1 開始，0 代表沒有帳戶)
type AccountID uint32

// Account 帳戶
//
// 同一個 Account 可以同時被多個 Customer 引用 (連結帳戶)，
// 因此任何一方的異動對其他持有者都是可見的。
type Account struct {
	ID   AccountID
	Kind AccountKind

	balance        Money
	apr            int32
	owner          uint
	interestPosted bool
	deleted        bool
	// 僅儲蓄帳戶使用
	withdrawals int16
}

func newAccount(id AccountID, kind AccountKind, owner uint, apr decimal.Decimal) *Account {
	return &Account{
		ID:    id,
		Kind:  kind,
		apr:   rateFromDecimal(apr),
		owner: owner,
	}
}

// Balance 目前餘額
func (a *Account) Balance() Money {
	return a.balance
}

// APR 年利率 (百分比)
func (a *Account) APR() decimal.Decimal {
	return rateToDecimal(a.apr)
}

// SetAPR 變更年利率，非正數會被忽略
func (a *Account) SetAPR(apr decimal.Decimal) bool {
	if !apr.IsPositive() {
		return false
	}
	a.apr = rateFromDecimal(apr)
	return true
}

// Owner 建立此帳戶的客戶編號
func (a *Account) Owner() uint {
	return a.owner
}

func (a *Account) InterestPosted() bool {
	return a.interestPosted
}

func (a *Account) Deleted() bool {
	return a.deleted
}

// Withdrawals 本期已扣款次數 (支票帳戶恆為 0)
func (a *Account) Withdrawals() int16 {
	return a.withdrawals
}

// IsLinked 比對客戶編號與擁有者
//
// 回傳:
//
//	0: customerID 就是擁有者
//	其他: 擁有者的客戶編號
func (a *Account) IsLinked(customerID uint) uint {
	if customerID == a.owner {
		return 0
	}
	return a.owner
}

// Deposit 存款，沒有失敗的情況
func (a *Account) Deposit(amount Money) {
	a.balance += amount
}

// Withdraw 提款，餘額不足時扣罰金並回傳 false
func (a *Account) Withdraw(amount Money) bool {
	return a.debit(amount, nil)
}

// WithdrawWithFallback 提款，餘額不足時由 secondary 補足差額
//
// secondary 為 nil 時等同 Withdraw。
// 罰金只會扣在本帳戶，且最多一次。
func (a *Account) WithdrawWithFallback(amount Money, secondary *Account) bool {
	return a.debit(amount, secondary)
}

// Transfer 提款成功後才存入 target
func (a *Account) Transfer(amount Money, target *Account) bool {
	return a.TransferWithFallback(amount, nil, target)
}

// TransferWithFallback 同 Transfer，扣款時允許由 secondary 補足差額
func (a *Account) TransferWithFallback(amount Money, secondary, target *Account) bool {
	if !a.debit(amount, secondary) {
		return false
	}
	target.Deposit(amount)
	return true
}

// debit 所有扣款操作的共用路徑
//
// 1. 儲蓄帳戶先檢查本期扣款次數
// 2. 餘額足夠直接扣款
// 3. 不足時嘗試由 secondary 補差額，成功則本帳戶歸零
// 4. 仍不足則扣罰金
func (a *Account) debit(amount Money, secondary *Account) bool {
	if a.Kind == AccountKindSavings {
		if a.withdrawals >= MaxSavingsDebits {
			a.applyPenalty(SavingsLimitPenalty)
			return false
		}
		a.withdrawals++
	}

	if a.balance-amount >= 0 {
		a.balance -= amount
		return true
	}

	if secondary != nil {
		if secondary.withdrawShortfall(amount - a.balance) {
			a.balance = 0
			return true
		}
	}

	a.applyPenalty(OverdraftPenalty)
	return false
}

// withdrawShortfall 作為備援帳戶被扣款: 不計次數、不扣罰金
func (a *Account) withdrawShortfall(amount Money) bool {
	if a.balance-amount < 0 {
		return false
	}
	a.balance -= amount
	return true
}

func (a *Account) applyPenalty(dollars int64) {
	a.balance -= Dollars(dollars)
}

// PostInterest 依基準利率入帳當月利息
//
// 支票帳戶: (prime/2 + apr) / 100 / 12
// 儲蓄帳戶: (prime + apr) / 100 / 12
//
// 本期已入帳則直接回傳 true；餘額非正數時不入帳也不設定旗標。
func (a *Account) PostInterest(primeRate decimal.Decimal) bool {
	if a.interestPosted {
		return true
	}

	var rate decimal.Decimal
	switch a.Kind {
	case AccountKindChecking:
		rate = primeRate.Div(two).Add(a.APR())
	case AccountKindSavings:
		rate = primeRate.Add(a.APR())
	}
	a.applyInterest(rate)
	return a.interestPosted
}

// applyInterest 先乘後除，避免 1/12 的循環小數造成少算一分
func (a *Account) applyInterest(annualRate decimal.Decimal) {
	if a.balance <= 0 {
		return
	}
	added := decimal.NewFromInt(int64(a.balance)).Mul(annualRate).Div(monthlyDivisor).IntPart()
	a.balance += Money(added)
	a.interestPosted = true
}

// EndPosting 結束本期: 重置利息旗標與儲蓄帳戶扣款次數
func (a *Account) EndPosting() {
	a.interestPosted = false
	a.withdrawals = 0
}

func (a *Account) markDeleted() {
	a.deleted = true
}
