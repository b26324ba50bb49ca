package domain

import "github.com/shopspring/decimal"

// 金額以 int64 分 (cents) 儲存，APR 以 int32 放大 100 倍儲存
const (
	CentsScale = 2
	RateScale  = 2
)

// 罰金 (整數美元)
const (
	// OverdraftPenalty 餘額不足的罰金
	OverdraftPenalty = 10
	// SavingsLimitPenalty 儲蓄帳戶超過每期提款次數的罰金
	SavingsLimitPenalty = 5
)

// Money 以分為單位的金額
type Money int64

// MoneyFromDecimal 將十進位金額轉為分，小數第三位以後直接截斷
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Shift(CentsScale).IntPart())
}

// Dollars 建立整數美元金額
func Dollars(n int64) Money {
	return Money(n * 100)
}

// Decimal 轉回十進位金額，供報表與 JSON 使用
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -CentsScale)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(CentsScale)
}

// rateFromDecimal 將利率轉為放大 100 倍的整數 (截斷)
func rateFromDecimal(d decimal.Decimal) int32 {
	return int32(d.Shift(RateScale).IntPart())
}

func rateToDecimal(r int32) decimal.Decimal {
	return decimal.New(int64(r), -RateScale)
}
