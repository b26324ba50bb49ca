package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
)

var (
	billion  = decimal.New(1, 9)
	trillion = decimal.New(1, 12)
	thousand = decimal.NewFromInt(1000)
	million  = decimal.NewFromInt(1_000_000)
)

// FormatPrice 金額的顯示字串
//
// 未滿十億時以貨幣格式顯示 ($1,234.56)，
// 十億以上縮寫為 $1.5B，一兆以上縮寫為 $2.25T (最多 7 位小數)。
func FormatPrice(m domain.Money) string {
	amount := m.Decimal()
	if amount.LessThan(billion) {
		return FormatCurrency(m)
	}

	place := amount.Div(billion)
	switch {
	case place.LessThan(thousand):
		return "$" + place.Round(7).String() + "B"
	case place.LessThan(million):
		return "$" + amount.Div(trillion).Round(7).String() + "T"
	}
	return FormatCurrency(m)
}

// FormatCurrency 貨幣格式，千分位加逗號
func FormatCurrency(m domain.Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	s := m.String()
	intPart, fracPart, _ := strings.Cut(s, ".")
	return sign + "$" + groupThousands(intPart) + "." + fracPart
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatAPR 年利率顯示字串，例如 "2.5%"
func FormatAPR(apr decimal.Decimal) string {
	return apr.String() + "%"
}

// truncate 依字元數截斷
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
