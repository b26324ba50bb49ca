package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyFromDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{in: "1000", want: 100000},
		{in: "12.34", want: 1234},
		{in: "0.019", want: 1},
		{in: "-456", want: -45600},
		{in: "-0.019", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MoneyFromDecimal(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "544.00", Dollars(544).String())
	assert.Equal(t, "-10.00", Dollars(-10).String())
	assert.Equal(t, "0.05", Money(5).String())
}

func TestMoney_MarshalJSON(t *testing.T) {
	b, err := Money(1234).MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"12.34"`, string(b))
}
