package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
)

func usd(amount string) domain.Money {
	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.USD,
	}
}

func eur(amount string) domain.Money {
	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.EUR,
	}
}

func TestMoneyArithmetic(t *testing.T) {
	total := usd("4.50").MulInt(2).Add(usd("6.25"))
	assert.True(t, total.Amount.Equal(decimal.RequireFromString("15.25")), "got %s", total.Amount)

	remaining := usd("20").Sub(total)
	assert.True(t, remaining.Amount.Equal(decimal.RequireFromString("4.75")), "got %s", remaining.Amount)

	assert.True(t, usd("10").LessThan(usd("10.01")))
	assert.False(t, usd("10").LessThan(usd("10")))

	assert.True(t, usd("-0.01").IsNegative())
	assert.False(t, usd("0").IsNegative())
}

func TestMoneySameCurrency(t *testing.T) {
	assert.True(t, usd("1").SameCurrency(usd("2")))
	assert.False(t, usd("1").SameCurrency(eur("1")))

	assert.Panics(t, func() { usd("1").Add(eur("1")) })
	assert.Panics(t, func() { usd("1").Sub(eur("1")) })
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "4.50 USD", usd("4.5").String())
	assert.Equal(t, "0.00 USD", usd("0").String())
}

func TestMoneyJSON(t *testing.T) {
	tests := []struct {
		name     string
		money    domain.Money
		wantJSON string
	}{
		{
			name:     "usd amount",
			money:    usd("15.25"),
			wantJSON: `{"amount":"15.25","currency":"USD"}`,
		},
		{
			name:     "zero",
			money:    usd("0"),
			wantJSON: `{"amount":"0","currency":"USD"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.money)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(data))

			var decoded domain.Money
			require.NoError(t, json.Unmarshal(data, &decoded))

			assert.True(t, decoded.Amount.Equal(tt.money.Amount))
			assert.Equal(t, tt.money.Currency.String(), decoded.Currency.String())
		})
	}
}

func TestMoneyUnmarshalInvalidCurrency(t *testing.T) {
	var m domain.Money

	err := json.Unmarshal([]byte(`{"amount":"1","currency":"XQZ"}`), &m)
	require.ErrorContains(t, err, "XQZ")
}
