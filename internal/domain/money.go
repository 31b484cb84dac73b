package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// SameCurrency reports whether both amounts share one currency unit.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency.String() == other.Currency.String()
}

// Add panics on currency mismatch, callers must check SameCurrency first.
func (m Money) Add(other Money) Money {
	if !m.SameCurrency(other) {
		panic(fmt.Sprintf("currency mismatch: %s vs %s", m.Currency, other.Currency))
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

func (m Money) Sub(other Money) Money {
	if !m.SameCurrency(other) {
		panic(fmt.Sprintf("currency mismatch: %s vs %s", m.Currency, other.Currency))
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(n)), Currency: m.Currency}
}

func (m Money) LessThan(other Money) bool {
	return m.Amount.LessThan(other.Amount)
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MarshalJSON is needed because currency.Unit has no exported fields.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount, Currency: m.Currency.String()})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	unit, err := currency.ParseISO(raw.Currency)
	if err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", raw.Currency, err)
	}

	m.Amount = raw.Amount
	m.Currency = unit
	return nil
}
