package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// At most eight integer digits, the range of a decimal(10,2) column.
var moneyPattern = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

// Money is a non-negative amount with two fractional digits.
// It is stored as decimal(10,2) and travels over JSON as a string ("89.99").
type Money struct {
	decimal.Decimal
}

// ZeroMoney is "0.00".
var ZeroMoney = Money{decimal.Zero}

func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// ParseMoney accepts an unsigned decimal with at most two fractional digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if !moneyPattern.MatchString(s) {
		return Money{}, fmt.Errorf("invalid amount %q", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d}, nil
}

// MustMoney is ParseMoney for constants and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// IsMoney reports whether s is a valid amount string.
func IsMoney(s string) bool {
	return moneyPattern.MatchString(strings.TrimSpace(s))
}

func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Times multiplies a unit price by a quantity.
func (m Money) Times(qty int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(qty)))}
}

func (m Money) Less(o Money) bool {
	return m.Decimal.LessThan(o.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("amount must be a decimal string")
		}
		s = n.String()
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
