package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"89.99", "89.99", false},
		{"5", "5.00", false},
		{"0.5", "0.50", false},
		{" 12.30 ", "12.30", false},
		{"1.999", "", true},
		{"-1.00", "", true},
		{"1e3", "", true},
		{"", "", true},
		{"abc", "", true},
		{"99999999.99", "99999999.99", false},
		{"100000000", "", true},
		{"99999999999.99", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMoney(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.String())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	price := MustMoney("19.99")

	assert.Equal(t, "59.97", price.Times(3).String())
	assert.Equal(t, "24.94", price.Add(MustMoney("4.95")).String())
	assert.True(t, ZeroMoney.Less(price))
	assert.False(t, price.Less(price))
}

func TestMoneyJSON(t *testing.T) {
	// Arrange
	var v struct {
		Price Money `json:"price"`
	}

	// Act
	require.NoError(t, json.Unmarshal([]byte(`{"price": 42.5}`), &v))
	out, err := json.Marshal(v)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": "42.50"}`, string(out))
	assert.Error(t, json.Unmarshal([]byte(`{"price": "4.555"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"price": true}`), &v))
}

func TestSubtotal(t *testing.T) {
	items := []OrderItem{
		{ProductPrice: MustMoney("89.99"), Quantity: 2},
		{ProductPrice: MustMoney("65.00"), Quantity: 1},
	}

	assert.Equal(t, "244.98", Subtotal(items).String())
	assert.Equal(t, "0.00", Subtotal(nil).String())
}
