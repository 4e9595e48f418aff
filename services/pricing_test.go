package services

import (
	"math"
	"testing"

	"backend_trainerhub/config"
	"backend_trainerhub/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestResolvePrice(t *testing.T) {
	base := decimal.NewFromInt(1000)

	tests := []struct {
		name         string
		applied      bool
		kind         *string
		value        *decimal.Decimal
		explicit     *decimal.Decimal
		expectedKind models.DiscountKind
		expected     string
	}{
		{
			name:         "Скидка не применена",
			applied:      false,
			kind:         strPtr("percent"),
			value:        decPtr("10"),
			expectedKind: models.DiscountNone,
			expected:     "1000",
		},
		{
			name:         "Процент по явному типу",
			applied:      true,
			kind:         strPtr("percent"),
			value:        decPtr("10"),
			expectedKind: models.DiscountPercentage,
			expected:     "900",
		},
		{
			name:         "Знак процента",
			applied:      true,
			kind:         strPtr("%"),
			value:        decPtr("25"),
			expectedKind: models.DiscountPercentage,
			expected:     "750",
		},
		{
			name:         "Без типа, значение больше 1 считается суммой",
			applied:      true,
			value:        decPtr("200"),
			expectedKind: models.DiscountFixed,
			expected:     "800",
		},
		{
			name:         "Без типа, малое целое тоже считается суммой",
			applied:      true,
			value:        decPtr("10"),
			expectedKind: models.DiscountFixed,
			expected:     "990",
		},
		{
			name:         "Без типа, дробное значение считается процентом",
			applied:      true,
			value:        decPtr("0.5"),
			expectedKind: models.DiscountPercentage,
			expected:     "995",
		},
		{
			name:         "Без типа, значение больше базы не обрезается",
			applied:      true,
			value:        decPtr("1500"),
			expectedKind: models.DiscountFixed,
			expected:     "-500",
		},
		{
			name:         "Код валюты означает фиксированную скидку",
			applied:      true,
			kind:         strPtr("kzt"),
			value:        decPtr("150"),
			expectedKind: models.DiscountFixed,
			expected:     "850",
		},
		{
			name:         "Flat amount",
			applied:      true,
			kind:         strPtr("Flat Amount"),
			value:        decPtr("100"),
			expectedKind: models.DiscountFixed,
			expected:     "900",
		},
		{
			name:         "Явная цена после скидки имеет приоритет",
			applied:      true,
			kind:         strPtr("percentage"),
			value:        decPtr("10"),
			explicit:     decPtr("870"),
			expectedKind: models.DiscountPercentage,
			expected:     "870",
		},
		{
			name:         "Неизвестный тип без значения",
			applied:      true,
			kind:         strPtr("loyalty"),
			expectedKind: models.DiscountNone,
			expected:     "1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolvePrice(PriceInput{
				Base:            base,
				DiscountApplied: tt.applied,
				Kind:            tt.kind,
				Value:           tt.value,
				ExplicitAfter:   tt.explicit,
			})
			assert.Equal(t, tt.expectedKind, result.Kind)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(result.PriceAfter),
				"expected %s, got %s", tt.expected, result.PriceAfter)
		})
	}
}

func TestResolvePrice_Deterministic(t *testing.T) {
	in := PriceInput{Base: decimal.NewFromInt(1000), DiscountApplied: true, Value: decPtr("200")}
	first := ResolvePrice(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ResolvePrice(in))
	}
}

func TestResolvePriceStrict(t *testing.T) {
	_, err := ResolvePriceStrict(PriceInput{
		Base:            decimal.NewFromInt(1000),
		DiscountApplied: true,
		Value:           decPtr("200"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	result, err := ResolvePriceStrict(PriceInput{
		Base:            decimal.NewFromInt(1000),
		DiscountApplied: true,
		Kind:            strPtr("fixed"),
		Value:           decPtr("200"),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(result.PriceAfter))
}

func TestPriceResolver_ConfiguredCurrencies(t *testing.T) {
	resolver := NewPriceResolver(config.BillingConfig{CurrencyCodes: []string{" uzs "}, RequireDiscountKind: true})

	assert.Equal(t, models.DiscountFixed, resolver.NormalizeKind(strPtr("UZS")))
	assert.Equal(t, models.DiscountNone, resolver.NormalizeKind(strPtr("KZT")))

	_, err := resolver.ResolveConfigured(PriceInput{
		Base:            decimal.NewFromInt(1000),
		DiscountApplied: true,
		Kind:            strPtr("KZT"),
		Value:           decPtr("100"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMoneyFromFloat(t *testing.T) {
	_, err := MoneyFromFloat(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = MoneyFromFloat(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	amount, err := MoneyFromFloat(12.5)
	require.NoError(t, err)
	assert.Equal(t, "12.5", amount.String())
}
