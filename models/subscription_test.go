package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDurationUnit(t *testing.T) {
	tests := []struct {
		raw      string
		expected DurationUnit
		ok       bool
	}{
		{"day", DurationDay, true},
		{"Days", DurationDay, true},
		{" week ", DurationWeek, true},
		{"weeks", DurationWeek, true},
		{"month", DurationMonth, true},
		{"MONTHS", DurationMonth, true},
		{"year", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			unit, ok := ParseDurationUnit(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, unit)
		})
	}
}

func TestDurationUnit_AddTo(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC), DurationWeek.AddTo(start, 2))
	assert.Equal(t, time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), DurationDay.AddTo(start, 3))
	// Месяц не календарный
	assert.Equal(t, time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), DurationMonth.AddTo(start, 1))
	assert.Equal(t, start, DurationUnit("year").AddTo(start, 5))
}

func TestSubscription_IsActiveOn(t *testing.T) {
	s := Subscription{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, s.IsActiveOn(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.IsActiveOn(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsActiveOn(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	s.IsCanceled = true
	assert.False(t, s.IsActiveOn(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestSubscription_RefundableAmount(t *testing.T) {
	s := Subscription{PriceBeforeDiscount: decimal.NewFromInt(1000), PriceAfterDiscount: decimal.NewFromInt(500), DiscountApplied: true}
	assert.True(t, decimal.NewFromInt(500).Equal(s.RefundableAmount()))

	legacy := Subscription{PriceBeforeDiscount: decimal.NewFromInt(1000)}
	assert.True(t, decimal.NewFromInt(1000).Equal(legacy.RefundableAmount()))
}

func TestClient_MissingProfileFields(t *testing.T) {
	age := 30
	complete := Client{FullName: "Anna", Email: "a@example.com", Phone: "1", Gender: "female", Age: &age, Source: "instagram"}
	assert.Empty(t, complete.MissingProfileFields())
	assert.Equal(t, "Anna", complete.DisplayName())

	partial := Client{FullName: UnknownClientName, Email: "a@example.com", Phone: "1", Gender: "female"}
	assert.Equal(t, []string{"fullName", "age", "source"}, partial.MissingProfileFields())

	zeroAge := 0
	partial.Age = &zeroAge
	assert.Contains(t, partial.MissingProfileFields(), "age")

	assert.Equal(t, UnknownClientName, (&Client{FullName: "  "}).DisplayName())
}

func TestTaskCategory_IsValid(t *testing.T) {
	for _, category := range AutomaticCategories {
		assert.True(t, category.IsValid(), category)
	}
	assert.False(t, TaskCategory("Birthday").IsValid())
	assert.False(t, TaskCategory("profile").IsValid())
}

func TestFinancialRecord_IsRefund(t *testing.T) {
	assert.True(t, (&FinancialRecord{Amount: decimal.NewFromInt(-1)}).IsRefund())
	assert.False(t, (&FinancialRecord{Amount: decimal.NewFromInt(1)}).IsRefund())
}
