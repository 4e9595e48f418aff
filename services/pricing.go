package services

import (
	"math"
	"strings"

	"backend_trainerhub/config"
	"backend_trainerhub/models"

	"github.com/shopspring/decimal"
)

// DefaultCurrencyCodes коды валют, которые считаются фиксированной скидкой
var DefaultCurrencyCodes = []string{"KZT", "USD", "EUR", "RUB", "GBP", "AED", "SAR", "EGP"}

var hundred = decimal.NewFromInt(100)

// PriceInput входные данные для расчета цены со скидкой
type PriceInput struct {
	Base            decimal.Decimal
	DiscountApplied bool
	Kind            *string
	Value           *decimal.Decimal
	ExplicitAfter   *decimal.Decimal
}

// PriceResult результат расчета цены
type PriceResult struct {
	Kind       models.DiscountKind
	Value      *decimal.Decimal
	PriceAfter decimal.Decimal
}

// PriceResolver определяет тип скидки и итоговую цену
type PriceResolver struct {
	currencies  map[string]struct{}
	requireKind bool
}

// NewPriceResolver создает резолвер по настройкам биллинга
func NewPriceResolver(cfg config.BillingConfig) *PriceResolver {
	codes := cfg.CurrencyCodes
	if len(codes) == 0 {
		codes = DefaultCurrencyCodes
	}
	currencies := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		currencies[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	return &PriceResolver{currencies: currencies, requireKind: cfg.RequireDiscountKind}
}

var defaultResolver = NewPriceResolver(config.BillingConfig{})

// ResolvePrice рассчитывает цену с эвристикой определения типа скидки
func ResolvePrice(in PriceInput) PriceResult {
	return defaultResolver.Resolve(in)
}

// ResolvePriceStrict рассчитывает цену, требуя явный тип скидки
func ResolvePriceStrict(in PriceInput) (PriceResult, error) {
	return defaultResolver.ResolveStrict(in)
}

// Resolve рассчитывает цену. Отрицательный результат не обрезается.
func (r *PriceResolver) Resolve(in PriceInput) PriceResult {
	if !in.DiscountApplied {
		return PriceResult{Kind: models.DiscountNone, PriceAfter: in.Base}
	}

	kind := r.NormalizeKind(in.Kind)
	if kind == models.DiscountNone && in.Value != nil {
		kind = inferKind(*in.Value)
	}
	return compute(in, kind)
}

// ResolveStrict как Resolve, но неизвестный тип скидки является ошибкой
func (r *PriceResolver) ResolveStrict(in PriceInput) (PriceResult, error) {
	if !in.DiscountApplied {
		return PriceResult{Kind: models.DiscountNone, PriceAfter: in.Base}, nil
	}
	kind := r.NormalizeKind(in.Kind)
	if kind == models.DiscountNone {
		raw := ""
		if in.Kind != nil {
			raw = *in.Kind
		}
		return PriceResult{}, invalidInput("неизвестный тип скидки %q", raw)
	}
	return compute(in, kind), nil
}

// ResolveConfigured выбирает строгий или эвристический режим по настройкам
func (r *PriceResolver) ResolveConfigured(in PriceInput) (PriceResult, error) {
	if r.requireKind {
		return r.ResolveStrict(in)
	}
	return r.Resolve(in), nil
}

// NormalizeKind приводит произвольную строку типа скидки к percentage/fixed
func (r *PriceResolver) NormalizeKind(raw *string) models.DiscountKind {
	if raw == nil {
		return models.DiscountNone
	}
	kind := strings.ToLower(strings.TrimSpace(*raw))
	switch {
	case kind == "":
		return models.DiscountNone
	case strings.Contains(kind, "percent") || kind == "%":
		return models.DiscountPercentage
	case strings.Contains(kind, "fixed"),
		strings.Contains(kind, "amount"),
		strings.Contains(kind, "value"),
		strings.Contains(kind, "flat"):
		return models.DiscountFixed
	}
	if _, ok := r.currencies[strings.ToUpper(kind)]; ok {
		return models.DiscountFixed
	}
	return models.DiscountNone
}

// inferKind значение больше 1 считается суммой, иначе процентом.
// base=1000, value=200 дает fixed; value=0.5 дает percentage.
func inferKind(value decimal.Decimal) models.DiscountKind {
	if value.GreaterThan(decimal.NewFromInt(1)) {
		return models.DiscountFixed
	}
	return models.DiscountPercentage
}

func compute(in PriceInput, kind models.DiscountKind) PriceResult {
	result := PriceResult{Kind: kind, Value: in.Value}
	if in.ExplicitAfter != nil {
		result.PriceAfter = *in.ExplicitAfter
		return result
	}

	value := decimal.Zero
	if in.Value != nil {
		value = *in.Value
	}
	switch kind {
	case models.DiscountPercentage:
		result.PriceAfter = in.Base.Mul(decimal.NewFromInt(1).Sub(value.Div(hundred)))
	case models.DiscountFixed:
		result.PriceAfter = in.Base.Sub(value)
	default:
		result.PriceAfter = in.Base
	}
	return result
}

// MoneyFromFloat переводит число в decimal, отвергая NaN и бесконечность
func MoneyFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, invalidInput("сумма должна быть конечным числом")
	}
	return decimal.NewFromFloat(f), nil
}
