package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlexNumber десятичное число, принимающее JSON-число или числовую строку
type FlexNumber struct {
	Value decimal.Decimal
	Set   bool
}

// UnmarshalJSON разбирает 10, 10.5, "10", "10.5"; null и "" означают отсутствие значения
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = FlexNumber{}
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*n = FlexNumber{}
			return nil
		}
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("некорректное число %s", string(data))
	}
	*n = FlexNumber{Value: value, Set: true}
	return nil
}

// Ptr возвращает указатель на значение или nil
func (n FlexNumber) Ptr() *decimal.Decimal {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

// Int возвращает целую часть значения
func (n FlexNumber) Int() int {
	return int(n.Value.IntPart())
}

// FlexBool булево значение, принимающее true/false, "true"/"false", "1"/"0", 1/0
type FlexBool bool

// UnmarshalJSON разбирает булево значение в свободной форме
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		*b = true
	case "false", "0", "no", "off", "", "null":
		*b = false
	default:
		return fmt.Errorf("некорректное булево значение %s", string(data))
	}
	return nil
}

// FlexDate дата в формате RFC3339 или YYYY-MM-DD, всегда в UTC
type FlexDate struct {
	time.Time
}

// ParseFlexDate разбирает дату в одном из поддерживаемых форматов
func ParseFlexDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("некорректная дата %q", raw)
}

// UnmarshalJSON разбирает дату; null и "" означают отсутствие значения
func (d *FlexDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("некорректная дата %s", string(data))
	}
	if strings.TrimSpace(raw) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseFlexDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Ptr возвращает указатель на дату или nil, если она не задана
func (d *FlexDate) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// FlexID идентификатор, принимающий число или строку
type FlexID uint

// UnmarshalJSON разбирает 12 или "12"
func (id *FlexID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный идентификатор %s", string(data))
	}
	*id = FlexID(value)
	return nil
}
