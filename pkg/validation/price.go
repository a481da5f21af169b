package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPrice is the largest magnitude storable in a numeric(10,2) column.
var MaxPrice = decimal.RequireFromString("9999999.99")

const (
	// maxExponent bounds the decimal exponent accepted from callers. Wider
	// exponents force huge big.Int rescales before the range check.
	maxExponent = 12
	// maxInputLen caps textual money input.
	maxInputLen = 32
)

var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrPriceOutOfRange = errors.New("price out of range")
)

// ValidatePrice reports whether value is a finite number whose magnitude fits
// the money column. The value is never rounded.
func ValidatePrice(value any) bool {
	_, err := ParsePrice(value)
	return err == nil
}

// ParsePrice converts numeric Go values, numeric strings, json.Number and
// decimals into a decimal, applying the ValidatePrice rule.
func ParsePrice(value any) (decimal.Decimal, error) {
	d, err := toDecimal(value)
	if err != nil {
		return decimal.Zero, err
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Zero, fmt.Errorf("%w: exponent %d out of bounds", ErrInvalidPrice, exp)
	}
	if d.Abs().GreaterThan(MaxPrice) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrPriceOutOfRange, d.String())
	}
	return d, nil
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, ErrInvalidPrice
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, ErrInvalidPrice
		}
		return *v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint, uint8, uint16, uint32, uint64:
		return fromString(fmt.Sprint(v))
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		return fromString(string(v))
	case string:
		return fromString(v)
	case *string:
		if v == nil {
			return decimal.Zero, ErrInvalidPrice
		}
		return fromString(*v)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidPrice, value)
	}
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: not finite", ErrInvalidPrice)
	}
	return decimal.NewFromFloat(f), nil
}

func fromString(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	if len(trimmed) > maxInputLen {
		return decimal.Zero, fmt.Errorf("%w: input too long", ErrInvalidPrice)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return d, nil
}
