package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidDateFormat     = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidDateComponents = errors.New("invalid date components")
)

var orderDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseOrderDate normalises a calendar date to midnight UTC. Nil and empty
// inputs yield nil; time values pass through unchanged.
func ParseOrderDate(input any) (*time.Time, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case *string:
		if v == nil {
			return nil, nil
		}
		return parseDateString(*v)
	case string:
		return parseDateString(v)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidDateFormat, input)
	}
}

func parseDateString(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if !orderDatePattern.MatchString(raw) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
	}
	// time.Parse rejects out-of-range days like 02-30 instead of normalising.
	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateComponents, raw)
	}
	out := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &out, nil
}
