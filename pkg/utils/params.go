package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParamError reports a query parameter that could not be parsed.
type ParamError struct {
	Name  string
	Value string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid value %q for query parameter %s", e.Value, e.Name)
}

// ParseInt parses a string to int with a fallback default value for an
// empty input.
func ParseInt(q url.Values, name string, defaultVal int) (int, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParamError{Name: name, Value: s}
	}
	return val, nil
}

// ParseDecimal is ParseInt for decimal parameters.
func ParseDecimal(q url.Values, name string, defaultVal decimal.Decimal) (decimal.Decimal, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return defaultVal, nil
	}
	val, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ParamError{Name: name, Value: s}
	}
	return val, nil
}

// RequireDecimal parses a decimal parameter that has no default.
func RequireDecimal(q url.Values, name string) (decimal.Decimal, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return decimal.Decimal{}, &ParamError{Name: name, Value: s}
	}
	return ParseDecimal(q, name, decimal.Zero)
}
