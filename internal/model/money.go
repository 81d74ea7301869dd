package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Money is a signed fixed-point currency amount stored in minor units
// (two decimal places).
type Money int64

// ErrInvalidMoney is returned when a money literal cannot be parsed.
var ErrInvalidMoney = errors.New("invalid money amount")

// ParseMoney parses decimal literals such as "1", "-0.5" or "12.34".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidMoney)
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	if whole == "" {
		whole = "0"
	}
	// digits past the second decimal are only accepted when they are zeros
	if len(frac) > 2 {
		if strings.Trim(frac[2:], "0") != "" {
			return 0, fmt.Errorf("%w: %q has more than two decimals", ErrInvalidMoney, s)
		}
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidMoney, s)
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	v := units*100 + cents
	if neg {
		v = -v
	}
	return Money(v), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formats m with exactly two decimals, e.g. "-1.50".
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float64 returns m in major units.
func (m Money) Float64() float64 { return float64(m) / 100 }

// MarshalJSON encodes m as a decimal string to avoid float rounding.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*m = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Money) MarshalYAML() (any, error) { return m.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler for scalar nodes.
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrInvalidMoney, value.Line)
	}
	v, err := ParseMoney(value.Value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
