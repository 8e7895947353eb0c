package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCents renders a value in cents as dollars, e.g. 1250 -> "$12.50"
func FormatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// ParseCents parses "12", "12.5", "12.50" or "$12.50" into cents
func ParseCents(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, nil
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	dollars, err := strconv.Atoi(whole)
	if err != nil || dollars < 0 {
		return 0, fmt.Errorf("invalid value %q (use dollars, e.g. 12.50)", s)
	}

	cents := 0
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid value %q (at most two decimal places)", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.Atoi(frac)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid value %q (use dollars, e.g. 12.50)", s)
		}
	}
	return dollars*100 + cents, nil
}

// ParseCardID parses a positive card identifier
func ParseCardID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, UsageError("card ID must be a positive integer, got %q", s)
	}
	return id, nil
}
