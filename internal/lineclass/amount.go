package lineclass

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount parses an amount token as it appears in statement text.
// Handles currency symbols ($ € £ ¥ ₹), comma and space thousands
// separators, explicit signs, parentheses negatives, and trailing
// CR/DR/BF/CREDIT/DEBIT indicators.
func ParseAmount(amountStr string) (float64, error) {
	trimmed := strings.TrimSpace(amountStr)
	if trimmed == "" {
		return 0, fmt.Errorf("empty amount")
	}

	var negative, credit, debit, parenthesized bool

	// Indicator suffixes appear with or without a separating space
	// ("458.40 CR" and "458.40CR" both occur in statements).
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.HasSuffix(upper, "CREDIT"):
		credit = true
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len("CREDIT")])
	case strings.HasSuffix(upper, "CR"):
		credit = true
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len("CR")])
	case strings.HasSuffix(upper, "DEBIT"):
		debit = true
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len("DEBIT")])
	case strings.HasSuffix(upper, "DR"):
		debit = true
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len("DR")])
	case strings.HasSuffix(upper, "BF"):
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len("BF")])
	}

	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		parenthesized = true
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}

	if strings.HasPrefix(trimmed, "-") {
		negative = true
		trimmed = strings.TrimSpace(trimmed[1:])
	} else if strings.HasPrefix(trimmed, "+") {
		trimmed = strings.TrimSpace(trimmed[1:])
	}

	clean := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', '₹', ',', ' ', ' ':
			return -1
		}
		return r
	}, trimmed)

	if clean == "" {
		return 0, fmt.Errorf("no digits in amount %q", amountStr)
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}

	switch {
	case debit:
		value = -value
	case parenthesized:
		value = -value
	case credit:
		// statement credits stay positive
	case negative:
		value = -value
	}

	return value, nil
}

// hasAmountIndicator reports whether an amount token carries a currency
// symbol, parentheses, sign, or CR/DR/BF suffix. Bare decimals without any
// of these can be date fragments and are rejected by the strictest pattern.
func hasAmountIndicator(amountStr string) bool {
	trimmed := strings.TrimSpace(amountStr)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, "$€£¥₹") {
		return true
	}
	if strings.HasPrefix(trimmed, "(") || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "+") {
		return true
	}
	upper := strings.ToUpper(trimmed)
	return strings.HasSuffix(upper, "CR") || strings.HasSuffix(upper, "DR") || strings.HasSuffix(upper, "BF")
}
