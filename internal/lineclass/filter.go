package lineclass

import (
	"regexp"
	"strings"
)

// Section headers and informational markers that disqualify a line before
// any pattern matching runs. These frequently contain dates and amounts
// ("Pay Over Time 12/30/2022 19.49% (v) $0.00 $0.00") but are never
// transactions.
var bannedSubstrings = []string{
	"pay over time",
	"cash advances",
	"cash advance",
	"balance transfers",
	"balance transfer",
	"interest charges",
	"interest charge",
	"fees charged",
	"fee charged",
	"minimum payment",
	"credit limit",
	"available credit",
	"payment information",
	"account summary",
	"transaction details",
	"rewards summary",
	"statement period",
	"billing period",
	"closing date",
	"statement date",
	"operator relay",
	"we accept",
	"customer service",
	"relay calls",
	"relay call",
	"agreement for details",
	"cardmember agreement",
	"cardholder agreement",
	"send general inquiries",
	"general inquiries",
	"po box",
	"account ending in",
	"late payment",
	"new balance",
	"rewards balance",
	"balance as of",
	"chart will be shown",
}

var (
	phoneLineRe    = regexp.MustCompile(`^\d{1,3}-\d{3}-\d{3,4}-?\d{0,4}$`)
	phoneAnyRe     = regexp.MustCompile(`\d{1,3}-\d{3}-\d{3,4}-?\d{0,4}`)
	pageFooterRe   = regexp.MustCompile(`page\s+\d+\s+of\s+\d+`)
	pointsDateRe   = regexp.MustCompile(`\d{1,3}(?:,\d{3})+\s*\d{1,2}/\d{1,2}/\d{2,4}`)
	asOfRe         = regexp.MustCompile(`^as of\s+\d{1,2}/\d{1,2}/\d{2,4}`)
	dateRangeRe    = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}\s+(?:through|to|-)\s+\d{1,2}/\d{1,2}/\d{2,4}`)
	dollarDateRe   = regexp.MustCompile(`\$.*\d{1,2}/\d{1,2}/\d{2,4}`)
	refDateNameRe  = regexp.MustCompile(`^\d{3,}\s+\d{1,2}/\d{1,2}/\d{2,4}[a-z]+$`)
	twoNumbersRe   = regexp.MustCompile(`^\d{3,}\s+\d{3,}$`)
	repeatedAmtRe  = regexp.MustCompile(`\b(\d+\.\d{2})\s+(\d+\.\d{2})\s+\d{1,2}/\d{1,2}/\d{2,4}`)
	openToCloseRe  = regexp.MustCompile(`open.*to.*close.*date`)
	everyStmtRe    = regexp.MustCompile(`every.*statement.*months`)
	accountEndRe   = regexp.MustCompile(`account ending`)
	amountOrFeesRe = regexp.MustCompile(`fees|amount`)
)

// isInformationalLine reports whether a lowercased, trimmed line is a
// section header, footer, or other non-transaction text.
func isInformationalLine(lower string) bool {
	for _, marker := range bannedSubstrings {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	if accountEndRe.MatchString(lower) && !amountOrFeesRe.MatchString(lower) {
		return true
	}

	if lower == "payment" {
		return true
	}

	if phoneLineRe.MatchString(lower) {
		return true
	}
	if (strings.Contains(lower, "pay by phone") || strings.Contains(lower, "international")) &&
		phoneAnyRe.MatchString(lower) {
		return true
	}

	if pageFooterRe.MatchString(lower) ||
		pointsDateRe.MatchString(lower) ||
		asOfRe.MatchString(lower) ||
		refDateNameRe.MatchString(lower) ||
		twoNumbersRe.MatchString(lower) ||
		openToCloseRe.MatchString(lower) ||
		everyStmtRe.MatchString(lower) {
		return true
	}

	// Date ranges ("09/17/2025 - 10/16/2025") are informational unless the
	// line also carries a dollar amount.
	if dateRangeRe.MatchString(lower) && !dollarDateRe.MatchString(lower) {
		return true
	}

	// Repeated balance pattern: "5.66 5.66 11/13/2025".
	if m := repeatedAmtRe.FindStringSubmatch(lower); m != nil && m[1] == m[2] {
		return true
	}

	return false
}
