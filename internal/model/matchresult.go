package model

// LinePattern identifies which structural pattern matched a statement line.
type LinePattern string

const (
	// PatternDateDescAmount is "date description amount".
	PatternDateDescAmount LinePattern = "date_desc_amount"
	// PatternPrefixed is "<free text> date description amount".
	PatternPrefixed LinePattern = "prefixed"
	// PatternTwoDates is "date date description amount" (posting date used).
	PatternTwoDates LinePattern = "two_dates"
	// PatternCardRef is "card date date reference description location amount".
	PatternCardRef LinePattern = "card_ref"
	// PatternMerchantLoc is "date date merchant location amount".
	PatternMerchantLoc LinePattern = "merchant_loc"
	// PatternFuzzy is best-effort extraction outside the structural set.
	PatternFuzzy LinePattern = "fuzzy"
	// PatternNone means the line is not a transaction.
	PatternNone LinePattern = "none"
)

// MatchResult is the outcome of classifying one statement line. Field
// values are the raw substrings as they appeared in the line; parsing into
// numbers and dates is the caller's job.
type MatchResult struct {
	Date        string
	Description string
	Amount      string
	Pattern     LinePattern
	Confidence  float64
	Matched     bool
}

// NoMatch is the result for a line that carries no transaction.
func NoMatch() MatchResult {
	return MatchResult{Pattern: PatternNone}
}
