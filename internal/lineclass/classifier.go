// Package lineclass turns raw statement text lines into transaction field
// candidates. A fixed library of structural patterns is tried first; lines
// that fit none of them fall back to positional fuzzy extraction.
package lineclass

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

const (
	dateComponent = `\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?`

	// Amount token alternatives, strictest first: parenthesized negative,
	// signed currency, currency, signed bare number, bare decimal. The bare
	// decimal requires a fractional part so "11" from "11/09" or "800" from
	// a phone number never match.
	amountComponent = `(?:` +
		`\(\s*[$€£¥₹]?\s*\d{1,9}(?:[,\s]\d{3})*\.\d{1,2}\s*(?:CR|DR|BF|CREDIT|DEBIT)?\s*\)|` +
		`[-+]\s*[$€£¥₹]\s*\d{1,9}(?:[,\s]\d{3})*\.\d{1,2}\s*(?:CR|DR|BF|CREDIT|DEBIT)?|` +
		`[$€£¥₹]\s*[-+]?\s*\d{1,9}(?:[,\s]\d{3})*\.\d{1,2}\s*(?:CR|DR|BF|CREDIT|DEBIT)?|` +
		`[-+]\s*\d{1,9}(?:[,\s]\d{3})*(?:\.\d{1,2})?|` +
		`\d{1,9}(?:[,\s]\d{3})*\.\d{1,2}` +
		`)`
)

var (
	dateDescAmountRe = regexp.MustCompile(`(?i)^(` + dateComponent + `)\s+(.+?)\s+(` + amountComponent + `)$`)
	prefixedRe       = regexp.MustCompile(`(?i)^.*?(` + dateComponent + `)\s+(.+?)\s+(` + amountComponent + `)$`)
	twoDatesRe       = regexp.MustCompile(`(?i)^(` + dateComponent + `)\s+(` + dateComponent + `)\s+(.+?)\s+(` + amountComponent + `)$`)
	cardRefRe        = regexp.MustCompile(`(?i)^(\d{4})\s+(` + dateComponent + `)\s+(` + dateComponent + `)\s+([A-Z0-9]+)\s+(.+?)\s+([A-Z][A-Z\s]{1,20})\s+(` + amountComponent + `)$`)
	merchantLocRe    = regexp.MustCompile(`(?i)^(` + dateComponent + `)\s+(` + dateComponent + `)\s+(.+?)\s+([A-Z][A-Z\s]{1,20})\s+(` + amountComponent + `)$`)

	amountSearchRe = regexp.MustCompile(`(?i)` + amountComponent)
	leadingDateRe  = regexp.MustCompile(`^\s*\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\s+`)
	leadingNumRe   = regexp.MustCompile(`^\d{1,2}\s+`)
	trailingNumRe  = regexp.MustCompile(`\s+\d{1,2}$`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)

	fuzzyDateRes = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?`),
		regexp.MustCompile(`\d{1,2}\.\d{1,2}(?:\.\d{2,4})?`),
		regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
		regexp.MustCompile(`(?i)\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{2,4}`),
	}
)

// Prefixes that legitimize a date appearing after leading text during
// fuzzy extraction, e.g. "1% Cashback Bonus 10/06 DIRECTPAY ... -$11.74".
var validPrefixes = []string{
	"1%", "2%", "3%", "4%", "5%",
	"cashback", "cash back", "reward", "bonus",
}

// Classifier classifies statement lines. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	cfg Config
}

// New creates a line classifier with the given scoring configuration.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify matches one text line against the structural pattern library
// and the fuzzy fallback, returning the highest-confidence candidate.
// Field values are raw substrings from the line.
func (c *Classifier) Classify(line string, inferredYear int, dateFirst bool) model.MatchResult {
	if strings.TrimSpace(line) == "" {
		return model.NoMatch()
	}

	lower := strings.ToLower(strings.TrimSpace(line))
	if isInformationalLine(lower) {
		common.LogDebug("filtered informational line", common.Fields{"line": line})
		return model.NoMatch()
	}

	normalized := normalizeLine(line)

	candidates := []model.MatchResult{
		c.tryDateDescAmount(normalized, inferredYear, dateFirst),
		c.tryPrefixed(normalized, inferredYear, dateFirst),
		c.tryTwoDates(normalized, inferredYear, dateFirst),
		c.tryCardRef(normalized, inferredYear, dateFirst),
		c.tryMerchantLoc(normalized, inferredYear, dateFirst),
		c.tryFuzzy(normalized, inferredYear, dateFirst),
	}

	best := model.NoMatch()
	for _, cand := range candidates {
		if cand.Matched && cand.Confidence > best.Confidence {
			best = cand
		}
	}
	return best
}

func (c *Classifier) tryDateDescAmount(line string, inferredYear int, dateFirst bool) model.MatchResult {
	m := dateDescAmountRe.FindStringSubmatch(line)
	if m == nil {
		return model.NoMatch()
	}
	dateStr, description, amountStr := m[1], m[2], m[3]

	// Without a currency indicator the trailing token could be a date
	// fragment; the bare "date desc amount" layout demands one.
	if !hasAmountIndicator(amountStr) {
		return model.NoMatch()
	}

	date, err := ParseDate(dateStr, inferredYear, dateFirst)
	if err != nil {
		return model.NoMatch()
	}
	amount, err := ParseAmount(amountStr)
	if err != nil || !isValidDescription(description) {
		return model.NoMatch()
	}

	return model.MatchResult{
		Matched:     true,
		Date:        dateStr,
		Description: strings.TrimSpace(description),
		Amount:      strings.TrimSpace(amountStr),
		Pattern:     model.PatternDateDescAmount,
		Confidence:  c.scoreConfidence(date, amount, description),
	}
}

func (c *Classifier) tryPrefixed(line string, inferredYear int, dateFirst bool) model.MatchResult {
	// Informational lines with percentages ("19.49% (v) $0.00") are not
	// transactions even when the shape fits.
	if strings.Contains(line, "%") {
		return model.NoMatch()
	}

	m := prefixedRe.FindStringSubmatch(line)
	if m == nil {
		return model.NoMatch()
	}
	dateStr, description, amountStr := m[1], m[2], m[3]

	date, err := ParseDate(dateStr, inferredYear, dateFirst)
	if err != nil {
		return model.NoMatch()
	}
	amount, err := ParseAmount(amountStr)
	if err != nil || !isValidDescription(description) {
		return model.NoMatch()
	}

	return model.MatchResult{
		Matched:     true,
		Date:        dateStr,
		Description: strings.TrimSpace(description),
		Amount:      strings.TrimSpace(amountStr),
		Pattern:     model.PatternPrefixed,
		Confidence:  c.scoreConfidence(date, amount, description) * c.cfg.PrefixedFactor,
	}
}

func (c *Classifier) tryTwoDates(line string, inferredYear int, dateFirst bool) model.MatchResult {
	m := twoDatesRe.FindStringSubmatch(line)
	if m == nil {
		return model.NoMatch()
	}
	// First date is the transaction date, second the posting date; the
	// posting date is canonical.
	postingStr, description, amountStr := m[2], m[3], m[4]

	date, err := ParseDate(postingStr, inferredYear, dateFirst)
	if err != nil {
		return model.NoMatch()
	}
	amount, err := ParseAmount(amountStr)
	if err != nil || !isValidDescription(description) {
		return model.NoMatch()
	}

	return model.MatchResult{
		Matched:     true,
		Date:        postingStr,
		Description: strings.TrimSpace(description),
		Amount:      strings.TrimSpace(amountStr),
		Pattern:     model.PatternTwoDates,
		Confidence:  c.scoreConfidence(date, amount, description) * c.cfg.TwoDatesFactor,
	}
}

func (c *Classifier) tryCardRef(line string, inferredYear int, dateFirst bool) model.MatchResult {
	m := cardRefRe.FindStringSubmatch(line)
	if m == nil {
		return model.NoMatch()
	}
	postingStr := m[2]
	description := strings.TrimSpace(leadingDateRe.ReplaceAllString(m[5], ""))
	location := m[6]
	amountStr := m[7]

	date, err := ParseDate(postingStr, inferredYear, dateFirst)
	if err != nil {
		return model.NoMatch()
	}
	amount, err := ParseAmount(amountStr)
	if err != nil || !isValidDescription(description) {
		return model.NoMatch()
	}

	fullDescription := strings.TrimSpace(description + " " + strings.TrimSpace(location))
	return model.MatchResult{
		Matched:     true,
		Date:        postingStr,
		Description: fullDescription,
		Amount:      strings.TrimSpace(amountStr),
		Pattern:     model.PatternCardRef,
		Confidence:  c.scoreConfidence(date, amount, fullDescription) * c.cfg.CardRefFactor,
	}
}

func (c *Classifier) tryMerchantLoc(line string, inferredYear int, dateFirst bool) model.MatchResult {
	m := merchantLocRe.FindStringSubmatch(line)
	if m == nil {
		return model.NoMatch()
	}
	postingStr := m[2]
	merchant := strings.TrimSpace(leadingDateRe.ReplaceAllString(m[3], ""))
	location := m[4]
	amountStr := m[5]

	date, err := ParseDate(postingStr, inferredYear, dateFirst)
	if err != nil {
		return model.NoMatch()
	}
	amount, err := ParseAmount(amountStr)
	if err != nil || !isValidDescription(merchant) {
		return model.NoMatch()
	}

	fullDescription := strings.TrimSpace(merchant + " " + strings.TrimSpace(location))
	return model.MatchResult{
		Matched:     true,
		Date:        postingStr,
		Description: fullDescription,
		Amount:      strings.TrimSpace(amountStr),
		Pattern:     model.PatternMerchantLoc,
		Confidence:  c.scoreConfidence(date, amount, fullDescription) * c.cfg.MerchantLocFactor,
	}
}

func (c *Classifier) tryFuzzy(line string, inferredYear int, dateFirst bool) model.MatchResult {
	dateStr := findDateFuzzy(line)
	if dateStr == "" {
		return model.NoMatch()
	}
	date, err := ParseDate(dateStr, inferredYear, dateFirst)
	if err != nil {
		return model.NoMatch()
	}

	amountStr := findAmountFuzzy(line)
	if amountStr == "" {
		return model.NoMatch()
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return model.NoMatch()
	}
	// Zero amounts out of fuzzy extraction are noise, never transactions.
	if amount == 0 {
		return model.NoMatch()
	}

	datePos := strings.Index(line, dateStr)
	amountPos := strings.Index(line, amountStr)
	amountEnd := amountPos + len(amountStr)

	// An amount before the date, or stranded mid-line, marks an
	// informational sentence ("$612.54 will be deducted ... on 01/12/26").
	if amountPos <= datePos || amountEnd < len(line)-c.cfg.AmountTailWindow {
		return model.NoMatch()
	}

	// The date must open the line unless a recognized prefix precedes it.
	if datePos > 0 {
		prefix := strings.ToLower(strings.TrimSpace(line[:datePos]))
		valid := false
		for _, p := range validPrefixes {
			if strings.Contains(prefix, p) {
				valid = true
				break
			}
		}
		if !valid {
			return model.NoMatch()
		}
	}

	description := extractDescriptionFuzzy(line, dateStr, amountStr)
	if !isValidDescription(description) {
		return model.NoMatch()
	}

	confidence := math.Min(c.cfg.FuzzyBaseConfidence+3*c.cfg.FuzzyFieldBonus, 0.9)
	if c.dateIsStale(date) {
		confidence *= c.cfg.StaleDatePenalty
	}
	return model.MatchResult{
		Matched:     true,
		Date:        dateStr,
		Description: description,
		Amount:      strings.TrimSpace(amountStr),
		Pattern:     model.PatternFuzzy,
		Confidence:  confidence,
	}
}

// scoreConfidence starts at 1.0 and applies penalties for implausible
// dates, near-zero amounts, and degenerate descriptions.
func (c *Classifier) scoreConfidence(date time.Time, amount float64, description string) float64 {
	confidence := 1.0

	if c.dateIsStale(date) {
		confidence *= c.cfg.StaleDatePenalty
	}

	if math.Abs(amount) < 0.01 {
		confidence *= c.cfg.TinyAmountPenalty
	}

	length := len(strings.TrimSpace(description))
	if length < c.cfg.MinDescLength {
		confidence *= c.cfg.ShortDescPenalty
	} else if length > c.cfg.MaxDescLength {
		confidence *= c.cfg.LongDescPenalty
	}

	return math.Min(1.0, confidence)
}

// dateIsStale reports whether the date drifts implausibly far from now
// in either direction.
func (c *Classifier) dateIsStale(date time.Time) bool {
	maxDrift := time.Duration(c.cfg.MaxDateDriftYears) * 365 * 24 * time.Hour
	drift := time.Since(date)
	return drift > maxDrift || drift < -maxDrift
}

func findDateFuzzy(line string) string {
	for _, re := range fuzzyDateRes {
		if loc := re.FindStringIndex(line); loc != nil {
			return line[loc[0]:loc[1]]
		}
	}
	return ""
}

// findAmountFuzzy locates the first amount token whose boundaries do not
// touch other word characters, so fragments of phone or account numbers
// never qualify.
func findAmountFuzzy(line string) string {
	for _, loc := range amountSearchRe.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isWordByte(line[start-1]) {
			continue
		}
		if end < len(line) && isWordByte(line[end]) {
			continue
		}
		return strings.TrimSpace(line[start:end])
	}
	return ""
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

func extractDescriptionFuzzy(line, dateStr, amountStr string) string {
	description := line
	if dateStr != "" {
		description = strings.Replace(description, dateStr, "", 1)
	}
	if amountStr != "" {
		if strings.HasSuffix(strings.TrimSpace(description), amountStr) {
			trimmed := strings.TrimSpace(description)
			description = trimmed[:len(trimmed)-len(amountStr)]
		} else {
			description = strings.Replace(description, amountStr, "", 1)
		}
	}
	description = multiSpaceRe.ReplaceAllString(strings.TrimSpace(description), " ")
	// Strip stray date fragments left at the edges.
	description = strings.TrimSpace(leadingNumRe.ReplaceAllString(description, ""))
	description = strings.TrimSpace(trailingNumRe.ReplaceAllString(description, ""))
	return description
}

// isValidDescription keeps filtering minimal: the early line filter and
// pattern shapes do the heavy lifting, so only guaranteed false positives
// are rejected here.
func isValidDescription(description string) bool {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return false
	}

	lower := strings.ToLower(trimmed)
	if phoneLineRe.MatchString(lower) {
		return false
	}
	if pageFooterRe.MatchString(lower) || openToCloseRe.MatchString(lower) {
		return false
	}
	if strings.Contains(lower, "agreement for details") ||
		strings.Contains(lower, "cardmember agreement") ||
		strings.Contains(lower, "cardholder agreement") {
		return false
	}
	return true
}

// normalizeLine collapses runs of whitespace and maps typographic space
// variants (NBSP, en/em spaces, zero-width space) to plain spaces.
func normalizeLine(line string) string {
	normalized := strings.Map(func(r rune) rune {
		if r == '\u00a0' || (r >= '\u2000' && r <= '\u200b') {
			return ' '
		}
		return r
	}, line)
	return multiSpaceRe.ReplaceAllString(strings.TrimSpace(normalized), " ")
}
