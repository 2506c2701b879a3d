// Package accountdetect infers institution, account holder, account
// number, and account type from the noisy evidence a statement document
// offers: its filename, header text, body text, and tabular rows. Every
// entry point is total: empty input produces an empty DetectedAccount,
// never an error.
package accountdetect

import (
	"regexp"
	"strings"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Aggregator scores account evidence across sources. Immutable after
// construction and safe for concurrent use.
type Aggregator struct {
	cfg Config
}

// New creates an evidence aggregator with the given tables and weights.
func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// evidence is one sourced candidate value for a detection dimension.
type evidence struct {
	value      string
	extra      string // subtype for account-type evidence
	confidence float64
}

var (
	labelledNumberRe = regexp.MustCompile(`(?i)account\s*(?:number|no\.?|#)\s*[:#]?\s*([x*\d][x*\d\s-]{4,})`)
	maskedNumberRe   = regexp.MustCompile(`[xX*]{2,}\s*-?\s*(\d{4})`)
	endingInRe       = regexp.MustCompile(`(?i)(?:ending|ends)\s+(?:in\s+)?(\d{4})`)
	cardNumberRe     = regexp.MustCompile(`(?i)card\s*(?:number|no\.?)?\s*[:#]?\s*((?:[x*\d]{4}[\s-]){3}\d{4}|[x*]+\s*\d{4})`)
	bareDigitsRe     = regexp.MustCompile(`\D`)
	fourDigitTokenRe = regexp.MustCompile(`\b(\d{4})\b`)
)

// DetectAccount merges evidence from a filename, column headers, tabular
// data rows, and free-form metadata into one DetectedAccount. Each source
// carries a fixed confidence; per dimension the highest-confidence
// candidate above the threshold wins.
func (a *Aggregator) DetectAccount(filename string, headers []string, rows [][]string, metadata map[string]string) model.DetectedAccount {
	institution := make([]evidence, 0, 4)
	number := make([]evidence, 0, 4)
	accType := make([]evidence, 0, 4)
	name := make([]evidence, 0, 2)
	holder := make([]evidence, 0, 2)

	fromFile := a.DetectFromFilename(filename)
	if fromFile.InstitutionName != "" {
		institution = append(institution, evidence{value: fromFile.InstitutionName, confidence: a.cfg.FilenameConfidence})
	}
	if fromFile.AccountNumber != "" {
		number = append(number, evidence{value: fromFile.AccountNumber, confidence: a.cfg.FilenameConfidence})
	}
	if fromFile.AccountType != "" {
		accType = append(accType, evidence{value: fromFile.AccountType, extra: fromFile.AccountSubtype, confidence: a.cfg.FilenameConfidence})
	}

	for col, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		if lower == "" {
			continue
		}

		// Headers sometimes embed values directly: "Account Number: 3100".
		if m := labelledNumberRe.FindStringSubmatch(header); m != nil {
			if last4 := lastFourDigits(m[1]); last4 != "" {
				number = append(number, evidence{value: last4, confidence: a.cfg.HeaderConfidence})
			}
		}

		firstValue := firstNonEmptyInColumn(rows, col)
		if firstValue == "" {
			continue
		}

		switch {
		case isAccountNumberColumn(lower):
			if last4 := lastFourDigits(firstValue); last4 != "" {
				number = append(number, evidence{value: last4, confidence: a.cfg.DataConfidence})
			}
		case isInstitutionColumn(lower):
			if a.matchesInstitution(firstValue) {
				institution = append(institution, evidence{value: a.normalizeInstitutionName(firstValue), confidence: a.cfg.DataConfidence})
			}
		case isAccountTypeColumn(lower):
			if t, sub := accountTypeFromText(strings.ToLower(firstValue)); t != "" {
				accType = append(accType, evidence{value: t, extra: sub, confidence: a.cfg.DataConfidence})
			}
		case isAccountNameColumn(lower):
			name = append(name, evidence{value: strings.TrimSpace(firstValue), confidence: a.cfg.DataConfidence})
		case isHolderColumn(lower):
			if !a.rejectHolderCandidate(firstValue) {
				holder = append(holder, evidence{value: strings.TrimSpace(firstValue), confidence: a.cfg.DataConfidence})
			}
		}
	}

	if last4 := a.extractAccountNumberStatistically(rows); last4 != "" {
		number = append(number, evidence{value: last4, confidence: a.cfg.StatisticalConfidence})
	}
	if t := inferTypeFromRows(rows); t != "" {
		accType = append(accType, evidence{value: t, confidence: a.cfg.StatisticalConfidence})
	}

	for key, value := range metadata {
		if strings.TrimSpace(value) == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "institution", "bank", "institution_name":
			institution = append(institution, evidence{value: strings.TrimSpace(value), confidence: a.cfg.MetadataConfidence})
		case "account_number", "accountnumber", "account":
			if last4 := lastFourDigits(value); last4 != "" {
				number = append(number, evidence{value: last4, confidence: a.cfg.MetadataConfidence})
			}
		case "account_type", "type":
			if t, sub := accountTypeFromText(strings.ToLower(value)); t != "" {
				accType = append(accType, evidence{value: t, extra: sub, confidence: a.cfg.MetadataConfidence})
			}
		case "account_name":
			name = append(name, evidence{value: strings.TrimSpace(value), confidence: a.cfg.MetadataConfidence})
		case "holder", "account_holder":
			holder = append(holder, evidence{value: strings.TrimSpace(value), confidence: a.cfg.MetadataConfidence})
		}
	}

	var detected model.DetectedAccount
	detected.InstitutionName = a.pickEvidence(institution)
	detected.AccountNumber = a.pickEvidence(number)
	detected.AccountHolderName = a.pickEvidence(holder)
	if best := a.pickEvidenceFull(accType); best != nil {
		detected.AccountType = best.value
		detected.AccountSubtype = best.extra
	}
	detected.AccountName = a.pickEvidence(name)
	if detected.AccountName == "" && detected.InstitutionName != "" && detected.AccountType != "" {
		detected.AccountName = generateAccountName(detected.InstitutionName, detected.AccountType, detected.AccountSubtype, detected.AccountNumber)
	}

	common.LogDebug("account detection complete", common.Fields{
		"filename":    filename,
		"institution": detected.InstitutionName,
		"type":        detected.AccountType,
		"number":      detected.AccountNumber,
	})

	return detected
}

// DetectFromText infers account details from extracted document text,
// falling back to the filename for institution evidence. This is the PDF
// statement path.
func (a *Aggregator) DetectFromText(text, filename string) model.DetectedAccount {
	if strings.TrimSpace(text) == "" {
		return a.DetectFromFilename(filename)
	}

	var detected model.DetectedAccount
	lower := strings.ToLower(text)

	detected.InstitutionName = a.DetectInstitution(text)
	if detected.InstitutionName == "" {
		detected.InstitutionName = a.DetectFromFilename(filename).InstitutionName
	}

	if m := labelledNumberRe.FindStringSubmatch(text); m != nil {
		detected.AccountNumber = lastFourDigits(m[1])
	}
	if detected.AccountNumber == "" {
		if m := endingInRe.FindStringSubmatch(text); m != nil {
			detected.AccountNumber = m[1]
		}
	}
	if detected.AccountNumber == "" {
		if m := maskedNumberRe.FindStringSubmatch(text); m != nil {
			detected.AccountNumber = m[1]
		}
	}

	if m := cardNumberRe.FindStringSubmatch(text); m != nil {
		if last4 := lastFourDigits(m[1]); last4 != "" {
			detected.CardNumber = last4
			if detected.AccountNumber == "" {
				detected.AccountNumber = last4
			}
		}
	}

	switch {
	case hasCreditCardMarkers(lower):
		detected.AccountType = model.AccountTypeCredit
		detected.AccountSubtype = "credit card"
	case strings.Contains(lower, "checking"):
		detected.AccountType = model.AccountTypeDepository
		detected.AccountSubtype = "checking"
	case strings.Contains(lower, "savings"):
		detected.AccountType = model.AccountTypeDepository
		detected.AccountSubtype = "savings"
	case strings.Contains(lower, "mortgage") || containsWord(lower, "loan"):
		detected.AccountType = model.AccountTypeLoan
	}

	detected.AccountHolderName = a.DetectHolderName(text)

	if detected.InstitutionName != "" && detected.AccountType != "" {
		detected.AccountName = generateAccountName(detected.InstitutionName, detected.AccountType, detected.AccountSubtype, detected.AccountNumber)
	}

	return detected
}

func (a *Aggregator) pickEvidence(evidences []evidence) string {
	if best := a.pickEvidenceFull(evidences); best != nil {
		return best.value
	}
	return ""
}

func (a *Aggregator) pickEvidenceFull(evidences []evidence) *evidence {
	var best *evidence
	for i := range evidences {
		e := &evidences[i]
		if e.confidence < a.cfg.EvidenceThreshold {
			continue
		}
		if best == nil || e.confidence > best.confidence {
			best = e
		}
	}
	return best
}

// extractAccountNumberStatistically finds the most frequent 4-digit token
// in the leading data rows; a token must repeat to count as evidence.
func (a *Aggregator) extractAccountNumberStatistically(rows [][]string) string {
	counts := make(map[string]int)
	limit := a.cfg.StatisticalRowLimit
	for i, row := range rows {
		if i >= limit {
			break
		}
		for _, cell := range row {
			for _, m := range fourDigitTokenRe.FindAllStringSubmatch(cell, -1) {
				// Years in date cells repeat on every row and would
				// always win; they are not account evidence.
				if m[1] >= "1950" && m[1] <= "2049" {
					continue
				}
				counts[m[1]]++
			}
		}
	}

	best, bestCount := "", 0
	for token, count := range counts {
		if count > bestCount {
			best, bestCount = token, count
		}
	}
	if bestCount < a.cfg.StatisticalMinOccurrences {
		return ""
	}
	return best
}

// inferTypeFromRows guesses depository when check/ACH/debit activity and
// credits both appear in the data.
func inferTypeFromRows(rows [][]string) string {
	var debitish, creditish int
	for _, row := range rows {
		joined := strings.ToLower(strings.Join(row, " "))
		if strings.Contains(joined, "check") || strings.Contains(joined, "ach") || strings.Contains(joined, "debit") {
			debitish++
		}
		if strings.Contains(joined, "deposit") || strings.Contains(joined, "credit") {
			creditish++
		}
	}
	if debitish >= 2 && creditish >= 1 {
		return model.AccountTypeDepository
	}
	return ""
}

func hasCreditCardMarkers(lower string) bool {
	markers := []string{
		"credit limit", "available credit", "cash advance",
		"minimum payment due", "annual percentage rate", "apr",
	}
	hits := 0
	for _, m := range markers {
		if strings.Contains(lower, m) {
			hits++
		}
	}
	return hits >= 2
}

// accountTypeFromText maps a free-form type cell to the account taxonomy.
func accountTypeFromText(lower string) (accType, subtype string) {
	if strings.Contains(lower, "credit card") || strings.Contains(lower, "creditcard") || strings.Contains(lower, "charge card") {
		return model.AccountTypeCredit, "credit card"
	}
	for keyword, t := range accountTypePatterns {
		if !strings.Contains(lower, keyword) {
			continue
		}
		if t == model.AccountTypeDepository {
			switch {
			case strings.Contains(lower, "check") || strings.Contains(lower, "current"):
				return t, "checking"
			case strings.Contains(lower, "saving"):
				return t, "savings"
			}
		}
		return t, ""
	}
	return "", ""
}

func isAccountNumberColumn(lower string) bool {
	return strings.Contains(lower, "account number") || strings.Contains(lower, "account no") ||
		strings.Contains(lower, "acct") || lower == "account"
}

func isInstitutionColumn(lower string) bool {
	return strings.Contains(lower, "institution") || strings.Contains(lower, "bank")
}

func isAccountTypeColumn(lower string) bool {
	return strings.Contains(lower, "account type") || lower == "type"
}

func isAccountNameColumn(lower string) bool {
	return strings.Contains(lower, "account name")
}

func isHolderColumn(lower string) bool {
	return strings.Contains(lower, "holder") || strings.Contains(lower, "owner")
}

func firstNonEmptyInColumn(rows [][]string, col int) string {
	for _, row := range rows {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			return strings.TrimSpace(row[col])
		}
	}
	return ""
}

func lastFourDigits(s string) string {
	digits := bareDigitsRe.ReplaceAllString(s, "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
