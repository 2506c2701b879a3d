package accountdetect

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgersift/ledgersift/internal/model"
)

var (
	fileExtRe        = regexp.MustCompile(`(?i)\.(csv|xlsx|xls|pdf|ofx|qfx|txt)$`)
	digitsAfterName  = regexp.MustCompile(`(?i)[a-z]+(\d{4})(?:_|\s|$)`)
	digitsSeparated  = regexp.MustCompile(`(?:^|_|\s)(\d{4})(?:$|_|\s)`)
	creditFilenameRe = regexp.MustCompile(`(?i)credit|card|cc_|_cc`)
)

// DetectFromFilename mines a statement filename for institution, account
// type, and account-number evidence. Generated names ("unknown" stems,
// import IDs, UUID-shaped names) carry no evidence and yield an empty
// result.
func (a *Aggregator) DetectFromFilename(filename string) model.DetectedAccount {
	var detected model.DetectedAccount

	trimmed := strings.TrimSpace(filename)
	if trimmed == "" {
		return detected
	}

	lower := strings.ToLower(trimmed)
	if isGeneratedFilename(lower) {
		return detected
	}

	stem := fileExtRe.ReplaceAllString(lower, "")

	if inst := a.institutionFromFilename(stem); inst != "" {
		detected.InstitutionName = inst
	}

	if accType, subtype := accountTypeFromFilename(stem); accType != "" {
		detected.AccountType = accType
		detected.AccountSubtype = subtype
	}

	if num := accountNumberFromFilename(stem); num != "" {
		detected.AccountNumber = num
	}

	if detected.InstitutionName != "" && detected.AccountType != "" {
		detected.AccountName = generateAccountName(detected.InstitutionName, detected.AccountType, detected.AccountSubtype, detected.AccountNumber)
	}

	return detected
}

// isGeneratedFilename recognizes placeholder names that were produced by
// an importer rather than a bank.
func isGeneratedFilename(lower string) bool {
	if strings.HasPrefix(lower, "unknown") || strings.HasPrefix(lower, "import_") {
		return true
	}
	stem := fileExtRe.ReplaceAllString(lower, "")
	if _, err := uuid.Parse(stem); err == nil {
		return true
	}
	return false
}

func (a *Aggregator) institutionFromFilename(stem string) string {
	normalized := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	best := ""
	for _, keyword := range a.cfg.InstitutionKeywords {
		squashed := strings.ReplaceAll(keyword, " ", "")
		if !containsWord(normalized, keyword) && !containsLetterBounded(stem, squashed) {
			continue
		}
		// Prefer the most specific keyword present.
		if len(keyword) > len(best) {
			best = keyword
		}
	}
	if best == "" {
		return ""
	}
	return a.normalizeInstitutionName(best)
}

// accountTypeFromFilename checks credit-card markers first: "chase_credit_
// card_3100.csv" must resolve to credit, not depository, even when other
// keywords appear.
func accountTypeFromFilename(stem string) (accType, subtype string) {
	if creditFilenameRe.MatchString(stem) && !strings.Contains(stem, "credit line") {
		return model.AccountTypeCredit, "credit card"
	}
	for keyword, t := range accountTypePatterns {
		if !strings.Contains(stem, keyword) {
			continue
		}
		switch t {
		case model.AccountTypeDepository:
			switch {
			case strings.Contains(stem, "checking") || strings.Contains(stem, "check"):
				return t, "checking"
			case strings.Contains(stem, "saving"):
				return t, "savings"
			}
			return t, ""
		default:
			return t, ""
		}
	}
	return "", ""
}

// containsLetterBounded matches needle in haystack with no letters touching
// either side; digits may, so "chase3100" still names Chase while "ing"
// never matches inside "checking".
func containsLetterBounded(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isLetterByte(haystack[idx-1])
		afterOK := end == len(haystack) || !isLetterByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func accountNumberFromFilename(stem string) string {
	if m := digitsAfterName.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	if m := digitsSeparated.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return ""
}

// generateAccountName builds a display name like "Chase Credit Card ...3100".
func generateAccountName(institution, accType, subtype, number string) string {
	parts := []string{institution}
	switch {
	case subtype != "":
		parts = append(parts, titleCase(subtype))
	case accType != "":
		parts = append(parts, titleCase(accType))
	}
	if number != "" {
		parts = append(parts, "..."+number)
	}
	return strings.Join(parts, " ")
}
