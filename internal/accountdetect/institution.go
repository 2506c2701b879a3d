package accountdetect

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ledgersift/ledgersift/internal/common"
)

// Column-header words that mark the start of the transaction table. A line
// containing two or more of them ends the header region.
var transactionSectionWords = []string{
	"date", "posting date", "transaction date", "value date",
	"amount", "debit", "credit", "balance",
	"description", "details", "memo", "notes",
}

type institutionMatch struct {
	keyword              string
	score                float64
	headerFrequency      int
	transactionFrequency int
	specificity          int
	websiteMatch         bool
}

// DetectInstitution scans full document text for institution names,
// weighting header-region occurrences over transaction-table occurrences
// and rewarding website-domain mentions. All keyword matching is on word
// boundaries, so "chase" never matches inside "purchase".
func (a *Aggregator) DetectInstitution(fullText string) string {
	if strings.TrimSpace(fullText) == "" {
		return ""
	}

	headerText, transactionText := splitSections(fullText)
	matches := a.findInstitutionMatches(strings.ToLower(headerText), strings.ToLower(transactionText))
	if len(matches) == 0 {
		return ""
	}

	best := selectBestMatch(matches)
	return a.normalizeInstitutionName(best.keyword)
}

// splitSections divides document text into the header region and the
// transaction-table region.
func splitSections(text string) (header, transactions string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		hits := 0
		for _, word := range transactionSectionWords {
			if containsWord(lower, word) {
				hits++
			}
		}
		if hits >= 2 {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i:], "\n")
		}
	}
	return text, ""
}

func (a *Aggregator) findInstitutionMatches(headerLower, transactionLower string) []institutionMatch {
	matches := make([]institutionMatch, 0, 4)

	for _, keyword := range a.cfg.InstitutionKeywords {
		headerFreq := countWordOccurrences(headerLower, keyword)
		txnFreq := countWordOccurrences(transactionLower, keyword)
		if headerFreq == 0 && txnFreq == 0 {
			continue
		}

		score := a.cfg.HeaderBaseScore*math.Log1p(float64(headerFreq)) +
			a.cfg.TransactionBaseScore*math.Log1p(float64(txnFreq))

		websiteRe := websitePattern(keyword)
		websiteMatch := false
		if websiteRe.MatchString(headerLower) {
			score += a.cfg.HeaderWebsiteBonus
			websiteMatch = true
		} else if websiteRe.MatchString(transactionLower) {
			score += a.cfg.TransactionWebsiteBonus
			websiteMatch = true
		}

		specificity := keywordSpecificity(keyword)
		score += float64(specificity) * a.cfg.SpecificityWeight

		matches = append(matches, institutionMatch{
			keyword:              keyword,
			score:                score,
			headerFrequency:      headerFreq,
			transactionFrequency: txnFreq,
			specificity:          specificity,
			websiteMatch:         websiteMatch,
		})
	}

	return matches
}

// selectBestMatch orders by total score, then header frequency, then fewer
// transaction-section hits, then specificity, then website evidence.
func selectBestMatch(matches []institutionMatch) institutionMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		if matches[i].headerFrequency != matches[j].headerFrequency {
			return matches[i].headerFrequency > matches[j].headerFrequency
		}
		if matches[i].transactionFrequency != matches[j].transactionFrequency {
			return matches[i].transactionFrequency < matches[j].transactionFrequency
		}
		if matches[i].specificity != matches[j].specificity {
			return matches[i].specificity > matches[j].specificity
		}
		return matches[i].websiteMatch && !matches[j].websiteMatch
	})
	return matches[0]
}

// keywordSpecificity ranks full names over abbreviations: multi-word or
// long keywords score 2, medium 1, short 0.
func keywordSpecificity(keyword string) int {
	if strings.Contains(keyword, " ") || len(keyword) > 10 {
		return 2
	}
	if len(keyword) >= 5 {
		return 1
	}
	return 0
}

// websitePattern builds a matcher for domain mentions of the institution,
// e.g. "www.wellsfargo.com" or "chase.com".
func websitePattern(keyword string) *regexp.Regexp {
	squashed := strings.ReplaceAll(keyword, " ", "")
	squashed = strings.ReplaceAll(squashed, ".", "")
	return regexp.MustCompile(`(?:www\.)?` + regexp.QuoteMeta(squashed) + `\.(?:com|net|org|co\.uk|ca|de|fr|in|sg)`)
}

// normalizeInstitutionName maps a matched keyword to its display name.
func (a *Aggregator) normalizeInstitutionName(keyword string) string {
	lower := strings.ToLower(strings.TrimSpace(keyword))
	if canonical, ok := a.cfg.CanonicalNames[lower]; ok {
		return canonical
	}
	return titleCase(lower)
}

// matchesInstitution reports whether text matches a known institution
// keyword exactly, on word boundaries, or within the fuzzy threshold.
func (a *Aggregator) matchesInstitution(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, keyword := range a.cfg.InstitutionKeywords {
		if lower == keyword || containsWord(lower, keyword) {
			return true
		}
		if len(lower) >= 5 && len(keyword) >= 5 &&
			common.LevenshteinSimilarity(lower, keyword) > a.cfg.FuzzyMatchThreshold {
			return true
		}
	}
	return false
}

// containsWord reports whether needle occurs in haystack with non-word
// characters (or string edges) on both sides.
func containsWord(haystack, needle string) bool {
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
		beforeOK := idx == 0 || !isWordByte(haystack[idx-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func countWordOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	count := 0
	start := 0
	for {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return count
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isWordByte(haystack[idx-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			count++
		}
		start = end
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
