package accountdetect

import (
	"regexp"
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
)

// Extraction pattern tiers for holder-name candidates. Direct attribution
// outranks contextual proximity.
const (
	tierDirect        = 100
	tierAddressBlock  = 90
	tierMemberSince   = 85
	tierShortAddress  = 80
	tierNearAccount   = 75
	tierSameLineLabel = 70
)

var directNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^card\s*member:?\s+(.+)$`),
	regexp.MustCompile(`(?i)^(?:name|user|cardholder|holder):\s*(.+)$`),
	regexp.MustCompile(`(?i)^(?:primary\s+)?account\s+holder:?\s+(.+)$`),
	regexp.MustCompile(`(?i)^primary\s+cardholder:?\s+(.+)$`),
	regexp.MustCompile(`(?i)^(?:account\s+owner|beneficial\s+owner|beneficiary):?\s+(.+)$`),
}

var (
	streetLineRe    = regexp.MustCompile(`(?i)^\d+\s+\S+.*\b(?:street|st|avenue|ave|road|rd|drive|dr|lane|ln|boulevard|blvd|court|ct|way|place|pl|apt|suite|unit)\b`)
	cityStateZipRe  = regexp.MustCompile(`(?i)^.+,?\s+[A-Za-z]{2}\s+\d{5}(?:-\d{4})?$`)
	sinceLineRe     = regexp.MustCompile(`(?i)\b(?:member|customer)\s+since\b`)
	accountNoLineRe = regexp.MustCompile(`(?i)\b(?:account|card)\s*(?:number|no\.?|#)?\s*[:#]?\s*[x*\d][x*\d\s-]{6,}`)
	nameShapeRe     = regexp.MustCompile(`^[A-Za-z][A-Za-z.'-]*(?:\s+[A-Za-z][A-Za-z.'-]*){1,3}$`)
)

// Lines with these markers are never name candidates regardless of shape.
var nameSkipMarkers = []string{
	"statement period", "account summary", "balance", "payment due",
	"customer service", "cardmember", "cardholder services",
	"minimum payment", "credit limit", "available credit",
	"transaction", "description", "amount", "billing",
	"p.o. box", "po box", "agreement",
}

var usStateAbbrevs = map[string]struct{}{
	"al": {}, "ak": {}, "az": {}, "ar": {}, "ca": {}, "co": {}, "ct": {},
	"de": {}, "fl": {}, "ga": {}, "hi": {}, "id": {}, "il": {}, "in": {},
	"ia": {}, "ks": {}, "ky": {}, "la": {}, "me": {}, "md": {}, "ma": {},
	"mi": {}, "mn": {}, "ms": {}, "mo": {}, "mt": {}, "ne": {}, "nv": {},
	"nh": {}, "nj": {}, "nm": {}, "ny": {}, "nc": {}, "nd": {}, "oh": {},
	"ok": {}, "or": {}, "pa": {}, "ri": {}, "sc": {}, "sd": {}, "tn": {},
	"tx": {}, "ut": {}, "vt": {}, "va": {}, "wa": {}, "wv": {}, "wi": {}, "wy": {},
}

// DetectHolderName scans header text for the account holder's name.
// Candidates from direct labels ("Card Member: X") outrank contextual ones
// (a bare name line followed by an address block); within a tier the most
// frequent candidate wins, then cross-pattern presence, then first seen.
// Returns "" when no qualifying candidate survives.
func (a *Aggregator) DetectHolderName(headerText string) string {
	if strings.TrimSpace(headerText) == "" {
		return ""
	}

	lines := strings.Split(headerText, "\n")
	candidates := make(map[string]*model.NameCandidate)
	order := 0

	record := func(raw string, tier int, patternType string) {
		name := cleanCandidateName(raw)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		cand, ok := candidates[key]
		if !ok {
			cand = &model.NameCandidate{
				Text:         name,
				PriorityTier: tier,
				FirstSeen:    order,
			}
			candidates[key] = cand
			order++
		}
		cand.Occurrences++
		if tier > cand.PriorityTier {
			cand.PriorityTier = tier
		}
		cand.RecordPattern(patternType)
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		for _, re := range directNameRes {
			if m := re.FindStringSubmatch(trimmed); m != nil {
				record(m[1], tierDirect, "direct")
			}
		}

		if !isNameShaped(trimmed) {
			continue
		}

		// Name line directly above an address block.
		if i+2 < len(lines) &&
			streetLineRe.MatchString(strings.TrimSpace(lines[i+1])) &&
			cityStateZipRe.MatchString(strings.TrimSpace(lines[i+2])) {
			record(trimmed, tierAddressBlock, "address")
		} else if i+1 < len(lines) && streetLineRe.MatchString(strings.TrimSpace(lines[i+1])) {
			record(trimmed, tierShortAddress, "address")
		}

		// Name line adjacent to a membership-date or account-number line.
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if sinceLineRe.MatchString(next) {
				record(trimmed, tierMemberSince, "member_since")
			}
			if accountNoLineRe.MatchString(next) {
				record(trimmed, tierNearAccount, "near_account")
			}
		}
		if sinceLineRe.MatchString(trimmed) {
			// "John Doe member since 2004" on one line.
			prefix := strings.TrimSpace(sinceLineRe.Split(trimmed, 2)[0])
			if isNameShaped(prefix) {
				record(prefix, tierSameLineLabel, "same_line")
			}
		}
	}

	best := a.selectHolderCandidate(candidates)
	if best == nil {
		return ""
	}
	return best.Text
}

// selectHolderCandidate applies the deterministic total order: priority
// tier, then occurrence count, then distinct pattern types, then
// first-seen. Candidates matching an institution name are discarded.
func (a *Aggregator) selectHolderCandidate(candidates map[string]*model.NameCandidate) *model.NameCandidate {
	var best *model.NameCandidate
	for _, cand := range candidates {
		if a.rejectHolderCandidate(cand.Text) {
			continue
		}
		if best == nil || holderCandidateBeats(best, cand) {
			best = cand
		}
	}
	return best
}

// holderCandidateBeats reports whether challenger beats current.
func holderCandidateBeats(current, challenger *model.NameCandidate) bool {
	if challenger.PriorityTier != current.PriorityTier {
		return challenger.PriorityTier > current.PriorityTier
	}
	if challenger.Occurrences != current.Occurrences {
		return challenger.Occurrences > current.Occurrences
	}
	if len(challenger.PatternTypes) != len(current.PatternTypes) {
		return len(challenger.PatternTypes) > len(current.PatternTypes)
	}
	return challenger.FirstSeen < current.FirstSeen
}

// rejectHolderCandidate discards names that are really institutions,
// state abbreviations, or single lowercase tokens.
func (a *Aggregator) rejectHolderCandidate(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return true
	}
	if a.matchesInstitution(lower) {
		return true
	}
	words := strings.Fields(lower)
	if len(words) == 1 {
		if _, ok := usStateAbbrevs[words[0]]; ok {
			return true
		}
		// A bank statement never labels the holder with one lowercase word.
		if name == lower {
			return true
		}
	}
	return false
}

func cleanCandidateName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, ":#-")
	name = strings.TrimSpace(name)
	if name == "" || !isNameShaped(name) {
		return ""
	}
	return name
}

// isNameShaped accepts 2-4 alphabetic words with no skip markers.
func isNameShaped(line string) bool {
	if !nameShapeRe.MatchString(line) {
		return false
	}
	lower := strings.ToLower(line)
	for _, marker := range nameSkipMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
