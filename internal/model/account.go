package model

// Account type values follow the Plaid taxonomy used throughout the
// importers: depository, credit, loan, investment.
const (
	AccountTypeDepository = "depository"
	AccountTypeCredit     = "credit"
	AccountTypeLoan       = "loan"
	AccountTypeInvestment = "investment"
)

// DetectedAccount aggregates everything the document-level detector could
// infer about the account a statement belongs to. Empty fields mean no
// qualifying evidence was found; a DetectedAccount value is always
// produced, even for empty input.
type DetectedAccount struct {
	InstitutionName   string
	AccountHolderName string
	AccountNumber     string // last four digits
	CardNumber        string // last four digits, credit cards only
	AccountType       string
	AccountSubtype    string
	AccountName       string
}

// NameCandidate accumulates evidence for one holder-name or institution
// candidate while scanning a document. Candidates are keyed by normalized
// lowercase text; Text keeps the first casing observed.
type NameCandidate struct {
	Text         string
	PatternTypes map[string]struct{}
	PriorityTier int
	Occurrences  int
	FirstSeen    int
}

// RecordPattern notes that the candidate was produced by the given
// extraction pattern type.
func (c *NameCandidate) RecordPattern(patternType string) {
	if c.PatternTypes == nil {
		c.PatternTypes = make(map[string]struct{})
	}
	c.PatternTypes[patternType] = struct{}{}
}
