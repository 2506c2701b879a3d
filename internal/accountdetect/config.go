package accountdetect

// Config carries the lookup tables and scoring weights for document-level
// account detection. Construct once at startup and treat as read-only; the
// aggregator never mutates it.
type Config struct {
	// InstitutionKeywords is matched on word boundaries against filenames
	// and document text. Short entries ("ing", "citi") rely on the boundary
	// matching to avoid substring false positives.
	InstitutionKeywords []string

	// CanonicalNames maps keyword variants to display names.
	CanonicalNames map[string]string

	// Section scoring for institution detection.
	HeaderBaseScore         float64
	TransactionBaseScore    float64
	HeaderWebsiteBonus      float64
	TransactionWebsiteBonus float64
	SpecificityWeight       float64

	// Per-source evidence confidences for DetectAccount.
	FilenameConfidence    float64
	HeaderConfidence      float64
	DataConfidence        float64
	StatisticalConfidence float64
	MetadataConfidence    float64

	// EvidenceThreshold is the minimum confidence for a candidate to be
	// considered at all.
	EvidenceThreshold float64

	// FuzzyMatchThreshold is the minimum Levenshtein similarity for a
	// fuzzy institution match.
	FuzzyMatchThreshold float64

	// Statistical account-number mining over tabular rows.
	StatisticalMinOccurrences int
	StatisticalRowLimit       int
}

// DefaultConfig returns the detection tables tuned against real statement
// exports from US and international institutions.
func DefaultConfig() Config {
	return Config{
		InstitutionKeywords:       defaultInstitutionKeywords(),
		CanonicalNames:            defaultCanonicalNames(),
		HeaderBaseScore:           1.0,
		TransactionBaseScore:      0.3,
		HeaderWebsiteBonus:        2.0,
		TransactionWebsiteBonus:   0.5,
		SpecificityWeight:         0.2,
		FilenameConfidence:        0.7,
		HeaderConfidence:          0.8,
		DataConfidence:            0.9,
		StatisticalConfidence:     0.75,
		MetadataConfidence:        0.6,
		EvidenceThreshold:         0.5,
		FuzzyMatchThreshold:       0.7,
		StatisticalMinOccurrences: 2,
		StatisticalRowLimit:       20,
	}
}

func defaultInstitutionKeywords() []string {
	return []string{
		"chase", "jpmorgan", "jp morgan",
		"bank of america", "bofa",
		"wells fargo", "wellsfargo",
		"citibank", "citi",
		"american express", "amex",
		"capital one", "capitalone",
		"discover",
		"us bank", "u.s. bank", "usbank",
		"pnc", "td bank", "truist", "regions",
		"fifth third", "keybank", "huntington",
		"ally", "synchrony", "barclays",
		"goldman sachs", "marcus",
		"charles schwab", "schwab", "fidelity", "vanguard",
		"hsbc", "santander", "bbva", "ing",
		"deutsche bank", "ubs", "credit suisse",
		"royal bank of canada", "rbc", "scotiabank", "td canada",
		"icici", "hdfc", "axis bank", "sbi", "state bank of india",
		"dbs", "ocbc", "uob", "bri", "mandiri",
		"navy federal", "usaa", "first republic",
	}
}

func defaultCanonicalNames() map[string]string {
	return map[string]string{
		"bofa":                "Bank of America",
		"bank of america":     "Bank of America",
		"amex":                "American Express",
		"american express":    "American Express",
		"chase":               "Chase",
		"jpmorgan":            "JPMorgan Chase",
		"jp morgan":           "JPMorgan Chase",
		"citi":                "Citibank",
		"citibank":            "Citibank",
		"wf":                  "Wells Fargo",
		"wells fargo":         "Wells Fargo",
		"wellsfargo":          "Wells Fargo",
		"usbank":              "U.S. Bank",
		"us bank":             "U.S. Bank",
		"u.s. bank":           "U.S. Bank",
		"capital one":         "Capital One",
		"capitalone":          "Capital One",
		"capone":              "Capital One",
		"discover":            "Discover",
		"schwab":              "Charles Schwab",
		"charles schwab":      "Charles Schwab",
		"fidelity":            "Fidelity",
		"vanguard":            "Vanguard",
		"state bank of india": "State Bank of India",
		"sbi":                 "State Bank of India",
		"hdfc":                "HDFC Bank",
		"icici":               "ICICI Bank",
		"navy federal":        "Navy Federal Credit Union",
		"usaa":                "USAA",
		"marcus":              "Marcus by Goldman Sachs",
		"goldman sachs":       "Goldman Sachs",
	}
}

// accountTypePatterns maps lowercased keywords, across several locales, to
// the Plaid-style account type they indicate.
var accountTypePatterns = map[string]string{
	// English
	"checking": "depository", "current account": "depository",
	"savings": "depository", "saving": "depository",
	"money market": "depository", "deposit": "depository",
	"credit card": "credit", "creditcard": "credit", "charge card": "credit",
	"loan": "loan", "mortgage": "loan", "student loan": "loan",
	"auto loan": "loan", "car loan": "loan", "personal loan": "loan",
	"home loan": "loan", "credit line": "loan", "line of credit": "loan",
	"investment": "investment", "brokerage": "investment",
	"401k": "investment", "ira": "investment", "hsa": "investment",
	"529": "investment", "retirement": "investment",
	"mutual fund": "investment", "stocks": "investment", "bonds": "investment",

	// German
	"girokonto": "depository", "sparkonto": "depository",
	"kreditkarte": "credit", "darlehen": "loan", "depot": "investment",

	// French
	"compte courant": "depository", "compte cheque": "depository",
	"livret": "depository", "carte de credit": "credit", "pret": "loan",

	// Spanish
	"cuenta corriente": "depository", "cuenta de ahorros": "depository",
	"tarjeta de credito": "credit", "prestamo": "loan", "inversion": "investment",

	// Italian
	"conto corrente": "depository", "carta di credito": "credit",

	// Japanese
	"普通預金": "depository", "定期預金": "depository",
	"クレジットカード": "credit", "ローン": "loan", "投資": "investment",

	// Chinese
	"储蓄": "depository", "活期": "depository",
	"信用卡": "credit", "贷款": "loan", "投资": "investment",

	// Korean
	"예금": "depository", "적금": "depository",
	"신용카드": "credit", "대출": "loan",
}
