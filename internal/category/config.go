package category

import "time"

// Config holds the rule engine's lookup tables and thresholds. Build once
// at startup; the engine only reads it.
type Config struct {
	// StrategyOrder lists category strategies in evaluation order. First
	// confident match wins, so more specific categories come first.
	StrategyOrder []string

	// KeywordSets maps each category to the merchant/description keywords
	// that indicate it. Matching is case-insensitive substring.
	KeywordSets map[string][]string

	// AmountCeiling is the magnitude beyond which an amount is treated as
	// absent rather than used for scoring.
	AmountCeiling float64

	// RuleConfidence is assigned to keyword-strategy matches.
	RuleConfidence float64
	// HintConfidence is assigned when only an upstream category hint fits.
	HintConfidence float64
	// OverrideConfidence floors the confidence of an override result.
	OverrideConfidence float64
	// DefaultConfidence is assigned to the "other" fallback.
	DefaultConfidence float64
	// MLMinConfidence is the minimum scorer confidence the engine accepts.
	MLMinConfidence float64

	// Circuit breaker around the external scorer.
	BreakerOpenTimeout  time.Duration
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
}

// DefaultConfig returns the keyword tables and thresholds tuned against
// real statement imports.
func DefaultConfig() Config {
	return Config{
		StrategyOrder: []string{
			"dining", "groceries", "utilities", "transportation",
			"health", "entertainment", "tech", "travel",
			"pet", "charity", "education", "shopping",
		},
		KeywordSets:         defaultKeywordSets(),
		AmountCeiling:       1_000_000_000,
		RuleConfidence:      0.9,
		HintConfidence:      0.7,
		OverrideConfidence:  0.9,
		DefaultConfidence:   0.05,
		MLMinConfidence:     0.5,
		BreakerOpenTimeout:  30 * time.Second,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.6,
	}
}

func defaultKeywordSets() map[string][]string {
	return map[string][]string{
		"dining": {
			"restaurant", "cafe", "coffee", "starbucks", "mcdonald",
			"chipotle", "subway", "taco", "pizza", "sushi", "ramen",
			"bakery", "deli", "bistro", "grill", "pub", "brewery",
			"doordash", "uber eats", "ubereats", "grubhub", "postmates",
			"dining", "eatery", "noodle", "pho", "bbq", "steakhouse",
			"teriyaki", "boba", "bubble tea",
		},
		"groceries": {
			"safeway", "kroger", "qfc", "quality food centers", "albertsons",
			"trader joe", "whole foods", "wholefds", "costco", "sam's club",
			"aldi", "wegmans", "publix", "sprouts", "winco", "fred meyer",
			"grocery", "supermarket", "market", "pantry", "amazon fresh",
			"instacart", "h mart", "hmart", "uwajimaya", "pcc",
		},
		"utilities": {
			"puget sound energy", "pacific gas", "pg&e", "con edison",
			"duke energy", "dominion energy", "xcel energy", "centerpoint",
			"electric", "electricity", "energy", "utility", "utilities",
			"gas company", "water company", "power company", "sewer",
			"comcast", "xfinity", "verizon", "t-mobile", "at&t", "att ",
			"centurylink", "internet", "broadband", "waste management",
		},
		"transportation": {
			"shell", "chevron", "exxon", "mobil", "arco", "valero",
			"texaco", "phillips 66", "conoco", "sunoco", "speedway",
			"circle k", "76 station", "76 gas", "union 76", "gas station",
			"fuel", "uber", "lyft", "taxi", "transit", "metro", "amtrak",
			"parking", "toll", "ferry", "car wash", "jiffy lube",
			"autozone", "o'reilly", "les schwab", "discount tire",
		},
		"health": {
			"pharmacy", "cvs", "walgreens", "rite aid", "clinic",
			"hospital", "medical", "dental", "dentist", "vision",
			"optometry", "urgent care", "doctor", "physician", "lab corp",
			"labcorp", "quest diagnostics", "gym", "fitness", "yoga",
			"pilates", "planet fitness", "24 hour fitness", "la fitness",
			"equinox", "crossfit", "massage", "spa", "salon", "haircut",
			"barber", "nail",
		},
		"entertainment": {
			"netflix", "hulu", "disney", "spotify", "pandora", "audible",
			"cinema", "theater", "theatre", "amc", "regal", "concert",
			"ticketmaster", "stubhub", "eventbrite", "museum", "zoo",
			"aquarium", "bowling", "arcade", "steam games", "playstation",
			"nintendo", "xbox", "twitch",
		},
		"tech": {
			"microsoft", "apple.com", "google", "aws", "amazon web services",
			"adobe", "github", "gitlab", "slack", "zoom", "dropbox",
			"notion", "figma", "openai", "anthropic", "software", "saas",
			"cloud", "hosting", "domain", "vercel", "netlify",
		},
		"travel": {
			"airline", "airlines", "airways", "delta", "united", "alaska air",
			"southwest", "jetblue", "american airlines", "hotel", "motel",
			"marriott", "hilton", "hyatt", "airbnb", "vrbo", "expedia",
			"booking.com", "priceline", "travelocity", "rental car", "hertz",
			"avis", "enterprise rent", "cruise", "airport",
		},
		"pet": {
			"petco", "petsmart", "chewy", "veterinary", "vet clinic",
			"animal hospital", "pet food", "grooming", "kennel", "banfield",
		},
		"charity": {
			"donation", "donate", "red cross", "united way", "salvation army",
			"goodwill", "charity", "foundation", "nonprofit", "gofundme",
		},
		"education": {
			"tuition", "university", "college", "school district",
			"udemy", "coursera", "edx", "khan academy", "textbook",
			"chegg", "pearson", "kaplan", "tutoring",
		},
		"shopping": {
			"amazon", "walmart", "target", "best buy", "home depot",
			"lowe's", "lowes", "ikea", "macy", "nordstrom", "rei",
			"etsy", "ebay", "wayfair", "nike", "old navy", "gap",
			"tj maxx", "tjmaxx", "marshalls", "ross ",
		},
	}
}

// Categories whose presence as a hint or result counts as a specific
// income subtype, not generic "income".
var specificIncomeCategories = map[string]struct{}{
	"deposit": {}, "interest": {}, "dividend": {}, "salary": {},
	"stipend": {}, "rentincome": {}, "tips": {}, "otherincome": {},
	"payroll": {},
}
