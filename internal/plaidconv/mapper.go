// Package plaidconv fetches transactions from the Plaid API and converts
// them into the import model, mapping Plaid's personal finance categories
// onto the internal category names the rule engine uses.
package plaidconv

import "strings"

// primaryCategoryMap translates Plaid primary personal-finance categories
// to internal category names.
var primaryCategoryMap = map[string]string{
	"FOOD_AND_DRINK":            "dining",
	"GENERAL_MERCHANDISE":       "shopping",
	"GENERAL_SERVICES":          "utilities",
	"GOVERNMENT_AND_NON_PROFIT": "other",
	"HOME_IMPROVEMENT":          "other",
	"MEDICAL":                   "healthcare",
	"PERSONAL_CARE":             "other",
	"TRANSPORTATION":            "transportation",
	"TRAVEL":                    "travel",
	"RENT_AND_UTILITIES":        "rent",
	"ENTERTAINMENT":             "entertainment",
	"INCOME":                    "income",
	"TRANSFER_IN":               "income",
	"TRANSFER_OUT":              "other",
	"LOAN_PAYMENTS":             "other",
	"BANK_FEES":                 "other",
	"GAS_STATIONS":              "transportation",
	"GROCERIES":                 "groceries",
	"SUBSCRIPTIONS":             "subscriptions",
	"INVESTMENT":                "investment",
}

// detailedCategoryMap translates Plaid detailed categories. More specific
// than the primary map, so it wins when both match.
var detailedCategoryMap = map[string]string{
	// Food and drink
	"RESTAURANTS":      "dining",
	"RESTAURANT":       "dining",
	"FAST_FOOD":        "dining",
	"COFFEE":           "dining",
	"COFFEE_SHOPS":     "dining",
	"FOOD_DELIVERY":    "dining",
	"GROCERIES":        "groceries",
	"SUPERMARKETS":     "groceries",
	"ALCOHOL_AND_BARS": "dining",

	// Transportation
	"GAS_STATIONS":          "transportation",
	"GAS":                   "transportation",
	"PUBLIC_TRANSPORTATION": "transportation",
	"PUBLIC_TRANSIT":        "transportation",
	"TAXI":                  "transportation",
	"RIDE_SHARE":            "transportation",
	"TAXIS_AND_RIDE_SHARES": "transportation",
	"PARKING":               "transportation",
	"TOLLS":                 "transportation",

	// Shopping
	"GENERAL_MERCHANDISE":      "shopping",
	"ONLINE_MARKETPLACES":      "shopping",
	"DEPARTMENT_STORES":        "shopping",
	"CLOTHING_AND_ACCESSORIES": "shopping",
	"ELECTRONICS":              "shopping",

	// Entertainment
	"ENTERTAINMENT":         "entertainment",
	"MOVIES_AND_DVDS":       "entertainment",
	"MUSIC_AND_AUDIO":       "subscriptions",
	"GAMES_AND_GAMING":      "entertainment",
	"SPORTS_AND_RECREATION": "entertainment",

	// Subscriptions
	"SOFTWARE_SUBSCRIPTIONS": "subscriptions",
	"STREAMING_SERVICES":     "subscriptions",
	"MUSIC_STREAMING":        "subscriptions",
	"NEWS_SUBSCRIPTIONS":     "subscriptions",
	"GAMING_SUBSCRIPTIONS":   "subscriptions",

	// Travel
	"HOTELS_AND_ACCOMMODATIONS": "travel",
	"AIR_TRAVEL":                "travel",
	"FLIGHTS":                   "travel",
	"LODGING":                   "travel",
	"RENTAL_CARS":               "travel",
	"TRAVEL_AGENCIES":           "travel",

	// Rent and utilities
	"RENT":               "rent",
	"UTILITIES":          "utilities",
	"ELECTRICITY":        "utilities",
	"GAS_AND_ELECTRICITY": "utilities",
	"WATER":              "utilities",
	"GAS_AND_HEATING":    "utilities",
	"INTERNET_AND_PHONE": "utilities",
	"INTERNET_AND_CABLE": "utilities",
	"CABLE":              "utilities",

	// Income
	"SALARY":            "income",
	"WAGES":             "income",
	"PAYROLL":           "income",
	"DIVIDENDS":         "income",
	"INTEREST_EARNED":   "income",
	"GIG_ECONOMY":       "income",
	"RENTAL_INCOME":     "income",
	"INVESTMENT_INCOME": "income",

	// Healthcare
	"PRIMARY_CARE":     "healthcare",
	"DENTAL_CARE":      "healthcare",
	"PHARMACIES":       "healthcare",
	"PHARMACIES_AND_SUPPLEMENTS": "healthcare",
	"HOSPITALS":        "healthcare",
	"HEALTH_INSURANCE": "healthcare",

	// Investment
	"CD_DEPOSIT":             "investment",
	"CERTIFICATE_OF_DEPOSIT": "investment",
	"STOCKS":                 "investment",
	"BONDS":                  "investment",
	"MUTUAL_FUNDS":           "investment",
	"ETF":                    "investment",
	"BROKERAGE":              "investment",
	"RETIREMENT":             "investment",
}

// investmentTextMarkers flag investment activity from free text. Checked
// before everything else so "CD DEPOSIT" never lands in entertainment.
var investmentTextMarkers = []string{
	"cd deposit", "certificate of deposit", "cd maturity", "cd interest",
	" stock", " bond", "mutual fund", " etf", "401k", " ira",
	"retirement", "brokerage",
}

// MapCategory translates a Plaid personal-finance category pair into the
// internal (primary, detailed) hint pair, using merchant and description
// text to sharpen the result when the category alone is too coarse.
func MapCategory(plaidPrimary, plaidDetailed, merchantName, description string) (string, string) {
	var primary, detailed string

	if plaidDetailed != "" {
		key := strings.ToUpper(plaidDetailed)
		// Plaid detailed values are often prefixed with the primary
		// ("FOOD_AND_DRINK_COFFEE"); try the bare suffix too.
		if mapped, ok := detailedCategoryMap[key]; ok {
			detailed = mapped
		} else if plaidPrimary != "" {
			suffix := strings.TrimPrefix(key, strings.ToUpper(plaidPrimary)+"_")
			if mapped, ok := detailedCategoryMap[suffix]; ok {
				detailed = mapped
			}
		}
		if detailed != "" {
			primary = detailed
		}
	}

	if primary == "" && plaidPrimary != "" {
		key := strings.ToUpper(plaidPrimary)
		if key == "UNKNOWN_CATEGORY" {
			primary = "other"
		} else if mapped, ok := primaryCategoryMap[key]; ok {
			primary = mapped
		} else {
			primary = strings.ToLower(plaidPrimary)
		}
	}

	combined := strings.ToLower(merchantName + " " + description)

	for _, marker := range investmentTextMarkers {
		if strings.Contains(combined, marker) {
			detailed = "investment"
			if primary == "" || primary == "entertainment" {
				primary = "investment"
			}
			break
		}
	}

	if detailed == "" {
		detailed = detailFromText(combined)
	}

	if primary == "" {
		primary = "other"
	}
	if detailed == "" {
		detailed = primary
	}
	return primary, detailed
}

// detailFromText guesses a detailed category from well-known merchant
// strings when Plaid didn't supply one.
func detailFromText(text string) string {
	switch {
	case containsAny(text, "mcdonald", "starbucks", "kfc", "burger", "pizza", "coffee", "restaurant", "dining"):
		return "dining"
	case containsAny(text, "walmart", "target", "kroger", "supermarket", "grocer"):
		return "groceries"
	case containsAny(text, "uber", "lyft", "taxi", "gas", "fuel"):
		return "transportation"
	case containsAny(text, "netflix", "spotify", "subscription", "monthly", "annual"):
		return "subscriptions"
	}
	return ""
}

func containsAny(text string, substrings ...string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
