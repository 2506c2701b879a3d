package category

import "strings"

// Strategy is one category's detection rule: given lowercased merchant and
// description text, report whether the category applies.
type Strategy struct {
	Category string
	Detect   func(merchant, description string) bool
}

// Point-of-sale prefixes that name a restaurant even when no food keyword
// appears: "TST* JOES BAR", "SQ *COFFEE CART", "TOAST POS".
var diningPOSPrefixes = []string{"tst*", "tst *", "sq *", "sq*", "toast pos", "toasttab"}

// buildStrategies assembles the ordered strategy list from the keyword
// tables. Unknown names in the order are skipped so the order can be
// trimmed through configuration.
func buildStrategies(cfg Config) []Strategy {
	strategies := make([]Strategy, 0, len(cfg.StrategyOrder))
	for _, name := range cfg.StrategyOrder {
		keywords, ok := cfg.KeywordSets[name]
		if !ok {
			continue
		}
		s := keywordStrategy(name, keywords)
		if name == "dining" {
			s = withDiningPOS(s)
		}
		strategies = append(strategies, s)
	}
	return strategies
}

func keywordStrategy(category string, keywords []string) Strategy {
	return Strategy{
		Category: category,
		Detect: func(merchant, description string) bool {
			for _, kw := range keywords {
				if strings.Contains(merchant, kw) || strings.Contains(description, kw) {
					return true
				}
			}
			return false
		},
	}
}

func withDiningPOS(base Strategy) Strategy {
	inner := base.Detect
	base.Detect = func(merchant, description string) bool {
		for _, prefix := range diningPOSPrefixes {
			if strings.HasPrefix(merchant, prefix) || strings.HasPrefix(description, prefix) {
				return true
			}
		}
		return inner(merchant, description)
	}
	return base
}
