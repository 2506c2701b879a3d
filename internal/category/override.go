package category

import (
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
)

// Interest descriptions arrive with bank-specific truncations and
// misspellings; all of these mean an interest payment.
var interestKeywords = []string{
	"interest", "intrst", "intr ", "intrest",
	"intr payment", "intrst payment", "intrst pymnt", "intr pymnt",
}

var payrollKeywords = []string{
	"salary", "payroll", "paycheck", "direct deposit", "wage", "compensation",
}

// ApplyOverride returns a copy of original with the provided primary and
// detailed categories substituted where non-empty, marked as overridden.
func ApplyOverride(original model.CategoryResult, newPrimary, newDetailed string) model.CategoryResult {
	out := original
	if newPrimary != "" {
		out.Primary = newPrimary
	}
	if newDetailed != "" {
		out.Detailed = newDetailed
	}
	out.Source = model.CategorySourceOverride
	out.Overridden = true
	return out
}

// applyOverrideRules runs the rules that win over any base result:
// interest payments (in any spelling), payroll refinement of a generic
// income category, and ACH-credit income fallback.
func (e *Engine) applyOverrideRules(in Input, res model.CategoryResult, merchant, description string, amount float64) model.CategoryResult {
	combined := strings.TrimSpace(merchant + " " + description)

	if isInterestText(combined) {
		return e.override(res, "income", "interest")
	}

	if containsAny(combined, payrollKeywords) && isIncomeish(in, res) && !hasSpecificIncome(in, res) {
		return e.override(res, "income", "salary")
	}

	// ACH credits with no specific income category yet are income; the
	// description decides the subtype, defaulting to a plain deposit.
	if strings.EqualFold(in.PaymentChannel, "ach") && amount > 0 && !hasSpecificIncome(in, res) {
		return e.override(res, "income", incomeCategoryFromText(combined))
	}

	return res
}

func (e *Engine) override(res model.CategoryResult, primary, detailed string) model.CategoryResult {
	out := ApplyOverride(res, primary, detailed)
	if out.Confidence < e.cfg.OverrideConfidence {
		out.Confidence = e.cfg.OverrideConfidence
	}
	return out
}

// isInterestText reports whether text names an interest payment. CD
// interest is excluded; it belongs to the investment rules.
func isInterestText(combined string) bool {
	if strings.Contains(combined, "cd interest") || strings.Contains(combined, "certificate") {
		return false
	}
	return containsAny(combined, interestKeywords)
}

func isIncomeish(in Input, res model.CategoryResult) bool {
	return res.Primary == "income" || strings.EqualFold(strings.TrimSpace(in.PrimaryHint), "income")
}

// hasSpecificIncome reports whether the result or hints already carry a
// concrete income subtype like salary or dividend.
func hasSpecificIncome(in Input, res model.CategoryResult) bool {
	for _, v := range []string{res.Primary, res.Detailed, in.PrimaryHint, in.DetailedHint} {
		if _, ok := specificIncomeCategories[strings.ToLower(strings.TrimSpace(v))]; ok {
			return true
		}
	}
	return false
}

// incomeCategoryFromText picks the income subtype an ACH credit
// description suggests.
func incomeCategoryFromText(combined string) string {
	switch {
	case containsAny(combined, payrollKeywords):
		return "salary"
	case isInterestText(combined):
		return "interest"
	case strings.Contains(combined, "dividend") || strings.Contains(combined, "div "):
		return "dividend"
	case strings.Contains(combined, "stipend"):
		return "stipend"
	case strings.Contains(combined, "rent income") || strings.Contains(combined, "rental income"):
		return "rentincome"
	case strings.Contains(combined, "tip") && !strings.Contains(combined, "tip jar"):
		return "tips"
	default:
		return "deposit"
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
