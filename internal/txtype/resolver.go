// Package txtype assigns the final economic type to a transaction. The
// account's vehicle wins over the category, and the category wins over the
// amount sign.
package txtype

import (
	"math"
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
)

// Config lists the keyword tables the resolver consults. Construct once;
// read-only afterward.
type Config struct {
	// InvestmentAccountKeywords mark an account type or subtype as an
	// investment vehicle.
	InvestmentAccountKeywords []string
	// LoanAccountKeywords mark an account as a loan or credit vehicle.
	LoanAccountKeywords []string
	// InvestmentCategories are category values that imply investment
	// activity regardless of the account.
	InvestmentCategories []string
	// IncomeCategories are category values that imply income.
	IncomeCategories []string
}

// DefaultConfig returns the standard keyword tables.
func DefaultConfig() Config {
	return Config{
		InvestmentAccountKeywords: []string{
			"investment", "401k", "ira", "hsa", "529", "cd", "brokerage",
		},
		LoanAccountKeywords: []string{
			"loan", "mortgage", "credit card", "credit",
			"student loan", "auto loan", "credit line",
		},
		InvestmentCategories: []string{
			"cd", "stocks", "bonds", "mutual fund", "brokerage",
			"investment", "401k", "ira", "retirement",
		},
		IncomeCategories: []string{
			"income", "salary", "interest", "dividend",
			"deposit", "payroll", "stipend", "rentincome", "tips",
		},
	}
}

// Input is everything the resolver may consult for one transaction.
type Input struct {
	Account              *model.DetectedAccount
	CategoryPrimary      string
	CategoryDetailed     string
	Amount               float64
	PaymentChannel       string
	Description          string
	DebitCreditIndicator string
}

// Resolver assigns transaction types. Stateless and safe for concurrent
// use.
type Resolver struct {
	cfg Config
}

// New creates a resolver with the given keyword tables.
func New(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns the transaction's economic type, or nil when there is
// not enough signal: a missing or blank account type, or a zero or
// non-finite amount. Callers must treat nil as "unknown", not as a value.
func (r *Resolver) Resolve(in Input) *model.TypeResult {
	if in.Account == nil || strings.TrimSpace(in.Account.AccountType) == "" {
		return nil
	}
	if in.Amount == 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil
	}

	accountText := strings.ToLower(in.Account.AccountType + " " + in.Account.AccountSubtype)

	// The account vehicle wins regardless of category or sign: both a
	// charge and a payment on a credit account are loan activity.
	if containsAnyWord(accountText, r.cfg.InvestmentAccountKeywords) {
		return &model.TypeResult{Type: model.TypeInvestment, Source: "account_type"}
	}
	if containsAnyWord(accountText, r.cfg.LoanAccountKeywords) {
		return &model.TypeResult{Type: model.TypeLoan, Source: "account_type"}
	}

	categoryText := strings.ToLower(strings.TrimSpace(in.CategoryPrimary + " " + in.CategoryDetailed))
	if containsAnyWord(categoryText, r.cfg.InvestmentCategories) {
		return &model.TypeResult{Type: model.TypeInvestment, Source: "category"}
	}
	if containsAnyWord(categoryText, r.cfg.IncomeCategories) {
		return &model.TypeResult{Type: model.TypeIncome, Source: "category"}
	}

	if in.Amount > 0 {
		return &model.TypeResult{Type: model.TypeIncome, Source: "amount_sign"}
	}
	return &model.TypeResult{Type: model.TypeExpense, Source: "amount_sign"}
}

// NormalizeStatementAmount converts a statement-convention amount to the
// stored economic amount. Credit-card statements print purchases as
// positive and payments as negative; storage uses the opposite sign, so
// credit-card amounts are reversed. All other accounts pass through.
func NormalizeStatementAmount(account *model.DetectedAccount, amount float64) float64 {
	if account == nil {
		return amount
	}
	subtype := strings.ToLower(account.AccountSubtype)
	if account.AccountType == model.AccountTypeCredit || strings.Contains(subtype, "credit card") {
		return -amount
	}
	return amount
}

// containsAnyWord matches each keyword on word boundaries so "cd" never
// fires inside "mcdonald".
func containsAnyWord(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if containsWord(haystack, kw) {
			return true
		}
	}
	return false
}

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

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
