// Package model defines the core domain models used throughout the application.
package model

// CategorySource records which stage of the rule engine produced a result.
type CategorySource string

const (
	// CategorySourceRule means a keyword strategy matched.
	CategorySourceRule CategorySource = "RULE"
	// CategorySourceML means the external scorer supplied the category.
	CategorySourceML CategorySource = "ML"
	// CategorySourceOverride means an override rule forced the category.
	CategorySourceOverride CategorySource = "OVERRIDE"
	// CategorySourceDefault means nothing matched and the engine fell back.
	CategorySourceDefault CategorySource = "DEFAULT"
)

// CategoryResult is the rule engine's classification of one transaction.
type CategoryResult struct {
	Primary    string
	Detailed   string
	Source     CategorySource
	Confidence float64
	Overridden bool
}

// TransactionType is the economic type assigned to a transaction.
type TransactionType string

const (
	// TypeIncome is money coming in.
	TypeIncome TransactionType = "INCOME"
	// TypeExpense is money going out.
	TypeExpense TransactionType = "EXPENSE"
	// TypeInvestment is activity on an investment vehicle.
	TypeInvestment TransactionType = "INVESTMENT"
	// TypeLoan is activity on a loan or credit vehicle.
	TypeLoan TransactionType = "LOAN"
)

// TypeResult carries the resolved transaction type and which rule decided
// it. A nil *TypeResult means the resolver had insufficient signal.
type TypeResult struct {
	Type   TransactionType
	Source string
}
