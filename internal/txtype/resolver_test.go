package txtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/model"
)

func account(accType, subtype string) *model.DetectedAccount {
	return &model.DetectedAccount{AccountType: accType, AccountSubtype: subtype}
}

func TestResolver_Resolve(t *testing.T) {
	r := New(DefaultConfig())

	tests := []struct {
		name       string
		in         Input
		want       model.TransactionType
		wantSource string
		wantNil    bool
	}{
		{
			name:       "investment account beats income category",
			in:         Input{Account: account("investment", "401k"), CategoryPrimary: "income", CategoryDetailed: "interest", Amount: 12.50},
			want:       model.TypeInvestment,
			wantSource: "account_type",
		},
		{
			name:       "credit card charge is loan activity",
			in:         Input{Account: account("credit", "credit card"), CategoryPrimary: "dining", Amount: -42.00},
			want:       model.TypeLoan,
			wantSource: "account_type",
		},
		{
			name:       "credit card payment is still loan activity",
			in:         Input{Account: account("credit", "credit card"), CategoryPrimary: "payment", Amount: 500.00},
			want:       model.TypeLoan,
			wantSource: "account_type",
		},
		{
			name:       "mortgage account is loan activity",
			in:         Input{Account: account("loan", "mortgage"), Amount: -1800},
			want:       model.TypeLoan,
			wantSource: "account_type",
		},
		{
			name:       "investment category on a checking account",
			in:         Input{Account: account("depository", "checking"), CategoryPrimary: "stocks", Amount: -250},
			want:       model.TypeInvestment,
			wantSource: "category",
		},
		{
			name:       "cd category matches on word boundary only",
			in:         Input{Account: account("depository", "checking"), CategoryPrimary: "cd", Amount: -1000},
			want:       model.TypeInvestment,
			wantSource: "category",
		},
		{
			name:       "mcdonald does not trigger the cd category",
			in:         Input{Account: account("depository", "checking"), CategoryPrimary: "mcdonald", Amount: -8},
			want:       model.TypeExpense,
			wantSource: "amount_sign",
		},
		{
			name:       "income category wins over negative sign",
			in:         Input{Account: account("depository", "checking"), CategoryPrimary: "income", CategoryDetailed: "salary", Amount: 3200},
			want:       model.TypeIncome,
			wantSource: "category",
		},
		{
			name:       "positive amount falls back to income",
			in:         Input{Account: account("depository", "checking"), CategoryPrimary: "other", Amount: 75},
			want:       model.TypeIncome,
			wantSource: "amount_sign",
		},
		{
			name:       "negative amount falls back to expense",
			in:         Input{Account: account("depository", "savings"), CategoryPrimary: "other", Amount: -75},
			want:       model.TypeExpense,
			wantSource: "amount_sign",
		},
		{
			name:    "missing account yields nil",
			in:      Input{CategoryPrimary: "income", Amount: 100},
			wantNil: true,
		},
		{
			name:    "blank account type yields nil",
			in:      Input{Account: account("", "checking"), Amount: 100},
			wantNil: true,
		},
		{
			name:    "zero amount yields nil",
			in:      Input{Account: account("depository", "checking"), CategoryPrimary: "income", Amount: 0},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.in)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
}

func TestNormalizeStatementAmount(t *testing.T) {
	tests := []struct {
		name    string
		account *model.DetectedAccount
		amount  float64
		want    float64
	}{
		{
			name:    "credit card purchase stores negative",
			account: account("credit", "credit card"),
			amount:  100.00,
			want:    -100.00,
		},
		{
			name:    "credit card payment stores positive",
			account: account("credit", "credit card"),
			amount:  -99.00,
			want:    99.00,
		},
		{
			name:    "checking passes through",
			account: account("depository", "checking"),
			amount:  -42.00,
			want:    -42.00,
		},
		{
			name:   "nil account passes through",
			amount: 10,
			want:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatementAmount(tt.account, tt.amount))
		})
	}
}
