package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
)

type stubScorer struct {
	result *service.ScoreResult
	err    error
	calls  int
}

func (s *stubScorer) DetectCategory(_ context.Context, _, _, _, _ string) (*service.ScoreResult, error) {
	s.calls++
	return s.result, s.err
}

func TestEngine_Classify(t *testing.T) {
	engine := New(DefaultConfig(), nil)
	ctx := context.Background()

	tests := []struct {
		name           string
		in             Input
		wantPrimary    string
		wantDetailed   string
		wantSource     model.CategorySource
		wantOverridden bool
	}{
		{
			name:         "merchant keyword matches dining",
			in:           Input{MerchantName: "Starbucks #123", Description: "POS PURCHASE", Amount: -4.50},
			wantPrimary:  "dining",
			wantDetailed: "dining",
			wantSource:   model.CategorySourceRule,
		},
		{
			name:         "point of sale prefix matches dining",
			in:           Input{MerchantName: "TST* JOES BAR", Amount: -32.10},
			wantPrimary:  "dining",
			wantDetailed: "dining",
			wantSource:   model.CategorySourceRule,
		},
		{
			name:         "description keyword matches groceries",
			in:           Input{Description: "SAFEWAY #1444 SEATTLE WA", Amount: -85.20},
			wantPrimary:  "groceries",
			wantDetailed: "groceries",
			wantSource:   model.CategorySourceRule,
		},
		{
			name:         "gas station matches transportation",
			in:           Input{MerchantName: "CHEVRON 0093", Amount: -40.00},
			wantPrimary:  "transportation",
			wantDetailed: "transportation",
			wantSource:   model.CategorySourceRule,
		},
		{
			name:         "importer hint used when no keyword matches",
			in:           Input{MerchantName: "ZVX HOLDINGS", Description: "REF 8841", PrimaryHint: "travel", Amount: -120},
			wantPrimary:  "travel",
			wantDetailed: "travel",
			wantSource:   model.CategorySourceRule,
		},
		{
			name:         "nothing matches falls back to other",
			in:           Input{Description: "QX 0091 REF", Amount: -12},
			wantPrimary:  "other",
			wantDetailed: "other",
			wantSource:   model.CategorySourceDefault,
		},
		{
			name:           "interest misspelling overrides any upstream category",
			in:             Input{Description: "INTRST PYMNT", PrimaryHint: "other", Amount: 1.12},
			wantPrimary:    "income",
			wantDetailed:   "interest",
			wantSource:     model.CategorySourceOverride,
			wantOverridden: true,
		},
		{
			name:           "interest override fires even on a keyword match",
			in:             Input{MerchantName: "CHASE BANK", Description: "SAVINGS INTEREST PAYMENT", Amount: 2.50},
			wantPrimary:    "income",
			wantDetailed:   "interest",
			wantSource:     model.CategorySourceOverride,
			wantOverridden: true,
		},
		{
			name:         "cd interest is excluded from the interest override",
			in:           Input{Description: "CD INTEREST CERTIFICATE 12MO", Amount: 40},
			wantPrimary:  "other",
			wantDetailed: "other",
			wantSource:   model.CategorySourceDefault,
		},
		{
			name:           "payroll refines a generic income hint to salary",
			in:             Input{Description: "ACME CORP PAYROLL", PrimaryHint: "income", Amount: 3200},
			wantPrimary:    "income",
			wantDetailed:   "salary",
			wantSource:     model.CategorySourceOverride,
			wantOverridden: true,
		},
		{
			name:           "ach credit defaults to income deposit",
			in:             Input{Description: "XFER REF 11223", PaymentChannel: "ach", Amount: 900},
			wantPrimary:    "income",
			wantDetailed:   "deposit",
			wantSource:     model.CategorySourceOverride,
			wantOverridden: true,
		},
		{
			name:           "ach credit with payroll text becomes salary",
			in:             Input{Description: "ACME CORP DIRECT DEPOSIT", PaymentChannel: "ach", Amount: 3200},
			wantPrimary:    "income",
			wantDetailed:   "salary",
			wantSource:     model.CategorySourceOverride,
			wantOverridden: true,
		},
		{
			name:         "ach debit is not forced to income",
			in:           Input{Description: "QX 0091 REF", PaymentChannel: "ach", Amount: -900},
			wantPrimary:  "other",
			wantDetailed: "other",
			wantSource:   model.CategorySourceDefault,
		},
		{
			name:         "absurd amount is treated as absent",
			in:           Input{Description: "QX 0091 REF", PaymentChannel: "ach", Amount: 2_000_000_000},
			wantPrimary:  "other",
			wantDetailed: "other",
			wantSource:   model.CategorySourceDefault,
		},
		{
			name:         "empty input still classifies",
			in:           Input{},
			wantPrimary:  "other",
			wantDetailed: "other",
			wantSource:   model.CategorySourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Classify(ctx, tt.in)
			assert.Equal(t, tt.wantPrimary, got.Primary)
			assert.Equal(t, tt.wantDetailed, got.Detailed)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantOverridden, got.Overridden)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestEngine_ScorerFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("scorer answer is used when rules find nothing", func(t *testing.T) {
		scorer := &stubScorer{result: &service.ScoreResult{Category: "travel", Confidence: 0.8}}
		engine := New(DefaultConfig(), scorer)

		got := engine.Classify(ctx, Input{Description: "QX 0091 REF", Amount: -50})
		assert.Equal(t, "travel", got.Primary)
		assert.Equal(t, model.CategorySourceML, got.Source)
		assert.InDelta(t, 0.8, got.Confidence, 0.001)
	})

	t.Run("scorer is not consulted when a keyword matches", func(t *testing.T) {
		scorer := &stubScorer{result: &service.ScoreResult{Category: "travel", Confidence: 0.9}}
		engine := New(DefaultConfig(), scorer)

		got := engine.Classify(ctx, Input{MerchantName: "STARBUCKS", Amount: -4})
		assert.Equal(t, "dining", got.Primary)
		assert.Zero(t, scorer.calls)
	})

	t.Run("scorer failure degrades to the default", func(t *testing.T) {
		scorer := &stubScorer{err: errors.New("scorer down")}
		engine := New(DefaultConfig(), scorer)

		got := engine.Classify(ctx, Input{Description: "QX 0091 REF", Amount: -50})
		assert.Equal(t, "other", got.Primary)
		assert.Equal(t, model.CategorySourceDefault, got.Source)
	})

	t.Run("low-confidence scorer answer is ignored", func(t *testing.T) {
		scorer := &stubScorer{result: &service.ScoreResult{Category: "travel", Confidence: 0.2}}
		engine := New(DefaultConfig(), scorer)

		got := engine.Classify(ctx, Input{Description: "QX 0091 REF", Amount: -50})
		assert.Equal(t, "other", got.Primary)
	})
}

func TestApplyOverride(t *testing.T) {
	original := model.CategoryResult{
		Primary:    "other",
		Detailed:   "misc",
		Source:     model.CategorySourceDefault,
		Confidence: 0.05,
	}

	got := ApplyOverride(original, "income", "")
	require.True(t, got.Overridden)
	assert.Equal(t, "income", got.Primary)
	assert.Equal(t, "misc", got.Detailed, "empty replacement keeps the original field")
	assert.Equal(t, model.CategorySourceOverride, got.Source)

	got = ApplyOverride(original, "", "interest")
	assert.Equal(t, "other", got.Primary)
	assert.Equal(t, "interest", got.Detailed)
	assert.False(t, original.Overridden, "original is not mutated")
}
