package lineclass

import (
	"testing"
	"time"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := New(DefaultConfig())
	year := time.Now().Year()

	tests := []struct {
		name           string
		line           string
		wantPattern    model.LinePattern
		wantDate       string
		wantAmountSub  string
		minConfidence  float64
		wantMatched    bool
	}{
		{
			name:          "standard payment line",
			line:          "11/09 AUTOMATIC PAYMENT - THANK YOU $458.40",
			wantMatched:   true,
			wantPattern:   model.PatternDateDescAmount,
			wantDate:      "11/09",
			wantAmountSub: "458.40",
			minConfidence: 0.8,
		},
		{
			name:          "negative signed amount",
			line:          "12/15 ACH WITHDRAWAL VENDOR PAYMENT -$1,624.59",
			wantMatched:   true,
			wantPattern:   model.PatternDateDescAmount,
			wantDate:      "12/15",
			wantAmountSub: "1,624.59",
			minConfidence: 0.8,
		},
		{
			name:        "section header with zero amounts never matches",
			line:        "Pay Over Time 12/30/2022 19.49% (v) $0.00 $0.00",
			wantMatched: false,
		},
		{
			name:        "informational sentence with trailing date rejected",
			line:        "Your payment of $250.00 has been processed successfully on 12/31/25",
			wantMatched: false,
		},
		{
			name:        "minimum payment header rejected",
			line:        "Minimum Payment Due: $25.00",
			wantMatched: false,
		},
		{
			name:        "page footer rejected",
			line:        "Page 3 of 7",
			wantMatched: false,
		},
		{
			name:        "statement period header rejected",
			line:        "Statement Period: 12/01/2022 - 12/31/2022",
			wantMatched: false,
		},
		{
			name:          "two dates uses posting date",
			line:          "11/08 11/09 PAYMENT RECEIVED 458.40",
			wantMatched:   true,
			wantPattern:   model.PatternTwoDates,
			wantDate:      "11/09",
			wantAmountSub: "458.40",
			minConfidence: 0.8,
		},
		{
			name:          "cashback prefix allows fuzzy match",
			line:          "1% Cashback Bonus 10/06 DIRECTPAY FULL BALANCE -$11.74",
			wantMatched:   true,
			wantPattern:   model.PatternFuzzy,
			wantDate:      "10/06",
			wantAmountSub: "11.74",
			minConfidence: 0.5,
		},
		{
			name:          "phone number fragments are not amounts",
			line:          "11/09 WWW COSTCO COM 800-955-2292 WA $45.67",
			wantMatched:   true,
			wantPattern:   model.PatternDateDescAmount,
			wantDate:      "11/09",
			wantAmountSub: "45.67",
			minConfidence: 0.8,
		},
		{
			name:        "empty line",
			line:        "",
			wantMatched: false,
		},
		{
			name:        "whitespace only",
			line:        "   \t  ",
			wantMatched: false,
		},
		{
			name:        "standalone phone number",
			line:        "1-800-436-7958",
			wantMatched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.line, year, true)

			if !tt.wantMatched {
				assert.False(t, result.Matched, "expected no match, got %+v", result)
				assert.Equal(t, model.PatternNone, result.Pattern)
				return
			}

			require.True(t, result.Matched, "expected match for %q", tt.line)
			assert.Equal(t, tt.wantPattern, result.Pattern)
			assert.Equal(t, tt.wantDate, result.Date)
			assert.Contains(t, result.Amount, tt.wantAmountSub)
			assert.Greater(t, result.Confidence, tt.minConfidence)
			assert.NotEmpty(t, result.Description)
		})
	}
}

func TestClassifier_FuzzyRejectsZeroAmount(t *testing.T) {
	classifier := New(DefaultConfig())

	// Shaped so no structural pattern fits but fuzzy extraction finds both
	// tokens; the zero amount must still reject it.
	result := classifier.Classify("10/06 promo adjustment details follow, see notes $0.00", time.Now().Year(), true)
	if result.Matched {
		assert.NotEqual(t, model.PatternFuzzy, result.Pattern)
	}

	fuzzy := classifier.tryFuzzy("10/06 promo adjustment details follow, see notes $0.00", time.Now().Year(), true)
	assert.False(t, fuzzy.Matched)
}

func TestClassifier_ConfidencePenalties(t *testing.T) {
	classifier := New(DefaultConfig())

	t.Run("stale date reduces confidence", func(t *testing.T) {
		fresh := classifier.Classify("11/09 GROCERY STORE PURCHASE $52.18", time.Now().Year(), true)
		stale := classifier.Classify("11/09/2010 GROCERY STORE PURCHASE $52.18", 0, true)
		require.True(t, fresh.Matched)
		require.True(t, stale.Matched)
		assert.Greater(t, fresh.Confidence, stale.Confidence)
	})

	t.Run("stale date reduces fuzzy confidence", func(t *testing.T) {
		line := "1% Cashback Bonus 10/06 DIRECTPAY FULL BALANCE -$11.74"
		fresh := classifier.tryFuzzy(line, time.Now().Year(), true)
		stale := classifier.tryFuzzy(line, 2010, true)
		require.True(t, fresh.Matched)
		require.True(t, stale.Matched)
		assert.Greater(t, fresh.Confidence, stale.Confidence)
	})

	t.Run("short description reduces confidence", func(t *testing.T) {
		normal := classifier.Classify("11/09 GROCERY STORE PURCHASE $52.18", time.Now().Year(), true)
		short := classifier.Classify("11/09 AB $52.18", time.Now().Year(), true)
		require.True(t, normal.Matched)
		require.True(t, short.Matched)
		assert.Greater(t, normal.Confidence, short.Confidence)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "plain currency", input: "$458.40", want: 458.40},
		{name: "negative sign before currency", input: "-$11.74", want: -11.74},
		{name: "parenthesized negative", input: "($1,234.56)", want: -1234.56},
		{name: "credit indicator stays positive", input: "$458.40 CR", want: 458.40},
		{name: "credit indicator without space", input: "458.40CR", want: 458.40},
		{name: "debit indicator negates", input: "123.45 DR", want: -123.45},
		{name: "debit indicator without space", input: "123.45DR", want: -123.45},
		{name: "explicit plus", input: "+458.40", want: 458.40},
		{name: "comma thousands", input: "$1,234,567.89", want: 1234567.89},
		{name: "euro symbol", input: "€99.95", want: 99.95},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		inferredYear int
		dateFirst    bool
		want         time.Time
		wantErr      bool
	}{
		{
			name:         "month first without year",
			input:        "11/09",
			inferredYear: 2024,
			dateFirst:    true,
			want:         time.Date(2024, 11, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "day first without year",
			input:        "11/09",
			inferredYear: 2024,
			dateFirst:    false,
			want:         time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "two digit year expands",
			input:     "12/31/25",
			dateFirst: true,
			want:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "four digit year",
			input:     "01/15/2023",
			dateFirst: true,
			want:      time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "iso format",
			input:     "2023-01-15",
			dateFirst: true,
			want:      time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month name format",
			input:     "15 Jan 2023",
			dateFirst: true,
			want:      time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "invalid month",
			input:     "13/45",
			dateFirst: true,
			wantErr:   true,
		},
		{
			name:      "impossible calendar date",
			input:     "02/31/2023",
			dateFirst: true,
			wantErr:   true,
		},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, tt.inferredYear, tt.dateFirst)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
