package lineclass

// Config collects the tunable scoring knobs for line classification.
// Weights live here rather than inline so threshold tuning never touches
// control flow.
type Config struct {
	// Confidence multipliers applied per pattern.
	PrefixedFactor    float64
	TwoDatesFactor    float64
	CardRefFactor     float64
	MerchantLocFactor float64

	// Fuzzy extraction scoring.
	FuzzyBaseConfidence float64
	FuzzyFieldBonus     float64

	// Penalties applied by confidence scoring.
	StaleDatePenalty  float64
	TinyAmountPenalty float64
	ShortDescPenalty  float64
	LongDescPenalty   float64

	// Thresholds.
	MaxDateDriftYears int
	MinDescLength     int
	MaxDescLength     int
	AmountTailWindow  int
}

// DefaultConfig returns the scoring configuration tuned against real card
// and bank statements.
func DefaultConfig() Config {
	return Config{
		PrefixedFactor:      0.9,
		TwoDatesFactor:      0.95,
		CardRefFactor:       0.9,
		MerchantLocFactor:   0.9,
		FuzzyBaseConfidence: 0.6,
		FuzzyFieldBonus:     0.1,
		StaleDatePenalty:    0.8,
		TinyAmountPenalty:   0.5,
		ShortDescPenalty:    0.7,
		LongDescPenalty:     0.8,
		MaxDateDriftYears:   5,
		MinDescLength:       3,
		MaxDescLength:       200,
		AmountTailWindow:    50,
	}
}
