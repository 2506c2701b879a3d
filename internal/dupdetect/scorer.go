package dupdetect

import (
	"math"
	"strings"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Config carries the similarity weights and thresholds. The weights sum
// to 1.0; the threshold is applied to the combined score.
type Config struct {
	AmountWeight      float64
	DescriptionWeight float64
	DateWeight        float64
	MerchantWeight    float64

	// ExactTripleScore is returned outright when date, amount, and
	// normalized description all match.
	ExactTripleScore float64
	// RecurringScore caps pairs whose date gap sits on a recurrence cycle.
	RecurringScore float64
	// Threshold is the minimum combined score that flags a duplicate.
	Threshold float64
	// WindowDays bounds the candidate search around each new transaction.
	WindowDays int
}

// DefaultConfig returns the weights validated against real import batches.
func DefaultConfig() Config {
	return Config{
		AmountWeight:      0.3,
		DescriptionWeight: 0.3,
		DateWeight:        0.2,
		MerchantWeight:    0.2,
		ExactTripleScore:  0.95,
		RecurringScore:    0.30,
		Threshold:         0.85,
		WindowDays:        35,
	}
}

// SimilarityScorer scores transaction pairs. Stateless and safe for
// concurrent use.
type SimilarityScorer struct {
	cfg Config
}

// NewScorer creates a scorer with the given weights.
func NewScorer(cfg Config) *SimilarityScorer {
	return &SimilarityScorer{cfg: cfg}
}

// Score returns the pair's similarity in [0,1]. Identical date, amount,
// and description short-circuit high; recurring-cycle gaps short-circuit
// low so rent and subscriptions never flag as duplicates.
func (s *SimilarityScorer) Score(a, b model.ParsedTransaction) float64 {
	descA := normalizeText(a.Description)
	descB := normalizeText(b.Description)
	sameAmount := amountsEqual(a.Amount, b.Amount)
	days := dayGap(a, b)

	if days == 0 && sameAmount && descA == descB && descA != "" {
		return s.cfg.ExactTripleScore
	}

	descSim := common.LevenshteinSimilarity(descA, descB)
	if sameAmount && descSim >= 0.9 && isRecurringGap(days) {
		return s.cfg.RecurringScore
	}

	score := s.cfg.AmountWeight*amountScore(a.Amount, b.Amount) +
		s.cfg.DescriptionWeight*descriptionScore(descSim) +
		s.cfg.DateWeight*dateScore(days) +
		s.cfg.MerchantWeight*merchantScore(a.MerchantName, b.MerchantName)

	if score > 1 {
		score = 1
	}
	return score
}

// Threshold exposes the configured duplicate cutoff.
func (s *SimilarityScorer) Threshold() float64 {
	return s.cfg.Threshold
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

// amountScore rewards near-identical magnitudes: exact 1.0, within 1%
// strong, within 5% partial, beyond that nothing.
func amountScore(a, b float64) float64 {
	if amountsEqual(a, b) {
		return 1.0
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return 0
	}
	switch diff := math.Abs(a-b) / larger; {
	case diff <= 0.01:
		return 0.9
	case diff <= 0.05:
		return 0.5
	default:
		return 0
	}
}

// descriptionScore requires near-exact text to contribute much; loose
// similarity is worth almost nothing because statement descriptions
// share boilerplate ("POS PURCHASE", reference prefixes).
func descriptionScore(sim float64) float64 {
	switch {
	case sim >= 0.95:
		return sim
	case sim >= 0.5:
		return sim * 0.05
	default:
		return sim * 0.01
	}
}

func dateScore(days int) float64 {
	switch {
	case days == 0:
		return 1.0
	case days <= 1:
		return 0.8
	case days <= 3:
		return 0.5
	case days <= 7:
		return 0.2
	default:
		return 0
	}
}

func merchantScore(a, b string) float64 {
	ma, mb := normalizeText(a), normalizeText(b)
	if ma == "" || mb == "" {
		return 0
	}
	if ma == mb {
		return 1.0
	}
	if sim := common.LevenshteinSimilarity(ma, mb); sim >= 0.8 {
		return sim
	}
	return 0
}

// isRecurringGap reports whether a date gap sits on a plausible billing
// cycle: weekly, biweekly, monthly, quarterly, semiannual, or annual.
func isRecurringGap(days int) bool {
	switch {
	case days >= 6 && days <= 8:
		return true
	case days >= 13 && days <= 15:
		return true
	case days >= 25 && days <= 31:
		return true
	case days >= 88 && days <= 93:
		return true
	case days >= 180 && days <= 186:
		return true
	case days >= 365 && days <= 366:
		return true
	}
	return false
}

func dayGap(a, b model.ParsedTransaction) int {
	gap := a.Date.Sub(b.Date)
	if gap < 0 {
		gap = -gap
	}
	return int(gap.Hours() / 24)
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
