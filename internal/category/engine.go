// Package category assigns a spending category to each transaction. An
// ordered list of keyword strategies runs first; an optional external
// scorer fills gaps behind a circuit breaker; override rules run last and
// win regardless of what produced the base result.
package category

import (
	"context"
	"math"
	"strings"

	"github.com/sony/gobreaker/v2"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
)

// Input carries everything the engine may consult for one transaction.
// Hints come from upstream importers (Plaid, OFX) and are advisory.
type Input struct {
	PrimaryHint          string
	DetailedHint         string
	Account              *model.DetectedAccount
	MerchantName         string
	Description          string
	Amount               float64
	PaymentChannel       string
	DebitCreditIndicator string
	Source               model.TransactionSource
}

// Engine is the category rule engine. Immutable after construction and
// safe for concurrent use; the scorer is the only collaborator that does
// I/O, and its failures never propagate.
type Engine struct {
	cfg        Config
	strategies []Strategy
	scorer     service.CategoryScorer
	breaker    *gobreaker.CircuitBreaker[*service.ScoreResult]
}

// New builds an engine. A nil scorer disables the ML fallback entirely.
func New(cfg Config, scorer service.CategoryScorer) *Engine {
	e := &Engine{
		cfg:        cfg,
		strategies: buildStrategies(cfg),
		scorer:     scorer,
	}
	if scorer != nil {
		e.breaker = gobreaker.NewCircuitBreaker[*service.ScoreResult](gobreaker.Settings{
			Name:    "category-scorer",
			Timeout: cfg.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.BreakerMinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
			},
		})
	}
	return e
}

// Classify resolves the category for one transaction. It is total: any
// input, including empty text and absurd amounts, yields a CategoryResult.
func (e *Engine) Classify(ctx context.Context, in Input) model.CategoryResult {
	merchant := strings.ToLower(strings.TrimSpace(in.MerchantName))
	description := strings.ToLower(strings.TrimSpace(in.Description))

	amount := in.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) || math.Abs(amount) > e.cfg.AmountCeiling {
		amount = 0
	}

	result := e.baseResult(ctx, in, merchant, description)
	return e.applyOverrideRules(in, result, merchant, description, amount)
}

func (e *Engine) baseResult(ctx context.Context, in Input, merchant, description string) model.CategoryResult {
	for _, s := range e.strategies {
		if s.Detect(merchant, description) {
			return model.CategoryResult{
				Primary:    s.Category,
				Detailed:   s.Category,
				Source:     model.CategorySourceRule,
				Confidence: e.cfg.RuleConfidence,
			}
		}
	}

	if hint := normalizeHint(in.PrimaryHint); hint != "" {
		detailed := normalizeHint(in.DetailedHint)
		if detailed == "" {
			detailed = hint
		}
		return model.CategoryResult{
			Primary:    hint,
			Detailed:   detailed,
			Source:     model.CategorySourceRule,
			Confidence: e.cfg.HintConfidence,
		}
	}

	if scored := e.consultScorer(ctx, in, merchant, description); scored != nil {
		return *scored
	}

	return model.CategoryResult{
		Primary:    "other",
		Detailed:   "other",
		Source:     model.CategorySourceDefault,
		Confidence: e.cfg.DefaultConfidence,
	}
}

// consultScorer asks the external scorer through the circuit breaker. Any
// failure, open circuit, or low-confidence answer returns nil and the
// caller proceeds to the default.
func (e *Engine) consultScorer(ctx context.Context, in Input, merchant, description string) *model.CategoryResult {
	if e.scorer == nil {
		return nil
	}

	res, err := e.breaker.Execute(func() (*service.ScoreResult, error) {
		return e.scorer.DetectCategory(ctx, in.PrimaryHint, in.DetailedHint, merchant, description)
	})
	if err != nil {
		common.LogDebug("category scorer unavailable", common.Fields{
			"error":    err.Error(),
			"merchant": merchant,
		})
		return nil
	}
	if res == nil || res.Category == "" || res.Confidence < e.cfg.MLMinConfidence {
		return nil
	}

	return &model.CategoryResult{
		Primary:    strings.ToLower(res.Category),
		Detailed:   strings.ToLower(res.Category),
		Source:     model.CategorySourceML,
		Confidence: res.Confidence,
	}
}

// normalizeHint lowercases a hint and drops values that carry no signal.
func normalizeHint(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" || h == "other" || h == "unknown" || h == "uncategorized" {
		return ""
	}
	return h
}
