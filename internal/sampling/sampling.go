package sampling

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/PyBalance/Audit-Sampling/internal/config"
	"github.com/PyBalance/Audit-Sampling/internal/journal"
	"github.com/PyBalance/Audit-Sampling/pkg/mus"
)

// Engine draws samples from ledger populations.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a sampling engine with the given logger.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// MUSParams are the risk parameters for one MUS run.
type MUSParams struct {
	TolerableError  float64
	ExpectedError   float64
	ConfidenceLevel float64
	// Seed, when set, makes the systematic start point reproducible.
	Seed *int64
}

// PerformMUS plans a monetary unit sample over the population's effective
// amounts and selects records by systematic PPS selection. The returned plan
// carries the advisory planning warnings. An empty result with a nil error
// means no sampling was necessary (plan n of zero).
func (e *Engine) PerformMUS(population []journal.Record, rule config.ResolvedRule, headers []string, params MUSParams) ([]journal.Record, *mus.Plan, error) {
	amounts := Amounts(population, rule, headers)
	var total float64
	for _, v := range amounts {
		total += v
	}
	if !(total > 0) {
		return nil, nil, fmt.Errorf("population %s has no positive total amount", rule.PopulationName)
	}

	opts := mus.DefaultPlanningOptions()
	opts.ConfidenceLevel = params.ConfidenceLevel
	opts.TolerableError = params.TolerableError
	opts.ExpectedError = params.ExpectedError
	plan, err := mus.PlanSample(amounts, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("MUS planning for %s: %w", rule.PopulationName, err)
	}
	for _, warning := range plan.Warnings {
		e.logger.Warn("MUS planning: "+warning,
			zap.String("op", "sampling.PerformMUS"),
			zap.String("population", rule.PopulationName),
		)
	}
	e.logger.Debug("MUS plan",
		zap.String("op", "sampling.PerformMUS"),
		zap.String("population", rule.PopulationName),
		zap.Float64("bookValue", plan.BookValue),
		zap.Float64("tolerableError", plan.TolerableError),
		zap.Float64("expectedError", plan.ExpectedError),
		zap.Int("n", plan.N),
	)
	if plan.N == 0 {
		return nil, plan, nil
	}

	indices := mus.SelectPPS(amounts, plan.N, params.Seed)
	if len(indices) < plan.N {
		e.logger.Info("large items absorbed multiple selection thresholds; sample deduplicated",
			zap.String("op", "sampling.PerformMUS"),
			zap.String("population", rule.PopulationName),
			zap.Int("planned", plan.N),
			zap.Int("selected", len(indices)),
		)
	}

	sampled := make([]journal.Record, 0, len(indices))
	for _, idx := range indices {
		sampled = append(sampled, population[idx])
	}
	return sampled, plan, nil
}

// PerformRandom draws a uniform sample without replacement, returning the
// selected records in their original order. A size at or above the population
// size returns the whole population.
func (e *Engine) PerformRandom(population []journal.Record, size int, seed *int64) []journal.Record {
	if size >= len(population) {
		return population
	}
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	rng := rand.New(rand.NewSource(s))

	indices := rng.Perm(len(population))[:size]
	sort.Ints(indices)
	sampled := make([]journal.Record, 0, size)
	for _, idx := range indices {
		sampled = append(sampled, population[idx])
	}
	return sampled
}
