package contest

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/accrabet/accrabet/internal/domain"
)

// OutcomeSource supplies the winning outcome per market when a round enters
// settlement. Implementations must be deterministic in the contest's outcome
// seed so that a replayed transition records identical results.
type OutcomeSource interface {
	Outcomes(ctx context.Context, c *domain.Contest) (map[string]string, error)
}

// MarketSpec declares one market and its possible outcomes
type MarketSpec struct {
	MarketID   string
	OutcomeIDs []string
}

// SimulatedOutcomes resolves markets from a seeded pseudo-random draw.
// The same (template, seed) pair always yields the same outcomes.
type SimulatedOutcomes struct {
	templates map[string][]MarketSpec
}

// NewSimulatedOutcomes creates an outcome source for the given templates
func NewSimulatedOutcomes(templates map[string][]MarketSpec) *SimulatedOutcomes {
	return &SimulatedOutcomes{templates: templates}
}

// DefaultTemplates returns the built-in simulated match template
func DefaultTemplates() map[string][]MarketSpec {
	return map[string][]MarketSpec{
		"sim-match": {
			{MarketID: "match_result", OutcomeIDs: []string{"home", "draw", "away"}},
			{MarketID: "total_goals", OutcomeIDs: []string{"over_2.5", "under_2.5"}},
			{MarketID: "both_score", OutcomeIDs: []string{"yes", "no"}},
		},
	}
}

// Outcomes draws one winning outcome per market from the contest's seed
func (s *SimulatedOutcomes) Outcomes(_ context.Context, c *domain.Contest) (map[string]string, error) {
	markets, ok := s.templates[c.TemplateID]
	if !ok {
		return nil, fmt.Errorf("unknown contest template %q", c.TemplateID)
	}

	rng := rand.New(rand.NewSource(c.OutcomeSeed))
	outcomes := make(map[string]string, len(markets))
	for _, m := range markets {
		outcomes[m.MarketID] = m.OutcomeIDs[rng.Intn(len(m.OutcomeIDs))]
	}
	return outcomes, nil
}
