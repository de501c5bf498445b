// Package scoring computes weighted contestant totals from a score log.
package scoring

import (
	"context"
	"sort"
	"time"

	"github.com/okian/contest/internal/domain/model"
	"github.com/okian/contest/internal/domain/types"
	"github.com/okian/contest/pkg/logger"
	"github.com/okian/contest/pkg/metrics"
)

// percent is the divisor that turns a skill weight into a fraction.
const percent = 100

// ComputeTotals sums score*weight/100 per contestant name.
//
// A skill missing from weights contributes 0, but the contestant still
// gets a row. Totals are summed across judges and skills, never averaged.
// Names that are no longer on the roster are reported like any other.
func ComputeTotals(scores []model.ScoreEntry, weights model.SkillWeights) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range scores {
		totals[e.Contestant] += float64(e.Score) * float64(weights.Weight(e.Skill)) / percent
	}
	return totals
}

// Standings orders totals by total desc, then contestant name asc, and
// assigns ranks starting at 1.
func Standings(totals map[string]float64) []types.Entry {
	entries := make([]types.Entry, 0, len(totals))
	for name, total := range totals {
		entries = append(entries, types.Entry{Contestant: name, Total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].Contestant < entries[j].Contestant
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for debug output.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// Aggregator runs ComputeTotals and records how long it took.
type Aggregator struct {
	logger logger.Logger
	now    func() time.Time
}

// NewAggregator creates an Aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Totals computes per-contestant totals for the given log and weights.
func (a *Aggregator) Totals(ctx context.Context, scores []model.ScoreEntry, weights model.SkillWeights) map[string]float64 {
	start := a.now()
	totals := ComputeTotals(scores, weights)
	elapsed := a.now().Sub(start)
	metrics.RecordAggregation(float64(elapsed.Microseconds()) / 1000)

	if a.logger != nil {
		a.logger.Debug(ctx, "computed totals",
			logger.Int("entries", len(scores)),
			logger.Int("contestants", len(totals)),
		)
	}
	return totals
}

// Standings returns at most limit ranked rows. A limit <= 0 returns all rows.
func (a *Aggregator) Standings(ctx context.Context, scores []model.ScoreEntry, weights model.SkillWeights, limit int) []types.Entry {
	entries := Standings(a.Totals(ctx, scores, weights))
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}
