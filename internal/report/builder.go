// Package report aggregates reconciliation outcomes and renders them.
package report

import (
	"math"
	"time"

	"rental-reconciliation/internal/domain"
)

// Meta carries the run metadata that is not derived from the outcome.
type Meta struct {
	RunID       string
	GeneratedAt time.Time
	Period      domain.Period
}

// Build summarizes outcome. Matches and residual records are passed through unmodified.
func Build(outcome domain.Outcome, meta Meta) *domain.Report {
	summary := domain.Summary{
		ByStrategy:            make(map[domain.StrategyName]int, len(domain.Strategies)),
		Matched:               len(outcome.Matches),
		UnmatchedTransactions: len(outcome.UnmatchedTransactions),
		UnmatchedInbound:      len(outcome.UnmatchedInbound),
	}
	for _, name := range domain.Strategies {
		summary.ByStrategy[name] = 0
	}
	for _, m := range outcome.Matches {
		summary.ByStrategy[m.Strategy]++
		if m.NeedsReview {
			summary.NeedsReview++
		}
		summary.TotalMissingFields += len(m.MissingFields)
		summary.TotalDiscrepancies += len(m.Discrepancies)
		summary.TotalCorrectiveActions += len(m.CorrectiveActions)
	}
	summary.TotalTransactions = summary.Matched + summary.UnmatchedTransactions
	summary.TotalInbound = summary.Matched + summary.UnmatchedInbound
	summary.MatchRatePercent = matchRate(summary.Matched, summary.TotalTransactions)

	return &domain.Report{
		RunID:                 meta.RunID,
		GeneratedAt:           meta.GeneratedAt,
		Period:                meta.Period,
		Summary:               summary,
		Matches:               outcome.Matches,
		UnmatchedTransactions: outcome.UnmatchedTransactions,
		UnmatchedInbound:      outcome.UnmatchedInbound,
	}
}

func matchRate(matched, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(matched) * 100 / float64(total)))
}
