// Package matching defines the ordered strategy table used to pair records.
package matching

import (
	"rental-reconciliation/internal/compare"
	"rental-reconciliation/internal/domain"
)

// Predicate reports whether a transaction is a candidate for an inbound record.
type Predicate func(tx domain.TransactionRecord, in domain.InboundRecord) bool

// Strategy is one row of the cascade.
type Strategy struct {
	Name    domain.StrategyName
	Matches Predicate
}

// Confidence is derived from the strategy name.
func (s Strategy) Confidence() int {
	return s.Name.Confidence()
}

// NeedsReview is derived from the strategy name.
func (s Strategy) NeedsReview() bool {
	return s.Name.NeedsReview()
}

// CorrelationKey pairs records that quote the same order reference.
func CorrelationKey() Strategy {
	return Strategy{
		Name: domain.StrategyCorrelationKey,
		Matches: func(tx domain.TransactionRecord, in domain.InboundRecord) bool {
			return tx.HasCorrelationKey() && in.HasCorrelationKey() && tx.CorrelationKey == in.CorrelationKey
		},
	}
}

// Cascade returns the fallback strategies in the order they are tried.
func Cascade(c compare.Comparator) []Strategy {
	return []Strategy{
		{
			Name: domain.StrategyExactName,
			Matches: func(tx domain.TransactionRecord, in domain.InboundRecord) bool {
				return c.NamesEqual(tx.CounterpartyName, in.CounterpartyName)
			},
		},
		{
			Name: domain.StrategyFuzzyName,
			Matches: func(tx domain.TransactionRecord, in domain.InboundRecord) bool {
				return c.NamesOverlap(tx.CounterpartyName, in.CounterpartyName)
			},
		},
		{
			Name: domain.StrategyAmountAndDate,
			Matches: func(tx domain.TransactionRecord, in domain.InboundRecord) bool {
				if !in.Amount.Valid || in.WindowStart == nil {
					return false
				}
				return c.AmountsEqual(tx.Amount, in.Amount.Decimal) && c.DatesEqual(tx.WindowStart, *in.WindowStart)
			},
		},
		{
			Name: domain.StrategyAmountOnly,
			Matches: func(tx domain.TransactionRecord, in domain.InboundRecord) bool {
				return in.Amount.Valid && c.AmountsEqual(tx.Amount, in.Amount.Decimal)
			},
		},
	}
}

// Decision is the outcome of applying one strategy to a candidate set.
type Decision int

const (
	// NoCandidate means the strategy found nothing; try the next one.
	NoCandidate Decision = iota
	// Unique means exactly one candidate; accept it.
	Unique
	// Ambiguous means several candidates; skip the strategy without choosing.
	Ambiguous
)

func (d Decision) String() string {
	switch d {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	}
	return "none"
}

// Decide applies the uniqueness rule to a candidate count.
func Decide(candidates int) Decision {
	switch {
	case candidates == 1:
		return Unique
	case candidates > 1:
		return Ambiguous
	}
	return NoCandidate
}
