package matching

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-reconciliation/internal/compare"
	"rental-reconciliation/internal/domain"
)

func TestCascade_Order(t *testing.T) {
	strategies := Cascade(compare.New(time.UTC))
	require.Len(t, strategies, 4)

	var names []domain.StrategyName
	var confidences []int
	for _, s := range strategies {
		names = append(names, s.Name)
		confidences = append(confidences, s.Confidence())
	}

	assert.Equal(t, []domain.StrategyName{
		domain.StrategyExactName,
		domain.StrategyFuzzyName,
		domain.StrategyAmountAndDate,
		domain.StrategyAmountOnly,
	}, names)
	assert.Equal(t, []int{90, 70, 60, 40}, confidences)
	assert.Equal(t, 100, CorrelationKey().Confidence())
}

func TestStrategies_Predicates(t *testing.T) {
	start := time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)
	otherDay := start.AddDate(0, 0, 2)
	tx := domain.TransactionRecord{
		InternalID:       "R1",
		CorrelationKey:   "ORD-1",
		CounterpartyName: "Jan Novak",
		WindowStart:      start,
		WindowEnd:        start.AddDate(0, 0, 2),
		Amount:           decimal.NewFromInt(150),
	}
	byName := map[domain.StrategyName]Strategy{domain.StrategyCorrelationKey: CorrelationKey()}
	for _, s := range Cascade(compare.New(time.UTC)) {
		byName[s.Name] = s
	}

	tests := []struct {
		name     string
		strategy domain.StrategyName
		in       domain.InboundRecord
		want     bool
	}{
		{
			name:     "correlation key equal",
			strategy: domain.StrategyCorrelationKey,
			in:       domain.InboundRecord{SourceID: "E1", CorrelationKey: "ORD-1"},
			want:     true,
		},
		{
			name:     "correlation key absent on inbound",
			strategy: domain.StrategyCorrelationKey,
			in:       domain.InboundRecord{SourceID: "E1"},
			want:     false,
		},
		{
			name:     "exact name folds diacritics",
			strategy: domain.StrategyExactName,
			in:       domain.InboundRecord{SourceID: "E1", CounterpartyName: "JÁN NOVÁK"},
			want:     true,
		},
		{
			name:     "exact name rejects partial",
			strategy: domain.StrategyExactName,
			in:       domain.InboundRecord{SourceID: "E1", CounterpartyName: "Novak"},
			want:     false,
		},
		{
			name:     "fuzzy name accepts partial",
			strategy: domain.StrategyFuzzyName,
			in:       domain.InboundRecord{SourceID: "E1", CounterpartyName: "Novak"},
			want:     true,
		},
		{
			name:     "amount and date",
			strategy: domain.StrategyAmountAndDate,
			in:       domain.InboundRecord{SourceID: "E1", Amount: decimal.NewNullDecimal(decimal.RequireFromString("150.004")), WindowStart: &start},
			want:     true,
		},
		{
			name:     "amount and date requires the date",
			strategy: domain.StrategyAmountAndDate,
			in:       domain.InboundRecord{SourceID: "E1", Amount: decimal.NewNullDecimal(decimal.NewFromInt(150))},
			want:     false,
		},
		{
			name:     "amount and date on another day",
			strategy: domain.StrategyAmountAndDate,
			in:       domain.InboundRecord{SourceID: "E1", Amount: decimal.NewNullDecimal(decimal.NewFromInt(150)), WindowStart: &otherDay},
			want:     false,
		},
		{
			name:     "amount only",
			strategy: domain.StrategyAmountOnly,
			in:       domain.InboundRecord{SourceID: "E1", Amount: decimal.NewNullDecimal(decimal.NewFromInt(150))},
			want:     true,
		},
		{
			name:     "amount only without amount",
			strategy: domain.StrategyAmountOnly,
			in:       domain.InboundRecord{SourceID: "E1"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, byName[tt.strategy].Matches(tx, tt.in))
		})
	}
}

func TestDecide(t *testing.T) {
	assert.Equal(t, NoCandidate, Decide(0))
	assert.Equal(t, Unique, Decide(1))
	assert.Equal(t, Ambiguous, Decide(2))
	assert.Equal(t, Ambiguous, Decide(7))
	assert.Equal(t, "ambiguous", Ambiguous.String())
}

func TestNeedsReview(t *testing.T) {
	for _, s := range Cascade(compare.New(time.UTC)) {
		assert.Equal(t, s.Name == domain.StrategyAmountOnly, s.NeedsReview(), s.Name)
	}
	assert.False(t, CorrelationKey().NeedsReview())
}
