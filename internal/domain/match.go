package domain

// StrategyName identifies the rule that produced a match.
type StrategyName string

const (
	StrategyCorrelationKey StrategyName = "correlation_key"
	StrategyExactName      StrategyName = "exact_name"
	StrategyFuzzyName      StrategyName = "fuzzy_name"
	StrategyAmountAndDate  StrategyName = "amount_and_date"
	StrategyAmountOnly     StrategyName = "amount_only"
)

// Strategies lists every strategy in cascade order.
var Strategies = []StrategyName{
	StrategyCorrelationKey,
	StrategyExactName,
	StrategyFuzzyName,
	StrategyAmountAndDate,
	StrategyAmountOnly,
}

// Confidence returns the fixed score for the strategy, or 0 for an unknown name.
func (s StrategyName) Confidence() int {
	switch s {
	case StrategyCorrelationKey:
		return 100
	case StrategyExactName:
		return 90
	case StrategyFuzzyName:
		return 70
	case StrategyAmountAndDate:
		return 60
	case StrategyAmountOnly:
		return 40
	}
	return 0
}

// NeedsReview is true only for amount-only matches.
func (s StrategyName) NeedsReview() bool {
	return s == StrategyAmountOnly
}

// Field names used in missing-field lists, discrepancies and corrective actions.
const (
	FieldCorrelationKey    = "correlation_key"
	FieldContactEmail      = "contact_email"
	FieldContactPhone      = "contact_phone"
	FieldSecondaryQuantity = "secondary_quantity"
	FieldAmount            = "amount"
	FieldStartTime         = "start_time"
	FieldStartDate         = "start_date"
	FieldWindow            = "window"
	FieldWindowStart       = "window_start"
)

// Discrepancy records a field whose values disagree between the two sides.
type Discrepancy struct {
	Field            string `json:"field"`
	TransactionValue string `json:"transaction_value"`
	InboundValue     string `json:"inbound_value"`
	Difference       string `json:"difference,omitempty"`
}

// CorrectiveAction is an advisory update for the transaction. It is never applied here.
type CorrectiveAction struct {
	Field         string `json:"field"`
	ProposedValue string `json:"proposed_value"`
}

// MatchResult links exactly one transaction with exactly one inbound record.
type MatchResult struct {
	InternalID        string             `json:"internal_id"`
	SourceID          string             `json:"source_id"`
	Strategy          StrategyName       `json:"strategy"`
	Confidence        int                `json:"confidence"`
	NeedsReview       bool               `json:"needs_review"`
	MissingFields     []string           `json:"missing_fields"`
	Discrepancies     []Discrepancy      `json:"discrepancies"`
	CorrectiveActions []CorrectiveAction `json:"corrective_actions"`
	Transaction       TransactionRecord  `json:"transaction"`
	Inbound           InboundRecord      `json:"inbound"`
}

// Outcome is the result of one reconciliation call: the accepted matches
// and whatever is left in each pool.
type Outcome struct {
	Matches               []MatchResult       `json:"matches"`
	UnmatchedTransactions []TransactionRecord `json:"unmatched_transactions"`
	UnmatchedInbound      []InboundRecord     `json:"unmatched_inbound"`
}
