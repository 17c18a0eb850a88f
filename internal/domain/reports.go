package domain

import "time"

// Summary provides high-level statistics of the reconciliation run.
type Summary struct {
	TotalTransactions      int                  `json:"total_transactions"`
	TotalInbound           int                  `json:"total_inbound"`
	Matched                int                  `json:"matched"`
	UnmatchedTransactions  int                  `json:"unmatched_transactions"`
	UnmatchedInbound       int                  `json:"unmatched_inbound"`
	NeedsReview            int                  `json:"needs_review"`
	ByStrategy             map[StrategyName]int `json:"by_strategy"`
	TotalMissingFields     int                  `json:"total_missing_fields"`
	TotalDiscrepancies     int                  `json:"total_discrepancies"`
	TotalCorrectiveActions int                  `json:"total_corrective_actions"`
	MatchRatePercent       int                  `json:"match_rate_percent"`
}

// Report is the top-level structure handed to report sinks.
type Report struct {
	RunID                 string              `json:"run_id"`
	GeneratedAt           time.Time           `json:"generated_at"`
	Period                Period              `json:"period"`
	Summary               Summary             `json:"summary"`
	Matches               []MatchResult       `json:"matches"`
	UnmatchedTransactions []TransactionRecord `json:"unmatched_transactions"`
	UnmatchedInbound      []InboundRecord     `json:"unmatched_inbound"`
}

// RunSummary is the archived header of a report.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Matched     int       `json:"matched"`
	NeedsReview int       `json:"needs_review"`
	Unmatched   int       `json:"unmatched"`
}
