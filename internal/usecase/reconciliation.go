package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rental-reconciliation/internal/domain"
	"rental-reconciliation/internal/logging"
	"rental-reconciliation/internal/report"
)

// ReconciliationUseCase orchestrates one run: fetch both sides, reconcile,
// build the report and hand it to every sink.
type ReconciliationUseCase struct {
	transactions TransactionRepository
	inbound      InboundRepository
	engine       *Engine
	sinks        []ReportSink
	now          func() time.Time
	newID        func() string
}

// Option configures a ReconciliationUseCase.
type Option func(*ReconciliationUseCase)

// WithSinks appends report sinks; they are called in order.
func WithSinks(sinks ...ReportSink) Option {
	return func(uc *ReconciliationUseCase) {
		uc.sinks = append(uc.sinks, sinks...)
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(uc *ReconciliationUseCase) {
		uc.now = now
	}
}

// WithIDGenerator overrides the run id source.
func WithIDGenerator(newID func() string) Option {
	return func(uc *ReconciliationUseCase) {
		uc.newID = newID
	}
}

// NewReconciliationUseCase creates a new instance of the usecase. Either
// repository may be nil when only ReconcileRecords is used.
func NewReconciliationUseCase(transactions TransactionRepository, inbound InboundRepository, engine *Engine, opts ...Option) *ReconciliationUseCase {
	uc := &ReconciliationUseCase{
		transactions: transactions,
		inbound:      inbound,
		engine:       engine,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Reconcile fetches both sides for period and reconciles them.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, period domain.Period) (*domain.Report, error) {
	transactions, err := uc.transactions.ListTransactions(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("could not get transactions: %w", err)
	}

	inbound, err := uc.inbound.ListInbound(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("could not get inbound records: %w", err)
	}

	return uc.ReconcileRecords(ctx, transactions, inbound, period)
}

// ReconcileRecords reconciles snapshots supplied by the caller.
func (uc *ReconciliationUseCase) ReconcileRecords(ctx context.Context, transactions []domain.TransactionRecord, inbound []domain.InboundRecord, period domain.Period) (*domain.Report, error) {
	log := logging.FromContext(ctx)
	logInputStats(log, transactions, inbound)

	outcome, err := uc.engine.Reconcile(transactions, inbound)
	if err != nil {
		return nil, fmt.Errorf("could not reconcile: %w", err)
	}

	rep := report.Build(outcome, report.Meta{
		RunID:       uc.newID(),
		GeneratedAt: uc.now(),
		Period:      period,
	})
	log.Info().
		Str("run_id", rep.RunID).
		Int("matched", rep.Summary.Matched).
		Int("needs_review", rep.Summary.NeedsReview).
		Int("unmatched_transactions", rep.Summary.UnmatchedTransactions).
		Int("unmatched_inbound", rep.Summary.UnmatchedInbound).
		Int("match_rate_percent", rep.Summary.MatchRatePercent).
		Msg("reconciliation finished")

	for _, sink := range uc.sinks {
		if err := sink.Publish(ctx, rep); err != nil {
			return nil, fmt.Errorf("could not publish report: %w", err)
		}
	}
	return rep, nil
}

func logInputStats(log *zerolog.Logger, transactions []domain.TransactionRecord, inbound []domain.InboundRecord) {
	var txKeys, txEmails, txPhones int
	for _, tx := range transactions {
		if tx.HasCorrelationKey() {
			txKeys++
		}
		if tx.ContactEmail != "" {
			txEmails++
		}
		if tx.ContactPhone != "" {
			txPhones++
		}
	}
	var inKeys, inEmails, inPhones int
	for _, in := range inbound {
		if in.HasCorrelationKey() {
			inKeys++
		}
		if in.ContactEmail != "" {
			inEmails++
		}
		if in.ContactPhone != "" {
			inPhones++
		}
	}

	log.Info().
		Int("transactions", len(transactions)).
		Int("transactions_with_key", txKeys).
		Int("transactions_with_email", txEmails).
		Int("transactions_with_phone", txPhones).
		Int("inbound", len(inbound)).
		Int("inbound_with_key", inKeys).
		Int("inbound_with_email", inEmails).
		Int("inbound_with_phone", inPhones).
		Msg("reconciliation input loaded")
}
