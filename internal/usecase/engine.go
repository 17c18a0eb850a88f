package usecase

import (
	"github.com/rs/zerolog"

	"rental-reconciliation/internal/compare"
	"rental-reconciliation/internal/discrepancy"
	"rental-reconciliation/internal/domain"
	"rental-reconciliation/internal/matching"
)

// Engine pairs transactions with inbound records. It holds no state between
// calls and is safe for concurrent use.
type Engine struct {
	correlation matching.Strategy
	cascade     []matching.Strategy
	resolver    *discrepancy.Resolver
	logger      zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger makes the engine log each decision at debug level.
func WithEngineLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine builds the standard strategy cascade around cmp.
func NewEngine(cmp compare.Comparator, opts ...EngineOption) *Engine {
	e := &Engine{
		correlation: matching.CorrelationKey(),
		cascade:     matching.Cascade(cmp),
		resolver:    discrepancy.NewResolver(cmp),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// pools tracks which records are still unmatched. Each call owns its own.
type pools struct {
	transactions []domain.TransactionRecord
	inbound      []domain.InboundRecord
	txTaken      []bool
	inTaken      []bool
}

// Reconcile runs correlation-key matching, then the fallback cascade, and
// enriches every accepted pair. Inputs are never modified.
func (e *Engine) Reconcile(transactions []domain.TransactionRecord, inbound []domain.InboundRecord) (domain.Outcome, error) {
	seen := make(map[string]struct{}, len(transactions))
	for _, tx := range transactions {
		if _, ok := seen[tx.InternalID]; ok {
			return domain.Outcome{}, &domain.DuplicateKeyError{InternalID: tx.InternalID}
		}
		seen[tx.InternalID] = struct{}{}
	}

	p := &pools{
		transactions: append([]domain.TransactionRecord(nil), transactions...),
		inbound:      append([]domain.InboundRecord(nil), inbound...),
		txTaken:      make([]bool, len(transactions)),
		inTaken:      make([]bool, len(inbound)),
	}
	matches := make([]domain.MatchResult, 0)

	// Phase 1: correlation keys, driven from the transaction side.
	for ti, tx := range p.transactions {
		if !tx.HasCorrelationKey() {
			continue
		}
		var candidates []int
		for ii, in := range p.inbound {
			if !p.inTaken[ii] && e.correlation.Matches(tx, in) {
				candidates = append(candidates, ii)
			}
		}
		decision := matching.Decide(len(candidates))
		e.logDecision(e.correlation, tx.InternalID, "", decision, len(candidates))
		if decision == matching.Unique {
			matches = append(matches, e.accept(p, e.correlation, ti, candidates[0]))
		}
	}

	// Phase 2: the cascade, driven from the inbound side.
	for ii, in := range p.inbound {
		if p.inTaken[ii] {
			continue
		}
		for _, strategy := range e.cascade {
			var candidates []int
			for ti, tx := range p.transactions {
				if !p.txTaken[ti] && strategy.Matches(tx, in) {
					candidates = append(candidates, ti)
				}
			}
			decision := matching.Decide(len(candidates))
			e.logDecision(strategy, "", in.SourceID, decision, len(candidates))
			if decision == matching.Unique {
				matches = append(matches, e.accept(p, strategy, candidates[0], ii))
				break
			}
		}
	}

	outcome := domain.Outcome{
		Matches:               matches,
		UnmatchedTransactions: make([]domain.TransactionRecord, 0),
		UnmatchedInbound:      make([]domain.InboundRecord, 0),
	}
	for ti, tx := range p.transactions {
		if !p.txTaken[ti] {
			outcome.UnmatchedTransactions = append(outcome.UnmatchedTransactions, tx)
		}
	}
	for ii, in := range p.inbound {
		if !p.inTaken[ii] {
			outcome.UnmatchedInbound = append(outcome.UnmatchedInbound, in)
		}
	}
	return outcome, nil
}

func (e *Engine) accept(p *pools, strategy matching.Strategy, ti, ii int) domain.MatchResult {
	p.txTaken[ti] = true
	p.inTaken[ii] = true
	tx, in := p.transactions[ti], p.inbound[ii]

	res := e.resolver.Resolve(tx, in)
	return domain.MatchResult{
		InternalID:        tx.InternalID,
		SourceID:          in.SourceID,
		Strategy:          strategy.Name,
		Confidence:        strategy.Confidence(),
		NeedsReview:       strategy.NeedsReview(),
		MissingFields:     res.MissingFields,
		Discrepancies:     res.Discrepancies,
		CorrectiveActions: res.CorrectiveActions,
		Transaction:       tx,
		Inbound:           in,
	}
}

func (e *Engine) logDecision(strategy matching.Strategy, internalID, sourceID string, decision matching.Decision, candidates int) {
	if decision == matching.NoCandidate {
		return
	}
	event := e.logger.Debug().
		Str("strategy", string(strategy.Name)).
		Str("decision", decision.String()).
		Int("candidates", candidates)
	if internalID != "" {
		event = event.Str("internal_id", internalID)
	}
	if sourceID != "" {
		event = event.Str("source_id", sourceID)
	}
	event.Msg("strategy evaluated")
}
