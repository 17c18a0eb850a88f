// Package discrepancy compares the two sides of an accepted match.
package discrepancy

import (
	"strconv"

	"rental-reconciliation/internal/compare"
	"rental-reconciliation/internal/domain"
)

// Resolution is the enrichment attached to a match.
type Resolution struct {
	MissingFields     []string
	Discrepancies     []domain.Discrepancy
	CorrectiveActions []domain.CorrectiveAction
}

// Resolver finds missing data and disagreeing fields for a matched pair.
type Resolver struct {
	cmp compare.Comparator
}

// NewResolver returns a Resolver reading dates through cmp.
func NewResolver(cmp compare.Comparator) *Resolver {
	return &Resolver{cmp: cmp}
}

// Resolve never modifies either record. Only the start boundary of the rental
// window is compared; the end boundary is carried along in the window correction.
func (r *Resolver) Resolve(tx domain.TransactionRecord, in domain.InboundRecord) Resolution {
	res := Resolution{
		MissingFields:     []string{},
		Discrepancies:     []domain.Discrepancy{},
		CorrectiveActions: []domain.CorrectiveAction{},
	}

	fill := func(field, value string) {
		res.MissingFields = append(res.MissingFields, field)
		res.CorrectiveActions = append(res.CorrectiveActions, domain.CorrectiveAction{Field: field, ProposedValue: value})
	}
	if !tx.HasCorrelationKey() && in.HasCorrelationKey() {
		fill(domain.FieldCorrelationKey, in.CorrelationKey)
	}
	if tx.ContactEmail == "" && in.ContactEmail != "" {
		fill(domain.FieldContactEmail, in.ContactEmail)
	}
	if tx.ContactPhone == "" && in.ContactPhone != "" {
		fill(domain.FieldContactPhone, in.ContactPhone)
	}
	if tx.SecondaryQuantity == nil && in.SecondaryQuantity != nil {
		fill(domain.FieldSecondaryQuantity, strconv.Itoa(*in.SecondaryQuantity))
	}

	if in.Amount.Valid && !r.cmp.AmountsEqual(tx.Amount, in.Amount.Decimal) {
		res.Discrepancies = append(res.Discrepancies, domain.Discrepancy{
			Field:            domain.FieldAmount,
			TransactionValue: tx.Amount.String(),
			InboundValue:     in.Amount.Decimal.String(),
			Difference:       tx.Amount.Sub(in.Amount.Decimal).Abs().String(),
		})
	}

	windowDrift := false
	if in.WindowStart != nil {
		inStart := *in.WindowStart
		if !r.cmp.TimesOfDayEqual(tx.WindowStart, inStart) {
			windowDrift = true
			res.Discrepancies = append(res.Discrepancies, domain.Discrepancy{
				Field:            domain.FieldStartTime,
				TransactionValue: r.cmp.TimeOfDay(tx.WindowStart),
				InboundValue:     r.cmp.TimeOfDay(inStart),
			})
		}
		if !r.cmp.DatesEqual(tx.WindowStart, inStart) {
			windowDrift = true
			res.Discrepancies = append(res.Discrepancies, domain.Discrepancy{
				Field:            domain.FieldStartDate,
				TransactionValue: r.cmp.Date(tx.WindowStart),
				InboundValue:     r.cmp.Date(inStart),
			})
		}
	}

	if windowDrift {
		res.CorrectiveActions = append(res.CorrectiveActions, r.windowAction(in))
	}
	return res
}

// windowAction proposes the inbound interval as a unit. Without an inbound end
// only the start is proposed.
func (r *Resolver) windowAction(in domain.InboundRecord) domain.CorrectiveAction {
	start := r.cmp.Instant(*in.WindowStart)
	if in.WindowEnd == nil {
		return domain.CorrectiveAction{Field: domain.FieldWindowStart, ProposedValue: start}
	}
	return domain.CorrectiveAction{Field: domain.FieldWindow, ProposedValue: start + "/" + r.cmp.Instant(*in.WindowEnd)}
}
