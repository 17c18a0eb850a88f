package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is an authoritative rental as stored in the transactional system.
// Optional text fields use the empty string for "absent".
type TransactionRecord struct {
	InternalID        string          `json:"internal_id"`
	CorrelationKey    string          `json:"correlation_key,omitempty"`
	CounterpartyName  string          `json:"counterparty_name"`
	WindowStart       time.Time       `json:"window_start"`
	WindowEnd         time.Time       `json:"window_end"`
	Amount            decimal.Decimal `json:"amount"`
	SecondaryQuantity *int            `json:"secondary_quantity,omitempty"`
	ContactEmail      string          `json:"contact_email,omitempty"`
	ContactPhone      string          `json:"contact_phone,omitempty"`
}

// HasCorrelationKey reports whether the transaction carries an external order reference.
func (t TransactionRecord) HasCorrelationKey() bool {
	return t.CorrelationKey != ""
}

// InboundRecord is a rental extracted from inbound correspondence.
// Every field except SourceID may be absent.
type InboundRecord struct {
	SourceID          string              `json:"source_id"`
	CorrelationKey    string              `json:"correlation_key,omitempty"`
	CounterpartyName  string              `json:"counterparty_name,omitempty"`
	WindowStart       *time.Time          `json:"window_start,omitempty"`
	WindowEnd         *time.Time          `json:"window_end,omitempty"`
	Amount            decimal.NullDecimal `json:"amount"`
	SecondaryQuantity *int                `json:"secondary_quantity,omitempty"`
	ContactEmail      string              `json:"contact_email,omitempty"`
	ContactPhone      string              `json:"contact_phone,omitempty"`
}

// HasCorrelationKey reports whether the inbound record quotes an order reference.
func (r InboundRecord) HasCorrelationKey() bool {
	return r.CorrelationKey != ""
}

// Period bounds a reconciliation batch. Zero values leave that side open.
type Period struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// IsZero reports whether neither bound is set.
func (p Period) IsZero() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// Overlaps reports whether the interval [start, end] intersects the period.
// To is inclusive up to the end of its day.
func (p Period) Overlaps(start, end time.Time) bool {
	if !p.From.IsZero() && end.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !start.Before(p.endOfTo()) {
		return false
	}
	return true
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return p.Overlaps(t, t)
}

func (p Period) endOfTo() time.Time {
	return p.To.AddDate(0, 0, 1)
}
