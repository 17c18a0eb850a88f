package usecase

import (
	"context"

	"rental-reconciliation/internal/domain"
)

// TransactionRepository lists authoritative rentals. The usecase layer depends
// on this interface, not on a concrete store, and never writes through it.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type TransactionRepository interface {
	ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error)
}

// InboundRepository lists records extracted from inbound correspondence.
type InboundRepository interface {
	ListInbound(ctx context.Context, period domain.Period) ([]domain.InboundRecord, error)
}

// ReportSink receives the finished report.
type ReportSink interface {
	Publish(ctx context.Context, report *domain.Report) error
}
