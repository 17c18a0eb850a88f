package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rental-reconciliation/internal/domain"
)

// RentalRepo reads rentals from SQLite. Reconciliation only ever lists;
// BulkInsert exists for seeding.
type RentalRepo struct {
	db *sql.DB
}

func NewRentalRepo(db *sql.DB) *RentalRepo {
	return &RentalRepo{db: db}
}

// BulkInsert stores rentals in one transaction, skipping ids that already exist.
func (r *RentalRepo) BulkInsert(ctx context.Context, rentals []domain.TransactionRecord) (int, error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO rentals
		(internal_id, correlation_key, counterparty_name, window_start, window_end,
		 amount, secondary_quantity, contact_email, contact_phone)
		VALUES (?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range rentals {
		rental := &rentals[i]
		res, err := stmt.ExecContext(ctx,
			rental.InternalID, nullString(rental.CorrelationKey), rental.CounterpartyName,
			formatTime(rental.WindowStart), formatTime(rental.WindowEnd),
			rental.Amount.String(), nullInt(rental.SecondaryQuantity),
			nullString(rental.ContactEmail), nullString(rental.ContactPhone),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert row %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *RentalRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rentals").Scan(&count)
	return count, err
}

// ListTransactions returns rentals whose window overlaps period, ordered by
// start then id so repeated runs see the same input order.
func (r *RentalRepo) ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error) {
	where, args := buildRentalWhere(period)
	rows, err := r.db.QueryContext(ctx,
		`SELECT internal_id, correlation_key, counterparty_name, window_start, window_end,
		        amount, secondary_quantity, contact_email, contact_phone
		 FROM rentals`+where+` ORDER BY window_start, internal_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.TransactionRecord
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rentals: %w", err)
	}
	return rentals, nil
}

// buildRentalWhere selects windows that start in the period, end in it, or span it.
func buildRentalWhere(period domain.Period) (string, []any) {
	var clauses []string
	var args []any
	if !period.From.IsZero() {
		clauses = append(clauses, "window_end >= ?")
		args = append(args, formatTime(period.From))
	}
	if !period.To.IsZero() {
		clauses = append(clauses, "window_start < ?")
		args = append(args, formatTime(period.To.AddDate(0, 0, 1)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanRental(rows *sql.Rows) (domain.TransactionRecord, error) {
	var (
		rental             domain.TransactionRecord
		key, email, phone  sql.NullString
		start, end, amount string
		qty                sql.NullInt64
	)
	if err := rows.Scan(&rental.InternalID, &key, &rental.CounterpartyName, &start, &end,
		&amount, &qty, &email, &phone); err != nil {
		return rental, fmt.Errorf("scan rental: %w", err)
	}

	var err error
	if rental.WindowStart, err = time.Parse(time.RFC3339, start); err != nil {
		return rental, fmt.Errorf("rental %s window_start: %w", rental.InternalID, err)
	}
	if rental.WindowEnd, err = time.Parse(time.RFC3339, end); err != nil {
		return rental, fmt.Errorf("rental %s window_end: %w", rental.InternalID, err)
	}
	if rental.Amount, err = decimal.NewFromString(amount); err != nil {
		return rental, fmt.Errorf("rental %s amount: %w", rental.InternalID, err)
	}
	if qty.Valid {
		n := int(qty.Int64)
		rental.SecondaryQuantity = &n
	}
	rental.CorrelationKey = key.String
	rental.ContactEmail = email.String
	rental.ContactPhone = phone.String
	return rental, nil
}
