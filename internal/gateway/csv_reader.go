package gateway

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rental-reconciliation/internal/domain"
)

// csvRows opens path and yields each data row keyed by its lowercased header.
func csvRows(path string, fn func(line int, row map[string]string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("error reading record from %s: %w", path, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		if err := fn(line, row); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
	return nil
}

// readTransactionsCSV parses internal_id, correlation_key, counterparty_name,
// window_start, window_end, amount, secondary_quantity, contact_email, contact_phone.
func readTransactionsCSV(path string, loc *time.Location) ([]domain.TransactionRecord, error) {
	var transactions []domain.TransactionRecord
	err := csvRows(path, func(_ int, row map[string]string) error {
		if row["internal_id"] == "" {
			return &domain.ValidationError{Field: "internal_id", Message: "required"}
		}
		start, err := parseTime("window_start", row["window_start"], loc)
		if err != nil {
			return err
		}
		end, err := parseTime("window_end", row["window_end"], loc)
		if err != nil {
			return err
		}
		amount, err := parseAmount(row["amount"])
		if err != nil {
			return err
		}
		qty, err := parseOptionalInt("secondary_quantity", row["secondary_quantity"])
		if err != nil {
			return err
		}

		transactions = append(transactions, domain.TransactionRecord{
			InternalID:        row["internal_id"],
			CorrelationKey:    row["correlation_key"],
			CounterpartyName:  row["counterparty_name"],
			WindowStart:       start,
			WindowEnd:         end,
			Amount:            amount,
			SecondaryQuantity: qty,
			ContactEmail:      row["contact_email"],
			ContactPhone:      row["contact_phone"],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// readInboundCSV parses the same columns with source_id in place of internal_id.
// Every other column may be blank.
func readInboundCSV(path string, loc *time.Location) ([]domain.InboundRecord, error) {
	var records []domain.InboundRecord
	err := csvRows(path, func(_ int, row map[string]string) error {
		if row["source_id"] == "" {
			return &domain.ValidationError{Field: "source_id", Message: "required"}
		}
		in := domain.InboundRecord{
			SourceID:         row["source_id"],
			CorrelationKey:   row["correlation_key"],
			CounterpartyName: row["counterparty_name"],
			ContactEmail:     row["contact_email"],
			ContactPhone:     row["contact_phone"],
		}

		var err error
		if in.WindowStart, err = parseOptionalTime("window_start", row["window_start"], loc); err != nil {
			return err
		}
		if in.WindowEnd, err = parseOptionalTime("window_end", row["window_end"], loc); err != nil {
			return err
		}
		if row["amount"] != "" {
			amount, err := parseAmount(row["amount"])
			if err != nil {
				return err
			}
			in.Amount = decimal.NewNullDecimal(amount)
		}
		if in.SecondaryQuantity, err = parseOptionalInt("secondary_quantity", row["secondary_quantity"]); err != nil {
			return err
		}

		records = append(records, in)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", time.DateOnly}

// parseTime accepts RFC 3339 or a zone-less timestamp, which is read as
// wall-clock time in loc (time.Local when nil).
func parseTime(field, value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &domain.ValidationError{Field: field, Value: value, Message: "expected RFC 3339 timestamp"}
}

func parseOptionalTime(field, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseTime(field, value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, &domain.ValidationError{Field: "amount", Value: value, Message: "expected decimal number"}
	}
	return amount, nil
}

func parseOptionalInt(field, value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Value: value, Message: "expected integer"}
	}
	return &n, nil
}
