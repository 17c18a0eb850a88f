package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"rental-reconciliation/internal/domain"
)

// FileRepository reads both sides of a batch from CSV, JSON or YAML files.
// The format follows the file extension. Zone-less CSV timestamps are read in
// the repository's location, the same one the comparator uses.
type FileRepository struct {
	transactionsPath string
	inboundPath      string
	loc              *time.Location
}

// NewFileRepository creates a new repository instance. Either path may be
// empty when that side comes from elsewhere. A nil loc means time.Local.
func NewFileRepository(transactionsPath, inboundPath string, loc *time.Location) *FileRepository {
	return &FileRepository{transactionsPath: transactionsPath, inboundPath: inboundPath, loc: loc}
}

// ListTransactions returns the rentals whose window overlaps period, in file order.
func (r *FileRepository) ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error) {
	transactions, err := LoadTransactions(r.transactionsPath, r.loc)
	if err != nil {
		return nil, err
	}
	return filterTransactions(transactions, period), nil
}

// ListInbound returns the inbound records dated inside period, plus undated ones, in file order.
func (r *FileRepository) ListInbound(ctx context.Context, period domain.Period) ([]domain.InboundRecord, error) {
	records, err := LoadInbound(r.inboundPath, r.loc)
	if err != nil {
		return nil, err
	}
	return filterInbound(records, period), nil
}

// LoadTransactions reads every transaction in path. Zone-less CSV timestamps
// are read in loc.
func LoadTransactions(path string, loc *time.Location) ([]domain.TransactionRecord, error) {
	if path == "" {
		return nil, &domain.ValidationError{Field: "transactions path", Message: "required"}
	}
	if isCSV(path) {
		return readTransactionsCSV(path, loc)
	}

	var transactions []domain.TransactionRecord
	if err := decodeFile(path, &transactions); err != nil {
		return nil, err
	}
	for i, tx := range transactions {
		if tx.InternalID == "" {
			return nil, fmt.Errorf("%s record %d: %w", path, i, &domain.ValidationError{Field: "internal_id", Message: "required"})
		}
	}
	return transactions, nil
}

// LoadInbound reads every inbound record in path. Zone-less CSV timestamps
// are read in loc.
func LoadInbound(path string, loc *time.Location) ([]domain.InboundRecord, error) {
	if path == "" {
		return nil, &domain.ValidationError{Field: "inbound path", Message: "required"}
	}
	if isCSV(path) {
		return readInboundCSV(path, loc)
	}

	var records []domain.InboundRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, err
	}
	for i, in := range records {
		if in.SourceID == "" {
			return nil, fmt.Errorf("%s record %d: %w", path, i, &domain.ValidationError{Field: "source_id", Message: "required"})
		}
	}
	return records, nil
}

// decodeFile reads JSON, or YAML converted to JSON so both share the json tags.
func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return fmt.Errorf("could not parse YAML %s: %w", path, err)
		}
	case ".json":
	default:
		return &domain.ValidationError{Field: "file extension", Value: filepath.Ext(path), Message: "expected .csv, .json, .yaml or .yml"}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("could not decode %s: %w", path, err)
	}
	return nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func filterTransactions(transactions []domain.TransactionRecord, period domain.Period) []domain.TransactionRecord {
	if period.IsZero() {
		return transactions
	}
	var filtered []domain.TransactionRecord
	for _, tx := range transactions {
		if period.Overlaps(tx.WindowStart, tx.WindowEnd) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

func filterInbound(records []domain.InboundRecord, period domain.Period) []domain.InboundRecord {
	if period.IsZero() {
		return records
	}
	var filtered []domain.InboundRecord
	for _, in := range records {
		if in.WindowStart == nil || period.Contains(*in.WindowStart) {
			filtered = append(filtered, in)
		}
	}
	return filtered
}
