// Package compare holds the field predicates shared by matching and discrepancy checks.
package compare

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rental-reconciliation/internal/normalize"
)

// AmountTolerance is the strict upper bound on |a-b| for two amounts to be equal.
var AmountTolerance = decimal.New(1, -2)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Comparator evaluates field equality. Dates and times of day are read in Location.
type Comparator struct {
	Location *time.Location
}

// New returns a Comparator for loc; nil means time.Local.
func New(loc *time.Location) Comparator {
	if loc == nil {
		loc = time.Local
	}
	return Comparator{Location: loc}
}

func (c Comparator) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// AmountsEqual reports |a-b| < 0.01.
func (c Comparator) AmountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(AmountTolerance)
}

// DatesEqual compares calendar dates in the canonical location.
func (c Comparator) DatesEqual(a, b time.Time) bool {
	return c.Date(a) == c.Date(b)
}

// TimesOfDayEqual compares wall-clock times in the canonical location.
func (c Comparator) TimesOfDayEqual(a, b time.Time) bool {
	return c.TimeOfDay(a) == c.TimeOfDay(b)
}

// Date renders t as YYYY-MM-DD in the canonical location.
func (c Comparator) Date(t time.Time) string {
	return t.In(c.location()).Format(dateLayout)
}

// TimeOfDay renders t as HH:MM:SS in the canonical location.
func (c Comparator) TimeOfDay(t time.Time) string {
	return t.In(c.location()).Format(timeLayout)
}

// Instant renders t as RFC 3339 in the canonical location.
func (c Comparator) Instant(t time.Time) string {
	return t.In(c.location()).Format(time.RFC3339)
}

// NamesEqual compares normalized names. Blank names never match.
func (c Comparator) NamesEqual(a, b string) bool {
	na, nb := normalize.Name(a), normalize.Name(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

// NamesOverlap reports whether either normalized name contains the other.
func (c Comparator) NamesOverlap(a, b string) bool {
	na, nb := normalize.Name(a), normalize.Name(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
