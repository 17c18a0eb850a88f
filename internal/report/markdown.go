package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	md "github.com/nao1215/markdown"

	"rental-reconciliation/internal/domain"
)

// MarkdownSink renders a review document: summary, one section per match with
// its proposed corrections, and the unmatched records on both sides.
// Calendar days are printed in loc, the zone discrepancies are computed in.
type MarkdownSink struct {
	w   io.Writer
	loc *time.Location
}

// NewMarkdownSink creates a markdown sink. A nil loc means time.Local.
func NewMarkdownSink(w io.Writer, loc *time.Location) *MarkdownSink {
	if loc == nil {
		loc = time.Local
	}
	return &MarkdownSink{w: w, loc: loc}
}

// Publish writes the review document to the sink's writer.
func (s *MarkdownSink) Publish(_ context.Context, report *domain.Report) error {
	doc := md.NewMarkdown(s.w)

	doc.H1("Rental reconciliation report").
		PlainTextf("Run %s, generated %s.", md.Code(report.RunID), report.GeneratedAt.In(s.loc).Format(time.RFC3339))
	if !report.Period.IsZero() {
		doc.PlainTextf("Period: %s to %s.", s.day(report.Period.From), s.day(report.Period.To))
	}
	doc.LF()

	writeSummary(doc, report.Summary)
	writeMatches(doc, report.Matches)
	s.writeUnmatched(doc, report)

	if err := doc.Build(); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	return nil
}

func writeSummary(doc *md.Markdown, s domain.Summary) {
	rows := [][]string{
		{"Transactions", strconv.Itoa(s.TotalTransactions)},
		{"Inbound records", strconv.Itoa(s.TotalInbound)},
		{"Matched", fmt.Sprintf("%d (%d%%)", s.Matched, s.MatchRatePercent)},
		{"Needs review", strconv.Itoa(s.NeedsReview)},
		{"Unmatched transactions", strconv.Itoa(s.UnmatchedTransactions)},
		{"Unmatched inbound records", strconv.Itoa(s.UnmatchedInbound)},
		{"Missing fields", strconv.Itoa(s.TotalMissingFields)},
		{"Discrepancies", strconv.Itoa(s.TotalDiscrepancies)},
		{"Corrective actions", strconv.Itoa(s.TotalCorrectiveActions)},
	}
	for _, name := range domain.Strategies {
		rows = append(rows, []string{"Strategy " + string(name), strconv.Itoa(s.ByStrategy[name])})
	}

	doc.H2("Summary").
		Table(md.TableSet{Header: []string{"Metric", "Value"}, Rows: rows}).
		LF()
}

func writeMatches(doc *md.Markdown, matches []domain.MatchResult) {
	doc.H2("Matches")
	if len(matches) == 0 {
		doc.PlainText("No matches.").LF()
		return
	}

	for _, m := range matches {
		title := fmt.Sprintf("%s / %s", m.InternalID, m.SourceID)
		if m.NeedsReview {
			title += " (needs review)"
		}
		doc.H3(title).BulletList(
			fmt.Sprintf("Strategy: %s (confidence %d)", m.Strategy, m.Confidence),
			"Counterparty: "+m.Transaction.CounterpartyName,
			"Missing fields: "+joinOrNone(m.MissingFields),
		)

		if len(m.Discrepancies) > 0 {
			rows := make([][]string, 0, len(m.Discrepancies))
			for _, d := range m.Discrepancies {
				rows = append(rows, []string{d.Field, d.TransactionValue, d.InboundValue, d.Difference})
			}
			doc.Table(md.TableSet{Header: []string{"Field", "Transaction", "Inbound", "Difference"}, Rows: rows})
		}

		if len(m.CorrectiveActions) > 0 {
			items := make([]string, 0, len(m.CorrectiveActions))
			for _, a := range m.CorrectiveActions {
				items = append(items, fmt.Sprintf("set %s = %s", a.Field, md.Code(a.ProposedValue)))
			}
			doc.PlainText(md.Bold("Proposed corrections")).BulletList(items...)
		}
		doc.LF()
	}
}

func (s *MarkdownSink) writeUnmatched(doc *md.Markdown, report *domain.Report) {
	doc.H2("Unmatched transactions")
	if len(report.UnmatchedTransactions) == 0 {
		doc.PlainText("None.").LF()
	} else {
		rows := make([][]string, 0, len(report.UnmatchedTransactions))
		for _, tx := range report.UnmatchedTransactions {
			rows = append(rows, []string{tx.InternalID, tx.CorrelationKey, tx.CounterpartyName, s.day(tx.WindowStart), tx.Amount.String()})
		}
		doc.Table(md.TableSet{Header: []string{"ID", "Order", "Counterparty", "Start", "Amount"}, Rows: rows}).LF()
	}

	doc.H2("Unmatched inbound records")
	if len(report.UnmatchedInbound) == 0 {
		doc.PlainText("None.").LF()
		return
	}
	rows := make([][]string, 0, len(report.UnmatchedInbound))
	for _, in := range report.UnmatchedInbound {
		start := ""
		if in.WindowStart != nil {
			start = s.day(*in.WindowStart)
		}
		amount := ""
		if in.Amount.Valid {
			amount = in.Amount.Decimal.String()
		}
		rows = append(rows, []string{in.SourceID, in.CorrelationKey, in.CounterpartyName, start, amount})
	}
	doc.Table(md.TableSet{Header: []string{"Source", "Order", "Counterparty", "Start", "Amount"}, Rows: rows})
}

func (s *MarkdownSink) day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(s.loc).Format(time.DateOnly)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
