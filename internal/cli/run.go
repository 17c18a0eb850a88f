package cli

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rental-reconciliation/internal/domain"
	"rental-reconciliation/internal/gateway"
	"rental-reconciliation/internal/report"
	"rental-reconciliation/internal/usecase"
)

type runOptions struct {
	transactions string
	inbound      string
	from         string
	to           string
	output       string
}

func newRunCommand(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile one batch and write the report",
		Example: `  reconciler run --transactions rentals.csv --inbound inbound.yaml
  reconciler run --db rentals.db --inbound inbound.json --from 2025-08-01 --to 2025-08-31 --format markdown --output report.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.transactions, "transactions", "", "rentals file (.csv, .json, .yaml); overrides --db")
	flags.StringVar(&opts.inbound, "inbound", "", "inbound records file (.csv, .json, .yaml) (required)")
	flags.StringVar(&opts.from, "from", "", "first day of the period (YYYY-MM-DD)")
	flags.StringVar(&opts.to, "to", "", "last day of the period (YYYY-MM-DD)")
	flags.StringVarP(&opts.output, "output", "o", "-", "report destination, - for stdout")
	flags.String("format", "", "report format: json, yaml, markdown")
	flags.Bool("archive", false, "store the report in the database run archive")
	_ = cmd.MarkFlagRequired("inbound")
	mustBind(a.v, "report_format", flags.Lookup("format"))
	mustBind(a.v, "archive_runs", flags.Lookup("archive"))

	return cmd
}

func (a *app) run(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()

	from, err := a.parseDay("from", opts.from)
	if err != nil {
		return err
	}
	to, err := a.parseDay("to", opts.to)
	if err != nil {
		return err
	}
	period := domain.Period{From: from, To: to}

	var db *sql.DB
	if a.cfg.DBPath != "" && (opts.transactions == "" || a.cfg.ArchiveRuns) {
		db, err = gateway.InitDB(a.cfg.DBPath)
		if err != nil {
			return fmt.Errorf("could not open database: %w", err)
		}
		defer db.Close()
	}

	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}

	var transactions usecase.TransactionRepository
	switch {
	case opts.transactions != "":
		transactions = gateway.NewFileRepository(opts.transactions, "", loc)
	case db != nil:
		transactions = gateway.NewRentalRepo(db)
	default:
		return &domain.ValidationError{Field: "transactions", Message: "set --transactions or --db"}
	}

	out, closeOut, err := openOutput(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}
	defer closeOut()

	sink, err := newReportSink(a.cfg.ReportFormat, out, loc)
	if err != nil {
		return err
	}
	sinks := []usecase.ReportSink{sink}
	if a.cfg.ArchiveRuns {
		if db == nil {
			return &domain.ValidationError{Field: "archive", Message: "requires --db"}
		}
		sinks = append(sinks, gateway.NewRunRepo(db))
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}
	uc := usecase.NewReconciliationUseCase(transactions, gateway.NewFileRepository("", opts.inbound, loc), engine,
		usecase.WithSinks(sinks...))

	rep, err := uc.Reconcile(ctx, period)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	a.logger.Info().
		Str("run_id", rep.RunID).
		Str("output", opts.output).
		Str("format", a.cfg.ReportFormat).
		Msg("report written")
	return nil
}

// newReportSink returns the sink for format writing to w. Markdown prints
// calendar days in loc.
func newReportSink(format string, w io.Writer, loc *time.Location) (usecase.ReportSink, error) {
	switch strings.ToLower(format) {
	case "", report.FormatJSON:
		return report.NewJSONSink(w), nil
	case report.FormatYAML, "yml":
		return report.NewYAMLSink(w), nil
	case report.FormatMarkdown, "md":
		return report.NewMarkdownSink(w, loc), nil
	}
	return nil, &domain.ValidationError{Field: "format", Value: format, Message: "expected json, yaml or markdown"}
}

// openOutput returns stdout for "-" or a created file.
func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create report file: %w", err)
	}
	return file, func() { file.Close() }, nil
}
