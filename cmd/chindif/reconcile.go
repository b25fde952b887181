package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/username/chindiferencia/backend/src/config"
	"github.com/username/chindiferencia/backend/src/exporters"
	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/parsers/agent"
	"github.com/username/chindiferencia/backend/src/parsers/counterparty"
	"github.com/username/chindiferencia/backend/src/processors"
	"github.com/username/chindiferencia/backend/src/services"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type reconcileCmd struct {
	agentFiles   stringList
	counterparty string
	filters      models.Filters
	csvPath      string
	xlsxPath     string
	currency     string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "reconcile agent ledger exports against a counterparty log"
}
func (*reconcileCmd) Usage() string {
	return `chindif reconcile -agent <file.csv> [-agent <file.csv>...] [-counterparty <file>|-] [filters] [-csv <out>] [-xlsx <out>]

  Parses the agent ledger exports and the counterparty log, pairs the records
  and prints the summary for the selected filters. Use "-" as the counterparty
  file to read it from standard input.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	c.filters = models.DefaultFilters()
	f.Var(&c.agentFiles, "agent", "Agent ledger export (repeatable).")
	f.StringVar(&c.counterparty, "counterparty", "", `Counterparty log file, or "-" for stdin.`)
	f.StringVar(&c.filters.Date, "date", models.FilterAll, "Only records of this day (YYYY-MM-DD).")
	f.StringVar(&c.filters.Agent, "agent-name", models.FilterAll, "Only records of this agent ledger.")
	f.StringVar(&c.filters.Operator, "operator", models.FilterAll, "Only records of this counterparty operator.")
	f.StringVar(&c.filters.Wallet, "wallet", models.FilterAll, "Only records of this wallet.")
	f.StringVar(&c.filters.Shift, "turn", models.FilterAll, "Only records of this shift (TM, TT, TN).")
	f.StringVar(&c.filters.Status, "status", models.FilterAll, "Only records with this status (OK, MISSING_COUNTERPARTY, MISSING_AGENT).")
	f.StringVar(&c.filters.Movement, "movement", models.FilterAll, "Only records of this movement (INGRESO, EGRESO).")
	f.StringVar(&c.csvPath, "csv", "", "Write the active records as CSV to this path.")
	f.StringVar(&c.xlsxPath, "xlsx", "", "Write the active records as a spreadsheet to this path.")
	f.StringVar(&c.currency, "currency", "", "ISO currency code used to print amounts (defaults to CURRENCY_CODE).")
}

func (c *reconcileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.stdin == nil {
		c.stdin = os.Stdin
	}
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}

	if err := c.run(ctx); err != nil {
		fmt.Fprintln(c.stderr, err)
		if errors.Is(err, services.ErrNoInputProvided) || errors.Is(err, models.ErrInvalidFilter) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *reconcileCmd) run(ctx context.Context) error {
	if config.Cfg == nil {
		config.Cfg = config.FromEnv()
	}
	cfg := config.Cfg
	logger.InitLoggerTo(c.stderr, cfg.LogLevel)

	if err := c.filters.Validate(); err != nil {
		return err
	}
	currency := c.currency
	if currency == "" {
		currency = cfg.CurrencyCode
	}

	pasted, err := c.readCounterparty()
	if err != nil {
		return err
	}

	files := make([]services.LedgerFile, 0, len(c.agentFiles))
	for _, p := range c.agentFiles {
		files = append(files, services.DiskFile(p))
	}

	service := services.NewReconciliationService(
		agent.NewParser(cfg.AdminChargePattern, cfg.Location),
		counterparty.NewParser(cfg.Location),
		processors.NewReconciliationProcessor(),
	)
	result, err := service.Run(ctx, files, pasted)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		if w.Line > 0 {
			fmt.Fprintf(c.stderr, "warning: %s line %d: %s\n", w.Source, w.Line, w.Message)
		} else {
			fmt.Fprintf(c.stderr, "warning: %s: %s\n", w.Source, w.Message)
		}
	}

	filtered := processors.ApplyFilters(result.Records, c.filters)
	summary := processors.NewSummaryProcessor().Summarize(filtered, nil)
	c.printSummary(summary, len(result.Records), len(filtered), currency)

	now := time.Now()
	if err := writeExport(c.csvPath, exporters.NewCSVExporter(), filtered, now); err != nil {
		return err
	}
	return writeExport(c.xlsxPath, exporters.NewXLSXExporter(cfg.Location), filtered, now)
}

func (c *reconcileCmd) readCounterparty() (string, error) {
	switch c.counterparty {
	case "":
		return "", nil
	case "-":
		b, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", fmt.Errorf("reading counterparty log from stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(c.counterparty)
		if err != nil {
			return "", fmt.Errorf("reading counterparty log: %w", err)
		}
		return string(b), nil
	}
}

func (c *reconcileCmd) printSummary(s models.SummaryData, total, shown int, currency string) {
	m := func(v float64) string { return formatMoney(v, currency) }

	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tAgente\tChunior\tDiferencia\t\n")
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t\n", m(s.AgentTotal), m(s.CounterpartyTotal), m(s.TotalDifference))
	fmt.Fprintf(tw, "Ingresos\t%s\t%s\t%s\t\n", m(s.AgentIncome), m(s.CounterpartyIncome), m(s.IncomeDifference))
	fmt.Fprintf(tw, "Egresos\t%s\t%s\t%s\t\n", m(s.AgentOutcome), m(s.CounterpartyOutcome), m(s.OutcomeDifference))
	tw.Flush()

	fmt.Fprintf(c.stdout, "\nCargas admin: %s\n", m(s.AdminTotal))
	fmt.Fprintf(c.stdout, "Registros: %d de %d, emparejados %d, diferencias %d\n", shown, total, s.PairedCount, s.DiscrepancyCount)
}

func writeExport(path string, e exporters.Exporter, records []models.PairedRecord, now time.Time) error {
	if path == "" {
		return nil
	}
	if strings.HasSuffix(path, "/") || isDir(path) {
		path = strings.TrimRight(path, "/") + "/" + exporters.ExportFileName(e.Extension(), now)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s export: %w", e.Extension(), err)
	}
	if err := e.Export(f, records); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s export: %w", e.Extension(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s export: %w", e.Extension(), err)
	}
	logger.L.Info("Export written", "format", e.Extension(), "path", path, "records", len(records))
	return nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
