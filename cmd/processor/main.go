// Command processor builds ledger and sales reports from workbooks on disk
// and writes them as CSV or XLSX.
//
//	processor -in LIVRAISON_2025.xlsx -sheet DECEMBRE -report all
//	processor -in LIVRAISON_2025.xlsx -report months -months OCTOBRE,NOVEMBRE,DECEMBRE
//	processor -in archives/ -report years -months JANVIER,FEVRIER -format csv
//	processor -in ventes/ -report sales -metric benefice
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"ledgerdash/internal/config"
	"ledgerdash/internal/dataprocessing"
	"ledgerdash/internal/exporter"
	"ledgerdash/internal/files"
	"ledgerdash/internal/infrastructure"
	"ledgerdash/internal/reports"
	"ledgerdash/internal/services"
	"ledgerdash/internal/validation"
	"ledgerdash/pkg/contracts"
	"ledgerdash/pkg/contracts/domain"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// Reports the processor can build
const (
	reportAll          = "all"
	reportDaily        = "daily"
	reportAgents       = "agents"
	reportCouriers     = "couriers"
	reportRetour       = "retour"
	reportStatement    = "statement"
	reportDetail       = "detail"
	reportObservations = "observations"
	reportMonths       = "months"
	reportYears        = "years"
	reportSales        = "sales"
)

var sheetReports = map[string]bool{
	reportAll: true, reportDaily: true, reportAgents: true, reportCouriers: true,
	reportRetour: true, reportStatement: true, reportDetail: true, reportObservations: true,
}

type options struct {
	inputs     []string
	out        string
	format     string
	report     string
	sheet      string
	months     []string
	agents     []string
	fields     []string
	labels     []string
	day        string
	sortBy     string
	descending bool
	metric     string
	configFile string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	written, err := run(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(written)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "", "comma-separated workbooks or directories (required)")
	out := fs.String("out", "", "output file (defaults to <report>_<input>.<format> in the reports directory)")
	format := fs.String("format", formatXLSX, "output format: csv or xlsx")
	report := fs.String("report", reportAll, "report: all, daily, agents, couriers, retour, statement, detail, observations, months, years, sales")
	sheet := fs.String("sheet", "", "ledger sheet, e.g. DECEMBRE")
	months := fs.String("months", "", "comma-separated months for the months and years reports")
	agents := fs.String("agents", "", "comma-separated agents to keep")
	fields := fs.String("fields", "", "comma-separated fields to sum")
	labels := fs.String("labels", "", "comma-separated NAME_<PERIOD>_<YEAR> labels, one per sales workbook")
	day := fs.String("day", "", "day for the detail report, YYYY-MM-DD")
	sortBy := fs.String("sort", "", "field to sort the agents report by")
	desc := fs.Bool("desc", false, "sort the agents report in descending order")
	metric := fs.String("metric", domain.MetricDelivery, "pivot metric for the sales report: livraison or benefice")
	cfgFile := fs.String("config", "", "configuration file")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *version {
		fmt.Fprintln(fs.Output(), contracts.GetFullVersionString())
		return options{}, flag.ErrHelp
	}

	opts := options{
		inputs:     splitList(*in),
		out:        *out,
		format:     strings.ToLower(*format),
		report:     strings.ToLower(*report),
		sheet:      *sheet,
		months:     splitList(*months),
		agents:     splitList(*agents),
		fields:     splitList(*fields),
		labels:     splitList(*labels),
		day:        *day,
		sortBy:     *sortBy,
		descending: *desc,
		metric:     strings.ToLower(*metric),
		configFile: *cfgFile,
	}
	return opts, opts.validate()
}

func (o options) validate() error {
	if len(o.inputs) == 0 {
		return errors.New("-in is required")
	}
	if o.format != formatCSV && o.format != formatXLSX {
		return fmt.Errorf("unsupported format %q", o.format)
	}
	switch {
	case sheetReports[o.report]:
		if o.sheet == "" {
			return fmt.Errorf("-sheet is required for the %s report", o.report)
		}
		if o.report == reportDetail && o.day == "" {
			return errors.New("-day is required for the detail report")
		}
	case o.report == reportMonths, o.report == reportYears:
		if len(o.months) == 0 {
			return fmt.Errorf("-months is required for the %s report", o.report)
		}
	case o.report == reportSales:
		if o.metric != domain.MetricDelivery && o.metric != domain.MetricProfit {
			return fmt.Errorf("unsupported metric %q", o.metric)
		}
	default:
		return fmt.Errorf("unknown report %q", o.report)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// processor holds what run needs to build and write one report
type processor struct {
	cfg       *config.Config
	paths     *config.Paths
	service   *services.ReportService
	loader    *dataprocessing.Loader
	validator *validation.FileValidator
	logger    *slog.Logger
}

// run builds the requested report and returns the path it was written to
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return "", err
	}

	p := &processor{
		cfg:       cfg,
		paths:     paths,
		service:   services.NewReportService(cfg, nil, logger),
		loader:    dataprocessing.NewLoader(cfg.Ledger, logger),
		validator: validation.NewFileValidator(logger),
		logger:    logger.With(slog.String("component", "processor")),
	}

	inputs, err := files.NewDiscovery(paths.DataDir).Resolve(opts.inputs)
	if err != nil {
		return "", err
	}
	if len(inputs) == 0 {
		return "", fmt.Errorf("no workbook found in %s", strings.Join(opts.inputs, ", "))
	}
	inputPaths := make([]string, len(inputs))
	for i, f := range inputs {
		inputPaths[i] = f.Path
	}
	if err := p.validator.ValidateWorkbooks(inputPaths); err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "Processing workbooks",
		slog.String("report", opts.report),
		slog.Int("inputs", len(inputs)),
		slog.String("format", opts.format))

	var tables []exporter.Table
	switch {
	case opts.report == reportYears:
		tables, err = p.years(inputPaths, opts)
	case opts.report == reportSales:
		tables, err = p.sales(ctx, inputs, opts)
	default:
		if len(inputs) != 1 {
			return "", fmt.Errorf("the %s report reads exactly one workbook, got %d", opts.report, len(inputs))
		}
		tables, err = p.ledger(ctx, inputs[0], opts)
	}
	if err != nil {
		return "", err
	}

	out := opts.out
	if out == "" {
		stem := strings.TrimSuffix(inputs[0].Name, filepath.Ext(inputs[0].Name))
		out = filepath.Join(paths.ReportsDir, fmt.Sprintf("%s_%s.%s", opts.report, stem, opts.format))
	}
	if err := p.validator.ValidateOutputFile(out, opts.format); err != nil {
		return "", err
	}
	if err := p.write(out, opts.format, tables); err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "Report written",
		slog.String("output", out),
		slog.Int("tables", len(tables)),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

func (p *processor) write(out, format string, tables []exporter.Table) error {
	if format == formatXLSX {
		return exporter.NewXLSXWriter(p.paths, p.logger).WriteTables(out, tables...)
	}
	if len(tables) > 1 {
		p.logger.Warn("CSV output keeps the first table only",
			slog.String("table", tables[0].Name),
			slog.Int("dropped", len(tables)-1))
	}
	return exporter.NewCSVWriter(p.paths, p.logger).WriteTable(out, tables[0])
}

// ledger builds the reports of one delivery workbook through the report service
func (p *processor) ledger(ctx context.Context, input files.FileInfo, opts options) ([]exporter.Table, error) {
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input.Name, err)
	}
	info, err := p.service.UploadWorkbook(ctx, input.Name, data)
	if err != nil {
		return nil, err
	}

	fields, err := dataprocessing.ParseFields(opts.fields)
	if err != nil {
		return nil, err
	}
	id := info.ID

	if opts.report == reportMonths {
		rep, err := p.service.Months(ctx, id, opts.months)
		if err != nil {
			return nil, err
		}
		return []exporter.Table{exporter.PeriodTable("mois", rep.Rows, reports.LedgerMetrics)}, nil
	}

	builders := map[string]func() (exporter.Table, error){
		reportDaily: func() (exporter.Table, error) {
			t, err := p.service.Daily(ctx, id, opts.sheet, fields)
			return exporter.AggregateTable("daily", t), err
		},
		reportAgents: func() (exporter.Table, error) {
			q := services.AgentQuery{Fields: fields, Agents: opts.agents, Descending: opts.descending}
			if len(q.Agents) == 0 && len(p.cfg.Ledger.DefaultAgents) == 0 {
				// no configured roster: report every courier of the sheet
				couriers, err := p.service.Couriers(ctx, id, opts.sheet)
				if err != nil {
					return exporter.Table{}, err
				}
				q.Agents = couriers
			}
			if opts.sortBy != "" {
				spec, err := dataprocessing.LookupField(opts.sortBy)
				if err != nil {
					return exporter.Table{}, err
				}
				q.SortBy = spec.Field
			}
			t, err := p.service.Agents(ctx, id, opts.sheet, q)
			return exporter.AggregateTable("agents", t), err
		},
		reportCouriers: func() (exporter.Table, error) {
			agents, err := p.service.Couriers(ctx, id, opts.sheet)
			return exporter.CourierTable(agents), err
		},
		reportRetour: func() (exporter.Table, error) {
			rep, err := p.service.Retour(ctx, id, opts.sheet, opts.agents)
			return exporter.RetourTable(rep.Detail), err
		},
		reportStatement: func() (exporter.Table, error) {
			rep, err := p.service.Statement(ctx, id, opts.sheet)
			return exporter.StatementTable(rep.Statement), err
		},
		reportObservations: func() (exporter.Table, error) {
			obs, err := p.service.Observations(ctx, id, opts.sheet)
			return exporter.ObservationTable(obs), err
		},
		reportDetail: func() (exporter.Table, error) {
			day, err := time.Parse("2006-01-02", opts.day)
			if err != nil {
				return exporter.Table{}, fmt.Errorf("invalid -day %q: %w", opts.day, err)
			}
			rows, err := p.service.Detail(ctx, id, opts.sheet, day, fields)
			return exporter.AggregateTable("detail_"+opts.day, domain.AggregateTable{
				GroupBy: domain.GroupByDateAgent,
				Fields:  fields,
				Rows:    rows,
			}), err
		},
	}

	order := []string{opts.report}
	if opts.report == reportAll {
		order = []string{reportDaily, reportAgents, reportRetour, reportStatement, reportObservations}
	}

	tables := make([]exporter.Table, 0, len(order))
	for _, name := range order {
		t, err := builders[name]()
		if err != nil {
			return nil, fmt.Errorf("%s report: %w", name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// years compares the same months across yearly ledgers named with their year
func (p *processor) years(inputs []string, opts options) ([]exporter.Table, error) {
	wbs := make([]*dataprocessing.Workbook, 0, len(inputs))
	defer func() {
		for _, wb := range wbs {
			_ = wb.Close()
		}
	}()
	for _, path := range inputs {
		wb, err := dataprocessing.OpenWorkbook(path)
		if err != nil {
			return nil, err
		}
		wbs = append(wbs, wb)
	}

	records, err := p.loader.LoadYears(wbs, opts.months)
	if err != nil {
		return nil, err
	}
	rows, err := reports.PeriodTotals(reports.PeriodInputsFromRecords(records), reports.LedgerMetrics)
	if err != nil {
		return nil, err
	}
	return []exporter.Table{
		exporter.PeriodTable("annees", rows, reports.LedgerMetrics),
		exporter.RecordTable("global", records),
	}, nil
}

// sales builds the sales tables of a batch of NAME_<PERIOD>_<YEAR> workbooks
func (p *processor) sales(ctx context.Context, inputs []files.FileInfo, opts options) ([]exporter.Table, error) {
	batch := make([]services.SalesFile, len(inputs))
	for i, f := range inputs {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		batch[i] = services.SalesFile{Name: f.Name, Data: data}
	}

	info, err := p.service.UploadSales(ctx, batch, opts.labels)
	if err != nil {
		return nil, err
	}

	totals, err := p.service.SalesTotals(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	sellers, err := p.service.SellerPeriods(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	pivot, err := p.service.SalesPivot(ctx, info.ID, opts.metric)
	if err != nil {
		return nil, err
	}
	families, err := p.service.Families(ctx, info.ID, "", "")
	if err != nil {
		return nil, err
	}

	return []exporter.Table{
		exporter.PeriodTable("ventes", totals.Rows, reports.SalesMetrics),
		exporter.PeriodTable("prevendeurs", sellers, reports.SalesMetrics),
		exporter.PivotTable("pivot_"+pivot.Metric, "PREVENDEUR", pivot),
		exporter.ProductTable("familles", "Famille", families.Families),
		exporter.ProductTable("sous_familles", "Sous famille", families.SubFamilies),
	}, nil
}
