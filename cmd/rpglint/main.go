package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/reporting"
	"github.com/codewithboateng/rpglint/internal/rules"
	"github.com/codewithboateng/rpglint/internal/rulesdsl"
	"github.com/codewithboateng/rpglint/internal/scanner"
	"github.com/codewithboateng/rpglint/internal/shared"
	"github.com/codewithboateng/rpglint/internal/source"
	"github.com/codewithboateng/rpglint/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "rules":
		rulesCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "user":
		userCmd(os.Args[2:])
	case "version":
		fmt.Println("rpglint IR:", ir.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `rpglint - free-format RPGLE source linter

Usage:
  rpglint check   <paths...> [--severity-threshold warning|error] [--format text|json] [--disable <rule-id>] [--rules <pack.yaml>] [--jobs N] [--no-ignore] [--config ./rpglint.yaml]
  rpglint analyze <paths...> --out <reports-dir> [--db ./rpglint.db] [--config ./rpglint.yaml]
  rpglint report  --run <run-id>  --out <reports-dir> [--db ./rpglint.db]
  rpglint diff    --base <run-id> --head <run-id> --out <reports-dir> [--db ./rpglint.db]
  rpglint rules   [--format text|json]
  rpglint serve   [--addr :8087] [--db ./rpglint.db] [--config ./rpglint.yaml]
  rpglint user add --username <name> [--role admin|viewer] [--db ./rpglint.db]
  rpglint version

check exits 1 when any error-severity finding remains, 0 otherwise,
2 on usage or configuration errors.
`)
}

func loadConfig(path string) shared.Config {
	cfg, err := shared.LoadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	return cfg
}

// applyRuleSetup installs the severity threshold, disabled rules and any
// YAML rule packs before evaluation starts.
func applyRuleSetup(threshold string, disabled, packs []string) {
	dm := map[string]bool{}
	for _, id := range disabled {
		dm[strings.ToLower(strings.TrimSpace(id))] = true
	}
	rules.SetSettings(rules.Settings{SeverityThreshold: threshold, Disabled: dm})
	for _, p := range packs {
		n, err := rulesdsl.LoadAndRegister(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rule pack %s: %v\n", p, err)
			os.Exit(2)
		}
		slog.Debug("rule pack loaded", "path", p, "rules", n)
	}
}

// lint resolves, scans and evaluates the given inputs. Files are scanned
// in parallel but assembled in input order, so output is deterministic.
func lint(args, ignore []string, jobs int) (ir.Run, error) {
	paths, err := source.Resolve(args, ignore)
	if err != nil {
		return ir.Run{}, err
	}
	if len(paths) == 0 {
		return ir.Run{}, fmt.Errorf("no source files matched")
	}
	if jobs < 1 {
		jobs = 1
	}

	results := make([]scanner.Result, len(paths))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, p := range paths {
		g.Go(func() error {
			res, err := scanner.ScanFile(p)
			if err != nil {
				// Unreadable file: report it and keep linting the rest.
				slog.Warn("skipping unreadable file", "path", p, "error", err)
				results[i] = scanner.Result{Findings: []ir.Finding{{
					Line:     1,
					RuleID:   rules.RuleReadError,
					Category: "input",
					Severity: ir.SeverityError,
					Message:  fmt.Sprintf("cannot read source file: %v", err),
				}}}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ir.Run{}, err
	}

	run := ir.Run{StartedAt: time.Now().UTC(), IRVersion: ir.Version}
	rs := rules.List()
	var all []ir.Finding
	for i, p := range paths {
		f := ir.File{Path: p, Statements: results[i].Statements, Stats: results[i].Stats}
		for _, fd := range results[i].Findings {
			fd.File = p
			all = append(all, fd)
		}
		all = append(all, rules.EvaluateFile(&f, rs)...)
		run.Files = append(run.Files, f)
	}
	run.Findings = rules.Finalize(all)
	return run, nil
}

func checkCmd(args []string) {
	fs := pflag.NewFlagSet("check", pflag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	threshold := fs.String("severity-threshold", "", "Minimum severity to report (warning|error)")
	format := fs.String("format", "", "Output format (text|json)")
	disable := fs.StringArray("disable", nil, "Rule ID to disable (repeatable)")
	packs := fs.StringArray("rules", nil, "YAML rule pack to load (repeatable)")
	jobs := fs.Int("jobs", 0, "Parallel file workers")
	noIgnore := fs.Bool("no-ignore", false, "Skip configured ignore patterns")
	_ = fs.Parse(args)

	cfg := loadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if *threshold == "" {
		*threshold = cfg.Lint.SeverityThreshold
	}
	if *threshold != ir.SeverityWarning && *threshold != ir.SeverityError {
		fmt.Fprintln(os.Stderr, "check: --severity-threshold must be warning or error")
		os.Exit(2)
	}
	if *format == "" {
		*format = cfg.Reporting.Format
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintln(os.Stderr, "check: --format must be text or json")
		os.Exit(2)
	}
	if *jobs == 0 {
		*jobs = cfg.Lint.Jobs
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = cfg.Lint.Sources
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "check: at least one path (or lint.sources in config) is required")
		os.Exit(2)
	}
	ignore := cfg.Lint.Ignore
	if *noIgnore {
		ignore = nil
	}

	applyRuleSetup(*threshold, append(cfg.Lint.DisabledRules, *disable...), append(cfg.Lint.RulePacks, *packs...))

	run, err := lint(inputs, ignore, *jobs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "check:", err)
		os.Exit(2)
	}

	switch *format {
	case "json":
		if err := reporting.WriteFindingsJSON(os.Stdout, run.Findings); err != nil {
			slog.Error("write report", "err", err)
			os.Exit(2)
		}
	default:
		if err := reporting.WriteText(os.Stdout, run.Findings); err != nil {
			slog.Error("write report", "err", err)
			os.Exit(2)
		}
	}
	os.Exit(reporting.ExitCode(run.Findings))
}

func analyzeCmd(args []string) {
	fs := pflag.NewFlagSet("analyze", pflag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	jobs := fs.Int("jobs", 0, "Parallel file workers")
	_ = fs.Parse(args)

	cfg := loadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *jobs == 0 {
		*jobs = cfg.Lint.Jobs
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = cfg.Lint.Sources
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "analyze: at least one path (or lint.sources in config) is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "analyze: cannot create out dir:", err)
		os.Exit(1)
	}

	applyRuleSetup(cfg.Lint.SeverityThreshold, cfg.Lint.DisabledRules, cfg.Lint.RulePacks)

	run, err := lint(inputs, cfg.Lint.Ignore, *jobs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(2)
	}
	run.ID = uuid.NewString()
	run.Source = strings.Join(inputs, ",")
	run.Context = ir.Context{
		SeverityThreshold: cfg.Lint.SeverityThreshold,
		DisabledRules:     cfg.Lint.DisabledRules,
		RulePacks:         cfg.Lint.RulePacks,
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	// Active waivers suppress matching findings before the run is stored.
	if ws, err := db.ListWaivers(true); err == nil && len(ws) > 0 {
		var waived int
		run.Findings, waived = rules.ApplyWaivers(run.Findings, ws)
		if waived > 0 {
			slog.Info("waivers applied", "suppressed", waived)
		}
	}

	if err := db.SaveRun(&run); err != nil {
		slog.Error("db save run error", "err", err)
		os.Exit(1)
	}

	jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
	htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run)
	slog.Info("analyze complete",
		"run", run.ID,
		"files", len(run.Files),
		"findings", len(run.Findings),
		"json", jsonPath,
		"html", htmlPath,
		"db", filepath.Clean(*dbPath),
	)
	fmt.Printf("Analyze OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n  DB: %s\n",
		run.ID, jsonPath, htmlPath, filepath.Clean(*dbPath))
}

func reportCmd(args []string) {
	fs := pflag.NewFlagSet("report", pflag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	runID := fs.String("run", "", "Run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg := loadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *runID == "" {
		fmt.Fprintln(os.Stderr, "report: --run is required")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	run, err := db.LoadRun(*runID)
	if err != nil {
		slog.Error("load run error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
	htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run)
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
}

func diffCmd(args []string) {
	fs := pflag.NewFlagSet("diff", pflag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	base := fs.String("base", "", "Base run ID")
	head := fs.String("head", "", "Head run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg := loadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --base and --head are required")
		os.Exit(2)
	}
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	br, err := db.LoadRun(*base)
	if err != nil {
		slog.Error("load base run error", "err", err)
		os.Exit(1)
	}
	hr, err := db.LoadRun(*head)
	if err != nil {
		slog.Error("load head run error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	path, _ := reporting.WriteDiffJSON(*base, *head, *outDir, &br, &hr)
	fmt.Printf("Diff OK\n  %s\n", path)
}

func rulesCmd(args []string) {
	fs := pflag.NewFlagSet("rules", pflag.ExitOnError)
	format := fs.String("format", "text", "Output format (text|json)")
	packs := fs.StringArray("rules", nil, "YAML rule pack to include (repeatable)")
	_ = fs.Parse(args)

	for _, p := range *packs {
		if _, err := rulesdsl.LoadAndRegister(p); err != nil {
			fmt.Fprintf(os.Stderr, "rule pack %s: %v\n", p, err)
			os.Exit(2)
		}
	}

	rs := rules.List()
	if *format == "json" {
		type row struct {
			ID       string `json:"id"`
			Category string `json:"category"`
			Severity string `json:"severity"`
			Summary  string `json:"summary"`
		}
		out := make([]row, 0, len(rs))
		for _, r := range rs {
			out = append(out, row{r.ID, r.Category, r.Severity, r.Summary})
		}
		if err := writeJSONStdout(out); err != nil {
			os.Exit(1)
		}
		return
	}

	byCat := map[string][]rules.Rule{}
	for _, r := range rs {
		byCat[r.Category] = append(byCat[r.Category], r)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Printf("%s:\n", c)
		for _, r := range byCat[c] {
			fmt.Printf("  %-28s %-8s %s\n", r.ID, r.Severity, r.Summary)
		}
	}
	fmt.Printf("\n%d rule(s)\n", len(rs))
}
