package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/stats"
)

// WriteHTML renders a human-readable run report to <outDir>/<runID>.html.
func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	totals := stats.Totals(run)
	errors, _ := stats.CountBySeverity(run.Findings)
	byCat := stats.CountByCategory(run.Findings)

	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .err{color:#b00}</style>")
	fmt.Fprint(f, "</head><body>")

	fmt.Fprintf(f, "<h1>rpglint report &ndash; <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Files: %d &nbsp; Lines: %d &nbsp; Statements: %d &nbsp; Procedures: %d</p>",
		len(run.Files), totals.Lines, totals.Statements, totals.Procedures)
	fmt.Fprintf(f, "<p><b>Findings</b>: %d total, <span class='err'>%d error(s)</span></p>", len(run.Findings), errors)

	if run.Context.SeverityThreshold != "" {
		fmt.Fprintf(f, "<p class='dim'>Severity threshold: %s", html.EscapeString(run.Context.SeverityThreshold))
		if n := len(run.Context.DisabledRules); n > 0 {
			fmt.Fprintf(f, " &nbsp; Disabled rules: %d", n)
		}
		fmt.Fprint(f, "</p>")
	}

	if len(byCat) > 0 {
		cats := make([]string, 0, len(byCat))
		for c := range byCat {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		fmt.Fprint(f, "<h2>By Category</h2><table><tr><th>Category</th><th>Findings</th></tr>")
		for _, c := range cats {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%d</td></tr>", html.EscapeString(c), byCat[c])
		}
		fmt.Fprint(f, "</table>")
	}

	if len(run.Findings) > 0 {
		fmt.Fprint(f, "<h2>All Findings</h2><table><tr><th>Severity</th><th>Rule</th><th>File</th><th>Line</th><th>Message</th><th>Suggested Fix</th></tr>")
		for _, fd := range run.Findings {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td class='mono'>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(fd.Severity),
				html.EscapeString(fd.RuleID),
				html.EscapeString(fd.File),
				fd.Line,
				html.EscapeString(fd.Message),
				html.EscapeString(fd.SuggestedFix),
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>All Findings</h2><p class='dim'>No findings at or above the configured threshold.</p>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
