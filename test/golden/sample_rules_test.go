package golden

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/reporting"
	"github.com/codewithboateng/rpglint/internal/rules"
	"github.com/codewithboateng/rpglint/internal/scanner"
	"github.com/codewithboateng/rpglint/internal/source"
	"github.com/codewithboateng/rpglint/internal/stats"
)

const sampleOrders = `**free
ctl-opt dftactgrp(*no);

dcl-s customerName varchar;
dcl-s orderCount int(7);
dcl-c maxOrders;

dcl-proc main;
  dcl-s i int(10);
  if orderCount == 1;
    %sorta(orderCodes);
  endif;
  monitor;
    i = orderCount / 2;
  endmon;
end-proc;
`

// analyzeStrings pushes files through the same per-file pipeline the CLI
// uses: resolve, scan, evaluate, finalize.
func analyzeStrings(t *testing.T, files map[string]string, threshold string) ir.Run {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	rules.SetSettings(rules.Settings{SeverityThreshold: threshold, Disabled: map[string]bool{}})

	paths, err := source.Resolve([]string{dir}, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	run := ir.Run{IRVersion: ir.Version}
	rs := rules.List()
	var all []ir.Finding
	for _, p := range paths {
		res, err := scanner.ScanFile(p)
		if err != nil {
			t.Fatalf("scan %s: %v", p, err)
		}
		f := ir.File{Path: p, Statements: res.Statements, Stats: res.Stats}
		all = append(all, res.Findings...)
		all = append(all, rules.EvaluateFile(&f, rs)...)
		run.Files = append(run.Files, f)
	}
	run.Findings = rules.Finalize(all)
	return run
}

func TestSample_WarningThreshold_ContainsKeyFindings(t *testing.T) {
	run := analyzeStrings(t, map[string]string{"orders.rpgle": sampleOrders}, ir.SeverityWarning)
	counts := stats.CountByRule(run.Findings)

	required := []string{
		"decl.varchar-no-length",
		"decl.int-length",
		"decl.const-missing-value",
		"expr.c-equality",
		"bif.sorta",
		"mon.without-on-error",
	}
	for _, id := range required {
		if counts[id] == 0 {
			t.Errorf("expected at least 1 finding for %s; counts=%v", id, counts)
		}
	}
	if counts[scanner.RuleUnterminatedBlock] != 0 {
		t.Errorf("sample is block-balanced; got unterminated findings: %v", counts)
	}
}

func TestSample_ErrorThreshold_FiltersWarnings(t *testing.T) {
	runWarn := analyzeStrings(t, map[string]string{"orders.rpgle": sampleOrders}, ir.SeverityWarning)
	runErr := analyzeStrings(t, map[string]string{"orders.rpgle": sampleOrders}, ir.SeverityError)

	if len(runErr.Findings) >= len(runWarn.Findings) {
		t.Fatalf("error threshold should drop findings; error=%d warning=%d",
			len(runErr.Findings), len(runWarn.Findings))
	}
	for _, f := range runErr.Findings {
		if f.Severity != ir.SeverityError {
			t.Errorf("warning survived error threshold: %+v", f)
		}
		if f.RuleID == "mon.without-on-error" {
			t.Errorf("mon.without-on-error is a warning and should be filtered")
		}
	}
}

func TestSample_ExitCodeContract(t *testing.T) {
	run := analyzeStrings(t, map[string]string{"orders.rpgle": sampleOrders}, ir.SeverityWarning)
	if got := reporting.ExitCode(run.Findings); got != 1 {
		t.Errorf("exit = %d, want 1 (error findings present)", got)
	}

	clean := analyzeStrings(t, map[string]string{"ok.rpgle": "**free\nx = 1;\n"}, ir.SeverityWarning)
	if got := reporting.ExitCode(clean.Findings); got != 0 {
		t.Errorf("exit = %d, want 0 for clean source; findings=%+v", got, clean.Findings)
	}
}

func TestSample_OutputIsByteIdenticalAcrossRuns(t *testing.T) {
	files := map[string]string{"orders.rpgle": sampleOrders}

	var a, b bytes.Buffer
	runA := analyzeStrings(t, files, ir.SeverityWarning)
	if err := reporting.WriteFindingsJSON(&a, stripVolatile(runA.Findings)); err != nil {
		t.Fatal(err)
	}
	runB := analyzeStrings(t, files, ir.SeverityWarning)
	if err := reporting.WriteFindingsJSON(&b, stripVolatile(runB.Findings)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("two runs over identical input differ:\n--- a ---\n%s\n--- b ---\n%s", a.String(), b.String())
	}
}

// stripVolatile clears the temp-dir path prefix so the comparison covers
// content, not TempDir names.
func stripVolatile(in []ir.Finding) []ir.Finding {
	out := make([]ir.Finding, len(in))
	for i, f := range in {
		f.File = filepath.Base(f.File)
		f.ID = ""
		out[i] = f
	}
	return out
}
