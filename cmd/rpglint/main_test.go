package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/rules"
)

func TestLint_UnreadableFileDoesNotAbortRun(t *testing.T) {
	rules.SetSettings(rules.Settings{SeverityThreshold: ir.SeverityWarning, Disabled: map[string]bool{}})

	dir := t.TempDir()
	good := filepath.Join(dir, "good.rpgle")
	if err := os.WriteFile(good, []byte("**free\n%sorta(numbers);\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.rpgle")

	run, err := lint([]string{good, missing}, nil, 2)
	if err != nil {
		t.Fatalf("run aborted: %v", err)
	}
	if len(run.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(run.Files))
	}

	var gotSorta, gotRead bool
	for _, f := range run.Findings {
		switch {
		case f.RuleID == "bif.sorta" && f.File == good:
			gotSorta = true
		case f.RuleID == rules.RuleReadError && f.File == missing:
			gotRead = true
			if f.Severity != ir.SeverityError {
				t.Errorf("read failure severity = %q, want error", f.Severity)
			}
		case f.RuleID == rules.RuleReadError:
			t.Errorf("read failure attributed to wrong file %q", f.File)
		}
	}
	if !gotSorta {
		t.Error("healthy file was not linted")
	}
	if !gotRead {
		t.Error("missing file produced no read-error finding")
	}
}
