package rulesdsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/rules"
	"github.com/codewithboateng/rpglint/internal/scanner"
)

func writePack(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadAndRegister(t *testing.T) {
	p := writePack(t, `
rules:
  - id: shop.occur-misuse
    category: shop
    summary: "%occur used as a statement"
    severity: warning
    message: "%occur on its own line does nothing"
    fix: "assign the result or use it in an expression"
    where:
      pattern: '^%occur\s*\('
      kind: exec
`)
	n, err := LoadAndRegister(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("registered %d rules, want 1", n)
	}

	r, ok := rules.Get("shop.occur-misuse")
	if !ok {
		t.Fatal("pack rule not registered")
	}
	if r.Severity != ir.SeverityWarning || r.Category != "shop" {
		t.Errorf("rule metadata wrong: %+v", r)
	}

	stmt := &ir.Statement{Text: "%occur(myDs)", StartLine: 4, EndLine: 4, Kind: ir.KindExec}
	got := r.Eval(stmt, rules.NewProcContext(""))
	if len(got) != 1 {
		t.Fatalf("want 1 finding, got %d", len(got))
	}
	if got[0].RuleID != "shop.occur-misuse" || got[0].Line != 4 {
		t.Errorf("finding = %+v", got[0])
	}

	// kind filter holds
	decl := &ir.Statement{Text: "%occur(myDs)", StartLine: 9, EndLine: 9, Kind: ir.KindDecl}
	if out := r.Eval(decl, rules.NewProcContext("")); len(out) != 0 {
		t.Errorf("kind filter ignored: %+v", out)
	}
}

func TestLoadAndRegister_OverridesBuiltin(t *testing.T) {
	rules.SetSettings(rules.Settings{SeverityThreshold: ir.SeverityWarning, Disabled: map[string]bool{}})
	orig, ok := rules.Get("bif.sorta")
	if !ok {
		t.Fatal("built-in bif.sorta missing")
	}
	t.Cleanup(func() { rules.Register(orig) })

	p := writePack(t, `
rules:
  - id: bif.sorta
    category: bif
    summary: "shop-tuned sorta check"
    severity: warning
    message: "use sorta, shop wording"
    where:
      pattern: '%sorta\s*\('
`)
	if _, err := LoadAndRegister(p); err != nil {
		t.Fatal(err)
	}

	res := scanner.ScanSource("t.rpgle", "**free\n%sorta(numbers);\n")
	f := ir.File{Path: "t.rpgle", Statements: res.Statements}
	got := rules.Finalize(rules.EvaluateFile(&f, rules.List()))

	var hits []ir.Finding
	for _, fd := range got {
		if fd.RuleID == "bif.sorta" {
			hits = append(hits, fd)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("override must replace the built-in, got %d bif.sorta findings: %+v", len(hits), hits)
	}
	if hits[0].Severity != ir.SeverityWarning || hits[0].Message != "use sorta, shop wording" {
		t.Errorf("pack version did not win: %+v", hits[0])
	}
}

func TestLoadAndRegister_RejectsBadSeverity(t *testing.T) {
	p := writePack(t, `
rules:
  - id: bad.sev
    severity: critical
    message: nope
    where:
      pattern: 'x'
`)
	if _, err := LoadAndRegister(p); err == nil {
		t.Fatal("expected an error for invalid severity")
	}
}

func TestLoadAndRegister_RequiresPattern(t *testing.T) {
	p := writePack(t, `
rules:
  - id: bad.nopattern
    severity: error
    message: nope
`)
	if _, err := LoadAndRegister(p); err == nil {
		t.Fatal("expected an error for missing pattern")
	}
}

func TestLoadAndRegister_MissingFile(t *testing.T) {
	if _, err := LoadAndRegister(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing pack file")
	}
}
