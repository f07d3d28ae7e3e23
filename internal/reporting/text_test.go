package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codewithboateng/rpglint/internal/ir"
)

func sampleFindings() []ir.Finding {
	return []ir.Finding{
		{
			ID: "bif.sorta-00000001", File: "src/orders.rpgle", Line: 12,
			RuleID: "bif.sorta", Category: "bif", Severity: ir.SeverityError,
			Message: "%sorta does not exist in RPGLE", SuggestedFix: "use the SORTA operation code: sorta arrayName;",
		},
		{
			ID: "expr.literal-concat-00000002", File: "src/orders.rpgle", Line: 30,
			RuleID: "expr.literal-concat", Category: "expr", Severity: ir.SeverityWarning,
			Message: "two literals concatenated with +",
		},
	}
}

func TestWriteText_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleFindings()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	wantLine := "src/orders.rpgle:12: [bif.sorta] %sorta does not exist in RPGLE (suggested: use the SORTA operation code: sorta arrayName;)\n"
	if !strings.Contains(out, wantLine) {
		t.Errorf("missing finding line with fix:\n%s", out)
	}
	// no fix, no suggested clause
	if !strings.Contains(out, "src/orders.rpgle:30: [expr.literal-concat] two literals concatenated with +\n") {
		t.Errorf("missing finding line without fix:\n%s", out)
	}
	if strings.Contains(out, "(suggested: )") {
		t.Errorf("empty suggestion rendered:\n%s", out)
	}
	if !strings.Contains(out, "2 finding(s), 1 error(s)") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no findings\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteText_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := WriteText(&a, sampleFindings()); err != nil {
		t.Fatal(err)
	}
	if err := WriteText(&b, sampleFindings()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("identical input produced different output")
	}
}

func TestWriteFindingsJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFindingsJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q, want []", buf.String())
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("no findings: exit = %d, want 0", got)
	}
	warn := []ir.Finding{{Severity: ir.SeverityWarning}}
	if got := ExitCode(warn); got != 0 {
		t.Errorf("warnings only: exit = %d, want 0", got)
	}
	mixed := append(warn, ir.Finding{Severity: ir.SeverityError})
	if got := ExitCode(mixed); got != 1 {
		t.Errorf("with error: exit = %d, want 1", got)
	}
}

func TestWriteDiffJSON(t *testing.T) {
	dir := t.TempDir()
	base := &ir.Run{Findings: []ir.Finding{
		{RuleID: "bif.sorta", File: "a.rpgle", Line: 1, Severity: ir.SeverityError, Excerpt: "%sorta(x)"},
		{RuleID: "op.while-loop", File: "a.rpgle", Line: 5, Severity: ir.SeverityError, Excerpt: "while x"},
	}}
	head := &ir.Run{Findings: []ir.Finding{
		{RuleID: "bif.sorta", File: "a.rpgle", Line: 1, Severity: ir.SeverityWarning, Excerpt: "%sorta(x)"},
		{RuleID: "expr.ternary", File: "b.rpgle", Line: 2, Severity: ir.SeverityError, Excerpt: "x = a ? b : c"},
	}}

	path, err := WriteDiffJSON("r1", "r2", dir, base, head)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "diff_r1__r2.json" {
		t.Errorf("path = %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var payload struct {
		Summary struct {
			New     int `json:"new"`
			Removed int `json:"removed"`
			Changed int `json:"changed"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Summary.New != 1 || payload.Summary.Removed != 1 || payload.Summary.Changed != 1 {
		t.Errorf("summary = %+v, want 1/1/1", payload.Summary)
	}
}
