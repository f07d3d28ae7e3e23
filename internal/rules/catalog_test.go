package rules

import (
	"strings"
	"testing"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/scanner"
)

// lintSource runs the scanner and the full registered rule set over one
// in-memory source member, the same path the CLI takes per file.
func lintSource(t *testing.T, src string) []ir.Finding {
	t.Helper()
	SetSettings(Settings{SeverityThreshold: ir.SeverityWarning, Disabled: map[string]bool{}})

	res := scanner.ScanSource("t.rpgle", src)
	f := ir.File{Path: "t.rpgle", Statements: res.Statements, Stats: res.Stats}
	all := append([]ir.Finding{}, res.Findings...)
	all = append(all, EvaluateFile(&f, List())...)
	return Finalize(all)
}

func hasRule(findings []ir.Finding, id string) bool {
	for _, f := range findings {
		if strings.EqualFold(f.RuleID, id) {
			return true
		}
	}
	return false
}

func TestCatalog_IncorrectFormsFire(t *testing.T) {
	cases := []struct {
		rule string
		src  string
	}{
		{"bif.sorta", "%sorta(numbers);"},
		{"bif.occurs", "n = %occurs(myDs);"},
		{"bif.checkr", "p = %checkr(' ' : name);"},
		{"bif.tlookup", "found = %tlookup(key : table);"},
		{"bif.dealloc", "%dealloc(ptr);"},
		{"bif.varchar", "s = %varchar(value);"},
		{"bif.move", "%move(a : b);"},
		{"bif.movel", "%movel(a : b);"},
		{"bif.elements", "n = %elements(arr);"},
		{"bif.sizeof", "n = %sizeof(myDs);"},
		{"bif.length", "n = %length(name);"},
		{"bif.substring", "s = %substring(name : 1 : 3);"},
		{"bif.numeric", "n = %numeric(text);"},
		{"bif.string", "s = %string(amount);"},
		{"bif.equal-array", "if %equal(arr);\nendif;"},

		{"decl.standalone-qualified", "dcl-s errorInfo char(50) qualified;"},
		{"decl.standalone-likeds", "dcl-s copy likeds(order);"},
		{"decl.psds-template", "dcl-ds pgmStat psds template;\nend-ds;"},
		{"decl.const-missing-value", "dcl-c maxSize;"},
		{"decl.int-length", "dcl-s count int(7);"},
		{"decl.float-length", "dcl-s ratio float(6);"},
		{"decl.varchar-no-length", "dcl-s name varchar;"},
		{"decl.char-no-length", "dcl-s code char;"},

		{"expr.c-equality", "if status == 'A';\nendif;"},
		{"expr.c-inequality", "if status != 'A';\nendif;"},
		{"expr.c-logical-and", "if a > 1 && b > 2;\nendif;"},
		{"expr.c-logical-or", "if a > 1 || b > 2;\nendif;"},
		{"expr.c-increment", "i++;"},
		{"expr.array-bracket-index", "x = arr[3];"},
		{"expr.block-comment", "x = 1; /* old note */"},
		{"expr.ternary", "x = (a > b) ? a : b;"},
		{"expr.literal-concat", "msg = 'Hello ' + 'World';"},

		{"op.c-style-for", "for (i = 1; i <= 10; i += 1);"},
		{"op.while-loop", "while x < 10;"},
		{"op.switch-statement", "switch x;"},
		{"op.case-label", "case 1;"},
		{"op.if-then", "if x > 1 then;\nendif;"},
		{"op.brace-block", "if x > 1 {"},
		{"op.end-if-spelling", "if x > 1;\nend-if;"},
		{"op.end-do-spelling", "dow x < 10;\nend-do;"},
		{"op.end-for-spelling", "for i = 1 to 3;\nend-for;"},
		{"op.end-mon-spelling", "monitor;\non-error;\nend-mon;"},
		{"op.end-sl-spelling", "select;\nwhen x = 1;\nend-sl;"},
		{"op.endds-spelling", "dcl-ds rec qualified;\n f char(3);\nendds;"},
		{"op.endpr-spelling", "dcl-pr doWork;\n n int(10) value;\nendpr;"},
		{"op.endpi-spelling", "dcl-pi *n;\n n int(10) value;\nendpi;"},
		{"op.endproc-spelling", "dcl-proc doWork;\n x = 1;\nendproc;"},

		{"mon.without-on-error", "monitor;\n x = y / z;\nendmon;"},
		{"mon.on-error-outside", "on-error;"},

		{"decl.after-code", "x = 1;\ndcl-s y int(10);"},
		{"decl.based-no-pointer", "dcl-ds rec based(pRec) qualified;\n f1 char(10);\nend-ds;"},
		{"decl.template-direct-use", "dcl-ds addr_t qualified template;\n street char(30);\nend-ds;\naddr_t.street = 'Main St';"},

		{"sql.host-var-no-colon", "dcl-s custId int(10);\nexec sql select name into :custName from customers where id = custId;"},
	}

	for _, tc := range cases {
		t.Run(tc.rule, func(t *testing.T) {
			got := lintSource(t, tc.src)
			if !hasRule(got, tc.rule) {
				t.Errorf("expected %s to fire on:\n%s\ngot: %+v", tc.rule, tc.src, got)
			}
		})
	}
}

func TestCatalog_CorrectFormsStayQuiet(t *testing.T) {
	cases := []struct {
		rule string
		src  string
	}{
		{"bif.sorta", "sorta numbers;"},
		{"bif.elements", "n = %elem(arr);"},
		{"bif.length", "n = %len(name);"},
		{"decl.standalone-qualified", "dcl-ds errorInfo qualified;\n text char(50);\nend-ds;"},
		{"decl.const-missing-value", "dcl-c maxSize const(100);"},
		{"decl.int-length", "dcl-s count int(10);"},
		{"decl.float-length", "dcl-s ratio float(8);"},
		{"decl.varchar-no-length", "dcl-s name varchar(50);"},
		{"decl.char-no-length", "dcl-s code char(3);"},
		{"expr.c-equality", "if status = 'A';\nendif;"},
		{"expr.c-inequality", "if status <> 'A';\nendif;"},
		{"expr.c-increment", "i += 1;"},
		{"expr.c-increment", "exec sql delete from log -- prune old rows\n;"},
		{"expr.array-bracket-index", "x = arr(3);"},
		{"expr.ternary", "exec sql update t set c = ? where id = :id;"},
		{"op.c-style-for", "for i = 1 to 10;\nendfor;"},
		{"op.if-then", "if x > 1;\nendif;"},
		{"op.end-if-spelling", "if x > 1;\nendif;"},
		{"op.endds-spelling", "dcl-ds rec qualified;\n f char(3);\nend-ds;"},
		{"mon.without-on-error", "monitor;\n x = y / z;\non-error;\n x = 0;\nendmon;"},
		{"mon.on-error-outside", "monitor;\non-error;\nendmon;"},
		{"decl.after-code", "dcl-s y int(10);\nx = 1;"},
		{"decl.based-no-pointer", "dcl-s pRec pointer;\ndcl-ds rec based(pRec) qualified;\n f1 char(10);\nend-ds;"},
		{"decl.template-direct-use", "dcl-ds addr_t qualified template;\n street char(30);\nend-ds;\nn = %size(addr_t);"},
		{"decl.template-direct-use", "dcl-ds addr_t qualified template;\n street char(30);\nend-ds;\nn = %len(addr_t) + %elem(codes_t);"},
		{"sql.host-var-no-colon", "dcl-s custId int(10);\nexec sql select name into :custName from customers where id = :custId;"},
	}

	for _, tc := range cases {
		t.Run(tc.rule, func(t *testing.T) {
			got := lintSource(t, tc.src)
			if hasRule(got, tc.rule) {
				t.Errorf("%s should not fire on:\n%s\ngot: %+v", tc.rule, tc.src, got)
			}
		})
	}
}

func TestCatalog_TemplateDirectUseNextToSizeBif(t *testing.T) {
	src := "dcl-ds addr_t qualified template;\n street char(30);\nend-ds;\nbuf = %subst(data: 1: %size(addr_t)) + addr_t.street;"
	got := lintSource(t, src)
	n := 0
	for _, f := range got {
		if f.RuleID == "decl.template-direct-use" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("want 1 finding for the direct use, got %d: %+v", n, got)
	}
}

func TestCatalog_MonitorFindingPointsAtOpener(t *testing.T) {
	src := "x = 1;\nmonitor;\n y = 2;\nendmon;"
	got := lintSource(t, src)
	for _, f := range got {
		if f.RuleID == "mon.without-on-error" {
			if f.Line != 2 {
				t.Errorf("line = %d, want 2 (the monitor statement)", f.Line)
			}
			return
		}
	}
	t.Fatalf("mon.without-on-error missing: %+v", got)
}

func TestCatalog_TwoMistakesReportedInLineOrder(t *testing.T) {
	src := "dcl-s errorInfo char(20) qualified;\n%sorta(numbers);"
	got := lintSource(t, src)
	if len(got) != 2 {
		t.Fatalf("want exactly 2 findings, got %d: %+v", len(got), got)
	}
	if got[0].RuleID != "decl.standalone-qualified" || got[0].Line != 1 {
		t.Errorf("first = %s@%d, want decl.standalone-qualified@1", got[0].RuleID, got[0].Line)
	}
	if got[1].RuleID != "bif.sorta" || got[1].Line != 2 {
		t.Errorf("second = %s@%d, want bif.sorta@2", got[1].RuleID, got[1].Line)
	}
}
