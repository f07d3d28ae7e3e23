package rules

import (
	"regexp"
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
)

// C-family operator habits that do not exist in RPGLE expressions.

func init() {
	Register(regexRule(
		"expr.c-equality", "expr", ir.SeverityError,
		"== is not the RPGLE equality operator.",
		regexp.MustCompile(`==`),
		"RPGLE compares with a single =",
		"replace == with =",
	))

	Register(regexRule(
		"expr.c-inequality", "expr", ir.SeverityError,
		"!= is not the RPGLE inequality operator.",
		regexp.MustCompile(`!=`),
		"RPGLE tests inequality with <>",
		"replace != with <>",
	))

	Register(regexRule(
		"expr.c-logical-and", "expr", ir.SeverityError,
		"&& is not an RPGLE operator.",
		regexp.MustCompile(`&&`),
		"RPGLE spells logical conjunction AND",
		"replace && with and",
	))

	Register(regexRule(
		"expr.c-logical-or", "expr", ir.SeverityError,
		"|| is not an RPGLE operator.",
		regexp.MustCompile(`\|\|`),
		"RPGLE spells logical disjunction OR",
		"replace || with or",
	))

	Register(Rule{
		ID:       "expr.c-increment",
		Category: "expr",
		Severity: ir.SeverityError,
		Summary:  "++/-- do not exist in RPGLE.",
		Eval:     evalIncrement,
	})

	Register(regexRule(
		"expr.array-bracket-index", "expr", ir.SeverityError,
		"Array elements are indexed with parentheses.",
		regexp.MustCompile(`[A-Za-z0-9_@#$]\s*\[`),
		"square-bracket indexing is not RPGLE syntax",
		"index with parentheses: array(i)",
	))

	Register(regexRule(
		"expr.block-comment", "expr", ir.SeverityError,
		"/* */ comments are not free-format RPGLE.",
		regexp.MustCompile(`/\*`),
		"free-format RPGLE has only // line comments",
		"rewrite the comment with //",
	))

	Register(Rule{
		ID:       "expr.ternary",
		Category: "expr",
		Severity: ir.SeverityError,
		Summary:  "There is no ternary conditional in RPGLE.",
		Eval:     evalTernary,
	})

	Register(Rule{
		ID:       "expr.literal-concat",
		Category: "expr",
		Severity: ir.SeverityWarning,
		Summary:  "Adjacent literals joined with + can be a single literal.",
		Eval:     evalLiteralConcat,
	})
}

var incrementRe = regexp.MustCompile(`\+\+|--`)

func evalIncrement(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
	masked := maskLiterals(stmt.Text)
	// -- introduces a comment inside embedded SQL
	if strings.HasPrefix(strings.ToLower(masked), "exec sql") {
		return nil
	}
	if !incrementRe.MatchString(masked) {
		return nil
	}
	return []ir.Finding{finding("expr.c-increment", "expr", ir.SeverityError, stmt,
		"increment/decrement operator used",
		"use x += 1; or x -= 1;")}
}

var ternaryRe = regexp.MustCompile(`=[^;]*\?[^;]*:`)

func evalTernary(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
	masked := maskLiterals(stmt.Text)
	lo := strings.ToLower(masked)
	// exec sql statements legitimately mix ? parameter markers and : host
	// variable prefixes.
	if strings.HasPrefix(lo, "exec sql") {
		return nil
	}
	if !ternaryRe.MatchString(masked) {
		return nil
	}
	return []ir.Finding{finding("expr.ternary", "expr", ir.SeverityError, stmt,
		"conditional expression written as cond ? a : b",
		"use if/else/endif (or a select block) to assign the value")}
}

var literalConcatRe = regexp.MustCompile(`'[^']*'\s*\+\s*'[^']*'`)

func evalLiteralConcat(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
	if !literalConcatRe.MatchString(stmt.Text) {
		return nil
	}
	return []ir.Finding{finding("expr.literal-concat", "expr", ir.SeverityWarning, stmt,
		"two literals concatenated with +",
		"merge into a single literal, or keep + only when operands vary at runtime")}
}
