package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
)

func init() {
	Register(regexRule(
		"decl.standalone-qualified", "decl", ir.SeverityError,
		"QUALIFIED is not valid on a standalone field.",
		regexp.MustCompile(`(?im)^dcl-s\b.*\bqualified\b`),
		"the QUALIFIED keyword applies to data structures, not standalone fields",
		"declare a data structure instead: dcl-ds name qualified; ... end-ds;",
	))

	Register(regexRule(
		"decl.standalone-likeds", "decl", ir.SeverityError,
		"LIKEDS is not valid on a standalone field.",
		regexp.MustCompile(`(?im)^dcl-s\b.*\blikeds\s*\(`),
		"LIKEDS defines a data structure, not a standalone field",
		"use dcl-ds name likeds(parent); or like() for a scalar",
	))

	Register(regexRule(
		"decl.psds-template", "decl", ir.SeverityError,
		"PSDS and TEMPLATE are mutually exclusive.",
		regexp.MustCompile(`(?im)^dcl-ds\b.*\bpsds\b.*\btemplate\b|^dcl-ds\b.*\btemplate\b.*\bpsds\b`),
		"a program status data structure cannot also be a template",
		"drop one keyword; declare the PSDS directly and a separate template if needed",
	))

	Register(Rule{
		ID:       "decl.const-missing-value",
		Category: "decl",
		Severity: ir.SeverityError,
		Summary:  "dcl-c requires a constant value.",
		Eval:     evalConstMissingValue,
	})

	Register(Rule{
		ID:       "decl.int-length",
		Category: "decl",
		Severity: ir.SeverityError,
		Summary:  "Integer digit lengths must be 3, 5, 10 or 20.",
		Eval:     evalIntLength,
	})

	Register(Rule{
		ID:       "decl.float-length",
		Category: "decl",
		Severity: ir.SeverityError,
		Summary:  "Float lengths must be 4 or 8.",
		Eval:     evalFloatLength,
	})

	Register(Rule{
		ID:       "decl.varchar-no-length",
		Category: "decl",
		Severity: ir.SeverityError,
		Summary:  "varchar declarations require a length.",
		Eval:     evalNoLength("varchar", "decl.varchar-no-length"),
	})

	Register(Rule{
		ID:       "decl.char-no-length",
		Category: "decl",
		Severity: ir.SeverityError,
		Summary:  "char declarations require a length.",
		Eval:     evalNoLength("char", "decl.char-no-length"),
	})
}

var constRe = regexp.MustCompile(`(?im)^dcl-c\s+[a-z0-9_@#$]+\s*$`)

func evalConstMissingValue(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
	if !constRe.MatchString(maskLiterals(stmt.Text)) {
		return nil
	}
	return []ir.Finding{finding("decl.const-missing-value", "decl", ir.SeverityError, stmt,
		"named constant declared without a value",
		"supply the value: dcl-c name const(value); or dcl-c name value;")}
}

var intLenRe = regexp.MustCompile(`(?i)\b(int|uns)\s*\(\s*(\d+)\s*\)`)

var validIntDigits = []int{3, 5, 10, 20}

func evalIntLength(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
	if stmt.Kind != ir.KindDecl {
		return nil
	}
	var out []ir.Finding
	for _, m := range intLenRe.FindAllStringSubmatch(maskLiterals(stmt.Text), -1) {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if validDigits(n) {
			continue
		}
		out = append(out, finding("decl.int-length", "decl", ir.SeverityError, stmt,
			fmt.Sprintf("%s(%d) is not a valid integer length", strings.ToLower(m[1]), n),
			fmt.Sprintf("use %s(%d); valid digit lengths are 3, 5, 10 and 20", strings.ToLower(m[1]), nearestIntDigits(n))))
	}
	return out
}

func validDigits(n int) bool {
	for _, v := range validIntDigits {
		if n == v {
			return true
		}
	}
	return false
}

func nearestIntDigits(n int) int {
	best, bestDist := validIntDigits[0], 1<<30
	for _, v := range validIntDigits {
		d := n - v
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

var floatLenRe = regexp.MustCompile(`(?i)\bfloat\s*\(\s*(\d+)\s*\)`)

func evalFloatLength(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
	if stmt.Kind != ir.KindDecl {
		return nil
	}
	var out []ir.Finding
	for _, m := range floatLenRe.FindAllStringSubmatch(maskLiterals(stmt.Text), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n == 4 || n == 8 {
			continue
		}
		fix := 4
		if n > 6 {
			fix = 8
		}
		out = append(out, finding("decl.float-length", "decl", ir.SeverityError, stmt,
			fmt.Sprintf("float(%d) is not a valid float length", n),
			fmt.Sprintf("use float(%d); valid lengths are 4 and 8", fix)))
	}
	return out
}

// evalNoLength flags a character type keyword with no following length:
// either bare (dcl-s x varchar;) or with empty parens. Lookahead is not
// available in RE2, so this walks the text.
func evalNoLength(keyword, ruleID string) func(*ir.Statement, *ProcContext) []ir.Finding {
	return func(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
		if stmt.Kind != ir.KindDecl {
			return nil
		}
		lo := strings.ToLower(maskLiterals(stmt.Text))
		var out []ir.Finding
		for off := 0; ; {
			i := strings.Index(lo[off:], keyword)
			if i < 0 {
				break
			}
			i += off
			off = i + len(keyword)

			// "char" inside "varchar" is not a char keyword
			if keyword == "char" && i >= 3 && lo[i-3:i] == "var" {
				continue
			}
			if i > 0 && isIdentChar(lo[i-1]) {
				continue
			}
			if end := i + len(keyword); end < len(lo) && isIdentChar(lo[end]) {
				continue
			}
			rest := strings.TrimLeft(lo[i+len(keyword):], " \t")
			if strings.HasPrefix(rest, "(") {
				inner := strings.TrimLeft(rest[1:], " \t")
				if !strings.HasPrefix(inner, ")") {
					continue // has a length
				}
			}
			out = append(out, finding(ruleID, "decl", ir.SeverityError, stmt,
				keyword+" requires an explicit length",
				fmt.Sprintf("declare the length: %s(n)", keyword)))
		}
		return out
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '@' || c == '#' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
