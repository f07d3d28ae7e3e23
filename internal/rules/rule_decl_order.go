package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
)

// Rules in this file depend on ProcContext state built by the engine as it
// walks the file top to bottom.

func init() {
	Register(Rule{
		ID:       "decl.after-code",
		Category: "decl",
		Severity: ir.SeverityError,
		Summary:  "Declarations must precede executable statements in a procedure body.",
		Eval:     evalDeclAfterCode,
	})

	Register(Rule{
		ID:       "decl.based-no-pointer",
		Category: "decl",
		Severity: ir.SeverityWarning,
		Summary:  "BASED names a pointer that is not declared.",
		Eval:     evalBasedNoPointer,
	})

	Register(Rule{
		ID:       "decl.template-direct-use",
		Category: "decl",
		Severity: ir.SeverityError,
		Summary:  "A TEMPLATE definition cannot be used directly.",
		Eval:     evalTemplateDirectUse,
	})
}

func evalDeclAfterCode(stmt *ir.Statement, ctx *ProcContext) []ir.Finding {
	if stmt.Kind != ir.KindDecl || !ctx.ExecSeen {
		return nil
	}
	w := firstWord(stmt.Text)
	if w == "dcl-proc" { // opens a new scope, never out of order
		return nil
	}
	return []ir.Finding{finding("decl.after-code", "decl", ir.SeverityError, stmt,
		fmt.Sprintf("%s appears after executable code", w),
		"move the declaration above the first executable statement of the procedure")}
}

func evalBasedNoPointer(stmt *ir.Statement, ctx *ProcContext) []ir.Finding {
	if stmt.Kind != ir.KindDecl {
		return nil
	}
	m := basedRe.FindStringSubmatch(maskLiterals(stmt.Text))
	if m == nil {
		return nil
	}
	ptr := m[1]
	if d, ok := ctx.Declared(ptr); ok && d.Pointer {
		return nil
	}
	return []ir.Finding{finding("decl.based-no-pointer", "decl", ir.SeverityWarning, stmt,
		fmt.Sprintf("basing pointer %s is not declared as a pointer above this statement", ptr),
		fmt.Sprintf("declare it first: dcl-s %s pointer;", ptr))}
}

var (
	identRe = regexp.MustCompile(`[A-Za-z_@#$][A-Za-z0-9_@#$]*`)

	// %size/%len/%elem take a definition, not storage, so a template name
	// is a legal argument there.
	sizeBifArgRe = regexp.MustCompile(`(?i)%(?:size|len|elem)\s*\(\s*([A-Za-z_@#$][A-Za-z0-9_@#$]*)`)
)

func evalTemplateDirectUse(stmt *ir.Statement, ctx *ProcContext) []ir.Finding {
	if stmt.Kind != ir.KindExec {
		return nil
	}
	masked := maskSizeBifArgs(maskLiterals(stmt.Text))
	var out []ir.Finding
	seen := map[string]bool{}
	for _, id := range identRe.FindAllString(masked, -1) {
		lo := strings.ToLower(id)
		if seen[lo] {
			continue
		}
		seen[lo] = true
		d, ok := ctx.Declared(lo)
		if !ok || !d.Template {
			continue
		}
		out = append(out, finding("decl.template-direct-use", "decl", ir.SeverityError, stmt,
			fmt.Sprintf("%s is a template and holds no storage", d.Name),
			fmt.Sprintf("declare an instance with dcl-ds work likeds(%s); and use that", d.Name)))
	}
	return out
}

// maskSizeBifArgs blanks the first identifier inside %size, %len and %elem
// so definition-only BIF arguments never count as direct use.
func maskSizeBifArgs(s string) string {
	idx := sizeBifArgRe.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	b := []byte(s)
	for _, m := range idx {
		for i := m[2]; i < m[3]; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}
