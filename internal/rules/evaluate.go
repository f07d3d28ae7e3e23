package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/scanner"
)

const RuleInternalError = "internal.rule-error"

func init() {
	// Engine-owned rule, listed for documentation. Findings with this ID
	// are produced when a rule's matcher panics on malformed input.
	Register(Rule{
		ID:       RuleInternalError,
		Category: "internal",
		Severity: ir.SeverityWarning,
		Summary:  "A rule failed internally while evaluating a statement; the scan continued.",
	})
}

// Evaluate walks every file's statements in order, maintaining a stack of
// procedure contexts, and applies every enabled rule to every statement.
// No rule ever halts the scan: a panicking rule becomes an
// internal.rule-error finding. The result is filtered by the severity
// threshold and sorted by file, line, then rule ID.
func Evaluate(run *ir.Run) []ir.Finding {
	rs := List()
	var all []ir.Finding
	for i := range run.Files {
		f := &run.Files[i]
		all = append(all, EvaluateFile(f, rs)...)
	}
	return Finalize(all)
}

// EvaluateFile applies rules to one file's statement stream.
func EvaluateFile(f *ir.File, rs []Rule) []ir.Finding {
	var out []ir.Finding
	stack := []*ProcContext{NewProcContext("")} // global scope

	for i := range f.Statements {
		stmt := &f.Statements[i]
		ctx := stack[len(stack)-1]
		word := firstWord(stmt.Text)

		// Closing a monitor block is visible to rules evaluating the
		// closing statement itself.
		if _, isMonClose := monitorClosers[word]; isMonClose && len(ctx.monitors) > 0 {
			top := ctx.monitors[len(ctx.monitors)-1]
			ctx.monitors = ctx.monitors[:len(ctx.monitors)-1]
			ctx.lastClosedMonitor = &top
		}

		for _, r := range rs {
			if r.Eval == nil {
				continue
			}
			for _, fd := range safeEval(r, stmt, ctx) {
				fd.File = f.Path
				out = append(out, fd)
			}
		}

		ctx.lastClosedMonitor = nil
		stack = advance(stack, stmt, word)
	}
	return out
}

var monitorClosers = map[string]bool{"endmon": true, "end-mon": true}

// advance mutates context state after a statement has been evaluated.
func advance(stack []*ProcContext, stmt *ir.Statement, word string) []*ProcContext {
	ctx := stack[len(stack)-1]

	switch word {
	case "dcl-proc":
		name := secondWord(stmt.Text)
		ctx.declare(Decl{Name: name, Kind: "proc"})
		return append(stack, NewProcContext(name))
	case "end-proc", "endproc":
		if len(stack) > 1 {
			return stack[:len(stack)-1]
		}
		return stack
	case "monitor":
		ctx.monitors = append(ctx.monitors, monitorState{Line: stmt.StartLine})
		ctx.ExecSeen = true
		return stack
	case "on-error":
		if n := len(ctx.monitors); n > 0 {
			ctx.monitors[n-1].OnErrorSeen = true
		}
		ctx.ExecSeen = true
		return stack
	}

	switch stmt.Kind {
	case ir.KindDecl:
		ctx.declare(parseDecl(stmt.Text))
	case ir.KindExec, ir.KindBlockOpen:
		ctx.ExecSeen = true
	}
	return stack
}

var (
	basedRe    = regexp.MustCompile(`(?i)\bbased\s*\(\s*([a-z0-9_@#$]+)\s*\)`)
	pointerRe  = regexp.MustCompile(`\bpointer\b`)
	templateRe = regexp.MustCompile(`\btemplate\b`)
)

// parseDecl extracts name and keyword info from a declaration statement.
func parseDecl(text string) Decl {
	head := text
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	lo := strings.ToLower(maskLiterals(head))

	var d Decl
	switch firstWord(lo) {
	case "dcl-s":
		d.Kind = "s"
	case "dcl-ds":
		d.Kind = "ds"
	case "dcl-c":
		d.Kind = "c"
	case "dcl-pr":
		d.Kind = "pr"
	default:
		return Decl{}
	}
	d.Name = secondWord(head)
	d.Pointer = pointerRe.MatchString(lo)
	d.Template = templateRe.MatchString(lo)
	if m := basedRe.FindStringSubmatch(lo); m != nil {
		d.Based = m[1]
	}
	return d
}

func secondWord(text string) string {
	fs := strings.Fields(text)
	if len(fs) < 2 {
		return ""
	}
	w := fs[1]
	if i := strings.IndexAny(w, "(;"); i >= 0 {
		w = w[:i]
	}
	return w
}

func safeEval(r Rule, stmt *ir.Statement, ctx *ProcContext) (out []ir.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			out = []ir.Finding{{
				Line:     stmt.StartLine,
				RuleID:   RuleInternalError,
				Category: "internal",
				Severity: ir.SeverityWarning,
				Message:  fmt.Sprintf("rule %s failed on this statement: %v", r.ID, rec),
				Excerpt:  excerpt(stmt.Text),
			}}
		}
	}()
	return r.Eval(stmt, ctx)
}

// Finalize applies the severity threshold, guarantees unique finding IDs
// and sorts for reproducible output: file, line ascending, rule ID
// ascending.
func Finalize(in []ir.Finding) []ir.Finding {
	var out []ir.Finding
	seen := map[string]struct{}{}
	seq := 0
	for _, f := range in {
		if !severityOK(f.Severity) || rsettings.Disabled[strings.ToLower(f.RuleID)] {
			continue
		}
		if f.ID == "" {
			f.ID = scanner.MakeID(f.RuleID, f.File, f.Line, f.Excerpt)
		}
		for {
			if _, dup := seen[f.ID]; !dup {
				seen[f.ID] = struct{}{}
				break
			}
			seq++
			f.ID = fmt.Sprintf("%s-%06d", f.RuleID, seq)
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		if out[i].RuleID != out[j].RuleID {
			return out[i].RuleID < out[j].RuleID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// HasErrors reports whether any finding carries error severity. The CLI
// exit code keys off this.
func HasErrors(findings []ir.Finding) bool {
	for _, f := range findings {
		if strings.EqualFold(f.Severity, ir.SeverityError) {
			return true
		}
	}
	return false
}
