package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
)

var (
	registry  []Rule
	ruleIndex = map[string]int{} // lower(ruleID) -> index
)

// Register adds a rule to the catalog. Registering an ID that already
// exists replaces the earlier entry, which is how rule packs override
// built-ins.
func Register(r Rule) {
	key := strings.ToLower(strings.TrimSpace(r.ID))
	if idx, ok := ruleIndex[key]; ok {
		registry[idx] = r
		return
	}
	registry = append(registry, r)
	ruleIndex[key] = len(registry) - 1
}

// List returns enabled rules in stable ID order.
func List() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, r := range registry {
		if rsettings.Disabled[strings.ToLower(r.ID)] {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a rule by ID if registered.
func Get(id string) (Rule, bool) {
	idx, ok := ruleIndex[strings.ToLower(strings.TrimSpace(id))]
	if !ok || idx < 0 || idx >= len(registry) {
		return Rule{}, false
	}
	return registry[idx], true
}

// finding builds a Finding for a rule hit on a statement. File and ID are
// filled in by the engine.
func finding(id, category, severity string, stmt *ir.Statement, message, fix string) ir.Finding {
	return ir.Finding{
		Line:         stmt.StartLine,
		RuleID:       id,
		Category:     category,
		Severity:     severity,
		Message:      message,
		SuggestedFix: fix,
		Excerpt:      excerpt(stmt.Text),
	}
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}

// regexRule builds a rule that fires once when the pattern matches the
// statement text with quoted literals masked out.
func regexRule(id, category, severity, summary string, re *regexp.Regexp, message, fix string) Rule {
	return Rule{
		ID:       id,
		Category: category,
		Severity: severity,
		Summary:  summary,
		Eval: func(stmt *ir.Statement, _ *ProcContext) []ir.Finding {
			if !re.MatchString(maskLiterals(stmt.Text)) {
				return nil
			}
			return []ir.Finding{finding(id, category, severity, stmt, message, fix)}
		},
	}
}

// maskLiterals blanks out quoted string literals so operator and keyword
// patterns never match inside them.
func maskLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	in := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' {
			in = !in
			b.WriteByte(c)
			continue
		}
		if in {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func firstWord(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for i := 0; i < len(t); i++ {
		c := t[i]
		if c == ' ' || c == '\t' || c == '(' {
			return t[:i]
		}
	}
	return t
}
