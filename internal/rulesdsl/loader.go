// Package rulesdsl loads YAML rule packs and registers them alongside the
// built-in catalog. Packs extend or override the catalog without a
// recompile, which is also the escape hatch for catalog entries whose
// correct form is disputed.
package rulesdsl

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Summary  string `yaml:"summary"`
	Severity string `yaml:"severity"` // error|warning
	Message  string `yaml:"message"`
	Fix      string `yaml:"fix"`

	Where struct {
		Pattern   string `yaml:"pattern"`    // regex on statement text, case-insensitive
		Kind      string `yaml:"kind"`       // optional statement kind filter
		FirstWord string `yaml:"first_word"` // optional opcode filter
	} `yaml:"where"`
}

type compiled struct {
	rule      dslRule
	rePattern *regexp.Regexp
	needKind  ir.StatementKind
	needWord  string
}

// LoadAndRegister reads a pack file and registers its rules. Returns the
// number of rules registered. Pack errors are configuration errors: fatal
// before any file is scanned.
func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rule pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.ID, err)
		}
		registerCompiled(*cr)
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.ID == "" || r.Severity == "" || r.Message == "" {
		return nil, fmt.Errorf("missing required fields (id/severity/message)")
	}
	sev := strings.ToLower(strings.TrimSpace(r.Severity))
	if sev != ir.SeverityError && sev != ir.SeverityWarning {
		return nil, fmt.Errorf("severity must be error or warning, got %q", r.Severity)
	}
	r.Severity = sev
	if r.Category == "" {
		r.Category = "pack"
	}
	c := &compiled{
		rule:     r,
		needKind: ir.StatementKind(strings.TrimSpace(r.Where.Kind)),
		needWord: strings.ToLower(strings.TrimSpace(r.Where.FirstWord)),
	}
	if r.Where.Pattern == "" {
		return nil, fmt.Errorf("where.pattern is required")
	}
	re, err := regexp.Compile("(?im)" + r.Where.Pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}
	c.rePattern = re
	return c, nil
}

func registerCompiled(c compiled) {
	rules.Register(rules.Rule{
		ID:       c.rule.ID,
		Category: c.rule.Category,
		Severity: c.rule.Severity,
		Summary:  c.rule.Summary,
		Eval: func(stmt *ir.Statement, _ *rules.ProcContext) []ir.Finding {
			if c.needKind != "" && stmt.Kind != c.needKind {
				return nil
			}
			if c.needWord != "" && !strings.HasPrefix(strings.ToLower(stmt.Text), c.needWord) {
				return nil
			}
			if !c.rePattern.MatchString(stmt.Text) {
				return nil
			}
			return []ir.Finding{{
				Line:         stmt.StartLine,
				RuleID:       c.rule.ID,
				Category:     c.rule.Category,
				Severity:     c.rule.Severity,
				Message:      c.rule.Message,
				SuggestedFix: c.rule.Fix,
				Excerpt:      excerpt(stmt.Text),
			}}
		},
	})
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
