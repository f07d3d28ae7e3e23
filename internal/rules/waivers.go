package rules

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/storage"
)

// ApplyWaivers filters out findings that match any active waiver.
// Returns (kept, waivedCount). A waiver names a rule, optionally a file
// glob, and optionally a substring matched against excerpt or message.
func ApplyWaivers(in []ir.Finding, waivers []storage.Waiver) ([]ir.Finding, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	globs := make([]glob.Glob, len(waivers))
	for i, w := range waivers {
		if w.FileGlob == "" {
			continue
		}
		if g, err := glob.Compile(w.FileGlob); err == nil {
			globs[i] = g
		}
	}

	var out []ir.Finding
	waived := 0
nextFinding:
	for _, f := range in {
		for i, w := range waivers {
			if !eqCI(f.RuleID, w.RuleID) {
				continue
			}
			if w.FileGlob != "" && (globs[i] == nil || !globs[i].Match(f.File)) {
				continue
			}
			if w.PatternSub != "" {
				ps := strings.ToUpper(w.PatternSub)
				if !strings.Contains(strings.ToUpper(f.Excerpt), ps) &&
					!strings.Contains(strings.ToUpper(f.Message), ps) {
					continue
				}
			}
			waived++
			continue nextFinding
		}
		out = append(out, f)
	}
	return out, waived
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
