package reporting

import (
	"fmt"
	"io"
	"sort"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/stats"
)

// WriteText renders findings one per line:
//
//	<path>:<line>: [<ruleId>] <message> (suggested: <fix>)
//
// followed by a per-category summary. Input is assumed already sorted by
// the engine (file, line, rule ID), so output is byte-identical across
// runs on identical input.
func WriteText(w io.Writer, findings []ir.Finding) error {
	for _, f := range findings {
		if f.SuggestedFix != "" {
			if _, err := fmt.Fprintf(w, "%s:%d: [%s] %s (suggested: %s)\n",
				f.File, f.Line, f.RuleID, f.Message, f.SuggestedFix); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:%d: [%s] %s\n", f.File, f.Line, f.RuleID, f.Message); err != nil {
			return err
		}
	}
	return writeSummary(w, findings)
}

func writeSummary(w io.Writer, findings []ir.Finding) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(w, "no findings")
		return err
	}
	counts := stats.CountByCategory(findings)
	errors, _ := stats.CountBySeverity(findings)
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	if _, err := fmt.Fprintf(w, "\n%d finding(s), %d error(s)\n", len(findings), errors); err != nil {
		return err
	}
	for _, c := range cats {
		if _, err := fmt.Fprintf(w, "  %-10s %d\n", c, counts[c]); err != nil {
			return err
		}
	}
	return nil
}
