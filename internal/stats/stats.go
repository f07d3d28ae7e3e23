// Package stats aggregates per-file source measurements for run reports.
package stats

import "github.com/codewithboateng/rpglint/internal/ir"

// Totals sums statistics across a run's files.
func Totals(run *ir.Run) ir.Stats {
	var t ir.Stats
	for _, f := range run.Files {
		t.Lines += f.Stats.Lines
		t.CommentLines += f.Stats.CommentLines
		t.Statements += f.Stats.Statements
		t.Procedures += f.Stats.Procedures
	}
	return t
}

// CountBySeverity returns (errors, warnings) for a finding set.
func CountBySeverity(findings []ir.Finding) (int, int) {
	var errs, warns int
	for _, f := range findings {
		if f.Severity == ir.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}

// CountByCategory buckets findings per rule category.
func CountByCategory(findings []ir.Finding) map[string]int {
	out := map[string]int{}
	for _, f := range findings {
		out[f.Category]++
	}
	return out
}

// CountByRule buckets findings per rule ID.
func CountByRule(findings []ir.Finding) map[string]int {
	out := map[string]int{}
	for _, f := range findings {
		out[f.RuleID]++
	}
	return out
}
