package rules

import (
	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/scanner"
)

// RuleReadError marks a source file that could not be opened or read.
// The run keeps going; only the bad file is reported.
const RuleReadError = "input.read-error"

// Scanner- and pipeline-owned rules, registered so they appear in rule
// listings and can be disabled or waived like any other rule. Their
// findings are produced outside Eval.
func init() {
	Register(Rule{
		ID:       RuleReadError,
		Category: "input",
		Severity: ir.SeverityError,
		Summary:  "A source file could not be read.",
	})
	Register(Rule{
		ID:       scanner.RuleUnterminatedBlock,
		Category: "scan",
		Severity: ir.SeverityError,
		Summary:  "A block construct is opened but never terminated.",
	})
	Register(Rule{
		ID:       scanner.RuleUnbalancedQuote,
		Category: "scan",
		Severity: ir.SeverityError,
		Summary:  "A string literal is not closed before end of line.",
	})
}
