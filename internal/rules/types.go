package rules

import "github.com/codewithboateng/rpglint/internal/ir"

// Rule represents a single lint rule executed over a logical statement.
// Eval may consult the current procedure context for cross-statement
// checks. A nil Eval marks a rule owned by another stage (the scanner,
// or the engine itself); such rules are listed for documentation but
// never dispatched.
type Rule struct {
	ID       string
	Category string
	Severity string // error|warning
	Summary  string
	Eval     func(stmt *ir.Statement, ctx *ProcContext) []ir.Finding
}
