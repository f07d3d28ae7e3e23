package rules

import (
	"github.com/codewithboateng/rpglint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "mon.without-on-error",
		Category: "mon",
		Severity: ir.SeverityWarning,
		Summary:  "A monitor block should have at least one on-error group.",
		Eval:     evalMonitorWithoutOnError,
	})

	Register(Rule{
		ID:       "mon.on-error-outside",
		Category: "mon",
		Severity: ir.SeverityError,
		Summary:  "on-error is only valid inside a monitor block.",
		Eval:     evalOnErrorOutside,
	})
}

// Fires on the endmon statement; the engine pops the monitor state just
// before rules run against that statement.
func evalMonitorWithoutOnError(stmt *ir.Statement, ctx *ProcContext) []ir.Finding {
	line := ctx.ClosedMonitorMissingOnError()
	if line < 0 {
		return nil
	}
	f := finding("mon.without-on-error", "mon", ir.SeverityWarning, stmt,
		"monitor block closed without an on-error group",
		"add on-error; (optionally with status codes) before endmon")
	f.Line = line
	return []ir.Finding{f}
}

func evalOnErrorOutside(stmt *ir.Statement, ctx *ProcContext) []ir.Finding {
	if firstWord(stmt.Text) != "on-error" {
		return nil
	}
	if ctx.MonitorDepth() > 0 {
		return nil
	}
	return []ir.Finding{finding("mon.on-error-outside", "mon", ir.SeverityError, stmt,
		"on-error outside any monitor block",
		"wrap the guarded statements in monitor; ... endmon;")}
}
