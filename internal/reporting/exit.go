package reporting

import (
	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/rules"
)

// ExitCode implements the CI contract: 0 when there are no findings or
// only warnings, 1 when any finding is an error.
func ExitCode(findings []ir.Finding) int {
	if rules.HasErrors(findings) {
		return 1
	}
	return 0
}
