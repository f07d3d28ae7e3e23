package rules

import (
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
)

type Settings struct {
	SeverityThreshold string // warning|error
	Disabled          map[string]bool
}

var rsettings = Settings{
	SeverityThreshold: ir.SeverityWarning,
	Disabled:          map[string]bool{},
}

func SetSettings(s Settings) {
	if s.SeverityThreshold == "" {
		s.SeverityThreshold = rsettings.SeverityThreshold
	}
	if s.Disabled == nil {
		s.Disabled = map[string]bool{}
	}
	rsettings = s
}

func severityRank(sev string) int {
	if strings.EqualFold(strings.TrimSpace(sev), ir.SeverityError) {
		return 2
	}
	return 1 // warning or unknown
}

func severityOK(sev string) bool {
	return severityRank(sev) >= severityRank(rsettings.SeverityThreshold)
}
