package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "sql.host-var-no-colon",
		Category: "sql",
		Severity: ir.SeverityError,
		Summary:  "Host variables in embedded SQL need a leading colon.",
		Eval:     evalHostVarNoColon,
	})
}

// evalHostVarNoColon flags identifiers inside an exec sql statement that
// match a name declared in the current scope but lack the : prefix. Column
// names that happen to collide with declared variables can false-positive;
// the rule is scoped to declared names to keep that rare.
func evalHostVarNoColon(stmt *ir.Statement, ctx *ProcContext) []ir.Finding {
	masked := maskLiterals(stmt.Text)
	lo := strings.ToLower(masked)
	if !strings.HasPrefix(lo, "exec sql") {
		return nil
	}

	var out []ir.Finding
	seen := map[string]bool{}
	for _, loc := range identRe.FindAllStringIndex(masked, -1) {
		name := masked[loc[0]:loc[1]]
		key := strings.ToLower(name)
		if seen[key] || sqlKeywords[key] {
			continue
		}
		d, ok := ctx.Declared(key)
		if !ok || d.Kind == "proc" || d.Kind == "pr" {
			continue
		}
		if loc[0] > 0 && masked[loc[0]-1] == ':' {
			seen[key] = true // properly prefixed at least once
			continue
		}
		// table.column style references are column names, not host vars
		if loc[0] > 0 && masked[loc[0]-1] == '.' {
			continue
		}
		seen[key] = true
		out = append(out, finding("sql.host-var-no-colon", "sql", ir.SeverityError, stmt,
			fmt.Sprintf("host variable %s referenced without a leading colon", d.Name),
			fmt.Sprintf("write :%s inside the SQL statement", d.Name)))
	}
	return out
}

var sqlKeywords = map[string]bool{
	"exec": true, "sql": true, "select": true, "insert": true, "update": true,
	"delete": true, "into": true, "from": true, "where": true, "values": true,
	"set": true, "and": true, "or": true, "not": true, "null": true,
	"order": true, "by": true, "group": true, "having": true, "fetch": true,
	"first": true, "rows": true, "row": true, "only": true, "declare": true,
	"cursor": true, "open": true, "close": true, "for": true, "join": true,
	"inner": true, "left": true, "right": true, "on": true, "as": true,
	"distinct": true, "count": true, "sum": true, "avg": true, "min": true,
	"max": true, "like": true, "in": true, "between": true, "is": true,
	"commit": true, "rollback": true, "with": true, "ur": true, "cs": true,
	"current": true, "date": true, "time": true, "timestamp": true,
}
