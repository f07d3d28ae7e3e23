package rules

import (
	"fmt"
	"regexp"

	"github.com/codewithboateng/rpglint/internal/ir"
)

// badBIF is a built-in-function name that does not exist in RPGLE but is
// frequently written by analogy with other languages or with fixed-format
// operation codes.
type badBIF struct {
	id   string
	name string // the invalid %name
	fix  string
}

var badBIFs = []badBIF{
	{"bif.sorta", "sorta", "use the SORTA operation code: sorta arrayName;"},
	{"bif.occurs", "occurs", "use %occur(dsName) to get or set the current occurrence"},
	{"bif.checkr", "checkr", "use %check(comparator : base) and scan from the right with %scanr"},
	{"bif.tlookup", "tlookup", "use %lookup(arg : array) for arrays or %tlookup only in fixed-format tables; here use %lookup"},
	{"bif.dealloc", "dealloc", "use the DEALLOC operation code: dealloc(n) pointer;"},
	{"bif.varchar", "varchar", "use %char(value) to produce character data; varchar is a declaration keyword, not a BIF"},
	{"bif.move", "move", "use plain assignment with %char/%dec conversions; MOVE has no free-format BIF form"},
	{"bif.movel", "movel", "use plain assignment with %subst for left-adjusted moves"},
	{"bif.elements", "elements", "use %elem(array) for the declared number of elements"},
	{"bif.sizeof", "sizeof", "use %size(item) or %size(item : *all)"},
	{"bif.length", "length", "use %len(expression) for the length in characters"},
	{"bif.substring", "substring", "use %subst(string : start : length)"},
	{"bif.numeric", "numeric", "use %dec(expression : digits : decimals) to convert to numeric"},
	{"bif.string", "string", "use %char(expression) to convert to character"},
}

func init() {
	for _, b := range badBIFs {
		b := b
		re := regexp.MustCompile(`(?i)%` + b.name + `\s*\(`)
		Register(regexRule(
			b.id, "bif", ir.SeverityError,
			fmt.Sprintf("%%%s is not a built-in function.", b.name),
			re,
			fmt.Sprintf("%%%s does not exist in RPGLE", b.name),
			b.fix,
		))
	}

	// %equal takes no argument list of its own; %equal(array) is a common
	// invented form for array membership tests.
	Register(regexRule(
		"bif.equal-array", "bif", ir.SeverityError,
		"%equal does not accept an array argument.",
		regexp.MustCompile(`(?i)%equal\s*\(\s*[a-z0-9_@#$]`),
		"%equal tests the result of SETLL/LOOKUP and takes no array argument",
		"use %lookup(value : array) and compare the result with 0",
	))
}
