package rules

import (
	"fmt"
	"regexp"

	"github.com/codewithboateng/rpglint/internal/ir"
)

func init() {
	Register(regexRule(
		"op.c-style-for", "op", ir.SeverityError,
		"C-style for loops are not RPGLE syntax.",
		regexp.MustCompile(`(?im)^for\s*\(`),
		"for takes no parenthesized init/cond/step clause",
		"write for i = start to limit [by step]; ... endfor;",
	))

	Register(regexRule(
		"op.while-loop", "op", ir.SeverityError,
		"WHILE is not a free-format operation code.",
		regexp.MustCompile(`(?im)^while\b`),
		"RPGLE loops with dow (do while) or dou (do until)",
		"write dow condition; ... enddo;",
	))

	Register(regexRule(
		"op.switch-statement", "op", ir.SeverityError,
		"SWITCH is not an RPGLE operation code.",
		regexp.MustCompile(`(?im)^switch\b`),
		"use a select block",
		"write select; when cond; ... other; ... endsl;",
	))

	Register(regexRule(
		"op.case-label", "op", ir.SeverityError,
		"CASE labels are not RPGLE syntax.",
		regexp.MustCompile(`(?im)^case\b`),
		"select blocks branch with when",
		"write when condition; inside select; ... endsl;",
	))

	Register(regexRule(
		"op.if-then", "op", ir.SeverityError,
		"IF takes no THEN keyword.",
		regexp.MustCompile(`(?im)^(if|elseif)\b.*\bthen\b`),
		"RPGLE if statements end at the semicolon without then",
		"remove then: if condition;",
	))

	Register(regexRule(
		"op.brace-block", "op", ir.SeverityError,
		"Braces do not delimit RPGLE blocks.",
		regexp.MustCompile(`[{}]`),
		"blocks are closed by their end operation (endif, enddo, endfor, endsl, endmon)",
		"remove the braces and close the block with its end operation",
	))

	for _, t := range wrongTerminators {
		t := t
		Register(regexRule(
			"op."+t.wrong+"-spelling", "op", ir.SeverityError,
			fmt.Sprintf("%s is not a valid terminator; use %s.", t.wrong, t.right),
			regexp.MustCompile(`(?im)^`+t.wrong+`\b`),
			fmt.Sprintf("%s is not a recognized operation", t.wrong),
			fmt.Sprintf("spell it %s", t.right),
		))
	}
}

// Control-flow terminators are unhyphenated; declaration terminators are
// hyphenated. Both directions get confused.
var wrongTerminators = []struct{ wrong, right string }{
	{"end-if", "endif"},
	{"end-do", "enddo"},
	{"end-for", "endfor"},
	{"end-mon", "endmon"},
	{"end-sl", "endsl"},
	{"endds", "end-ds"},
	{"endpr", "end-pr"},
	{"endpi", "end-pi"},
	{"endproc", "end-proc"},
}
