package ir

import "time"

const Version = "1.0"

// Severity levels for findings. The exit-code contract treats any
// error-severity finding as a failure.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Context  Context   `json:"context"`
	Files    []File    `json:"files"`
	Findings []Finding `json:"findings,omitempty"`
}

type Context struct {
	SeverityThreshold string   `json:"severity_threshold,omitempty"`
	DisabledRules     []string `json:"disabled_rules,omitempty"`
	RulePacks         []string `json:"rule_packs,omitempty"`
}

// File is one scanned source member: its logical statements plus
// per-file statistics.
type File struct {
	Path       string      `json:"path"`
	Statements []Statement `json:"statements,omitempty"`
	Stats      Stats       `json:"stats"`
}

// StatementKind classifies a logical statement for the engine and rules.
type StatementKind string

const (
	KindDecl       StatementKind = "decl"
	KindExec       StatementKind = "exec"
	KindBlockOpen  StatementKind = "block-open"
	KindBlockClose StatementKind = "block-close"
	KindDirective  StatementKind = "directive"
)

// Statement is one semicolon-terminated unit, or one bundled declaration
// block (dcl-ds...end-ds and friends), comments stripped.
// StartLine <= EndLine always holds.
type Statement struct {
	Text      string        `json:"text"`
	StartLine int           `json:"start_line"`
	EndLine   int           `json:"end_line"`
	Kind      StatementKind `json:"kind"`
}

type Stats struct {
	Lines        int `json:"lines"`
	CommentLines int `json:"comment_lines,omitempty"`
	Statements   int `json:"statements"`
	Procedures   int `json:"procedures,omitempty"`
}

type Finding struct {
	ID           string `json:"id"`
	File         string `json:"file"`
	Line         int    `json:"line"`
	RuleID       string `json:"rule_id"`
	Category     string `json:"category"`
	Severity     string `json:"severity"` // error|warning
	Message      string `json:"message"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
	Excerpt      string `json:"excerpt,omitempty"`
}
