// Package scanner converts raw RPGLE free-format source into ordered
// logical statements. A logical statement is one semicolon-terminated
// unit, or one bundled declaration block (dcl-ds ... end-ds and friends).
// Scan anomalies (unterminated blocks, unbalanced quotes) become findings
// rather than errors so a run always produces best-effort output.
package scanner

import (
	"bufio"
	"fmt"
	"hash/crc32"
	"os"
	"strings"

	"github.com/codewithboateng/rpglint/internal/ir"
)

const (
	RuleUnterminatedBlock = "scan.unterminated-block"
	RuleUnbalancedQuote   = "scan.unbalanced-quote"
)

// Result is the output of scanning one source member.
type Result struct {
	Statements []ir.Statement
	Findings   []ir.Finding
	Stats      ir.Stats
}

// ScanFile reads and scans a single source file.
func ScanFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Scan(path, lines), nil
}

// ScanSource scans in-memory source text. Used by tests and the fuzz
// harness.
func ScanSource(path, source string) Result {
	return Scan(path, strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n"))
}

type openBlock struct {
	kind string // monitor, if, do, for, select, proc, ds, pr, pi
	word string // the opening token as written
	line int
}

// closers maps end tokens to the block kind they close. Both the correct
// spelling and the common wrong spelling are accepted so the scanner stays
// balanced; the opcode rules flag the wrong spelling separately.
var closers = map[string]string{
	"endmon": "monitor", "end-mon": "monitor",
	"endif": "if", "end-if": "if",
	"enddo": "do", "end-do": "do",
	"endfor": "for", "end-for": "for",
	"endsl": "select", "end-sl": "select",
	"end-proc": "proc", "endproc": "proc",
	"end-ds": "ds", "endds": "ds",
	"end-pr": "pr", "endpr": "pr",
	"end-pi": "pi", "endpi": "pi",
}

var openers = map[string]string{
	"monitor": "monitor",
	"if":      "if",
	"dow":     "do", "dou": "do",
	"for":      "for",
	"select":   "select",
	"dcl-proc": "proc",
}

// Scan splits source lines into logical statements with accurate line
// tracking. Semicolons inside quoted literals never terminate a statement;
// // comments are stripped outside literals; declaration groups are bundled
// into single statements.
func Scan(path string, lines []string) Result {
	s := &scanState{path: path}
	s.stats.Lines = len(lines)

	for i, raw := range lines {
		s.line = i + 1
		s.feedLine(raw)
	}
	s.finish()

	return Result{Statements: s.stmts, Findings: s.findings, Stats: s.stats}
}

type scanState struct {
	path     string
	line     int
	stmts    []ir.Statement
	findings []ir.Finding
	stats    ir.Stats

	buf       strings.Builder
	bufStart  int // line where the current statement began; 0 = none
	inLiteral bool

	blocks []openBlock

	// declaration-group bundling
	bundle     *ir.Statement
	bundleKind string // ds, pr, pi
}

func (s *scanState) feedLine(raw string) {
	text := raw
	trimmed := strings.TrimSpace(text)

	// Compiler directives occupy a whole line and never carry semicolons
	// that matter to statement splitting.
	if strings.HasPrefix(trimmed, "**") {
		return
	}
	if strings.HasPrefix(trimmed, "/") && !strings.HasPrefix(trimmed, "//") {
		s.emit(ir.Statement{Text: trimmed, StartLine: s.line, EndLine: s.line, Kind: ir.KindDirective})
		return
	}

	wholeLineComment := strings.HasPrefix(trimmed, "//")
	if wholeLineComment {
		s.stats.CommentLines++
		return
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '\'':
			s.inLiteral = !s.inLiteral
			s.bufWrite(ch)
		case !s.inLiteral && ch == '/' && i+1 < len(text) && text[i+1] == '/':
			// trailing comment: drop the rest of the line
			i = len(text)
		case !s.inLiteral && ch == ';':
			s.endStatement()
		default:
			s.bufWrite(ch)
		}
	}

	// RPGLE quoted literals do not span lines. A line ending inside one is
	// reported and the literal state reset so scanning can continue.
	if s.inLiteral {
		s.addFinding(RuleUnbalancedQuote, s.line,
			"string literal is not closed before end of line",
			"close the literal with ' on the same line",
			strings.TrimSpace(text))
		s.inLiteral = false
	}

	// Statement text accumulates across lines separated by a space.
	if s.bufStart != 0 {
		s.bufWrite(' ')
	}
}

func (s *scanState) bufWrite(ch byte) {
	if !s.inLiteral && (ch == ' ' || ch == '\t') {
		// collapse runs of whitespace outside literals
		b := s.buf.String()
		if len(b) == 0 || b[len(b)-1] == ' ' {
			return
		}
		ch = ' '
	}
	if s.bufStart == 0 {
		s.bufStart = s.line
	}
	s.buf.WriteByte(ch)
}

func (s *scanState) endStatement() {
	text := strings.TrimSpace(s.buf.String())
	start := s.bufStart
	s.buf.Reset()
	s.bufStart = 0
	if text == "" {
		return
	}
	st := ir.Statement{Text: text, StartLine: start, EndLine: s.line, Kind: classify(text)}
	s.route(st)
}

// route applies block tracking and declaration bundling before emitting.
func (s *scanState) route(st ir.Statement) {
	word := firstWord(st.Text)

	// Inside a declaration bundle everything is appended until the matching
	// end marker, including the marker itself.
	if s.bundle != nil {
		if kind, ok := closers[word]; ok && kind == s.bundleKind {
			s.bundle.Text += "\n" + st.Text
			s.bundle.EndLine = st.EndLine
			done := *s.bundle
			s.bundle = nil
			s.bundleKind = ""
			s.popBlock(kind)
			s.emit(done)
			return
		}
		// Any other end marker, or a new procedure, is a recognizable
		// boundary: the group was never terminated. Flush it (the open
		// block stays on the stack so drainTo reports it) and route the
		// statement normally.
		if _, isCloser := closers[word]; isCloser || word == "dcl-proc" {
			done := *s.bundle
			s.bundle = nil
			s.bundleKind = ""
			s.emit(done)
		} else {
			s.bundle.Text += "\n" + st.Text
			s.bundle.EndLine = st.EndLine
			return
		}
	}

	switch word {
	case "dcl-ds", "dcl-pr", "dcl-pi":
		kind := declKind(word)
		// One-statement forms carry their shape inline: likeds/extname
		// data structures, or a prototype closed on the same statement.
		if containsEnd(st.Text, kind) || isOneLineDS(word, st.Text) {
			s.emit(st)
			return
		}
		s.blocks = append(s.blocks, openBlock{kind: kind, word: word, line: st.StartLine})
		s.bundle = &st
		s.bundleKind = kind
		return
	}

	if kind, ok := openers[word]; ok {
		if word == "dcl-proc" {
			s.stats.Procedures++
		}
		s.blocks = append(s.blocks, openBlock{kind: kind, word: word, line: st.StartLine})
		st.Kind = ir.KindBlockOpen
		if word == "dcl-proc" {
			st.Kind = ir.KindDecl
		}
		s.emit(st)
		return
	}

	if kind, ok := closers[word]; ok {
		// Closing a procedure reports any blocks still open inside it.
		if kind == "proc" {
			s.drainTo("proc")
		}
		s.popBlock(kind)
		st.Kind = ir.KindBlockClose
		s.emit(st)
		return
	}

	s.emit(st)
}

// popBlock closes the nearest open block of the given kind.
func (s *scanState) popBlock(kind string) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if s.blocks[i].kind == kind {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return
		}
	}
}

// drainTo reports unterminated blocks above the nearest block of the given
// kind (or all of them when absent) and removes them from the stack.
func (s *scanState) drainTo(kind string) {
	stop := -1
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if s.blocks[i].kind == kind {
			stop = i
			break
		}
	}
	for i := len(s.blocks) - 1; i > stop; i-- {
		b := s.blocks[i]
		s.addFinding(RuleUnterminatedBlock, b.line,
			fmt.Sprintf("%s block is never terminated", b.word),
			fmt.Sprintf("add the matching %s before the enclosing block ends", closerFor(b.kind)),
			b.word)
		s.blocks = s.blocks[:i]
	}
}

func (s *scanState) finish() {
	// Flush a trailing un-terminated statement as-is; the missing semicolon
	// leaves it unreported here, the engine still sees its text.
	if s.bufStart != 0 {
		s.endStatementAtEOF()
	}
	if s.bundle != nil {
		done := *s.bundle
		s.bundle = nil
		s.emit(done)
	}
	s.drainTo("") // everything left open at EOF
	s.stats.Statements = len(s.stmts)
}

func (s *scanState) endStatementAtEOF() {
	text := strings.TrimSpace(s.buf.String())
	s.buf.Reset()
	start := s.bufStart
	s.bufStart = 0
	if text == "" {
		return
	}
	s.route(ir.Statement{Text: text, StartLine: start, EndLine: s.line, Kind: classify(text)})
}

func (s *scanState) emit(st ir.Statement) {
	s.stmts = append(s.stmts, st)
}

func (s *scanState) addFinding(ruleID string, line int, msg, fix, excerpt string) {
	s.findings = append(s.findings, ir.Finding{
		ID:           MakeID(ruleID, s.path, line, excerpt),
		File:         s.path,
		Line:         line,
		RuleID:       ruleID,
		Category:     "scan",
		Severity:     ir.SeverityError,
		Message:      msg,
		SuggestedFix: fix,
		Excerpt:      excerpt,
	})
}

// MakeID derives a stable finding ID from its identity fields.
func MakeID(ruleID, file string, line int, excerpt string) string {
	sum := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s|%s|%d|%s", ruleID, file, line, excerpt)))
	return fmt.Sprintf("%s-%08x", ruleID, sum)
}

func classify(text string) ir.StatementKind {
	w := firstWord(text)
	switch {
	case strings.HasPrefix(w, "dcl-"):
		return ir.KindDecl
	case w == "ctl-opt":
		return ir.KindDirective
	default:
		return ir.KindExec
	}
}

func firstWord(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for i := 0; i < len(t); i++ {
		c := t[i]
		if c == ' ' || c == '\t' || c == '(' || c == ';' {
			return t[:i]
		}
	}
	return t
}

func declKind(word string) string {
	switch word {
	case "dcl-ds":
		return "ds"
	case "dcl-pr":
		return "pr"
	default:
		return "pi"
	}
}

func containsEnd(text, kind string) bool {
	lo := strings.ToLower(text)
	return strings.Contains(lo, "end-"+kind) || strings.Contains(lo, "end"+kind)
}

// isOneLineDS reports whether a dcl-ds statement is complete without an
// end-ds: LIKEDS and externally-described structures take no subfields.
func isOneLineDS(word, text string) bool {
	if word != "dcl-ds" {
		return false
	}
	lo := strings.ToLower(text)
	return strings.Contains(lo, "likeds(") || strings.Contains(lo, "extname(")
}

func closerFor(kind string) string {
	switch kind {
	case "monitor":
		return "endmon"
	case "if":
		return "endif"
	case "do":
		return "enddo"
	case "for":
		return "endfor"
	case "select":
		return "endsl"
	case "proc":
		return "end-proc"
	case "ds":
		return "end-ds"
	case "pr":
		return "end-pr"
	case "pi":
		return "end-pi"
	default:
		return "end"
	}
}
