package rules

import "strings"

// ProcContext tracks declaration/execution order and declared names within
// one procedure body (or the global main source section). The engine owns
// the lifecycle: push on dcl-proc, pop on end-proc, discard after the file.
type ProcContext struct {
	Name string

	// ExecSeen reports whether an executable statement has already been
	// encountered in this scope, as of the statement being evaluated.
	ExecSeen bool

	// Decls maps lower-cased declared names to their declaration info.
	Decls map[string]Decl

	// monitors is the stack of monitor blocks currently open in this scope.
	monitors []monitorState

	// lastClosedMonitor is set while the statement closing a monitor block
	// is being evaluated, and cleared afterwards.
	lastClosedMonitor *monitorState
}

type Decl struct {
	Name     string
	Kind     string // s, ds, c, pr, proc
	Pointer  bool
	Based    string // basing pointer name, "" when not based
	Template bool
}

type monitorState struct {
	Line        int
	OnErrorSeen bool
}

func NewProcContext(name string) *ProcContext {
	return &ProcContext{Name: name, Decls: map[string]Decl{}}
}

// Declared reports whether name is declared in this scope.
func (c *ProcContext) Declared(name string) (Decl, bool) {
	d, ok := c.Decls[strings.ToLower(name)]
	return d, ok
}

func (c *ProcContext) declare(d Decl) {
	if d.Name == "" {
		return
	}
	c.Decls[strings.ToLower(d.Name)] = d
}

// MonitorDepth returns how many monitor blocks are open at this point.
func (c *ProcContext) MonitorDepth() int { return len(c.monitors) }

// ClosedMonitorMissingOnError reports the opening line of a monitor block
// that was just closed without any on-error group, or -1.
func (c *ProcContext) ClosedMonitorMissingOnError() int {
	if c.lastClosedMonitor != nil && !c.lastClosedMonitor.OnErrorSeen {
		return c.lastClosedMonitor.Line
	}
	return -1
}
