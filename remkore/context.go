package remkore

import (
	"io"
	"os"
)

// Context is one named, optionally mode-gated section of a build script.
// A context with a Mode different from the scope's active build mode is
// skipped: its body does not run. Data is opaque to remk and free for the
// build script. Contexts are single-use – once popped they cannot be pushed
// again, construct a new one instead.
type Context struct {
	Name string
	Mode string
	Data any

	state ctxState
}

type ctxState int8

// Inactive -> Pushed -> {Skipped | Entered -> Exited} -> Popped
const (
	ctxInactive ctxState = iota
	ctxPushed
	ctxSkipped
	ctxEntered
	ctxExited
	ctxPopped
)

const unnamedContext = "<unnamed context>"

// Scope threads the state of a running build script through its nested
// context scopes: the active build mode, the context stack, the open process
// groups and the tracer. Create one with [NewScope] and drain it with
// [Scope.Close] before the script exits.
type Scope struct {
	prog   string
	mode   string
	tr     Tracer
	in     io.Reader
	out    io.Writer
	err    io.Writer
	prefix bool
	top    *Context
	stack  []*Context
	groups []*Group
}

func NewScope(prog, mode string, tr Tracer) *Scope {
	return &Scope{
		prog: prog,
		mode: mode,
		tr:   tracerOrNop(tr),
		in:   os.Stdin,
		out:  os.Stdout,
		err:  os.Stderr,
	}
}

// Prog returns the program name the scope was created with, i.e. argv[0] of
// the build script.
func (sc *Scope) Prog() string { return sc.prog }

func (sc *Scope) Mode() string { return sc.mode }

// SetMode switches the active build mode. Call it before entering contexts,
// already entered contexts are not re-filtered.
func (sc *Scope) SetMode(mode string) { sc.mode = mode }

func (sc *Scope) Tracer() Tracer { return sc.tr }

// Active returns the innermost entered context or nil at top level.
func (sc *Scope) Active() *Context { return sc.top }

// SetIO redirects the standard streams handed to spawned processes.
func (sc *Scope) SetIO(in io.Reader, out, err io.Writer) {
	if in != nil {
		sc.in = in
	}
	if out != nil {
		sc.out = out
	}
	if err != nil {
		sc.err = err
	}
}

// PrefixOutput makes spawned processes write their output line-prefixed with
// the name of the context they were spawned in.
func (sc *Scope) PrefixOutput(on bool) { sc.prefix = on }

func (sc *Scope) ctxName() string {
	if sc.top == nil {
		return ""
	}
	return sc.top.Name
}

// Push makes ctx the active context and returns the previously active one as
// the token for [Scope.Proceed] and [Scope.Pop]. Push/Pop pairs must nest
// strictly: a context may only be popped by the scope level that pushed it.
func (sc *Scope) Push(ctx *Context) *Context {
	if ctx.Name == "" {
		sc.tr.Warn(sc.ctxName(), "build context created without name")
		ctx.Name = unnamedContext
	}
	tok := sc.top
	ctx.state = ctxPushed
	sc.stack = append(sc.stack, ctx)
	sc.top = ctx
	return tok
}

// Proceed reports whether the body of the just pushed context is to be run.
// When the context's mode does not match the scope's build mode the context
// is skipped and immediately popped again, without any trace. Otherwise an
// "entering" trace is emitted and a process group is opened for the context.
func (sc *Scope) Proceed(tok *Context) bool {
	ctx := sc.top
	if ctx == nil || ctx == tok || ctx.state != ctxPushed {
		return false
	}
	if ctx.Mode != "" && ctx.Mode != sc.mode {
		ctx.state = ctxSkipped
		sc.unwind(tok)
		ctx.state = ctxPopped
		return false
	}
	ctx.state = ctxEntered
	sc.pushGroup()
	sc.tr.Info(ctx.Name, "entering `context`", "context", ctx.Name)
	return true
}

// Pop leaves the active context: it joins every process spawned in the
// context's group – leaving a context is a synchronization barrier – then
// restores tok as the active context. The aggregate status of the joined
// group is returned, a skipped context pops to 0.
func (sc *Scope) Pop(tok *Context) (status int) {
	ctx := sc.top
	if ctx == nil || ctx == tok {
		return 0
	}
	if ctx.state == ctxEntered {
		status = sc.popGroup()
		ctx.state = ctxExited
		if tok != nil {
			sc.tr.Info(ctx.Name, "exiting `context`, returning to `outer`",
				"context", ctx.Name,
				"outer", tok.Name,
			)
		} else {
			sc.tr.Info(ctx.Name, "exiting `context`", "context", ctx.Name)
		}
	}
	sc.unwind(tok)
	ctx.state = ctxPopped
	return status
}

func (sc *Scope) unwind(tok *Context) {
	for len(sc.stack) > 0 {
		l := len(sc.stack) - 1
		if sc.stack[l] == tok {
			break
		}
		sc.stack = sc.stack[:l]
	}
	sc.top = tok
}

// In runs body within ctx. A mode-filtered context skips body entirely. On
// every exit path – including panics unwinding through body – everything
// spawned asynchronously inside the context is joined before In returns.
func (sc *Scope) In(ctx *Context, body func(*Scope)) (status int) {
	tok := sc.Push(ctx)
	if !sc.Proceed(tok) {
		return 0
	}
	defer func() { status |= sc.Pop(tok) }()
	body(sc)
	return status
}

// Sync runs body with a fresh process group as the spawn target and joins
// the group when body is done, independent of any context. This is the bare
// fork-join primitive contexts build on.
func (sc *Scope) Sync(body func(*Scope)) (status int) {
	sc.pushGroup()
	defer func() { status |= sc.popGroup() }()
	body(sc)
	return status
}

// Close joins all processes spawned at top level and checks that every
// context was popped. Build scripts call it once before exiting, [remk.Run]
// does so automatically.
func (sc *Scope) Close() (status int) {
	if sc.top != nil {
		sc.tr.Warn(sc.ctxName(), "closing scope with `count` unbalanced contexts",
			"count", len(sc.stack),
		)
		for sc.top != nil {
			var tok *Context
			if l := len(sc.stack); l > 1 {
				tok = sc.stack[l-2]
			}
			status |= sc.Pop(tok)
		}
	}
	for len(sc.groups) > 0 {
		status |= sc.popGroup()
	}
	return status
}

// group returns the innermost open group, lazily creating the scope's
// top-level group.
func (sc *Scope) group() *Group {
	if len(sc.groups) == 0 {
		sc.groups = append(sc.groups, NewGroup())
	}
	return sc.groups[len(sc.groups)-1]
}

func (sc *Scope) pushGroup() *Group {
	g := NewGroup()
	sc.groups = append(sc.groups, g)
	return g
}

func (sc *Scope) popGroup() int {
	if len(sc.groups) == 0 {
		return 0
	}
	l := len(sc.groups) - 1
	g := sc.groups[l]
	sc.groups = sc.groups[:l]
	return g.Join()
}
