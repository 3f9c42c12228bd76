package remkore

import (
	"fmt"
	"slices"
	"testing"
)

// recTracer records traces for order assertions.
type recTracer struct{ events []string }

func (tr *recTracer) Info(ctx, msg string, args ...any) { tr.rec("info", ctx, msg) }
func (tr *recTracer) Warn(ctx, msg string, args ...any) { tr.rec("warn", ctx, msg) }

func (tr *recTracer) Error(ctx, msg string, args ...any) { tr.rec("error", ctx, msg) }

func (tr *recTracer) rec(lvl, ctx, msg string) {
	tr.events = append(tr.events, fmt.Sprintf("%s/%s: %s", lvl, ctx, msg))
}

func TestScopeIn_traceOrder(t *testing.T) {
	var tr recTracer
	sc := NewScope("mk", "", &tr)
	status := sc.In(&Context{Name: "compile"}, func(sc *Scope) {
		sc.Start("true")
		sc.Start("true")
	})
	if status != 0 {
		t.Errorf("aggregate status %d, want 0", status)
	}
	want := []string{
		"info/compile: entering `context`",
		"info/compile: exiting `context`",
	}
	if !slices.Equal(tr.events, want) {
		t.Errorf("traced %q, want %q", tr.events, want)
	}
	if sc.Active() != nil {
		t.Error("scope still has an active context")
	}
}

func TestScopeIn_siblingsDontInterleave(t *testing.T) {
	var tr recTracer
	sc := NewScope("mk", "", &tr)
	sc.In(&Context{Name: "one"}, func(sc *Scope) { sc.Start("true") })
	sc.In(&Context{Name: "two"}, func(sc *Scope) { sc.Start("true") })
	want := []string{
		"info/one: entering `context`",
		"info/one: exiting `context`",
		"info/two: entering `context`",
		"info/two: exiting `context`",
	}
	if !slices.Equal(tr.events, want) {
		t.Errorf("traced %q, want %q", tr.events, want)
	}
}

func TestScopeIn_modeFilter(t *testing.T) {
	var tr recTracer
	sc := NewScope("mk", "debug", &tr)
	ran := false
	status := sc.In(&Context{Name: "dist", Mode: "release"}, func(*Scope) { ran = true })
	if ran {
		t.Error("body of mode-filtered context ran")
	}
	if status != 0 {
		t.Errorf("skipped context yields status %d, want 0", status)
	}
	if len(tr.events) != 0 {
		t.Errorf("skipped context traced %q", tr.events)
	}
	if sc.Active() != nil {
		t.Error("skipped context was not popped")
	}

	sc.In(&Context{Name: "dbg", Mode: "debug"}, func(*Scope) { ran = true })
	if !ran {
		t.Error("body of matching context did not run")
	}
}

func TestScopeIn_nesting(t *testing.T) {
	var tr recTracer
	sc := NewScope("mk", "", &tr)
	sc.In(&Context{Name: "outer"}, func(sc *Scope) {
		sc.In(&Context{Name: "inner"}, func(sc *Scope) {})
	})
	want := []string{
		"info/outer: entering `context`",
		"info/inner: entering `context`",
		"info/inner: exiting `context`, returning to `outer`",
		"info/outer: exiting `context`",
	}
	if !slices.Equal(tr.events, want) {
		t.Errorf("traced %q, want %q", tr.events, want)
	}
}

func TestScopePush_unnamedContext(t *testing.T) {
	var tr recTracer
	sc := NewScope("mk", "", &tr)
	ctx := Context{}
	tok := sc.Push(&ctx)
	if ctx.Name != unnamedContext {
		t.Errorf("context name not defaulted, got '%s'", ctx.Name)
	}
	if len(tr.events) != 1 || tr.events[0] != "warn/: build context created without name" {
		t.Errorf("missing warning, traced %q", tr.events)
	}
	if !sc.Proceed(tok) {
		t.Error("unnamed context must still proceed")
	}
	sc.Pop(tok)
}

func TestScopeIn_joinsBeforePanicUnwinds(t *testing.T) {
	var tr recTracer
	sc := NewScope("mk", "", &tr)
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic did not propagate")
			}
		}()
		sc.In(&Context{Name: "boom"}, func(sc *Scope) {
			sc.Start("true")
			panic("boom")
		})
	}()
	if sc.Active() != nil {
		t.Error("context not popped on panic path")
	}
	last := tr.events[len(tr.events)-1]
	if last != "info/boom: exiting `context`" {
		t.Errorf("last trace is %q", last)
	}
}

func TestScopeClose_unbalanced(t *testing.T) {
	var tr recTracer
	sc := NewScope("mk", "", &tr)
	tok := sc.Push(&Context{Name: "left-open"})
	if !sc.Proceed(tok) {
		t.Fatal("cannot enter context")
	}
	sc.Close()
	if sc.Active() != nil {
		t.Error("Close left a context active")
	}
	if !slices.Contains(tr.events, "warn/left-open: closing scope with `count` unbalanced contexts") {
		t.Errorf("missing unbalance warning in %q", tr.events)
	}
}
