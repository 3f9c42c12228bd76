package remkore

import (
	"github.com/bits-and-blooms/bitset"
)

// Group collects the processes launched in one synchronization scope. It is
// append-only until [Group.Join] drains it. Groups are not safe for
// concurrent use – a scope is driven by one thread of control.
type Group struct {
	procs   []*Proc
	reaped  *bitset.BitSet
	drained bool
}

func NewGroup() *Group { return new(Group) }

func (g *Group) Len() int { return len(g.procs) }

func (g *Group) Drained() bool { return g.drained }

// Add appends p to the group. Nil handles from failed spawns are dropped.
// Adding to a drained group is caller misuse and is dropped with a trace.
func (g *Group) Add(p *Proc) {
	if p == nil {
		return
	}
	if g.drained {
		p.tr.Warn(p.ctx, "dropping process `pid` added to drained group", "pid", p.Pid())
		return
	}
	g.procs = append(g.procs, p)
}

// Join blocks until every process in the group has terminated. The aggregate
// status is the bitwise OR of all exit and signal codes: any failing child
// makes the aggregate nonzero, but which child failed is only traced at the
// time of detection, not preserved in the result. Members that were already
// reaped – e.g. by an earlier Join – are skipped.
func (g *Group) Join() (status int) {
	if g.reaped == nil {
		g.reaped = bitset.New(uint(len(g.procs)))
	}
	for i, p := range g.procs {
		if g.reaped.Test(uint(i)) {
			continue
		}
		g.reaped.Set(uint(i))
		code, err := p.Wait()
		if err != nil {
			p.tr.Error(p.ctx, "waiting for `cmd` failed with `error`",
				"cmd", p.String(),
				"error", err,
			)
			continue
		}
		if code != 0 {
			p.tr.Error(p.ctx, "process `pid` of `cmd` exited with `status`",
				"pid", p.Pid(),
				"cmd", p.String(),
				"status", code,
			)
		}
		status |= code
	}
	g.drained = true
	return status
}
