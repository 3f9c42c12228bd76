package remk

import (
	"testing"

	"git.fractalqb.de/fractalqb/remk/remkore"
)

type TestTracer struct{ T *testing.T }

var _ remkore.Tracer = TestTracer{}

func (tr TestTracer) Info(ctx, msg string, args ...any) { tr.log("INFO", ctx, msg, args) }
func (tr TestTracer) Warn(ctx, msg string, args ...any) { tr.log("WARN", ctx, msg, args) }

func (tr TestTracer) Error(ctx, msg string, args ...any) { tr.log("ERROR", ctx, msg, args) }

func (tr TestTracer) log(lvl, ctx, msg string, args []any) {
	if ctx == "" {
		tr.T.Logf("remk-%s: %s %v", lvl, msg, args)
	} else {
		tr.T.Logf("remk-%s: %s: %s %v", lvl, ctx, msg, args)
	}
}
