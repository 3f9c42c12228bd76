package remk

import (
	"testing"
)

func TestRun_entryPointGetsParsedArgs(t *testing.T) {
	var got *Args
	code := run(Script{
		Options: []OptionSpec{
			{Long: "verbose", Short: 'v', Toggle: true},
			{Long: "output", Short: 'o', HasValue: true},
		},
		Tracer: TestTracer{t},
		Run: func(sc *Scope, args *Args) int {
			got = args
			return 0
		},
	}, []string{"mk", "-vo", "out.bin", "extra"})
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if got == nil {
		t.Fatal("entry point not invoked")
	}
	if len(got.Options) != 2 || got.Options[1].Value != "out.bin" {
		t.Errorf("unexpected options %+v", got.Options)
	}
	if len(got.Rest) != 1 || got.Rest[0] != "extra" {
		t.Errorf("unexpected residual %v", got.Rest)
	}
}

func TestRun_parserErrorIsFatal(t *testing.T) {
	code := run(Script{
		Tracer: TestTracer{t},
		Run: func(sc *Scope, args *Args) int {
			t.Error("entry point ran despite parser error")
			return 0
		},
	}, []string{"mk", "--nope"})
	if code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
}

func TestRun_entryCodeBecomesExitCode(t *testing.T) {
	code := run(Script{
		Tracer: TestTracer{t},
		Run:    func(sc *Scope, args *Args) int { return 3 },
	}, []string{"mk"})
	if code != 3 {
		t.Errorf("exit code %d, want 3", code)
	}
}

func TestRun_closeJoinsTopLevelSpawns(t *testing.T) {
	code := run(Script{
		Tracer: TestTracer{t},
		Run: func(sc *Scope, args *Args) int {
			sc.Start("sh", "-c", "exit 3")
			return 0
		},
	}, []string{"mk"})
	if code != 3 {
		t.Errorf("exit code %d, want 3", code)
	}
}

func TestRun_buildModeReachesContexts(t *testing.T) {
	ran := ""
	run(Script{
		Mode:   "release",
		Tracer: TestTracer{t},
		Run: func(sc *Scope, args *Args) int {
			sc.In(&Context{Name: "dbg", Mode: "debug"}, func(*Scope) { ran += "dbg" })
			sc.In(&Context{Name: "rel", Mode: "release"}, func(*Scope) { ran += "rel" })
			return 0
		},
	}, []string{"mk"})
	if ran != "rel" {
		t.Errorf("ran %q, want \"rel\"", ran)
	}
}
