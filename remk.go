package remk

import (
	"os"
	"runtime"

	"git.fractalqb.de/fractalqb/remk/remkore"
)

type (
	OptionSpec   = remkore.OptionSpec
	ParsedOption = remkore.ParsedOption
	Args         = remkore.Args
	Context      = remkore.Context
	Scope        = remkore.Scope
	Tracer       = remkore.Tracer
)

// Script declares a build script: its source file for the self-rebuild, the
// options it understands and the build entry point.
type Script struct {
	// Source is the script's own source file. [Main] defaults it to the file
	// of its caller. Empty in [Run] disables the self-rebuild.
	Source string
	// Mode is the initial build mode contexts are filtered against.
	Mode string
	// Options is the fixed option table argv is parsed against.
	Options []OptionSpec
	// Compilers overrides the compiler candidates probed for the rebuild.
	Compilers []string
	// Tracer defaults to [NewDefaultTracer].
	Tracer Tracer
	// Run is the build entry point. Its return value becomes the script's
	// exit code.
	Run func(sc *Scope, args *Args) int
}

// Main runs the script and exits the process: with 1 when the self-rebuild
// or the argument parsing fails, otherwise with the entry point's return.
// On a successful self-rebuild Main never returns at all – the process image
// is replaced by the freshly built executable.
func Main(s Script) {
	if s.Source == "" {
		if _, file, _, ok := runtime.Caller(1); ok {
			s.Source = file
		}
	}
	os.Exit(Run(s))
}

// Run is [Main] without the process exit, which also makes build scripts
// testable. It does not default Source.
func Run(s Script) int { return run(s, os.Args) }

func run(s Script, argv []string) int {
	tr := s.Tracer
	if tr == nil {
		tr = NewDefaultTracer()
	}
	boot := remkore.Boot{
		Source:    s.Source,
		Compilers: s.Compilers,
		Tracer:    tr,
	}
	if err := boot.Refresh(argv); err != nil {
		tr.Error("", "bootstrap failed with `error`", "error", err)
		return 1
	}
	args, err := remkore.Parse(argv, s.Options)
	if err != nil {
		tr.Error("", err.Error())
		return 1
	}
	if s.Run == nil {
		return 0
	}
	var prog string
	if len(argv) > 0 {
		prog = argv[0]
	}
	sc := remkore.NewScope(prog, s.Mode, tr)
	code := s.Run(sc, args)
	return code | sc.Close()
}
