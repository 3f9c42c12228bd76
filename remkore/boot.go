package remkore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultCompilers are the candidate names probed through PATH to rebuild a
// stale build script, in order.
var DefaultCompilers = []string{"go", "gotip"}

type NoCompilerError struct{ Tried []string }

func (e NoCompilerError) Error() string {
	return "no host compiler found, tried: " + strings.Join(e.Tried, ", ")
}

func (NoCompilerError) Is(target error) bool {
	_, ok := target.(NoCompilerError)
	return ok
}

type RecompileError struct {
	Compiler string
	Status   int
}

func (e RecompileError) Error() string {
	return fmt.Sprintf("%s failed to recompile build script with status %d",
		e.Compiler,
		e.Status,
	)
}

func (RecompileError) Is(target error) bool {
	_, ok := target.(RecompileError)
	return ok
}

// Boot rebuilds and re-executes a build script whose source is newer than
// the executable currently running it.
type Boot struct {
	// Exe is the running executable, defaulting to argv[0] of Refresh.
	Exe string
	// Source is the build script source file. Without a source the staleness
	// check is skipped and Refresh is a no-op.
	Source string
	// Compilers overrides [DefaultCompilers].
	Compilers []string
	// CompileArgs builds the arguments passed to the compiler. The default
	// produces `build -o <exe> <source>` for the Go toolchain.
	CompileArgs func(compiler, exe, source string) []string

	Tracer Tracer
}

// Refresh checks whether the running executable is stale against the declared
// source. If it is, Refresh recompiles the executable in place and replaces
// the current process image with it, passing argv through unchanged – on that
// path Refresh does not return. When the executable is up to date Refresh
// returns nil and the build script just keeps running.
//
// Errors from Refresh – no compiler in PATH, compiler failure, failed image
// replacement – are fatal to the build script: running stale build logic is
// worse than not building at all.
func (b *Boot) Refresh(argv []string) error {
	tr := tracerOrNop(b.Tracer)
	exe := b.Exe
	if exe == "" && len(argv) > 0 {
		exe = argv[0]
	}
	if b.Source == "" || !IsStale(b.Source, exe) {
		return nil
	}
	tr.Info("", "build script is newer than the current executable, recompiling…")

	cc := b.lookupCompiler()
	if cc == "" {
		return NoCompilerError{Tried: b.compilers()}
	}
	compile := exec.Command(cc, b.compileArgs(cc, exe)...)
	compile.Stdout, compile.Stderr = os.Stdout, os.Stderr
	if err := compile.Run(); err != nil {
		if xerr, ok := err.(*exec.ExitError); ok {
			return RecompileError{Compiler: cc, Status: xerr.ExitCode()}
		}
		return fmt.Errorf("recompiling build script: %w", err)
	}

	tr.Info("", "re-running build script…")
	tr.Info("", "--------------------------------")
	if err := unix.Exec(exe, argv, os.Environ()); err != nil {
		return fmt.Errorf("relaunching %s: %w", exe, err)
	}
	return nil // not reached, Exec replaces the process image
}

func (b *Boot) compilers() []string {
	if len(b.Compilers) > 0 {
		return b.Compilers
	}
	return DefaultCompilers
}

func (b *Boot) lookupCompiler() string {
	for _, c := range b.compilers() {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}

func (b *Boot) compileArgs(compiler, exe string) []string {
	if b.CompileArgs != nil {
		return b.CompileArgs(compiler, exe, b.Source)
	}
	return []string{"build", "-o", exe, b.Source}
}

// IsStale reports whether target needs a rebuild because source changed
// after target was built. It fails open: when either file cannot be stat'ed
// it returns false, so that e.g. a packaged executable without its source
// keeps running instead of blocking the build.
func IsStale(source, target string) bool {
	src, err := os.Stat(source)
	if err != nil {
		return false
	}
	tgt, err := os.Stat(target)
	if err != nil {
		return false
	}
	return src.ModTime().After(tgt.ModTime())
}
