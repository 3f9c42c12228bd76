package remkore

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Proc is the handle of one spawned child process.
type Proc struct {
	cmd    *exec.Cmd
	tr     Tracer
	ctx    string // name of the build context active at spawn time
	waited bool
}

// ErrDoubleWait is returned when a process is waited for a second time.
// The classic C libraries leave this undefined, here it is a checked error.
var ErrDoubleWait = errors.New("process already waited for")

func (p *Proc) Pid() int { return p.cmd.Process.Pid }

func (p *Proc) String() string { return p.cmd.String() }

// Wait blocks until the process terminates. A normal exit yields the exit
// status of the process. Termination by a signal yields the signal number
// and an error trace naming the signal.
func (p *Proc) Wait() (int, error) {
	if p == nil {
		return 0, errors.New("wait on invalid process handle")
	}
	if p.waited {
		return 0, ErrDoubleWait
	}
	p.waited = true
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var xerr *exec.ExitError
	if !errors.As(err, &xerr) {
		return -1, err
	}
	if ws, ok := xerr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		p.tr.Error(p.ctx, "process `pid` received signal `signal`",
			"pid", p.cmd.Process.Pid,
			"signal", unix.SignalName(sig),
		)
		return int(sig), nil
	}
	return xerr.ExitCode(), nil
}

// Start spawns argv[0] with the argument vector argv asynchronously and adds
// the process to the innermost open group of sc, so that leaving the current
// context or sync block joins it. argv[0] is resolved through PATH unless it
// contains a path separator, then it is used as the executable path verbatim.
//
// Spawn failures never abort the build script: they are traced as errors and
// yield a nil handle, which group membership silently drops.
func (sc *Scope) Start(argv ...string) *Proc {
	p := sc.spawn(argv)
	sc.group().Add(p)
	return p
}

// Run spawns like [Scope.Start] but waits for the process and returns its
// exit status (or signal number). A failed spawn returns -1.
func (sc *Scope) Run(argv ...string) int {
	p := sc.spawn(argv)
	if p == nil {
		return -1
	}
	code, err := p.Wait()
	if err != nil {
		sc.tr.Error(sc.ctxName(), "waiting for `cmd` failed with `error`",
			"cmd", p.String(),
			"error", err,
		)
		return -1
	}
	return code
}

func (sc *Scope) spawn(argv []string) *Proc {
	if len(argv) == 0 || argv[0] == "" {
		sc.tr.Error(sc.ctxName(), "spawn without a command")
		return nil
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		sc.tr.Error(sc.ctxName(), "cannot run `exe` with `error`",
			"exe", argv[0],
			"error", err,
		)
		return nil
	}
	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Stdin:  sc.in,
		Stdout: sc.out,
		Stderr: sc.err,
	}
	if name := sc.ctxName(); name != "" && sc.prefix {
		cmd.Stdout = NewPrefixWriterString(sc.out, name+": ")
		cmd.Stderr = NewPrefixWriterString(sc.err, name+": ")
	}
	if err := cmd.Start(); err != nil {
		sc.tr.Error(sc.ctxName(), "starting `cmd` failed with `error`",
			"cmd", cmd.String(),
			"error", err,
		)
		return nil
	}
	return &Proc{cmd: cmd, tr: sc.tr, ctx: sc.ctxName()}
}
