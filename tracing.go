package remk

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"git.fractalqb.de/fractalqb/remk/remkore"
)

var ctxStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// DefaultTracer writes colored, severity-prefixed diagnostics. Lines traced
// from within a build context carry the context's name as prefix.
type DefaultTracer struct {
	l *log.Logger
}

var _ remkore.Tracer = (*DefaultTracer)(nil)

func NewDefaultTracer() *DefaultTracer { return NewTracer(os.Stderr) }

func NewTracer(w io.Writer) *DefaultTracer {
	return &DefaultTracer{l: log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
	})}
}

// ParseLevelFlag sets the trace level from a flag value like "debug" or
// "warn". Unparsable values are reported and leave the level unchanged.
func (tr *DefaultTracer) ParseLevelFlag(flag string) {
	if flag == "" {
		return
	}
	lvl, err := log.ParseLevel(flag)
	if err != nil {
		tr.l.Error("unknown trace level", "level", flag)
		return
	}
	tr.l.SetLevel(lvl)
}

func (tr *DefaultTracer) Info(ctx, msg string, args ...any) {
	tr.at(ctx).Info(msg, args...)
}

func (tr *DefaultTracer) Warn(ctx, msg string, args ...any) {
	tr.at(ctx).Warn(msg, args...)
}

func (tr *DefaultTracer) Error(ctx, msg string, args ...any) {
	tr.at(ctx).Error(msg, args...)
}

func (tr *DefaultTracer) at(ctx string) *log.Logger {
	if ctx == "" {
		return tr.l
	}
	return tr.l.WithPrefix(ctxStyle.Render(ctx))
}
