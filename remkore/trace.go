package remkore

// Tracer receives the diagnostics of scopes, process groups and the
// bootstrap. ctx names the active build context and is empty at top level.
// Messages use `backquoted` placeholders with key/value args, so that
// implementations can feed them to structured loggers as is.
type Tracer interface {
	Info(ctx, msg string, args ...any)
	Warn(ctx, msg string, args ...any)
	Error(ctx, msg string, args ...any)
}

type nopTracer struct{}

func (nopTracer) Info(string, string, ...any)  {}
func (nopTracer) Warn(string, string, ...any)  {}
func (nopTracer) Error(string, string, ...any) {}

func tracerOrNop(tr Tracer) Tracer {
	if tr == nil {
		return nopTracer{}
	}
	return tr
}
