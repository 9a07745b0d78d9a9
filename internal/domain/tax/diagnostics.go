package tax

import "context"

// DiagnosticsSink receives the diagnostic trace of a calculation.
// Record never fails from the caller's point of view; sinks handle their own
// write errors.
type DiagnosticsSink interface {
	Record(ctx context.Context, event string)
}

// NopSink discards every event
type NopSink struct{}

// Record implements DiagnosticsSink
func (NopSink) Record(context.Context, string) {}

// Recorder gates a sink with the diagnostics switch of one invocation.
// When diagnostics are disabled nothing reaches the sink.
type Recorder struct {
	sink    DiagnosticsSink
	enabled bool
	count   int
}

// NewRecorder creates a recorder for a single invocation
func NewRecorder(sink DiagnosticsSink, cfg DiagnosticsConfig) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}
	return &Recorder{sink: sink, enabled: cfg.DebugEnabled}
}

// Record forwards the event when diagnostics are enabled
func (r *Recorder) Record(ctx context.Context, event string) {
	if !r.enabled {
		return
	}
	r.count++
	r.sink.Record(ctx, event)
}

// Enabled reports whether events are forwarded
func (r *Recorder) Enabled() bool { return r.enabled }

// Count returns the number of forwarded events
func (r *Recorder) Count() int { return r.count }
