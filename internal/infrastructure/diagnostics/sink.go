// Package diagnostics implements the destinations of the tax calculation trace.
package diagnostics

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/logger"
)

// HostChannelName names the logger that stands in for the storefront log channel.
const HostChannelName = "storefront"

// HostChannelSink writes events to the host platform log channel.
type HostChannelSink struct {
	logger *zap.Logger
}

// NewHostChannelSink creates a sink on a child of l
func NewHostChannelSink(l *zap.Logger) *HostChannelSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &HostChannelSink{logger: l.Named(HostChannelName)}
}

// Record implements tax.DiagnosticsSink
func (s *HostChannelSink) Record(ctx context.Context, event string) {
	logger.Traced(ctx, s.logger).Info(singleLine(event))
}

// FanOutSink sends each event to every child in order.
type FanOutSink []tax.DiagnosticsSink

// NewFanOutSink drops nil children
func NewFanOutSink(sinks ...tax.DiagnosticsSink) FanOutSink {
	out := make(FanOutSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Record implements tax.DiagnosticsSink
func (f FanOutSink) Record(ctx context.Context, event string) {
	for _, s := range f {
		s.Record(ctx, event)
	}
}

// MemorySink keeps events in memory. It is safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []string
}

// NewMemorySink creates an empty sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record implements tax.DiagnosticsSink
func (m *MemorySink) Record(_ context.Context, event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events
func (m *MemorySink) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}

// Len returns the number of recorded events
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// singleLine keeps one event on one line of output.
func singleLine(event string) string {
	return lineBreaks.Replace(event)
}
