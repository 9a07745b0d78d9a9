package tax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingSink struct {
	events []string
}

func (s *countingSink) Record(_ context.Context, event string) {
	s.events = append(s.events, event)
}

func TestRecorder_Disabled(t *testing.T) {
	sink := &countingSink{}
	r := NewRecorder(sink, DiagnosticsConfig{DebugEnabled: false})

	r.Record(context.Background(), "one")
	r.Record(context.Background(), "two")

	assert.Empty(t, sink.events)
	assert.Equal(t, 0, r.Count())
	assert.False(t, r.Enabled())
}

func TestRecorder_EnabledKeepsOrder(t *testing.T) {
	sink := &countingSink{}
	r := NewRecorder(sink, DiagnosticsConfig{DebugEnabled: true})

	r.Record(context.Background(), "one")
	r.Record(context.Background(), "two")

	assert.Equal(t, []string{"one", "two"}, sink.events)
	assert.Equal(t, 2, r.Count())
}

func TestRecorder_NilSink(t *testing.T) {
	r := NewRecorder(nil, DiagnosticsConfig{DebugEnabled: true})
	r.Record(context.Background(), "dropped")
	assert.Equal(t, 1, r.Count())
}
