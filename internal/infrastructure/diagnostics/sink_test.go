package diagnostics

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taxbridge/backend/internal/domain/tax"
)

func TestHostChannelSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewHostChannelSink(zap.New(core))

	sink.Record(context.Background(), "OrderID=1001\nTaxableAmount=0")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "storefront", entry.LoggerName)
	assert.Equal(t, "OrderID=1001 TaxableAmount=0", entry.Message)
}

func TestFanOutSink_Order(t *testing.T) {
	a, b := NewMemorySink(), NewMemorySink()
	var order []string
	var mu sync.Mutex
	tracker := sinkFunc(func(_ context.Context, e string) {
		mu.Lock()
		order = append(order, e)
		mu.Unlock()
	})

	fan := NewFanOutSink(a, nil, tracker, b)
	require.Len(t, fan, 3)

	fan.Record(context.Background(), "one")
	fan.Record(context.Background(), "two")

	assert.Equal(t, []string{"one", "two"}, a.Events())
	assert.Equal(t, []string{"one", "two"}, b.Events())
	assert.Equal(t, []string{"one", "two"}, order)
}

func TestMemorySink_Concurrent(t *testing.T) {
	m := NewMemorySink()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(context.Background(), "e")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}

func TestRecorderWithFanOut_DisabledDoesNoIO(t *testing.T) {
	mem := NewMemorySink()
	file := NewFileSink(FileSinkConfig{BasePath: t.TempDir(), Resolver: stubResolver{name: "s"}})
	r := tax.NewRecorder(NewFanOutSink(mem, file), tax.DiagnosticsConfig{DebugEnabled: false})

	r.Record(context.Background(), "nothing")

	assert.Equal(t, 0, mem.Len())
	_, err := os.Stat(file.Path(context.Background(), file.now()))
	assert.True(t, os.IsNotExist(err))
}

type sinkFunc func(ctx context.Context, event string)

func (f sinkFunc) Record(ctx context.Context, event string) { f(ctx, event) }
