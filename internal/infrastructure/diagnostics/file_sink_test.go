package diagnostics

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubResolver struct {
	name string
	err  error
}

func (s stubResolver) StoreName(context.Context) (string, error) {
	return s.name, s.err
}

func at(hour, min, sec int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 10, 19, hour, min, sec, 0, time.Local)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestLogFileName(t *testing.T) {
	assert.Equal(t, "Avalara_Extension_Log_File_10192026.txt", LogFileName(at(0, 0, 0)()))
	assert.Equal(t, "Avalara_Extension_Log_File_01022026.txt",
		LogFileName(time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local)))
}

func TestFormatLine(t *testing.T) {
	assert.Equal(t, "Time: 14:05:09 PM:  Message: hello\n", FormatLine(at(14, 5, 9)(), "hello"))
	assert.Equal(t, "Time: 08:00:00 AM:  Message: a b\n", FormatLine(at(8, 0, 0)(), "a\nb"))
}

func TestFileSink_Record(t *testing.T) {
	base := t.TempDir()
	sink := NewFileSink(FileSinkConfig{
		BasePath: base,
		Resolver: stubResolver{name: "AcmeStore"},
		Now:      at(9, 15, 0),
	})

	ctx := context.Background()
	sink.Record(ctx, "first")
	sink.Record(ctx, "second")

	path := filepath.Join(base, "AcmeStore", "Logs", "Avalara_Extension_Log_File_10192026.txt")
	assert.Equal(t, path, sink.Path(ctx, at(9, 15, 0)()))
	assert.Equal(t, []string{
		"Time: 09:15:00 AM:  Message: first",
		"Time: 09:15:00 AM:  Message: second",
	}, readLines(t, path))
}

func TestFileSink_StoreNameFallback(t *testing.T) {
	tests := []struct {
		name     string
		resolver StoreNameResolver
		want     string
	}{
		{"no resolver", nil, "fallback"},
		{"resolver error", stubResolver{err: errors.New("db down")}, "fallback"},
		{"empty name", stubResolver{}, "fallback"},
		{"path separators", stubResolver{name: "../etc/x"}, ".._etc_x"},
		{"dot dot", stubResolver{name: ".."}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := NewFileSink(FileSinkConfig{
				BasePath:      "/deployments",
				FallbackStore: "fallback",
				Resolver:      tt.resolver,
				Now:           at(0, 0, 0),
			})
			got := sink.Path(context.Background(), at(0, 0, 0)())
			assert.Equal(t, filepath.Join("/deployments", tt.want, "Logs", "Avalara_Extension_Log_File_10192026.txt"), got)
		})
	}
}

func TestFileSink_WriteFailureIsSwallowed(t *testing.T) {
	// a regular file where the deployments directory should be
	base := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	sink := NewFileSink(FileSinkConfig{
		BasePath: base,
		Logger:   zap.New(core),
		Now:      at(0, 0, 0),
	})

	assert.NotPanics(t, func() {
		sink.Record(context.Background(), "lost")
	})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to write diagnostics log line", logs.All()[0].Message)
}

func TestFileSink_ConcurrentAppends(t *testing.T) {
	base := t.TempDir()
	sink := NewFileSink(FileSinkConfig{
		BasePath: base,
		Resolver: stubResolver{name: "store"},
		Now:      at(12, 0, 0),
	})

	const workers, perWorker = 16, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				sink.Record(context.Background(), fmt.Sprintf("worker=%d seq=%d", w, i))
			}
		}(w)
	}
	wg.Wait()

	lines := readLines(t, sink.Path(context.Background(), at(12, 0, 0)()))
	require.Len(t, lines, workers*perWorker)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "Time: 12:00:00 PM:  Message: worker="), line)
	}
}

func TestFieldStoreName(t *testing.T) {
	name := "AcmeStore"
	reader := &stubFieldReader{values: map[string]*string{"SystemProperty/StorefrontName/": &name}}

	got, err := FieldStoreName{Reader: reader}.StoreName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AcmeStore", got)

	got, err = FieldStoreName{Reader: &stubFieldReader{}}.StoreName(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

type stubFieldReader struct {
	values map[string]*string
}

func (s *stubFieldReader) GetValue(_ context.Context, category, name, orderID string) (*string, error) {
	return s.values[category+"/"+name+"/"+orderID], nil
}
