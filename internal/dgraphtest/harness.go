// Package dgraphtest provides a small harness for exercising graph
// evaluations from table-driven tests without repeating JSON-decoding and
// context-plumbing boilerplate in every _test.go file.
package dgraphtest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/dgraph/internal/graph"
)

// SafeBuffer is a thread-safe io.Writer for capturing log output from a
// graph run driven by multiple goroutines (subgraph fan-out, deferred
// inputs).
type SafeBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// RunJSON decodes declJSON into a declaration slice, builds a graph with
// opts, runs it with inputs, and returns the resulting state, the graph's
// captured debug log output, and any error. It fails the test immediately
// on a decode error, since that always indicates a broken test fixture
// rather than the behavior under test.
func RunJSON(t *testing.T, declJSON string, inputs map[string]any, opts ...graph.Option) (map[string]any, string, error) {
	t.Helper()

	var raw []any
	require.NoError(t, json.Unmarshal([]byte(declJSON), &raw))
	decls, err := DeclarationsFromRaw(raw)
	require.NoError(t, err)

	logBuf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]graph.Option{graph.WithLogger(logger)}, opts...)

	g, err := graph.New(decls, "root", nil, opts...)
	if err != nil {
		return nil, logBuf.String(), err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	state, err := g.Run(ctx, inputs)
	return state, logBuf.String(), err
}

// DeclarationsFromRaw converts decoded JSON array elements into
// graph.Declaration values.
func DeclarationsFromRaw(raw []any) ([]graph.Declaration, error) {
	out := make([]graph.Declaration, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, graph.Declaration(m))
	}
	return out, nil
}
