package dgsocket_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/dgsocket"
)

// listenAndAwait wires src through Listen and blocks until the returned
// Deferred settles, or the timeout elapses.
func listenAndAwait(t *testing.T, src dgsocket.Source, timeout time.Duration) (cty.Value, error) {
	t.Helper()

	deferred, err := dgsocket.Listen(src)
	require.NoError(t, err)

	type result struct {
		v   cty.Value
		err error
	}
	done := make(chan result, 1)
	deferred.Then(
		func(v cty.Value) { done <- result{v: v} },
		func(err error) { done <- result{err: err} },
	)

	select {
	case r := <-done:
		return r.v, r.err
	case <-time.After(timeout):
		t.Fatal("deferred never settled")
		return cty.NilVal, nil
	}
}

func TestListenRejectsOnUnreachableServer(t *testing.T) {
	_, err := listenAndAwait(t, dgsocket.Source{
		URL:   "http://127.0.0.1:1",
		Event: "value",
	}, 5*time.Second)

	require.Error(t, err)
}

func TestListenRejectsMalformedURL(t *testing.T) {
	_, err := dgsocket.Listen(dgsocket.Source{
		URL:   "://not-a-url",
		Event: "value",
	})

	require.Error(t, err)
}
