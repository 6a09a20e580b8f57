// Package dgsocket builds a graph.Deferred from the first message a
// socket.io server sends on a named event, so a graph's async node kind
// can represent a value that arrives over the network rather than through
// Run's inputs. The returned Deferred settles once and disconnects itself
// on either the awaited event or a connection error - there is no
// separate lifecycle to close down.
package dgsocket

import (
	"crypto/tls"
	"fmt"
	"net/url"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/dgraph/internal/graph"
	"github.com/vk/dgraph/internal/pathval"
)

// Source names one socket.io event to wait on for a single value.
type Source struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// Listen connects to src.URL and returns a Deferred that settles with the
// first payload of src.Event, or with a connection error. The event
// payload is decoded the same way a JSON input value would be, so an
// async node fed this Deferred behaves like any other resolved node.
// Listen returns immediately; connection and event delivery happen on the
// socket.io client's own goroutines.
func Listen(src Source) (*graph.PromiseDeferred, error) {
	parsed, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("dgsocket: invalid url %q: %w", src.URL, err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsed.Path)
	if src.InsecureSkipVerify {
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(src.Namespace, opts)

	deferred := graph.NewDeferred()

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		defer io.Disconnect()
		deferred.Reject(connectError(src.URL, errs))
	})

	io.Once(types.EventName(src.Event), func(args ...any) {
		defer io.Disconnect()

		var payload any
		if len(args) == 1 {
			payload = args[0]
		} else {
			payload = args
		}
		v, err := pathval.FromInterface(payload)
		if err != nil {
			deferred.Reject(fmt.Errorf("dgsocket: decoding %q payload: %w", src.Event, err))
			return
		}
		deferred.Resolve(v)
	})

	io.Connect()
	return deferred, nil
}

func connectError(rawURL string, errs []any) error {
	if len(errs) == 0 {
		return fmt.Errorf("dgsocket: connection to %s failed", rawURL)
	}
	if err, ok := errs[0].(error); ok {
		return fmt.Errorf("dgsocket: connection to %s failed: %w", rawURL, err)
	}
	return fmt.Errorf("dgsocket: connection to %s failed: %v", rawURL, errs[0])
}
