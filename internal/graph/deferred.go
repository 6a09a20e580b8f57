package graph

import (
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Deferred is a single-shot eventual value: exactly one of Resolve or
// Reject may ever be called on the underlying implementation, and Then
// callbacks registered before or after settlement always fire exactly
// once. Run accepts a Deferred as an input value to model an input that
// arrives asynchronously (a webhook payload, a timer, an external call).
type Deferred interface {
	Then(onValue func(cty.Value), onError func(error))
}

// PromiseDeferred is the concrete Deferred used by Run and by the async
// node kind.
type PromiseDeferred struct {
	mu       sync.Mutex
	settled  bool
	value    cty.Value
	err      error
	onValue  []func(cty.Value)
	onError  []func(error)
}

// NewDeferred returns an unsettled PromiseDeferred.
func NewDeferred() *PromiseDeferred {
	return &PromiseDeferred{}
}

// Resolve settles the deferred with a value. Calling it more than once,
// or after Reject, has no effect.
func (d *PromiseDeferred) Resolve(v cty.Value) {
	d.settle(v, nil)
}

// Reject settles the deferred with a failure. Calling it more than once,
// or after Resolve, has no effect.
func (d *PromiseDeferred) Reject(err error) {
	d.settle(cty.NilVal, err)
}

func (d *PromiseDeferred) settle(v cty.Value, err error) {
	d.mu.Lock()
	if d.settled {
		d.mu.Unlock()
		return
	}
	d.settled = true
	d.value, d.err = v, err
	onValue, onError := d.onValue, d.onError
	d.onValue, d.onError = nil, nil
	d.mu.Unlock()

	if err != nil {
		for _, cb := range onError {
			cb(err)
		}
		return
	}
	for _, cb := range onValue {
		cb(v)
	}
}

// Then registers callbacks to run on settlement. If the deferred already
// settled, the appropriate callback runs synchronously before Then
// returns.
func (d *PromiseDeferred) Then(onValue func(cty.Value), onError func(error)) {
	d.mu.Lock()
	if d.settled {
		v, err := d.value, d.err
		d.mu.Unlock()
		if err != nil {
			onError(err)
		} else {
			onValue(v)
		}
		return
	}
	d.onValue = append(d.onValue, onValue)
	d.onError = append(d.onError, onError)
	d.mu.Unlock()
}
