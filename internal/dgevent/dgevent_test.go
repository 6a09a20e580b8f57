package dgevent_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/dgraph/internal/dgevent"
)

func TestOnFiresEveryEmit(t *testing.T) {
	e := dgevent.NewEmitter()
	var calls []any
	e.On(dgevent.Resolved, func(payload any) { calls = append(calls, payload) })

	e.Emit(dgevent.Resolved, map[string]any{"a": 1})
	e.Emit(dgevent.Resolved, map[string]any{"a": 2})

	assert.Len(t, calls, 2)
}

func TestOnceFiresExactlyOnce(t *testing.T) {
	e := dgevent.NewEmitter()
	count := 0
	e.Once(dgevent.Connected, func(payload any) { count++ })

	e.Emit(dgevent.Connected, nil)
	e.Emit(dgevent.Connected, nil)

	assert.Equal(t, 1, count)
}

func TestOffRemovesSubscription(t *testing.T) {
	e := dgevent.NewEmitter()
	count := 0
	id := e.On(dgevent.Error, func(payload any) { count++ })
	e.Off(dgevent.Error, id)

	e.Emit(dgevent.Error, errors.New("boom"))

	assert.Equal(t, 0, count)
}

func TestEmitPassesPayloadUnchanged(t *testing.T) {
	e := dgevent.NewEmitter()
	var got any
	e.On(dgevent.Stepped, func(payload any) { got = payload })

	step := dgevent.StepPayload{State: map[string]any{"x": 1}, UndefinedPaths: []string{"y"}}
	e.Emit(dgevent.Stepped, step)

	assert.Equal(t, step, got)
}

func TestEmitWithNoSubscribersIsNoop(t *testing.T) {
	e := dgevent.NewEmitter()
	assert.NotPanics(t, func() { e.Emit(dgevent.Constructed, nil) })
}
