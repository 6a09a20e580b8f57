package dgerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/dgraph/internal/dgerr"
)

func TestDeclarationErrorMessage(t *testing.T) {
	err := &dgerr.DeclarationError{Node: "widget", Msg: "unknown kind"}
	assert.Equal(t, `declaration error in node "widget": unknown kind`, err.Error())
}

func TestMissingInputErrorMessage(t *testing.T) {
	err := &dgerr.MissingInputError{Name: "count"}
	assert.Equal(t, `missing required input "count"`, err.Error())
}

func TestResolutionErrorMessage(t *testing.T) {
	err := &dgerr.ResolutionError{Node: "n1", Path: "a.b", Msg: "not found"}
	assert.Equal(t, `could not resolve "a.b" for node "n1": not found`, err.Error())
}

func TestPathErrorMessage(t *testing.T) {
	err := &dgerr.PathError{Path: "a.*.*", Msg: "more than one wildcard"}
	assert.Equal(t, `invalid path "a.*.*": more than one wildcard`, err.Error())
}

func TestTransformErrorUnwrapsWrappedError(t *testing.T) {
	inner := errors.New("boom")
	err := &dgerr.TransformError{Function: "add", Err: inner}

	assert.Equal(t, `transform "add" failed: boom`, err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestTransformErrorWithoutWrappedError(t *testing.T) {
	err := &dgerr.TransformError{Function: "add", Msg: "bad shape"}
	assert.Equal(t, `transform "add" failed: bad shape`, err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestSyncRunTimeoutMessage(t *testing.T) {
	err := &dgerr.SyncRunTimeout{Graph: "root", After: "5s"}
	assert.Equal(t, `graph "root" run timed out after 5s`, err.Error())
}
