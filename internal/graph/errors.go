package graph

import (
	"fmt"

	"github.com/vk/dgraph/internal/dgerr"
)

func declErr(node, msg string) error {
	return &dgerr.DeclarationError{Node: node, Msg: msg}
}

func declErrf(node, format string, args ...any) error {
	return &dgerr.DeclarationError{Node: node, Msg: fmt.Sprintf(format, args...)}
}
