package ui

import (
	"github.com/pollsterfm/pollster/internal/catalog"
)

// chainResolvedMsg is emitted when a catalog chain resolution finishes.
type chainResolvedMsg struct {
	chain *catalog.ChainResult
	err   error
}

// errMsg wraps an error for display in the status line.
type errMsg struct {
	err error
}
