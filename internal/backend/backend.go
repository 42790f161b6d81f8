// Package backend turns generated C++ into a native program.
package backend

import (
	"context"
	"time"
)

// Backend builds and executes generated code.
type Backend interface {
	// Run builds source and executes the result.
	Run(ctx context.Context, source string) (*Result, error)

	// Name returns the backend name for display
	Name() string
}

// Result is one finished program run.
type Result struct {
	Stdout  string
	Elapsed time.Duration
}
