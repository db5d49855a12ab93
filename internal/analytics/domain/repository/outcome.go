package repository

import (
	"context"
	"sync"
)

// CreateOutcome is the tagged result of a store create: callers branch on
// data instead of inspecting error types.
type CreateOutcome int

const (
	// OutcomeCreated means the resource did not exist and was created.
	OutcomeCreated CreateOutcome = iota
	// OutcomeAlreadyExists means a resource with the same identifying key
	// is already present. The store made no change.
	OutcomeAlreadyExists
)

func (o CreateOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already-exists"
	default:
		return "unknown"
	}
}

// Creation is the handle for a create that may complete asynchronously.
// Callers must Wait before issuing the next operation so that failures are
// observable at the call site rather than in a background callback.
type Creation struct {
	done    chan struct{}
	outcome CreateOutcome
	err     error
}

// NewCreation returns a pending handle and the function that resolves it.
// Resolving more than once is a no-op.
func NewCreation() (*Creation, func(CreateOutcome, error)) {
	c := &Creation{done: make(chan struct{})}
	var once sync.Once
	resolve := func(outcome CreateOutcome, err error) {
		once.Do(func() {
			c.outcome = outcome
			c.err = err
			close(c.done)
		})
	}
	return c, resolve
}

// ResolvedCreation returns a handle that is already complete. Stores that
// create synchronously use it to satisfy the asynchronous contract.
func ResolvedCreation(outcome CreateOutcome, err error) *Creation {
	c := &Creation{done: make(chan struct{}), outcome: outcome, err: err}
	close(c.done)
	return c
}

// Wait blocks until the create completes or the context is done.
func (c *Creation) Wait(ctx context.Context) (CreateOutcome, error) {
	select {
	case <-ctx.Done():
		return OutcomeCreated, ctx.Err()
	case <-c.done:
		return c.outcome, c.err
	}
}
