package repository

import (
	"context"

	"analytics-platform/internal/analytics/domain/model"
)

// CustomPageStore persists custom UI pages keyed by slug.
type CustomPageStore interface {
	List(ctx context.Context, project string) ([]model.CustomPage, error)
	Get(ctx context.Context, project, slug string) (*model.CustomPage, error)
	Save(ctx context.Context, project string, page model.CustomPage) (CreateOutcome, error)
	Delete(ctx context.Context, project, slug string) error
}

// CustomPageCapability models the optional page store as an explicit
// present-or-absent variant rather than an implicit nil, so the unsupported
// branch is statically reachable.
type CustomPageCapability struct {
	store CustomPageStore
}

// CustomPagesSupported returns a capability backed by the given store.
func CustomPagesSupported(store CustomPageStore) CustomPageCapability {
	return CustomPageCapability{store: store}
}

// CustomPagesUnsupported returns the absent variant.
func CustomPagesUnsupported() CustomPageCapability {
	return CustomPageCapability{}
}

// Store returns the backing store and whether the capability is present.
func (c CustomPageCapability) Store() (CustomPageStore, bool) {
	return c.store, c.store != nil
}
