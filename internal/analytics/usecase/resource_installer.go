package usecase

import (
	"context"
	"fmt"

	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/errors"
	"analytics-platform/internal/shared/logger"
)

// kindInstaller applies the create / already-exists / override protocol for
// one resource kind. The zero replace strategy is delete-then-recreate;
// kinds whose store supports in-place update set replace instead.
type kindInstaller[T any] struct {
	kind    string
	key     func(T) string
	create  func(ctx context.Context, project string, resource T) (repository.CreateOutcome, error)
	remove  func(ctx context.Context, project string, resource T) error
	replace func(ctx context.Context, project string, resource T) error
}

// install walks the desired resources in list order. Resources installed
// before a failure stay installed; there is no rollback.
func (ki kindInstaller[T]) install(ctx context.Context, log logger.Logger, project string, resources []T, overrideExisting bool) error {
	for _, resource := range resources {
		key := ki.key(resource)

		outcome, err := ki.create(ctx, project, resource)
		if err != nil {
			return errors.WrapError(err, fmt.Sprintf("failed to create %s %q", ki.kind, key))
		}
		if outcome != repository.OutcomeAlreadyExists {
			log.Debug("Resource created", "kind", ki.kind, "key", key, "project", project)
			continue
		}

		if !overrideExisting {
			return errors.NewConflictError(fmt.Sprintf("%s %q already exists", ki.kind, key)).
				WithComponent(ki.kind).
				WithDetail("key", key)
		}

		if ki.replace != nil {
			if err := ki.replace(ctx, project, resource); err != nil {
				return errors.WrapError(err, fmt.Sprintf("failed to replace %s %q", ki.kind, key))
			}
			log.Debug("Resource replaced in place", "kind", ki.kind, "key", key, "project", project)
			continue
		}

		// Delete then create. Not atomic: a crash between the two calls
		// leaves the resource absent, not restored.
		if err := ki.remove(ctx, project, resource); err != nil {
			return errors.WrapError(err, fmt.Sprintf("failed to delete existing %s %q", ki.kind, key))
		}
		outcome, err = ki.create(ctx, project, resource)
		if err != nil {
			return errors.WrapError(err, fmt.Sprintf("failed to recreate %s %q", ki.kind, key))
		}
		if outcome == repository.OutcomeAlreadyExists {
			return errors.NewInconsistencyError(fmt.Sprintf("%s %q reappeared between delete and create", ki.kind, key))
		}
		log.Debug("Resource recreated", "kind", ki.kind, "key", key, "project", project)
	}
	return nil
}
