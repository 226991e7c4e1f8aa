package match

import (
	"context"

	"github.com/pkg/errors"

	"presenca.io/application/repository"
	"presenca.io/entities"
)

// StoreFinder feeds the embedded matcher from the employee collection.
// The enrolled population on a single deployment is small enough to scan
// per confirmation; caching would only add an invalidation problem.
type StoreFinder struct{}

func (StoreFinder) ActiveEmployees(ctx context.Context) ([]entities.Employee, error) {
	employees, err := repository.EmployeeRepo().FindMany(ctx, map[string]interface{}{
		"deactivated": false,
		"deletedAt":   nil,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying active employees")
	}
	if employees == nil {
		return nil, nil
	}
	return *employees, nil
}
