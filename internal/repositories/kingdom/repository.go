// Package kingdom provides the interface for kingdom persistence
package kingdom

//go:generate mockgen -destination=mock/mock_repository.go -package=kingdommock github.com/KirkDiggler/kingdom-api/internal/repositories/kingdom Repository

import (
	"context"
	"sort"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
)

// Repository defines the interface for kingdom persistence.
// Implementations store copies: mutating a kingdom after Create or Update
// does not change what is stored.
type Repository interface {
	// Create stores a new kingdom at Version 1
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the ID or username is taken
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a kingdom by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the kingdom doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByUsername retrieves the kingdom owned by a username
	// Returns errors.InvalidArgument for empty usernames
	// Returns errors.NotFound if no kingdom has that username
	// Returns errors.Internal for storage failures
	GetByUsername(ctx context.Context, input GetByUsernameInput) (*GetByUsernameOutput, error)

	// Update replaces an existing kingdom. The username cannot change.
	// The input's Version must match the stored Version; the saved kingdom
	// carries the next Version.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the kingdom doesn't exist
	// Returns errors.FailedPrecondition (reason version_conflict) if the
	// stored kingdom changed since it was read
	// Returns errors.Internal for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a kingdom by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the kingdom doesn't exist
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// List returns kingdoms ordered by power (highest first, ties by ID)
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// CreateInput defines the input for creating a kingdom
type CreateInput struct {
	Kingdom *entities.Kingdom
}

// CreateOutput defines the output for creating a kingdom
type CreateOutput struct {
	Kingdom *entities.Kingdom
}

// GetInput defines the input for getting a kingdom
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a kingdom
type GetOutput struct {
	Kingdom *entities.Kingdom
}

// GetByUsernameInput defines the input for looking up a kingdom by owner
type GetByUsernameInput struct {
	Username string
}

// GetByUsernameOutput defines the output for looking up a kingdom by owner
type GetByUsernameOutput struct {
	Kingdom *entities.Kingdom
}

// UpdateInput defines the input for updating a kingdom
type UpdateInput struct {
	Kingdom *entities.Kingdom
}

// UpdateOutput defines the output for updating a kingdom
type UpdateOutput struct {
	Kingdom *entities.Kingdom
}

// DeleteInput defines the input for deleting a kingdom
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a kingdom
type DeleteOutput struct{}

// ListInput defines the input for listing kingdoms
type ListInput struct {
	// Limit caps the result; zero means no limit
	Limit int
}

// ListOutput defines the output for listing kingdoms
type ListOutput struct {
	Kingdoms []*entities.Kingdom
}

const (
	errKingdomNil        = "kingdom cannot be nil"
	errKingdomIDEmpty    = "kingdom ID cannot be empty"
	errUsernameEmpty     = "username cannot be empty"
	errUsernameImmutable = "username cannot be changed"
)

// ReasonVersionConflict marks an Update made against a stale read
const ReasonVersionConflict = "version_conflict"

// IsVersionConflict reports an Update rejected for a stale Version
func IsVersionConflict(err error) bool {
	return errors.GetReason(err) == ReasonVersionConflict
}

func versionConflict(id string, expected, stored int64) error {
	return errors.FailedPreconditionf("kingdom %s was modified concurrently", id).
		WithReason(ReasonVersionConflict).
		WithMeta("expected_version", expected).
		WithMeta("stored_version", stored)
}

func validateKingdom(k *entities.Kingdom) error {
	if k == nil {
		return errors.InvalidArgument(errKingdomNil)
	}
	if k.ID == "" {
		return errors.InvalidArgument(errKingdomIDEmpty)
	}
	if k.Username == "" {
		return errors.InvalidArgument(errUsernameEmpty)
	}
	return nil
}

// rank orders kingdoms for List and applies the limit
func rank(kingdoms []*entities.Kingdom, limit int) []*entities.Kingdom {
	sort.SliceStable(kingdoms, func(i, j int) bool {
		if kingdoms[i].Power != kingdoms[j].Power {
			return kingdoms[i].Power > kingdoms[j].Power
		}
		return kingdoms[i].ID < kingdoms[j].ID
	})
	if limit > 0 && len(kingdoms) > limit {
		kingdoms = kingdoms[:limit]
	}
	return kingdoms
}
