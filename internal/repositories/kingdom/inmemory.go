package kingdom

import (
	"context"
	"sync"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu        sync.RWMutex
	store     map[string]*entities.Kingdom
	usernames map[string]string
	clock     clock.Clock
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates a new in-memory repository. A nil clock uses the
// system clock.
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		store:     make(map[string]*entities.Kingdom),
		usernames: make(map[string]string),
		clock:     c,
	}
}

// Create stores a new kingdom
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateKingdom(input.Kingdom); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := input.Kingdom.Clone()
	if _, exists := r.store[k.ID]; exists {
		return nil, errors.AlreadyExistsf("kingdom with ID %s already exists", k.ID)
	}
	if _, taken := r.usernames[k.Username]; taken {
		return nil, errors.AlreadyExistsf("username %s is already taken", k.Username).
			WithMeta("username", k.Username)
	}

	now := r.clock.Now().Unix()
	if k.CreatedAt == 0 {
		k.CreatedAt = now
	}
	k.UpdatedAt = now
	k.Version = 1

	r.store[k.ID] = k
	r.usernames[k.Username] = k.ID

	return &CreateOutput{Kingdom: k.Clone()}, nil
}

// Get retrieves a kingdom by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errKingdomIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	k, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("kingdom with ID %s not found", input.ID)
	}

	return &GetOutput{Kingdom: k.Clone()}, nil
}

// GetByUsername retrieves the kingdom owned by a username
func (r *InMemoryRepository) GetByUsername(_ context.Context, input GetByUsernameInput) (*GetByUsernameOutput, error) {
	if input.Username == "" {
		return nil, errors.InvalidArgument(errUsernameEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usernames[input.Username]
	if !exists {
		return nil, errors.NotFoundf("kingdom for username %s not found", input.Username)
	}

	return &GetByUsernameOutput{Kingdom: r.store[id].Clone()}, nil
}

// Update replaces an existing kingdom
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateKingdom(input.Kingdom); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.store[input.Kingdom.ID]
	if !exists {
		return nil, errors.NotFoundf("kingdom with ID %s not found", input.Kingdom.ID)
	}
	if existing.Username != input.Kingdom.Username {
		return nil, errors.InvalidArgument(errUsernameImmutable)
	}
	if existing.Version != input.Kingdom.Version {
		return nil, versionConflict(existing.ID, input.Kingdom.Version, existing.Version)
	}

	k := input.Kingdom.Clone()
	k.CreatedAt = existing.CreatedAt
	k.UpdatedAt = r.clock.Now().Unix()
	k.Version = existing.Version + 1
	r.store[k.ID] = k

	return &UpdateOutput{Kingdom: k.Clone()}, nil
}

// Delete removes a kingdom
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errKingdomIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("kingdom with ID %s not found", input.ID)
	}

	delete(r.usernames, existing.Username)
	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}

// List returns kingdoms ordered by power
func (r *InMemoryRepository) List(_ context.Context, input ListInput) (*ListOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kingdoms := make([]*entities.Kingdom, 0, len(r.store))
	for _, k := range r.store {
		kingdoms = append(kingdoms, k.Clone())
	}

	return &ListOutput{Kingdoms: rank(kingdoms, input.Limit)}, nil
}
