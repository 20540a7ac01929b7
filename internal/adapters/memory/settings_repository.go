package memory

import (
	"context"
	"sort"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// settingsRepository is an in-memory implementation for testing
type settingsRepository struct {
	store *store
}

// NewSettingsRepository creates a new in-memory settings repository
func NewSettingsRepository(s *store) ports.SettingsRepository {
	return &settingsRepository{store: s}
}

func (r *settingsRepository) Get(ctx context.Context, key string, fallback float64) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if setting, ok := r.store.settings[key]; ok {
		return setting.Value, nil
	}
	return fallback, nil
}

func (r *settingsRepository) Put(ctx context.Context, key string, value float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.settings[key]; ok {
		existing.Value = value
		return nil
	}

	r.store.settings[key] = &models.Setting{
		ID:    r.store.nextID("settings"),
		Key:   key,
		Value: value,
	}
	return nil
}

// lookupRepository is an in-memory implementation for testing
type lookupRepository struct {
	store *store
}

// NewLookupRepository creates a new in-memory lookup repository
func NewLookupRepository(s *store) ports.LookupRepository {
	return &lookupRepository{store: s}
}

func (r *lookupRepository) List(ctx context.Context, kind models.LookupKind) ([]*models.Lookup, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	table, ok := r.store.lookups[kind]
	if !ok {
		return nil, ErrNotFound
	}

	lookups := make([]*models.Lookup, 0, len(table))
	for _, lookup := range table {
		clone := *lookup
		lookups = append(lookups, &clone)
	}

	sort.Slice(lookups, func(i, j int) bool {
		return lookups[i].Name < lookups[j].Name
	})

	return lookups, nil
}

func (r *lookupRepository) Create(ctx context.Context, kind models.LookupKind, name string) (*models.Lookup, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	table, ok := r.store.lookups[kind]
	if !ok {
		return nil, ErrNotFound
	}

	for _, existing := range table {
		if existing.Name == name {
			return nil, ErrAlreadyExists
		}
	}

	lookup := &models.Lookup{ID: r.store.nextID(string(kind)), Name: name}
	table[lookup.ID] = lookup
	return lookup, nil
}

func (r *lookupRepository) Delete(ctx context.Context, kind models.LookupKind, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	table, ok := r.store.lookups[kind]
	if !ok {
		return ErrNotFound
	}

	if _, ok := table[id]; !ok {
		return ErrNotFound
	}

	delete(table, id)
	return nil
}
