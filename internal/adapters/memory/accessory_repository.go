package memory

import (
	"context"
	"sort"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// accessoryRepository is an in-memory implementation for testing
type accessoryRepository struct {
	store *store
}

// NewAccessoryRepository creates a new in-memory accessory repository
func NewAccessoryRepository(s *store) ports.AccessoryRepository {
	return &accessoryRepository{store: s}
}

func (r *accessoryRepository) GetByID(ctx context.Context, id int64) (*models.Accessory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if accessory, ok := r.store.accessories[id]; ok {
		clone := *accessory
		return &clone, nil
	}
	return nil, ErrNotFound
}

func (r *accessoryRepository) Create(ctx context.Context, accessory *models.Accessory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	accessory.ID = r.store.nextID("accessories")
	clone := *accessory
	r.store.accessories[accessory.ID] = &clone
	return nil
}

func (r *accessoryRepository) Update(ctx context.Context, accessory *models.Accessory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accessories[accessory.ID]; !ok {
		return ErrNotFound
	}

	clone := *accessory
	r.store.accessories[accessory.ID] = &clone
	return nil
}

func (r *accessoryRepository) UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	accessory, ok := r.store.accessories[id]
	if !ok {
		return ErrNotFound
	}

	accessory.Status = status
	return nil
}

func (r *accessoryRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accessories[id]; !ok {
		return ErrNotFound
	}

	delete(r.store.accessories, id)
	return nil
}

func (r *accessoryRepository) List(ctx context.Context) ([]*models.Accessory, error) {
	return r.filter(func(*models.Accessory) bool { return true })
}

func (r *accessoryRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Accessory, error) {
	return r.filter(func(a *models.Accessory) bool { return a.VehicleID == vehicleID })
}

func (r *accessoryRepository) filter(keep func(*models.Accessory) bool) ([]*models.Accessory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var accessories []*models.Accessory
	for _, accessory := range r.store.accessories {
		if keep(accessory) {
			clone := *accessory
			accessories = append(accessories, &clone)
		}
	}

	sort.Slice(accessories, func(i, j int) bool {
		if !accessories[i].InstallDate.Equal(accessories[j].InstallDate) {
			return accessories[i].InstallDate.After(accessories[j].InstallDate)
		}
		return accessories[i].ID > accessories[j].ID
	})

	return accessories, nil
}
