package memory

import (
	"context"
	"sort"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// maintenanceRepository is an in-memory implementation for testing
type maintenanceRepository struct {
	store *store
}

// NewMaintenanceRepository creates a new in-memory maintenance repository
func NewMaintenanceRepository(s *store) ports.MaintenanceRepository {
	return &maintenanceRepository{store: s}
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*models.Maintenance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if maintenance, ok := r.store.maintenances[id]; ok {
		clone := *maintenance
		return &clone, nil
	}
	return nil, ErrNotFound
}

func (r *maintenanceRepository) Create(ctx context.Context, maintenance *models.Maintenance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	maintenance.ID = r.store.nextID("maintenances")
	clone := *maintenance
	r.store.maintenances[maintenance.ID] = &clone
	return nil
}

func (r *maintenanceRepository) Update(ctx context.Context, maintenance *models.Maintenance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.maintenances[maintenance.ID]; !ok {
		return ErrNotFound
	}

	clone := *maintenance
	r.store.maintenances[maintenance.ID] = &clone
	return nil
}

func (r *maintenanceRepository) UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	maintenance, ok := r.store.maintenances[id]
	if !ok {
		return ErrNotFound
	}

	maintenance.Status = status
	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.maintenances[id]; !ok {
		return ErrNotFound
	}

	delete(r.store.maintenances, id)
	return nil
}

func (r *maintenanceRepository) List(ctx context.Context) ([]*models.Maintenance, error) {
	return r.filter(func(*models.Maintenance) bool { return true })
}

func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Maintenance, error) {
	return r.filter(func(m *models.Maintenance) bool { return m.VehicleID == vehicleID })
}

func (r *maintenanceRepository) filter(keep func(*models.Maintenance) bool) ([]*models.Maintenance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var maintenances []*models.Maintenance
	for _, maintenance := range r.store.maintenances {
		if keep(maintenance) {
			clone := *maintenance
			maintenances = append(maintenances, &clone)
		}
	}

	sort.Slice(maintenances, func(i, j int) bool {
		if !maintenances[i].ServiceDate.Equal(maintenances[j].ServiceDate) {
			return maintenances[i].ServiceDate.After(maintenances[j].ServiceDate)
		}
		return maintenances[i].ID > maintenances[j].ID
	})

	return maintenances, nil
}
