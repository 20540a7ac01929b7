package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// vehicleRepository is an in-memory implementation for testing
type vehicleRepository struct {
	store *store
}

// NewVehicleRepository creates a new in-memory vehicle repository
func NewVehicleRepository(s *store) ports.VehicleRepository {
	return &vehicleRepository{store: s}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if vehicle, ok := r.store.vehicles[id]; ok {
		clone := *vehicle
		return &clone, nil
	}
	return nil, ErrNotFound
}

func (r *vehicleRepository) GetByCode(ctx context.Context, code int64) (*models.Vehicle, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, vehicle := range r.store.vehicles {
		if vehicle.Code == code {
			clone := *vehicle
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.vehicles {
		if existing.Code == vehicle.Code {
			return ErrAlreadyExists
		}
	}

	vehicle.ID = r.store.nextID("vehicles")
	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	clone := *vehicle
	r.store.vehicles[vehicle.ID] = &clone
	return nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.vehicles[vehicle.ID]; !ok {
		return ErrNotFound
	}

	vehicle.UpdatedAt = time.Now()
	clone := *vehicle
	r.store.vehicles[vehicle.ID] = &clone
	return nil
}

func (r *vehicleRepository) UpdateOdometer(ctx context.Context, id int64, odometer float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	vehicle, ok := r.store.vehicles[id]
	if !ok {
		return ErrNotFound
	}

	vehicle.CurrentOdometer = odometer
	vehicle.UpdatedAt = time.Now()
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.vehicles[id]; !ok {
		return ErrNotFound
	}

	delete(r.store.vehicles, id)
	return nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	vehicles := make([]*models.Vehicle, 0, len(r.store.vehicles))
	for _, vehicle := range r.store.vehicles {
		clone := *vehicle
		vehicles = append(vehicles, &clone)
	}

	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].Code < vehicles[j].Code
	})

	return vehicles, nil
}
