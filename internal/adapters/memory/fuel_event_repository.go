package memory

import (
	"context"
	"sort"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// fuelEventRepository is an in-memory implementation for testing
type fuelEventRepository struct {
	store *store
}

// NewFuelEventRepository creates a new in-memory fuel event repository
func NewFuelEventRepository(s *store) ports.FuelEventRepository {
	return &fuelEventRepository{store: s}
}

func (r *fuelEventRepository) Create(ctx context.Context, event *models.FuelEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.fuelEvents {
		if existing.ExternalID == event.ExternalID {
			return ErrAlreadyExists
		}
	}

	event.ID = r.store.nextID("fuel_events")
	clone := *event
	r.store.fuelEvents[event.ID] = &clone
	return nil
}

func (r *fuelEventRepository) ListExternalIDs(ctx context.Context) (map[int64]struct{}, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := make(map[int64]struct{}, len(r.store.fuelEvents))
	for _, event := range r.store.fuelEvents {
		seen[event.ExternalID] = struct{}{}
	}
	return seen, nil
}

func (r *fuelEventRepository) LastByVehicle(ctx context.Context) (map[int64]*models.FuelEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	last := make(map[int64]*models.FuelEvent)
	for _, event := range r.store.fuelEvents {
		current, ok := last[event.VehicleID]
		if !ok || event.OccurredAt.After(current.OccurredAt) {
			clone := *event
			last[event.VehicleID] = &clone
		}
	}
	return last, nil
}

func (r *fuelEventRepository) ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]*models.FuelEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var events []*models.FuelEvent
	for _, event := range r.store.fuelEvents {
		if event.VehicleID == vehicleID {
			clone := *event
			events = append(events, &clone)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}
