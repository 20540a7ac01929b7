package memory

import (
	"sync"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

var (
	ErrNotFound      = ports.ErrNotFound
	ErrAlreadyExists = ports.ErrAlreadyExists
)

// store holds all in-memory state shared by the repositories. A single
// lock guards every table so snapshots see a consistent view.
type store struct {
	mu           sync.RWMutex
	vehicles     map[int64]*models.Vehicle
	maintenances map[int64]*models.Maintenance
	accessories  map[int64]*models.Accessory
	fuelEvents   map[int64]*models.FuelEvent
	settings     map[string]*models.Setting
	lookups      map[models.LookupKind]map[int64]*models.Lookup
	nextIDs      map[string]int64
}

func newStore() *store {
	return &store{
		vehicles:     make(map[int64]*models.Vehicle),
		maintenances: make(map[int64]*models.Maintenance),
		accessories:  make(map[int64]*models.Accessory),
		fuelEvents:   make(map[int64]*models.FuelEvent),
		settings:     make(map[string]*models.Setting),
		lookups: map[models.LookupKind]map[int64]*models.Lookup{
			models.LookupCategory:    make(map[int64]*models.Lookup),
			models.LookupResponsible: make(map[int64]*models.Lookup),
			models.LookupWorkshop:    make(map[int64]*models.Lookup),
		},
		nextIDs: make(map[string]int64),
	}
}

// nextID must be called with the write lock held.
func (s *store) nextID(table string) int64 {
	s.nextIDs[table]++
	return s.nextIDs[table]
}

// snapshot captures the tables a transaction may touch. Must be called
// with the write lock held.
func (s *store) snapshot() *snapshot {
	vehicles := make(map[int64]*models.Vehicle, len(s.vehicles))
	for id, v := range s.vehicles {
		clone := *v
		vehicles[id] = &clone
	}

	fuelEvents := make(map[int64]*models.FuelEvent, len(s.fuelEvents))
	for id, e := range s.fuelEvents {
		clone := *e
		fuelEvents[id] = &clone
	}

	nextIDs := make(map[string]int64, len(s.nextIDs))
	for table, id := range s.nextIDs {
		nextIDs[table] = id
	}

	return &snapshot{
		vehicles:   vehicles,
		fuelEvents: fuelEvents,
		nextIDs:    nextIDs,
	}
}

// restore must be called with the write lock held.
func (s *store) restore(snap *snapshot) {
	s.vehicles = snap.vehicles
	s.fuelEvents = snap.fuelEvents
	s.nextIDs = snap.nextIDs
}

type snapshot struct {
	vehicles   map[int64]*models.Vehicle
	fuelEvents map[int64]*models.FuelEvent
	nextIDs    map[string]int64
}
