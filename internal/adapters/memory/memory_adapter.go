package memory

import (
	"context"
	"sync"

	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// MemoryAdapter implements the DatabaseAdapter interface with in-memory
// state. It backs tests and local development without external services.
type MemoryAdapter struct {
	store           *store
	txMu            sync.Mutex
	vehicleRepo     ports.VehicleRepository
	maintenanceRepo ports.MaintenanceRepository
	accessoryRepo   ports.AccessoryRepository
	fuelEventRepo   ports.FuelEventRepository
	settingsRepo    ports.SettingsRepository
	lookupRepo      ports.LookupRepository
}

// NewMemoryAdapter creates a new in-memory database adapter
func NewMemoryAdapter() *MemoryAdapter {
	s := newStore()
	return &MemoryAdapter{
		store:           s,
		vehicleRepo:     NewVehicleRepository(s),
		maintenanceRepo: NewMaintenanceRepository(s),
		accessoryRepo:   NewAccessoryRepository(s),
		fuelEventRepo:   NewFuelEventRepository(s),
		settingsRepo:    NewSettingsRepository(s),
		lookupRepo:      NewLookupRepository(s),
	}
}

// Connect is a no-op for the in-memory adapter
func (a *MemoryAdapter) Connect(ctx context.Context) error {
	return nil
}

// Disconnect is a no-op for the in-memory adapter
func (a *MemoryAdapter) Disconnect(ctx context.Context) error {
	return nil
}

// Ping always succeeds for the in-memory adapter
func (a *MemoryAdapter) Ping(ctx context.Context) error {
	return nil
}

// GetType returns the database type
func (a *MemoryAdapter) GetType() ports.DatabaseType {
	return ports.DatabaseTypeMemory
}

// BeginTransaction snapshots the store so the transaction can be rolled
// back. Transactions are serialized; only one runs at a time.
func (a *MemoryAdapter) BeginTransaction(ctx context.Context) (ports.Transaction, error) {
	a.txMu.Lock()

	a.store.mu.Lock()
	snap := a.store.snapshot()
	a.store.mu.Unlock()

	return &memoryTransaction{
		adapter:       a,
		snap:          snap,
		vehicleRepo:   a.vehicleRepo,
		fuelEventRepo: a.fuelEventRepo,
	}, nil
}

// GetVehicleRepository returns the vehicle repository
func (a *MemoryAdapter) GetVehicleRepository() ports.VehicleRepository {
	return a.vehicleRepo
}

// GetMaintenanceRepository returns the maintenance repository
func (a *MemoryAdapter) GetMaintenanceRepository() ports.MaintenanceRepository {
	return a.maintenanceRepo
}

// GetAccessoryRepository returns the accessory repository
func (a *MemoryAdapter) GetAccessoryRepository() ports.AccessoryRepository {
	return a.accessoryRepo
}

// GetFuelEventRepository returns the fuel event repository
func (a *MemoryAdapter) GetFuelEventRepository() ports.FuelEventRepository {
	return a.fuelEventRepo
}

// GetSettingsRepository returns the settings repository
func (a *MemoryAdapter) GetSettingsRepository() ports.SettingsRepository {
	return a.settingsRepo
}

// GetLookupRepository returns the lookup repository
func (a *MemoryAdapter) GetLookupRepository() ports.LookupRepository {
	return a.lookupRepo
}

// HealthCheck always succeeds for the in-memory adapter
func (a *MemoryAdapter) HealthCheck(ctx context.Context) error {
	return nil
}

// memoryTransaction implements the Transaction interface. Writes go
// straight to the store; Rollback restores the snapshot taken at begin.
type memoryTransaction struct {
	adapter       *MemoryAdapter
	snap          *snapshot
	done          bool
	vehicleRepo   ports.VehicleRepository
	fuelEventRepo ports.FuelEventRepository
}

// Commit discards the snapshot and releases the transaction lock
func (t *memoryTransaction) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.adapter.txMu.Unlock()
	return nil
}

// Rollback restores the snapshot and releases the transaction lock
func (t *memoryTransaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.adapter.store.mu.Lock()
	t.adapter.store.restore(t.snap)
	t.adapter.store.mu.Unlock()

	t.adapter.txMu.Unlock()
	return nil
}

// GetVehicleRepository returns a transactional vehicle repository
func (t *memoryTransaction) GetVehicleRepository() ports.VehicleRepository {
	return t.vehicleRepo
}

// GetFuelEventRepository returns a transactional fuel event repository
func (t *memoryTransaction) GetFuelEventRepository() ports.FuelEventRepository {
	return t.fuelEventRepo
}
