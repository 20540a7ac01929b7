package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/fleetfix/fleetfix/internal/logger"
)

// ErrSyncInProgress is returned when a reconciliation run is already
// active. Runs read then write vehicle odometers without optimistic
// concurrency control, so they are serialized.
var ErrSyncInProgress = errors.New("telemetry sync already in progress")

// syncService coordinates one full telemetry synchronization: fetch,
// reconcile, commit.
type syncService struct {
	store  ports.DatabaseAdapter
	source ports.TelemetrySource
	log    logger.Logger

	mu      sync.Mutex
	running bool
}

// NewSyncService creates the odometer synchronization service
func NewSyncService(store ports.DatabaseAdapter, source ports.TelemetrySource) ports.SyncService {
	return &syncService{
		store:  store,
		source: source,
		log:    logger.New("telemetry-sync"),
	}
}

// Sync fetches all telemetry pages, reconciles the batch against known
// vehicles, and commits the outcome inside a single store transaction.
// Transport failures abort before any state is touched; commit failures
// roll everything back.
func (s *syncService) Sync(ctx context.Context) (*ports.SyncReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	started := time.Now()
	logger.SyncRuns.Inc()

	records, err := s.source.FetchAll(ctx)
	if err != nil {
		logger.SyncFailures.Inc()
		return nil, fmt.Errorf("telemetry fetch failed: %w", err)
	}
	s.log.Infow("telemetry fetched", "records", len(records))

	vehicleList, err := s.store.GetVehicleRepository().List(ctx)
	if err != nil {
		logger.SyncFailures.Inc()
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}
	seenIDs, err := s.store.GetFuelEventRepository().ListExternalIDs(ctx)
	if err != nil {
		logger.SyncFailures.Inc()
		return nil, fmt.Errorf("failed to load persisted event ids: %w", err)
	}
	lastEvents, err := s.store.GetFuelEventRepository().LastByVehicle(ctx)
	if err != nil {
		logger.SyncFailures.Inc()
		return nil, fmt.Errorf("failed to load last events: %w", err)
	}

	result := Reconcile(records, VehiclesByCode(vehicleList), seenIDs, lastEvents)

	if err := s.commit(ctx, result); err != nil {
		logger.SyncFailures.Inc()
		return nil, err
	}

	logger.VehiclesUpdated.Add(float64(len(result.Updated)))
	s.log.Infow("sync completed",
		"updated", len(result.Updated),
		"skipped_invalid", len(result.SkippedInvalid),
		"not_found", len(result.NotFound),
		"left_at_zero", len(result.LeftAtZero),
		"new_events", len(result.NewEvents),
	)

	return &ports.SyncReport{
		FetchedRecords: len(records),
		Result:         *result,
		StartedAt:      started,
		Duration:       time.Since(started),
	}, nil
}

// commit applies odometer updates and persists new telemetry history
// atomically
func (s *syncService) commit(ctx context.Context, result *ports.ReconciliationResult) error {
	tx, err := s.store.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin sync transaction: %w", err)
	}

	vehicles := tx.GetVehicleRepository()
	for _, update := range result.Updated {
		vehicle, err := vehicles.GetByCode(ctx, update.Code)
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to load vehicle %d for commit: %w", update.Code, err)
		}
		if err := vehicles.UpdateOdometer(ctx, vehicle.ID, update.NewOdometer); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to commit odometer for vehicle %d: %w", update.Code, err)
		}
	}

	events := tx.GetFuelEventRepository()
	for i := range result.NewEvents {
		if err := events.Create(ctx, &result.NewEvents[i]); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to persist fuel event %d: %w", result.NewEvents[i].ExternalID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sync transaction: %w", err)
	}
	return nil
}
