package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/fleetfix/fleetfix/internal/logger"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrInvalidSetting  = errors.New("unknown setting key")
)

// fleetService implements the FleetService interface
type fleetService struct {
	store ports.DatabaseAdapter
	log   logger.Logger
	now   func() time.Time
}

// NewFleetService creates the core fleet maintenance service
func NewFleetService(store ports.DatabaseAdapter) ports.FleetService {
	return &fleetService{
		store: store,
		log:   logger.New("fleet-service"),
		now:   time.Now,
	}
}

// ---- Vehicles ----

func (s *fleetService) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	vehicle.CreatedAt = s.now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	if err := s.store.GetVehicleRepository().Create(ctx, vehicle); err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	s.log.Infow("vehicle registered", "id", vehicle.ID, "code", vehicle.Code, "plate", vehicle.Plate)
	return nil
}

func (s *fleetService) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	vehicle, err := s.store.GetVehicleRepository().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrVehicleNotFound)
	}
	return vehicle, nil
}

func (s *fleetService) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	vehicle.UpdatedAt = s.now()
	return mapNotFound(s.store.GetVehicleRepository().Update(ctx, vehicle), ErrVehicleNotFound)
}

func (s *fleetService) DeleteVehicle(ctx context.Context, id int64) error {
	return mapNotFound(s.store.GetVehicleRepository().Delete(ctx, id), ErrVehicleNotFound)
}

func (s *fleetService) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	return s.store.GetVehicleRepository().List(ctx)
}

// ---- Maintenances ----

func (s *fleetService) CreateMaintenance(ctx context.Context, m *models.Maintenance) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetVehicleRepository().GetByID(ctx, m.VehicleID); err != nil {
		return ErrVehicleNotFound
	}
	m.Status = s.deriveStatus(ctx, m, m.VehicleID).Status
	if err := s.store.GetMaintenanceRepository().Create(ctx, m); err != nil {
		return fmt.Errorf("failed to create maintenance: %w", err)
	}
	s.log.Infow("maintenance registered", "id", m.ID, "vehicle_id", m.VehicleID, "category", m.Category)
	return nil
}

func (s *fleetService) GetMaintenance(ctx context.Context, id int64) (*ports.AnnotatedMaintenance, error) {
	m, err := s.store.GetMaintenanceRepository().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRecordNotFound)
	}
	vehicle, _ := s.store.GetVehicleRepository().GetByID(ctx, m.VehicleID)
	eval := s.annotate(ctx, m, vehicle)
	s.refreshStoredStatus(ctx, m.ID, m.Status, eval.Status, s.store.GetMaintenanceRepository().UpdateStatus)
	m.Status = eval.Status
	return &ports.AnnotatedMaintenance{Maintenance: m, Vehicle: vehicle, Evaluation: eval}, nil
}

func (s *fleetService) UpdateMaintenance(ctx context.Context, m *models.Maintenance) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.Status = s.deriveStatus(ctx, m, m.VehicleID).Status
	return mapNotFound(s.store.GetMaintenanceRepository().Update(ctx, m), ErrRecordNotFound)
}

func (s *fleetService) DeleteMaintenance(ctx context.Context, id int64) error {
	return mapNotFound(s.store.GetMaintenanceRepository().Delete(ctx, id), ErrRecordNotFound)
}

func (s *fleetService) ListMaintenances(ctx context.Context, filter ports.StatusFilter) ([]*ports.AnnotatedMaintenance, error) {
	maintenances, err := s.store.GetMaintenanceRepository().List(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehiclesByID(ctx)
	if err != nil {
		return nil, err
	}

	annotated := make([]*ports.AnnotatedMaintenance, 0, len(maintenances))
	for _, m := range maintenances {
		vehicle := vehicles[m.VehicleID]
		eval := s.annotate(ctx, m, vehicle)
		s.refreshStoredStatus(ctx, m.ID, m.Status, eval.Status, s.store.GetMaintenanceRepository().UpdateStatus)
		m.Status = eval.Status
		if !filter.Matches(eval.Status) {
			continue
		}
		annotated = append(annotated, &ports.AnnotatedMaintenance{Maintenance: m, Vehicle: vehicle, Evaluation: eval})
	}
	return annotated, nil
}

// ListVehicleMaintenances returns one vehicle's maintenance records,
// annotated with their computed status
func (s *fleetService) ListVehicleMaintenances(ctx context.Context, vehicleID int64) ([]*ports.AnnotatedMaintenance, error) {
	vehicle, err := s.store.GetVehicleRepository().GetByID(ctx, vehicleID)
	if err != nil {
		return nil, mapNotFound(err, ErrVehicleNotFound)
	}
	maintenances, err := s.store.GetMaintenanceRepository().ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	annotated := make([]*ports.AnnotatedMaintenance, 0, len(maintenances))
	for _, m := range maintenances {
		eval := s.annotate(ctx, m, vehicle)
		s.refreshStoredStatus(ctx, m.ID, m.Status, eval.Status, s.store.GetMaintenanceRepository().UpdateStatus)
		m.Status = eval.Status
		annotated = append(annotated, &ports.AnnotatedMaintenance{Maintenance: m, Vehicle: vehicle, Evaluation: eval})
	}
	return annotated, nil
}

// ---- Accessories ----

func (s *fleetService) CreateAccessory(ctx context.Context, a *models.Accessory) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetVehicleRepository().GetByID(ctx, a.VehicleID); err != nil {
		return ErrVehicleNotFound
	}
	a.Status = s.deriveStatus(ctx, a, a.VehicleID).Status
	if err := s.store.GetAccessoryRepository().Create(ctx, a); err != nil {
		return fmt.Errorf("failed to create accessory: %w", err)
	}
	s.log.Infow("accessory registered", "id", a.ID, "vehicle_id", a.VehicleID, "name", a.Name)
	return nil
}

func (s *fleetService) GetAccessory(ctx context.Context, id int64) (*ports.AnnotatedAccessory, error) {
	a, err := s.store.GetAccessoryRepository().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRecordNotFound)
	}
	vehicle, _ := s.store.GetVehicleRepository().GetByID(ctx, a.VehicleID)
	eval := s.annotate(ctx, a, vehicle)
	s.refreshStoredStatus(ctx, a.ID, a.Status, eval.Status, s.store.GetAccessoryRepository().UpdateStatus)
	a.Status = eval.Status
	return &ports.AnnotatedAccessory{Accessory: a, Vehicle: vehicle, Evaluation: eval}, nil
}

func (s *fleetService) UpdateAccessory(ctx context.Context, a *models.Accessory) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a.Status = s.deriveStatus(ctx, a, a.VehicleID).Status
	return mapNotFound(s.store.GetAccessoryRepository().Update(ctx, a), ErrRecordNotFound)
}

func (s *fleetService) DeleteAccessory(ctx context.Context, id int64) error {
	return mapNotFound(s.store.GetAccessoryRepository().Delete(ctx, id), ErrRecordNotFound)
}

func (s *fleetService) ListAccessories(ctx context.Context, filter ports.StatusFilter) ([]*ports.AnnotatedAccessory, error) {
	accessories, err := s.store.GetAccessoryRepository().List(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehiclesByID(ctx)
	if err != nil {
		return nil, err
	}

	annotated := make([]*ports.AnnotatedAccessory, 0, len(accessories))
	for _, a := range accessories {
		vehicle := vehicles[a.VehicleID]
		eval := s.annotate(ctx, a, vehicle)
		s.refreshStoredStatus(ctx, a.ID, a.Status, eval.Status, s.store.GetAccessoryRepository().UpdateStatus)
		a.Status = eval.Status
		if !filter.Matches(eval.Status) {
			continue
		}
		annotated = append(annotated, &ports.AnnotatedAccessory{Accessory: a, Vehicle: vehicle, Evaluation: eval})
	}
	return annotated, nil
}

// ListVehicleAccessories returns one vehicle's accessories, annotated
// with their computed status
func (s *fleetService) ListVehicleAccessories(ctx context.Context, vehicleID int64) ([]*ports.AnnotatedAccessory, error) {
	vehicle, err := s.store.GetVehicleRepository().GetByID(ctx, vehicleID)
	if err != nil {
		return nil, mapNotFound(err, ErrVehicleNotFound)
	}
	accessories, err := s.store.GetAccessoryRepository().ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	annotated := make([]*ports.AnnotatedAccessory, 0, len(accessories))
	for _, a := range accessories {
		eval := s.annotate(ctx, a, vehicle)
		s.refreshStoredStatus(ctx, a.ID, a.Status, eval.Status, s.store.GetAccessoryRepository().UpdateStatus)
		a.Status = eval.Status
		annotated = append(annotated, &ports.AnnotatedAccessory{Accessory: a, Vehicle: vehicle, Evaluation: eval})
	}
	return annotated, nil
}

// ---- Lookups ----

func (s *fleetService) ListLookups(ctx context.Context, kind models.LookupKind) ([]*models.Lookup, error) {
	return s.store.GetLookupRepository().List(ctx, kind)
}

func (s *fleetService) CreateLookup(ctx context.Context, kind models.LookupKind, name string) (*models.Lookup, error) {
	if name == "" {
		return nil, models.ErrEmptyName
	}
	return s.store.GetLookupRepository().Create(ctx, kind, name)
}

func (s *fleetService) DeleteLookup(ctx context.Context, kind models.LookupKind, id int64) error {
	return s.store.GetLookupRepository().Delete(ctx, kind, id)
}

// ---- Settings ----

// GetThresholds reads the two alert knobs, falling back to the documented
// defaults on missing keys or read failure; it never fails the caller.
func (s *fleetService) GetThresholds(ctx context.Context) models.AlertThresholds {
	settings := s.store.GetSettingsRepository()
	thresholds := models.DefaultThresholds()

	if v, err := settings.Get(ctx, models.SettingAlertKM, models.DefaultAlertKM); err == nil {
		thresholds.AlertKM = v
	} else {
		s.log.Warnw("falling back to default alert km", "error", err)
	}
	if v, err := settings.Get(ctx, models.SettingAlertDays, models.DefaultAlertDays); err == nil {
		thresholds.AlertDays = v
	} else {
		s.log.Warnw("falling back to default alert days", "error", err)
	}
	return thresholds
}

func (s *fleetService) PutSetting(ctx context.Context, key string, value float64) error {
	if key != models.SettingAlertKM && key != models.SettingAlertDays {
		return ErrInvalidSetting
	}
	return s.store.GetSettingsRepository().Put(ctx, key, value)
}

// ---- Summary ----

func (s *fleetService) StatusSummary(ctx context.Context) (*ports.StatusSummary, error) {
	summary := &ports.StatusSummary{
		Maintenances: make(map[models.RecordStatus]int),
		Accessories:  make(map[models.RecordStatus]int),
	}

	maintenances, err := s.ListMaintenances(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, m := range maintenances {
		summary.Maintenances[m.Evaluation.Status]++
	}

	accessories, err := s.ListAccessories(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, a := range accessories {
		summary.Accessories[a.Evaluation.Status]++
	}
	return summary, nil
}

// ---- helpers ----

// annotate evaluates one record; a vehicle stuck at the zero sentinel
// suspends evaluation and the record reports as pending.
func (s *fleetService) annotate(ctx context.Context, record models.Expirable, vehicle *models.Vehicle) models.Evaluation {
	if record.Expiry().Enabled && vehicle != nil && !vehicle.OdometerEstablished() {
		return models.Evaluation{Status: models.StatusPending, Reason: "vehicle odometer not established"}
	}
	eval := EvaluateStatus(record, vehicle, s.now(), s.GetThresholds(ctx))
	logger.StatusEvaluations.WithLabelValues(string(eval.Status)).Inc()
	return eval
}

func (s *fleetService) deriveStatus(ctx context.Context, record models.Expirable, vehicleID int64) models.Evaluation {
	vehicle, err := s.store.GetVehicleRepository().GetByID(ctx, vehicleID)
	if err != nil {
		vehicle = nil
	}
	return s.annotate(ctx, record, vehicle)
}

// refreshStoredStatus keeps the derived status column in sync with the
// engine's verdict
func (s *fleetService) refreshStoredStatus(ctx context.Context, id int64, stored, computed models.RecordStatus, update func(context.Context, int64, models.RecordStatus) error) {
	if stored == computed {
		return
	}
	if err := update(ctx, id, computed); err != nil {
		s.log.Warnw("failed to refresh stored status", "id", id, "status", computed, "error", err)
	}
}

// mapNotFound rewrites the storage sentinel to a caller-facing one
func mapNotFound(err, notFound error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return notFound
	}
	return err
}

func (s *fleetService) vehiclesByID(ctx context.Context) (map[int64]*models.Vehicle, error) {
	vehicles, err := s.store.GetVehicleRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	byID := make(map[int64]*models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}
	return byID, nil
}
