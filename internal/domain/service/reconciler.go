package service

import (
	"sort"
	"strconv"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// Reconcile merges a batch of raw telemetry records into authoritative
// vehicle odometer state. It performs no I/O: callers load the inputs,
// and persist the committed vehicles and result.NewEvents afterwards.
// vehicles is keyed by the external fleet code (stringified, as the API
// reports it); seenIDs holds external ids already persisted;
// lastEventByVehicle holds the most recent persisted event per vehicle id.
//
// Rules, in order: dedup by external id; timestamp must parse; odometer
// must be positive; per code only the latest-timestamp record survives
// (first wins on ties); unknown codes are reported, not fatal; a commit
// requires a fresher timestamp than the last persisted event and either a
// zero-sentinel vehicle or a strictly larger reading. Committed vehicles
// have CurrentOdometer set in place. Every validated, matched event is
// retained as history whether or not it won the commit.
func Reconcile(
	records []ports.TelemetryRecord,
	vehicles map[string]*models.Vehicle,
	seenIDs map[int64]struct{},
	lastEventByVehicle map[int64]*models.FuelEvent,
) *ports.ReconciliationResult {
	result := &ports.ReconciliationResult{}

	var maxSeenID int64
	for id := range seenIDs {
		if id > maxSeenID {
			maxSeenID = id
		}
	}

	best := make(map[string]*models.FuelEvent)
	notFound := make(map[string]struct{})

	for _, rec := range records {
		if _, dup := seenIDs[rec.ExternalID]; dup || rec.ExternalID <= maxSeenID {
			result.SkippedInvalid = append(result.SkippedInvalid, rec.ExternalID)
			continue
		}

		ts, err := models.ParseEventTime(rec.Timestamp)
		if err != nil {
			result.SkippedInvalid = append(result.SkippedInvalid, rec.ExternalID)
			continue
		}

		// Zero or negative readings are invalid telemetry: a fueling
		// cannot report no distance traveled.
		if rec.Odometer <= 0 {
			result.SkippedInvalid = append(result.SkippedInvalid, rec.ExternalID)
			continue
		}

		vehicle, ok := vehicles[rec.VehicleCode]
		if !ok {
			if _, reported := notFound[rec.VehicleCode]; !reported {
				notFound[rec.VehicleCode] = struct{}{}
				result.NotFound = append(result.NotFound, rec.VehicleCode)
			}
			continue
		}

		event := models.FuelEvent{
			ExternalID: rec.ExternalID,
			VehicleID:  vehicle.ID,
			Odometer:   rec.Odometer,
			OccurredAt: ts,
			Liters:     rec.Liters,
			Amount:     rec.Amount,
			FuelType:   rec.FuelType,
		}
		result.NewEvents = append(result.NewEvents, event)

		// Latest timestamp wins; the first record keeps the slot on a tie.
		if cur, exists := best[rec.VehicleCode]; !exists || ts.After(cur.OccurredAt) {
			e := event
			best[rec.VehicleCode] = &e
		}
	}

	for code, vehicle := range vehicles {
		cand, has := best[code]
		if !has {
			result.SkippedVehicles = append(result.SkippedVehicles, ports.SkippedVehicle{
				Code:   vehicle.Code,
				Reason: "no valid telemetry in batch",
			})
			continue
		}

		last := lastEventByVehicle[vehicle.ID]
		if last != nil && !cand.OccurredAt.After(last.OccurredAt) {
			result.SkippedVehicles = append(result.SkippedVehicles, ports.SkippedVehicle{
				Code:   vehicle.Code,
				Reason: "stale timestamp",
			})
			continue
		}

		if vehicle.OdometerEstablished() && cand.Odometer <= vehicle.CurrentOdometer {
			result.SkippedVehicles = append(result.SkippedVehicles, ports.SkippedVehicle{
				Code:   vehicle.Code,
				Reason: "not an improvement",
			})
			continue
		}

		vehicle.CurrentOdometer = cand.Odometer
		result.Updated = append(result.Updated, ports.VehicleUpdate{
			Code:        vehicle.Code,
			NewOdometer: cand.Odometer,
		})
	}

	// Post-pass audit: vehicles still at the zero sentinel are a health
	// signal for operators, whether or not this batch touched them.
	for _, vehicle := range vehicles {
		if !vehicle.OdometerEstablished() {
			result.LeftAtZero = append(result.LeftAtZero, vehicle.Code)
		}
	}

	sortResult(result)
	return result
}

// sortResult orders the per-vehicle slices by code so runs over the same
// inputs report identically
func sortResult(r *ports.ReconciliationResult) {
	sort.Slice(r.Updated, func(i, j int) bool { return r.Updated[i].Code < r.Updated[j].Code })
	sort.Slice(r.SkippedVehicles, func(i, j int) bool { return r.SkippedVehicles[i].Code < r.SkippedVehicles[j].Code })
	sort.Slice(r.LeftAtZero, func(i, j int) bool { return r.LeftAtZero[i] < r.LeftAtZero[j] })
	sort.Strings(r.NotFound)
}

// VehiclesByCode indexes vehicles by their stringified external code, the
// key the fueling API reports
func VehiclesByCode(vehicles []*models.Vehicle) map[string]*models.Vehicle {
	byCode := make(map[string]*models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byCode[strconv.FormatInt(v.Code, 10)] = v
	}
	return byCode
}
