package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/fleetfix/fleetfix/internal/domain/service"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the fleet service
type Handler struct {
	fleetService ports.FleetService
	syncService  ports.SyncService
	store        ports.DatabaseAdapter
}

// NewHandler creates a new HTTP handler
func NewHandler(fleetService ports.FleetService, syncService ports.SyncService, store ports.DatabaseAdapter) *Handler {
	return &Handler{
		fleetService: fleetService,
		syncService:  syncService,
		store:        store,
	}
}

// ---- Vehicles ----

// CreateVehicle handles POST /vehicles
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	vehicle := req.toVehicle(0)
	if err := h.fleetService.CreateVehicle(c.Request.Context(), vehicle); err != nil {
		h.writeError(c, err, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicle handles GET /vehicles/:id
func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	vehicle, err := h.fleetService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to retrieve vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle handles PUT /vehicles/:id
func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	vehicle := req.toVehicle(id)
	if err := h.fleetService.UpdateVehicle(c.Request.Context(), vehicle); err != nil {
		h.writeError(c, err, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle handles DELETE /vehicles/:id
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleetService.DeleteVehicle(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete vehicle")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListVehicles handles GET /vehicles
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.fleetService.ListVehicles(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to list vehicles")
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

// ListVehicleFuelEvents handles GET /vehicles/:id/fuel-events
func (h *Handler) ListVehicleFuelEvents(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.store.GetFuelEventRepository().ListByVehicle(c.Request.Context(), id, limit)
	if err != nil {
		h.writeError(c, err, "Failed to list fuel events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// ListVehicleMaintenances handles GET /vehicles/:id/maintenances
func (h *Handler) ListVehicleMaintenances(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	annotated, err := h.fleetService.ListVehicleMaintenances(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to list vehicle maintenances")
		return
	}

	c.JSON(http.StatusOK, annotated)
}

// ListVehicleAccessories handles GET /vehicles/:id/accessories
func (h *Handler) ListVehicleAccessories(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	annotated, err := h.fleetService.ListVehicleAccessories(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to list vehicle accessories")
		return
	}

	c.JSON(http.StatusOK, annotated)
}

// ---- Maintenances ----

// CreateMaintenance handles POST /maintenances
func (h *Handler) CreateMaintenance(c *gin.Context) {
	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	m := req.toMaintenance(0)
	if err := h.fleetService.CreateMaintenance(c.Request.Context(), m); err != nil {
		h.writeError(c, err, "Failed to create maintenance")
		return
	}

	c.JSON(http.StatusCreated, m)
}

// GetMaintenance handles GET /maintenances/:id
func (h *Handler) GetMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	annotated, err := h.fleetService.GetMaintenance(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to retrieve maintenance")
		return
	}

	c.JSON(http.StatusOK, annotated)
}

// UpdateMaintenance handles PUT /maintenances/:id
func (h *Handler) UpdateMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	m := req.toMaintenance(id)
	if err := h.fleetService.UpdateMaintenance(c.Request.Context(), m); err != nil {
		h.writeError(c, err, "Failed to update maintenance")
		return
	}

	c.JSON(http.StatusOK, m)
}

// DeleteMaintenance handles DELETE /maintenances/:id
func (h *Handler) DeleteMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleetService.DeleteMaintenance(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete maintenance")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMaintenances handles GET /maintenances with optional ?status= filter
func (h *Handler) ListMaintenances(c *gin.Context) {
	filter, err := statusFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	annotated, err := h.fleetService.ListMaintenances(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err, "Failed to list maintenances")
		return
	}

	c.JSON(http.StatusOK, annotated)
}

// ---- Accessories ----

// CreateAccessory handles POST /accessories
func (h *Handler) CreateAccessory(c *gin.Context) {
	var req AccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a := req.toAccessory(0)
	if err := h.fleetService.CreateAccessory(c.Request.Context(), a); err != nil {
		h.writeError(c, err, "Failed to create accessory")
		return
	}

	c.JSON(http.StatusCreated, a)
}

// GetAccessory handles GET /accessories/:id
func (h *Handler) GetAccessory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	annotated, err := h.fleetService.GetAccessory(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to retrieve accessory")
		return
	}

	c.JSON(http.StatusOK, annotated)
}

// UpdateAccessory handles PUT /accessories/:id
func (h *Handler) UpdateAccessory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a := req.toAccessory(id)
	if err := h.fleetService.UpdateAccessory(c.Request.Context(), a); err != nil {
		h.writeError(c, err, "Failed to update accessory")
		return
	}

	c.JSON(http.StatusOK, a)
}

// DeleteAccessory handles DELETE /accessories/:id
func (h *Handler) DeleteAccessory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleetService.DeleteAccessory(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete accessory")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAccessories handles GET /accessories with optional ?status= filter
func (h *Handler) ListAccessories(c *gin.Context) {
	filter, err := statusFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	annotated, err := h.fleetService.ListAccessories(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err, "Failed to list accessories")
		return
	}

	c.JSON(http.StatusOK, annotated)
}

// ---- Lookups ----

// ListLookups handles GET /lookups/:kind
func (h *Handler) ListLookups(c *gin.Context) {
	kind := models.LookupKind(c.Param("kind"))

	lookups, err := h.fleetService.ListLookups(c.Request.Context(), kind)
	if err != nil {
		h.writeError(c, err, "Failed to list lookups")
		return
	}

	c.JSON(http.StatusOK, lookups)
}

// CreateLookup handles POST /lookups/:kind
func (h *Handler) CreateLookup(c *gin.Context) {
	kind := models.LookupKind(c.Param("kind"))

	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	lookup, err := h.fleetService.CreateLookup(c.Request.Context(), kind, req.Name)
	if err != nil {
		h.writeError(c, err, "Failed to create lookup")
		return
	}

	c.JSON(http.StatusCreated, lookup)
}

// DeleteLookup handles DELETE /lookups/:kind/:id
func (h *Handler) DeleteLookup(c *gin.Context) {
	kind := models.LookupKind(c.Param("kind"))
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleetService.DeleteLookup(c.Request.Context(), kind, id); err != nil {
		h.writeError(c, err, "Failed to delete lookup")
		return
	}

	c.Status(http.StatusNoContent)
}

// ---- Settings ----

// GetSettings handles GET /settings
func (h *Handler) GetSettings(c *gin.Context) {
	thresholds := h.fleetService.GetThresholds(c.Request.Context())
	c.JSON(http.StatusOK, thresholds)
}

// PutSetting handles PUT /settings
func (h *Handler) PutSetting(c *gin.Context) {
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.fleetService.PutSetting(c.Request.Context(), req.Key, req.Value); err != nil {
		h.writeError(c, err, "Failed to update setting")
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}

// ---- Summary ----

// GetSummary handles GET /summary
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.fleetService.StatusSummary(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to build summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ---- Sync ----

// TriggerSync handles POST /sync
func (h *Handler) TriggerSync(c *gin.Context) {
	report, err := h.syncService.Sync(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, ProblemDetails{
				Type:   "about:blank",
				Title:  "Conflict",
				Status: http.StatusConflict,
				Detail: err.Error(),
			})
			return
		}
		h.writeError(c, err, "Sync failed")
		return
	}

	c.JSON(http.StatusOK, report)
}

// ---- Health ----

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.store.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "fleetfix",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fleetfix",
	})
}

// ---- helpers ----

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "id must be an integer")
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:   "about:blank",
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
	})
}

// statusFilter parses the ?status= query parameter, a comma-separated
// list of record statuses
func statusFilter(c *gin.Context) (ports.StatusFilter, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}

	var filter ports.StatusFilter
	for _, s := range strings.Split(raw, ",") {
		status := models.RecordStatus(strings.TrimSpace(s))
		switch status {
		case models.StatusDone, models.StatusHealthy, models.StatusAlert, models.StatusOverdue, models.StatusPending:
			filter = append(filter, status)
		default:
			return nil, errors.New("unknown status: " + string(status))
		}
	}
	return filter, nil
}

// writeError maps domain errors onto HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case isNotFound(err):
		c.JSON(http.StatusNotFound, ProblemDetails{
			Type:   "about:blank",
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: err.Error(),
		})
	case isValidation(err):
		badRequest(c, err.Error())
	case isConflict(err):
		c.JSON(http.StatusConflict, ProblemDetails{
			Type:   "about:blank",
			Title:  "Conflict",
			Status: http.StatusConflict,
			Detail: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ProblemDetails{
			Type:   "about:blank",
			Title:  "Internal Server Error",
			Status: http.StatusInternalServerError,
			Detail: fallback,
		})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrVehicleNotFound) ||
		errors.Is(err, service.ErrRecordNotFound) ||
		errors.Is(err, ports.ErrNotFound)
}

func isValidation(err error) bool {
	return errors.Is(err, models.ErrInvalidCode) ||
		errors.Is(err, models.ErrEmptyPlate) ||
		errors.Is(err, models.ErrPlateTooLong) ||
		errors.Is(err, models.ErrEmptyModel) ||
		errors.Is(err, models.ErrNegativeReading) ||
		errors.Is(err, models.ErrEmptyName) ||
		errors.Is(err, models.ErrInvalidMaintenanceType) ||
		errors.Is(err, models.ErrNegativeCost) ||
		errors.Is(err, service.ErrInvalidSetting)
}

func isConflict(err error) bool {
	return errors.Is(err, ports.ErrAlreadyExists)
}
