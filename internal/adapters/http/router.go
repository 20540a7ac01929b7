package http

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/fleetfix/fleetfix/internal/logger"
)

// ginLogger returns a gin.HandlerFunc (middleware) that logs requests using our structured logger
func ginLogger() gin.HandlerFunc {
	log := logger.New("gin-http")

	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)

		// Get status code and other details
		statusCode := c.Writer.Status()
		method := c.Request.Method
		clientIP := c.ClientIP()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		// Build log fields
		fields := []interface{}{
			"status", statusCode,
			"method", method,
			"path", path,
			"ip", clientIP,
			"latency_ms", latency.Milliseconds(),
		}

		if query != "" {
			fields = append(fields, "query", query)
		}

		if errorMessage != "" {
			fields = append(fields, "error", errorMessage)
		}

		// Log based on status code
		if statusCode >= 500 {
			log.Errorw("HTTP request error", fields...)
		} else if statusCode >= 400 {
			log.Warnw("HTTP request warning", fields...)
		} else {
			log.Infow("HTTP request", fields...)
		}
	}
}

// ginRecovery returns a gin.HandlerFunc (middleware) that recovers from panics and logs using our structured logger
func ginRecovery() gin.HandlerFunc {
	log := logger.New("gin-recovery")

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Get the full stack trace
				stack := debug.Stack()

				// Log the panic with full stack trace
				log.Errorw("Panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"ip", c.ClientIP(),
					"stack", string(stack),
				)

				// Also print to stderr for immediate visibility
				fmt.Printf("\n=== PANIC RECOVERED ===\n")
				fmt.Printf("Error: %v\n", err)
				fmt.Printf("Path: %s\n", c.Request.URL.Path)
				fmt.Printf("Method: %s\n", c.Request.Method)
				fmt.Printf("Client IP: %s\n", c.ClientIP())
				fmt.Printf("\nStack Trace:\n%s\n", string(stack))
				fmt.Printf("======================\n\n")

				// Abort with 500 status
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(fleetService ports.FleetService, syncService ports.SyncService, store ports.DatabaseAdapter) *gin.Engine {
	// Set Gin to release mode to disable debug logging
	gin.SetMode(gin.ReleaseMode)

	// Create router without default middleware
	router := gin.New()

	// Add custom recovery middleware (must be first)
	router.Use(ginRecovery())

	// Add custom logger middleware
	router.Use(ginLogger())

	handler := NewHandler(fleetService, syncService, store)

	// Fleet management API
	api := router.Group("/api/v1")
	{
		api.POST("/vehicles", handler.CreateVehicle)
		api.GET("/vehicles", handler.ListVehicles)
		api.GET("/vehicles/:id", handler.GetVehicle)
		api.PUT("/vehicles/:id", handler.UpdateVehicle)
		api.DELETE("/vehicles/:id", handler.DeleteVehicle)
		api.GET("/vehicles/:id/fuel-events", handler.ListVehicleFuelEvents)
		api.GET("/vehicles/:id/maintenances", handler.ListVehicleMaintenances)
		api.GET("/vehicles/:id/accessories", handler.ListVehicleAccessories)

		api.POST("/maintenances", handler.CreateMaintenance)
		api.GET("/maintenances", handler.ListMaintenances)
		api.GET("/maintenances/:id", handler.GetMaintenance)
		api.PUT("/maintenances/:id", handler.UpdateMaintenance)
		api.DELETE("/maintenances/:id", handler.DeleteMaintenance)

		api.POST("/accessories", handler.CreateAccessory)
		api.GET("/accessories", handler.ListAccessories)
		api.GET("/accessories/:id", handler.GetAccessory)
		api.PUT("/accessories/:id", handler.UpdateAccessory)
		api.DELETE("/accessories/:id", handler.DeleteAccessory)

		api.GET("/lookups/:kind", handler.ListLookups)
		api.POST("/lookups/:kind", handler.CreateLookup)
		api.DELETE("/lookups/:kind/:id", handler.DeleteLookup)

		api.GET("/settings", handler.GetSettings)
		api.PUT("/settings", handler.PutSetting)

		api.GET("/summary", handler.GetSummary)
		api.POST("/sync", handler.TriggerSync)
	}

	// Health check
	router.GET("/health", handler.HealthCheck)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(logger.MetricsHandler()))

	return router
}
