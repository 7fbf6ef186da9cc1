package http

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/auth"
	"github.com/easytrack/backend/internal/domain"
	"github.com/easytrack/backend/internal/service"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	mapSvc       *service.MapService
	fieldDataSvc *service.FieldDataService
	insightsSvc  *service.InsightsService
	auth         auth.Provider
	store        HealthChecker
}

// NewHandler creates a new handler
func NewHandler(
	dashboardSvc *service.DashboardService,
	mapSvc *service.MapService,
	fieldDataSvc *service.FieldDataService,
	insightsSvc *service.InsightsService,
	provider auth.Provider,
	store HealthChecker,
) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		mapSvc:       mapSvc,
		fieldDataSvc: fieldDataSvc,
		insightsSvc:  insightsSvc,
		auth:         provider,
		store:        store,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	storeStatus := "ok"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.store.Health(ctx); err != nil {
			log.Printf("Health check: field data store unavailable: %v", err)
			storeStatus = "unavailable"
		}
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "easytrack-backend",
		"version": "1.0.0",
		"store":   storeStatus,
	})
}

// GetDashboard returns the map snapshot and KPIs
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardSvc.GetDashboardData(c.UserContext())
	if err != nil {
		log.Printf("Dashboard failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetMapPoints returns the published map markers
func (h *Handler) GetMapPoints(c *fiber.Ctx) error {
	snap, err := h.mapSvc.Current(c.UserContext())
	if err != nil {
		log.Printf("Map points failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch map points")
	}

	return c.JSON(mapResponse(snap))
}

// RefreshMap re-runs the aggregation pipeline immediately
func (h *Handler) RefreshMap(c *fiber.Ctx) error {
	snap, err := h.mapSvc.Refresh(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrStaleRefresh) {
			return fiber.NewError(fiber.StatusConflict, "Refresh superseded by a newer request")
		}
		log.Printf("Map refresh failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to refresh map")
	}

	return c.JSON(mapResponse(snap))
}

// GetAlerts returns the sites currently in alert state
func (h *Handler) GetAlerts(c *fiber.Ctx) error {
	feed, err := h.insightsSvc.GetAlerts(c.UserContext())
	if err != nil {
		log.Printf("Alerts failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch alerts")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    feed,
	})
}

// GetReports returns record counts per category and month
func (h *Handler) GetReports(c *fiber.Ctx) error {
	report, err := h.insightsSvc.GetReport(c.UserContext())
	if err != nil {
		log.Printf("Reports failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "Failed to build report")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

// ListFieldData returns stored field submissions
func (h *Handler) ListFieldData(c *fiber.Ctx) error {
	records, err := h.fieldDataSvc.List(c.UserContext())
	if err != nil {
		log.Printf("List field data failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch field data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
		"count":   len(records),
	})
}

// CreateFieldData stores a new field submission
func (h *Handler) CreateFieldData(c *fiber.Ctx) error {
	var req domain.NewFieldDataRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	rec, err := h.fieldDataSvc.Create(c.UserContext(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    rec,
	})
}

func mapResponse(snap domain.MapSnapshot) domain.MapResponse {
	resp := domain.MapResponse{Data: snap, Success: true}
	if snap.Fallback {
		resp.Message = "Showing sample locations; live field data is unavailable"
	}
	return resp
}
