package handlers

import (
	"investmate/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// FAQs godoc
// @Summary Most frequent client questions
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.FAQResponse
// @Router /api/v1/dashboard/faqs [get]
func (h *DashboardHandler) FAQs(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	faqs, err := h.dashboardService.FAQs(c.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to load FAQs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load FAQs",
		})
	}

	return c.JSON(faqs)
}

// PeakHours godoc
// @Summary Question volume by hour of day
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.PeakHourResponse
// @Router /api/v1/dashboard/peak-hours [get]
func (h *DashboardHandler) PeakHours(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	hours, err := h.dashboardService.PeakHours(c.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to load peak hours", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load peak hours",
		})
	}

	return c.JSON(hours)
}

// PopularProperties godoc
// @Summary Most mentioned properties in answers
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.PopularPropertyResponse
// @Router /api/v1/dashboard/popular-properties [get]
func (h *DashboardHandler) PopularProperties(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	properties, err := h.dashboardService.PopularProperties(c.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to load popular properties", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load popular properties",
		})
	}

	return c.JSON(properties)
}

// Insights godoc
// @Summary Model-generated summary of client demand
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.InsightsResponse
// @Router /api/v1/dashboard/insights [get]
func (h *DashboardHandler) Insights(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	insights, err := h.dashboardService.Insights(c.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to generate insights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate insights",
		})
	}

	return c.JSON(insights)
}

// Stats godoc
// @Summary Aggregate counters for the agent
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.StatsResponse
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	stats, err := h.dashboardService.Stats(c.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stats",
		})
	}

	return c.JSON(stats)
}
