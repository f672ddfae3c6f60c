package handlers

import (
	"investmate/internal/dto"
	"investmate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService  *service.ChatService
	cacheService *service.CacheService
	logger       *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, cacheService *service.CacheService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		cacheService: cacheService,
		logger:       logger,
	}
}

// Chat godoc
// @Summary Ask a property question
// @Description Answer a natural-language property question with matching listings
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat request"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /gpt/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var agentID *uuid.UUID
	if req.AgentID != "" {
		id, err := uuid.Parse(req.AgentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid agent_id",
			})
		}
		agentID = &id
	}

	resp, err := h.chatService.Ask(c.Context(), req.Question, agentID)
	if err != nil {
		if err == service.ErrEmptyQuestion {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Question is required",
			})
		}
		h.logger.Error("Chat request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to answer question",
		})
	}

	return c.JSON(resp)
}

// CacheStats godoc
// @Summary Criteria cache status
// @Tags chat
// @Produce json
// @Success 200 {object} service.CacheStats
// @Router /gpt/cache/stats [get]
func (h *ChatHandler) CacheStats(c *fiber.Ctx) error {
	return c.JSON(h.cacheService.Stats(c.Context()))
}

// ClearCache godoc
// @Summary Clear the criteria cache
// @Tags chat
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /gpt/cache/clear [delete]
func (h *ChatHandler) ClearCache(c *fiber.Ctx) error {
	deleted, err := h.cacheService.Clear(c.Context())
	if err != nil {
		h.logger.Error("Cache clear failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear cache",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "cleared",
		"deleted": deleted,
	})
}

// ListConversations godoc
// @Summary List recent conversations
// @Tags conversations
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ConversationResponse
// @Router /api/v1/conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	conversations, err := h.chatService.ListConversations(c.Context(), agentID, limit)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list conversations",
		})
	}

	return c.JSON(conversations)
}

// DeleteConversations godoc
// @Summary Delete all conversations of the agent
// @Tags conversations
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/conversations [delete]
func (h *ChatHandler) DeleteConversations(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	deleted, err := h.chatService.DeleteConversations(c.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to delete conversations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete conversations",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "deleted",
		"deleted": deleted,
	})
}
