package handlers

import (
	"strings"

	"investmate/internal/dto"
	"investmate/internal/service"
	"investmate/internal/telegram"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const welcomeMessage = "Hi! I'm your property assistant. Ask me about available properties, " +
	"for example: \"3-room apartments in Tel Aviv under 2,500,000\"."

// TelegramHandler bridges Bot API updates to the chat pipeline. A
// "/start <agent-id>" deep link binds the chat to an agent's portfolio;
// every other message is treated as a property question.
type TelegramHandler struct {
	chatService *service.ChatService
	client      *telegram.Client
	sessions    *telegram.SessionStore
	botUsername string
	logger      *zap.Logger
}

func NewTelegramHandler(chatService *service.ChatService, client *telegram.Client, sessions *telegram.SessionStore, botUsername string, logger *zap.Logger) *TelegramHandler {
	return &TelegramHandler{
		chatService: chatService,
		client:      client,
		sessions:    sessions,
		botUsername: botUsername,
		logger:      logger,
	}
}

// Webhook godoc
// @Summary Telegram Bot API webhook
// @Tags telegram
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /telegram/webhook [post]
func (h *TelegramHandler) Webhook(c *fiber.Ctx) error {
	var update telegram.Update
	if err := c.BodyParser(&update); err != nil {
		h.logger.Warn("Unparsable telegram update", zap.Error(err))
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	// Edited messages, callbacks and the like are not handled.
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if strings.HasPrefix(text, "/start") {
		h.handleStart(c, chatID, text)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	var agentID *uuid.UUID
	if id, ok := h.sessions.Get(chatID); ok {
		agentID = &id
	}

	resp, err := h.chatService.Ask(c.Context(), text, agentID)
	if err != nil {
		h.logger.Error("Telegram chat failed", zap.Error(err))
		h.reply(c, chatID, "Sorry, something went wrong. Please try again.")
		return c.JSON(fiber.Map{"status": "ok"})
	}

	h.reply(c, chatID, resp.Message)
	return c.JSON(fiber.Map{"status": "ok"})
}

// TelegramLink godoc
// @Summary Deep link that binds a Telegram chat to the agent
// @Tags telegram
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.TelegramLinkResponse
// @Router /api/v1/agents/telegram-link [get]
func (h *TelegramHandler) TelegramLink(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	return c.JSON(dto.TelegramLinkResponse{
		BotUsername: h.botUsername,
		Link:        telegram.DeepLink(h.botUsername, agentID),
	})
}

func (h *TelegramHandler) handleStart(c *fiber.Ctx, chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) > 1 {
		if agentID, err := uuid.Parse(parts[1]); err == nil {
			h.sessions.Set(chatID, agentID)
		} else {
			h.logger.Warn("Bad agent ID in /start payload", zap.String("payload", parts[1]))
		}
	}

	h.reply(c, chatID, welcomeMessage)
}

func (h *TelegramHandler) reply(c *fiber.Ctx, chatID int64, text string) {
	if !h.client.Enabled() {
		return
	}
	if err := h.client.SendMessage(c.Context(), chatID, text); err != nil {
		h.logger.Warn("Failed to send telegram reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
