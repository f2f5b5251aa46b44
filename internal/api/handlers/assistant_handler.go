package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/llm"
	"github.com/community-resources/backend/pkg/logger"
)

const assistantPrompt = `You are the in-app help assistant for the Community Resources Guide Houston, a bilingual directory of social-service organizations used by case workers. Answer questions about how to search the directory, filter by assistance type, export selections by email or PDF, and switch between English and Spanish. Answer in the language the user writes in. Keep answers short and practical. If asked about anything unrelated to the guide, say you can only help with the guide.`

// ChatClient is the completion boundary for the help assistant.
type ChatClient interface {
	Chat(ctx context.Context, systemPrompt string, history []llm.Message) (string, error)
}

type AssistantHandler struct {
	client ChatClient
}

func NewAssistantHandler(client ChatClient) *AssistantHandler {
	return &AssistantHandler{client: client}
}

type assistantRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history"`
}

// HandleChat proxies one help-assistant turn. Conversation history is
// caller-supplied per call; nothing is stored server-side.
func (h *AssistantHandler) HandleChat(c *fiber.Ctx) error {
	var req assistantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Message is required",
		})
	}

	if h.client == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Help assistant not configured",
		})
	}

	history := append(req.History, llm.Message{Role: "user", Content: req.Message})

	reply, err := h.client.Chat(c.Context(), assistantPrompt, history)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			return c.Status(upstream.StatusCode).JSON(fiber.Map{
				"success": false,
				"message": upstream.Message,
			})
		}
		logger.Error("Help assistant request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Help assistant is unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"reply":   reply,
	})
}
