package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/interpreter"
	"github.com/community-resources/backend/internal/llm"
	"github.com/community-resources/backend/pkg/logger"
)

// Interpreter is the search pipeline boundary, narrowed so tests can
// substitute a fake.
type Interpreter interface {
	Interpret(ctx context.Context, query string, sctx interpreter.SearchContext) (*interpreter.Result, error)
}

type SearchHandler struct {
	interpreter Interpreter
}

func NewSearchHandler(i Interpreter) *SearchHandler {
	return &SearchHandler{interpreter: i}
}

type searchRequest struct {
	Query           string                       `json:"query"`
	AssistanceTypes []interpreter.AssistanceType `json:"assistanceTypes"`
	ZipCodes        []struct {
		ZipCode string `json:"zip_code"`
	} `json:"zipCodes"`
}

// HandleSearch implements POST /llm-search. The response always carries
// an explicit success boolean; raw errors never reach the caller.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse search request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	zips := make([]string, 0, len(req.ZipCodes))
	for _, z := range req.ZipCodes {
		zips = append(zips, z.ZipCode)
	}

	result, err := h.interpreter.Interpret(c.Context(), req.Query, interpreter.SearchContext{
		AssistanceTypes: req.AssistanceTypes,
		ZipCodes:        zips,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"filters":          result.Filters,
		"interpretation":   result.Interpretation,
		"geocode_address":  result.GeocodeAddress,
		"related_searches": result.RelatedSearches,
	})
}

func (h *SearchHandler) writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, interpreter.ErrEmptyQuery) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Search query is required",
		})
	}

	if errors.Is(err, interpreter.ErrNotConfigured) {
		logger.Error("Search requested but completion service is not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "LLM search service not configured",
		})
	}

	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		// Mirror the upstream status and message verbatim; retrying is
		// the caller's decision.
		return c.Status(upstream.StatusCode).JSON(fiber.Map{
			"success": false,
			"message": upstream.Message,
		})
	}

	var ierr *interpreter.InterpretError
	if errors.As(err, &ierr) {
		// A legitimate outcome, not a system failure: 200 with a
		// friendly rephrase prompt and the raw text for diagnostics.
		return c.JSON(fiber.Map{
			"success":     false,
			"message":     ierr.Message,
			"rawResponse": ierr.Raw,
		})
	}

	logger.Error("Unexpected search failure", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Search failed",
	})
}
