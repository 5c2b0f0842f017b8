// Package aihandler serves generation endpoints and provider configuration.
package aihandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatlab/chatlab-server/internal/domain/generation"
	"github.com/chatlab/chatlab-server/internal/infrastructure/metrics"
	"github.com/chatlab/chatlab-server/internal/infrastructure/observability"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	airequests "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/requests/ai"
	conversationrequests "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/requests/conversation"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses"
	conversationresponses "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses/conversation"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

type AIHandler struct {
	orchestrator *generation.Orchestrator
	logger       zerolog.Logger
}

func NewAIHandler(orchestrator *generation.Orchestrator, logger zerolog.Logger) *AIHandler {
	return &AIHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// GenerateTurn produces the next in-character reply for a conversation.
func (h *AIHandler) GenerateTurn(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "c2b8e15b-6d6d-4b4f-90cb-c54af7ccf545")
		return
	}

	var req conversationrequests.GenerateTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "5f2f9e54-3a4c-4e1b-b4c8-95a9d826e5a3")
		return
	}

	userPrompt := ""
	if req.UserPrompt != nil {
		userPrompt = *req.UserPrompt
	}

	provider := h.orchestrator.Registry().ActiveName()
	ctx, span := observability.StartSpan(c.Request.Context(), "chatlab-server", "generation.turn")
	defer span.End()

	start := time.Now()
	result, err := h.orchestrator.GenerateNextTurn(ctx, usr.ID, c.Param("conv_public_id"), req.CharacterID, userPrompt)
	if err != nil {
		observability.RecordError(ctx, err)
		metrics.GenerationsTotal.WithLabelValues("turn", provider, "error").Inc()
		recordProviderError(provider, err)
		responses.HandleError(c, err, "failed to generate response")
		return
	}

	metrics.GenerationsTotal.WithLabelValues("turn", provider, "ok").Inc()
	metrics.GenerationDuration.WithLabelValues("turn", provider).Observe(time.Since(start).Seconds())

	charPublicID := result.Character.PublicID
	c.JSON(http.StatusOK, conversationresponses.GenerateTurnResponse{
		Message:        conversationresponses.NewMessageResponse(result.Message, c.Param("conv_public_id"), &charPublicID),
		CharacterName:  result.Character.Name,
		ShouldContinue: result.ShouldContinue,
	})
}

// GenerateTitle derives and persists a short conversation title.
func (h *AIHandler) GenerateTitle(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "a1f6bb2f-96ad-4f4d-bd62-34d53be7b6a5")
		return
	}

	provider := h.orchestrator.Registry().ActiveName()
	ctx, span := observability.StartSpan(c.Request.Context(), "chatlab-server", "generation.title")
	defer span.End()

	start := time.Now()
	title, err := h.orchestrator.GenerateTitle(ctx, usr.ID, c.Param("conv_public_id"))
	if err != nil {
		observability.RecordError(ctx, err)
		metrics.GenerationsTotal.WithLabelValues("title", provider, "error").Inc()
		recordProviderError(provider, err)
		responses.HandleError(c, err, "failed to generate title")
		return
	}

	metrics.GenerationsTotal.WithLabelValues("title", provider, "ok").Inc()
	metrics.GenerationDuration.WithLabelValues("title", provider).Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, conversationresponses.GenerateTitleResponse{
		ID:    c.Param("conv_public_id"),
		Title: title,
	})
}

// GetConfig reports the active provider and which backends are configured.
func (h *AIHandler) GetConfig(c *gin.Context) {
	registry := h.orchestrator.Registry()
	c.JSON(http.StatusOK, gin.H{
		"ai_provider":          registry.ActiveName(),
		"available_providers":  registry.Names(),
		"openai_configured":    registry.Has(generation.ProviderOpenAI),
		"anthropic_configured": registry.Has(generation.ProviderAnthropic),
	})
}

// SwitchProvider changes the active generation provider at runtime.
func (h *AIHandler) SwitchProvider(c *gin.Context) {
	var req airequests.SwitchProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "07f1e2a3-91a4-4cf2-a6c8-dd7ff3b6fb1c")
		return
	}

	if err := h.orchestrator.Registry().Select(c.Request.Context(), req.Provider); err != nil {
		responses.HandleError(c, err, "failed to switch provider")
		return
	}

	h.logger.Info().Str("provider", req.Provider).Msg("active generation provider switched")

	c.JSON(http.StatusOK, gin.H{
		"ai_provider": h.orchestrator.Registry().ActiveName(),
	})
}

// recordProviderError counts upstream provider failures. Client-side errors
// such as validation or not-found are not provider faults and are skipped.
func recordProviderError(provider string, err error) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) && platformErr.Type == platformerrors.ErrorTypeExternal {
		metrics.ProviderErrorsTotal.WithLabelValues(provider, string(platformErr.Type)).Inc()
	}
}
