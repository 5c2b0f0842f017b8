// Package conversationhandler serves conversation and message endpoints.
package conversationhandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/domain/conversation"
	"github.com/chatlab/chatlab-server/internal/infrastructure/metrics"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/requests"
	conversationrequests "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/requests/conversation"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses"
	characterresponses "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses/character"
	conversationresponses "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses/conversation"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

type ConversationHandler struct {
	conversationService *conversation.Service
	characterService    *character.Service
	logger              zerolog.Logger
}

func NewConversationHandler(
	conversationService *conversation.Service,
	characterService *character.Service,
	logger zerolog.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		characterService:    characterService,
		logger:              logger,
	}
}

// resolveParticipants maps character public IDs to numeric IDs, enforcing
// visibility for the given viewer. An invisible character reads as not found.
func (h *ConversationHandler) resolveParticipants(ctx context.Context, viewerID uint, publicIDs []string) ([]uint, error) {
	ids := make([]uint, 0, len(publicIDs))
	seen := make(map[uint]struct{}, len(publicIDs))
	for _, publicID := range publicIDs {
		char, err := h.characterService.GetVisibleByPublicID(ctx, &viewerID, publicID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[char.ID]; dup {
			continue
		}
		seen[char.ID] = struct{}{}
		ids = append(ids, char.ID)
	}
	return ids, nil
}

// characterPublicIDs resolves numeric character IDs to their public IDs.
func (h *ConversationHandler) characterPublicIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}
	characters, err := h.characterService.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(characters))
	for _, char := range characters {
		out[char.ID] = char.PublicID
	}
	return out, nil
}

func (h *ConversationHandler) conversationResponse(ctx context.Context, conv *conversation.Conversation) (*conversationresponses.ConversationResponse, error) {
	lookup, err := h.characterPublicIDs(ctx, conv.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	publicIDs := make([]string, 0, len(conv.ParticipantIDs))
	for _, id := range conv.ParticipantIDs {
		if publicID, ok := lookup[id]; ok {
			publicIDs = append(publicIDs, publicID)
		}
	}
	resp := conversationresponses.NewConversationResponse(conv, publicIDs)
	return &resp, nil
}

// List returns the caller's conversations, most recently updated first.
func (h *ConversationHandler) List(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "3296ce86-783b-4c05-9fdb-930d3713024e")
		return
	}

	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination parameters")
		return
	}

	ctx := c.Request.Context()
	conversations, err := h.conversationService.List(ctx, usr.ID, pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	data := make([]conversationresponses.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		resp, err := h.conversationResponse(ctx, conv)
		if err != nil {
			responses.HandleError(c, err, "failed to resolve participants")
			return
		}
		data = append(data, *resp)
	}

	c.JSON(http.StatusOK, responses.NewListResponse(data))
}

// Create starts a new conversation with a fixed participant set.
func (h *ConversationHandler) Create(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "8f4e8df7-21d7-4b15-8f0d-7d4f37e7f15e")
		return
	}

	var req conversationrequests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "f8a3d4e2-6b9c-4d7e-a1f3-2c5e8d9f0b4a")
		return
	}

	ctx := c.Request.Context()
	participantIDs, err := h.resolveParticipants(ctx, usr.ID, req.ParticipantIDs)
	if err != nil {
		responses.HandleError(c, err, "participant character not found")
		return
	}

	conv, err := h.conversationService.Create(ctx, usr.ID, conversation.CreateInput{
		Title:          req.Title,
		ParticipantIDs: participantIDs,
		IsAutonomous:   req.IsAutonomous,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}

	metrics.ConversationsCreatedTotal.Inc()

	resp, err := h.conversationResponse(ctx, conv)
	if err != nil {
		responses.HandleError(c, err, "failed to resolve participants")
		return
	}
	c.JSON(http.StatusCreated, *resp)
}

// Get returns a conversation with its messages and resolved participants.
func (h *ConversationHandler) Get(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "0be38f63-91d1-4f8e-b365-19d1d95d49cf")
		return
	}

	ctx := c.Request.Context()
	conv, err := h.conversationService.GetByPublicIDAndUserID(ctx, c.Param("conv_public_id"), usr.ID)
	if err != nil {
		responses.HandleError(c, err, "conversation not found")
		return
	}

	history, err := h.conversationService.GetHistory(ctx, conv, 0)
	if err != nil {
		responses.HandleError(c, err, "failed to load messages")
		return
	}

	participants, err := h.characterService.GetByIDs(ctx, conv.ParticipantIDs)
	if err != nil {
		responses.HandleError(c, err, "failed to resolve participants")
		return
	}

	lookup := make(map[uint]string, len(participants))
	for _, char := range participants {
		lookup[char.ID] = char.PublicID
	}
	// Messages can reference characters no longer in the participant set.
	var missing []uint
	for _, msg := range history {
		if msg.CharacterID != nil {
			if _, ok := lookup[*msg.CharacterID]; !ok {
				missing = append(missing, *msg.CharacterID)
			}
		}
	}
	if len(missing) > 0 {
		extra, err := h.characterPublicIDs(ctx, missing)
		if err != nil {
			responses.HandleError(c, err, "failed to resolve message characters")
			return
		}
		for id, publicID := range extra {
			lookup[id] = publicID
		}
	}

	publicIDs := make([]string, 0, len(conv.ParticipantIDs))
	for _, id := range conv.ParticipantIDs {
		if publicID, ok := lookup[id]; ok {
			publicIDs = append(publicIDs, publicID)
		}
	}

	c.JSON(http.StatusOK, conversationresponses.ConversationWithMessagesResponse{
		ConversationResponse: conversationresponses.NewConversationResponse(conv, publicIDs),
		Messages:             conversationresponses.NewMessageResponses(history, conv.PublicID, lookup),
		Participants:         characterresponses.NewCharacterResponses(participants),
	})
}

// Update applies a partial update to a conversation.
func (h *ConversationHandler) Update(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "e4dc5a2e-bd2f-4a44-9ef6-05422e54f83b")
		return
	}

	var req conversationrequests.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "67b3c63b-bd3f-48e7-bfe8-3c08c0a41c9d")
		return
	}

	ctx := c.Request.Context()
	patch := conversation.Patch{
		Title:        req.Title,
		IsAutonomous: req.IsAutonomous,
	}
	if req.ParticipantIDs != nil {
		participantIDs, err := h.resolveParticipants(ctx, usr.ID, *req.ParticipantIDs)
		if err != nil {
			responses.HandleError(c, err, "participant character not found")
			return
		}
		patch.ParticipantIDs = &participantIDs
	}

	conv, err := h.conversationService.Update(ctx, usr.ID, c.Param("conv_public_id"), patch)
	if err != nil {
		responses.HandleError(c, err, "failed to update conversation")
		return
	}

	resp, err := h.conversationResponse(ctx, conv)
	if err != nil {
		responses.HandleError(c, err, "failed to resolve participants")
		return
	}
	c.JSON(http.StatusOK, *resp)
}

// Delete removes a conversation and its messages.
func (h *ConversationHandler) Delete(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "75a1c3c0-0a53-4a3f-95ab-6ffab3f3f2f1")
		return
	}

	publicID := c.Param("conv_public_id")
	if err := h.conversationService.Delete(c.Request.Context(), usr.ID, publicID); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}

	c.JSON(http.StatusOK, responses.DeletedResponse{
		ID:      publicID,
		Object:  "conversation.deleted",
		Deleted: true,
	})
}

// AppendMessage adds a message to the conversation through the turn engine.
func (h *ConversationHandler) AppendMessage(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "b41e1c6b-13d4-41a8-b2e5-df34ff3047cc")
		return
	}

	var req conversationrequests.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "edc22798-e40f-441c-9b7f-8c6dc1f379f3")
		return
	}

	ctx := c.Request.Context()
	conv, err := h.conversationService.GetByPublicIDAndUserID(ctx, c.Param("conv_public_id"), usr.ID)
	if err != nil {
		responses.HandleError(c, err, "conversation not found")
		return
	}

	input := conversation.AppendInput{
		Content:      req.Content,
		IsUserPrompt: true,
	}
	var charPublicID *string
	source := "user"
	if req.CharacterID != nil {
		char, err := h.characterService.GetVisibleByPublicID(ctx, &usr.ID, *req.CharacterID)
		if err != nil {
			responses.HandleError(c, err, "character not found")
			return
		}
		input.CharacterID = &char.ID
		input.IsUserPrompt = false
		charPublicID = &char.PublicID
		source = "character"
	}

	msg, err := h.conversationService.AppendMessage(ctx, conv, input)
	if err != nil {
		responses.HandleError(c, err, "failed to append message")
		return
	}

	metrics.MessagesAppendedTotal.WithLabelValues(source).Inc()

	c.JSON(http.StatusCreated, conversationresponses.NewMessageResponse(msg, conv.PublicID, charPublicID))
}

// ListMessages returns the conversation's messages in turn order.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "8b8dc2fb-1c3e-46c7-a30a-5b21f649a6cf")
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid limit number", "0b7c8e4f-4a6f-43a7-918c-74f1b1c6de25")
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()
	conv, err := h.conversationService.GetByPublicIDAndUserID(ctx, c.Param("conv_public_id"), usr.ID)
	if err != nil {
		responses.HandleError(c, err, "conversation not found")
		return
	}

	history, err := h.conversationService.GetHistory(ctx, conv, limit)
	if err != nil {
		responses.HandleError(c, err, "failed to load messages")
		return
	}

	var charIDs []uint
	seen := make(map[uint]struct{})
	for _, msg := range history {
		if msg.CharacterID != nil {
			if _, dup := seen[*msg.CharacterID]; !dup {
				seen[*msg.CharacterID] = struct{}{}
				charIDs = append(charIDs, *msg.CharacterID)
			}
		}
	}
	lookup, err := h.characterPublicIDs(ctx, charIDs)
	if err != nil {
		responses.HandleError(c, err, "failed to resolve message characters")
		return
	}

	c.JSON(http.StatusOK, responses.NewListResponse(conversationresponses.NewMessageResponses(history, conv.PublicID, lookup)))
}
