package conversation

import (
	"context"
	"strings"

	"github.com/chatlab/chatlab-server/internal/domain/query"
	"github.com/chatlab/chatlab-server/internal/utils/idgen"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

const (
	publicIDLength = 16

	// emptyTranscript stands in for the history of a conversation with no
	// renderable messages yet.
	emptyTranscript = "This is the beginning of the conversation."
)

// Service implements conversation use cases.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new conversation owned by the given user.
func (s *Service) Create(ctx context.Context, userID uint, input CreateInput) (*Conversation, error) {
	if len(input.ParticipantIDs) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "conversation validation failed", ErrParticipantsRequired, "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
	}

	publicID, err := idgen.GenerateSecureID("conv", publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate conversation ID", err, "b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d6e")
	}

	conv := &Conversation{
		PublicID:       publicID,
		Title:          input.Title,
		UserID:         userID,
		ParticipantIDs: input.ParticipantIDs,
		IsAutonomous:   input.IsAutonomous,
		CurrentTurn:    0,
	}

	created, err := s.repo.Create(ctx, conv)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}
	return created, nil
}

// List returns the user's conversations.
func (s *Service) List(ctx context.Context, userID uint, pagination *query.Pagination) ([]*Conversation, error) {
	convs, err := s.repo.FindByFilter(ctx, Filter{UserID: &userID}, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return convs, nil
}

// GetByPublicIDAndUserID returns the conversation if it exists and belongs
// to the user. Another user's conversation is reported as not found.
func (s *Service) GetByPublicIDAndUserID(ctx context.Context, publicID string, userID uint) (*Conversation, error) {
	if !idgen.ValidateIDFormat(publicID, "conv") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid conversation ID", nil, "c3d4e5f6-a7b8-4c9d-0e1f-2a3b4c5d6e7f")
	}

	conv, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find conversation")
	}
	if conv == nil || conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "d4e5f6a7-b8c9-4d0e-1f2a-3b4c5d6e7f8a")
	}
	return conv, nil
}

// Update applies a partial update to the user's conversation.
func (s *Service) Update(ctx context.Context, userID uint, publicID string, patch Patch) (*Conversation, error) {
	conv, err := s.GetByPublicIDAndUserID(ctx, publicID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		conv.Title = patch.Title
	}
	if patch.ParticipantIDs != nil {
		if len(*patch.ParticipantIDs) == 0 {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "conversation validation failed", ErrParticipantsRequired, "e5f6a7b8-c9d0-4e1f-2a3b-4c5d6e7f8a9b")
		}
		conv.ParticipantIDs = *patch.ParticipantIDs
	}
	if patch.IsAutonomous != nil {
		conv.IsAutonomous = *patch.IsAutonomous
	}

	updated, err := s.repo.Update(ctx, conv)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update conversation")
	}
	return updated, nil
}

// SetTitle stores a generated title on the conversation.
func (s *Service) SetTitle(ctx context.Context, conv *Conversation, title string) (*Conversation, error) {
	conv.Title = &title
	updated, err := s.repo.Update(ctx, conv)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to set conversation title")
	}
	return updated, nil
}

// Delete removes the user's conversation and its messages.
func (s *Service) Delete(ctx context.Context, userID uint, publicID string) error {
	conv, err := s.GetByPublicIDAndUserID(ctx, publicID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, conv.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	return nil
}

// AppendMessage validates and stores a new message. The repository assigns
// the turn number inside its own transaction so concurrent appends never
// collide.
func (s *Service) AppendMessage(ctx context.Context, conv *Conversation, input AppendInput) (*Message, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message validation failed", ErrContentRequired, "f6a7b8c9-d0e1-4f2a-3b4c-5d6e7f8a9b0c")
	}

	publicID, err := idgen.GenerateSecureID("msg", publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate message ID", err, "a7b8c9d0-e1f2-4a3b-4c5d-6e7f8a9b0c1d")
	}

	msg := &Message{
		PublicID:       publicID,
		ConversationID: conv.ID,
		CharacterID:    input.CharacterID,
		Content:        input.Content,
		IsUserPrompt:   input.IsUserPrompt,
	}

	appended, err := s.repo.AppendMessage(ctx, conv.ID, msg)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to append message")
	}
	return appended, nil
}

// GetHistory returns the conversation's messages in turn order. A limit of
// zero or less returns all messages.
func (s *Service) GetHistory(ctx context.Context, conv *Conversation, limit int) ([]*Message, error) {
	msgs, err := s.repo.FindMessages(ctx, conv.ID, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load messages")
	}
	return msgs, nil
}

// RenderTranscript renders messages into the plain-text form fed to the
// model. User prompts render as "User: ..."; character replies render as
// "<name>: ...". Replies whose character cannot be resolved are skipped.
// An empty transcript renders as a fixed placeholder line.
func RenderTranscript(messages []*Message, characterNames map[uint]string) string {
	var lines []string
	for _, msg := range messages {
		switch {
		case msg.IsUserPrompt:
			lines = append(lines, "User: "+msg.Content)
		case msg.CharacterID != nil:
			if name, ok := characterNames[*msg.CharacterID]; ok {
				lines = append(lines, name+": "+msg.Content)
			}
		}
	}
	if len(lines) == 0 {
		return emptyTranscript
	}
	return strings.Join(lines, "\n")
}
