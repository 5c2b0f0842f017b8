package conversationresponses

import (
	"github.com/chatlab/chatlab-server/internal/domain/conversation"
	characterresponses "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses/character"
	"github.com/chatlab/chatlab-server/internal/utils/functional"
)

// ConversationResponse is the public representation of a conversation.
// ParticipantIDs carries character public IDs.
type ConversationResponse struct {
	ID             string   `json:"id"`
	Object         string   `json:"object"`
	Title          *string  `json:"title,omitempty"`
	ParticipantIDs []string `json:"participant_ids"`
	IsAutonomous   bool     `json:"is_autonomous"`
	CurrentTurn    int      `json:"current_turn"`
	CreatedAt      int64    `json:"created_at"`
	UpdatedAt      int64    `json:"updated_at"`
}

// ConversationWithMessagesResponse adds the message log and resolved
// participants to the base conversation shape.
type ConversationWithMessagesResponse struct {
	ConversationResponse
	Messages     []MessageResponse                       `json:"messages"`
	Participants []characterresponses.CharacterResponse `json:"participants"`
}

// MessageResponse is the public representation of a single message.
type MessageResponse struct {
	ID             string  `json:"id"`
	Object         string  `json:"object"`
	ConversationID string  `json:"conversation_id"`
	CharacterID    *string `json:"character_id,omitempty"`
	Content        string  `json:"content"`
	IsUserPrompt   bool    `json:"is_user_prompt"`
	TurnNumber     int     `json:"turn_number"`
	CreatedAt      int64   `json:"created_at"`
}

// GenerateTurnResponse is returned by the turn generation endpoint.
type GenerateTurnResponse struct {
	Message        MessageResponse `json:"message"`
	CharacterName  string          `json:"character_name"`
	ShouldContinue bool            `json:"should_continue"`
}

// GenerateTitleResponse is returned by the title generation endpoint.
type GenerateTitleResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewConversationResponse converts a domain conversation. participantPublicIDs
// must be resolved by the caller from the conversation's numeric IDs.
func NewConversationResponse(c *conversation.Conversation, participantPublicIDs []string) ConversationResponse {
	if participantPublicIDs == nil {
		participantPublicIDs = []string{}
	}
	return ConversationResponse{
		ID:             c.PublicID,
		Object:         "conversation",
		Title:          c.Title,
		ParticipantIDs: participantPublicIDs,
		IsAutonomous:   c.IsAutonomous,
		CurrentTurn:    c.CurrentTurn,
		CreatedAt:      c.CreatedAt.Unix(),
		UpdatedAt:      c.UpdatedAt.Unix(),
	}
}

// NewMessageResponse converts a domain message. The conversation public ID is
// passed by the caller since messages only carry the numeric FK.
func NewMessageResponse(m *conversation.Message, convPublicID string, charPublicID *string) MessageResponse {
	return MessageResponse{
		ID:             m.PublicID,
		Object:         "message",
		ConversationID: convPublicID,
		CharacterID:    charPublicID,
		Content:        m.Content,
		IsUserPrompt:   m.IsUserPrompt,
		TurnNumber:     m.TurnNumber,
		CreatedAt:      m.CreatedAt.Unix(),
	}
}

// NewMessageResponses converts a message slice using a numeric-to-public
// character ID lookup.
func NewMessageResponses(messages []*conversation.Message, convPublicID string, charPublicIDs map[uint]string) []MessageResponse {
	return functional.Map(messages, func(m *conversation.Message) MessageResponse {
		var charPublicID *string
		if m.CharacterID != nil {
			if publicID, ok := charPublicIDs[*m.CharacterID]; ok {
				charPublicID = &publicID
			}
		}
		return NewMessageResponse(m, convPublicID, charPublicID)
	})
}
