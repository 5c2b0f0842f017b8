// Package conversation provides multi-character conversation domain models
// and behaviors.
package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/chatlab/chatlab-server/internal/domain/query"
)

// Conversation models a turn-ordered exchange between a user and a set of
// character participants.
type Conversation struct {
	ID             uint
	PublicID       string
	Title          *string
	UserID         uint
	ParticipantIDs []uint
	IsAutonomous   bool
	CurrentTurn    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Message is a single entry in a conversation. A user prompt has no
// character; a character reply carries the speaking character's ID.
type Message struct {
	ID             uint
	PublicID       string
	ConversationID uint
	CharacterID    *uint
	Content        string
	IsUserPrompt   bool
	TurnNumber     int
	CreatedAt      time.Time
}

// CreateInput carries the fields for a new conversation.
type CreateInput struct {
	Title          *string
	ParticipantIDs []uint
	IsAutonomous   bool
}

// AppendInput carries the fields for a new message. The turn number is
// allocated by the repository, never by the caller.
type AppendInput struct {
	CharacterID  *uint
	Content      string
	IsUserPrompt bool
}

// Patch describes a partial update to a conversation. Nil fields are left
// untouched.
type Patch struct {
	Title          *string
	ParticipantIDs *[]uint
	IsAutonomous   *bool
}

// Filter narrows conversation list queries.
type Filter struct {
	UserID *uint
}

var (
	ErrContentRequired      = errors.New("message content is required")
	ErrParticipantsRequired = errors.New("at least one participant is required")
)

// Repository defines storage operations for conversations and their
// messages. AppendMessage must allocate the message's turn number
// atomically: concurrent appends to one conversation get distinct,
// gapless, increasing turn numbers.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) (*Conversation, error)
	FindByID(ctx context.Context, id uint) (*Conversation, error)
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	FindByFilter(ctx context.Context, filter Filter, pagination *query.Pagination) ([]*Conversation, error)
	Update(ctx context.Context, conv *Conversation) (*Conversation, error)
	Delete(ctx context.Context, id uint) error

	AppendMessage(ctx context.Context, conversationID uint, msg *Message) (*Message, error)
	FindMessages(ctx context.Context, conversationID uint, limit int) ([]*Message, error)
}
