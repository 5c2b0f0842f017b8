package dbschema

import (
	"gorm.io/datatypes"

	"github.com/chatlab/chatlab-server/internal/domain/conversation"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{})
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Conversation represents the database schema for conversations.
type Conversation struct {
	BaseModel
	PublicID       string                    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Title          *string                   `gorm:"type:varchar(256)"`
	UserID         uint                      `gorm:"index:idx_conversations_user;not null"`
	User           User                      `gorm:"foreignKey:UserID"`
	ParticipantIDs datatypes.JSONSlice[uint] `gorm:"type:jsonb"`
	IsAutonomous   bool                      `gorm:"not null;default:false"`
	CurrentTurn    int                       `gorm:"not null;default:0"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// Message represents the database schema for conversation messages.
// The (conversation_id, turn_number) pair is unique so a turn allocation
// race surfaces as a constraint violation instead of silent duplication.
type Message struct {
	BaseModel
	PublicID       string       `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID uint         `gorm:"uniqueIndex:ux_messages_conversation_turn;index:idx_messages_conversation;not null"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID"`
	CharacterID    *uint        `gorm:"index"`
	Character      *Character   `gorm:"foreignKey:CharacterID"`
	Content        string       `gorm:"type:text;not null"`
	IsUserPrompt   bool         `gorm:"not null;default:false"`
	TurnNumber     int          `gorm:"uniqueIndex:ux_messages_conversation_turn;not null"`
}

// NewSchemaConversation converts a domain conversation into a schema instance.
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	if c == nil {
		return nil
	}

	return &Conversation{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID:       c.PublicID,
		Title:          c.Title,
		UserID:         c.UserID,
		ParticipantIDs: datatypes.NewJSONSlice(c.ParticipantIDs),
		IsAutonomous:   c.IsAutonomous,
		CurrentTurn:    c.CurrentTurn,
	}
}

// EtoD converts a schema conversation back to the domain representation.
func (c *Conversation) EtoD() *conversation.Conversation {
	if c == nil {
		return nil
	}

	return &conversation.Conversation{
		ID:             c.ID,
		PublicID:       c.PublicID,
		Title:          c.Title,
		UserID:         c.UserID,
		ParticipantIDs: []uint(c.ParticipantIDs),
		IsAutonomous:   c.IsAutonomous,
		CurrentTurn:    c.CurrentTurn,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewSchemaMessage converts a domain message into a schema instance.
func NewSchemaMessage(m *conversation.Message) *Message {
	if m == nil {
		return nil
	}

	return &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
		},
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		CharacterID:    m.CharacterID,
		Content:        m.Content,
		IsUserPrompt:   m.IsUserPrompt,
		TurnNumber:     m.TurnNumber,
	}
}

// EtoD converts a schema message back to the domain representation.
func (m *Message) EtoD() *conversation.Message {
	if m == nil {
		return nil
	}

	return &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		CharacterID:    m.CharacterID,
		Content:        m.Content,
		IsUserPrompt:   m.IsUserPrompt,
		TurnNumber:     m.TurnNumber,
		CreatedAt:      m.CreatedAt,
	}
}
