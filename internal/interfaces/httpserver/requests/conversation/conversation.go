package conversationrequests

// CreateConversationRequest creates a conversation with a fixed participant
// set. Participant IDs are character public IDs.
type CreateConversationRequest struct {
	Title          *string  `json:"title,omitempty" binding:"omitempty,max=256"`
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1"`
	IsAutonomous   bool     `json:"is_autonomous"`
}

// UpdateConversationRequest partially updates a conversation.
type UpdateConversationRequest struct {
	Title          *string   `json:"title,omitempty" binding:"omitempty,max=256"`
	ParticipantIDs *[]string `json:"participant_ids,omitempty"`
	IsAutonomous   *bool     `json:"is_autonomous,omitempty"`
}

// CreateMessageRequest appends a message to a conversation. A nil
// character_id marks the message as a user prompt.
type CreateMessageRequest struct {
	CharacterID *string `json:"character_id,omitempty"`
	Content     string  `json:"content" binding:"required"`
}

// GenerateTurnRequest asks the given character to speak next.
type GenerateTurnRequest struct {
	CharacterID string  `json:"character_id" binding:"required"`
	UserPrompt  *string `json:"user_prompt,omitempty"`
}
