package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/domain/conversation"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

const (
	replyTemperature = 0.8
	replyMaxTokens   = 1000

	titleTemperature = 0.7
	titleMaxTokens   = 100
	titleMaxLength   = 50
	titleMessageSpan = 3

	// defaultUserPrompt seeds a reply when the caller supplies no prompt.
	defaultUserPrompt = "Please introduce yourself and share your thoughts on education."

	// fallbackContent replaces an empty content field in a structured reply.
	fallbackContent = "I need a moment to think."

	// fallbackTitle is used whenever title generation fails.
	fallbackTitle = "Untitled Conversation"

	titleSystemPrompt = `Generate a concise, engaging title (2-6 words) for this conversation. Respond in JSON format: {"title": "your title"}`
)

// TurnResult is a generated character reply after persistence.
type TurnResult struct {
	Message        *conversation.Message
	Character      *character.Character
	ShouldContinue bool
}

// Orchestrator drives reply and title generation: it assembles prompts from
// conversation state, calls the active provider, and persists the outcome.
type Orchestrator struct {
	registry      *Registry
	conversations *conversation.Service
	characters    *character.Service
	logger        zerolog.Logger
}

// NewOrchestrator constructs an Orchestrator with required dependencies.
func NewOrchestrator(
	registry *Registry,
	conversations *conversation.Service,
	characters *character.Service,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:      registry,
		conversations: conversations,
		characters:    characters,
		logger:        logger,
	}
}

// Registry exposes the provider registry for config endpoints.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// GenerateNextTurn produces the next reply in the conversation, spoken by
// the given character. The reply is persisted with a freshly allocated turn
// number. Nothing is persisted when the provider call fails.
func (o *Orchestrator) GenerateNextTurn(ctx context.Context, userID uint, convPublicID, charPublicID, userPrompt string) (*TurnResult, error) {
	conv, err := o.conversations.GetByPublicIDAndUserID(ctx, convPublicID, userID)
	if err != nil {
		return nil, err
	}

	char, err := o.characters.GetVisibleByPublicID(ctx, &userID, charPublicID)
	if err != nil {
		return nil, err
	}

	history, err := o.conversations.GetHistory(ctx, conv, 0)
	if err != nil {
		return nil, err
	}

	transcript, err := o.renderHistory(ctx, history)
	if err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(userPrompt)
	if prompt == "" {
		prompt = defaultUserPrompt
	}

	provider := o.registry.Active()
	if provider == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("AI provider %q not configured or API key missing", o.registry.ActiveName()), nil, "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a5b")
	}

	raw, err := provider.Complete(ctx, CompletionRequest{
		System:      characterSystemPrompt(char.Name, char.Personality),
		Prompt:      turnPrompt(transcript, prompt, char.Name),
		Temperature: replyTemperature,
		MaxTokens:   replyMaxTokens,
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("failed to generate response for %s", char.Name), err, "c9d0e1f2-a3b4-4c5d-6e7f-8a9b0c1d2e3f")
	}

	reply := parseCharacterReply(raw)

	msg, err := o.conversations.AppendMessage(ctx, conv, conversation.AppendInput{
		CharacterID:  &char.ID,
		Content:      reply.Content,
		IsUserPrompt: false,
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug().
		Str("conversation_id", conv.PublicID).
		Str("character_id", char.PublicID).
		Str("provider", provider.Name()).
		Int("turn_number", msg.TurnNumber).
		Bool("should_continue", reply.shouldContinue()).
		Msg("generated character reply")

	return &TurnResult{
		Message:        msg,
		Character:      char,
		ShouldContinue: reply.shouldContinue(),
	}, nil
}

// GenerateTitle derives a short title from the first few messages and
// stores it on the conversation. Provider failures degrade to a fixed
// fallback title instead of an error.
func (o *Orchestrator) GenerateTitle(ctx context.Context, userID uint, convPublicID string) (string, error) {
	conv, err := o.conversations.GetByPublicIDAndUserID(ctx, convPublicID, userID)
	if err != nil {
		return "", err
	}

	history, err := o.conversations.GetHistory(ctx, conv, titleMessageSpan)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found or empty", nil, "d0e1f2a3-b4c5-4d6e-7f8a-9b0c1d2e3f4a")
	}

	excerpt, err := o.renderHistory(ctx, history)
	if err != nil {
		return "", err
	}

	title := fallbackTitle
	if provider := o.registry.Active(); provider != nil {
		raw, err := provider.Complete(ctx, CompletionRequest{
			System:      titleSystemPrompt,
			Prompt:      "Conversation excerpt:\n" + excerpt,
			Temperature: titleTemperature,
			MaxTokens:   titleMaxTokens,
		})
		if err != nil {
			o.logger.Warn().Err(err).Str("conversation_id", conv.PublicID).Msg("title generation failed, using fallback")
		} else {
			title = parseTitle(raw)
		}
	}

	if _, err := o.conversations.SetTitle(ctx, conv, title); err != nil {
		return "", err
	}
	return title, nil
}

func (o *Orchestrator) renderHistory(ctx context.Context, history []*conversation.Message) (string, error) {
	var charIDs []uint
	seen := make(map[uint]bool)
	for _, msg := range history {
		if msg.CharacterID != nil && !seen[*msg.CharacterID] {
			seen[*msg.CharacterID] = true
			charIDs = append(charIDs, *msg.CharacterID)
		}
	}

	names, err := o.characters.NamesByID(ctx, charIDs)
	if err != nil {
		return "", err
	}
	return conversation.RenderTranscript(history, names), nil
}

// characterReply is the structured reply contract. Providers are prompted
// to answer with this JSON shape; anything else is treated as raw content.
type characterReply struct {
	Content        string `json:"content"`
	ShouldContinue *bool  `json:"shouldContinue"`
}

// parseCharacterReply decodes a provider response. Malformed JSON falls
// back to the raw text with shouldContinue=true; an empty content field
// falls back to a fixed placeholder.
func parseCharacterReply(raw string) characterReply {
	var reply characterReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return characterReply{Content: raw, ShouldContinue: boolPtr(true)}
	}
	if reply.Content == "" {
		reply.Content = fallbackContent
	}
	if reply.ShouldContinue == nil {
		reply.ShouldContinue = boolPtr(true)
	}
	return reply
}

// parseTitle decodes a title response. Malformed JSON falls back to the raw
// text, trimmed and truncated.
func parseTitle(raw string) string {
	var parsed struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		if parsed.Title != "" {
			return parsed.Title
		}
		return fallbackTitle
	}

	title := strings.TrimSpace(raw)
	if title == "" {
		return fallbackTitle
	}
	// Truncate on rune boundaries so multi-byte titles are not split mid-character.
	if runes := []rune(title); len(runes) > titleMaxLength {
		title = string(runes[:titleMaxLength])
	}
	return title
}

func characterSystemPrompt(name, personality string) string {
	return fmt.Sprintf(`You are %s. %s

Instructions:
- Stay in character at all times
- Respond naturally as %s would, considering your personality and expertise
- Keep responses conversational but substantial (2-4 sentences typically)
- Build on previous messages in the conversation
- Ask questions or make points that could lead to interesting dialogue
- Respond in JSON format: {"content": "your response", "shouldContinue": true/false}
- Set shouldContinue to true if the conversation should naturally continue, false if it feels like a natural ending point`, name, personality, name)
}

func turnPrompt(transcript, userPrompt, characterName string) string {
	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	sb.WriteString(transcript)
	if userPrompt != "" {
		sb.WriteString("\n\nUser prompt: ")
		sb.WriteString(userPrompt)
	}
	sb.WriteString("\n\nPlease respond as ")
	sb.WriteString(characterName)
	sb.WriteString(":")
	return sb.String()
}

func boolPtr(b bool) *bool {
	return &b
}

// ShouldContinue unwraps the structured flag with its documented default.
func (r characterReply) shouldContinue() bool {
	return r.ShouldContinue == nil || *r.ShouldContinue
}
