package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/domain/conversation"
	"github.com/chatlab/chatlab-server/internal/domain/query"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

type fakeProvider struct {
	name    string
	reply   string
	err     error
	calls   int
	lastReq CompletionRequest
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

type fakeConversationRepo struct {
	conversations map[uint]*conversation.Conversation
	messages      map[uint][]*conversation.Message
	nextID        uint
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[uint]*conversation.Conversation),
		messages:      make(map[uint][]*conversation.Message),
		nextID:        1,
	}
}

func (f *fakeConversationRepo) Create(_ context.Context, conv *conversation.Conversation) (*conversation.Conversation, error) {
	stored := *conv
	stored.ID = f.nextID
	f.nextID++
	f.conversations[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeConversationRepo) FindByID(_ context.Context, id uint) (*conversation.Conversation, error) {
	return f.conversations[id], nil
}

func (f *fakeConversationRepo) FindByPublicID(_ context.Context, publicID string) (*conversation.Conversation, error) {
	for _, conv := range f.conversations {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) FindByFilter(_ context.Context, _ conversation.Filter, _ *query.Pagination) ([]*conversation.Conversation, error) {
	return nil, nil
}

func (f *fakeConversationRepo) Update(_ context.Context, conv *conversation.Conversation) (*conversation.Conversation, error) {
	stored := *conv
	f.conversations[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeConversationRepo) Delete(_ context.Context, id uint) error {
	delete(f.conversations, id)
	return nil
}

func (f *fakeConversationRepo) AppendMessage(_ context.Context, conversationID uint, msg *conversation.Message) (*conversation.Message, error) {
	stored := *msg
	stored.ID = f.nextID
	f.nextID++
	stored.TurnNumber = len(f.messages[conversationID]) + 1
	f.messages[conversationID] = append(f.messages[conversationID], &stored)
	return &stored, nil
}

func (f *fakeConversationRepo) FindMessages(_ context.Context, conversationID uint, limit int) ([]*conversation.Message, error) {
	msgs := f.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

type fakeCharacterRepo struct {
	characters map[uint]*character.Character
}

func (f *fakeCharacterRepo) Create(_ context.Context, char *character.Character) (*character.Character, error) {
	f.characters[char.ID] = char
	return char, nil
}

func (f *fakeCharacterRepo) FindByID(_ context.Context, id uint) (*character.Character, error) {
	return f.characters[id], nil
}

func (f *fakeCharacterRepo) FindByIDs(_ context.Context, ids []uint) ([]*character.Character, error) {
	var out []*character.Character
	for _, id := range ids {
		if char, ok := f.characters[id]; ok {
			out = append(out, char)
		}
	}
	return out, nil
}

func (f *fakeCharacterRepo) FindByPublicID(_ context.Context, publicID string) (*character.Character, error) {
	for _, char := range f.characters {
		if char.PublicID == publicID {
			return char, nil
		}
	}
	return nil, nil
}

func (f *fakeCharacterRepo) FindByName(_ context.Context, name string) (*character.Character, error) {
	for _, char := range f.characters {
		if char.Name == name {
			return char, nil
		}
	}
	return nil, nil
}

func (f *fakeCharacterRepo) FindByFilter(_ context.Context, _ character.Filter, _ *query.Pagination) ([]*character.Character, error) {
	return nil, nil
}

func (f *fakeCharacterRepo) Update(_ context.Context, char *character.Character) (*character.Character, error) {
	f.characters[char.ID] = char
	return char, nil
}

func (f *fakeCharacterRepo) Delete(_ context.Context, id uint) error {
	delete(f.characters, id)
	return nil
}

type fixture struct {
	orchestrator *Orchestrator
	provider     *fakeProvider
	convRepo     *fakeConversationRepo
	conv         *conversation.Conversation
	char         *character.Character
}

func newFixture(t *testing.T, registry *Registry, provider *fakeProvider) *fixture {
	t.Helper()

	convRepo := newFakeConversationRepo()
	conversations := conversation.NewService(convRepo)

	char := &character.Character{
		ID:          42,
		PublicID:    "char_socrates42",
		Name:        "Socrates",
		Role:        "Philosopher",
		Personality: "Asks questions",
		IsActive:    true,
		IsPublic:    true,
	}
	charRepo := &fakeCharacterRepo{characters: map[uint]*character.Character{char.ID: char}}
	characters := character.NewService(charRepo)

	conv, err := conversations.Create(context.Background(), 1, conversation.CreateInput{
		ParticipantIDs: []uint{char.ID},
	})
	require.NoError(t, err)

	return &fixture{
		orchestrator: NewOrchestrator(registry, conversations, characters, zerolog.Nop()),
		provider:     provider,
		convRepo:     convRepo,
		conv:         conv,
		char:         char,
	}
}

func TestOrchestrator_GenerateNextTurn_StructuredReply(t *testing.T) {
	provider := &fakeProvider{name: "fake", reply: `{"content": "Let us examine that claim.", "shouldContinue": false}`}
	fx := newFixture(t, NewRegistry("fake", provider), provider)

	result, err := fx.orchestrator.GenerateNextTurn(context.Background(), 1, fx.conv.PublicID, fx.char.PublicID, "What is justice?")

	require.NoError(t, err)
	assert.Equal(t, "Let us examine that claim.", result.Message.Content)
	assert.False(t, result.ShouldContinue)
	assert.Equal(t, "Socrates", result.Character.Name)
	assert.Equal(t, 1, result.Message.TurnNumber)
	require.NotNil(t, result.Message.CharacterID)
	assert.Equal(t, fx.char.ID, *result.Message.CharacterID)
	assert.False(t, result.Message.IsUserPrompt)
	assert.Len(t, fx.convRepo.messages[fx.conv.ID], 1)
}

func TestOrchestrator_GenerateNextTurn_MalformedJSONFallsBackToRaw(t *testing.T) {
	provider := &fakeProvider{name: "fake", reply: "I simply answer in plain prose."}
	fx := newFixture(t, NewRegistry("fake", provider), provider)

	result, err := fx.orchestrator.GenerateNextTurn(context.Background(), 1, fx.conv.PublicID, fx.char.PublicID, "Go on.")

	require.NoError(t, err)
	assert.Equal(t, "I simply answer in plain prose.", result.Message.Content)
	assert.True(t, result.ShouldContinue)
}

func TestOrchestrator_GenerateNextTurn_EmptyContentFallsBack(t *testing.T) {
	provider := &fakeProvider{name: "fake", reply: `{"content": "", "shouldContinue": true}`}
	fx := newFixture(t, NewRegistry("fake", provider), provider)

	result, err := fx.orchestrator.GenerateNextTurn(context.Background(), 1, fx.conv.PublicID, fx.char.PublicID, "Hm?")

	require.NoError(t, err)
	assert.Equal(t, "I need a moment to think.", result.Message.Content)
}

func TestOrchestrator_GenerateNextTurn_ProviderErrorPersistsNothing(t *testing.T) {
	provider := &fakeProvider{name: "fake", err: errors.New("rate limited")}
	fx := newFixture(t, NewRegistry("fake", provider), provider)

	_, err := fx.orchestrator.GenerateNextTurn(context.Background(), 1, fx.conv.PublicID, fx.char.PublicID, "Speak.")

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.Empty(t, fx.convRepo.messages[fx.conv.ID])
}

func TestOrchestrator_GenerateNextTurn_NoActiveProvider(t *testing.T) {
	provider := &fakeProvider{name: "fake"}
	fx := newFixture(t, NewRegistry("missing"), provider)

	_, err := fx.orchestrator.GenerateNextTurn(context.Background(), 1, fx.conv.PublicID, fx.char.PublicID, "Anyone there?")

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.Zero(t, provider.calls)
}

func TestOrchestrator_GenerateNextTurn_DefaultsBlankPrompt(t *testing.T) {
	provider := &fakeProvider{name: "fake", reply: `{"content": "Greetings."}`}
	fx := newFixture(t, NewRegistry("fake", provider), provider)

	_, err := fx.orchestrator.GenerateNextTurn(context.Background(), 1, fx.conv.PublicID, fx.char.PublicID, "   ")

	require.NoError(t, err)
	assert.Contains(t, provider.lastReq.Prompt, "Please introduce yourself")
	assert.Contains(t, provider.lastReq.System, "You are Socrates")
}

func TestOrchestrator_GenerateNextTurn_OtherUsersConversation(t *testing.T) {
	provider := &fakeProvider{name: "fake", reply: `{"content": "x"}`}
	fx := newFixture(t, NewRegistry("fake", provider), provider)

	_, err := fx.orchestrator.GenerateNextTurn(context.Background(), 2, fx.conv.PublicID, fx.char.PublicID, "hi")

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Zero(t, provider.calls)
}

func TestOrchestrator_GenerateTitle(t *testing.T) {
	seedMessage := func(t *testing.T, fx *fixture) {
		t.Helper()
		_, err := fx.convRepo.AppendMessage(context.Background(), fx.conv.ID, &conversation.Message{
			PublicID:       "msg_seed00000000001",
			ConversationID: fx.conv.ID,
			Content:        "What makes a lesson stick?",
			IsUserPrompt:   true,
		})
		require.NoError(t, err)
	}

	t.Run("empty conversation is not found", func(t *testing.T) {
		provider := &fakeProvider{name: "fake", reply: `{"title": "unused"}`}
		fx := newFixture(t, NewRegistry("fake", provider), provider)

		_, err := fx.orchestrator.GenerateTitle(context.Background(), 1, fx.conv.PublicID)

		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	})

	t.Run("structured title is stored", func(t *testing.T) {
		provider := &fakeProvider{name: "fake", reply: `{"title": "On Lasting Lessons"}`}
		fx := newFixture(t, NewRegistry("fake", provider), provider)
		seedMessage(t, fx)

		title, err := fx.orchestrator.GenerateTitle(context.Background(), 1, fx.conv.PublicID)

		require.NoError(t, err)
		assert.Equal(t, "On Lasting Lessons", title)
		stored := fx.convRepo.conversations[fx.conv.ID]
		require.NotNil(t, stored.Title)
		assert.Equal(t, "On Lasting Lessons", *stored.Title)
	})

	t.Run("provider failure degrades to fallback", func(t *testing.T) {
		provider := &fakeProvider{name: "fake", err: errors.New("timeout")}
		fx := newFixture(t, NewRegistry("fake", provider), provider)
		seedMessage(t, fx)

		title, err := fx.orchestrator.GenerateTitle(context.Background(), 1, fx.conv.PublicID)

		require.NoError(t, err)
		assert.Equal(t, "Untitled Conversation", title)
	})

	t.Run("raw text title is truncated", func(t *testing.T) {
		provider := &fakeProvider{name: "fake", reply: strings.Repeat("a very long title ", 10)}
		fx := newFixture(t, NewRegistry("fake", provider), provider)
		seedMessage(t, fx)

		title, err := fx.orchestrator.GenerateTitle(context.Background(), 1, fx.conv.PublicID)

		require.NoError(t, err)
		assert.LessOrEqual(t, len(title), 50)
		assert.NotEmpty(t, title)
	})

	t.Run("multi-byte title is truncated on rune boundaries", func(t *testing.T) {
		provider := &fakeProvider{name: "fake", reply: strings.Repeat("道徳と教育", 20)}
		fx := newFixture(t, NewRegistry("fake", provider), provider)
		seedMessage(t, fx)

		title, err := fx.orchestrator.GenerateTitle(context.Background(), 1, fx.conv.PublicID)

		require.NoError(t, err)
		assert.True(t, utf8.ValidString(title))
		assert.Equal(t, 50, utf8.RuneCountInString(title))
	})
}

func TestRegistry(t *testing.T) {
	openai := &fakeProvider{name: ProviderOpenAI}
	anthropic := &fakeProvider{name: ProviderAnthropic}

	t.Run("names are sorted", func(t *testing.T) {
		r := NewRegistry(ProviderOpenAI, openai, anthropic)
		assert.Equal(t, []string{ProviderAnthropic, ProviderOpenAI}, r.Names())
	})

	t.Run("unconfigured initial selection leaves no active provider", func(t *testing.T) {
		r := NewRegistry(ProviderAnthropic, openai)
		assert.Nil(t, r.Active())
		assert.Empty(t, r.ActiveName())
	})

	t.Run("select switches the active provider", func(t *testing.T) {
		r := NewRegistry(ProviderOpenAI, openai, anthropic)
		require.NoError(t, r.Select(context.Background(), ProviderAnthropic))
		assert.Equal(t, ProviderAnthropic, r.ActiveName())
	})

	t.Run("selecting an unknown provider fails and keeps the old one", func(t *testing.T) {
		r := NewRegistry(ProviderOpenAI, openai)
		err := r.Select(context.Background(), "mistral")
		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
		assert.Equal(t, ProviderOpenAI, r.ActiveName())
	})
}
