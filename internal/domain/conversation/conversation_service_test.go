package conversation

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlab/chatlab-server/internal/domain/query"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

// fakeRepo is an in-memory Repository. AppendMessage holds a lock while
// allocating the turn number, mirroring the row lock the real one takes.
type fakeRepo struct {
	mu            sync.Mutex
	conversations map[uint]*Conversation
	messages      map[uint][]*Message
	nextID        uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		conversations: make(map[uint]*Conversation),
		messages:      make(map[uint][]*Message),
		nextID:        1,
	}
}

func (f *fakeRepo) Create(_ context.Context, conv *Conversation) (*Conversation, error) {
	stored := *conv
	stored.ID = f.nextID
	f.nextID++
	f.conversations[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uint) (*Conversation, error) {
	return f.conversations[id], nil
}

func (f *fakeRepo) FindByPublicID(_ context.Context, publicID string) (*Conversation, error) {
	for _, conv := range f.conversations {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindByFilter(_ context.Context, filter Filter, _ *query.Pagination) ([]*Conversation, error) {
	var out []*Conversation
	for _, conv := range f.conversations {
		if filter.UserID != nil && conv.UserID != *filter.UserID {
			continue
		}
		out = append(out, conv)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, conv *Conversation) (*Conversation, error) {
	stored := *conv
	f.conversations[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uint) error {
	delete(f.conversations, id)
	delete(f.messages, id)
	return nil
}

func (f *fakeRepo) AppendMessage(_ context.Context, conversationID uint, msg *Message) (*Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *msg
	stored.ID = f.nextID
	f.nextID++
	stored.TurnNumber = len(f.messages[conversationID]) + 1
	f.messages[conversationID] = append(f.messages[conversationID], &stored)
	if conv, ok := f.conversations[conversationID]; ok {
		conv.CurrentTurn = stored.TurnNumber
	}
	return &stored, nil
}

func (f *fakeRepo) FindMessages(_ context.Context, conversationID uint, limit int) ([]*Message, error) {
	msgs := f.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func TestService_Create_RequiresParticipants(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), 1, CreateInput{ParticipantIDs: nil})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestService_Create_AssignsPublicID(t *testing.T) {
	svc := NewService(newFakeRepo())

	conv, err := svc.Create(context.Background(), 7, CreateInput{ParticipantIDs: []uint{1, 2}})

	require.NoError(t, err)
	assert.Regexp(t, `^conv_[a-z0-9]+$`, conv.PublicID)
	assert.Equal(t, uint(7), conv.UserID)
	assert.Equal(t, 0, conv.CurrentTurn)
}

func TestService_GetByPublicIDAndUserID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{ParticipantIDs: []uint{1}})
	require.NoError(t, err)

	t.Run("owner finds it", func(t *testing.T) {
		conv, err := svc.GetByPublicIDAndUserID(ctx, created.PublicID, 1)
		require.NoError(t, err)
		assert.Equal(t, created.ID, conv.ID)
	})

	t.Run("other user gets not found", func(t *testing.T) {
		_, err := svc.GetByPublicIDAndUserID(ctx, created.PublicID, 2)
		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	})

	t.Run("malformed ID is rejected", func(t *testing.T) {
		_, err := svc.GetByPublicIDAndUserID(ctx, "msg_abc123", 1)
		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	})
}

func TestService_Update_RejectsEmptyParticipants(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{ParticipantIDs: []uint{1}})
	require.NoError(t, err)

	empty := []uint{}
	_, err = svc.Update(ctx, 1, created.PublicID, Patch{ParticipantIDs: &empty})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestService_Update_AppliesPatchFields(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{ParticipantIDs: []uint{1}})
	require.NoError(t, err)

	title := "Seminar on method"
	autonomous := true
	updated, err := svc.Update(ctx, 1, created.PublicID, Patch{Title: &title, IsAutonomous: &autonomous})

	require.NoError(t, err)
	require.NotNil(t, updated.Title)
	assert.Equal(t, title, *updated.Title)
	assert.True(t, updated.IsAutonomous)
	assert.Equal(t, []uint{1}, updated.ParticipantIDs)
}

func TestService_AppendMessage(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	conv, err := svc.Create(ctx, 1, CreateInput{ParticipantIDs: []uint{1}})
	require.NoError(t, err)

	t.Run("blank content is rejected", func(t *testing.T) {
		_, err := svc.AppendMessage(ctx, conv, AppendInput{Content: "   "})
		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	})

	t.Run("turn numbers are sequential", func(t *testing.T) {
		first, err := svc.AppendMessage(ctx, conv, AppendInput{Content: "hello", IsUserPrompt: true})
		require.NoError(t, err)
		charID := uint(3)
		second, err := svc.AppendMessage(ctx, conv, AppendInput{CharacterID: &charID, Content: "greetings"})
		require.NoError(t, err)

		assert.Equal(t, 1, first.TurnNumber)
		assert.Equal(t, 2, second.TurnNumber)
		assert.Regexp(t, `^msg_[a-z0-9]+$`, first.PublicID)
	})
}

func TestService_AppendMessage_ConcurrentTurnNumbers(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	conv, err := svc.Create(ctx, 1, CreateInput{ParticipantIDs: []uint{1}})
	require.NoError(t, err)

	const writers = 32
	turns := make(chan int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg, err := svc.AppendMessage(ctx, conv, AppendInput{Content: "hello", IsUserPrompt: true})
			assert.NoError(t, err)
			turns <- msg.TurnNumber
		}()
	}
	wg.Wait()
	close(turns)

	var got []int
	for turn := range turns {
		got = append(got, turn)
	}
	sort.Ints(got)

	// Gapless 1..N with no duplicates.
	require.Len(t, got, writers)
	for i, turn := range got {
		assert.Equal(t, i+1, turn)
	}
}

func TestRenderTranscript(t *testing.T) {
	charID := uint(5)
	unknownID := uint(99)
	names := map[uint]string{charID: "Socrates"}

	t.Run("empty history renders placeholder", func(t *testing.T) {
		got := RenderTranscript(nil, names)
		assert.Equal(t, "This is the beginning of the conversation.", got)
	})

	t.Run("user prompts and replies render in order", func(t *testing.T) {
		got := RenderTranscript([]*Message{
			{IsUserPrompt: true, Content: "What is virtue?"},
			{CharacterID: &charID, Content: "Shall we examine it together?"},
		}, names)
		assert.Equal(t, "User: What is virtue?\nSocrates: Shall we examine it together?", got)
	})

	t.Run("unresolvable characters are skipped", func(t *testing.T) {
		got := RenderTranscript([]*Message{
			{CharacterID: &unknownID, Content: "ghost line"},
			{IsUserPrompt: true, Content: "still here"},
		}, names)
		assert.Equal(t, "User: still here", got)
	})

	t.Run("only unresolvable messages renders placeholder", func(t *testing.T) {
		got := RenderTranscript([]*Message{
			{CharacterID: &unknownID, Content: "ghost line"},
		}, names)
		assert.Equal(t, "This is the beginning of the conversation.", got)
	})
}
