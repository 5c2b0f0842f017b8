package dbschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/chatlab/chatlab-server/internal/domain/conversation"
)

func TestConversationSchemaRoundTrip(t *testing.T) {
	title := "Dialogue on virtue"
	domain := &conversation.Conversation{
		ID:             12,
		PublicID:       "conv_a1b2c3d4e5f6g7h8",
		Title:          &title,
		UserID:         3,
		ParticipantIDs: []uint{7, 9},
		IsAutonomous:   true,
		CurrentTurn:    4,
	}

	model := NewSchemaConversation(domain)
	require.NotNil(t, model)
	assert.Equal(t, datatypes.NewJSONSlice([]uint{7, 9}), model.ParticipantIDs)

	back := model.EtoD()
	require.NotNil(t, back)
	assert.Equal(t, domain.ParticipantIDs, back.ParticipantIDs)
	assert.Equal(t, domain.PublicID, back.PublicID)
	assert.Equal(t, domain.Title, back.Title)
	assert.Equal(t, domain.CurrentTurn, back.CurrentTurn)
}

func TestParticipantIDsScansTextSources(t *testing.T) {
	// Postgres drivers may hand jsonb back as either bytes or string.
	for _, src := range []any{[]byte(`[7,9]`), `[7,9]`} {
		var ids datatypes.JSONSlice[uint]
		require.NoError(t, ids.Scan(src))
		assert.Equal(t, datatypes.JSONSlice[uint]{7, 9}, ids)
	}
}
