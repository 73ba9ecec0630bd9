package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChat(t *testing.T) {
	t.Run("starts active", func(t *testing.T) {
		c, err := NewChat("shelter-1", "adopter-1", "dog-1", "2026-01-01T00:00:00.000000000Z")

		require.NoError(t, err)
		assert.Equal(t, StatusActive, c.Status)
		assert.True(t, c.IsActive())
		assert.NotEmpty(t, c.ChatID)
		assert.NotEmpty(t, c.CreatedAt)
	})

	t.Run("requires both participants and the dog", func(t *testing.T) {
		_, err := NewChat("", "adopter-1", "dog-1", "")
		assert.Error(t, err)

		_, err = NewChat("shelter-1", "", "dog-1", "")
		assert.Error(t, err)

		_, err = NewChat("shelter-1", "adopter-1", "", "")
		assert.Error(t, err)
	})
}

func TestChat_Deactivate(t *testing.T) {
	c, err := NewChat("shelter-1", "adopter-1", "dog-1", "")
	require.NoError(t, err)

	c.Deactivate()
	assert.False(t, c.IsActive())

	// Repeating the transition changes nothing.
	c.Deactivate()
	assert.Equal(t, StatusInactive, c.Status)
}

func TestChat_HasParticipant(t *testing.T) {
	c, err := NewChat("shelter-1", "adopter-1", "dog-1", "")
	require.NoError(t, err)

	assert.True(t, c.HasParticipant("shelter-1"))
	assert.True(t, c.HasParticipant("adopter-1"))
	assert.False(t, c.HasParticipant("stranger"))
	assert.False(t, c.HasParticipant(""))
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusInactive.IsValid())
	assert.False(t, Status("pending_request").IsValid())
}
