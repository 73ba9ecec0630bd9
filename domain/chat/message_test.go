package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("starts unread with sortable timestamp", func(t *testing.T) {
		m, err := NewMessage("chat-1", "adopter-1", "hello")

		require.NoError(t, err)
		assert.False(t, m.ReadStatus)
		assert.NotEmpty(t, m.MessageID)
		assert.NotEmpty(t, m.SentAt)

		_, err = time.Parse(time.RFC3339Nano, m.SentAt)
		assert.NoError(t, err)
	})

	t.Run("requires chat, sender and text", func(t *testing.T) {
		_, err := NewMessage("", "adopter-1", "hi")
		assert.Error(t, err)

		_, err = NewMessage("chat-1", "", "hi")
		assert.Error(t, err)

		_, err = NewMessage("chat-1", "adopter-1", "")
		assert.Error(t, err)
	})

	t.Run("sent-at sorts lexically in send order", func(t *testing.T) {
		first, err := NewMessage("chat-1", "adopter-1", "one")
		require.NoError(t, err)
		second, err := NewMessage("chat-1", "adopter-1", "two")
		require.NoError(t, err)

		assert.LessOrEqual(t, first.SentAt, second.SentAt)
		// Fixed-width fractional seconds keep string order and time order
		// identical even when one timestamp ends in zeros.
		assert.Len(t, first.SentAt, len(second.SentAt))
	})
}

func TestMessage_MarkRead(t *testing.T) {
	t.Run("recipient flips the flag once", func(t *testing.T) {
		m, err := NewMessage("chat-1", "adopter-1", "hello")
		require.NoError(t, err)

		assert.True(t, m.MarkRead("shelter-1"))
		assert.True(t, m.ReadStatus)

		// Second call reports no change.
		assert.False(t, m.MarkRead("shelter-1"))
		assert.True(t, m.ReadStatus)
	})

	t.Run("sender cannot mark own message", func(t *testing.T) {
		m, err := NewMessage("chat-1", "adopter-1", "hello")
		require.NoError(t, err)

		assert.False(t, m.MarkRead("adopter-1"))
		assert.False(t, m.ReadStatus)
	})

	t.Run("flag never moves back to unread", func(t *testing.T) {
		m, err := NewMessage("chat-1", "adopter-1", "hello")
		require.NoError(t, err)
		m.MarkRead("shelter-1")

		m.MarkRead("adopter-1")
		assert.True(t, m.ReadStatus)
	})
}
