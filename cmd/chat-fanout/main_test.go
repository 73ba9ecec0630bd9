package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	t.Run("accepts the updateChatStatus payload", func(t *testing.T) {
		raw := json.RawMessage(`{"action":"updateChatStatus","adopter_id":"adopter-1","dog_id":"dog-1"}`)

		adopterID, dogID, err := parseEvent(raw)

		require.NoError(t, err)
		assert.Equal(t, "adopter-1", adopterID)
		assert.Equal(t, "dog-1", dogID)
	})

	t.Run("rejects an approval bus event", func(t *testing.T) {
		// Approval only opens a chat; other approved adopters keep chatting
		// until the shelter finalizes the adoption. An approval event shaped
		// like a bus delivery must never run the fan-out.
		raw := json.RawMessage(`{"detail-type":"RequestApproved","detail":{"adopter_id":"adopter-B","dog_id":"dog-1"}}`)

		_, _, err := parseEvent(raw)

		require.Error(t, err)
	})

	t.Run("rejects an unknown action", func(t *testing.T) {
		raw := json.RawMessage(`{"action":"deleteChats","adopter_id":"adopter-1","dog_id":"dog-1"}`)

		_, _, err := parseEvent(raw)

		require.Error(t, err)
	})

	t.Run("rejects a payload missing identifiers", func(t *testing.T) {
		raw := json.RawMessage(`{"action":"updateChatStatus","adopter_id":"adopter-1"}`)

		_, _, err := parseEvent(raw)

		require.Error(t, err)
	})
}
