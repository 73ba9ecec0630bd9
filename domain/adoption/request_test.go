package adoption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Run("starts pending with composite key stamped", func(t *testing.T) {
		req, err := NewRequest("adopter-1", "dog-1", "2026-01-01T00:00:00.000000000Z", "shelter-1")

		require.NoError(t, err)
		assert.Equal(t, StatusPending, req.Status)
		assert.NotEmpty(t, req.RequestID)
		assert.NotEmpty(t, req.CreatedAt)
		assert.Empty(t, req.ChatID)
		assert.True(t, req.IsPending())
	})

	t.Run("requires adopter, dog and shelter", func(t *testing.T) {
		_, err := NewRequest("", "dog-1", "", "shelter-1")
		assert.Error(t, err)

		_, err = NewRequest("adopter-1", "", "", "shelter-1")
		assert.Error(t, err)

		_, err = NewRequest("adopter-1", "dog-1", "", "")
		assert.Error(t, err)
	})

	t.Run("created-at sorts chronologically", func(t *testing.T) {
		first, err := NewRequest("adopter-1", "dog-1", "", "shelter-1")
		require.NoError(t, err)
		second, err := NewRequest("adopter-1", "dog-1", "", "shelter-1")
		require.NoError(t, err)

		assert.LessOrEqual(t, first.CreatedAt, second.CreatedAt)
	})
}

func TestStatus(t *testing.T) {
	t.Run("validity", func(t *testing.T) {
		for _, s := range []Status{StatusPending, StatusApproved, StatusRejected, StatusWithdrawn} {
			assert.True(t, s.IsValid(), string(s))
		}
		assert.False(t, Status("archived").IsValid())
		assert.False(t, Status("").IsValid())
	})

	t.Run("terminality", func(t *testing.T) {
		assert.False(t, StatusPending.IsTerminal())
		assert.True(t, StatusApproved.IsTerminal())
		assert.True(t, StatusRejected.IsTerminal())
		assert.True(t, StatusWithdrawn.IsTerminal())
	})

	t.Run("transitions", func(t *testing.T) {
		assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
		assert.True(t, StatusPending.CanTransitionTo(StatusWithdrawn))
		assert.False(t, StatusPending.CanTransitionTo(StatusPending))
		assert.False(t, StatusApproved.CanTransitionTo(StatusApproved))
		assert.False(t, StatusApproved.CanTransitionTo(Status("archived")))
	})
}

func TestRequest_AttachChat(t *testing.T) {
	req, err := NewRequest("adopter-1", "dog-1", "", "shelter-1")
	require.NoError(t, err)

	req.AttachChat("chat-1")

	assert.Equal(t, "chat-1", req.ChatID)
}
