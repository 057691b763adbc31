package confirm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanAndTake(t *testing.T) {
	r := NewRegistry(5 * time.Minute)

	action := PendingAction{
		Kind:         ActionRemoveAssignment,
		Summary:      "Remove Ada from Atlas",
		AssignmentID: 42,
	}

	token, expiresAt := r.Plan(action)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	got, err := r.Take(token)
	require.NoError(t, err)
	assert.Equal(t, action, got)
}

func TestTakeIsSingleUse(t *testing.T) {
	r := NewRegistry(5 * time.Minute)

	token, _ := r.Plan(PendingAction{Kind: ActionAddAssignment})
	_, err := r.Take(token)
	require.NoError(t, err)

	_, err = r.Take(token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTakeUnknownToken(t *testing.T) {
	r := NewRegistry(5 * time.Minute)
	_, err := r.Take("not-a-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTakeExpiredToken(t *testing.T) {
	r := NewRegistry(time.Minute)

	now := time.Now()
	r.clock = func() time.Time { return now }

	token, _ := r.Plan(PendingAction{Kind: ActionAddAssignment})

	now = now.Add(2 * time.Minute)
	_, err := r.Take(token)
	assert.ErrorIs(t, err, ErrExpired)

	// expired tokens are gone, not retryable
	_, err = r.Take(token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanPrunesExpiredTokens(t *testing.T) {
	r := NewRegistry(time.Minute)

	now := time.Now()
	r.clock = func() time.Time { return now }

	stale, _ := r.Plan(PendingAction{Kind: ActionAddAssignment})
	now = now.Add(2 * time.Minute)
	_, _ = r.Plan(PendingAction{Kind: ActionAddAssignment})

	r.mu.Lock()
	_, exists := r.tokens[stale]
	r.mu.Unlock()
	assert.False(t, exists)
}
