package telegram

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()

	_, ok := store.Get(100)
	assert.False(t, ok)

	agentID := uuid.New()
	store.Set(100, agentID)

	got, ok := store.Get(100)
	assert.True(t, ok)
	assert.Equal(t, agentID, got)

	// Rebinding the chat replaces the agent.
	other := uuid.New()
	store.Set(100, other)
	got, _ = store.Get(100)
	assert.Equal(t, other, got)

	store.Delete(100)
	_, ok = store.Get(100)
	assert.False(t, ok)
}

func TestDeepLink(t *testing.T) {
	agentID := uuid.New()

	link := DeepLink("InvestMateAI_bot", agentID)
	assert.Equal(t, "https://t.me/InvestMateAI_bot?start="+agentID.String(), link)
}
