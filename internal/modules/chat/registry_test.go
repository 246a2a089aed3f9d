package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryJoinLeave(t *testing.T) {
	r := NewRegistry()

	r.JoinVisitor("sid-1", "conv-1", "Alice")
	assert.True(t, r.Online("conv-1"))

	v, ok := r.VisitorBySID("sid-1")
	require.True(t, ok)
	assert.Equal(t, "Alice", v.Name)
	assert.Equal(t, "conv-1", v.ConversationID)

	left, ok := r.Leave("sid-1")
	require.True(t, ok)
	assert.Equal(t, "conv-1", left.ConversationID)
	assert.False(t, r.Online("conv-1"))

	_, ok = r.Leave("sid-1")
	assert.False(t, ok)
}

func TestRegistryRejoinMovesConversation(t *testing.T) {
	r := NewRegistry()

	r.JoinVisitor("sid-1", "conv-1", "Alice")
	r.JoinVisitor("sid-1", "conv-2", "Alice")

	assert.False(t, r.Online("conv-1"))
	assert.True(t, r.Online("conv-2"))

	visitors, admins := r.Counts()
	assert.Equal(t, 1, visitors)
	assert.Equal(t, 0, admins)
}

func TestRegistryAdmins(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.IsAdmin("sid-a"))
	r.JoinAdmin("sid-a")
	assert.True(t, r.IsAdmin("sid-a"))

	_, admins := r.Counts()
	assert.Equal(t, 1, admins)

	r.Leave("sid-a")
	assert.False(t, r.IsAdmin("sid-a"))
}

func TestRegistryActiveVisitors(t *testing.T) {
	r := NewRegistry()
	r.JoinVisitor("sid-1", "conv-1", "Alice")
	r.JoinVisitor("sid-2", "conv-2", "Bob")

	visitors := r.ActiveVisitors()
	assert.Len(t, visitors, 2)
}
