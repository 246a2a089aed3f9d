package chat

import (
	"sync"
	"time"
)

// Visitor is a live presence entry for one conversation.
type Visitor struct {
	SID            string    `json:"-"`
	ConversationID string    `json:"conversation_id"`
	Name           string    `json:"name"`
	JoinedAt       time.Time `json:"joined_at"`
	LastSeen       time.Time `json:"last_seen"`
}

// Registry tracks who is connected right now. It is owned by the Hub and
// lives only in memory: a restart empties it and clients re-join.
type Registry struct {
	mu sync.RWMutex

	visitors map[string]*Visitor // sid -> visitor
	byConv   map[string]string   // conversationID -> sid
	admins   map[string]struct{} // admin sids
}

func NewRegistry() *Registry {
	return &Registry{
		visitors: make(map[string]*Visitor),
		byConv:   make(map[string]string),
		admins:   make(map[string]struct{}),
	}
}

// JoinVisitor records a visitor socket joining a conversation. A socket can
// only sit in one conversation; re-joining moves it.
func (r *Registry) JoinVisitor(sid, conversationID, name string) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.visitors[sid]; ok {
		delete(r.byConv, old.ConversationID)
	}
	r.visitors[sid] = &Visitor{
		SID:            sid,
		ConversationID: conversationID,
		Name:           name,
		JoinedAt:       now,
		LastSeen:       now,
	}
	r.byConv[conversationID] = sid
}

// JoinAdmin records an authenticated admin socket.
func (r *Registry) JoinAdmin(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[sid] = struct{}{}
}

// Touch bumps the visitor's last-seen timestamp.
func (r *Registry) Touch(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.visitors[sid]; ok {
		v.LastSeen = time.Now()
	}
}

// Leave removes the socket. It returns the visitor entry if one existed, so
// the hub can tell admins who left.
func (r *Registry) Leave(sid string) (*Visitor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.admins, sid)
	v, ok := r.visitors[sid]
	if !ok {
		return nil, false
	}
	delete(r.visitors, sid)
	if r.byConv[v.ConversationID] == sid {
		delete(r.byConv, v.ConversationID)
	}
	return v, true
}

// IsAdmin reports whether the socket authenticated as admin.
func (r *Registry) IsAdmin(sid string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.admins[sid]
	return ok
}

// Online reports whether a conversation has a connected visitor.
func (r *Registry) Online(conversationID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byConv[conversationID]
	return ok
}

// VisitorBySID returns the presence entry for a socket.
func (r *Registry) VisitorBySID(sid string) (*Visitor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.visitors[sid]
	if !ok {
		return nil, false
	}
	copied := *v
	return &copied, true
}

// ActiveVisitors lists connected visitors, most recently seen first is not
// guaranteed; callers sort if they care.
func (r *Registry) ActiveVisitors() []Visitor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Visitor, 0, len(r.visitors))
	for _, v := range r.visitors {
		out = append(out, *v)
	}
	return out
}

// Counts returns (visitors, admins) currently connected.
func (r *Registry) Counts() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.visitors), len(r.admins)
}
