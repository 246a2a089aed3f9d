package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aerovista/core/internal/models"
	pkgredis "github.com/aerovista/core/internal/pkg/redis"
	"github.com/google/uuid"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	roomAdmins = "admins"
	roomPrefix = "chat:"

	redisChanChat = "av:chat:broadcast"

	eventChatHistory         = "chat-history"
	eventNewMessage          = "new-message"
	eventTyping              = "typing"
	eventStopTyping          = "stop-typing"
	eventMessagesRead        = "messages-read"
	eventVisitorJoined       = "visitor-joined"
	eventVisitorLeft         = "visitor-left"
	eventActiveConversations = "active-conversations"
	eventConversation        = "conversation"
	eventError               = "chat-error"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
	Origin  string      `json:"origin,omitempty"`
}

// Hub runs the socket.io chat relay. Presence lives in the Registry it owns;
// messages are persisted through the Service and fanned out across instances
// over Redis pub/sub.
type Hub struct {
	id       string
	sio      *socketio.Server
	registry *Registry
	svc      *Service
	rc       *pkgredis.Client
	logger   *zap.Logger

	broadcast chan Message

	adminTokenValidator func(string) bool

	// OnVisitorMessage is invoked after a visitor message is persisted, so
	// the notification module can fan out without a package cycle.
	OnVisitorMessage func(msg *models.ChatMessageModel)
}

func NewHub(svc *Service, rc *pkgredis.Client, logger *zap.Logger, adminTokenValidator func(string) bool) *Hub {
	h := &Hub{
		id:                  uuid.NewString(),
		sio:                 socketio.NewServer(nil, nil),
		registry:            NewRegistry(),
		svc:                 svc,
		rc:                  rc,
		logger:              logger,
		broadcast:           make(chan Message, 256),
		adminTokenValidator: adminTokenValidator,
	}
	h.registerHandlers()
	return h
}

// Registry exposes live presence, mainly for tests and admin endpoints.
func (h *Hub) Registry() *Registry { return h.registry }

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler { return h.sio.ServeHandler(nil) }

// Run drives the broadcast loop and the Redis relay until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rc != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case msg := <-h.broadcast:
			h.deliver(msg)
			if h.rc == nil {
				continue
			}
			msg.Origin = h.id
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := h.rc.Publish(ctx, redisChanChat, string(data)); err != nil && h.logger != nil {
				h.logger.Warn("chat publish failed", zap.Error(err))
			}
		}
	}
}

// subscribeRedis delivers broadcasts originating from other instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanChat)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			if msg.Origin == h.id {
				continue
			}
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg Message) {
	ns := h.sio.Of("/", nil)
	if msg.Room == "" {
		ns.Emit(msg.Event, msg.Payload)
		return
	}
	ns.To(socketio.Room(msg.Room)).Emit(msg.Event, msg.Payload)
}

// Broadcast queues an event for a room on every instance.
func (h *Hub) Broadcast(event string, payload interface{}, room string) {
	select {
	case h.broadcast <- Message{Event: event, Payload: payload, Room: room}:
	default:
		if h.logger != nil {
			h.logger.Warn("chat broadcast queue full, dropping", zap.String("event", event))
		}
	}
}

// BroadcastAdmins sends an event to the admin room only. The notification
// module uses this for best-effort pushes.
func (h *Hub) BroadcastAdmins(event string, payload interface{}) {
	h.Broadcast(event, payload, roomAdmins)
}

func conversationRoom(conversationID string) string {
	return roomPrefix + conversationID
}

func (h *Hub) registerHandlers() {
	ns := h.sio.Of("/", nil)
	_ = ns.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}
		sid := string(client.Id())

		_ = client.On("join", func(eventArgs ...any) {
			payload := payloadOf(eventArgs)
			conversationID := strOf(payload, "conversationId", "conversation_id")
			name := strOf(payload, "name")
			if conversationID == "" {
				_ = client.Emit(eventError, map[string]interface{}{"message": "conversationId is required"})
				return
			}

			client.Join(socketio.Room(conversationRoom(conversationID)))
			h.registry.JoinVisitor(sid, conversationID, name)

			history, err := h.svc.History(conversationID)
			if err != nil {
				h.warn("chat history load failed", err)
				history = nil
			}
			_ = client.Emit(eventChatHistory, map[string]interface{}{
				"conversationId": conversationID,
				"messages":       history,
			})

			h.BroadcastAdmins(eventVisitorJoined, map[string]interface{}{
				"conversationId": conversationID,
				"name":           name,
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
			})
		})

		_ = client.On("send-message", func(eventArgs ...any) {
			if _, err := h.processMessage(sid, payloadOf(eventArgs)); err != nil {
				_ = client.Emit(eventError, map[string]interface{}{"message": err.Error()})
			}
		})

		_ = client.On("typing", func(eventArgs ...any) {
			h.relayTyping(sid, eventTyping, payloadOf(eventArgs))
		})
		_ = client.On("stop-typing", func(eventArgs ...any) {
			h.relayTyping(sid, eventStopTyping, payloadOf(eventArgs))
		})

		_ = client.On("mark-read", func(eventArgs ...any) {
			payload := payloadOf(eventArgs)
			conversationID := strOf(payload, "conversationId", "conversation_id")
			reader := models.SenderType(strOf(payload, "reader"))
			if reader != models.SenderAdmin {
				reader = models.SenderVisitor
			}
			if h.registry.IsAdmin(sid) {
				reader = models.SenderAdmin
			}

			n, err := h.svc.MarkRead(conversationID, reader)
			if err != nil {
				h.warn("chat mark read failed", err)
				return
			}
			if n > 0 {
				h.Broadcast(eventMessagesRead, map[string]interface{}{
					"conversationId": conversationID,
					"reader":         reader,
					"count":          n,
				}, conversationRoom(conversationID))
			}
		})

		_ = client.On("join-admin", func(eventArgs ...any) {
			payload := payloadOf(eventArgs)
			token := strOf(payload, "token")
			if token == "" || h.adminTokenValidator == nil || !h.adminTokenValidator(token) {
				_ = client.Emit(eventError, map[string]interface{}{"message": "auth failed"})
				client.Disconnect(true)
				return
			}
			client.Join(socketio.Room(roomAdmins))
			h.registry.JoinAdmin(sid)
			h.emitActiveConversations(client)
		})

		_ = client.On("get-active-conversations", func(_ ...any) {
			if !h.registry.IsAdmin(sid) {
				_ = client.Emit(eventError, map[string]interface{}{"message": "admin only"})
				return
			}
			h.emitActiveConversations(client)
		})

		_ = client.On("get-conversation", func(eventArgs ...any) {
			if !h.registry.IsAdmin(sid) {
				_ = client.Emit(eventError, map[string]interface{}{"message": "admin only"})
				return
			}
			payload := payloadOf(eventArgs)
			conversationID := strOf(payload, "conversationId", "conversation_id")
			if conversationID == "" {
				return
			}
			client.Join(socketio.Room(conversationRoom(conversationID)))
			history, err := h.svc.History(conversationID)
			if err != nil {
				h.warn("chat history load failed", err)
				return
			}
			_ = client.Emit(eventConversation, map[string]interface{}{
				"conversationId": conversationID,
				"messages":       history,
			})
		})

		_ = client.On("disconnect", func(_ ...any) {
			if v, ok := h.registry.Leave(sid); ok {
				h.BroadcastAdmins(eventVisitorLeft, map[string]interface{}{
					"conversationId": v.ConversationID,
					"name":           v.Name,
					"timestamp":      time.Now().UTC().Format(time.RFC3339),
				})
			}
		})
	})
}

// processMessage persists an incoming message and routes it. Every message
// goes to its conversation room; visitor messages additionally fan out to the
// admin room and fire the OnVisitorMessage hook. Only clients registered as
// admins may send as admin.
func (h *Hub) processMessage(sid string, payload map[string]interface{}) (*models.ChatMessageModel, error) {
	conversationID := strOf(payload, "conversationId", "conversation_id")
	text := strOf(payload, "text", "message")
	name := strOf(payload, "senderName", "name")

	senderType := models.SenderVisitor
	if h.registry.IsAdmin(sid) && strOf(payload, "sender") == string(models.SenderAdmin) {
		senderType = models.SenderAdmin
	}

	msg, err := h.svc.SaveMessage(conversationID, sid, name, senderType, text)
	if err != nil {
		return nil, err
	}
	h.registry.Touch(sid)

	h.Broadcast(eventNewMessage, msg, conversationRoom(conversationID))
	if senderType == models.SenderVisitor {
		h.BroadcastAdmins(eventNewMessage, msg)
		if h.OnVisitorMessage != nil {
			h.OnVisitorMessage(msg)
		}
	}
	return msg, nil
}

func (h *Hub) relayTyping(sid, event string, payload map[string]interface{}) {
	conversationID := strOf(payload, "conversationId", "conversation_id")
	if conversationID == "" {
		return
	}
	sender := string(models.SenderVisitor)
	if h.registry.IsAdmin(sid) {
		sender = string(models.SenderAdmin)
	}
	h.registry.Touch(sid)
	h.Broadcast(event, map[string]interface{}{
		"conversationId": conversationID,
		"sender":         sender,
	}, conversationRoom(conversationID))
}

func (h *Hub) emitActiveConversations(client *socketio.Socket) {
	since := time.Now().AddDate(0, 0, -7)
	sums, err := h.svc.ActiveConversations(since, 50)
	if err != nil {
		h.warn("chat conversation list failed", err)
		return
	}
	for i := range sums {
		sums[i].Online = h.registry.Online(sums[i].ConversationID)
	}
	_ = client.Emit(eventActiveConversations, map[string]interface{}{"conversations": sums})
}

func (h *Hub) warn(msg string, err error) {
	if h.logger != nil {
		h.logger.Warn(msg, zap.Error(err))
	}
}

func payloadOf(args []any) map[string]interface{} {
	if len(args) == 0 || args[0] == nil {
		return map[string]interface{}{}
	}
	switch raw := args[0].(type) {
	case map[string]interface{}:
		return raw
	case string:
		out := map[string]interface{}{}
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return map[string]interface{}{}
		}
		return out
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return map[string]interface{}{}
		}
		out := map[string]interface{}{}
		if err := json.Unmarshal(data, &out); err != nil {
			return map[string]interface{}{}
		}
		return out
	}
}

func strOf(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
