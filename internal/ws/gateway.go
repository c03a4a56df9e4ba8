package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"volunteerhub/internal/authz"
	"volunteerhub/internal/domain"
)

// Gateway upgrades HTTP requests to websocket connections and maps inbound
// socket events onto the chat service. Messages and announcements flow the
// other way through the hub, which the services hold as their Broadcaster.
type Gateway struct {
	hub           *Hub
	chatService   domain.ChatService
	eventRepo     domain.EventRepository
	committeeRepo domain.CommitteeRepository
	verifier      domain.TokenVerifier
	logger        *slog.Logger
	upgrader      websocket.Upgrader
}

func NewGateway(hub *Hub,
	chatService domain.ChatService,
	eventRepo domain.EventRepository,
	committeeRepo domain.CommitteeRepository,
	verifier domain.TokenVerifier,
	allowedOrigins []string,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		hub:           hub,
		chatService:   chatService,
		eventRepo:     eventRepo,
		committeeRepo: committeeRepo,
		verifier:      verifier,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP authenticates the handshake and upgrades. The token rides in
// the "token" query parameter or a standard bearer header; rejection
// happens before the upgrade so clients get a plain 401.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}
	userID, err := g.verifier.Verify(token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.ErrorContext(r.Context(), "ws upgrade failed", "err", err)
		return
	}

	c := newClient(userID, conn, g.hub)
	go c.writePump()
	go c.readPump(g)
}

func (g *Gateway) dispatch(c *Client, frame inboundFrame) {
	ctx := context.Background()
	switch frame.Event {
	case "join_event":
		g.handleJoinEvent(ctx, c, frame.Data)
	case "join_chat_room":
		g.handleJoinChatRoom(ctx, c, frame.Data)
	case "send_message":
		g.handleSendMessage(ctx, c, frame.Data)
	case "typing":
		g.handleTyping(ctx, c, frame.Data)
	default:
		c.sendEvent("error", map[string]string{"message": "unknown event " + frame.Event})
	}
}

type joinEventPayload struct {
	EventID string `json:"event_id"`
}

func (g *Gateway) handleJoinEvent(ctx context.Context, c *Client, data json.RawMessage) {
	var p joinEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.EventID == "" {
		c.sendEvent("error", map[string]string{"message": "event_id is required"})
		return
	}
	event, err := g.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		c.sendEvent("error", map[string]string{"message": "event not found"})
		return
	}
	if _, ok := event.Participant(c.userID); !ok {
		c.sendEvent("error", map[string]string{"message": "not a participant of this event"})
		return
	}
	g.hub.join(domain.EventRoom(p.EventID), c)
	c.sendEvent("joined_event", map[string]string{"event_id": p.EventID})
}

type joinChatRoomPayload struct {
	EventID     string `json:"event_id"`
	ChatType    string `json:"chat_type"`
	CommitteeID string `json:"committee_id"`
}

// handleJoinChatRoom checks channel access with the membership known at
// subscribe time. Role changes after joining do not revoke the
// subscription; every send is still checked against current membership.
func (g *Gateway) handleJoinChatRoom(ctx context.Context, c *Client, data json.RawMessage) {
	var p joinChatRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendEvent("error", map[string]string{"message": "malformed join_chat_room payload"})
		return
	}
	chatType := domain.ChatType(p.ChatType)
	if !chatType.Valid() {
		c.sendEvent("error", map[string]string{"message": "unknown chat type"})
		return
	}

	event, err := g.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		c.sendEvent("error", map[string]string{"message": "event not found"})
		return
	}
	m := authz.Membership{Event: event}
	if chatType == domain.ChatCommittee {
		if p.CommitteeID == "" {
			c.sendEvent("error", map[string]string{"message": "committee_id is required"})
			return
		}
		committee, err := g.committeeRepo.GetByID(ctx, p.CommitteeID)
		if err != nil || committee.EventID != p.EventID {
			c.sendEvent("error", map[string]string{"message": "committee not found"})
			return
		}
		m.Committee = committee
	}
	if err := authz.CanSendMessage(m, c.userID, chatType); err != nil {
		var forbidden *domain.ForbiddenError
		msg := "access denied"
		if errors.As(err, &forbidden) {
			msg = forbidden.Reason
		}
		c.sendEvent("error", map[string]string{"message": msg})
		return
	}

	room := domain.ChatRoom(p.EventID, chatType, p.CommitteeID)
	g.hub.join(room, c)
	c.sendEvent("joined_chat_room", map[string]string{"room": room})
}

type sendMessagePayload struct {
	EventID     string `json:"event_id"`
	ChatType    string `json:"chat_type"`
	CommitteeID string `json:"committee_id"`
	Body        string `json:"body"`
}

func (g *Gateway) handleSendMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendEvent("error", map[string]string{"message": "malformed send_message payload"})
		return
	}
	// The service does the authorize -> persist -> publish dance; failures
	// go back to the sending connection only.
	_, err := g.chatService.SendMessage(ctx, c.userID, p.EventID, domain.ChatType(p.ChatType), p.CommitteeID, p.Body)
	if err != nil {
		var forbidden *domain.ForbiddenError
		switch {
		case errors.As(err, &forbidden):
			c.sendEvent("error", map[string]string{"message": forbidden.Reason})
		case errors.Is(err, domain.ErrInvalidInput):
			c.sendEvent("error", map[string]string{"message": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.sendEvent("error", map[string]string{"message": "not found"})
		default:
			g.logger.ErrorContext(ctx, "ws send_message failed", "user_id", c.userID, "err", err)
			c.sendEvent("error", map[string]string{"message": "failed to send message"})
		}
	}
}

type typingPayload struct {
	EventID     string `json:"event_id"`
	ChatType    string `json:"chat_type"`
	CommitteeID string `json:"committee_id"`
	IsTyping    bool   `json:"is_typing"`
}

func (g *Gateway) handleTyping(ctx context.Context, c *Client, data json.RawMessage) {
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	chatType := domain.ChatType(p.ChatType)
	if !chatType.Valid() {
		return
	}
	g.chatService.Typing(ctx, c.userID, p.EventID, chatType, p.CommitteeID, p.IsTyping)
}
