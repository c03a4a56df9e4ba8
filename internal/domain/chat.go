package domain

import (
	"context"
	"time"
)

// ChatType partitions an event's messages into channels.
type ChatType string

const (
	ChatGlobal      ChatType = "global"
	ChatCommittee   ChatType = "committee"
	ChatHeadSubhead ChatType = "head_subhead"
)

// Valid reports whether t is a recognized chat type.
func (t ChatType) Valid() bool {
	return t == ChatGlobal || t == ChatCommittee || t == ChatHeadSubhead
}

// ChatRoom derives the canonical room address for a channel instance.
// Subscribe and publish both derive the identical string from the same
// inputs, so sender and receivers agree on addressing without a registry.
func ChatRoom(eventID string, chatType ChatType, committeeID string) string {
	room := "chat:" + eventID + ":" + string(chatType)
	if committeeID != "" {
		room += ":" + committeeID
	}
	return room
}

// EventRoom derives the event-wide room used for lightweight notification
// signals. Every connected participant of the event subscribes to it.
func EventRoom(eventID string) string {
	return "event:" + eventID
}

// ChatMessage is an immutable chat entry. CommitteeID is set exactly when
// ChatType is ChatCommittee.
// swagger:model ChatMessage
type ChatMessage struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	ChatType    ChatType  `json:"chat_type"`
	CommitteeID *string   `json:"committee_id,omitempty"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatMessageRepository is the append-only message store. Create assigns
// the id and timestamp; existing rows are never mutated.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *ChatMessage) error
	// ListByChannel returns one page newest-first (callers re-order to
	// chronological ascending before handing it out).
	ListByChannel(ctx context.Context, eventID string, chatType ChatType, committeeID string, limit, offset int) ([]*ChatMessage, error)
}

// Broadcaster fans out events to live subscribers of a room. Publish order
// for one room matches call order.
type Broadcaster interface {
	Publish(room, event string, payload any)
	// PublishExcept skips the subscriber connections belonging to exceptUserID.
	PublishExcept(room, event string, payload any, exceptUserID string)
}

// ChatService is the distribution facade for messages: the single
// authorize -> persist -> publish path used by both the synchronous API
// and the socket gateway.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, eventID string, chatType ChatType, committeeID, body string) (*ChatMessage, error)
	History(ctx context.Context, callerID, eventID string, chatType ChatType, committeeID string, limit, offset int) ([]*ChatMessage, error)
	// Typing forwards an ephemeral typing signal to the channel room,
	// excluding the sender's own connections. Nothing is persisted.
	Typing(ctx context.Context, senderID, eventID string, chatType ChatType, committeeID string, isTyping bool)
}
