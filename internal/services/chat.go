package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"volunteerhub/internal/authz"
	"volunteerhub/internal/domain"
)

const (
	maxMessageLength   = 2000
	defaultHistorySize = 50
	maxHistorySize     = 100
)

// fallbackSenderName stands in when the sender's user record cannot be
// loaded. Delivery never blocks on the enrichment lookup.
const fallbackSenderName = "Unknown User"

type chatService struct {
	messageRepo    domain.ChatMessageRepository
	eventRepo      domain.EventRepository
	committeeRepo  domain.CommitteeRepository
	userRepo       domain.UserRepository
	broadcaster    domain.Broadcaster
	contextTimeout time.Duration
}

// NewChatService wires the single authorize -> persist -> publish path for
// chat messages. Both the REST controller and the socket gateway go through
// it, so a message is stored and fanned out exactly once no matter where it
// entered.
func NewChatService(messageRepo domain.ChatMessageRepository,
	eventRepo domain.EventRepository,
	committeeRepo domain.CommitteeRepository,
	userRepo domain.UserRepository,
	broadcaster domain.Broadcaster,
	timeout time.Duration,
) domain.ChatService {
	return &chatService{
		messageRepo:    messageRepo,
		eventRepo:      eventRepo,
		committeeRepo:  committeeRepo,
		userRepo:       userRepo,
		broadcaster:    broadcaster,
		contextTimeout: timeout,
	}
}

// chatNotification is the lightweight signal published to the event-wide
// room alongside every message, so clients not subscribed to the channel
// can show unread badges.
type chatNotification struct {
	EventID     string `json:"event_id"`
	ChatType    string `json:"chat_type"`
	CommitteeID string `json:"committee_id,omitempty"`
}

func (s *chatService) SendMessage(ctx context.Context, senderID, eventID string, chatType domain.ChatType, committeeID, body string) (*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body is empty", domain.ErrInvalidInput)
	}
	if len(body) > maxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrInvalidInput, maxMessageLength)
	}

	m, err := s.resolveMembership(ctx, eventID, chatType, committeeID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanSendMessage(m, senderID, chatType); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		EventID:  eventID,
		ChatType: chatType,
		SenderID: senderID,
		Body:     body,
	}
	if chatType == domain.ChatCommittee {
		msg.CommitteeID = &committeeID
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	msg.SenderName = fallbackSenderName
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
		msg.SenderName = sender.DisplayName()
	}

	room := domain.ChatRoom(eventID, chatType, committeeID)
	s.broadcaster.Publish(room, "new_message", msg)
	s.broadcaster.Publish(domain.EventRoom(eventID), "chat_notification", chatNotification{
		EventID:     eventID,
		ChatType:    string(chatType),
		CommitteeID: committeeID,
	})
	return msg, nil
}

func (s *chatService) History(ctx context.Context, callerID, eventID string, chatType domain.ChatType, committeeID string, limit, offset int) ([]*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultHistorySize
	}
	if limit > maxHistorySize {
		limit = maxHistorySize
	}
	if offset < 0 {
		offset = 0
	}

	m, err := s.resolveMembership(ctx, eventID, chatType, committeeID)
	if err != nil {
		return nil, err
	}
	// Reading a channel takes the same membership as writing to it.
	if err := authz.CanSendMessage(m, callerID, chatType); err != nil {
		return nil, err
	}

	page, err := s.messageRepo.ListByChannel(ctx, eventID, chatType, committeeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// The store pages newest-first; flip each page back to chronological
	// order before handing it out.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	s.enrichSenderNames(ctx, page)
	return page, nil
}

func (s *chatService) Typing(ctx context.Context, senderID, eventID string, chatType domain.ChatType, committeeID string, isTyping bool) {
	// Ephemeral signal: no persistence, no membership lookup. Only
	// connections that joined the room receive it, and joining is where
	// access is checked.
	senderName := fallbackSenderName
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
		senderName = sender.DisplayName()
	}
	room := domain.ChatRoom(eventID, chatType, committeeID)
	s.broadcaster.PublishExcept(room, "user_typing", map[string]any{
		"user_id":   senderID,
		"user_name": senderName,
		"is_typing": isTyping,
	}, senderID)
}

func (s *chatService) resolveMembership(ctx context.Context, eventID string, chatType domain.ChatType, committeeID string) (authz.Membership, error) {
	if !chatType.Valid() {
		return authz.Membership{}, fmt.Errorf("%w: unknown chat type %q", domain.ErrInvalidInput, chatType)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return authz.Membership{}, domain.ErrNotFound
		}
		return authz.Membership{}, fmt.Errorf("get event: %w", err)
	}

	m := authz.Membership{Event: event}
	if chatType == domain.ChatCommittee {
		if committeeID == "" {
			return authz.Membership{}, fmt.Errorf("%w: committee id is required for committee chat", domain.ErrInvalidInput)
		}
		committee, err := s.committeeRepo.GetByID(ctx, committeeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return authz.Membership{}, domain.ErrNotFound
			}
			return authz.Membership{}, fmt.Errorf("get committee: %w", err)
		}
		if committee.EventID != eventID {
			return authz.Membership{}, domain.ErrNotFound
		}
		m.Committee = committee
	}
	return m, nil
}

func (s *chatService) enrichSenderNames(ctx context.Context, messages []*domain.ChatMessage) {
	if len(messages) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(messages))
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.SenderID]; ok {
			continue
		}
		seen[m.SenderID] = struct{}{}
		ids = append(ids, m.SenderID)
	}
	users, err := s.userRepo.GetManyByIDs(ctx, ids)
	for _, m := range messages {
		if err == nil {
			if u, ok := users[m.SenderID]; ok {
				m.SenderName = u.DisplayName()
				continue
			}
		}
		m.SenderName = fallbackSenderName
	}
}
