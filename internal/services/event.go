package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"volunteerhub/internal/authz"
	"volunteerhub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	membershipRepo domain.MembershipRepository
	committeeRepo  domain.CommitteeRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	membershipRepo domain.MembershipRepository,
	committeeRepo domain.CommitteeRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		membershipRepo: membershipRepo,
		committeeRepo:  committeeRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("%w: event title is required", domain.ErrInvalidInput)
	}
	if event.HeadID == "" {
		return fmt.Errorf("%w: event head is required", domain.ErrInvalidInput)
	}
	if event.HasCommittees && !event.CommitteeJoinLimit.Valid() {
		return fmt.Errorf("%w: invalid committee join limit", domain.ErrInvalidInput)
	}
	if !event.HasCommittees {
		event.CommitteeJoinLimit = domain.JoinLimitUnlimited
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.IsActive = true

	if event.EventCode == "" {
		code, err := generateEventCode()
		if err != nil {
			return fmt.Errorf("generate event code: %w", err)
		}
		event.EventCode = code
	}

	return s.eventRepo.Create(ctx, event)
}

const eventCodeLength = 6

// 0, 1, I and O are left out so codes survive being read aloud.
var eventCodeAlphabet = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

func generateEventCode() (string, error) {
	b := make([]rune, eventCodeLength)
	max := big.NewInt(int64(len(eventCodeAlphabet)))
	for i := 0; i < eventCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = eventCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *eventService) JoinEvent(ctx context.Context, eventCode, userID string) (*domain.Event, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByEventCode(ctx, eventCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event by code: %w", err)
	}
	if !event.IsActive {
		return nil, false, fmt.Errorf("%w: event is no longer active", domain.ErrInvalidOperation)
	}

	// Joining twice is a no-op, not an error.
	if _, ok := event.Participant(userID); ok {
		return event, false, nil
	}

	p := domain.NewVolunteer(userID, time.Now())
	if err := s.membershipRepo.AddParticipant(ctx, event.ID, p); err != nil {
		return nil, false, fmt.Errorf("add participant: %w", err)
	}
	event.Participants = append(event.Participants, p)
	return event, true, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) RemoveParticipant(ctx context.Context, eventID, userIDToRemove, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := authz.CanRemoveParticipant(authz.Membership{Event: event}, callerID, userIDToRemove); err != nil {
		return err
	}
	if _, ok := event.Participant(userIDToRemove); !ok {
		return domain.ErrNotFound
	}
	if err := s.membershipRepo.RemoveParticipant(ctx, eventID, userIDToRemove); err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

func (s *eventService) Roster(ctx context.Context, eventID, callerID string) ([]domain.RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := authz.CanViewRoster(authz.Membership{Event: event}, callerID); err != nil {
		return nil, err
	}

	committees, err := s.committeeRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list committees: %w", err)
	}

	ids := make([]string, 0, len(event.Participants))
	for _, p := range event.Participants {
		if p.UserID == event.HeadID {
			continue
		}
		ids = append(ids, p.UserID)
	}
	users, err := s.userRepo.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	entries := make([]domain.RosterEntry, 0, len(ids))
	for _, p := range event.Participants {
		if p.UserID == event.HeadID {
			continue
		}
		entry := domain.RosterEntry{
			Participant: p,
			User:        users[p.UserID],
			Committees:  make([]*domain.Committee, 0),
		}
		for _, c := range committees {
			if c.IsSubHead(p.UserID) || c.HasVolunteer(p.UserID) {
				entry.Committees = append(entry.Committees, c)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
