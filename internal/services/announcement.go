package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"volunteerhub/internal/authz"
	"volunteerhub/internal/domain"
)

type announcementService struct {
	announcementRepo domain.AnnouncementRepository
	eventRepo        domain.EventRepository
	committeeRepo    domain.CommitteeRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	broadcaster      domain.Broadcaster
	logger           *slog.Logger
	contextTimeout   time.Duration
}

func NewAnnouncementService(announcementRepo domain.AnnouncementRepository,
	eventRepo domain.EventRepository,
	committeeRepo domain.CommitteeRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	broadcaster domain.Broadcaster,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		eventRepo:        eventRepo,
		committeeRepo:    committeeRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		broadcaster:      broadcaster,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *announcementService) Create(ctx context.Context, callerID, eventID string, annType domain.AnnouncementType, committeeID string, fields domain.AnnouncementFields) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	fields.Title = strings.TrimSpace(fields.Title)
	fields.Content = strings.TrimSpace(fields.Content)
	if fields.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if fields.Content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if !annType.Valid() {
		return nil, fmt.Errorf("%w: unknown announcement type %q", domain.ErrInvalidInput, annType)
	}
	if annType == domain.AnnouncementPayment {
		if fields.PaymentAmount == nil || *fields.PaymentAmount <= 0 {
			return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidInput)
		}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	m := authz.Membership{Event: event}
	a := &domain.Announcement{
		EventID:         eventID,
		Type:            annType,
		Title:           fields.Title,
		Content:         fields.Content,
		CreatedBy:       callerID,
		PaymentAmount:   fields.PaymentAmount,
		PaymentPurpose:  fields.PaymentPurpose,
		PaymentDeadline: fields.PaymentDeadline,
		ExpiryDate:      fields.ExpiryDate,
	}
	if annType == domain.AnnouncementCommittee {
		if committeeID == "" {
			return nil, fmt.Errorf("%w: committee id is required for committee announcements", domain.ErrInvalidInput)
		}
		committee, err := s.committeeRepo.GetByID(ctx, committeeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get committee: %w", err)
		}
		if committee.EventID != eventID {
			return nil, domain.ErrNotFound
		}
		m.Committee = committee
		a.CommitteeID = &committeeID
	}

	if err := authz.CanCreateAnnouncement(m, callerID, annType); err != nil {
		return nil, err
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	s.broadcaster.Publish(domain.EventRoom(eventID), "new_announcement", a)

	if annType == domain.AnnouncementPayment {
		s.notifyPaymentAnnouncement(ctx, event, a)
	}
	return a, nil
}

// notifyPaymentAnnouncement emails every participant except the head. Mail
// failures are logged and swallowed; the announcement already exists.
func (s *announcementService) notifyPaymentAnnouncement(ctx context.Context, event *domain.Event, a *domain.Announcement) {
	ids := make([]string, 0, len(event.Participants))
	for _, p := range event.Participants {
		if p.UserID == event.HeadID {
			continue
		}
		ids = append(ids, p.UserID)
	}
	if len(ids) == 0 {
		return
	}
	users, err := s.userRepo.GetManyByIDs(ctx, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "load participants for payment email", "event_id", event.ID, "err", err)
		return
	}
	purpose := ""
	if a.PaymentPurpose != nil {
		purpose = *a.PaymentPurpose
	}
	for _, u := range users {
		data := &domain.PaymentAnnouncementEmailData{
			Email:      u.Email,
			EventTitle: event.Title,
			Title:      a.Title,
			Content:    a.Content,
			Amount:     *a.PaymentAmount,
			Purpose:    purpose,
		}
		if err := s.emailService.SendPaymentAnnouncement(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "send payment announcement email", "email", u.Email, "err", err)
		}
	}
}

func (s *announcementService) List(ctx context.Context, callerID, eventID string, annType domain.AnnouncementType, committeeID string) ([]*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if _, ok := event.Participant(callerID); !ok && !event.IsHead(callerID) {
		return nil, domain.Forbid("not a participant of this event")
	}
	if annType != "" && !annType.Valid() {
		return nil, fmt.Errorf("%w: unknown announcement type %q", domain.ErrInvalidInput, annType)
	}

	announcements, err := s.announcementRepo.ListByEvent(ctx, eventID, annType, committeeID)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

func (s *announcementService) TogglePin(ctx context.Context, announcementID, callerID string) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, a.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := authz.CanManageAnnouncement(authz.Membership{Event: event}, callerID); err != nil {
		return nil, err
	}

	if err := s.announcementRepo.SetPinned(ctx, announcementID, !a.IsPinned); err != nil {
		return nil, fmt.Errorf("toggle pin: %w", err)
	}
	a.IsPinned = !a.IsPinned
	return a, nil
}

func (s *announcementService) Delete(ctx context.Context, announcementID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get announcement: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, a.EventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if err := authz.CanManageAnnouncement(authz.Membership{Event: event}, callerID); err != nil {
		return err
	}
	if err := s.announcementRepo.Delete(ctx, announcementID); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
