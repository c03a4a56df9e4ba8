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

type committeeService struct {
	committeeRepo  domain.CommitteeRepository
	eventRepo      domain.EventRepository
	membershipRepo domain.MembershipRepository
	contextTimeout time.Duration
}

func NewCommitteeService(committeeRepo domain.CommitteeRepository,
	eventRepo domain.EventRepository,
	membershipRepo domain.MembershipRepository,
	timeout time.Duration,
) domain.CommitteeService {
	return &committeeService{
		committeeRepo:  committeeRepo,
		eventRepo:      eventRepo,
		membershipRepo: membershipRepo,
		contextTimeout: timeout,
	}
}

func (s *committeeService) CreateCommittee(ctx context.Context, eventID, name, description, callerID string) (*domain.Committee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: committee name is required", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.HasCommittees {
		return nil, fmt.Errorf("%w: event has no committees", domain.ErrInvalidOperation)
	}
	if err := authz.CanManageCommittees(authz.Membership{Event: event}, callerID); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Committee{
		EventID:     eventID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.committeeRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create committee: %w", err)
	}
	c.Volunteers = make([]string, 0)
	return c, nil
}

func (s *committeeService) ListCommittees(ctx context.Context, eventID, callerID string) ([]*domain.Committee, error) {
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

	committees, err := s.committeeRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list committees: %w", err)
	}
	return committees, nil
}

func (s *committeeService) AssignSubHead(ctx context.Context, committeeID, userID, callerID string) (*domain.Committee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	committee, err := s.committeeRepo.GetByID(ctx, committeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get committee: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, committee.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := authz.CanAssignSubHead(authz.Membership{Event: event, Committee: committee}, callerID, userID); err != nil {
		return nil, err
	}

	if err := s.membershipRepo.AssignSubHead(ctx, event.ID, committeeID, userID); err != nil {
		return nil, fmt.Errorf("assign sub-head: %w", err)
	}

	updated, err := s.committeeRepo.GetByID(ctx, committeeID)
	if err != nil {
		return nil, fmt.Errorf("reload committee: %w", err)
	}
	return updated, nil
}

func (s *committeeService) JoinCommittees(ctx context.Context, eventID string, committeeIDs []string, callerID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(committeeIDs) == 0 {
		return nil, fmt.Errorf("%w: no committees given", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.HasCommittees {
		return nil, fmt.Errorf("%w: event has no committees", domain.ErrInvalidOperation)
	}
	if err := authz.CanJoinCommittees(authz.Membership{Event: event}, callerID); err != nil {
		return nil, err
	}

	// ErrJoinLimitExceeded rides along with the names that did get joined.
	joined, err := s.membershipRepo.JoinCommittees(ctx, eventID, callerID, event.CommitteeJoinLimit, committeeIDs)
	if err != nil && !errors.Is(err, domain.ErrJoinLimitExceeded) {
		return nil, fmt.Errorf("join committees: %w", err)
	}
	return joined, err
}

func (s *committeeService) RemoveVolunteer(ctx context.Context, committeeID, userID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	committee, err := s.committeeRepo.GetByID(ctx, committeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get committee: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, committee.EventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if err := authz.CanRemoveVolunteer(authz.Membership{Event: event, Committee: committee}, callerID); err != nil {
		return err
	}
	if !committee.HasVolunteer(userID) {
		return domain.ErrNotFound
	}
	if err := s.membershipRepo.RemoveVolunteer(ctx, committeeID, userID); err != nil {
		return fmt.Errorf("remove volunteer: %w", err)
	}
	return nil
}

func (s *committeeService) DeleteCommittee(ctx context.Context, committeeID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	committee, err := s.committeeRepo.GetByID(ctx, committeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get committee: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, committee.EventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if err := authz.CanManageCommittees(authz.Membership{Event: event}, callerID); err != nil {
		return err
	}
	if err := s.committeeRepo.Delete(ctx, committeeID); err != nil {
		return fmt.Errorf("delete committee: %w", err)
	}
	return nil
}
