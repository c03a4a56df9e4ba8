package domain

import (
	"context"
	"time"
)

// Role is a participant's role within an event.
type Role string

const (
	RoleHead      Role = "head"
	RoleSubhead   Role = "subhead"
	RoleVolunteer Role = "volunteer"
)

// JoinLimit caps how many committees one volunteer may belong to in an event.
type JoinLimit string

const (
	JoinLimitOne       JoinLimit = "one"
	JoinLimitTwo       JoinLimit = "two"
	JoinLimitUnlimited JoinLimit = "unlimited"
)

// Max returns the numeric cap for the limit. Unlimited (and any unknown
// value) places no effective cap.
func (l JoinLimit) Max() int {
	switch l {
	case JoinLimitOne:
		return 1
	case JoinLimitTwo:
		return 2
	default:
		return 1<<31 - 1
	}
}

// Valid reports whether l is a recognized join limit.
func (l JoinLimit) Valid() bool {
	return l == JoinLimitOne || l == JoinLimitTwo || l == JoinLimitUnlimited
}

// Participant is a membership record owned by an Event. CommitteeID is set
// exactly when Role is subhead; NewVolunteer and Promote keep that invariant.
type Participant struct {
	UserID      string    `json:"user_id"`
	Role        Role      `json:"role"`
	CommitteeID *string   `json:"committee_id,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// NewVolunteer returns a volunteer Participant for the given user.
func NewVolunteer(userID string, joinedAt time.Time) Participant {
	return Participant{UserID: userID, Role: RoleVolunteer, JoinedAt: joinedAt}
}

// NewHeadParticipant returns the head's own Participant record.
func NewHeadParticipant(userID string, joinedAt time.Time) Participant {
	return Participant{UserID: userID, Role: RoleHead, JoinedAt: joinedAt}
}

// Promote returns a copy of p promoted to sub-head of the given committee.
// A sub-head record always carries its committee.
func (p Participant) Promote(committeeID string) Participant {
	p.Role = RoleSubhead
	p.CommitteeID = &committeeID
	return p
}

// Event represents a volunteer-coordinated event. The head is fixed at
// creation and also appears in Participants with RoleHead.
// swagger:model Event
type Event struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	EventCode          string        `json:"event_code"`
	HasCommittees      bool          `json:"has_committees"`
	CommitteeJoinLimit JoinLimit     `json:"committee_join_limit"`
	HeadID             string        `json:"head_id"`
	Participants       []Participant `json:"participants"`
	StartDate          *time.Time    `json:"start_date,omitempty"`
	EndDate            *time.Time    `json:"end_date,omitempty"`
	IsActive           bool          `json:"is_active"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID and EventCode are
// typically set by the repository on create.
func NewEvent(title, description, headID string, hasCommittees bool, joinLimit JoinLimit, createdAt time.Time) *Event {
	return &Event{
		Title:              title,
		Description:        description,
		HeadID:             headID,
		HasCommittees:      hasCommittees,
		CommitteeJoinLimit: joinLimit,
		IsActive:           true,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

// IsHead reports whether the user is the event's head.
func (e *Event) IsHead(userID string) bool {
	return e.HeadID == userID
}

// Participant returns the participant record for the user, if present.
func (e *Event) Participant(userID string) (Participant, bool) {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	// GetByID returns the event with its participants loaded.
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByEventCode(ctx context.Context, eventCode string) (*Event, error)
	ListByUserID(ctx context.Context, userID string) ([]*Event, error)
	Delete(ctx context.Context, id string) error
}

// MembershipRepository is the single source of truth for participant and
// committee membership mutations. Operations touching both the event's
// participant list and committee volunteer sets run in one transaction.
type MembershipRepository interface {
	// AddParticipant inserts the record unless the user already participates.
	AddParticipant(ctx context.Context, eventID string, p Participant) error
	// RemoveParticipant deletes the participant row and purges the user from
	// every committee volunteer set of the event atomically. Removing an
	// absent user is a no-op.
	RemoveParticipant(ctx context.Context, eventID, userID string) error
	// AssignSubHead promotes the participant and sets the committee's
	// sub-head in the same transaction.
	AssignSubHead(ctx context.Context, eventID, committeeID, userID string) error
	// DemoteSubHead reverts a sub-head to volunteer and clears the
	// committee's sub-head in the same transaction. Not yet reachable from
	// the external interface.
	DemoteSubHead(ctx context.Context, eventID, committeeID, userID string) error
	// JoinCommittees adds the user as a volunteer to the given committees,
	// enforcing the event's join limit atomically per user. It returns the
	// names of newly joined committees; when the limit is hit mid-list the
	// joins made within the limit are kept and ErrJoinLimitExceeded signals
	// the partial outcome.
	JoinCommittees(ctx context.Context, eventID, userID string, limit JoinLimit, committeeIDs []string) ([]string, error)
	// RemoveVolunteer removes the user from one committee's volunteer set.
	RemoveVolunteer(ctx context.Context, committeeID, userID string) error
	// CountCommitteesForUser counts committees of the event where the user
	// is a volunteer.
	CountCommitteesForUser(ctx context.Context, eventID, userID string) (int, error)
}

// EventService defines event lifecycle and roster operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	JoinEvent(ctx context.Context, eventCode, userID string) (*Event, bool, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListMyEvents(ctx context.Context, userID string) ([]*Event, error)
	// RemoveParticipant removes a participant (head only, never the head itself)
	// and purges their committee memberships.
	RemoveParticipant(ctx context.Context, eventID, userIDToRemove, callerID string) error
	// Roster returns the participants (head excluded) with their committees:
	// the read-only snapshot consumed by list views and the export subsystem.
	Roster(ctx context.Context, eventID, callerID string) ([]RosterEntry, error)
}

// RosterEntry pairs a participant with the committees they belong to.
// swagger:model RosterEntry
type RosterEntry struct {
	Participant Participant  `json:"participant"`
	User        *User        `json:"user,omitempty"`
	Committees  []*Committee `json:"committees"`
}
