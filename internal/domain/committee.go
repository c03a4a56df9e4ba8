package domain

import (
	"context"
	"time"
)

// Committee is a named sub-group of an event with its own chat and
// announcement channel. It is owned by its event but stored independently;
// SubHeadID, when set, must agree with the event's participant record for
// that user (kept consistent by MembershipRepository).
// swagger:model Committee
type Committee struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SubHeadID   *string   `json:"sub_head_id,omitempty"`
	Volunteers  []string  `json:"volunteers"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCommittee returns a new Committee. ID is set by the repository on create.
func NewCommittee(eventID, name, description string, createdAt time.Time) *Committee {
	return &Committee{
		EventID:     eventID,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// IsSubHead reports whether the user leads this committee.
func (c *Committee) IsSubHead(userID string) bool {
	return c.SubHeadID != nil && *c.SubHeadID == userID
}

// HasVolunteer reports whether the user is in the committee's volunteer set.
func (c *Committee) HasVolunteer(userID string) bool {
	for _, v := range c.Volunteers {
		if v == userID {
			return true
		}
	}
	return false
}

// CommitteeRepository defines the interface for committee storage.
type CommitteeRepository interface {
	// Create inserts the committee; a duplicate name within the event
	// returns ErrDuplicateCommittee.
	Create(ctx context.Context, committee *Committee) error
	// GetByID returns the committee with its volunteer set loaded.
	GetByID(ctx context.Context, id string) (*Committee, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Committee, error)
	ListByVolunteer(ctx context.Context, eventID, userID string) ([]*Committee, error)
	Delete(ctx context.Context, id string) error
}

// CommitteeService defines committee lifecycle and membership operations.
type CommitteeService interface {
	CreateCommittee(ctx context.Context, eventID, name, description, callerID string) (*Committee, error)
	ListCommittees(ctx context.Context, eventID, callerID string) ([]*Committee, error)
	// AssignSubHead promotes an existing participant to sub-head of the
	// committee (head only).
	AssignSubHead(ctx context.Context, committeeID, userID, callerID string) (*Committee, error)
	// JoinCommittees joins the calling volunteer to the given committees,
	// honoring the event's join limit. Returns names of committees joined.
	JoinCommittees(ctx context.Context, eventID string, committeeIDs []string, callerID string) ([]string, error)
	// RemoveVolunteer removes a volunteer from the committee (head or that
	// committee's sub-head).
	RemoveVolunteer(ctx context.Context, committeeID, userID, callerID string) error
	DeleteCommittee(ctx context.Context, committeeID, callerID string) error
}
