package domain

import (
	"context"
	"time"
)

// AnnouncementType scopes who an announcement targets and who may create it.
type AnnouncementType string

const (
	AnnouncementGlobal    AnnouncementType = "global"
	AnnouncementCommittee AnnouncementType = "committee"
	AnnouncementPayment   AnnouncementType = "payment"
)

// Valid reports whether t is a recognized announcement type.
func (t AnnouncementType) Valid() bool {
	return t == AnnouncementGlobal || t == AnnouncementCommittee || t == AnnouncementPayment
}

// Announcement is created by an authorized actor and afterwards mutated only
// by pin/unpin and hard deletion.
// swagger:model Announcement
type Announcement struct {
	ID          string           `json:"id"`
	EventID     string           `json:"event_id"`
	Type        AnnouncementType `json:"type"`
	CommitteeID *string          `json:"committee_id,omitempty"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	CreatedBy   string           `json:"created_by"`
	IsPinned    bool             `json:"is_pinned"`

	// Payment fields, present iff Type is AnnouncementPayment.
	PaymentAmount   *float64   `json:"payment_amount,omitempty"`
	PaymentPurpose  *string    `json:"payment_purpose,omitempty"`
	PaymentDeadline *time.Time `json:"payment_deadline,omitempty"`

	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// AnnouncementRepository defines announcement storage. It performs no
// authorization; callers gate pin and delete before invoking them.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, id string) (*Announcement, error)
	// ListByEvent filters by optional type and committee, sorted pinned
	// first, then newest first.
	ListByEvent(ctx context.Context, eventID string, annType AnnouncementType, committeeID string) ([]*Announcement, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementFields carries the caller-supplied fields for creation.
type AnnouncementFields struct {
	Title           string
	Content         string
	PaymentAmount   *float64
	PaymentPurpose  *string
	PaymentDeadline *time.Time
	ExpiryDate      *time.Time
}

// AnnouncementService defines announcement operations. Create is the single
// authorize -> persist -> publish path for announcements.
type AnnouncementService interface {
	Create(ctx context.Context, callerID, eventID string, annType AnnouncementType, committeeID string, fields AnnouncementFields) (*Announcement, error)
	List(ctx context.Context, callerID, eventID string, annType AnnouncementType, committeeID string) ([]*Announcement, error)
	// TogglePin flips the pin flag (head only) and returns the new state.
	TogglePin(ctx context.Context, announcementID, callerID string) (*Announcement, error)
	Delete(ctx context.Context, announcementID, callerID string) error
}
