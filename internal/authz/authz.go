// Package authz holds the pure authorization decisions for event
// communication. Every function consults only the snapshot it is handed and
// returns nil to allow or a *domain.ForbiddenError to deny; services resolve
// NotFound for dangling references before calling in here.
package authz

import (
	"volunteerhub/internal/domain"
)

// Membership is the snapshot a decision is made against: the event and, when
// the action targets a committee, that committee.
type Membership struct {
	Event     *domain.Event
	Committee *domain.Committee
}

func (m Membership) isHead(userID string) bool {
	return m.Event.IsHead(userID)
}

func (m Membership) participant(userID string) (domain.Participant, bool) {
	return m.Event.Participant(userID)
}

// CanSendMessage gates chat sends per channel.
func CanSendMessage(m Membership, userID string, chatType domain.ChatType) error {
	isHead := m.isHead(userID)
	p, isParticipant := m.participant(userID)

	if !isHead && !isParticipant {
		return domain.Forbid("not a participant of this event")
	}

	switch chatType {
	case domain.ChatGlobal:
		return nil
	case domain.ChatHeadSubhead:
		if isHead || p.Role == domain.RoleSubhead {
			return nil
		}
		return domain.Forbid("only the head or sub-heads can use this chat")
	case domain.ChatCommittee:
		if isHead {
			return nil
		}
		if m.Committee != nil && (m.Committee.IsSubHead(userID) || m.Committee.HasVolunteer(userID)) {
			return nil
		}
		return domain.Forbid("you are not in this committee")
	default:
		return domain.Forbid("unknown chat type")
	}
}

// CanCreateAnnouncement gates announcement creation per type.
func CanCreateAnnouncement(m Membership, userID string, annType domain.AnnouncementType) error {
	isHead := m.isHead(userID)
	p, _ := m.participant(userID)

	switch annType {
	case domain.AnnouncementPayment:
		if isHead {
			return nil
		}
		return domain.Forbid("only the event head can create payment announcements")
	case domain.AnnouncementGlobal:
		if isHead || p.Role == domain.RoleSubhead {
			return nil
		}
		return domain.Forbid("only the head or sub-heads can create global announcements")
	case domain.AnnouncementCommittee:
		if isHead {
			return nil
		}
		if m.Committee != nil && m.Committee.IsSubHead(userID) {
			return nil
		}
		return domain.Forbid("only the head or the committee sub-head can create committee announcements")
	default:
		return domain.Forbid("unknown announcement type")
	}
}

// CanManageAnnouncement gates pin/unpin and deletion: head only.
func CanManageAnnouncement(m Membership, userID string) error {
	if m.isHead(userID) {
		return nil
	}
	return domain.Forbid("only the event head can manage announcements")
}

// CanManageCommittees gates committee creation and deletion: head only.
func CanManageCommittees(m Membership, userID string) error {
	if m.isHead(userID) {
		return nil
	}
	return domain.Forbid("only the event head can manage committees")
}

// CanAssignSubHead gates sub-head assignment: head only, and the target must
// already be a participant of the event.
func CanAssignSubHead(m Membership, callerID, targetID string) error {
	if !m.isHead(callerID) {
		return domain.Forbid("only the event head can assign sub-heads")
	}
	if _, ok := m.participant(targetID); !ok {
		return domain.ErrInvalidOperation
	}
	return nil
}

// CanJoinCommittees gates committee self-joins: volunteers only. Sub-heads
// are assigned, not self-joining, and the head is never a volunteer.
func CanJoinCommittees(m Membership, userID string) error {
	p, ok := m.participant(userID)
	if !ok {
		return domain.Forbid("you are not a participant of this event")
	}
	switch p.Role {
	case domain.RoleHead:
		return domain.Forbid("the event head cannot join committees")
	case domain.RoleSubhead:
		return domain.Forbid("sub-heads cannot join committees; you are assigned to your committee")
	}
	return nil
}

// CanRemoveVolunteer gates removing a volunteer from a committee: the head
// or that committee's sub-head.
func CanRemoveVolunteer(m Membership, callerID string) error {
	if m.isHead(callerID) {
		return nil
	}
	if m.Committee != nil && m.Committee.IsSubHead(callerID) {
		return nil
	}
	return domain.Forbid("only the head or the committee sub-head can remove volunteers")
}

// CanRemoveParticipant gates removing a participant from the event: head
// only, and the head can never be removed.
func CanRemoveParticipant(m Membership, callerID, targetID string) error {
	if !m.isHead(callerID) {
		return domain.Forbid("only the event head can remove participants")
	}
	if m.isHead(targetID) {
		return domain.ErrInvalidOperation
	}
	return nil
}

// CanViewRoster gates the full participant roster: head or any sub-head.
func CanViewRoster(m Membership, userID string) error {
	if m.isHead(userID) {
		return nil
	}
	if p, ok := m.participant(userID); ok && p.Role == domain.RoleSubhead {
		return nil
	}
	return domain.Forbid("only the head or sub-heads can view the roster")
}
