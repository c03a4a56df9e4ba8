package controllers

import (
	"context"
	"io"
	"log/slog"

	"volunteerhub/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// Valid UUIDs for path and body parameters.
const (
	testEventID        = "11111111-1111-1111-1111-111111111111"
	testCommitteeID    = "22222222-2222-2222-2222-222222222222"
	testAnnouncementID = "33333333-3333-3333-3333-333333333333"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpErr    error
	signUpResult *domain.User
	loginErr     error
	loginToken   string
	loginUser    *domain.User

	lastSignUpEmail string
	lastLoginEmail  string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, _, _, _ string) (*domain.User, error) {
	f.lastSignUpEmail = email
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.signUpResult, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	f.lastLoginEmail = email
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createEventErr     error
	joinEventErr       error
	joinEventResult    *domain.Event
	joinEventJoined    bool
	getEventErr        error
	getEventResult     *domain.Event
	listMyEventsErr    error
	listMyEventsResult []*domain.Event
	removeParticipant  error
	rosterErr          error
	rosterResult       []domain.RosterEntry
	lastCreateEvent    *domain.Event
	lastJoinCode       string
	lastJoinUserID     string
	lastRemoveEventID  string
	lastRemoveTargetID string
	lastRemoveCallerID string
	lastRosterEventID  string
	lastRosterCallerID string
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreateEvent = event
	if f.createEventErr != nil {
		return f.createEventErr
	}
	event.ID = testEventID
	event.EventCode = "AB12CD"
	return nil
}

func (f *fakeEventService) JoinEvent(_ context.Context, eventCode, userID string) (*domain.Event, bool, error) {
	f.lastJoinCode = eventCode
	f.lastJoinUserID = userID
	if f.joinEventErr != nil {
		return nil, false, f.joinEventErr
	}
	return f.joinEventResult, f.joinEventJoined, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, _ string) (*domain.Event, error) {
	if f.getEventErr != nil {
		return nil, f.getEventErr
	}
	return f.getEventResult, nil
}

func (f *fakeEventService) ListMyEvents(_ context.Context, _ string) ([]*domain.Event, error) {
	if f.listMyEventsErr != nil {
		return nil, f.listMyEventsErr
	}
	return f.listMyEventsResult, nil
}

func (f *fakeEventService) RemoveParticipant(_ context.Context, eventID, userIDToRemove, callerID string) error {
	f.lastRemoveEventID = eventID
	f.lastRemoveTargetID = userIDToRemove
	f.lastRemoveCallerID = callerID
	return f.removeParticipant
}

func (f *fakeEventService) Roster(_ context.Context, eventID, callerID string) ([]domain.RosterEntry, error) {
	f.lastRosterEventID = eventID
	f.lastRosterCallerID = callerID
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.rosterResult, nil
}

// fakeCommitteeService implements domain.CommitteeService for handler tests.
type fakeCommitteeService struct {
	createErr          error
	createResult       *domain.Committee
	listErr            error
	listResult         []*domain.Committee
	assignErr          error
	assignResult       *domain.Committee
	joinErr            error
	joinResult         []string
	removeVolunteerErr error
	deleteErr          error

	lastCreateEventID  string
	lastCreateName     string
	lastJoinEventID    string
	lastJoinIDs        []string
	lastJoinCallerID   string
	lastAssignUserID   string
	lastRemoveTargetID string
}

func (f *fakeCommitteeService) CreateCommittee(_ context.Context, eventID, name, _, _ string) (*domain.Committee, error) {
	f.lastCreateEventID = eventID
	f.lastCreateName = name
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeCommitteeService) ListCommittees(_ context.Context, _, _ string) ([]*domain.Committee, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeCommitteeService) AssignSubHead(_ context.Context, _, userID, _ string) (*domain.Committee, error) {
	f.lastAssignUserID = userID
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	return f.assignResult, nil
}

func (f *fakeCommitteeService) JoinCommittees(_ context.Context, eventID string, committeeIDs []string, callerID string) ([]string, error) {
	f.lastJoinEventID = eventID
	f.lastJoinIDs = committeeIDs
	f.lastJoinCallerID = callerID
	return f.joinResult, f.joinErr
}

func (f *fakeCommitteeService) RemoveVolunteer(_ context.Context, _, userID, _ string) error {
	f.lastRemoveTargetID = userID
	return f.removeVolunteerErr
}

func (f *fakeCommitteeService) DeleteCommittee(_ context.Context, _, _ string) error {
	return f.deleteErr
}

// fakeChatService implements domain.ChatService for handler tests.
type fakeChatService struct {
	sendErr       error
	sendResult    *domain.ChatMessage
	historyErr    error
	historyResult []*domain.ChatMessage

	lastSenderID      string
	lastEventID       string
	lastChatType      domain.ChatType
	lastCommitteeID   string
	lastBody          string
	lastHistoryLimit  int
	lastHistoryOffset int
}

func (f *fakeChatService) SendMessage(_ context.Context, senderID, eventID string, chatType domain.ChatType, committeeID, body string) (*domain.ChatMessage, error) {
	f.lastSenderID = senderID
	f.lastEventID = eventID
	f.lastChatType = chatType
	f.lastCommitteeID = committeeID
	f.lastBody = body
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.sendResult, nil
}

func (f *fakeChatService) History(_ context.Context, _, eventID string, chatType domain.ChatType, committeeID string, limit, offset int) ([]*domain.ChatMessage, error) {
	f.lastEventID = eventID
	f.lastChatType = chatType
	f.lastCommitteeID = committeeID
	f.lastHistoryLimit = limit
	f.lastHistoryOffset = offset
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.historyResult, nil
}

func (f *fakeChatService) Typing(_ context.Context, _, _ string, _ domain.ChatType, _ string, _ bool) {
}

// fakeAnnouncementService implements domain.AnnouncementService for handler tests.
type fakeAnnouncementService struct {
	createErr    error
	createResult *domain.Announcement
	listErr      error
	listResult   []*domain.Announcement
	pinErr       error
	pinResult    *domain.Announcement
	deleteErr    error

	lastCreateType   domain.AnnouncementType
	lastCreateFields domain.AnnouncementFields
	lastListType     domain.AnnouncementType
}

func (f *fakeAnnouncementService) Create(_ context.Context, _, _ string, annType domain.AnnouncementType, _ string, fields domain.AnnouncementFields) (*domain.Announcement, error) {
	f.lastCreateType = annType
	f.lastCreateFields = fields
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeAnnouncementService) List(_ context.Context, _, _ string, annType domain.AnnouncementType, _ string) ([]*domain.Announcement, error) {
	f.lastListType = annType
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeAnnouncementService) TogglePin(_ context.Context, _, _ string) (*domain.Announcement, error) {
	if f.pinErr != nil {
		return nil, f.pinErr
	}
	return f.pinResult, nil
}

func (f *fakeAnnouncementService) Delete(_ context.Context, _, _ string) error {
	return f.deleteErr
}

// fakePaymentService implements domain.PaymentService for handler tests.
type fakePaymentService struct {
	createOrderErr    error
	createOrderResult *domain.PaymentOrder
	verifyErr         error
	webhookErr        error
	hasPaidErr        error
	hasPaidResult     bool

	lastOrderAnnouncementID string
	lastOrderUserID         string
	lastVerifyOrderID       string
	lastWebhookBody         []byte
	lastWebhookSignature    string
}

func (f *fakePaymentService) CreateOrder(_ context.Context, announcementID, userID string) (*domain.PaymentOrder, error) {
	f.lastOrderAnnouncementID = announcementID
	f.lastOrderUserID = userID
	if f.createOrderErr != nil {
		return nil, f.createOrderErr
	}
	return f.createOrderResult, nil
}

func (f *fakePaymentService) VerifyPayment(_ context.Context, orderID, _, _ string) error {
	f.lastVerifyOrderID = orderID
	return f.verifyErr
}

func (f *fakePaymentService) HandleWebhook(_ context.Context, body []byte, signature string) error {
	f.lastWebhookBody = body
	f.lastWebhookSignature = signature
	return f.webhookErr
}

func (f *fakePaymentService) HasPaid(_ context.Context, _, _ string) (bool, error) {
	if f.hasPaidErr != nil {
		return false, f.hasPaidErr
	}
	return f.hasPaidResult, nil
}
