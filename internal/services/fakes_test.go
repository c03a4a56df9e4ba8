package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"volunteerhub/internal/domain"
)

// In-memory fakes shared by the service tests. They mirror the store
// semantics the Postgres repositories implement, including the join-limit
// behavior and the dual-aggregate writes.

type publishedEvent struct {
	Room    string
	Event   string
	Payload any
	Except  string
}

type fakeBroadcaster struct {
	published []publishedEvent
}

func (b *fakeBroadcaster) Publish(room, event string, payload any) {
	b.published = append(b.published, publishedEvent{Room: room, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) PublishExcept(room, event string, payload any, exceptUserID string) {
	b.published = append(b.published, publishedEvent{Room: room, Event: event, Payload: payload, Except: exceptUserID})
}

type fakeEventRepo struct {
	events map[string]*domain.Event
	seq    int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	r.seq++
	e.ID = fmt.Sprintf("ev-%d", r.seq)
	e.Participants = append(e.Participants, domain.NewHeadParticipant(e.HeadID, e.CreatedAt))
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) GetByEventCode(ctx context.Context, code string) (*domain.Event, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, e := range r.events {
		if e.EventCode == code {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeEventRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0)
	for _, e := range r.events {
		if _, ok := e.Participant(userID); ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

type fakeCommitteeRepo struct {
	committees map[string]*domain.Committee
	seq        int
}

func newFakeCommitteeRepo() *fakeCommitteeRepo {
	return &fakeCommitteeRepo{committees: make(map[string]*domain.Committee)}
}

func (r *fakeCommitteeRepo) Create(ctx context.Context, c *domain.Committee) error {
	for _, existing := range r.committees {
		if existing.EventID == c.EventID && existing.Name == c.Name {
			return domain.ErrDuplicateCommittee
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("com-%d", r.seq)
	if c.Volunteers == nil {
		c.Volunteers = make([]string, 0)
	}
	r.committees[c.ID] = c
	return nil
}

func (r *fakeCommitteeRepo) GetByID(ctx context.Context, id string) (*domain.Committee, error) {
	c, ok := r.committees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeCommitteeRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Committee, error) {
	out := make([]*domain.Committee, 0)
	for _, c := range r.committees {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCommitteeRepo) ListByVolunteer(ctx context.Context, eventID, userID string) ([]*domain.Committee, error) {
	out := make([]*domain.Committee, 0)
	for _, c := range r.committees {
		if c.EventID == eventID && c.HasVolunteer(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommitteeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.committees[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.committees, id)
	return nil
}

type fakeMembershipRepo struct {
	events     *fakeEventRepo
	committees *fakeCommitteeRepo
}

func (r *fakeMembershipRepo) AddParticipant(ctx context.Context, eventID string, p domain.Participant) error {
	e, ok := r.events.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, exists := e.Participant(p.UserID); exists {
		return nil
	}
	e.Participants = append(e.Participants, p)
	return nil
}

func (r *fakeMembershipRepo) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	e, ok := r.events.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	kept := e.Participants[:0]
	for _, p := range e.Participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	e.Participants = kept
	for _, c := range r.committees.committees {
		if c.EventID != eventID {
			continue
		}
		vols := c.Volunteers[:0]
		for _, v := range c.Volunteers {
			if v != userID {
				vols = append(vols, v)
			}
		}
		c.Volunteers = vols
	}
	return nil
}

func (r *fakeMembershipRepo) AssignSubHead(ctx context.Context, eventID, committeeID, userID string) error {
	e, ok := r.events.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	c, ok := r.committees.committees[committeeID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, p := range e.Participants {
		if p.UserID == userID {
			e.Participants[i] = p.Promote(committeeID)
			c.SubHeadID = &userID
			return nil
		}
	}
	return domain.ErrInvalidOperation
}

func (r *fakeMembershipRepo) DemoteSubHead(ctx context.Context, eventID, committeeID, userID string) error {
	e, ok := r.events.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, p := range e.Participants {
		if p.UserID == userID && p.Role == domain.RoleSubhead {
			e.Participants[i].Role = domain.RoleVolunteer
			e.Participants[i].CommitteeID = nil
			if c, ok := r.committees.committees[committeeID]; ok && c.IsSubHead(userID) {
				c.SubHeadID = nil
			}
			return nil
		}
	}
	return domain.ErrInvalidOperation
}

func (r *fakeMembershipRepo) JoinCommittees(ctx context.Context, eventID, userID string, limit domain.JoinLimit, committeeIDs []string) ([]string, error) {
	e, ok := r.events.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if _, ok := e.Participant(userID); !ok {
		return nil, domain.ErrNotFound
	}
	current, _ := r.CountCommitteesForUser(ctx, eventID, userID)
	max := limit.Max()
	joined := make([]string, 0, len(committeeIDs))
	limitHit := false
	for _, id := range committeeIDs {
		c, ok := r.committees.committees[id]
		if !ok || c.EventID != eventID {
			continue
		}
		if current >= max {
			limitHit = true
			break
		}
		if c.HasVolunteer(userID) {
			continue
		}
		c.Volunteers = append(c.Volunteers, userID)
		joined = append(joined, c.Name)
		current++
	}
	if limitHit {
		return joined, domain.ErrJoinLimitExceeded
	}
	return joined, nil
}

func (r *fakeMembershipRepo) RemoveVolunteer(ctx context.Context, committeeID, userID string) error {
	c, ok := r.committees.committees[committeeID]
	if !ok {
		return domain.ErrNotFound
	}
	vols := c.Volunteers[:0]
	for _, v := range c.Volunteers {
		if v != userID {
			vols = append(vols, v)
		}
	}
	c.Volunteers = vols
	return nil
}

func (r *fakeMembershipRepo) CountCommitteesForUser(ctx context.Context, eventID, userID string) (int, error) {
	n := 0
	for _, c := range r.committees.committees {
		if c.EventID == eventID && c.HasVolunteer(userID) {
			n++
		}
	}
	return n, nil
}

type fakeMessageRepo struct {
	messages []*domain.ChatMessage
	seq      int
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *domain.ChatMessage) error {
	r.seq++
	m.ID = fmt.Sprintf("msg-%d", r.seq)
	m.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	stored := *m
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) ListByChannel(ctx context.Context, eventID string, chatType domain.ChatType, committeeID string, limit, offset int) ([]*domain.ChatMessage, error) {
	matched := make([]*domain.ChatMessage, 0)
	for _, m := range r.messages {
		if m.EventID != eventID || m.ChatType != chatType {
			continue
		}
		if committeeID != "" && (m.CommitteeID == nil || *m.CommitteeID != committeeID) {
			continue
		}
		matched = append(matched, m)
	}
	// Newest first, like the real store.
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if offset >= len(matched) {
		return []*domain.ChatMessage{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]*domain.ChatMessage, len(matched))
	for i, m := range matched {
		copied := *m
		out[i] = &copied
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetManyByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeAnnouncementRepo struct {
	announcements map[string]*domain.Announcement
	seq           int
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{announcements: make(map[string]*domain.Announcement)}
}

func (r *fakeAnnouncementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	r.seq++
	a.ID = fmt.Sprintf("ann-%d", r.seq)
	a.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute)
	a.UpdatedAt = a.CreatedAt
	r.announcements[a.ID] = a
	return nil
}

func (r *fakeAnnouncementRepo) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	a, ok := r.announcements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (r *fakeAnnouncementRepo) ListByEvent(ctx context.Context, eventID string, annType domain.AnnouncementType, committeeID string) ([]*domain.Announcement, error) {
	out := make([]*domain.Announcement, 0)
	for _, a := range r.announcements {
		if a.EventID != eventID {
			continue
		}
		if annType != "" && a.Type != annType {
			continue
		}
		if committeeID != "" && (a.CommitteeID == nil || *a.CommitteeID != committeeID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeAnnouncementRepo) SetPinned(ctx context.Context, id string, pinned bool) error {
	a, ok := r.announcements[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.IsPinned = pinned
	return nil
}

func (r *fakeAnnouncementRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.announcements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.announcements, id)
	return nil
}

type fakePaymentRepo struct {
	payments map[string]*domain.Payment
	seq      int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.seq++
	p.ID = fmt.Sprintf("pay-%d", r.seq)
	r.payments[p.GatewayOrderID] = p
	return nil
}

func (r *fakePaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	p, ok := r.payments[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) HasPaid(ctx context.Context, announcementID, userID string) (bool, error) {
	for _, p := range r.payments {
		if p.AnnouncementID == announcementID && p.UserID == userID && p.Status == domain.PaymentPaid {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) MarkPaid(ctx context.Context, orderID, gatewayPayID, signature string, paidAt time.Time) error {
	p, ok := r.payments[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = domain.PaymentPaid
	p.GatewayPayID = gatewayPayID
	p.PaidAt = &paidAt
	return nil
}

type fakeGateway struct {
	orders int
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (string, error) {
	g.orders++
	return fmt.Sprintf("order-%d", g.orders), nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid"
}

func (g *fakeGateway) VerifyWebhook(body []byte, signature string) bool {
	return signature == "valid"
}

func (g *fakeGateway) KeyID() string { return "key_test" }

type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}

// fixture is a populated world shared by the service tests: one event with
// committees, its head, a sub-head leading com-1, one committed volunteer
// and one uncommitted volunteer.
type fixture struct {
	events     *fakeEventRepo
	committees *fakeCommitteeRepo
	membership *fakeMembershipRepo
	users      *fakeUserRepo
	event      *domain.Event
	committee  *domain.Committee
	committee2 *domain.Committee
}

func newFixture(joinLimit domain.JoinLimit) *fixture {
	ctx := context.Background()
	events := newFakeEventRepo()
	committees := newFakeCommitteeRepo()
	users := newFakeUserRepo()
	membership := &fakeMembershipRepo{events: events, committees: committees}

	joined := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	e := domain.NewEvent("TechFest", "Annual fest", "head", true, joinLimit, joined)
	e.EventCode = "AB12CD"
	_ = events.Create(ctx, e)

	c1 := &domain.Committee{EventID: e.ID, Name: "Marketing", Volunteers: []string{"vol1"}}
	_ = committees.Create(ctx, c1)
	c2 := &domain.Committee{EventID: e.ID, Name: "Logistics", Volunteers: []string{}}
	_ = committees.Create(ctx, c2)

	for _, id := range []string{"sub1", "vol1", "vol2"} {
		_ = membership.AddParticipant(ctx, e.ID, domain.NewVolunteer(id, joined))
	}
	_ = membership.AssignSubHead(ctx, e.ID, c1.ID, "sub1")

	for _, u := range []*domain.User{
		{Email: "head@example.com", Name: "Hana", LastName: "Head"},
		{Email: "sub1@example.com", Name: "Sam", LastName: "Sub"},
		{Email: "vol1@example.com", Name: "Vera", LastName: "Vol"},
		{Email: "vol2@example.com", Name: "Vik", LastName: "Vol"},
	} {
		_ = users.Create(ctx, u)
	}
	// Re-key users to the well-known ids the fixture uses elsewhere.
	byEmail := map[string]string{
		"head@example.com": "head",
		"sub1@example.com": "sub1",
		"vol1@example.com": "vol1",
		"vol2@example.com": "vol2",
	}
	rekeyed := make(map[string]*domain.User, len(users.users))
	for _, u := range users.users {
		u.ID = byEmail[u.Email]
		rekeyed[u.ID] = u
	}
	users.users = rekeyed

	return &fixture{
		events:     events,
		committees: committees,
		membership: membership,
		users:      users,
		event:      e,
		committee:  c1,
		committee2: c2,
	}
}

type fakeEmailService struct {
	sent []*domain.PaymentAnnouncementEmailData
	err  error
}

func (s *fakeEmailService) SendPaymentAnnouncement(ctx context.Context, data *domain.PaymentAnnouncementEmailData) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, data)
	return nil
}
