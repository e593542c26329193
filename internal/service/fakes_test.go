package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
)

// fakeDB is a mutex-guarded in-memory stand-in for the SQL layer. The
// store fakes below reproduce the repositories' locking semantics so
// concurrency tests exercise the same invariants the database enforces.
type fakeDB struct {
	mu       sync.Mutex
	nextID   uint64
	users    map[uint64]model.User
	types    map[uint64]model.ClassType
	sessions map[uint64]*model.ClassSession
	bookings map[uint64]*model.Booking
	subs     map[uint64]*model.Subscription
	payments map[uint64]*model.Payment
	policy   *model.BookingPolicy
	cfg      model.BookingConfig
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:    make(map[uint64]model.User),
		types:    make(map[uint64]model.ClassType),
		sessions: make(map[uint64]*model.ClassSession),
		bookings: make(map[uint64]*model.Booking),
		subs:     make(map[uint64]*model.Subscription),
		payments: make(map[uint64]*model.Payment),
		cfg: model.BookingConfig{
			PublishDaysBeforeMonth: 15,
			BusinessDays:           "MON-SAT",
			BusinessStart:          "08:00",
			BusinessEnd:            "21:00",
			CancelCutoffHours:      2,
			OnePerDayPerType:       true,
		},
	}
}

func (db *fakeDB) id() uint64 {
	db.nextID++
	return db.nextID
}

// seed helpers; callers hold no lock.

func (db *fakeDB) addUser(email string, createdAt time.Time) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	db.users[id] = model.User{ID: id, Email: email, Role: model.RoleMember, CreatedAt: createdAt}
	return id
}

func (db *fakeDB) addClassType(code string) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	db.types[id] = model.ClassType{ID: id, Code: code, Name: code, Active: true}
	return id
}

func (db *fakeDB) addSession(classTypeID uint64, start, end time.Time, capacity int) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	db.sessions[id] = &model.ClassSession{
		ID: id, ClassTypeID: classTypeID,
		StartAt: start, EndAt: end,
		Capacity: capacity,
	}
	return id
}

func (db *fakeDB) addActiveSubscription(userID uint64, billingDay int, periodStart, periodEnd time.Time) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	db.subs[id] = &model.Subscription{
		ID: id, UserID: userID,
		PlanName: "basic", PriceCents: 2900, Currency: "EUR",
		BillingDay: billingDay, Status: model.SubscriptionStatusActive,
		CurrentPeriodStart: periodStart, CurrentPeriodEnd: periodEnd,
		NextBillingAt: periodEnd,
	}
	return id
}

func (db *fakeDB) addInvoice(subID uint64, due time.Time) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	sub := db.subs[subID]
	db.payments[id] = &model.Payment{
		ID: id, SubscriptionID: subID,
		AmountCents: sub.PriceCents, Currency: sub.Currency,
		Status: model.PaymentStatusPending, Provider: "MOCK",
		DueAt: due, CreatedAt: due.AddDate(0, -1, 0),
	}
	return id
}

// exhaustInvoice rewrites an invoice's attempt bookkeeping, simulating
// state left behind by a process that died mid-settlement.
func (db *fakeDB) exhaustInvoice(paymentID uint64, attempts int, lastAttempt time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := db.payments[paymentID]
	p.AttemptCount = attempts
	p.LastAttemptAt = &lastAttempt
}

// --- SessionStore ---

type fakeSessions struct{ db *fakeDB }

func (s *fakeSessions) Create(_ context.Context, sess *model.ClassSession) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess.ID = s.db.id()
	cp := *sess
	s.db.sessions[sess.ID] = &cp
	return nil
}

func (s *fakeSessions) CreateBulk(ctx context.Context, sessions []model.ClassSession) error {
	for i := range sessions {
		if err := s.Create(ctx, &sessions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeSessions) GetByID(_ context.Context, id uint64) (*model.ClassSession, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess, ok := s.db.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessions) Cancel(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess, ok := s.db.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, b := range s.db.bookings {
		if b.SessionID == id && b.Status == model.BookingStatusBooked {
			return repository.ErrConflict
		}
	}
	sess.Canceled = true
	return nil
}

func (s *fakeSessions) ListActiveBetween(_ context.Context, from, to time.Time) ([]model.ClassSession, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.ClassSession
	for _, sess := range s.db.sessions {
		if !sess.Canceled && !sess.StartAt.Before(from) && sess.StartAt.Before(to) {
			out = append(out, *sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// --- BookingStore ---

type fakeBookings struct{ db *fakeDB }

func (b *fakeBookings) Admit(_ context.Context, p repository.AdmitParams) (*model.Booking, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	sess, ok := b.db.sessions[p.SessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if sess.Canceled || !p.Now.Before(sess.StartAt) {
		return nil, repository.ErrConflict
	}
	day := sess.StartAt.UTC().Truncate(24 * time.Hour)
	var active int
	for _, bk := range b.db.bookings {
		if bk.Status != model.BookingStatusBooked {
			continue
		}
		if bk.SessionID == p.SessionID {
			active++
			if bk.UserID == p.UserID {
				return nil, repository.ErrDuplicateBooking
			}
		}
		if p.OnePerDayPerType && bk.UserID == p.UserID {
			other := b.db.sessions[bk.SessionID]
			if other != nil && other.ClassTypeID == sess.ClassTypeID &&
				other.StartAt.UTC().Truncate(24*time.Hour).Equal(day) {
				return nil, repository.ErrDailyLimit
			}
		}
	}
	if active >= sess.Capacity {
		return nil, repository.ErrSessionFull
	}
	booking := &model.Booking{
		ID: b.db.id(), SessionID: p.SessionID, UserID: p.UserID,
		Status: model.BookingStatusBooked, CreatedAt: p.Now,
	}
	b.db.bookings[booking.ID] = booking
	cp := *booking
	return &cp, nil
}

func (b *fakeBookings) CountActiveBySession(_ context.Context, sessionID uint64) (int64, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	var n int64
	for _, bk := range b.db.bookings {
		if bk.SessionID == sessionID && bk.Status == model.BookingStatusBooked {
			n++
		}
	}
	return n, nil
}

func (b *fakeBookings) GetByIDAndUser(_ context.Context, id, userID uint64) (*model.Booking, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	bk, ok := b.db.bookings[id]
	if !ok || bk.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *bk
	return &cp, nil
}

func (b *fakeBookings) Cancel(_ context.Context, id uint64, at time.Time) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	bk, ok := b.db.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if bk.Status == model.BookingStatusBooked {
		bk.Status = model.BookingStatusCanceled
		bk.CanceledAt = &at
	}
	return nil
}

func (b *fakeBookings) CancelFutureByUser(_ context.Context, userID uint64, after, at time.Time) (int64, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	var n int64
	for _, bk := range b.db.bookings {
		if bk.UserID != userID || bk.Status != model.BookingStatusBooked {
			continue
		}
		sess := b.db.sessions[bk.SessionID]
		if sess != nil && sess.StartAt.After(after) {
			bk.Status = model.BookingStatusCanceled
			t := at
			bk.CanceledAt = &t
			n++
		}
	}
	return n, nil
}

// --- PolicyStore / ConfigStore / ClassTypeStore ---

type fakePolicies struct{ db *fakeDB }

func (p *fakePolicies) Current(_ context.Context) (*model.BookingPolicy, error) {
	p.db.mu.Lock()
	defer p.db.mu.Unlock()
	if p.db.policy == nil {
		return nil, nil
	}
	cp := *p.db.policy
	return &cp, nil
}

type fakeConfigs struct{ db *fakeDB }

func (c *fakeConfigs) Get(_ context.Context) (*model.BookingConfig, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	cp := c.db.cfg
	return &cp, nil
}

type fakeTypes struct{ db *fakeDB }

func (t *fakeTypes) GetActiveByCode(_ context.Context, code string) (*model.ClassType, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for _, ct := range t.db.types {
		if ct.Code == code && ct.Active {
			cp := ct
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- SubscriptionStore ---

type fakeSubs struct{ db *fakeDB }

func (s *fakeSubs) Create(_ context.Context, sub *model.Subscription, initial *model.Payment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.subs {
		if existing.UserID == sub.UserID &&
			(existing.Status == model.SubscriptionStatusActive || existing.Status == model.SubscriptionStatusPastDue) {
			return repository.ErrConflict
		}
	}
	sub.ID = s.db.id()
	cp := *sub
	s.db.subs[sub.ID] = &cp
	initial.ID = s.db.id()
	initial.SubscriptionID = sub.ID
	pcp := *initial
	s.db.payments[initial.ID] = &pcp
	return nil
}

func (s *fakeSubs) GetByID(_ context.Context, id uint64) (*model.Subscription, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sub, ok := s.db.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *fakeSubs) FindCurrentByUser(_ context.Context, userID uint64) (*model.Subscription, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, sub := range s.db.subs {
		if sub.UserID == userID &&
			(sub.Status == model.SubscriptionStatusActive || sub.Status == model.SubscriptionStatusPastDue) {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeSubs) MarkPastDue(_ context.Context, id uint64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sub, ok := s.db.subs[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if sub.Status != model.SubscriptionStatusActive {
		return false, nil
	}
	sub.Status = model.SubscriptionStatusPastDue
	return true, nil
}

func (s *fakeSubs) Cancel(_ context.Context, id uint64, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sub, ok := s.db.subs[id]
	if !ok || (sub.Status != model.SubscriptionStatusActive && sub.Status != model.SubscriptionStatusPastDue) {
		return repository.ErrNotFound
	}
	sub.Status = model.SubscriptionStatusCanceled
	t := at
	sub.CanceledAt = &t
	return nil
}

// --- InvoiceStore ---

type fakeInvoices struct{ db *fakeDB }

func (f *fakeInvoices) GetByID(_ context.Context, id uint64) (*model.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeInvoices) FindDuePending(_ context.Context, now time.Time) ([]model.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Payment
	for _, p := range f.db.payments {
		if p.Status == model.PaymentStatusPending && !p.DueAt.After(now) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

func (f *fakeInvoices) BeginAttempt(_ context.Context, id uint64, at time.Time) (*model.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return nil, repository.ErrConflict
	}
	p.AttemptCount++
	t := at
	p.LastAttemptAt = &t
	cp := *p
	return &cp, nil
}

func (f *fakeInvoices) CompleteCharge(_ context.Context, paymentID uint64, providerRef string, at time.Time, roll repository.Rollover) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.payments[paymentID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return repository.ErrConflict
	}
	p.Status = model.PaymentStatusPaid
	ref := providerRef
	p.ProviderRef = &ref
	t := at
	p.PaidAt = &t

	sub, ok := f.db.subs[roll.SubscriptionID]
	if !ok || (sub.Status != model.SubscriptionStatusActive && sub.Status != model.SubscriptionStatusPastDue) {
		return nil
	}
	sub.Status = model.SubscriptionStatusActive
	sub.CurrentPeriodStart = roll.PeriodStart
	sub.CurrentPeriodEnd = roll.PeriodEnd
	sub.NextBillingAt = roll.NextBillingAt

	next := roll.NextInvoice
	next.ID = f.db.id()
	f.db.payments[next.ID] = &next
	return nil
}

func (f *fakeInvoices) MarkFailed(_ context.Context, id uint64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Status == model.PaymentStatusPending {
		p.Status = model.PaymentStatusFailed
	}
	return nil
}

func (f *fakeInvoices) ListBySubscription(_ context.Context, subscriptionID uint64) ([]model.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Payment
	for _, p := range f.db.payments {
		if p.SubscriptionID == subscriptionID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --- UserStore ---

type fakeUsers struct{ db *fakeDB }

func (u *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	user, ok := u.db.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return user, nil
}

// --- collaborators ---

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (n *recordingNotifier) all() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

// scriptedGateway returns the queued outcomes in order, then keeps
// repeating the last one.
type scriptedGateway struct {
	mu       sync.Mutex
	outcomes []chargeOutcome
	calls    int
}

type chargeOutcome struct {
	res ChargeResult
	err error
}

func (g *scriptedGateway) Charge(_ context.Context, _ *model.Payment) (ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if len(g.outcomes) == 0 {
		return ChargeResult{}, nil
	}
	i := g.calls - 1
	if i >= len(g.outcomes) {
		i = len(g.outcomes) - 1
	}
	o := g.outcomes[i]
	return o.res, o.err
}

func (g *scriptedGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
