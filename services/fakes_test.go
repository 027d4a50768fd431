package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
	"github.com/Dosada05/fight-events/storage"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

// --- events ---

type fakeEventRepo struct {
	mu       sync.Mutex
	events   map[int]*models.Event
	nextID   int
	createFn func(e *models.Event) error
	updates  []models.EventStatus
}

func newFakeEventRepo(events ...models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[int]*models.Event), nextID: 1}
	for _, e := range events {
		e := e
		r.events[e.ID] = &e
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
	}
	return r
}

func (r *fakeEventRepo) get(id int) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *e
	cp.Brackets = nil
	return &cp, nil
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFn != nil {
		if err := r.createFn(e); err != nil {
			return err
		}
	}
	e.ID = r.nextID
	r.nextID++
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeEventRepo) List(_ context.Context, f repositories.ListEventsFilter) ([]models.Event, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Event, 0)
	for _, e := range r.events {
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	cp := *e
	cp.Brackets = nil
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.Status = status
	r.updates = append(r.updates, status)
	return nil
}

func (r *fakeEventRepo) UpdateBracketFlags(_ context.Context, _ repositories.SQLExecutor, id int, publish, show bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.PublishBrackets, e.ShowBrackets = publish, show
	return nil
}

func (r *fakeEventRepo) UpdatePosterURL(_ context.Context, id int, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.PosterURL = &url
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) LockForUpdate(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEventRepo) ListForStatusUpdate(_ context.Context, now time.Time) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Event, 0)
	for id := 1; id < r.nextID; id++ {
		e, ok := r.events[id]
		if !ok {
			continue
		}
		if (e.Status == models.EventStatusUpcoming && !e.StartDate.After(now)) ||
			(e.Status == models.EventStatusLive && !e.EndDate.After(now)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Count(_ context.Context, status *models.EventStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if status == nil || e.Status == *status {
			n++
		}
	}
	return n, nil
}

// --- brackets and bouts ---

type fakeBracketRepo struct {
	mu        sync.Mutex
	byEvent   map[int][]models.Bracket
	nextID    int
	listCalls int
	syncCalls int
	replaceFn func([]models.Bracket) error
}

func newFakeBracketRepo() *fakeBracketRepo {
	return &fakeBracketRepo{byEvent: make(map[int][]models.Bracket), nextID: 1}
}

func (r *fakeBracketRepo) ReplaceForEvent(_ context.Context, _ repositories.SQLExecutor, eventID int, list []models.Bracket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaceFn != nil {
		if err := r.replaceFn(list); err != nil {
			return err
		}
	}
	stored := make([]models.Bracket, 0, len(list))
	for i := range list {
		b := &list[i]
		b.ID = r.nextID
		r.nextID++
		b.EventID = eventID
		for j := range b.Members {
			m := &b.Members[j]
			m.ID = b.ID*100 + j + 1
			m.BracketID = b.ID
			n := b.BracketNumber
			m.Bracket = &n
			if m.Position == 0 {
				m.Position = j + 1
			}
		}
		cp := *b
		cp.Members = append([]models.BracketMember(nil), b.Members...)
		cp.Bouts = nil
		stored = append(stored, cp)
	}
	r.byEvent[eventID] = stored
	return nil
}

func (r *fakeBracketRepo) SyncRoster(_ context.Context, _ repositories.SQLExecutor, eventID int, list []models.Bracket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncCalls++
	existing := make(map[int]models.Bracket)
	for _, b := range r.byEvent[eventID] {
		existing[b.BracketNumber] = b
	}
	stored := make([]models.Bracket, 0, len(list))
	for i := range list {
		b := &list[i]
		row, ok := existing[b.BracketNumber]
		if !ok {
			row = *b
			row.ID = r.nextID
			r.nextID++
			row.EventID = eventID
			if row.Status == "" {
				row.Status = models.BracketStatusOpen
			}
		}
		b.ID = row.ID
		b.EventID = eventID
		for j := range b.Members {
			m := &b.Members[j]
			m.ID = b.ID*100 + j + 1
			m.BracketID = b.ID
			n := b.BracketNumber
			m.Bracket = &n
		}
		row.Members = append([]models.BracketMember(nil), b.Members...)
		row.Bouts = nil
		stored = append(stored, row)
	}
	r.byEvent[eventID] = stored
	return nil
}

func (r *fakeBracketRepo) ListByEvent(_ context.Context, eventID int) ([]models.Bracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]models.Bracket, 0, len(r.byEvent[eventID]))
	for _, b := range r.byEvent[eventID] {
		b.Members = append([]models.BracketMember(nil), b.Members...)
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBracketRepo) ListMembersByEvent(ctx context.Context, eventID int) ([]models.BracketMember, error) {
	list, _ := r.ListByEvent(ctx, eventID)
	out := make([]models.BracketMember, 0)
	for _, b := range list {
		out = append(out, b.Members...)
	}
	return out, nil
}

func (r *fakeBracketRepo) UpdateStatus(context.Context, repositories.SQLExecutor, int, models.BracketStatus) error {
	return nil
}

type fakeBoutRepo struct {
	mu     sync.Mutex
	bouts  []models.Bout
	nextID int
}

func newFakeBoutRepo(bouts ...models.Bout) *fakeBoutRepo {
	r := &fakeBoutRepo{nextID: 1}
	for _, b := range bouts {
		r.bouts = append(r.bouts, b)
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
	}
	return r
}

func (r *fakeBoutRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, bouts []models.Bout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range bouts {
		bouts[i].ID = r.nextID
		r.nextID++
		r.bouts = append(r.bouts, bouts[i])
	}
	return nil
}

func (r *fakeBoutRepo) GetByID(_ context.Context, id int) (*models.Bout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bouts {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, repositories.ErrBoutNotFound
}

func (r *fakeBoutRepo) ListByEvent(_ context.Context, eventID int) ([]models.Bout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Bout, 0)
	for _, b := range r.bouts {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBoutRepo) UpdateFight(_ context.Context, id int, fight *models.Fight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bouts {
		if r.bouts[i].ID == id {
			r.bouts[i].Fight = fight
			return nil
		}
	}
	return repositories.ErrBoutNotFound
}

// --- registrations and tickets ---

type fakeRegistrationRepo struct {
	mu         sync.Mutex
	regs       []models.Registration
	lastFilter repositories.ListRegistrationsFilter
	counts     repositories.RegistrationCounts
	countCalls int
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.regs {
		if existing.EventID == reg.EventID && existing.Email == reg.Email && existing.Type == reg.Type {
			return repositories.ErrRegistrationDuplicate
		}
	}
	reg.ID = len(r.regs) + 1
	reg.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.regs = append(r.regs, *reg)
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.ID == id {
			cp := reg
			return &cp, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) List(_ context.Context, f repositories.ListRegistrationsFilter) ([]models.Registration, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f
	out := make([]models.Registration, 0)
	for _, reg := range r.regs {
		if reg.EventID == f.EventID && (f.Type == nil || reg.Type == *f.Type) {
			out = append(out, reg)
		}
	}
	return out, len(out), nil
}

func (r *fakeRegistrationRepo) update(id int, fn func(*models.Registration)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.regs {
		if r.regs[i].ID == id {
			fn(&r.regs[i])
			return nil
		}
	}
	return repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) UpdateStatus(_ context.Context, id int, status models.RegistrationStatus) error {
	return r.update(id, func(reg *models.Registration) { reg.Status = status })
}

func (r *fakeRegistrationRepo) UpdatePhotoURL(_ context.Context, id int, url string) error {
	return r.update(id, func(reg *models.Registration) { reg.ProfilePhotoURL = &url })
}

func (r *fakeRegistrationRepo) UpdateLicenseURL(_ context.Context, id int, url string) error {
	return r.update(id, func(reg *models.Registration) { reg.LicenseCertificateURL = &url })
}

func (r *fakeRegistrationRepo) CountByType(context.Context, time.Time, time.Time) (repositories.RegistrationCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++
	return r.counts, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []models.Ticket
	totals  repositories.SalesTotals
	daily   []models.DailySales
}

func (r *fakeTicketRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = len(r.tickets) + 1
	r.tickets = append(r.tickets, *t)
	return nil
}

func (r *fakeTicketRepo) CountSold(_ context.Context, _ repositories.SQLExecutor, eventID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tickets {
		if t.EventID == eventID && t.Status != models.TicketCanceled {
			n += t.Quantity
		}
	}
	return n, nil
}

func (r *fakeTicketRepo) ListByEvent(_ context.Context, eventID int) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Ticket, 0)
	for _, t := range r.tickets {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) GetByCode(_ context.Context, code string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.Code == code {
			cp := t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTicketNotFound
}

func (r *fakeTicketRepo) CheckIn(_ context.Context, code string, at time.Time) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		t := &r.tickets[i]
		if t.Code != code {
			continue
		}
		if t.Status == models.TicketCheckedIn {
			return nil, repositories.ErrTicketAlreadyCheckedIn
		}
		t.Status = models.TicketCheckedIn
		t.CheckedInAt = &at
		cp := *t
		return &cp, nil
	}
	return nil, repositories.ErrTicketNotFound
}

func (r *fakeTicketRepo) Totals(context.Context, time.Time, time.Time) (repositories.SalesTotals, error) {
	return r.totals, nil
}

func (r *fakeTicketRepo) DailySales(context.Context, time.Time, time.Time) ([]models.DailySales, error) {
	return r.daily, nil
}

// --- collaborators ---

type sentMessage struct {
	EventID int
	Type    string
	Payload any
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (b *fakeBroadcaster) BroadcastToEvent(eventID int, msgType string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{EventID: eventID, Type: msgType, Payload: payload})
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.sent))
	for i, m := range b.sent {
		out[i] = m.Type
	}
	return out
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	fail    error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.fail != nil {
		return nil, u.fail
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return fmt.Sprintf("https://cdn.test/%s", key)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
