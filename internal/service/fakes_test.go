package service

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/logging"
	"alcyxob/gym-membership/internal/notify"
	"alcyxob/gym-membership/internal/repository"
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memRepo is an in-memory MemberRepository that stores deep copies, so an operation
// that fails before Save leaves the stored member untouched.
type memRepo struct {
	members map[primitive.ObjectID]*domain.Member
	saveErr error
	getErr  error
	saves   int
}

func newMemRepo() *memRepo {
	return &memRepo{members: map[primitive.ObjectID]*domain.Member{}}
}

func cloneMember(m *domain.Member) *domain.Member {
	c := *m
	c.Attendance = append([]domain.AttendanceRecord(nil), m.Attendance...)
	c.PlanHistory = make([]domain.PlanHistoryEntry, len(m.PlanHistory))
	for i, e := range m.PlanHistory {
		e.ActivityBreakdown = append([]domain.ActivityShare(nil), e.ActivityBreakdown...)
		c.PlanHistory[i] = e
	}
	if m.Plan != nil {
		p := *m.Plan
		c.Plan = &p
	}
	return &c
}

func (r *memRepo) Create(_ context.Context, m *domain.Member) (primitive.ObjectID, error) {
	if m.Email != "" {
		for _, other := range r.members {
			if other.Email == m.Email {
				return primitive.NilObjectID, repository.ErrDuplicateKey
			}
		}
	}
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	r.members[m.ID] = cloneMember(m)
	return m.ID, nil
}

func (r *memRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Member, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	m, ok := r.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneMember(m), nil
}

func (r *memRepo) List(_ context.Context, f repository.MemberFilter) ([]domain.Member, error) {
	out := []domain.Member{}
	for _, m := range r.members {
		if f.WithPlanOnly && m.Plan == nil {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *cloneMember(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) Save(_ context.Context, m *domain.Member) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.members[m.ID]; !ok {
		return repository.ErrNotFound
	}
	r.saves++
	r.members[m.ID] = cloneMember(m)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

func (r *memRepo) stored(id primitive.ObjectID) *domain.Member {
	return cloneMember(r.members[id])
}

type recordingDispatcher struct {
	calls []notify.PlanCompleted
	err   error
}

func (d *recordingDispatcher) SendPlanCompleted(_ context.Context, n notify.PlanCompleted) error {
	d.calls = append(d.calls, n)
	return d.err
}

type memReports struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newMemReports() *memReports {
	return &memReports{objects: map[string][]byte{}}
}

func (s *memReports) PutObject(_ context.Context, key, _ string, body []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = body
	return nil
}

func (s *memReports) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://reports.test/" + key, nil
}

func (s *memReports) DeleteObject(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type memUsers struct {
	byEmail map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*domain.User{}}
}

func (u *memUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if _, ok := u.byEmail[user.Email]; ok {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	c := *user
	c.ID = primitive.NewObjectID()
	u.byEmail[c.Email] = &c
	return c.ID, nil
}

func (u *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := u.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (u *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, user := range u.byEmail {
		if user.ID == id {
			c := *user
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type loggedRecord struct {
	level slog.Level
	event string
	attrs map[string]string
}

// logCapture collects records written through the default logger.
type logCapture struct {
	mu      sync.Mutex
	records []loggedRecord
}

func (c *logCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *logCapture) Handle(_ context.Context, r slog.Record) error {
	rec := loggedRecord{level: r.Level, event: r.Message, attrs: map[string]string{}}
	r.Attrs(func(a slog.Attr) bool {
		rec.attrs[a.Key] = a.Value.String()
		return true
	})
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
	return nil
}

func (c *logCapture) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *logCapture) WithGroup(string) slog.Handler      { return c }

func (c *logCapture) find(event string) (loggedRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.event == event {
			return r, true
		}
	}
	return loggedRecord{}, false
}

func (c *logCapture) atLeast(level slog.Level) []loggedRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []loggedRecord
	for _, r := range c.records {
		if r.level >= level {
			out = append(out, r)
		}
	}
	return out
}

// captureLogs routes the default logger through the staff handler into a capture
// for the duration of the test.
func captureLogs(t *testing.T) *logCapture {
	t.Helper()
	c := &logCapture{}
	prev := slog.Default()
	slog.SetDefault(slog.New(logging.NewStaffHandler(c)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return c
}
