package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/repositories"
	"github.com/lifelearn/lifelearn/internal/pkg/payment"
)

// memStore is an in-memory stand-in for the pgx repositories. A single
// mutex guards all tables so the enrollment transaction is atomic, the
// same guarantee the database transaction provides in production.
type memStore struct {
	mu         sync.Mutex
	users      map[int64]*models.User
	courses    map[int64]*models.Course
	selections map[int64]*models.Selection
	payments   []*models.Payment
	nextID     int64
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]*models.User),
		courses:    make(map[int64]*models.Course),
		selections: make(map[int64]*models.Selection),
		nextID:     1,
	}
}

func (m *memStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return 0, repositories.ErrEmailAlreadyExists
		}
	}
	cp := *user
	cp.ID = m.id()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.users[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetRoleByEmail(_ context.Context, email string) (models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u.Role, nil
		}
	}
	return models.RoleNone, nil
}

func (m *memStore) UpdateRole(_ context.Context, id int64, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) GetAllUsers(_ context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetUsersByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateCourse(_ context.Context, course *models.Course) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *course
	cp.ID = m.id()
	cp.Status = models.CourseStatusPending
	cp.Enrolled = 0
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.courses[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id int64, status models.CourseStatus, feedback *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if c.Status != models.CourseStatusPending {
		return repositories.ErrCourseAlreadyDecided
	}
	c.Status = status
	c.Feedback = feedback
	return nil
}

func (m *memStore) ListCourses(_ context.Context, filter repositories.CourseFilter) ([]*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Course
	for _, c := range m.courses {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.InstructorEmail != "" && c.InstructorEmail != filter.InstructorEmail {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	if filter.OrderByEnrolled {
		sort.Slice(out, func(i, j int) bool { return out[i].Enrolled > out[j].Enrolled })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memStore) CreateSelection(_ context.Context, selection *models.Selection) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.selections {
		if s.Email == selection.Email && s.CourseID == selection.CourseID {
			return 0, repositories.ErrSelectionExists
		}
	}
	cp := *selection
	cp.ID = m.id()
	cp.CreatedAt = time.Now()
	m.selections[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) GetSelectionByID(_ context.Context, id int64) (*models.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.selections[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) GetSelectionsByEmail(_ context.Context, email string) ([]*models.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Selection
	for _, s := range m.selections {
		if s.Email == email {
			cp := *s
			if c, ok := m.courses[s.CourseID]; ok {
				course := *c
				cp.Course = &course
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteSelection(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.selections[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.selections, id)
	return nil
}

func (m *memStore) GetPaymentsByEmail(_ context.Context, email string) ([]*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Payment
	for _, p := range m.payments {
		if p.Email == email {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

// CompleteEnrollment mirrors the conditional update the SQL transaction
// performs: the seat decrement and the payment insert succeed or fail
// together under the store lock.
func (m *memStore) CompleteEnrollment(_ context.Context, record *models.Payment, selectionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.courses[record.CourseID]
	if !ok {
		return repositories.ErrNotFound
	}
	if c.Status != models.CourseStatusApproved {
		return repositories.ErrCourseNotApproved
	}
	if c.Seats <= 0 {
		return repositories.ErrCourseSoldOut
	}

	c.Seats--
	c.Enrolled++

	record.ID = m.id()
	record.PaidAt = time.Now()
	cp := *record
	m.payments = append(m.payments, &cp)

	if selectionID > 0 {
		delete(m.selections, selectionID)
	}
	return nil
}

// fakeProvider is a scriptable payment processor
type fakeProvider struct {
	mu            sync.Mutex
	declineCreate bool
	declineVerify bool
	created       []int64
	verified      []string
}

func (f *fakeProvider) CreateIntent(_ context.Context, amountMinor int64, currency string) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.declineCreate {
		return nil, payment.ErrDeclined
	}
	f.created = append(f.created, amountMinor)
	return &payment.Intent{
		ClientSecret: "cs_test_secret",
		AmountMinor:  amountMinor,
		Currency:     currency,
	}, nil
}

func (f *fakeProvider) VerifyIntent(_ context.Context, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.declineVerify {
		return payment.ErrDeclined
	}
	f.verified = append(f.verified, transactionID)
	return nil
}
