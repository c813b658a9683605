package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
)

// memRosterStore is an in-memory RosterStore with the same semantics as the
// real repository: unique external identifiers and conditional link updates.
type memRosterStore struct {
	mu       sync.Mutex
	nextID   int64
	students map[int64]*models.Student
}

func newMemRosterStore() *memRosterStore {
	return &memRosterStore{students: make(map[int64]*models.Student)}
}

func (m *memRosterStore) add(student models.Student) *models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	student.ID = m.nextID
	if student.LinkStatus == "" {
		student.LinkStatus = models.LinkNone
	}
	m.students[student.ID] = &student
	return &student
}

func (m *memRosterStore) byStudentID(studentID string) *models.Student {
	for _, s := range m.students {
		if s.StudentID == studentID {
			return s
		}
	}
	return nil
}

func (m *memRosterStore) Create(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.StudentID == student.StudentID {
			return apperrors.ErrStudentIDExists
		}
	}
	m.nextID++
	student.ID = m.nextID
	if student.LinkStatus == "" {
		student.LinkStatus = models.LinkNone
	}
	clone := *student
	m.students[student.ID] = &clone
	return nil
}

func (m *memRosterStore) BulkCreateSkipConflicts(ctx context.Context, students []*models.Student) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var created int64
	for _, student := range students {
		conflict := false
		for _, s := range m.students {
			if s.StudentID == student.StudentID {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		m.nextID++
		clone := *student
		clone.ID = m.nextID
		if clone.LinkStatus == "" {
			clone.LinkStatus = models.LinkNone
		}
		m.students[clone.ID] = &clone
		created++
	}
	return created, nil
}

func (m *memRosterStore) ExistingStudentIDs(ctx context.Context, studentIDs []string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := make(map[string]struct{})
	for _, id := range studentIDs {
		for _, s := range m.students {
			if s.StudentID == id {
				existing[id] = struct{}{}
				break
			}
		}
	}
	return existing, nil
}

func (m *memRosterStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	student, ok := m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	clone := *student
	return &clone, nil
}

func (m *memRosterStore) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Student
	for _, s := range m.students {
		if filter.YearEnrolled != "" && s.YearEnrolled != filter.YearEnrolled {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memRosterStore) Update(ctx context.Context, id int64, p models.StudentPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	student, ok := m.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if p.FirstName.IsSet() {
		student.FirstName = p.FirstName.MustValue()
	}
	if p.LastName.IsSet() {
		student.LastName = p.LastName.MustValue()
	}
	return nil
}

func (m *memRosterStore) SetLinkPending(ctx context.Context, studentID, parentID int64, relationship string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	student, ok := m.students[studentID]
	if !ok {
		return false, nil
	}
	if student.LinkStatus != models.LinkNone && student.LinkStatus != models.LinkRejected {
		return false, nil
	}
	now := time.Now()
	student.ParentID = &parentID
	student.ParentRelationship = &relationship
	student.LinkStatus = models.LinkPending
	student.RejectionReason = nil
	student.LinkUpdatedAt = &now
	return true, nil
}

func (m *memRosterStore) SetLinkApproved(ctx context.Context, studentID int64) (bool, error) {
	return m.transition(studentID, models.LinkPending, func(s *models.Student) {
		s.LinkStatus = models.LinkApproved
	})
}

func (m *memRosterStore) SetLinkRejected(ctx context.Context, studentID int64, reason string) (bool, error) {
	return m.transition(studentID, models.LinkPending, func(s *models.Student) {
		s.LinkStatus = models.LinkRejected
		s.RejectionReason = &reason
	})
}

func (m *memRosterStore) ReturnLinkToPending(ctx context.Context, studentID int64) (bool, error) {
	return m.transition(studentID, models.LinkApproved, func(s *models.Student) {
		s.LinkStatus = models.LinkPending
	})
}

func (m *memRosterStore) transition(studentID int64, expect models.LinkStatus, apply func(*models.Student)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	student, ok := m.students[studentID]
	if !ok || student.LinkStatus != expect {
		return false, nil
	}
	apply(student)
	now := time.Now()
	student.LinkUpdatedAt = &now
	return true, nil
}

func (m *memRosterStore) ClearExpiredRejections(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cleared int64
	for _, s := range m.students {
		if s.LinkStatus != models.LinkRejected {
			continue
		}
		if s.LinkUpdatedAt == nil || !s.LinkUpdatedAt.Before(cutoff) {
			continue
		}
		s.ParentID = nil
		s.ParentRelationship = nil
		s.LinkStatus = models.LinkNone
		s.RejectionReason = nil
		s.LinkUpdatedAt = nil
		cleared++
	}
	return cleared, nil
}

// memCourseStore is an in-memory CourseStore.
type memCourseStore struct {
	courses []*models.Course
}

func newMemCourseStore(courses ...*models.Course) *memCourseStore {
	return &memCourseStore{courses: courses}
}

func (m *memCourseStore) Create(ctx context.Context, course *models.Course) error {
	for _, c := range m.courses {
		if c.Code == course.Code {
			return apperrors.ErrCourseCodeExists
		}
	}
	course.ID = int64(len(m.courses) + 1)
	m.courses = append(m.courses, course)
	return nil
}

func (m *memCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (m *memCourseStore) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range m.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (m *memCourseStore) GetByCodes(ctx context.Context, codes []string) (map[string]*models.Course, error) {
	out := make(map[string]*models.Course)
	for _, code := range codes {
		if c, err := m.GetByCode(ctx, code); err == nil {
			out[c.Code] = c
		}
	}
	return out, nil
}

func (m *memCourseStore) GetAll(ctx context.Context) ([]*models.Course, error) {
	return m.courses, nil
}

// memParentStore is an in-memory ParentStore.
type memParentStore struct {
	nextID  int64
	parents map[int64]*models.Parent
}

func newMemParentStore() *memParentStore {
	return &memParentStore{parents: make(map[int64]*models.Parent)}
}

func (m *memParentStore) Create(ctx context.Context, parent *models.Parent) error {
	for _, p := range m.parents {
		if p.Email == parent.Email {
			return apperrors.ErrParentEmailExists
		}
	}
	m.nextID++
	parent.ID = m.nextID
	clone := *parent
	m.parents[parent.ID] = &clone
	return nil
}

func (m *memParentStore) GetByID(ctx context.Context, id int64) (*models.Parent, error) {
	parent, ok := m.parents[id]
	if !ok {
		return nil, apperrors.ErrParentNotFound
	}
	return parent, nil
}

func (m *memParentStore) GetByEmail(ctx context.Context, email string) (*models.Parent, error) {
	for _, p := range m.parents {
		if p.Email == strings.ToLower(strings.TrimSpace(email)) {
			return p, nil
		}
	}
	return nil, apperrors.ErrParentNotFound
}
