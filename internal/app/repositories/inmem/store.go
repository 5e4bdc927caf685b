// Package inmem provides in-memory implementations of the repository
// interfaces for tests. The store enforces the same constraints as the
// PostgreSQL schema: unique usernames and emails, one profile per account,
// one enrollment per (student, course) pair, restricted tutor deletion while
// students remain and cascading course cleanup.
package inmem

import (
	"sync"
	"time"

	"github.com/rulingo/backoffice/internal/app/models"
)

// Store holds all tables behind a single mutex.
type Store struct {
	mu sync.Mutex

	accounts    map[int64]*models.Account
	tutors      map[int64]*models.Tutor
	students    map[int64]*models.Student
	courses     map[int64]*models.Course
	enrollments map[int64]*models.Enrollment

	accountSeq    int64
	profileSeq    int64
	courseSeq     int64
	enrollmentSeq int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[int64]*models.Account),
		tutors:      make(map[int64]*models.Tutor),
		students:    make(map[int64]*models.Student),
		courses:     make(map[int64]*models.Course),
		enrollments: make(map[int64]*models.Enrollment),
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

// Profiles returns the profile directory view of the store.
func (s *Store) Profiles() *ProfileDirectory {
	return &ProfileDirectory{store: s}
}

// Tutors returns the tutor repository view of the store.
func (s *Store) Tutors() *TutorRepository {
	return &TutorRepository{store: s}
}

// Students returns the student repository view of the store.
func (s *Store) Students() *StudentRepository {
	return &StudentRepository{store: s}
}

// Courses returns the course repository view of the store.
func (s *Store) Courses() *CourseRepository {
	return &CourseRepository{store: s}
}

// Enrollments returns the enrollment repository view of the store.
func (s *Store) Enrollments() *EnrollmentRepository {
	return &EnrollmentRepository{store: s}
}

func (s *Store) now() time.Time {
	return time.Now().UTC()
}

// profileAccountRole returns the role held by the account, if any. Must be
// called with the lock held.
func (s *Store) profileAccountRole(accountID int64) (models.Role, bool) {
	for _, t := range s.tutors {
		if t.AccountID == accountID {
			return models.RoleTutor, true
		}
	}
	for _, st := range s.students {
		if st.AccountID == accountID {
			return models.RoleStudent, true
		}
	}
	return "", false
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	return &c
}

func cloneTutor(t *models.Tutor) *models.Tutor {
	c := *t
	if t.Account != nil {
		c.Account = cloneAccount(t.Account)
	}
	return &c
}

func cloneStudent(st *models.Student) *models.Student {
	c := *st
	if st.Account != nil {
		c.Account = cloneAccount(st.Account)
	}
	c.Tutor = nil
	return &c
}

func cloneCourse(co *models.Course) *models.Course {
	c := *co
	c.Tutor = nil
	return &c
}

func cloneEnrollment(e *models.Enrollment) *models.Enrollment {
	c := *e
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		c.CompletedAt = &t
	}
	c.Student = nil
	c.Course = nil
	return &c
}
