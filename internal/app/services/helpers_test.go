package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rulingo/backoffice/internal/app/auth"
	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/app/repositories/inmem"
)

// testEnv wires every service over one in-memory store so tests exercise the
// same dependency graph the application builds at startup.
type testEnv struct {
	store *inmem.Store

	tutors      TutorService
	students    StudentService
	courses     CourseService
	enrollments EnrollmentService
	reports     ReportService
	syncer      EnrollmentSyncer
	resolver    *auth.Resolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := inmem.NewStore()
	accountRepo := store.Accounts()
	tutorRepo := store.Tutors()
	studentRepo := store.Students()
	courseRepo := store.Courses()
	enrollmentRepo := store.Enrollments()

	guard := auth.NewRoleGuard(store.Profiles())
	syncer := NewEnrollmentSyncer(studentRepo, courseRepo, enrollmentRepo)

	return &testEnv{
		store:       store,
		tutors:      NewTutorService(accountRepo, tutorRepo, guard),
		students:    NewStudentService(accountRepo, tutorRepo, studentRepo, guard, syncer),
		courses:     NewCourseService(tutorRepo, courseRepo, syncer),
		enrollments: NewEnrollmentService(studentRepo, courseRepo, enrollmentRepo),
		reports:     NewReportService(tutorRepo, studentRepo, courseRepo, enrollmentRepo),
		syncer:      syncer,
		resolver:    auth.NewResolver(accountRepo, tutorRepo),
	}
}

func (e *testEnv) createAccount(t *testing.T, username string, privileged bool) *models.Account {
	t.Helper()

	account := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "secret4",
		FirstName:    "Test",
		LastName:     "User",
		IsPrivileged: privileged,
	}
	if _, err := e.store.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("create account %q: %v", username, err)
	}
	return account
}

func (e *testEnv) createTutor(t *testing.T, username string) (*models.Tutor, auth.Actor) {
	t.Helper()

	account := e.createAccount(t, username, false)
	tutor, err := e.tutors.Create(context.Background(), &dto.CreateTutorRequest{
		AccountID:       account.ID,
		Bio:             "teaches things",
		ExperienceYears: 3,
	})
	if err != nil {
		t.Fatalf("create tutor %q: %v", username, err)
	}
	return tutor, auth.Actor{Account: account, Tutor: tutor}
}

func (e *testEnv) createStudent(t *testing.T, actor auth.Actor, username string) *models.Student {
	t.Helper()

	student, err := e.students.Create(context.Background(), actor, &dto.CreateStudentRequest{
		Account: accountFields(username),
	})
	if err != nil {
		t.Fatalf("create student %q: %v", username, err)
	}
	return student
}

func (e *testEnv) createCourse(t *testing.T, actor auth.Actor, title string, courseType models.CourseType) *models.Course {
	t.Helper()

	course, err := e.courses.Create(context.Background(), actor, &dto.CreateCourseRequest{
		Title:       title,
		Description: "a course about " + title,
		Type:        courseType,
	})
	if err != nil {
		t.Fatalf("create course %q: %v", title, err)
	}
	return course
}

func (e *testEnv) privilegedActor(t *testing.T) auth.Actor {
	t.Helper()
	return auth.Actor{Account: e.createAccount(t, fmt.Sprintf("admin%d", e.nextSuffix()), true)}
}

var suffixCounter int

func (e *testEnv) nextSuffix() int {
	suffixCounter++
	return suffixCounter
}

func accountFields(username string) dto.AccountFields {
	return dto.AccountFields{
		Username:        username,
		Email:           username + "@example.com",
		FirstName:       "First",
		LastName:        "Last",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
}
