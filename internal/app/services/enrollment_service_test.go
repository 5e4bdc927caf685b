package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

func TestEnrollmentCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "ulf")
	student := env.createStudent(t, actor, "vicky")
	course := env.createCourse(t, actor, "Grammar", "level")

	enrollment, err := env.enrollments.Create(ctx, actor, &dto.CreateEnrollmentRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		t.Errorf("Status = %q, want active", enrollment.Status)
	}
	if enrollment.EnrolledAt.IsZero() {
		t.Errorf("EnrolledAt not set")
	}
}

func TestEnrollmentCreateIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "willa")
	student := env.createStudent(t, actor, "xena")
	course := env.createCourse(t, actor, "Phonics", "level")

	req := &dto.CreateEnrollmentRequest{StudentID: student.ID, CourseID: course.ID}

	first, err := env.enrollments.Create(ctx, actor, req)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := env.enrollments.Create(ctx, actor, req)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second create made a new row: %d != %d", second.ID, first.ID)
	}

	all, err := env.enrollments.List(ctx, actor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("rows = %d, want 1", len(all))
	}
}

func TestEnrollmentCreateOwnershipViolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actorA := env.createTutor(t, "yuri")
	_, actorB := env.createTutor(t, "zelda")
	studentA := env.createStudent(t, actorA, "abbie")
	courseA := env.createCourse(t, actorA, "Own course", "level")
	studentB := env.createStudent(t, actorB, "benny")
	courseB := env.createCourse(t, actorB, "Foreign course", "level")

	tests := []struct {
		name      string
		studentID int64
		courseID  int64
	}{
		{"foreign course", studentA.ID, courseB.ID},
		{"foreign student", studentB.ID, courseA.ID},
		{"both foreign", studentB.ID, courseB.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.enrollments.Create(ctx, actorA, &dto.CreateEnrollmentRequest{
				StudentID: tt.studentID,
				CourseID:  tt.courseID,
			})
			if !errors.Is(err, apperrors.ErrOwnershipViolation) {
				t.Fatalf("err = %v, want ErrOwnershipViolation", err)
			}
		})
	}

	// Nothing may persist from the refused attempts.
	all, err := env.enrollments.List(ctx, env.privilegedActor(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rows after violations = %d, want 0", len(all))
	}
}

func TestEnrollmentCreateByPrivilegedCrossesOwners(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actorA := env.createTutor(t, "cora")
	_, actorB := env.createTutor(t, "dean")
	student := env.createStudent(t, actorA, "ebba")
	course := env.createCourse(t, actorB, "Mixed", "level")

	if _, err := env.enrollments.Create(ctx, env.privilegedActor(t), &dto.CreateEnrollmentRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
	}); err != nil {
		t.Fatalf("privileged cross-owner Create: %v", err)
	}
}

func TestEnrollmentCreateUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "elin")
	student := env.createStudent(t, actor, "faye")
	course := env.createCourse(t, actor, "Real", "level")

	if _, err := env.enrollments.Create(ctx, actor, &dto.CreateEnrollmentRequest{
		StudentID: student.ID,
		CourseID:  999,
	}); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}

	if _, err := env.enrollments.Create(ctx, actor, &dto.CreateEnrollmentRequest{
		StudentID: 999,
		CourseID:  course.ID,
	}); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestEnrollmentUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "gwen")
	student := env.createStudent(t, actor, "hans")
	course := env.createCourse(t, actor, "Vocab", "level")

	enrollment, err := env.enrollments.Create(ctx, actor, &dto.CreateEnrollmentRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	completed, err := env.enrollments.UpdateStatus(ctx, actor, enrollment.ID, models.EnrollmentCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("CompletedAt not stamped on completion")
	}

	reopened, err := env.enrollments.UpdateStatus(ctx, actor, enrollment.ID, models.EnrollmentActive)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Fatalf("CompletedAt not cleared on reopen")
	}

	if _, err := env.enrollments.UpdateStatus(ctx, actor, enrollment.ID, "paused"); !errors.Is(err, apperrors.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestEnrollmentScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actorA := env.createTutor(t, "ines")
	_, actorB := env.createTutor(t, "joel")
	student := env.createStudent(t, actorA, "kira")
	course := env.createCourse(t, actorA, "Hidden", "level")

	enrollment, err := env.enrollments.Create(ctx, actorA, &dto.CreateEnrollmentRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.enrollments.GetByID(ctx, actorB, enrollment.ID); !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Fatalf("err = %v, want ErrEnrollmentNotFound", err)
	}
	foreign, err := env.enrollments.List(ctx, actorB)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("foreign tutor sees %d enrollments, want 0", len(foreign))
	}
}
