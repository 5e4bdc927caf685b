package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rulingo/backoffice/internal/app/auth"
	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

func TestCourseCreateOwnedByTutorActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tutor, actor := env.createTutor(t, "karla")
	other, _ := env.createTutor(t, "lars")

	// A supplied owner is ignored for tutor actors.
	course, err := env.courses.Create(ctx, actor, &dto.CreateCourseRequest{
		Title:       "Geometry",
		Description: "shapes",
		TutorID:     other.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if course.TutorID != tutor.ID {
		t.Errorf("TutorID = %d, want actor's own %d", course.TutorID, tutor.ID)
	}
}

func TestCourseCreateDefaultType(t *testing.T) {
	env := newTestEnv(t)

	_, actor := env.createTutor(t, "mona")
	course, err := env.courses.Create(context.Background(), actor, &dto.CreateCourseRequest{
		Title:       "Untitled type",
		Description: "defaults",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if course.Type != models.DefaultCourseType {
		t.Errorf("Type = %q, want %q", course.Type, models.DefaultCourseType)
	}
}

func TestCourseCreateByPrivileged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tutor, _ := env.createTutor(t, "nils")
	admin := env.privilegedActor(t)

	t.Run("missing assignment", func(t *testing.T) {
		_, err := env.courses.Create(ctx, admin, &dto.CreateCourseRequest{
			Title:       "Orphan",
			Description: "no owner",
		})
		if !errors.Is(err, apperrors.ErrMissingAssignment) {
			t.Fatalf("err = %v, want ErrMissingAssignment", err)
		}
	})

	t.Run("explicit assignment", func(t *testing.T) {
		course, err := env.courses.Create(ctx, admin, &dto.CreateCourseRequest{
			Title:       "Assigned",
			Description: "has owner",
			TutorID:     tutor.ID,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if course.TutorID != tutor.ID {
			t.Errorf("TutorID = %d, want %d", course.TutorID, tutor.ID)
		}
	})

	t.Run("unknown tutor", func(t *testing.T) {
		_, err := env.courses.Create(ctx, admin, &dto.CreateCourseRequest{
			Title:       "Nowhere",
			Description: "bad owner",
			TutorID:     999,
		})
		if !errors.Is(err, apperrors.ErrTutorNotFound) {
			t.Fatalf("err = %v, want ErrTutorNotFound", err)
		}
	})
}

func TestCourseCreateWithoutRole(t *testing.T) {
	env := newTestEnv(t)

	plain := auth.Actor{Account: env.createAccount(t, "olga", false)}
	_, err := env.courses.Create(context.Background(), plain, &dto.CreateCourseRequest{
		Title:       "Nope",
		Description: "no profile",
	})
	if !errors.Is(err, apperrors.ErrRoleConflict) {
		t.Fatalf("err = %v, want ErrRoleConflict", err)
	}
}

func TestCourseScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actorA := env.createTutor(t, "pia")
	_, actorB := env.createTutor(t, "quin")
	courseA := env.createCourse(t, actorA, "Reading", "level")
	env.createCourse(t, actorB, "Writing", "level")

	own, err := env.courses.List(ctx, actorA)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(own) != 1 || own[0].ID != courseA.ID {
		t.Fatalf("tutor A sees %d courses, want only their own", len(own))
	}

	// Foreign courses read as missing.
	if _, err := env.courses.GetByID(ctx, actorB, courseA.ID); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
	if _, err := env.courses.Update(ctx, actorB, courseA.ID, &dto.UpdateCourseRequest{Title: "x", Description: "y"}); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("update err = %v, want ErrCourseNotFound", err)
	}
	if err := env.courses.Delete(ctx, actorB, courseA.ID); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("delete err = %v, want ErrCourseNotFound", err)
	}
}

func TestCourseUpdateKeepsType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "rita")
	course := env.createCourse(t, actor, "Demo intro", "demo")

	updated, err := env.courses.Update(ctx, actor, course.ID, &dto.UpdateCourseRequest{
		Title:       "Demo intro v2",
		Description: "refreshed",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Type != models.CourseTypeDemo {
		t.Errorf("Type changed to %q on update", updated.Type)
	}
	if updated.Title != "Demo intro v2" {
		t.Errorf("Title = %q", updated.Title)
	}
}

func TestCourseDeleteRemovesEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "stan")
	env.createStudent(t, actor, "tony")
	course := env.createCourse(t, actor, "Demo day", "demo")

	enrollments, err := env.enrollments.List(ctx, actor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enrollments) != 1 {
		t.Fatalf("enrollments before delete = %d, want 1", len(enrollments))
	}

	if err := env.courses.Delete(ctx, actor, course.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	enrollments, err = env.enrollments.List(ctx, env.privilegedActor(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enrollments) != 0 {
		t.Fatalf("enrollments after delete = %d, want 0", len(enrollments))
	}
}
