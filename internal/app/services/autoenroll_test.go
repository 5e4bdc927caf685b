package services

import (
	"context"
	"testing"

	"github.com/rulingo/backoffice/internal/app/models"
)

func TestAutoEnrollOnDemoCourseCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "lotta")
	s1 := env.createStudent(t, actor, "max")
	s2 := env.createStudent(t, actor, "nelly")
	_, otherActor := env.createTutor(t, "otto")
	env.createStudent(t, otherActor, "pete")

	course := env.createCourse(t, actor, "Free taster", "demo")

	enrollments, err := env.enrollments.List(ctx, actor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enrollments) != 2 {
		t.Fatalf("enrollments = %d, want 2 (only the tutor's own students)", len(enrollments))
	}
	enrolled := map[int64]bool{}
	for _, e := range enrollments {
		if e.CourseID != course.ID {
			t.Errorf("enrollment on course %d, want %d", e.CourseID, course.ID)
		}
		if e.Status != models.EnrollmentActive {
			t.Errorf("status = %q, want active", e.Status)
		}
		enrolled[e.StudentID] = true
	}
	if !enrolled[s1.ID] || !enrolled[s2.ID] {
		t.Errorf("expected students %d and %d enrolled, got %v", s1.ID, s2.ID, enrolled)
	}
}

func TestAutoEnrollOnStudentCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "paul")
	demo1 := env.createCourse(t, actor, "Taster A", "demo")
	demo2 := env.createCourse(t, actor, "Taster B", "demo")
	env.createCourse(t, actor, "Paid", "level")

	student := env.createStudent(t, actor, "quincy")

	enrollments, err := env.enrollments.List(ctx, actor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enrollments) != 2 {
		t.Fatalf("enrollments = %d, want 2 (demo courses only)", len(enrollments))
	}
	courses := map[int64]bool{}
	for _, e := range enrollments {
		if e.StudentID != student.ID {
			t.Errorf("enrollment for student %d, want %d", e.StudentID, student.ID)
		}
		courses[e.CourseID] = true
	}
	if !courses[demo1.ID] || !courses[demo2.ID] {
		t.Errorf("expected demo courses %d and %d, got %v", demo1.ID, demo2.ID, courses)
	}
}

func TestAutoEnrollSkipsNonDemoCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "rosa")
	env.createStudent(t, actor, "sam")
	env.createCourse(t, actor, "Regular", "level")

	enrollments, err := env.enrollments.List(ctx, actor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enrollments) != 0 {
		t.Fatalf("enrollments = %d, want 0", len(enrollments))
	}
}

func TestAutoEnrollRerunCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "tess")
	student := env.createStudent(t, actor, "uwe")
	course := env.createCourse(t, actor, "Taster", "demo")

	if n := env.syncer.CourseCreated(ctx, course); n != 0 {
		t.Errorf("course re-run created %d enrollments, want 0", n)
	}
	if n := env.syncer.StudentCreated(ctx, student); n != 0 {
		t.Errorf("student re-run created %d enrollments, want 0", n)
	}

	enrollments, err := env.enrollments.List(ctx, actor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enrollments) != 1 {
		t.Fatalf("enrollments = %d, want 1", len(enrollments))
	}
}
