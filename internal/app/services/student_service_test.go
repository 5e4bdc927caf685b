package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rulingo/backoffice/internal/app/auth"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

func TestStudentCreateOwnedByActor(t *testing.T) {
	env := newTestEnv(t)

	tutor, actor := env.createTutor(t, "lena")
	student := env.createStudent(t, actor, "mike")

	if student.CreatedBy != tutor.ID {
		t.Errorf("CreatedBy = %d, want %d", student.CreatedBy, tutor.ID)
	}
	if student.Account == nil || student.Account.Username != "mike" {
		t.Errorf("student account not populated")
	}
}

func TestStudentCreateByPrivilegedNeedsAssignment(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.Create(context.Background(), env.privilegedActor(t), &dto.CreateStudentRequest{
		Account: accountFields("nora"),
	})
	if !errors.Is(err, apperrors.ErrMissingAssignment) {
		t.Fatalf("err = %v, want ErrMissingAssignment", err)
	}
}

func TestStudentCreateWithoutTutorProfile(t *testing.T) {
	env := newTestEnv(t)

	plain := auth.Actor{Account: env.createAccount(t, "oscar", false)}
	_, err := env.students.Create(context.Background(), plain, &dto.CreateStudentRequest{
		Account: accountFields("paula"),
	})
	if !errors.Is(err, apperrors.ErrRoleConflict) {
		t.Fatalf("err = %v, want ErrRoleConflict", err)
	}
}

func TestStudentAdminCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tutor, _ := env.createTutor(t, "nina")
	admin := env.privilegedActor(t)

	student, err := env.students.AdminCreate(ctx, admin, &dto.AdminCreateStudentRequest{
		Account: accountFields("ruth"),
		TutorID: tutor.ID,
	})
	if err != nil {
		t.Fatalf("AdminCreate: %v", err)
	}
	if student.CreatedBy != tutor.ID {
		t.Errorf("CreatedBy = %d, want %d", student.CreatedBy, tutor.ID)
	}
}

func TestStudentAdminCreateRequiresPrivilege(t *testing.T) {
	env := newTestEnv(t)

	tutor, actor := env.createTutor(t, "sven")
	_, err := env.students.AdminCreate(context.Background(), actor, &dto.AdminCreateStudentRequest{
		Account: accountFields("tina"),
		TutorID: tutor.ID,
	})
	if !errors.Is(err, apperrors.ErrOwnershipViolation) {
		t.Fatalf("err = %v, want ErrOwnershipViolation", err)
	}
}

func TestStudentAdminCreateUnknownTutor(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.AdminCreate(context.Background(), env.privilegedActor(t), &dto.AdminCreateStudentRequest{
		Account: accountFields("ulla"),
		TutorID: 999,
	})
	if !errors.Is(err, apperrors.ErrTutorNotFound) {
		t.Fatalf("err = %v, want ErrTutorNotFound", err)
	}
}

func TestStudentCreateDuplicateIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "vera")
	env.createStudent(t, actor, "willy")

	t.Run("username taken", func(t *testing.T) {
		fields := accountFields("willy")
		fields.Email = "other@example.com"
		_, err := env.students.Create(ctx, actor, &dto.CreateStudentRequest{Account: fields})
		if !errors.Is(err, apperrors.ErrUsernameAlreadyTaken) {
			t.Fatalf("err = %v, want ErrUsernameAlreadyTaken", err)
		}
	})

	t.Run("email taken", func(t *testing.T) {
		fields := accountFields("xavier")
		fields.Email = "willy@example.com"
		_, err := env.students.Create(ctx, actor, &dto.CreateStudentRequest{Account: fields})
		if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
		}
	})
}

func TestStudentCreatePasswordValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "yana")

	tests := []struct {
		name   string
		mutate func(*dto.AccountFields)
	}{
		{"too short", func(f *dto.AccountFields) { f.Password = "abc"; f.PasswordConfirm = "abc" }},
		{"confirmation mismatch", func(f *dto.AccountFields) { f.PasswordConfirm = "different" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := accountFields("zack")
			tt.mutate(&fields)
			_, err := env.students.Create(ctx, actor, &dto.CreateStudentRequest{Account: fields})
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("err = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestStudentScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actorA := env.createTutor(t, "alec")
	_, actorB := env.createTutor(t, "bert")
	studentA := env.createStudent(t, actorA, "cleo")
	env.createStudent(t, actorB, "dina")

	// A tutor sees exactly their own students.
	own, err := env.students.List(ctx, actorA)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(own) != 1 || own[0].ID != studentA.ID {
		t.Fatalf("tutor A sees %d students, want only their own", len(own))
	}

	// A foreign student reads as missing, not as forbidden.
	if _, err := env.students.GetByID(ctx, actorB, studentA.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}

	all, err := env.students.List(ctx, env.privilegedActor(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("privileged actor sees %d students, want 2", len(all))
	}
}

func TestStudentUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "elsa")
	student := env.createStudent(t, actor, "finn")

	updated, err := env.students.Update(ctx, actor, student.ID, &dto.UpdateStudentRequest{
		FirstName: "Finnegan",
		LastName:  "Larsen",
		Email:     "finnegan@example.com",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Account.FirstName != "Finnegan" || updated.Account.Email != "finnegan@example.com" {
		t.Errorf("account info not updated: %+v", updated.Account)
	}
}

func TestStudentUpdateEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, actor := env.createTutor(t, "greg")
	student := env.createStudent(t, actor, "hank")
	env.createStudent(t, actor, "iris")

	_, err := env.students.Update(ctx, actor, student.ID, &dto.UpdateStudentRequest{
		FirstName: "Hank",
		LastName:  "Moor",
		Email:     "iris@example.com",
	})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}
}
