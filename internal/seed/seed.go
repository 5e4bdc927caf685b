package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rulingo/backoffice/internal/app/auth"
	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/app/repositories"
	"github.com/rulingo/backoffice/internal/app/services"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

// CreateDemoData seeds a privileged operator account, one tutor with a demo
// and a level course, and two students. The run is idempotent: existing rows
// are left alone and a re-run creates nothing.
func CreateDemoData(ctx context.Context, dbPool *pgxpool.Pool) error {
	repos := repositories.NewRepositories(dbPool)
	guard := auth.NewRoleGuard(repos.ProfileDirectory)
	syncer := services.NewEnrollmentSyncer(repos.StudentRepository, repos.CourseRepository, repos.EnrollmentRepository)
	tutorService := services.NewTutorService(repos.AccountRepository, repos.TutorRepository, guard)
	studentService := services.NewStudentService(repos.AccountRepository, repos.TutorRepository, repos.StudentRepository, guard, syncer)
	courseService := services.NewCourseService(repos.TutorRepository, repos.CourseRepository, syncer)

	logger.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	if _, err := ensureAccount(ctx, repos.AccountRepository, "admin", "admin@rulingo.local", "Platform", "Operator", true); err != nil {
		logger.Error().Err(err).Msg("Error creating admin account")
		finalErr = errors.Join(finalErr, err)
	}

	tutorActor, err := ensureTutor(ctx, repos, tutorService)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating demo tutor")
		return errors.Join(finalErr, err)
	}

	for _, username := range []string{"student.one", "student.two"} {
		if err := ensureStudent(ctx, repos, studentService, tutorActor, username); err != nil {
			logger.Error().Err(err).Str("username", username).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	courses := []struct {
		title      string
		courseType models.CourseType
	}{
		{"Welcome Demo", models.CourseTypeDemo},
		{"Level One", models.CourseTypeLevel},
	}
	for _, c := range courses {
		if err := ensureCourse(ctx, repos, courseService, tutorActor, c.title, c.courseType); err != nil {
			logger.Error().Err(err).Str("title", c.title).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	logger.Info().Msg("Demo data check complete")
	return finalErr
}

func ensureAccount(ctx context.Context, accountRepo repositories.IAccountRepository, username, email, firstName, lastName string, privileged bool) (*models.Account, error) {
	existing, err := accountRepo.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrAccountNotFound) {
		return nil, err
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		Password:     uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		IsPrivileged: privileged,
	}
	if _, err := accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	logger.Info().Str("username", username).Msg("Seeded account")
	return account, nil
}

func ensureTutor(ctx context.Context, repos *repositories.Repositories, tutorService services.TutorService) (auth.Actor, error) {
	account, err := ensureAccount(ctx, repos.AccountRepository, "tutor.demo", "tutor.demo@rulingo.local", "Demo", "Tutor", false)
	if err != nil {
		return auth.Actor{}, err
	}

	tutor, err := repos.TutorRepository.GetByAccountID(ctx, account.ID)
	if err == nil {
		return auth.Actor{Account: account, Tutor: tutor}, nil
	}
	if !errors.Is(err, apperrors.ErrTutorNotFound) {
		return auth.Actor{}, err
	}

	tutor, err = tutorService.Create(ctx, &dto.CreateTutorRequest{
		AccountID:       account.ID,
		Bio:             "Seeded demo tutor",
		ExperienceYears: 5,
	})
	if err != nil {
		return auth.Actor{}, err
	}
	logger.Info().Int64("tutorID", tutor.ID).Msg("Seeded tutor")
	return auth.Actor{Account: account, Tutor: tutor}, nil
}

func ensureStudent(ctx context.Context, repos *repositories.Repositories, studentService services.StudentService, tutorActor auth.Actor, username string) error {
	taken, err := repos.AccountRepository.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}

	password := uuid.NewString()
	_, err = studentService.Create(ctx, tutorActor, &dto.CreateStudentRequest{
		Account: dto.AccountFields{
			Username:        username,
			Email:           username + "@rulingo.local",
			FirstName:       "Demo",
			LastName:        "Student",
			Password:        password,
			PasswordConfirm: password,
		},
	})
	if err != nil {
		return err
	}
	logger.Info().Str("username", username).Msg("Seeded student")
	return nil
}

func ensureCourse(ctx context.Context, repos *repositories.Repositories, courseService services.CourseService, tutorActor auth.Actor, title string, courseType models.CourseType) error {
	existing, err := repos.CourseRepository.List(ctx, models.ScopeTutor(tutorActor.Tutor.ID))
	if err != nil {
		return err
	}
	for _, course := range existing {
		if course.Title == title {
			return nil
		}
	}

	_, err = courseService.Create(ctx, tutorActor, &dto.CreateCourseRequest{
		Title:       title,
		Description: "Seeded course",
		Type:        courseType,
	})
	if err != nil {
		return err
	}
	logger.Info().Str("title", title).Msg("Seeded course")
	return nil
}
