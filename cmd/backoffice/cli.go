package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/bootstrap"
	"github.com/rulingo/backoffice/internal/seed"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	pool *pgxpool.Pool
	deps *bootstrap.Dependencies
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply pending database migrations")
	fmt.Println("  seed    - create idempotent demo data (operator, tutor, students, courses)")
	fmt.Println("  report  - print per-tutor student, course and enrollment counts")
	fmt.Println("  audit   - check role exclusivity, demo coverage and enrollment ownership")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	switch args[1] {
	case "migrate":
		// Migrations already ran during startup.
		fmt.Println("Migrations are up to date.")
		return nil
	case "seed":
		return seed.CreateDemoData(ctx, cli.pool)
	case "report":
		return cli.report(ctx)
	case "audit":
		return cli.audit(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) report(ctx context.Context) error {
	report, err := cli.deps.ReportService.Overview(ctx)
	if err != nil {
		return err
	}

	for _, tr := range report.Tutors {
		name := tr.Tutor.Account.FullName()
		fmt.Printf("Tutor %s (#%d): %d students, %d enrollments\n",
			name, tr.Tutor.ID, tr.StudentCount, tr.EnrollmentCount)
		for _, courseType := range []models.CourseType{models.CourseTypeDemo, models.CourseTypeLevel, models.CourseTypeCustom} {
			if n := tr.CoursesByType[courseType]; n > 0 {
				fmt.Printf("  %s courses: %d\n", courseType, n)
			}
		}
	}
	fmt.Printf("Totals: %d students, %d courses, %d enrollments\n",
		report.TotalStudents, report.TotalCourses, report.TotalEnrollments)
	return nil
}

func (cli *commandLine) audit(ctx context.Context) error {
	findings, err := cli.deps.ReportService.Audit(ctx)
	if err != nil {
		return err
	}

	if len(findings) == 0 {
		fmt.Println("Audit clean: no findings.")
		return nil
	}
	for _, f := range findings {
		fmt.Printf("[%s] %s\n", f.Check, f.Message)
	}
	return fmt.Errorf("audit found %d problem(s)", len(findings))
}
