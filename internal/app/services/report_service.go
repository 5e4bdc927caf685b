package services

import (
	"context"
	"fmt"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/repositories"
)

// TutorReport summarizes a single tutor's slice of the platform.
type TutorReport struct {
	Tutor           *models.Tutor
	StudentCount    int
	CoursesByType   map[models.CourseType]int
	EnrollmentCount int
}

// PlatformReport aggregates per-tutor reports with platform totals.
type PlatformReport struct {
	Tutors           []*TutorReport
	TotalStudents    int
	TotalCourses     int
	TotalEnrollments int
}

// Finding describes one consistency problem discovered by an audit run.
type Finding struct {
	Check   string
	Message string
}

// ReportService produces operational summaries and consistency audits over
// the whole platform. It always reads with an unrestricted scope and is meant
// for the admin tooling, not for tutor-facing calls.
type ReportService interface {
	Overview(ctx context.Context) (*PlatformReport, error)
	Audit(ctx context.Context) ([]Finding, error)
}

type reportServiceImpl struct {
	tutorRepo      repositories.ITutorRepository
	studentRepo    repositories.IStudentRepository
	courseRepo     repositories.ICourseRepository
	enrollmentRepo repositories.IEnrollmentRepository
}

// NewReportService creates a new report service instance
func NewReportService(
	tutorRepo repositories.ITutorRepository,
	studentRepo repositories.IStudentRepository,
	courseRepo repositories.ICourseRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
) ReportService {
	return &reportServiceImpl{
		tutorRepo:      tutorRepo,
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Overview builds a per-tutor breakdown of students, courses and enrollments.
func (s *reportServiceImpl) Overview(ctx context.Context) (*PlatformReport, error) {
	tutors, err := s.tutorRepo.List(ctx, models.ScopeAll())
	if err != nil {
		return nil, err
	}

	report := &PlatformReport{}
	for _, tutor := range tutors {
		scope := models.ScopeTutor(tutor.ID)

		studentCount, err := s.studentRepo.CountByTutor(ctx, tutor.ID)
		if err != nil {
			return nil, err
		}
		courses, err := s.courseRepo.List(ctx, scope)
		if err != nil {
			return nil, err
		}
		enrollments, err := s.enrollmentRepo.List(ctx, scope)
		if err != nil {
			return nil, err
		}

		byType := make(map[models.CourseType]int)
		for _, course := range courses {
			byType[course.Type]++
		}

		report.Tutors = append(report.Tutors, &TutorReport{
			Tutor:           tutor,
			StudentCount:    studentCount,
			CoursesByType:   byType,
			EnrollmentCount: len(enrollments),
		})
		report.TotalStudents += studentCount
		report.TotalCourses += len(courses)
		report.TotalEnrollments += len(enrollments)
	}

	return report, nil
}

// Audit checks the stored data against the platform's consistency rules:
// every student of a tutor must be enrolled in each of the tutor's demo
// courses, and an enrollment must not pair a student with a course owned by a
// different tutor unless an administrator put it there knowingly. Findings
// are reported, never repaired.
func (s *reportServiceImpl) Audit(ctx context.Context) ([]Finding, error) {
	var findings []Finding

	tutors, err := s.tutorRepo.List(ctx, models.ScopeAll())
	if err != nil {
		return nil, err
	}

	for _, tutor := range tutors {
		demoFindings, err := s.auditDemoCoverage(ctx, tutor)
		if err != nil {
			return nil, err
		}
		findings = append(findings, demoFindings...)
	}

	crossFindings, err := s.auditCrossOwnership(ctx)
	if err != nil {
		return nil, err
	}
	findings = append(findings, crossFindings...)

	return findings, nil
}

func (s *reportServiceImpl) auditDemoCoverage(ctx context.Context, tutor *models.Tutor) ([]Finding, error) {
	demoCourses, err := s.courseRepo.ListByTutorAndType(ctx, tutor.ID, models.CourseTypeDemo)
	if err != nil {
		return nil, err
	}
	if len(demoCourses) == 0 {
		return nil, nil
	}
	students, err := s.studentRepo.ListByTutor(ctx, tutor.ID)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, course := range demoCourses {
		enrolled := make(map[int64]bool)
		enrollments, err := s.enrollmentRepo.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		for _, enrollment := range enrollments {
			enrolled[enrollment.StudentID] = true
		}
		for _, student := range students {
			if !enrolled[student.ID] {
				findings = append(findings, Finding{
					Check:   "demo-coverage",
					Message: fmt.Sprintf("student %d is not enrolled in demo course %d of tutor %d", student.ID, course.ID, tutor.ID),
				})
			}
		}
	}
	return findings, nil
}

func (s *reportServiceImpl) auditCrossOwnership(ctx context.Context) ([]Finding, error) {
	enrollments, err := s.enrollmentRepo.List(ctx, models.ScopeAll())
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, enrollment := range enrollments {
		student, err := s.studentRepo.GetByID(ctx, enrollment.StudentID, models.ScopeAll())
		if err != nil {
			return nil, err
		}
		course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID, models.ScopeAll())
		if err != nil {
			return nil, err
		}
		if student.CreatedBy != course.TutorID {
			findings = append(findings, Finding{
				Check:   "cross-ownership",
				Message: fmt.Sprintf("enrollment %d pairs student %d of tutor %d with course %d of tutor %d", enrollment.ID, student.ID, student.CreatedBy, course.ID, course.TutorID),
			})
		}
	}
	return findings, nil
}
