package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rulingo/backoffice/internal/app/models"
)

// Querier is the subset of pgx operations repositories need; it is satisfied
// by both *pgxpool.Pool and pgx.Tx so the same statements run inside and
// outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// IAccountRepository defines account persistence. Accounts belong to the
// external identity provider; this layer only stores and reads them.
type IAccountRepository interface {
	Create(ctx context.Context, account *models.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailExistsExcept(ctx context.Context, email string, accountID int64) (bool, error)
	UpdateInfo(ctx context.Context, accountID int64, firstName, lastName, email string) error
}

// IProfileDirectory answers which role, if any, an account currently holds.
// One query against the discriminated profiles table replaces the old
// cross-table existence probing.
type IProfileDirectory interface {
	RoleForAccount(ctx context.Context, accountID int64) (models.Role, bool, error)
}

// ITutorRepository defines tutor persistence over the profiles table.
type ITutorRepository interface {
	Create(ctx context.Context, tutor *models.Tutor) (int64, error)
	GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Tutor, error)
	GetByAccountID(ctx context.Context, accountID int64) (*models.Tutor, error)
	List(ctx context.Context, scope models.Scope) ([]*models.Tutor, error)
	Update(ctx context.Context, tutor *models.Tutor) error
	Delete(ctx context.Context, id int64) error
}

// IStudentRepository defines student persistence over the profiles table.
// CreateWithAccount persists the backing account and the student profile as
// one atomic unit; a failed profile write leaves no orphaned account.
type IStudentRepository interface {
	CreateWithAccount(ctx context.Context, account *models.Account, student *models.Student) error
	GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Student, error)
	GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error)
	List(ctx context.Context, scope models.Scope) ([]*models.Student, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*models.Student, error)
	CountByTutor(ctx context.Context, tutorID int64) (int, error)
}

// ICourseRepository defines course persistence.
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Course, error)
	List(ctx context.Context, scope models.Scope) ([]*models.Course, error)
	ListByTutorAndType(ctx context.Context, tutorID int64, courseType models.CourseType) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// IEnrollmentRepository defines enrollment persistence. CreateIfAbsent is the
// authoritative idempotence point: a unique violation on (student, course)
// reports created=false, same as a pre-existing row.
type IEnrollmentRepository interface {
	CreateIfAbsent(ctx context.Context, enrollment *models.Enrollment) (bool, error)
	GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Enrollment, error)
	GetByPair(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	List(ctx context.Context, scope models.Scope) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus, completedAt *time.Time) error
}

// Repositories holds all the repository instances
type Repositories struct {
	AccountRepository    *AccountRepository
	ProfileDirectory     *ProfileDirectory
	TutorRepository      *TutorRepository
	StudentRepository    *StudentRepository
	CourseRepository     *CourseRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AccountRepository:    NewAccountRepository(db),
		ProfileDirectory:     NewProfileDirectory(db),
		TutorRepository:      NewTutorRepository(db),
		StudentRepository:    NewStudentRepository(db),
		CourseRepository:     NewCourseRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
	}
}
