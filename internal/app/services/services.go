package services

import (
	"context"
	"time"

	"github.com/yigit/rosterhub/internal/app/models"
)

// Services defined in this package:
// - ImportService: batch roster import with per-row error reporting
// - ExportService: filtered roster export and import template generation
// - LinkService: the parent-student link state machine
// - StudentService: direct single-record roster operations
// - CourseService: course catalog operations
// - AuthService: guardian account registration and login
//
// Every service depends on the small store interfaces below rather than the
// concrete repositories, so the batch and workflow logic is unit-testable
// without a database.

// RosterStore is the persistence contract for roster entries.
type RosterStore interface {
	Create(ctx context.Context, student *models.Student) error

	// BulkCreateSkipConflicts inserts a batch, silently skipping rows that
	// collide on the unique external identifier, and returns the number of
	// rows actually inserted.
	BulkCreateSkipConflicts(ctx context.Context, students []*models.Student) (int64, error)

	// ExistingStudentIDs reports which of the given external identifiers are
	// already persisted, in one round-trip.
	ExistingStudentIDs(ctx context.Context, studentIDs []string) (map[string]struct{}, error)

	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, id int64, p models.StudentPatch) error

	// Conditional link transitions. Each returns whether the entry matched
	// the expected current state; a false result with a nil error means the
	// transition was not allowed from the entry's actual state.
	SetLinkPending(ctx context.Context, studentID, parentID int64, relationship string) (bool, error)
	SetLinkApproved(ctx context.Context, studentID int64) (bool, error)
	SetLinkRejected(ctx context.Context, studentID int64, reason string) (bool, error)
	ReturnLinkToPending(ctx context.Context, studentID int64) (bool, error)
	ClearExpiredRejections(ctx context.Context, cutoff time.Time) (int64, error)
}

// CourseStore is the persistence contract for the course catalog.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	GetByCodes(ctx context.Context, codes []string) (map[string]*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
}

// ParentStore is the persistence contract for guardian accounts.
type ParentStore interface {
	Create(ctx context.Context, parent *models.Parent) error
	GetByID(ctx context.Context, id int64) (*models.Parent, error)
	GetByEmail(ctx context.Context, email string) (*models.Parent, error)
}
