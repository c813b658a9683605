package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/dberrors"
	"github.com/yigit/rosterhub/internal/pkg/logger"
	"github.com/yigit/rosterhub/internal/pkg/patch"
)

// studentIDUniqueConstraint is the unique index backing the external identifier
const studentIDUniqueConstraint = "students_student_id_key"

var studentColumns = []string{
	"id", "student_id", "first_name", "middle_name", "last_name", "sex",
	"birth_date", "year_enrolled", "status", "course_id",
	"blood_type", "allergies", "height_cm", "weight_kg",
	"parent_id", "parent_relationship", "link_status", "rejection_reason", "link_updated_at",
	"created_at", "updated_at",
}

// StudentRepository handles roster entry database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	var linkStatus *string

	err := row.Scan(
		&student.ID, &student.StudentID, &student.FirstName, &student.MiddleName,
		&student.LastName, &student.Sex, &student.BirthDate, &student.YearEnrolled,
		&student.Status, &student.CourseID,
		&student.BloodType, &student.Allergies, &student.HeightCM, &student.WeightKG,
		&student.ParentID, &student.ParentRelationship, &linkStatus,
		&student.RejectionReason, &student.LinkUpdatedAt,
		&student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if linkStatus != nil {
		student.LinkStatus = models.LinkStatus(*linkStatus)
	} else {
		student.LinkStatus = models.LinkNone
	}
	return &student, nil
}

// Create creates a single roster entry
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "first_name", "middle_name", "last_name", "sex",
			"birth_date", "year_enrolled", "status", "course_id",
			"blood_type", "allergies", "height_cm", "weight_kg").
		Values(student.StudentID, student.FirstName, student.MiddleName, student.LastName,
			student.Sex, student.BirthDate, student.YearEnrolled, student.Status, student.CourseID,
			student.BloodType, student.Allergies, student.HeightCM, student.WeightKG).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentIDUniqueConstraint) {
			logger.Warn().Str("studentID", student.StudentID).Msg("Attempted to create student with duplicate student ID")
			return apperrors.ErrStudentIDExists
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// BulkCreateSkipConflicts inserts a batch of roster entries in one statement.
// Rows that collide on the unique student_id are silently skipped rather than
// failing the batch; the returned count is the number of rows actually
// inserted.
func (r *StudentRepository) BulkCreateSkipConflicts(ctx context.Context, students []*models.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}

	builder := r.sb.Insert("students").
		Columns("student_id", "first_name", "middle_name", "last_name", "sex",
			"birth_date", "year_enrolled", "status", "course_id")
	for _, s := range students {
		builder = builder.Values(s.StudentID, s.FirstName, s.MiddleName, s.LastName,
			s.Sex, s.BirthDate, s.YearEnrolled, s.Status, s.CourseID)
	}

	sql, args, err := builder.Suffix("ON CONFLICT (student_id) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build bulk create query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int("batchSize", len(students)).Msg("Error executing bulk create query")
		return 0, fmt.Errorf("error bulk creating students: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ExistingStudentIDs returns which of the given external identifiers are
// already present in the roster, as one round-trip.
func (r *StudentRepository) ExistingStudentIDs(ctx context.Context, studentIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(studentIDs) == 0 {
		return existing, nil
	}

	sql, args, err := r.sb.Select("student_id").
		From("students").
		Where(squirrel.Eq{"student_id": studentIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build existing IDs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying existing student IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return existing, nil
}

// GetByID retrieves a roster entry by its internal identifier
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// List retrieves roster entries matching the filter, ordered by enrollment
// year then last name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	builder := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("year_enrolled ASC", "last_name ASC", "id ASC")

	if filter.YearEnrolled != "" {
		builder = builder.Where(squirrel.Eq{"year_enrolled": filter.YearEnrolled})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}

// Update applies a partial update. Absent fields are untouched, cleared
// fields become NULL.
func (r *StudentRepository) Update(ctx context.Context, id int64, p models.StudentPatch) error {
	builder := r.sb.Update("students").Set("updated_at", squirrel.Expr("now()"))

	builder = applyPatchField(builder, "first_name", p.FirstName)
	builder = applyPatchField(builder, "middle_name", p.MiddleName)
	builder = applyPatchField(builder, "last_name", p.LastName)
	builder = applyPatchField(builder, "sex", p.Sex)
	builder = applyPatchField(builder, "birth_date", p.BirthDate)
	builder = applyPatchField(builder, "year_enrolled", p.YearEnrolled)
	builder = applyPatchField(builder, "status", p.Status)
	builder = applyPatchField(builder, "course_id", p.CourseID)
	builder = applyPatchField(builder, "blood_type", p.BloodType)
	builder = applyPatchField(builder, "allergies", p.Allergies)
	builder = applyPatchField(builder, "height_cm", p.HeightCM)
	builder = applyPatchField(builder, "weight_kg", p.WeightKG)

	sql, args, err := builder.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func applyPatchField[T any](b squirrel.UpdateBuilder, column string, f patch.Field[T]) squirrel.UpdateBuilder {
	switch {
	case f.IsSet():
		return b.Set(column, f.MustValue())
	case f.IsClear():
		return b.Set(column, nil)
	}
	return b
}

// SetLinkPending moves an entry into PENDING for the given parent. The update
// only matches entries with no link or a rejected one, so exactly one of two
// racing requests can win.
func (r *StudentRepository) SetLinkPending(ctx context.Context, studentID, parentID int64, relationship string) (bool, error) {
	query := `
		UPDATE students
		SET parent_id = $2,
		    parent_relationship = $3,
		    link_status = 'PENDING',
		    rejection_reason = NULL,
		    link_updated_at = now(),
		    updated_at = now()
		WHERE id = $1
		  AND (link_status IS NULL OR link_status = 'REJECTED')
	`

	tag, err := r.db.Exec(ctx, query, studentID, parentID, relationship)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("parentID", parentID).Msg("Error executing link request update")
		return false, fmt.Errorf("error requesting link: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetLinkApproved approves a PENDING link
func (r *StudentRepository) SetLinkApproved(ctx context.Context, studentID int64) (bool, error) {
	query := `
		UPDATE students
		SET link_status = 'APPROVED',
		    link_updated_at = now(),
		    updated_at = now()
		WHERE id = $1 AND link_status = 'PENDING'
	`

	tag, err := r.db.Exec(ctx, query, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing link approve update")
		return false, fmt.Errorf("error approving link: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetLinkRejected rejects a PENDING link with a reason
func (r *StudentRepository) SetLinkRejected(ctx context.Context, studentID int64, reason string) (bool, error) {
	query := `
		UPDATE students
		SET link_status = 'REJECTED',
		    rejection_reason = $2,
		    link_updated_at = now(),
		    updated_at = now()
		WHERE id = $1 AND link_status = 'PENDING'
	`

	tag, err := r.db.Exec(ctx, query, studentID, reason)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing link reject update")
		return false, fmt.Errorf("error rejecting link: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReturnLinkToPending sends an APPROVED link back to review. The parent
// reference stays in place; only the status reverts.
func (r *StudentRepository) ReturnLinkToPending(ctx context.Context, studentID int64) (bool, error) {
	query := `
		UPDATE students
		SET link_status = 'PENDING',
		    link_updated_at = now(),
		    updated_at = now()
		WHERE id = $1 AND link_status = 'APPROVED'
	`

	tag, err := r.db.Exec(ctx, query, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing unlink update")
		return false, fmt.Errorf("error unlinking student: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClearExpiredRejections resets every REJECTED link whose last transition is
// older than the cutoff, returning how many entries were cleared.
func (r *StudentRepository) ClearExpiredRejections(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE students
		SET link_status = NULL,
		    parent_id = NULL,
		    parent_relationship = NULL,
		    rejection_reason = NULL,
		    link_updated_at = NULL,
		    updated_at = now()
		WHERE link_status = 'REJECTED' AND link_updated_at < $1
	`

	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		logger.Error().Err(err).Time("cutoff", cutoff).Msg("Error executing rejection sweep")
		return 0, fmt.Errorf("error sweeping expired rejections: %w", err)
	}

	cleared := tag.RowsAffected()
	if cleared > 0 {
		logger.Info().Int64("cleared", cleared).Time("cutoff", cutoff).Msg("Cleared expired link rejections")
	}
	return cleared, nil
}
