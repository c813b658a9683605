package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/dberrors"
	"github.com/yigit/rosterhub/internal/pkg/logger"
)

const courseCodeUniqueConstraint = "courses_code_key"

// CourseRepository handles course catalog database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create adds a course to the catalog
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("code", "name").
		Values(course.Code, course.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, courseCodeUniqueConstraint) {
			return apperrors.ErrCourseCodeExists
		}
		logger.Error().Err(err).Str("code", course.Code).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name").
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var course models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Code, &course.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &course, nil
}

// GetByCode resolves one course code. Callers treat the not-found error as a
// validation failure, not a system error.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name").
		From("courses").
		Where(squirrel.Eq{"code": strings.ToUpper(strings.TrimSpace(code))}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course by code query: %w", err)
	}

	var course models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Code, &course.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course by code: %w", err)
	}
	return &course, nil
}

// GetByCodes resolves a set of distinct course codes in one round-trip,
// keyed by uppercase code. Codes that do not exist are simply absent from
// the result.
func (r *CourseRepository) GetByCodes(ctx context.Context, codes []string) (map[string]*models.Course, error) {
	resolved := make(map[string]*models.Course)
	if len(codes) == 0 {
		return resolved, nil
	}

	normalized := make([]string, 0, len(codes))
	for _, c := range codes {
		normalized = append(normalized, strings.ToUpper(strings.TrimSpace(c)))
	}

	sql, args, err := r.sb.Select("id", "code", "name").
		From("courses").
		Where(squirrel.Eq{"code": normalized}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get courses by codes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses by codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name); err != nil {
			return nil, err
		}
		resolved[course.Code] = &course
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// GetAll retrieves the whole course catalog ordered by code
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name").
		From("courses").
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}
