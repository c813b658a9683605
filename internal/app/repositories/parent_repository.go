package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/dberrors"
	"github.com/yigit/rosterhub/internal/pkg/logger"
)

const parentEmailUniqueConstraint = "parents_email_key"

// ParentRepository handles guardian account database operations
type ParentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewParentRepository creates a new ParentRepository
func NewParentRepository(db *pgxpool.Pool) *ParentRepository {
	return &ParentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create creates a guardian account
func (r *ParentRepository) Create(ctx context.Context, parent *models.Parent) error {
	if parent.PublicID == uuid.Nil {
		parent.PublicID = uuid.New()
	}

	sql, args, err := r.sb.Insert("parents").
		Columns("public_id", "first_name", "last_name", "email", "phone", "password_hash").
		Values(parent.PublicID, parent.FirstName, parent.LastName,
			strings.ToLower(strings.TrimSpace(parent.Email)), parent.Phone, parent.PasswordHash).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create parent query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&parent.ID, &parent.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, parentEmailUniqueConstraint) {
			logger.Warn().Str("email", parent.Email).Msg("Attempted to register duplicate parent email")
			return apperrors.ErrParentEmailExists
		}
		logger.Error().Err(err).Msg("Error executing create parent query")
		return fmt.Errorf("error creating parent: %w", err)
	}
	return nil
}

// GetByID retrieves a guardian account by ID
func (r *ParentRepository) GetByID(ctx context.Context, id int64) (*models.Parent, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a guardian account by email
func (r *ParentRepository) GetByEmail(ctx context.Context, email string) (*models.Parent, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *ParentRepository) getOne(ctx context.Context, pred squirrel.Eq) (*models.Parent, error) {
	sql, args, err := r.sb.Select("id", "public_id", "first_name", "last_name", "email", "phone", "password_hash", "created_at").
		From("parents").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get parent query: %w", err)
	}

	var parent models.Parent
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&parent.ID, &parent.PublicID, &parent.FirstName, &parent.LastName,
		&parent.Email, &parent.Phone, &parent.PasswordHash, &parent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParentNotFound
		}
		return nil, fmt.Errorf("error retrieving parent: %w", err)
	}
	return &parent, nil
}
