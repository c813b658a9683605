package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/rosterhub/internal/app/models"
	appRepos "github.com/yigit/rosterhub/internal/app/repositories"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
)

// defaultCourses is the catalog shipped with a fresh install. Imports that
// reference codes outside the catalog are reported per row, so seeding the
// common programs up front keeps first imports smooth.
var defaultCourses = []appModels.Course{
	{Code: "BSIT", Name: "BS Information Technology"},
	{Code: "BSCS", Name: "BS Computer Science"},
	{Code: "BSBA", Name: "BS Business Administration"},
	{Code: "BSED", Name: "Bachelor of Secondary Education"},
	{Code: "BEED", Name: "Bachelor of Elementary Education"},
	{Code: "BSN", Name: "BS Nursing"},
}

// CreateDefaultData inserts the default course catalog if it isn't there yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	courseRepo := appRepos.NewCourseRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default course catalog...")
	var finalErr error

	for i := range defaultCourses {
		course := defaultCourses[i]
		err := courseRepo.Create(ctx, &course)
		if err != nil && !errors.Is(err, apperrors.ErrCourseCodeExists) {
			lgr.Error().Err(err).Str("code", course.Code).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
