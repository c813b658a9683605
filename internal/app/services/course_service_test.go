package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
)

func TestCourseService_CreateCourseUppercasesCode(t *testing.T) {
	svc := NewCourseService(newMemCourseStore())
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{
		Code: " bsit ",
		Name: " Bachelor of Science in Information Technology ",
	})
	require.NoError(t, err)
	assert.Equal(t, "BSIT", course.Code)
	assert.Equal(t, "Bachelor of Science in Information Technology", course.Name)
	assert.NotZero(t, course.ID)
}

func TestCourseService_CreateCourseRejectsBadInput(t *testing.T) {
	svc := NewCourseService(newMemCourseStore())
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateCourseRequest
	}{
		{"empty code", dto.CreateCourseRequest{Code: "", Name: "Something"}},
		{"code with spaces", dto.CreateCourseRequest{Code: "BS IT", Name: "Something"}},
		{"code starting with digit", dto.CreateCourseRequest{Code: "1BSIT", Name: "Something"}},
		{"empty name", dto.CreateCourseRequest{Code: "BSIT", Name: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCourse(ctx, &tt.req)
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}

func TestCourseService_CreateCourseDuplicateCode(t *testing.T) {
	svc := NewCourseService(newMemCourseStore(&models.Course{ID: 1, Code: "BSIT", Name: "Info Tech"}))

	_, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Code: "bsit", Name: "Other"})
	assert.ErrorIs(t, err, apperrors.ErrCourseCodeExists)
}

func TestCourseService_ResolveCourse(t *testing.T) {
	svc := NewCourseService(newMemCourseStore(&models.Course{ID: 1, Code: "BSCS", Name: "Comp Sci"}))
	ctx := context.Background()

	course, err := svc.ResolveCourse(ctx, " bscs ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), course.ID)

	_, err = svc.ResolveCourse(ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
