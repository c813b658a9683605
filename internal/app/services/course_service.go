package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/validation"
)

// CourseService handles course catalog operations
type CourseService struct {
	courses CourseStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courses CourseStore) *CourseService {
	return &CourseService{courses: courses}
}

// CreateCourse adds a course to the catalog. Codes are stored uppercase.
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !validation.IsValidCourseCode(code) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid course code %q", req.Code))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("course name is required")
	}

	course := &models.Course{Code: code, Name: name}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ListCourses retrieves the whole catalog
func (s *CourseService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courses.GetAll(ctx)
}

// ResolveCourse resolves a single course code against the live catalog
func (s *CourseService) ResolveCourse(ctx context.Context, code string) (*models.Course, error) {
	return s.courses.GetByCode(ctx, code)
}
