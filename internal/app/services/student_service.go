package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/helpers"
	"github.com/yigit/rosterhub/internal/pkg/patch"
	"github.com/yigit/rosterhub/internal/pkg/validation"
)

// StudentService handles direct single-record roster operations. It applies
// the same normalization rules as the batch importer: enums uppercased,
// dates normalized, course codes resolved against the live catalog.
type StudentService struct {
	students RosterStore
	courses  CourseStore
}

// NewStudentService creates a new student service instance
func NewStudentService(students RosterStore, courses CourseStore) *StudentService {
	return &StudentService{
		students: students,
		courses:  courses,
	}
}

// CreateStudent creates a single roster entry from a normalized request
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if !validation.IsValidStudentID(studentID) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidStudentID,
			fmt.Sprintf("studentId %q must match YYYY-NNNNN", studentID))
	}

	sex, ok := models.ParseSex(req.Sex)
	if !ok {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid sex %q: must be MALE or FEMALE", req.Sex))
	}

	year := strings.TrimSpace(req.YearEnrolled)
	if !validation.IsValidYear(year) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("yearEnrolled %q must be a 4-digit year", year))
	}

	student := &models.Student{
		StudentID:    studentID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Sex:          sex,
		YearEnrolled: year,
		Status:       models.StudentActive,
		BloodType:    req.BloodType,
		Allergies:    req.Allergies,
		HeightCM:     req.HeightCM,
		WeightKG:     req.WeightKG,
	}

	if req.MiddleName != nil {
		if middle := strings.TrimSpace(*req.MiddleName); middle != "" {
			student.MiddleName = &middle
		}
	}

	if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
		birth, err := helpers.NormalizeDate(*req.BirthDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("unrecognized birthDate %q", *req.BirthDate))
		}
		student.BirthDate = &birth
	}

	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status, ok := models.ParseStudentStatus(*req.Status)
		if !ok {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid status %q: must be ACTIVE or INACTIVE", *req.Status))
		}
		student.Status = status
	}

	if req.CourseCode != nil && strings.TrimSpace(*req.CourseCode) != "" {
		course, err := s.courses.GetByCode(ctx, *req.CourseCode)
		if err != nil {
			return nil, err
		}
		student.CourseID = &course.ID
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent retrieves a roster entry with its course relation populated
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if student.CourseID != nil {
		course, err := s.courses.GetByID(ctx, *student.CourseID)
		if err == nil {
			student.Course = course
		} else if !errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, err
		}
	}
	return student, nil
}

// ListStudents retrieves roster entries matching the filter
func (s *StudentService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	return s.students.List(ctx, filter)
}

// UpdateStudent applies a partial update built from the tri-state request
// fields, then returns the updated entry.
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	p, err := s.buildPatch(ctx, req)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, apperrors.NewBadRequestError("no fields to update")
	}

	if err := s.students.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.GetStudent(ctx, id)
}

func (s *StudentService) buildPatch(ctx context.Context, req *dto.UpdateStudentRequest) (models.StudentPatch, error) {
	var p models.StudentPatch

	var err error
	if p.FirstName, err = requiredText(req.FirstName, "firstName"); err != nil {
		return p, err
	}
	if p.LastName, err = requiredText(req.LastName, "lastName"); err != nil {
		return p, err
	}

	switch {
	case req.Sex.IsClear():
		return p, apperrors.NewBadRequestError("sex cannot be cleared")
	case req.Sex.IsSet():
		sex, ok := models.ParseSex(req.Sex.MustValue())
		if !ok {
			return p, apperrors.NewBadRequestError(fmt.Sprintf("invalid sex %q: must be MALE or FEMALE", req.Sex.MustValue()))
		}
		p.Sex = patch.Set(sex)
	}

	switch {
	case req.YearEnrolled.IsClear():
		return p, apperrors.NewBadRequestError("yearEnrolled cannot be cleared")
	case req.YearEnrolled.IsSet():
		year := strings.TrimSpace(req.YearEnrolled.MustValue())
		if !validation.IsValidYear(year) {
			return p, apperrors.NewBadRequestError(fmt.Sprintf("yearEnrolled %q must be a 4-digit year", year))
		}
		p.YearEnrolled = patch.Set(year)
	}

	switch {
	case req.Status.IsClear():
		return p, apperrors.NewBadRequestError("status cannot be cleared")
	case req.Status.IsSet():
		status, ok := models.ParseStudentStatus(req.Status.MustValue())
		if !ok {
			return p, apperrors.NewBadRequestError(fmt.Sprintf("invalid status %q: must be ACTIVE or INACTIVE", req.Status.MustValue()))
		}
		p.Status = patch.Set(status)
	}

	switch {
	case req.BirthDate.IsClear():
		p.BirthDate = patch.Clear[time.Time]()
	case req.BirthDate.IsSet():
		birth, err := helpers.NormalizeDate(req.BirthDate.MustValue())
		if err != nil {
			return p, apperrors.NewBadRequestError(fmt.Sprintf("unrecognized birthDate %q", req.BirthDate.MustValue()))
		}
		p.BirthDate = patch.Set(birth)
	}

	switch {
	case req.CourseCode.IsClear():
		p.CourseID = patch.Clear[int64]()
	case req.CourseCode.IsSet():
		course, err := s.courses.GetByCode(ctx, req.CourseCode.MustValue())
		if err != nil {
			return p, err
		}
		p.CourseID = patch.Set(course.ID)
	}

	if req.MiddleName.IsClear() {
		p.MiddleName = patch.Clear[string]()
	} else if req.MiddleName.IsSet() {
		p.MiddleName = patch.Set(strings.TrimSpace(req.MiddleName.MustValue()))
	}

	p.BloodType = req.BloodType
	p.Allergies = req.Allergies
	p.HeightCM = req.HeightCM
	p.WeightKG = req.WeightKG

	return p, nil
}

// requiredText guards required name columns: they may be updated but never
// cleared or blanked.
func requiredText(f patch.Field[string], field string) (patch.Field[string], error) {
	switch {
	case f.IsClear():
		return patch.Field[string]{}, apperrors.NewBadRequestError(field + " cannot be cleared")
	case f.IsSet():
		trimmed := strings.TrimSpace(f.MustValue())
		if trimmed == "" {
			return patch.Field[string]{}, apperrors.NewBadRequestError(field + " cannot be empty")
		}
		return patch.Set(trimmed), nil
	}
	return patch.Absent[string](), nil
}
