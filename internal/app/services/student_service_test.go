package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
)

func newStudentFixture() (*StudentService, *memRosterStore) {
	students := newMemRosterStore()
	courses := newMemCourseStore(
		&models.Course{ID: 1, Code: "BSIT", Name: "BS Information Technology"},
	)
	return NewStudentService(students, courses), students
}

func createRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		StudentID:    "2024-12345",
		FirstName:    "Juan",
		LastName:     "Dela Cruz",
		Sex:          "male",
		YearEnrolled: "2024",
	}
}

func TestCreateStudent(t *testing.T) {
	svc, _ := newStudentFixture()

	birth := "2002-06-08"
	course := "bsit"
	req := createRequest()
	req.BirthDate = &birth
	req.CourseCode = &course

	student, err := svc.CreateStudent(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.SexMale, student.Sex)
	assert.Equal(t, models.StudentActive, student.Status)
	require.NotNil(t, student.BirthDate)
	assert.Equal(t, time.Date(2002, time.June, 8, 0, 0, 0, 0, time.UTC), *student.BirthDate)
	require.NotNil(t, student.CourseID)
	assert.Equal(t, int64(1), *student.CourseID)
	assert.NotZero(t, student.ID)
}

func TestCreateStudentValidation(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	t.Run("malformed student id", func(t *testing.T) {
		req := createRequest()
		req.StudentID = "24-12345"
		_, err := svc.CreateStudent(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStudentID)
	})

	t.Run("unknown course code", func(t *testing.T) {
		code := "BSXX"
		req := createRequest()
		req.CourseCode = &code
		_, err := svc.CreateStudent(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("duplicate student id", func(t *testing.T) {
		_, err := svc.CreateStudent(ctx, createRequest())
		require.NoError(t, err)
		_, err = svc.CreateStudent(ctx, createRequest())
		assert.ErrorIs(t, err, apperrors.ErrStudentIDExists)
	})
}

// decodeUpdate mimics the controller's JSON binding so the tri-state
// missing/null/value distinction is exercised end to end.
func decodeUpdate(t *testing.T, body string) *dto.UpdateStudentRequest {
	t.Helper()
	var req dto.UpdateStudentRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestBuildPatchTriState(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	req := decodeUpdate(t, `{"firstName":"Pedro","middleName":null,"courseCode":"BSIT"}`)

	p, err := svc.buildPatch(ctx, req)
	require.NoError(t, err)

	assert.True(t, p.FirstName.IsSet())
	assert.Equal(t, "Pedro", p.FirstName.MustValue())
	assert.True(t, p.MiddleName.IsClear())
	assert.True(t, p.CourseID.IsSet())
	assert.Equal(t, int64(1), p.CourseID.MustValue())

	// Untouched fields stay absent.
	assert.True(t, p.LastName.IsAbsent())
	assert.True(t, p.BirthDate.IsAbsent())
	assert.True(t, p.Status.IsAbsent())
}

func TestBuildPatchGuards(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		body string
	}{
		{"firstName cleared", `{"firstName":null}`},
		{"lastName blanked", `{"lastName":"  "}`},
		{"sex cleared", `{"sex":null}`},
		{"yearEnrolled cleared", `{"yearEnrolled":null}`},
		{"status cleared", `{"status":null}`},
		{"bad year", `{"yearEnrolled":"24"}`},
		{"bad sex", `{"sex":"robot"}`},
		{"bad birth date", `{"birthDate":"not a date"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.buildPatch(ctx, decodeUpdate(t, tt.body))
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}

func TestBuildPatchClearsOptionalColumns(t *testing.T) {
	svc, _ := newStudentFixture()

	req := decodeUpdate(t, `{"birthDate":null,"courseCode":null,"bloodType":null}`)

	p, err := svc.buildPatch(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, p.BirthDate.IsClear())
	assert.True(t, p.CourseID.IsClear())
	assert.True(t, p.BloodType.IsClear())
}

func TestUpdateStudentRejectsEmptyPatch(t *testing.T) {
	svc, students := newStudentFixture()
	student := students.add(models.Student{
		StudentID: "2024-00001", FirstName: "Juan", LastName: "Dela Cruz",
		Sex: models.SexMale, YearEnrolled: "2024", Status: models.StudentActive,
	})

	_, err := svc.UpdateStudent(context.Background(), student.ID, decodeUpdate(t, `{}`))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
