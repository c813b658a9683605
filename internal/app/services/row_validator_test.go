package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
)

func testLookup() CourseCodeMap {
	return CourseCodeMap{
		"BSIT": {ID: 1, Code: "BSIT", Name: "BS Information Technology"},
		"BSCS": {ID: 2, Code: "BSCS", Name: "BS Computer Science"},
	}
}

func fullRow() map[string]string {
	return map[string]string{
		ColStudentID:    "2024-00001",
		ColFirstName:    "Juan",
		ColMiddleName:   "Santos",
		ColLastName:     "Dela Cruz",
		ColSex:          "MALE",
		ColBirthDate:    "2002-06-08",
		ColYearEnrolled: "2024",
		ColCourseCode:   "BSIT",
		ColStatus:       "ACTIVE",
	}
}

func TestNewHeaderIndex(t *testing.T) {
	t.Run("accepts header in any casing and order", func(t *testing.T) {
		index, err := NewHeaderIndex([]string{" LastName", "STUDENTID", "sex", "firstname", "YearEnrolled"})
		require.NoError(t, err)
		assert.Equal(t, 1, index[ColStudentID])
		assert.Equal(t, 0, index[ColLastName])
	})

	t.Run("reports all missing required columns at once", func(t *testing.T) {
		_, err := NewHeaderIndex([]string{"studentId", "firstName", "lastName"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidBatchInput)
		assert.Contains(t, err.Error(), "sex")
		assert.Contains(t, err.Error(), "yearEnrolled")
	})

	t.Run("ignores unknown extra columns", func(t *testing.T) {
		_, err := NewHeaderIndex(append([]string{"nickname"}, RequiredColumns...))
		require.NoError(t, err)
	})
}

func TestHeaderIndexValues(t *testing.T) {
	index, err := NewHeaderIndex(KnownColumns)
	require.NoError(t, err)

	// Ragged row: cells beyond its length read as empty.
	values := index.Values([]string{"2024-00001", "Juan"})
	assert.Equal(t, "2024-00001", values[ColStudentID])
	assert.Equal(t, "Juan", values[ColFirstName])
	assert.Equal(t, "", values[ColYearEnrolled])
}

func TestRowValidatorAcceptsFullRow(t *testing.T) {
	v := NewRowValidator(testLookup())

	candidate, rowErr := v.Validate(2, fullRow())
	require.Nil(t, rowErr)
	require.NotNil(t, candidate)

	assert.Equal(t, 2, candidate.Line)
	assert.Equal(t, "2024-00001", candidate.Student.StudentID)
	assert.Equal(t, models.SexMale, candidate.Student.Sex)
	assert.Equal(t, models.StudentActive, candidate.Student.Status)
	require.NotNil(t, candidate.Student.MiddleName)
	assert.Equal(t, "Santos", *candidate.Student.MiddleName)
	require.NotNil(t, candidate.Student.BirthDate)
	assert.Equal(t, time.Date(2002, time.June, 8, 0, 0, 0, 0, time.UTC), *candidate.Student.BirthDate)
	require.NotNil(t, candidate.Student.CourseID)
	assert.Equal(t, int64(1), *candidate.Student.CourseID)
}

func TestRowValidatorSkipsBlankRow(t *testing.T) {
	v := NewRowValidator(testLookup())

	candidate, rowErr := v.Validate(4, map[string]string{
		ColStudentID: "  ",
		ColFirstName: "",
		ColLastName:  "\t",
	})
	assert.Nil(t, candidate)
	assert.Nil(t, rowErr)
}

func TestRowValidatorFirstFailureWins(t *testing.T) {
	v := NewRowValidator(testLookup())

	// Row with both a bad sex and a bad year: only the sex failure is
	// reported because the rules run in a fixed order.
	row := fullRow()
	row[ColSex] = "robot"
	row[ColYearEnrolled] = "24"

	candidate, rowErr := v.Validate(3, row)
	assert.Nil(t, candidate)
	require.NotNil(t, rowErr)
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, `invalid sex "robot": must be MALE or FEMALE`, rowErr.Reason)
}

func TestRowValidatorRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		reason string
	}{
		{
			name:   "missing required fields listed together",
			mutate: func(r map[string]string) { r[ColFirstName] = ""; r[ColSex] = " " },
			reason: "missing required fields: firstName, sex",
		},
		{
			name:   "unparseable birth date rejects instead of nulling",
			mutate: func(r map[string]string) { r[ColBirthDate] = "junio 8" },
			reason: `unrecognized birthDate "junio 8"`,
		},
		{
			name:   "invalid status",
			mutate: func(r map[string]string) { r[ColStatus] = "ENROLLED" },
			reason: `invalid status "ENROLLED": must be ACTIVE or INACTIVE`,
		},
		{
			name:   "unknown course code",
			mutate: func(r map[string]string) { r[ColCourseCode] = "BSXX" },
			reason: `unknown course code "BSXX"`,
		},
		{
			name:   "non 4-digit year",
			mutate: func(r map[string]string) { r[ColYearEnrolled] = "20245" },
			reason: `yearEnrolled "20245" must be a 4-digit year`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRowValidator(testLookup())
			row := fullRow()
			tt.mutate(row)

			candidate, rowErr := v.Validate(5, row)
			assert.Nil(t, candidate)
			require.NotNil(t, rowErr)
			assert.Equal(t, tt.reason, rowErr.Reason)
			assert.Equal(t, row, rowErr.Values)
		})
	}
}

func TestRowValidatorOptionalFieldsDefault(t *testing.T) {
	v := NewRowValidator(testLookup())

	row := fullRow()
	row[ColMiddleName] = ""
	row[ColBirthDate] = ""
	row[ColCourseCode] = ""
	row[ColStatus] = ""

	candidate, rowErr := v.Validate(2, row)
	require.Nil(t, rowErr)
	require.NotNil(t, candidate)

	assert.Nil(t, candidate.Student.MiddleName)
	assert.Nil(t, candidate.Student.BirthDate)
	assert.Nil(t, candidate.Student.CourseID)
	assert.Equal(t, models.StudentActive, candidate.Student.Status)
}

func TestRowValidatorNormalizesCasing(t *testing.T) {
	v := NewRowValidator(testLookup())

	row := fullRow()
	row[ColSex] = " female "
	row[ColStatus] = "inactive"
	row[ColCourseCode] = "bscs"

	candidate, rowErr := v.Validate(2, row)
	require.Nil(t, rowErr)
	require.NotNil(t, candidate)
	assert.Equal(t, models.SexFemale, candidate.Student.Sex)
	assert.Equal(t, models.StudentInactive, candidate.Student.Status)
	require.NotNil(t, candidate.Student.CourseID)
	assert.Equal(t, int64(2), *candidate.Student.CourseID)
}
