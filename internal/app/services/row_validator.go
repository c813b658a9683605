package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/helpers"
	"github.com/yigit/rosterhub/internal/pkg/validation"
)

// Import file column names
const (
	ColStudentID    = "studentId"
	ColFirstName    = "firstName"
	ColMiddleName   = "middleName"
	ColLastName     = "lastName"
	ColSex          = "sex"
	ColBirthDate    = "birthDate"
	ColYearEnrolled = "yearEnrolled"
	ColCourseCode   = "courseCode"
	ColStatus       = "status"
)

// RequiredColumns must all be present in the header row; their absence fails
// the whole batch before any row is processed.
var RequiredColumns = []string{ColStudentID, ColFirstName, ColLastName, ColSex, ColYearEnrolled}

// KnownColumns is every column the importer reads, in canonical order.
var KnownColumns = []string{
	ColStudentID, ColFirstName, ColMiddleName, ColLastName, ColSex,
	ColBirthDate, ColYearEnrolled, ColCourseCode, ColStatus,
}

// RowError is one row-level validation failure. The raw values and 1-based
// line number (header is line 1) are always retained for the report.
type RowError struct {
	Line   int
	Reason string
	Values map[string]string
}

// Candidate is a normalized row that passed validation, ready for the
// reconciliation step. The raw cell values are retained so any later
// row-level error (e.g. an in-file duplicate) reports exactly what the
// file contained, not the normalized form.
type Candidate struct {
	Line    int
	Student models.Student
	Values  map[string]string
}

// CourseLookup resolves a course code against the codes pre-fetched for one
// batch. It is a pure lookup so the validator never touches persistence.
type CourseLookup interface {
	Lookup(code string) (*models.Course, bool)
}

// CourseCodeMap is a map-backed CourseLookup keyed by uppercase code.
type CourseCodeMap map[string]*models.Course

// Lookup implements CourseLookup
func (m CourseCodeMap) Lookup(code string) (*models.Course, bool) {
	course, ok := m[strings.ToUpper(strings.TrimSpace(code))]
	return course, ok
}

// HeaderIndex maps canonical column names to their position in the header
// row. Header cells are matched case-insensitively after trimming.
type HeaderIndex map[string]int

// NewHeaderIndex validates the header row and returns the column positions.
// Missing required columns fail the batch with a single structural error.
func NewHeaderIndex(header []string) (HeaderIndex, error) {
	byLower := make(map[string]int, len(header))
	for i, cell := range header {
		byLower[strings.ToLower(strings.TrimSpace(cell))] = i
	}

	index := make(HeaderIndex)
	var missing []string
	for _, col := range KnownColumns {
		if i, ok := byLower[strings.ToLower(col)]; ok {
			index[col] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidBatchInput,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}
	return index, nil
}

// Values extracts the known-column cells of one data row into a map keyed by
// canonical column name. Cells beyond the row's length read as empty.
func (h HeaderIndex) Values(cells []string) map[string]string {
	values := make(map[string]string, len(h))
	for col, i := range h {
		if i < len(cells) {
			values[col] = cells[i]
		} else {
			values[col] = ""
		}
	}
	return values
}

// RowValidator validates and normalizes one raw row into a candidate roster
// entry or a structured error. It holds no state beyond the batch's course
// lookup.
type RowValidator struct {
	courses CourseLookup
}

// NewRowValidator creates a validator over the given course lookup
func NewRowValidator(courses CourseLookup) *RowValidator {
	return &RowValidator{courses: courses}
}

// Validate applies the row rules in order, first failure wins. A fully blank
// row returns (nil, nil) and is skipped silently.
func (v *RowValidator) Validate(line int, values map[string]string) (*Candidate, *RowError) {
	if isBlankRow(values) {
		return nil, nil
	}

	fail := func(reason string) (*Candidate, *RowError) {
		return nil, &RowError{Line: line, Reason: reason, Values: values}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if strings.TrimSpace(values[col]) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fail(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}

	sex, ok := models.ParseSex(values[ColSex])
	if !ok {
		return fail(fmt.Sprintf("invalid sex %q: must be MALE or FEMALE", strings.TrimSpace(values[ColSex])))
	}

	student := models.Student{
		StudentID: strings.TrimSpace(values[ColStudentID]),
		FirstName: strings.TrimSpace(values[ColFirstName]),
		LastName:  strings.TrimSpace(values[ColLastName]),
		Sex:       sex,
		Status:    models.StudentActive,
	}

	if middle := strings.TrimSpace(values[ColMiddleName]); middle != "" {
		student.MiddleName = &middle
	}

	// An optional field with a garbage value still rejects the row; it is
	// never silently nulled.
	if raw := strings.TrimSpace(values[ColBirthDate]); raw != "" {
		birth, err := helpers.NormalizeDate(raw)
		if err != nil {
			return fail(fmt.Sprintf("unrecognized birthDate %q", raw))
		}
		student.BirthDate = &birth
	}

	if raw := strings.TrimSpace(values[ColStatus]); raw != "" {
		status, ok := models.ParseStudentStatus(raw)
		if !ok {
			return fail(fmt.Sprintf("invalid status %q: must be ACTIVE or INACTIVE", raw))
		}
		student.Status = status
	}

	if raw := strings.TrimSpace(values[ColCourseCode]); raw != "" {
		course, ok := v.courses.Lookup(raw)
		if !ok {
			return fail(fmt.Sprintf("unknown course code %q", raw))
		}
		student.CourseID = &course.ID
	}

	year := strings.TrimSpace(values[ColYearEnrolled])
	if !validation.IsValidYear(year) {
		return fail(fmt.Sprintf("yearEnrolled %q must be a 4-digit year", year))
	}
	student.YearEnrolled = year

	return &Candidate{Line: line, Student: student, Values: values}, nil
}

func isBlankRow(values map[string]string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
