package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/spreadsheet"
)

// ExportHeader is the fixed column order of exported workbooks and templates
var ExportHeader = []string{
	ColStudentID, ColFirstName, ColMiddleName, ColLastName, ColSex,
	ColBirthDate, ColYearEnrolled, ColCourseCode, ColStatus,
}

// ExportRow is one roster entry flattened for the spreadsheet codec.
// BirthDate stays a real date so the codec can emit a typed date cell.
type ExportRow struct {
	StudentID    string
	FirstName    string
	MiddleName   string
	LastName     string
	Sex          string
	BirthDate    *time.Time
	YearEnrolled string
	CourseCode   string
	Status       string
}

// ExportService serializes filtered roster views for the spreadsheet codec.
// Pure read/transform, never mutates persistence.
type ExportService struct {
	students RosterStore
	courses  CourseStore
}

// NewExportService creates a new export service instance
func NewExportService(students RosterStore, courses CourseStore) *ExportService {
	return &ExportService{
		students: students,
		courses:  courses,
	}
}

// BuildExport reads matching entries, deduplicates defensively by external
// identifier (first occurrence wins, guarding against upstream anomalies),
// and sorts by enrollment year then last name.
func (s *ExportService) BuildExport(ctx context.Context, filter models.StudentFilter) ([]ExportRow, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error reading roster for export: %w", err)
	}

	courseCodes, err := s.courseCodesByID(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(students))
	rows := make([]ExportRow, 0, len(students))
	for _, student := range students {
		if _, dup := seen[student.StudentID]; dup {
			continue
		}
		seen[student.StudentID] = struct{}{}

		row := ExportRow{
			StudentID:    student.StudentID,
			FirstName:    student.FirstName,
			LastName:     student.LastName,
			Sex:          string(student.Sex),
			BirthDate:    student.BirthDate,
			YearEnrolled: student.YearEnrolled,
			Status:       string(student.Status),
		}
		if student.MiddleName != nil {
			row.MiddleName = *student.MiddleName
		}
		if student.CourseID != nil {
			row.CourseCode = courseCodes[*student.CourseID]
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].YearEnrolled != rows[j].YearEnrolled {
			return rows[i].YearEnrolled < rows[j].YearEnrolled
		}
		return rows[i].LastName < rows[j].LastName
	})

	return rows, nil
}

// ExportWorkbook builds the full xlsx binary for a filtered roster view
func (s *ExportService) ExportWorkbook(ctx context.Context, filter models.StudentFilter) ([]byte, error) {
	rows, err := s.BuildExport(ctx, filter)
	if err != nil {
		return nil, err
	}

	w, err := spreadsheet.NewWriter(spreadsheet.DefaultSheet)
	if err != nil {
		return nil, err
	}
	if err := w.WriteHeader(ExportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.WriteRow(exportCells(row)); err != nil {
			return nil, err
		}
	}
	return w.Bytes()
}

// TemplateWorkbook builds the import template: the fixed header plus one
// illustrative sample row with a date-typed birth date cell.
func (s *ExportService) TemplateWorkbook() ([]byte, error) {
	w, err := spreadsheet.NewWriter(spreadsheet.DefaultSheet)
	if err != nil {
		return nil, err
	}
	if err := w.WriteHeader(ExportHeader); err != nil {
		return nil, err
	}

	sampleBirth := time.Date(2002, time.June, 8, 0, 0, 0, 0, time.UTC)
	sample := ExportRow{
		StudentID:    "2024-12345",
		FirstName:    "Juan",
		MiddleName:   "Santos",
		LastName:     "Dela Cruz",
		Sex:          string(models.SexMale),
		BirthDate:    &sampleBirth,
		YearEnrolled: "2024",
		CourseCode:   "BSIT",
		Status:       string(models.StudentActive),
	}
	if err := w.WriteRow(exportCells(sample)); err != nil {
		return nil, err
	}
	return w.Bytes()
}

func exportCells(row ExportRow) []interface{} {
	cells := []interface{}{
		row.StudentID, row.FirstName, row.MiddleName, row.LastName, row.Sex,
		nil, row.YearEnrolled, row.CourseCode, row.Status,
	}
	if row.BirthDate != nil {
		cells[5] = *row.BirthDate
	}
	return cells
}

func (s *ExportService) courseCodesByID(ctx context.Context) (map[int64]string, error) {
	courses, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading course catalog for export: %w", err)
	}

	byID := make(map[int64]string, len(courses))
	for _, course := range courses {
		byID[course.ID] = course.Code
	}
	return byID, nil
}
