package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/logger"
	"github.com/yigit/rosterhub/internal/pkg/spreadsheet"
)

// ImportService reconciles externally supplied roster batches into the
// persisted roster. Row-level problems never abort the batch; they are
// collected into the report. Only structural problems (unreadable file,
// missing header columns, zero usable rows) or store failures return an
// error instead of a report.
type ImportService struct {
	students RosterStore
	courses  CourseStore
}

// NewImportService creates a new import service instance
func NewImportService(students RosterStore, courses CourseStore) *ImportService {
	return &ImportService{
		students: students,
		courses:  courses,
	}
}

// ImportRoster decodes an xlsx stream and reconciles its rows into the roster
func (s *ImportService) ImportRoster(ctx context.Context, r io.Reader) (*dto.ImportReport, error) {
	header, rows, err := spreadsheet.Read(r)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidBatchInput,
			fmt.Sprintf("unreadable import file: %v", err))
	}
	return s.Reconcile(ctx, header, rows)
}

// Reconcile runs the full reconciliation over decoded rows: validate every
// row, deduplicate within the batch in encounter order, drop identifiers the
// roster already has, then bulk-create the rest skipping any residual
// unique-constraint collisions.
func (s *ImportService) Reconcile(ctx context.Context, header []string, rows [][]string) (*dto.ImportReport, error) {
	index, err := NewHeaderIndex(header)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidBatchInput, "import file has no data rows")
	}

	lookup, err := s.batchCourseLookup(ctx, index, rows)
	if err != nil {
		return nil, err
	}

	validator := NewRowValidator(lookup)

	var candidates []*Candidate
	var rowErrors []*RowError
	usable := 0
	for i, cells := range rows {
		line := i + 2 // 1-based, header is line 1
		values := index.Values(cells)

		candidate, rowErr := validator.Validate(line, values)
		switch {
		case candidate != nil:
			usable++
			candidates = append(candidates, candidate)
		case rowErr != nil:
			usable++
			rowErrors = append(rowErrors, rowErr)
		}
	}

	if usable == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidBatchInput, "import file has no data rows")
	}

	// First occurrence of an external identifier wins; later occurrences
	// become row errors so the outcome is deterministic for any row order.
	seen := make(map[string]struct{}, len(candidates))
	deduped := candidates[:0]
	for _, c := range candidates {
		if _, dup := seen[c.Student.StudentID]; dup {
			rowErrors = append(rowErrors, &RowError{
				Line:   c.Line,
				Reason: fmt.Sprintf("Duplicate studentId in file: %s", c.Student.StudentID),
				Values: c.Values,
			})
			continue
		}
		seen[c.Student.StudentID] = struct{}{}
		deduped = append(deduped, c)
	}

	sort.Slice(rowErrors, func(i, j int) bool { return rowErrors[i].Line < rowErrors[j].Line })

	ids := make([]string, 0, len(deduped))
	for _, c := range deduped {
		ids = append(ids, c.Student.StudentID)
	}
	existing, err := s.students.ExistingStudentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	skipped := 0
	toCreate := make([]*models.Student, 0, len(deduped))
	for _, c := range deduped {
		if _, done := existing[c.Student.StudentID]; done {
			skipped++
			continue
		}
		student := c.Student
		toCreate = append(toCreate, &student)
	}

	created, err := s.students.BulkCreateSkipConflicts(ctx, toCreate)
	if err != nil {
		return nil, err
	}
	// A concurrent importer may still have won the race on some rows; those
	// collisions are counted as skipped, not as data-quality errors.
	skipped += len(toCreate) - int(created)

	report := &dto.ImportReport{
		BatchID:     uuid.New().String(),
		Created:     int(created),
		Skipped:     skipped,
		Errors:      make([]dto.ImportRowError, 0, len(rowErrors)),
		InvalidRows: make([]dto.ImportRowDetail, 0, len(rowErrors)),
	}
	for _, re := range rowErrors {
		report.Errors = append(report.Errors, dto.ImportRowError{Row: re.Line, Error: re.Reason})
		report.InvalidRows = append(report.InvalidRows, dto.ImportRowDetail{
			Row:    re.Line,
			Values: re.Values,
			Error:  re.Reason,
		})
	}

	logger.Info().
		Str("batchId", report.BatchID).
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("rowErrors", len(report.Errors)).
		Msg("Roster import reconciled")

	return report, nil
}

// batchCourseLookup resolves every distinct course code in the batch with a
// single query, so large imports do not degrade linearly with row count.
func (s *ImportService) batchCourseLookup(ctx context.Context, index HeaderIndex, rows [][]string) (CourseCodeMap, error) {
	col, ok := index[ColCourseCode]
	if !ok {
		return CourseCodeMap{}, nil
	}

	distinct := make(map[string]struct{})
	for _, cells := range rows {
		if col >= len(cells) {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(cells[col]))
		if code != "" {
			distinct[code] = struct{}{}
		}
	}

	if len(distinct) == 0 {
		return CourseCodeMap{}, nil
	}

	codes := make([]string, 0, len(distinct))
	for code := range distinct {
		codes = append(codes, code)
	}

	resolved, err := s.courses.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("error resolving batch course codes: %w", err)
	}
	return CourseCodeMap(resolved), nil
}
