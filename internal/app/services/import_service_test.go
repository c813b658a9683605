package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/spreadsheet"
)

var importHeader = []string{
	"studentId", "firstName", "middleName", "lastName", "sex",
	"birthDate", "yearEnrolled", "courseCode", "status",
}

func importRow(studentID, firstName, lastName string) []string {
	return []string{studentID, firstName, "", lastName, "MALE", "2002-06-08", "2024", "BSIT", "ACTIVE"}
}

func newImportFixture() (*ImportService, *memRosterStore) {
	students := newMemRosterStore()
	courses := newMemCourseStore(
		&models.Course{ID: 1, Code: "BSIT", Name: "BS Information Technology"},
		&models.Course{ID: 2, Code: "BSCS", Name: "BS Computer Science"},
	)
	return NewImportService(students, courses), students
}

func TestReconcileCreatesValidRows(t *testing.T) {
	svc, students := newImportFixture()

	report, err := svc.Reconcile(context.Background(), importHeader, [][]string{
		importRow("2024-00001", "Juan", "Dela Cruz"),
		importRow("2024-00002", "Maria", "Reyes"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.BatchID)

	created := students.byStudentID("2024-00001")
	require.NotNil(t, created)
	assert.Equal(t, "Juan", created.FirstName)
	require.NotNil(t, created.CourseID)
	assert.Equal(t, int64(1), *created.CourseID)
}

func TestReconcileDuplicateInFile(t *testing.T) {
	svc, _ := newImportFixture()

	dup := importRow("2024-00001", "Juana", "Dela Cruz")
	dup[4] = "female"

	report, err := svc.Reconcile(context.Background(), importHeader, [][]string{
		importRow("2024-00001", "Juan", "Dela Cruz"),
		dup,
	})
	require.NoError(t, err)

	// First occurrence wins; the later row becomes a row error, not a skip.
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Equal(t, "Duplicate studentId in file: 2024-00001", report.Errors[0].Error)

	// The duplicate row reports the cells as the file had them, including
	// the optional columns and the un-normalized enum casing, so an
	// operator can export, fix and re-import without losing data.
	require.Len(t, report.InvalidRows, 1)
	assert.Equal(t, "BSIT", report.InvalidRows[0].Values[ColCourseCode])
	assert.Equal(t, "2002-06-08", report.InvalidRows[0].Values[ColBirthDate])
	assert.Equal(t, "female", report.InvalidRows[0].Values[ColSex])
}

func TestReconcileIdempotentReImport(t *testing.T) {
	svc, _ := newImportFixture()
	rows := [][]string{
		importRow("2024-00001", "Juan", "Dela Cruz"),
		importRow("2024-00002", "Maria", "Reyes"),
	}

	first, err := svc.Reconcile(context.Background(), importHeader, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := svc.Reconcile(context.Background(), importHeader, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
	assert.Empty(t, second.Errors)
}

// staleSnapshotStore simulates a concurrent importer winning the race: rows
// exist in the store but the existence snapshot never reported them.
type staleSnapshotStore struct {
	*memRosterStore
}

func (s *staleSnapshotStore) ExistingStudentIDs(ctx context.Context, studentIDs []string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func TestReconcileConcurrentInsertCountsAsSkipped(t *testing.T) {
	students := newMemRosterStore()
	students.add(models.Student{
		StudentID: "2024-00001", FirstName: "Juan", LastName: "Dela Cruz",
		Sex: models.SexMale, YearEnrolled: "2024", Status: models.StudentActive,
	})
	courses := newMemCourseStore(&models.Course{ID: 1, Code: "BSIT", Name: "BS Information Technology"})
	svc := NewImportService(&staleSnapshotStore{students}, courses)

	report, err := svc.Reconcile(context.Background(), importHeader, [][]string{
		importRow("2024-00001", "Juan", "Dela Cruz"),
		importRow("2024-00002", "Maria", "Reyes"),
	})
	require.NoError(t, err)

	// The unique-constraint collision on the row inserted behind our back
	// counts as skipped, never as a data-quality error.
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 2, report.Created+report.Skipped)
}

func TestReconcilePartialFailure(t *testing.T) {
	svc, _ := newImportFixture()

	badSex := importRow("2024-00003", "Pedro", "Santos")
	badSex[4] = "unknown"
	badYear := importRow("2024-00004", "Ana", "Lim")
	badYear[6] = "24"

	report, err := svc.Reconcile(context.Background(), importHeader, [][]string{
		importRow("2024-00001", "Juan", "Dela Cruz"),
		badSex,
		importRow("2024-00002", "Maria", "Reyes"),
		badYear,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, report.Errors, 2)

	// Row errors come back ordered by line.
	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Equal(t, 5, report.Errors[1].Row)

	// Invalid rows keep their raw values for operator export.
	require.Len(t, report.InvalidRows, 2)
	assert.Equal(t, "unknown", report.InvalidRows[0].Values[ColSex])
}

func TestReconcileBlankRowsSilentlySkipped(t *testing.T) {
	svc, _ := newImportFixture()

	report, err := svc.Reconcile(context.Background(), importHeader, [][]string{
		importRow("2024-00001", "Juan", "Dela Cruz"),
		{"", "", "", "", "", "", "", "", ""},
		{},
		importRow("2024-00002", "Maria", "Reyes"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Errors)
}

func TestReconcileStructuralFailures(t *testing.T) {
	svc, _ := newImportFixture()
	ctx := context.Background()

	t.Run("missing required header columns", func(t *testing.T) {
		_, err := svc.Reconcile(ctx, []string{"studentId", "firstName"}, [][]string{
			importRow("2024-00001", "Juan", "Dela Cruz"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidBatchInput)
	})

	t.Run("no data rows", func(t *testing.T) {
		_, err := svc.Reconcile(ctx, importHeader, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidBatchInput)
	})

	t.Run("only blank rows", func(t *testing.T) {
		_, err := svc.Reconcile(ctx, importHeader, [][]string{{"", ""}, {}})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidBatchInput)
	})
}

func TestReconcileSkipsAlreadyPersisted(t *testing.T) {
	svc, students := newImportFixture()
	students.add(models.Student{
		StudentID: "2024-00001", FirstName: "Juan", LastName: "Dela Cruz",
		Sex: models.SexMale, YearEnrolled: "2024", Status: models.StudentActive,
	})

	report, err := svc.Reconcile(context.Background(), importHeader, [][]string{
		importRow("2024-00001", "Juan", "Dela Cruz"),
		importRow("2024-00002", "Maria", "Reyes"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)
}

func TestImportRosterRoundTrip(t *testing.T) {
	svc, _ := newImportFixture()

	w, err := spreadsheet.NewWriter(spreadsheet.DefaultSheet)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(importHeader))
	require.NoError(t, w.WriteRow([]interface{}{
		"2024-00001", "Juan", "Santos", "Dela Cruz", "MALE", "2002-06-08", "2024", "BSIT", "ACTIVE",
	}))
	workbook, err := w.Bytes()
	require.NoError(t, err)

	report, err := svc.ImportRoster(context.Background(), bytes.NewReader(workbook))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Empty(t, report.Errors)
}

func TestImportRosterRejectsGarbage(t *testing.T) {
	svc, _ := newImportFixture()

	_, err := svc.ImportRoster(context.Background(), bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidBatchInput)
}
