package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/app/services"
	"github.com/yigit/rosterhub/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize caps uploaded roster files at 10 MB.
const maxImportSize = 10 << 20

// StudentController handles roster operations
type StudentController struct {
	studentService *services.StudentService
	importService  *services.ImportService
	exportService  *services.ExportService
}

// NewStudentController creates a new StudentController
func NewStudentController(
	studentService *services.StudentService,
	importService *services.ImportService,
	exportService *services.ExportService,
) *StudentController {
	return &StudentController{
		studentService: studentService,
		importService:  importService,
		exportService:  exportService,
	}
}

// CreateStudent handles direct single-record creation
// @Summary Create a student
// @Description Creates a single roster entry directly, applying the same normalization as batch import
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	student, err := c.studentService.CreateStudent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// GetStudent retrieves a roster entry by ID
// @Summary Get student by ID
// @Description Retrieves a single roster entry, including its course and linked parent
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// ListStudents lists roster entries with optional filters
// @Summary List students
// @Description Lists roster entries ordered by enrollment year then last name
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param yearEnrolled query string false "Filter by 4-digit enrollment year"
// @Param status query string false "Filter by status (ACTIVE or INACTIVE)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter value"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	filter, ok := parseStudentFilter(ctx)
	if !ok {
		return
	}

	students, err := c.studentService.ListStudents(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      students,
		Timestamp: time.Now(),
	})
}

// UpdateStudent applies a partial update to a roster entry
// @Summary Update a student
// @Description Applies a partial update; omitted fields are untouched, null fields are cleared
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [patch]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// ImportRoster ingests an uploaded spreadsheet as a batch
// @Summary Import roster from spreadsheet
// @Description Reconciles an uploaded .xlsx file against the roster. Row-level problems never abort the batch; the report lists them per row.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Roster spreadsheet (.xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportReport} "Import report"
// @Failure 400 {object} dto.ErrorResponse "Missing or oversized file"
// @Failure 422 {object} dto.ErrorResponse "File is not a usable roster spreadsheet"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/import [post]
func (c *StudentController) ImportRoster(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Roster file is required")
		errorDetail = errorDetail.WithDetails("Attach the spreadsheet as the 'file' form field")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if fileHeader.Size > maxImportSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Roster file too large")
		errorDetail = errorDetail.WithDetails(fmt.Sprintf("File size must not exceed %d bytes", maxImportSize))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	report, err := c.importService.ImportRoster(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// ExportRoster downloads the roster as a spreadsheet
// @Summary Export roster to spreadsheet
// @Description Builds an .xlsx snapshot of the roster, optionally filtered, sorted by enrollment year then last name
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param yearEnrolled query string false "Filter by 4-digit enrollment year"
// @Param status query string false "Filter by status (ACTIVE or INACTIVE)"
// @Success 200 {file} file "Roster workbook"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter value"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/export [get]
func (c *StudentController) ExportRoster(ctx *gin.Context) {
	filter, ok := parseStudentFilter(ctx)
	if !ok {
		return
	}

	workbook, err := c.exportService.ExportWorkbook(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveWorkbook(ctx, "students.xlsx", workbook)
}

// DownloadTemplate downloads an empty import template
// @Summary Download import template
// @Description Returns a workbook with the expected header row and one sample row
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Template workbook"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/import/template [get]
func (c *StudentController) DownloadTemplate(ctx *gin.Context) {
	workbook, err := c.exportService.TemplateWorkbook()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveWorkbook(ctx, "roster-template.xlsx", workbook)
}

func serveWorkbook(ctx *gin.Context, filename string, workbook []byte) {
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.DataFromReader(http.StatusOK, int64(len(workbook)), xlsxContentType, bytes.NewReader(workbook), nil)
}

// pathID parses the numeric :id path parameter, writing the error response
// itself on failure.
func pathID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		errorDetail = errorDetail.WithDetails("Student ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, err
	}
	return id, nil
}

func parseStudentFilter(ctx *gin.Context) (models.StudentFilter, bool) {
	var filter models.StudentFilter

	filter.YearEnrolled = ctx.Query("yearEnrolled")

	if raw := ctx.Query("status"); raw != "" {
		status, ok := models.ParseStudentStatus(raw)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status filter")
			errorDetail = errorDetail.WithDetails("Status must be ACTIVE or INACTIVE")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return filter, false
		}
		filter.Status = status
	}

	return filter, true
}
