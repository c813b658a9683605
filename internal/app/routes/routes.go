package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/rosterhub/internal/app/controllers"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	linkController *controllers.LinkController,
	courseController *controllers.CourseController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	staffOnly := authMiddleware.RequireRole(models.RoleStaff)

	// Course catalog. Reads are open to any authenticated account; the
	// catalog itself is staff-managed.
	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.POST("", staffOnly, courseController.CreateCourse)
	}

	// Roster routes
	students := authenticated.Group("/students")
	{
		students.GET("/:id", studentController.GetStudent)

		// Staff-only roster management
		studentsStaff := students.Group("")
		studentsStaff.Use(staffOnly)
		{
			studentsStaff.GET("", studentController.ListStudents)
			studentsStaff.POST("", studentController.CreateStudent)
			studentsStaff.PATCH("/:id", studentController.UpdateStudent)

			studentsStaff.POST("/import", studentController.ImportRoster)
			studentsStaff.GET("/import/template", studentController.DownloadTemplate)
			studentsStaff.GET("/export", studentController.ExportRoster)
		}

		// Link workflow. Requests come from parents or staff; review
		// actions are staff-only. Unlink is open to both roles since a
		// parent may withdraw an approved association.
		students.POST("/:id/link", linkController.RequestLink)
		students.POST("/:id/link/approve", staffOnly, linkController.ApproveLink)
		students.POST("/:id/link/reject", staffOnly, linkController.RejectLink)
		students.DELETE("/:id/link", linkController.Unlink)
	}

	// Maintenance
	links := authenticated.Group("/links")
	{
		links.POST("/sweep", staffOnly, linkController.SweepRejections)
	}
}
