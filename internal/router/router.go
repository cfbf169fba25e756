package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/handler"
	"github.com/markbook/markbook-backend/internal/middleware"
	"github.com/markbook/markbook-backend/internal/response"
	"github.com/markbook/markbook-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth           *handler.AuthHandler
	Course         *handler.CourseHandler
	Section        *handler.SectionHandler
	Student        *handler.StudentHandler
	AssessmentType *handler.AssessmentTypeHandler
	Weight         *handler.WeightHandler
	Column         *handler.ColumnHandler
	Mark           *handler.MarkHandler
	WS             *handler.WSHandler
	System         *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", handlers.System.Health)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/staff/login", handlers.Auth.StaffLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.GET("/staff/me", middleware.RequireStaffJWT(authService), handlers.Auth.GetStaffProfile)
	}

	// ─── 2. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudentJWT(authService))
	{
		studentAPI.GET("/sections/:id/marks", handlers.Mark.GetOwnDetail)
	}

	// ─── 3. WebSocket Group (Staff WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStaffWSAuth(authService))
	{
		ws.GET("/staff/sections/:id/gradebook", handlers.WS.GradebookStream)
	}

	// ─── 4. Staff Group (JWT) ──────────────────────────────────────────
	staffAPI := router.Group("/api/v1/staff")
	staffAPI.Use(middleware.RequireStaffJWT(authService))
	{
		// Course management
		staffAPI.GET("/courses", handlers.Course.ListCourses)
		staffAPI.POST("/courses", handlers.Course.CreateCourse)
		staffAPI.GET("/courses/:id", handlers.Course.GetCourse)
		staffAPI.PUT("/courses/:id", handlers.Course.UpdateCourse)
		staffAPI.DELETE("/courses/:id", handlers.Course.DeleteCourse)

		// Weight configuration
		staffAPI.GET("/courses/:id/weights", handlers.Weight.ListWeights)
		staffAPI.PUT("/courses/:id/weights", handlers.Weight.ReplaceWeights)
		staffAPI.GET("/courses/:id/weights/audit", handlers.Weight.AuditWeights)

		// Section and enrollment management
		staffAPI.GET("/sections", handlers.Section.ListSections)
		staffAPI.POST("/sections", handlers.Section.CreateSection)
		staffAPI.GET("/sections/:id", handlers.Section.GetSection)
		staffAPI.PUT("/sections/:id", handlers.Section.UpdateSection)
		staffAPI.GET("/sections/:id/students", handlers.Section.ListRoster)
		staffAPI.POST("/sections/:id/students", handlers.Section.EnrollStudent)
		staffAPI.DELETE("/sections/:id/students/:student_id", handlers.Section.WithdrawStudent)

		// Gradebook columns
		staffAPI.GET("/sections/:id/columns", handlers.Column.ListColumns)
		staffAPI.POST("/sections/:id/columns", handlers.Column.CreateColumn)
		staffAPI.PUT("/columns/:column_id", handlers.Column.RenameColumn)
		staffAPI.DELETE("/columns/:column_id", handlers.Column.DeleteColumn)

		// Marks and grading views
		staffAPI.GET("/sections/:id/gradebook", handlers.Mark.GetGradebook)
		staffAPI.GET("/sections/:id/students/:student_id/marks", handlers.Mark.GetStudentDetail)
		staffAPI.PUT("/sections/:id/students/:student_id/scores", handlers.Mark.UpdateScores)
		staffAPI.GET("/sections/:id/students/:student_id/history", handlers.Mark.GetHistory)

		// Student account management
		staffAPI.GET("/students", handlers.Student.ListStudents)
		staffAPI.POST("/students", handlers.Student.CreateStudent)
		staffAPI.GET("/students/:id", handlers.Student.GetStudent)
		staffAPI.PUT("/students/:id", handlers.Student.UpdateStudent)
		staffAPI.POST("/students/:id/reset-session", handlers.Student.ResetStudentSession)

		// Assessment type catalogue
		staffAPI.GET("/assessment-types", handlers.AssessmentType.ListTypes)
		staffAPI.POST("/assessment-types", handlers.AssessmentType.CreateType)
		staffAPI.PUT("/assessment-types/:id", handlers.AssessmentType.RenameType)
		staffAPI.DELETE("/assessment-types/:id", handlers.AssessmentType.DeleteType)

		// System monitoring
		staffAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	return router
}
