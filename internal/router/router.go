package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepyds/ydsprep-backend/internal/config"
	"github.com/prepyds/ydsprep-backend/internal/handler"
	"github.com/prepyds/ydsprep-backend/internal/middleware"
	"github.com/prepyds/ydsprep-backend/internal/response"
	"github.com/prepyds/ydsprep-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Exam     *handler.ExamHandler
	Session  *handler.SessionHandler
	Progress *handler.ProgressHandler
	Goal     *handler.GoalHandler
	Tutor    *handler.TutorHandler
	WS       *handler.WSHandler
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
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/register", handlers.Auth.StudentRegister)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/tutor/login", handlers.Auth.TutorLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Exam catalog and study material
		studentAPI.GET("/exams", handlers.Exam.ListExams)
		studentAPI.GET("/exams/:examId", handlers.Exam.GetExam)
		studentAPI.GET("/topics", handlers.Exam.ListTopics)
		studentAPI.GET("/topics/:topicId", handlers.Exam.GetLesson)

		// Exam session lifecycle
		studentAPI.POST("/exams/:examId/session", handlers.Session.Start)
		studentAPI.GET("/exams/:examId/session", handlers.Session.State)
		studentAPI.DELETE("/exams/:examId/session", handlers.Session.CloseSession)
		studentAPI.GET("/exams/:examId/session/paper", handlers.Session.Paper)
		studentAPI.POST("/exams/:examId/session/answer", handlers.Session.Answer)
		studentAPI.POST("/exams/:examId/session/flag", handlers.Session.Flag)
		studentAPI.POST("/exams/:examId/session/navigate", handlers.Session.Navigate)
		studentAPI.POST("/exams/:examId/session/review", handlers.Session.EnterReview)
		studentAPI.DELETE("/exams/:examId/session/review", handlers.Session.ExitReview)
		studentAPI.POST("/exams/:examId/session/submit", handlers.Session.Submit)

		// Results
		studentAPI.GET("/results", handlers.Session.History)
		studentAPI.GET("/exams/:examId/results/sheet", handlers.Session.AnswerSheet)

		// Dashboard
		studentAPI.GET("/progress", handlers.Progress.Overview)
		studentAPI.GET("/progress/exams/:examId", handlers.Progress.ExamHistory)

		// Study goals
		studentAPI.POST("/goals", handlers.Goal.Create)
		studentAPI.GET("/goals", handlers.Goal.List)
		studentAPI.PATCH("/goals/:goalId", handlers.Goal.Update)
		studentAPI.DELETE("/goals/:goalId", handlers.Goal.Delete)

		// Ask the tutor
		studentAPI.POST("/tutor-questions", handlers.Tutor.Ask)
		studentAPI.GET("/tutor-questions", handlers.Tutor.MyQuestions)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/exams/:examId/stream", handlers.WS.SessionStream)
	}

	// ─── 4. Tutor Group (Tutor JWT) ────────────────────────────────────
	tutorAPI := router.Group("/api/v1/tutor")
	tutorAPI.Use(middleware.RequireTutorJWT(authService))
	{
		tutorAPI.GET("/inbox", handlers.Tutor.Inbox)
		tutorAPI.POST("/inbox/:questionId/answer", handlers.Tutor.Answer)
	}

	return router
}
