package router

import (
	"log"

	"github.com/VncsRaniery/habitask-sub001/internal/config"
	"github.com/VncsRaniery/habitask-sub001/internal/handler"
	"github.com/VncsRaniery/habitask-sub001/internal/identity"
	"github.com/VncsRaniery/habitask-sub001/internal/middleware"
	"github.com/VncsRaniery/habitask-sub001/internal/pomodoro"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, page shells and API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// every request gets its principal resolved; handlers decide whether
	// one is required
	r.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, db),
		middleware.RouteGate(cfg.Gate),
	)

	// page shells
	r.SetHTMLTemplate(handler.PageTemplates)
	r.GET("/", handler.Page("home", "HabiTask"))
	r.GET("/signin", handler.Page("signin", "HabiTask - Entrar"))
	r.GET("/signup", handler.Page("signup", "HabiTask - Criar conta"))
	r.GET("/dashboard", handler.Page("dashboard", "HabiTask - Painel"))
	r.GET("/dashboard/*page", handler.Page("dashboard", "HabiTask - Painel"))

	// ====== API ======
	api := r.Group("/api")
	api.Use(middleware.AuditMiddleware(db, cfg.Security.EncryptionKey))

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	authHandler.HomePath = cfg.Gate.HomePath
	if cfg.OAuth.GoogleEnabled() {
		authHandler.Google = identity.NewGoogle(cfg.OAuth)
	} else {
		log.Println("google sign-in disabled: oauth client not configured")
	}
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/google/login", authHandler.GoogleLogin)
	api.GET("/auth/google/callback", authHandler.GoogleCallback)

	api.GET("/me", handler.GetMe)
	api.PATCH("/me", handler.UpdateMe(db))
	api.POST("/me/password", handler.ChangePassword(db, authHandler.BcryptCost))

	professorHandler := handler.NewProfessorHandler(db)
	api.GET("/professors", professorHandler.ListProfessors)
	api.POST("/professors", professorHandler.CreateProfessor)

	subjectHandler := handler.NewSubjectHandler(db)
	api.GET("/subjects", subjectHandler.ListSubjects)
	api.POST("/subjects", subjectHandler.CreateSubject)

	sessionHandler := handler.NewSessionHandler(pomodoro.NewManager(db, cfg.Sessions.StrictLifecycle))
	api.GET("/sessions", sessionHandler.ListSessions)
	api.POST("/sessions", sessionHandler.CreateSession)
	api.GET("/sessions/:id", sessionHandler.GetSession)
	api.PATCH("/sessions/:id", sessionHandler.UpdateSession)

	taskHandler := handler.NewTaskHandler(db)
	api.GET("/tasks", taskHandler.ListTasks)
	api.POST("/tasks", taskHandler.CreateTask)
	api.PUT("/tasks/:id", taskHandler.UpdateTask)
	api.DELETE("/tasks/:id", taskHandler.DeleteTask)

	analyticsHandler := handler.NewAnalyticsHandler(db)
	api.GET("/analytics/summary", analyticsHandler.Summary)

	exportHandler := handler.NewExportHandler(db)
	api.GET("/export/sessions.csv", exportHandler.ExportSessionsCSV)
	api.GET("/export/sessions.xlsx", exportHandler.ExportSessionsXLSX)
	api.GET("/export/tasks.xlsx", exportHandler.ExportTasksXLSX)

	logHandler := handler.NewLogHandler(db, cfg.Security.EncryptionKey)
	api.GET("/logs", logHandler.ListLogs)

	return r
}
