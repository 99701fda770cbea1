package api

import (
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/mediafetch/api/handlers"
	"github.com/yourusername/mediafetch/api/middleware"
	"github.com/yourusername/mediafetch/internal/app"
	"github.com/yourusername/mediafetch/internal/domain"
	"github.com/yourusername/mediafetch/web"
)

// SetupRouter sets up the HTTP router
func SetupRouter(
	pipeline *app.Pipeline,
	repo domain.AcquisitionRepository,
	sessionCfg *domain.SessionConfig,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	// Flash notifications live in a signed cookie session
	store := cookie.NewStore([]byte(sessionCfg.SecretKey))
	router.Use(sessions.Sessions(sessionCfg.CookieName, store))

	// Server-rendered submission page from the embedded templates
	tmpl := template.Must(template.New("").ParseFS(web.GetTemplatesFS(), "*.html"))
	router.SetHTMLTemplate(tmpl)

	pageHandler := handlers.NewPageHandler()
	router.GET("/", pageHandler.Index)

	downloadHandler := handlers.NewDownloadHandler(pipeline, logger)
	router.POST("/download", downloadHandler.Download)

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(repo)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		historyHandler := handlers.NewHistoryHandler(repo, logger)
		history := v1.Group("/history")
		{
			history.GET("", historyHandler.List)
			history.GET("/stats", historyHandler.Stats)
		}
	}

	return router
}
