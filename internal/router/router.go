package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/progresspoint/internal/config"
	"github.com/stemsi/progresspoint/internal/handler"
	"github.com/stemsi/progresspoint/internal/middleware"
	"github.com/stemsi/progresspoint/internal/response"
)

// ExportPath is served without Brotli; .xlsx is already a zip archive.
const ExportPath = "/api/v1/export/roster.xlsx"

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Roster     *handler.RosterHandler
	Attendance *handler.AttendanceHandler
	Export     *handler.ExportHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work such as rate limiter cleanup.
func SetupRouter(
	ctx context.Context,
	sessions middleware.SessionSource,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to AllowedOrigins when set; otherwise allow all so dev
	// works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		SkipPaths: []string{ExportPath},
	}))

	router.GET("/health", handlers.System.Health)

	// ─── 1. Auth Group (Public, Rate Limited login) ────────────────────
	login := []gin.HandlerFunc{handlers.Auth.Login}
	if cfg.LoginRatePerMinute > 0 {
		limiter := middleware.NewRateLimiter(ctx, cfg.LoginRatePerMinute, time.Minute)
		login = append([]gin.HandlerFunc{limiter.Middleware()}, login...)
	}

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", login...)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/me", handlers.Auth.Me)
	}

	// ─── 2. Dashboard Group (Session required) ─────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireSession(sessions), middleware.NoStore())
	{
		api.GET("/students", handlers.Roster.ListStudents)
		api.PATCH("/students/:id/marks", handlers.Roster.UpdateMarks)
		api.GET("/leaderboard", handlers.Roster.Leaderboard)

		api.POST("/attendance", handlers.Attendance.UpdateAttendance)
		api.GET("/attendance", handlers.Attendance.History)
		api.GET("/attendance/:date/sheet", handlers.Attendance.Sheet)

		api.GET("/export/roster.xlsx", handlers.Export.RosterWorkbook)

		api.GET("/system/metrics", handlers.System.MetricsSSE)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/roster", handlers.WS.RosterStream)
	}

	return router
}
