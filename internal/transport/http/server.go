package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "resumescout/internal/app"
	"resumescout/internal/bootstrap"
	"resumescout/internal/repository"
	"resumescout/internal/transport/http/handler"
	"resumescout/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	recruiterRepo := repository.NewRecruiterRepository(app.MySQL)
	searchLogRepo := repository.NewSearchLogRepository(app.MySQL)
	authService := appsvc.NewAuthService(
		recruiterRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	searchService := appsvc.NewSearchService(app.Engine, app.LogPublisher, app.Config.Search.Mode)

	authHandler := handler.NewAuthHandler(authService)
	searchHandler := handler.NewSearchHandler(searchService, searchLogRepo)
	resumeHandler := handler.NewResumeHandler(app.Corpus)

	router.GET("/view/:filename", resumeHandler.View)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	searchGroup := v1.Group("/search")
	searchGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	searchGroup.POST("", searchHandler.Search)
	searchGroup.GET("/history", searchHandler.History)

	return router
}
