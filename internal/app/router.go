package app

import (
	"quizgen_backend/docs"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/middleware"

	"quizgen_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)

	// 文档
	rg.POST("/documents/upload", c.document.Upload)
	rg.GET("/documents", c.document.List)
	rg.GET("/documents/:id", c.document.Get)
	rg.DELETE("/documents/:id", c.document.Delete)

	// 笔记
	rg.POST("/notes", c.note.Create)
	rg.GET("/notes", c.note.List)
	rg.GET("/notes/:id", c.note.Get)
	rg.PUT("/notes/:id", c.note.Update)
	rg.DELETE("/notes/:id", c.note.Delete)

	// 测验
	rg.POST("/quizzes/generate", c.quiz.Generate)
	rg.GET("/quizzes", c.quiz.List)
	rg.GET("/quizzes/:id", c.quiz.Get)
	rg.DELETE("/quizzes/:id", c.quiz.Delete)

	// 作答生命周期
	rg.POST("/quiz-attempts/start/:quizId", c.attempt.Start)
	rg.POST("/quiz-attempts/submit/:attemptId", c.attempt.Submit)
	rg.GET("/quiz-attempts", c.attempt.List)
	rg.GET("/quiz-attempts/stats/user", c.attempt.GetUserStats)
	rg.GET("/quiz-attempts/stats/quiz/:quizId", c.attempt.GetQuizStats)
	rg.GET("/quiz-attempts/:attemptId", c.attempt.Get)
	rg.DELETE("/quiz-attempts/:attemptId", c.attempt.Delete)

	// 作答遥测
	rg.GET("/quiz-attempts/:attemptId/sessions", c.attempt.GetSessions)
	rg.GET("/quiz-attempts/:attemptId/events", c.attempt.GetEvents)
	rg.POST("/quiz-attempts/:attemptId/events", c.attempt.LogEvent)

	// AI 分析
	rg.GET("/quiz-attempts/:attemptId/analysis", c.analysis.Analyze)
}
