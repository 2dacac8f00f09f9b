package app

import (
	"skillswap/docs"
	"skillswap/internal/middleware"
	"skillswap/internal/workflow"
	"skillswap/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/", c.health.Root)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		a.registerAccountRoutes(authGroup, c)
		a.registerCatalogRoutes(authGroup, c)
		a.registerSessionRoutes(authGroup, c)
		a.registerReviewRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/refresh", c.auth.Refresh)
		}
	}
}

func (a *App) registerAccountRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.GET("/users/:id", c.user.GetUser)
}

func (a *App) registerCatalogRoutes(rg *gin.RouterGroup, c *controllers) {
	// 分类
	rg.GET("/categories", c.category.List)
	rg.POST("/categories", c.category.Create)
	rg.PUT("/categories/:id", c.category.Update)
	rg.DELETE("/categories/:id", c.category.Delete)

	// 技能
	rg.GET("/skills", c.skill.List)
	rg.GET("/skills/my_skills", c.skill.MySkills)
	rg.GET("/skills/:id", c.skill.Get)
	rg.POST("/skills", c.skill.Create)
	rg.PUT("/skills/:id", c.skill.Update)
	rg.DELETE("/skills/:id", c.skill.Delete)
}

func (a *App) registerSessionRoutes(rg *gin.RouterGroup, c *controllers) {
	sessions := rg.Group("/sessions")
	{
		sessions.GET("", c.session.List)
		sessions.POST("", c.session.Book)
		sessions.GET("/as_learner", c.session.AsLearner)
		sessions.GET("/as_mentor", c.session.AsMentor)
		sessions.GET("/:id", c.session.Get)

		// 状态流转
		for _, action := range []workflow.Action{workflow.Approve, workflow.Reject, workflow.EditTime, workflow.Complete, workflow.Cancel} {
			sessions.POST("/:id/"+string(action), c.session.Action(action))
		}

		// 会话聊天
		sessions.GET("/:id/messages", c.session.Messages)
		sessions.POST("/:id/messages", c.session.SendMessage)
		sessions.GET("/:id/ws", c.session.HandleWS)
	}
}

func (a *App) registerReviewRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/reviews", c.review.List)
	rg.GET("/reviews/for_user", c.review.ForUser)
	rg.POST("/reviews", c.review.Create)
	rg.PUT("/reviews/:id", c.review.Update)
	rg.DELETE("/reviews/:id", c.review.Delete)
}
