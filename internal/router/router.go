package router

import (
	"github.com/blues/wcf/internal/config"
	"github.com/blues/wcf/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "crowdfunding-pledge-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 项目相关路由
		projectHandler := handler.NewProjectHandler(db)
		levelHandler := handler.NewLevelHandler(db)
		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/stats", projectHandler.GetProjectStats)
			projects.GET("/:id/contributions", projectHandler.GetProjectContributions)
			projects.GET("/:id/contributors", projectHandler.GetProjectContributors)
			projects.GET("/:id/refunds", projectHandler.GetProjectRefunds)
			projects.POST("/:id/expire", projectHandler.ExpireProject)
			projects.POST("/:id/levels", levelHandler.CreateLevel)
			projects.GET("/:id/levels", levelHandler.GetProjectLevels)
		}

		// 支持档位路由
		levels := v1.Group("/levels")
		{
			levels.PUT("/:id", levelHandler.UpdateLevel)
			levels.DELETE("/:id", levelHandler.DeleteLevel)
		}

		// 订单相关路由
		orderHandler := handler.NewOrderHandler(db)
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/complete", orderHandler.CompleteOrder)
		}

		// 购物车校验路由
		cartHandler := handler.NewCartHandler(db)
		v1.POST("/cart/validate", cartHandler.ValidateAddition)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
