package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"viralforge_dev_v1_202608/internal/controller"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	Content  *controller.ContentController
	Usage    *controller.UsageController
	Trending *controller.TrendingController
}

// InitRoutes 注册全部路由
func InitRoutes(r *gin.Engine, ctls *Controllers) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// 内容生成与查询
		content := api.Group("/content")
		{
			content.POST("/generate", ctls.Content.Generate)
			content.POST("/generate/bulk", ctls.Content.BulkGenerate)
			content.POST("/generate/daily", ctls.Content.TriggerDaily)
			content.GET("", ctls.Content.List)
			content.GET("/stats", ctls.Content.Stats)
			content.POST("/:id/adapt", ctls.Content.Adapt)
		}

		// 用量统计
		usage := api.Group("/usage")
		{
			usage.GET("", ctls.Usage.GetUsage)
			usage.GET("/daily", ctls.Usage.GetDailyUsage)
		}

		// 热点话题
		trending := api.Group("/trending")
		{
			trending.GET("", ctls.Trending.List)
			trending.POST("/refresh", ctls.Trending.Refresh)
		}
	}
}
