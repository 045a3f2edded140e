package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"viralforge_dev_v1_202608/internal/middleware"
	"viralforge_dev_v1_202608/internal/service"
)

// TrendingController 热点话题接口
type TrendingController struct {
	Trend   *service.TrendService
	Limiter *middleware.SyncRateLimiter
}

func NewTrendingController(trend *service.TrendService, limiter *middleware.SyncRateLimiter) *TrendingController {
	return &TrendingController{Trend: trend, Limiter: limiter}
}

// List 查询当前有效热点话题
// GET /api/trending
func (ctl *TrendingController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	topics, err := ctl.Trend.ListActive(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": topics})
}

// Refresh 手动刷新热点话题（带限频）
// POST /api/trending/refresh
func (ctl *TrendingController) Refresh(c *gin.Context) {
	ok, wait := ctl.Limiter.Check(middleware.TriggerTrendingRefresh, middleware.GlobalTriggerKey)
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"code": 429, "message": "刷新过于频繁", "retry_after_seconds": int(wait.Seconds())})
		return
	}
	defer ctl.Limiter.MarkExecuted(middleware.TriggerTrendingRefresh, middleware.GlobalTriggerKey)

	saved, err := ctl.Trend.RefreshTrendingTopics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "刷新失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "刷新完成", "data": gin.H{"saved": saved}})
}
