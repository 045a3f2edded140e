package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"viralforge_dev_v1_202608/internal/repository"
)

// UsageController AI 用量统计接口
type UsageController struct {
	LogRepo repository.AILogRepository
}

func NewUsageController(logRepo repository.AILogRepository) *UsageController {
	return &UsageController{LogRepo: logRepo}
}

// parseRange 解析 start/end 查询参数，默认最近30天
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "start 格式错误, 应为 YYYY-MM-DD"})
			return start, end, false
		}
		start = t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "end 格式错误, 应为 YYYY-MM-DD"})
			return start, end, false
		}
		// end 为闭区间日期，统计到当天结束
		end = t.AddDate(0, 0, 1)
	}
	return start, end, true
}

// GetUsage 用量汇总
// GET /api/usage
func (ctl *UsageController) GetUsage(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	stats, err := ctl.LogRepo.GetUsage(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "统计失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": stats})
}

// GetDailyUsage 按天聚合用量
// GET /api/usage/daily
func (ctl *UsageController) GetDailyUsage(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	rows, err := ctl.LogRepo.GetDailyUsage(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "统计失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": rows})
}
