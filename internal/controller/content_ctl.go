package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"viralforge_dev_v1_202608/internal/api/dto"
	"viralforge_dev_v1_202608/internal/middleware"
	"viralforge_dev_v1_202608/internal/model"
	"viralforge_dev_v1_202608/internal/repository"
	"viralforge_dev_v1_202608/internal/service"
	"viralforge_dev_v1_202608/internal/task"
)

// ContentController 内容生成与查询接口
type ContentController struct {
	Generator *service.GeneratorService
	Content   *service.ContentService
	DailyTask *task.ContentGenerationTask
	Limiter   *middleware.SyncRateLimiter
}

func NewContentController(generator *service.GeneratorService, content *service.ContentService, dailyTask *task.ContentGenerationTask, limiter *middleware.SyncRateLimiter) *ContentController {
	return &ContentController{
		Generator: generator,
		Content:   content,
		DailyTask: dailyTask,
		Limiter:   limiter,
	}
}

// Generate 生成单条内容并落库
// POST /api/content/generate
func (ctl *ContentController) Generate(c *gin.Context) {
	var req dto.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	contentType := model.ContentType(req.ContentType)
	if !contentType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "不支持的内容类型: " + req.ContentType})
		return
	}

	artifact, err := ctl.Generator.GenerateContentPiece(c.Request.Context(), contentType, req.Topic, req.Location, req.TargetAudience)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "生成失败: " + err.Error()})
		return
	}

	item, err := ctl.Content.SaveArtifact(artifact)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "保存失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "生成成功",
		"data": gin.H{
			"id":      item.ID,
			"content": artifact,
		},
	})
}

// BulkGenerate 批量生成内容
// POST /api/content/generate/bulk
func (ctl *ContentController) BulkGenerate(c *gin.Context) {
	var req dto.BulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if req.Count > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "单次批量上限为20条"})
		return
	}

	ok, wait := ctl.Limiter.Check(middleware.TriggerBulkGeneration, middleware.GlobalTriggerKey)
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"code": 429, "message": "操作过于频繁", "retry_after_seconds": int(wait.Seconds())})
		return
	}
	defer ctl.Limiter.MarkExecuted(middleware.TriggerBulkGeneration, middleware.GlobalTriggerKey)

	types := make([]model.ContentType, 0, len(req.ContentTypes))
	for _, t := range req.ContentTypes {
		ct := model.ContentType(t)
		if !ct.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "不支持的内容类型: " + t})
			return
		}
		types = append(types, ct)
	}

	result := ctl.Generator.GenerateMultipleContentPieces(c.Request.Context(), req.Count, types, req.Locations)

	ids := make([]int64, 0, len(result.Items))
	for _, artifact := range result.Items {
		item, err := ctl.Content.SaveArtifact(artifact)
		if err != nil {
			continue
		}
		ids = append(ids, item.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "批量生成完成",
		"data": gin.H{
			"requested": result.Requested,
			"generated": result.Generated,
			"saved_ids": ids,
			"items":     result.Items,
		},
	})
}

// TriggerDaily 手动触发每日生成（带限频）
// POST /api/content/generate/daily
func (ctl *ContentController) TriggerDaily(c *gin.Context) {
	ok, wait := ctl.Limiter.Check(middleware.TriggerDailyGeneration, middleware.GlobalTriggerKey)
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"code": 429, "message": "每日生成触发过于频繁", "retry_after_seconds": int(wait.Seconds())})
		return
	}
	defer ctl.Limiter.MarkExecuted(middleware.TriggerDailyGeneration, middleware.GlobalTriggerKey)

	result, ids, err := ctl.DailyTask.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "每日生成失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "每日生成完成",
		"data": gin.H{
			"requested": result.Requested,
			"generated": result.Generated,
			"saved_ids": ids,
		},
	})
}

// List 分页查询内容
// GET /api/content
func (ctl *ContentController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := ctl.Content.List(repository.ContentFilter{
		ContentType: c.Query("content_type"),
		Status:      c.Query("status"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"total": total,
			"items": items,
		},
	})
}

// Stats 内容库统计
// GET /api/content/stats
func (ctl *ContentController) Stats(c *gin.Context) {
	stats, err := ctl.Content.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "统计失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": stats})
}

// Adapt 为目标平台适配已有内容
// POST /api/content/:id/adapt
func (ctl *ContentController) Adapt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的内容ID"})
		return
	}

	var req dto.AdaptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	artifact, err := ctl.Content.GetArtifact(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "内容不存在"})
		return
	}

	adapted := ctl.Generator.GeneratePlatformSpecificContent(c.Request.Context(), artifact, req.Platform)

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "适配完成", "data": adapted})
}
