package task

import (
	"context"
	"log"

	"viralforge_dev_v1_202608/internal/api/dto"
	"viralforge_dev_v1_202608/internal/service"
)

// ==================== 每日内容生成任务 ====================

// ContentGenerationTask 每日批量生成任务
// 定时触发与接口手动触发共用同一执行入口
type ContentGenerationTask struct {
	Generator *service.GeneratorService
	Content   *service.ContentService
}

func NewContentGenerationTask(generator *service.GeneratorService, content *service.ContentService) *ContentGenerationTask {
	return &ContentGenerationTask{
		Generator: generator,
		Content:   content,
	}
}

// Run 执行一轮批量生成并落库，返回结果与落库ID
func (t *ContentGenerationTask) Run(ctx context.Context) (*dto.BulkResult, []int64, error) {
	cfg := t.Generator.Config
	result := t.Generator.GenerateMultipleContentPieces(ctx, cfg.DailyCount, cfg.ContentTypes, cfg.DefaultLocations)

	ids := make([]int64, 0, len(result.Items))
	for _, artifact := range result.Items {
		item, err := t.Content.SaveArtifact(artifact)
		if err != nil {
			log.Printf("[ContentTask] 内容落库失败 title=%s: %v", artifact.Title, err)
			continue
		}
		ids = append(ids, item.ID)
	}

	log.Printf("[ContentTask] 每日生成完成: 请求=%d 生成=%d 落库=%d", result.Requested, result.Generated, len(ids))
	return result, ids, nil
}

// Execute 定时任务入口
func (t *ContentGenerationTask) Execute() {
	log.Println("[ContentTask] 开始执行每日内容生成")
	if _, _, err := t.Run(context.Background()); err != nil {
		log.Printf("[ContentTask] 每日内容生成失败: %v", err)
	}
}
