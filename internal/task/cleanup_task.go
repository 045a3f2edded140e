package task

import (
	"log"

	"viralforge_dev_v1_202608/internal/service"
)

// ==================== 内容归档任务 ====================

// ContentCleanupTask 定时归档过期内容
type ContentCleanupTask struct {
	Content       *service.ContentService
	RetentionDays int // 保留天数，超过后归档
}

func NewContentCleanupTask(content *service.ContentService, retentionDays int) *ContentCleanupTask {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &ContentCleanupTask{
		Content:       content,
		RetentionDays: retentionDays,
	}
}

// Execute 定时任务入口
func (t *ContentCleanupTask) Execute() {
	log.Printf("[CleanupTask] 开始归档 %d 天前的内容", t.RetentionDays)
	archived, err := t.Content.Archive(t.RetentionDays)
	if err != nil {
		log.Printf("[CleanupTask] 归档失败: %v", err)
		return
	}
	log.Printf("[CleanupTask] 归档完成: %d 条", archived)
}
