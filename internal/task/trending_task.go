package task

import (
	"context"
	"log"
)

// ==================== 热点刷新任务 ====================

// TrendRefresher 热点刷新能力，便于测试替换
type TrendRefresher interface {
	RefreshTrendingTopics(ctx context.Context) (int, error)
}

// TrendingRefreshTask 定时拉取热点话题
type TrendingRefreshTask struct {
	Trend TrendRefresher
}

func NewTrendingRefreshTask(trend TrendRefresher) *TrendingRefreshTask {
	return &TrendingRefreshTask{Trend: trend}
}

// Execute 定时任务入口
func (t *TrendingRefreshTask) Execute() {
	log.Println("[TrendingTask] 开始刷新热点话题")
	saved, err := t.Trend.RefreshTrendingTopics(context.Background())
	if err != nil {
		log.Printf("[TrendingTask] 刷新热点话题失败: %v", err)
		return
	}
	log.Printf("[TrendingTask] 热点话题刷新完成: 落库=%d", saved)
}
