package repository

import (
	"time"

	"gorm.io/gorm"

	"viralforge_dev_v1_202608/internal/model"
)

// AIUsageStats AI 用量汇总
type AIUsageStats struct {
	TotalCalls        int64   `json:"total_calls"`
	SuccessCalls      int64   `json:"success_calls"`
	FailedCalls       int64   `json:"failed_calls"`
	TextCalls         int64   `json:"text_calls"`
	ImageCalls        int64   `json:"image_calls"`
	TotalInputTokens  int64   `json:"total_input_tokens"`
	TotalOutputTokens int64   `json:"total_output_tokens"`
	TotalImages       int64   `json:"total_images"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
	AvgDurationMs     float64 `json:"avg_duration_ms"`
}

// DailyUsage 按天聚合的用量
type DailyUsage struct {
	Date    string  `json:"date"`
	Calls   int64   `json:"calls"`
	CostUSD float64 `json:"cost_usd"`
}

// AILogRepository AI调用日志数据访问接口
type AILogRepository interface {
	Create(logEntry *model.AICallLog) error
	GetUsage(start, end time.Time) (*AIUsageStats, error)
	GetDailyUsage(start, end time.Time) ([]DailyUsage, error)
	GetTotalCost(start, end time.Time) (float64, error)
}

type aiLogRepository struct {
	db *gorm.DB
}

// NewAILogRepository 创建AI日志仓储实例
func NewAILogRepository(db *gorm.DB) AILogRepository {
	return &aiLogRepository{db: db}
}

func (r *aiLogRepository) Create(logEntry *model.AICallLog) error {
	return r.db.Create(logEntry).Error
}

// GetUsage 统计时间范围内的用量汇总
func (r *aiLogRepository) GetUsage(start, end time.Time) (*AIUsageStats, error) {
	var stats AIUsageStats
	err := r.db.Model(&model.AICallLog{}).
		Select(`
			COUNT(*) as total_calls,
			SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END) as success_calls,
			SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) as failed_calls,
			SUM(CASE WHEN call_type = 'text' THEN 1 ELSE 0 END) as text_calls,
			SUM(CASE WHEN call_type = 'image' THEN 1 ELSE 0 END) as image_calls,
			COALESCE(SUM(input_tokens), 0) as total_input_tokens,
			COALESCE(SUM(output_tokens), 0) as total_output_tokens,
			COALESCE(SUM(image_count), 0) as total_images,
			COALESCE(SUM(cost_usd), 0) as total_cost_usd,
			COALESCE(AVG(duration_ms), 0) as avg_duration_ms
		`).
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetDailyUsage 按天聚合调用次数与成本
func (r *aiLogRepository) GetDailyUsage(start, end time.Time) ([]DailyUsage, error) {
	var rows []DailyUsage
	err := r.db.Model(&model.AICallLog{}).
		Select("DATE(created_at) as date, COUNT(*) as calls, COALESCE(SUM(cost_usd), 0) as cost_usd").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *aiLogRepository) GetTotalCost(start, end time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&model.AICallLog{}).
		Select("COALESCE(SUM(cost_usd), 0)").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&total).Error
	return total, err
}
