package repository

import (
	"time"

	"gorm.io/gorm"

	"viralforge_dev_v1_202608/internal/model"
)

// TrendingRepository 热点话题数据访问接口
type TrendingRepository interface {
	Upsert(topic *model.TrendingTopic) error
	ListActive(limit int) ([]model.TrendingTopic, error)
	DeactivateOlderThan(before time.Time) (int64, error)
}

type trendingRepository struct {
	db *gorm.DB
}

// NewTrendingRepository 创建热点话题仓储实例
func NewTrendingRepository(db *gorm.DB) TrendingRepository {
	return &trendingRepository{db: db}
}

// Upsert 按 keyword+source 去重写入，已存在则刷新趋势数据
func (r *trendingRepository) Upsert(topic *model.TrendingTopic) error {
	var existing model.TrendingTopic
	err := r.db.Where("keyword = ? AND source = ?", topic.Keyword, topic.Source).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(topic).Error
	}
	if err != nil {
		return err
	}

	return r.db.Model(&existing).Updates(map[string]interface{}{
		"category":      topic.Category,
		"search_volume": topic.SearchVolume,
		"trend_score":   topic.TrendScore,
		"regions":       topic.Regions,
		"is_active":     true,
	}).Error
}

func (r *trendingRepository) ListActive(limit int) ([]model.TrendingTopic, error) {
	if limit <= 0 {
		limit = 20
	}
	var topics []model.TrendingTopic
	err := r.db.Where("is_active = ?", true).
		Order("trend_score DESC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

// DeactivateOlderThan 将长期未刷新的话题置为无效
func (r *trendingRepository) DeactivateOlderThan(before time.Time) (int64, error) {
	result := r.db.Model(&model.TrendingTopic{}).
		Where("updated_at < ? AND is_active = ?", before, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
