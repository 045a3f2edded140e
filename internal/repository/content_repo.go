package repository

import (
	"time"

	"gorm.io/gorm"

	"viralforge_dev_v1_202608/internal/model"
)

// ContentFilter 内容列表过滤条件
type ContentFilter struct {
	ContentType string
	Status      string
	Page        int
	PageSize    int
}

// ContentRepository 内容条目数据访问接口
type ContentRepository interface {
	Create(item *model.ContentItem) error
	CreateWithAssets(item *model.ContentItem, assets []model.MediaAsset) error
	GetByID(id int64) (*model.ContentItem, error)
	List(filter ContentFilter) ([]model.ContentItem, int64, error)
	CountByType() (map[string]int64, error)
	CountSince(since time.Time) (int64, error)
	UpdateStatus(id int64, status string) error
	ArchiveOlderThan(before time.Time) (int64, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository 创建内容仓储实例
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(item *model.ContentItem) error {
	return r.db.Create(item).Error
}

// CreateWithAssets 事务中写入内容条目及其媒体资源
func (r *contentRepository) CreateWithAssets(item *model.ContentItem, assets []model.MediaAsset) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		for i := range assets {
			assets[i].ContentItemID = item.ID
		}
		if len(assets) > 0 {
			if err := tx.Create(&assets).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *contentRepository) GetByID(id int64) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.db.Preload("MediaAssets").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) List(filter ContentFilter) ([]model.ContentItem, int64, error) {
	query := r.db.Model(&model.ContentItem{})

	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var items []model.ContentItem
	err := query.Preload("MediaAssets").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByType 按内容类型统计条目数
func (r *contentRepository) CountByType() (map[string]int64, error) {
	type row struct {
		ContentType string
		Count       int64
	}
	var rows []row
	err := r.db.Model(&model.ContentItem{}).
		Select("content_type, COUNT(*) as count").
		Group("content_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.ContentType] = r.Count
	}
	return result, nil
}

func (r *contentRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ContentItem{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *contentRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.ContentItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ArchiveOlderThan 将早于指定时间且未发布的内容标记归档，返回影响行数
func (r *contentRepository) ArchiveOlderThan(before time.Time) (int64, error) {
	result := r.db.Model(&model.ContentItem{}).
		Where("created_at < ? AND status NOT IN ?", before, []string{model.ContentStatusPosted, model.ContentStatusArchived}).
		Update("status", model.ContentStatusArchived)
	return result.RowsAffected, result.Error
}
