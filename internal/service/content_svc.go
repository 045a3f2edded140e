package service

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"viralforge_dev_v1_202608/internal/api/dto"
	"viralforge_dev_v1_202608/internal/model"
	"viralforge_dev_v1_202608/internal/repository"
)

// ==================== 内容服务 ====================

// ContentStats 内容库统计
type ContentStats struct {
	Total    int64            `json:"total"`
	ByType   map[string]int64 `json:"by_type"`
	Today    int64            `json:"today"`
	ThisWeek int64            `json:"this_week"`
}

// ContentService 内容持久化与查询服务
type ContentService struct {
	repo repository.ContentRepository
}

func NewContentService(repo repository.ContentRepository) *ContentService {
	return &ContentService{repo: repo}
}

// SaveArtifact 将生成产物落库（含媒体资源）
func (s *ContentService) SaveArtifact(artifact *dto.ContentArtifact) (*model.ContentItem, error) {
	item := &model.ContentItem{
		Title:           artifact.Title,
		ContentType:     artifact.ContentType,
		Script:          artifact.Script,
		Description:     artifact.Description,
		DurationSeconds: artifact.DurationSeconds,
		Location:        artifact.Location,
		Hashtags:        datatypes.NewJSONSlice(artifact.Hashtags),
		Status:          model.ContentStatusGenerated,
	}

	if artifact.TargetAudience != nil {
		b, err := json.Marshal(artifact.TargetAudience)
		if err != nil {
			return nil, fmt.Errorf("序列化受众失败: %v", err)
		}
		item.TargetAudience = datatypes.JSON(b)
	}
	if len(artifact.Extra) > 0 {
		b, err := json.Marshal(artifact.Extra)
		if err != nil {
			return nil, fmt.Errorf("序列化特有字段失败: %v", err)
		}
		item.ExtraFields = datatypes.JSON(b)
	}
	if artifact.AIMetadata != nil {
		item.AIModelUsed = artifact.AIMetadata.ContentModel
		if artifact.AIMetadata.GenerationParameters != nil {
			b, err := json.Marshal(artifact.AIMetadata.GenerationParameters)
			if err != nil {
				return nil, fmt.Errorf("序列化生成参数失败: %v", err)
			}
			item.GenerationMeta = datatypes.JSON(b)
		}
	}

	assets := make([]model.MediaAsset, 0, len(artifact.MediaAssets))
	for _, a := range artifact.MediaAssets {
		asset := model.MediaAsset{
			AssetType:        a.Type,
			FileURL:          a.URL,
			Size:             a.Size,
			GenerationPrompt: a.Prompt,
			RevisedPrompt:    a.RevisedPrompt,
		}
		if artifact.AIMetadata != nil {
			asset.AIServiceUsed = artifact.AIMetadata.ImageModel
		}
		assets = append(assets, asset)
	}

	if err := s.repo.CreateWithAssets(item, assets); err != nil {
		return nil, fmt.Errorf("保存内容失败: %v", err)
	}
	return item, nil
}

// GetArtifact 按ID读取并还原为产物结构
func (s *ContentService) GetArtifact(id int64) (*dto.ContentArtifact, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.toArtifact(item), nil
}

// toArtifact 数据库条目转产物结构
func (s *ContentService) toArtifact(item *model.ContentItem) *dto.ContentArtifact {
	artifact := &dto.ContentArtifact{
		ContentType:     item.ContentType,
		Title:           item.Title,
		Script:          item.Script,
		Description:     item.Description,
		DurationSeconds: item.DurationSeconds,
		Hashtags:        []string(item.Hashtags),
		Location:        item.Location,
		GeneratedAt:     item.CreatedAt,
	}
	if artifact.Hashtags == nil {
		artifact.Hashtags = []string{}
	}

	if len(item.TargetAudience) > 0 {
		var audience dto.TargetAudience
		if err := json.Unmarshal(item.TargetAudience, &audience); err == nil {
			artifact.TargetAudience = &audience
		}
	}
	if len(item.ExtraFields) > 0 {
		var extra map[string]interface{}
		if err := json.Unmarshal(item.ExtraFields, &extra); err == nil {
			artifact.Extra = extra
		}
	}

	meta := &dto.AIMetadata{ContentModel: item.AIModelUsed}
	if len(item.GenerationMeta) > 0 {
		var params map[string]interface{}
		if err := json.Unmarshal(item.GenerationMeta, &params); err == nil {
			meta.GenerationParameters = params
		}
	}

	artifact.MediaAssets = make([]dto.MediaAsset, 0, len(item.MediaAssets))
	for _, a := range item.MediaAssets {
		artifact.MediaAssets = append(artifact.MediaAssets, dto.MediaAsset{
			Type:          a.AssetType,
			URL:           a.FileURL,
			Prompt:        a.GenerationPrompt,
			RevisedPrompt: a.RevisedPrompt,
			Size:          a.Size,
		})
		if meta.ImageModel == "" {
			meta.ImageModel = a.AIServiceUsed
		}
	}
	artifact.AIMetadata = meta

	return artifact
}

// List 分页查询内容列表
func (s *ContentService) List(filter repository.ContentFilter) ([]model.ContentItem, int64, error) {
	return s.repo.List(filter)
}

// Stats 内容库统计（按类型/今日/本周）
func (s *ContentService) Stats() (*ContentStats, error) {
	byType, err := s.repo.CountByType()
	if err != nil {
		return nil, fmt.Errorf("统计内容类型失败: %v", err)
	}

	var total int64
	for _, c := range byType {
		total += c
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.repo.CountSince(todayStart)
	if err != nil {
		return nil, fmt.Errorf("统计今日内容失败: %v", err)
	}

	week, err := s.repo.CountSince(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("统计本周内容失败: %v", err)
	}

	return &ContentStats{
		Total:    total,
		ByType:   byType,
		Today:    today,
		ThisWeek: week,
	}, nil
}

// Archive 归档早于指定天数的内容，返回影响条数
func (s *ContentService) Archive(olderThanDays int) (int64, error) {
	before := time.Now().AddDate(0, 0, -olderThanDays)
	return s.repo.ArchiveOlderThan(before)
}
