package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"viralforge_dev_v1_202608/internal/model"
	"viralforge_dev_v1_202608/internal/repository"
)

// ==================== 趋势服务 ====================

// TrendConfig 趋势接口配置，APIURL 为空时使用内置样例数据
type TrendConfig struct {
	APIURL string
	APIKey string
}

// trendAPIResponse 外部趋势接口响应
type trendAPIResponse struct {
	Topics []struct {
		Keyword      string   `json:"keyword"`
		Category     string   `json:"category"`
		SearchVolume int      `json:"search_volume"`
		TrendScore   float64  `json:"trend_score"`
		Regions      []string `json:"regions"`
	} `json:"topics"`
}

// TrendService 热点话题拉取与查询
type TrendService struct {
	Config TrendConfig

	client *resty.Client
	repo   repository.TrendingRepository
}

func NewTrendService(cfg TrendConfig, client *resty.Client, repo repository.TrendingRepository) *TrendService {
	return &TrendService{Config: cfg, client: client, repo: repo}
}

// FetchTrendingTopics 拉取热点话题
// 未配置外部接口时返回内置样例，保证下游流程可用
func (s *TrendService) FetchTrendingTopics(ctx context.Context) ([]model.TrendingTopic, error) {
	if s.Config.APIURL == "" {
		log.Println("[TrendService] 未配置趋势接口，使用内置样例数据")
		return sampleTrendingTopics(), nil
	}

	var result trendAPIResponse
	req := s.client.R().
		SetContext(ctx).
		SetResult(&result)
	if s.Config.APIKey != "" {
		req.SetHeader("Authorization", "Bearer "+s.Config.APIKey)
	}

	resp, err := req.Get(s.Config.APIURL)
	if err != nil {
		return nil, fmt.Errorf("请求趋势接口失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("趋势接口返回 %d", resp.StatusCode())
	}

	topics := make([]model.TrendingTopic, 0, len(result.Topics))
	for _, t := range result.Topics {
		if t.Keyword == "" {
			continue
		}
		topics = append(topics, model.TrendingTopic{
			Keyword:      t.Keyword,
			Source:       model.TrendSourceGoogle,
			Category:     t.Category,
			SearchVolume: t.SearchVolume,
			TrendScore:   t.TrendScore,
			Regions:      t.Regions,
			IsActive:     true,
		})
	}
	return topics, nil
}

// RefreshTrendingTopics 拉取并落库，同时下线长期未刷新的话题
func (s *TrendService) RefreshTrendingTopics(ctx context.Context) (int, error) {
	topics, err := s.FetchTrendingTopics(ctx)
	if err != nil {
		return 0, err
	}

	saved := 0
	for i := range topics {
		if err := s.repo.Upsert(&topics[i]); err != nil {
			log.Printf("[TrendService] 话题落库失败 keyword=%s: %v", topics[i].Keyword, err)
			continue
		}
		saved++
	}

	// 7天未刷新的话题视为过期
	if _, err := s.repo.DeactivateOlderThan(time.Now().AddDate(0, 0, -7)); err != nil {
		log.Printf("[TrendService] 下线过期话题失败: %v", err)
	}

	log.Printf("[TrendService] 热点话题刷新完成: 拉取=%d 落库=%d", len(topics), saved)
	return saved, nil
}

// ListActive 查询当前有效的热点话题
func (s *TrendService) ListActive(limit int) ([]model.TrendingTopic, error) {
	return s.repo.ListActive(limit)
}

// sampleTrendingTopics 内置样例话题
func sampleTrendingTopics() []model.TrendingTopic {
	return []model.TrendingTopic{
		{Keyword: "AI technology", Source: model.TrendSourceBuiltin, Category: "technology", SearchVolume: 850000, TrendScore: 0.95, Regions: []string{"US", "GB", "CA"}, IsActive: true},
		{Keyword: "space exploration", Source: model.TrendSourceBuiltin, Category: "science", SearchVolume: 420000, TrendScore: 0.82, Regions: []string{"US", "AU"}, IsActive: true},
		{Keyword: "sustainable living", Source: model.TrendSourceBuiltin, Category: "lifestyle", SearchVolume: 310000, TrendScore: 0.76, Regions: []string{"GB", "CA", "AU"}, IsActive: true},
		{Keyword: "viral recipes", Source: model.TrendSourceBuiltin, Category: "food", SearchVolume: 560000, TrendScore: 0.71, Regions: []string{"US"}, IsActive: true},
		{Keyword: "retro gaming", Source: model.TrendSourceBuiltin, Category: "entertainment", SearchVolume: 240000, TrendScore: 0.64, Regions: []string{"US", "GB"}, IsActive: true},
	}
}
