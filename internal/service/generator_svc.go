package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"viralforge_dev_v1_202608/internal/api/dto"
	"viralforge_dev_v1_202608/internal/model"
)

// ==================== 生成配置 ====================

// GeneratorConfig 内容生成配置，启动时校验，运行期只读
type GeneratorConfig struct {
	ContentTypes []model.ContentType // 每日生成覆盖的类型

	DefaultAgeGroups []string
	DefaultLocations []string
	DefaultInterests []string

	DurationMinSeconds int
	DurationMaxSeconds int

	DailyCount int // 每日计划生成条数

	DefaultPlatform    string
	DefaultMaxHashtags int

	ImageStyle       string
	ImageAspectRatio string
	ImageSize        string
	ImageQuality     string
}

// DefaultGeneratorConfig 默认生成配置
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		ContentTypes:       []model.ContentType{model.ContentTypeFacts, model.ContentTypeTrivia, model.ContentTypeMemes},
		DefaultAgeGroups:   []string{"18-24", "25-34", "35-44"},
		DefaultLocations:   []string{"US", "CA", "GB", "AU"},
		DefaultInterests:   []string{"general"},
		DurationMinSeconds: 10,
		DurationMaxSeconds: 60,
		DailyCount:         3,
		DefaultPlatform:    model.PlatformInstagram,
		DefaultMaxHashtags: 20,
		ImageStyle:         "modern",
		ImageAspectRatio:   "9:16",
		ImageSize:          "1024x1792",
		ImageQuality:       "hd",
	}
}

// Validate 校验配置合法性
func (c *GeneratorConfig) Validate() error {
	if c.DurationMinSeconds < 1 {
		return fmt.Errorf("时长下限必须大于0, 当前: %d", c.DurationMinSeconds)
	}
	if c.DurationMinSeconds > c.DurationMaxSeconds {
		return fmt.Errorf("时长区间无效: min=%d > max=%d", c.DurationMinSeconds, c.DurationMaxSeconds)
	}
	if len(c.ContentTypes) == 0 {
		return fmt.Errorf("至少配置一种内容类型")
	}
	if c.DailyCount < 1 {
		return fmt.Errorf("每日生成条数必须大于0, 当前: %d", c.DailyCount)
	}
	return nil
}

// ==================== 生成后端 ====================

// ContentBackend 内容生成所需的AI能力
type ContentBackend interface {
	GenerateScript(ctx context.Context, contentType model.ContentType, topic string, audience *dto.TargetAudience, durationSeconds int, location string) (map[string]interface{}, error)
	GenerateHashtags(ctx context.Context, content string, platform string, maxCount int) ([]string, error)
	GenerateImagePrompt(ctx context.Context, content string, style string, aspectRatio string) (string, error)
	GenerateImage(ctx context.Context, prompt string, size string, quality string) (*ImageResult, error)
	GenerateCaption(ctx context.Context, content string, platform string, tone string, includeCTA bool) (string, error)
	Models() (textModel, imageModel string)
}

// ==================== 类型特有字段 ====================

// extraFieldDefaults 各类型特有字段及缺失时的默认值
var extraFieldDefaults = map[model.ContentType]map[string]interface{}{
	model.ContentTypeFacts: {
		"fact":    "",
		"sources": []string{},
	},
	model.ContentTypeTrivia: {
		"question": "",
		"answer":   "",
	},
	model.ContentTypeMemes: {
		"concept":    "",
		"humor_type": "",
	},
	model.ContentTypeQuotes: {
		"quote":   "",
		"author":  "",
		"context": "",
	},
	model.ContentTypeLocation: {
		"location_fact": "",
		"travel_tip":    "",
	},
}

// ==================== 生成服务 ====================

// GeneratorService 内容生成编排服务
type GeneratorService struct {
	Config  GeneratorConfig
	backend ContentBackend
	topics  *TopicSelector
}

// NewGeneratorService 创建生成服务，配置非法直接报错
func NewGeneratorService(cfg GeneratorConfig, backend ContentBackend) (*GeneratorService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("生成配置无效: %v", err)
	}
	return &GeneratorService{
		Config:  cfg,
		backend: backend,
		topics:  NewTopicSelector(nil),
	}, nil
}

// defaultAudience 配置中的默认受众画像
func (s *GeneratorService) defaultAudience() *dto.TargetAudience {
	return &dto.TargetAudience{
		AgeGroups: append([]string(nil), s.Config.DefaultAgeGroups...),
		Locations: append([]string(nil), s.Config.DefaultLocations...),
		Interests: append([]string(nil), s.Config.DefaultInterests...),
	}
}

// randomDuration 在配置区间内随机取目标时长
func (s *GeneratorService) randomDuration() int {
	min, max := s.Config.DurationMinSeconds, s.Config.DurationMaxSeconds
	if min >= max {
		return min
	}
	return min + rand.Intn(max-min+1)
}

// GenerateContentPiece 生成一条完整内容
// 脚本、图像提示词、图像任一失败则整条失败；标签失败降级为空列表
func (s *GeneratorService) GenerateContentPiece(ctx context.Context, contentType model.ContentType, topic string, location string, audience *dto.TargetAudience) (*dto.ContentArtifact, error) {
	// 1. 受众缺省用配置默认值
	if audience == nil {
		audience = s.defaultAudience()
	}

	// 2. 选题缺省从选题池抽取
	if topic == "" {
		topic = s.topics.SelectTopicSafe(contentType, location)
	}

	// 3. 随机目标时长
	duration := s.randomDuration()

	log.Printf("[Generator] 开始生成: type=%s topic=%s duration=%ds", contentType, topic, duration)

	// 4. 生成脚本
	payload, err := s.backend.GenerateScript(ctx, contentType, topic, audience, duration, location)
	if err != nil {
		return nil, fmt.Errorf("脚本阶段失败: %v", err)
	}

	title := getMapString(payload, "title", topic)
	script := getMapString(payload, "script", "")
	description := getMapString(payload, "description", "")
	scriptText := title + "\n" + script

	// 5. 生成标签，失败不致命
	hashtags, err := s.backend.GenerateHashtags(ctx, scriptText, s.Config.DefaultPlatform, s.Config.DefaultMaxHashtags)
	if err != nil {
		log.Printf("[Generator] 标签阶段失败，继续生成: %v", err)
		hashtags = []string{}
	}

	// 6. 生成图像提示词
	imagePrompt, err := s.backend.GenerateImagePrompt(ctx, scriptText, s.Config.ImageStyle, s.Config.ImageAspectRatio)
	if err != nil {
		return nil, fmt.Errorf("图像提示词阶段失败: %v", err)
	}

	// 7. 生成图像
	image, err := s.backend.GenerateImage(ctx, imagePrompt, s.Config.ImageSize, s.Config.ImageQuality)
	if err != nil {
		return nil, fmt.Errorf("图像阶段失败: %v", err)
	}

	// 8. 汇总产物，补齐类型特有字段
	extra := make(map[string]interface{})
	for key, def := range extraFieldDefaults[contentType] {
		if v, ok := payload[key]; ok {
			extra[key] = v
		} else {
			extra[key] = def
		}
	}

	textModel, imageModel := s.backend.Models()
	artifact := &dto.ContentArtifact{
		ContentType:     string(contentType),
		Title:           title,
		Script:          script,
		Description:     description,
		DurationSeconds: duration,
		Hashtags:        hashtags,
		TargetAudience:  audience,
		Location:        location,
		MediaAssets: []dto.MediaAsset{{
			Type:          model.AssetTypeImage,
			URL:           image.URL,
			Prompt:        imagePrompt,
			RevisedPrompt: image.RevisedPrompt,
			Size:          image.Size,
		}},
		GeneratedAt: time.Now(),
		AIMetadata: &dto.AIMetadata{
			ContentModel: textModel,
			ImageModel:   imageModel,
			GenerationParameters: map[string]interface{}{
				"topic":        topic,
				"image_style":  s.Config.ImageStyle,
				"aspect_ratio": s.Config.ImageAspectRatio,
			},
		},
		Extra: extra,
	}

	log.Printf("[Generator] 生成完成: type=%s title=%s", contentType, title)
	return artifact, nil
}

// GenerateMultipleContentPieces 并发批量生成
// 单条失败只记日志丢弃，成功条目按提交顺序返回
func (s *GeneratorService) GenerateMultipleContentPieces(ctx context.Context, count int, contentTypes []model.ContentType, locations []string) *dto.BulkResult {
	if count <= 0 {
		count = s.Config.DailyCount
	}
	if len(contentTypes) == 0 {
		contentTypes = s.Config.ContentTypes
	}
	if len(locations) == 0 {
		locations = s.Config.DefaultLocations
	}

	results := make([]*dto.ContentArtifact, count)
	var wg sync.WaitGroup

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Generator] 批量任务 %d 发生panic: %v", idx, r)
				}
			}()

			contentType := contentTypes[rand.Intn(len(contentTypes))]
			location := ""
			if len(locations) > 0 {
				location = locations[rand.Intn(len(locations))]
			}

			artifact, err := s.GenerateContentPiece(ctx, contentType, "", location, nil)
			if err != nil {
				log.Printf("[Generator] 批量任务 %d 失败: %v", idx, err)
				return
			}
			results[idx] = artifact
		}(i)
	}
	wg.Wait()

	items := make([]*dto.ContentArtifact, 0, count)
	for _, r := range results {
		if r != nil {
			items = append(items, r)
		}
	}

	log.Printf("[Generator] 批量生成完成: 请求=%d 成功=%d", count, len(items))
	return &dto.BulkResult{
		Requested: count,
		Generated: len(items),
		Items:     items,
	}
}

// GeneratePlatformSpecificContent 为目标平台适配文案与标签
// 任何阶段失败都原样返回输入内容，不中断调用方
func (s *GeneratorService) GeneratePlatformSpecificContent(ctx context.Context, base *dto.ContentArtifact, platform string) *dto.ContentArtifact {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = s.Config.DefaultPlatform
	}

	content := base.Title + "\n" + base.Script

	caption, err := s.backend.GenerateCaption(ctx, content, platform, "engaging", true)
	if err != nil {
		log.Printf("[Generator] 平台文案生成失败，返回原内容: %v", err)
		return base
	}

	maxTags := 10
	if platform == model.PlatformInstagram {
		maxTags = 30
	}
	hashtags, err := s.backend.GenerateHashtags(ctx, content, platform, maxTags)
	if err != nil {
		log.Printf("[Generator] 平台标签生成失败，返回原内容: %v", err)
		return base
	}
	if len(hashtags) > maxTags {
		hashtags = hashtags[:maxTags]
	}

	adapted := base.Clone()
	adapted.Platform = platform
	adapted.Caption = caption
	adapted.Hashtags = hashtags
	now := time.Now()
	adapted.AdaptedAt = &now
	return adapted
}

// ==================== map 取值工具 ====================

func getMapString(m map[string]interface{}, key string, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}
