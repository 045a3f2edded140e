package dto

import (
	"encoding/json"
	"time"
)

// ==================== 受众 ====================

// TargetAudience 目标受众画像
type TargetAudience struct {
	AgeGroups []string `json:"age_groups"`
	Locations []string `json:"locations"`
	Interests []string `json:"interests"`
}

// ==================== 媒体资源 ====================

// MediaAsset 生成产物中的媒体资源描述
type MediaAsset struct {
	Type          string `json:"type"`
	URL           string `json:"url"`
	Prompt        string `json:"prompt,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Size          string `json:"size,omitempty"`
}

// ==================== AI 元数据 ====================

// AIMetadata 生成所用模型与参数
type AIMetadata struct {
	ContentModel         string                 `json:"content_model"`
	ImageModel           string                 `json:"image_model"`
	GenerationParameters map[string]interface{} `json:"generation_parameters,omitempty"`
}

// ==================== 内容产物 ====================

// ContentArtifact 一条完整的生成产物
// Extra 中的类型特有字段（fact/question/quote 等）序列化时平铺到顶层
type ContentArtifact struct {
	ContentType     string          `json:"content_type"`
	Title           string          `json:"title"`
	Script          string          `json:"script"`
	Description     string          `json:"description"`
	DurationSeconds int             `json:"duration_seconds"`
	Hashtags        []string        `json:"hashtags"`
	TargetAudience  *TargetAudience `json:"target_audience,omitempty"`
	Location        string          `json:"location,omitempty"`
	MediaAssets     []MediaAsset    `json:"media_assets"`
	GeneratedAt     time.Time       `json:"generated_at"`
	AIMetadata      *AIMetadata     `json:"ai_metadata,omitempty"`

	// 平台适配后追加
	Platform  string     `json:"platform,omitempty"`
	Caption   string     `json:"caption,omitempty"`
	AdaptedAt *time.Time `json:"adapted_at,omitempty"`

	// 类型特有字段，序列化时合并到顶层
	Extra map[string]interface{} `json:"-"`
}

// MarshalJSON 将 Extra 字段平铺合并到顶层输出
func (a ContentArtifact) MarshalJSON() ([]byte, error) {
	type alias ContentArtifact
	base, err := json.Marshal(alias(a))
	if err != nil {
		return nil, err
	}
	if len(a.Extra) == 0 {
		return base, nil
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range a.Extra {
		// 顶层已有字段不被 Extra 覆盖
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Clone 深拷贝（平台适配在副本上进行，原产物不变）
func (a *ContentArtifact) Clone() *ContentArtifact {
	cp := *a
	cp.Hashtags = append([]string(nil), a.Hashtags...)
	cp.MediaAssets = append([]MediaAsset(nil), a.MediaAssets...)
	if a.TargetAudience != nil {
		ta := TargetAudience{
			AgeGroups: append([]string(nil), a.TargetAudience.AgeGroups...),
			Locations: append([]string(nil), a.TargetAudience.Locations...),
			Interests: append([]string(nil), a.TargetAudience.Interests...),
		}
		cp.TargetAudience = &ta
	}
	if a.AIMetadata != nil {
		meta := *a.AIMetadata
		if a.AIMetadata.GenerationParameters != nil {
			meta.GenerationParameters = make(map[string]interface{}, len(a.AIMetadata.GenerationParameters))
			for k, v := range a.AIMetadata.GenerationParameters {
				meta.GenerationParameters[k] = v
			}
		}
		cp.AIMetadata = &meta
	}
	if a.Extra != nil {
		cp.Extra = make(map[string]interface{}, len(a.Extra))
		for k, v := range a.Extra {
			cp.Extra[k] = v
		}
	}
	return &cp
}

// ==================== 批量结果 ====================

// BulkResult 批量生成结果
type BulkResult struct {
	Requested int                `json:"requested"`
	Generated int                `json:"generated"`
	Items     []*ContentArtifact `json:"items"`
}

// ==================== 请求 ====================

// GenerateContentRequest 单条生成请求
type GenerateContentRequest struct {
	ContentType    string          `json:"content_type" binding:"required"`
	Topic          string          `json:"topic"`
	Location       string          `json:"location"`
	TargetAudience *TargetAudience `json:"target_audience"`
}

// BulkGenerateRequest 批量生成请求
type BulkGenerateRequest struct {
	Count        int      `json:"count"`
	ContentTypes []string `json:"content_types"`
	Locations    []string `json:"locations"`
}

// AdaptRequest 平台适配请求
type AdaptRequest struct {
	Platform string `json:"platform" binding:"required"`
}
