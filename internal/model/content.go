package model

import (
	"gorm.io/datatypes"
)

// ==================== 内容类型 ====================

// ContentType 内容类型
type ContentType string

const (
	ContentTypeFacts    ContentType = "facts"
	ContentTypeTrivia   ContentType = "trivia"
	ContentTypeMemes    ContentType = "memes"
	ContentTypeQuotes   ContentType = "quotes"
	ContentTypeLocation ContentType = "location_content"
)

// AllContentTypes 全部受支持的内容类型
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeFacts,
		ContentTypeTrivia,
		ContentTypeMemes,
		ContentTypeQuotes,
		ContentTypeLocation,
	}
}

// Valid 是否为受支持的内容类型
// 未知类型不报错，生成时走通用兜底策略
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeFacts, ContentTypeTrivia, ContentTypeMemes, ContentTypeQuotes, ContentTypeLocation:
		return true
	}
	return false
}

// ==================== 内容状态 ====================

const (
	ContentStatusDraft     = "draft"
	ContentStatusGenerated = "generated"
	ContentStatusScheduled = "scheduled"
	ContentStatusPosted    = "posted"
	ContentStatusFailed    = "failed"
	ContentStatusArchived  = "archived"
)

// ==================== 平台常量 ====================

const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
)

// ==================== 内容条目 ====================

// ContentItem 生成的内容条目（脚本、文案、元数据）
type ContentItem struct {
	BaseModel

	Title       string `gorm:"size:255;comment:标题"`
	ContentType string `gorm:"size:32;index;comment:内容类型"`
	Script      string `gorm:"type:text;comment:旁白脚本"`
	Description string `gorm:"type:text;comment:描述"`

	DurationSeconds int    `gorm:"default:0;comment:目标时长(秒)"`
	Location        string `gorm:"size:128;comment:地域上下文"`

	// JSON 字段
	Hashtags       datatypes.JSONSlice[string] `gorm:"comment:话题标签"`
	TargetAudience datatypes.JSON              `gorm:"comment:目标受众快照"`
	ExtraFields    datatypes.JSON              `gorm:"comment:类型特有字段"`

	// AI 生成元数据
	AIModelUsed    string         `gorm:"size:100;comment:文案模型"`
	GenerationMeta datatypes.JSON `gorm:"comment:生成参数"`

	Status string `gorm:"size:32;index;default:generated;comment:状态"`

	// 关联
	MediaAssets []MediaAsset `gorm:"foreignKey:ContentItemID"`
}

func (ContentItem) TableName() string {
	return "content_items"
}

// ==================== 媒体资源 ====================

// MediaAsset 生成的媒体资源（当前仅图片）
type MediaAsset struct {
	BaseModel

	ContentItemID int64 `gorm:"index;comment:内容条目ID"`

	AssetType string `gorm:"size:50;comment:资源类型(image/video/audio)"`
	FileURL   string `gorm:"size:500;comment:公开访问URL"`
	Size      string `gorm:"size:32;comment:尺寸(如1024x1792)"`

	// AI 生成元数据
	AIServiceUsed    string `gorm:"size:100;comment:生成模型"`
	GenerationPrompt string `gorm:"type:text;comment:生成提示词"`
	RevisedPrompt    string `gorm:"type:text;comment:模型改写后的提示词"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}

// ==================== 资源类型常量 ====================

const (
	AssetTypeImage = "image"
	AssetTypeVideo = "video"
	AssetTypeAudio = "audio"
)
