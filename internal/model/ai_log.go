package model

// AICallLog AI调用日志
// 每次后端调用异步落一条，用于用量/成本核算，写失败不影响主流程
type AICallLog struct {
	BaseModel

	// 调用信息
	ServiceName string `gorm:"size:64;index;comment:服务商(gemini)"`
	CallType    string `gorm:"size:32;index;comment:调用类型(text/image)"`
	ModelName   string `gorm:"size:64;comment:模型名称"`
	Operation   string `gorm:"size:64;index;comment:操作(script/hashtags/image_prompt/image/caption)"`

	// 用量统计
	InputTokens  int `gorm:"default:0;comment:输入token数"`
	OutputTokens int `gorm:"default:0;comment:输出token数"`
	ImageCount   int `gorm:"default:0;comment:生成图片数量"`

	// 性能与成本
	DurationMs int64   `gorm:"comment:耗时(毫秒)"`
	CostUSD    float64 `gorm:"type:decimal(10,6);default:0;comment:成本(美元)"`

	// 状态
	Status   string `gorm:"size:32;index;default:success;comment:状态(success/failed)"`
	ErrorMsg string `gorm:"size:1024;comment:错误信息"`
}

func (AICallLog) TableName() string {
	return "ai_call_logs"
}

// ==================== 调用类型常量 ====================

const (
	AICallTypeText  = "text"
	AICallTypeImage = "image"
)

// ==================== 操作常量 ====================

const (
	AIOperationScript      = "script_generation"
	AIOperationHashtags    = "hashtag_generation"
	AIOperationImagePrompt = "image_prompt_generation"
	AIOperationImage       = "image_generation"
	AIOperationCaption     = "caption_generation"
)

// ==================== 状态常量 ====================

const (
	AICallStatusSuccess = "success"
	AICallStatusFailed  = "failed"
)
