package model

import (
	"gorm.io/datatypes"
)

// TrendingTopic 热点话题
// 由定时任务从外部趋势接口拉取，作为生成选题的候选来源
type TrendingTopic struct {
	BaseModel

	Keyword  string `gorm:"size:255;index;comment:关键词"`
	Source   string `gorm:"size:100;index;comment:来源(google_trends等)"`
	Category string `gorm:"size:100;comment:分类"`

	// 趋势数据
	SearchVolume int     `gorm:"default:0;comment:搜索量"`
	TrendScore   float64 `gorm:"default:0;comment:趋势评分(0-1)"`

	Regions datatypes.JSONSlice[string] `gorm:"comment:热门地区"`

	IsActive bool `gorm:"default:true;index;comment:是否有效"`
}

func (TrendingTopic) TableName() string {
	return "trending_topics"
}

// ==================== 来源常量 ====================

const (
	TrendSourceGoogle  = "google_trends"
	TrendSourceBuiltin = "builtin_sample"
)
