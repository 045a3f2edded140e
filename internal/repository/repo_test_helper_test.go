package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"viralforge_dev_v1_202608/internal/model"
)

// newTestDB 创建内存数据库并迁移全部表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.ContentItem{},
		&model.MediaAsset{},
		&model.TrendingTopic{},
		&model.AICallLog{},
	)
	if err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}
