package repository

import (
	"testing"
	"time"

	"viralforge_dev_v1_202608/internal/model"
)

func TestAILogRepositoryGetUsage(t *testing.T) {
	repo := NewAILogRepository(newTestDB(t))

	logs := []*model.AICallLog{
		{ServiceName: "gemini", CallType: model.AICallTypeText, Operation: model.AIOperationScript, InputTokens: 100, OutputTokens: 200, CostUSD: 0.001, DurationMs: 500, Status: model.AICallStatusSuccess},
		{ServiceName: "gemini", CallType: model.AICallTypeText, Operation: model.AIOperationHashtags, InputTokens: 50, OutputTokens: 30, CostUSD: 0.0005, DurationMs: 300, Status: model.AICallStatusSuccess},
		{ServiceName: "gemini", CallType: model.AICallTypeImage, Operation: model.AIOperationImage, ImageCount: 1, CostUSD: 0.039, DurationMs: 4000, Status: model.AICallStatusSuccess},
		{ServiceName: "gemini", CallType: model.AICallTypeText, Operation: model.AIOperationScript, Status: model.AICallStatusFailed, ErrorMsg: "timeout"},
	}
	for _, l := range logs {
		if err := repo.Create(l); err != nil {
			t.Fatalf("Create 失败: %v", err)
		}
	}

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	stats, err := repo.GetUsage(start, end)
	if err != nil {
		t.Fatalf("GetUsage 失败: %v", err)
	}

	if stats.TotalCalls != 4 {
		t.Errorf("总调用次数不正确: got %d, want 4", stats.TotalCalls)
	}
	if stats.SuccessCalls != 3 || stats.FailedCalls != 1 {
		t.Errorf("成功/失败次数不正确: success=%d failed=%d", stats.SuccessCalls, stats.FailedCalls)
	}
	if stats.TextCalls != 3 || stats.ImageCalls != 1 {
		t.Errorf("文本/图像次数不正确: text=%d image=%d", stats.TextCalls, stats.ImageCalls)
	}
	if stats.TotalInputTokens != 150 || stats.TotalOutputTokens != 230 {
		t.Errorf("token 统计不正确: in=%d out=%d", stats.TotalInputTokens, stats.TotalOutputTokens)
	}
	if stats.TotalImages != 1 {
		t.Errorf("图片数量不正确: got %d", stats.TotalImages)
	}
}

func TestAILogRepositoryGetUsageEmptyRange(t *testing.T) {
	repo := NewAILogRepository(newTestDB(t))

	// 空表统计应返回全零而非报错
	stats, err := repo.GetUsage(time.Now().AddDate(0, 0, -1), time.Now())
	if err != nil {
		t.Fatalf("GetUsage 失败: %v", err)
	}
	if stats.TotalCalls != 0 || stats.TotalCostUSD != 0 {
		t.Errorf("空范围统计应为零: calls=%d cost=%f", stats.TotalCalls, stats.TotalCostUSD)
	}
}

func TestAILogRepositoryGetTotalCost(t *testing.T) {
	repo := NewAILogRepository(newTestDB(t))

	_ = repo.Create(&model.AICallLog{ServiceName: "gemini", CallType: model.AICallTypeText, CostUSD: 0.01, Status: model.AICallStatusSuccess})
	_ = repo.Create(&model.AICallLog{ServiceName: "gemini", CallType: model.AICallTypeImage, CostUSD: 0.039, Status: model.AICallStatusSuccess})

	total, err := repo.GetTotalCost(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("GetTotalCost 失败: %v", err)
	}
	if total < 0.048 || total > 0.050 {
		t.Errorf("总成本不正确: got %f, want ~0.049", total)
	}
}

func TestAILogRepositoryGetDailyUsage(t *testing.T) {
	repo := NewAILogRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		if err := repo.Create(&model.AICallLog{ServiceName: "gemini", CallType: model.AICallTypeText, CostUSD: 0.001, Status: model.AICallStatusSuccess}); err != nil {
			t.Fatalf("Create 失败: %v", err)
		}
	}

	rows, err := repo.GetDailyUsage(time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("GetDailyUsage 失败: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("按天聚合行数不正确: got %d, want 1", len(rows))
	}
	if rows[0].Calls != 3 {
		t.Errorf("当日调用次数不正确: got %d, want 3", rows[0].Calls)
	}
}
