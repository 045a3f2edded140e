package service

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"viralforge_dev_v1_202608/internal/api/dto"
	"viralforge_dev_v1_202608/internal/model"
)

// stubBackend 可按需覆盖各阶段行为的测试后端
type stubBackend struct {
	scriptFn      func(contentType model.ContentType, topic string) (map[string]interface{}, error)
	hashtagsFn    func(platform string, maxCount int) ([]string, error)
	imagePromptFn func() (string, error)
	imageFn       func() (*ImageResult, error)
	captionFn     func(platform string) (string, error)
}

func (b *stubBackend) GenerateScript(_ context.Context, contentType model.ContentType, topic string, _ *dto.TargetAudience, _ int, _ string) (map[string]interface{}, error) {
	if b.scriptFn != nil {
		return b.scriptFn(contentType, topic)
	}
	return map[string]interface{}{
		"title":       "Stub Title",
		"script":      "stub script",
		"description": "stub description",
	}, nil
}

func (b *stubBackend) GenerateHashtags(_ context.Context, _ string, platform string, maxCount int) ([]string, error) {
	if b.hashtagsFn != nil {
		return b.hashtagsFn(platform, maxCount)
	}
	return []string{"viral", "fyp"}, nil
}

func (b *stubBackend) GenerateImagePrompt(_ context.Context, _ string, _ string, _ string) (string, error) {
	if b.imagePromptFn != nil {
		return b.imagePromptFn()
	}
	return "stub image prompt", nil
}

func (b *stubBackend) GenerateImage(_ context.Context, _ string, _ string, _ string) (*ImageResult, error) {
	if b.imageFn != nil {
		return b.imageFn()
	}
	return &ImageResult{URL: "/media/images/stub.png", RevisedPrompt: "revised", Size: "1024x1792"}, nil
}

func (b *stubBackend) GenerateCaption(_ context.Context, _ string, platform string, _ string, _ bool) (string, error) {
	if b.captionFn != nil {
		return b.captionFn(platform)
	}
	return "stub caption", nil
}

func (b *stubBackend) Models() (string, string) {
	return "stub-text-model", "stub-image-model"
}

func newTestGenerator(t *testing.T, backend ContentBackend) *GeneratorService {
	t.Helper()
	g, err := NewGeneratorService(DefaultGeneratorConfig(), backend)
	if err != nil {
		t.Fatalf("创建生成服务失败: %v", err)
	}
	return g
}

func TestGenerateContentPieceTrivia(t *testing.T) {
	backend := &stubBackend{
		scriptFn: func(_ model.ContentType, _ string) (map[string]interface{}, error) {
			return map[string]interface{}{
				"title":       "Did You Know?",
				"script":      "Question... answer!",
				"description": "Trivia time",
				"question":    "What is the largest ocean?",
				"answer":      "The Pacific",
			}, nil
		},
	}
	g := newTestGenerator(t, backend)

	artifact, err := g.GenerateContentPiece(context.Background(), model.ContentTypeTrivia, "ocean trivia", "", nil)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	if artifact.ContentType != "trivia" {
		t.Errorf("内容类型不正确: got %s", artifact.ContentType)
	}
	if artifact.Title != "Did You Know?" {
		t.Errorf("标题不正确: got %s", artifact.Title)
	}
	if artifact.Extra["question"] != "What is the largest ocean?" {
		t.Errorf("question 字段不正确: got %v", artifact.Extra["question"])
	}
	if artifact.Extra["answer"] != "The Pacific" {
		t.Errorf("answer 字段不正确: got %v", artifact.Extra["answer"])
	}
	if len(artifact.MediaAssets) != 1 || artifact.MediaAssets[0].URL == "" {
		t.Errorf("媒体资源不正确: %v", artifact.MediaAssets)
	}
	if artifact.AIMetadata == nil || artifact.AIMetadata.ContentModel != "stub-text-model" {
		t.Errorf("AI 元数据不正确: %v", artifact.AIMetadata)
	}
	// 受众缺省时使用配置默认值
	if artifact.TargetAudience == nil || len(artifact.TargetAudience.AgeGroups) != 3 {
		t.Errorf("默认受众不正确: %v", artifact.TargetAudience)
	}
}

func TestGenerateContentPieceExtraDefaults(t *testing.T) {
	// 脚本缺少类型特有字段时补默认值
	backend := &stubBackend{
		scriptFn: func(_ model.ContentType, topic string) (map[string]interface{}, error) {
			return map[string]interface{}{
				"title":  topic,
				"script": "body",
			}, nil
		},
	}
	g := newTestGenerator(t, backend)

	artifact, err := g.GenerateContentPiece(context.Background(), model.ContentTypeFacts, "space facts", "", nil)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	if artifact.Extra["fact"] != "" {
		t.Errorf("fact 应默认为空字符串: got %v", artifact.Extra["fact"])
	}
	if sources, ok := artifact.Extra["sources"].([]string); !ok || len(sources) != 0 {
		t.Errorf("sources 应默认为空列表: got %v", artifact.Extra["sources"])
	}
}

func TestGenerateContentPieceHashtagFailureGraceful(t *testing.T) {
	backend := &stubBackend{
		hashtagsFn: func(_ string, _ int) ([]string, error) {
			return nil, errors.New("rate limited")
		},
	}
	g := newTestGenerator(t, backend)

	artifact, err := g.GenerateContentPiece(context.Background(), model.ContentTypeFacts, "topic", "", nil)
	if err != nil {
		t.Fatalf("标签失败不应导致整条失败: %v", err)
	}
	if len(artifact.Hashtags) != 0 {
		t.Errorf("标签失败应降级为空列表: got %v", artifact.Hashtags)
	}
}

func TestGenerateContentPieceImagePromptFailureFatal(t *testing.T) {
	backend := &stubBackend{
		imagePromptFn: func() (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	g := newTestGenerator(t, backend)

	_, err := g.GenerateContentPiece(context.Background(), model.ContentTypeFacts, "topic", "", nil)
	if err == nil {
		t.Fatal("图像提示词失败应导致整条失败")
	}
}

func TestGenerateContentPieceImageFailureFatal(t *testing.T) {
	backend := &stubBackend{
		imageFn: func() (*ImageResult, error) {
			return nil, errors.New("image api down")
		},
	}
	g := newTestGenerator(t, backend)

	_, err := g.GenerateContentPiece(context.Background(), model.ContentTypeFacts, "topic", "", nil)
	if err == nil {
		t.Fatal("图像失败应导致整条失败")
	}
}

func TestGenerateContentPieceDurationInRange(t *testing.T) {
	g := newTestGenerator(t, &stubBackend{})

	min := g.Config.DurationMinSeconds
	max := g.Config.DurationMaxSeconds
	for i := 0; i < 1000; i++ {
		d := g.randomDuration()
		if d < min || d > max {
			t.Fatalf("时长超出区间 [%d, %d]: got %d", min, max, d)
		}
	}
}

func TestGenerateMultipleContentPieces(t *testing.T) {
	var calls int64
	backend := &stubBackend{
		scriptFn: func(_ model.ContentType, topic string) (map[string]interface{}, error) {
			// 第3次调用失败，其余成功
			if atomic.AddInt64(&calls, 1) == 3 {
				return nil, errors.New("transient failure")
			}
			return map[string]interface{}{"title": topic, "script": "s", "description": "d"}, nil
		},
	}
	g := newTestGenerator(t, backend)

	result := g.GenerateMultipleContentPieces(context.Background(), 5, nil, []string{"US"})

	if result.Requested != 5 {
		t.Errorf("请求数不正确: got %d", result.Requested)
	}
	if result.Generated != 4 || len(result.Items) != 4 {
		t.Errorf("单条失败应被丢弃: generated=%d items=%d, want 4", result.Generated, len(result.Items))
	}
	for _, item := range result.Items {
		if item == nil {
			t.Fatal("结果中不应出现 nil 条目")
		}
	}
}

func TestGenerateMultipleDefaultLocations(t *testing.T) {
	g := newTestGenerator(t, &stubBackend{})

	// locations 缺省时应回落到配置的默认地点列表
	result := g.GenerateMultipleContentPieces(context.Background(), 6, nil, nil)
	if result.Generated != 6 {
		t.Fatalf("生成条数不正确: got %d", result.Generated)
	}

	allowed := make(map[string]bool)
	for _, loc := range g.Config.DefaultLocations {
		allowed[loc] = true
	}
	for i, item := range result.Items {
		if item.Location == "" {
			t.Fatalf("第 %d 条地点不应为空", i)
		}
		if !allowed[item.Location] {
			t.Errorf("第 %d 条地点不在默认列表中: %s", i, item.Location)
		}
	}
}

func TestGenerateMultipleRandomTypeSelection(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.ContentTypes = []model.ContentType{model.ContentTypeFacts, model.ContentTypeTrivia}
	g, err := NewGeneratorService(cfg, &stubBackend{})
	if err != nil {
		t.Fatalf("创建生成服务失败: %v", err)
	}

	const count = 60
	result := g.GenerateMultipleContentPieces(context.Background(), count, nil, nil)
	if result.Generated != count {
		t.Fatalf("生成条数不正确: got %d", result.Generated)
	}

	// 类型应随机抽取，而非按下标轮转
	seen := make(map[string]bool)
	roundRobin := true
	for i, item := range result.Items {
		seen[item.ContentType] = true
		expected := string(cfg.ContentTypes[i%len(cfg.ContentTypes)])
		if item.ContentType != expected {
			roundRobin = false
		}
	}
	if len(seen) < 2 {
		t.Errorf("随机抽取应覆盖多种类型: %v", seen)
	}
	if roundRobin {
		t.Error("类型序列与轮转结果完全一致, 不是随机抽取")
	}
}

func TestGenerateMultipleDefaultCount(t *testing.T) {
	g := newTestGenerator(t, &stubBackend{})

	result := g.GenerateMultipleContentPieces(context.Background(), 0, nil, nil)
	if result.Requested != g.Config.DailyCount {
		t.Errorf("count<=0 应使用配置默认条数: got %d, want %d", result.Requested, g.Config.DailyCount)
	}
}

func TestGeneratePlatformSpecificInstagram(t *testing.T) {
	var gotMax int
	manyTags := make([]string, 40)
	for i := range manyTags {
		manyTags[i] = "tag" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	backend := &stubBackend{
		hashtagsFn: func(_ string, maxCount int) ([]string, error) {
			gotMax = maxCount
			return manyTags, nil
		},
	}
	g := newTestGenerator(t, backend)

	base := &dto.ContentArtifact{Title: "T", Script: "S", Hashtags: []string{"old"}}
	adapted := g.GeneratePlatformSpecificContent(context.Background(), base, "Instagram")

	if gotMax != 30 {
		t.Errorf("instagram 标签上限应为30: got %d", gotMax)
	}
	if len(adapted.Hashtags) != 30 {
		t.Errorf("超量标签应截断到30: got %d", len(adapted.Hashtags))
	}
	if adapted.Platform != "instagram" {
		t.Errorf("平台应转为小写: got %s", adapted.Platform)
	}
	if adapted.Caption != "stub caption" {
		t.Errorf("文案不正确: got %s", adapted.Caption)
	}
	if adapted.AdaptedAt == nil {
		t.Error("适配时间未设置")
	}
	// 原产物不应被修改
	if len(base.Hashtags) != 1 || base.Platform != "" {
		t.Errorf("原产物被修改: %v", base)
	}
}

func TestGeneratePlatformSpecificTikTokLimit(t *testing.T) {
	var gotMax int
	backend := &stubBackend{
		hashtagsFn: func(_ string, maxCount int) ([]string, error) {
			gotMax = maxCount
			return []string{"a"}, nil
		},
	}
	g := newTestGenerator(t, backend)

	g.GeneratePlatformSpecificContent(context.Background(), &dto.ContentArtifact{Title: "T"}, "tiktok")
	if gotMax != 10 {
		t.Errorf("非 instagram 平台标签上限应为10: got %d", gotMax)
	}
}

func TestGeneratePlatformSpecificFailureReturnsBase(t *testing.T) {
	backend := &stubBackend{
		captionFn: func(_ string) (string, error) {
			return "", errors.New("caption failed")
		},
	}
	g := newTestGenerator(t, backend)

	base := &dto.ContentArtifact{Title: "T", Script: "S", Hashtags: []string{"keep"}}
	got := g.GeneratePlatformSpecificContent(context.Background(), base, "instagram")

	if !reflect.DeepEqual(got, base) {
		t.Errorf("适配失败应原样返回输入: got %+v", got)
	}
}

func TestNewGeneratorServiceInvalidConfig(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.DurationMinSeconds = 90
	cfg.DurationMaxSeconds = 30

	if _, err := NewGeneratorService(cfg, &stubBackend{}); err == nil {
		t.Fatal("时长区间倒置应校验失败")
	}

	cfg = DefaultGeneratorConfig()
	cfg.ContentTypes = nil
	if _, err := NewGeneratorService(cfg, &stubBackend{}); err == nil {
		t.Fatal("空内容类型列表应校验失败")
	}
}
