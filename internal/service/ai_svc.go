package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"viralforge_dev_v1_202608/internal/api/dto"
	"viralforge_dev_v1_202608/internal/model"
	"viralforge_dev_v1_202608/internal/repository"
)

// ==================== 配置 ====================

// AIConfig Gemini 服务配置
type AIConfig struct {
	APIKey     string
	TextModel  string // 文案模型
	ImageModel string // 图像模型
	BaseURL    string // 图像接口地址，测试时可替换
}

const (
	defaultTextModel  = "gemini-2.5-flash"
	defaultImageModel = "gemini-2.5-flash-image"
	defaultBaseURL    = "https://generativelanguage.googleapis.com"
)

// 成本估算（美元），粗略值仅用于用量面板
const (
	costPerInputToken  = 0.00000030
	costPerOutputToken = 0.00000250
	costPerImage       = 0.039
)

func (c *AIConfig) applyDefaults() {
	if c.TextModel == "" {
		c.TextModel = defaultTextModel
	}
	if c.ImageModel == "" {
		c.ImageModel = defaultImageModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
}

// ==================== 服务 ====================

// ImageResult 图像生成结果
type ImageResult struct {
	URL           string
	RevisedPrompt string
	Size          string
}

// AIService Gemini 内容生成服务
// 文案走官方 SDK，图像走 HTTP 接口后转存储
type AIService struct {
	Config  AIConfig
	Storage *StorageService

	logRepo    repository.AILogRepository
	httpClient *http.Client
}

// NewAIService 创建AI服务实例，logRepo 可为 nil（不落用量日志）
func NewAIService(cfg AIConfig, storage *StorageService, logRepo repository.AILogRepository) *AIService {
	cfg.applyDefaults()
	return &AIService{
		Config:     cfg,
		Storage:    storage,
		logRepo:    logRepo,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Models 返回当前文案/图像模型名
func (s *AIService) Models() (textModel, imageModel string) {
	return s.Config.TextModel, s.Config.ImageModel
}

// ==================== 文案生成 ====================

// GenerateScript 生成视频脚本
// 模型输出非合法 JSON 时降级为兜底结构，不报错
func (s *AIService) GenerateScript(ctx context.Context, contentType model.ContentType, topic string, audience *dto.TargetAudience, durationSeconds int, location string) (map[string]interface{}, error) {
	system, prompt, _ := BuildScriptPrompt(contentType, topic, audience, durationSeconds, location)

	raw, err := s.generateText(ctx, system, prompt, true, 800, model.AIOperationScript)
	if err != nil {
		return nil, fmt.Errorf("生成脚本失败: %v", err)
	}

	return parseScriptPayload(raw, topic, contentType), nil
}

// GenerateHashtags 生成话题标签，platform 为空时默认 instagram
func (s *AIService) GenerateHashtags(ctx context.Context, content string, platform string, maxCount int) ([]string, error) {
	if platform == "" {
		platform = model.PlatformInstagram
	}
	if maxCount <= 0 {
		maxCount = 20
	}

	prompt := BuildHashtagPrompt(content, platform, maxCount)
	raw, err := s.generateText(ctx, "", prompt, false, 300, model.AIOperationHashtags)
	if err != nil {
		return nil, fmt.Errorf("生成话题标签失败: %v", err)
	}

	return parseHashtags(raw, maxCount), nil
}

// GenerateImagePrompt 根据内容生成图像提示词
func (s *AIService) GenerateImagePrompt(ctx context.Context, content string, style string, aspectRatio string) (string, error) {
	prompt := BuildImagePromptPrompt(content, style, aspectRatio)
	raw, err := s.generateText(ctx, "", prompt, false, 300, model.AIOperationImagePrompt)
	if err != nil {
		return "", fmt.Errorf("生成图像提示词失败: %v", err)
	}
	return strings.TrimSpace(raw), nil
}

// GenerateCaption 生成平台文案
func (s *AIService) GenerateCaption(ctx context.Context, content string, platform string, tone string, includeCTA bool) (string, error) {
	prompt := BuildCaptionPrompt(content, platform, tone, includeCTA)
	raw, err := s.generateText(ctx, "", prompt, false, 400, model.AIOperationCaption)
	if err != nil {
		return "", fmt.Errorf("生成平台文案失败: %v", err)
	}
	return strings.TrimSpace(raw), nil
}

// generateText 调用 Gemini 文案接口的公共入口
func (s *AIService) generateText(ctx context.Context, system string, prompt string, jsonMode bool, maxTokens int32, operation string) (string, error) {
	if s.Config.APIKey == "" {
		return "", fmt.Errorf("未配置 GEMINI_API_KEY")
	}

	start := time.Now()

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.Config.APIKey))
	if err != nil {
		s.logUsage(operation, model.AICallTypeText, s.Config.TextModel, 0, 0, 0, time.Since(start), err)
		return "", fmt.Errorf("创建客户端失败: %v", err)
	}
	defer client.Close()

	gm := client.GenerativeModel(s.Config.TextModel)
	gm.SetTemperature(0.8)
	gm.SetTopP(0.9)
	gm.SetMaxOutputTokens(maxTokens)
	if jsonMode {
		gm.ResponseMIMEType = "application/json"
	}
	if system != "" {
		gm.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		s.logUsage(operation, model.AICallTypeText, s.Config.TextModel, 0, 0, 0, time.Since(start), err)
		return "", err
	}

	var inputTokens, outputTokens int
	if resp.UsageMetadata != nil {
		inputTokens = int(resp.UsageMetadata.PromptTokenCount)
		outputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	text := extractText(resp)
	if text == "" {
		err = fmt.Errorf("模型返回空内容")
		s.logUsage(operation, model.AICallTypeText, s.Config.TextModel, inputTokens, outputTokens, 0, time.Since(start), err)
		return "", err
	}

	s.logUsage(operation, model.AICallTypeText, s.Config.TextModel, inputTokens, outputTokens, 0, time.Since(start), nil)
	return text, nil
}

// extractText 拼接响应中的全部文本片段
func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

// cleanJSONFence 去掉模型偶尔包裹的 markdown 代码块标记
func cleanJSONFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// parseScriptPayload 解析脚本 JSON，失败时降级为兜底结构
func parseScriptPayload(raw string, topic string, contentType model.ContentType) map[string]interface{} {
	cleaned := cleanJSONFence(raw)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil && payload != nil {
		return payload
	}

	log.Printf("[AIService] 脚本响应非合法 JSON，使用原始文本兜底 (topic=%s)", topic)
	return map[string]interface{}{
		"script":      raw,
		"title":       topic,
		"description": fmt.Sprintf("AI-generated %s content", contentType),
	}
}

// parseHashtags 从模型输出中提取标签，去掉#号并限制数量
func parseHashtags(raw string, maxCount int) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ',' || r == ' ' || r == '\t'
	})

	tags := make([]string, 0, maxCount)
	seen := make(map[string]struct{})
	for _, f := range fields {
		tag := strings.TrimSpace(strings.TrimPrefix(f, "#"))
		if tag == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(tag)]; dup {
			continue
		}
		seen[strings.ToLower(tag)] = struct{}{}
		tags = append(tags, tag)
		if len(tags) >= maxCount {
			break
		}
	}
	return tags
}

// ==================== 图像生成 ====================

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiImageRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type geminiImageResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text,omitempty"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateImage 生成图片并转存，返回公开 URL
// size/quality 拼入提示词引导输出规格
func (s *AIService) GenerateImage(ctx context.Context, prompt string, size string, quality string) (*ImageResult, error) {
	if s.Config.APIKey == "" {
		return nil, fmt.Errorf("未配置 GEMINI_API_KEY")
	}
	if s.Storage == nil {
		return nil, fmt.Errorf("未配置存储服务")
	}

	start := time.Now()

	fullPrompt := prompt
	if size != "" || quality != "" {
		fullPrompt = fmt.Sprintf("%s\n\nOutput specification: %s resolution, %s quality.", prompt, size, quality)
	}

	var reqBody geminiImageRequest
	reqBody.Contents = []geminiContent{{Parts: []geminiPart{{Text: fullPrompt}}}}
	reqBody.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %v", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(s.Config.BaseURL, "/"), s.Config.ImageModel, s.Config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logUsage(model.AIOperationImage, model.AICallTypeImage, s.Config.ImageModel, 0, 0, 0, time.Since(start), err)
		return nil, fmt.Errorf("调用图像接口失败: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("图像接口返回 %d: %s", resp.StatusCode, truncate(string(body), 200))
		s.logUsage(model.AIOperationImage, model.AICallTypeImage, s.Config.ImageModel, 0, 0, 0, time.Since(start), err)
		return nil, err
	}

	var imgResp geminiImageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("解析图像响应失败: %v", err)
	}
	if imgResp.Error != nil {
		err = fmt.Errorf("图像接口错误 %d: %s", imgResp.Error.Code, imgResp.Error.Message)
		s.logUsage(model.AIOperationImage, model.AICallTypeImage, s.Config.ImageModel, 0, 0, 0, time.Since(start), err)
		return nil, err
	}

	var imageData, revised string
	for _, cand := range imgResp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && imageData == "" {
				imageData = part.InlineData.Data
			}
			if part.Text != "" && revised == "" {
				revised = strings.TrimSpace(part.Text)
			}
		}
	}
	if imageData == "" {
		err = fmt.Errorf("响应中没有图像数据")
		s.logUsage(model.AIOperationImage, model.AICallTypeImage, s.Config.ImageModel, 0, 0, 0, time.Since(start), err)
		return nil, err
	}

	fileURL, err := s.Storage.SaveBase64(ctx, imageData, "images")
	if err != nil {
		return nil, fmt.Errorf("保存图片失败: %v", err)
	}

	s.logUsage(model.AIOperationImage, model.AICallTypeImage, s.Config.ImageModel, 0, 0, 1, time.Since(start), nil)

	return &ImageResult{
		URL:           fileURL,
		RevisedPrompt: revised,
		Size:          size,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ==================== 用量记录 ====================

// logUsage 异步落调用日志，失败只打日志不影响主流程
func (s *AIService) logUsage(operation, callType, modelName string, inputTokens, outputTokens, imageCount int, duration time.Duration, callErr error) {
	if s.logRepo == nil {
		return
	}

	entry := &model.AICallLog{
		ServiceName:  "gemini",
		CallType:     callType,
		ModelName:    modelName,
		Operation:    operation,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		ImageCount:   imageCount,
		DurationMs:   duration.Milliseconds(),
		Status:       model.AICallStatusSuccess,
	}
	entry.CostUSD = float64(inputTokens)*costPerInputToken +
		float64(outputTokens)*costPerOutputToken +
		float64(imageCount)*costPerImage
	if callErr != nil {
		entry.Status = model.AICallStatusFailed
		entry.ErrorMsg = truncate(callErr.Error(), 1000)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[AIService] 写调用日志发生panic: %v", r)
			}
		}()
		if err := s.logRepo.Create(entry); err != nil {
			log.Printf("[AIService] 写调用日志失败: %v", err)
		}
	}()
}
