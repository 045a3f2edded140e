package service

import (
	"fmt"
	"strings"

	"viralforge_dev_v1_202608/internal/api/dto"
	"viralforge_dev_v1_202608/internal/model"
)

// ==================== 提示词构建 ====================

// scriptPolicy 每种内容类型的脚本提示词策略
type scriptPolicy struct {
	system       string   // 系统指令
	requirements string   // 类型特定要求
	extraKeys    []string // 类型特有的输出字段
	jsonExample  string   // 期望 JSON 结构示例
}

// commonScriptKeys 所有类型都要求的输出字段
var commonScriptKeys = []string{"title", "script", "description"}

var scriptPolicies = map[model.ContentType]scriptPolicy{
	model.ContentTypeFacts: {
		system:       "You are a viral short-form video scriptwriter specializing in surprising, verifiable facts.",
		requirements: "- Open with a hook that makes viewers stop scrolling\n- Present one surprising but verifiable fact\n- Cite where the fact comes from",
		extraKeys:    []string{"fact", "sources"},
		jsonExample:  `{"title": "...", "script": "...", "description": "...", "fact": "the core fact in one sentence", "sources": ["source 1"]}`,
	},
	model.ContentTypeTrivia: {
		system:       "You are a viral short-form video scriptwriter specializing in engaging trivia questions.",
		requirements: "- Pose a question that makes viewers want to guess\n- Build suspense before revealing the answer\n- Keep the answer short and satisfying",
		extraKeys:    []string{"question", "answer"},
		jsonExample:  `{"title": "...", "script": "...", "description": "...", "question": "the trivia question", "answer": "the correct answer"}`,
	},
	model.ContentTypeMemes: {
		system:       "You are a viral short-form video scriptwriter specializing in relatable meme concepts.",
		requirements: "- Describe a highly relatable situation\n- Lean into the humor style that fits the topic\n- Keep it punchy",
		extraKeys:    []string{"concept", "humor_type"},
		jsonExample:  `{"title": "...", "script": "...", "description": "...", "concept": "the meme concept", "humor_type": "relatable/absurd/ironic"}`,
	},
	model.ContentTypeQuotes: {
		system:       "You are a viral short-form video scriptwriter specializing in inspirational quotes.",
		requirements: "- Center the script around one powerful quote\n- Attribute the quote correctly\n- Add brief context on why it matters",
		extraKeys:    []string{"quote", "author", "context"},
		jsonExample:  `{"title": "...", "script": "...", "description": "...", "quote": "the quote text", "author": "who said it", "context": "why it matters"}`,
	},
	model.ContentTypeLocation: {
		system:       "You are a viral short-form video scriptwriter specializing in travel and local discovery content.",
		requirements: "- Share a lesser-known fact about the location\n- Include one practical travel tip\n- Make viewers want to visit",
		extraKeys:    []string{"location_fact", "travel_tip"},
		jsonExample:  `{"title": "...", "script": "...", "description": "...", "location_fact": "surprising fact about the place", "travel_tip": "one practical tip"}`,
	},
}

// genericPolicy 未知类型的兜底策略，只要求公共字段
var genericPolicy = scriptPolicy{
	system:       "You are a viral short-form video scriptwriter.",
	requirements: "- Open with a strong hook\n- Deliver clear value to the viewer\n- End with a reason to rewatch or share",
	extraKeys:    nil,
	jsonExample:  `{"title": "...", "script": "...", "description": "..."}`,
}

// BuildScriptPrompt 构建脚本生成提示词
// 返回系统指令、用户提示词以及期望输出必须包含的字段
func BuildScriptPrompt(contentType model.ContentType, topic string, audience *dto.TargetAudience, durationSeconds int, location string) (system string, prompt string, requiredKeys []string) {
	policy, ok := scriptPolicies[contentType]
	if !ok {
		policy = genericPolicy
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s video script about: %s\n\n", contentType, topic)
	fmt.Fprintf(&b, "Target duration: %d seconds of spoken narration.\n", durationSeconds)

	if audience != nil {
		fmt.Fprintf(&b, "Target audience: ages %s, located in %s, interested in %s.\n",
			joinOr(audience.AgeGroups, "all ages"),
			joinOr(audience.Locations, "worldwide"),
			joinOr(audience.Interests, "general topics"))
	}
	if location != "" {
		fmt.Fprintf(&b, "Location context: %s.\n", location)
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString(policy.requirements)
	b.WriteString("\n\nRespond with JSON only, exactly this structure:\n")
	b.WriteString(policy.jsonExample)

	keys := append([]string{}, commonScriptKeys...)
	keys = append(keys, policy.extraKeys...)
	return policy.system, b.String(), keys
}

// BuildHashtagPrompt 构建话题标签生成提示词
func BuildHashtagPrompt(content string, platform string, maxCount int) string {
	return fmt.Sprintf(
		"Generate up to %d trending hashtags for this %s post. "+
			"Mix broad-reach and niche tags. Return one hashtag per line, nothing else.\n\nContent:\n%s",
		maxCount, platform, content)
}

// BuildImagePromptPrompt 构建「图像提示词生成」的提示词
func BuildImagePromptPrompt(content string, style string, aspectRatio string) string {
	return fmt.Sprintf(
		"Write a single detailed image generation prompt for a %s style visual in %s aspect ratio "+
			"that matches this content. Describe subject, composition, lighting and mood. "+
			"Return only the prompt text.\n\nContent:\n%s",
		style, aspectRatio, content)
}

// BuildCaptionPrompt 构建平台文案提示词
func BuildCaptionPrompt(content string, platform string, tone string, includeCTA bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s caption for %s based on this content. ", tone, platform)
	b.WriteString("Keep it concise and native to the platform. ")
	if includeCTA {
		b.WriteString("End with a call to action that drives comments or shares. ")
	}
	b.WriteString("Return only the caption text.\n\nContent:\n")
	b.WriteString(content)
	return b.String()
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
