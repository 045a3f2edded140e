package service

import (
	"fmt"
	"math/rand"

	"viralforge_dev_v1_202608/internal/model"
)

// ==================== 选题 ====================

// 各内容类型的候选选题池
var topicPools = map[model.ContentType][]string{
	model.ContentTypeFacts: {
		"amazing science facts",
		"historical mysteries",
		"animal kingdom secrets",
		"space exploration discoveries",
		"human body wonders",
		"ocean depth mysteries",
		"technology breakthroughs",
		"psychology insights",
	},
	model.ContentTypeTrivia: {
		"movie trivia",
		"sports records",
		"geography challenges",
		"music history",
		"food origins",
		"famous inventions",
		"world capitals",
		"pop culture moments",
	},
	model.ContentTypeMemes: {
		"relatable work situations",
		"everyday life struggles",
		"social media habits",
		"generational differences",
		"pet owner moments",
		"cooking fails",
		"technology frustrations",
	},
	model.ContentTypeQuotes: {
		"motivational success quotes",
		"wisdom from great thinkers",
		"perseverance and resilience",
		"creativity and innovation",
		"leadership lessons",
		"happiness and gratitude",
	},
}

// 地域类内容的选题模板，填入具体地点
var locationTopicTemplates = []string{
	"hidden gems in %s",
	"local food culture of %s",
	"surprising history of %s",
	"best photo spots in %s",
	"local traditions in %s",
}

// fallbackTopic 选题池为空或异常时的兜底
const fallbackTopic = "interesting facts"

// TopicSelector 选题器
// 从内置选题池随机抽取，地域类内容按地点参数化
type TopicSelector struct {
	rng *rand.Rand
}

// NewTopicSelector 创建选题器，rng 为 nil 时使用全局随机源
func NewTopicSelector(rng *rand.Rand) *TopicSelector {
	return &TopicSelector{rng: rng}
}

func (s *TopicSelector) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

// SelectTopic 为指定内容类型挑选一个选题
// 地域类内容需要地点参数，缺省用 "your city"
func (s *TopicSelector) SelectTopic(contentType model.ContentType, location string) string {
	if contentType == model.ContentTypeLocation {
		if location == "" {
			location = "your city"
		}
		tpl := locationTopicTemplates[s.intn(len(locationTopicTemplates))]
		return fmt.Sprintf(tpl, location)
	}

	pool, ok := topicPools[contentType]
	if !ok || len(pool) == 0 {
		return "general interest"
	}
	return pool[s.intn(len(pool))]
}

// SelectTopicSafe 带兜底的选题，任何意外都返回固定选题
func (s *TopicSelector) SelectTopicSafe(contentType model.ContentType, location string) (topic string) {
	defer func() {
		if r := recover(); r != nil {
			topic = fallbackTopic
		}
	}()
	return s.SelectTopic(contentType, location)
}
