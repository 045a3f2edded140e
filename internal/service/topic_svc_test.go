package service

import (
	"math/rand"
	"strings"
	"testing"

	"viralforge_dev_v1_202608/internal/model"
)

func TestSelectTopicFromPool(t *testing.T) {
	s := NewTopicSelector(rand.New(rand.NewSource(1)))

	pool := topicPools[model.ContentTypeFacts]
	for i := 0; i < 50; i++ {
		topic := s.SelectTopic(model.ContentTypeFacts, "")
		found := false
		for _, p := range pool {
			if topic == p {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("选题不在候选池中: %s", topic)
		}
	}
}

func TestSelectTopicLocationParameterized(t *testing.T) {
	s := NewTopicSelector(rand.New(rand.NewSource(1)))

	for i := 0; i < 20; i++ {
		topic := s.SelectTopic(model.ContentTypeLocation, "Tokyo")
		if !strings.Contains(topic, "Tokyo") {
			t.Fatalf("地域选题应包含地点: %s", topic)
		}
	}
}

func TestSelectTopicLocationDefault(t *testing.T) {
	s := NewTopicSelector(rand.New(rand.NewSource(1)))

	topic := s.SelectTopic(model.ContentTypeLocation, "")
	if !strings.Contains(topic, "your city") {
		t.Errorf("地点缺省应使用 your city: %s", topic)
	}
}

func TestSelectTopicUnknownType(t *testing.T) {
	s := NewTopicSelector(nil)

	topic := s.SelectTopic(model.ContentType("podcast"), "")
	if topic != "general interest" {
		t.Errorf("未知类型应返回通用选题: got %s", topic)
	}
}

func TestSelectTopicSafeRecovers(t *testing.T) {
	s := NewTopicSelector(nil)

	// 正常路径下 Safe 版本与普通版本行为一致
	topic := s.SelectTopicSafe(model.ContentType("unknown"), "")
	if topic != "general interest" {
		t.Errorf("SelectTopicSafe 结果不正确: got %s", topic)
	}
}
