package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestContentArtifactMarshalMergesExtra(t *testing.T) {
	artifact := ContentArtifact{
		ContentType: "trivia",
		Title:       "T",
		Hashtags:    []string{"a"},
		GeneratedAt: time.Now(),
		Extra: map[string]interface{}{
			"question": "Q?",
			"answer":   "A",
			// 与顶层同名的键不应覆盖顶层
			"title": "SHOULD NOT OVERRIDE",
		},
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}

	if m["question"] != "Q?" || m["answer"] != "A" {
		t.Errorf("特有字段未平铺到顶层: %v", m)
	}
	if m["title"] != "T" {
		t.Errorf("顶层字段被 Extra 覆盖: %v", m["title"])
	}
	if _, exists := m["extra"]; exists {
		t.Error("不应出现 extra 包装字段")
	}
}

func TestContentArtifactMarshalOmitsAdaptFields(t *testing.T) {
	data, err := json.Marshal(ContentArtifact{ContentType: "facts"})
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}
	for _, key := range []string{"platform", "caption", "adapted_at"} {
		if _, exists := m[key]; exists {
			t.Errorf("未适配时不应输出 %s 字段", key)
		}
	}
}

func TestContentArtifactClone(t *testing.T) {
	original := &ContentArtifact{
		Title:    "T",
		Hashtags: []string{"a", "b"},
		TargetAudience: &TargetAudience{
			AgeGroups: []string{"18-24"},
		},
		Extra: map[string]interface{}{"k": "v"},
	}

	cp := original.Clone()
	cp.Hashtags[0] = "changed"
	cp.TargetAudience.AgeGroups[0] = "changed"
	cp.Extra["k"] = "changed"

	if original.Hashtags[0] != "a" {
		t.Error("Clone 后标签不应共享底层数组")
	}
	if original.TargetAudience.AgeGroups[0] != "18-24" {
		t.Error("Clone 后受众不应共享")
	}
	if original.Extra["k"] != "v" {
		t.Error("Clone 后 Extra 不应共享")
	}
}
