package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"viralforge_dev_v1_202608/internal/model"
	"viralforge_dev_v1_202608/internal/repository"
	"viralforge_dev_v1_202608/pkg/utils"
)

func TestFetchTrendingTopicsSampleFallback(t *testing.T) {
	svc := NewTrendService(TrendConfig{}, utils.NewHTTPClient(5*time.Second), nil)

	topics, err := svc.FetchTrendingTopics(context.Background())
	if err != nil {
		t.Fatalf("内置样例不应报错: %v", err)
	}
	if len(topics) == 0 {
		t.Fatal("内置样例不应为空")
	}
	for _, topic := range topics {
		if topic.Keyword == "" || topic.Source != model.TrendSourceBuiltin {
			t.Errorf("样例话题字段不正确: %+v", topic)
		}
	}
}

func TestFetchTrendingTopicsFromAPI(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"topics": [
				{"keyword": "quantum computing", "category": "technology", "search_volume": 120000, "trend_score": 0.88, "regions": ["US", "GB"]},
				{"keyword": "", "category": "ignored"},
				{"keyword": "street food", "category": "food", "search_volume": 90000, "trend_score": 0.61}
			]
		}`))
	}))
	defer server.Close()

	svc := NewTrendService(
		TrendConfig{APIURL: server.URL, APIKey: "secret"},
		utils.NewHTTPClient(5*time.Second),
		nil,
	)

	topics, err := svc.FetchTrendingTopics(context.Background())
	if err != nil {
		t.Fatalf("FetchTrendingTopics 失败: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("鉴权头不正确: %s", gotAuth)
	}
	// 空关键词应被过滤
	if len(topics) != 2 {
		t.Fatalf("话题数量不正确: got %d, want 2", len(topics))
	}
	if topics[0].Keyword != "quantum computing" || topics[0].TrendScore != 0.88 {
		t.Errorf("话题字段不正确: %+v", topics[0])
	}
	if topics[0].Source != model.TrendSourceGoogle {
		t.Errorf("来源标记不正确: %s", topics[0].Source)
	}
}

func TestFetchTrendingTopicsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := utils.NewHTTPClient(5 * time.Second)
	client.SetRetryCount(0)
	svc := NewTrendService(TrendConfig{APIURL: server.URL}, client, nil)

	if _, err := svc.FetchTrendingTopics(context.Background()); err == nil {
		t.Fatal("接口异常应报错")
	}
}

func TestRefreshTrendingTopics(t *testing.T) {
	repo := repository.NewTrendingRepository(newServiceTestDB(t))
	svc := NewTrendService(TrendConfig{}, utils.NewHTTPClient(5*time.Second), repo)

	saved, err := svc.RefreshTrendingTopics(context.Background())
	if err != nil {
		t.Fatalf("RefreshTrendingTopics 失败: %v", err)
	}
	if saved == 0 {
		t.Fatal("应至少落库一条样例话题")
	}

	topics, err := svc.ListActive(50)
	if err != nil {
		t.Fatalf("ListActive 失败: %v", err)
	}
	if len(topics) != saved {
		t.Errorf("落库条数与查询结果不一致: saved=%d listed=%d", saved, len(topics))
	}

	// 二次刷新应更新而非重复插入
	if _, err := svc.RefreshTrendingTopics(context.Background()); err != nil {
		t.Fatalf("二次刷新失败: %v", err)
	}
	topics, _ = svc.ListActive(50)
	if len(topics) != saved {
		t.Errorf("二次刷新不应产生重复话题: got %d, want %d", len(topics), saved)
	}
}
