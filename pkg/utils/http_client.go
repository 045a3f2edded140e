package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewHTTPClient 创建统一配置的 HTTP 客户端
// 外部接口调用（趋势数据等）都走这里，保持超时与 UA 一致
func NewHTTPClient(timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "viralforge/1.0")
	client.SetRetryCount(2)
	client.SetRetryWaitTime(2 * time.Second)
	return client
}
