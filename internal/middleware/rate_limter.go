package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== 触发类型 ====================

// TriggerType 限频操作类型
type TriggerType string

const (
	TriggerDailyGeneration TriggerType = "daily_generation"
	TriggerBulkGeneration  TriggerType = "bulk_generation"
	TriggerTrendingRefresh TriggerType = "trending_refresh"
)

// GlobalTriggerKey 全局限频用的固定键（按操作维度而非调用方维度限频）
const GlobalTriggerKey = "global"

// DefaultIntervals 各操作的默认最小触发间隔
var DefaultIntervals = map[TriggerType]time.Duration{
	TriggerDailyGeneration: 10 * time.Minute,
	TriggerBulkGeneration:  1 * time.Minute,
	TriggerTrendingRefresh: 5 * time.Minute,
}

// ==================== 限频器 ====================

type lockEntry struct {
	mu         sync.Mutex
	lastExec   time.Time
	inProgress bool
}

// SyncRateLimiter 手动触发入口的限频器
// 同一操作同一键在间隔内只允许执行一次，且不允许并发执行
type SyncRateLimiter struct {
	entries   sync.Map // map[string]*lockEntry
	intervals map[TriggerType]time.Duration
}

func NewSyncRateLimiter() *SyncRateLimiter {
	return &SyncRateLimiter{intervals: DefaultIntervals}
}

func (l *SyncRateLimiter) entryFor(trigger TriggerType, key string) *lockEntry {
	mapKey := fmt.Sprintf("%s:%s", trigger, key)
	actual, _ := l.entries.LoadOrStore(mapKey, &lockEntry{})
	return actual.(*lockEntry)
}

func (l *SyncRateLimiter) interval(trigger TriggerType) time.Duration {
	if d, ok := l.intervals[trigger]; ok {
		return d
	}
	return time.Minute
}

// Check 尝试获取执行资格
// 返回 false 时附带剩余等待时间，执行完成后必须调用 MarkExecuted
func (l *SyncRateLimiter) Check(trigger TriggerType, key string) (bool, time.Duration) {
	entry := l.entryFor(trigger, key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.inProgress {
		return false, 0
	}

	elapsed := time.Since(entry.lastExec)
	if interval := l.interval(trigger); elapsed < interval {
		return false, interval - elapsed
	}

	entry.inProgress = true
	return true, 0
}

// CheckOnly 只查询是否可执行，不占用执行资格
func (l *SyncRateLimiter) CheckOnly(trigger TriggerType, key string) (bool, time.Duration) {
	entry := l.entryFor(trigger, key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.inProgress {
		return false, 0
	}
	elapsed := time.Since(entry.lastExec)
	if interval := l.interval(trigger); elapsed < interval {
		return false, interval - elapsed
	}
	return true, 0
}

// MarkExecuted 标记执行结束并刷新时间戳
func (l *SyncRateLimiter) MarkExecuted(trigger TriggerType, key string) {
	entry := l.entryFor(trigger, key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.inProgress = false
	entry.lastExec = time.Now()
}
