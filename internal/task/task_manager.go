package task

import (
	"log"

	"github.com/robfig/cron/v3"
)

// ==================== 任务管理器 ====================

// ScheduledTask 可调度任务
type ScheduledTask interface {
	Execute()
}

// TaskManager 统一管理定时任务
type TaskManager struct {
	cron *cron.Cron
}

func NewTaskManager() *TaskManager {
	return &TaskManager{
		// 6段表达式，秒级精度
		cron: cron.New(cron.WithSeconds()),
	}
}

// Register 注册定时任务
func (m *TaskManager) Register(name string, spec string, t ScheduledTask) error {
	_, err := m.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[TaskManager] 任务 %s 发生panic: %v", name, r)
			}
		}()
		t.Execute()
	})
	if err != nil {
		return err
	}
	log.Printf("[TaskManager] 已注册任务: %s (%s)", name, spec)
	return nil
}

// Start 启动调度
func (m *TaskManager) Start() {
	m.cron.Start()
	log.Println("[TaskManager] 定时任务调度已启动")
}

// Stop 停止调度，等待运行中的任务结束
func (m *TaskManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("[TaskManager] 定时任务调度已停止")
}
