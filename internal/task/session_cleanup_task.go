package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"inmo_dev_v1_202608/internal/service"
)

// SessionCleanupTask 向导会话清理任务
// 长期闲置的会话标记过期，同时释放其暂存图片对象
type SessionCleanupTask struct {
	WizardService *service.WizardService
	Cron          *cron.Cron

	// staleAfter 会话闲置多久视为过期
	staleAfter time.Duration
}

func NewSessionCleanupTask(wizardService *service.WizardService, staleAfter time.Duration) *SessionCleanupTask {
	if staleAfter <= 0 {
		staleAfter = 72 * time.Hour
	}
	return &SessionCleanupTask{
		WizardService: wizardService,
		Cron:          cron.New(cron.WithSeconds()),
		staleAfter:    staleAfter,
	}
}

// Start 启动定时任务
func (t *SessionCleanupTask) Start() {
	// 每小时整点清理一次
	_, err := t.Cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		t.cleanupJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动会话清理定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("会话清理任务已启动 (每小时检查一次)")
}

// Stop 停止定时任务
func (t *SessionCleanupTask) Stop() {
	t.Cron.Stop()
}

// cleanupJob 清理逻辑
func (t *SessionCleanupTask) cleanupJob(ctx context.Context) {
	before := time.Now().Add(-t.staleAfter)
	expired, err := t.WizardService.ExpireStale(ctx, before)
	if err != nil {
		log.Printf("[Cron] 会话清理失败: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("[Cron] 本轮过期会话 %d 个", expired)
	}
}
