package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"inmo_dev_v1_202608/pkg/inmo"
)

// TokenTask 平台令牌保活任务
// 平台访问令牌有效期较短，定时用刷新令牌换取新令牌对；
// 刷新令牌会随每次刷新轮换，必须持有最新值
type TokenTask struct {
	Client *inmo.Client
	Cron   *cron.Cron

	mu           sync.Mutex
	refreshToken string
}

func NewTokenTask(client *inmo.Client, initialRefreshToken string) *TokenTask {
	return &TokenTask{
		Client:       client,
		Cron:         cron.New(cron.WithSeconds()), // 支持秒级控制
		refreshToken: initialRefreshToken,
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次平台令牌刷新...")
		t.refreshJob(ctx)
	}()

	// 定时策略
	_, err := t.Cron.AddFunc("0 0/40 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		t.refreshJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动平台令牌定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("平台令牌保活任务已启动 (每40分钟刷新一次)")
}

// Stop 停止定时任务
func (t *TokenTask) Stop() {
	t.Cron.Stop()
}

// refreshJob 刷新逻辑
func (t *TokenTask) refreshJob(ctx context.Context) {
	t.mu.Lock()
	current := t.refreshToken
	t.mu.Unlock()

	if current == "" {
		log.Println("[Cron] 平台刷新令牌未配置，跳过刷新")
		return
	}

	pair, err := t.Client.RefreshSession(ctx, current)
	if err != nil {
		log.Printf("[Cron] 平台令牌刷新失败: %v", err)
		return
	}

	t.Client.SetToken(pair.AccessToken)

	t.mu.Lock()
	if pair.RefreshToken != "" {
		t.refreshToken = pair.RefreshToken
	}
	t.mu.Unlock()

	log.Printf("[Cron] 平台令牌刷新成功，有效期 %d 秒", pair.ExpiresIn)
}
