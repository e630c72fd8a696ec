package relation

import (
	"context"
	"time"

	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/config"
	"circle_pipeline/pkg/errorx"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"
)

// Evictor 周期性清理过期的非好友条目
// 设置 cron 表达式时按 cron 触发，否则按固定间隔
type Evictor struct {
	store    cache.Maintenance
	maxAge   time.Duration
	interval time.Duration
	cron     string
	now      func() time.Time
}

// NewEvictor 由缓存配置创建清理器，cron 表达式非法时返回错误
func NewEvictor(store cache.Maintenance, cfg *config.CacheConfig) (*Evictor, error) {
	gron := gronx.New()
	if cfg.EvictCron != "" && !gron.IsValid(cfg.EvictCron) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "invalid evictCron %q", cfg.EvictCron)
	}
	return &Evictor{
		store:    store,
		maxAge:   cfg.StaleMaxAge,
		interval: cfg.EvictInterval,
		cron:     cfg.EvictCron,
		now:      time.Now,
	}, nil
}

// Run 阻塞运行直到 ctx 结束
func (e *Evictor) Run(ctx context.Context) error {
	zap.L().Info("evictor start", zap.String("cron", e.cron), zap.Duration("interval", e.interval))
	for {
		timer := time.NewTimer(e.next(e.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			zap.L().Info("evictor stop")
			return nil
		case <-timer.C:
		}
		if n := e.store.EvictStale(e.maxAge); n > 0 {
			zap.L().Info("stale entries evicted", zap.Int("count", n))
		}
	}
}

// next 距下一次清理的等待时长
func (e *Evictor) next(now time.Time) time.Duration {
	if e.cron != "" {
		tick, err := gronx.NextTickAfter(e.cron, now, false)
		if err == nil {
			return tick.Sub(now)
		}
		zap.L().Warn("evict cron next tick failed, falling back to interval", zap.Error(err))
	}
	return e.interval
}
