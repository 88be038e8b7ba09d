package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/port"
)

const (
	defaultCorrectorAttempts = 30
	defaultCorrectorInterval = time.Second
)

// AutoscalerCorrector 等待控制面派生出新 revision 的自动扩缩资源，
// 再把最小副本注解压回 0。平台在创建时不接受这个值，
// 只能在资源派生后修正，因此需要有界轮询。
type AutoscalerCorrector struct {
	cp       port.ControlPlane
	attempts int
	interval time.Duration
}

func NewAutoscalerCorrector(cp port.ControlPlane, attempts int, interval time.Duration) *AutoscalerCorrector {
	if attempts <= 0 {
		attempts = defaultCorrectorAttempts
	}
	if interval <= 0 {
		interval = defaultCorrectorInterval
	}
	return &AutoscalerCorrector{cp: cp, attempts: attempts, interval: interval}
}

// RunDetached 脱离请求生命周期执行修正，自带超时，调用方直接 go 出去即可。
func (c *AutoscalerCorrector) RunDetached(namespace, name string) {
	timeout := time.Duration(c.attempts)*c.interval + 10*time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	c.Run(ctx, namespace, name)
}

// Run 轮询直到修正成功或尝试次数耗尽。除成功外任何单次错误都不终止循环。
func (c *AutoscalerCorrector) Run(ctx context.Context, namespace, name string) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= c.attempts; attempt++ {
		revision, err := c.cp.LatestCreatedRevision(ctx, namespace, name)
		if err != nil {
			slog.Warn("autoscaler correction: revision lookup failed",
				"name", name, "namespace", namespace, "attempt", attempt, "error", err)
		} else if revision != "" {
			err := c.cp.ZeroAutoscalerFloor(ctx, namespace, revision)
			if err == nil {
				slog.Info("autoscaler floor corrected",
					"name", name, "revision", revision, "attempt", attempt)
				return
			}
			if !errors.Is(err, domain.ErrNotFound) {
				// 自动扩缩资源还没派生出来属于正常等待，其他错误记下来继续试
				slog.Warn("autoscaler correction attempt failed",
					"name", name, "revision", revision, "attempt", attempt, "error", err)
			}
		}

		select {
		case <-ctx.Done():
			slog.Warn("autoscaler correction cancelled",
				"name", name, "namespace", namespace, "attempt", attempt)
			return
		case <-ticker.C:
		}
	}

	slog.Warn("autoscaler correction gave up",
		"name", name, "namespace", namespace, "attempts", c.attempts)
}
