package port

import (
	"context"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
)

// EdgeCache 封装 CDN 边缘的缓存清除和流量查询。
type EdgeCache interface {
	// PurgeHosts 按主机名（而非路径）清除边缘缓存。
	PurgeHosts(ctx context.Context, hosts []string) error
	QueryTraffic(ctx context.Context, host string, since, until time.Time) (*domain.TrafficStats, error)
}

// Prober 发起预热请求，促使平台提前调度 Pod 并拉取镜像。
type Prober interface {
	Probe(ctx context.Context, url string) error
}
