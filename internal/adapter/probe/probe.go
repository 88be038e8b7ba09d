package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/port"
)

var _ port.Prober = (*HTTPProber)(nil)

const defaultTimeout = 15 * time.Second

// HTTPProber 对服务主地址发一次 GET，触发平台调度 Pod 并拉取镜像。
// 只要拿到响应就算预热成功，冷启动期间的 5xx 由平台自行恢复。
type HTTPProber struct {
	httpClient *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPProber{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("probe: build request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe: request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return nil
}
