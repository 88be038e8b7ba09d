package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/port"
)

const (
	defaultTailLines = 100
	maxTailLines     = 5000
)

type LogService struct {
	cp port.ControlPlane
}

func NewLogService(cp port.ControlPlane) *LogService {
	return &LogService{cp: cp}
}

// GetLogs 返回应用最新 Pod 的末尾日志。
// 没有 Pod（缩容到零）是预期状态，返回说明而不是错误。
func (s *LogService) GetLogs(ctx context.Context, namespace, name string, tailLines int64) (*domain.LogResult, error) {
	if _, err := s.cp.GetWorkload(ctx, namespace, name); err != nil {
		return nil, err
	}

	if tailLines <= 0 {
		tailLines = defaultTailLines
	}
	if tailLines > maxTailLines {
		tailLines = maxTailLines
	}

	pods, err := s.cp.ListAppPods(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	if len(pods) == 0 {
		return &domain.LogResult{
			Name:      name,
			Namespace: namespace,
			Message:   "No pods found for this app. The app may not be running yet or scaled to zero.",
		}, nil
	}

	// 取创建时间最新的 Pod，时间相同不保证稳定
	latest := pods[0]
	for _, p := range pods[1:] {
		if p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}

	logs, err := s.cp.PodLogs(ctx, namespace, latest.Name, tailLines)
	if err != nil {
		// Pod 可能还没到可读日志的阶段，降级为说明信息
		slog.Warn("pod logs unavailable",
			"pod", latest.Name, "phase", latest.Phase, "namespace", namespace, "error", err)
		return &domain.LogResult{
			Name:      name,
			Namespace: namespace,
			PodName:   latest.Name,
			PodStatus: latest.Phase,
			Message:   fmt.Sprintf("Pod is in %s state and logs are not available yet.", latest.Phase),
		}, nil
	}

	return &domain.LogResult{
		Name:      name,
		Namespace: namespace,
		PodName:   latest.Name,
		PodStatus: latest.Phase,
		TailLines: tailLines,
		Logs:      logs,
	}, nil
}
