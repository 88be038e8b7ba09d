package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/port"
)

type StatsService struct {
	cp         port.ControlPlane
	edge       port.EdgeCache
	baseDomain string
}

func NewStatsService(cp port.ControlPlane, edge port.EdgeCache, baseDomain string) *StatsService {
	return &StatsService{cp: cp, edge: edge, baseDomain: baseDomain}
}

// GetTraffic 查询应用主域名的边缘流量指标。since 为 Go duration 字符串（如 "1h"）。
func (s *StatsService) GetTraffic(ctx context.Context, namespace, name, since string) (*domain.TrafficStats, error) {
	if _, err := s.cp.GetWorkload(ctx, namespace, name); err != nil {
		return nil, err
	}
	if s.edge == nil {
		return nil, fmt.Errorf("%w: edge analytics is not configured", domain.ErrInvalidInput)
	}

	if since == "" {
		since = "1h"
	}
	duration, err := time.ParseDuration(since)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid since %q: %v", domain.ErrInvalidInput, since, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: since must be positive", domain.ErrInvalidInput)
	}

	until := time.Now()
	host := domain.PrimaryHost(name, s.baseDomain)
	return s.edge.QueryTraffic(ctx, host, until.Add(-duration), until)
}
