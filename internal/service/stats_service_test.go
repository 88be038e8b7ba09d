package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
)

func TestGetTraffic(t *testing.T) {
	cp := &stubControlPlane{workload: &domain.AppDetail{Name: "demo"}}
	edge := &stubEdge{stats: &domain.TrafficStats{Host: "demo.apps.example.net", Requests: 42}}
	svc := NewStatsService(cp, edge, "apps.example.net")

	stats, err := svc.GetTraffic(context.Background(), "default", "demo", "1h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Requests != 42 {
		t.Errorf("requests = %d", stats.Requests)
	}
}

func TestGetTraffic_InvalidSince(t *testing.T) {
	cp := &stubControlPlane{workload: &domain.AppDetail{Name: "demo"}}
	svc := NewStatsService(cp, &stubEdge{}, "apps.example.net")

	_, err := svc.GetTraffic(context.Background(), "default", "demo", "yesterday")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetTraffic_AppNotFound(t *testing.T) {
	cp := &stubControlPlane{getErr: domain.ErrAppNotFound}
	svc := NewStatsService(cp, &stubEdge{}, "apps.example.net")

	_, err := svc.GetTraffic(context.Background(), "default", "ghost", "1h")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTraffic_EdgeNotConfigured(t *testing.T) {
	cp := &stubControlPlane{workload: &domain.AppDetail{Name: "demo"}}
	svc := NewStatsService(cp, nil, "apps.example.net")

	_, err := svc.GetTraffic(context.Background(), "default", "demo", "1h")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
