package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
)

func TestGetLogs_NoPodsIsNotAnError(t *testing.T) {
	cp := &stubControlPlane{workload: &domain.AppDetail{Name: "demo"}}
	svc := NewLogService(cp)

	result, err := svc.GetLogs(context.Background(), "default", "demo", 100)
	if err != nil {
		t.Fatalf("scaled-to-zero must not be an error: %v", err)
	}
	if result.Message == "" {
		t.Error("expected an explanatory message")
	}
	if !strings.Contains(result.Message, "scaled to zero") {
		t.Errorf("message = %q", result.Message)
	}
}

func TestGetLogs_PicksLatestPod(t *testing.T) {
	now := time.Now()
	cp := &stubControlPlane{
		workload: &domain.AppDetail{Name: "demo"},
		pods: []domain.PodSummary{
			{Name: "old-pod", Phase: "Running", CreatedAt: now.Add(-time.Hour)},
			{Name: "new-pod", Phase: "Running", CreatedAt: now},
			{Name: "middle-pod", Phase: "Running", CreatedAt: now.Add(-time.Minute)},
		},
		logs: "hello\nworld\n",
	}
	svc := NewLogService(cp)

	result, err := svc.GetLogs(context.Background(), "default", "demo", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PodName != "new-pod" {
		t.Errorf("pod = %q, want newest", result.PodName)
	}
	if result.Logs != "hello\nworld\n" {
		t.Errorf("logs = %q", result.Logs)
	}
	if result.TailLines != 100 {
		t.Errorf("tail lines = %d", result.TailLines)
	}
}

func TestGetLogs_FetchFailureDegradesToMessage(t *testing.T) {
	cp := &stubControlPlane{
		workload: &domain.AppDetail{Name: "demo"},
		pods: []domain.PodSummary{
			{Name: "pending-pod", Phase: "Pending", CreatedAt: time.Now()},
		},
		logsErr: &domain.ControlPlaneError{Code: 400, Reason: "container not started"},
	}
	svc := NewLogService(cp)

	result, err := svc.GetLogs(context.Background(), "default", "demo", 100)
	if err != nil {
		t.Fatalf("log fetch failure must degrade, not propagate: %v", err)
	}
	if !strings.Contains(result.Message, "Pending") {
		t.Errorf("message = %q, want pod phase mentioned", result.Message)
	}
	if result.PodStatus != "Pending" {
		t.Errorf("pod status = %q", result.PodStatus)
	}
}

func TestGetLogs_AppNotFound(t *testing.T) {
	cp := &stubControlPlane{getErr: domain.ErrAppNotFound}
	svc := NewLogService(cp)

	_, err := svc.GetLogs(context.Background(), "default", "ghost", 100)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetLogs_TailLineBounds(t *testing.T) {
	cp := &stubControlPlane{
		workload: &domain.AppDetail{Name: "demo"},
		pods:     []domain.PodSummary{{Name: "p", Phase: "Running", CreatedAt: time.Now()}},
	}
	svc := NewLogService(cp)

	result, err := svc.GetLogs(context.Background(), "default", "demo", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TailLines != 100 {
		t.Errorf("default tail lines = %d, want 100", result.TailLines)
	}

	result, err = svc.GetLogs(context.Background(), "default", "demo", 999999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TailLines != 5000 {
		t.Errorf("capped tail lines = %d, want 5000", result.TailLines)
	}
}
