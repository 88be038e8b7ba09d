package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/port"
	"github.com/google/uuid"
)

const statusSuccess = "success"

// DeployService 串联一次部署的完整流程：
// 工作负载 upsert（唯一允许让请求失败的步骤）→ 域名映射调和 →
// 自动扩缩修正（后台分离执行）→ 边缘缓存清除 → 传播等待 → 预热探测。
// upsert 之后的每一步都是增强项：失败只记日志，绝不影响部署结果。
type DeployService struct {
	cp      port.ControlPlane
	edge    port.EdgeCache
	prober  port.Prober
	records port.DeploymentRecordRepository

	corrector *AutoscalerCorrector

	defaultNamespace string
	baseDomain       string
	propagationWait  time.Duration
}

// DeployConfig 汇集部署流程的环境参数。PropagationWait 为 0 表示不等待。
type DeployConfig struct {
	DefaultNamespace string
	BaseDomain       string
	PropagationWait  time.Duration
}

func NewDeployService(
	cp port.ControlPlane,
	edge port.EdgeCache,
	prober port.Prober,
	records port.DeploymentRecordRepository,
	corrector *AutoscalerCorrector,
	cfg DeployConfig,
) *DeployService {
	return &DeployService{
		cp:               cp,
		edge:             edge,
		prober:           prober,
		records:          records,
		corrector:        corrector,
		defaultNamespace: cfg.DefaultNamespace,
		baseDomain:       cfg.BaseDomain,
		propagationWait:  cfg.PropagationWait,
	}
}

func (s *DeployService) Deploy(ctx context.Context, req domain.DeploymentRequest) (*domain.DeploymentOutcome, error) {
	namespace := req.Namespace
	if namespace == "" {
		namespace = s.defaultNamespace
	}
	if err := domain.ValidateAppName(req.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateImage(req.Image); err != nil {
		return nil, err
	}
	if req.CustomDomain != "" {
		if err := domain.ValidateCustomDomain(req.CustomDomain); err != nil {
			return nil, err
		}
	}

	slog.Info("processing deployment", "name", req.Name, "namespace", namespace, "image", req.Image)

	// 唯一的致命步骤：主资源整体 upsert
	action, err := s.cp.ApplyWorkload(ctx, domain.WorkloadSpec{
		Name:      req.Name,
		Namespace: namespace,
		Image:     req.Image,
		Envs:      req.Envs,
	})
	if err != nil {
		return nil, err
	}

	primaryHost := domain.PrimaryHost(req.Name, s.baseDomain)
	hosts := []string{primaryHost}
	s.reconcileDomainMapping(ctx, namespace, primaryHost, req.Name)
	if req.CustomDomain != "" {
		hosts = append(hosts, req.CustomDomain)
		s.reconcileDomainMapping(ctx, namespace, req.CustomDomain, req.Name)
	}

	// 平台会在 revision 派生后把最小副本抬高，修正循环在后台把它压回 0，
	// 不增加请求的可见延迟
	if s.corrector != nil {
		go s.corrector.RunDetached(namespace, req.Name)
	}

	s.purgeEdgeCache(ctx, hosts)

	// 清除后等一段固定时间再预热，降低预热请求把失效前的内容
	// 重新写回边缘缓存的概率。这是启发式，不是保证。
	if s.propagationWait > 0 {
		time.Sleep(s.propagationWait)
	}

	primaryURL := "https://" + primaryHost
	s.warmUp(ctx, req.Name, primaryURL)

	outcome := &domain.DeploymentOutcome{
		Name:      req.Name,
		Namespace: namespace,
		Action:    action,
		Status:    statusSuccess,
		URL:       primaryURL,
	}
	if req.CustomDomain != "" {
		outcome.CustomURL = "https://" + req.CustomDomain
	}

	s.record(ctx, &domain.DeploymentRecord{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Namespace: namespace,
		Action:    string(action),
		Status:    statusSuccess,
		Image:     req.Image,
		URL:       primaryURL,
		CreatedAt: time.Now(),
	})

	return outcome, nil
}

// Delete 删除工作负载及其主子域名映射。
// 前置检查资源存在，缺失以 NotFound 报给调用方。
// 自定义域名映射不在此清理，是已记录的运维限制。
func (s *DeployService) Delete(ctx context.Context, namespace, name string) error {
	if _, err := s.cp.GetWorkload(ctx, namespace, name); err != nil {
		return err
	}

	primaryHost := domain.PrimaryHost(name, s.baseDomain)
	if err := s.cp.DeleteDomainMapping(ctx, namespace, primaryHost); err != nil {
		slog.Warn("failed to delete domain mapping",
			"host", primaryHost, "namespace", namespace, "error", err)
	}

	if err := s.cp.DeleteWorkload(ctx, namespace, name); err != nil {
		return err
	}

	s.record(ctx, &domain.DeploymentRecord{
		ID:        uuid.New().String(),
		Name:      name,
		Namespace: namespace,
		Action:    "deleted",
		Status:    statusSuccess,
		CreatedAt: time.Now(),
	})

	slog.Info("app deleted", "name", name, "namespace", namespace)
	return nil
}

func (s *DeployService) GetApp(ctx context.Context, namespace, name string) (*domain.AppDetail, error) {
	return s.cp.GetWorkload(ctx, namespace, name)
}

func (s *DeployService) ListApps(ctx context.Context, namespace string) ([]domain.AppSummary, error) {
	if namespace == "" {
		namespace = s.defaultNamespace
	}
	return s.cp.ListWorkloads(ctx, namespace)
}

func (s *DeployService) History(ctx context.Context, namespace, name string, limit int) ([]*domain.DeploymentRecord, error) {
	if s.records == nil {
		return nil, nil
	}
	return s.records.FindByApp(ctx, namespace, name, limit)
}

func (s *DeployService) reconcileDomainMapping(ctx context.Context, namespace, host, serviceName string) {
	created, err := s.cp.EnsureDomainMapping(ctx, namespace, host, serviceName)
	if err != nil {
		slog.Error("domain mapping reconcile failed",
			"host", host, "service", serviceName, "namespace", namespace, "error", err)
		return
	}
	if created {
		slog.Info("domain mapping created", "host", host, "service", serviceName)
	}
}

func (s *DeployService) purgeEdgeCache(ctx context.Context, hosts []string) {
	if s.edge == nil {
		return
	}
	if err := s.edge.PurgeHosts(ctx, hosts); err != nil {
		slog.Error("edge cache purge failed", "hosts", hosts, "error", err)
	}
}

func (s *DeployService) warmUp(ctx context.Context, name, url string) {
	if s.prober == nil {
		return
	}
	if err := s.prober.Probe(ctx, url); err != nil {
		slog.Warn("warm-up probe failed", "name", name, "url", url, "error", err)
	}
}

// record 尽力而为写审计记录，失败只记日志。
func (s *DeployService) record(ctx context.Context, rec *domain.DeploymentRecord) {
	if s.records == nil {
		return
	}
	if err := s.records.Save(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("failed to save deployment record",
			"name", rec.Name, "namespace", rec.Namespace, "action", rec.Action, "error", err)
	}
}
