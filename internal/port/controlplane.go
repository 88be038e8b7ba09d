package port

import (
	"context"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
)

// ControlPlane 封装对集群控制面的读写：工作负载资源、域名映射、
// 派生的自动扩缩资源，以及 Pod 列表和日志读取。
// "不存在" 统一以 domain.ErrNotFound（或其包装）表示，其余控制面错误
// 以 *domain.ControlPlaneError 保留状态码。
type ControlPlane interface {
	// ApplyWorkload 不存在则创建，存在则整体替换期望文档，返回实际动作。
	ApplyWorkload(ctx context.Context, spec domain.WorkloadSpec) (domain.Action, error)
	GetWorkload(ctx context.Context, namespace, name string) (*domain.AppDetail, error)
	ListWorkloads(ctx context.Context, namespace string) ([]domain.AppSummary, error)
	// DeleteWorkload 幂等：资源不存在不报错，是否存在由调用方先行检查。
	DeleteWorkload(ctx context.Context, namespace, name string) error

	// EnsureDomainMapping 按主机名查找，缺失则创建，已存在保持原样（不修复目标漂移）。
	// 返回是否新建。
	EnsureDomainMapping(ctx context.Context, namespace, host, serviceName string) (bool, error)
	DeleteDomainMapping(ctx context.Context, namespace, host string) error

	// LatestCreatedRevision 返回工作负载状态中最新创建的 revision 名，尚未出现时为空串。
	LatestCreatedRevision(ctx context.Context, namespace, name string) (string, error)
	// ZeroAutoscalerFloor 把派生自动扩缩资源的最小副本注解改回 0。
	// 资源尚未派生时返回包装的 domain.ErrNotFound。
	ZeroAutoscalerFloor(ctx context.Context, namespace, revision string) error

	ListAppPods(ctx context.Context, namespace, appName string) ([]domain.PodSummary, error)
	PodLogs(ctx context.Context, namespace, podName string, tailLines int64) (string, error)
}
