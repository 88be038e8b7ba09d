package port

import (
	"context"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
)

// DeploymentRecordRepository 持久化部署审计记录。
type DeploymentRecordRepository interface {
	Save(ctx context.Context, rec *domain.DeploymentRecord) error
	FindByApp(ctx context.Context, namespace, name string, limit int) ([]*domain.DeploymentRecord, error)
}
