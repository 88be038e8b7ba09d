package repository

import (
	"context"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/port"
	"gorm.io/gorm"
)

var _ port.DeploymentRecordRepository = (*RecordRepo)(nil)

type RecordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

func (r *RecordRepo) Save(ctx context.Context, rec *domain.DeploymentRecord) error {
	m := &DeploymentRecordModel{
		ID:        rec.ID,
		Name:      rec.Name,
		Namespace: rec.Namespace,
		Action:    rec.Action,
		Status:    rec.Status,
		Image:     rec.Image,
		URL:       rec.URL,
		Detail:    rec.Detail,
		CreatedAt: rec.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *RecordRepo) FindByApp(ctx context.Context, namespace, name string, limit int) ([]*domain.DeploymentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []DeploymentRecordModel
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND name = ?", namespace, name).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	records := make([]*domain.DeploymentRecord, 0, len(models))
	for i := range models {
		m := &models[i]
		records = append(records, &domain.DeploymentRecord{
			ID:        m.ID,
			Name:      m.Name,
			Namespace: m.Namespace,
			Action:    m.Action,
			Status:    m.Status,
			Image:     m.Image,
			URL:       m.URL,
			Detail:    m.Detail,
			CreatedAt: m.CreatedAt,
		})
	}
	return records, nil
}
