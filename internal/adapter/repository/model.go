package repository

import "time"

// DeploymentRecordModel 是部署审计记录的数据库持久化模型。
type DeploymentRecordModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"index:idx_records_app"`
	Namespace string `gorm:"index:idx_records_app"`
	Action    string
	Status    string
	Image     string
	URL       string
	Detail    string `gorm:"type:text"`
	CreatedAt time.Time
}

func (DeploymentRecordModel) TableName() string { return "deployment_records" }
