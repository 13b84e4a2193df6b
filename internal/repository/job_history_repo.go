package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/model"
)

// JobHistoryRepository 交接记录数据访问接口
// 只追加：不提供 Update / Delete
type JobHistoryRepository interface {
	Create(ctx context.Context, history *model.JobHistory) error
	ListByJob(ctx context.Context, surveyJobID string, offset, limit int) ([]model.JobHistory, int64, error)
	ListAllByJob(ctx context.Context, surveyJobID string) ([]model.JobHistory, error)
}

type jobHistoryRepo struct {
	db *gorm.DB
}

// NewJobHistoryRepo 创建 JobHistoryRepository 实例
func NewJobHistoryRepo(db *gorm.DB) JobHistoryRepository {
	return &jobHistoryRepo{db: db}
}

func (r *jobHistoryRepo) Create(ctx context.Context, history *model.JobHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *jobHistoryRepo) ListByJob(ctx context.Context, surveyJobID string, offset, limit int) ([]model.JobHistory, int64, error) {
	var histories []model.JobHistory
	var total int64

	db := r.db.WithContext(ctx).Model(&model.JobHistory{}).
		Where("survey_job_id = ?", surveyJobID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at ASC, history_id ASC").
		Find(&histories).Error
	return histories, total, err
}

func (r *jobHistoryRepo) ListAllByJob(ctx context.Context, surveyJobID string) ([]model.JobHistory, error) {
	var histories []model.JobHistory
	err := r.db.WithContext(ctx).
		Where("survey_job_id = ?", surveyJobID).
		Order("created_at ASC, history_id ASC").
		Find(&histories).Error
	return histories, err
}
