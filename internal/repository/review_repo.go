package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/model"
)

// ReviewRepository 查询记录数据访问接口
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	// GetActiveByJob 返回该任务最近一条查询记录
	GetActiveByJob(ctx context.Context, surveyJobID string) (*model.Review, error)
	ListByJob(ctx context.Context, surveyJobID string) ([]model.Review, error)
	// MarkReturned 仅回填 query_info.query_returned，其余字段保持不变
	// 已回填过的记录不再覆盖，返回 gorm.ErrRecordNotFound
	MarkReturned(ctx context.Context, reviewID, returnedDate string) error
}

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo 创建 ReviewRepository 实例
func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepo) GetActiveByJob(ctx context.Context, surveyJobID string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("surveyjob_id = ? AND jsonb_typeof(query_info) = 'object'", surveyJobID).
		Order("created_at DESC, review_id DESC").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) ListByJob(ctx context.Context, surveyJobID string) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("surveyjob_id = ?", surveyJobID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) MarkReturned(ctx context.Context, reviewID, returnedDate string) error {
	result := r.db.WithContext(ctx).Exec(`
UPDATE reviews
SET query_info = jsonb_set(query_info, '{query_returned}', to_jsonb(?::text)),
    updated_at = now()
WHERE review_id = ? AND COALESCE(query_info->>'query_returned', '') = ''`,
		returnedDate, reviewID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
