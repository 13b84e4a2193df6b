package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/model"
	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
)

// SurveyJobListFilters 任务列表筛选条件
type SurveyJobListFilters struct {
	AssignedTo string
	Status     string
	PbtStatus  string
	Keyword    string
}

// SurveyJobRepository 测量任务数据访问接口
type SurveyJobRepository interface {
	Create(ctx context.Context, job *model.SurveyJob) error
	GetByID(ctx context.Context, id string) (*model.SurveyJob, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询，必须在事务内调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.SurveyJob, error)
	GetByJobNumber(ctx context.Context, jobNumber string) (*model.SurveyJob, error)
	// UpdateWorkflow 更新持有人 / 状态 / 子状态 / 备注，带版本号校验
	UpdateWorkflow(ctx context.Context, job *model.SurveyJob) error
	List(ctx context.Context, filters *SurveyJobListFilters, offset, limit int) ([]model.SurveyJob, int64, error)
}

type surveyJobRepo struct {
	db *gorm.DB
}

// NewSurveyJobRepo 创建 SurveyJobRepository 实例
func NewSurveyJobRepo(db *gorm.DB) SurveyJobRepository {
	return &surveyJobRepo{db: db}
}

func (r *surveyJobRepo) Create(ctx context.Context, job *model.SurveyJob) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error
}

func (r *surveyJobRepo) GetByID(ctx context.Context, id string) (*model.SurveyJob, error) {
	var job model.SurveyJob
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Where("surveyjob_id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *surveyJobRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.SurveyJob, error) {
	var job model.SurveyJob
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("surveyjob_id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *surveyJobRepo) GetByJobNumber(ctx context.Context, jobNumber string) (*model.SurveyJob, error) {
	var job model.SurveyJob
	err := r.db.WithContext(ctx).
		Where("job_number = ?", jobNumber).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *surveyJobRepo) UpdateWorkflow(ctx context.Context, job *model.SurveyJob) error {
	oldVersion := job.Version
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.SurveyJob{}).
		Where("surveyjob_id = ? AND version = ?", job.SurveyJobID, oldVersion).
		Updates(map[string]interface{}{
			"assigned_to": job.AssignedTo,
			"status":      job.Status,
			"pbtstatus":   job.PbtStatus,
			"remarks":     job.Remarks,
			"updated_at":  now,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	job.Version = oldVersion + 1
	job.UpdatedAt = now
	return nil
}

func (r *surveyJobRepo) List(ctx context.Context, filters *SurveyJobListFilters, offset, limit int) ([]model.SurveyJob, int64, error) {
	var jobs []model.SurveyJob
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SurveyJob{})
	if filters != nil {
		if filters.AssignedTo != "" {
			db = db.Where("assigned_to = ?", filters.AssignedTo)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.PbtStatus != "" {
			db = db.Where("pbtstatus = ?", filters.PbtStatus)
		}
		if filters.Keyword != "" {
			like := containsPattern(filters.Keyword)
			db = db.Where("job_number ILIKE ? OR project_name ILIKE ?", like, like)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Assignee").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}
