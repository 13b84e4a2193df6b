package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/dto"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/model"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/repository"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/workflow"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/database"
	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/metrics"
)

// ── 测量任务模块业务错误 ──

var (
	ErrJobNotFound        = pkgerrors.New(pkgerrors.KindNotFound, "任务不存在")
	ErrTargetNotFound     = pkgerrors.New(pkgerrors.KindNotFound, "目标用户不存在")
	ErrJobNumberExists    = pkgerrors.New(pkgerrors.KindConflict, "任务编号已存在")
	ErrAlreadyAssigned    = pkgerrors.New(pkgerrors.KindConflict, "任务已由目标用户持有")
	ErrCompletedJob       = pkgerrors.New(pkgerrors.KindInvalidTransition, "已完成的任务只能由 OIC 或 VO 交接")
	ErrQueryForbidden     = pkgerrors.New(pkgerrors.KindForbidden, "仅 VO 可发起查询")
	ErrPbtForbidden       = pkgerrors.New(pkgerrors.KindForbidden, "仅 VO 可更新核查子状态")
	ErrNotJobHolder       = pkgerrors.New(pkgerrors.KindForbidden, "只有任务当前持有人可执行该操作")
	ErrPbtTransition      = pkgerrors.New(pkgerrors.KindInvalidTransition, "核查子状态只能由 checked 变更为 acquisition_complete")
	ErrInvalidPbtStatus   = pkgerrors.New(pkgerrors.KindValidation, "无效的核查子状态")
	ErrInvalidJobStatus   = pkgerrors.New(pkgerrors.KindValidation, "无效的任务状态")
	ErrMissingJobField    = pkgerrors.New(pkgerrors.KindValidation, "缺少必填字段")
	ErrMissingTargetUser  = pkgerrors.New(pkgerrors.KindValidation, "缺少目标用户")
	ErrActiveQueryMissing = pkgerrors.New(pkgerrors.KindNotFound, "该任务没有查询记录")
)

// AttachmentPlaceholder 附件存储失败时写入的占位值
const AttachmentPlaceholder = "pending_upload"

const dateLayout = "2006-01-02"

// FileStore 附件存储
type FileStore interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
	// Delete 删除 Store 返回的文件，用于建单失败后的清理
	Delete(ctx context.Context, name string) error
}

// Attachment 新建任务时随请求上传的附件
type Attachment struct {
	Filename string
	Content  io.Reader
}

// JobService 测量任务工作流业务接口
type JobService interface {
	Create(ctx context.Context, actor ActorContext, req *dto.CreateJobRequest, file *Attachment) (*dto.CreateJobResponse, error)
	Assign(ctx context.Context, actor ActorContext, jobID string, req *dto.AssignJobRequest) (*dto.HandoffResponse, error)
	MarkPbtStatus(ctx context.Context, actor ActorContext, jobID string, req *dto.UpdatePbtStatusRequest) (*dto.HandoffResponse, error)
	GetJob(ctx context.Context, jobID string) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, actor ActorContext, req *dto.JobListRequest) ([]dto.JobResponse, int64, error)
	ListHistory(ctx context.Context, jobID string, req *dto.HistoryListRequest) ([]dto.HistoryResponse, int64, error)
	GetActiveQuery(ctx context.Context, jobID string) (*dto.QueryResponse, error)
}

type jobService struct {
	repo   *repository.Repository
	store  FileStore
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewJobService 创建 JobService 实例
// loc 决定 query_date / query_returned 取哪个时区的“当天”
func NewJobService(repo *repository.Repository, store FileStore, loc *time.Location, logger *zap.Logger) JobService {
	if loc == nil {
		loc = time.UTC
	}
	return &jobService{
		repo:   repo,
		store:  store,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

func (s *jobService) today() string {
	return s.now().In(s.loc).Format(dateLayout)
}

func (s *jobService) observe(op string, start time.Time, err error) {
	metrics.ObserveOperation(op, start, err)
	if err != nil {
		metrics.RecordFailure(op, string(pkgerrors.KindOf(err)))
	}
}

// ────────────────────── Create ──────────────────────

func (s *jobService) Create(ctx context.Context, actor ActorContext, req *dto.CreateJobRequest, file *Attachment) (resp *dto.CreateJobResponse, err error) {
	defer func(start time.Time) { s.observe("create", start, err) }(time.Now())

	if err := actor.validate(); err != nil {
		return nil, err
	}
	job, err := newJobFromRequest(req, actor.UserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.SurveyJob.GetByJobNumber(ctx, job.JobNumber); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrJobNumberExists, job.JobNumber)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询任务编号失败", zap.String("job_number", job.JobNumber), zap.Error(err))
		return nil, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询任务失败", err)
	}

	var (
		assignee *Identity
		stored   string
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if req.AssignedTo != "" {
			id, err := newRoleDirectory(tx).get(ctx, req.AssignedTo)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					return ErrTargetNotFound
				}
				return err
			}
			assignee = id
			job.AssignedTo = &id.UserID
			job.Status = string(workflow.StatusAssigned)
		}

		// 附件在所有校验通过后、写入任务前落盘
		job.Attachment = s.storeAttachment(ctx, file, job.JobNumber)
		if job.Attachment != AttachmentPlaceholder {
			stored = job.Attachment
		}

		if err := tx.SurveyJob.Create(ctx, job); err != nil {
			return err
		}

		if assignee == nil {
			return nil
		}
		return tx.JobHistory.Create(ctx, &model.JobHistory{
			SurveyJobID:     job.SurveyJobID,
			FromUserID:      actor.UserID,
			ToUserID:        assignee.UserID,
			FromRole:        string(actor.Role),
			ToRole:          string(assignee.Role),
			ActionType:      string(workflow.ActionAssigned),
			StatusBefore:    string(workflow.StatusPending),
			StatusAfter:     job.Status,
			PbtStatusBefore: job.PbtStatus,
			PbtStatusAfter:  job.PbtStatus,
			Notes:           buildNotes("created", actor.Role, assignee.Role, job.Remarks, nil),
		})
	})
	if err != nil {
		s.discardAttachment(ctx, stored, job.JobNumber)
		err = s.txError(err)
		s.logger.Error("创建任务失败",
			zap.String("job_number", job.JobNumber),
			zap.String("actor_id", actor.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.RecordHandoff("created")
	s.logger.Info("任务已创建",
		zap.String("job_id", job.SurveyJobID),
		zap.String("job_number", job.JobNumber),
		zap.String("status", job.Status),
	)

	return &dto.CreateJobResponse{
		ID:         job.SurveyJobID,
		JobNumber:  job.JobNumber,
		Status:     job.Status,
		PbtStatus:  job.PbtStatus,
		Assignee:   identityResponse(assignee),
		Attachment: job.Attachment,
	}, nil
}

func newJobFromRequest(req *dto.CreateJobRequest, creatorID string) (*model.SurveyJob, error) {
	if req == nil {
		return nil, ErrMissingJobField
	}
	job := &model.SurveyJob{
		JobNumber:     strings.TrimSpace(req.JobNumber),
		ReferenceNo:   strings.TrimSpace(req.ReferenceNo),
		LandOfficeRef: strings.TrimSpace(req.LandOfficeRef),
		ProjectName:   strings.TrimSpace(req.ProjectName),
		TargetProject: strings.TrimSpace(req.TargetProject),
		Status:        string(workflow.StatusPending),
		PbtStatus:     string(workflow.PbtNone),
		CreatedBy:     creatorID,
		Remarks:       req.Remarks,
	}
	var missing []string
	if job.JobNumber == "" {
		missing = append(missing, "job_number")
	}
	if job.ReferenceNo == "" {
		missing = append(missing, "reference_no")
	}
	if job.ProjectName == "" {
		missing = append(missing, "project_name")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingJobField, strings.Join(missing, ", "))
	}
	return job, nil
}

// storeAttachment 附件存储失败不阻塞建单，降级为占位值
func (s *jobService) storeAttachment(ctx context.Context, file *Attachment, jobNumber string) string {
	if file == nil || file.Content == nil {
		return ""
	}
	if s.store == nil {
		s.logger.Warn("未配置附件存储，使用占位值", zap.String("job_number", jobNumber))
		return AttachmentPlaceholder
	}
	path, err := s.store.Store(ctx, file.Filename, file.Content)
	if err != nil {
		s.logger.Warn("附件存储失败，使用占位值",
			zap.String("job_number", jobNumber),
			zap.String("filename", file.Filename),
			zap.Error(err),
		)
		return AttachmentPlaceholder
	}
	return path
}

// discardAttachment 建单回滚后删除已落盘的附件，删除失败只记录日志
func (s *jobService) discardAttachment(ctx context.Context, name, jobNumber string) {
	if name == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, name); err != nil {
		s.logger.Warn("清理附件失败",
			zap.String("job_number", jobNumber),
			zap.String("stored_as", name),
			zap.Error(err),
		)
	}
}

// ────────────────────── Assign ──────────────────────

func (s *jobService) Assign(ctx context.Context, actor ActorContext, jobID string, req *dto.AssignJobRequest) (resp *dto.HandoffResponse, err error) {
	defer func(start time.Time) { s.observe("assign", start, err) }(time.Now())

	if err := actor.validate(); err != nil {
		return nil, err
	}
	if req == nil || req.TargetUserID == "" {
		return nil, ErrMissingTargetUser
	}

	var (
		job     *model.SurveyJob
		target  *Identity
		outcome workflow.Outcome
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		job, err = tx.SurveyJob.GetByIDForUpdate(ctx, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return err
		}

		dir := newRoleDirectory(tx)
		target, err = dir.get(ctx, req.TargetUserID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrTargetNotFound
			}
			return err
		}

		// ── 业务规则校验：任何写入之前完成 ──
		if job.IsAssignedTo(target.UserID) {
			return fmt.Errorf("%w: 当前由 %s 处理", ErrAlreadyAssigned, target.Name)
		}
		if workflow.Status(job.Status) == workflow.StatusCompleted && !workflow.CanReassignCompleted(actor.Role) {
			return ErrCompletedJob
		}
		if req.Query != nil && !workflow.CanIssueQuery(actor.Role) {
			return ErrQueryForbidden
		}

		var query *model.QueryInfo
		if req.Query != nil {
			q := queryInfoFromPayload(req.Query)
			if !q.IsEmpty() {
				query = &q
			}
		}

		// ── 回填查询退回日期（失败不影响交接） ──
		if query == nil && workflow.ResolvesQuery(actor.Role, target.Role) {
			s.returnOpenQuery(ctx, tx, job.SurveyJobID, actor.UserID)
		}

		statusBefore, pbtBefore := job.Status, job.PbtStatus
		outcome = workflow.Decide(workflow.Input{
			ActorRole:  actor.Role,
			TargetRole: target.Role,
			Status:     workflow.Status(job.Status),
			PbtStatus:  workflow.PbtStatus(job.PbtStatus),
			NewQuery:   query != nil,
		})

		job.AssignedTo = &target.UserID
		job.Status = string(outcome.Status)
		job.PbtStatus = string(outcome.PbtStatus)
		var remark string
		if req.Remark != nil {
			remark = strings.TrimSpace(*req.Remark)
		}
		if remark != "" {
			job.Remarks = remark
		}
		if err := tx.SurveyJob.UpdateWorkflow(ctx, job); err != nil {
			return err
		}

		if query != nil {
			query.QueryDate = s.today()
			query.QueryReturned = ""
			if err := tx.Review.Create(ctx, &model.Review{
				SurveyJobID: job.SurveyJobID,
				ReviewerID:  actor.UserID,
				QueryInfo:   datatypes.NewJSONType(*query),
			}); err != nil {
				return err
			}
		}

		return tx.JobHistory.Create(ctx, &model.JobHistory{
			SurveyJobID:     job.SurveyJobID,
			FromUserID:      actor.UserID,
			ToUserID:        target.UserID,
			FromRole:        string(actor.Role),
			ToRole:          string(target.Role),
			ActionType:      string(outcome.Action),
			StatusBefore:    statusBefore,
			StatusAfter:     job.Status,
			PbtStatusBefore: pbtBefore,
			PbtStatusAfter:  job.PbtStatus,
			Notes:           buildNotes("", actor.Role, target.Role, remark, query),
		})
	})
	if err != nil {
		err = s.txError(err)
		s.logFailure("交接任务失败", jobID, actor, err)
		return nil, err
	}

	metrics.RecordHandoff(string(outcome.Action))
	s.logger.Info("任务已交接",
		zap.String("job_id", job.SurveyJobID),
		zap.String("actor_id", actor.UserID),
		zap.String("target_id", target.UserID),
		zap.String("rule", outcome.Rule),
		zap.String("status", job.Status),
		zap.String("pbtstatus", job.PbtStatus),
	)

	return &dto.HandoffResponse{
		ID:         job.SurveyJobID,
		JobNumber:  job.JobNumber,
		Status:     job.Status,
		PbtStatus:  job.PbtStatus,
		Assignee:   identityResponse(target),
		ActionType: string(outcome.Action),
	}, nil
}

// returnOpenQuery 在保存点内回填 query_returned
// 任何失败只记录日志，交接照常进行
func (s *jobService) returnOpenQuery(ctx context.Context, tx *repository.Repository, jobID, actorID string) {
	var reviewID string
	err := tx.Transaction(ctx, func(sp *repository.Repository) error {
		review, err := sp.Review.GetActiveByJob(ctx, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !review.Info().IsOpen() {
			return nil
		}
		reviewID = review.ReviewID
		return sp.Review.MarkReturned(ctx, review.ReviewID, s.today())
	})
	if err != nil {
		s.logger.Warn("回填查询退回日期失败",
			zap.String("job_id", jobID),
			zap.String("review_id", reviewID),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return
	}
	if reviewID != "" {
		s.logger.Info("查询已退回", zap.String("job_id", jobID), zap.String("review_id", reviewID))
	}
}

// ────────────────────── MarkPbtStatus ──────────────────────

func (s *jobService) MarkPbtStatus(ctx context.Context, actor ActorContext, jobID string, req *dto.UpdatePbtStatusRequest) (resp *dto.HandoffResponse, err error) {
	defer func(start time.Time) { s.observe("pbtstatus", start, err) }(time.Now())

	if err := actor.validate(); err != nil {
		return nil, err
	}
	if req == nil || !workflow.PbtStatus(req.PbtStatus).Valid() {
		return nil, ErrInvalidPbtStatus
	}
	next := workflow.PbtStatus(req.PbtStatus)
	if actor.Role != workflow.RoleVO {
		return nil, ErrPbtForbidden
	}

	var job *model.SurveyJob
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		job, err = tx.SurveyJob.GetByIDForUpdate(ctx, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return err
		}
		if !job.IsAssignedTo(actor.UserID) {
			return ErrNotJobHolder
		}
		current := workflow.PbtStatus(job.PbtStatus)
		if !workflow.CanSetPbtStatus(current, next) || !workflow.Status(job.Status).AllowsPbt() {
			return fmt.Errorf("%w（当前为 %s）", ErrPbtTransition, current)
		}

		job.PbtStatus = string(next)
		if err := tx.SurveyJob.UpdateWorkflow(ctx, job); err != nil {
			return err
		}

		return tx.JobHistory.Create(ctx, &model.JobHistory{
			SurveyJobID:     job.SurveyJobID,
			FromUserID:      actor.UserID,
			ToUserID:        actor.UserID,
			FromRole:        string(actor.Role),
			ToRole:          string(actor.Role),
			ActionType:      string(workflow.ActionPbtStatusUpdate),
			StatusBefore:    job.Status,
			StatusAfter:     job.Status,
			PbtStatusBefore: string(current),
			PbtStatusAfter:  job.PbtStatus,
			Notes:           fmt.Sprintf("pbtstatus: %s → %s", current, next),
		})
	})
	if err != nil {
		err = s.txError(err)
		s.logFailure("更新核查子状态失败", jobID, actor, err)
		return nil, err
	}

	metrics.RecordHandoff(string(workflow.ActionPbtStatusUpdate))
	s.logger.Info("核查子状态已更新",
		zap.String("job_id", job.SurveyJobID),
		zap.String("actor_id", actor.UserID),
		zap.String("pbtstatus", job.PbtStatus),
	)

	return &dto.HandoffResponse{
		ID:        job.SurveyJobID,
		JobNumber: job.JobNumber,
		Status:    job.Status,
		PbtStatus: job.PbtStatus,
		Assignee: &dto.UserResponse{
			ID:   actor.UserID,
			Role: string(actor.Role),
		},
		ActionType: string(workflow.ActionPbtStatusUpdate),
	}, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *jobService) GetJob(ctx context.Context, jobID string) (*dto.JobResponse, error) {
	job, err := s.repo.SurveyJob.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("查询任务失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询任务失败", err)
	}
	return toJobResponse(job), nil
}

func (s *jobService) ListJobs(ctx context.Context, actor ActorContext, req *dto.JobListRequest) ([]dto.JobResponse, int64, error) {
	filters := &repository.SurveyJobListFilters{
		AssignedTo: req.AssignedTo,
		Status:     req.Status,
		PbtStatus:  req.PbtStatus,
		Keyword:    strings.TrimSpace(req.Keyword),
	}
	if req.Mine {
		filters.AssignedTo = actor.UserID
	}
	if filters.Status != "" && !validStatus(workflow.Status(filters.Status)) {
		return nil, 0, ErrInvalidJobStatus
	}
	if filters.PbtStatus != "" && !workflow.PbtStatus(filters.PbtStatus).Valid() {
		return nil, 0, ErrInvalidPbtStatus
	}

	jobs, total, err := s.repo.SurveyJob.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.String("actor_id", actor.UserID), zap.Error(err))
		return nil, 0, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询任务列表失败", err)
	}

	list := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		list = append(list, *toJobResponse(&jobs[i]))
	}
	return list, total, nil
}

func (s *jobService) ListHistory(ctx context.Context, jobID string, req *dto.HistoryListRequest) ([]dto.HistoryResponse, int64, error) {
	if _, err := s.repo.SurveyJob.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrJobNotFound
		}
		s.logger.Error("查询任务失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, 0, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询任务失败", err)
	}

	rows, total, err := s.repo.JobHistory.ListByJob(ctx, jobID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询交接记录失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, 0, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询交接记录失败", err)
	}

	list := make([]dto.HistoryResponse, 0, len(rows))
	for i := range rows {
		list = append(list, toHistoryResponse(&rows[i]))
	}
	return list, total, nil
}

func (s *jobService) GetActiveQuery(ctx context.Context, jobID string) (*dto.QueryResponse, error) {
	review, err := s.repo.Review.GetActiveByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActiveQueryMissing
		}
		s.logger.Error("查询当前查询记录失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询查询记录失败", err)
	}

	info := review.Info()
	items := make([]dto.QueryItemResponse, 0, 6)
	for _, it := range info.Items() {
		items = append(items, dto.QueryItemResponse{Form: it.Form, Remark: it.Remark})
	}
	return &dto.QueryResponse{
		ID:            review.ReviewID,
		JobID:         review.SurveyJobID,
		ReviewerID:    review.ReviewerID,
		Items:         items,
		QueryDate:     info.QueryDate,
		QueryReturned: info.QueryReturned,
		Open:          info.IsOpen(),
		CreatedAt:     review.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ── 辅助函数 ──

// txError 统一事务错误：已分类错误原样返回，并发冲突转为 Conflict，其余视为持久化失败
func (s *jobService) txError(err error) error {
	switch {
	case pkgerrors.IsTyped(err):
		return err
	case database.IsUniqueViolation(err):
		return pkgerrors.Wrap(pkgerrors.KindConflict, ErrJobNumberExists.Message, err)
	case database.IsTxConflict(err):
		return pkgerrors.Wrap(pkgerrors.KindConflict, pkgerrors.ErrOptimisticLock.Message, err)
	default:
		return pkgerrors.Wrap(pkgerrors.KindPersistence, "保存失败，操作已回滚", err)
	}
}

func (s *jobService) logFailure(msg, jobID string, actor ActorContext, err error) {
	fields := []zap.Field{
		zap.String("job_id", jobID),
		zap.String("actor_id", actor.UserID),
		zap.String("actor_role", string(actor.Role)),
		zap.String("kind", string(pkgerrors.KindOf(err))),
		zap.Error(err),
	}
	if pkgerrors.KindOf(err) == pkgerrors.KindPersistence {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Info(msg, fields...)
}

func validStatus(st workflow.Status) bool {
	switch st {
	case workflow.StatusPending, workflow.StatusAssigned, workflow.StatusSubmitted,
		workflow.StatusCompleted, workflow.StatusReviewed, workflow.StatusApproved:
		return true
	}
	return false
}

func queryInfoFromPayload(p *dto.QueryPayload) model.QueryInfo {
	return model.QueryInfo{
		FieldBook:   strings.TrimSpace(p.FieldBook),
		Calculation: strings.TrimSpace(p.Calculation),
		Traverse:    strings.TrimSpace(p.Traverse),
		Plan:        strings.TrimSpace(p.Plan),
		Certificate: strings.TrimSpace(p.Certificate),
		LotData:     strings.TrimSpace(p.LotData),
	}
}

// buildNotes 拼接交接说明，例如 "OIC → FI; remark: 补测; query: plan=缺签名"
func buildNotes(prefix string, from, to workflow.Role, remark string, query *model.QueryInfo) string {
	parts := make([]string, 0, 4)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, fmt.Sprintf("%s → %s", from, to))
	if remark != "" {
		parts = append(parts, "remark: "+remark)
	}
	if query != nil {
		items := query.Items()
		kv := make([]string, 0, len(items))
		for _, it := range items {
			kv = append(kv, it.Form+"="+it.Remark)
		}
		parts = append(parts, "query: "+strings.Join(kv, ", "))
	}
	return strings.Join(parts, "; ")
}

func identityResponse(id *Identity) *dto.UserResponse {
	if id == nil {
		return nil
	}
	return &dto.UserResponse{ID: id.UserID, Name: id.Name, Role: string(id.Role)}
}

func userResponse(u *model.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{ID: u.UserID, Name: u.Name, Role: u.Role}
}

func toJobResponse(job *model.SurveyJob) *dto.JobResponse {
	resp := &dto.JobResponse{
		ID:            job.SurveyJobID,
		JobNumber:     job.JobNumber,
		ReferenceNo:   job.ReferenceNo,
		LandOfficeRef: job.LandOfficeRef,
		ProjectName:   job.ProjectName,
		TargetProject: job.TargetProject,
		Status:        job.Status,
		PbtStatus:     job.PbtStatus,
		Assignee:      userResponse(job.Assignee),
		Creator:       userResponse(job.Creator),
		Remarks:       job.Remarks,
		Attachment:    job.Attachment,
		Version:       job.Version,
		CreatedAt:     job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     job.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Assignee == nil && job.AssignedTo != nil {
		resp.Assignee = &dto.UserResponse{ID: *job.AssignedTo}
	}
	if resp.Creator == nil {
		resp.Creator = &dto.UserResponse{ID: job.CreatedBy}
	}
	return resp
}

func toHistoryResponse(h *model.JobHistory) dto.HistoryResponse {
	return dto.HistoryResponse{
		ID:              h.HistoryID,
		JobID:           h.SurveyJobID,
		FromUserID:      h.FromUserID,
		ToUserID:        h.ToUserID,
		FromRole:        h.FromRole,
		ToRole:          h.ToRole,
		ActionType:      h.ActionType,
		StatusBefore:    h.StatusBefore,
		StatusAfter:     h.StatusAfter,
		PbtStatusBefore: h.PbtStatusBefore,
		PbtStatusAfter:  h.PbtStatusAfter,
		Notes:           h.Notes,
		CreatedAt:       h.CreatedAt.Format(time.RFC3339),
	}
}
