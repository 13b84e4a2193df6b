package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/dto"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/service"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// JobHandler 测量任务模块 HTTP 处理器
type JobHandler struct {
	jobSvc    service.JobService
	exportSvc service.ExportService
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(jobSvc service.JobService, exportSvc service.ExportService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc, exportSvc: exportSvc}
}

// Create 新建任务（JSON 或 multipart 表单，可选附件字段 attachment）
// POST /api/v1/jobs
func (h *JobHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	var file *service.Attachment

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBind(&req); err != nil {
			bindFailed(c, err)
			return
		}
		fh, err := c.FormFile("attachment")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			bindFailed(c, err)
			return
		}
		if fh != nil {
			f, err := fh.Open()
			if err != nil {
				response.BadRequest(c, "附件读取失败")
				return
			}
			defer f.Close()
			file = &service.Attachment{Filename: fh.Filename, Content: f}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.jobSvc.Create(c.Request.Context(), actor, &req, file)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// List 任务列表
// GET /api/v1/jobs?status=&pbtstatus=&assigned_to=&mine=&page=&page_size=
func (h *JobHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.JobListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	list, total, err := h.jobSvc.ListJobs(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 任务详情
// GET /api/v1/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	result, err := h.jobSvc.GetJob(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Assign 交接任务
// POST /api/v1/jobs/:id/assign
func (h *JobHandler) Assign(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.jobSvc.Assign(c.Request.Context(), actor, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdatePbtStatus 核查官员更新 PBT 子状态
// PUT /api/v1/jobs/:id/pbt-status
func (h *JobHandler) UpdatePbtStatus(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdatePbtStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.jobSvc.MarkPbtStatus(c.Request.Context(), actor, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// History 交接记录
// GET /api/v1/jobs/:id/history
func (h *JobHandler) History(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	var req dto.HistoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	list, total, err := h.jobSvc.ListHistory(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ExportHistory 导出交接记录
// GET /api/v1/jobs/:id/history/export
func (h *JobHandler) ExportHistory(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportHistory(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ActiveQuery 当前查询记录
// GET /api/v1/jobs/:id/query
func (h *JobHandler) ActiveQuery(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	result, err := h.jobSvc.GetActiveQuery(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// bindFailed 请求体超限交给 BodyLimit 中间件响应，其余为参数错误
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		_ = c.Error(err)
		return
	}
	response.BadRequest(c, "参数校验失败")
}
