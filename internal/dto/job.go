package dto

// ── 测量任务模块 DTO ──

// CreateJobRequest 新建任务请求（JSON 或 multipart 表单，附件字段名 attachment）
type CreateJobRequest struct {
	JobNumber     string `json:"job_number"      form:"job_number"      binding:"required,max=50"`
	ReferenceNo   string `json:"reference_no"    form:"reference_no"    binding:"required,max=100"`
	LandOfficeRef string `json:"land_office_ref" form:"land_office_ref" binding:"omitempty,max=100"`
	ProjectName   string `json:"project_name"    form:"project_name"    binding:"required,max=255"`
	TargetProject string `json:"target_project"  form:"target_project"  binding:"omitempty,max=255"`
	AssignedTo    string `json:"assigned_to"     form:"assigned_to"     binding:"omitempty,uuid"`
	Remarks       string `json:"remarks"         form:"remarks"`
}

// QueryPayload 核查官员发起的查询：每种表单一条备注
type QueryPayload struct {
	FieldBook   string `json:"field_book"   binding:"omitempty,max=1000"`
	Calculation string `json:"calculation"  binding:"omitempty,max=1000"`
	Traverse    string `json:"traverse"     binding:"omitempty,max=1000"`
	Plan        string `json:"plan"         binding:"omitempty,max=1000"`
	Certificate string `json:"certificate"  binding:"omitempty,max=1000"`
	LotData     string `json:"lot_data"     binding:"omitempty,max=1000"`
}

// AssignJobRequest 交接请求
type AssignJobRequest struct {
	TargetUserID string        `json:"target_user_id" binding:"required,uuid"`
	Remark       *string       `json:"remark"         binding:"omitempty,max=2000"`
	Query        *QueryPayload `json:"query"`
}

// UpdatePbtStatusRequest 子状态变更请求
type UpdatePbtStatusRequest struct {
	PbtStatus string `json:"pbtstatus" binding:"required"`
}

// JobListRequest 任务列表查询参数
type JobListRequest struct {
	Status     string `form:"status"`
	PbtStatus  string `form:"pbtstatus"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Keyword    string `form:"keyword"     binding:"omitempty,max=100"`
	Mine       bool   `form:"mine"`
	PaginationRequest
}

// HistoryListRequest 交接记录查询参数
type HistoryListRequest struct {
	PaginationRequest
}

// ── 响应 ──

// JobResponse 任务详情响应
type JobResponse struct {
	ID            string        `json:"id"`
	JobNumber     string        `json:"job_number"`
	ReferenceNo   string        `json:"reference_no"`
	LandOfficeRef string        `json:"land_office_ref,omitempty"`
	ProjectName   string        `json:"project_name"`
	TargetProject string        `json:"target_project,omitempty"`
	Status        string        `json:"status"`
	PbtStatus     string        `json:"pbtstatus"`
	Assignee      *UserResponse `json:"assignee,omitempty"`
	Creator       *UserResponse `json:"creator,omitempty"`
	Remarks       string        `json:"remarks,omitempty"`
	Attachment    string        `json:"attachment,omitempty"`
	Version       int           `json:"version"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

// CreateJobResponse 新建任务结果
type CreateJobResponse struct {
	ID         string        `json:"id"`
	JobNumber  string        `json:"job_number"`
	Status     string        `json:"status"`
	PbtStatus  string        `json:"pbtstatus"`
	Assignee   *UserResponse `json:"assignee,omitempty"`
	Attachment string        `json:"attachment,omitempty"`
}

// HandoffResponse 交接 / 子状态变更结果
type HandoffResponse struct {
	ID         string        `json:"id"`
	JobNumber  string        `json:"job_number"`
	Status     string        `json:"status"`
	PbtStatus  string        `json:"pbtstatus"`
	Assignee   *UserResponse `json:"assignee,omitempty"`
	ActionType string        `json:"action_type"`
}

// HistoryResponse 交接记录
type HistoryResponse struct {
	ID              string `json:"id"`
	JobID           string `json:"job_id"`
	FromUserID      string `json:"from_user_id"`
	ToUserID        string `json:"to_user_id"`
	FromRole        string `json:"from_role"`
	ToRole          string `json:"to_role"`
	ActionType      string `json:"action_type"`
	StatusBefore    string `json:"status_before"`
	StatusAfter     string `json:"status_after"`
	PbtStatusBefore string `json:"pbtstatus_before"`
	PbtStatusAfter  string `json:"pbtstatus_after"`
	Notes           string `json:"notes,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// QueryItemResponse 单条查询备注
type QueryItemResponse struct {
	Form   string `json:"form"`
	Remark string `json:"remark"`
}

// QueryResponse 当前查询记录
type QueryResponse struct {
	ID            string              `json:"id"`
	JobID         string              `json:"job_id"`
	ReviewerID    string              `json:"reviewer_id"`
	Items         []QueryItemResponse `json:"items"`
	QueryDate     string              `json:"query_date"`
	QueryReturned string              `json:"query_returned"`
	Open          bool                `json:"open"`
	CreatedAt     string              `json:"created_at"`
}
