package workflow

// Role 岗位代码
type Role string

const (
	RoleOIC Role = "OIC" // 主管官员
	RoleVO  Role = "VO"  // 核查官员
	RoleSS  Role = "SS"  // 测量员
	RoleAS  Role = "AS"  // 外业准备
	RolePP  Role = "PP"  // 外业准备（绘图）
	RoleFI  Role = "FI"  // 外业检查
	RoleSD  Role = "SD"  // 绘图员
)

var roles = map[Role]bool{
	RoleOIC: true, RoleVO: true, RoleSS: true, RoleAS: true,
	RolePP: true, RoleFI: true, RoleSD: true,
}

// Valid 是否为已知岗位
func (r Role) Valid() bool { return roles[r] }

// Status 任务主状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusSubmitted Status = "submitted"
	StatusCompleted Status = "completed"
	StatusReviewed  Status = "reviewed"
	StatusApproved  Status = "approved"
)

// PbtStatus 核查子状态，仅 OIC/VO 核查环节使用
type PbtStatus string

const (
	PbtNone                PbtStatus = "none"
	PbtChecking            PbtStatus = "checking"
	PbtChecked             PbtStatus = "checked"
	PbtAcquisitionComplete PbtStatus = "acquisition_complete"
)

var pbtStatuses = map[PbtStatus]bool{
	PbtNone: true, PbtChecking: true, PbtChecked: true, PbtAcquisitionComplete: true,
}

// Valid 是否为已知子状态
func (p PbtStatus) Valid() bool { return pbtStatuses[p] }

// ActionType 交接记录动作类型
type ActionType string

const (
	ActionAssigned        ActionType = "assigned"
	ActionSubmitted       ActionType = "submitted"
	ActionCompleted       ActionType = "completed"
	ActionPbtStatusUpdate ActionType = "pbtstatus_update"
)

// AllowsPbt 子状态只能在 assigned / completed 下取非 none 值
func (s Status) AllowsPbt() bool {
	return s == StatusAssigned || s == StatusCompleted
}
