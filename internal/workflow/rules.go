package workflow

// Input 一次交接的决策输入
type Input struct {
	ActorRole  Role
	TargetRole Role
	Status     Status
	PbtStatus  PbtStatus
	NewQuery   bool
}

// Outcome 决策结果
type Outcome struct {
	Status    Status
	PbtStatus PbtStatus
	Action    ActionType
	Rule      string // 命中的规则名，写入日志
}

type rule struct {
	name  string
	match func(in Input) bool
	apply func(in Input) Outcome
}

func from(actor Role, targets ...Role) func(Input) bool {
	return func(in Input) bool {
		if in.ActorRole != actor {
			return false
		}
		for _, t := range targets {
			if in.TargetRole == t {
				return true
			}
		}
		return false
	}
}

// rules 按优先级排列，第一个命中的规则生效
var rules = []rule{
	{
		name:  "survey_completed",
		match: from(RoleSS, RoleVO),
		apply: func(in Input) Outcome {
			return Outcome{Status: StatusCompleted, PbtStatus: in.PbtStatus, Action: ActionCompleted}
		},
	},
	{
		name: "field_submitted",
		match: func(in Input) bool {
			return from(RoleAS, RoleFI)(in) || from(RolePP, RoleFI, RoleSD)(in)
		},
		apply: func(in Input) Outcome {
			return Outcome{Status: StatusSubmitted, PbtStatus: in.PbtStatus, Action: ActionSubmitted}
		},
	},
	{
		name: "checking_started",
		match: func(in Input) bool {
			return from(RoleVO, RoleOIC)(in) && in.Status == StatusCompleted
		},
		apply: func(Input) Outcome {
			return Outcome{Status: StatusAssigned, PbtStatus: PbtChecking, Action: ActionAssigned}
		},
	},
	{
		name: "checking_finished",
		match: func(in Input) bool {
			return from(RoleOIC, RoleVO)(in) && in.PbtStatus == PbtChecking
		},
		apply: func(Input) Outcome {
			return Outcome{Status: StatusCompleted, PbtStatus: PbtChecked, Action: ActionCompleted}
		},
	},
}

// Decide 计算交接后的状态、子状态与动作类型
// 纯函数：不读取任何外部状态
func Decide(in Input) Outcome {
	out := Outcome{Status: StatusAssigned, PbtStatus: in.PbtStatus, Action: ActionAssigned, Rule: "default"}
	for _, r := range rules {
		if r.match(in) {
			out = r.apply(in)
			out.Rule = r.name
			break
		}
	}
	if out.PbtStatus == "" || !out.Status.AllowsPbt() {
		out.PbtStatus = PbtNone
	}
	return out
}

// CanReassignCompleted 已完成任务仅 OIC / VO 可再次交接
func CanReassignCompleted(actor Role) bool {
	return actor == RoleOIC || actor == RoleVO
}

// CanIssueQuery 仅 VO 可发起查询
func CanIssueQuery(actor Role) bool {
	return actor == RoleVO
}

// CanSetPbtStatus 校验子状态的显式变更
// 目前只允许 checked → acquisition_complete
func CanSetPbtStatus(current, next PbtStatus) bool {
	return next == PbtAcquisitionComplete && current == PbtChecked
}

// ResolvesQuery 该方向的交接会回填未关闭查询的 query_returned
func ResolvesQuery(actor, target Role) bool {
	return (actor == RoleAS && target == RoleFI) || (actor == RolePP && target == RoleSD)
}
