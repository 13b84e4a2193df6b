package model

import (
	"time"

	"gorm.io/datatypes"
)

// 查询备注对应的表单代码
const (
	FormFieldBook   = "field_book"
	FormCalculation = "calculation"
	FormTraverse    = "traverse"
	FormPlan        = "plan"
	FormCertificate = "certificate"
	FormLotData     = "lot_data"
)

// QueryInfo 查询内容：每种表单一条备注，外加发出日期与退回日期
// 报表视图直接读取该 JSON，字段顺序与命名不可随意调整
type QueryInfo struct {
	FieldBook     string `json:"field_book,omitempty"`
	Calculation   string `json:"calculation,omitempty"`
	Traverse      string `json:"traverse,omitempty"`
	Plan          string `json:"plan,omitempty"`
	Certificate   string `json:"certificate,omitempty"`
	LotData       string `json:"lot_data,omitempty"`
	QueryDate     string `json:"query_date"`
	QueryReturned string `json:"query_returned"`
}

// QueryItem 单条表单备注
type QueryItem struct {
	Form   string `json:"form"`
	Remark string `json:"remark"`
}

// Items 按固定顺序返回非空备注
func (q QueryInfo) Items() []QueryItem {
	all := []QueryItem{
		{FormFieldBook, q.FieldBook},
		{FormCalculation, q.Calculation},
		{FormTraverse, q.Traverse},
		{FormPlan, q.Plan},
		{FormCertificate, q.Certificate},
		{FormLotData, q.LotData},
	}
	items := make([]QueryItem, 0, len(all))
	for _, it := range all {
		if it.Remark != "" {
			items = append(items, it)
		}
	}
	return items
}

// IsEmpty 没有任何表单备注
func (q QueryInfo) IsEmpty() bool { return len(q.Items()) == 0 }

// IsOpen 查询已发出且尚未退回
func (q QueryInfo) IsOpen() bool { return !q.IsEmpty() && q.QueryReturned == "" }

// Review 查询记录表，对应 reviews（每个查询周期一行）
type Review struct {
	ReviewID    string                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"review_id"`
	SurveyJobID string                        `gorm:"column:surveyjob_id;type:uuid;not null;index"   json:"surveyjob_id"`
	ReviewerID  string                        `gorm:"type:uuid;not null"                             json:"reviewer_id"`
	QueryInfo   datatypes.JSONType[QueryInfo] `gorm:"type:jsonb;not null"                            json:"query_info"`
	CreatedAt   time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Review) TableName() string { return "reviews" }

// Info 读取查询内容
func (r *Review) Info() QueryInfo { return r.QueryInfo.Data() }
