package model

import "time"

// JobHistory 任务交接记录表，对应 job_histories（纯审计日志，插入后不可修改）
type JobHistory struct {
	HistoryID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	SurveyJobID     string    `gorm:"type:uuid;not null;index"                       json:"survey_job_id"`
	FromUserID      string    `gorm:"type:uuid;not null"                             json:"from_user_id"`
	ToUserID        string    `gorm:"type:uuid;not null"                             json:"to_user_id"`
	FromRole        string    `gorm:"type:varchar(10);not null"                      json:"from_role"`
	ToRole          string    `gorm:"type:varchar(10);not null"                      json:"to_role"`
	ActionType      string    `gorm:"type:varchar(30);not null"                      json:"action_type"` // assigned | submitted | completed | pbtstatus_update
	StatusBefore    string    `gorm:"type:varchar(20);not null"                      json:"status_before"`
	StatusAfter     string    `gorm:"type:varchar(20);not null"                      json:"status_after"`
	PbtStatusBefore string    `gorm:"column:pbtstatus_before;type:varchar(30);not null" json:"pbtstatus_before"`
	PbtStatusAfter  string    `gorm:"column:pbtstatus_after;type:varchar(30);not null"  json:"pbtstatus_after"`
	Notes           string    `gorm:"type:text"                                      json:"notes,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (JobHistory) TableName() string { return "job_histories" }
