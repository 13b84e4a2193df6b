package model

// SurveyJob 测量任务表，对应 survey_jobs
type SurveyJob struct {
	SurveyJobID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"surveyjob_id"`
	JobNumber     string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"job_number"`
	ReferenceNo   string  `gorm:"type:varchar(100);not null"                     json:"reference_no"`
	LandOfficeRef string  `gorm:"type:varchar(100)"                              json:"land_office_ref,omitempty"`
	ProjectName   string  `gorm:"type:varchar(255);not null"                     json:"project_name"`
	TargetProject string  `gorm:"type:varchar(255)"                              json:"target_project,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`    // pending | assigned | submitted | completed | reviewed | approved
	PbtStatus     string  `gorm:"column:pbtstatus;type:varchar(30);not null;default:'none'" json:"pbtstatus"` // none | checking | checked | acquisition_complete
	AssignedTo    *string `gorm:"type:uuid"                                      json:"assigned_to,omitempty"`
	CreatedBy     string  `gorm:"type:uuid;not null"                             json:"created_by"`
	Remarks       string  `gorm:"type:text"                                      json:"remarks,omitempty"`
	Attachment    string  `gorm:"type:varchar(500)"                              json:"attachment,omitempty"`
	VersionedModel

	// 关联
	Assignee *User `gorm:"foreignKey:AssignedTo;references:UserID" json:"assignee,omitempty"`
	Creator  *User `gorm:"foreignKey:CreatedBy;references:UserID"  json:"creator,omitempty"`
}

// TableName 指定表名
func (SurveyJob) TableName() string { return "survey_jobs" }

// IsAssignedTo 当前持有人是否为指定用户
func (j *SurveyJob) IsAssignedTo(userID string) bool {
	return j.AssignedTo != nil && *j.AssignedTo == userID
}
