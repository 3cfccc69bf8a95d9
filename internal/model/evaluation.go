package model

import "time"

// Evaluation 成绩 — 对应 evaluations
// 各分项为 [0,20] 可空；FinalScore 由分项派生，不直接写入
type Evaluation struct {
	EvaluationID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"evaluation_id"`
	StudentID     string     `gorm:"type:uuid;not null"                             json:"student_id"`
	ModuleID      string     `gorm:"type:uuid;not null;index"                       json:"module_id"`
	TP            *float64   `gorm:"column:tp;type:numeric(4,2)"                    json:"tp"`
	DS            *float64   `gorm:"column:ds;type:numeric(4,2)"                    json:"ds"`
	Project       *float64   `gorm:"type:numeric(4,2)"                              json:"project"`
	Participation *float64   `gorm:"type:numeric(4,2)"                              json:"participation"`
	FinalScore    *float64   `gorm:"type:double precision"                          json:"final_score"`
	Feedback      string     `gorm:"type:text"                                      json:"feedback"`
	EvaluatedAt   *time.Time `json:"evaluated_at"`
	VersionedModel

	Student *Person `gorm:"foreignKey:StudentID;references:UserID"  json:"student,omitempty"`
	Module  *Module `gorm:"foreignKey:ModuleID;references:ModuleID" json:"module,omitempty"`
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }
