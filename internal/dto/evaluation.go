package dto

import "time"

// ── 成绩模块 DTO ──

// CreateEvaluationRequest 录入成绩请求
type CreateEvaluationRequest struct {
	StudentID     string     `json:"student_id"    binding:"required,uuid"`
	ModuleID      string     `json:"module_id"     binding:"required,uuid"`
	TP            *float64   `json:"tp"`
	DS            *float64   `json:"ds"`
	Project       *float64   `json:"project"`
	Participation *float64   `json:"participation"`
	Feedback      string     `json:"feedback"      binding:"max=2000"`
	EvaluatedAt   *time.Time `json:"evaluated_at"`
}

// UpdateEvaluationRequest 修改成绩请求
// 分项整体替换，null 表示清空；version 用于乐观锁
type UpdateEvaluationRequest struct {
	TP            *float64   `json:"tp"`
	DS            *float64   `json:"ds"`
	Project       *float64   `json:"project"`
	Participation *float64   `json:"participation"`
	Feedback      string     `json:"feedback"      binding:"max=2000"`
	EvaluatedAt   *time.Time `json:"evaluated_at"`
	Version       int        `json:"version"       binding:"required,min=1"`
}

// EvaluationResponse 成绩响应
type EvaluationResponse struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"student_id"`
	StudentName   string     `json:"student_name,omitempty"`
	ModuleID      string     `json:"module_id"`
	ModuleName    string     `json:"module_name,omitempty"`
	TP            *float64   `json:"tp"`
	DS            *float64   `json:"ds"`
	Project       *float64   `json:"project"`
	Participation *float64   `json:"participation"`
	FinalScore    *float64   `json:"final_score"`
	Feedback      string     `json:"feedback"`
	EvaluatedAt   *time.Time `json:"evaluated_at"`
	Version       int        `json:"version"`
}

// AverageResponse 平均分响应
type AverageResponse struct {
	ID      string  `json:"id"`
	Average float64 `json:"average"`
}
