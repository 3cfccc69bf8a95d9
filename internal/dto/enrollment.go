package dto

import "time"

// ── 选课模块 DTO ──

// EnrollRequest 选课请求，academic_year / semester 为空时自动推导
type EnrollRequest struct {
	StudentID    string `json:"student_id"    binding:"required,uuid"`
	ModuleID     string `json:"module_id"     binding:"required,uuid"`
	AcademicYear string `json:"academic_year" binding:"omitempty,academic_year"`
	Semester     string `json:"semester"      binding:"omitempty,semester"`
}

// UnenrollRequest 退课请求
type UnenrollRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	ModuleID  string `json:"module_id"  binding:"required,uuid"`
}

// MassEnrollRequest 按专业/年级/学期批量选课请求
type MassEnrollRequest struct {
	ProgramID    string `json:"program_id"    binding:"required,uuid"`
	Level        string `json:"level"         binding:"required,level"`
	Semester     string `json:"semester"      binding:"required,semester"`
	ModuleID     string `json:"module_id"     binding:"required,uuid"`
	AcademicYear string `json:"academic_year" binding:"omitempty,academic_year"`
}

// MassEnrollResponse 批量选课结果
type MassEnrollResponse struct {
	Enrolled        int        `json:"enrolled"`
	AlreadyEnrolled int        `json:"already_enrolled"`
	Failed          int        `json:"failed"`
	Errors          []RowError `json:"errors"`
}

// UpdateEnrollmentStatusRequest 修改选课状态请求
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE SUSPENDED COMPLETED"`
}

// EnrollmentListRequest 选课列表查询参数
type EnrollmentListRequest struct {
	PaginationRequest
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	ModuleID  string `form:"module_id"  binding:"omitempty,uuid"`
	ProgramID string `form:"program_id" binding:"omitempty,uuid"`
	Level     string `form:"level"      binding:"omitempty,level"`
	Semester  string `form:"semester"   binding:"omitempty,semester"`
	Status    string `form:"status"     binding:"omitempty,oneof=ACTIVE SUSPENDED COMPLETED"`
}

// EnrollmentResponse 选课记录响应
type EnrollmentResponse struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name,omitempty"`
	ModuleID     string    `json:"module_id"`
	ModuleName   string    `json:"module_name,omitempty"`
	ProgramID    *string   `json:"program_id"`
	ProgramName  string    `json:"program_name,omitempty"`
	AcademicYear string    `json:"academic_year"`
	Semester     string    `json:"semester"`
	Level        string    `json:"level"`
	Status       string    `json:"status"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

// EnrollmentStatsResponse 选课统计
type EnrollmentStatsResponse struct {
	Total           int64            `json:"total"`
	Active          int64            `json:"active"`
	Completed       int64            `json:"completed"`
	Suspended       int64            `json:"suspended"`
	ActiveByProgram map[string]int64 `json:"active_by_program"`
}
