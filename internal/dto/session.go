package dto

import "time"

// ── 课次模块 DTO ──

// SessionRequest 创建/修改课次请求
// start_at、duration_minutes、group_name 的业务校验由冲突检测统一完成
type SessionRequest struct {
	ModuleID        string     `json:"module_id"        binding:"required,uuid"`
	TeacherID       string     `json:"teacher_id"       binding:"required,uuid"`
	RoomID          string     `json:"room_id"          binding:"required,uuid"`
	GroupName       string     `json:"group_name"       binding:"max=50"`
	StartAt         *time.Time `json:"start_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Type            string     `json:"type"             binding:"omitempty,oneof=CM TD TP"`
}

// ConflictCheckRequest 冲突预检请求（不写库）
type ConflictCheckRequest struct {
	SessionRequest
	ExcludeSessionID string `json:"exclude_session_id" binding:"omitempty,uuid"`
}

// SessionListRequest 课次列表查询参数
type SessionListRequest struct {
	ModuleID  string     `form:"module_id"  binding:"omitempty,uuid"`
	TeacherID string     `form:"teacher_id" binding:"omitempty,uuid"`
	RoomID    string     `form:"room_id"    binding:"omitempty,uuid"`
	GroupName string     `form:"group"      binding:"omitempty,max=50"`
	From      *time.Time `form:"from"`
	To        *time.Time `form:"to"`
}

// CalendarRequest ICS 导出查询参数，group 与 teacher_id 二选一
type CalendarRequest struct {
	GroupName string     `form:"group"      binding:"omitempty,max=50"`
	TeacherID string     `form:"teacher_id" binding:"omitempty,uuid"`
	From      *time.Time `form:"from"`
	To        *time.Time `form:"to"`
}

// SessionResponse 课次响应
type SessionResponse struct {
	ID              string    `json:"id"`
	ModuleID        string    `json:"module_id"`
	ModuleName      string    `json:"module_name,omitempty"`
	TeacherID       string    `json:"teacher_id"`
	TeacherName     string    `json:"teacher_name,omitempty"`
	RoomID          string    `json:"room_id"`
	RoomName        string    `json:"room_name,omitempty"`
	GroupName       string    `json:"group_name"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            string    `json:"type"`
}

// SessionBrief 冲突报告中的已有课次
type SessionBrief struct {
	ID        string    `json:"id"`
	ModuleID  string    `json:"module_id"`
	TeacherID string    `json:"teacher_id"`
	RoomID    string    `json:"room_id"`
	GroupName string    `json:"group_name"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
}

// ConflictReportResponse 三个维度的完整冲突报告
type ConflictReportResponse struct {
	HasConflict bool           `json:"has_conflict"`
	Dimensions  []string       `json:"dimensions"`
	Room        []SessionBrief `json:"room"`
	Teacher     []SessionBrief `json:"teacher"`
	Group       []SessionBrief `json:"group"`
}

// SessionChangeLogResponse 课次变更记录响应
type SessionChangeLogResponse struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	Action     string  `json:"action"`
	OperatorID *string `json:"operator_id"`
	Before     any     `json:"before,omitempty"`
	After      any     `json:"after,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// ChangeLogListRequest 变更记录分页参数
type ChangeLogListRequest struct {
	PaginationRequest
}
