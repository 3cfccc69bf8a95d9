package dto

import "time"

// ── 专业 ──

// CreateProgramRequest 创建专业请求
type CreateProgramRequest struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateProgramRequest 更新专业请求
type UpdateProgramRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// ProgramResponse 专业响应
type ProgramResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ── 教室 ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	Name      string `json:"name"      binding:"required,max=50"`
	Capacity  int    `json:"capacity"  binding:"min=0"`
	Type      string `json:"type"      binding:"omitempty,oneof=amphi td tp"`
	Available *bool  `json:"available"`
}

// UpdateRoomRequest 更新教室请求
type UpdateRoomRequest struct {
	Name      *string `json:"name"      binding:"omitempty,min=1,max=50"`
	Capacity  *int    `json:"capacity"  binding:"omitempty,min=0"`
	Type      *string `json:"type"      binding:"omitempty,oneof=amphi td tp"`
	Available *bool   `json:"available"`
}

// FreeRoomsRequest 空闲教室查询参数
type FreeRoomsRequest struct {
	Start       time.Time `form:"start"        binding:"required"`
	End         time.Time `form:"end"          binding:"required,gtfield=Start"`
	MinCapacity int       `form:"min_capacity" binding:"omitempty,min=0"`
}

// RoomResponse 教室响应
type RoomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Type      string `json:"type"`
	Available bool   `json:"available"`
}

// ── 教学模块 ──

// CreateModuleRequest 创建模块请求
type CreateModuleRequest struct {
	Name           string   `json:"name"            binding:"required,max=150"`
	Hours          int      `json:"hours"           binding:"min=0"`
	RequiredSkills []string `json:"required_skills"`
	Semester       string   `json:"semester"        binding:"required,semester"`
	ProgramID      string   `json:"program_id"      binding:"required,uuid"`
	TeacherID      *string  `json:"teacher_id"      binding:"omitempty,uuid"`
}

// UpdateModuleRequest 更新模块请求
type UpdateModuleRequest struct {
	Name           *string  `json:"name"            binding:"omitempty,min=1,max=150"`
	Hours          *int     `json:"hours"           binding:"omitempty,min=0"`
	RequiredSkills []string `json:"required_skills"`
	Semester       *string  `json:"semester"        binding:"omitempty,semester"`
	ProgramID      *string  `json:"program_id"      binding:"omitempty,uuid"`
}

// AssignTeacherRequest 指派教师请求，teacher_id 为空表示取消指派
type AssignTeacherRequest struct {
	TeacherID *string `json:"teacher_id" binding:"omitempty,uuid"`
}

// ModuleListRequest 模块列表查询参数
type ModuleListRequest struct {
	ProgramID string `form:"program_id" binding:"omitempty,uuid"`
	Semester  string `form:"semester"   binding:"omitempty,semester"`
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
}

// ModuleResponse 模块响应
type ModuleResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Hours          int      `json:"hours"`
	RequiredSkills []string `json:"required_skills"`
	Semester       string   `json:"semester"`
	ProgramID      string   `json:"program_id"`
	ProgramName    string   `json:"program_name,omitempty"`
	TeacherID      *string  `json:"teacher_id"`
	TeacherName    string   `json:"teacher_name,omitempty"`
}
