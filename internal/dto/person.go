package dto

// ── 用户模块 DTO ──

// CreatePersonRequest 创建用户请求
// 必须且只能携带与 Role 对应的档案
type CreatePersonRequest struct {
	FirstName string               `json:"first_name" binding:"required,max=100"`
	LastName  string               `json:"last_name"  binding:"required,max=100"`
	Email     string               `json:"email"      binding:"required,email"`
	Password  string               `json:"password"   binding:"required,min=8,max=64"`
	Role      string               `json:"role"       binding:"required,oneof=admin teacher student"`
	Student   *StudentProfileInput `json:"student"`
	Teacher   *TeacherProfileInput `json:"teacher"`
	Admin     *AdminProfileInput   `json:"admin"`
}

// StudentProfileInput 学生档案
type StudentProfileInput struct {
	ProgramID *string  `json:"program_id" binding:"omitempty,uuid"`
	Level     string   `json:"level"      binding:"required,level"`
	GroupName string   `json:"group_name" binding:"required,max=50"`
	Skills    []string `json:"skills"`
}

// TeacherProfileInput 教师档案
type TeacherProfileInput struct {
	Speciality   string   `json:"speciality"    binding:"max=100"`
	Grade        string   `json:"grade"         binding:"max=50"`
	TeachingLoad int      `json:"teaching_load" binding:"min=0"`
	Skills       []string `json:"skills"`
}

// AdminProfileInput 管理员档案
type AdminProfileInput struct {
	Department string `json:"department" binding:"max=100"`
}

// PersonListRequest 用户列表查询参数
type PersonListRequest struct {
	PaginationRequest
	Role      string `form:"role"       binding:"omitempty,oneof=admin teacher student"`
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
	ProgramID string `form:"program_id" binding:"omitempty,uuid"`
	Level     string `form:"level"      binding:"omitempty,level"`
}

// PersonResponse 用户信息响应（脱敏）
type PersonResponse struct {
	ID        string                  `json:"id"`
	FirstName string                  `json:"first_name"`
	LastName  string                  `json:"last_name"`
	FullName  string                  `json:"full_name"`
	Email     string                  `json:"email"`
	Role      string                  `json:"role"`
	Student   *StudentProfileResponse `json:"student,omitempty"`
	Teacher   *TeacherProfileResponse `json:"teacher,omitempty"`
	Admin     *AdminProfileResponse   `json:"admin,omitempty"`
	CreatedAt string                  `json:"created_at"`
}

// StudentProfileResponse 学生档案响应
type StudentProfileResponse struct {
	ProgramID   *string  `json:"program_id"`
	ProgramName string   `json:"program_name,omitempty"`
	Level       string   `json:"level"`
	GroupName   string   `json:"group_name"`
	Skills      []string `json:"skills"`
}

// TeacherProfileResponse 教师档案响应
type TeacherProfileResponse struct {
	Speciality   string   `json:"speciality"`
	Grade        string   `json:"grade"`
	TeachingLoad int      `json:"teaching_load"`
	Skills       []string `json:"skills"`
}

// AdminProfileResponse 管理员档案响应
type AdminProfileResponse struct {
	Department string `json:"department"`
}

// ImportStudentsResponse 学生批量导入结果
type ImportStudentsResponse struct {
	Total    int               `json:"total"`
	Created  int               `json:"created"`
	Failed   int               `json:"failed"`
	Errors   []RowError        `json:"errors"`
	Accounts []ImportedAccount `json:"accounts"`
}

// ImportedAccount 导入成功的账号及临时密码，仅在导入结果中返回一次
type ImportedAccount struct {
	Row          int    `json:"row"`
	ID           string `json:"id"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}
