package dto

// ── 仪表盘 DTO ──

// AdminDashboardResponse 管理员首页
type AdminDashboardResponse struct {
	Students   int64                   `json:"students"`
	Teachers   int64                   `json:"teachers"`
	Admins     int64                   `json:"admins"`
	Programs   int                     `json:"programs"`
	Modules    int                     `json:"modules"`
	Rooms      int                     `json:"rooms"`
	Enrollment EnrollmentStatsResponse `json:"enrollment"`
}

// TeacherDashboardResponse 教师首页
type TeacherDashboardResponse struct {
	Modules          []ModuleResponse  `json:"modules"`
	UpcomingSessions []SessionResponse `json:"upcoming_sessions"`
}

// StudentDashboardResponse 学生首页
type StudentDashboardResponse struct {
	Modules          []ModuleResponse     `json:"modules"`
	UpcomingSessions []SessionResponse    `json:"upcoming_sessions"`
	Evaluations      []EvaluationResponse `json:"evaluations"`
	Average          float64              `json:"average"`
}
