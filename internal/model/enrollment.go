package model

import "time"

// 选课状态
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentSuspended = "SUSPENDED"
	EnrollmentCompleted = "COMPLETED"
)

// Enrollment 选课记录 — 对应 enrollments
// (student_id, module_id) 唯一；创建后只允许修改状态
type Enrollment struct {
	EnrollmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string    `gorm:"type:uuid;not null"                             json:"student_id"`
	ModuleID     string    `gorm:"type:uuid;not null;index"                       json:"module_id"`
	ProgramID    *string   `gorm:"type:uuid;index"                                json:"program_id"`
	AcademicYear string    `gorm:"type:varchar(9);not null"                       json:"academic_year"` // 2025-2026
	Semester     string    `gorm:"type:varchar(4);not null"                       json:"semester"`
	Level        string    `gorm:"type:varchar(10)"                               json:"level"`
	Status       string    `gorm:"type:varchar(20);not null;default:'ACTIVE'"     json:"status"`
	EnrolledAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"enrolled_at"`
	BaseModel

	Student *Person  `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Module  *Module  `gorm:"foreignKey:ModuleID;references:ModuleID"   json:"module,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// StudentModule 旧版学生-模块直接关联 — 对应 student_modules
// 仅作兼容：选课记录为空时作为回退数据源
type StudentModule struct {
	StudentID string    `gorm:"type:uuid;primaryKey"               json:"student_id"`
	ModuleID  string    `gorm:"type:uuid;primaryKey"               json:"module_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (StudentModule) TableName() string { return "student_modules" }
