package model

// Module 教学模块（课程）— 对应 modules
type Module struct {
	ModuleID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_id"`
	Name           string      `gorm:"type:varchar(150);not null"                     json:"name"`
	Hours          int         `gorm:"not null;default:0"                             json:"hours"`
	RequiredSkills StringArray `gorm:"type:text[]"                                    json:"required_skills"`
	Semester       string      `gorm:"type:varchar(4);not null"                       json:"semester"` // S1..S10
	ProgramID      string      `gorm:"type:uuid;not null;index"                       json:"program_id"`
	TeacherID      *string     `gorm:"type:uuid;index"                                json:"teacher_id"`
	BaseModel

	Program *Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
	Teacher *Person  `gorm:"foreignKey:TeacherID;references:UserID"    json:"teacher,omitempty"`
}

// TableName 指定表名
func (Module) TableName() string { return "modules" }
