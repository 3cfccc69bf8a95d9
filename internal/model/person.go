package model

// 角色
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Person 用户表 — 对应 users
// 公共字段在此，角色相关数据放在与 Role 对应的唯一一个 Profile 中
type Person struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	FirstName    string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName     string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null"                      json:"role"`
	SoftDeleteModel

	Student *StudentProfile `gorm:"foreignKey:UserID;references:UserID" json:"student,omitempty"`
	Teacher *TeacherProfile `gorm:"foreignKey:UserID;references:UserID" json:"teacher,omitempty"`
	Admin   *AdminProfile   `gorm:"foreignKey:UserID;references:UserID" json:"admin,omitempty"`
}

// TableName 指定表名
func (Person) TableName() string { return "users" }

// FullName 展示用姓名
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ProfileConsistent Role 与所携带的 Profile 是否一致（恰好一个且匹配）
func (p *Person) ProfileConsistent() bool {
	n := 0
	if p.Student != nil {
		n++
	}
	if p.Teacher != nil {
		n++
	}
	if p.Admin != nil {
		n++
	}
	if n != 1 {
		return false
	}
	switch p.Role {
	case RoleStudent:
		return p.Student != nil
	case RoleTeacher:
		return p.Teacher != nil
	case RoleAdmin:
		return p.Admin != nil
	}
	return false
}

// StudentProfile 学生档案 — 对应 student_profiles
type StudentProfile struct {
	UserID    string      `gorm:"type:uuid;primaryKey"      json:"-"`
	ProgramID *string     `gorm:"type:uuid;index"           json:"program_id"`
	Level     string      `gorm:"type:varchar(10);not null" json:"level"` // L1..L3, M1, M2
	GroupName string      `gorm:"type:varchar(50);not null" json:"group_name"`
	Skills    StringArray `gorm:"type:text[]"               json:"skills"`

	Program *Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// TableName 指定表名
func (StudentProfile) TableName() string { return "student_profiles" }

// TeacherProfile 教师档案 — 对应 teacher_profiles
type TeacherProfile struct {
	UserID       string      `gorm:"type:uuid;primaryKey"          json:"-"`
	Speciality   string      `gorm:"type:varchar(100)"             json:"speciality"`
	Grade        string      `gorm:"type:varchar(50)"              json:"grade"`
	TeachingLoad int         `gorm:"not null;default:0"            json:"teaching_load"` // 年度课时
	Skills       StringArray `gorm:"type:text[]"                   json:"skills"`
}

// TableName 指定表名
func (TeacherProfile) TableName() string { return "teacher_profiles" }

// AdminProfile 管理员档案 — 对应 admin_profiles
type AdminProfile struct {
	UserID     string `gorm:"type:uuid;primaryKey" json:"-"`
	Department string `gorm:"type:varchar(100)"    json:"department"`
}

// TableName 指定表名
func (AdminProfile) TableName() string { return "admin_profiles" }
