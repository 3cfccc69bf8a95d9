package model

// Program 专业（Filiere）— 对应 programs
type Program struct {
	ProgramID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description"`
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }
