package model

import (
	"time"

	"gorm.io/gorm"
)

// 课次类型
const (
	SessionTypeLecture  = "CM"
	SessionTypeTutorial = "TD"
	SessionTypeLab      = "TP"
)

// Session 课次 — 对应 sessions
// 时间区间为半开区间 [StartAt, EndAt)
type Session struct {
	SessionID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	ModuleID        string    `gorm:"type:uuid;not null;index"                       json:"module_id"`
	TeacherID       string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	RoomID          string    `gorm:"type:uuid;not null"                             json:"room_id"`
	GroupName       string    `gorm:"type:varchar(50);not null"                      json:"group_name"`
	StartAt         time.Time `gorm:"not null"                                       json:"start_at"`
	DurationMinutes int       `gorm:"not null"                                       json:"duration_minutes"`
	EndAt           time.Time `gorm:"not null"                                       json:"end_at"`
	Type            string    `gorm:"type:varchar(4);not null;default:'CM'"          json:"type"`
	BaseModel

	Module  *Module `gorm:"foreignKey:ModuleID;references:ModuleID" json:"module,omitempty"`
	Teacher *Person `gorm:"foreignKey:TeacherID;references:UserID"  json:"teacher,omitempty"`
	Room    *Room   `gorm:"foreignKey:RoomID;references:RoomID"     json:"room,omitempty"`
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }

// SessionEnd 由开始时间与时长推导结束时间
func SessionEnd(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// BeforeSave 每次创建/更新时重新计算 EndAt
func (s *Session) BeforeSave(_ *gorm.DB) error {
	s.EndAt = SessionEnd(s.StartAt, s.DurationMinutes)
	return nil
}

// ConflictDimension 冲突维度
type ConflictDimension string

// 冲突维度，检查顺序即声明顺序
const (
	DimensionRoom    ConflictDimension = "room"
	DimensionTeacher ConflictDimension = "teacher"
	DimensionGroup   ConflictDimension = "group"
)

// ConflictDimensions 按检查顺序返回全部维度
func ConflictDimensions() []ConflictDimension {
	return []ConflictDimension{DimensionRoom, DimensionTeacher, DimensionGroup}
}
