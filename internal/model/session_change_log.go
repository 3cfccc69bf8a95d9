package model

import (
	"time"

	"gorm.io/datatypes"
)

// 课次变更动作
const (
	ChangeActionCreate = "create"
	ChangeActionUpdate = "update"
	ChangeActionDelete = "delete"
)

// SessionChangeLog 课次变更记录 — 对应 session_change_logs
type SessionChangeLog struct {
	LogID      string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	SessionID  string         `gorm:"type:uuid;not null;index"                       json:"session_id"`
	Action     string         `gorm:"type:varchar(10);not null"                      json:"action"`
	OperatorID *string        `gorm:"type:uuid"                                      json:"operator_id"`
	Before     datatypes.JSON `gorm:"type:jsonb"                                     json:"before,omitempty"`
	After      datatypes.JSON `gorm:"type:jsonb"                                     json:"after,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (SessionChangeLog) TableName() string { return "session_change_logs" }
