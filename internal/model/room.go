package model

// Room 教室 — 对应 rooms
type Room struct {
	RoomID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name      string `gorm:"type:varchar(50);not null"                      json:"name"`
	Capacity  int    `gorm:"not null;default:0"                             json:"capacity"`
	Type      string `gorm:"type:varchar(30)"                               json:"type"` // amphi | td | tp
	Available bool   `gorm:"not null;default:true"                          json:"available"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
