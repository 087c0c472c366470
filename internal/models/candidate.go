package models

import (
	"gorm.io/gorm"
)

// Candidate 表示房間內的一位候選人
// RoomID 為空時代表尚未分配房間的模板候選人
type Candidate struct {
	gorm.Model
	RoomID *uint  `gorm:"index" json:"roomId"`
	Name   string `gorm:"not null" json:"name"` // 房間內不區分大小寫唯一（應用層檢查）
	Avatar string `json:"avatar"`
	Intro  string `json:"intro"`
	Group  string `gorm:"not null;default:'common'" json:"group"` // 自由分組標籤，前端用來分群顯示
}
