package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Room 表示一個投票房間
type Room struct {
	gorm.Model
	Code             string         `gorm:"not null" json:"code"` // 房間代碼，部分唯一索引 idx_rooms_code 保證在未刪除的房間中唯一
	Name             string         `gorm:"not null" json:"name"`
	Description      string         `json:"description"`
	Status           RoomStatus     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	MaxVotesPerUser  int            `gorm:"not null;default:1" json:"maxVotesPerUser"`    // 每位用戶最多可投的票數
	AllowedUsernames pq.StringArray `gorm:"type:text[];not null" json:"allowedUsernames"` // 允許投票的用戶名單
}

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusDraft  RoomStatus = "draft"  // 草稿，尚未開放投票
	RoomStatusOpen   RoomStatus = "open"   // 開放投票中，全系統同時只能有一間
	RoomStatusClosed RoomStatus = "closed" // 已關閉，禁止投票與候選人異動
)

// ValidStatus 檢查狀態是否為合法的枚舉值
func ValidStatus(s RoomStatus) bool {
	switch s {
	case RoomStatusDraft, RoomStatusOpen, RoomStatusClosed:
		return true
	}
	return false
}

// HasAllowedUsername 檢查用戶是否已在允許名單中
func (r *Room) HasAllowedUsername(username string) bool {
	for _, u := range r.AllowedUsernames {
		if u == username {
			return true
		}
	}
	return false
}
