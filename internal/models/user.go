package models

import (
	"gorm.io/gorm"
)

// User 表示可以參加投票房間的用戶
// 只有登記在名冊中的 username 才能加入房間並投票
type User struct {
	gorm.Model        // 內嵌 gorm.Model，提供 ID、CreatedAt、UpdatedAt 和 DeletedAt 字段
	Username   string `gorm:"not null" json:"username"` // 用戶名，部分唯一索引 idx_users_username 保證在未刪除的用戶中唯一
	Name       string `gorm:"not null" json:"name"`                 // 顯示名稱
}
