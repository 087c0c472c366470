package models

import (
	"gorm.io/gorm"
)

// Admin 表示後台管理員帳號
// 房間與候選人的寫入操作都需要管理員登入後取得的 token
type Admin struct {
	gorm.Model
	Username string `gorm:"not null" json:"username"` // 部分唯一索引 idx_admins_username 保證在未刪除的帳號中唯一
	Password string `gorm:"not null" json:"-"` // 密碼雜湊，json 序列化時會被忽略
}
