package models

import (
	"gorm.io/gorm"
)

// Vote 表示一張選票，建立後不可修改
// (RoomID, Username, CandidateID) 三元組由資料庫唯一索引保證不重複
type Vote struct {
	gorm.Model
	RoomID      uint   `gorm:"not null;uniqueIndex:idx_votes_room_user_candidate" json:"roomId"`
	Username    string `gorm:"not null;uniqueIndex:idx_votes_room_user_candidate" json:"username"`
	CandidateID uint   `gorm:"not null;uniqueIndex:idx_votes_room_user_candidate" json:"candidateId"`
}

// BallotReceipt 表示用戶在某房間已經交出選票的憑證
// 與選票在同一交易中寫入，(RoomID, Username) 的唯一索引
// 讓同一用戶的重複提交在資料庫層被擋下，而不是靠先查後寫
type BallotReceipt struct {
	gorm.Model
	RoomID   uint   `gorm:"not null;uniqueIndex:idx_receipts_room_user" json:"roomId"`
	Username string `gorm:"not null;uniqueIndex:idx_receipts_room_user" json:"username"`
}
