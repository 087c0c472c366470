package repository

import (
	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/storage"

	"gorm.io/gorm"
)

// CandidateTally 是單一候選人的得票統計，附上候選人基本資料
type CandidateTally struct {
	CandidateID uint   `json:"candidateId"`
	Count       int64  `json:"count"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Intro       string `json:"intro"`
	Group       string `json:"group"`
}

type VoteRepository interface {
	HasVoted(roomID uint, username string) (bool, error)
	FindByRoomAndUsername(roomID uint, username string) ([]models.Vote, error)
	SubmitBallot(receipt *models.BallotReceipt, votes []models.Vote) error
	TallyByRoom(roomID uint) ([]CandidateTally, error)
}

type voteRepository struct {
	db *storage.PostgresDB
}

func NewVoteRepository(db *storage.PostgresDB) VoteRepository {
	return &voteRepository{db: db}
}

var voteConflicts = map[string]*apperrors.Error{
	"idx_receipts_room_user":        apperrors.New(apperrors.Conflict, "你已經投過票了。"),
	"idx_votes_room_user_candidate": apperrors.New(apperrors.Conflict, "同一位候選人不能重複投票。"),
}

func (r *voteRepository) HasVoted(roomID uint, username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("room_id = ? AND username = ?", roomID, username).
		Count(&count).Error
	return count > 0, err
}

func (r *voteRepository) FindByRoomAndUsername(roomID uint, username string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.Where("room_id = ? AND username = ?", roomID, username).Find(&votes).Error
	return votes, err
}

// SubmitBallot 在同一交易中寫入投票憑證與整批選票
// 憑證的 (room_id, username) 唯一索引讓併發的重複提交在這裡被擋下，
// 不需要依賴先查後寫
func (r *voteRepository) SubmitBallot(receipt *models.BallotReceipt, votes []models.Vote) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		return tx.Create(&votes).Error
	})
	if err != nil {
		return translateUniqueViolation(err, voteConflicts)
	}
	return nil
}

// TallyByRoom 統計房間內每位有得票的候選人的票數
// 票數由多到少排序，同票以候選人建立時間由舊到新排序，零票的候選人不出現
// 裸 SQL 不經過 gorm 的軟刪除範圍，選票和候選人都要自己過濾刪除標記，
// 投給已刪除候選人的票不列入結果
func (r *voteRepository) TallyByRoom(roomID uint) ([]CandidateTally, error) {
	var tallies []CandidateTally
	err := r.db.Table("votes").
		Select(`votes.candidate_id AS candidate_id, COUNT(*) AS count,
			candidates.name AS name, candidates.avatar AS avatar,
			candidates.intro AS intro, candidates."group" AS "group"`).
		Joins("JOIN candidates ON candidates.id = votes.candidate_id AND candidates.deleted_at IS NULL").
		Where("votes.room_id = ? AND votes.deleted_at IS NULL", roomID).
		Group(`votes.candidate_id, candidates.name, candidates.avatar,
			candidates.intro, candidates."group", candidates.created_at`).
		Order("count DESC, candidates.created_at ASC").
		Scan(&tallies).Error
	return tallies, err
}
