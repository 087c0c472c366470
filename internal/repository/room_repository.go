package repository

import (
	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/storage"

	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	FindByCode(code string) (*models.Room, error)
	Update(room *models.Room) error
	DeleteCascade(id uint) error
	FindAll(status models.RoomStatus) ([]models.Room, error)
	AddAllowedUsername(id uint, username string) (*models.Room, error)
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

var roomConflicts = map[string]*apperrors.Error{
	"idx_rooms_code":        apperrors.New(apperrors.Conflict, "房間代碼已存在！"),
	"idx_rooms_single_open": apperrors.New(apperrors.Conflict, "系統同時只允許一間開放中的房間！"),
}

func (r *roomRepository) Create(room *models.Room) error {
	if err := r.db.Create(room).Error; err != nil {
		return translateUniqueViolation(err, roomConflicts)
	}
	return nil
}

func (r *roomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByCode(code string) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("code = ?", code).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Update 整筆寫回，開房衝突與代碼重複由唯一索引擋下
func (r *roomRepository) Update(room *models.Room) error {
	if err := r.db.Save(room).Error; err != nil {
		return translateUniqueViolation(err, roomConflicts)
	}
	return nil
}

// DeleteCascade 在同一交易中刪除房間與其候選人、選票和投票憑證
func (r *roomRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, id).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.BallotReceipt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&room).Error
	})
}

// FindAll 查詢所有房間，最新的排在前面，status 為空字串時不過濾
func (r *roomRepository) FindAll(status models.RoomStatus) ([]models.Room, error) {
	var rooms []models.Room
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&rooms).Error
	return rooms, err
}

// AddAllowedUsername 以單一條件更新把用戶加入允許名單
// 名單中已存在時不會重複加入，與兩段式的讀改寫不同，併發加入不會彼此覆蓋
func (r *roomRepository) AddAllowedUsername(id uint, username string) (*models.Room, error) {
	err := r.db.Model(&models.Room{}).
		Where("id = ? AND NOT (? = ANY(allowed_usernames))", id, username).
		Update("allowed_usernames", gorm.Expr("array_append(allowed_usernames, ?)", username)).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}
