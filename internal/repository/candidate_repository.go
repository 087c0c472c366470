package repository

import (
	"voteroom_web/internal/models"
	"voteroom_web/internal/storage"

	"gorm.io/gorm"
)

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	CreateBatch(candidates []models.Candidate) error
	FindByID(id uint) (*models.Candidate, error)
	FindByRoom(roomID uint) ([]models.Candidate, error)
	NamesInRoom(roomID uint) ([]string, error)
	NameExistsInRoom(roomID uint, name string, excludeID uint) (bool, error)
	CountByIDsInRoom(roomID uint, ids []uint) (int64, error)
	Update(candidate *models.Candidate) error
	Delete(id uint) error
}

type candidateRepository struct {
	db *storage.PostgresDB
}

func NewCandidateRepository(db *storage.PostgresDB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	return r.db.Create(candidate).Error
}

func (r *candidateRepository) CreateBatch(candidates []models.Candidate) error {
	return r.db.Create(&candidates).Error
}

func (r *candidateRepository) FindByID(id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.First(&candidate, id).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// FindByRoom 查詢房間的所有候選人，依建立時間由舊到新
func (r *candidateRepository) FindByRoom(roomID uint) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.Where("room_id = ?", roomID).Order("created_at ASC").Find(&candidates).Error
	return candidates, err
}

func (r *candidateRepository) NamesInRoom(roomID uint) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Candidate{}).Where("room_id = ?", roomID).Pluck("name", &names).Error
	return names, err
}

// NameExistsInRoom 檢查房間內是否已有同名候選人，名稱比對去除前後空白且不區分大小寫
// excludeID 非零時排除該候選人自己，供更新時使用
func (r *candidateRepository) NameExistsInRoom(roomID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Candidate{}).
		Where("room_id = ? AND LOWER(TRIM(name)) = LOWER(TRIM(?))", roomID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CountByIDsInRoom 計算 ids 中有幾個是這個房間的候選人
// 用來一次驗證整批選票，抓出不存在或屬於別間房的候選人
func (r *candidateRepository) CountByIDsInRoom(roomID uint, ids []uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Candidate{}).
		Where("room_id = ? AND id IN ?", roomID, ids).
		Count(&count).Error
	return count, err
}

func (r *candidateRepository) Update(candidate *models.Candidate) error {
	return r.db.Save(candidate).Error
}

func (r *candidateRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Candidate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
