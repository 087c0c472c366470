package repository

import (
	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/storage"
)

type AdminRepository interface {
	Create(admin *models.Admin) error
	FindByUsername(username string) (*models.Admin, error)
}

type adminRepository struct {
	db *storage.PostgresDB
}

func NewAdminRepository(db *storage.PostgresDB) AdminRepository {
	return &adminRepository{db: db}
}

var adminConflicts = map[string]*apperrors.Error{
	"idx_admins_username": apperrors.New(apperrors.Conflict, "這個管理員帳號已存在！"),
}

func (r *adminRepository) Create(admin *models.Admin) error {
	if err := r.db.Create(admin).Error; err != nil {
		return translateUniqueViolation(err, adminConflicts)
	}
	return nil
}

func (r *adminRepository) FindByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
