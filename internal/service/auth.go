package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/repository"
	"voteroom_web/internal/utils"
)

type AuthService struct {
	adminRepo repository.AdminRepository
}

func NewAuthService(adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{adminRepo: adminRepo}
}

// Register 建立新的管理員帳號，密碼以 bcrypt 雜湊後儲存
func (s *AuthService) Register(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return apperrors.New(apperrors.Validation, "缺少 username 或 password！")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.adminRepo.Create(&models.Admin{
		Username: strings.TrimSpace(username),
		Password: string(hashed),
	})
}

// Login 驗證管理員帳號密碼，成功時回傳 JWT token
// 帳號不存在和密碼錯誤回同一個訊息，不洩漏帳號是否存在
func (s *AuthService) Login(username, password string) (string, *models.Admin, error) {
	admin, err := s.adminRepo.FindByUsername(username)
	if err != nil {
		return "", nil, notFoundOr(err, apperrors.New(apperrors.Unauthorized, "帳號或密碼錯誤！"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", nil, apperrors.New(apperrors.Unauthorized, "帳號或密碼錯誤！")
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}
