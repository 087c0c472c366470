package service

import (
	"io"
	"strings"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser 建立新用戶，username 重複會回報衝突
func (s *UserService) CreateUser(username, name string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(name) == "" {
		return nil, apperrors.New(apperrors.Validation, "Username 和 Name 是必填的！")
	}

	user := &models.User{
		Username: strings.TrimSpace(username),
		Name:     name,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers 取得所有用戶，最新的排在前面
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.FindAll()
}

func (s *UserService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到用戶！"))
	}
	return user, nil
}

// UpdateUserInput 定義部分更新用戶的輸入，nil 欄位不變動
type UpdateUserInput struct {
	Username *string
	Name     *string
}

func (s *UserService) UpdateUser(userID uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到要更新的用戶！"))
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, apperrors.New(apperrors.Validation, "Username 不能為空！")
		}
		user.Username = username
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.New(apperrors.Validation, "Name 不能為空！")
		}
		user.Name = *input.Name
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(userID uint) error {
	err := s.userRepo.Delete(userID)
	if err != nil {
		return notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到要刪除的用戶！"))
	}
	return nil
}

// UserImportResult 是批次匯入用戶的結果統計
type UserImportResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"` // username 重複而沒有寫入的列數
}

// ImportUsers 從上傳的試算表批次匯入用戶
// 逐列寫入，username 重複的列計入失敗數後繼續，沒有 username 的列直接丟棄
func (s *UserService) ImportUsers(file io.Reader) (*UserImportResult, error) {
	records, err := parseSheet(file, userHeaderAliases)
	if err != nil {
		return nil, err
	}

	result := &UserImportResult{}
	seen := make(map[string]bool)
	for _, record := range records {
		username := strings.TrimSpace(record["username"])
		if username == "" {
			continue
		}
		if seen[username] {
			result.Failed++
			continue
		}
		seen[username] = true

		name := record["name"]
		if name == "" {
			name = "No Name"
		}

		err := s.userRepo.Create(&models.User{Username: username, Name: name})
		if err != nil {
			if apperrors.KindOf(err) == apperrors.Conflict {
				result.Failed++
				continue
			}
			return nil, err
		}
		result.Success++
	}

	if result.Success == 0 && result.Failed == 0 {
		return nil, apperrors.New(apperrors.Validation, "檔案中找不到有效的 username 資料！")
	}
	return result, nil
}
