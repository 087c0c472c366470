package service

import (
	"strings"

	"github.com/lib/pq"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/repository"
)

type RoomService struct {
	roomRepo repository.RoomRepository
	userRepo repository.UserRepository
}

func NewRoomService(roomRepo repository.RoomRepository, userRepo repository.UserRepository) *RoomService {
	return &RoomService{
		roomRepo: roomRepo,
		userRepo: userRepo,
	}
}

// CreateRoomInput 定義建立房間的輸入
type CreateRoomInput struct {
	Code            string
	Name            string
	Description     string
	MaxVotesPerUser int
	Status          models.RoomStatus
}

// CreateRoom 建立新房間
// 代碼重複或試圖同時開第二間 open 房間都會由唯一索引擋下並回報衝突
func (s *RoomService) CreateRoom(input CreateRoomInput) (*models.Room, error) {
	if strings.TrimSpace(input.Code) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.Validation, "房間代碼（code）和名稱（name）是必填的！")
	}

	status := input.Status
	if status == "" {
		status = models.RoomStatusDraft
	}
	if !models.ValidStatus(status) {
		return nil, apperrors.New(apperrors.Validation, "無效的房間狀態！")
	}

	maxVotes := input.MaxVotesPerUser
	if maxVotes == 0 {
		maxVotes = 1
	}
	if maxVotes < 1 {
		return nil, apperrors.New(apperrors.Validation, "maxVotesPerUser 至少要是 1！")
	}

	room := &models.Room{
		Code:             strings.TrimSpace(input.Code),
		Name:             input.Name,
		Description:      input.Description,
		Status:           status,
		MaxVotesPerUser:  maxVotes,
		AllowedUsernames: pq.StringArray{},
	}

	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms 取得所有房間，可依狀態過濾，最新的排在前面
func (s *RoomService) ListRooms(status models.RoomStatus) ([]models.Room, error) {
	return s.roomRepo.FindAll(status)
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到房間！"))
	}
	return room, nil
}

// UpdateRoomInput 定義部分更新房間的輸入，nil 欄位不變動
type UpdateRoomInput struct {
	Code            *string
	Name            *string
	Description     *string
	Status          *models.RoomStatus
	MaxVotesPerUser *int
}

// UpdateRoom 部分更新房間，重新驗證狀態枚舉與票數下限
// 要把房間改成 open 時，若已有別間 open 房間會收到衝突
func (s *RoomService) UpdateRoom(roomID uint, input UpdateRoomInput) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到要更新的房間！"))
	}

	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, apperrors.New(apperrors.Validation, "房間代碼不能為空！")
		}
		room.Code = code
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.New(apperrors.Validation, "房間名稱不能為空！")
		}
		room.Name = *input.Name
	}
	if input.Description != nil {
		room.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, apperrors.New(apperrors.Validation, "無效的房間狀態！")
		}
		room.Status = *input.Status
	}
	if input.MaxVotesPerUser != nil {
		if *input.MaxVotesPerUser < 1 {
			return nil, apperrors.New(apperrors.Validation, "maxVotesPerUser 至少要是 1！")
		}
		room.MaxVotesPerUser = *input.MaxVotesPerUser
	}

	if err := s.roomRepo.Update(room); err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom 刪除房間，連同其候選人、選票與投票憑證一起刪除
func (s *RoomService) DeleteRoom(roomID uint) error {
	err := s.roomRepo.DeleteCascade(roomID)
	if err != nil {
		return notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到要刪除的房間！"))
	}
	return nil
}

// JoinRoom 把用戶加入房間的允許名單，重複加入不會報錯
// 只有登記在用戶名冊中的 username 才能加入
func (s *RoomService) JoinRoom(roomID uint, username string) (*models.Room, *models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, nil, apperrors.New(apperrors.Validation, "請輸入 username！")
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "房間不存在！"))
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "Username 不存在於系統中！"))
	}

	if room.Status == models.RoomStatusClosed {
		return nil, nil, apperrors.New(apperrors.InvalidState, "房間已關閉，無法加入！")
	}

	updated, err := s.roomRepo.AddAllowedUsername(roomID, username)
	if err != nil {
		return nil, nil, err
	}
	return updated, user, nil
}
