package service

import (
	"errors"

	"gorm.io/gorm"

	"voteroom_web/internal/repository"
)

type Services struct {
	User      *UserService
	Auth      *AuthService
	Room      *RoomService
	Candidate *CandidateService
	Vote      *VoteService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		User:      NewUserService(repos.User),
		Auth:      NewAuthService(repos.Admin),
		Room:      NewRoomService(repos.Room, repos.User),
		Candidate: NewCandidateService(repos.Candidate, repos.Room),
		Vote:      NewVoteService(repos.Vote, repos.Room, repos.Candidate),
	}
}

// notFoundOr 把資料庫的查無資料錯誤換成對應的應用層錯誤，其他錯誤原樣傳回
func notFoundOr(err error, appErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErr
	}
	return err
}
