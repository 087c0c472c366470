package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/storage"
)

type Repositories struct {
	User      UserRepository
	Admin     AdminRepository
	Room      RoomRepository
	Candidate CandidateRepository
	Vote      VoteRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Admin:     NewAdminRepository(db),
		Room:      NewRoomRepository(db),
		Candidate: NewCandidateRepository(db),
		Vote:      NewVoteRepository(db),
	}
}

// translateUniqueViolation 將資料庫唯一索引衝突轉成對應的應用層錯誤
// 索引名稱對不上的衝突與其他錯誤原樣傳回
func translateUniqueViolation(err error, conflicts map[string]*apperrors.Error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if appErr, ok := conflicts[pgErr.ConstraintName]; ok {
			return appErr
		}
	}
	return err
}
