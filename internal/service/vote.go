package service

import (
	"fmt"
	"strings"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/repository"
)

type VoteService struct {
	voteRepo      repository.VoteRepository
	roomRepo      repository.RoomRepository
	candidateRepo repository.CandidateRepository
}

func NewVoteService(voteRepo repository.VoteRepository, roomRepo repository.RoomRepository, candidateRepo repository.CandidateRepository) *VoteService {
	return &VoteService{
		voteRepo:      voteRepo,
		roomRepo:      roomRepo,
		candidateRepo: candidateRepo,
	}
}

// SubmitVote 提交一批選票，回傳實際寫入的票數
// 每位用戶在一個房間只能提交一次，整批選票和投票憑證在同一交易中寫入，
// 併發的重複提交由憑證的唯一索引擋下
func (s *VoteService) SubmitVote(roomCode, username string, candidateIDs []uint) (int, error) {
	if strings.TrimSpace(roomCode) == "" || strings.TrimSpace(username) == "" || len(candidateIDs) == 0 {
		return 0, apperrors.New(apperrors.Validation, "資料不完整！")
	}

	room, err := s.roomRepo.FindByCode(roomCode)
	if err != nil {
		return 0, notFoundOr(err, apperrors.New(apperrors.NotFound, "房間不存在！"))
	}

	if room.Status != models.RoomStatusOpen {
		return 0, apperrors.New(apperrors.InvalidState, "房間尚未開放投票。")
	}
	if !room.HasAllowedUsername(username) {
		return 0, apperrors.New(apperrors.Forbidden, "你尚未加入這個房間。")
	}
	if len(candidateIDs) > room.MaxVotesPerUser {
		return 0, apperrors.New(apperrors.Validation,
			fmt.Sprintf("最多只能選 %d 位候選人。", room.MaxVotesPerUser))
	}

	hasVoted, err := s.voteRepo.HasVoted(room.ID, username)
	if err != nil {
		return 0, err
	}
	if hasVoted {
		return 0, apperrors.New(apperrors.Conflict, "你已經投過票了。")
	}

	// 同一張選票內重複選同一位候選人直接拒絕，
	// 不讓它打到選票的唯一索引才整批失敗
	unique := make(map[uint]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		if unique[id] {
			return 0, apperrors.New(apperrors.Validation, "候選人名單中有重複。")
		}
		unique[id] = true
	}

	matched, err := s.candidateRepo.CountByIDsInRoom(room.ID, candidateIDs)
	if err != nil {
		return 0, err
	}
	if matched != int64(len(candidateIDs)) {
		return 0, apperrors.New(apperrors.Validation, "有候選人不屬於這個房間。")
	}

	receipt := &models.BallotReceipt{
		RoomID:   room.ID,
		Username: username,
	}
	votes := make([]models.Vote, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		votes = append(votes, models.Vote{
			RoomID:      room.ID,
			Username:    username,
			CandidateID: id,
		})
	}

	if err := s.voteRepo.SubmitBallot(receipt, votes); err != nil {
		return 0, err
	}
	return len(votes), nil
}

// RoomResult 是房間的開票結果
type RoomResult struct {
	RoomName   string                      `json:"roomName"`
	TotalVotes int64                       `json:"totalVotes"`
	Results    []repository.CandidateTally `json:"results"`
}

// GetRoomResult 統計房間的開票結果
// 票數由多到少，同票依候選人建立時間由舊到新，零票的候選人不列出
func (s *VoteService) GetRoomResult(roomCode string) (*RoomResult, error) {
	room, err := s.roomRepo.FindByCode(roomCode)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "房間不存在！"))
	}

	tallies, err := s.voteRepo.TallyByRoom(room.ID)
	if err != nil {
		return nil, err
	}

	result := &RoomResult{
		RoomName: room.Name,
		Results:  tallies,
	}
	if result.Results == nil {
		result.Results = []repository.CandidateTally{}
	}
	for _, t := range tallies {
		result.TotalVotes += t.Count
	}
	return result, nil
}

// RoomSummary 是投票頁需要的房間摘要
type RoomSummary struct {
	ID              uint              `json:"id"`
	Code            string            `json:"code"`
	Name            string            `json:"name"`
	Status          models.RoomStatus `json:"status"`
	MaxVotesPerUser int               `json:"maxVotesPerUser"`
}

// MyVoteState 表示用戶在房間的投票狀態
type MyVoteState struct {
	HasVoted          bool   `json:"hasVoted"`
	VotedCandidateIDs []uint `json:"votedCandidateIds"`
}

// VotingPageData 是投票頁一次載入需要的全部資料
type VotingPageData struct {
	Room        RoomSummary        `json:"room"`
	Candidates  []models.Candidate `json:"candidates"`
	MyVoteState MyVoteState        `json:"myVoteState"`
}

// GetVotingPageData 取得投票頁的組合資料
// 有帶 username 時附上該用戶是否已投票以及投給了誰
func (s *VoteService) GetVotingPageData(roomCode, username string) (*VotingPageData, error) {
	room, err := s.roomRepo.FindByCode(roomCode)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "房間不存在！"))
	}

	candidates, err := s.candidateRepo.FindByRoom(room.ID)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}

	data := &VotingPageData{
		Room: RoomSummary{
			ID:              room.ID,
			Code:            room.Code,
			Name:            room.Name,
			Status:          room.Status,
			MaxVotesPerUser: room.MaxVotesPerUser,
		},
		Candidates: candidates,
		MyVoteState: MyVoteState{
			VotedCandidateIDs: []uint{},
		},
	}

	if username != "" {
		votes, err := s.voteRepo.FindByRoomAndUsername(room.ID, username)
		if err != nil {
			return nil, err
		}
		data.MyVoteState.HasVoted = len(votes) > 0
		for _, v := range votes {
			data.MyVoteState.VotedCandidateIDs = append(data.MyVoteState.VotedCandidateIDs, v.CandidateID)
		}
	}
	return data, nil
}
