package service

import (
	"io"
	"strings"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/repository"
)

const defaultCandidateGroup = "common"

type CandidateService struct {
	candidateRepo repository.CandidateRepository
	roomRepo      repository.RoomRepository
}

func NewCandidateService(candidateRepo repository.CandidateRepository, roomRepo repository.RoomRepository) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		roomRepo:      roomRepo,
	}
}

// mutableRoom 確認房間存在而且還沒關閉，關閉的房間禁止候選人異動
func (s *CandidateService) mutableRoom(roomID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "房間不存在！"))
	}
	if room.Status == models.RoomStatusClosed {
		return nil, apperrors.New(apperrors.InvalidState, "房間已關閉！")
	}
	return room, nil
}

// CreateCandidate 在房間內新增一位候選人
// 名稱去除前後空白後，在同一房間內不區分大小寫必須唯一
func (s *CandidateService) CreateCandidate(roomID uint, name, avatar, intro, group string) (*models.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.Validation, "候選人名稱是必填的！")
	}

	if _, err := s.mutableRoom(roomID); err != nil {
		return nil, err
	}

	exists, err := s.candidateRepo.NameExistsInRoom(roomID, name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.New(apperrors.Conflict, "這個房間已有同名的候選人！")
	}

	if group == "" {
		group = defaultCandidateGroup
	}

	candidate := &models.Candidate{
		RoomID: &roomID,
		Name:   name,
		Avatar: avatar,
		Intro:  intro,
		Group:  group,
	}
	if err := s.candidateRepo.Create(candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// ImportResult 是批次匯入候選人的結果統計
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"` // 因名稱重複而被略過的列數
}

// ImportCandidates 從上傳的試算表批次匯入候選人
// 名稱重複的列（不論是和檔案內前面的列重複，還是和房間既有的候選人重複）
// 會被略過而不是報錯，沒有名稱的列直接丟棄
func (s *CandidateService) ImportCandidates(roomID uint, file io.Reader) (*ImportResult, error) {
	if _, err := s.mutableRoom(roomID); err != nil {
		return nil, err
	}

	records, err := parseSheet(file, candidateHeaderAliases)
	if err != nil {
		return nil, err
	}

	existingNames, err := s.candidateRepo.NamesInRoom(roomID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existingNames))
	for _, n := range existingNames {
		seen[strings.ToLower(strings.TrimSpace(n))] = true
	}

	result := &ImportResult{}
	var toInsert []models.Candidate
	for _, record := range records {
		name := strings.TrimSpace(record["name"])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true

		group := record["group"]
		if group == "" {
			group = defaultCandidateGroup
		}
		id := roomID
		toInsert = append(toInsert, models.Candidate{
			RoomID: &id,
			Name:   name,
			Avatar: record["avatar"],
			Intro:  record["intro"],
			Group:  group,
		})
	}

	if len(toInsert) == 0 {
		return result, nil
	}

	if err := s.candidateRepo.CreateBatch(toInsert); err != nil {
		return nil, err
	}
	result.Inserted = len(toInsert)
	return result, nil
}

// ListCandidatesByRoom 取得房間的候選人名單，依建立時間由舊到新
func (s *CandidateService) ListCandidatesByRoom(roomID uint) ([]models.Candidate, error) {
	return s.candidateRepo.FindByRoom(roomID)
}

// UpdateCandidateInput 定義部分更新候選人的輸入，nil 欄位不變動
type UpdateCandidateInput struct {
	Name   *string
	Avatar *string
	Intro  *string
	Group  *string
}

// UpdateCandidate 部分更新候選人
// 更新名稱時重新檢查房間內的唯一性，排除候選人自己
func (s *CandidateService) UpdateCandidate(candidateID uint, input UpdateCandidateInput) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到候選人！"))
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.New(apperrors.Validation, "候選人名稱不能為空！")
		}
		if candidate.RoomID != nil {
			exists, err := s.candidateRepo.NameExistsInRoom(*candidate.RoomID, name, candidateID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperrors.New(apperrors.Conflict, "這個房間已有同名的候選人！")
			}
		}
		candidate.Name = name
	}
	if input.Avatar != nil {
		candidate.Avatar = *input.Avatar
	}
	if input.Intro != nil {
		candidate.Intro = *input.Intro
	}
	if input.Group != nil {
		group := *input.Group
		if group == "" {
			group = defaultCandidateGroup
		}
		candidate.Group = group
	}

	if err := s.candidateRepo.Update(candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *CandidateService) DeleteCandidate(candidateID uint) error {
	err := s.candidateRepo.Delete(candidateID)
	if err != nil {
		return notFoundOr(err, apperrors.New(apperrors.NotFound, "找不到候選人！"))
	}
	return nil
}
