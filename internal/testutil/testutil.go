// Package testutil 提供測試用的記憶體版 repositories。
//
// 記憶體實作遵守和資料庫相同的唯一性規則（房間代碼、單一開放房間、
// 投票憑證與選票三元組），讓 service 層的測試不需要連接 Postgres。
package testutil

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
	"voteroom_web/internal/repository"
)

// MemoryStore 保存所有聚合的資料，是各記憶體 repository 的後端
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	base   time.Time

	users      map[uint]models.User
	admins     map[uint]models.Admin
	rooms      map[uint]models.Room
	candidates map[uint]models.Candidate
	votes      map[uint]models.Vote
	receipts   map[uint]models.BallotReceipt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		base:       time.Now(),
		users:      make(map[uint]models.User),
		admins:     make(map[uint]models.Admin),
		rooms:      make(map[uint]models.Room),
		candidates: make(map[uint]models.Candidate),
		votes:      make(map[uint]models.Vote),
		receipts:   make(map[uint]models.BallotReceipt),
	}
}

// Repositories 回傳以這個 store 為後端的一整組 repositories
func (s *MemoryStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:      &memUserRepo{s: s},
		Admin:     &memAdminRepo{s: s},
		Room:      &memRoomRepo{s: s},
		Candidate: &memCandidateRepo{s: s},
		Vote:      &memVoteRepo{s: s},
	}
}

// allocate 發出遞增的 ID 與嚴格遞增的建立時間，確保排序測試可重現
func (s *MemoryStore) allocate() (uint, time.Time) {
	s.nextID++
	return s.nextID, s.base.Add(time.Duration(s.nextID) * time.Millisecond)
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// --- users ---

type memUserRepo struct {
	s *MemoryStore
}

func (r *memUserRepo) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return apperrors.New(apperrors.Conflict, "Username 已存在！")
		}
	}
	user.ID, user.CreatedAt = r.s.allocate()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByUsername(username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindAll() ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memUserRepo) Update(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Username == user.Username {
			return apperrors.New(apperrors.Conflict, "Username 已存在！")
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- admins ---

type memAdminRepo struct {
	s *MemoryStore
}

func (r *memAdminRepo) Create(admin *models.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Username == admin.Username {
			return apperrors.New(apperrors.Conflict, "這個管理員帳號已存在！")
		}
	}
	admin.ID, admin.CreatedAt = r.s.allocate()
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *memAdminRepo) FindByUsername(username string) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Username == username {
			admin := a
			return &admin, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- rooms ---

type memRoomRepo struct {
	s *MemoryStore
}

// checkRoomConstraints 重現資料庫的兩個唯一索引：
// 房間代碼唯一，以及全系統最多一間 open 狀態的房間
func (r *memRoomRepo) checkRoomConstraints(room *models.Room) error {
	for id, existing := range r.s.rooms {
		if id == room.ID {
			continue
		}
		if existing.Code == room.Code {
			return apperrors.New(apperrors.Conflict, "房間代碼已存在！")
		}
		if room.Status == models.RoomStatusOpen && existing.Status == models.RoomStatusOpen {
			return apperrors.New(apperrors.Conflict, "系統同時只允許一間開放中的房間！")
		}
	}
	return nil
}

func (r *memRoomRepo) Create(room *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRoomConstraints(room); err != nil {
		return err
	}
	room.ID, room.CreatedAt = r.s.allocate()
	r.s.rooms[room.ID] = *room
	return nil
}

func (r *memRoomRepo) FindByID(id uint) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if room, ok := r.s.rooms[id]; ok {
		return &room, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRoomRepo) FindByCode(code string) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, room := range r.s.rooms {
		if room.Code == code {
			found := room
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRoomRepo) Update(room *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[room.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := r.checkRoomConstraints(room); err != nil {
		return err
	}
	r.s.rooms[room.ID] = *room
	return nil
}

func (r *memRoomRepo) DeleteCascade(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for vid, v := range r.s.votes {
		if v.RoomID == id {
			delete(r.s.votes, vid)
		}
	}
	for rid, receipt := range r.s.receipts {
		if receipt.RoomID == id {
			delete(r.s.receipts, rid)
		}
	}
	for cid, c := range r.s.candidates {
		if c.RoomID != nil && *c.RoomID == id {
			delete(r.s.candidates, cid)
		}
	}
	delete(r.s.rooms, id)
	return nil
}

func (r *memRoomRepo) FindAll(status models.RoomStatus) ([]models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rooms := make([]models.Room, 0, len(r.s.rooms))
	for _, room := range r.s.rooms {
		if status != "" && room.Status != status {
			continue
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (r *memRoomRepo) AddAllowedUsername(id uint, username string) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !room.HasAllowedUsername(username) {
		room.AllowedUsernames = append(append(pq.StringArray{}, room.AllowedUsernames...), username)
		r.s.rooms[id] = room
	}
	found := room
	return &found, nil
}

// --- candidates ---

type memCandidateRepo struct {
	s *MemoryStore
}

func (r *memCandidateRepo) Create(candidate *models.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	candidate.ID, candidate.CreatedAt = r.s.allocate()
	r.s.candidates[candidate.ID] = *candidate
	return nil
}

func (r *memCandidateRepo) CreateBatch(candidates []models.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range candidates {
		candidates[i].ID, candidates[i].CreatedAt = r.s.allocate()
		r.s.candidates[candidates[i].ID] = candidates[i]
	}
	return nil
}

func (r *memCandidateRepo) FindByID(id uint) (*models.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.candidates[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCandidateRepo) FindByRoom(roomID uint) ([]models.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var candidates []models.Candidate
	for _, c := range r.s.candidates {
		if c.RoomID != nil && *c.RoomID == roomID {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates, nil
}

func (r *memCandidateRepo) NamesInRoom(roomID uint) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var names []string
	for _, c := range r.s.candidates {
		if c.RoomID != nil && *c.RoomID == roomID {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

func (r *memCandidateRepo) NameExistsInRoom(roomID uint, name string, excludeID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	folded := foldName(name)
	for id, c := range r.s.candidates {
		if id == excludeID {
			continue
		}
		if c.RoomID != nil && *c.RoomID == roomID && foldName(c.Name) == folded {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCandidateRepo) CountByIDsInRoom(roomID uint, ids []uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, id := range ids {
		if c, ok := r.s.candidates[id]; ok && c.RoomID != nil && *c.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *memCandidateRepo) Update(candidate *models.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.candidates[candidate.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.candidates[candidate.ID] = *candidate
	return nil
}

func (r *memCandidateRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.candidates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.candidates, id)
	return nil
}

// --- votes ---

type memVoteRepo struct {
	s *MemoryStore
}

func (r *memVoteRepo) HasVoted(roomID uint, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.votes {
		if v.RoomID == roomID && v.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memVoteRepo) FindByRoomAndUsername(roomID uint, username string) ([]models.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var votes []models.Vote
	for _, v := range r.s.votes {
		if v.RoomID == roomID && v.Username == username {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool {
		return votes[i].CreatedAt.Before(votes[j].CreatedAt)
	})
	return votes, nil
}

// SubmitBallot 重現交易語義：先檢查兩個唯一索引，通過後才一次寫入
func (r *memVoteRepo) SubmitBallot(receipt *models.BallotReceipt, votes []models.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.receipts {
		if existing.RoomID == receipt.RoomID && existing.Username == receipt.Username {
			return apperrors.New(apperrors.Conflict, "你已經投過票了。")
		}
	}
	seen := make(map[uint]bool)
	for _, v := range votes {
		if seen[v.CandidateID] {
			return apperrors.New(apperrors.Conflict, "同一位候選人不能重複投票。")
		}
		seen[v.CandidateID] = true
		for _, existing := range r.s.votes {
			if existing.RoomID == v.RoomID && existing.Username == v.Username && existing.CandidateID == v.CandidateID {
				return apperrors.New(apperrors.Conflict, "同一位候選人不能重複投票。")
			}
		}
	}

	receipt.ID, receipt.CreatedAt = r.s.allocate()
	r.s.receipts[receipt.ID] = *receipt
	for i := range votes {
		votes[i].ID, votes[i].CreatedAt = r.s.allocate()
		r.s.votes[votes[i].ID] = votes[i]
	}
	return nil
}

func (r *memVoteRepo) TallyByRoom(roomID uint) ([]repository.CandidateTally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[uint]int64)
	for _, v := range r.s.votes {
		if v.RoomID == roomID {
			counts[v.CandidateID]++
		}
	}

	var tallies []repository.CandidateTally
	for candidateID, count := range counts {
		c, ok := r.s.candidates[candidateID]
		if !ok {
			continue // 對應 SQL JOIN 的語義，候選人被刪掉的票不列出
		}
		tallies = append(tallies, repository.CandidateTally{
			CandidateID: candidateID,
			Count:       count,
			Name:        c.Name,
			Avatar:      c.Avatar,
			Intro:       c.Intro,
			Group:       c.Group,
		})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Count != tallies[j].Count {
			return tallies[i].Count > tallies[j].Count
		}
		return r.s.candidates[tallies[i].CandidateID].CreatedAt.
			Before(r.s.candidates[tallies[j].CandidateID].CreatedAt)
	})
	return tallies, nil
}
