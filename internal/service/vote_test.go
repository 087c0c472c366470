package service

import (
	"testing"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
)

// voteFixture 建立一間開放中的房間、三位候選人和五位已加入的用戶
type voteFixture struct {
	services   *Services
	room       *models.Room
	candidates []*models.Candidate
}

func newVoteFixture(t *testing.T, maxVotes int) *voteFixture {
	t.Helper()
	services, _ := newTestServices(t)

	room, err := services.Room.CreateRoom(CreateRoomInput{
		Code:            "R1",
		Name:            "年度票選",
		Status:          models.RoomStatusOpen,
		MaxVotesPerUser: maxVotes,
	})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	var candidates []*models.Candidate
	for _, name := range []string{"Lan", "Mai", "Cúc"} {
		c, err := services.Candidate.CreateCandidate(room.ID, name, "", "", "")
		if err != nil {
			t.Fatalf("CreateCandidate %s failed: %v", name, err)
		}
		candidates = append(candidates, c)
	}

	for _, username := range []string{"u1", "u2", "u3", "u4", "u5"} {
		if _, err := services.User.CreateUser(username, username); err != nil {
			t.Fatalf("CreateUser %s failed: %v", username, err)
		}
		if _, _, err := services.Room.JoinRoom(room.ID, username); err != nil {
			t.Fatalf("JoinRoom %s failed: %v", username, err)
		}
	}

	return &voteFixture{services: services, room: room, candidates: candidates}
}

func TestSubmitVoteValidationChain(t *testing.T) {
	f := newVoteFixture(t, 2)
	lan, mai := f.candidates[0], f.candidates[1]

	tests := []struct {
		name         string
		roomCode     string
		username     string
		candidateIDs []uint
		kind         apperrors.Kind
	}{
		{"room not found", "NOPE", "u1", []uint{lan.ID}, apperrors.NotFound},
		{"user not allowed", "R1", "stranger", []uint{lan.ID}, apperrors.Forbidden},
		{"over quota", "R1", "u1", []uint{lan.ID, mai.ID, f.candidates[2].ID}, apperrors.Validation},
		{"duplicate ids in one ballot", "R1", "u1", []uint{lan.ID, lan.ID}, apperrors.Validation},
		{"unknown candidate", "R1", "u1", []uint{lan.ID, 9999}, apperrors.Validation},
		{"empty ballot", "R1", "u1", nil, apperrors.Validation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.services.Vote.SubmitVote(tt.roomCode, tt.username, tt.candidateIDs)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestSubmitVoteRejectsCrossRoomCandidate(t *testing.T) {
	f := newVoteFixture(t, 2)

	// 另一間房的候選人不能混進這間房的選票
	other, err := f.services.Room.CreateRoom(CreateRoomInput{Code: "R2", Name: "other"})
	if err != nil {
		t.Fatal(err)
	}
	intruder, err := f.services.Candidate.CreateCandidate(other.ID, "Trúc", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.services.Vote.SubmitVote("R1", "u1", []uint{f.candidates[0].ID, intruder.ID})
	wantKind(t, err, apperrors.Validation)
}

func TestSubmitVoteRequiresOpenRoom(t *testing.T) {
	f := newVoteFixture(t, 2)

	closed := models.RoomStatusClosed
	if _, err := f.services.Room.UpdateRoom(f.room.ID, UpdateRoomInput{Status: &closed}); err != nil {
		t.Fatal(err)
	}
	_, err := f.services.Vote.SubmitVote("R1", "u1", []uint{f.candidates[0].ID})
	wantKind(t, err, apperrors.InvalidState)
}

func TestSubmitVoteOncePerUser(t *testing.T) {
	f := newVoteFixture(t, 2)
	lan, mai := f.candidates[0], f.candidates[1]

	count, err := f.services.Vote.SubmitVote("R1", "u1", []uint{lan.ID, mai.ID})
	if err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 votes recorded, got %d", count)
	}

	// 第二次提交一律衝突，不論選了誰
	_, err = f.services.Vote.SubmitVote("R1", "u1", []uint{f.candidates[2].ID})
	wantKind(t, err, apperrors.Conflict)
}

func TestGetRoomResult(t *testing.T) {
	f := newVoteFixture(t, 2)
	lan, mai := f.candidates[0], f.candidates[1]

	// Mai 5 票、Lan 3 票、Cúc 0 票
	ballots := map[string][]uint{
		"u1": {mai.ID, lan.ID},
		"u2": {mai.ID, lan.ID},
		"u3": {mai.ID, lan.ID},
		"u4": {mai.ID},
		"u5": {mai.ID},
	}
	for username, ids := range ballots {
		if _, err := f.services.Vote.SubmitVote("R1", username, ids); err != nil {
			t.Fatalf("SubmitVote for %s failed: %v", username, err)
		}
	}

	result, err := f.services.Vote.GetRoomResult("R1")
	if err != nil {
		t.Fatalf("GetRoomResult failed: %v", err)
	}
	if result.RoomName != "年度票選" {
		t.Errorf("expected room name, got %q", result.RoomName)
	}
	if result.TotalVotes != 8 {
		t.Errorf("expected total 8 votes, got %d", result.TotalVotes)
	}
	// 零票的 Cúc 不出現
	if len(result.Results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Results))
	}
	if result.Results[0].CandidateID != mai.ID || result.Results[0].Count != 5 {
		t.Errorf("expected Mai(5) first, got %+v", result.Results[0])
	}
	if result.Results[1].CandidateID != lan.ID || result.Results[1].Count != 3 {
		t.Errorf("expected Lan(3) second, got %+v", result.Results[1])
	}

	_, err = f.services.Vote.GetRoomResult("NOPE")
	wantKind(t, err, apperrors.NotFound)
}

func TestGetRoomResultExcludesDeletedCandidate(t *testing.T) {
	f := newVoteFixture(t, 2)
	lan, mai := f.candidates[0], f.candidates[1]

	if _, err := f.services.Vote.SubmitVote("R1", "u1", []uint{lan.ID, mai.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.services.Vote.SubmitVote("R1", "u2", []uint{mai.ID}); err != nil {
		t.Fatal(err)
	}

	// 候選人被刪除後，投給他的票不再出現在開票結果裡
	if err := f.services.Candidate.DeleteCandidate(mai.ID); err != nil {
		t.Fatalf("DeleteCandidate failed: %v", err)
	}

	result, err := f.services.Vote.GetRoomResult("R1")
	if err != nil {
		t.Fatalf("GetRoomResult failed: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].CandidateID != lan.ID {
		t.Fatalf("expected only Lan in results, got %+v", result.Results)
	}
	if result.TotalVotes != 1 {
		t.Errorf("expected totalVotes 1 after removing Mai's votes, got %d", result.TotalVotes)
	}
}

func TestGetRoomResultTieBreak(t *testing.T) {
	f := newVoteFixture(t, 1)
	lan, mai := f.candidates[0], f.candidates[1]

	// 同票時依候選人建立時間由舊到新，Lan 比 Mai 先建立
	if _, err := f.services.Vote.SubmitVote("R1", "u1", []uint{mai.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.services.Vote.SubmitVote("R1", "u2", []uint{lan.ID}); err != nil {
		t.Fatal(err)
	}

	result, err := f.services.Vote.GetRoomResult("R1")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Results))
	}
	if result.Results[0].CandidateID != lan.ID || result.Results[1].CandidateID != mai.ID {
		t.Errorf("expected creation-order tie break [Lan Mai], got %+v", result.Results)
	}
}

func TestGetVotingPageData(t *testing.T) {
	f := newVoteFixture(t, 2)
	lan, mai := f.candidates[0], f.candidates[1]

	// 沒帶 username 時只回房間和候選人
	data, err := f.services.Vote.GetVotingPageData("R1", "")
	if err != nil {
		t.Fatalf("GetVotingPageData failed: %v", err)
	}
	if data.Room.Code != "R1" || data.Room.MaxVotesPerUser != 2 {
		t.Errorf("unexpected room summary: %+v", data.Room)
	}
	if len(data.Candidates) != 3 || data.Candidates[0].Name != "Lan" {
		t.Errorf("expected roster in creation order, got %+v", data.Candidates)
	}
	if data.MyVoteState.HasVoted || len(data.MyVoteState.VotedCandidateIDs) != 0 {
		t.Errorf("expected empty vote state, got %+v", data.MyVoteState)
	}

	if _, err := f.services.Vote.SubmitVote("R1", "u1", []uint{lan.ID, mai.ID}); err != nil {
		t.Fatal(err)
	}

	data, err = f.services.Vote.GetVotingPageData("R1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !data.MyVoteState.HasVoted {
		t.Error("expected hasVoted true after submitting")
	}
	if len(data.MyVoteState.VotedCandidateIDs) != 2 {
		t.Errorf("expected 2 voted candidate ids, got %v", data.MyVoteState.VotedCandidateIDs)
	}

	_, err = f.services.Vote.GetVotingPageData("NOPE", "")
	wantKind(t, err, apperrors.NotFound)
}
