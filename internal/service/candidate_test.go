package service

import (
	"bytes"
	"io"
	"testing"

	"github.com/xuri/excelize/v2"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/models"
)

// makeSheet 在記憶體中產生一個只有單一工作表的 xlsx 檔
func makeSheet(t *testing.T, rows ...[]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func openRoom(t *testing.T, services *Services, code string) *models.Room {
	t.Helper()
	room, err := services.Room.CreateRoom(CreateRoomInput{Code: code, Name: "room " + code, Status: models.RoomStatusOpen, MaxVotesPerUser: 5})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	return room
}

func TestCreateCandidate(t *testing.T) {
	services, _ := newTestServices(t)
	room := openRoom(t, services, "R1")

	candidate, err := services.Candidate.CreateCandidate(room.ID, "  Lan  ", "", "", "")
	if err != nil {
		t.Fatalf("CreateCandidate failed: %v", err)
	}
	if candidate.Name != "Lan" {
		t.Errorf("expected trimmed name Lan, got %q", candidate.Name)
	}
	if candidate.Group != "common" {
		t.Errorf("expected default group common, got %q", candidate.Group)
	}

	// 同名（不區分大小寫、忽略前後空白）要被擋下
	_, err = services.Candidate.CreateCandidate(room.ID, "lan", "", "", "")
	wantKind(t, err, apperrors.Conflict)
	_, err = services.Candidate.CreateCandidate(room.ID, " LAN ", "", "", "")
	wantKind(t, err, apperrors.Conflict)

	// 不存在的房間
	_, err = services.Candidate.CreateCandidate(9999, "Mai", "", "", "")
	wantKind(t, err, apperrors.NotFound)

	// 已關閉的房間禁止新增
	closed := models.RoomStatusClosed
	if _, err := services.Room.UpdateRoom(room.ID, UpdateRoomInput{Status: &closed}); err != nil {
		t.Fatal(err)
	}
	_, err = services.Candidate.CreateCandidate(room.ID, "Mai", "", "", "")
	wantKind(t, err, apperrors.InvalidState)
}

func TestUpdateCandidate(t *testing.T) {
	services, _ := newTestServices(t)
	room := openRoom(t, services, "R1")

	lan, err := services.Candidate.CreateCandidate(room.ID, "Lan", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := services.Candidate.CreateCandidate(room.ID, "Mai", "", "", ""); err != nil {
		t.Fatal(err)
	}

	// 撞到房間內別的候選人名稱
	name := "MAI"
	_, err = services.Candidate.UpdateCandidate(lan.ID, UpdateCandidateInput{Name: &name})
	wantKind(t, err, apperrors.Conflict)

	// 改成自己名稱的不同大小寫不算衝突
	name = "LAN"
	updated, err := services.Candidate.UpdateCandidate(lan.ID, UpdateCandidateInput{Name: &name})
	if err != nil {
		t.Fatalf("rename to own name failed: %v", err)
	}
	if updated.Name != "LAN" {
		t.Errorf("expected name LAN, got %q", updated.Name)
	}

	intro := "介紹"
	updated, err = services.Candidate.UpdateCandidate(lan.ID, UpdateCandidateInput{Intro: &intro})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Intro != "介紹" || updated.Name != "LAN" {
		t.Errorf("partial update touched wrong fields: %+v", updated)
	}

	_, err = services.Candidate.UpdateCandidate(9999, UpdateCandidateInput{})
	wantKind(t, err, apperrors.NotFound)
}

func TestDeleteCandidate(t *testing.T) {
	services, _ := newTestServices(t)
	room := openRoom(t, services, "R1")

	candidate, err := services.Candidate.CreateCandidate(room.ID, "Lan", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := services.Candidate.DeleteCandidate(candidate.ID); err != nil {
		t.Fatalf("DeleteCandidate failed: %v", err)
	}
	wantKind(t, services.Candidate.DeleteCandidate(candidate.ID), apperrors.NotFound)
}

func TestImportCandidatesDeduplicates(t *testing.T) {
	services, _ := newTestServices(t)
	room := openRoom(t, services, "R1")

	// 檔案內重複：Lan 和 lan 只留第一筆
	sheet := makeSheet(t,
		[]interface{}{"Name", "Avatar", "Intro"},
		[]interface{}{"Lan", "", "a"},
		[]interface{}{"lan", "", "b"},
		[]interface{}{"Mai", "", "c"},
	)
	result, err := services.Candidate.ImportCandidates(room.ID, sheet)
	if err != nil {
		t.Fatalf("ImportCandidates failed: %v", err)
	}
	if result.Inserted != 2 || result.Skipped != 1 {
		t.Fatalf("expected inserted=2 skipped=1, got %+v", result)
	}

	candidates, err := services.Candidate.ListCandidatesByRoom(room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 || candidates[0].Name != "Lan" || candidates[1].Name != "Mai" {
		t.Fatalf("expected [Lan Mai] in creation order, got %+v", candidates)
	}

	// 和房間既有候選人重複的列也要略過
	sheet = makeSheet(t,
		[]interface{}{"name"},
		[]interface{}{" MAI "},
		[]interface{}{"Cúc"},
	)
	result, err = services.Candidate.ImportCandidates(room.ID, sheet)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 1 || result.Skipped != 1 {
		t.Fatalf("expected inserted=1 skipped=1, got %+v", result)
	}

	// 全部重複時回成功，寫入數為零
	sheet = makeSheet(t,
		[]interface{}{"name"},
		[]interface{}{"Lan"},
	)
	result, err = services.Candidate.ImportCandidates(room.ID, sheet)
	if err != nil {
		t.Fatalf("all-duplicate import should not error: %v", err)
	}
	if result.Inserted != 0 || result.Skipped != 1 {
		t.Fatalf("expected inserted=0 skipped=1, got %+v", result)
	}
}

func TestImportCandidatesHeaderHandling(t *testing.T) {
	services, _ := newTestServices(t)
	room := openRoom(t, services, "R1")

	// 越南文表頭、BOM、引號和大小寫都要能解析
	sheet := makeSheet(t,
		[]interface{}{"\ufeffTên", `"Ảnh"`, "MÔ TẢ"},
		[]interface{}{"Lan", "lan.png", "hello"},
	)
	result, err := services.Candidate.ImportCandidates(room.ID, sheet)
	if err != nil {
		t.Fatalf("ImportCandidates failed: %v", err)
	}
	if result.Inserted != 1 {
		t.Fatalf("expected 1 inserted, got %+v", result)
	}
	candidates, _ := services.Candidate.ListCandidatesByRoom(room.ID)
	if candidates[0].Avatar != "lan.png" || candidates[0].Intro != "hello" {
		t.Errorf("aliased columns not mapped: %+v", candidates[0])
	}

	// 無法辨識的表頭要整個拒絕，而不是默默丟掉該欄
	sheet = makeSheet(t,
		[]interface{}{"name", "salary"},
		[]interface{}{"Mai", "100"},
	)
	_, err = services.Candidate.ImportCandidates(room.ID, sheet)
	wantKind(t, err, apperrors.Validation)

	// 沒有資料列
	sheet = makeSheet(t, []interface{}{"name"})
	_, err = services.Candidate.ImportCandidates(room.ID, sheet)
	wantKind(t, err, apperrors.Validation)

	// 沒有名稱的列直接丟棄，不算在略過數裡
	sheet = makeSheet(t,
		[]interface{}{"name", "intro"},
		[]interface{}{"", "沒有名字"},
		[]interface{}{"Cúc", ""},
	)
	result, err = services.Candidate.ImportCandidates(room.ID, sheet)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 1 || result.Skipped != 0 {
		t.Fatalf("expected inserted=1 skipped=0, got %+v", result)
	}
}

func TestImportCandidatesRoomChecks(t *testing.T) {
	services, _ := newTestServices(t)

	sheet := makeSheet(t, []interface{}{"name"}, []interface{}{"Lan"})
	_, err := services.Candidate.ImportCandidates(9999, sheet)
	wantKind(t, err, apperrors.NotFound)

	room := openRoom(t, services, "R1")
	closed := models.RoomStatusClosed
	if _, err := services.Room.UpdateRoom(room.ID, UpdateRoomInput{Status: &closed}); err != nil {
		t.Fatal(err)
	}
	sheet = makeSheet(t, []interface{}{"name"}, []interface{}{"Lan"})
	_, err = services.Candidate.ImportCandidates(room.ID, sheet)
	wantKind(t, err, apperrors.InvalidState)
}
