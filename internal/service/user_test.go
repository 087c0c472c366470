package service

import (
	"testing"

	"voteroom_web/internal/apperrors"
)

func TestCreateUser(t *testing.T) {
	services, _ := newTestServices(t)

	user, err := services.User.CreateUser(" lan ", "Lan")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Username != "lan" {
		t.Errorf("expected trimmed username, got %q", user.Username)
	}

	_, err = services.User.CreateUser("lan", "Another Lan")
	wantKind(t, err, apperrors.Conflict)

	_, err = services.User.CreateUser("", "No Username")
	wantKind(t, err, apperrors.Validation)
}

func TestListUsersNewestFirst(t *testing.T) {
	services, _ := newTestServices(t)

	for _, u := range []string{"a", "b", "c"} {
		if _, err := services.User.CreateUser(u, u); err != nil {
			t.Fatal(err)
		}
	}
	users, err := services.User.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 || users[0].Username != "c" || users[2].Username != "a" {
		t.Errorf("expected newest first [c b a], got %+v", users)
	}
}

func TestUpdateUser(t *testing.T) {
	services, _ := newTestServices(t)

	lan, err := services.User.CreateUser("lan", "Lan")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := services.User.CreateUser("mai", "Mai"); err != nil {
		t.Fatal(err)
	}

	// username 撞到別的用戶
	taken := "mai"
	_, err = services.User.UpdateUser(lan.ID, UpdateUserInput{Username: &taken})
	wantKind(t, err, apperrors.Conflict)

	newName := "Lan Anh"
	updated, err := services.User.UpdateUser(lan.ID, UpdateUserInput{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "Lan Anh" || updated.Username != "lan" {
		t.Errorf("partial update touched wrong fields: %+v", updated)
	}

	_, err = services.User.UpdateUser(9999, UpdateUserInput{})
	wantKind(t, err, apperrors.NotFound)
}

func TestDeleteUser(t *testing.T) {
	services, _ := newTestServices(t)

	lan, err := services.User.CreateUser("lan", "Lan")
	if err != nil {
		t.Fatal(err)
	}
	if err := services.User.DeleteUser(lan.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	wantKind(t, services.User.DeleteUser(lan.ID), apperrors.NotFound)
}

func TestCreateUserReusesDeletedUsername(t *testing.T) {
	services, _ := newTestServices(t)

	lan, err := services.User.CreateUser("lan", "Lan")
	if err != nil {
		t.Fatal(err)
	}
	if err := services.User.DeleteUser(lan.ID); err != nil {
		t.Fatal(err)
	}

	// 刪掉的用戶不再佔用 username
	if _, err := services.User.CreateUser("lan", "Lan Again"); err != nil {
		t.Fatalf("recreating user with deleted username failed: %v", err)
	}
}

func TestImportUsers(t *testing.T) {
	services, _ := newTestServices(t)

	if _, err := services.User.CreateUser("mai", "Mai"); err != nil {
		t.Fatal(err)
	}

	// lan 成功、mai 和檔案內重複的 lan 都算失敗、沒有 name 的補 No Name
	sheet := makeSheet(t,
		[]interface{}{"Username", "Name"},
		[]interface{}{"lan", "Lan"},
		[]interface{}{"mai", "Mai Again"},
		[]interface{}{"lan", "Duplicate Lan"},
		[]interface{}{"cuc", ""},
	)
	result, err := services.User.ImportUsers(sheet)
	if err != nil {
		t.Fatalf("ImportUsers failed: %v", err)
	}
	if result.Success != 2 || result.Failed != 2 {
		t.Fatalf("expected success=2 failed=2, got %+v", result)
	}

	imported, err := services.User.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	byUsername := make(map[string]string)
	for _, u := range imported {
		byUsername[u.Username] = u.Name
	}
	if byUsername["cuc"] != "No Name" {
		t.Errorf("expected missing name to default to No Name, got %q", byUsername["cuc"])
	}
	if byUsername["mai"] != "Mai" {
		t.Errorf("existing user should be untouched, got %q", byUsername["mai"])
	}

	// 沒有任何有效 username 的檔案視為格式錯誤
	sheet = makeSheet(t,
		[]interface{}{"username", "name"},
		[]interface{}{"", "ghost"},
	)
	_, err = services.User.ImportUsers(sheet)
	wantKind(t, err, apperrors.Validation)
}
