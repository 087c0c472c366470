package service

import (
	"testing"

	"voteroom_web/internal/apperrors"
	"voteroom_web/internal/repository"
	"voteroom_web/internal/testutil"
)

// newTestServices 建立一組以記憶體 repositories 為後端的 services
func newTestServices(t *testing.T) (*Services, *repository.Repositories) {
	t.Helper()
	repos := testutil.NewMemoryStore().Repositories()
	return NewServices(repos), repos
}

// wantKind 驗證錯誤存在且屬於預期的分類
func wantKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := apperrors.KindOf(err); got != kind {
		t.Fatalf("expected error kind %v, got %v (%v)", kind, got, err)
	}
}
