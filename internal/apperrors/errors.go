// Package apperrors 定義應用層的錯誤分類。
//
// 各層只需回傳帶有分類的錯誤，由 handler 統一轉換成 HTTP 狀態碼
// 與 JSON 訊息，內部錯誤細節只寫入日誌，不回傳給客戶端。
package apperrors

import (
	"errors"
	"net/http"
)

// Kind 表示錯誤的分類
type Kind int

const (
	Validation   Kind = iota // 輸入缺漏或格式錯誤
	NotFound                 // 查無資料
	Conflict                 // 唯一性衝突
	Unauthorized             // 未登入或 token 無效
	Forbidden                // 無權限（不在允許名單等）
	InvalidState             // 目前狀態不允許此操作
	Internal                 // 未預期的伺服器錯誤
)

// Error 是帶分類的應用層錯誤
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New 建立一個帶分類的錯誤
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf 取出錯誤的分類，非本包錯誤一律視為 Internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// HTTPStatus 將錯誤分類對應到 HTTP 狀態碼
// 唯一性衝突沿用 400，與既有 API 行為一致
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, Conflict, InvalidState:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message 取出可回傳給客戶端的訊息，內部錯誤只回傳通用訊息
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "伺服器錯誤"
}
