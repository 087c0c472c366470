// Package api 處理 HTTP 請求路由和處理。
//
// 這個包包含了所有的 HTTP 處理器（handlers）。
// 它負責將 HTTP 請求轉換為適當的服務調用，並將結果轉換回 HTTP 響應。
// 所有回應都是帶有 message 字段的 JSON 物件，成功時視情況附上 data 和 count。
package api
