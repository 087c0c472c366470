package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voteroom_web/internal/apperrors"
)

// respondError 把服務層錯誤統一轉成 HTTP 狀態碼和 JSON 訊息
// 未預期的錯誤只寫入日誌，客戶端一律收到通用訊息
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("handler error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"message": apperrors.Message(err)})
}
