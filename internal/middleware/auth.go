package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voteroom_web/internal/utils"
)

// AuthMiddleware 是驗證管理員 JWT token 的 Gin 中間件
// 房間與候選人的寫入路由都掛在這個中間件之後
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "沒有權限，請先登入！"})
			c.Abort()
			return
		}

		// 檢查 Authorization 頭的格式
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization 頭格式必須是 Bearer {token}"})
			c.Abort()
			return
		}

		// 解析 JWT token
		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Token 無效或已過期！"})
			c.Abort()
			return
		}

		// 將管理員信息設置到上下文中
		c.Set("adminID", claims.AdminID)
		c.Set("adminUsername", claims.Username)
		c.Next()
	}
}
