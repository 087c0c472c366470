package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voteroom_web/internal/service"
)

// UserHandler 處理與用戶名冊相關的請求
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 創建一個新的 UserHandler 實例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser 處理建立用戶的請求
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username 和 Name 是必填的！"})
		return
	}

	user, err := h.userService.CreateUser(input.Username, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "建立用戶成功！",
		"data":    user,
	})
}

// ListUsers 處理取得用戶列表的請求
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "取得用戶列表成功",
		"count":   len(users),
		"data":    users,
	})
}

// GetUser 處理取得單一用戶的請求
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的用戶 ID"})
		return
	}

	user, err := h.userService.GetUser(uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "取得用戶成功",
		"data":    user,
	})
}

// UpdateUser 處理更新用戶的請求，只允許修改 username 和 name
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的用戶 ID"})
		return
	}

	var input struct {
		Username *string `json:"username"`
		Name     *string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "請求格式錯誤！"})
		return
	}

	user, err := h.userService.UpdateUser(uint(userID), service.UpdateUserInput{
		Username: input.Username,
		Name:     input.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新用戶成功！",
		"data":    user,
	})
}

// DeleteUser 處理刪除用戶的請求
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的用戶 ID"})
		return
	}

	if err := h.userService.DeleteUser(uint(userID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "刪除用戶成功！"})
}

// ImportUsers 處理從 Excel 檔批次匯入用戶的請求
// 逐列寫入，username 重複的列略過並計入失敗數
func (h *UserHandler) ImportUsers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "請上傳 Excel 檔案！"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	result, err := h.userService.ImportUsers(file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "匯入完成！",
		"successCount": result.Success,
		"failedCount":  result.Failed,
	})
}
