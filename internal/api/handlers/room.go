package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voteroom_web/internal/models"
	"voteroom_web/internal/service"
)

// RoomHandler 處理與投票房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Code            string `json:"code" binding:"required"`
		Name            string `json:"name" binding:"required"`
		Description     string `json:"description"`
		MaxVotesPerUser int    `json:"maxVotesPerUser"`
		Status          string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "房間代碼（code）和名稱（name）是必填的！"})
		return
	}

	room, err := h.roomService.CreateRoom(service.CreateRoomInput{
		Code:            input.Code,
		Name:            input.Name,
		Description:     input.Description,
		MaxVotesPerUser: input.MaxVotesPerUser,
		Status:          models.RoomStatus(input.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "創建房間成功！",
		"data":    room,
	})
}

// ListRooms 處理取得房間列表的請求，可用 ?status= 過濾
func (h *RoomHandler) ListRooms(c *gin.Context) {
	status := models.RoomStatus(c.Query("status"))

	rooms, err := h.roomService.ListRooms(status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "取得房間列表成功",
		"count":   len(rooms),
		"data":    rooms,
	})
}

// GetRoom 處理取得房間詳情的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的房間 ID"})
		return
	}

	room, err := h.roomService.GetRoom(uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "取得房間成功",
		"data":    room,
	})
}

// UpdateRoom 處理部分更新房間的請求
// 要把狀態改成 open 時，若已有別間開放中的房間會收到衝突
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的房間 ID"})
		return
	}

	var input struct {
		Code            *string `json:"code"`
		Name            *string `json:"name"`
		Description     *string `json:"description"`
		Status          *string `json:"status"`
		MaxVotesPerUser *int    `json:"maxVotesPerUser"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "請求格式錯誤！"})
		return
	}

	updateInput := service.UpdateRoomInput{
		Code:            input.Code,
		Name:            input.Name,
		Description:     input.Description,
		MaxVotesPerUser: input.MaxVotesPerUser,
	}
	if input.Status != nil {
		status := models.RoomStatus(*input.Status)
		updateInput.Status = &status
	}

	room, err := h.roomService.UpdateRoom(uint(roomID), updateInput)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新房間成功！",
		"data":    room,
	})
}

// DeleteRoom 處理刪除房間的請求，候選人和選票一併刪除
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的房間 ID"})
		return
	}

	if err := h.roomService.DeleteRoom(uint(roomID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "刪除房間成功！"})
}

// JoinRoom 處理用戶加入房間的請求，重複加入不會報錯
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的房間 ID"})
		return
	}

	var input struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "請輸入 username！"})
		return
	}

	room, user, err := h.roomService.JoinRoom(uint(roomID), input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "加入房間成功！",
		"data":     room,
		"userInfo": user,
	})
}
