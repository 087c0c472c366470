package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voteroom_web/internal/service"
)

// CandidateHandler 處理與候選人相關的請求
type CandidateHandler struct {
	candidateService *service.CandidateService
}

// NewCandidateHandler 創建一個新的 CandidateHandler 實例
func NewCandidateHandler(candidateService *service.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService}
}

// CreateCandidate 處理手動新增候選人的請求
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var input struct {
		RoomID uint   `json:"roomId" binding:"required"`
		Name   string `json:"name" binding:"required"`
		Avatar string `json:"avatar"`
		Intro  string `json:"intro"`
		Group  string `json:"group"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "RoomId 和候選人名稱是必填的！"})
		return
	}

	candidate, err := h.candidateService.CreateCandidate(input.RoomID, input.Name, input.Avatar, input.Intro, input.Group)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "新增候選人成功！",
		"data":    candidate,
	})
}

// ImportCandidates 處理從 Excel 檔批次匯入候選人的請求
// 名稱重複的列會被略過並計入略過數，全部重複時回傳成功但寫入數為零
func (h *CandidateHandler) ImportCandidates(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "請上傳 Excel/CSV 檔案！"})
		return
	}

	roomID, err := strconv.ParseUint(c.PostForm("roomId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "缺少 roomId！"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	result, err := h.candidateService.ImportCandidates(uint(roomID), file)
	if err != nil {
		respondError(c, err)
		return
	}

	message := fmt.Sprintf("成功匯入 %d 位候選人！", result.Inserted)
	if result.Inserted == 0 {
		message = "沒有新的候選人可以匯入，資料都已存在或名稱重複。"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       message,
		"insertedCount": result.Inserted,
		"skippedCount":  result.Skipped,
	})
}

// ListCandidatesByRoom 處理取得房間候選人名單的請求
func (h *CandidateHandler) ListCandidatesByRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的房間 ID"})
		return
	}

	candidates, err := h.candidateService.ListCandidatesByRoom(uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "取得候選人名單成功",
		"count":   len(candidates),
		"data":    candidates,
	})
}

// UpdateCandidate 處理部分更新候選人的請求
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	candidateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的候選人 ID"})
		return
	}

	var input struct {
		Name   *string `json:"name"`
		Avatar *string `json:"avatar"`
		Intro  *string `json:"intro"`
		Group  *string `json:"group"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "請求格式錯誤！"})
		return
	}

	candidate, err := h.candidateService.UpdateCandidate(uint(candidateID), service.UpdateCandidateInput{
		Name:   input.Name,
		Avatar: input.Avatar,
		Intro:  input.Intro,
		Group:  input.Group,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新候選人成功！",
		"data":    candidate,
	})
}

// DeleteCandidate 處理刪除候選人的請求
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	candidateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "無效的候選人 ID"})
		return
	}

	if err := h.candidateService.DeleteCandidate(uint(candidateID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "刪除候選人成功！"})
}
