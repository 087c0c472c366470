package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voteroom_web/internal/service"
)

// VoteHandler 處理與投票相關的請求
type VoteHandler struct {
	voteService *service.VoteService
}

// NewVoteHandler 創建一個新的 VoteHandler 實例
func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// SubmitVote 處理提交選票的請求
// 每位用戶在一個房間只能提交一次，重複提交會收到衝突
func (h *VoteHandler) SubmitVote(c *gin.Context) {
	var input struct {
		RoomCode     string `json:"roomCode" binding:"required"`
		Username     string `json:"username" binding:"required"`
		CandidateIDs []uint `json:"candidateIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "資料不完整！"})
		return
	}

	count, err := h.voteService.SubmitVote(input.RoomCode, input.Username, input.CandidateIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "投票成功！",
		"votedCount": count,
	})
}

// GetRoomResult 處理查詢開票結果的請求
func (h *VoteHandler) GetRoomResult(c *gin.Context) {
	result, err := h.voteService.GetRoomResult(c.Param("roomCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "取得結果成功",
		"roomName":   result.RoomName,
		"totalVotes": result.TotalVotes,
		"data":       result.Results,
	})
}

// GetVotingPage 處理投票頁資料的請求
// 帶 ?username= 時附上該用戶的投票狀態
func (h *VoteHandler) GetVotingPage(c *gin.Context) {
	data, err := h.voteService.GetVotingPageData(c.Param("roomCode"), c.Query("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "取得投票頁資料成功",
		"room":        data.Room,
		"candidates":  data.Candidates,
		"myVoteState": data.MyVoteState,
	})
}
