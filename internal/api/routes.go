package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voteroom_web/internal/api/handlers"
	"voteroom_web/internal/middleware"
	"voteroom_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	roomHandler := handlers.NewRoomHandler(services.Room)
	candidateHandler := handlers.NewCandidateHandler(services.Candidate)
	voteHandler := handlers.NewVoteHandler(services.Vote)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 管理員認證相關
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		// 用戶名冊
		users := api.Group("/users")
		users.POST("", userHandler.CreateUser)           // 建立用戶
		users.POST("/import", userHandler.ImportUsers)   // 從 Excel 批次匯入
		users.GET("/list", userHandler.ListUsers)        // 取得用戶列表
		users.GET("/:id", userHandler.GetUser)           // 取得單一用戶
		users.PUT("/update/:id", userHandler.UpdateUser) // 更新用戶
		users.DELETE("/delete/:id", userHandler.DeleteUser)

		// 投票
		votes := api.Group("/votes")
		votes.POST("/submit", voteHandler.SubmitVote)           // 提交選票
		votes.GET("/result/:roomCode", voteHandler.GetRoomResult) // 查看開票結果
		votes.GET("/page/:roomCode", voteHandler.GetVotingPage)   // 投票頁組合資料

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要管理員權限的路由
	{
		// 投票房間相關
		rooms := api.Group("/rooms")
		rooms.Use(middleware.AuthMiddleware())
		rooms.POST("", roomHandler.CreateRoom)       // 創建房間
		rooms.GET("", roomHandler.ListRooms)         // 取得房間列表
		rooms.GET("/:id", roomHandler.GetRoom)       // 取得房間詳情
		rooms.PUT("/:id", roomHandler.UpdateRoom)    // 更新房間
		rooms.DELETE("/:id", roomHandler.DeleteRoom) // 刪除房間（連同候選人和選票）
		rooms.POST("/:id/join", roomHandler.JoinRoom) // 把用戶加入允許名單

		// 候選人相關
		candidates := api.Group("/candidates")
		candidates.Use(middleware.AuthMiddleware())
		candidates.POST("", candidateHandler.CreateCandidate)              // 手動新增
		candidates.POST("/import", candidateHandler.ImportCandidates)      // 從 Excel 批次匯入
		candidates.GET("/room/:roomId", candidateHandler.ListCandidatesByRoom) // 房間候選人名單
		candidates.PUT("/:id", candidateHandler.UpdateCandidate)           // 更新候選人
		candidates.DELETE("/:id", candidateHandler.DeleteCandidate)        // 刪除候選人
	}
}
