package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voteroom_web/internal/api"
	"voteroom_web/internal/models"
	"voteroom_web/internal/repository"
	"voteroom_web/internal/service"
	"voteroom_web/internal/storage"
	"voteroom_web/internal/utils"
	"voteroom_web/pkg/config"
)

func main() {
	// 載入應用程式配置
	// 從配置文件中讀取設置，如數據庫連接信息和服務器地址等
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日誌
	logger, err := utils.InitLogger()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// 以配置覆蓋 JWT 的密鑰與有效期
	utils.SetJWTConfig(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Room{},
		&models.Candidate{},
		&models.Vote{},
		&models.BallotReceipt{},
	); err != nil {
		logger.Fatal("Failed to auto migrate database", zap.Error(err))
	}

	// 建立 AutoMigrate 無法表達的索引（單一開放房間的部分唯一索引）
	if err := db.SetupIndexes(); err != nil {
		logger.Fatal("Failed to setup indexes", zap.Error(err))
	}

	// 初始化 repositories 和 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos)

	// 設置 Gin 路由
	r := gin.New()
	r.Use(utils.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	api.SetupRoutes(r, services)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
