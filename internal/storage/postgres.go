package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresDB struct {
	*gorm.DB
}

func NewPostgresDB(host, user, password, dbname string, port int) (*PostgresDB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=Asia/Taipei",
		host, user, password, dbname, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return &PostgresDB{DB: db}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自動遷移資料庫結構
func (db *PostgresDB) AutoMigrate(models ...interface{}) error {
	return db.DB.AutoMigrate(models...)
}

// SetupIndexes 建立 AutoMigrate 無法表達的部分唯一索引
// 唯一性只約束未軟刪除的列，刪掉的房間代碼和用戶名可以重新使用；
// idx_rooms_single_open 保證全系統同時最多只有一間 open 狀態的房間，
// 兩個併發的開房請求會在這個索引上分出勝負，落敗方收到唯一性衝突
func (db *PostgresDB) SetupIndexes() error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rooms_single_open
		 ON rooms (status)
		 WHERE status = 'open' AND deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rooms_code
		 ON rooms (code)
		 WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username
		 ON users (username)
		 WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_username
		 ON admins (username)
		 WHERE deleted_at IS NULL`,
	}
	for _, stmt := range statements {
		if err := db.DB.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
