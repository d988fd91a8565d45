package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// MigrateDB 创建或更新 floodfills 和 paint_actions 表。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := migrateFloodFillsTable(db); err != nil {
		return fmt.Errorf("failed to migrate floodfills table: %w", err)
	}

	if err := db.AutoMigrate(&domain.PaintAction{}); err != nil {
		logrus.Errorf("Failed to auto-migrate paint_actions table: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateFloodFillsTable 首次部署时用原生 SQL 建表（LONGTEXT 存像素），之后交给 AutoMigrate
func migrateFloodFillsTable(db *gorm.DB) error {
	if db.Migrator().HasTable(&domain.FloodFill{}) {
		if err := db.AutoMigrate(&domain.FloodFill{}); err != nil {
			logrus.Errorf("Failed to auto-migrate floodfills table: %v", err)
			return err
		}
		logrus.Info("FloodFills table schema checked/updated successfully")
		return nil
	}

	sql := `
	CREATE TABLE floodfills (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(191) NOT NULL,
		name VARCHAR(255) NOT NULL,
		size_x BIGINT NOT NULL,
		size_y BIGINT NOT NULL,
		colors TEXT NOT NULL,
		pixels LONGTEXT NOT NULL,
		created_at DATETIME(3),
		updated_at DATETIME(3),
		INDEX idx_floodfills_user_id (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create floodfills table: %v", err)
		return fmt.Errorf("failed to create floodfills table: %w", err)
	}
	logrus.Info("FloodFills table created successfully")
	return nil
}
