package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/InviteLink/internal/config"
	"github.com/GoArmGo/InviteLink/internal/database/client"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open применяет миграции и открывает GORM-подключение к PostgreSQL.
// Схему ведет golang-migrate, AutoMigrate не используется.
func Open(cfg *config.Config, logger *slog.Logger) (*GormUserStorage, error) {
	start := time.Now()

	if err := client.ApplyMigrations(cfg.DatabaseURL, logger); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), newGormConfig())
	if err != nil {
		logger.Error("failed to open GORM connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД через GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("не удалось получить *sql.DB из GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	logger.Info("GORM connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return NewGormUserStorage(db, logger), nil
}

func newGormConfig() *gorm.Config {
	return &gorm.Config{
		// ошибки драйвера переводятся в gorm.ErrDuplicatedKey и т.п.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}
