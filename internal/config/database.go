package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB متغیر برای دسترسی به دیتابیس
var DB *gorm.DB

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// InitDB اتصال به دیتابیس انتخاب‌شده با DB_DRIVER را راه‌اندازی می‌کند
func InitDB(cfg *Config) error {
	d, err := dialector(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	level := logger.Warn
	if cfg.AppEnv == "production" {
		level = logger.Error
	}
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	DB = db
	Logger.Info("✅ Database connected", zap.String("driver", cfg.DBDriver))
	return nil
}

func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		Logger.Error("Error getting raw DB:", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		Logger.Error("Error closing database connection:", zap.Error(err))
	}
}
