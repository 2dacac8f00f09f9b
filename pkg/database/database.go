package database

import (
	"fmt"
	"log"
	"skillswap/internal/config"
	"skillswap/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logMode := logger.Warn
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows one writer; a single connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		db.Exec("PRAGMA foreign_keys = ON")
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate creates or updates every table and seeds default categories.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Skill{},
		&model.LearningSession{},
		&model.SessionMessage{},
		&model.Review{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaults := []model.Category{
			{Name: "Programming", Description: "Software development and coding", Icon: "code"},
			{Name: "Music", Description: "Instruments, theory and production", Icon: "music"},
			{Name: "Languages", Description: "Spoken and written languages", Icon: "globe"},
			{Name: "Design", Description: "Visual, product and UX design", Icon: "palette"},
		}
		for i := range defaults {
			if err := db.Create(&defaults[i]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
