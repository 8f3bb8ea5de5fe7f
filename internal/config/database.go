package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"homecare-rental/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDB opens the MySQL connection described by DB_* env vars and migrates
// the schema. The process exits when the database is unreachable.
func ConnectDB() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		GetEnv("DB_HOST", "127.0.0.1"),
		GetEnv("DB_PORT", "3306"),
		os.Getenv("DB_NAME"),
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				Colorful:      false,
				LogLevel:      logger.Error,
				SlowThreshold: time.Second,
			},
		),
	})
	if err != nil {
		LogError(logg, "config", "ConnectDB", "open", nil, err)
		os.Exit(1)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(IntFromEnv("DB_MAX_OPEN_CONNS", 25))
		sqlDB.SetMaxIdleConns(IntFromEnv("DB_MAX_IDLE_CONNS", 10))
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		LogError(logg, "config", "ConnectDB", "migrate", nil, err)
		os.Exit(1)
	}

	DB = db
	logg.Info("database connected")
}

// Migrate creates or updates every table, parents first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Device{},
		&models.Accessory{},
		&models.Rental{},
		&models.RentalGroup{},
		&models.RentalItem{},
		&models.Sale{},
		&models.Payment{},
		&models.Diagnostic{},
		&models.Appointment{},
	)
}
