package database

import (
	"log"

	"household-backend/config"
	"household-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.AppConfig.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("✅ Database connected successfully")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database migrated successfully")
}

// Migrate creates the schema for all models. Tests call it against an
// in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.CleaningTask{},
		&models.TaskState{},
		&models.ProgressRecord{},
		&models.Bill{},
		&models.BillNotification{},
		&models.RecurringTask{},
		&models.Subscription{},
		&models.HouseholdSetting{},
		&models.Activity{},
	)
}
