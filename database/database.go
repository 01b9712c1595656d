package database

import (
	"fmt"
	"log"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/jimbobirecode/teemail-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.StaffUser{},
		&models.Booking{},
		&models.PaymentRecord{},
		&models.WaitlistEntry{},
		&models.InboundEmail{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedStaff creates the initial dashboard account with a temporary
// password; the user is forced to set a permanent one on first login.
func SeedStaff() {
	username := config.Config("STAFF_USERNAME")
	tempPassword := config.Config("STAFF_TEMP_PASSWORD")
	club := config.Config("STAFF_CLUB")

	if username == "" || tempPassword == "" || club == "" {
		log.Println("Staff seed skipped: STAFF_USERNAME, STAFF_TEMP_PASSWORD or STAFF_CLUB not set")
		return
	}

	var count int64
	if err := DB.Model(&models.StaffUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for staff user: %v", err)
		return
	}
	if count > 0 {
		log.Println("Staff user already exists.")
		return
	}

	staff := models.StaffUser{
		Username:           username,
		FullName:           config.Config("STAFF_FULL_NAME"),
		Club:               club,
		TempPassword:       &tempPassword,
		MustChangePassword: true,
		IsActive:           true,
	}

	if err := DB.Create(&staff).Error; err != nil {
		log.Fatalf("🔥 Failed to seed staff user: %v", err)
		return
	}

	log.Println("✅ Staff user seeded successfully")
}
