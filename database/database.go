package database

import (
	"fmt"
	"log"
	"os"

	"lms/config"
	"lms/models"
	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"
	goldModels "lms/models/gold"
	quizModels "lms/models/quiz"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes the database connection. The driver is chosen by
// DB_DRIVER: postgres (default), mysql, or sqlite for local development.
func ConnectDb() {
	var dialector gorm.Dialector

	switch config.AppConfig.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			config.AppConfig.DBName,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(config.AppConfig.DBName + ".db")
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			config.AppConfig.DBName,
			os.Getenv("DB_PORT"),
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// Run database migrations
	RunMigrations(db)
	SeedBadges(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.LessonProgress{},
		&courseModels.CourseProgress{},
		&courseModels.Payment{},
		&goldModels.Track{},
		&goldModels.Level{},
		&goldModels.GoldEnrollment{},
		&goldModels.LevelProgress{},
		&goldModels.LevelPromotionRequest{},
		&quizModels.Quiz{},
		&quizModels.QuizQuestion{},
		&quizModels.QuizOption{},
		&quizModels.QuizAttempt{},
		&quizModels.QuizAnswer{},
		&gamificationModels.Badge{},
		&gamificationModels.UserBadge{},
		&gamificationModels.XPEntry{},
		&gamificationModels.UserXP{},
		&gamificationModels.DailyStreak{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}

// SeedBadges inserts the badge catalog if it is not present yet. Existing
// rows are left untouched so admins can reword names and rewards.
func SeedBadges(db *gorm.DB) {
	badges := []gamificationModels.Badge{
		{Key: gamificationModels.KeyFirstLesson, Name: "First Steps", Description: "Complete your first lesson", BadgeType: gamificationModels.BadgeMilestone, XPReward: 50},
		{Key: gamificationModels.KeyFirstModule, Name: "Module Master", Description: "Complete every lesson in a module", BadgeType: gamificationModels.BadgeMilestone, XPReward: 100},
		{Key: gamificationModels.KeyFirstCourse, Name: "Course Conqueror", Description: "Finish your first course", BadgeType: gamificationModels.BadgeMilestone, XPReward: 250},
		{Key: gamificationModels.KeyQuizMaster, Name: "Quiz Master", Description: "Pass every quiz across ten lessons", BadgeType: gamificationModels.BadgeAchievement, XPReward: 150},
		{Key: gamificationModels.KeySpeedLearner, Name: "Speed Learner", Description: "Complete ten lessons in a single day", BadgeType: gamificationModels.BadgeAchievement, XPReward: 150},
		{Key: gamificationModels.KeyWeekStreak, Name: "Week Warrior", Description: "Learn seven days in a row", BadgeType: gamificationModels.BadgeStreak, XPReward: 100},
		{Key: gamificationModels.KeyMonthStreak, Name: "Monthly Master", Description: "Learn thirty days in a row", BadgeType: gamificationModels.BadgeStreak, XPReward: 500},
	}

	for _, b := range badges {
		var existing gamificationModels.Badge
		if err := db.Where("key = ?", b.Key).First(&existing).Error; err != nil {
			if err := db.Create(&b).Error; err != nil {
				log.Printf("Failed to seed badge %s: %v", b.Key, err)
			}
		}
	}
}
