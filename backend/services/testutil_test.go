package services

import (
	"fmt"
	"testing"
	"time"

	"tcmprep/backend/models"
	"tcmprep/backend/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := utils.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

var questionSeq int

func createTestQuestion(t *testing.T, db *gorm.DB, subject string, chapterNo, difficulty int) *models.Question {
	t.Helper()

	questionSeq++
	question := models.Question{
		QuestionNo:  questionSeq,
		Subject:     subject,
		ChapterNo:   chapterNo,
		Description: fmt.Sprintf("question %d", questionSeq),
		OptionA:     "a",
		OptionB:     "b",
		OptionC:     "c",
		OptionD:     "d",
		Answer:      "A",
		Explanation: "because A",
		Difficulty:  difficulty,
		Type:        models.QuestionTypeSingleChoice,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create test question: %v", err)
	}
	return &question
}

func createTestMiss(t *testing.T, db *gorm.DB, userID, questionID uint, subject string, chapterNo, wrongCount int, resolved bool, lastWrong time.Time) *models.WrongQuestion {
	t.Helper()

	record := models.WrongQuestion{
		UserID:        userID,
		QuestionID:    questionID,
		Subject:       subject,
		ChapterNo:     chapterNo,
		WrongCount:    wrongCount,
		LastWrongTime: lastWrong,
		IsResolved:    resolved,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create test miss: %v", err)
	}
	return &record
}
