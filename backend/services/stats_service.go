package services

import (
	"errors"
	"fmt"
	"time"

	"tcmprep/backend/models"

	"gorm.io/gorm"
)

// StatsService is the only writer of the aggregate counters embedded in
// users. Keeping the streak transition in one place keeps it testable.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// GetUserStats returns the dashboard numbers. Total is the global catalog
// size; correct/wrong are derived from the ledger: questions the user has
// attempted minus the ones still unresolved.
func (s *StatsService) GetUserStats(userID uint) (*models.UserStats, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var totalQuestions int64
	if err := s.DB.Model(&models.Question{}).Count(&totalQuestions).Error; err != nil {
		return nil, err
	}

	var attempted int64
	if err := s.DB.Model(&models.WrongQuestion{}).
		Where("user_id = ?", userID).
		Distinct("question_id").
		Count(&attempted).Error; err != nil {
		return nil, err
	}

	var unresolved int64
	if err := s.DB.Model(&models.WrongQuestion{}).
		Where("user_id = ? AND is_resolved = ?", userID, false).
		Count(&unresolved).Error; err != nil {
		return nil, err
	}

	return &models.UserStats{
		TotalQuestions: int(totalQuestions),
		CorrectCount:   int(attempted - unresolved),
		WrongCount:     int(unresolved),
		Streak:         user.Streak,
		LastLoginAt:    user.LastLoginAt,
		LastAnswerAt:   user.LastAnswerAt,
	}, nil
}

// AnswerUpdate is what UpdateOnAnswer reports back.
type AnswerUpdate struct {
	Streak       int       `json:"streak"`
	LastAnswerAt time.Time `json:"last_answer_at"`
}

// UpdateOnAnswer records one submitted answer against the user's counters.
// The streak moves only on the first answer of a new calendar day: correct
// extends it, wrong resets it to zero. Later answers the same day leave it
// alone whatever their outcome.
func (s *StatsService) UpdateOnAnswer(userID uint, wasCorrect bool) (*AnswerUpdate, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	streak := user.Streak
	if isNewDay(user.LastAnswerAt, now) {
		if wasCorrect {
			streak++
		} else {
			streak = 0
		}
	}

	counter := "wrong_count"
	if wasCorrect {
		counter = "correct_count"
	}

	err := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_answered": gorm.Expr("total_answered + 1"),
			counter:          gorm.Expr(fmt.Sprintf("%s + 1", counter)),
			"streak":         streak,
			"last_answer_at": now,
		}).Error
	if err != nil {
		return nil, err
	}

	return &AnswerUpdate{Streak: streak, LastAnswerAt: now}, nil
}

// isNewDay reports whether now falls on a different calendar day than last.
// A nil last answer time counts as a new day.
func isNewDay(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return last.Year() != now.Year() ||
		last.Month() != now.Month() ||
		last.Day() != now.Day()
}

// Reset zeroes the user's counters and streak and clears the last answer
// time. The last login time is kept.
func (s *StatsService) Reset(userID uint) error {
	result := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_answered": 0,
			"correct_count":  0,
			"wrong_count":    0,
			"streak":         0,
			"last_answer_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DailyStatus reports whether the user has answered anything today.
type DailyStatus struct {
	AnsweredToday bool       `json:"answered_today"`
	Streak        int        `json:"streak"`
	LastAnswerAt  *time.Time `json:"last_answer_at,omitempty"`
}

func (s *StatsService) GetDailyStatus(userID uint) (*DailyStatus, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &DailyStatus{
		AnsweredToday: !isNewDay(user.LastAnswerAt, time.Now()),
		Streak:        user.Streak,
		LastAnswerAt:  user.LastAnswerAt,
	}, nil
}

// LearningProgress is the richer study-progress payload.
type LearningProgress struct {
	TotalQuestions int        `json:"total_questions"`
	CompletedCount int        `json:"completed_count"`
	CorrectCount   int        `json:"correct_count"`
	WrongCount     int        `json:"wrong_count"`
	Accuracy       float64    `json:"accuracy"`
	Streak         int        `json:"streak"`
	LastAnswerAt   *time.Time `json:"last_answer_at,omitempty"`
}

// GetLearningProgress returns completion and accuracy numbers. A user with
// no activity gets zeros, never a division by zero.
func (s *StatsService) GetLearningProgress(userID uint) (*LearningProgress, error) {
	stats, err := s.GetUserStats(userID)
	if err != nil {
		return nil, err
	}

	completed := stats.CorrectCount + stats.WrongCount
	accuracy := 0.0
	if completed > 0 {
		accuracy = float64(stats.CorrectCount) / float64(completed) * 100
	}

	return &LearningProgress{
		TotalQuestions: stats.TotalQuestions,
		CompletedCount: completed,
		CorrectCount:   stats.CorrectCount,
		WrongCount:     stats.WrongCount,
		Accuracy:       accuracy,
		Streak:         stats.Streak,
		LastAnswerAt:   stats.LastAnswerAt,
	}, nil
}

// RecordLogin stamps the user's last login and appends to login history.
func (s *StatsService) RecordLogin(userID uint) error {
	now := time.Now()
	if err := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", now).Error; err != nil {
		return err
	}

	return s.DB.Create(&models.LoginHistory{UserID: userID, LoginTime: now}).Error
}
