package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:user" json:"role"` // user, admin
	Nickname     string `json:"nickname"`
	Avatar       string `json:"avatar"`

	// Aggregate answer counters. Written only by services.StatsService so the
	// streak transition rule stays in one place.
	TotalAnswered int        `gorm:"default:0" json:"total_answered"`
	CorrectCount  int        `gorm:"default:0" json:"correct_count"`
	WrongCount    int        `gorm:"default:0" json:"wrong_count"`
	Streak        int        `gorm:"default:0" json:"streak"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	LastAnswerAt  *time.Time `json:"last_answer_at,omitempty"`
}

type LoginHistory struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	LoginTime time.Time `json:"login_time"`
}

// UserStats is the derived stats payload returned to clients.
type UserStats struct {
	TotalQuestions int        `json:"total_questions"`
	CorrectCount   int        `json:"correct_count"`
	WrongCount     int        `json:"wrong_count"`
	Streak         int        `json:"streak"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	LastAnswerAt   *time.Time `json:"last_answer_at,omitempty"`
}
