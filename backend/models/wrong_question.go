package models

import (
	"time"

	"gorm.io/gorm"
)

// WrongQuestion is the per-user mistake ledger entry. The composite unique
// index on (user_id, question_id) guarantees at most one record per pair;
// concurrent misses are settled by the constraint, not by application reads.
type WrongQuestion struct {
	gorm.Model
	UserID     uint `gorm:"not null;uniqueIndex:idx_user_question,priority:1;index:idx_user_subject,priority:1" json:"user_id"`
	QuestionID uint `gorm:"not null;uniqueIndex:idx_user_question,priority:2" json:"question_id"`

	// Snapshot of the question's subject/chapter at time of first miss.
	// Kept for cheap aggregation; deliberately not synchronized if the
	// catalog is later edited.
	Subject   string `gorm:"not null;index:idx_user_subject,priority:2" json:"subject"`
	ChapterNo int    `gorm:"not null" json:"chapter_no"`

	UserAnswer     string        `json:"user_answer"`
	WrongCount     int           `gorm:"default:1" json:"wrong_count"`
	LastWrongTime  time.Time     `json:"last_wrong_time"`
	LastReviewTime *time.Time    `json:"last_review_time,omitempty"`
	IsResolved     bool          `gorm:"default:false" json:"is_resolved"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
	ReviewHistory  []ReviewEntry `json:"review_history,omitempty"`
}

// ReviewEntry is one append-only review event for a wrong question.
type ReviewEntry struct {
	gorm.Model
	WrongQuestionID uint    `gorm:"not null;index" json:"wrong_question_id"`
	WasCorrect      bool    `json:"was_correct"`
	UserAnswer      string  `json:"user_answer"`
	AnswerSeconds   float64 `json:"answer_seconds"`
}
