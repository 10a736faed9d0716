package models

import "gorm.io/gorm"

// Question types. Only single choice is gradeable for now, the other two
// exist in imported question banks and must not be silently mis-graded.
const (
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
)

type Question struct {
	gorm.Model
	QuestionNo  int    `gorm:"uniqueIndex;not null" json:"question_no"`
	Subject     string `gorm:"not null;index:idx_subject_chapter,priority:1" json:"subject"`
	ChapterNo   int    `gorm:"not null;index:idx_subject_chapter,priority:2" json:"chapter_no"`
	Description string `gorm:"not null" json:"description"`
	OptionA     string `gorm:"not null" json:"option_a"`
	OptionB     string `gorm:"not null" json:"option_b"`
	OptionC     string `gorm:"not null" json:"option_c"`
	OptionD     string `gorm:"not null" json:"option_d"`
	OptionE     string `json:"option_e,omitempty"`
	Answer      string `gorm:"not null" json:"answer,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Difficulty  int    `gorm:"default:3" json:"difficulty"` // 1-5
	Tags        string `json:"tags,omitempty"`              // comma-separated
	Type        string `gorm:"default:single_choice" json:"type"`
}

// OptionMap returns the options keyed by label, E included only when present.
func (q *Question) OptionMap() map[string]string {
	options := map[string]string{
		"A": q.OptionA,
		"B": q.OptionB,
		"C": q.OptionC,
		"D": q.OptionD,
	}
	if q.OptionE != "" {
		options["E"] = q.OptionE
	}
	return options
}

// Sanitized strips the answer key and explanation for practice payloads.
func (q Question) Sanitized() Question {
	q.Answer = ""
	q.Explanation = ""
	return q
}
