package services

import "errors"

var (
	// ErrQuestionNotFound is returned when a referenced question does not exist
	ErrQuestionNotFound = errors.New("question not found")
	// ErrRecordNotFound is returned when a referenced wrong-question record does not exist
	ErrRecordNotFound = errors.New("wrong question record not found")
	// ErrUserNotFound is returned when the user does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrUnsupportedQuestionType is returned for question types without grading support
	ErrUnsupportedQuestionType = errors.New("unsupported question type")
	// ErrEmptyIDList is returned for batch operations called without ids
	ErrEmptyIDList = errors.New("empty id list")
)
