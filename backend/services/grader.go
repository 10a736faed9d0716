package services

import "tcmprep/backend/models"

// gradeFunc compares a submitted answer against a question.
type gradeFunc func(q *models.Question, answer string) bool

// graders is keyed by question type. Multiple choice and true/false are in
// the imported banks but have no grading rules yet; grading them as single
// choice would mis-grade silently, so they stay unsupported until they get
// real grading rules.
var graders = map[string]gradeFunc{
	models.QuestionTypeSingleChoice: gradeSingleChoice,
}

// Grade returns whether the answer is correct for the question's type.
func Grade(q *models.Question, answer string) (bool, error) {
	questionType := q.Type
	if questionType == "" {
		questionType = models.QuestionTypeSingleChoice
	}

	grade, ok := graders[questionType]
	if !ok {
		return false, ErrUnsupportedQuestionType
	}
	return grade(q, answer), nil
}

// Exact, case-sensitive label match. No partial credit.
func gradeSingleChoice(q *models.Question, answer string) bool {
	return answer == q.Answer
}
