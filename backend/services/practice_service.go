package services

import (
	"errors"
	"math"

	"tcmprep/backend/models"

	"gorm.io/gorm"
)

const (
	dailyQuestionCount = 30
	examQuestionCount  = 100
	enhanceLimit       = 20
	topicDefaultCount  = 20

	// Per-chapter recommendation volume: ceil(misses * recommendRatio).
	recommendRatio = 0.3
	// Repeated misses track conceptual gaps, so remediation pulls from the
	// harder end of the bank rather than easy repetition.
	recommendMinDifficulty = 3
)

// PracticeService builds practice sets and runs answer submission.
type PracticeService struct {
	DB             *gorm.DB
	WrongQuestions *WrongQuestionService
	Stats          *StatsService
}

func NewPracticeService(db *gorm.DB) *PracticeService {
	return &PracticeService{
		DB:             db,
		WrongQuestions: NewWrongQuestionService(db),
		Stats:          NewStatsService(db),
	}
}

// GetDailyQuestions samples 30 random questions across all subjects.
func (s *PracticeService) GetDailyQuestions() ([]models.Question, error) {
	return s.sample(s.DB, dailyQuestionCount)
}

// GetExamQuestions samples 100 random questions for a mock exam.
func (s *PracticeService) GetExamQuestions() ([]models.Question, error) {
	return s.sample(s.DB, examQuestionCount)
}

// GetTopicQuestions samples questions for one subject, optionally at an exact
// difficulty. An empty result is a valid answer, not an error.
func (s *PracticeService) GetTopicQuestions(subject string, count, difficulty int) ([]models.Question, error) {
	if count < 1 {
		count = topicDefaultCount
	}

	query := s.DB.Where("subject = ?", subject)
	if difficulty > 0 {
		query = query.Where("difficulty = ?", difficulty)
	}
	return s.sample(query, count)
}

// sample draws up to count questions without replacement, fresh each call.
func (s *PracticeService) sample(query *gorm.DB, count int) ([]models.Question, error) {
	var questions []models.Question
	err := query.Order("RANDOM()").Limit(count).Find(&questions).Error
	return questions, err
}

// GetEnhanceQuestions returns the questions behind the user's worst
// unresolved misses: highest wrong count first, most recent miss breaking
// ties, capped at 20. Questions gone from the catalog are dropped.
func (s *PracticeService) GetEnhanceQuestions(userID uint) ([]models.Question, error) {
	var records []models.WrongQuestion
	err := s.DB.Where("user_id = ? AND is_resolved = ?", userID, false).
		Order("wrong_count DESC, last_wrong_time DESC").
		Limit(enhanceLimit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(records))
	for _, record := range records {
		var question models.Question
		if err := s.DB.First(&question, record.QuestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

type chapterMisses struct {
	ChapterNo int
	Misses    int64
}

// GetRecommendedQuestions builds a remediation set weighted by where the
// user goes wrong: for each chapter with unresolved misses, ceil(misses*0.3)
// questions of difficulty >= 3, answer key and explanation stripped. Volume
// is proportional to the damage, there is no global cap.
func (s *PracticeService) GetRecommendedQuestions(userID uint) ([]models.Question, error) {
	var perChapter []chapterMisses
	err := s.DB.Model(&models.WrongQuestion{}).
		Select("chapter_no, COUNT(*) AS misses").
		Where("user_id = ? AND is_resolved = ?", userID, false).
		Group("chapter_no").
		Order("chapter_no").
		Scan(&perChapter).Error
	if err != nil {
		return nil, err
	}

	var recommended []models.Question
	for _, chapter := range perChapter {
		limit := int(math.Ceil(float64(chapter.Misses) * recommendRatio))

		var questions []models.Question
		err := s.DB.Where("chapter_no = ? AND difficulty >= ?", chapter.ChapterNo, recommendMinDifficulty).
			Limit(limit).
			Find(&questions).Error
		if err != nil {
			return nil, err
		}

		for _, question := range questions {
			recommended = append(recommended, question.Sanitized())
		}
	}
	return recommended, nil
}

// ChapterInfo is one chapter of a subject with its question count.
type ChapterInfo struct {
	ChapterNo     int   `json:"chapter_no"`
	QuestionCount int64 `json:"question_count"`
}

// GetChapters lists a subject's chapters in order.
func (s *PracticeService) GetChapters(subject string) ([]ChapterInfo, error) {
	var chapters []ChapterInfo
	err := s.DB.Model(&models.Question{}).
		Select("chapter_no, COUNT(*) AS question_count").
		Where("subject = ?", subject).
		Group("chapter_no").
		Order("chapter_no").
		Scan(&chapters).Error
	return chapters, err
}

// GetChapterQuestions pages through one chapter in question order.
func (s *PracticeService) GetChapterQuestions(subject string, chapterNo, page, limit int) ([]models.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.DB.Model(&models.Question{}).
		Where("subject = ? AND chapter_no = ?", subject, chapterNo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []models.Question
	err := query.
		Order("question_no").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	return questions, total, err
}

// SubmitResult is the immediate feedback for a submitted answer. The correct
// answer and explanation are always included, right or wrong.
type SubmitResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// SubmitAnswer grades one answer and runs the bookkeeping: a miss goes into
// the ledger, a correct re-answer resolves any existing ledger entry, and the
// user's counters move either way.
func (s *PracticeService) SubmitAnswer(userID, questionID uint, answer string, answerSeconds float64) (*SubmitResult, error) {
	var question models.Question
	if err := s.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	isCorrect, err := Grade(&question, answer)
	if err != nil {
		return nil, err
	}

	if isCorrect {
		err = s.WrongQuestions.ResolveIfPresent(userID, questionID, answer, answerSeconds)
	} else {
		err = s.WrongQuestions.RecordMiss(userID, questionID, question.Subject, question.ChapterNo, answer, answerSeconds)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.Stats.UpdateOnAnswer(userID, isCorrect); err != nil {
		return nil, err
	}

	return &SubmitResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.Answer,
		Explanation:   question.Explanation,
	}, nil
}
