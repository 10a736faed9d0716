package services

import (
	"errors"
	"time"

	"tcmprep/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WrongQuestionService owns the per-user mistake ledger. All writes to
// wrong_questions go through here.
type WrongQuestionService struct {
	DB *gorm.DB
}

func NewWrongQuestionService(db *gorm.DB) *WrongQuestionService {
	return &WrongQuestionService{DB: db}
}

// RecordMiss creates the ledger entry on a first miss or bumps the existing
// one. The whole call is a single upsert: the composite unique index on
// (user_id, question_id) settles concurrent misses, and the increment happens
// in the database, so no miss is ever lost and no duplicate row can appear.
// A prior resolution does not survive a fresh miss.
func (s *WrongQuestionService) RecordMiss(userID, questionID uint, subject string, chapterNo int, userAnswer string, answerSeconds float64) error {
	now := time.Now()
	record := models.WrongQuestion{
		UserID:        userID,
		QuestionID:    questionID,
		Subject:       subject,
		ChapterNo:     chapterNo,
		UserAnswer:    userAnswer,
		WrongCount:    1,
		LastWrongTime: now,
		IsResolved:    false,
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"wrong_count":     gorm.Expr("wrong_questions.wrong_count + 1"),
			"last_wrong_time": now,
			"is_resolved":     false,
			"resolved_at":     nil,
			"user_answer":     userAnswer,
			"updated_at":      now,
		}),
	}).Create(&record).Error
	if err != nil {
		return err
	}

	return s.appendReview(userID, questionID, false, userAnswer, answerSeconds)
}

// appendReview adds a review-history event to the record for the pair, if one
// exists. Review history is append-only.
func (s *WrongQuestionService) appendReview(userID, questionID uint, wasCorrect bool, userAnswer string, answerSeconds float64) error {
	var record models.WrongQuestion
	err := s.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	entry := models.ReviewEntry{
		WrongQuestionID: record.ID,
		WasCorrect:      wasCorrect,
		UserAnswer:      userAnswer,
		AnswerSeconds:   answerSeconds,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return err
	}

	now := time.Now()
	return s.DB.Model(&models.WrongQuestion{}).
		Where("id = ?", record.ID).
		Update("last_review_time", now).Error
}

// MarkResolved flags the record for (userID, questionID) as mastered.
func (s *WrongQuestionService) MarkResolved(userID, questionID uint) error {
	return s.setResolved(userID, questionID, true)
}

// MarkUnresolved puts the record back into the review rotation.
func (s *WrongQuestionService) MarkUnresolved(userID, questionID uint) error {
	return s.setResolved(userID, questionID, false)
}

func (s *WrongQuestionService) setResolved(userID, questionID uint, resolved bool) error {
	updates := map[string]interface{}{"is_resolved": resolved}
	if resolved {
		now := time.Now()
		updates["resolved_at"] = &now
	} else {
		updates["resolved_at"] = nil
	}

	result := s.DB.Model(&models.WrongQuestion{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ResolveIfPresent marks the pair resolved if a record exists and appends the
// correct answer to its review history. Missing record is not an error here:
// a correct answer to a never-missed question has no ledger entry to touch.
func (s *WrongQuestionService) ResolveIfPresent(userID, questionID uint, userAnswer string, answerSeconds float64) error {
	err := s.setResolved(userID, questionID, true)
	if err == ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return s.appendReview(userID, questionID, true, userAnswer, answerSeconds)
}

// Remove deletes one record by its record id, scoped to the user.
// Deletes are hard so the unique index slot frees up for a future miss.
func (s *WrongQuestionService) Remove(userID, recordID uint) error {
	if err := s.deleteReviews(s.DB.Where("user_id = ? AND id = ?", userID, recordID)); err != nil {
		return err
	}

	result := s.DB.Unscoped().
		Where("user_id = ? AND id = ?", userID, recordID).
		Delete(&models.WrongQuestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// BatchRemove deletes records by id list, scoped to the user. Ids that do not
// match anything are skipped; the returned count is what was actually deleted.
func (s *WrongQuestionService) BatchRemove(userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyIDList
	}

	if err := s.deleteReviews(s.DB.Where("user_id = ? AND id IN ?", userID, ids)); err != nil {
		return 0, err
	}

	result := s.DB.Unscoped().
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.WrongQuestion{})
	return result.RowsAffected, result.Error
}

// ClearAll wipes the user's ledger, optionally scoped to a subject.
func (s *WrongQuestionService) ClearAll(userID uint, subject string) (int64, error) {
	scope := s.DB.Where("user_id = ?", userID)
	if subject != "" {
		scope = scope.Where("subject = ?", subject)
	}

	if err := s.deleteReviews(scope); err != nil {
		return 0, err
	}

	query := s.DB.Unscoped().Where("user_id = ?", userID)
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	result := query.Delete(&models.WrongQuestion{})
	return result.RowsAffected, result.Error
}

// deleteReviews removes review entries belonging to the records matched by
// the given wrong_questions scope.
func (s *WrongQuestionService) deleteReviews(scope *gorm.DB) error {
	var ids []uint
	if err := scope.Model(&models.WrongQuestion{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return s.DB.Unscoped().Where("wrong_question_id IN ?", ids).Delete(&models.ReviewEntry{}).Error
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Subject    string
	ChapterNo  int
	IsResolved *bool
	Page       int
	Limit      int
}

// WrongQuestionItem is one listing row: the ledger record plus its question.
type WrongQuestionItem struct {
	models.WrongQuestion
	Question models.Question `json:"question"`
}

// List returns the user's ledger newest-miss first, with the underlying
// questions attached. Records whose question has been deleted from the
// catalog are purged on the way out rather than shown as husks.
func (s *WrongQuestionService) List(userID uint, filter ListFilter) ([]WrongQuestionItem, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	query := s.DB.Model(&models.WrongQuestion{}).Where("user_id = ?", userID)
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.ChapterNo > 0 {
		query = query.Where("chapter_no = ?", filter.ChapterNo)
	}
	if filter.IsResolved != nil {
		query = query.Where("is_resolved = ?", *filter.IsResolved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.WrongQuestion
	err := query.
		Order("last_wrong_time DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Preload("ReviewHistory").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]WrongQuestionItem, 0, len(records))
	for _, record := range records {
		var question models.Question
		if err := s.DB.First(&question, record.QuestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Orphan: the question left the catalog after the miss.
				s.DB.Unscoped().Where("wrong_question_id = ?", record.ID).Delete(&models.ReviewEntry{})
				s.DB.Unscoped().Delete(&models.WrongQuestion{}, record.ID)
				total--
				continue
			}
			return nil, 0, err
		}
		items = append(items, WrongQuestionItem{WrongQuestion: record, Question: question})
	}

	return items, total, nil
}

// Frequent returns the user's most-missed questions.
func (s *WrongQuestionService) Frequent(userID uint, limit int) ([]WrongQuestionItem, error) {
	return s.topBy(userID, "wrong_count DESC, last_wrong_time DESC", limit)
}

// Recent returns the user's latest misses.
func (s *WrongQuestionService) Recent(userID uint, limit int) ([]WrongQuestionItem, error) {
	return s.topBy(userID, "last_wrong_time DESC", limit)
}

func (s *WrongQuestionService) topBy(userID uint, order string, limit int) ([]WrongQuestionItem, error) {
	if limit < 1 {
		limit = 10
	}

	var records []models.WrongQuestion
	err := s.DB.Where("user_id = ?", userID).
		Order(order).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]WrongQuestionItem, 0, len(records))
	for _, record := range records {
		var question models.Question
		if err := s.DB.First(&question, record.QuestionID).Error; err != nil {
			continue
		}
		items = append(items, WrongQuestionItem{WrongQuestion: record, Question: question})
	}
	return items, nil
}

// SubjectChapterStat is one row of the per-subject/per-chapter breakdown.
type SubjectChapterStat struct {
	Subject         string `json:"subject"`
	ChapterNo       int    `json:"chapter_no"`
	TotalCount      int64  `json:"total_count"`
	ResolvedCount   int64  `json:"resolved_count"`
	UnresolvedCount int64  `json:"unresolved_count"`
}

// StatsBySubject aggregates the user's ledger by subject and chapter.
func (s *WrongQuestionService) StatsBySubject(userID uint) ([]SubjectChapterStat, error) {
	var stats []SubjectChapterStat
	err := s.DB.Model(&models.WrongQuestion{}).
		Select(`subject,
			chapter_no,
			COUNT(*) AS total_count,
			SUM(CASE WHEN is_resolved THEN 1 ELSE 0 END) AS resolved_count,
			SUM(CASE WHEN is_resolved THEN 0 ELSE 1 END) AS unresolved_count`).
		Where("user_id = ?", userID).
		Group("subject, chapter_no").
		Order("subject, chapter_no").
		Scan(&stats).Error
	return stats, err
}
