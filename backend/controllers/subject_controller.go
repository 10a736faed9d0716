package controllers

import (
	"tcmprep/backend/config"
	"tcmprep/backend/models"
	"tcmprep/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SubjectController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSubjectController(db *gorm.DB, cfg *config.Config) *SubjectController {
	return &SubjectController{DB: db, Cfg: cfg}
}

type subjectSummary struct {
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

// GetSubjects lists all subjects in the catalog with their question counts.
func (sc *SubjectController) GetSubjects(c *fiber.Ctx) error {
	var subjects []subjectSummary
	err := sc.DB.Model(&models.Question{}).
		Select("subject AS name, COUNT(*) AS question_count").
		Group("subject").
		Order("subject").
		Scan(&subjects).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch subjects")
	}
	return utils.Success(c, fiber.StatusOK, subjects)
}

// GetQuestionCount returns how many questions one subject has.
func (sc *SubjectController) GetQuestionCount(c *fiber.Ctx) error {
	subject, err := decodeParam(c, "subject")
	if err != nil {
		return utils.BadRequest(c, "Invalid subject")
	}

	var count int64
	if err := sc.DB.Model(&models.Question{}).Where("subject = ?", subject).Count(&count).Error; err != nil {
		return utils.InternalServerError(c, "Could not count questions")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"count": count})
}

type difficultyCount struct {
	Difficulty int   `json:"difficulty"`
	Count      int64 `json:"count"`
}

// GetSubjectDetail returns a subject's totals plus a per-difficulty breakdown.
func (sc *SubjectController) GetSubjectDetail(c *fiber.Ctx) error {
	subject, err := decodeParam(c, "subject")
	if err != nil {
		return utils.BadRequest(c, "Invalid subject")
	}

	var total int64
	if err := sc.DB.Model(&models.Question{}).Where("subject = ?", subject).Count(&total).Error; err != nil {
		return utils.InternalServerError(c, "Could not count questions")
	}

	var byDifficulty []difficultyCount
	err = sc.DB.Model(&models.Question{}).
		Select("difficulty, COUNT(*) AS count").
		Where("subject = ?", subject).
		Group("difficulty").
		Order("difficulty").
		Scan(&byDifficulty).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch difficulty breakdown")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"subject":         subject,
		"total_questions": total,
		"by_difficulty":   byDifficulty,
	})
}

type chapterCount struct {
	ChapterNo     int   `json:"chapter_no"`
	QuestionCount int64 `json:"question_count"`
}

// GetSubjectChapters lists a subject's chapters in order with counts.
func (sc *SubjectController) GetSubjectChapters(c *fiber.Ctx) error {
	subject, err := decodeParam(c, "subject")
	if err != nil {
		return utils.BadRequest(c, "Invalid subject")
	}

	var chapters []chapterCount
	err = sc.DB.Model(&models.Question{}).
		Select("chapter_no, COUNT(*) AS question_count").
		Where("subject = ?", subject).
		Group("chapter_no").
		Order("chapter_no").
		Scan(&chapters).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch chapters")
	}
	return utils.Success(c, fiber.StatusOK, chapters)
}
