package controllers

import (
	"errors"
	"strconv"

	"tcmprep/backend/config"
	"tcmprep/backend/services"
	"tcmprep/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PracticeController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Practice *services.PracticeService
}

func NewPracticeController(db *gorm.DB, cfg *config.Config) *PracticeController {
	return &PracticeController{DB: db, Cfg: cfg, Practice: services.NewPracticeService(db)}
}

// GetDailyQuestions godoc
// @Summary Daily practice set
// @Description Returns 30 random questions across all subjects
// @Tags practice
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /practice/daily [get]
func (pc *PracticeController) GetDailyQuestions(c *fiber.Ctx) error {
	questions, err := pc.Practice.GetDailyQuestions()
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch daily questions")
	}
	return utils.Success(c, fiber.StatusOK, questions)
}

// GetExamQuestions returns 100 random questions for a mock exam.
func (pc *PracticeController) GetExamQuestions(c *fiber.Ctx) error {
	questions, err := pc.Practice.GetExamQuestions()
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch exam questions")
	}
	return utils.Success(c, fiber.StatusOK, questions)
}

// GetTopicQuestions returns a random sample for one subject.
func (pc *PracticeController) GetTopicQuestions(c *fiber.Ctx) error {
	subject, err := decodeParam(c, "subject")
	if err != nil {
		return utils.BadRequest(c, "Invalid subject")
	}

	count := c.QueryInt("count", 0)

	difficulty := 0
	if raw := c.Query("difficulty"); raw != "" {
		difficulty, err = strconv.Atoi(raw)
		if err != nil || difficulty < 1 || difficulty > 5 {
			return utils.BadRequest(c, "Difficulty must be a number between 1 and 5")
		}
	}

	questions, err := pc.Practice.GetTopicQuestions(subject, count, difficulty)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch topic questions")
	}
	return utils.Success(c, fiber.StatusOK, questions)
}

// GetEnhanceQuestions returns the user's most-missed unresolved questions.
func (pc *PracticeController) GetEnhanceQuestions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	questions, err := pc.Practice.GetEnhanceQuestions(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch enhancement questions")
	}
	return utils.Success(c, fiber.StatusOK, questions)
}

// GetRecommendedQuestions returns the chapter-weighted remediation set.
func (pc *PracticeController) GetRecommendedQuestions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	questions, err := pc.Practice.GetRecommendedQuestions(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch recommended questions")
	}
	return utils.Success(c, fiber.StatusOK, questions)
}

// GetChapters lists a subject's chapters with question counts.
func (pc *PracticeController) GetChapters(c *fiber.Ctx) error {
	subject, err := decodeParam(c, "subject")
	if err != nil {
		return utils.BadRequest(c, "Invalid subject")
	}

	chapters, err := pc.Practice.GetChapters(subject)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch chapters")
	}
	return utils.Success(c, fiber.StatusOK, chapters)
}

// GetChapterQuestions pages through one chapter's questions.
func (pc *PracticeController) GetChapterQuestions(c *fiber.Ctx) error {
	subject, err := decodeParam(c, "subject")
	if err != nil {
		return utils.BadRequest(c, "Invalid subject")
	}

	chapterNo, err := strconv.Atoi(c.Params("chapterNo"))
	if err != nil || chapterNo < 1 {
		return utils.BadRequest(c, "Invalid chapter number")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	questions, total, err := pc.Practice.GetChapterQuestions(subject, chapterNo, page, limit)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch chapter questions")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"questions": questions,
		"pagination": utils.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages(total, limit),
		},
	})
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Grades an answer, updates the mistake ledger and user stats
// @Tags practice
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /practice/submit [post]
func (pc *PracticeController) SubmitAnswer(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		QuestionID    uint    `json:"question_id"`
		Answer        string  `json:"answer"`
		AnswerSeconds float64 `json:"answer_seconds"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.QuestionID == 0 || input.Answer == "" {
		return utils.BadRequest(c, "question_id and answer are required")
	}

	result, err := pc.Practice.SubmitAnswer(userID, input.QuestionID, input.Answer, input.AnswerSeconds)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuestionNotFound):
			return utils.NotFound(c, "Question not found")
		case errors.Is(err, services.ErrUnsupportedQuestionType):
			return utils.BadRequest(c, "This question type cannot be graded yet")
		default:
			return utils.InternalServerError(c, "Could not submit answer")
		}
	}

	return utils.Success(c, fiber.StatusOK, result)
}

func pages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	p := int(total) / limit
	if int(total)%limit != 0 {
		p++
	}
	return p
}
