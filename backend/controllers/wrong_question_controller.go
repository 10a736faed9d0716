package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"tcmprep/backend/config"
	"tcmprep/backend/services"
	"tcmprep/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WrongQuestionController struct {
	DB             *gorm.DB
	Cfg            *config.Config
	WrongQuestions *services.WrongQuestionService
}

func NewWrongQuestionController(db *gorm.DB, cfg *config.Config) *WrongQuestionController {
	return &WrongQuestionController{DB: db, Cfg: cfg, WrongQuestions: services.NewWrongQuestionService(db)}
}

// List godoc
// @Summary List wrong questions
// @Description Returns the user's mistake ledger, newest miss first
// @Tags wrong-questions
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /wrong-questions [get]
func (wc *WrongQuestionController) List(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	filter := services.ListFilter{
		Subject: c.Query("subject"),
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", 20),
	}

	if raw := c.Query("chapterNo"); raw != "" {
		chapterNo, err := strconv.Atoi(raw)
		if err != nil || chapterNo < 1 {
			return utils.BadRequest(c, "Invalid chapter number")
		}
		filter.ChapterNo = chapterNo
	}

	if raw := c.Query("isResolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.BadRequest(c, "isResolved must be true or false")
		}
		filter.IsResolved = &resolved
	}

	records, total, err := wc.WrongQuestions.List(userID, filter)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch wrong questions")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"records": records,
		"pagination": utils.Pagination{
			Total: total,
			Page:  filter.Page,
			Limit: filter.Limit,
			Pages: pages(total, filter.Limit),
		},
	})
}

// Stats returns the per-subject/per-chapter breakdown of the ledger.
func (wc *WrongQuestionController) Stats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	stats, err := wc.WrongQuestions.StatsBySubject(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch wrong question stats")
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

// Frequent returns the user's most-missed questions.
func (wc *WrongQuestionController) Frequent(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	records, err := wc.WrongQuestions.Frequent(userID, c.QueryInt("limit", 10))
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch frequent wrong questions")
	}
	return utils.Success(c, fiber.StatusOK, records)
}

// Recent returns the user's latest misses.
func (wc *WrongQuestionController) Recent(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	records, err := wc.WrongQuestions.Recent(userID, c.QueryInt("limit", 10))
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch recent wrong questions")
	}
	return utils.Success(c, fiber.StatusOK, records)
}

// UpdateStatus flips a record between resolved and unresolved.
func (wc *WrongQuestionController) UpdateStatus(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil || questionID < 1 {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var input struct {
		IsResolved *bool `json:"is_resolved"`
	}
	if err := c.BodyParser(&input); err != nil || input.IsResolved == nil {
		return utils.BadRequest(c, "is_resolved is required")
	}

	if *input.IsResolved {
		err = wc.WrongQuestions.MarkResolved(userID, uint(questionID))
	} else {
		err = wc.WrongQuestions.MarkUnresolved(userID, uint(questionID))
	}
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return utils.NotFound(c, "Wrong question record not found")
		}
		return utils.InternalServerError(c, "Could not update status")
	}

	return utils.Message(c, "Status updated")
}

// Delete removes one ledger record.
func (wc *WrongQuestionController) Delete(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	recordID, err := strconv.Atoi(c.Params("id"))
	if err != nil || recordID < 1 {
		return utils.BadRequest(c, "Invalid record ID")
	}

	if err := wc.WrongQuestions.Remove(userID, uint(recordID)); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return utils.NotFound(c, "Wrong question record not found")
		}
		return utils.InternalServerError(c, "Could not delete record")
	}

	return utils.Message(c, "Record deleted")
}

// BatchDelete removes a set of ledger records by id.
func (wc *WrongQuestionController) BatchDelete(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		IDs []uint `json:"ids"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	deleted, err := wc.WrongQuestions.BatchRemove(userID, input.IDs)
	if err != nil {
		if errors.Is(err, services.ErrEmptyIDList) {
			return utils.BadRequest(c, "Provide a non-empty list of record ids")
		}
		return utils.InternalServerError(c, "Could not delete records")
	}

	return utils.Message(c, fmt.Sprintf("Deleted %d records", deleted))
}

// Clear wipes the ledger, optionally for one subject.
func (wc *WrongQuestionController) Clear(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	subject := c.Query("subject")
	deleted, err := wc.WrongQuestions.ClearAll(userID, subject)
	if err != nil {
		return utils.InternalServerError(c, "Could not clear records")
	}

	if subject != "" {
		return utils.Message(c, fmt.Sprintf("Cleared %d records for %s", deleted, subject))
	}
	return utils.Message(c, fmt.Sprintf("Cleared %d records", deleted))
}
