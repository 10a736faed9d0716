package controllers

import (
	"errors"

	"tcmprep/backend/config"
	"tcmprep/backend/services"
	"tcmprep/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Stats *services.StatsService
}

func NewStatsController(db *gorm.DB, cfg *config.Config) *StatsController {
	return &StatsController{DB: db, Cfg: cfg, Stats: services.NewStatsService(db)}
}

// GetUserStats godoc
// @Summary User statistics
// @Description Returns the dashboard numbers for the authenticated user
// @Tags stats
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (sc *StatsController) GetUserStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	stats, err := sc.Stats.GetUserStats(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not fetch stats")
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

// GetDailyStatus reports whether the user has answered anything today.
func (sc *StatsController) GetDailyStatus(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	status, err := sc.Stats.GetDailyStatus(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not fetch daily status")
	}
	return utils.Success(c, fiber.StatusOK, status)
}

// GetLearningProgress returns completion and accuracy numbers.
func (sc *StatsController) GetLearningProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	progress, err := sc.Stats.GetLearningProgress(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not fetch learning progress")
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// ResetStats zeroes the user's counters and streak.
func (sc *StatsController) ResetStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	if err := sc.Stats.Reset(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not reset stats")
	}
	return utils.Message(c, "Stats reset")
}
