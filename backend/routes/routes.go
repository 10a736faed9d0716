package routes

import (
	"tcmprep/backend/config"
	"tcmprep/backend/controllers"
	"tcmprep/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	app.Get("/api/auth/me", authMiddleware, authController.Me)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Put("/api/user/password", authMiddleware, userController.UpdatePassword)

	// Practice routes
	practiceController := controllers.NewPracticeController(db, cfg)
	practice := app.Group("/api/practice", authMiddleware)
	practice.Get("/daily", practiceController.GetDailyQuestions)
	practice.Get("/exam", practiceController.GetExamQuestions)
	practice.Get("/enhance", practiceController.GetEnhanceQuestions)
	practice.Get("/recommended", practiceController.GetRecommendedQuestions)
	practice.Get("/topic/:subject", practiceController.GetTopicQuestions)
	practice.Post("/submit", practiceController.SubmitAnswer)
	practice.Get("/:subject/chapters", practiceController.GetChapters)
	practice.Get("/:subject/chapters/:chapterNo", practiceController.GetChapterQuestions)

	// Wrong question routes
	wrongQuestionController := controllers.NewWrongQuestionController(db, cfg)
	wrongQuestions := app.Group("/api/wrong-questions", authMiddleware)
	wrongQuestions.Get("/", wrongQuestionController.List)
	wrongQuestions.Get("/stats", wrongQuestionController.Stats)
	wrongQuestions.Get("/frequent", wrongQuestionController.Frequent)
	wrongQuestions.Get("/recent", wrongQuestionController.Recent)
	wrongQuestions.Patch("/:id/status", wrongQuestionController.UpdateStatus)
	wrongQuestions.Post("/batch-delete", wrongQuestionController.BatchDelete)
	wrongQuestions.Delete("/:id", wrongQuestionController.Delete)
	wrongQuestions.Delete("/", wrongQuestionController.Clear)

	// Stats routes
	statsController := controllers.NewStatsController(db, cfg)
	stats := app.Group("/api/stats", authMiddleware)
	stats.Get("/", statsController.GetUserStats)
	stats.Get("/daily", statsController.GetDailyStatus)
	stats.Get("/progress", statsController.GetLearningProgress)
	stats.Post("/reset", statsController.ResetStats)

	// Subject routes
	subjectController := controllers.NewSubjectController(db, cfg)
	subjects := app.Group("/api/subjects", authMiddleware)
	subjects.Get("/", subjectController.GetSubjects)
	subjects.Get("/:subject/count", subjectController.GetQuestionCount)
	subjects.Get("/:subject/detail", subjectController.GetSubjectDetail)
	subjects.Get("/:subject/chapters", subjectController.GetSubjectChapters)
}
