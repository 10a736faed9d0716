package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"tcmprep/backend/config"
	"tcmprep/backend/models"
	"tcmprep/backend/routes"
	"tcmprep/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)

	return &testEnv{app: app, db: db, cfg: cfg}
}

func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})

	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.True(t, result.Success)
	require.NotEmpty(t, result.Data.Token)
	return result.Data.Token
}

func (e *testEnv) seedQuestion(t *testing.T, questionNo int, subject string, chapterNo, difficulty int) *models.Question {
	t.Helper()

	question := models.Question{
		QuestionNo:  questionNo,
		Subject:     subject,
		ChapterNo:   chapterNo,
		Description: fmt.Sprintf("question %d", questionNo),
		OptionA:     "a",
		OptionB:     "b",
		OptionC:     "c",
		OptionD:     "d",
		Answer:      "A",
		Explanation: "because A",
		Difficulty:  difficulty,
		Type:        models.QuestionTypeSingleChoice,
	}
	require.NoError(t, e.db.Create(&question).Error)
	return &question
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) (map[string]interface{}, int) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	result, status := env.doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, result["success"])

	_, status = env.doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "nope",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	result, status := env.doJSON(t, "GET", "/api/stats", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, result["success"])
}

func TestSubmitAnswerFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "bob")
	question := env.seedQuestion(t, 1, "中药学", 1, 3)

	// A miss lands in the ledger and in the stats.
	result, status := env.doJSON(t, "POST", "/api/practice/submit", token, map[string]interface{}{
		"question_id": question.ID,
		"answer":      "B",
	})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_correct"])
	assert.Equal(t, "A", data["correct_answer"])
	assert.Equal(t, "because A", data["explanation"])

	result, status = env.doJSON(t, "GET", "/api/wrong-questions", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	records := result["data"].(map[string]interface{})["records"].([]interface{})
	require.Len(t, records, 1)

	result, status = env.doJSON(t, "GET", "/api/stats", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := result["data"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["wrong_count"])
	assert.EqualValues(t, 0, stats["correct_count"])

	// Correct re-answer resolves the record.
	result, status = env.doJSON(t, "POST", "/api/practice/submit", token, map[string]interface{}{
		"question_id": question.ID,
		"answer":      "A",
	})
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_correct"])

	result, _ = env.doJSON(t, "GET", "/api/wrong-questions?isResolved=true", token, nil)
	records = result["data"].(map[string]interface{})["records"].([]interface{})
	assert.Len(t, records, 1)
}

func TestSubmitAnswerUnknownQuestionIs404(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "carol")

	result, status := env.doJSON(t, "POST", "/api/practice/submit", token, map[string]interface{}{
		"question_id": 9999,
		"answer":      "A",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, result["success"])
}

func TestWrongQuestionDeleteAndClear(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "dave")
	q1 := env.seedQuestion(t, 1, "中药学", 1, 3)
	q2 := env.seedQuestion(t, 2, "方剂学", 1, 3)

	for _, q := range []*models.Question{q1, q2} {
		_, status := env.doJSON(t, "POST", "/api/practice/submit", token, map[string]interface{}{
			"question_id": q.ID,
			"answer":      "D",
		})
		require.Equal(t, fiber.StatusOK, status)
	}

	result, _ := env.doJSON(t, "GET", "/api/wrong-questions", token, nil)
	records := result["data"].(map[string]interface{})["records"].([]interface{})
	require.Len(t, records, 2)
	recordID := records[0].(map[string]interface{})["ID"]

	_, status := env.doJSON(t, "DELETE", fmt.Sprintf("/api/wrong-questions/%v", recordID), token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	_, status = env.doJSON(t, "DELETE", fmt.Sprintf("/api/wrong-questions/%v", recordID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	result, status = env.doJSON(t, "DELETE", "/api/wrong-questions", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, result["success"])

	result, _ = env.doJSON(t, "GET", "/api/wrong-questions", token, nil)
	records = result["data"].(map[string]interface{})["records"].([]interface{})
	assert.Empty(t, records)
}

func TestBatchDeleteValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "erin")

	result, status := env.doJSON(t, "POST", "/api/wrong-questions/batch-delete", token, map[string]interface{}{
		"ids": []uint{},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, result["success"])
}

func TestResetStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "frank")
	question := env.seedQuestion(t, 1, "中药学", 1, 3)

	_, status := env.doJSON(t, "POST", "/api/practice/submit", token, map[string]interface{}{
		"question_id": question.ID,
		"answer":      "A",
	})
	require.Equal(t, fiber.StatusOK, status)

	_, status = env.doJSON(t, "POST", "/api/stats/reset", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	result, _ := env.doJSON(t, "GET", "/api/stats", token, nil)
	stats := result["data"].(map[string]interface{})
	assert.EqualValues(t, 0, stats["streak"])
}

func TestTopicQuestionsValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "grace")
	env.seedQuestion(t, 1, "针灸学", 1, 3)

	_, status := env.doJSON(t, "GET", "/api/practice/topic/%E9%92%88%E7%81%B8%E5%AD%A6", token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	_, status = env.doJSON(t, "GET", "/api/practice/topic/x?difficulty=abc", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSubjectsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "henry")
	env.seedQuestion(t, 1, "中药学", 1, 3)
	env.seedQuestion(t, 2, "中药学", 2, 4)
	env.seedQuestion(t, 3, "方剂学", 1, 3)

	result, status := env.doJSON(t, "GET", "/api/subjects", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	subjects := result["data"].([]interface{})
	assert.Len(t, subjects, 2)
}
