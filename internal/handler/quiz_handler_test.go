package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/dto"
	"github.com/Neel-Ganatra/playpower/internal/handler"
	"github.com/Neel-Ganatra/playpower/internal/middleware"
	"github.com/Neel-Ganatra/playpower/internal/service"
	"github.com/Neel-Ganatra/playpower/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	CreateQuizFunc       func(ctx context.Context, username string, req dto.CreateQuizRequest) (*dto.CreateQuizResponse, error)
	GetHistoryFunc       func(ctx context.Context, username string, filter dto.HistoryFilter) ([]dto.HistoryItem, error)
	SubmitQuizFunc       func(ctx context.Context, username string, quizID int64, answers []int) (*dto.SubmitQuizResponse, error)
	RetryQuizFunc        func(ctx context.Context, username string, quizID int64) (*dto.RetryQuizResponse, error)
	GetHintFunc          func(ctx context.Context, quizID, questionID int64, userAnswer *int) (*dto.HintResponse, error)
	GetAnalyticsFunc     func(ctx context.Context, username, subject string) (*dto.AnalyticsResponse, error)
	GetLeaderboardFunc   func(ctx context.Context, grade, subject string, limit int) (*dto.LeaderboardResponse, error)
	SendResultsEmailFunc func(ctx context.Context, username string, req dto.SendEmailRequest) (*dto.SendEmailResponse, error)
	GetSubmissionFunc    func(ctx context.Context, username string, submissionID int64) (*dto.SubmissionResponse, error)
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, username string, req dto.CreateQuizRequest) (*dto.CreateQuizResponse, error) {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, username, req)
	}
	panic("MockQuizService.CreateQuizFunc not implemented")
}
func (m *MockQuizService) GetHistory(ctx context.Context, username string, filter dto.HistoryFilter) ([]dto.HistoryItem, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, username, filter)
	}
	panic("MockQuizService.GetHistoryFunc not implemented")
}
func (m *MockQuizService) SubmitQuiz(ctx context.Context, username string, quizID int64, answers []int) (*dto.SubmitQuizResponse, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, username, quizID, answers)
	}
	panic("MockQuizService.SubmitQuizFunc not implemented")
}
func (m *MockQuizService) RetryQuiz(ctx context.Context, username string, quizID int64) (*dto.RetryQuizResponse, error) {
	if m.RetryQuizFunc != nil {
		return m.RetryQuizFunc(ctx, username, quizID)
	}
	panic("MockQuizService.RetryQuizFunc not implemented")
}
func (m *MockQuizService) GetHint(ctx context.Context, quizID, questionID int64, userAnswer *int) (*dto.HintResponse, error) {
	if m.GetHintFunc != nil {
		return m.GetHintFunc(ctx, quizID, questionID, userAnswer)
	}
	panic("MockQuizService.GetHintFunc not implemented")
}
func (m *MockQuizService) GetAnalytics(ctx context.Context, username, subject string) (*dto.AnalyticsResponse, error) {
	if m.GetAnalyticsFunc != nil {
		return m.GetAnalyticsFunc(ctx, username, subject)
	}
	panic("MockQuizService.GetAnalyticsFunc not implemented")
}
func (m *MockQuizService) GetLeaderboard(ctx context.Context, grade, subject string, limit int) (*dto.LeaderboardResponse, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(ctx, grade, subject, limit)
	}
	panic("MockQuizService.GetLeaderboardFunc not implemented")
}
func (m *MockQuizService) SendResultsEmail(ctx context.Context, username string, req dto.SendEmailRequest) (*dto.SendEmailResponse, error) {
	if m.SendResultsEmailFunc != nil {
		return m.SendResultsEmailFunc(ctx, username, req)
	}
	panic("MockQuizService.SendResultsEmailFunc not implemented")
}
func (m *MockQuizService) GetSubmission(ctx context.Context, username string, submissionID int64) (*dto.SubmissionResponse, error) {
	if m.GetSubmissionFunc != nil {
		return m.GetSubmissionFunc(ctx, username, submissionID)
	}
	panic("MockQuizService.GetSubmissionFunc not implemented")
}

var _ service.QuizService = (*MockQuizService)(nil)

func newTestApp(svc service.QuizService) *fiber.App {
	quizHandler := handler.NewQuizHandler(svc, validation.NewValidator())

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	authed := func(h fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Locals(middleware.UsernameKey, "alice")
			return h(c)
		}
	}
	app.Post("/quiz/create", authed(quizHandler.CreateQuiz))
	app.Get("/quiz/history", authed(quizHandler.GetHistory))
	app.Get("/quiz/analytics", authed(quizHandler.GetAnalytics))
	app.Get("/quiz/leaderboard", authed(quizHandler.GetLeaderboard))
	app.Post("/quiz/send-email", authed(quizHandler.SendResultsEmail))
	app.Get("/quiz/submission/:id", authed(quizHandler.GetSubmission))
	app.Post("/quiz/:id/submit", authed(quizHandler.SubmitQuiz))
	app.Post("/quiz/:id/retry", authed(quizHandler.RetryQuiz))
	app.Post("/quiz/:quizId/question/:questionId/hint", authed(quizHandler.GetHint))
	return app
}

func postJSON(app *fiber.App, path string, body interface{}) ([]byte, int, error) {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

func TestCreateQuizHandler(t *testing.T) {
	svc := &MockQuizService{}
	svc.CreateQuizFunc = func(ctx context.Context, username string, req dto.CreateQuizRequest) (*dto.CreateQuizResponse, error) {
		assert.Equal(t, "alice", username)
		assert.Equal(t, 5, req.QuestionCount) // default applied
		return &dto.CreateQuizResponse{
			ID: 42, Grade: req.Grade, Subject: req.Subject,
			Difficulty:   "medium",
			AdaptiveInfo: dto.AdaptiveInfo{RecommendedDifficulty: "medium"},
		}, nil
	}
	app := newTestApp(svc)

	body, status, err := postJSON(app, "/quiz/create", dto.CreateQuizRequest{Grade: "5", Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, status)

	var resp dto.CreateQuizResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "medium", resp.Difficulty)
}

func TestCreateQuizHandler_ValidationFailure(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	body, status, err := postJSON(app, "/quiz/create", dto.CreateQuizRequest{Grade: "", Subject: "m", QuestionCount: 50})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var resp middleware.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, string(domain.CodeValidation), resp.Code)
	assert.NotEmpty(t, resp.Errors)
}

func TestSubmitQuizHandler(t *testing.T) {
	svc := &MockQuizService{}
	svc.SubmitQuizFunc = func(ctx context.Context, username string, quizID int64, answers []int) (*dto.SubmitQuizResponse, error) {
		assert.Equal(t, int64(42), quizID)
		assert.Equal(t, []int{0, 1, 3}, answers)
		return &dto.SubmitQuizResponse{
			SubmissionItem: dto.SubmissionItem{ID: 100, Score: 67},
			ScoreAnalysis:  domain.ScoreResult{Score: 67, Correct: 2, Total: 3},
		}, nil
	}
	app := newTestApp(svc)

	body, status, err := postJSON(app, "/quiz/42/submit", dto.SubmitQuizRequest{Answers: []int{0, 1, 3}})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, status)

	var resp dto.SubmitQuizResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 67, resp.Score)
	assert.Equal(t, 2, resp.ScoreAnalysis.Correct)
}

func TestSubmitQuizHandler_NotFoundMapsTo404(t *testing.T) {
	svc := &MockQuizService{}
	svc.SubmitQuizFunc = func(ctx context.Context, username string, quizID int64, answers []int) (*dto.SubmitQuizResponse, error) {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	app := newTestApp(svc)

	body, status, err := postJSON(app, "/quiz/999/submit", dto.SubmitQuizRequest{Answers: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, status)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, string(domain.CodeNotFound), resp.Code)
}

func TestSubmitQuizHandler_OutOfRangeAnswerRejected(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	_, status, err := postJSON(app, "/quiz/42/submit", dto.SubmitQuizRequest{Answers: []int{0, 4}})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRetryQuizHandler(t *testing.T) {
	svc := &MockQuizService{}
	svc.RetryQuizFunc = func(ctx context.Context, username string, quizID int64) (*dto.RetryQuizResponse, error) {
		return &dto.RetryQuizResponse{Message: "Quiz retry initiated", SubmissionID: 200}, nil
	}
	app := newTestApp(svc)

	body, status, err := postJSON(app, "/quiz/42/retry", nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, status)

	var resp dto.RetryQuizResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Quiz retry initiated", resp.Message)
	assert.Equal(t, int64(200), resp.SubmissionID)
}

func TestGetHintHandler(t *testing.T) {
	svc := &MockQuizService{}
	svc.GetHintFunc = func(ctx context.Context, quizID, questionID int64, userAnswer *int) (*dto.HintResponse, error) {
		assert.Equal(t, int64(42), quizID)
		assert.Equal(t, int64(2), questionID)
		if assert.NotNil(t, userAnswer) {
			assert.Equal(t, 1, *userAnswer)
		}
		return &dto.HintResponse{QuestionID: questionID, Hint: "look closer", Confidence: 0.8, IsSpecific: true, RemainingHints: 2}, nil
	}
	app := newTestApp(svc)

	answer := 1
	body, status, err := postJSON(app, "/quiz/42/question/2/hint", dto.HintRequest{UserAnswer: &answer})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, status)

	var resp dto.HintResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "look closer", resp.Hint)
	assert.Equal(t, 2, resp.RemainingHints)
}

func TestGetHistoryHandler_InvalidDateRejected(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	req := httptest.NewRequest("GET", "/quiz/history?fromDate=not-a-date", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetHistoryHandler_PassesFilters(t *testing.T) {
	svc := &MockQuizService{}
	svc.GetHistoryFunc = func(ctx context.Context, username string, filter dto.HistoryFilter) ([]dto.HistoryItem, error) {
		assert.Equal(t, "5", filter.Grade)
		assert.Equal(t, "math", filter.Subject)
		if assert.NotNil(t, filter.FromDate) {
			assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *filter.FromDate)
		}
		return []dto.HistoryItem{}, nil
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/quiz/history?grade=5&subject=math&fromDate=2026-01-01", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetLeaderboardHandler(t *testing.T) {
	svc := &MockQuizService{}
	svc.GetLeaderboardFunc = func(ctx context.Context, grade, subject string, limit int) (*dto.LeaderboardResponse, error) {
		assert.Equal(t, "5", grade)
		assert.Equal(t, "math", subject)
		assert.Equal(t, 10, limit)
		return &dto.LeaderboardResponse{Grade: grade, Subject: subject, TotalParticipants: 0, Leaderboard: []domain.LeaderboardEntry{}}, nil
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/quiz/leaderboard?grade=5&subject=math", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetLeaderboardHandler_MissingParamsRejected(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	req := httptest.NewRequest("GET", "/quiz/leaderboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSendEmailHandler_InvalidEmailRejected(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	_, status, err := postJSON(app, "/quiz/send-email", dto.SendEmailRequest{SubmissionID: 1, Email: "not-an-email"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetSubmissionHandler_ForbiddenMapsTo403(t *testing.T) {
	svc := &MockQuizService{}
	svc.GetSubmissionFunc = func(ctx context.Context, username string, submissionID int64) (*dto.SubmissionResponse, error) {
		return nil, domain.NewForbiddenError("Access denied")
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/quiz/submission/100", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
