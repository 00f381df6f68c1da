package handler

import (
	"github.com/Neel-Ganatra/playpower/internal/dto"
	"github.com/Neel-Ganatra/playpower/internal/middleware"
	"github.com/Neel-Ganatra/playpower/internal/service"
	"github.com/Neel-Ganatra/playpower/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

func username(c *fiber.Ctx) string {
	if v, ok := c.Locals(middleware.UsernameKey).(string); ok {
		return v
	}
	return ""
}

// CreateQuiz godoc
// @Summary Create an AI-generated quiz
// @Description Generates a quiz at a difficulty adapted to the user's history
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuizRequest true "Quiz parameters"
// @Success 200 {object} dto.CreateQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /quiz/create [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.QuestionCount == 0 {
		req.QuestionCount = 5
	}

	if errs := h.validator.ValidateCreateQuiz(req.Grade, req.Subject, req.QuestionCount); len(errs) > 0 {
		return errs
	}

	response, err := h.service.CreateQuiz(c.Context(), username(c), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetHistory godoc
// @Summary List quiz history
// @Description Lists quizzes with the caller's submissions, optionally filtered
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param grade query string false "Grade filter"
// @Param subject query string false "Subject filter"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} dto.HistoryItem
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quiz/history [get]
func (h *QuizHandler) GetHistory(c *fiber.Ctx) error {
	grade := c.Query("grade")
	subject := c.Query("subject")

	from, to, errs := h.validator.ValidateHistory(grade, subject, c.Query("fromDate"), c.Query("toDate"))
	if len(errs) > 0 {
		return errs
	}

	items, err := h.service.GetHistory(c.Context(), username(c), dto.HistoryFilter{
		Grade:    grade,
		Subject:  subject,
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Scores the answers, persists the submission and returns the evaluation
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body dto.SubmitQuizRequest true "Answers"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil || quizID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quiz id")
	}

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateSubmit(req.Answers); len(errs) > 0 {
		return errs
	}

	response, err := h.service.SubmitQuiz(c.Context(), username(c), int64(quizID), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// RetryQuiz godoc
// @Summary Retry a quiz
// @Description Opens a fresh attempt at an existing quiz
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.RetryQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id}/retry [post]
func (h *QuizHandler) RetryQuiz(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil || quizID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quiz id")
	}

	response, err := h.service.RetryQuiz(c.Context(), username(c), int64(quizID))
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetHint godoc
// @Summary Get a hint for a question
// @Description Generates a hint, optionally tailored to the caller's current answer
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param questionId path int true "Question ID"
// @Param request body dto.HintRequest false "Current answer attempt"
// @Success 200 {object} dto.HintResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{quizId}/question/{questionId}/hint [post]
func (h *QuizHandler) GetHint(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("quizId")
	if err != nil || quizID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quiz id")
	}
	questionID, err := c.ParamsInt("questionId")
	if err != nil || questionID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid question id")
	}

	var req dto.HintRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	if errs := h.validator.ValidateHint(req.UserAnswer); len(errs) > 0 {
		return errs
	}

	response, err := h.service.GetHint(c.Context(), int64(quizID), int64(questionID), req.UserAnswer)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetAnalytics godoc
// @Summary Get performance analytics
// @Description Aggregates the caller's submissions into performance analytics
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param subject query string false "Subject filter"
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/analytics [get]
func (h *QuizHandler) GetAnalytics(c *fiber.Ctx) error {
	subject := c.Query("subject")
	if errs := h.validator.ValidateAnalytics(subject); len(errs) > 0 {
		return errs
	}

	response, err := h.service.GetAnalytics(c.Context(), username(c), subject)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetLeaderboard godoc
// @Summary Get the leaderboard
// @Description Top scores for a grade/subject pair, cached for a few minutes
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param grade query string true "Grade"
// @Param subject query string true "Subject"
// @Param limit query int false "Maximum entries (default 10)"
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quiz/leaderboard [get]
func (h *QuizHandler) GetLeaderboard(c *fiber.Ctx) error {
	grade := c.Query("grade")
	subject := c.Query("subject")
	limit := c.QueryInt("limit", 10)

	if errs := h.validator.ValidateLeaderboard(grade, subject, limit); len(errs) > 0 {
		return errs
	}

	response, err := h.service.GetLeaderboard(c.Context(), grade, subject, limit)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// SendResultsEmail godoc
// @Summary Email quiz results
// @Description Sends a submission's results to an email address; returns a warning payload when mail is not configured
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendEmailRequest true "Submission and recipient"
// @Success 200 {object} dto.SendEmailResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/send-email [post]
func (h *QuizHandler) SendResultsEmail(c *fiber.Ctx) error {
	var req dto.SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateSendEmail(req.SubmissionID, req.Email); len(errs) > 0 {
		return errs
	}

	response, err := h.service.SendResultsEmail(c.Context(), username(c), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetSubmission godoc
// @Summary Get one of the caller's submissions
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/submission/{id} [get]
func (h *QuizHandler) GetSubmission(c *fiber.Ctx) error {
	submissionID, err := c.ParamsInt("id")
	if err != nil || submissionID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid submission id")
	}

	response, err := h.service.GetSubmission(c.Context(), username(c), int64(submissionID))
	if err != nil {
		return err
	}
	return c.JSON(response)
}
