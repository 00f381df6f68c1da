package dto

import (
	"time"

	"github.com/Neel-Ganatra/playpower/internal/domain"
)

// CreateQuizRequest represents the quiz creation request body.
// @Description Request body for creating a quiz
type CreateQuizRequest struct {
	Grade         string `json:"grade"`
	Subject       string `json:"subject"`
	QuestionCount int    `json:"questionCount"`
}

// AdaptiveInfo reports what the difficulty decision was based on.
type AdaptiveInfo struct {
	BasedOnSubmissions    int    `json:"basedOnSubmissions"`
	RecommendedDifficulty string `json:"recommendedDifficulty"`
}

// CreateQuizResponse is the created quiz plus its adaptive metadata.
type CreateQuizResponse struct {
	ID           int64             `json:"id"`
	Grade        string            `json:"grade"`
	Subject      string            `json:"subject"`
	Questions    []domain.Question `json:"questions"`
	CreatedAt    time.Time         `json:"createdAt"`
	Difficulty   string            `json:"difficulty"`
	AdaptiveInfo AdaptiveInfo      `json:"adaptiveInfo"`
}

// HistoryFilter carries the optional quiz history filters.
type HistoryFilter struct {
	Grade    string
	Subject  string
	FromDate *time.Time
	ToDate   *time.Time
}

// SubmissionItem is a submission as rendered in API responses.
type SubmissionItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	QuizID    int64     `json:"quizId"`
	Answers   []int     `json:"answers"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryItem is a quiz annotated with the acting user's own submissions.
type HistoryItem struct {
	ID          int64             `json:"id"`
	Grade       string            `json:"grade"`
	Subject     string            `json:"subject"`
	Questions   []domain.Question `json:"questions"`
	CreatedAt   time.Time         `json:"createdAt"`
	Submissions []SubmissionItem  `json:"submissions"`
}

// SubmitQuizRequest represents the submit request body.
// @Description Request body for submitting quiz answers
type SubmitQuizRequest struct {
	Answers []int `json:"answers"`
}

// AIInsights is the strengths/next-steps summary attached to a submission.
type AIInsights struct {
	Strengths string   `json:"strengths"`
	NextSteps []string `json:"nextSteps"`
}

// SubmitQuizResponse is the persisted submission plus its evaluation.
type SubmitQuizResponse struct {
	SubmissionItem
	ScoreAnalysis          domain.ScoreResult   `json:"scoreAnalysis"`
	ImprovementSuggestions []string             `json:"improvementSuggestions"`
	LearningPattern        domain.TrendAnalysis `json:"learningPattern"`
	AIInsights             AIInsights           `json:"aiInsights"`
}

// RetryQuizResponse returns the fresh pending submission and the question
// set for the re-attempt.
type RetryQuizResponse struct {
	Message      string       `json:"message"`
	SubmissionID int64        `json:"submissionId"`
	Quiz         *domain.Quiz `json:"quiz"`
}

// HintRequest optionally carries the caller's current answer attempt so the
// hint can be tailored to it.
type HintRequest struct {
	UserAnswer *int `json:"userAnswer"`
}

// HintResponse is a generated hint for one question.
type HintResponse struct {
	QuestionID     int64   `json:"questionId"`
	Hint           string  `json:"hint"`
	Confidence     float64 `json:"confidence"`
	IsSpecific     bool    `json:"isSpecific"`
	RemainingHints int     `json:"remainingHints"`
}

// SubjectPerformance is the per-subject analytics breakdown.
type SubjectPerformance struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// ImprovementArea flags a subject whose mean score is below threshold.
type ImprovementArea struct {
	Subject      string  `json:"subject"`
	AverageScore float64 `json:"averageScore"`
	QuizzesTaken int     `json:"quizzesTaken"`
}

// Analytics aggregates a user's submissions.
type Analytics struct {
	TotalQuizzes       int                           `json:"totalQuizzes"`
	AverageScore       float64                       `json:"averageScore"`
	BestScore          int                           `json:"bestScore"`
	RecentTrend        domain.TrendAnalysis          `json:"recentTrend"`
	SubjectPerformance map[string]SubjectPerformance `json:"subjectPerformance"`
	ImprovementAreas   []ImprovementArea             `json:"improvementAreas"`
}

// AnalyticsResponse wraps Analytics; Analytics is null with an explanatory
// message when the user has no submissions yet.
type AnalyticsResponse struct {
	Message   string     `json:"message,omitempty"`
	Analytics *Analytics `json:"analytics"`
}

// LeaderboardResponse is the ranked board for one grade/subject pair.
type LeaderboardResponse struct {
	Grade             string                    `json:"grade"`
	Subject           string                    `json:"subject"`
	Leaderboard       []domain.LeaderboardEntry `json:"leaderboard"`
	TotalParticipants int                       `json:"totalParticipants"`
	LastUpdated       time.Time                 `json:"lastUpdated"`
}

// SendEmailRequest represents the send-results request body.
// @Description Request body for emailing quiz results
type SendEmailRequest struct {
	SubmissionID int64  `json:"submissionId"`
	Email        string `json:"email"`
}

// SendEmailResponse reports delivery, or a warning when the notifier is not
// configured or failed; a mail failure is never an error response.
type SendEmailResponse struct {
	Message      string `json:"message"`
	Warning      string `json:"warning,omitempty"`
	SubmissionID int64  `json:"submissionId,omitempty"`
	Score        *int   `json:"score,omitempty"`
	Email        string `json:"email"`
}

// SubmissionResponse wraps a single owned submission.
type SubmissionResponse struct {
	Success bool           `json:"success"`
	Data    SubmissionItem `json:"data"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
