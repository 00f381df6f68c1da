package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/cache"
	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/dto"
	"github.com/Neel-Ganatra/playpower/internal/logger"
	"github.com/Neel-Ganatra/playpower/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// remainingHintsPerQuestion is fixed until per-user hint budgets exist.
const remainingHintsPerQuestion = 2

// improvementThreshold flags subjects whose mean score falls below it.
const improvementThreshold = 70.0

// QuizService orchestrates quiz creation, submission scoring, analytics and
// the leaderboard.
type QuizService interface {
	CreateQuiz(ctx context.Context, username string, req dto.CreateQuizRequest) (*dto.CreateQuizResponse, error)
	GetHistory(ctx context.Context, username string, filter dto.HistoryFilter) ([]dto.HistoryItem, error)
	SubmitQuiz(ctx context.Context, username string, quizID int64, answers []int) (*dto.SubmitQuizResponse, error)
	RetryQuiz(ctx context.Context, username string, quizID int64) (*dto.RetryQuizResponse, error)
	GetHint(ctx context.Context, quizID, questionID int64, userAnswer *int) (*dto.HintResponse, error)
	GetAnalytics(ctx context.Context, username, subject string) (*dto.AnalyticsResponse, error)
	GetLeaderboard(ctx context.Context, grade, subject string, limit int) (*dto.LeaderboardResponse, error)
	SendResultsEmail(ctx context.Context, username string, req dto.SendEmailRequest) (*dto.SendEmailResponse, error)
	GetSubmission(ctx context.Context, username string, submissionID int64) (*dto.SubmissionResponse, error)
}

type quizService struct {
	userRepo       repository.UserRepository
	quizRepo       repository.QuizRepository
	submissionRepo repository.SubmissionRepository
	questionGen    domain.QuestionGenerator
	hintGen        domain.HintGenerator
	suggestionGen  domain.SuggestionGenerator
	notifier       domain.Notifier
	cache          domain.Cache // nil when Redis is unavailable
	cacheTTL       time.Duration
	boardGroup     singleflight.Group
}

// NewQuizService creates a new QuizService. cache may be nil, in which case
// the leaderboard is computed from the database on every request.
func NewQuizService(
	userRepo repository.UserRepository,
	quizRepo repository.QuizRepository,
	submissionRepo repository.SubmissionRepository,
	questionGen domain.QuestionGenerator,
	hintGen domain.HintGenerator,
	suggestionGen domain.SuggestionGenerator,
	notifier domain.Notifier,
	cacheClient domain.Cache,
	cacheTTL time.Duration,
) QuizService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &quizService{
		userRepo:       userRepo,
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		questionGen:    questionGen,
		hintGen:        hintGen,
		suggestionGen:  suggestionGen,
		notifier:       notifier,
		cache:          cacheClient,
		cacheTTL:       cacheTTL,
	}
}

// resolveUser returns the user row for a username, creating it on first use.
func (s *quizService) resolveUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		user, err = s.userRepo.Create(ctx, username)
		if err != nil {
			return nil, domain.NewInternalError("failed to create user", err)
		}
	}
	return user, nil
}

// CreateQuiz generates a quiz at a difficulty adapted to the user's recent
// performance in the subject and persists it.
func (s *quizService) CreateQuiz(ctx context.Context, username string, req dto.CreateQuizRequest) (*dto.CreateQuizResponse, error) {
	l := logger.Get()

	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	past, err := s.submissionRepo.ListRecentByUser(ctx, user.ID, 10)
	if err != nil {
		return nil, domain.NewInternalError("failed to load past submissions", err)
	}

	difficulty := domain.SelectDifficulty(req.Subject, past)

	questions, err := s.questionGen.GenerateQuestions(ctx, req.Grade, req.Subject, difficulty, req.QuestionCount)
	if err != nil {
		return nil, domain.NewUnavailableError("question generation failed", err)
	}

	quiz, err := s.quizRepo.Create(ctx, &domain.Quiz{
		Grade:     req.Grade,
		Subject:   req.Subject,
		Questions: questions,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to save quiz", err)
	}

	l.Info("Quiz created",
		zap.Int64("quiz_id", quiz.ID),
		zap.String("subject", quiz.Subject),
		zap.String("grade", quiz.Grade),
		zap.String("difficulty", string(difficulty)),
		zap.Int("based_on_submissions", len(past)))

	return &dto.CreateQuizResponse{
		ID:         quiz.ID,
		Grade:      quiz.Grade,
		Subject:    quiz.Subject,
		Questions:  quiz.Questions,
		CreatedAt:  quiz.CreatedAt,
		Difficulty: string(difficulty),
		AdaptiveInfo: dto.AdaptiveInfo{
			BasedOnSubmissions:    len(past),
			RecommendedDifficulty: string(difficulty),
		},
	}, nil
}

// GetHistory lists quizzes matching the filter, each annotated with the
// acting user's own submissions.
func (s *quizService) GetHistory(ctx context.Context, username string, filter dto.HistoryFilter) ([]dto.HistoryItem, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.quizRepo.List(ctx, repository.QuizFilter{
		Grade:   filter.Grade,
		Subject: filter.Subject,
		From:    filter.FromDate,
		To:      filter.ToDate,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	items := make([]dto.HistoryItem, 0, len(quizzes))
	for _, quiz := range quizzes {
		submissions, err := s.submissionRepo.ListByUserAndQuiz(ctx, user.ID, quiz.ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load submissions", err)
		}
		subItems := make([]dto.SubmissionItem, 0, len(submissions))
		for _, sub := range submissions {
			subItems = append(subItems, toSubmissionItem(sub))
		}
		items = append(items, dto.HistoryItem{
			ID:          quiz.ID,
			Grade:       quiz.Grade,
			Subject:     quiz.Subject,
			Questions:   quiz.Questions,
			CreatedAt:   quiz.CreatedAt,
			Submissions: subItems,
		})
	}
	return items, nil
}

// SubmitQuiz grades an answer sequence, persists the submission and returns
// the evaluation with suggestions and the user's learning trend.
func (s *quizService) SubmitQuiz(ctx context.Context, username string, quizID int64, answers []int) (*dto.SubmitQuizResponse, error) {
	l := logger.Get()

	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	result := domain.ScoreAnswers(quiz.Questions, answers)

	// The trend must reflect history before this attempt.
	past, err := s.submissionRepo.ListRecentByUser(ctx, user.ID, 10)
	if err != nil {
		return nil, domain.NewInternalError("failed to load past submissions", err)
	}

	suggestions := s.suggestionsFor(ctx, result.Score, quiz.Subject, result.MissedQuestionIDs())
	pattern := domain.AnalyzeTrend(past, quiz.Subject)

	submission, err := s.submissionRepo.Create(ctx, &domain.Submission{
		UserID:  user.ID,
		QuizID:  quizID,
		Answers: answers,
		Score:   result.Score,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to save submission", err)
	}

	l.Info("Quiz submitted",
		zap.Int64("submission_id", submission.ID),
		zap.Int64("quiz_id", quizID),
		zap.Int("score", result.Score))

	strengths := fmt.Sprintf("Room for improvement in %s", quiz.Subject)
	if result.Correct > result.Total/2 {
		strengths = fmt.Sprintf("Strong performance in %s", quiz.Subject)
	}

	return &dto.SubmitQuizResponse{
		SubmissionItem:         toSubmissionItem(submission),
		ScoreAnalysis:          result,
		ImprovementSuggestions: suggestions,
		LearningPattern:        pattern,
		AIInsights: dto.AIInsights{
			Strengths: strengths,
			NextSteps: suggestions,
		},
	}, nil
}

// suggestionsFor fetches generated suggestions, degrading to the tiered
// defaults on any failure.
func (s *quizService) suggestionsFor(ctx context.Context, score int, subject string, missed []int64) []string {
	suggestions, err := s.suggestionGen.GenerateSuggestions(ctx, score, subject, missed)
	if err != nil || len(suggestions) == 0 {
		if err != nil {
			logger.Get().Warn("Suggestion generation failed, using defaults", zap.Error(err))
		}
		return domain.SuggestImprovements(score, subject, missed)
	}
	return suggestions
}

// RetryQuiz opens a fresh attempt at an existing quiz. The new submission
// starts with no answers and a zero score until the user submits.
func (s *quizService) RetryQuiz(ctx context.Context, username string, quizID int64) (*dto.RetryQuizResponse, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	submission, err := s.submissionRepo.Create(ctx, &domain.Submission{
		UserID:  user.ID,
		QuizID:  quizID,
		Answers: []int{},
		Score:   0,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to save submission", err)
	}

	return &dto.RetryQuizResponse{
		Message:      "Quiz retry initiated",
		SubmissionID: submission.ID,
		Quiz:         quiz,
	}, nil
}

// GetHint generates a hint for one question of a quiz.
func (s *quizService) GetHint(ctx context.Context, quizID, questionID int64, userAnswer *int) (*dto.HintResponse, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	question := quiz.FindQuestion(questionID)
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(quizID, questionID)
	}

	hint, err := s.hintGen.GenerateHint(ctx, question.Text, userAnswer)
	if err != nil {
		return nil, domain.NewUnavailableError("hint generation failed", err)
	}

	return &dto.HintResponse{
		QuestionID:     questionID,
		Hint:           hint.Text,
		Confidence:     hint.Confidence,
		IsSpecific:     hint.IsSpecific,
		RemainingHints: remainingHintsPerQuestion,
	}, nil
}

// GetAnalytics aggregates a user's submissions into performance analytics.
// A user with no submissions gets a null analytics payload, not an error.
func (s *quizService) GetAnalytics(ctx context.Context, username, subject string) (*dto.AnalyticsResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found")
	}

	submissions, err := s.submissionRepo.ListByUser(ctx, user.ID, subject)
	if err != nil {
		return nil, domain.NewInternalError("failed to load submissions", err)
	}

	if len(submissions) == 0 {
		return &dto.AnalyticsResponse{
			Message:   "No quiz data available",
			Analytics: nil,
		}, nil
	}

	total := len(submissions)
	sum := 0
	best := submissions[0].Score
	for _, sub := range submissions {
		sum += sub.Score
		if sub.Score > best {
			best = sub.Score
		}
	}
	average := math.Round(float64(sum)/float64(total)*100) / 100

	trendSubject := subject
	if trendSubject == "" {
		trendSubject = "all subjects"
	}
	trend := domain.AnalyzeTrend(submissions, trendSubject)

	type subjectStats struct {
		sum   int
		count int
	}
	perSubject := make(map[string]*subjectStats)
	subjectOrder := make([]string, 0)
	for _, sub := range submissions {
		stats, ok := perSubject[sub.Subject]
		if !ok {
			stats = &subjectStats{}
			perSubject[sub.Subject] = stats
			subjectOrder = append(subjectOrder, sub.Subject)
		}
		stats.sum += sub.Score
		stats.count++
	}

	performance := make(map[string]dto.SubjectPerformance, len(perSubject))
	var areas []dto.ImprovementArea
	for _, subj := range subjectOrder {
		stats := perSubject[subj]
		avg := float64(stats.sum) / float64(stats.count)
		performance[subj] = dto.SubjectPerformance{
			Count:   stats.count,
			Average: avg,
		}
		if avg < improvementThreshold {
			areas = append(areas, dto.ImprovementArea{
				Subject:      subj,
				AverageScore: avg,
				QuizzesTaken: stats.count,
			})
		}
	}

	return &dto.AnalyticsResponse{
		Analytics: &dto.Analytics{
			TotalQuizzes:       total,
			AverageScore:       average,
			BestScore:          best,
			RecentTrend:        trend,
			SubjectPerformance: performance,
			ImprovementAreas:   areas,
		},
	}, nil
}

// GetLeaderboard returns the ranked board for one grade/subject pair, served
// from cache when fresh. Concurrent misses for the same board share a single
// database query.
func (s *quizService) GetLeaderboard(ctx context.Context, grade, subject string, limit int) (*dto.LeaderboardResponse, error) {
	l := logger.Get()
	key := cache.LeaderboardKey(grade, subject)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var response dto.LeaderboardResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return &response, nil
			}
			l.Warn("Failed to decode cached leaderboard, recomputing", zap.String("key", key))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			l.Warn("Leaderboard cache read failed", zap.Error(err), zap.String("key", key))
		}
	}

	result, err, _ := s.boardGroup.Do(key, func() (interface{}, error) {
		entries, err := s.submissionRepo.Leaderboard(ctx, grade, subject, limit)
		if err != nil {
			return nil, domain.NewInternalError("failed to query leaderboard", err)
		}
		response := &dto.LeaderboardResponse{
			Grade:             grade,
			Subject:           subject,
			Leaderboard:       entries,
			TotalParticipants: len(entries),
			LastUpdated:       time.Now().UTC(),
		}

		if s.cache != nil {
			if payload, err := json.Marshal(response); err == nil {
				if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
					l.Warn("Failed to cache leaderboard", zap.Error(err), zap.String("key", key))
				}
			}
		}
		return response, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.LeaderboardResponse), nil
}

// SendResultsEmail emails a submission's results to the given address. The
// caller must own the submission. Delivery failure produces a warning
// payload rather than an error.
func (s *quizService) SendResultsEmail(ctx context.Context, username string, req dto.SendEmailRequest) (*dto.SendEmailResponse, error) {
	submission, quiz, err := s.ownedSubmission(ctx, username, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	result := domain.ScoreAnswers(quiz.Questions, submission.Answers)
	suggestions := s.suggestionsFor(ctx, submission.Score, quiz.Subject, result.MissedQuestionIDs())

	summary := domain.ResultsSummary{
		Username:    username,
		Grade:       quiz.Grade,
		Subject:     quiz.Subject,
		Score:       submission.Score,
		Correct:     result.Correct,
		Total:       result.Total,
		Suggestions: suggestions,
	}

	if err := s.notifier.SendResults(ctx, req.Email, summary); err != nil {
		logger.Get().Warn("Results email not delivered",
			zap.Error(err), zap.Int64("submission_id", submission.ID))
		score := submission.Score
		return &dto.SendEmailResponse{
			Message:      "Quiz results processed, but email sending is not configured",
			Warning:      "Email credentials not set up. Check EMAIL_USER and EMAIL_PASS in .env file",
			SubmissionID: submission.ID,
			Score:        &score,
			Email:        req.Email,
		}, nil
	}

	return &dto.SendEmailResponse{
		Message: "Quiz results sent successfully",
		Email:   req.Email,
	}, nil
}

// GetSubmission returns one of the caller's own submissions.
func (s *quizService) GetSubmission(ctx context.Context, username string, submissionID int64) (*dto.SubmissionResponse, error) {
	submission, _, err := s.ownedSubmission(ctx, username, submissionID)
	if err != nil {
		return nil, err
	}
	return &dto.SubmissionResponse{
		Success: true,
		Data:    toSubmissionItem(submission),
	}, nil
}

// ownedSubmission loads a submission and its quiz, enforcing that it belongs
// to the acting user.
func (s *quizService) ownedSubmission(ctx context.Context, username string, submissionID int64) (*domain.Submission, *domain.Quiz, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to load submission", err)
	}
	if submission == nil {
		return nil, nil, domain.NewNotFoundError("Submission not found")
	}

	owner, err := s.userRepo.GetByID(ctx, submission.UserID)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to look up submission owner", err)
	}
	if owner == nil || owner.Username != username {
		return nil, nil, domain.NewForbiddenError("Access denied")
	}

	quiz, err := s.quizRepo.GetByID(ctx, submission.QuizID)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, nil, domain.NewQuizNotFoundError(submission.QuizID)
	}
	return submission, quiz, nil
}

func toSubmissionItem(sub *domain.Submission) dto.SubmissionItem {
	answers := sub.Answers
	if answers == nil {
		answers = []int{}
	}
	return dto.SubmissionItem{
		ID:        sub.ID,
		UserID:    sub.UserID,
		QuizID:    sub.QuizID,
		Answers:   answers,
		Score:     sub.Score,
		CreatedAt: sub.CreatedAt,
	}
}
