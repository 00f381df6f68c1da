package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// SubmissionRepository defines the interface for submission data operations.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) (*domain.Submission, error)
	GetByID(ctx context.Context, submissionID int64) (*domain.Submission, error)
	ListByUserAndQuiz(ctx context.Context, userID, quizID int64) ([]*domain.Submission, error)
	// ListRecentByUser returns a user's most recent submissions joined with
	// their quiz's subject, newest first.
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.PastSubmission, error)
	// ListByUser returns all of a user's submissions joined with quiz
	// subjects, newest first. An empty subject matches every quiz.
	ListByUser(ctx context.Context, userID int64, subject string) ([]domain.PastSubmission, error)
	Leaderboard(ctx context.Context, grade, subject string, limit int) ([]domain.LeaderboardEntry, error)
}

type sqlxSubmissionRepository struct {
	db *sqlx.DB
}

// NewSQLXSubmissionRepository creates a new instance of sqlxSubmissionRepository.
func NewSQLXSubmissionRepository(db *sqlx.DB) SubmissionRepository {
	return &sqlxSubmissionRepository{db: db}
}

// Create inserts a new submission and returns it with the generated id.
func (r *sqlxSubmissionRepository) Create(ctx context.Context, submission *domain.Submission) (*domain.Submission, error) {
	now := time.Now().UTC()
	query := `INSERT INTO submissions (user_id, quiz_id, answers, score, created_at) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		submission.UserID, submission.QuizID, models.IntSlice(submission.Answers), submission.Score, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted submission id: %w", err)
	}

	created := *submission
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

// GetByID retrieves a submission by id.
func (r *sqlxSubmissionRepository) GetByID(ctx context.Context, submissionID int64) (*domain.Submission, error) {
	var submission models.Submission
	query := `SELECT * FROM submissions WHERE id = ?`

	err := r.db.GetContext(ctx, &submission, query, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil for not found
		}
		return nil, fmt.Errorf("failed to get submission by id: %w", err)
	}
	return toDomainSubmission(&submission), nil
}

// ListByUserAndQuiz retrieves a user's submissions for one quiz, newest first.
func (r *sqlxSubmissionRepository) ListByUserAndQuiz(ctx context.Context, userID, quizID int64) ([]*domain.Submission, error) {
	var rows []models.Submission
	query := `SELECT * FROM submissions WHERE user_id = ? AND quiz_id = ? ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, userID, quizID); err != nil {
		return nil, fmt.Errorf("failed to list submissions for quiz: %w", err)
	}

	submissions := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		submissions = append(submissions, toDomainSubmission(&rows[i]))
	}
	return submissions, nil
}

func (r *sqlxSubmissionRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.PastSubmission, error) {
	var rows []models.SubmissionWithQuiz
	query := `SELECT s.score, q.subject, s.created_at FROM submissions s
	          JOIN quizzes q ON q.id = s.quiz_id
	          WHERE s.user_id = ?
	          ORDER BY s.created_at DESC LIMIT ?`

	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent submissions: %w", err)
	}
	return toPastSubmissions(rows), nil
}

func (r *sqlxSubmissionRepository) ListByUser(ctx context.Context, userID int64, subject string) ([]domain.PastSubmission, error) {
	query := `SELECT s.score, q.subject, s.created_at FROM submissions s
	          JOIN quizzes q ON q.id = s.quiz_id
	          WHERE s.user_id = ?`
	args := []interface{}{userID}
	if subject != "" {
		query += " AND q.subject = ?"
		args = append(args, subject)
	}
	query += " ORDER BY s.created_at DESC"

	var rows []models.SubmissionWithQuiz
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return toPastSubmissions(rows), nil
}

// Leaderboard returns the top scores for a grade and subject, best first.
func (r *sqlxSubmissionRepository) Leaderboard(ctx context.Context, grade, subject string, limit int) ([]domain.LeaderboardEntry, error) {
	var rows []models.LeaderboardRow
	query := `SELECT u.username, s.score, q.grade, q.subject, s.created_at FROM submissions s
	          JOIN quizzes q ON q.id = s.quiz_id
	          JOIN users u ON u.id = s.user_id
	          WHERE q.grade = ? AND q.subject = ?
	          ORDER BY s.score DESC, s.created_at ASC LIMIT ?`

	if err := r.db.SelectContext(ctx, &rows, query, grade, subject, limit); err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:        i + 1,
			Username:    row.Username,
			Score:       row.Score,
			Grade:       row.Grade,
			Subject:     row.Subject,
			CompletedAt: row.CreatedAt,
		})
	}
	return entries, nil
}

func toDomainSubmission(m *models.Submission) *domain.Submission {
	return &domain.Submission{
		ID:        m.ID,
		UserID:    m.UserID,
		QuizID:    m.QuizID,
		Answers:   []int(m.Answers),
		Score:     m.Score,
		CreatedAt: m.CreatedAt,
	}
}

func toPastSubmissions(rows []models.SubmissionWithQuiz) []domain.PastSubmission {
	past := make([]domain.PastSubmission, 0, len(rows))
	for _, row := range rows {
		past = append(past, domain.PastSubmission{
			Score:     row.Score,
			Subject:   row.Subject,
			CreatedAt: row.CreatedAt,
		})
	}
	return past
}
