package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuizFilter narrows quiz history queries. Zero values mean "any".
type QuizFilter struct {
	Grade   string
	Subject string
	From    *time.Time
	To      *time.Time
}

// QuizRepository defines the interface for quiz data operations.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error)
	GetByID(ctx context.Context, quizID int64) (*domain.Quiz, error)
	List(ctx context.Context, filter QuizFilter) ([]*domain.Quiz, error)
}

type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) QuizRepository {
	return &sqlxQuizRepository{db: db}
}

// Create inserts a new quiz and returns it with the generated id.
func (r *sqlxQuizRepository) Create(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error) {
	now := time.Now().UTC()
	query := `INSERT INTO quizzes (grade, subject, questions, created_at) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, quiz.Grade, quiz.Subject, toQuestionList(quiz.Questions), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted quiz id: %w", err)
	}

	created := *quiz
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

// GetByID retrieves a quiz by id.
func (r *sqlxQuizRepository) GetByID(ctx context.Context, quizID int64) (*domain.Quiz, error) {
	var quiz models.Quiz
	query := `SELECT * FROM quizzes WHERE id = ?`

	err := r.db.GetContext(ctx, &quiz, query, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil for not found
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return toDomainQuiz(&quiz), nil
}

// List retrieves quizzes matching the filter, most recent first.
func (r *sqlxQuizRepository) List(ctx context.Context, filter QuizFilter) ([]*domain.Quiz, error) {
	var conditions []string
	var args []interface{}

	if filter.Grade != "" {
		conditions = append(conditions, "grade = ?")
		args = append(args, filter.Grade)
	}
	if filter.Subject != "" {
		conditions = append(conditions, "subject = ?")
		args = append(args, filter.Subject)
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *filter.To)
	}

	query := `SELECT * FROM quizzes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var rows []models.Quiz
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

func toQuestionList(questions []domain.Question) models.QuestionList {
	list := make(models.QuestionList, 0, len(questions))
	for _, q := range questions {
		list = append(list, models.QuestionRecord{
			ID:            q.ID,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    string(q.Difficulty),
			Explanation:   q.Explanation,
		})
	}
	return list
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	questions := make([]domain.Question, 0, len(m.Questions))
	for _, q := range m.Questions {
		questions = append(questions, domain.Question{
			ID:            q.ID,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    domain.Difficulty(q.Difficulty),
			Explanation:   q.Explanation,
		})
	}
	return &domain.Quiz{
		ID:        m.ID,
		Grade:     m.Grade,
		Subject:   m.Subject,
		Questions: questions,
		CreatedAt: m.CreatedAt,
	}
}
