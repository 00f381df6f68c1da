package domain

import (
	"time"
)

// Difficulty is one of the three tiers a quiz can be generated at.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps free-form input to a known tier, defaulting to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// Question is a single multiple-choice question embedded in a quiz.
// IDs are 1-based and unique within their quiz only.
type Question struct {
	ID            int64      `json:"id"`
	Text          string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   string     `json:"explanation"`
}

// Quiz is an immutable set of questions for a grade/subject pair.
type Quiz struct {
	ID        int64      `json:"id"`
	Grade     string     `json:"grade"`
	Subject   string     `json:"subject"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FindQuestion returns the question with the given id, or nil.
func (q *Quiz) FindQuestion(questionID int64) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return &q.Questions[i]
		}
	}
	return nil
}

// Submission records one attempt at a quiz. Answers are interpreted
// positionally against the quiz's question sequence and may be shorter than
// it; a missing entry counts as unanswered. Submissions are never mutated
// after creation: a retry creates a fresh row with empty answers.
type Submission struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	QuizID    int64     `json:"quizId"`
	Answers   []int     `json:"answers"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// PastSubmission is the slice of submission state the assessment core needs:
// the score, the subject of the quiz it belongs to, and when it happened.
type PastSubmission struct {
	Score     int
	Subject   string
	CreatedAt time.Time
}

// LeaderboardEntry is one ranked row of a grade/subject leaderboard.
// Ranks are dense and 1-based by position; ties are not deduplicated.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	Grade       string    `json:"grade"`
	Subject     string    `json:"subject"`
	CompletedAt time.Time `json:"completedAt"`
}
