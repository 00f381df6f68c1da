package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// QuestionRecord is the storage shape of a question inside a quiz's JSON
// column. Field names match the API wire format.
type QuestionRecord struct {
	ID            int64    `json:"id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Difficulty    string   `json:"difficulty"`
	Explanation   string   `json:"explanation"`
}

// QuestionList stores a question sequence as a JSON array in a TEXT column.
type QuestionList []QuestionRecord

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionList{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("QuestionList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(bytesToParse, q)
}

// IntSlice stores an answer-index sequence as a JSON array in a TEXT column.
type IntSlice []int

// Value implements the driver.Valuer interface
func (s IntSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *IntSlice) Scan(value interface{}) error {
	if value == nil {
		*s = IntSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("IntSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = IntSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// Quiz is the quizzes table row.
type Quiz struct {
	ID        int64        `db:"id"`
	Grade     string       `db:"grade"`
	Subject   string       `db:"subject"`
	Questions QuestionList `db:"questions"`
	CreatedAt time.Time    `db:"created_at"`
}

// Submission is the submissions table row.
type Submission struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	QuizID    int64     `db:"quiz_id"`
	Answers   IntSlice  `db:"answers"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

// SubmissionWithQuiz joins a submission row with the subject of its quiz,
// which is all the assessment core needs from history queries.
type SubmissionWithQuiz struct {
	Score     int       `db:"score"`
	Subject   string    `db:"subject"`
	CreatedAt time.Time `db:"created_at"`
}

// LeaderboardRow joins a submission with its user and quiz for ranking.
type LeaderboardRow struct {
	Username  string    `db:"username"`
	Score     int       `db:"score"`
	Grade     string    `db:"grade"`
	Subject   string    `db:"subject"`
	CreatedAt time.Time `db:"created_at"`
}
