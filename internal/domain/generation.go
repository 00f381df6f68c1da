package domain

import "context"

// Hint is the generated help for a single question. Confidence is in [0,1];
// IsSpecific reports whether the hint was tailored to the caller's current
// answer attempt.
type Hint struct {
	Text       string  `json:"hint"`
	Confidence float64 `json:"confidence"`
	IsSpecific bool    `json:"isSpecific"`
}

// QuestionGenerator produces a batch of questions for a grade/subject at a
// difficulty tier. Implementations must normalize their output (sequential
// 1-based ids, exactly four options, correct index in range, defaulted
// difficulty and explanation) and must degrade to deterministic placeholder
// questions when the backend is unreachable or returns malformed data. An
// error from this port is terminal, not something the caller retries.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, grade, subject string, difficulty Difficulty, count int) ([]Question, error)
}

// HintGenerator produces a hint for a question text, optionally tailored to
// the user's current answer index. Same fallback requirement as
// QuestionGenerator.
type HintGenerator interface {
	GenerateHint(ctx context.Context, questionText string, userAnswer *int) (*Hint, error)
}

// SuggestionGenerator produces improvement suggestions for a scored attempt.
// The tiered SuggestImprovements output is the ground truth implementations
// fall back to; richer output must still be exactly two strings.
type SuggestionGenerator interface {
	GenerateSuggestions(ctx context.Context, score int, subject string, missedQuestionIDs []int64) ([]string, error)
}

// ResultsSummary carries everything the notifier needs to render a results
// email.
type ResultsSummary struct {
	Username    string
	Grade       string
	Subject     string
	Score       int
	Correct     int
	Total       int
	Suggestions []string
}

// Notifier delivers quiz results out of band. A delivery failure must never
// fail the enclosing request; callers turn it into a warning payload.
type Notifier interface {
	SendResults(ctx context.Context, email string, summary ResultsSummary) error
}
