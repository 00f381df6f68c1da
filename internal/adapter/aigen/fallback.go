package aigen

import (
	"context"
	"fmt"

	"github.com/Neel-Ganatra/playpower/internal/domain"
)

// difficultyLabels maps a difficulty to the adjective used in generated text.
var difficultyLabels = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "basic",
	domain.DifficultyMedium: "intermediate",
	domain.DifficultyHard:   "advanced",
}

var fallbackHints = []string{
	"Think about the key concepts in %s...",
	"Consider reviewing the fundamental principles related to this topic.",
	"Look for keywords in the question that might guide you to the answer.",
	"Break down the question into smaller parts and analyze each component.",
}

// FallbackGenerator produces deterministic questions, hints and suggestions
// without calling any external service. It serves both as the generator when
// no API key is configured and as the degradation path when the LLM fails.
type FallbackGenerator struct{}

// NewFallbackGenerator creates a new FallbackGenerator.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

func (g *FallbackGenerator) GenerateQuestions(ctx context.Context, grade, subject string, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	label := difficultyLabels[difficulty]
	questions := make([]domain.Question, 0, count)
	for i := 1; i <= count; i++ {
		questions = append(questions, domain.Question{
			ID:   int64(i),
			Text: fmt.Sprintf("%s %s question %d for grade %s", label, subject, i, grade),
			Options: []string{
				fmt.Sprintf("Correct answer for %s", subject),
				"Incorrect option A",
				"Incorrect option B",
				"Incorrect option C",
			},
			CorrectAnswer: 0,
			Difficulty:    difficulty,
			Explanation:   fmt.Sprintf("This question tests %s understanding of %s concepts for grade %s.", label, subject, grade),
		})
	}
	return questions, nil
}

func (g *FallbackGenerator) GenerateHint(ctx context.Context, questionText string, userAnswer *int) (*domain.Hint, error) {
	hint := fallbackHints[len(questionText)%len(fallbackHints)]
	if hint == fallbackHints[0] {
		prefix := questionText
		if len(prefix) > 20 {
			prefix = prefix[:20]
		}
		hint = fmt.Sprintf(fallbackHints[0], prefix)
	}
	return &domain.Hint{
		Text:       hint,
		Confidence: 0.75,
		IsSpecific: userAnswer != nil,
	}, nil
}

func (g *FallbackGenerator) GenerateSuggestions(ctx context.Context, score int, subject string, missedQuestionIDs []int64) ([]string, error) {
	return domain.SuggestImprovements(score, subject, missedQuestionIDs), nil
}
