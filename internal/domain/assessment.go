package domain

import (
	"fmt"
	"math"
	"sort"
)

// Trend labels produced by AnalyzeTrend.
const (
	TrendImproving        = "improving"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// QuestionAnalysis is the per-question breakdown of a scored attempt.
// UserAnswer is nil when the position was left unanswered.
type QuestionAnalysis struct {
	QuestionID    int64  `json:"questionId"`
	Correct       bool   `json:"correct"`
	UserAnswer    *int   `json:"userAnswer"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// ScoreResult aggregates the grading of one answer sequence against one
// question sequence.
type ScoreResult struct {
	Score    int                `json:"score"`
	Correct  int                `json:"correct"`
	Total    int                `json:"total"`
	Analysis []QuestionAnalysis `json:"analysis"`
}

// MissedQuestionIDs returns the ids of the questions answered incorrectly.
func (r *ScoreResult) MissedQuestionIDs() []int64 {
	var missed []int64
	for _, a := range r.Analysis {
		if !a.Correct {
			missed = append(missed, a.QuestionID)
		}
	}
	return missed
}

// TrendAnalysis is the outcome of AnalyzeTrend. AverageScore is nil when
// there is not enough history to compute one.
type TrendAnalysis struct {
	Trend          string `json:"trend"`
	AverageScore   *int   `json:"averageScore,omitempty"`
	Recommendation string `json:"recommendation"`
}

// ScoreAnswers grades answers positionally against questions. An answer is
// correct only when its index equals the question's correct option index
// exactly; missing or out-of-range entries count as incorrect and never
// error. A quiz with zero questions scores 0 by definition.
func ScoreAnswers(questions []Question, answers []int) ScoreResult {
	correct := 0
	analysis := make([]QuestionAnalysis, 0, len(questions))

	for i, question := range questions {
		var userAnswer *int
		if i < len(answers) {
			v := answers[i]
			userAnswer = &v
		}

		isCorrect := userAnswer != nil && *userAnswer == question.CorrectAnswer
		if isCorrect {
			correct++
		}

		explanation := question.Explanation
		if explanation == "" {
			explanation = fmt.Sprintf("The correct answer is option %d.", question.CorrectAnswer+1)
		}

		analysis = append(analysis, QuestionAnalysis{
			QuestionID:    question.ID,
			Correct:       isCorrect,
			UserAnswer:    userAnswer,
			CorrectAnswer: question.CorrectAnswer,
			Explanation:   explanation,
		})
	}

	score := 0
	if len(questions) > 0 {
		score = int(math.Round(float64(correct) / float64(len(questions)) * 100))
	}

	return ScoreResult{
		Score:    score,
		Correct:  correct,
		Total:    len(questions),
		Analysis: analysis,
	}
}

// SelectDifficulty maps a user's recent in-subject score history to a tier.
// History entries for other subjects are ignored; with no matching history
// the tier is medium.
func SelectDifficulty(subject string, history []PastSubmission) Difficulty {
	sum, n := 0, 0
	for _, past := range history {
		if past.Subject == subject {
			sum += past.Score
			n++
		}
	}
	if n == 0 {
		return DifficultyMedium
	}

	average := float64(sum) / float64(n)
	switch {
	case average >= 85:
		return DifficultyHard
	case average >= 65:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// AnalyzeTrend labels a user's recent performance. Fewer than three
// submissions is insufficient data. Otherwise the most recent five scores
// are taken in time order and only the window's endpoints are compared:
// a later score strictly greater than the earliest one reads as improving,
// anything else as stable. A dip-and-recovery inside the window therefore
// still reads as improving; that is the defined behavior, kept so analytics
// output stays comparable over time.
func AnalyzeTrend(history []PastSubmission, subject string) TrendAnalysis {
	if len(history) < 3 {
		return TrendAnalysis{
			Trend:          TrendInsufficientData,
			Recommendation: "Take more quizzes to establish learning patterns",
		}
	}

	ordered := make([]PastSubmission, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	window := ordered
	if len(window) > 5 {
		window = window[len(window)-5:]
	}

	sum := 0
	for _, past := range window {
		sum += past.Score
	}
	average := int(math.Round(float64(sum) / float64(len(window))))

	if window[len(window)-1].Score > window[0].Score {
		return TrendAnalysis{
			Trend:          TrendImproving,
			AverageScore:   &average,
			Recommendation: fmt.Sprintf("Keep up the great progress in %s!", subject),
		}
	}
	return TrendAnalysis{
		Trend:          TrendStable,
		AverageScore:   &average,
		Recommendation: fmt.Sprintf("Consider varying your study approach for %s.", subject),
	}
}

// SuggestImprovements returns exactly two suggestion strings tiered by score.
// The missed-question list is accepted for signature parity with generative
// backends; the tiering here depends only on score and subject.
func SuggestImprovements(score int, subject string, missedQuestionIDs []int64) []string {
	switch {
	case score < 60:
		return []string{
			fmt.Sprintf("Focus on fundamental %s concepts. Consider reviewing basic materials and practice more frequently.", subject),
			"Break down complex topics into smaller, manageable parts. Use active recall techniques while studying.",
		}
	case score < 80:
		return []string{
			fmt.Sprintf("Good progress! Work on understanding the nuances of %s. Practice with more challenging problems.", subject),
			"Review the questions you got wrong and understand the reasoning behind correct answers.",
		}
	default:
		return []string{
			fmt.Sprintf("Excellent work! To maintain this level, try teaching %s concepts to others or tackle advanced topics.", subject),
			fmt.Sprintf("Consider exploring real-world applications of %s to deepen your understanding further.", subject),
		}
	}
}
