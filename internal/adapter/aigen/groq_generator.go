package aigen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/config"
	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// GroqGenerator produces questions, hints and suggestions through Groq's
// OpenAI-compatible chat API. Any LLM failure degrades to the deterministic
// FallbackGenerator so quiz creation never blocks on the model.
type GroqGenerator struct {
	llmClient *openai.LLM
	timeout   time.Duration
	fallback  *FallbackGenerator
}

// NewGroqGenerator creates a generator backed by the configured Groq model.
func NewGroqGenerator(cfg config.AIConfig) (*GroqGenerator, error) {
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return &GroqGenerator{
		llmClient: llm,
		timeout:   cfg.Timeout,
		fallback:  NewFallbackGenerator(),
	}, nil
}

func (g *GroqGenerator) GenerateQuestions(ctx context.Context, grade, subject string, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	l := logger.Get()
	label := difficultyLabels[difficulty]

	prompt := fmt.Sprintf(`Generate %d %s level %s questions for grade %s students. Each question should have:
1. A clear, age-appropriate question
2. 4 multiple choice options (A, B, C, D)
3. The correct answer (0-3 index)
4. A brief explanation
5. Appropriate difficulty level

Format as JSON array with this structure:
[
  {
    "id": 1,
    "question": "Question text here",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": 0,
    "difficulty": "%s",
    "explanation": "Explanation of the correct answer"
  }
]
Respond with valid JSON only, no additional text.`, count, label, subject, grade, difficulty)

	raw, err := g.callLLM(ctx, prompt, llms.WithTemperature(0.7), llms.WithMaxTokens(2000))
	if err != nil {
		l.Warn("LLM question generation failed, using fallback questions",
			zap.Error(err), zap.String("subject", subject), zap.String("grade", grade))
		return g.fallback.GenerateQuestions(ctx, grade, subject, difficulty, count)
	}

	var parsed []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correctAnswer"`
		Difficulty    string   `json:"difficulty"`
		Explanation   string   `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw, "[", "]")), &parsed); err != nil {
		l.Warn("Failed to parse LLM question response, using fallback questions",
			zap.Error(err), zap.String("raw_response", raw))
		return g.fallback.GenerateQuestions(ctx, grade, subject, difficulty, count)
	}
	if len(parsed) == 0 {
		return g.fallback.GenerateQuestions(ctx, grade, subject, difficulty, count)
	}

	questions := make([]domain.Question, 0, len(parsed))
	for i, q := range parsed {
		question := domain.Question{
			ID:            int64(i + 1),
			Text:          q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    domain.ParseDifficulty(q.Difficulty),
			Explanation:   q.Explanation,
		}
		if question.Text == "" {
			question.Text = fmt.Sprintf("Question %d", i+1)
		}
		if len(question.Options) != 4 {
			question.Options = []string{"Option A", "Option B", "Option C", "Option D"}
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer > 3 {
			question.CorrectAnswer = 0
		}
		if question.Explanation == "" {
			question.Explanation = "No explanation provided"
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (g *GroqGenerator) GenerateHint(ctx context.Context, questionText string, userAnswer *int) (*domain.Hint, error) {
	l := logger.Get()

	var answerLine string
	if userAnswer != nil {
		answerLine = fmt.Sprintf("The student's current answer is option index: %d", *userAnswer)
	}

	prompt := fmt.Sprintf(`Provide a helpful hint for this quiz question: "%s"

%s

Generate a hint that:
1. Guides the student toward the correct answer without giving it away
2. Is educational and helps them learn
3. Is appropriate for the question difficulty
4. Is encouraging and supportive

Respond with a JSON object:
{
  "hint": "Your helpful hint here",
  "confidence": 0.85,
  "isSpecific": true
}`, questionText, answerLine)

	raw, err := g.callLLM(ctx, prompt, llms.WithTemperature(0.6), llms.WithMaxTokens(300))
	if err != nil {
		l.Warn("LLM hint generation failed, using fallback hint", zap.Error(err))
		return g.fallback.GenerateHint(ctx, questionText, userAnswer)
	}

	var parsed struct {
		Hint       string  `json:"hint"`
		Confidence float64 `json:"confidence"`
		IsSpecific bool    `json:"isSpecific"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw, "{", "}")), &parsed); err != nil {
		l.Warn("Failed to parse LLM hint response, using fallback hint",
			zap.Error(err), zap.String("raw_response", raw))
		return g.fallback.GenerateHint(ctx, questionText, userAnswer)
	}

	hint := &domain.Hint{
		Text:       parsed.Hint,
		Confidence: parsed.Confidence,
		IsSpecific: parsed.IsSpecific,
	}
	if hint.Text == "" {
		hint.Text = "Think carefully about the key concepts in this question."
	}
	if hint.Confidence == 0 {
		hint.Confidence = 0.8
	}
	return hint, nil
}

func (g *GroqGenerator) GenerateSuggestions(ctx context.Context, score int, subject string, missedQuestionIDs []int64) ([]string, error) {
	l := logger.Get()

	var missedLine string
	if len(missedQuestionIDs) > 0 {
		ids := make([]string, 0, len(missedQuestionIDs))
		for _, id := range missedQuestionIDs {
			ids = append(ids, fmt.Sprintf("%d", id))
		}
		missedLine = fmt.Sprintf("They struggled with question ids: %s", strings.Join(ids, ", "))
	}

	prompt := fmt.Sprintf(`A student scored %d%% on a %s quiz.

%s

Provide exactly 2 specific, actionable improvement suggestions that are:
1. Personalized based on their score and performance
2. Educational and constructive
3. Specific to %s learning
4. Encouraging and motivating

Format as JSON array:
["Suggestion 1", "Suggestion 2"]`, score, subject, missedLine, subject)

	raw, err := g.callLLM(ctx, prompt, llms.WithTemperature(0.7), llms.WithMaxTokens(400))
	if err != nil {
		l.Warn("LLM suggestion generation failed, using fallback suggestions", zap.Error(err))
		return g.fallback.GenerateSuggestions(ctx, score, subject, missedQuestionIDs)
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(extractJSON(raw, "[", "]")), &suggestions); err != nil || len(suggestions) == 0 {
		l.Warn("Failed to parse LLM suggestion response, using fallback suggestions",
			zap.String("raw_response", raw))
		return g.fallback.GenerateSuggestions(ctx, score, subject, missedQuestionIDs)
	}
	if len(suggestions) > 2 {
		suggestions = suggestions[:2]
	}
	return suggestions, nil
}

func (g *GroqGenerator) callLLM(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.llmClient.Call(ctx, prompt, opts...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			l.Error("LLM request timed out", zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return response, nil
}

// extractJSON strips code fences and reasoning tags from a model response and
// returns the outermost JSON value between the delimiters.
func extractJSON(raw, opening, closing string) string {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, opening)
	end := strings.LastIndex(cleaned, closing)
	if start == -1 || end == -1 || end <= start {
		return cleaned
	}
	return cleaned[start : end+1]
}
