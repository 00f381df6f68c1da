package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyEasy, ParseDifficulty("easy"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty("medium"))
	assert.Equal(t, DifficultyHard, ParseDifficulty("hard"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty(""))
	assert.Equal(t, DifficultyMedium, ParseDifficulty("expert"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty("Easy"))
}

func TestFindQuestion(t *testing.T) {
	quiz := &Quiz{
		Questions: []Question{
			{ID: 1, Text: "first"},
			{ID: 2, Text: "second"},
		},
	}

	q := quiz.FindQuestion(2)
	if assert.NotNil(t, q) {
		assert.Equal(t, "second", q.Text)
	}
	assert.Nil(t, quiz.FindQuestion(3))

	// returned pointer aliases the quiz's own slice
	q.Explanation = "edited"
	assert.Equal(t, "edited", quiz.Questions[1].Explanation)
}
