package entity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameQuestion_ShuffleIsPermutation(t *testing.T) {
	// Arrange
	rng := rand.New(rand.NewSource(42))

	// Act
	gq := NewGameQuestion(7, rng)

	// Assert
	assert.Equal(t, uint(7), gq.QuestionID)
	require.Len(t, gq.Shuffle, AnswerCount, "Перестановка должна покрывать все четыре буквы")

	seen := make(map[int]bool, AnswerCount)
	for _, key := range AnswerKeys {
		idx, ok := gq.Shuffle[key]
		require.True(t, ok, "Буква %q должна присутствовать в перестановке", key)
		assert.False(t, seen[idx], "Индекс %d не должен повторяться", idx)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, AnswerCount)
		seen[idx] = true
	}
}

func TestNewGameQuestion_Deterministic(t *testing.T) {
	// Arrange: одинаковый seed дает одинаковую перестановку
	gq1 := NewGameQuestion(1, rand.New(rand.NewSource(99)))
	gq2 := NewGameQuestion(1, rand.New(rand.NewSource(99)))

	// Assert
	assert.Equal(t, gq1.Shuffle, gq2.Shuffle, "Перестановка должна зависеть только от источника случайности")
}

func TestGameQuestion_Variants(t *testing.T) {
	// Arrange
	gq := &GameQuestion{
		Question: Question{
			Answers:       StringArray{"Москва", "Париж", "Лондон", "Берлин"},
			CorrectAnswer: 0,
		},
		Shuffle: LetterMap{"a": 2, "b": 0, "c": 3, "d": 1},
	}

	// Act
	variants := gq.Variants()

	// Assert: каждая буква показывает вариант из своего слота перестановки
	require.Len(t, variants, AnswerCount)
	assert.Equal(t, "Лондон", variants["a"])
	assert.Equal(t, "Москва", variants["b"])
	assert.Equal(t, "Берлин", variants["c"])
	assert.Equal(t, "Париж", variants["d"])
}

func TestGameQuestion_CorrectAnswerKey(t *testing.T) {
	// Arrange: правильный вариант (индекс 0) лежит на слоте "b"
	gq := &GameQuestion{
		Question: Question{
			Answers:       StringArray{"Москва", "Париж", "Лондон", "Берлин"},
			CorrectAnswer: 0,
		},
		Shuffle: LetterMap{"a": 2, "b": 0, "c": 3, "d": 1},
	}

	// Act & Assert
	assert.Equal(t, "b", gq.CorrectAnswerKey())
	assert.True(t, gq.AnswerCorrect("b"))
	assert.False(t, gq.AnswerCorrect("a"))
	assert.ElementsMatch(t, []string{"a", "c", "d"}, gq.WrongAnswerKeys())
}

func TestIsValidAnswerKey(t *testing.T) {
	for _, key := range AnswerKeys {
		assert.True(t, IsValidAnswerKey(key), "Буква %q должна быть валидной", key)
	}
	assert.False(t, IsValidAnswerKey("e"))
	assert.False(t, IsValidAnswerKey("A"), "Заглавные буквы не принимаются")
	assert.False(t, IsValidAnswerKey(""))
}

// Тесты для HelpHash (JSONB сериализация)

func TestHelpHash_ScanValue_RoundTrip(t *testing.T) {
	// Arrange
	original := HelpHash{
		FiftyFifty:   []string{"a", "c"},
		AudienceHelp: map[string]int{"a": 55, "b": 20, "c": 15, "d": 10},
		FriendCall:   "Марина считает, что это вариант \"A\"",
	}

	// Act
	val, err := original.Value()
	require.NoError(t, err)

	var restored HelpHash
	require.NoError(t, restored.Scan(val))

	// Assert
	assert.Equal(t, original, restored)
}

func TestHelpHash_Scan_NullValue(t *testing.T) {
	// Arrange
	var h HelpHash

	// Act
	err := h.Scan(nil)

	// Assert
	require.NoError(t, err, "Scan не должен возвращать ошибку для nil")
	assert.Empty(t, h.FiftyFifty)
	assert.Empty(t, h.AudienceHelp)
	assert.Empty(t, h.FriendCall)
}

func TestLetterMap_ScanValue_RoundTrip(t *testing.T) {
	// Arrange
	original := LetterMap{"a": 3, "b": 1, "c": 0, "d": 2}

	// Act
	val, err := original.Value()
	require.NoError(t, err)

	var restored LetterMap
	require.NoError(t, restored.Scan(val))

	// Assert
	assert.Equal(t, original, restored)
}

func TestGameQuestion_TableName(t *testing.T) {
	gq := GameQuestion{}
	assert.Equal(t, "game_questions", gq.TableName(), "TableName должен возвращать 'game_questions'")
}
