package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
)

// newTestGame собирает игру с полной лестницей. Перестановка каждой
// ступени тождественная, правильный вариант всегда на слоте "a".
func newTestGame(createdAt time.Time) *Game {
	game := &Game{
		ID:        1,
		UserID:    1,
		CreatedAt: createdAt,
	}
	for level := MinQuestionLevel; level <= MaxQuestionLevel; level++ {
		game.GameQuestions = append(game.GameQuestions, GameQuestion{
			QuestionID: uint(level + 1),
			Question: Question{
				ID:            uint(level + 1),
				Level:         level,
				Answers:       StringArray{"Правильный", "Неправильный 1", "Неправильный 2", "Неправильный 3"},
				CorrectAnswer: 0,
			},
			Shuffle: LetterMap{"a": 0, "b": 1, "c": 2, "d": 3},
		})
	}
	return game
}

func TestGame_Status_Derivation(t *testing.T) {
	now := time.Now()
	finished := now.Add(5 * time.Minute)
	overdue := now.Add(GameTimeLimit + time.Minute)

	testCases := []struct {
		name     string
		game     Game
		expected string
	}{
		{
			name:     "незавершённая игра",
			game:     Game{CreatedAt: now},
			expected: GameStatusInProgress,
		},
		{
			name:     "взята верхняя ступень",
			game:     Game{CreatedAt: now, CurrentLevel: MaxQuestionLevel + 1, FinishedAt: &finished},
			expected: GameStatusWon,
		},
		{
			name:     "неправильный ответ",
			game:     Game{CreatedAt: now, CurrentLevel: 5, IsFailed: true, FinishedAt: &finished},
			expected: GameStatusFail,
		},
		{
			name:     "проигрыш после исчерпания времени",
			game:     Game{CreatedAt: now, CurrentLevel: 5, IsFailed: true, FinishedAt: &overdue},
			expected: GameStatusTimeout,
		},
		{
			name:     "деньги забраны",
			game:     Game{CreatedAt: now, CurrentLevel: 5, FinishedAt: &finished},
			expected: GameStatusMoney,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.game.Status())
		})
	}
}

func TestGame_AnswerCurrentQuestion_Correct(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())

	// Act
	correct, err := game.AnswerCurrentQuestion("a", time.Now())

	// Assert
	require.NoError(t, err)
	assert.True(t, correct, "Правильная буква должна быть засчитана")
	assert.Equal(t, 1, game.CurrentLevel, "Уровень должен увеличиться на 1")
	assert.False(t, game.Finished(), "Игра должна продолжаться")
}

func TestGame_AnswerCurrentQuestion_Wrong_BelowFireproof(t *testing.T) {
	// Arrange: взято 2 уровня, несгораемых ещё нет
	game := newTestGame(time.Now())
	game.CurrentLevel = 2

	// Act
	correct, err := game.AnswerCurrentQuestion("b", time.Now())

	// Assert
	require.NoError(t, err)
	assert.False(t, correct)
	assert.True(t, game.Finished(), "Неправильный ответ завершает игру")
	assert.Equal(t, GameStatusFail, game.Status())
	assert.Equal(t, 0, game.Prize, "До первого несгораемого уровня приз равен 0")
}

func TestGame_AnswerCurrentQuestion_Wrong_AboveFireproof(t *testing.T) {
	// Arrange: взято 11 уровней, высший несгораемый из взятых — 9
	game := newTestGame(time.Now())
	game.CurrentLevel = 11

	// Act
	correct, err := game.AnswerCurrentQuestion("c", time.Now())

	// Assert
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Equal(t, GameStatusFail, game.Status())
	assert.Equal(t, Prizes[9], game.Prize, "Приз должен быть зафиксирован на несгораемом уровне 9")
}

func TestGame_AnswerCurrentQuestion_WinsOnLastLevel(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())
	game.CurrentLevel = MaxQuestionLevel

	// Act
	correct, err := game.AnswerCurrentQuestion("a", time.Now())

	// Assert
	require.NoError(t, err)
	assert.True(t, correct)
	assert.True(t, game.Finished(), "Ответ на последний вопрос завершает игру")
	assert.Equal(t, GameStatusWon, game.Status())
	assert.Equal(t, Prizes[MaxQuestionLevel], game.Prize, "Победитель получает главный приз")
	assert.False(t, game.IsFailed)
}

func TestGame_AnswerCurrentQuestion_Timeout(t *testing.T) {
	// Arrange: игра создана больше 35 минут назад, взято 5 уровней
	game := newTestGame(time.Now().Add(-GameTimeLimit - time.Minute))
	game.CurrentLevel = 5

	// Act: буква правильная, но бюджет времени исчерпан
	correct, err := game.AnswerCurrentQuestion("a", time.Now())

	// Assert
	require.NoError(t, err)
	assert.False(t, correct, "Просроченный ответ не засчитывается даже с правильной буквой")
	assert.Equal(t, GameStatusTimeout, game.Status())
	assert.Equal(t, Prizes[4], game.Prize, "Приз фиксируется на несгораемом уровне 4")
}

func TestGame_AnswerCurrentQuestion_InvalidLetter(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())
	game.CurrentLevel = 3

	// Act
	_, err := game.AnswerCurrentQuestion("x", time.Now())

	// Assert: отказ без мутаций
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswerLetter)
	assert.Equal(t, 3, game.CurrentLevel, "Уровень не должен измениться")
	assert.False(t, game.Finished(), "Игра не должна завершиться")
}

func TestGame_AnswerCurrentQuestion_AlreadyFinished(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())
	require.NoError(t, game.TakeMoney(time.Now()))

	// Act
	_, err := game.AnswerCurrentQuestion("a", time.Now())

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrGameAlreadyFinished)
}

func TestGame_TakeMoney(t *testing.T) {
	// Arrange: взято 2 уровня
	game := newTestGame(time.Now())
	game.CurrentLevel = 2

	// Act
	err := game.TakeMoney(time.Now())

	// Assert: приз за высший взятый уровень, не несгораемый
	require.NoError(t, err)
	assert.Equal(t, GameStatusMoney, game.Status())
	assert.Equal(t, Prizes[1], game.Prize, "Приз должен соответствовать высшему взятому уровню")
	assert.False(t, game.IsFailed)
}

func TestGame_TakeMoney_NoLevelsTaken(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())

	// Act
	err := game.TakeMoney(time.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, game.Prize, "Без взятых уровней приз равен 0")
	assert.Equal(t, GameStatusMoney, game.Status())
}

func TestGame_TakeMoney_AlreadyFinished(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())
	require.NoError(t, game.TakeMoney(time.Now()))
	prizeBefore := game.Prize

	// Act
	err := game.TakeMoney(time.Now())

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrGameAlreadyFinished)
	assert.Equal(t, prizeBefore, game.Prize, "Повторный вызов не должен менять приз")
}

func TestGame_UseHint_OncePerGame(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())

	// Act: первая подсказка проходит
	require.NoError(t, game.UseHint(HintFiftyFifty))

	// Assert: повторное использование того же вида отклоняется
	err := game.UseHint(HintFiftyFifty)
	assert.ErrorIs(t, err, apperrors.ErrHintAlreadyUsed)

	// Другие виды остаются доступными
	assert.NoError(t, game.UseHint(HintAudienceHelp))
	assert.NoError(t, game.UseHint(HintFriendCall))
}

func TestGame_UseHint_FinishedGame(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())
	require.NoError(t, game.TakeMoney(time.Now()))

	// Act
	err := game.UseHint(HintFriendCall)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrGameAlreadyFinished)
	assert.False(t, game.FriendCallUsed, "Отказ не должен помечать подсказку использованной")
}

func TestGame_UseHint_UnknownKind(t *testing.T) {
	// Arrange
	game := newTestGame(time.Now())

	// Act
	err := game.UseHint("teleport")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGame_TimeLeft(t *testing.T) {
	// Arrange
	now := time.Now()
	game := newTestGame(now.Add(-5 * time.Minute))

	// Act & Assert: остаток в пределах бюджета
	left := game.TimeLeft(now)
	assert.InDelta(t, (GameTimeLimit - 5*time.Minute).Seconds(), left.Seconds(), 1)

	// Просроченная игра
	overdue := newTestGame(now.Add(-GameTimeLimit - time.Minute))
	assert.Equal(t, time.Duration(0), overdue.TimeLeft(now), "Остаток не может быть отрицательным")

	// Завершённая игра
	finished := newTestGame(now)
	require.NoError(t, finished.TakeMoney(now))
	assert.Equal(t, time.Duration(0), finished.TimeLeft(now), "У завершённой игры остаток равен 0")
}

func TestGame_TableName(t *testing.T) {
	game := Game{}
	assert.Equal(t, "games", game.TableName(), "TableName должен возвращать 'games'")
}
