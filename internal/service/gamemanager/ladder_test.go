package gamemanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/millionaire-api/internal/domain/entity"
	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
)

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetRandomByLevel(level int, excludeTexts []string) (*entity.Question, error) {
	args := m.Called(level, excludeTexts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) CountByLevel(level int) (int64, error) {
	args := m.Called(level)
	return args.Get(0).(int64), args.Error(1)
}

func TestLadderBuilder_Build_FullLadder(t *testing.T) {
	// Arrange: по одному вопросу на каждый из 15 уровней
	repo := new(MockQuestionRepo)
	for level := 0; level < 15; level++ {
		question := &entity.Question{
			ID:    uint(level + 1),
			Text:  fmt.Sprintf("Вопрос уровня %d", level),
			Level: level,
		}
		repo.On("GetRandomByLevel", level, mock.Anything).Return(question, nil).Once()
	}

	builder := NewLadderBuilder(repo)

	// Act
	questions, err := builder.Build(15)

	// Assert
	require.NoError(t, err)
	require.Len(t, questions, 15, "Лестница должна содержать 15 вопросов")

	seenTexts := make(map[string]bool)
	for i, q := range questions {
		assert.Equal(t, i, q.Level, "Вопросы должны идти по возрастанию уровня")
		assert.False(t, seenTexts[q.Text], "Текст %q не должен повторяться", q.Text)
		seenTexts[q.Text] = true
	}
	repo.AssertExpectations(t)
}

func TestLadderBuilder_Build_ExcludesUsedTexts(t *testing.T) {
	// Arrange: проверяем, что тексты уже выбранных вопросов передаются
	// в исключения следующего уровня
	repo := new(MockQuestionRepo)
	repo.On("GetRandomByLevel", 0, []string{}).
		Return(&entity.Question{ID: 1, Text: "Первый", Level: 0}, nil).Once()
	repo.On("GetRandomByLevel", 1, []string{"Первый"}).
		Return(&entity.Question{ID: 2, Text: "Второй", Level: 1}, nil).Once()

	builder := NewLadderBuilder(repo)

	// Act
	questions, err := builder.Build(2)

	// Assert
	require.NoError(t, err)
	assert.Len(t, questions, 2)
	repo.AssertExpectations(t)
}

func TestLadderBuilder_Build_InsufficientCatalog(t *testing.T) {
	// Arrange: на уровне 3 кандидатов не осталось
	repo := new(MockQuestionRepo)
	for level := 0; level < 3; level++ {
		question := &entity.Question{
			ID:    uint(level + 1),
			Text:  fmt.Sprintf("Вопрос уровня %d", level),
			Level: level,
		}
		repo.On("GetRandomByLevel", level, mock.Anything).Return(question, nil).Once()
	}
	repo.On("GetRandomByLevel", 3, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	builder := NewLadderBuilder(repo)

	// Act
	questions, err := builder.Build(15)

	// Assert
	assert.Nil(t, questions)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCatalog)
	repo.AssertExpectations(t)
}

func TestLadderBuilder_Build_RepositoryError(t *testing.T) {
	// Arrange: инфраструктурная ошибка не маскируется под нехватку каталога
	repo := new(MockQuestionRepo)
	dbErr := errors.New("connection refused")
	repo.On("GetRandomByLevel", 0, mock.Anything).Return(nil, dbErr).Once()

	builder := NewLadderBuilder(repo)

	// Act
	_, err := builder.Build(15)

	// Assert
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInsufficientCatalog)
	assert.ErrorIs(t, err, dbErr)
}
