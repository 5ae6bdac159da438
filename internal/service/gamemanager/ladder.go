package gamemanager

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/millionaire-api/internal/domain/entity"
	"github.com/yourusername/millionaire-api/internal/domain/repository"
	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
)

// LadderBuilder собирает лестницу игры: по одному вопросу каталога
// на каждый уровень, без повторов текста.
type LadderBuilder struct {
	questionRepo repository.QuestionRepository
}

// NewLadderBuilder создаёт новый сборщик лестницы
func NewLadderBuilder(questionRepo repository.QuestionRepository) *LadderBuilder {
	return &LadderBuilder{questionRepo: questionRepo}
}

// Build возвращает ровно levelCount вопросов, упорядоченных по возрастанию
// уровня 0..levelCount-1. Выбор среди кандидатов уровня случайный.
// Если на каком-то уровне не осталось кандидатов с неиспользованным
// текстом, возвращает ErrInsufficientCatalog.
func (b *LadderBuilder) Build(levelCount int) ([]entity.Question, error) {
	questions := make([]entity.Question, 0, levelCount)
	usedTexts := make([]string, 0, levelCount)

	for level := 0; level < levelCount; level++ {
		question, err := b.questionRepo.GetRandomByLevel(level, usedTexts)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.Printf("[LadderBuilder] Нет кандидатов для уровня %d (исключено текстов: %d)", level, len(usedTexts))
				return nil, fmt.Errorf("%w: level %d", apperrors.ErrInsufficientCatalog, level)
			}
			return nil, fmt.Errorf("failed to pick question for level %d: %w", level, err)
		}

		questions = append(questions, *question)
		usedTexts = append(usedTexts, question.Text)
	}

	return questions, nil
}
