package repository

import (
	"github.com/yourusername/millionaire-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с каталогом вопросов
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)

	// GetRandomByLevel возвращает случайный вопрос заданного уровня,
	// текст которого не входит в excludeTexts. Если кандидатов нет,
	// возвращает apperrors.ErrNotFound.
	GetRandomByLevel(level int, excludeTexts []string) (*entity.Question, error)

	// CountByLevel возвращает количество вопросов на уровне
	CountByLevel(level int) (int64, error)
}
