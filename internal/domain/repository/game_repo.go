package repository

import (
	"github.com/yourusername/millionaire-api/internal/domain/entity"
)

// GameRepository определяет методы для работы с играми
type GameRepository interface {
	// Create сохраняет игру вместе со ступенями лестницы. Частичный
	// уникальный индекс по user_id гарантирует не более одной активной
	// игры на игрока; проигрыш гонки отображается в
	// apperrors.ErrActiveGameExists.
	Create(game *entity.Game) error

	// GetByID возвращает игру со ступенями лестницы и их вопросами,
	// упорядоченными по возрастанию уровня
	GetByID(id uint) (*entity.Game, error)

	// GetActiveByUserID возвращает незавершённую игру игрока
	// или apperrors.ErrNotFound
	GetActiveByUserID(userID uint) (*entity.Game, error)

	// PersistTransition атомарно сохраняет переход состояния игры.
	// priorLevel — уровень до перехода: guard по нему и finished_at
	// сериализует конкурентные ответы, из двух одновременных мутаций
	// фиксируется ровно одна. Проигравший получает
	// apperrors.ErrGameStateConflict. Приз и счётчик игр начисляются
	// в той же транзакции, что и терминальный переход.
	PersistTransition(game *entity.Game, priorLevel int) error

	// UpdateHints точечно сохраняет флаги подсказок игры и кеш payload'а
	// ступени, не трогая остальные поля
	UpdateHints(game *entity.Game, question *entity.GameQuestion) error

	// ListByUserID возвращает игры игрока, новые первыми
	ListByUserID(userID uint, limit, offset int) ([]entity.Game, int64, error)
}
