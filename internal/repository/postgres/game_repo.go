package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/millionaire-api/internal/domain/entity"
	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игр
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create сохраняет игру вместе со ступенями лестницы одной транзакцией.
// Partial unique index idx_games_single_active гарантирует max 1 активную
// игру на игрока:
// - 23505 (unique violation) → у игрока уже есть активная игра
// - Другая DB ошибка → возвращается как есть
func (r *GameRepo) Create(game *entity.Game) error {
	err := r.db.Create(game).Error
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user #%d", apperrors.ErrActiveGameExists, game.UserID)
		}
		return fmt.Errorf("create game for user #%d failed: %w", game.UserID, err)
	}
	return nil
}

// GetByID возвращает игру со ступенями лестницы и вопросами.
// Ступени упорядочены по id: лестница создаётся по возрастанию уровня,
// поэтому порядок вставки совпадает с порядком уровней.
func (r *GameRepo) GetByID(id uint) (*entity.Game, error) {
	var game entity.Game
	err := r.db.
		Preload("GameQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_questions.id")
		}).
		Preload("GameQuestions.Question").
		First(&game, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// GetActiveByUserID возвращает незавершённую игру игрока
func (r *GameRepo) GetActiveByUserID(userID uint) (*entity.Game, error) {
	var game entity.Game
	err := r.db.
		Preload("GameQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_questions.id")
		}).
		Preload("GameQuestions.Question").
		Where("user_id = ? AND finished_at IS NULL", userID).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// PersistTransition атомарно сохраняет переход состояния игры.
// Guard покрывает оба условия гонки: finished_at IS NULL отсекает мутации
// завершённой игры, current_level = priorLevel — перезапись уже
// продвинутого уровня (current_level никогда не убывает). Из двух
// одновременных ответов зафиксируется только один, проигравший получает
// ErrGameStateConflict по RowsAffected == 0.
func (r *GameRepo) PersistTransition(game *entity.Game, priorLevel int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Game{}).
			Where("id = ? AND finished_at IS NULL AND current_level = ?", game.ID, priorLevel).
			Updates(map[string]interface{}{
				"current_level": game.CurrentLevel,
				"prize":         game.Prize,
				"is_failed":     game.IsFailed,
				"finished_at":   game.FinishedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: game #%d", apperrors.ErrGameStateConflict, game.ID)
		}

		if !game.Finished() {
			return nil
		}

		// Начисление в той же транзакции, что и терминальный переход:
		// guard выше гарантирует ровно одно начисление на игру
		if game.Prize > 0 {
			err := tx.Model(&entity.User{}).
				Where("id = ?", game.UserID).
				Update("balance", gorm.Expr("balance + ?", game.Prize)).
				Error
			if err != nil {
				return fmt.Errorf("failed to credit prize: %w", err)
			}
		}

		return tx.Model(&entity.User{}).
			Where("id = ?", game.UserID).
			Update("games_played", gorm.Expr("games_played + 1")).
			Error
	})
}

// UpdateHints точечно сохраняет флаги подсказок и кеш payload'а ступени
func (r *GameRepo) UpdateHints(game *entity.Game, question *entity.GameQuestion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Game{}).
			Where("id = ?", game.ID).
			Updates(map[string]interface{}{
				"fifty_fifty_used":   game.FiftyFiftyUsed,
				"audience_help_used": game.AudienceHelpUsed,
				"friend_call_used":   game.FriendCallUsed,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&entity.GameQuestion{}).
			Where("id = ?", question.ID).
			Update("help_hash", question.HelpHash).
			Error
	})
}

// ListByUserID возвращает игры игрока с пагинацией и total count
func (r *GameRepo) ListByUserID(userID uint, limit, offset int) ([]entity.Game, int64, error) {
	var games []entity.Game
	var total int64

	query := r.db.Model(&entity.Game{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("id DESC").Find(&games).Error
	if err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
