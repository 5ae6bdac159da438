package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/millionaire-api/internal/domain/entity"
	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает пакет вопросов
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Устанавливаем кодировку UTF-8 внутри транзакции
		if err := tx.Exec("SET CLIENT_ENCODING TO 'UTF8'").Error; err != nil {
			return err
		}
		return tx.Create(&questions).Error
	})
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetRandomByLevel возвращает случайный вопрос уровня, исключая уже
// использованные тексты. Каталог по уровню небольшой, поэтому
// ORDER BY RANDOM() здесь достаточно.
func (r *QuestionRepo) GetRandomByLevel(level int, excludeTexts []string) (*entity.Question, error) {
	var question entity.Question

	query := r.db.Where("level = ?", level)
	if len(excludeTexts) > 0 {
		query = query.Where("text NOT IN ?", excludeTexts)
	}

	err := query.Order("RANDOM()").First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// CountByLevel возвращает количество вопросов на уровне
func (r *QuestionRepo) CountByLevel(level int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).Where("level = ?", level).Count(&count).Error
	return count, err
}
