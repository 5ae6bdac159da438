package repository

import (
	"github.com/yourusername/millionaire-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с игроками
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
}
