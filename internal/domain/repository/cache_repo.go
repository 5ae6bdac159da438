package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	// SetNX устанавливает значение только если ключ отсутствует;
	// используется как короткоживущая блокировка создания игры
	SetNX(key string, value interface{}, expiration time.Duration) (bool, error)
}
