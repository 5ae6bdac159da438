package gamemanager

import (
	"time"

	"github.com/yourusername/millionaire-api/internal/domain/entity"
)

// Config содержит операционные настройки игрового ядра.
// Правила игры (таблица призов, несгораемые уровни, бюджет времени)
// фиксированы в entity и не конфигурируются.
type Config struct {
	// LevelCount — длина лестницы вопросов
	LevelCount int

	// CreateLockTTL — время жизни блокировки создания игры в Redis
	CreateLockTTL time.Duration

	// ActiveGameCacheTTL — время жизни кеша id активной игры
	ActiveGameCacheTTL time.Duration

	// FriendCallAccuracy — вероятность того, что звонок другу
	// предложит правильный вариант
	FriendCallAccuracy float64

	// Границы доли голосов зала за правильный вариант (в процентах)
	AudienceMinCorrectShare int
	AudienceMaxCorrectShare int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		LevelCount:              entity.MaxQuestionLevel + 1,
		CreateLockTTL:           10 * time.Second,
		ActiveGameCacheTTL:      entity.GameTimeLimit + 5*time.Minute,
		FriendCallAccuracy:      0.8,
		AudienceMinCorrectShare: 40,
		AudienceMaxCorrectShare: 80,
	}
}
