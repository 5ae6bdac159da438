package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math/rand"
	"time"
)

// AnswerKeys — четыре буквы слотов ответа в порядке отображения
var AnswerKeys = []string{"a", "b", "c", "d"}

// IsValidAnswerKey проверяет, что буква входит в набор a..d
func IsValidAnswerKey(key string) bool {
	for _, k := range AnswerKeys {
		if k == key {
			return true
		}
	}
	return false
}

// LetterMap - пользовательский тип для работы с JSONB.
// Отображает букву слота на индекс варианта в Question.Answers.
type LetterMap map[string]int

// Scan реализует интерфейс sql.Scanner для LetterMap
func (m *LetterMap) Scan(value interface{}) error {
	if value == nil {
		*m = LetterMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*m = LetterMap{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для LetterMap
func (m LetterMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// HelpHash хранит сгенерированные полезные нагрузки подсказок вопроса.
// Payload каждой подсказки вычисляется один раз и кешируется здесь.
type HelpHash struct {
	FiftyFifty   []string       `json:"fifty_fifty,omitempty"`
	AudienceHelp map[string]int `json:"audience_help,omitempty"`
	FriendCall   string         `json:"friend_call,omitempty"`
}

// Scan реализует интерфейс sql.Scanner для HelpHash
func (h *HelpHash) Scan(value interface{}) error {
	if value == nil {
		*h = HelpHash{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*h = HelpHash{}
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// Value реализует интерфейс driver.Valuer для HelpHash
func (h HelpHash) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// GameQuestion — ступень лестницы конкретной игры: обёртка над вопросом
// каталога с замороженной на всю жизнь игры перестановкой четырёх слотов.
// Содержимое ответов неизменно, мутируется только кеш подсказок.
type GameQuestion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GameID     uint      `gorm:"not null;index" json:"game_id"`
	QuestionID uint      `gorm:"not null" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID" json:"-"`
	Shuffle    LetterMap `gorm:"type:jsonb;not null" json:"-"` // Буква слота -> индекс варианта
	HelpHash   HelpHash  `gorm:"type:jsonb" json:"help_hash"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (GameQuestion) TableName() string {
	return "game_questions"
}

// NewGameQuestion создает ступень лестницы для вопроса каталога.
// Перестановка слотов вычисляется один раз из переданного источника
// случайности и далее не меняется.
func NewGameQuestion(questionID uint, rng *rand.Rand) *GameQuestion {
	perm := rng.Perm(AnswerCount)

	shuffle := make(LetterMap, AnswerCount)
	for i, key := range AnswerKeys {
		shuffle[key] = perm[i]
	}

	return &GameQuestion{
		QuestionID: questionID,
		Shuffle:    shuffle,
	}
}

// Level проксирует уровень вопроса каталога
func (gq *GameQuestion) Level() int {
	return gq.Question.Level
}

// Text проксирует текст вопроса каталога
func (gq *GameQuestion) Text() string {
	return gq.Question.Text
}

// Variants возвращает четыре пары буква-слота -> текст ответа
// в замороженной перестановке
func (gq *GameQuestion) Variants() map[string]string {
	variants := make(map[string]string, AnswerCount)
	for key, idx := range gq.Shuffle {
		if gq.Question.IsValidAnswerIndex(idx) {
			variants[key] = gq.Question.Answers[idx]
		}
	}
	return variants
}

// CorrectAnswerKey возвращает букву слота, на который перестановка
// поместила правильный вариант
func (gq *GameQuestion) CorrectAnswerKey() string {
	for _, key := range AnswerKeys {
		if gq.Question.IsCorrect(gq.Shuffle[key]) {
			return key
		}
	}
	return ""
}

// WrongAnswerKeys возвращает буквы трёх неправильных слотов
func (gq *GameQuestion) WrongAnswerKeys() []string {
	correct := gq.CorrectAnswerKey()
	wrong := make([]string, 0, AnswerCount-1)
	for _, key := range AnswerKeys {
		if key != correct {
			wrong = append(wrong, key)
		}
	}
	return wrong
}

// AnswerCorrect проверяет, указывает ли буква на правильный слот
func (gq *GameQuestion) AnswerCorrect(key string) bool {
	return key == gq.CorrectAnswerKey()
}
