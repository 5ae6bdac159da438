package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Границы уровней сложности каталога. Лестница игры покрывает
// все уровни от MinQuestionLevel до MaxQuestionLevel включительно.
const (
	MinQuestionLevel = 0
	MaxQuestionLevel = 14

	// AnswerCount — количество вариантов ответа у каждого вопроса
	AnswerCount = 4
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос каталога. Текст уникален на весь каталог,
// четыре варианта ответа хранятся в фиксированном порядке, правильный
// помечен индексом CorrectAnswer и скрыт от клиента.
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Text          string      `gorm:"size:500;not null;uniqueIndex" json:"text"`
	Level         int         `gorm:"not null;index" json:"level"`
	Answers       StringArray `gorm:"type:jsonb;not null" json:"answers"`
	CorrectAnswer int         `gorm:"not null" json:"-"` // Скрыто от клиента
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(answerIndex int) bool {
	return answerIndex == q.CorrectAnswer
}

// IsValidAnswerIndex проверяет, указывает ли индекс на существующий вариант
func (q *Question) IsValidAnswerIndex(answerIndex int) bool {
	return answerIndex >= 0 && answerIndex < len(q.Answers)
}

// IsValidLevel проверяет, попадает ли уровень вопроса в допустимый диапазон
func (q *Question) IsValidLevel() bool {
	return q.Level >= MinQuestionLevel && q.Level <= MaxQuestionLevel
}
