package entity

import (
	"time"

	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
)

// Константы статусов игры. Терминальные статусы — взаимоисключающие
// классификации завершённой игры, они вычисляются, а не хранятся.
const (
	GameStatusInProgress = "in_progress"
	GameStatusWon        = "won"
	GameStatusFail       = "fail"
	GameStatusTimeout    = "timeout"
	GameStatusMoney      = "money"
)

// Виды подсказок. Каждая доступна один раз за игру независимо от того,
// на каком вопросе была использована.
const (
	HintFiftyFifty   = "fifty_fifty"
	HintAudienceHelp = "audience_help"
	HintFriendCall   = "friend_call"
)

// GameTimeLimit — бюджет времени игры, отсчитывается от created_at
const GameTimeLimit = 35 * time.Minute

// Prizes — фиксированная таблица призов: индекс уровня -> накопленная сумма
var Prizes = []int{
	100, 200, 300, 500, 1000, 2000, 4000, 8000, 16000, 32000,
	64000, 125000, 250000, 500000, 1000000,
}

// FireproofLevels — несгораемые уровни: приз за них гарантирован
// даже после более позднего проигрыша
var FireproofLevels = []int{4, 9, 14}

// Game — конечный автомат одной игры: лестница вопросов, текущий уровень,
// флаги терминального состояния и приз. У игрока может быть не более
// одной незавершённой игры (частичный уникальный индекс по user_id).
type Game struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	UserID       uint `gorm:"not null;index" json:"user_id"`
	CurrentLevel int  `gorm:"not null;default:0" json:"current_level"`
	Prize        int  `gorm:"not null;default:0" json:"prize"`
	IsFailed     bool `gorm:"not null;default:false" json:"is_failed"`

	FiftyFiftyUsed   bool `gorm:"not null;default:false" json:"fifty_fifty_used"`
	AudienceHelpUsed bool `gorm:"not null;default:false" json:"audience_help_used"`
	FriendCallUsed   bool `gorm:"not null;default:false" json:"friend_call_used"`

	FinishedAt    *time.Time     `gorm:"index" json:"finished_at,omitempty"`
	GameQuestions []GameQuestion `gorm:"foreignKey:GameID" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Game) TableName() string {
	return "games"
}

// Finished проверяет, завершена ли игра
func (g *Game) Finished() bool {
	return g.FinishedAt != nil
}

// TimeOut проверяет, исчерпан ли бюджет времени к моменту now
func (g *Game) TimeOut(now time.Time) bool {
	return now.Sub(g.CreatedAt) > GameTimeLimit
}

// TimeLeft возвращает остаток бюджета времени (0 для завершённых игр)
func (g *Game) TimeLeft(now time.Time) time.Duration {
	if g.Finished() {
		return 0
	}
	left := GameTimeLimit - now.Sub(g.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// PreviousLevel возвращает высший взятый уровень (-1, если ни одного)
func (g *Game) PreviousLevel() int {
	return g.CurrentLevel - 1
}

// CurrentGameQuestion возвращает ступень лестницы текущего уровня
func (g *Game) CurrentGameQuestion() *GameQuestion {
	if g.CurrentLevel < 0 || g.CurrentLevel >= len(g.GameQuestions) {
		return nil
	}
	return &g.GameQuestions[g.CurrentLevel]
}

// Status вычисляет статус из хранимых полей при каждом чтении.
// Терминальная классификация никогда не персистится, чтобы хранимое
// состояние не могло разойтись с производным.
func (g *Game) Status() string {
	if !g.Finished() {
		return GameStatusInProgress
	}
	if g.CurrentLevel > MaxQuestionLevel {
		return GameStatusWon
	}
	if g.IsFailed {
		if g.FinishedAt.Sub(g.CreatedAt) > GameTimeLimit {
			return GameStatusTimeout
		}
		return GameStatusFail
	}
	return GameStatusMoney
}

// AnswerCurrentQuestion обрабатывает ответ на вопрос текущего уровня.
// Возвращает true, если ответ засчитан как правильный. Отказ (ошибка)
// не мутирует игру; проигрыш и победа завершают её в этом же вызове.
func (g *Game) AnswerCurrentQuestion(key string, now time.Time) (bool, error) {
	if g.Finished() {
		return false, apperrors.ErrGameAlreadyFinished
	}
	if !IsValidAnswerKey(key) {
		return false, apperrors.ErrInvalidAnswerLetter
	}

	// Бюджет времени проверяется до оценки ответа: просроченная игра
	// проигрывается независимо от правильности буквы
	if g.TimeOut(now) {
		g.finish(now, g.fireproofPrize(g.PreviousLevel()), true)
		return false, nil
	}

	question := g.CurrentGameQuestion()
	if question == nil || !question.AnswerCorrect(key) {
		g.finish(now, g.fireproofPrize(g.PreviousLevel()), true)
		return false, nil
	}

	g.CurrentLevel++
	if g.CurrentLevel > MaxQuestionLevel {
		// Взята верхняя ступень — победа с главным призом
		g.finish(now, Prizes[MaxQuestionLevel], false)
	}
	return true, nil
}

// TakeMoney добровольно останавливает игру и фиксирует приз
// за высший взятый уровень
func (g *Game) TakeMoney(now time.Time) error {
	if g.Finished() {
		return apperrors.ErrGameAlreadyFinished
	}

	prize := 0
	if g.PreviousLevel() >= 0 {
		prize = Prizes[g.PreviousLevel()]
	}
	g.finish(now, prize, false)
	return nil
}

// HintUsed проверяет, была ли подсказка данного вида уже использована
func (g *Game) HintUsed(kind string) bool {
	switch kind {
	case HintFiftyFifty:
		return g.FiftyFiftyUsed
	case HintAudienceHelp:
		return g.AudienceHelpUsed
	case HintFriendCall:
		return g.FriendCallUsed
	}
	return false
}

// UseHint помечает подсказку использованной. Повторный вызов для того же
// вида, как и вызов на завершённой игре, отклоняется без мутаций.
func (g *Game) UseHint(kind string) error {
	if g.Finished() {
		return apperrors.ErrGameAlreadyFinished
	}
	if g.HintUsed(kind) {
		return apperrors.ErrHintAlreadyUsed
	}

	switch kind {
	case HintFiftyFifty:
		g.FiftyFiftyUsed = true
	case HintAudienceHelp:
		g.AudienceHelpUsed = true
	case HintFriendCall:
		g.FriendCallUsed = true
	default:
		return apperrors.ErrValidation
	}
	return nil
}

// finish переводит игру в терминальное состояние
func (g *Game) finish(now time.Time, prize int, failed bool) {
	finishedAt := now
	g.FinishedAt = &finishedAt
	g.Prize = prize
	g.IsFailed = failed
}

// fireproofPrize возвращает приз высшего несгораемого уровня,
// не превышающего answeredLevel (0, если такого нет)
func (g *Game) fireproofPrize(answeredLevel int) int {
	for i := len(FireproofLevels) - 1; i >= 0; i-- {
		if FireproofLevels[i] <= answeredLevel {
			return Prizes[FireproofLevels[i]]
		}
	}
	return 0
}
