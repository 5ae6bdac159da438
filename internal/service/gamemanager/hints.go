package gamemanager

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/millionaire-api/internal/domain/entity"
)

// Имена для текста звонка другу
var friendNames = []string{
	"Аркадий", "Марина", "Виктор", "Ольга", "Сергей",
	"Наталья", "Дмитрий", "Елена",
}

// HintEngine генерирует полезные нагрузки трёх подсказок из замороженного
// правильного слота ступени. Источник случайности передаётся явно, чтобы
// тесты могли сидировать его детерминированно.
type HintEngine struct {
	config *Config

	mu  sync.Mutex // rand.Rand не потокобезопасен
	rng *rand.Rand
}

// NewHintEngine создаёт новый генератор подсказок
func NewHintEngine(config *Config, rng *rand.Rand) *HintEngine {
	return &HintEngine{config: config, rng: rng}
}

// FiftyFifty возвращает ровно две буквы: правильную и одну случайную
// неправильную, в алфавитном порядке
func (e *HintEngine) FiftyFifty(question *entity.GameQuestion) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	wrong := question.WrongAnswerKeys()
	pair := []string{
		question.CorrectAnswerKey(),
		wrong[e.rng.Intn(len(wrong))],
	}
	sort.Strings(pair)
	return pair
}

// AudienceHelp возвращает распределение голосов зала по всем четырём
// буквам. Сумма долей равна 100, правильный вариант получает
// статистически большую долю.
func (e *HintEngine) AudienceHelp(question *entity.GameQuestion) map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	votes := make(map[string]int, entity.AnswerCount)

	spread := e.config.AudienceMaxCorrectShare - e.config.AudienceMinCorrectShare
	correctShare := e.config.AudienceMinCorrectShare + e.rng.Intn(spread+1)
	votes[question.CorrectAnswerKey()] = correctShare

	// Остаток случайно делится между тремя неправильными слотами
	rest := 100 - correctShare
	wrong := question.WrongAnswerKeys()
	for i, key := range wrong {
		if i == len(wrong)-1 {
			votes[key] = rest
			break
		}
		share := 0
		if rest > 0 {
			share = e.rng.Intn(rest + 1)
		}
		votes[key] = share
		rest -= share
	}

	return votes
}

// FriendCall возвращает текст совета друга. Друг ненадёжен: с вероятностью
// 1-FriendCallAccuracy он предлагает случайный неправильный вариант.
func (e *HintEngine) FriendCall(question *entity.GameQuestion) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := question.CorrectAnswerKey()
	if e.rng.Float64() >= e.config.FriendCallAccuracy {
		wrong := question.WrongAnswerKeys()
		key = wrong[e.rng.Intn(len(wrong))]
	}

	name := friendNames[e.rng.Intn(len(friendNames))]
	return fmt.Sprintf("%s считает, что это вариант \"%s\"", name, strings.ToUpper(key))
}
