package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/millionaire-api/internal/domain/entity"
	"github.com/yourusername/millionaire-api/internal/domain/repository"
	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
	"github.com/yourusername/millionaire-api/internal/service/gamemanager"
)

// GameService предоставляет операции игрового конечного автомата:
// создание игры, ответ на текущий вопрос, забор денег и подсказки.
// Каждая игра мутируется только сессией её владельца; конкурентные
// запросы сериализуются на уровне хранилища.
type GameService struct {
	gameRepo     repository.GameRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	cacheRepo    repository.CacheRepository
	ladder       *gamemanager.LadderBuilder
	hints        *gamemanager.HintEngine
	config       *gamemanager.Config

	mu  sync.Mutex // защищает rng при создании перестановок
	rng *rand.Rand
}

// NewGameService создает новый игровой сервис. Источник случайности
// передаётся явно: в тестах он сидируется детерминированно.
func NewGameService(
	gameRepo repository.GameRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	config *gamemanager.Config,
	rng *rand.Rand,
) *GameService {
	// Движок подсказок получает отдельный источник, производный от
	// переданного: rand.Rand не потокобезопасен, а подсказки и создание
	// игр защищаются разными мьютексами
	hintRng := rand.New(rand.NewSource(rng.Int63()))

	return &GameService{
		gameRepo:     gameRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
		ladder:       gamemanager.NewLadderBuilder(questionRepo),
		hints:        gamemanager.NewHintEngine(config, hintRng),
		config:       config,
		rng:          rng,
	}
}

// CreateGame создает новую игру для игрока: собирает лестницу из 15
// вопросов и замораживает перестановки слотов. Пока у игрока есть
// незавершённая игра, создание отклоняется с ErrActiveGameExists.
func (s *GameService) CreateGame(userID uint) (*entity.Game, error) {
	// Короткоживущая блокировка отсекает одновременные create одного
	// игрока до обращения к БД. Гарантию даёт частичный уникальный
	// индекс, поэтому ошибка Redis не фатальна.
	lockKey := createLockKey(userID)
	acquired, err := s.cacheRepo.SetNX(lockKey, uuid.NewString(), s.config.CreateLockTTL)
	if err != nil {
		log.Printf("[GameService] WARNING: Ошибка Redis при блокировке создания для user #%d: %v", userID, err)
	} else if !acquired {
		return nil, fmt.Errorf("%w: create already in progress", apperrors.ErrActiveGameExists)
	} else {
		defer func() {
			if err := s.cacheRepo.Delete(lockKey); err != nil {
				log.Printf("[GameService] WARNING: не удалось снять блокировку %s: %v", lockKey, err)
			}
		}()
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	if _, err := s.gameRepo.GetActiveByUserID(userID); err == nil {
		return nil, fmt.Errorf("%w: user #%d", apperrors.ErrActiveGameExists, userID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	questions, err := s.ladder.Build(s.config.LevelCount)
	if err != nil {
		return nil, err
	}

	game := &entity.Game{
		UserID:        userID,
		GameQuestions: make([]entity.GameQuestion, 0, len(questions)),
	}

	s.mu.Lock()
	for i := range questions {
		game.GameQuestions = append(game.GameQuestions, *entity.NewGameQuestion(questions[i].ID, s.rng))
	}
	s.mu.Unlock()

	// Проигрыш гонки за частичный уникальный индекс отображается
	// репозиторием в ErrActiveGameExists
	if err := s.gameRepo.Create(game); err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(activeGameKey(userID), game.ID, s.config.ActiveGameCacheTTL); err != nil {
		log.Printf("[GameService] WARNING: не удалось закешировать активную игру #%d: %v", game.ID, err)
	}

	log.Printf("[GameService] Создана игра #%d для user #%d (%d ступеней)", game.ID, userID, len(game.GameQuestions))

	// Возвращаем игру с предзагруженными вопросами лестницы
	return s.gameRepo.GetByID(game.ID)
}

// GetGame возвращает игру, проверяя владение: чужая игра недоступна
func (s *GameService) GetGame(gameID, userID uint) (*entity.Game, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}
	if game.UserID != userID {
		return nil, fmt.Errorf("%w: game #%d belongs to another player", apperrors.ErrForbidden, gameID)
	}
	return game, nil
}

// GetActiveGame возвращает незавершённую игру игрока. Сначала проверяется
// кеш id активной игры, затем БД.
func (s *GameService) GetActiveGame(userID uint) (*entity.Game, error) {
	cacheKey := activeGameKey(userID)

	if cached, err := s.cacheRepo.Get(cacheKey); err == nil {
		if gameID, convErr := strconv.ParseUint(cached, 10, 32); convErr == nil {
			game, getErr := s.gameRepo.GetByID(uint(gameID))
			if getErr == nil && game.UserID == userID && !game.Finished() {
				return game, nil
			}
		}
		// Кеш устарел (игра завершена или не найдена)
		if delErr := s.cacheRepo.Delete(cacheKey); delErr != nil {
			log.Printf("[GameService] WARNING: не удалось удалить устаревший ключ %s: %v", cacheKey, delErr)
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[GameService] WARNING: Ошибка Redis при чтении %s: %v", cacheKey, err)
	}

	game, err := s.gameRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(cacheKey, game.ID, s.config.ActiveGameCacheTTL); err != nil {
		log.Printf("[GameService] WARNING: не удалось закешировать активную игру #%d: %v", game.ID, err)
	}
	return game, nil
}

// AnswerCurrentQuestion обрабатывает ответ игрока на вопрос текущего
// уровня. Возвращает обновлённую игру и признак правильности ответа.
func (s *GameService) AnswerCurrentQuestion(gameID, userID uint, letter string) (*entity.Game, bool, error) {
	game, err := s.GetGame(gameID, userID)
	if err != nil {
		return nil, false, err
	}

	// Уровень до перехода входит в guard персистенции: конкурентный
	// ответ, продвинувший игру после нашего чтения, не будет затёрт
	priorLevel := game.CurrentLevel

	correct, err := game.AnswerCurrentQuestion(letter, time.Now())
	if err != nil {
		return nil, false, err
	}

	if err := s.persistTransition(game, priorLevel); err != nil {
		return nil, false, err
	}

	if game.Finished() {
		log.Printf("[GameService] Игра #%d завершена: status=%s, prize=%d", game.ID, game.Status(), game.Prize)
	}
	return game, correct, nil
}

// TakeMoney добровольно останавливает игру, фиксируя приз за высший
// взятый уровень
func (s *GameService) TakeMoney(gameID, userID uint) (*entity.Game, error) {
	game, err := s.GetGame(gameID, userID)
	if err != nil {
		return nil, err
	}

	priorLevel := game.CurrentLevel
	if err := game.TakeMoney(time.Now()); err != nil {
		return nil, err
	}

	if err := s.persistTransition(game, priorLevel); err != nil {
		return nil, err
	}

	log.Printf("[GameService] Игрок #%d забрал %d в игре #%d", userID, game.Prize, game.ID)
	return game, nil
}

// UseFiftyFifty убирает два неправильных варианта текущего вопроса.
// Подсказка доступна один раз за игру.
func (s *GameService) UseFiftyFifty(gameID, userID uint) ([]string, error) {
	game, question, err := s.useHint(gameID, userID, entity.HintFiftyFifty)
	if err != nil {
		return nil, err
	}

	question.HelpHash.FiftyFifty = s.hints.FiftyFifty(question)
	if err := s.gameRepo.UpdateHints(game, question); err != nil {
		return nil, err
	}
	return question.HelpHash.FiftyFifty, nil
}

// UseAudienceHelp возвращает распределение голосов зала по четырём буквам
func (s *GameService) UseAudienceHelp(gameID, userID uint) (map[string]int, error) {
	game, question, err := s.useHint(gameID, userID, entity.HintAudienceHelp)
	if err != nil {
		return nil, err
	}

	question.HelpHash.AudienceHelp = s.hints.AudienceHelp(question)
	if err := s.gameRepo.UpdateHints(game, question); err != nil {
		return nil, err
	}
	return question.HelpHash.AudienceHelp, nil
}

// UseFriendCall возвращает текст совета друга
func (s *GameService) UseFriendCall(gameID, userID uint) (string, error) {
	game, question, err := s.useHint(gameID, userID, entity.HintFriendCall)
	if err != nil {
		return "", err
	}

	question.HelpHash.FriendCall = s.hints.FriendCall(question)
	if err := s.gameRepo.UpdateHints(game, question); err != nil {
		return "", err
	}
	return question.HelpHash.FriendCall, nil
}

// ListUserGames возвращает игры игрока с пагинацией
func (s *GameService) ListUserGames(userID uint, page, pageSize int) ([]entity.Game, int64, error) {
	offset := (page - 1) * pageSize
	return s.gameRepo.ListByUserID(userID, pageSize, offset)
}

// useHint загружает игру, проверяет владение и помечает подсказку
// использованной. Отказ не мутирует ни игру, ни ступень.
func (s *GameService) useHint(gameID, userID uint, kind string) (*entity.Game, *entity.GameQuestion, error) {
	game, err := s.GetGame(gameID, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := game.UseHint(kind); err != nil {
		return nil, nil, err
	}

	question := game.CurrentGameQuestion()
	if question == nil {
		return nil, nil, apperrors.ErrGameAlreadyFinished
	}

	log.Printf("[GameService] Подсказка %s использована в игре #%d на уровне %d", kind, game.ID, game.CurrentLevel)
	return game, question, nil
}

// persistTransition сохраняет переход состояния через репозиторий
// (guard по priorLevel и finished_at живёт там) и инвалидирует кеш
// активной игры при завершении
func (s *GameService) persistTransition(game *entity.Game, priorLevel int) error {
	if err := s.gameRepo.PersistTransition(game, priorLevel); err != nil {
		return err
	}

	if game.Finished() {
		if delErr := s.cacheRepo.Delete(activeGameKey(game.UserID)); delErr != nil {
			log.Printf("[GameService] WARNING: не удалось удалить кеш активной игры user #%d: %v", game.UserID, delErr)
		}
	}
	return nil
}

func createLockKey(userID uint) string {
	return fmt.Sprintf("lock:game:create:%d", userID)
}

func activeGameKey(userID uint) string {
	return fmt.Sprintf("game:active:user:%d", userID)
}
