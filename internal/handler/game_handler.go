package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/millionaire-api/internal/handler/dto"
	apperrors "github.com/yourusername/millionaire-api/internal/pkg/errors"
	"github.com/yourusername/millionaire-api/internal/service"
)

// GameHandler обрабатывает запросы, связанные с играми
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// CreateGame обрабатывает запрос на создание новой игры
func (h *GameHandler) CreateGame(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	game, err := h.gameService.CreateGame(userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewGameResponse(game, time.Now()))
}

// GetGame возвращает игру игрока; чужая игра недоступна
func (h *GameHandler) GetGame(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	gameID := c.MustGet("gameID").(uint) // Получаем из контекста

	game, err := h.gameService.GetGame(gameID, userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameResponse(game, time.Now()))
}

// GetCurrentGame возвращает незавершённую игру игрока
func (h *GameHandler) GetCurrentGame(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	game, err := h.gameService.GetActiveGame(userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameResponse(game, time.Now()))
}

// AnswerRequest представляет запрос с буквой ответа
type AnswerRequest struct {
	Letter string `json:"letter" binding:"required"`
}

// AnswerQuestion обрабатывает ответ на вопрос текущего уровня
func (h *GameHandler) AnswerQuestion(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	gameID := c.MustGet("gameID").(uint)

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, correct, err := h.gameService.AnswerCurrentQuestion(gameID, userID, req.Letter)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"correct": correct,
		"game":    dto.NewGameResponse(game, time.Now()),
	})
}

// TakeMoney обрабатывает добровольную остановку игры
func (h *GameHandler) TakeMoney(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	gameID := c.MustGet("gameID").(uint)

	game, err := h.gameService.TakeMoney(gameID, userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prize": game.Prize,
		"game":  dto.NewGameResponse(game, time.Now()),
	})
}

// FiftyFifty обрабатывает подсказку 50/50
func (h *GameHandler) FiftyFifty(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	gameID := c.MustGet("gameID").(uint)

	keys, err := h.gameService.UseFiftyFifty(gameID, userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fifty_fifty": keys})
}

// AudienceHelp обрабатывает подсказку "помощь зала"
func (h *GameHandler) AudienceHelp(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	gameID := c.MustGet("gameID").(uint)

	votes, err := h.gameService.UseAudienceHelp(gameID, userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audience_help": votes})
}

// FriendCall обрабатывает подсказку "звонок другу"
func (h *GameHandler) FriendCall(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	gameID := c.MustGet("gameID").(uint)

	advice, err := h.gameService.UseFriendCall(gameID, userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friend_call": advice})
}

// ListMyGames возвращает историю игр игрока с пагинацией
func (h *GameHandler) ListMyGames(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	games, total, err := h.gameService.ListUserGames(userID, page, perPage)
	if err != nil {
		log.Printf("[GameHandler] Ошибка при получении истории игр user #%d: %v", userID, err)
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedGamesResponse(games, total, page, perPage))
}

// handleGameError отображает ошибки домена в HTTP статусы
func (h *GameHandler) handleGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "game belongs to another player"})
	case errors.Is(err, apperrors.ErrActiveGameExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrGameAlreadyFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrGameStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrHintAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidAnswerLetter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientCatalog):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[GameHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
