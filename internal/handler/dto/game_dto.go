package dto

import (
	"time"

	"github.com/yourusername/millionaire-api/internal/domain/entity"
)

// GameQuestionResponse представляет вопрос текущего уровня для клиента.
// Правильная буква никогда не попадает в ответ.
type GameQuestionResponse struct {
	Level    int               `json:"level"`
	Text     string            `json:"text"`
	Variants map[string]string `json:"variants"`
	HelpHash entity.HelpHash   `json:"help_hash"`
}

// GameResponse представляет игру в формате для ответа клиенту
type GameResponse struct {
	ID            uint       `json:"id"`
	Status        string     `json:"status"`
	CurrentLevel  int        `json:"current_level"`
	PreviousLevel int        `json:"previous_level"`
	Prize         int        `json:"prize"`
	TimeLeftSec   int        `json:"time_left_sec"`
	CreatedAt     time.Time  `json:"created_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`

	FiftyFiftyUsed   bool `json:"fifty_fifty_used"`
	AudienceHelpUsed bool `json:"audience_help_used"`
	FriendCallUsed   bool `json:"friend_call_used"`

	CurrentQuestion *GameQuestionResponse `json:"current_question,omitempty"`
}

// GameSummaryResponse представляет игру в списке истории (без лестницы)
type GameSummaryResponse struct {
	ID           uint       `json:"id"`
	Status       string     `json:"status"`
	CurrentLevel int        `json:"current_level"`
	Prize        int        `json:"prize"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// PaginatedGamesResponse представляет пагинированную историю игр
type PaginatedGamesResponse struct {
	Games   []GameSummaryResponse `json:"games"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

// UserResponse представляет профиль игрока
type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Balance     int64  `json:"balance"`
	GamesPlayed int64  `json:"games_played"`
}

// NewGameResponse создает DTO для игры. Вопрос текущего уровня включается
// только пока игра не завершена.
func NewGameResponse(game *entity.Game, now time.Time) *GameResponse {
	if game == nil {
		return nil
	}

	resp := &GameResponse{
		ID:               game.ID,
		Status:           game.Status(),
		CurrentLevel:     game.CurrentLevel,
		PreviousLevel:    game.PreviousLevel(),
		Prize:            game.Prize,
		TimeLeftSec:      int(game.TimeLeft(now).Seconds()),
		CreatedAt:        game.CreatedAt,
		FinishedAt:       game.FinishedAt,
		FiftyFiftyUsed:   game.FiftyFiftyUsed,
		AudienceHelpUsed: game.AudienceHelpUsed,
		FriendCallUsed:   game.FriendCallUsed,
	}

	if !game.Finished() {
		if question := game.CurrentGameQuestion(); question != nil {
			resp.CurrentQuestion = &GameQuestionResponse{
				Level:    question.Level(),
				Text:     question.Text(),
				Variants: question.Variants(),
				HelpHash: question.HelpHash,
			}
		}
	}

	return resp
}

// NewPaginatedGamesResponse создает DTO для истории игр
func NewPaginatedGamesResponse(games []entity.Game, total int64, page, perPage int) *PaginatedGamesResponse {
	summaries := make([]GameSummaryResponse, 0, len(games))
	for i := range games {
		g := &games[i]
		summaries = append(summaries, GameSummaryResponse{
			ID:           g.ID,
			Status:       g.Status(),
			CurrentLevel: g.CurrentLevel,
			Prize:        g.Prize,
			CreatedAt:    g.CreatedAt,
			FinishedAt:   g.FinishedAt,
		})
	}

	return &PaginatedGamesResponse{
		Games:   summaries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}

// NewUserResponse создает DTO для профиля игрока
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Balance:     user.Balance,
		GamesPlayed: user.GamesPlayed,
	}
}
