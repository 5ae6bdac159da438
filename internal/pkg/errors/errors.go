package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда игра принадлежит другому игроку.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")
)

// Ошибки игрового домена. Все они — детерминированные отказы конкретного
// запроса: вызывающая сторона не должна их ретраить.
var (
	// ErrActiveGameExists возвращается при попытке создать вторую игру,
	// пока у игрока есть незавершённая.
	ErrActiveGameExists = errors.New("player already has an active game")

	// ErrGameAlreadyFinished возвращается при любой мутации завершённой игры.
	ErrGameAlreadyFinished = errors.New("game is already finished")

	// ErrInsufficientCatalog возвращается, когда каталог не может дать
	// по одному уникальному вопросу на каждый уровень лестницы.
	ErrInsufficientCatalog = errors.New("not enough distinct questions in catalog")

	// ErrHintAlreadyUsed возвращается при повторном использовании подсказки.
	ErrHintAlreadyUsed = errors.New("hint already used in this game")

	// ErrInvalidAnswerLetter возвращается, если буква ответа вне диапазона a..d.
	ErrInvalidAnswerLetter = errors.New("answer letter must be one of a, b, c, d")

	// ErrGameStateConflict возвращается проигравшему гонку за переход
	// состояния: игра была завершена или продвинута конкурентным запросом.
	ErrGameStateConflict = errors.New("game was modified by a concurrent request")
)
