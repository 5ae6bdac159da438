package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/millionaire-api/internal/domain/entity"
	"github.com/yourusername/millionaire-api/internal/domain/repository"
)

// QuestionHandler обрабатывает запросы пополнения каталога вопросов
type QuestionHandler struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionHandler создает новый обработчик каталога
func NewQuestionHandler(questionRepo repository.QuestionRepository) *QuestionHandler {
	return &QuestionHandler{questionRepo: questionRepo}
}

// QuestionInput представляет один вопрос каталога во входном формате
type QuestionInput struct {
	Text          string   `json:"text" binding:"required"`
	Level         int      `json:"level"`
	Answers       []string `json:"answers" binding:"required"`
	CorrectAnswer int      `json:"correct_answer"`
}

// AddQuestionsRequest представляет запрос на пакетное добавление вопросов
type AddQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

func (h *QuestionHandler) validate(input *QuestionInput) error {
	question := entity.Question{
		Text:          input.Text,
		Level:         input.Level,
		Answers:       entity.StringArray(input.Answers),
		CorrectAnswer: input.CorrectAnswer,
	}
	if !question.IsValidLevel() {
		return fmt.Errorf("level %d is out of range [%d, %d]", input.Level, entity.MinQuestionLevel, entity.MaxQuestionLevel)
	}
	if len(input.Answers) != entity.AnswerCount {
		return fmt.Errorf("question must have exactly %d answers, got %d", entity.AnswerCount, len(input.Answers))
	}
	if !question.IsValidAnswerIndex(input.CorrectAnswer) {
		return fmt.Errorf("correct_answer %d is out of range", input.CorrectAnswer)
	}
	return nil
}

// AddQuestions пакетно добавляет вопросы в каталог
func (h *QuestionHandler) AddQuestions(c *gin.Context) {
	var req AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for i := range req.Questions {
		input := &req.Questions[i]
		if err := h.validate(input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("question #%d: %v", i, err)})
			return
		}
		questions = append(questions, entity.Question{
			Text:          input.Text,
			Level:         input.Level,
			Answers:       entity.StringArray(input.Answers),
			CorrectAnswer: input.CorrectAnswer,
		})
	}

	if err := h.questionRepo.CreateBatch(questions); err != nil {
		log.Printf("[QuestionHandler] Ошибка при добавлении %d вопросов: %v", len(questions), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add questions"})
		return
	}

	log.Printf("[QuestionHandler] Добавлено %d вопросов в каталог", len(questions))
	c.JSON(http.StatusCreated, gin.H{"added": len(questions)})
}

// GetCatalogStats возвращает количество вопросов на каждом уровне.
// Уровни, где каталога не хватит даже на одну лестницу, видны как нули.
func (h *QuestionHandler) GetCatalogStats(c *gin.Context) {
	stats := make(map[string]int64, entity.MaxQuestionLevel+1)
	for level := entity.MinQuestionLevel; level <= entity.MaxQuestionLevel; level++ {
		count, err := h.questionRepo.CountByLevel(level)
		if err != nil {
			log.Printf("[QuestionHandler] Ошибка при подсчёте вопросов уровня %d: %v", level, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		stats[fmt.Sprintf("%d", level)] = count
	}

	c.JSON(http.StatusOK, gin.H{"levels": stats})
}
