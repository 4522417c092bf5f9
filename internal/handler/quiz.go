package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ordforrad/api/internal/middleware"
	"github.com/ordforrad/api/internal/quiz"
	"github.com/ordforrad/api/internal/store"
)

const maxQuizCount = 50

type QuizHandler struct {
	progress     *store.ProgressStore
	words        *store.WordStore
	quizzes      *store.QuizStore
	newGenerator func() *quiz.Generator
	now          func() time.Time
}

func NewQuizHandler(progress *store.ProgressStore, words *store.WordStore, quizzes *store.QuizStore) *QuizHandler {
	return &QuizHandler{
		progress: progress,
		words:    words,
		quizzes:  quizzes,
		newGenerator: func() *quiz.Generator {
			return quiz.NewGenerator(nil)
		},
		now: time.Now,
	}
}

type GenerateQuizRequest struct {
	Type  string `json:"type" binding:"required"`
	Count int    `json:"count"`
}

type QuizResponse struct {
	ID        string          `json:"id"`
	Type      quiz.Type       `json:"type"`
	Questions []quiz.Question `json:"questions"`
}

// Generate builds a quiz from the caller's learned words.
func (h *QuizHandler) Generate(c *gin.Context) {
	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}

	quizType, ok := quiz.ParseType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown quiz type", "types": quiz.Types})
		return
	}
	count := req.Count
	if count <= 0 {
		count = quiz.DefaultCount
	}
	if count > maxQuizCount {
		count = maxQuizCount
	}

	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	refs, err := h.progress.LearnedRefs(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch progress"})
		return
	}
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		if id, ok := ref.WordID(); ok {
			ids = append(ids, id)
		}
	}
	words, err := h.words.ListByIDs(ctx, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch words"})
		return
	}

	questions, err := h.newGenerator().Generate(words, quizType, count)
	if err != nil {
		var insufficient *quiz.InsufficientWordsError
		if errors.As(err, &insufficient) {
			middleware.RecordQuizGenerated(string(quizType), "not_enough_words")
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    err.Error(),
				"code":     "NOT_ENOUGH_WORDS",
				"eligible": insufficient.Eligible,
				"required": insufficient.Required,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate quiz"})
		return
	}

	id := uuid.NewString()
	if _, err := h.quizzes.Create(ctx, id, userID, string(quizType), questions, len(questions)); err != nil {
		log.Printf("[Quiz] Failed to save quiz for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save quiz"})
		return
	}
	middleware.RecordQuizGenerated(string(quizType), "ok")

	c.JSON(http.StatusCreated, QuizResponse{ID: id, Type: quizType, Questions: questions})
}

// Complete stamps the quiz as practiced with the caller's score.
func (h *QuizHandler) Complete(c *gin.Context) {
	var req struct {
		Correct *int `json:"correct" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correct is required"})
		return
	}

	session, err := h.quizzes.Complete(c.Request.Context(), middleware.UserID(c), c.Param("id"), *req.Correct, h.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		return
	case errors.Is(err, store.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete quiz"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// History lists the caller's practiced quizzes, newest first.
func (h *QuizHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	sessions, err := h.quizzes.ListPracticed(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch quiz history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
