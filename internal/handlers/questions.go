package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/askcoin-app/backend/internal/ledger"
	"github.com/askcoin-app/backend/internal/models"
	"github.com/askcoin-app/backend/internal/realtime"
)

type QuestionHandler struct {
	coins *ledger.Ledger
	hub   *realtime.Hub
}

func NewQuestionHandler(coins *ledger.Ledger, hub *realtime.Hub) *QuestionHandler {
	return &QuestionHandler{coins: coins, hub: hub}
}

func questionTopic(id int) string {
	return "questions/" + strconv.Itoa(id)
}

// GetQuestions returns all questions, newest first.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	questions, err := h.coins.ListQuestions(c.Request.Context())
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	// If no questions, return empty array not null
	if questions == nil {
		questions = []models.Question{}
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question by ID, with its answer count.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	question, err := h.coins.GetQuestion(c.Request.Context(), questionID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	answerCount, err := h.coins.AnswerCount(c.Request.Context(), questionID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           question.ID,
		"title":        question.Title,
		"content":      question.Content,
		"author_id":    question.AuthorID,
		"user":         question.User,
		"score":        question.Score,
		"answer_count": answerCount,
		"created_at":   question.CreatedAt,
		"updated_at":   question.UpdatedAt,
	})
}

// CreateQuestion creates a new question (PROTECTED). Costs QuestionCost
// coins, deducted atomically with the creation.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var input struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	question, err := h.coins.CreateQuestion(c.Request.Context(), userID, input.Title, input.Content)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: "questions", Name: realtime.EventCreated, ID: question.ID})

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion updates a question's text (PROTECTED - author only).
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.coins.UpdateQuestion(c.Request.Context(), questionID, userID, input.Title, input.Content); err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: questionTopic(questionID), Name: realtime.EventUpdated, ID: questionID})

	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully"})
}

// DeleteQuestion deletes a question and its votes and answers (PROTECTED -
// author only). No coin refund.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.coins.DeleteQuestion(c.Request.Context(), questionID, userID); err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: "questions", Name: realtime.EventDeleted, ID: questionID})
	h.hub.Publish(realtime.Event{Topic: questionTopic(questionID), Name: realtime.EventDeleted, ID: questionID})

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// VoteQuestion records the caller's vote on a question (PROTECTED).
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote value must be -1 or 1"})
		return
	}

	if err := h.coins.VoteQuestion(c.Request.Context(), questionID, userID, input.Value); err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: questionTopic(questionID), Name: realtime.EventVoted, ID: questionID})

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}
