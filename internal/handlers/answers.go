package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/askcoin-app/backend/internal/ledger"
	"github.com/askcoin-app/backend/internal/models"
	"github.com/askcoin-app/backend/internal/realtime"
)

type AnswerHandler struct {
	coins *ledger.Ledger
	hub   *realtime.Hub
}

func NewAnswerHandler(coins *ledger.Ledger, hub *realtime.Hub) *AnswerHandler {
	return &AnswerHandler{coins: coins, hub: hub}
}

func answersTopic(questionID int) string {
	return "questions/" + strconv.Itoa(questionID) + "/answers"
}

// GetAnswers returns all answers for a question, newest first.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	answers, err := h.coins.ListAnswers(c.Request.Context(), questionID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if answers == nil {
		answers = []models.Answer{}
	}

	c.JSON(http.StatusOK, answers)
}

// CreateAnswer creates an answer under a question (PROTECTED). Costs
// AnswerCost coins, deducted atomically with the creation.
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
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
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	answer, err := h.coins.CreateAnswer(c.Request.Context(), questionID, userID, input.Content)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: answersTopic(questionID), Name: realtime.EventCreated, ID: answer.ID})

	c.JSON(http.StatusCreated, answer)
}

// UpdateAnswer updates an answer's text (PROTECTED - author only).
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}
	answerID, err := strconv.Atoi(c.Param("answerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	if err := h.coins.UpdateAnswer(c.Request.Context(), questionID, answerID, userID, input.Content); err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: answersTopic(questionID), Name: realtime.EventUpdated, ID: answerID})

	c.JSON(http.StatusOK, gin.H{"message": "Answer updated successfully"})
}

// DeleteAnswer deletes an answer and its votes (PROTECTED - author only).
// No coin refund.
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}
	answerID, err := strconv.Atoi(c.Param("answerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.coins.DeleteAnswer(c.Request.Context(), questionID, answerID, userID); err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: answersTopic(questionID), Name: realtime.EventDeleted, ID: answerID})

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// VoteAnswer records the caller's vote on an answer (PROTECTED).
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}
	answerID, err := strconv.Atoi(c.Param("answerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
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

	if err := h.coins.VoteAnswer(c.Request.Context(), questionID, answerID, userID, input.Value); err != nil {
		respondLedgerError(c, err)
		return
	}

	h.hub.Publish(realtime.Event{Topic: answersTopic(questionID), Name: realtime.EventVoted, ID: answerID})

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}
