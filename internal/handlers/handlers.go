package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/askcoin-app/backend/internal/ledger"
	"github.com/askcoin-app/backend/internal/realtime"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	User     *UserHandler
	Realtime *RealtimeHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, coins *ledger.Ledger, hub *realtime.Hub) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(db, coins),
		Question: NewQuestionHandler(coins, hub),
		Answer:   NewAnswerHandler(coins, hub),
		User:     NewUserHandler(coins),
		Realtime: NewRealtimeHandler(hub),
	}
}

// currentUserID reads the authenticated user's ID set by the auth
// middleware.
func currentUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	switch v := userID.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type"})
		return 0, false
	}
}

// respondLedgerError maps ledger sentinels onto HTTP statuses. Anything
// unrecognized is a 500.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, ledger.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the author"})
	case errors.Is(err, ledger.ErrSelfVote):
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot vote on your own content"})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Not enough coins"})
	case errors.Is(err, ledger.ErrInvalidVoteValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote value must be -1 or 1"})
	case errors.Is(err, ledger.ErrTransactionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict, please retry"})
	case errors.Is(err, ledger.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
