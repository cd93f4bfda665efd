package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/askcoin-app/backend/internal/ledger"
)

type UserHandler struct {
	coins *ledger.Ledger
}

func NewUserHandler(coins *ledger.Ledger) *UserHandler {
	return &UserHandler{coins: coins}
}

// GetUserProfile returns a user's public profile.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.coins.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"coins":      user.Coins,
		"level":      user.Level,
		"created_at": user.CreatedAt,
	})
}

// GetAffordability tells the client whether the caller can currently pay
// the given cost (PROTECTED). Advisory only; the creation transaction
// makes the authoritative check.
func (h *UserHandler) GetAffordability(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cost, err := strconv.Atoi(c.Query("cost"))
	if err != nil || cost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cost"})
		return
	}

	affordable, err := h.coins.CanAfford(c.Request.Context(), userID, cost)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"affordable": affordable, "cost": cost})
}
