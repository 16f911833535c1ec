package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solvault/solvault-server/internal/model"
)

// handleError maps service errors to HTTP responses. Integrity failures are
// reported generically to avoid leaking cryptographic detail.
func handleError(c *gin.Context, err error) {
	var rlErr *model.RateLimitError
	if errors.As(err, &rlErr) {
		minutes := (rlErr.ResetSeconds() + 59) / 60
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     fmt.Sprintf("Rate limit exceeded. Please try again in %d minutes.", minutes),
			"resetTime": rlErr.ResetSeconds(),
		})
		return
	}

	switch {
	case errors.Is(err, model.ErrWalletExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already has a wallet"})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, model.ErrMnemonicUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Recovery phrase not available. This wallet was created before recovery phrase storage was implemented.",
			"needsMigration": true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
