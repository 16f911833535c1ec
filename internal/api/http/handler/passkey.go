package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
	"github.com/solvault/solvault-server/internal/service"
)

// PasskeyHandler handles passkey management endpoints.
type PasskeyHandler struct {
	passkeyService *service.Passkey
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewPasskey creates a PasskeyHandler.
func NewPasskey(passkeyService *service.Passkey, contextManager model.ContextManager, logger *logger.Logger) *PasskeyHandler {
	return &PasskeyHandler{
		passkeyService: passkeyService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type renamePasskeyRequest struct {
	PasskeyID string `json:"passkeyId" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

type deletePasskeyRequest struct {
	PasskeyID string `json:"passkeyId" binding:"required"`
}

type passkeyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// List handles GET /api/passkeys.
func (h *PasskeyHandler) List(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	passkeys, err := h.passkeyService.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]passkeyResponse, 0, len(passkeys))
	for _, p := range passkeys {
		resp = append(resp, passkeyResponse{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"passkeys": resp,
	})
}

// Rename handles POST /api/passkeys/rename.
func (h *PasskeyHandler) Rename(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req renamePasskeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passkey ID and name are required"})
		return
	}

	renamed, err := h.passkeyService.Rename(c.Request.Context(), userID, req.PasskeyID, req.Name, requestMeta(c.Request))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"passkey": passkeyResponse{ID: renamed.ID, Name: renamed.Name, CreatedAt: renamed.CreatedAt},
	})
}

// Delete handles POST /api/passkeys/delete.
func (h *PasskeyHandler) Delete(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req deletePasskeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passkey ID is required"})
		return
	}

	if err := h.passkeyService.Remove(c.Request.Context(), userID, req.PasskeyID, requestMeta(c.Request)); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
