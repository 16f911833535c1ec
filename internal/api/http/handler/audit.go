package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
	"github.com/solvault/solvault-server/internal/service"
)

// Audit handles audit log listing.
type Audit struct {
	governor       *service.Governor
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAudit creates an Audit handler.
func NewAudit(governor *service.Governor, contextManager model.ContextManager, logger *logger.Logger) *Audit {
	return &Audit{
		governor:       governor,
		contextManager: contextManager,
		logger:         logger,
	}
}

type auditLogResponse struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	IPAddress    string         `json:"ipAddress"`
	UserAgent    string         `json:"userAgent"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// List handles GET /api/audit-logs, returning the user's most recent entries.
func (h *Audit) List(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logs, err := h.governor.ListLogs(c.Request.Context(), userID, service.DefaultAuditLogLimit)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]auditLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, auditLogResponse{
			ID:           l.ID.String(),
			Action:       string(l.Action),
			IPAddress:    l.IPAddress,
			UserAgent:    l.UserAgent,
			Success:      l.Success,
			ErrorMessage: l.ErrorMessage,
			Metadata:     l.Metadata,
			CreatedAt:    l.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    resp,
	})
}
