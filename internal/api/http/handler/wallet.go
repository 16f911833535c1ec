package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
	"github.com/solvault/solvault-server/internal/service"
)

// Wallet handles wallet lifecycle and disclosure endpoints.
type Wallet struct {
	vaultService   *service.Vault
	passkeyService *service.Passkey
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewWallet creates a Wallet handler.
func NewWallet(
	vaultService *service.Vault,
	passkeyService *service.Passkey,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Wallet {
	return &Wallet{
		vaultService:   vaultService,
		passkeyService: passkeyService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Create handles POST /api/wallet. The key-derivation credential is the user's
// first registered passkey; users without one get the synthetic social
// fallback inside the service.
func (h *Wallet) Create(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var credentialRef string
	passkeys, err := h.passkeyService.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Wallet handler: failed to list passkeys, falling back to social credential",
			"user_id", userID,
			"error", err.Error())
	} else if len(passkeys) > 0 {
		credentialRef = passkeys[0].CredentialID
	}

	result, err := h.vaultService.CreateWallet(c.Request.Context(), userID, credentialRef)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"address":  result.Address,
		"mnemonic": result.Mnemonic,
	})
}

// ExportKey handles POST /api/wallet/export-key.
func (h *Wallet) ExportKey(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.vaultService.ExportPrivateKey(c.Request.Context(), userID, requestMeta(c.Request))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"privateKey": result.PrivateKey,
		"address":    result.Address,
	})
}

// RevealPhrase handles POST /api/wallet/reveal-phrase.
func (h *Wallet) RevealPhrase(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mnemonic, err := h.vaultService.RevealMnemonic(c.Request.Context(), userID, requestMeta(c.Request))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"mnemonic": mnemonic,
	})
}
