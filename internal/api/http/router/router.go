package router

import (
	"github.com/gin-gonic/gin"

	"github.com/solvault/solvault-server/internal/api/http/handler"
	"github.com/solvault/solvault-server/internal/api/http/middleware"
	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
	"github.com/solvault/solvault-server/internal/service"
)

// Router wires services into the HTTP surface.
type Router struct {
	vaultService   *service.Vault
	passkeyService *service.Passkey
	governor       *service.Governor
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a Router instance.
func New(
	vaultService *service.Vault,
	passkeyService *service.Passkey,
	governor *service.Governor,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		vaultService:   vaultService,
		passkeyService: passkeyService,
		governor:       governor,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register sets up the gin engine with logging and authentication middleware
// and all API routes. Every /api route requires a valid session token.
func (r *Router) Register() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)

	engine.Use(logging.Handle)

	walletHandler := handler.NewWallet(r.vaultService, r.passkeyService, r.contextManager, r.logger)
	auditHandler := handler.NewAudit(r.governor, r.contextManager, r.logger)
	passkeyHandler := handler.NewPasskey(r.passkeyService, r.contextManager, r.logger)

	api := engine.Group("/api", authenticate.Handle)
	{
		api.POST("/wallet", walletHandler.Create)
		api.POST("/wallet/export-key", walletHandler.ExportKey)
		api.POST("/wallet/reveal-phrase", walletHandler.RevealPhrase)
		api.GET("/audit-logs", auditHandler.List)
		api.GET("/passkeys", passkeyHandler.List)
		api.POST("/passkeys/rename", passkeyHandler.Rename)
		api.POST("/passkeys/delete", passkeyHandler.Delete)
	}

	return engine
}
