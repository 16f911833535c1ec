package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/solvault/solvault-server/internal/api/http/context"
	"github.com/solvault/solvault-server/internal/api/http/router"
	"github.com/solvault/solvault-server/internal/config"
	"github.com/solvault/solvault-server/internal/crypto"
	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
	"github.com/solvault/solvault-server/internal/ratelimit"
	"github.com/solvault/solvault-server/internal/repository/postgres"
	"github.com/solvault/solvault-server/internal/server"
	"github.com/solvault/solvault-server/internal/service"
	"github.com/solvault/solvault-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	walletRepo := postgres.NewWalletRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	passkeyRepo := postgres.NewPasskeyRepository(db)

	limiter := ratelimit.New(model.RateLimits, cfg.RateLimit.SweepInterval)
	defer limiter.Close()

	kdf := crypto.NewKDF(cfg.KDF.Iterations)

	governor := service.NewGovernor(auditRepo, limiter, logger)
	vaultService := service.NewVault(walletRepo, userRepo, governor, kdf, logger)
	passkeyService := service.NewPasskey(passkeyRepo, governor, logger)

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	ctxMgr := httpctx.NewManager()

	r := router.New(vaultService, passkeyService, governor, tokenManager, ctxMgr, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
