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

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/roundrobin/internal/api/grpc/context"
	"github.com/dtroode/roundrobin/internal/api/grpc/router"
	grpcServer "github.com/dtroode/roundrobin/internal/api/grpc/server"
	"github.com/dtroode/roundrobin/internal/config"
	"github.com/dtroode/roundrobin/internal/events"
	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/password"
	"github.com/dtroode/roundrobin/internal/phone"
	"github.com/dtroode/roundrobin/internal/repository/postgres"
	"github.com/dtroode/roundrobin/internal/roster"
	"github.com/dtroode/roundrobin/internal/server"
	"github.com/dtroode/roundrobin/internal/service"
	storage "github.com/dtroode/roundrobin/internal/storage/minio"
	"github.com/dtroode/roundrobin/internal/token"
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
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	identityRepo := postgres.NewIdentityRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	entryRepo := postgres.NewEntryRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, cfg.JWT.RefreshTTL, logger)

	hasher := password.Default()
	hasher.Time = cfg.Password.Time
	hasher.MemoryKiB = cfg.Password.MemoryKiB
	hasher.Threads = cfg.Password.Threads

	authService := service.NewAuth(identityRepo, membershipRepo, tokenService, hasher, logger)
	accountService := service.NewAccountService(accountRepo, membershipRepo, logger)

	bus, err := newBus(cfg.NATS)
	if err != nil {
		logger.Fatal("failed to connect to event bus", "error", err)
	}
	defer bus.Close()

	adapter := roster.NewAdapter(entryRepo, bus, bus, roster.Options{
		RenumberOnDelete: cfg.Roster.RenumberOnDelete,
		AtomicReorder:    cfg.Roster.AtomicReorder,
		WriteConcurrency: cfg.Roster.WriteConcurrency,
	}, logger)

	mode, _ := phone.ParseMode(cfg.Phone.Validation)
	normalizer := phone.NewNormalizer(cfg.Phone.DefaultRegion, mode)

	var exports model.Storage
	if cfg.StorageEnabled() {
		storageClient, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		exports = storageClient
	} else {
		logger.Info("object storage not configured, roster exports disabled")
	}

	rosterService := service.NewRosterService(adapter, normalizer, exports, logger)
	ctxMgr := grpcctx.NewManager()

	grpcServer := registerGRPCServer(logger, authService, accountService, rosterService, ctxMgr, fmt.Sprintf(":%s", cfg.GRPC.Port))
	sl := server.NewSecurityLayer(cfg.GRPC)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
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

// newBus connects to NATS when configured and falls back to the in-process
// bus, which only fans out within this server.
func newBus(cfg config.NATS) (events.Bus, error) {
	if cfg.URL == "" {
		return events.NewLocalBus(), nil
	}
	bus, err := events.NewNATSBus(cfg.URL)
	if err != nil {
		return nil, err
	}
	return bus, nil
}

func registerGRPCServer(
	logger *logger.Logger,
	authService *service.Auth,
	accountService *service.AccountService,
	rosterService *service.RosterService,
	ctxMgr model.ContextManager,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(authService, accountService, rosterService, ctxMgr, logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}
