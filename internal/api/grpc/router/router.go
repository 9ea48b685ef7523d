package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/roundrobin/internal/api/grpc/handler"
	"github.com/dtroode/roundrobin/internal/api/grpc/middleware"
	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/service"
)

// Router registers the roster.v1 services and their interceptors.
type Router struct {
	authService    *service.Auth
	accountService *service.AccountService
	rosterService  *service.RosterService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	authService *service.Auth,
	accountService *service.AccountService,
	rosterService *service.RosterService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		accountService: accountService,
		rosterService:  rosterService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth matches every method outside roster.v1.Auth.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+rosterpb.AuthServiceName+"/")
}

// Register builds the gRPC server with logging, panic recovery and bearer
// authentication, and registers all services on it.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoverer := middleware.NewRecovery(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(recoverer.Handle)),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleStream,
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandlerContext(recoverer.Handle)),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	s := grpc.NewServer(opts...)
	r.registerAuthRoutes(s)
	r.registerAccountRoutes(s)
	r.registerRosterRoutes(s)

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	rosterpb.RegisterAuthServer(server, handler.NewAuth(r.authService, r.logger))
}

func (r *Router) registerAccountRoutes(server *grpc.Server) {
	rosterpb.RegisterAccountsServer(server, handler.NewAccount(r.accountService, r.authService, r.contextManager, r.logger))
}

func (r *Router) registerRosterRoutes(server *grpc.Server) {
	rosterpb.RegisterRosterServer(server, handler.NewRoster(r.rosterService, r.authService, r.contextManager, r.logger))
}
