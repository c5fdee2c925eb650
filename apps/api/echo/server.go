package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

type (
	ServerDeps struct {
		Conf      *core.Config
		Logger    core.Logger
		DB        *memdb.DB
		Mailer    core.EmailService
		Validator *core.Validator
	}

	// Server is the development stand-in of the LMS REST backend.
	Server struct {
		conf      *core.Config
		logger    core.Logger
		db        *memdb.DB
		mailer    core.EmailService
		validator *core.Validator
		resets    resetTokens
		jwtConf   middleware.JWTConfig
		app       *echo.Echo

		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		conf:      deps.Conf,
		logger:    deps.Logger,
		db:        deps.DB,
		mailer:    deps.Mailer,
		validator: deps.Validator,
		resets:    newResetTokens(deps.Conf),
		jwtConf:   newJWTConfig(deps.Conf),
		app:       echo.New(),
		errors:    make(chan error, 1),
		shutdown:  make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.signalShutdown)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", home)
	s.app.Static("/media", s.conf.Server.MediaDir)

	v1 := s.app.Group("/api/v1")
	auth := []echo.MiddlewareFunc{middleware.JWTWithConfig(s.jwtConf), accessTokenMiddleware}

	s.registerUserAPI(v1, auth)
	s.registerCartAPI(v1)
	s.registerStudentAPI(v1, auth)
	s.registerTeacherAPI(v1, auth)
}

// Start listens until the server fails or is shut down; failures are reported on Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Masomo API!")
}
