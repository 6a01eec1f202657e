package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/report"
	"github.com/trezcool/mazoezi/core/role"
	"github.com/trezcool/mazoezi/core/submission"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Resolver       role.Resolver
		ExperimentSvc  experiment.ServiceInterface
		SubmissionSvc  submission.ServiceInterface
		ReportSvc      report.ServiceInterface
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	Server struct {
		deps ServerDeps
		app  *echo.Echo

		serverErrors chan error
		shutdown     chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:         deps,
		app:          echo.New(),
		serverErrors: make(chan error, 1),
		shutdown:     make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// the frontend is served from another origin
	s.app.Use(middleware.CORS())
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)
	s.app.GET("/api/check-role", s.checkRole)

	api := s.app.Group("/api")
	registerExperimentAPI(api, s.deps.ExperimentSvc, s.deps.Validate)
	registerStudentAPI(api, s.deps.SubmissionSvc, s.deps.ReportSvc, s.deps.Validate)
	registerTeacherAPI(api, s.deps.ExperimentSvc, s.deps.SubmissionSvc, s.deps.ReportSvc, s.deps.Resolver, s.deps.Validate)
}

func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.serverErrors <- s.app.Start(s.deps.Conf.Server.Host)
}

func (s *Server) Errors() <-chan error {
	return s.serverErrors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "Welcome to " + s.deps.Conf.AppName + " API!",
		"version": s.deps.Conf.Build,
	})
}

func (s *Server) checkRole(ctx echo.Context) error {
	username := ctx.QueryParam("username")
	return ctx.JSON(http.StatusOK, CheckRoleResponse{
		Username: username,
		Role:     s.deps.Resolver.Resolve(username),
	})
}
