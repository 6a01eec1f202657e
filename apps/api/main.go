package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/mazoezi/apps/api/echo"
	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/notebook"
	"github.com/trezcool/mazoezi/core/report"
	"github.com/trezcool/mazoezi/core/role"
	"github.com/trezcool/mazoezi/core/submission"
	emailsvc "github.com/trezcool/mazoezi/services/email"
	logsvc "github.com/trezcool/mazoezi/services/logger"
	"github.com/trezcool/mazoezi/storage/database"
	inmemdb "github.com/trezcool/mazoezi/storage/database/inmem"
	sqlxrepos "github.com/trezcool/mazoezi/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up repositories; the in-memory store stands in for Postgres in DEV
	var (
		expRepo experiment.Repository
		subRepo submission.Repository
	)
	if conf.Debug {
		memdb, err := inmemdb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening in-memory store: %v", err), err)
		}
		expRepo = inmemdb.NewExperimentRepository(memdb)
		subRepo = inmemdb.NewSubmissionRepository(memdb)
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error("failed to close DB", err)
			}
		}()

		xdb := sqlx.NewDb(db, conf.Database.Engine)
		expRepo = sqlxrepos.NewExperimentRepository(xdb)
		subRepo = sqlxrepos.NewSubmissionRepository(xdb)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	resolver := role.NewAllowlistResolver(conf.TeacherAccounts)
	gateway := notebook.NewSharedGateway(conf.Jupyter)
	expSvc := experiment.NewService(expRepo, resolver)
	subSvc := submission.NewService(subRepo, expRepo, gateway, mailSvc, conf)
	reportSvc := report.NewService(expRepo, subRepo, resolver)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	experiment.InitValidators(validate, translator)

	if conf.Debug {
		if err := database.Seed(context.Background(), expSvc); err != nil {
			logger.Fatal(fmt.Sprintf("seeding demo experiments: %v", err), err)
		}
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Resolver:      resolver,
			ExperimentSvc: expSvc,
			SubmissionSvc: subSvc,
			ReportSvc:     reportSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
