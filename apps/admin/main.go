package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/role"
	"github.com/trezcool/mazoezi/storage/database"
	sqlxrepos "github.com/trezcool/mazoezi/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	xdb := sqlx.NewDb(db, conf.Database.Engine)
	expRepo := sqlxrepos.NewExperimentRepository(xdb)
	resolver := role.NewAllowlistResolver(conf.TeacherAccounts)

	// start CLI
	cli := commandLine{
		db:     db,
		expSvc: experiment.NewService(expRepo, resolver),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
