package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trezcool/mazoezi/core/experiment"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sql.DB
	expSvc experiment.ServiceInterface
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate up|up-by-one|up-to|down|down-to|redo|reset|status|version [ARGS] - run DB migrations")
	fmt.Println("  seed - create the demo course catalog if the experiment table is empty")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}
