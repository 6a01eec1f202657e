package main

import (
	"context"

	"github.com/trezcool/mazoezi/storage/database"
)

func (cli *commandLine) seed() error {
	return database.Seed(context.Background(), cli.expSvc)
}
