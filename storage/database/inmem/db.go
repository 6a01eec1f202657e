package inmemdb

import (
	"sync"

	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/submission"
)

type (
	experimentTable struct {
		sync.RWMutex
		table map[string]*experiment.Experiment
	}

	submissionTable struct {
		sync.RWMutex
		table map[string]*submission.Submission
	}

	// DB is a process-lifetime store. It stands in for the Postgres backend
	// in tests and local runs; a restart loses everything.
	DB struct {
		experiment *experimentTable
		submission *submissionTable
	}
)

func Open() (*DB, error) {
	db := &DB{
		experiment: &experimentTable{table: make(map[string]*experiment.Experiment)},
		submission: &submissionTable{table: make(map[string]*submission.Submission)},
	}
	return db, nil
}
