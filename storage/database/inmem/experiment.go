package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mazoezi/core/experiment"
)

type experimentRepository struct {
	db *experimentTable
}

var _ experiment.Repository = (*experimentRepository)(nil) // interface compliance check

func NewExperimentRepository(db *DB) experiment.Repository {
	return &experimentRepository{db: db.experiment}
}

// query returns all rows ordered by creation time for stable listings.
func (repo *experimentRepository) query() []experiment.Experiment {
	exps := make([]experiment.Experiment, 0, len(repo.db.table))
	for _, exp := range repo.db.table {
		exps = append(exps, *exp)
	}
	sort.Slice(exps, func(i, j int) bool {
		if exps[i].CreatedAt.Equal(exps[j].CreatedAt) {
			return exps[i].ID < exps[j].ID
		}
		return exps[i].CreatedAt.Before(exps[j].CreatedAt)
	})
	return exps
}

func (repo *experimentRepository) CreateExperiment(ctx context.Context, exp experiment.Experiment) (experiment.Experiment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	exp.ID = uuid.New().String()
	repo.db.table[exp.ID] = &exp
	return exp, nil
}

func (repo *experimentRepository) GetExperimentByID(ctx context.Context, id string) (experiment.Experiment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if exp, ok := repo.db.table[id]; ok {
		return *exp, nil
	}
	return experiment.Experiment{}, experiment.ErrNotFound
}

func (repo *experimentRepository) FilterExperiments(ctx context.Context, filter experiment.QueryFilter) ([]experiment.Experiment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exps := repo.query()

	// visibility gate comes before any other filter
	if filter.PublishedOnly {
		exps = filterExps(exps, func(exp experiment.Experiment) bool { return exp.Published })
	}
	if filter.Difficulty != "" {
		exps = filterExps(exps, func(exp experiment.Experiment) bool { return exp.Difficulty == filter.Difficulty })
	}
	if filter.Tag != "" {
		exps = filterExps(exps, func(exp experiment.Experiment) bool { return hasTag(exp.Tags, filter.Tag) })
	}
	return exps, nil
}

func (repo *experimentRepository) UpdateExperiment(ctx context.Context, exp experiment.Experiment) (experiment.Experiment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[exp.ID]; !ok {
		return experiment.Experiment{}, experiment.ErrNotFound
	}
	repo.db.table[exp.ID] = &exp
	return exp, nil
}

func (repo *experimentRepository) DeleteExperiment(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return experiment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *experimentRepository) QueryExperimentsByOwner(ctx context.Context, owner string) ([]experiment.Experiment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return filterExps(repo.query(), func(exp experiment.Experiment) bool { return exp.CreatedBy == owner }), nil
}

func filterExps(exps []experiment.Experiment, keep func(experiment.Experiment) bool) []experiment.Experiment {
	filtered := make([]experiment.Experiment, 0, len(exps))
	for _, exp := range exps {
		if keep(exp) {
			filtered = append(filtered, exp)
		}
	}
	return filtered
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
