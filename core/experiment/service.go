package experiment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core/role"
)

var (
	// errors
	ErrNotFound = errors.New("experiment not found")
	ErrNotOwner = errors.New("only own courses can be managed")
)

type (
	Repository interface {
		CreateExperiment(ctx context.Context, exp Experiment) (Experiment, error)
		GetExperimentByID(ctx context.Context, id string) (Experiment, error)
		// FilterExperiments applies AND operation on available QueryFilter fields.
		// QueryFilter.Tag matches membership in Experiment.Tags, not whole-slice equality.
		FilterExperiments(ctx context.Context, filter QueryFilter) ([]Experiment, error)
		UpdateExperiment(ctx context.Context, exp Experiment) (Experiment, error)
		DeleteExperiment(ctx context.Context, id string) error
		QueryExperimentsByOwner(ctx context.Context, owner string) ([]Experiment, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ne NewExperiment) (Experiment, error)
		Query(ctx context.Context, filter QueryFilter) ([]Experiment, error)
		GetByID(ctx context.Context, id string) (Experiment, error)
		Update(ctx context.Context, id string, ue UpdateExperiment) (Experiment, error)
		Delete(ctx context.Context, id string) error
		QueryByOwner(ctx context.Context, owner string) ([]Experiment, error)
		SetPublished(ctx context.Context, id, owner string, published bool) (Experiment, error)
	}

	Service struct {
		repo     Repository
		resolver role.Resolver
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, resolver role.Resolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
	}
}

func (svc *Service) Create(ctx context.Context, ne NewExperiment) (Experiment, error) {
	res := ne.Resources
	if res == (Resources{}) {
		res = DefaultResources
	}
	exp := Experiment{
		Title:        ne.Title,
		Description:  ne.Description,
		Difficulty:   ne.Difficulty,
		Tags:         ne.Tags,
		NotebookPath: ne.NotebookPath,
		Resources:    res,
		Deadline:     ne.Deadline,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    ne.CreatedBy,
		Published:    ne.Published,
	}
	return svc.repo.CreateExperiment(ctx, exp)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Experiment, error) {
	// students only ever see published experiments
	if filter.Viewer != "" && !svc.resolver.IsTeacher(filter.Viewer) {
		filter.PublishedOnly = true
	}
	return svc.repo.FilterExperiments(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Experiment, error) {
	return svc.repo.GetExperimentByID(ctx, id)
}

// Update replaces the stored record wholesale; only ID is forced to survive.
func (svc *Service) Update(ctx context.Context, id string, ue UpdateExperiment) (Experiment, error) {
	if _, err := svc.repo.GetExperimentByID(ctx, id); err != nil {
		return Experiment{}, err
	}
	exp := Experiment{
		ID:           id,
		Title:        ue.Title,
		Description:  ue.Description,
		Difficulty:   ue.Difficulty,
		Tags:         ue.Tags,
		NotebookPath: ue.NotebookPath,
		Resources:    ue.Resources,
		Deadline:     ue.Deadline,
		CreatedAt:    ue.CreatedAt.Time,
		CreatedBy:    ue.CreatedBy,
		Published:    ue.Published,
	}
	return svc.repo.UpdateExperiment(ctx, exp)
}

// Delete removes the experiment only; submissions referencing it are kept
// as-is and become orphans (cleanup is out of scope).
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteExperiment(ctx, id)
}

// QueryByOwner returns all experiments created by owner, drafts included.
func (svc *Service) QueryByOwner(ctx context.Context, owner string) ([]Experiment, error) {
	return svc.repo.QueryExperimentsByOwner(ctx, owner)
}

func (svc *Service) SetPublished(ctx context.Context, id, owner string, published bool) (Experiment, error) {
	exp, err := svc.repo.GetExperimentByID(ctx, id)
	if err != nil {
		return Experiment{}, err
	}
	if exp.CreatedBy != owner {
		return Experiment{}, ErrNotOwner
	}
	exp.Published = published
	return svc.repo.UpdateExperiment(ctx, exp)
}
