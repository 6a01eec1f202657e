package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
)

// listings are ordered by creation time, id as tie-breaker
var expOrdering = []core.DBOrdering{
	{Field: "created_at", Ascending: true},
	{Field: "id", Ascending: true},
}

type experimentRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Difficulty   string         `db:"difficulty"`
	Tags         pq.StringArray `db:"tags"`
	NotebookPath string         `db:"notebook_path"`
	ResourceCPU  float64        `db:"resource_cpu"`
	ResourceMem  string         `db:"resource_mem"`
	ResourceDisk string         `db:"resource_disk"`
	Deadline     null.Time      `db:"deadline"`
	CreatedAt    null.Time      `db:"created_at"`
	CreatedBy    string         `db:"created_by"`
	Published    bool           `db:"published"`
}

type ExperimentRepository struct {
	db *sqlx.DB
}

var _ experiment.Repository = (*ExperimentRepository)(nil) // interface compliance check

func NewExperimentRepository(db *sqlx.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

func (repo ExperimentRepository) row(exp experiment.Experiment) experimentRow {
	return experimentRow{
		ID:           exp.ID,
		Title:        exp.Title,
		Description:  exp.Description,
		Difficulty:   exp.Difficulty,
		Tags:         pq.StringArray(exp.Tags),
		NotebookPath: exp.NotebookPath,
		ResourceCPU:  exp.Resources.CPU,
		ResourceMem:  exp.Resources.Memory,
		ResourceDisk: exp.Resources.Storage,
		Deadline:     exp.Deadline,
		CreatedAt:    null.NewTime(exp.CreatedAt.UTC(), !exp.CreatedAt.IsZero()),
		CreatedBy:    exp.CreatedBy,
		Published:    exp.Published,
	}
}

func (repo ExperimentRepository) unrow(row experimentRow) experiment.Experiment {
	return experiment.Experiment{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Difficulty:   row.Difficulty,
		Tags:         row.Tags,
		NotebookPath: row.NotebookPath,
		Resources: experiment.Resources{
			CPU:     row.ResourceCPU,
			Memory:  row.ResourceMem,
			Storage: row.ResourceDisk,
		},
		Deadline:  row.Deadline,
		CreatedAt: row.CreatedAt.Time,
		CreatedBy: row.CreatedBy,
		Published: row.Published,
	}
}

func (repo ExperimentRepository) unrowSlice(rows []experimentRow) []experiment.Experiment {
	exps := make([]experiment.Experiment, 0, len(rows))
	for _, row := range rows {
		exps = append(exps, repo.unrow(row))
	}
	return exps
}

// trapNoRowsErr maps psql "no rows" err to experiment.ErrNotFound
func (repo ExperimentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return experiment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo ExperimentRepository) CreateExperiment(ctx context.Context, exp experiment.Experiment) (experiment.Experiment, error) {
	exp.ID = uuid.New().String()
	row := repo.row(exp)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO experiment (id, title, description, difficulty, tags, notebook_path,
		                        resource_cpu, resource_mem, resource_disk, deadline,
		                        created_at, created_by, published)
		VALUES (:id, :title, :description, :difficulty, :tags, :notebook_path,
		        :resource_cpu, :resource_mem, :resource_disk, :deadline,
		        :created_at, :created_by, :published)`, row)
	if err != nil {
		return experiment.Experiment{}, errors.Wrap(err, "inserting experiment")
	}
	return repo.unrow(row), nil
}

func (repo ExperimentRepository) GetExperimentByID(ctx context.Context, id string) (experiment.Experiment, error) {
	var row experimentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM experiment WHERE id = $1", id); err != nil {
		return experiment.Experiment{}, repo.trapNoRowsErr(err, "getting experiment")
	}
	return repo.unrow(row), nil
}

func (repo ExperimentRepository) FilterExperiments(ctx context.Context, filter experiment.QueryFilter) ([]experiment.Experiment, error) {
	query := "SELECT * FROM experiment"
	var where []string
	var args []interface{}

	// visibility gate comes before any other filter
	if filter.PublishedOnly {
		where = append(where, "published")
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		where = append(where, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += orderBy(expOrdering...)

	var rows []experimentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering experiments")
	}
	return repo.unrowSlice(rows), nil
}

func (repo ExperimentRepository) UpdateExperiment(ctx context.Context, exp experiment.Experiment) (experiment.Experiment, error) {
	row := repo.row(exp)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE experiment
		SET title         = :title,
		    description   = :description,
		    difficulty    = :difficulty,
		    tags          = :tags,
		    notebook_path = :notebook_path,
		    resource_cpu  = :resource_cpu,
		    resource_mem  = :resource_mem,
		    resource_disk = :resource_disk,
		    deadline      = :deadline,
		    created_at    = :created_at,
		    created_by    = :created_by,
		    published     = :published
		WHERE id = :id`, row)
	if err != nil {
		return experiment.Experiment{}, errors.Wrap(err, "updating experiment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return experiment.Experiment{}, experiment.ErrNotFound
	}
	return repo.unrow(row), nil
}

func (repo ExperimentRepository) DeleteExperiment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM experiment WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting experiment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return experiment.ErrNotFound
	}
	return nil
}

func (repo ExperimentRepository) QueryExperimentsByOwner(ctx context.Context, owner string) ([]experiment.Experiment, error) {
	var rows []experimentRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT * FROM experiment WHERE created_by = $1"+orderBy(expOrdering...), owner)
	if err != nil {
		return nil, errors.Wrap(err, "querying experiments by owner")
	}
	return repo.unrowSlice(rows), nil
}
