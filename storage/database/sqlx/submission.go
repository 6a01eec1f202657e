package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/submission"
)

// listings are ordered by start time, id as tie-breaker
var subOrdering = []core.DBOrdering{
	{Field: "start_time", Ascending: true},
	{Field: "id", Ascending: true},
}

type submissionRow struct {
	ID              string       `db:"id"`
	ExperimentID    string       `db:"experiment_id"`
	StudentID       string       `db:"student_id"`
	Status          string       `db:"status"`
	StartTime       null.Time    `db:"start_time"`
	SubmitTime      null.Time    `db:"submit_time"`
	NotebookContent null.String  `db:"notebook_content"`
	Score           null.Float64 `db:"score"`
	AIFeedback      null.String  `db:"ai_feedback"`
	TeacherComment  null.String  `db:"teacher_comment"`
}

type SubmissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*SubmissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (repo SubmissionRepository) row(sub submission.Submission) submissionRow {
	return submissionRow{
		ID:              sub.ID,
		ExperimentID:    sub.ExperimentID,
		StudentID:       sub.StudentID,
		Status:          sub.Status,
		StartTime:       sub.StartTime,
		SubmitTime:      sub.SubmitTime,
		NotebookContent: sub.NotebookContent,
		Score:           sub.Score,
		AIFeedback:      sub.AIFeedback,
		TeacherComment:  sub.TeacherComment,
	}
}

func (repo SubmissionRepository) unrow(row submissionRow) submission.Submission {
	return submission.Submission{
		ID:              row.ID,
		ExperimentID:    row.ExperimentID,
		StudentID:       row.StudentID,
		Status:          row.Status,
		StartTime:       row.StartTime,
		SubmitTime:      row.SubmitTime,
		NotebookContent: row.NotebookContent,
		Score:           row.Score,
		AIFeedback:      row.AIFeedback,
		TeacherComment:  row.TeacherComment,
	}
}

func (repo SubmissionRepository) unrowSlice(rows []submissionRow) []submission.Submission {
	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, repo.unrow(row))
	}
	return subs
}

// trapNoRowsErr maps psql "no rows" err to submission.ErrNotFound
func (repo SubmissionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return submission.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo SubmissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	sub.ID = uuid.New().String()
	row := repo.row(sub)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO submission (id, experiment_id, student_id, status, start_time,
		                        submit_time, notebook_content, score, ai_feedback, teacher_comment)
		VALUES (:id, :experiment_id, :student_id, :status, :start_time,
		        :submit_time, :notebook_content, :score, :ai_feedback, :teacher_comment)`, row)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return repo.unrow(row), nil
}

func (repo SubmissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM submission WHERE id = $1", id); err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "getting submission")
	}
	return repo.unrow(row), nil
}

func (repo SubmissionRepository) GetActiveSubmission(ctx context.Context, experimentID, studentID string) (submission.Submission, error) {
	var row submissionRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT *
		FROM submission
		WHERE experiment_id = $1 AND student_id = $2 AND status <> $3`+
		orderBy(core.DBOrdering{Field: "start_time"})+
		" LIMIT 1", experimentID, studentID, submission.StatusGraded)
	if err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "getting active submission")
	}
	return repo.unrow(row), nil
}

func (repo SubmissionRepository) UpdateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	row := repo.row(sub)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE submission
		SET status           = :status,
		    start_time       = :start_time,
		    submit_time      = :submit_time,
		    notebook_content = :notebook_content,
		    score            = :score,
		    ai_feedback      = :ai_feedback,
		    teacher_comment  = :teacher_comment
		WHERE id = :id`, row)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return repo.unrow(row), nil
}

func (repo SubmissionRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]submission.Submission, error) {
	var rows []submissionRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT * FROM submission WHERE student_id = $1"+orderBy(subOrdering...), studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions by student")
	}
	return repo.unrowSlice(rows), nil
}

func (repo SubmissionRepository) QuerySubmissionsByExperiment(ctx context.Context, experimentID string) ([]submission.Submission, error) {
	var rows []submissionRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT * FROM submission WHERE experiment_id = $1"+orderBy(subOrdering...), experimentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions by experiment")
	}
	return repo.unrowSlice(rows), nil
}

func (repo SubmissionRepository) QueryAllSubmissions(ctx context.Context) ([]submission.Submission, error) {
	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM submission"+orderBy(subOrdering...)); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	return repo.unrowSlice(rows), nil
}
