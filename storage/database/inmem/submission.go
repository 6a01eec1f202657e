package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mazoezi/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db.submission}
}

// query returns all rows ordered by start time for stable listings.
func (repo *submissionRepository) query() []submission.Submission {
	subs := make([]submission.Submission, 0, len(repo.db.table))
	for _, sub := range repo.db.table {
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].StartTime.Time.Equal(subs[j].StartTime.Time) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].StartTime.Time.Before(subs[j].StartTime.Time)
	})
	return subs
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = uuid.New().String()
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) GetActiveSubmission(ctx context.Context, experimentID, studentID string) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var found *submission.Submission
	for _, sub := range repo.db.table {
		if sub.ExperimentID != experimentID || sub.StudentID != studentID || sub.Status == submission.StatusGraded {
			continue
		}
		if found == nil || sub.StartTime.Time.After(found.StartTime.Time) {
			found = sub
		}
	}
	if found == nil {
		return submission.Submission{}, submission.ErrNotFound
	}
	return *found, nil
}

func (repo *submissionRepository) UpdateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[sub.ID]; !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return filterSubs(repo.query(), func(sub submission.Submission) bool { return sub.StudentID == studentID }), nil
}

func (repo *submissionRepository) QuerySubmissionsByExperiment(ctx context.Context, experimentID string) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return filterSubs(repo.query(), func(sub submission.Submission) bool { return sub.ExperimentID == experimentID }), nil
}

func (repo *submissionRepository) QueryAllSubmissions(ctx context.Context) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func filterSubs(subs []submission.Submission, keep func(submission.Submission) bool) []submission.Submission {
	filtered := make([]submission.Submission, 0, len(subs))
	for _, sub := range subs {
		if keep(sub) {
			filtered = append(filtered, sub)
		}
	}
	return filtered
}
