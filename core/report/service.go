package report

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/role"
	"github.com/trezcool/mazoezi/core/submission"
)

type (
	// CourseStatus is one student-facing row: a published course joined with
	// the student's attempt on it, or not_started when no attempt exists.
	CourseStatus struct {
		Course       experiment.Experiment `json:"course"`
		Status       string                `json:"status"`
		StartTime    null.Time             `json:"start_time"`
		SubmitTime   null.Time             `json:"submit_time"`
		Score        null.Float64          `json:"score"`
		SubmissionID null.String           `json:"submission_id"`
	}

	// ProgressRow is one teacher-facing row over a submission to an owned course.
	ProgressRow struct {
		StudentID    string       `json:"student_id"`
		ExperimentID string       `json:"experiment_id"`
		Status       string       `json:"status"`
		StartTime    null.Time    `json:"start_time"`
		SubmitTime   null.Time    `json:"submit_time"`
		Score        null.Float64 `json:"score"`
	}

	Statistics struct {
		TotalExperiments   int            `json:"total_experiments"`
		TotalSubmissions   int            `json:"total_submissions"`
		StatusDistribution map[string]int `json:"status_distribution"`
	}

	ServiceInterface interface {
		CoursesWithStatus(ctx context.Context, studentID string) ([]CourseStatus, error)
		Progress(ctx context.Context, teacherUsername string) ([]ProgressRow, error)
		Statistics(ctx context.Context) (Statistics, error)
	}

	// Service is a read-only aggregation over the two stores.
	Service struct {
		expRepo  experiment.Repository
		subRepo  submission.Repository
		resolver role.Resolver
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(expRepo experiment.Repository, subRepo submission.Repository, resolver role.Resolver) *Service {
	return &Service{
		expRepo:  expRepo,
		subRepo:  subRepo,
		resolver: resolver,
	}
}

// CoursesWithStatus returns one row per published course. When several
// attempts exist for a course, the most recently started one wins.
func (svc *Service) CoursesWithStatus(ctx context.Context, studentID string) ([]CourseStatus, error) {
	courses, err := svc.expRepo.FilterExperiments(ctx, experiment.QueryFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	subs, err := svc.subRepo.QuerySubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]submission.Submission, len(subs))
	for _, sub := range subs {
		if prev, ok := latest[sub.ExperimentID]; ok && !sub.StartTime.Time.After(prev.StartTime.Time) {
			continue
		}
		latest[sub.ExperimentID] = sub
	}

	rows := make([]CourseStatus, 0, len(courses))
	for _, course := range courses {
		row := CourseStatus{
			Course: course,
			Status: submission.StatusNotStarted,
		}
		if sub, ok := latest[course.ID]; ok {
			row.Status = sub.Status
			row.StartTime = sub.StartTime
			row.SubmitTime = sub.SubmitTime
			row.Score = sub.Score
			row.SubmissionID = null.StringFrom(sub.ID)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Progress returns every submission against a course owned by teacherUsername.
func (svc *Service) Progress(ctx context.Context, teacherUsername string) ([]ProgressRow, error) {
	if !svc.resolver.IsTeacher(teacherUsername) {
		return nil, role.ErrNotTeacher
	}

	courses, err := svc.expRepo.QueryExperimentsByOwner(ctx, teacherUsername)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]struct{}, len(courses))
	for _, course := range courses {
		owned[course.ID] = struct{}{}
	}

	subs, err := svc.subRepo.QueryAllSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ProgressRow, 0, len(subs))
	for _, sub := range subs {
		if _, ok := owned[sub.ExperimentID]; !ok {
			continue
		}
		rows = append(rows, ProgressRow{
			StudentID:    sub.StudentID,
			ExperimentID: sub.ExperimentID,
			Status:       sub.Status,
			StartTime:    sub.StartTime,
			SubmitTime:   sub.SubmitTime,
			Score:        sub.Score,
		})
	}
	return rows, nil
}

// Statistics is deliberately unscoped; the route serving it is open.
func (svc *Service) Statistics(ctx context.Context) (Statistics, error) {
	exps, err := svc.expRepo.FilterExperiments(ctx, experiment.QueryFilter{})
	if err != nil {
		return Statistics{}, err
	}
	subs, err := svc.subRepo.QueryAllSubmissions(ctx)
	if err != nil {
		return Statistics{}, err
	}

	dist := make(map[string]int, len(subs))
	for _, sub := range subs {
		dist[sub.Status]++
	}
	return Statistics{
		TotalExperiments:   len(exps),
		TotalSubmissions:   len(subs),
		StatusDistribution: dist,
	}, nil
}
