package report_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/notebook"
	"github.com/trezcool/mazoezi/core/report"
	"github.com/trezcool/mazoezi/core/role"
	"github.com/trezcool/mazoezi/core/submission"
	emailsvc "github.com/trezcool/mazoezi/services/email"
	inmemdb "github.com/trezcool/mazoezi/storage/database/inmem"
)

var ctx = context.Background()

type testEnv struct {
	expSvc    *experiment.Service
	subSvc    *submission.Service
	reportSvc *report.Service
}

func setup(t *testing.T) testEnv {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := core.NewConfig()
	expRepo := inmemdb.NewExperimentRepository(db)
	subRepo := inmemdb.NewSubmissionRepository(db)
	resolver := role.NewAllowlistResolver(conf.TeacherAccounts)
	gateway := notebook.NewSharedGateway(conf.Jupyter)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	return testEnv{
		expSvc:    experiment.NewService(expRepo, resolver),
		subSvc:    submission.NewService(subRepo, expRepo, gateway, mailSvc, conf),
		reportSvc: report.NewService(expRepo, subRepo, resolver),
	}
}

func createExperiment(t *testing.T, env testEnv, title, owner string, published bool) experiment.Experiment {
	exp, err := env.expSvc.Create(ctx, experiment.NewExperiment{
		Title:        title,
		Difficulty:   experiment.DifficultyBeginner,
		NotebookPath: "course/" + title + ".ipynb",
		CreatedBy:    owner,
		Published:    published,
	})
	if err != nil {
		t.Fatalf("createExperiment() failed: %v", err)
	}
	return exp
}

func TestCoursesWithStatus(t *testing.T) {
	env := setup(t)

	graded := createExperiment(t, env, "Python Basics", "teacher_001", true)
	untouched := createExperiment(t, env, "Intro to Pandas", "teacher_001", true)
	createExperiment(t, env, "Draft Course", "teacher_001", false)

	// full lifecycle on one course
	sub, _, err := env.subSvc.Start(ctx, graded.ID, "student_001")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err = env.subSvc.Submit(ctx, sub.ID, "{}"); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if _, err = env.subSvc.Grade(ctx, sub.ID, 92, "Well done"); err != nil {
		t.Fatalf("Grade() failed: %v", err)
	}

	rows, err := env.reportSvc.CoursesWithStatus(ctx, "student_001")
	if err != nil {
		t.Fatalf("CoursesWithStatus() failed: %v", err)
	}
	// one row per published course; drafts never appear
	if len(rows) != 2 {
		t.Fatalf("CoursesWithStatus() returned %d rows; want 2", len(rows))
	}

	byID := make(map[string]report.CourseStatus, len(rows))
	for _, row := range rows {
		byID[row.Course.ID] = row
	}

	got := byID[graded.ID]
	if got.Status != submission.StatusGraded {
		t.Errorf("Status = %q; want %q", got.Status, submission.StatusGraded)
	}
	if !got.Score.Valid || got.Score.Float64 != 92 {
		t.Errorf("Score = %v; want 92", got.Score)
	}
	if !got.SubmissionID.Valid || got.SubmissionID.String != sub.ID {
		t.Errorf("SubmissionID = %v; want %q", got.SubmissionID, sub.ID)
	}

	got = byID[untouched.ID]
	if got.Status != submission.StatusNotStarted {
		t.Errorf("Status = %q; want %q", got.Status, submission.StatusNotStarted)
	}
	if got.SubmissionID.Valid || got.StartTime.Valid || got.Score.Valid {
		t.Errorf("untouched course carries attempt data: %+v", got)
	}
}

func TestCoursesWithStatusLatestAttemptWins(t *testing.T) {
	env := setup(t)
	exp := createExperiment(t, env, "Python Basics", "teacher_001", true)

	// first attempt runs to graded, second is in progress
	first, _, err := env.subSvc.Start(ctx, exp.ID, "student_001")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err = env.subSvc.Submit(ctx, first.ID, "{}"); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if _, err = env.subSvc.Grade(ctx, first.ID, 40, ""); err != nil {
		t.Fatalf("Grade() failed: %v", err)
	}
	second, _, err := env.subSvc.Start(ctx, exp.ID, "student_001")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	rows, err := env.reportSvc.CoursesWithStatus(ctx, "student_001")
	if err != nil {
		t.Fatalf("CoursesWithStatus() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("CoursesWithStatus() returned %d rows; want 1", len(rows))
	}
	if rows[0].SubmissionID.String != second.ID {
		t.Errorf("SubmissionID = %q; want latest attempt %q", rows[0].SubmissionID.String, second.ID)
	}
	if rows[0].Status != submission.StatusInProgress {
		t.Errorf("Status = %q; want %q", rows[0].Status, submission.StatusInProgress)
	}
}

func TestProgress(t *testing.T) {
	env := setup(t)

	owned := createExperiment(t, env, "Python Basics", "teacher_001", true)
	foreign := createExperiment(t, env, "Someone Else's", "teacher_002", true)

	if _, _, err := env.subSvc.Start(ctx, owned.ID, "student_001"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, _, err := env.subSvc.Start(ctx, owned.ID, "student_002"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, _, err := env.subSvc.Start(ctx, foreign.ID, "student_001"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if _, err := env.reportSvc.Progress(ctx, "student_001"); errors.Cause(err) != role.ErrNotTeacher {
		t.Fatalf("Progress(student) err = %v; want role.ErrNotTeacher", err)
	}

	rows, err := env.reportSvc.Progress(ctx, "teacher_001")
	if err != nil {
		t.Fatalf("Progress() failed: %v", err)
	}
	// only submissions against owned courses
	if len(rows) != 2 {
		t.Fatalf("Progress() returned %d rows; want 2", len(rows))
	}
	for _, row := range rows {
		if row.ExperimentID != owned.ID {
			t.Errorf("Progress() leaked a foreign course row: %+v", row)
		}
		if row.Status != submission.StatusInProgress {
			t.Errorf("Status = %q; want %q", row.Status, submission.StatusInProgress)
		}
	}
}

func TestStatistics(t *testing.T) {
	env := setup(t)

	empty, err := env.reportSvc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() failed: %v", err)
	}
	if empty.TotalExperiments != 0 || empty.TotalSubmissions != 0 || len(empty.StatusDistribution) != 0 {
		t.Errorf("Statistics() on empty stores = %+v", empty)
	}

	exp := createExperiment(t, env, "Python Basics", "teacher_001", true)
	createExperiment(t, env, "Draft Course", "teacher_001", false) // drafts count too

	sub, _, err := env.subSvc.Start(ctx, exp.ID, "student_001")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err = env.subSvc.Submit(ctx, sub.ID, "{}"); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if _, _, err = env.subSvc.Start(ctx, exp.ID, "student_002"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	stats, err := env.reportSvc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() failed: %v", err)
	}
	if stats.TotalExperiments != 2 {
		t.Errorf("TotalExperiments = %d; want 2", stats.TotalExperiments)
	}
	if stats.TotalSubmissions != 2 {
		t.Errorf("TotalSubmissions = %d; want 2", stats.TotalSubmissions)
	}
	if stats.StatusDistribution[submission.StatusSubmitted] != 1 || stats.StatusDistribution[submission.StatusInProgress] != 1 {
		t.Errorf("StatusDistribution = %v", stats.StatusDistribution)
	}
}
