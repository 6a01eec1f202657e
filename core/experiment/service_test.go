package experiment_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/role"
	inmemdb "github.com/trezcool/mazoezi/storage/database/inmem"
)

var ctx = context.Background()

func setup(t *testing.T) *experiment.Service {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := inmemdb.NewExperimentRepository(db)
	resolver := role.NewAllowlistResolver([]string{"teacher_001", "teacher_002"})
	return experiment.NewService(repo, resolver)
}

func createExperiment(t *testing.T, svc *experiment.Service, title, difficulty, owner string, published bool, tags ...string) experiment.Experiment {
	exp, err := svc.Create(ctx, experiment.NewExperiment{
		Title:        title,
		Difficulty:   difficulty,
		Tags:         tags,
		NotebookPath: "course/" + title + ".ipynb",
		CreatedBy:    owner,
		Published:    published,
	})
	if err != nil {
		t.Fatalf("createExperiment() failed: %v", err)
	}
	return exp
}

func TestServiceCreate(t *testing.T) {
	svc := setup(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		exp := createExperiment(t, svc, "Python Basics", experiment.DifficultyBeginner, "teacher_001", true)
		if exp.ID == "" {
			t.Fatal("Create() returned an empty id")
		}
		if seen[exp.ID] {
			t.Fatalf("Create() returned a duplicate id %q", exp.ID)
		}
		seen[exp.ID] = true

		if exp.CreatedAt.IsZero() {
			t.Error("Create() did not set CreatedAt")
		}
		// CreatedAt must not change on subsequent reads
		got, err := svc.GetByID(ctx, exp.ID)
		if err != nil {
			t.Fatalf("GetByID() failed: %v", err)
		}
		if !got.CreatedAt.Equal(exp.CreatedAt) {
			t.Errorf("CreatedAt changed on read: %v != %v", got.CreatedAt, exp.CreatedAt)
		}
	}
}

func TestServiceCreateDefaultResources(t *testing.T) {
	svc := setup(t)

	exp := createExperiment(t, svc, "Python Basics", experiment.DifficultyBeginner, "teacher_001", true)
	if exp.Resources != experiment.DefaultResources {
		t.Errorf("Resources = %+v; want defaults %+v", exp.Resources, experiment.DefaultResources)
	}

	custom := experiment.Resources{CPU: 2.0, Memory: "4G", Storage: "2G"}
	exp, err := svc.Create(ctx, experiment.NewExperiment{
		Title:        "Hands-on Model Training",
		Difficulty:   experiment.DifficultyAdvanced,
		NotebookPath: "course/ml-training.ipynb",
		Resources:    custom,
		CreatedBy:    "teacher_001",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if exp.Resources != custom {
		t.Errorf("Resources = %+v; want %+v", exp.Resources, custom)
	}
}

func TestServiceQuery(t *testing.T) {
	svc := setup(t)

	pubBeginner := createExperiment(t, svc, "Python Basics", experiment.DifficultyBeginner, "teacher_001", true, "Python", "basics")
	pubAdvanced := createExperiment(t, svc, "Model Training", experiment.DifficultyAdvanced, "teacher_001", true, "AI")
	draftBeginner := createExperiment(t, svc, "Draft Course", experiment.DifficultyBeginner, "teacher_002", false, "Python")

	tests := []struct {
		name   string
		filter experiment.QueryFilter
		want   []string // expected ids
	}{
		{"no filter returns everything", experiment.QueryFilter{}, []string{pubBeginner.ID, pubAdvanced.ID, draftBeginner.ID}},
		{"teacher viewer sees drafts", experiment.QueryFilter{Viewer: "teacher_001"}, []string{pubBeginner.ID, pubAdvanced.ID, draftBeginner.ID}},
		{"student viewer sees published only", experiment.QueryFilter{Viewer: "student_001"}, []string{pubBeginner.ID, pubAdvanced.ID}},
		{"difficulty filter", experiment.QueryFilter{Difficulty: experiment.DifficultyBeginner}, []string{pubBeginner.ID, draftBeginner.ID}},
		{"difficulty filter for student excludes drafts", experiment.QueryFilter{Difficulty: experiment.DifficultyBeginner, Viewer: "student_001"}, []string{pubBeginner.ID}},
		{"tag filter matches membership", experiment.QueryFilter{Tag: "Python"}, []string{pubBeginner.ID, draftBeginner.ID}},
		{"tag filter for student excludes drafts", experiment.QueryFilter{Tag: "Python", Viewer: "student_001"}, []string{pubBeginner.ID}},
		{"conjunctive filters", experiment.QueryFilter{Difficulty: experiment.DifficultyAdvanced, Tag: "Python"}, []string{}},
		{"no partial tag match", experiment.QueryFilter{Tag: "Pyth"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exps, err := svc.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			got := make(map[string]bool, len(exps))
			for _, exp := range exps {
				got[exp.ID] = true
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Query() returned %d experiments; want %d", len(got), len(tt.want))
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Fatalf("Query() is missing experiment %q", id)
				}
			}
		})
	}
}

func TestServiceUpdate(t *testing.T) {
	svc := setup(t)

	exp := createExperiment(t, svc, "Python Basics", experiment.DifficultyBeginner, "teacher_001", true)

	updated, err := svc.Update(ctx, exp.ID, experiment.UpdateExperiment{
		Title:        "Python Basics v2",
		Difficulty:   experiment.DifficultyIntermediate,
		NotebookPath: "course/python-basics-v2.ipynb",
		CreatedBy:    "teacher_002",
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if updated.ID != exp.ID {
		t.Errorf("Update() changed id: %q != %q", updated.ID, exp.ID)
	}
	if updated.Title != "Python Basics v2" {
		t.Errorf("Title = %q; want %q", updated.Title, "Python Basics v2")
	}
	// whole-record replacement: fields not resupplied are not carried over
	if !updated.CreatedAt.IsZero() {
		t.Errorf("CreatedAt carried over on replace: %v", updated.CreatedAt)
	}
	if updated.Published {
		t.Error("Published carried over on replace")
	}
	if updated.CreatedBy != "teacher_002" {
		t.Errorf("CreatedBy = %q; want %q", updated.CreatedBy, "teacher_002")
	}

	if _, err = svc.Update(ctx, "nope", experiment.UpdateExperiment{}); errors.Cause(err) != experiment.ErrNotFound {
		t.Errorf("Update(absent) err = %v; want ErrNotFound", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc := setup(t)

	exp := createExperiment(t, svc, "Python Basics", experiment.DifficultyBeginner, "teacher_001", true)

	if err := svc.Delete(ctx, exp.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, exp.ID); errors.Cause(err) != experiment.ErrNotFound {
		t.Errorf("GetByID(deleted) err = %v; want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, exp.ID); errors.Cause(err) != experiment.ErrNotFound {
		t.Errorf("Delete(absent) err = %v; want ErrNotFound", err)
	}
}

func TestServiceQueryByOwner(t *testing.T) {
	svc := setup(t)

	published := createExperiment(t, svc, "Python Basics", experiment.DifficultyBeginner, "teacher_001", true)
	draft := createExperiment(t, svc, "Draft Course", experiment.DifficultyBeginner, "teacher_001", false)
	createExperiment(t, svc, "Someone Else's", experiment.DifficultyBeginner, "teacher_002", true)

	exps, err := svc.QueryByOwner(ctx, "teacher_001")
	if err != nil {
		t.Fatalf("QueryByOwner() failed: %v", err)
	}
	if len(exps) != 2 {
		t.Fatalf("QueryByOwner() returned %d experiments; want 2", len(exps))
	}
	// owner always sees own unpublished drafts
	got := map[string]bool{exps[0].ID: true, exps[1].ID: true}
	if !got[published.ID] || !got[draft.ID] {
		t.Errorf("QueryByOwner() = [%s %s]; want [%s %s]", exps[0].ID, exps[1].ID, published.ID, draft.ID)
	}
}

func TestServiceSetPublished(t *testing.T) {
	svc := setup(t)

	exp := createExperiment(t, svc, "Draft Course", experiment.DifficultyBeginner, "teacher_001", false)

	// non-owner cannot publish, teacher role notwithstanding
	if _, err := svc.SetPublished(ctx, exp.ID, "teacher_002", true); errors.Cause(err) != experiment.ErrNotOwner {
		t.Errorf("SetPublished(non-owner) err = %v; want ErrNotOwner", err)
	}
	if got, _ := svc.GetByID(ctx, exp.ID); got.Published {
		t.Error("SetPublished(non-owner) mutated the record")
	}

	updated, err := svc.SetPublished(ctx, exp.ID, "teacher_001", true)
	if err != nil {
		t.Fatalf("SetPublished() failed: %v", err)
	}
	if !updated.Published {
		t.Error("SetPublished(true) did not publish")
	}

	updated, err = svc.SetPublished(ctx, exp.ID, "teacher_001", false)
	if err != nil {
		t.Fatalf("SetPublished() failed: %v", err)
	}
	if updated.Published {
		t.Error("SetPublished(false) did not unpublish")
	}

	if _, err = svc.SetPublished(ctx, "nope", "teacher_001", true); errors.Cause(err) != experiment.ErrNotFound {
		t.Errorf("SetPublished(absent) err = %v; want ErrNotFound", err)
	}
}
