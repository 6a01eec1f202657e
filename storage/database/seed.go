package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mazoezi/core/experiment"
)

// Seed creates the demo course catalog. It is a no-op when experiments
// already exist.
func Seed(ctx context.Context, svc experiment.ServiceInterface) error {
	existing, err := svc.Query(ctx, experiment.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "checking existing experiments")
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now().UTC()
	demos := []experiment.NewExperiment{
		{
			Title:        "Python Basics",
			Description:  "Get familiar with Python's basic syntax: variables, data types and control flow.",
			Difficulty:   experiment.DifficultyBeginner,
			Tags:         []string{"Python", "basics", "syntax"},
			NotebookPath: "course/python-basics.ipynb",
			Resources:    experiment.Resources{CPU: 1.0, Memory: "1G", Storage: "512M"},
			Deadline:     null.TimeFrom(now.AddDate(0, 0, 7)),
			CreatedBy:    "teacher_001",
			Published:    true,
		},
		{
			Title:        "Intro to Pandas",
			Description:  "Basic data wrangling with Pandas: DataFrame creation, indexing and filtering.",
			Difficulty:   experiment.DifficultyIntermediate,
			Tags:         []string{"Data Science", "Pandas"},
			NotebookPath: "course/pandas-intro.ipynb",
			Resources:    experiment.Resources{CPU: 1.0, Memory: "2G", Storage: "1G"},
			Deadline:     null.TimeFrom(now.AddDate(0, 0, 14)),
			CreatedBy:    "teacher_001",
			Published:    true,
		},
		{
			Title:        "Hands-on Model Training",
			Description:  "Build a simple classifier with Scikit-learn and evaluate it on a real dataset.",
			Difficulty:   experiment.DifficultyAdvanced,
			Tags:         []string{"Machine Learning", "Scikit-learn", "AI"},
			NotebookPath: "course/ml-training.ipynb",
			Resources:    experiment.Resources{CPU: 2.0, Memory: "4G", Storage: "2G"},
			Deadline:     null.TimeFrom(now.AddDate(0, 0, 21)),
			CreatedBy:    "teacher_001",
			Published:    true,
		},
	}

	for _, demo := range demos {
		if _, err := svc.Create(ctx, demo); err != nil {
			return errors.Wrapf(err, "seeding experiment %q", demo.Title)
		}
	}
	return nil
}
