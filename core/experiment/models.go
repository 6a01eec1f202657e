package experiment

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Difficulty levels
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

var Difficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

type (
	// Resources is the advisory compute envelope of an experiment.
	// Nothing in this service enforces it; the notebook backend may.
	Resources struct {
		CPU     float64 `json:"cpu"`
		Memory  string  `json:"memory"`
		Storage string  `json:"storage"`
	}

	Experiment struct {
		ID           string    `json:"id"`
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		Difficulty   string    `json:"difficulty"`
		Tags         []string  `json:"tags"`
		NotebookPath string    `json:"notebook_path"`
		Resources    Resources `json:"resources"`
		Deadline     null.Time `json:"deadline"`
		CreatedAt    time.Time `json:"created_at"` // UTC
		CreatedBy    string    `json:"created_by"`
		Published    bool      `json:"published"`
	}
)

// DefaultResources applies when a payload omits the resources mapping.
var DefaultResources = Resources{CPU: 1.0, Memory: "2G", Storage: "1G"}

// NewExperiment contains information needed to create a new Experiment.
type NewExperiment struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty" validate:"required,difficulty"`
	Tags         []string  `json:"tags"`
	NotebookPath string    `json:"notebook_path" validate:"required"`
	Resources    Resources `json:"resources"`
	Deadline     null.Time `json:"deadline"`
	CreatedBy    string    `json:"created_by" validate:"required,alphanum_"`
	Published    bool      `json:"published"`
}

// UpdateExperiment defines what may be provided to replace an existing Experiment.
// Replacement is whole-record: fields left out of the payload are not carried
// over from the stored record, except ID which always survives.
type UpdateExperiment struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty" validate:"required,difficulty"`
	Tags         []string  `json:"tags"`
	NotebookPath string    `json:"notebook_path" validate:"required"`
	Resources    Resources `json:"resources"`
	Deadline     null.Time `json:"deadline"`
	CreatedAt    null.Time `json:"created_at"`
	CreatedBy    string    `json:"created_by" validate:"required,alphanum_"`
	Published    bool      `json:"published"`
}

// QueryFilter fields are applied conjunctively. Viewer gates visibility:
// a viewer resolving to the student role only ever sees published experiments.
type QueryFilter struct {
	Difficulty string
	Tag        string
	Viewer     string

	// PublishedOnly is derived from Viewer by the service; repositories
	// apply it before any other filter.
	PublishedOnly bool
}
