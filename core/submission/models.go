package submission

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mazoezi/core"
)

// Statuses. A submission record only exists once work has started;
// "not_started" is the implicit state reported for absent records.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusGraded     = "graded"
)

// Submission is one student's attempt record against one experiment.
type Submission struct {
	ID              string       `json:"id"`
	ExperimentID    string       `json:"experiment_id"`
	StudentID       string       `json:"student_id"`
	Status          string       `json:"status"`
	StartTime       null.Time    `json:"start_time"`  // UTC
	SubmitTime      null.Time    `json:"submit_time"` // UTC
	NotebookContent null.String  `json:"notebook_content"`
	Score           null.Float64 `json:"score"`
	AIFeedback      null.String  `json:"ai_feedback"`
	TeacherComment  null.String  `json:"teacher_comment"`
}

// SubmitRequest carries the notebook snapshot of the submitted work.
type SubmitRequest struct {
	NotebookContent string `json:"notebook_content" validate:"required"`
}

func (sr *SubmitRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(sr)
}

// GradeRequest carries a teacher's score and optional comment.
// Score is a pointer so an explicit 0 is distinguishable from a missing field.
type GradeRequest struct {
	Score   *float64 `json:"score" validate:"required,gte=0,lte=100"`
	Comment string   `json:"comment"`
}

func (gr *GradeRequest) Validate(validate *validator.Validate) error {
	gr.Comment = core.CleanString(gr.Comment)
	return validate.Struct(gr)
}
