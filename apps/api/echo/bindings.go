package echoapi

import "github.com/volatiletech/null/v8"

type (
	CheckRoleResponse struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}

	StartResponse struct {
		SubmissionID      string `json:"submission_id"`
		NotebookLaunchURL string `json:"notebook_launch_url"`
		Message           string `json:"message"`
	}

	SubmitResponse struct {
		Message    string    `json:"message"`
		SubmitTime null.Time `json:"submit_time"`
	}

	GradeResponse struct {
		Message string  `json:"message"`
		Score   float64 `json:"score"`
	}

	PublishResponse struct {
		Message   string `json:"message"`
		Published bool   `json:"published"`
	}
)
