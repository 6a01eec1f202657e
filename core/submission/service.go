package submission

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/notebook"
)

var (
	// errors
	ErrNotFound      = errors.New("submission not found")
	ErrAlreadyGraded = errors.New("a graded submission cannot be resubmitted")
	ErrScoreRange    = errors.New("score must be between 0 and 100")
)

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		// GetActiveSubmission returns the latest non-graded attempt of
		// (experimentID, studentID), or ErrNotFound.
		GetActiveSubmission(ctx context.Context, experimentID, studentID string) (Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
		QuerySubmissionsByExperiment(ctx context.Context, experimentID string) ([]Submission, error)
		QueryAllSubmissions(ctx context.Context) ([]Submission, error)
	}

	ServiceInterface interface {
		Start(ctx context.Context, experimentID, studentID string) (Submission, string, error)
		Submit(ctx context.Context, id, notebookContent string) (Submission, error)
		Grade(ctx context.Context, id string, score float64, comment string) (Submission, error)
		GetByID(ctx context.Context, id string) (Submission, error)
		QueryByStudent(ctx context.Context, studentID string) ([]Submission, error)
		QueryByExperiment(ctx context.Context, experimentID string) ([]Submission, error)
	}

	Service struct {
		repo    Repository
		expRepo experiment.Repository
		gateway notebook.Gateway
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	repo Repository,
	expRepo experiment.Repository,
	gateway notebook.Gateway,
	mailSvc core.EmailService,
	conf *core.Config,
) *Service {
	return &Service{
		repo:    repo,
		expRepo: expRepo,
		gateway: gateway,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// Start opens an attempt on an experiment and hands back the notebook launch
// URL. At most one non-graded attempt exists per (experiment, student) pair:
// a repeated start returns the existing attempt instead of forking a new one.
func (svc *Service) Start(ctx context.Context, experimentID, studentID string) (Submission, string, error) {
	if _, err := svc.expRepo.GetExperimentByID(ctx, experimentID); err != nil {
		return Submission{}, "", err
	}

	if sub, err := svc.repo.GetActiveSubmission(ctx, experimentID, studentID); err == nil {
		return sub, svc.gateway.LaunchURL(), nil
	} else if errors.Cause(err) != ErrNotFound {
		return Submission{}, "", err
	}

	sub := Submission{
		ExperimentID: experimentID,
		StudentID:    studentID,
		Status:       StatusInProgress,
		StartTime:    null.TimeFrom(time.Now().UTC()),
	}
	sub, err := svc.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, "", err
	}
	return sub, svc.gateway.LaunchURL(), nil
}

// Submit stores the notebook snapshot and moves the attempt to submitted.
// Resubmission before grading overwrites content and submit time; a graded
// attempt is final and cannot be regressed.
func (svc *Service) Submit(ctx context.Context, id, notebookContent string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == StatusGraded {
		return Submission{}, core.NewValidationError(ErrAlreadyGraded)
	}

	sub.NotebookContent = null.StringFrom(notebookContent)
	sub.Status = StatusSubmitted
	sub.SubmitTime = null.TimeFrom(time.Now().UTC())
	return svc.repo.UpdateSubmission(ctx, sub)
}

// Grade records score and comment and moves the attempt to graded.
// The score is the only validated input in this service: [0, 100] inclusive.
func (svc *Service) Grade(ctx context.Context, id string, score float64, comment string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if score < 0 || score > 100 {
		return Submission{}, core.NewValidationError(ErrScoreRange, core.FieldError{
			Field: "score",
			Error: ErrScoreRange.Error(),
		})
	}

	sub.Score = null.Float64From(score)
	sub.TeacherComment = null.NewString(comment, comment != "")
	sub.Status = StatusGraded
	sub, err = svc.repo.UpdateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}

	svc.sendGradedMail(sub)
	return sub, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Submission, error) {
	return svc.repo.GetSubmissionByID(ctx, id)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(ctx, studentID)
}

func (svc *Service) QueryByExperiment(ctx context.Context, experimentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByExperiment(ctx, experimentID)
}

func (svc *Service) sendGradedMail(sub Submission) {
	body := fmt.Sprintf("Your submission has been graded: %v/100.", sub.Score.Float64)
	if sub.TeacherComment.Valid {
		body += "\n\nTeacher's comment:\n" + sub.TeacherComment.String
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: sub.StudentID, Address: sub.StudentID + "@" + svc.conf.Mail.AccountDomain}},
		Subject: "Your work has been graded",
		BodyStr: body,
	})
}
