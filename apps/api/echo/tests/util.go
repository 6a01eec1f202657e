package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/mazoezi/apps/api/echo"
	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/notebook"
	"github.com/trezcool/mazoezi/core/report"
	"github.com/trezcool/mazoezi/core/role"
	"github.com/trezcool/mazoezi/core/submission"
	emailsvc "github.com/trezcool/mazoezi/services/email"
	logsvc "github.com/trezcool/mazoezi/services/logger"
	inmemdb "github.com/trezcool/mazoezi/storage/database/inmem"
)

var (
	ctx = context.Background()

	conf   *core.Config
	expSvc experiment.ServiceInterface
	subSvc submission.ServiceInterface

	errNotTeacher = httpErr{Error: "teacher role required"}
	errExpMissing = httpErr{Error: "experiment not found"}
	errSubMissing = httpErr{Error: "submission not found"}
)

func setup(t *testing.T) *Server {
	conf = core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	// set up store & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	expRepo := inmemdb.NewExperimentRepository(db)
	subRepo := inmemdb.NewSubmissionRepository(db)

	// set up services
	resolver := role.NewAllowlistResolver(conf.TeacherAccounts)
	gateway := notebook.NewSharedGateway(conf.Jupyter)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	expSvc = experiment.NewService(expRepo, resolver)
	subSvc = submission.NewService(subRepo, expRepo, gateway, mailSvc, conf)
	reportSvc := report.NewService(expRepo, subRepo, resolver)

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	experiment.InitValidators(validate, translator)

	// set up server
	return NewServer(
		ServerDeps{
			Conf:           conf,
			Logger:         logger,
			Resolver:       resolver,
			ExperimentSvc:  expSvc,
			SubmissionSvc:  subSvc,
			ReportSvc:      reportSvc,
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(tt.wantData)),
			B:        difflib.SplitLines(rec.Body.String()),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		t.Errorf("failed! data mismatch:\n%s", diff)
	}
}

// seeding helpers; they go through the services, not the repos

func createExperiment(t *testing.T, title, difficulty, owner string, published bool, tags ...string) experiment.Experiment {
	exp, err := expSvc.Create(ctx, experiment.NewExperiment{
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

func startSubmission(t *testing.T, experimentID, studentID string) submission.Submission {
	sub, _, err := subSvc.Start(ctx, experimentID, studentID)
	if err != nil {
		t.Fatalf("startSubmission() failed: %v", err)
	}
	return sub
}

func submitWork(t *testing.T, id, content string) submission.Submission {
	sub, err := subSvc.Submit(ctx, id, content)
	if err != nil {
		t.Fatalf("submitWork() failed: %v", err)
	}
	return sub
}

func gradeWork(t *testing.T, id string, score float64, comment string) submission.Submission {
	sub, err := subSvc.Grade(ctx, id, score, comment)
	if err != nil {
		t.Fatalf("gradeWork() failed: %v", err)
	}
	return sub
}
