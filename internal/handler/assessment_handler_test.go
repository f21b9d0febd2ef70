package handler

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

func assessmentApp(f *fakeEngine) *fiber.App {
	return newTestApp(NewAssessmentHandler(f, zerolog.Nop()).Register)
}

func TestAssessmentHandler_Start(t *testing.T) {
	f := &fakeEngine{started: &domain.Assessment{ID: "a-1", Task: domain.Task{Title: "Add a flag"}}}
	app := assessmentApp(f)

	resp := doRequest(t, app, "GET", "/api/assessment/start?repo=acme/widgets&type=backend", nil, "")
	require.Equal(t, 200, resp.Status, string(resp.Body))
	body := resp.JSON(t)
	assert.Equal(t, "a-1", body["id"])
	assert.NotContains(t, body, "score", "a generated assessment has no score")
	assert.Equal(t, []string{"backend"}, f.devTypes)
}

func TestAssessmentHandler_StartMissingParams(t *testing.T) {
	app := assessmentApp(&fakeEngine{})

	for _, target := range []string{
		"/api/assessment/start?repo=acme/widgets",
		"/api/assessment/start?type=backend",
	} {
		resp := doRequest(t, app, "GET", target, nil, "")
		assert.Equal(t, 400, resp.Status)
		assert.Equal(t, "Repository and developer type are required", resp.JSON(t)["error"])
	}
}

func TestAssessmentHandler_StartMalformedModelOutput(t *testing.T) {
	app := assessmentApp(&fakeEngine{err: fmt.Errorf("assessment generation: %w", &domain.MalformedAIResponseError{Raw: `{"task": {`})})

	resp := doRequest(t, app, "GET", "/api/assessment/start?repo=acme/widgets&type=backend", nil, "")
	assert.Equal(t, 500, resp.Status)
	assert.NotContains(t, string(resp.Body), `{"task"`)
}

func TestAssessmentHandler_Evaluate(t *testing.T) {
	score := 8.5
	f := &fakeEngine{evaluated: &domain.Assessment{ID: "a-1", Score: &score, Feedback: "Solid"}}
	app := assessmentApp(f)

	resp := doRequest(t, app, "POST", "/api/assessment/evaluate", map[string]any{
		"assessmentId": "a-1",
		"task":         map[string]any{"title": "Add a flag"},
		"solution":     map[string]string{"main.go": "package main"},
		"repo":         "https://github.com/acme/widgets",
	}, sessionToken(t))
	require.Equal(t, 200, resp.Status, string(resp.Body))
	assert.Equal(t, 8.5, resp.JSON(t)["score"])

	require.Len(t, f.inputs, 1)
	in := f.inputs[0]
	assert.Equal(t, "a-1", in.AssessmentID)
	assert.Equal(t, "Add a flag", in.Task.Title)
	assert.Equal(t, map[string]string{"main.go": "package main"}, in.Solution)
	assert.Equal(t, domain.RepoRef{Owner: "acme", Repo: "widgets"}, in.Repo)
}

func TestAssessmentHandler_EvaluateValidation(t *testing.T) {
	app := assessmentApp(&fakeEngine{})
	token := sessionToken(t)

	resp := doRequest(t, app, "POST", "/api/assessment/evaluate", map[string]any{
		"solution": map[string]string{},
		"repo":     "acme/widgets",
	}, "")
	assert.Equal(t, 401, resp.Status)

	resp = doRequest(t, app, "POST", "/api/assessment/evaluate", map[string]any{
		"solution": map[string]string{},
		"repo":     "acme/widgets",
	}, token)
	assert.Equal(t, 400, resp.Status)
	assert.Equal(t, "task is required", resp.JSON(t)["error"])

	resp = doRequest(t, app, "POST", "/api/assessment/evaluate", map[string]any{
		"task":     map[string]any{"title": "t"},
		"solution": map[string]string{},
		"repo":     "nope",
	}, token)
	assert.Equal(t, 400, resp.Status)
	assert.Equal(t, invalidRepoMessage, resp.JSON(t)["error"])
}

func TestAssessmentHandler_EvaluateTwice(t *testing.T) {
	app := assessmentApp(&fakeEngine{err: fmt.Errorf("evaluate: %w", domain.NewInvalidInput("assessment a-1 was already evaluated"))})

	resp := doRequest(t, app, "POST", "/api/assessment/evaluate", map[string]any{
		"assessmentId": "a-1",
		"task":         map[string]any{"title": "t"},
		"solution":     map[string]string{},
		"repo":         "acme/widgets",
	}, sessionToken(t))
	assert.Equal(t, 400, resp.Status)
	assert.Equal(t, "assessment a-1 was already evaluated", resp.JSON(t)["error"])
}

func TestAssessmentHandler_Get(t *testing.T) {
	f := &fakeEngine{
		started: &domain.Assessment{ID: "a-1", Task: domain.Task{Title: "t"}},
		err:     port.ErrAssessmentNotFound,
	}
	app := assessmentApp(f)

	resp := doRequest(t, app, "GET", "/api/assessment/a-1", nil, "")
	assert.Equal(t, 200, resp.Status)

	resp = doRequest(t, app, "GET", "/api/assessment/missing", nil, "")
	assert.Equal(t, 404, resp.Status)
	assert.Equal(t, "Assessment not found", resp.JSON(t)["error"])
}
