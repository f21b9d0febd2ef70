package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
	"github.com/arturoeanton/go-repo-onboarding/internal/service"
)

var testJWT = middleware.JWTConfig{Secret: "handler-secret", Issuer: "handler-test", ExpiresIn: time.Hour}

func sessionToken(t *testing.T) string {
	t.Helper()
	tok, err := middleware.GenerateJWT(&domain.User{ID: "u-1", GitHubID: "42", Login: "octocat", Name: "Mona"}, testJWT)
	require.NoError(t, err)
	return tok
}

// newTestApp mounts routes under /api the same way the server does.
func newTestApp(register func(api fiber.Router, session fiber.Handler)) *fiber.App {
	app := fiber.New()
	register(app.Group("/api"), middleware.JWTMiddleware(testJWT))
	return app
}

type testResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r testResponse) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &out), string(r.Body))
	return out
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any, token string, cookies ...*http.Cookie) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{Status: resp.StatusCode, Header: resp.Header, Body: b}
}

// fakeTokens hands out a per-login credential so tests can see which one was used.
type fakeTokens struct{}

func (fakeTokens) GitHubToken(_ context.Context, uc *domain.UserContext) string {
	if uc == nil {
		return ""
	}
	return "gho_" + uc.Login
}

type insightsCall struct {
	token string
	ref   domain.RepoRef
	role  string
}

type fakeAnalysis struct {
	err         error
	answer      string
	conventions []domain.Convention
	calls       []insightsCall
	questions   []string
}

func (f *fakeAnalysis) Insights(_ context.Context, token string, ref domain.RepoRef, role string) (*domain.AnalysisResult, error) {
	f.calls = append(f.calls, insightsCall{token, ref, role})
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AnalysisResult{
		Repo:            ref,
		Role:            role,
		Hotspots:        []domain.Hotspot{{File: "main.go", Score: 3, Changes: 3}},
		Summary:         "A small service.",
		Recommendations: []string{"Read main.go first"},
		LanguageStats:   []domain.LanguageStat{{Name: "Go", Percentage: "100.00", Bytes: 10}},
	}, nil
}

func (f *fakeAnalysis) Ask(_ context.Context, token string, ref domain.RepoRef, role, message string) (string, error) {
	f.calls = append(f.calls, insightsCall{token, ref, role})
	f.questions = append(f.questions, message)
	return f.answer, f.err
}

func (f *fakeAnalysis) Extract(_ context.Context, token string, ref domain.RepoRef, role string) ([]domain.Convention, error) {
	f.calls = append(f.calls, insightsCall{token, ref, role})
	return f.conventions, f.err
}

type fakeEngine struct {
	started   *domain.Assessment
	evaluated *domain.Assessment
	err       error
	inputs    []service.EvaluateInput
	devTypes  []string
}

func (f *fakeEngine) Start(_ context.Context, _ domain.RepoRef, devType string) (*domain.Assessment, error) {
	f.devTypes = append(f.devTypes, devType)
	return f.started, f.err
}

func (f *fakeEngine) Evaluate(_ context.Context, in service.EvaluateInput) (*domain.Assessment, error) {
	f.inputs = append(f.inputs, in)
	return f.evaluated, f.err
}

func (f *fakeEngine) Get(id string) (*domain.Assessment, error) {
	if f.started != nil && f.started.ID == id {
		return f.started, nil
	}
	return nil, f.err
}
