package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gradepath/internal/advisor"
	"github.com/abhisek/gradepath/internal/profile"
)

type stubPredictor struct {
	grade float64
	err   error
	calls int
}

func (s *stubPredictor) Predict(context.Context, profile.Profile) (float64, error) {
	s.calls++
	return s.grade, s.err
}

func (s *stubPredictor) Name() string { return "stub" }

var fixedNow = time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, p *stubPredictor, mutate ...func(*Config)) *httptest.Server {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	s := NewServer(cfg, p)
	s.now = func() time.Time { return fixedNow }
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
	Error    *APIError       `json:"error"`
}

func do(t *testing.T, method, url, body string) (*http.Response, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func exampleJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(profile.Example())
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	resp, env := do(t, http.MethodGet, ts.URL+"/api/v1/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)
	assert.JSONEq(t, `{"status":"ok","predictor":"stub"}`, string(env.Data))
	assert.True(t, fixedNow.Equal(env.Metadata.Timestamp), env.Metadata.Timestamp)
	assert.NotEmpty(t, env.Metadata.RequestID)
}

func TestClassify(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})

	tests := []struct {
		grade string
		want  string
	}{
		{"9.99", `{"grade":9.99,"tier":"at_risk","label":"At Risk","emphasis":"alert","rank":0}`},
		{"10", `{"grade":10,"tier":"needs_improvement","label":"Needs Improvement","emphasis":"warning","rank":1}`},
		{"14", `{"grade":14,"tier":"good","label":"Good Performance","emphasis":"positive","rank":2}`},
		{"16", `{"grade":16,"tier":"excellent","label":"Excellent Performance","emphasis":"highlight","rank":3}`},
		{"-3", `{"grade":-3,"tier":"at_risk","label":"At Risk","emphasis":"alert","rank":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.grade, func(t *testing.T) {
			resp, env := do(t, http.MethodGet, ts.URL+"/api/v1/classify?grade="+tt.grade, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, tt.want, string(env.Data))
		})
	}
}

func TestClassify_BadGrade(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	for _, q := range []string{"", "?grade=", "?grade=abc", "?grade=NaN", "?grade=Inf"} {
		resp, env := do(t, http.MethodGet, ts.URL+"/api/v1/classify"+q, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		require.NotNil(t, env.Error, q)
		assert.Equal(t, CodeInvalidGrade, env.Error.Code)
	}
}

func TestFields(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	resp, env := do(t, http.MethodGet, ts.URL+"/api/v1/fields", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fields []profile.Field
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Len(t, fields, len(profile.Columns()))
	assert.Equal(t, "school", fields[0].Column)
}

func TestRecommend(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	body := `{"profile":` + exampleJSON(t) + `,"predicted_grade":14.5}`

	resp, env := do(t, http.MethodPost, ts.URL+"/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var a advisor.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, 14.5, a.Grade)
	assert.Equal(t, "good", a.Tier.String())
	require.Len(t, a.Recommendations, 2)
	assert.Equal(t, advisor.CategoryPositive, a.Recommendations[0].Category)
	assert.Equal(t, advisor.CategoryImprovement, a.Recommendations[1].Category)
}

func TestRecommend_MissingGrade(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	resp, env := do(t, http.MethodPost, ts.URL+"/api/v1/recommend", `{"profile":`+exampleJSON(t)+`}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
	assert.Equal(t, []profile.FieldError{{Column: "predicted_grade", Rule: "required"}}, env.Error.Fields)
}

func TestRecommend_IncompleteProfile(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	resp, env := do(t, http.MethodPost, ts.URL+"/api/v1/recommend", `{"profile":{"school":"GP"},"predicted_grade":12}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
	assert.Len(t, env.Error.Fields, len(profile.Columns())-1)
}

func TestPredict(t *testing.T) {
	stub := &stubPredictor{grade: 13.42}
	ts := newTestServer(t, stub)

	resp, env := do(t, http.MethodPost, ts.URL+"/api/v1/predict", exampleJSON(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stub.calls)

	var got map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 13.42, got["predicted_grade"])
	assert.Equal(t, "needs_improvement", got["tier"])
	assert.Equal(t, "Needs Improvement", got["performance_level"])
	assert.NotEmpty(t, got["id"])
	assert.True(t, strings.HasPrefix(got["mailto"].(string), "mailto:?subject=Student%20Achievement"))

	prof := got["profile"].(map[string]any)
	assert.Equal(t, "GP", prof["school"])
}

func TestPredict_ValidationError(t *testing.T) {
	stub := &stubPredictor{grade: 10}
	ts := newTestServer(t, stub)

	bad := strings.Replace(exampleJSON(t), `"G2":14`, `"G2":21`, 1)
	resp, env := do(t, http.MethodPost, ts.URL+"/api/v1/predict", bad)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
	assert.Equal(t, []profile.FieldError{{Column: "G2", Rule: "max", Param: "20"}}, env.Error.Fields)
	assert.Zero(t, stub.calls, "predictor must not run on invalid input")
}

func TestPredict_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	resp, env := do(t, http.MethodPost, ts.URL+"/api/v1/predict", `{"school":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeInvalidJSON, env.Error.Code)
}

func TestPredict_PredictorFailure(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{err: errors.New("model unavailable: open model.json")})
	resp, env := do(t, http.MethodPost, ts.URL+"/api/v1/predict", exampleJSON(t))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodePredictionFailed, env.Error.Code)
	assert.Contains(t, env.Error.Message, "prediction failed: model unavailable")
}

func TestPredict_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})
	resp, _ := do(t, http.MethodPost, ts.URL+"/api/v1/predict", `{"x":"`+strings.Repeat("a", maxBodyBytes)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{}, func(c *Config) {
		c.RateLimit = 2
		c.RateWindow = time.Minute
	})

	for i := 0; i < 2; i++ {
		resp, _ := do(t, http.MethodGet, ts.URL+"/api/v1/health", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, env := do(t, http.MethodGet, ts.URL+"/api/v1/health", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeRateLimited, env.Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{}, func(c *Config) {
		c.CORSOrigins = []string{"https://school.example"}
	})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/predict", nil)
	req.Header.Set("Origin", "https://school.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://school.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{})

	resp, env := do(t, http.MethodGet, ts.URL+"/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, env.Error.Code)

	resp, env = do(t, http.MethodGet, ts.URL+"/api/v1/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, CodeMethodNotAllowed, env.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubPredictor{grade: 15})
	do(t, http.MethodPost, ts.URL+"/api/v1/predict", exampleJSON(t))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "gradepath_predictions_total")
	assert.Contains(t, string(raw), "gradepath_api_requests_total")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RateLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RateWindow = 0
	assert.Error(t, cfg.Validate())

	cfg.RateLimit = 0
	assert.NoError(t, cfg.Validate())
}
