package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestHealthz(t *testing.T) {
	h := server.New(server.Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCorrelation(t *testing.T) {
	h := server.New(server.Options{})
	rec, out := post(t, h, "/calculate_correlation", `{
		"dataframe": [
			{"a": 1, "b": "2", "c": 5},
			{"a": 2, "b": 4, "c": 5},
			{"a": 3, "b": 6, "c": 5},
			{"a": "x", "b": 1, "c": 5}
		],
		"columns": ["b", "a", "c"]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, []any{"a", "b", "c"}, out["columns"])
	assert.Equal(t, float64(3), out["rows"])
	m := out["correlation_matrix"].(map[string]any)
	a := m["a"].(map[string]any)
	assert.InDelta(t, 1.0, a["b"], 1e-9)
	assert.Equal(t, 0.0, a["c"])
	assert.Equal(t, 1.0, a["a"])
}

func TestCorrelationErrors(t *testing.T) {
	h := server.New(server.Options{})
	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing dataframe", `{"columns":["a","b"]}`, http.StatusBadRequest},
		{"one column", `{"dataframe":[{"a":1}],"columns":["a"]}`, http.StatusBadRequest},
		{"unknown column", `{"dataframe":[{"a":1}],"columns":["a","zz"]}`, http.StatusBadRequest},
		{"bad order", `{"dataframe":[{"a":1,"b":2}],"columns":["a","b"],"order":"random"}`, http.StatusBadRequest},
		{"bad json", `{"dataframe":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, out := post(t, h, "/calculate_correlation", tc.body)
			assert.Equal(t, tc.code, rec.Code)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestAggregateEndpoint(t *testing.T) {
	h := server.New(server.Options{})
	rec, out := post(t, h, "/aggregate", `{
		"dataframe": [{"g":"b","v":2},{"g":"a","v":1},{"g":"a","v":3},{"g":"b","v":"n/a"}],
		"group_by": "g", "value": "v", "operator": "avg",
		"filter": {"column": "g", "value": "a"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	points := out["points"].([]any)
	require.Len(t, points, 1)
	p := points[0].(map[string]any)
	assert.Equal(t, "a", p["label"])
	assert.Equal(t, 2.0, p["value"])

	rec, out = post(t, h, "/aggregate", `{"dataframe":[{"g":"a","v":"x"}],"group_by":"g","value":"v","operator":"sum"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "v")

	rec, _ = post(t, h, "/aggregate", `{"dataframe":[],"group_by":"g","value":"v","operator":"stddev"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	h := server.New(server.Options{})
	rec, out := post(t, h, "/report", `{
		"dataframe": [{"dept":"X","sales":10},{"dept":"X","sales":20},{"dept":"Y","sales":5}],
		"columns": ["dept","sales"],
		"group_by": "dept"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := out["rows"].([]any)
	require.Len(t, rows, 2)
	x := rows[0].(map[string]any)
	assert.Equal(t, "X", x["key"])
	assert.Equal(t, 2.0, x["count"])
	sales := x["metrics"].(map[string]any)["sales"].(map[string]any)
	assert.Equal(t, 30.0, sales["sum"])
	assert.Equal(t, 15.0, sales["avg"])
	_, hasSamples := x["Samples"]
	assert.False(t, hasSamples)
}

func TestNullAndMissingGroupKeysAreSkipped(t *testing.T) {
	h := server.New(server.Options{})
	frame := `[{"dept":"X","sales":10},{"dept":null,"sales":7},{"sales":3},{"dept":"Y","sales":5}]`

	rec, out := post(t, h, "/report", `{"dataframe":`+frame+`,"group_by":"dept"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := out["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "X", rows[0].(map[string]any)["key"])
	assert.Equal(t, "Y", rows[1].(map[string]any)["key"])

	rec, out = post(t, h, "/aggregate", `{"dataframe":`+frame+`,"group_by":"dept","value":"sales","operator":"sum"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	points := out["points"].([]any)
	require.Len(t, points, 2)
	assert.Equal(t, "X", points[0].(map[string]any)["label"])
	assert.Equal(t, 10.0, points[0].(map[string]any)["value"])
}

func TestDescribeEndpoint(t *testing.T) {
	h := server.New(server.Options{})
	rec, out := post(t, h, "/describe", `{"dataframe":[{"v":1},{"v":2},{"v":3}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cols := out["columns"].([]any)
	require.Len(t, cols, 1)
	v := cols[0].(map[string]any)
	assert.Equal(t, 2.0, v["mean"].(map[string]any)["value"])
	assert.Empty(t, v["modes"])
}

func TestCORSPreflight(t *testing.T) {
	h := server.New(server.Options{AllowedOrigins: []string{"http://app.test"}})
	req := httptest.NewRequest(http.MethodOptions, "/calculate_correlation", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := server.New(server.Options{RequestsPerSecond: 0.001, Burst: 1})
	body := `{"dataframe":[{"v":1},{"v":2}]}`
	rec, _ := post(t, h, "/describe", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, out := post(t, h, "/describe", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate limit exceeded", out["error"])

	// health checks stay outside the limiter
	hc := httptest.NewRecorder()
	h.ServeHTTP(hc, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, hc.Code)
}

func TestMetrics(t *testing.T) {
	h := server.New(server.Options{})
	post(t, h, "/describe", `{"dataframe":[{"v":1}]}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `tabloom_http_requests_total{method="POST",route="/describe",status="200"} 1`)
	assert.Contains(t, body, "tabloom_http_request_duration_seconds")
}

func TestListenAndServeShutdown(t *testing.T) {
	h := server.New(server.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
