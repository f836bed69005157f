package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowsheet/internal/server"
	"github.com/matzehuels/flowsheet/pkg/flowsheet"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(&bytes.Buffer{})
	srv := server.New(server.Config{Logger: logger, Store: store.NewMemoryStore()})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func plantJSON(t *testing.T) json.RawMessage {
	t.Helper()
	data, err := os.ReadFile("../../pkg/io/testdata/plant.json")
	require.NoError(t, err)
	return data
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var r *bytes.Reader
	switch b := body.(type) {
	case nil:
		r = bytes.NewReader(nil)
	case string:
		r = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type solveBody struct {
	RunID  string `json:"runId"`
	Result struct {
		Process struct {
			Converged bool `json:"converged"`
			Streams   map[string]struct {
				FlowRate float64 `json:"flowRate"`
			} `json:"streams"`
		} `json:"process"`
	} `json:"result"`
	Artifacts map[string][]byte `json:"artifacts"`
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[server.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Version)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestMaterials(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/api/materials", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[[]material.Material](t, resp)
	assert.Len(t, body, len(material.Defaults()))
}

func TestSolve(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodPost, "/api/solve", map[string]any{
		"definition": plantJSON(t),
		"formats":    []string{"dot"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[solveBody](t, resp)
	_, err := uuid.Parse(body.RunID)
	assert.NoError(t, err)
	assert.True(t, body.Result.Process.Converged)
	assert.InDelta(t, 13.5, body.Result.Process.Streams["vapor"].FlowRate, 1e-9)
	assert.InDelta(t, 1.5, body.Result.Process.Streams["liquid"].FlowRate, 1e-9)
	assert.Contains(t, string(body.Artifacts["dot"]), "digraph")
}

func TestSolveRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)
	plant := plantJSON(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"empty body", "", http.StatusBadRequest, "INVALID_FORMAT"},
		{"malformed", "{", http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", map[string]any{"definition": plant, "colour": "red"}, http.StatusBadRequest, "INVALID_FORMAT"},
		{"missing definition", map[string]any{"formats": []string{"svg"}}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", map[string]any{"definition": plant, "formats": []string{"gif"}}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad solver options", map[string]any{"definition": plant, "solver": map[string]any{"method": "euler"}}, http.StatusBadRequest, "INVALID_OPTIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, http.MethodPost, "/api/solve", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeBody[server.ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestSolveReportsEveryDefinitionError(t *testing.T) {
	ts := newTestServer(t)
	def := `{
		"name": "broken",
		"streams": [],
		"units": [{"id": "m", "type": "mixer"}, {"id": "m", "type": "mixer"}],
		"connections": [{"from": "ghost", "fromPort": "out", "to": "m", "toPort": "in1", "stream": "s"}]
	}`
	resp := do(t, ts, http.MethodPost, "/api/solve", map[string]any{"definition": json.RawMessage(def)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[server.ErrorResponse](t, resp)
	assert.GreaterOrEqual(t, len(body.Details), 2)
}

func TestSolveInvalidFlowsheet(t *testing.T) {
	ts := newTestServer(t)
	def := `{
		"name": "lonely mixer",
		"streams": [{"id": "feed", "temperature": 298, "pressure": 101325, "flowRate": 1,
			"composition": [{"material": "Water", "fraction": 1}]}],
		"units": [{"id": "m", "type": "mixer"}],
		"connections": [
			{"to": "m", "toPort": "in1", "stream": "feed"},
			{"from": "m", "fromPort": "out", "stream": "product"}
		]
	}`
	resp := do(t, ts, http.MethodPost, "/api/solve", map[string]any{"definition": json.RawMessage(def)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var solved struct {
		Result struct {
			Validation flowsheet.ValidationReport `json:"validation"`
			Process    *struct {
				Converged bool     `json:"converged"`
				Warnings  []string `json:"warnings"`
				Errors    []string `json:"errors"`
			} `json:"process"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&solved))
	resp.Body.Close()
	assert.False(t, solved.Result.Validation.Valid)
	require.NotNil(t, solved.Result.Process)
	assert.Contains(t, solved.Result.Process.Warnings, "no unit was ready to calculate")
	assert.NotNil(t, solved.Result.Process.Errors)

	resp = do(t, ts, http.MethodPost, "/api/solve", map[string]any{"definition": json.RawMessage(def), "strict": true})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[server.InvalidResponse](t, resp)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	assert.False(t, body.Validation.Valid)
	assert.NotEmpty(t, body.Validation.Errors)
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/api/validate", map[string]any{"definition": plantJSON(t)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeBody[flowsheet.ValidationReport](t, resp)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)

	broken := `{"name": "x", "units": [{"id": "u", "type": "furnace"}]}`
	resp = do(t, ts, http.MethodPost, "/api/validate", map[string]any{"definition": json.RawMessage(broken)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report = decodeBody[flowsheet.ValidationReport](t, resp)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Errors)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/api/export", map[string]any{"definition": plantJSON(t), "format": "toml"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/toml", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `name = "ethanol plant"`)
	assert.Contains(t, buf.String(), "[[unit]]")

	resp = do(t, ts, http.MethodPost, "/api/export", map[string]any{"definition": plantJSON(t), "solved": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	solved := decodeBody[struct {
		Streams []struct {
			ID       string  `json:"id"`
			FlowRate float64 `json:"flowRate"`
		} `json:"streams"`
	}](t, resp)
	flows := make(map[string]float64)
	for _, s := range solved.Streams {
		flows[s.ID] = s.FlowRate
	}
	assert.InDelta(t, 15.0, flows["s3"], 1e-9)
}

func TestFlowsheetLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/api/flowsheets", map[string]any{"definition": plantJSON(t)})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decodeBody[store.Record](t, resp)
	require.NotEmpty(t, rec.ID)
	assert.Equal(t, "ethanol plant", rec.Name)

	resp = do(t, ts, http.MethodGet, "/api/flowsheets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]store.Record](t, resp)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Definition)

	resp = do(t, ts, http.MethodGet, "/api/flowsheets/"+rec.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[store.Record](t, resp)
	require.NotNil(t, got.Definition)
	assert.Len(t, got.Definition.Units, 3)

	resp = do(t, ts, http.MethodPost, "/api/flowsheets/"+rec.ID+"/solve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	solved := decodeBody[solveBody](t, resp)
	assert.True(t, solved.Result.Process.Converged)

	resp = do(t, ts, http.MethodPost, "/api/flowsheets/"+rec.ID+"/solve", map[string]any{"solver": map[string]any{"maxIterations": 1}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/flowsheets/"+rec.ID+"/diagram/dot?detailed=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))
	var dot bytes.Buffer
	_, err := dot.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, dot.String(), "kg/s")

	resp = do(t, ts, http.MethodGet, "/api/flowsheets/"+rec.ID+"/diagram/gif", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodDelete, "/api/flowsheets/"+rec.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/flowsheets/"+rec.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeBody[server.ErrorResponse](t, resp).Code)
}

func TestSaveRejectsBadID(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodPost, "/api/flowsheets", map[string]any{"id": "plant-1", "definition": plantJSON(t)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[server.ErrorResponse](t, resp)
	assert.True(t, strings.Contains(body.Error, "UUID"), body.Error)
}
