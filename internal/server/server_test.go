package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devProdConfig = `{
  "projectName": "my-app",
  "github": {"projectOwner": "acme"},
  "commands": {"beforeFirstStageTestCommands": ["npm test"], "beforeProdTestCommands": ["npm run smoke"]},
  "stage": {
    "prodStageName": "prod",
    "stages": [
      {"name": "dev", "account": "111111111111", "region": "us-east-1"},
      {"name": "prod", "account": "222222222222", "region": "us-east-1"}
    ]
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	validator, err := schema.NewValidator()
	require.NoError(t, err)
	srv := httptest.NewServer(New(ctxlog.Discard(), validator).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/pipelines", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp, raw
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssemble_OK(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv, devProdConfig)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var plan model.Plan
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, "my-app-pipeline", plan.Metadata.Name)
	require.Len(t, plan.Pipeline.Stages, 2)
	assert.Equal(t, map[string]string{"tests": "dev", "beforeProdTests": "prod"}, plan.Spec.Gates)

	prod := plan.Pipeline.Stage("prod")
	require.NotNil(t, prod)
	gate := prod.Action("beforeProdTests")
	require.NotNil(t, gate)
	assert.Equal(t, 3, gate.RunOrder)
	assert.Equal(t, []string{"npm run smoke"}, gate.Commands)
}

func TestAssemble_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		stage string
	}{
		{
			name: "malformed json",
			body: `{"projectName":`,
		},
		{
			name: "unknown field",
			body: `{"projectName": "my-app", "owner": "acme"}`,
		},
		{
			name: "schema violation",
			body: `{"projectName": "my-app", "github": {}, "stage": {"stages": []}}`,
		},
		{
			name:  "empty stage list",
			body:  `{"projectName": "my-app", "github": {"projectOwner": "acme"}, "stage": {"stages": []}}`,
			field: "stage.stages",
		},
		{
			name: "duplicate stage",
			body: `{"projectName": "my-app", "github": {"projectOwner": "acme"}, "stage": {"stages": [
				{"name": "dev", "account": "1", "region": "us-east-1"},
				{"name": "dev", "account": "2", "region": "us-east-1"}
			]}}`,
			field: "stage.stages[1].name",
			stage: "dev",
		},
	}

	srv := newTestServer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := post(t, srv, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.NotEmpty(t, errResp.Error)
			assert.Equal(t, tc.field, errResp.Field)
			assert.Equal(t, tc.stage, errResp.Stage)
		})
	}
}

func TestWriteAssemblyError(t *testing.T) {
	s := New(ctxlog.Discard(), nil)

	tests := []struct {
		name   string
		err    error
		status int
		stage  string
	}{
		{"delegation", &model.DelegationError{Stage: "prod", Err: errors.New("boom")}, http.StatusUnprocessableEntity, "prod"},
		{"configuration", &model.ConfigurationError{Field: "stage.stages", Reason: "empty"}, http.StatusBadRequest, ""},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.writeAssemblyError(rec, s.logger, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tc.stage, errResp.Stage)
		})
	}
}
