package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-reconciliation/internal/api"
	"rental-reconciliation/internal/compare"
	"rental-reconciliation/internal/domain"
	"rental-reconciliation/internal/gateway"
	"rental-reconciliation/internal/usecase"
)

func newServer(t *testing.T, withArchive bool) *httptest.Server {
	t.Helper()

	var runs *gateway.RunRepo
	var opts []usecase.Option
	if withArchive {
		db, err := gateway.InitDB(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		runs = gateway.NewRunRepo(db)
		opts = append(opts, usecase.WithSinks(runs))
	}

	uc := usecase.NewReconciliationUseCase(nil, nil, usecase.NewEngine(compare.New(time.UTC)), opts...)

	var store api.RunStore
	if runs != nil {
		store = runs
	}
	srv := httptest.NewServer(api.NewRouter(uc, store, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

const reconcileBody = `{
	"transactions": [
		{"internal_id": "T1", "correlation_key": "ORD-1", "counterparty_name": "Jan Novak",
		 "window_start": "2025-08-20T10:00:00Z", "window_end": "2025-08-22T10:00:00Z", "amount": "100"},
		{"internal_id": "T2", "counterparty_name": "Ján Kovář",
		 "window_start": "2025-08-21T10:00:00Z", "window_end": "2025-08-23T10:00:00Z", "amount": "99.99"}
	],
	"inbound": [
		{"source_id": "E1", "correlation_key": "ORD-1", "amount": "250", "contact_email": "jan@example.com"},
		{"source_id": "E2", "counterparty_name": "Kovar", "amount": "99.99"}
	]
}`

func postReconcile(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/reconcile", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestReconcileEndpoint_BodyTooLarge(t *testing.T) {
	uc := usecase.NewReconciliationUseCase(nil, nil, usecase.NewEngine(compare.New(time.UTC)))
	router := api.NewRouter(uc, nil, zerolog.Nop())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "over the limit", body: `{"transactions": [` + strings.Repeat(" ", api.MaxReconcileBodyBytes) + `], "inbound": []}`, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "small batch", body: `{"transactions": [], "inbound": []}`, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestReconcileEndpoint(t *testing.T) {
	srv := newServer(t, false)

	resp := postReconcile(t, srv, reconcileBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var report domain.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))

	require.Len(t, report.Matches, 2)
	assert.Equal(t, domain.StrategyCorrelationKey, report.Matches[0].Strategy)
	assert.Equal(t, []string{domain.FieldContactEmail}, report.Matches[0].MissingFields)
	assert.Equal(t, domain.StrategyFuzzyName, report.Matches[1].Strategy)
	assert.Equal(t, 100, report.Summary.MatchRatePercent)
	assert.NotEmpty(t, report.RunID)
}

func TestReconcileEndpoint_Errors(t *testing.T) {
	srv := newServer(t, false)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "malformed body", body: "{", wantStatus: http.StatusBadRequest},
		{
			name:       "duplicate internal id",
			body:       `{"transactions": [{"internal_id": "T1", "amount": 1}, {"internal_id": "T1", "amount": 2}]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postReconcile(t, srv, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRunEndpoints(t *testing.T) {
	srv := newServer(t, true)

	resp := postReconcile(t, srv, reconcileBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created domain.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	listResp, err := http.Get(srv.URL + "/api/v1/runs")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list struct {
		Runs []domain.RunSummary `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, created.RunID, list.Runs[0].RunID)
	assert.Equal(t, 2, list.Runs[0].Matched)

	getResp, err := http.Get(srv.URL + "/api/v1/runs/" + created.RunID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var archived domain.Report
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&archived))
	assert.Equal(t, created.Summary, archived.Summary)

	missingResp, err := http.Get(srv.URL + "/api/v1/runs/does-not-exist")
	require.NoError(t, err)
	defer missingResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestRunEndpoints_ArchiveDisabled(t *testing.T) {
	srv := newServer(t, false)

	resp, err := http.Get(srv.URL + "/api/v1/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newServer(t, false)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
