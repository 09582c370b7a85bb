package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/auth"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/metrics"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

type testServer struct {
	*httptest.Server
	issuer *auth.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	m := metrics.New()
	ledger := service.NewLedgerService(db, testutil.Principals(), zap.NewNop(), m)

	key, err := auth.GenerateKey()
	require.NoError(t, err)
	issuer, err := auth.NewTokenIssuer(0, key)
	require.NoError(t, err)

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	router := NewRouter(ledger, testutil.NewTestSystemService(t, db), issuer, m, zap.NewNop(), cfg)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, issuer: issuer}
}

func (s *testServer) do(t *testing.T, method, path, principal string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		token, err := s.issuer.Issue(principal)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestRouter_PortfolioLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := testutil.OwnerPrincipal

	status, _ := s.do(t, http.MethodPost, "/api/admin/fund", owner, map[string]any{"principal": "alice", "amount": 100000})
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(t, http.MethodPost, "/api/portfolio", "alice", map[string]any{
		"strategyType":   "balanced",
		"riskTolerance":  5,
		"initialDeposit": 100000,
		"allocations": []map[string]any{
			{"asset": "BTC", "percentage": 60},
			{"asset": "ETH", "percentage": 40},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.JSONEq(t, `{"portfolioId":1}`, string(body))

	status, body = s.do(t, http.MethodGet, "/api/portfolio", "alice", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"id":1`)

	status, _ = s.do(t, http.MethodPost, "/api/portfolio/1/rebalance", "alice", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodPost, "/api/admin/blocks", owner, map[string]any{"blocks": 144})
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodPost, "/api/portfolio/1/rebalance", "alice", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/account/balance", owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"principal":"ledger.owner","balance":500}`, string(body))

	status, body = s.do(t, http.MethodGet, "/api/contract/stats", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"blockHeight":144`)
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/portfolio", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/system/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/portfolio/abc", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPut, "/api/admin/pause", "alice", map[string]any{"paused": true})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPut, "/api/admin/pause", testutil.OwnerPrincipal, map[string]any{"paused": true})
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(string(body), `ledger_operations_total{operation="set_paused",outcome="success"} 1`), string(body))
}
