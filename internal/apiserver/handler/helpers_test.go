package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/apiserver/middleware"
	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/auth/jwt"
	"github.com/scentory/scentory/internal/auth/password"
	"github.com/scentory/scentory/internal/auth/revocation"
	"github.com/scentory/scentory/internal/common/config"
	"github.com/scentory/scentory/pkg/metrics"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     database.Database
	hasher *password.Hasher
}

type serverOption func(*Deps, *bool)

func withLimiter(l *middleware.RateLimiter) serverOption {
	return func(d *Deps, _ *bool) { d.AuthLimiter = l }
}

func withOwnership() serverOption {
	return func(_ *Deps, enforce *bool) { *enforce = true }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := jwt.NewService(jwt.Config{SecretKey: "handler-test-secret", Duration: 30 * time.Minute})
	require.NoError(t, err)

	lg := zap.NewNop()
	m := metrics.New(config.MetricsConfig{Enabled: true, Namespace: "scentory_test"})

	deps := Deps{Logger: lg, Metrics: m}
	enforce := false
	for _, opt := range opts {
		opt(&deps, &enforce)
	}
	deps.Accounts = service.NewAccountService(db, hasher, tokens, revocation.NewMemoryStore(), m, lg)
	deps.Catalog = service.NewCatalogService(db, m, lg)
	deps.Ledger = service.NewLedgerService(db, enforce, m, lg)
	deps.Stats = service.NewStatsService(db)

	return &testServer{t: t, router: NewRouter(deps), db: db, hasher: hasher}
}

type response struct {
	Code   int
	Header http.Header
	Body   string
}

func (r response) get(path string) gjson.Result {
	return gjson.Get(r.Body, path)
}

func (r response) root() gjson.Result {
	return gjson.Parse(r.Body)
}

func (s *testServer) do(method, target, token string, body any) response {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) response {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return response{Code: w.Code, Header: w.Header(), Body: w.Body.String()}
}

func (s *testServer) login(username, pw string) response {
	form := url.Values{"username": {username}, "password": {pw}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.serve(req)
}

// signup registers username and returns a bearer token for it
func (s *testServer) signup(username string) string {
	s.t.Helper()
	res := s.do(http.MethodPost, "/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body)
	res = s.login(username, "pw-"+username)
	require.Equal(s.t, http.StatusOK, res.Code, res.Body)
	return res.get("access_token").String()
}

// adminToken seeds an ADMIN account and logs it in
func (s *testServer) adminToken() string {
	s.t.Helper()
	_, err := database.InitSuperAdmin(context.Background(), s.db, s.hasher, "root", "root@example.com", "root-pw")
	require.NoError(s.t, err)
	res := s.login("root", "root-pw")
	require.Equal(s.t, http.StatusOK, res.Code, res.Body)
	return res.get("access_token").String()
}

func (s *testServer) createPerfume(token, name, brand string) int64 {
	s.t.Helper()
	res := s.do(http.MethodPost, "/perfumes", token, map[string]any{
		"name": name, "brand": brand, "concentration": "EDP", "season": "ALL",
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body)
	return res.get("id").Int()
}

func (s *testServer) createPurchase(token string, perfumeID int64, date string, price float64) int64 {
	s.t.Helper()
	res := s.do(http.MethodPost, "/purchases", token, map[string]any{
		"perfume_id": perfumeID, "date": date, "price": price,
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body)
	return res.get("id").Int()
}

