package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/auth/jwt"
	"github.com/scentory/scentory/internal/auth/password"
	"github.com/scentory/scentory/internal/auth/revocation"
	"github.com/scentory/scentory/internal/common/config"
)

type testEnv struct {
	db       database.Database
	accounts *AccountService
	catalog  *CatalogService
	ledger   *LedgerService
	stats    *StatsService
	tokens   *jwt.Service
}

func newTestEnv(t *testing.T, enforceOwnership bool) *testEnv {
	t.Helper()
	db, err := database.NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := jwt.NewService(jwt.Config{SecretKey: "test-secret", Duration: 30 * time.Minute})
	require.NoError(t, err)

	lg := zap.NewNop()
	return &testEnv{
		db:       db,
		accounts: NewAccountService(db, hasher, tokens, revocation.NewMemoryStore(), nil, lg),
		catalog:  NewCatalogService(db, nil, lg),
		ledger:   NewLedgerService(db, enforceOwnership, nil, lg),
		stats:    NewStatsService(db),
		tokens:   tokens,
	}
}

func (e *testEnv) register(t *testing.T, name string) *database.User {
	t.Helper()
	u, err := e.accounts.Register(context.Background(), name, name+"@example.com", "pw-"+name)
	require.NoError(t, err)
	return u
}

func (e *testEnv) perfume(t *testing.T, owner uint, name, brand string) *database.Perfume {
	t.Helper()
	p, err := e.catalog.Create(context.Background(), owner, PerfumeInput{
		Name:          name,
		Brand:         brand,
		Concentration: database.ConcentrationEDP,
		Season:        database.SeasonAll,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) purchase(t *testing.T, user, perfume uint, date string, price float64) *database.Purchase {
	t.Helper()
	p, err := e.ledger.Create(context.Background(), user, PurchaseInput{PerfumeID: perfume, Date: day(date), Price: price})
	require.NoError(t, err)
	return p
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }
