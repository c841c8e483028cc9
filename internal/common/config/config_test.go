package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnv(t *testing.T) {
	t.Setenv("X_A", "va")
	in := []byte("a: ${X_A:da}\nb: ${X_B:db}\nc: ${X_C}\nd: ${X_D:}")
	assert.Equal(t, "a: va\nb: db\nc: \nd: ", string(resolveEnv(in)))
}

func TestLoad_APIServer(t *testing.T) {
	tmp := t.TempDir()
	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	_ = os.Chdir(tmp)

	t.Setenv("SCENTORY_TEST_SECRET", "from-env-secret")
	yaml := `
server:
  port: 8081
database:
  type: sqlite
  dbname: ":memory:"
jwt:
  secret_key: ${SCENTORY_TEST_SECRET:fallback}
  duration: 45m
super_admin:
  username: ${SCENTORY_TEST_ADMIN:root}
  email: root@example.com
  password: changeme
ledger:
  enforce_ownership: true
revocation:
  type: redis
  redis:
    addr: 127.0.0.1:6379
`
	require.NoError(t, os.MkdirAll("configs", 0o755))
	file := filepath.Join(tmp, "configs", "apiserver.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0o644))

	cfg, path, err := Load("apiserver.yaml")
	require.NoError(t, err)
	realFile, _ := filepath.EvalSymlinks(file)
	realPath, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, realFile, realPath)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.DBName)
	assert.Equal(t, "from-env-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.JWT.Duration)
	assert.Equal(t, "root", cfg.SuperAdmin.Username)
	assert.True(t, cfg.Ledger.EnforceOwnership)
	assert.Equal(t, "redis", cfg.Revocation.Type)
	assert.Equal(t, "scentory:revoked:", cfg.Revocation.Redis.Prefix)
	// defaults applied after load
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
}

func TestLoad_MissingFile(t *testing.T) {
	_, path, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.NotEmpty(t, path)
}

func TestLoad_Invalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "apiserver.yaml")
	require.NoError(t, os.WriteFile(file, []byte("database:\n  type: oracle\n"), 0o644))

	_, path, err := Load(file)
	require.Error(t, err)
	assert.Equal(t, file, path)
	assert.Contains(t, err.Error(), `unsupported database.type "oracle"`)
	assert.Contains(t, err.Error(), "jwt.secret_key is required")
}

func TestValidate(t *testing.T) {
	valid := func() *APIServerConfig {
		c := &APIServerConfig{JWT: JWTConfig{SecretKey: "s"}}
		c.SetDefaults()
		return c
	}
	assert.NoError(t, valid().Validate())

	tests := map[string]func(c *APIServerConfig){
		"server.port":           func(c *APIServerConfig) { c.Server.Port = 70000 },
		"jwt.algorithm":         func(c *APIServerConfig) { c.JWT.Algorithm = "RS256" },
		"auth.bcrypt_cost":      func(c *APIServerConfig) { c.Auth.BcryptCost = 64 },
		"revocation.redis.addr": func(c *APIServerConfig) { c.Revocation.Type = "redis" },
		"revocation.type":       func(c *APIServerConfig) { c.Revocation.Type = "etcd" },
	}
	for want, mutate := range tests {
		c := valid()
		mutate(c)
		err := c.Validate()
		if assert.Error(t, err, want) {
			assert.Contains(t, err.Error(), want)
		}
	}
}
