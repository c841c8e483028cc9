package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func samePath(t *testing.T, want, got string) {
	t.Helper()
	w, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	g, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, w, g)
}

func TestGetCfgPath_Absolute(t *testing.T) {
	assert.Panics(t, func() { GetCfgPath("") })
	assert.Equal(t, "/opt/scentory/apiserver.yaml", GetCfgPath("/opt/scentory/apiserver.yaml"))
}

func TestGetCfgPath_SearchOrder(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	tmp := t.TempDir()
	chdir(t, tmp)
	require.NoError(t, os.MkdirAll("configs", 0o755))

	assert.Equal(t, filepath.Join("/etc/scentory", "apiserver.yaml"), GetCfgPath("apiserver.yaml"))

	require.NoError(t, os.WriteFile(filepath.Join("configs", "apiserver.yaml"), []byte("x"), 0o644))
	samePath(t, filepath.Join(tmp, "configs", "apiserver.yaml"), GetCfgPath("apiserver.yaml"))

	require.NoError(t, os.WriteFile("apiserver.yaml", []byte("x"), 0o644))
	samePath(t, filepath.Join(tmp, "apiserver.yaml"), GetCfgPath("apiserver.yaml"))
}

func TestGetCfgPath_EnvDirWins(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)
	require.NoError(t, os.WriteFile("apiserver.yaml", []byte("x"), 0o644))

	override := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(override, "apiserver.yaml"), []byte("y"), 0o644))
	t.Setenv(ConfigDirEnv, override)

	samePath(t, filepath.Join(override, "apiserver.yaml"), GetCfgPath("apiserver.yaml"))
}

func TestGetCfgPath_SkipsDirectories(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	tmp := t.TempDir()
	chdir(t, tmp)
	require.NoError(t, os.MkdirAll("apiserver.yaml", 0o755))

	assert.Equal(t, filepath.Join("/etc/scentory", "apiserver.yaml"), GetCfgPath("apiserver.yaml"))
}
