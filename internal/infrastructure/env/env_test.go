package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_Getters(t *testing.T) {
	t.Setenv("BT_STRING", "value")
	t.Setenv("BT_BOOL", "true")
	t.Setenv("BT_BAD_BOOL", "maybe")
	t.Setenv("BT_INT", "42")
	t.Setenv("BT_BAD_INT", "forty")
	t.Setenv("BT_DURATION", "1m30s")
	t.Setenv("BT_SECONDS", "15")

	e := &EnvService{}

	assert.Equal(t, "value", e.Get("BT_STRING"))
	assert.Equal(t, "value", e.GetWithDefault("BT_STRING", "other"))
	assert.Equal(t, "other", e.GetWithDefault("BT_UNSET", "other"))

	assert.True(t, e.GetBool("BT_BOOL", false))
	assert.True(t, e.GetBool("BT_BAD_BOOL", true))
	assert.False(t, e.GetBool("BT_UNSET", false))

	assert.Equal(t, 42, e.GetInt("BT_INT", 0))
	assert.Equal(t, 7, e.GetInt("BT_BAD_INT", 7))

	assert.Equal(t, 90*time.Second, e.GetDuration("BT_DURATION", 0))
	assert.Equal(t, 15*time.Second, e.GetDuration("BT_SECONDS", 0))
	assert.Equal(t, time.Second, e.GetDuration("BT_UNSET", time.Second))
}

func TestNewEnvService_LoadsDotEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BT_FROM_FILE=base\nBT_ONLY_BASE=yes\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("BT_FROM_FILE=override\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "test")
	t.Setenv("BT_FROM_FILE", "")
	t.Setenv("BT_ONLY_BASE", "")
	os.Unsetenv("BT_FROM_FILE")
	os.Unsetenv("BT_ONLY_BASE")

	e := NewEnvService()

	assert.Equal(t, "override", e.Get("BT_FROM_FILE"))
	assert.Equal(t, "yes", e.Get("BT_ONLY_BASE"))
}
