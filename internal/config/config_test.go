package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "csv", cfg.Ledger.Store)
	assert.Equal(t, "loans.csv", cfg.Ledger.Path)
	assert.Equal(t, float64(10), cfg.Limits.MaxRate)
	assert.Equal(t, float64(10000), cfg.Defaults.Amount)
	assert.Equal(t, 1.5, cfg.Defaults.Rate)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lendbook.yaml")

	cfg := Default()
	cfg.Ledger.Store = "postgres"
	cfg.Ledger.Conn = "postgres://localhost/loans?sslmode=disable"
	cfg.Serve.RefreshSchedule = "@daily"
	cfg.Notify.To = "books@example.com"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lendbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger: [not a map"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestSaveYAMLShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lendbook.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "store: csv")
	assert.Contains(t, text, "max_rate: 10")
	assert.Contains(t, text, "auto_commit: true")
	assert.NotContains(t, text, "conn:", "empty optional fields stay out of the file")
	assert.NotContains(t, text, "smtp_host:")
}
