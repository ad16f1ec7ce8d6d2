package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	// Commits need a committer identity regardless of --author.
	for _, kv := range [][2]string{
		{"user.name", "Test"},
		{"user.email", "test@example.com"},
	} {
		cmd := exec.Command("git", "config", kv[0], kv[1])
		cmd.Dir = dir
		require.NoError(t, cmd.Run())
	}
	return dir
}

func TestInitAndIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir))
}

func TestHasChanges(t *testing.T) {
	dir := initRepo(t)

	changed, err := HasChanges(dir)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "loans.csv"), []byte("id\n"), 0o644))

	changed, err = HasChanges(dir)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestCommitAll(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loans.csv"), []byte("id\n"), 0o644))

	hash, err := CommitAll(dir, "add: loan for Alice", "Lendbook", "ledger@lendbook.dev")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.LessOrEqual(t, len(hash), 12, "short hash expected, got %q", hash)

	changed, err := HasChanges(dir)
	require.NoError(t, err)
	assert.False(t, changed, "commit should leave a clean tree")
}

func TestCommitAllNothingStaged(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loans.csv"), []byte("id\n"), 0o644))
	_, err := CommitAll(dir, "first", "Lendbook", "ledger@lendbook.dev")
	require.NoError(t, err)

	_, err = CommitAll(dir, "second", "Lendbook", "ledger@lendbook.dev")
	assert.Error(t, err, "an empty commit is refused")
}
