package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sliceops/fleetd/internal/types"
)

func writeSeed(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodes.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadAdmitsOnlyBootRows(t *testing.T) {
	path := writeSeed(t, "a x boot\nb x reinstall\nc x boot\n")

	candidates, err := Load(path)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "a", candidates[0].Name)
	assert.Equal(t, "c", candidates[1].Name)
}

func TestLoadSkipsBlankAndMalformedLines(t *testing.T) {
	path := writeSeed(t, "\n  \nnode1.example.edu auth1 boot\nonly-two-fields boot\n")

	candidates, err := Load(path)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "node1.example.edu", candidates[0].Name)
	assert.Equal(t, "auth1", candidates[0].Authority)
}

func TestLoadDefaultsProfileAttributes(t *testing.T) {
	path := writeSeed(t, "node1.example.edu auth1 boot\n")

	candidates, err := Load(path)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	n := candidates[0]
	assert.Equal(t, types.StateUnreachable, n.State)
	assert.Equal(t, types.KernelUnknown, n.Kernel)
	assert.Equal(t, types.OSUnknown, n.OS)
	assert.False(t, n.Resolved())
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeSeed(t, "")

	candidates, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
