package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleetd.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

const validINI = `
[core]
slice = myslice
user = operator
nodes_dir = nodes
data_dir = /var/lib/fleetd
log_dir = /var/log/fleetd
raw_nodes = nodes.txt
thread_limit = 16
ssh_limit = 8
ssh_keyloc = /etc/fleetd/id_rsa
probing_period = 3600
initial_delay = yes
`

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, validINI)
	cfg, err := Load(path, "/base")
	require.NoError(t, err)

	assert.Equal(t, "myslice", cfg.Slice)
	assert.Equal(t, "operator", cfg.User)
	assert.Equal(t, "/base/nodes", cfg.NodesDir)
	assert.Equal(t, "/var/lib/fleetd", cfg.DataDir)
	assert.Equal(t, 16, cfg.ThreadLimit)
	assert.Equal(t, 8, cfg.SSHLimit)
	assert.Equal(t, 3600, cfg.ProbingPeriod)
	assert.True(t, cfg.InitialDelay)
	assert.Equal(t, "/base/nodes/nodes.txt", cfg.SeedPath())
}

func TestLoadMissingKeyFails(t *testing.T) {
	path := writeConfig(t, "[core]\nslice = myslice\n")
	_, err := Load(path, "/base")
	assert.Error(t, err)
}

func TestLoadMissingSectionFails(t *testing.T) {
	path := writeConfig(t, "slice = myslice\n")
	_, err := Load(path, "/base")
	assert.Error(t, err)
}

func TestLoadBadIntegerFails(t *testing.T) {
	bad := `
[core]
slice = myslice
user = operator
nodes_dir = nodes
data_dir = /var/lib/fleetd
log_dir = /var/log/fleetd
raw_nodes = nodes.txt
thread_limit = not-a-number
ssh_limit = 8
ssh_keyloc = /etc/fleetd/id_rsa
probing_period = 3600
initial_delay = no
`
	path := writeConfig(t, bad)
	_, err := Load(path, "/base")
	assert.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"), "/base")
	assert.Error(t, err)
}

func TestLoadRepairPackageOptional(t *testing.T) {
	path := writeConfig(t, validINI)
	cfg, err := Load(path, "/base")
	require.NoError(t, err)
	assert.Empty(t, cfg.RepairPackage)
}

func TestLoadRepairPackageHonored(t *testing.T) {
	path := writeConfig(t, validINI+"repair_package = openssh-clients\n")
	cfg, err := Load(path, "/base")
	require.NoError(t, err)
	assert.Equal(t, "openssh-clients", cfg.RepairPackage)
}

func TestLoadInitialDelayNo(t *testing.T) {
	contents := validINI[:len(validINI)-len("initial_delay = yes\n")] + "initial_delay = no\n"
	path := writeConfig(t, contents)
	cfg, err := Load(path, "/base")
	require.NoError(t, err)
	assert.False(t, cfg.InitialDelay)
}
