package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sliceops/fleetd/internal/statusreader"
)

func TestReaderOptionsMapsFlags(t *testing.T) {
	cmd := statusCmd
	require.NoError(t, cmd.ParseFlags([]string{"-n"}))

	opts := readerOptions(cmd)
	assert.Equal(t, statusreader.Options{Verbosity: statusreader.Default, Names: true}, opts)
}

func TestReaderOptionsVeryVerboseWinsOverVerbose(t *testing.T) {
	cmd := statusCmd
	require.NoError(t, cmd.ParseFlags([]string{"-v", "--vv"}))

	opts := readerOptions(cmd)
	assert.Equal(t, statusreader.VeryVerbose, opts.Verbosity)
}
