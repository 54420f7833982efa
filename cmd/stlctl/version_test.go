package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionMatchesRoot(t *testing.T) {
	require.Equal(t, version, rootCmd.Version)
}

func TestVersionCommand(t *testing.T) {
	resetFlags()
	defer resetFlags()

	output, err := captureOutput(t, runVersion)
	require.NoError(t, err)
	require.Equal(t, "stlctl "+version+" (commit none, built unknown)\n", output)

	jsonOut = true
	output, err = captureOutput(t, runVersion)
	require.NoError(t, err)
	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	require.Equal(t, version, info.Version)
}
