package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRootArgsStopsAtSubcommand(t *testing.T) {
	orig := []string{"seed", "-n", "10"}
	root, rest, err := parseRootArgs(orig)
	require.NoError(t, err)
	require.Empty(t, root.overrides)
	require.Equal(t, orig, rest)
}

func TestParseRootArgsExtractsOverrides(t *testing.T) {
	args := []string{
		"-config", "/tmp/chatwin.toml",
		"-c", "list.rows_per_page=50",
		"--enable", "markdown",
		"-disable=live_feed",
		"view",
	}
	root, rest, err := parseRootArgs(args)
	require.NoError(t, err)
	require.Equal(t, []string{
		"list.rows_per_page=50",
		"features.markdown=true",
		"features.live_feed=false",
	}, root.overrides)
	require.Equal(t, "/tmp/chatwin.toml", root.cfgPath)
	require.Equal(t, []string{"view"}, rest)
}

func TestParseRootArgsRejectsUnknownFeature(t *testing.T) {
	_, _, err := parseRootArgs([]string{"--enable", "warp_drive"})
	require.Error(t, err)
}

func TestPrependOverrides(t *testing.T) {
	require.Equal(t, []string{"a=1", "b=2"}, prependOverrides([]string{"a=1"}, []string{"b=2"}))
}
