package main

import (
	"flag"
	"fmt"
	"io"

	"chatwin/internal/features"
)

type rootArgs struct {
	cfgPath   string
	overrides []string
}

// parseRootArgs 解析子命令之前的全局参数，遇到第一个非 flag 参数即停止。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("chatwin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var cfgPath string
	var overrides stringSlice
	var enable stringSlice
	var disable stringSlice
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.chatwin/config.toml)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable, applied before subcommand overrides)")
	fs.Var(&enable, "enable", "Enable a feature (repeatable). Equivalent to -c features.<name>=true")
	fs.Var(&disable, "disable", "Disable a feature (repeatable). Equivalent to -c features.<name>=false")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}

	featureOverrides, err := buildFeatureOverrides(enable, disable)
	if err != nil {
		return rootArgs{}, nil, err
	}
	all := append([]string{}, overrides...)
	all = append(all, featureOverrides...)
	return rootArgs{cfgPath: cfgPath, overrides: all}, fs.Args(), nil
}

func prependOverrides(root []string, overrides []string) []string {
	merged := append([]string{}, root...)
	return append(merged, overrides...)
}

func buildFeatureOverrides(enable []string, disable []string) ([]string, error) {
	var overrides []string
	for _, key := range enable {
		if !features.IsKnown(key) {
			return nil, fmt.Errorf("unknown feature flag: %s", key)
		}
		overrides = append(overrides, fmt.Sprintf("features.%s=%t", key, true))
	}
	for _, key := range disable {
		if !features.IsKnown(key) {
			return nil, fmt.Errorf("unknown feature flag: %s", key)
		}
		overrides = append(overrides, fmt.Sprintf("features.%s=%t", key, false))
	}
	return overrides, nil
}
