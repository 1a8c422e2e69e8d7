package main

import (
	"fmt"
	"os"

	"chatwin/internal/config"
	"chatwin/internal/logger"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		fatalf("parse args: %v", err)
	}
	cmd := "view"
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}
	var runErr error
	switch cmd {
	case "view":
		runErr = viewMain(root, rest)
	case "seed":
		runErr = seedMain(root, rest)
	case "append":
		runErr = appendMain(root, rest)
	case "import":
		runErr = importMain(root, rest)
	case "config":
		runErr = configMain(root, rest)
	case "features":
		runErr = featuresMain(root, rest)
	default:
		fatalf("unknown command %q (view|seed|append|import|config|features)", cmd)
	}
	if runErr != nil {
		fatalf("%s: %v", cmd, runErr)
	}
}

// loadConfig 读取配置文件并依次叠加全局与子命令的 -c 覆盖。
func loadConfig(root rootArgs, overrides []string) (config.Config, error) {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, overrides))
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid override: %w", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("ignoring log level: %v", err)
	}
	return cfg, nil
}

// fatalf 日志只写文件，因此同时输出到 stderr。
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "chatwin: "+format+"\n", args...)
	log.Fatalf(format, args...)
}
