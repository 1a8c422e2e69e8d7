package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// 无法解析的值会返回错误，未知键被忽略。
func ApplyKVOverrides(cfg Config, overrides []string) (Config, error) {
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if err := applyKV(&cfg, key, val); err != nil {
			return cfg, fmt.Errorf("override %q: %w", raw, err)
		}
	}
	return cfg, nil
}

func applyKV(cfg *Config, key, val string) error {
	if name, ok := strings.CutPrefix(key, "features."); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		if cfg.Features == nil {
			cfg.Features = map[string]bool{}
		}
		cfg.Features[name] = b
		return nil
	}

	var err error
	switch key {
	case "store_path":
		cfg.StorePath = val
	case "feed_path":
		cfg.FeedPath = val
	case "log_level":
		cfg.LogLevel = val
	case "language":
		cfg.Language = val
	case "markdown":
		cfg.Markdown, err = strconv.ParseBool(val)
	case "scroll_fps":
		cfg.ScrollFPS, err = strconv.Atoi(val)
	case "list.prefetch_threshold":
		cfg.List.PrefetchThreshold, err = strconv.Atoi(val)
	case "list.max_rows_length":
		cfg.List.MaxRowsLength, err = strconv.Atoi(val)
	case "list.rows_per_page":
		cfg.List.RowsPerPage, err = strconv.Atoi(val)
	case "list.row_padding":
		cfg.List.RowPadding, err = strconv.Atoi(val)
	case "list.debug":
		cfg.List.Debug, err = strconv.ParseBool(val)
	case "list.exact_anchoring":
		cfg.List.ExactAnchoring, err = strconv.ParseBool(val)
	}
	return err
}
