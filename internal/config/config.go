package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"chatwin/internal/features"
	"chatwin/internal/virtual"
)

// Config is the only persisted config file schema.
type Config struct {
	StorePath string          `toml:"store_path"`
	FeedPath  string          `toml:"feed_path"`
	Markdown  bool            `toml:"markdown"`
	ScrollFPS int             `toml:"scroll_fps"`
	LogLevel  string          `toml:"log_level"`
	Language  string          `toml:"language"`
	List      ListConfig      `toml:"list"`
	Features  map[string]bool `toml:"features,omitempty"`
	Source    string          `toml:"-"`
}

// ListConfig 对应 [list] 段，映射到虚拟列表的选项。
type ListConfig struct {
	PrefetchThreshold int  `toml:"prefetch_threshold"`
	MaxRowsLength     int  `toml:"max_rows_length"`
	RowsPerPage       int  `toml:"rows_per_page"`
	RowPadding        int  `toml:"row_padding"`
	Debug             bool `toml:"debug"`
	ExactAnchoring    bool `toml:"exact_anchoring"`
}

func Default() Config {
	opts := virtual.DefaultOptions()
	return Config{
		StorePath: filepath.Join(homeDir(), "messages.db"),
		FeedPath:  filepath.Join(homeDir(), "feed.jsonl"),
		ScrollFPS: 60,
		LogLevel:  "info",
		Language:  "en",
		List: ListConfig{
			PrefetchThreshold: opts.PrefetchThreshold,
			MaxRowsLength:     opts.MaxRowsLength,
			RowsPerPage:       opts.RowsPerPage,
			RowPadding:        opts.RowPadding,
		},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatwin"
	}
	return filepath.Join(home, ".chatwin")
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chatwin", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	cfg.StorePath = expandHome(cfg.StorePath)
	cfg.FeedPath = expandHome(cfg.FeedPath)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("CHATWIN_STORE")); env != "" {
		cfg.StorePath = env
	}
	if env := strings.TrimSpace(os.Getenv("CHATWIN_FEED")); env != "" {
		cfg.FeedPath = env
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Options 把 [list] 段转换为虚拟列表选项。
func (c ListConfig) Options() virtual.Options {
	return virtual.Options{
		PrefetchThreshold: c.PrefetchThreshold,
		MaxRowsLength:     c.MaxRowsLength,
		RowsPerPage:       c.RowsPerPage,
		RowPadding:        c.RowPadding,
		Debug:             c.Debug,
		ExactAnchoring:    c.ExactAnchoring,
	}
}

// Enabled 解析特性开关：显式的 features.<key> 优先，其次是同名配置项，最后是默认值。
func (c Config) Enabled(key string) bool {
	if v, ok := c.Features[key]; ok {
		return v
	}
	switch key {
	case "markdown":
		if c.Markdown {
			return true
		}
	case "exact_anchoring":
		if c.List.ExactAnchoring {
			return true
		}
	case "debug_pages":
		if c.List.Debug {
			return true
		}
	}
	return features.DefaultEnabled(key)
}

// ListOptions 返回叠加特性开关后的虚拟列表选项。
func (c Config) ListOptions() virtual.Options {
	opts := c.List.Options()
	opts.ExactAnchoring = c.Enabled("exact_anchoring")
	opts.Debug = c.Enabled("debug_pages")
	return opts
}
