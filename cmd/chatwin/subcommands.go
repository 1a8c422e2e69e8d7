package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"chatwin/internal/config"
	"chatwin/internal/features"
	"chatwin/internal/feed"
	"chatwin/internal/sample"
	"chatwin/internal/store"
)

const seedBatch = 500

func seedMain(root rootArgs, args []string) error {
	var overrides stringSlice
	flags := flag.NewFlagSet("seed", flag.ExitOnError)
	n := flags.Int("n", 1000, "Number of messages to generate")
	seed := flags.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed for message bodies")
	flags.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse seed args: %w", err)
	}
	cfg, err := loadConfig(root, overrides)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	gen := sample.New(*seed, time.Now().Add(-time.Duration(*n)*time.Minute))
	total := 0
	for remaining := *n; remaining > 0; remaining -= seedBatch {
		inserted, err := st.Append(ctx, gen.Batch(min(remaining, seedBatch))...)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		total += len(inserted)
	}
	fmt.Fprintf(os.Stdout, "seeded %d messages into %s\n", total, st.Path())
	return nil
}

func appendMain(root rootArgs, args []string) error {
	var overrides stringSlice
	flags := flag.NewFlagSet("append", flag.ExitOnError)
	author := flags.String("author", os.Getenv("USER"), "Message author")
	generate := flags.Int("sample", 0, "Append N generated messages instead of text")
	interval := flags.Duration("interval", time.Second, "Delay between generated messages")
	flags.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse append args: %w", err)
	}
	cfg, err := loadConfig(root, overrides)
	if err != nil {
		return err
	}
	out := feed.Log{Path: cfg.FeedPath}

	if *generate > 0 {
		gen := sample.New(uint64(time.Now().UnixNano()), time.Now())
		for i := range *generate {
			if i > 0 {
				time.Sleep(*interval)
			}
			msg := gen.Next()
			msg.SentAt = time.Now().UTC()
			if err := out.Append(msg); err != nil {
				return fmt.Errorf("append: %w", err)
			}
		}
		fmt.Fprintf(os.Stdout, "appended %d messages to %s\n", *generate, out.Path)
		return nil
	}

	text := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if text == "" {
		return errors.New("append: message text is empty")
	}
	msg := store.NewMessage(*author, text)
	if err := out.Append(msg); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	fmt.Fprintln(os.Stdout, msg.ID)
	return nil
}

func importMain(root rootArgs, args []string) error {
	var overrides stringSlice
	flags := flag.NewFlagSet("import", flag.ExitOnError)
	flags.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse import args: %w", err)
	}
	cfg, err := loadConfig(root, overrides)
	if err != nil {
		return err
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{cfg.FeedPath}
	}
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	for _, path := range paths {
		n, _, err := importFeed(ctx, st, path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Fprintf(os.Stdout, "%s: imported %d messages\n", path, n)
	}
	return nil
}

func configMain(root rootArgs, args []string) error {
	var overrides stringSlice
	flags := flag.NewFlagSet("config", flag.ExitOnError)
	save := flags.Bool("save", false, "Write the effective config back to the config file")
	flags.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse config args: %w", err)
	}
	cfg, err := loadConfig(root, overrides)
	if err != nil {
		return err
	}

	if *save {
		if err := config.Save(cfg.Source, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(os.Stdout, "saved %s\n", cfg.Source)
		return nil
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fmt.Fprintf(os.Stdout, "# %s\n%s", cfg.Source, data)
	return nil
}

func featuresMain(root rootArgs, args []string) error {
	var overrides stringSlice
	flags := flag.NewFlagSet("features", flag.ExitOnError)
	flags.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse features args: %w", err)
	}
	cfg, err := loadConfig(root, overrides)
	if err != nil {
		return err
	}
	for _, spec := range features.Specs {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%t\t%s\n", spec.Key, spec.Stage, cfg.Enabled(spec.Key), spec.Summary)
	}
	return nil
}
