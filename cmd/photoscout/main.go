package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/photoscout/internal/config"
	"github.com/csheth/photoscout/internal/session"
	"github.com/csheth/photoscout/internal/thumb"
	"github.com/csheth/photoscout/internal/tui"
	"github.com/csheth/photoscout/internal/unsplash"
)

// Set at build time with -ldflags "-X main.accessKey=... -X main.version=...".
var (
	accessKey string
	version   = "dev"
)

func main() {
	configPath := flag.String("config", "", "path to the TOML config file (default: user config dir)")
	keyFlag := flag.String("access-key", "", "Unsplash access key (overrides "+config.EnvAccessKey+")")
	apiURL := flag.String("api-url", "", "override the Unsplash API endpoint")
	query := flag.String("query", "", "initial search query")
	legacy := flag.Bool("legacy", false, "use the legacy paging and error handling")
	noThumbs := flag.Bool("no-thumbnails", false, "skip image downloads and draw colour placeholders")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	logPath := flag.String("log", "", "write debug logs to this file (or set "+config.EnvLogFile+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logFile := firstNonEmpty(*logPath, cfg.LogFile)
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "photoscout")
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("[config] %s", cfg)

	client, err := unsplash.New(unsplash.Config{
		AccessKey: firstNonEmpty(*keyFlag, cfg.AccessKey, accessKey),
		Endpoint:  firstNonEmpty(*apiURL, cfg.APIURL),
		UserAgent: "photoscout/" + version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nset %s, pass -access-key, or add access_key to %s\n", err, config.EnvAccessKey, config.DefaultPath())
		os.Exit(1)
	}

	policy := session.Policy{}
	if *legacy || cfg.Legacy {
		policy = session.Legacy()
	}

	tuiConfig := tui.Config{
		Searcher:     client,
		Policy:       policy,
		HoverDelay:   cfg.HoverDelay(),
		DefaultQuery: firstNonEmpty(*query, cfg.DefaultQuery),
	}
	if cfg.Thumbnails && !*noThumbs {
		cache, err := thumb.NewCache(thumb.CacheConfig{Dir: cfg.CacheDir})
		if err != nil {
			log.Printf("[thumb] disabled: %v", err)
		} else {
			tuiConfig.Thumbs = cache
		}
	}

	opts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tuiConfig), opts...)

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "program error:", err)
		os.Exit(1)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
