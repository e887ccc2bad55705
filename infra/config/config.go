package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/CrestNiraj12/pagedlist/infra/logging"
	"github.com/CrestNiraj12/pagedlist/paging"
)

// Config holds application-level configuration.
type Config struct {
	SourceURL  string `yaml:"source_url"`  // e.g. "https://api.example.com/items"; empty uses the demo source
	TokenPath  string `yaml:"token_path"`  // Path to file containing a bearer token; empty sends none
	PageParam  string `yaml:"page_param"`  // Query parameter carrying the page offset
	LimitParam string `yaml:"limit_param"` // Query parameter carrying the page size

	PageSize        int           `yaml:"page_size"`
	StartIndex      int           `yaml:"start_index"`
	AutoPaging      bool          `yaml:"auto_paging"`
	PulldownRefresh bool          `yaml:"pulldown_refresh"`
	LoadMorePrompt  string        `yaml:"load_more_prompt"`
	NoMorePrompt    string        `yaml:"no_more_prompt"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`

	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	LogPretty   bool   `yaml:"log_pretty"`   // Console format instead of JSON
	MetricsAddr string `yaml:"metrics_addr"` // e.g. "127.0.0.1:9090"; empty disables /metrics

	DemoTotal       int           `yaml:"demo_total"`
	DemoLatency     time.Duration `yaml:"demo_latency"`
	DemoFailEvery   int           `yaml:"demo_fail_every"`   // Fail every Nth demo fetch; 0 never
	DemoBrokenEvery int           `yaml:"demo_broken_every"` // Leave every Nth demo item untagged; 0 never
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PageParam:       "page",
		LimitParam:      "limit",
		PageSize:        paging.DefaultConfig().PageSize,
		StartIndex:      paging.DefaultConfig().StartIndex,
		AutoPaging:      true,
		PulldownRefresh: true,
		FetchTimeout:    10 * time.Second,
		LogLevel:        "info",
		LogFile:         defaultLogFile(),
		DemoTotal:       95,
		DemoLatency:     300 * time.Millisecond,
	}
}

// Load layers the YAML file at path (or $PAGEDLIST_CONFIG) and then the
// environment over Default. It does not validate; callers apply flag
// overrides first and then call Validate.
//
//	PAGEDLIST_SOURCE_URL       HTTP source (default: built-in demo source)
//	PAGEDLIST_TOKEN            Path to bearer token file
//	PAGEDLIST_PAGE_PARAM       Offset query parameter (default: "page")
//	PAGEDLIST_LIMIT_PARAM      Limit query parameter (default: "limit")
//	PAGEDLIST_PAGE_SIZE        Items per page (default: 10)
//	PAGEDLIST_START_INDEX      Offset of the first page (default: 1)
//	PAGEDLIST_AUTO_PAGING      Load on reaching the end (default: true)
//	PAGEDLIST_PULLDOWN_REFRESH Enable refresh (default: true)
//	PAGEDLIST_LOAD_MORE_PROMPT Footer text when more can be loaded
//	PAGEDLIST_NO_MORE_PROMPT   Footer text once exhausted
//	PAGEDLIST_FETCH_TIMEOUT    Per-fetch timeout, 0 for none (default: 10s)
//	PAGEDLIST_LOG_LEVEL        zerolog level (default: info)
//	PAGEDLIST_LOG_FILE         Log file used by the TUI
//	PAGEDLIST_LOG_PRETTY       Console log format (default: false)
//	PAGEDLIST_METRICS_ADDR     Listen address for /metrics
//	PAGEDLIST_DEMO_TOTAL       Items in the demo source (default: 95)
//	PAGEDLIST_DEMO_LATENCY     Simulated demo latency (default: 300ms)
//	PAGEDLIST_DEMO_FAIL_EVERY  Fail every Nth demo fetch (default: 0)
//	PAGEDLIST_DEMO_BROKEN_EVERY Leave every Nth demo item untagged (default: 0)
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PAGEDLIST_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PAGEDLIST_SOURCE_URL":       &cfg.SourceURL,
		"PAGEDLIST_TOKEN":            &cfg.TokenPath,
		"PAGEDLIST_PAGE_PARAM":       &cfg.PageParam,
		"PAGEDLIST_LIMIT_PARAM":      &cfg.LimitParam,
		"PAGEDLIST_LOAD_MORE_PROMPT": &cfg.LoadMorePrompt,
		"PAGEDLIST_NO_MORE_PROMPT":   &cfg.NoMorePrompt,
		"PAGEDLIST_LOG_LEVEL":        &cfg.LogLevel,
		"PAGEDLIST_LOG_FILE":         &cfg.LogFile,
		"PAGEDLIST_METRICS_ADDR":     &cfg.MetricsAddr,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"PAGEDLIST_PAGE_SIZE":   &cfg.PageSize,
		"PAGEDLIST_START_INDEX": &cfg.StartIndex,
		"PAGEDLIST_DEMO_TOTAL":        &cfg.DemoTotal,
		"PAGEDLIST_DEMO_FAIL_EVERY":   &cfg.DemoFailEvery,
		"PAGEDLIST_DEMO_BROKEN_EVERY": &cfg.DemoBrokenEvery,
	}
	for name, dst := range ints {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"PAGEDLIST_AUTO_PAGING":      &cfg.AutoPaging,
		"PAGEDLIST_PULLDOWN_REFRESH": &cfg.PulldownRefresh,
		"PAGEDLIST_LOG_PRETTY":       &cfg.LogPretty,
	}
	for name, dst := range bools {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = b
	}

	durations := map[string]*time.Duration{
		"PAGEDLIST_FETCH_TIMEOUT": &cfg.FetchTimeout,
		"PAGEDLIST_DEMO_LATENCY":  &cfg.DemoLatency,
	}
	for name, dst := range durations {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = d
	}
	return nil
}

func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

// Validate checks the configuration and normalizes SourceURL.
func (c *Config) Validate() error {
	if c.SourceURL != "" {
		normalized, err := normalizeSourceURL(c.SourceURL)
		if err != nil {
			return err
		}
		c.SourceURL = normalized
		if c.PageParam == "" || c.LimitParam == "" {
			return fmt.Errorf("invalid config: page_param and limit_param must be set")
		}
	}
	if err := c.Paging().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("invalid config: fetch_timeout must not be negative")
	}
	if c.DemoTotal < 0 || c.DemoLatency < 0 {
		return fmt.Errorf("invalid config: demo_total and demo_latency must not be negative")
	}
	if c.DemoFailEvery < 0 || c.DemoBrokenEvery < 0 {
		return fmt.Errorf("invalid config: demo_fail_every and demo_broken_every must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: log_level: %w", err)
	}
	return nil
}

// Paging returns the paging configuration.
func (c Config) Paging() paging.Config {
	return paging.Config{
		PageSize:     c.PageSize,
		StartIndex:   c.StartIndex,
		FetchTimeout: c.FetchTimeout,
	}
}

// Prompts returns the footer prompts, falling back to the defaults.
func (c Config) Prompts() paging.Prompts {
	return paging.Prompts{
		LoadMore: c.LoadMorePrompt,
		NoMore:   c.NoMorePrompt,
	}.WithDefaults()
}

// normalizeSourceURL requires an absolute https URL. Plain http is allowed
// for loopback hosts so local servers work.
func normalizeSourceURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid source_url: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid source_url: only https is allowed for non-local hosts")
		}
	default:
		return "", fmt.Errorf("invalid source_url: unsupported scheme %q", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func defaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "pagedlist.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "pagedlist", "pagedlist.log")
}
