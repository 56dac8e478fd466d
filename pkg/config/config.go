// Package config loads simasm.toml.
//
// Every key is optional; a missing file or key keeps the value from
// [Default]. Durations are written as Go duration strings:
//
//	[layout]
//	font_size = 13
//	min_box_width = 400
//
//	[schedule]
//	settle = "150ms"
//	liveness = "2s"
//
//	[server]
//	addr = "127.0.0.1:7171"
//
//	[navigate]
//	mode = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/navigate"
	"github.com/LMascagni/simasm/pkg/pipeline"
	"github.com/LMascagni/simasm/pkg/route"
	"github.com/LMascagni/simasm/pkg/scheduler"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "simasm.toml"

// Navigation modes.
const (
	NavigateLog    = "log"
	NavigateStream = "stream"
	NavigateRedis  = "redis"
)

// Duration is a time.Duration written as a string such as "150ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the decoded configuration file.
type Config struct {
	Layout   Layout   `toml:"layout"`
	Lanes    Lanes    `toml:"lanes"`
	Route    Route    `toml:"route"`
	Schedule Schedule `toml:"schedule"`
	Server   Server   `toml:"server"`
	Navigate Navigate `toml:"navigate"`
}

type Layout struct {
	FontSize     float64 `toml:"font_size"`
	LineHeight   float64 `toml:"line_height"`
	Padding      float64 `toml:"padding"`
	HeaderHeight float64 `toml:"header_height"`
	BoxGap       float64 `toml:"box_gap"`
	MinBoxWidth  float64 `toml:"min_box_width"`
	WidthSlack   float64 `toml:"width_slack"`
	Left         float64 `toml:"left"`
	Margin       float64 `toml:"margin"`
}

type Lanes struct {
	Margin float64 `toml:"margin"`
	Gap    float64 `toml:"gap"`
	MinX   float64 `toml:"min_x"`
}

type Route struct {
	Inset     float64 `toml:"inset"`
	Offset    float64 `toml:"offset"`
	MaxOffset float64 `toml:"max_offset"`
	Near      float64 `toml:"near"`
}

type Schedule struct {
	Settle   Duration `toml:"settle"`
	Debounce Duration `toml:"debounce"`
	Liveness Duration `toml:"liveness"`
	Retry    Duration `toml:"retry"`
}

type Server struct {
	Addr string   `toml:"addr"`
	Poll Duration `toml:"poll"`
	// Watch is the interval at which served files are checked for changes.
	Watch Duration `toml:"watch"`
}

type Navigate struct {
	Mode          string   `toml:"mode"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Channel       string   `toml:"channel"`
	Timeout       Duration `toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	l := layout.DefaultConfig()
	ln := lanes.DefaultConfig()
	r := route.DefaultConfig()
	s := scheduler.DefaultConfig()
	return Config{
		Layout: Layout{
			FontSize:     l.FontSize,
			LineHeight:   l.LineHeight,
			Padding:      l.Padding,
			HeaderHeight: l.HeaderHeight,
			BoxGap:       l.BoxGap,
			MinBoxWidth:  l.MinBoxWidth,
			WidthSlack:   l.WidthSlack,
			Left:         l.Left,
			Margin:       l.Margin,
		},
		Lanes: Lanes{Margin: ln.Margin, Gap: ln.Gap, MinX: ln.MinX},
		Route: Route{Inset: r.Inset, Offset: r.Offset, MaxOffset: r.MaxOffset, Near: r.Near},
		Schedule: Schedule{
			Settle:   Duration{s.Settle},
			Debounce: Duration{s.Debounce},
			Liveness: Duration{s.Liveness},
			Retry:    Duration{s.Retry},
		},
		Server: Server{
			Addr:  "127.0.0.1:7171",
			Poll:  Duration{time.Second},
			Watch: Duration{500 * time.Millisecond},
		},
		Navigate: Navigate{
			Mode:      NavigateLog,
			RedisAddr: "localhost:6379",
			Channel:   navigate.DefaultChannel,
			Timeout:   Duration{2 * time.Second},
		},
	}
}

// Load reads path over the defaults. An empty path looks for FileName in the
// working directory and returns the defaults when it is absent.
func Load(path string) (Config, error) {
	if path == "" {
		path = Find(".")
		if path == "" {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Find returns the path of FileName in dir, or "" if there is none.
func Find(dir string) string {
	p := filepath.Join(dir, FileName)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}
	return ""
}

// Validate checks that sizes and timings are usable.
func (c Config) Validate() error {
	positive := map[string]float64{
		"layout.font_size":     c.Layout.FontSize,
		"layout.line_height":   c.Layout.LineHeight,
		"layout.min_box_width": c.Layout.MinBoxWidth,
		"lanes.gap":            c.Lanes.Gap,
		"route.near":           c.Route.Near,
	}
	for _, k := range sortedKeys(positive) {
		if positive[k] <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %v", k, positive[k])
		}
	}
	timings := map[string]Duration{
		"schedule.settle":   c.Schedule.Settle,
		"schedule.debounce": c.Schedule.Debounce,
		"schedule.liveness": c.Schedule.Liveness,
		"schedule.retry":    c.Schedule.Retry,
		"server.poll":       c.Server.Poll,
		"server.watch":      c.Server.Watch,
	}
	for _, k := range sortedKeys(timings) {
		if timings[k].Duration <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %s", k, timings[k])
		}
	}
	if c.Route.Offset < 0 || c.Route.MaxOffset < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "route.offset and route.max_offset must not be negative")
	}
	if c.Route.MaxOffset >= c.Lanes.Gap {
		return errors.New(errors.ErrCodeInvalidConfig,
			"route.max_offset (%v) must be smaller than lanes.gap (%v)", c.Route.MaxOffset, c.Lanes.Gap)
	}
		switch c.Navigate.Mode {
	case NavigateLog, NavigateStream, NavigateRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "navigate.mode must be log, stream or redis, got %q", c.Navigate.Mode)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LayoutConfig converts the [layout] table.
func (c Config) LayoutConfig() layout.Config {
	l := c.Layout
	return layout.Config{
		FontSize:     l.FontSize,
		LineHeight:   l.LineHeight,
		Padding:      l.Padding,
		HeaderHeight: l.HeaderHeight,
		BoxGap:       l.BoxGap,
		MinBoxWidth:  l.MinBoxWidth,
		WidthSlack:   l.WidthSlack,
		Left:         l.Left,
		Margin:       l.Margin,
	}
}

// PipelineOptions returns pipeline options with the configured metrics.
func (c Config) PipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Layout = c.LayoutConfig()
	opts.Lanes = lanes.Config{Margin: c.Lanes.Margin, Gap: c.Lanes.Gap, MinX: c.Lanes.MinX}
	opts.Route = route.Config{Inset: c.Route.Inset, Offset: c.Route.Offset, MaxOffset: c.Route.MaxOffset, Near: c.Route.Near}
	return opts
}

// SchedulerConfig converts the [schedule] table.
func (c Config) SchedulerConfig() scheduler.Config {
	s := c.Schedule
	return scheduler.Config{
		Settle:   s.Settle.Duration,
		Debounce: s.Debounce.Duration,
		Liveness: s.Liveness.Duration,
		Retry:    s.Retry.Duration,
	}
}

// RedisConfig converts the redis keys of the [navigate] table.
func (c Config) RedisConfig() navigate.RedisConfig {
	n := c.Navigate
	return navigate.RedisConfig{
		Addr:     n.RedisAddr,
		Password: n.RedisPassword,
		DB:       n.RedisDB,
		Channel:  n.Channel,
		Timeout:  n.Timeout.Duration,
	}
}
