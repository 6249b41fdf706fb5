// Package config loads storygraph settings from a TOML file and the
// environment.
//
// Settings are layered: built-in defaults, then the TOML file (by default
// $XDG_CONFIG_HOME/storygraph/config.toml), then environment variables.
// A missing file is not an error. Call [LoadDotEnv] first to pull variables
// from a .env file.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/layout"
)

const appName = "storygraph"

// Layout engines.
const (
	EngineGraphviz = "graphviz"
	EngineExec     = "exec"
	EngineNone     = "none"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
)

// Config holds all storygraph settings.
type Config struct {
	Canvas    canvas.Config   `toml:"canvas"`
	Palette   canvas.Palette  `toml:"palette"`
	Layout    LayoutConfig    `toml:"layout"`
	Cache     CacheConfig     `toml:"cache"`
	Server    ServerConfig    `toml:"server"`
	Generator GeneratorConfig `toml:"generator"`
	S3        S3Config        `toml:"s3"`
}

// LayoutConfig selects and tunes the layout engine.
type LayoutConfig struct {
	Engine      string   `toml:"engine"` // "graphviz", "exec", "none"
	Timeout     Duration `toml:"timeout"`
	DotPath     string   `toml:"dot_path"`
	RankSep     float64  `toml:"ranksep"`
	NodeSep     float64  `toml:"nodesep"`
	ColumnWidth float64  `toml:"column_width"`
	RowHeight   float64  `toml:"row_height"`
}

// CacheConfig selects the layout and generator cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"` // "none", "file", "redis", "mongo"
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	MaxCanvases  int      `toml:"max_canvases"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// GeneratorConfig controls story generation.
type GeneratorConfig struct {
	Model   string   `toml:"model"`
	APIKey  string   `toml:"api_key"`
	Timeout Duration `toml:"timeout"`
}

// S3Config points exports at an S3-compatible object store.
type S3Config struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	Secure    bool   `toml:"secure"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the default configuration.
func Default() *Config {
	cc := canvas.DefaultConfig()
	dot := layout.DefaultDOTOptions()
	return &Config{
		Canvas:  cc,
		Palette: cc.Palette,
		Layout: LayoutConfig{
			Engine:      EngineGraphviz,
			Timeout:     Duration{layout.DefaultTimeout},
			RankSep:     dot.RankSep,
			NodeSep:     dot.NodeSep,
			ColumnWidth: cc.Spacing.ColumnWidth,
			RowHeight:   cc.Spacing.RowHeight,
		},
		Cache: CacheConfig{
			Backend:         CacheFile,
			TTL:             Duration{layout.DefaultCacheTTL},
			MongoDatabase:   "storygraph",
			MongoCollection: "cache",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxCanvases:  256,
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
		Generator: GeneratorConfig{
			Model:   "gemini-2.5-flash",
			Timeout: Duration{2 * time.Minute},
		},
		S3: S3Config{Region: "us-east-1", Secure: true},
	}
}

// Dir returns the storygraph config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the file cache directory (~/.cache/storygraph by
// default).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// LoadDotEnv loads variables from .env files into the environment without
// overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads path (the default path when empty) over the defaults and then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// ApplyEnv overrides settings from environment variables read through
// getenv. Empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Layout.Engine, "STORYGRAPH_ENGINE")
	set(&c.Layout.DotPath, "STORYGRAPH_DOT")
	set(&c.Cache.Backend, "STORYGRAPH_CACHE")
	set(&c.Cache.Dir, "STORYGRAPH_CACHE_DIR")
	set(&c.Cache.RedisAddr, "STORYGRAPH_REDIS_ADDR")
	set(&c.Cache.RedisPassword, "STORYGRAPH_REDIS_PASSWORD")
	set(&c.Cache.MongoURI, "STORYGRAPH_MONGO_URI")
	set(&c.Server.Addr, "STORYGRAPH_ADDR")
	set(&c.Generator.Model, "STORYGRAPH_MODEL")
	set(&c.Generator.APIKey, "GEMINI_API_KEY")
	set(&c.S3.Endpoint, "STORYGRAPH_S3_ENDPOINT")
	set(&c.S3.AccessKey, "STORYGRAPH_S3_ACCESS_KEY")
	set(&c.S3.SecretKey, "STORYGRAPH_S3_SECRET_KEY")
	set(&c.S3.Region, "STORYGRAPH_S3_REGION")
	set(&c.S3.Bucket, "STORYGRAPH_S3_BUCKET")
	if v := getenv("STORYGRAPH_S3_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.S3.Secure = b
		}
	}
}

// Validate rejects unknown engine and cache names and unusable canvas
// sizes.
func (c *Config) Validate() error {
	if err := c.Canvas.Validate(); err != nil {
		return err
	}
	switch c.Layout.Engine {
	case EngineGraphviz, EngineExec, EngineNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q (want graphviz, exec or none)", c.Layout.Engine)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis, CacheMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want none, file, redis or mongo)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
	}
	if c.Cache.Backend == CacheMongo && c.Cache.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend mongo needs mongo_uri")
	}
	return nil
}

// CanvasConfig returns the canvas settings with palette and fallback
// spacing folded in.
func (c *Config) CanvasConfig() canvas.Config {
	cc := c.Canvas
	cc.Palette = c.Palette
	cc.Spacing = c.Spacing()
	return cc
}

// Spacing returns the fallback grid spacing.
func (c *Config) Spacing() layout.Spacing {
	sp := layout.DefaultSpacing()
	if c.Layout.ColumnWidth > 0 {
		sp.ColumnWidth = c.Layout.ColumnWidth
	}
	if c.Layout.RowHeight > 0 {
		sp.RowHeight = c.Layout.RowHeight
	}
	return sp
}

// DOTOptions returns the Graphviz options. Node boxes are sized so that
// cards do not overlap once engine coordinates are scaled.
func (c *Config) DOTOptions() layout.DOTOptions {
	opts := layout.DefaultDOTOptions()
	if scale := c.Canvas.EngineScale; scale > 0 && c.Canvas.CardWidth > 0 && c.Canvas.CardHeight > 0 {
		opts.NodeWidth = c.Canvas.CardWidth / scale
		opts.NodeHeight = c.Canvas.CardHeight / scale
	}
	if c.Layout.RankSep > 0 {
		opts.RankSep = c.Layout.RankSep
	}
	if c.Layout.NodeSep > 0 {
		opts.NodeSep = c.Layout.NodeSep
	}
	return opts
}
