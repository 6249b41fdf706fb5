package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, EngineGraphviz, cfg.Layout.Engine)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 300.0, cfg.Canvas.CardWidth)
	assert.Equal(t, "#51cf66", cfg.Palette.Start.Base)
	assert.Equal(t, layout.DefaultTimeout, cfg.Layout.Timeout.Duration)
	assert.NoError(t, cfg.Validate())
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/storygraph", Dir())
	assert.Equal(t, "/tmp/xdg/storygraph/config.toml", Path())
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	dir, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cache/storygraph", dir)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("STORYGRAPH_ENGINE", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Layout, cfg.Layout)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("STORYGRAPH_ENGINE", "")
	t.Setenv("STORYGRAPH_CACHE", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[canvas]
card_width = 240.0

[palette.start]
base = "#00ff00"
accent = "#00aa00"

[layout]
engine = "none"
timeout = "3s"
row_height = 300.0

[cache]
backend = "none"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EngineNone, cfg.Layout.Engine)
	assert.Equal(t, 3*time.Second, cfg.Layout.Timeout.Duration)
	assert.Equal(t, 240.0, cfg.Canvas.CardWidth)
	assert.Equal(t, 200.0, cfg.Canvas.CardHeight, "unset keys keep defaults")
	assert.Equal(t, "#00ff00", cfg.Palette.Start.Base)
	assert.Equal(t, "#ff6b6b", cfg.Palette.Ending.Base)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)

	cc := cfg.CanvasConfig()
	assert.Equal(t, "#00ff00", cc.Palette.Start.Base)
	assert.Equal(t, 300.0, cc.Spacing.RowHeight)
	assert.Equal(t, 350.0, cc.Spacing.ColumnWidth)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[layout\nengine="), 0o644))
	_, err := Load(bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("[layout]\nengine = \"neato\"\n"), 0o644))
	t.Setenv("STORYGRAPH_ENGINE", "")
	_, err = Load(unknown)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STORYGRAPH_ENGINE":     "exec",
		"STORYGRAPH_CACHE":      "redis",
		"STORYGRAPH_REDIS_ADDR": "localhost:6379",
		"GEMINI_API_KEY":        "key",
		"STORYGRAPH_S3_BUCKET":  "stories",
		"STORYGRAPH_S3_SECURE":  "false",
		"STORYGRAPH_ADDR":       "   ",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, EngineExec, cfg.Layout.Engine)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "key", cfg.Generator.APIKey)
	assert.Equal(t, "stories", cfg.S3.Bucket)
	assert.False(t, cfg.S3.Secure)
	assert.Equal(t, ":8080", cfg.Server.Addr, "blank values are ignored")
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"unknown engine", func(c *Config) { c.Layout.Engine = "neato" }, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, false},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }, false},
		{"mongo without uri", func(c *Config) { c.Cache.Backend = CacheMongo }, false},
		{"label keep above max", func(c *Config) { c.Canvas.LabelMax, c.Canvas.LabelKeep = 10, 20 }, false},
		{"negative label keep", func(c *Config) { c.Canvas.LabelKeep = -1 }, false},
		{"zero card width", func(c *Config) { c.Canvas.CardWidth = 0 }, false},
		{"negative line height", func(c *Config) { c.Canvas.LineHeight = -16 }, false},
		{"zero zoom step", func(c *Config) { c.Canvas.ZoomInStep = 0 }, false},
		{"min zoom above max", func(c *Config) { c.Canvas.MinZoom = 100 }, false},
		{"mongo with uri", func(c *Config) {
			c.Cache.Backend = CacheMongo
			c.Cache.MongoURI = "mongodb://localhost"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Layout.Engine = EngineNone
	cfg.Generator.Timeout = Duration{90 * time.Second}

	require.NoError(t, Save(cfg, path))

	t.Setenv("STORYGRAPH_ENGINE", "")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EngineNone, got.Layout.Engine)
	assert.Equal(t, 90*time.Second, got.Generator.Timeout.Duration)
	assert.Equal(t, cfg.Palette, got.Palette)
}

func TestDOTOptions(t *testing.T) {
	cfg := Default()
	assert.InDelta(t, 200.0, cfg.DOTOptions().NodeWidth, 1e-9)

	cfg.Canvas.CardWidth = 450
	cfg.Layout.RankSep = 1.2
	opts := cfg.DOTOptions()
	assert.InDelta(t, 300.0, opts.NodeWidth, 1e-9)
	assert.Equal(t, 1.2, opts.RankSep)
}

func TestLoadExampleConfig(t *testing.T) {
	for _, k := range []string{"STORYGRAPH_ENGINE", "STORYGRAPH_CACHE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Layout, cfg.Layout)
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Canvas.WheelStep, cfg.Canvas.WheelStep)
	assert.Equal(t, "#4caf50", cfg.Palette.Start.Base)
	assert.Equal(t, 168*time.Hour, cfg.Cache.TTL.Duration)
}

func TestLoadRejectsLabelKeepAboveMax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nlabel_max = 10\nlabel_keep = 20\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "label_keep")
}
