// Package config loads flipdoc settings from config.toml and FLIPDOC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JoquimMarques/flipdoc/dsl"
	"github.com/JoquimMarques/flipdoc/internal/logger"
	"github.com/JoquimMarques/flipdoc/layout"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Log     LogConfig
	Page    PageConfig
	Image   ImageConfig
	Render  RenderConfig
	Metrics MetricsConfig
}

type AppConfig struct {
	Name    string
	Env     string // development, production
	Port    string
	TempDir string // where uploaded word files are spooled; empty = os.TempDir
}

type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// PageConfig is the text page policy. Spec, when set, is a page-spec string such as
// "A4 portrait margin 50pt font Helvetica size 12pt line-height 1.5x" applied on top of the numeric keys.
type PageConfig struct {
	Width            float64 // points
	Height           float64
	Margin           float64
	Font             string
	FontSize         float64
	LineHeightFactor float64
	Spec             string
}

type ImageConfig struct {
	MaxWidth  float64 // points
	MaxHeight float64
}

type RenderConfig struct {
	Backend  string // fpdf, canvas
	FontPath string // TrueType font for the canvas backend; empty = built-in Go font
	Title    string
	Creator  string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads config.toml from the working directory or /etc/flipdoc when present, then the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/flipdoc")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return load(v)
}

// LoadFile reads the named config file, which must exist, then the environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("FLIPDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			TempDir: v.GetString("app.temp_dir"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Page: PageConfig{
			Width:            v.GetFloat64("page.width"),
			Height:           v.GetFloat64("page.height"),
			Margin:           v.GetFloat64("page.margin"),
			Font:             v.GetString("page.font"),
			FontSize:         v.GetFloat64("page.font_size"),
			LineHeightFactor: v.GetFloat64("page.line_height_factor"),
			Spec:             v.GetString("page.spec"),
		},
		Image: ImageConfig{
			MaxWidth:  v.GetFloat64("image.max_width"),
			MaxHeight: v.GetFloat64("image.max_height"),
		},
		Render: RenderConfig{
			Backend:  v.GetString("render.backend"),
			FontPath: v.GetString("render.font_path"),
			Title:    v.GetString("render.title"),
			Creator:  v.GetString("render.creator"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}
	// metrics are on unless explicitly disabled
	if !v.IsSet("metrics.enabled") {
		cfg.Metrics.Enabled = true
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "flipdoc"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 120 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	logDefaults := logger.ConfigForEnvironment(cfg.App.Env)
	if cfg.Log.Level == "" {
		cfg.Log.Level = logDefaults.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logDefaults.Format
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = logDefaults.Output
	}
	if cfg.Page.Width == 0 {
		cfg.Page.Width = layout.A4Width
	}
	if cfg.Page.Height == 0 {
		cfg.Page.Height = layout.A4Height
	}
	if cfg.Page.Margin == 0 {
		cfg.Page.Margin = layout.DefaultMargin
	}
	if cfg.Page.Font == "" {
		cfg.Page.Font = layout.DefaultFont
	}
	if cfg.Page.FontSize == 0 {
		cfg.Page.FontSize = layout.DefaultFontSize
	}
	if cfg.Page.LineHeightFactor == 0 {
		cfg.Page.LineHeightFactor = layout.DefaultLineHeightFactor
	}
	if cfg.Image.MaxWidth == 0 {
		cfg.Image.MaxWidth = layout.A4Width
	}
	if cfg.Image.MaxHeight == 0 {
		cfg.Image.MaxHeight = layout.A4Height
	}
	if cfg.Render.Backend == "" {
		cfg.Render.Backend = "fpdf"
	}
	if cfg.Render.Creator == "" {
		cfg.Render.Creator = cfg.App.Name
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	if c.HTTP.MaxBodySize <= 0 {
		return fmt.Errorf("http.max_body_size must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Render.Backend) {
	case "fpdf", "canvas":
	default:
		return fmt.Errorf("render.backend must be fpdf or canvas, got %q", c.Render.Backend)
	}
	if c.Image.MaxWidth < 0 || c.Image.MaxHeight < 0 {
		return fmt.Errorf("image.max_width and image.max_height must be positive")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	if _, err := c.Page.Geometry(); err != nil {
		return fmt.Errorf("page: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.App.Port
}

// Geometry resolves the page policy, applying Spec over the numeric keys.
func (p PageConfig) Geometry() (layout.Geometry, error) {
	g := layout.NewGeometry(p.Width, p.Height, p.Margin, p.Font, p.FontSize, p.LineHeightFactor)
	if strings.TrimSpace(p.Spec) == "" {
		return g, g.Validate()
	}
	spec, err := dsl.ParseString(p.Spec)
	if err != nil {
		return layout.Geometry{}, fmt.Errorf("spec %q: %w", p.Spec, err)
	}
	return layout.GeometryFromSpec(spec, g)
}

// Bounds returns the page limits for image conversions.
func (i ImageConfig) Bounds() layout.Bounds {
	return layout.Bounds{MaxWidth: i.MaxWidth, MaxHeight: i.MaxHeight}
}

// LoggerConfig converts the log section for the logger package.
func (l LogConfig) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Output = l.Output
	return cfg
}
