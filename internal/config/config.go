package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"retail-insights/internal/model"
)

// Config is the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Mail     MailConfig     `mapstructure:"mail"`
	Insights InsightsConfig `mapstructure:"insights"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// SourcesConfig names the upload directory and the file of each logical source.
type SourcesConfig struct {
	Dir        string `mapstructure:"dir"`
	Submission string `mapstructure:"submission"`
	Trending   string `mapstructure:"trending"`
	Pricing    string `mapstructure:"pricing"`
	Platforms  string `mapstructure:"platforms"`
}

// All lists every well-known source with the columns an upload must carry.
func (s SourcesConfig) All() []model.Source {
	return []model.Source{
		{Name: model.SourceSubmission, File: s.Submission, RequiredFields: []string{"Id", "Weekly_Sales"}},
		{Name: model.SourceTrending, File: s.Trending, RequiredFields: []string{"Product Name", "Trend Score"}},
		{Name: model.SourcePricing, File: s.Pricing, RequiredFields: []string{"Product Name", "Year", "Month"}},
		{Name: model.SourcePlatforms, File: s.Platforms, RequiredFields: []string{"Product Name", "Platform"}},
	}
}

// Path returns the on-disk location of src.
func (s SourcesConfig) Path(src model.Source) string {
	return filepath.Join(s.Dir, src.File)
}

// Lookup returns the source with the given logical name.
func (s SourcesConfig) Lookup(name string) (model.Source, bool) {
	for _, src := range s.All() {
		if src.Name == name {
			return src, true
		}
	}
	return model.Source{}, false
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type MailConfig struct {
	Enabled       bool              `mapstructure:"enabled"`
	Host          string            `mapstructure:"host"`
	Port          int               `mapstructure:"port"`
	Username      string            `mapstructure:"username"`
	Password      string            `mapstructure:"password"`
	From          string            `mapstructure:"from"`
	FromName      string            `mapstructure:"from_name"`
	Timeout       time.Duration     `mapstructure:"timeout"`
	RatePerSecond float64           `mapstructure:"rate_per_second"`
	Burst         int               `mapstructure:"burst"`
	Retry         model.RetryConfig `mapstructure:"retry"`
}

// DemandTier labels averages strictly above Above.
type DemandTier struct {
	Above float64 `mapstructure:"above"`
	Label string  `mapstructure:"label"`
}

type InsightsConfig struct {
	ProductLimit    int          `mapstructure:"product_limit"`
	MaxProductLimit int          `mapstructure:"max_product_limit"`
	NameFormat      string       `mapstructure:"name_format"`
	Category        string       `mapstructure:"category"`
	DefaultDemand   string       `mapstructure:"default_demand"`
	DemandTiers     []DemandTier `mapstructure:"demand_tiers"`
}

// DefaultDemandTiers are the thresholds used when none are configured.
func DefaultDemandTiers() []DemandTier {
	return []DemandTier{
		{Above: 10000, Label: "High"},
		{Above: 5000, Label: "Medium-High"},
	}
}

// ValidNameFormat reports whether format renders a group key through a single %s verb.
func ValidNameFormat(format string) bool {
	return strings.Contains(format, "%s") && !strings.Contains(fmt.Sprintf(format, "key"), "%!")
}

// Load reads .env, an optional YAML config file and INSIGHTS_* environment variables.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// legacy variable names
	_ = v.BindEnv("server.port", "INSIGHTS_SERVER_PORT", "PORT")
	_ = v.BindEnv("mail.username", "INSIGHTS_MAIL_USERNAME", "EMAIL_USER")
	_ = v.BindEnv("mail.password", "INSIGHTS_MAIL_PASSWORD", "EMAIL_PASS")
	_ = v.BindEnv("jwt.secret", "INSIGHTS_JWT_SECRET", "JWT_SECRET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Insights.DemandTiers) == 0 {
		cfg.Insights.DemandTiers = DefaultDemandTiers()
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	return &cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Sources.Dir == "" {
		return errors.New("sources.dir is required")
	}
	if c.Insights.ProductLimit <= 0 {
		return fmt.Errorf("invalid product limit: %d", c.Insights.ProductLimit)
	}
	if c.Insights.NameFormat != "" && !ValidNameFormat(c.Insights.NameFormat) {
		return fmt.Errorf("invalid insights.name_format %q: needs exactly one %%s", c.Insights.NameFormat)
	}
	if c.Mail.Enabled && c.Mail.Host == "" {
		return errors.New("mail.host is required when mail is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("sources.dir", "uploads")
	v.SetDefault("sources.submission", "submission.csv")
	v.SetDefault("sources.trending", "trending_products_final_full_train.csv")
	v.SetDefault("sources.pricing", "optimal_price_predictions.csv")
	v.SetDefault("sources.platforms", "platform_types.csv")

	v.SetDefault("database.path", "insights.db")

	v.SetDefault("jwt.issuer", "retail-insights")
	v.SetDefault("jwt.ttl", "1h")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from_name", "Retail Insights")
	v.SetDefault("mail.timeout", "2m")
	v.SetDefault("mail.rate_per_second", 2)
	v.SetDefault("mail.burst", 1)
	v.SetDefault("mail.retry.max_retries", 2)
	v.SetDefault("mail.retry.initial_delay", "1s")
	v.SetDefault("mail.retry.max_delay", "10s")
	v.SetDefault("mail.retry.backoff_factor", 2.0)

	v.SetDefault("insights.product_limit", 10)
	v.SetDefault("insights.max_product_limit", 100)
	v.SetDefault("insights.name_format", "Department %s")
	v.SetDefault("insights.category", "General")
	v.SetDefault("insights.default_demand", "Medium")
}
