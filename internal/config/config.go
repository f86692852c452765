package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the ambient, flat configuration surface: everything the
// pipeline steps and CLI need that isn't feed/topic specific. Loaded through
// viper so CONFIG_KEY-style environment variables override file values.
type Config struct {
	DBPath             string        `mapstructure:"db_path"`
	ModelNano          string        `mapstructure:"model_nano"`
	ModelMini          string        `mapstructure:"model_mini"`
	ModelAnalysis      string        `mapstructure:"model_analysis"`
	ConfidenceThreshold float64      `mapstructure:"confidence_threshold"`
	MaxItemsPerFeed    int           `mapstructure:"max_items_per_feed"`
	RequestTimeoutSec  int           `mapstructure:"request_timeout_sec"`
	CrawlDelaySec      int           `mapstructure:"crawl_delay_sec"`
	UserAgent          string        `mapstructure:"user_agent"`
	PipelineLanguage   string        `mapstructure:"pipeline_language"`
	SkipGNewsRedirects bool          `mapstructure:"skip_gnews_redirects"`
	Pipeline           Pipeline      `mapstructure:"pipeline"`
}

// Pipeline carries the pipeline.filtering.* knobs the Selection Gate reads.
type Pipeline struct {
	Filtering Filtering `mapstructure:"filtering"`
}

// Filtering mirrors classify.DefaultConfidenceThreshold /
// classify.DefaultMaxArticlesToProcess, overridable per deployment.
type Filtering struct {
	ConfidenceThreshold  float64 `mapstructure:"confidence_threshold"`
	MaxArticlesToProcess int     `mapstructure:"max_articles_to_process"`
}

// RequestTimeout returns RequestTimeoutSec as a time.Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// CrawlDelay returns CrawlDelaySec as a time.Duration.
func (c *Config) CrawlDelay() time.Duration {
	return time.Duration(c.CrawlDelaySec) * time.Second
}

var globalConfig *Config

// Load reads configFile (or the default search path) plus environment
// variables into the global Config, applying defaults and validating the
// result. A .env file in the working directory is loaded first, for local
// development convenience.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("warning: error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".newsdesk")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvironmentVariables()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration, loading it with defaults if Load
// hasn't been called yet.
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("failed to load configuration: %v", err))
		}
		return cfg
	}
	return globalConfig
}

// Reset clears the cached global configuration, used by tests that need a
// fresh Load call.
func Reset() {
	globalConfig = nil
}

func setDefaults() {
	viper.SetDefault("db_path", "newsdesk.db")
	viper.SetDefault("model_nano", "gemini-flash-lite-latest")
	viper.SetDefault("model_mini", "gemini-flash-latest")
	viper.SetDefault("model_analysis", "gemini-pro-latest")
	viper.SetDefault("confidence_threshold", 0.70)
	viper.SetDefault("max_items_per_feed", 50)
	viper.SetDefault("request_timeout_sec", 12)
	viper.SetDefault("crawl_delay_sec", 2)
	viper.SetDefault("user_agent", "newsdesk/1.0 (+https://github.com/newsdesk)")
	viper.SetDefault("pipeline_language", "de")
	viper.SetDefault("skip_gnews_redirects", true)
	viper.SetDefault("pipeline.filtering.confidence_threshold", 0.70)
	viper.SetDefault("pipeline.filtering.max_articles_to_process", 35)
}

// bindEnvironmentVariables binds the exact environment variable names the
// pipeline's external interface promises, so DB_PATH works without the
// automatic dot-to-underscore replacement needing to guess the mapping.
func bindEnvironmentVariables() {
	bindings := map[string]string{
		"db_path":              "DB_PATH",
		"model_nano":           "MODEL_NANO",
		"model_mini":           "MODEL_MINI",
		"model_analysis":       "MODEL_ANALYSIS",
		"confidence_threshold": "CONFIDENCE_THRESHOLD",
		"max_items_per_feed":   "MAX_ITEMS_PER_FEED",
		"request_timeout_sec":  "REQUEST_TIMEOUT_SEC",
		"crawl_delay_sec":      "CRAWL_DELAY_SEC",
		"user_agent":           "USER_AGENT",
		"pipeline_language":    "PIPELINE_LANGUAGE",
		"skip_gnews_redirects": "SKIP_GNEWS_REDIRECTS",
	}
	for key, env := range bindings {
		_ = viper.BindEnv(key, env)
	}
}

func validate(cfg *Config) error {
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0 and 1, got %f", cfg.ConfidenceThreshold)
	}
	if cfg.PipelineLanguage != "de" && cfg.PipelineLanguage != "en" {
		return fmt.Errorf("pipeline_language must be 'de' or 'en', got %q", cfg.PipelineLanguage)
	}
	if cfg.RequestTimeoutSec <= 0 {
		return fmt.Errorf("request_timeout_sec must be positive, got %d", cfg.RequestTimeoutSec)
	}
	return nil
}

// FeedConfig is the feed-source YAML document: one section per source kind.
// Unknown or empty sections are permitted — a deployment need not configure
// every kind.
type FeedConfig struct {
	RSS           []RSSFeedEntry        `yaml:"rss"`
	AdditionalRSS []RSSFeedEntry        `yaml:"additional_rss"`
	GoogleNewsRSS []RSSFeedEntry        `yaml:"google_news_rss"`
	Sitemaps      []SitemapEntry        `yaml:"sitemaps"`
	HTML          []HTMLListingEntry    `yaml:"html"`
	JSON          []JSONAPIEntry        `yaml:"json"`
}

type RSSFeedEntry struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type SitemapEntry struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type HTMLListingEntry struct {
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	ItemSelector  string `yaml:"item_selector"`
	TitleSelector string `yaml:"title_selector"`
	DateSelector  string `yaml:"date_selector"`
}

type JSONAPIEntry struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	ItemsPath string `yaml:"items_path"`
	URLPath   string `yaml:"url_path"`
	TitlePath string `yaml:"title_path"`
	DatePath  string `yaml:"date_path"`
}

// LoadFeedConfig reads a feed configuration YAML document from path.
func LoadFeedConfig(path string) (*FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed config %s: %w", path, err)
	}
	var cfg FeedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse feed config %s: %w", path, err)
	}
	return &cfg, nil
}

// TopicConfig describes one tracked topic: its matching hints and per-topic
// overrides of the global filtering thresholds.
type TopicConfig struct {
	Name               string   `yaml:"name"`
	Enabled            bool     `yaml:"enabled"`
	Description        string   `yaml:"description"`
	Include            []string `yaml:"include"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	MaxArticlesPerRun  int      `yaml:"max_articles_per_run"`
	MaxArticleAgeDays  int      `yaml:"max_article_age_days"`
	SkipPrefilter      bool     `yaml:"skip_prefilter"`
	FocusAreas         []string `yaml:"focus_areas"`
	Thresholds         struct {
		EarlyTerminationAt int `yaml:"early_termination_at"`
	} `yaml:"thresholds"`
}

// TopicsConfig is the topic configuration YAML document's top level.
type TopicsConfig struct {
	Topics []TopicConfig `yaml:"topics"`
}

// LoadTopicsConfig reads the topic configuration YAML document from path.
func LoadTopicsConfig(path string) (*TopicsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topics config %s: %w", path, err)
	}
	var cfg TopicsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse topics config %s: %w", path, err)
	}
	return &cfg, nil
}

// Enabled returns only the topics marked enabled, in configured order.
func (c *TopicsConfig) Enabled() []TopicConfig {
	var out []TopicConfig
	for _, t := range c.Topics {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}
