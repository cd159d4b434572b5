package model

import "time"

// Config is the full runtime configuration, assembled from defaults, the
// config file, environment variables and CLI flags.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Cache  CacheConfig  `yaml:"cache"`
	LLM    LLMConfig    `yaml:"llm"`
	Notion NotionConfig `yaml:"notion"`
	Words  WordsConfig  `yaml:"words"`
	Output OutputConfig `yaml:"output"`
}

// HTTPConfig controls outbound article and word-list fetches
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RatePerHost   float64       `yaml:"rate_per_host"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// CacheConfig controls the layered fetch cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// LLMConfig holds generative API settings
type LLMConfig struct {
	Provider      string `yaml:"provider"` // "gemini" or "openai"
	Model         string `yaml:"model"`
	FallbackModel string `yaml:"fallback_model"`
	APIKey        string `yaml:"-"` // never serialized
	BaseURL       string `yaml:"base_url"`
	Timeout       int    `yaml:"timeout"` // seconds
	MaxTokens     int    `yaml:"max_tokens"`
}

// NotionConfig holds workspace API settings
type NotionConfig struct {
	Token      string  `yaml:"-"` // never serialized
	Version    string  `yaml:"version"`
	ArticlesDB string  `yaml:"articles_db"`
	PatternsDB string  `yaml:"patterns_db"`
	OutputsDB  string  `yaml:"outputs_db"`
	WordsDB    string  `yaml:"words_db"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	MaxRetries int     `yaml:"max_retries"`
}

// WordsConfig locates the local word catalog and manual term list
type WordsConfig struct {
	CSVPath          string `yaml:"csv_path"`
	SpecializedTerms string `yaml:"specialized_terms"`
}

// OutputConfig controls console output
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose"`
	AudioDir string `yaml:"audio_dir"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Mozilla/5.0 (compatible; lexipipe/0.1)",
			MaxBodyBytes:  2_000_000,
			RatePerHost:   2,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".lexipipe/cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:      "gemini",
			Model:         "gemini-2.5-flash",
			FallbackModel: "gemini-2.0-flash",
			Timeout:       60,
			MaxTokens:     2000,
		},
		Notion: NotionConfig{
			Version:    "2022-06-28",
			RatePerSec: 3,
			MaxRetries: 5,
		},
		Words: WordsConfig{
			CSVPath:          "data/words.csv",
			SpecializedTerms: "data/specialized_terms.txt",
		},
		Output: OutputConfig{
			AudioDir: "output",
		},
	}
}
