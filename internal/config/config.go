package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type NLPConfig struct {
	Provider       string `toml:"provider"`
	Endpoint       string `toml:"endpoint"`
	Model          string `toml:"model"`
	ModelDir       string `toml:"model_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxLength      int    `toml:"max_length"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type MySQLConfig struct {
	DSN string `toml:"dsn"`
}

type AMQPConfig struct {
	URL        string `toml:"url"`
	Queue      string `toml:"queue"`
	ReplyQueue string `toml:"reply_queue"`
	Prefetch   int    `toml:"prefetch"`
}

type ServerConfig struct {
	Port            string   `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	MaxUploadMB     int      `toml:"max_upload_mb"`
	CORSMaxAgeHours int      `toml:"cors_max_age_hours"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ExtractionConfig struct {
	ForceDetect []string `toml:"force_detect"`
}

type ConcurrencyConfig struct {
	BulkBuild int `toml:"bulk_build"`
}

type Config struct {
	NLP         NLPConfig         `toml:"nlp"`
	Neo4j       Neo4jConfig       `toml:"neo4j"`
	MySQL       MySQLConfig       `toml:"mysql"`
	AMQP        AMQPConfig        `toml:"amqp"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	Extraction  ExtractionConfig  `toml:"extraction"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		NLP: NLPConfig{
			Provider:       "remote",
			Endpoint:       "http://localhost:8001",
			Model:          "KnightsAnalytics/distilbert-NER",
			ModelDir:       "./models",
			TimeoutSeconds: 60,
			MaxLength:      2_000_000,
		},
		Neo4j: Neo4jConfig{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
		AMQP: AMQPConfig{
			Queue:      "textgraph.build",
			ReplyQueue: "textgraph.build.result",
			Prefetch:   1,
		},
		Server: ServerConfig{
			Port:            "8080",
			CORSOrigins:     []string{"*"},
			MaxUploadMB:     32,
			CORSMaxAgeHours: 12,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Extraction: ExtractionConfig{
			ForceDetect: []string{"echo", "alexa", "siri", "cortana"},
		},
		Concurrency: ConcurrencyConfig{
			BulkBuild: 4,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path if it exists and falls back to Default otherwise, then applies the
// environment overrides.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Neo4j.URI, "NEO4J_URI")
	set(&c.Neo4j.User, "NEO4J_USER")
	set(&c.Neo4j.Password, "NEO4J_PASSWORD")
	set(&c.NLP.Provider, "NLP_PROVIDER")
	set(&c.NLP.Endpoint, "NLP_ENDPOINT")
	set(&c.MySQL.DSN, "MYSQL_DSN")
	set(&c.AMQP.URL, "AMQP_URL")
	set(&c.Server.Port, "PORT")
	set(&c.Log.Level, "LOG_LEVEL")

	if v := getenv("BULK_BUILD_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BULK_BUILD_CONCURRENCY %q: %w", v, err)
		}
		c.Concurrency.BulkBuild = n
	}
	return nil
}
