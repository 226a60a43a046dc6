package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	LLMBackendEndpoint = "endpoint"
	LLMBackendGenAI    = "genai"

	IndexBackendPinecone = "pinecone"
	IndexBackendPgVector = "pgvector"
	IndexBackendBolt     = "bolt"
	IndexBackendMemory   = "memory"
)

type Config struct {
	Port     string         `yaml:"port"`
	Debug    bool           `yaml:"debug"`
	LogLevel string         `yaml:"log_level"`
	LLM      LLMConfig      `yaml:"llm"`
	Index    IndexConfig    `yaml:"index"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LLMConfig covers both the embedding and the generation service.
type LLMConfig struct {
	Backend          string        `yaml:"backend"` // "endpoint" or "genai"
	APIKey           string        `yaml:"api_key"`
	Endpoint         string        `yaml:"endpoint"`
	EmbedEndpoint    string        `yaml:"embed_endpoint"`
	GenerateEndpoint string        `yaml:"generate_endpoint"`
	BaseURL          string        `yaml:"base_url"`
	EmbeddingModel   string        `yaml:"embedding_model"`
	ChatModel        string        `yaml:"chat_model"`
	EmbeddingDim     int           `yaml:"embedding_dim"`
	Timeout          time.Duration `yaml:"timeout"` // 0 = no timeout
}

type IndexConfig struct {
	Backend             string `yaml:"backend"`
	Name                string `yaml:"name"`
	PineconeAPIKey      string `yaml:"pinecone_api_key"`
	PineconeEnvironment string `yaml:"pinecone_environment"`
	PineconeHost        string `yaml:"pinecone_host"`
	DatabaseURL         string `yaml:"database_url"`
	BoltPath            string `yaml:"bolt_path"`
}

type PipelineConfig struct {
	TopK              int `yaml:"top_k"`
	UpsertConcurrency int `yaml:"upsert_concurrency"`
}

func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		LLM: LLMConfig{
			EmbeddingModel: "models/text-embedding-004",
			ChatModel:      "gemini-2.5-flash",
		},
		Index: IndexConfig{
			Backend:  IndexBackendPinecone,
			Name:     "rag-demo",
			BoltPath: "rag.db",
		},
		Pipeline: PipelineConfig{
			TopK:              2,
			UpsertConcurrency: 1,
		},
	}
}

// Load builds the configuration once at startup: defaults, then the YAML file
// named by RAG_CONFIG (if any), then .env and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("RAG_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.resolve()

	return cfg, nil
}

// LoadFile reads a YAML config on top of the defaults without looking at the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.resolve()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Debug = getEnvBool("DEBUG", c.Debug)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.LLM.Backend = getEnv("LLM_BACKEND", c.LLM.Backend)
	c.LLM.APIKey = getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", c.LLM.APIKey))
	c.LLM.Endpoint = getEnv("GEMINI_ENDPOINT", c.LLM.Endpoint)
	c.LLM.EmbedEndpoint = getEnv("GEMINI_EMBED_ENDPOINT", c.LLM.EmbedEndpoint)
	c.LLM.GenerateEndpoint = getEnv("GEMINI_GENERATE_ENDPOINT", c.LLM.GenerateEndpoint)
	c.LLM.BaseURL = getEnv("GEMINI_BASE_URL", c.LLM.BaseURL)
	c.LLM.EmbeddingModel = getEnv("EMBEDDING_MODEL", c.LLM.EmbeddingModel)
	c.LLM.ChatModel = getEnv("CHAT_MODEL", c.LLM.ChatModel)
	c.LLM.EmbeddingDim = getEnvInt("EMBEDDING_DIM", c.LLM.EmbeddingDim)
	c.LLM.Timeout = getEnvDuration("HTTP_TIMEOUT", c.LLM.Timeout)

	c.Index.Backend = getEnv("VECTOR_BACKEND", c.Index.Backend)
	c.Index.Name = getEnv("INDEX_NAME", c.Index.Name)
	c.Index.PineconeAPIKey = getEnv("PINECONE_API_KEY", c.Index.PineconeAPIKey)
	c.Index.PineconeEnvironment = getEnv("PINECONE_ENVIRONMENT", c.Index.PineconeEnvironment)
	c.Index.PineconeHost = getEnv("PINECONE_HOST", c.Index.PineconeHost)
	c.Index.DatabaseURL = getEnv("DATABASE_URL", c.Index.DatabaseURL)
	c.Index.BoltPath = getEnv("BOLT_PATH", c.Index.BoltPath)

	c.Pipeline.TopK = getEnvInt("TOP_K", c.Pipeline.TopK)
	c.Pipeline.UpsertConcurrency = getEnvInt("UPSERT_CONCURRENCY", c.Pipeline.UpsertConcurrency)
}

// resolve fills values derived from other values.
func (c *Config) resolve() {
	if c.LLM.EmbedEndpoint == "" {
		c.LLM.EmbedEndpoint = c.LLM.Endpoint
	}
	if c.LLM.GenerateEndpoint == "" {
		c.LLM.GenerateEndpoint = c.LLM.Endpoint
	}
	if c.LLM.Backend == "" {
		if c.LLM.EmbedEndpoint != "" {
			c.LLM.Backend = LLMBackendEndpoint
		} else {
			c.LLM.Backend = LLMBackendGenAI
		}
	}
	if c.Pipeline.TopK <= 0 {
		c.Pipeline.TopK = 2
	}
	if c.Pipeline.UpsertConcurrency <= 0 {
		c.Pipeline.UpsertConcurrency = 1
	}
}

// Validate reports every missing required setting for the selected backends.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Backend {
	case LLMBackendGenAI:
		if c.LLM.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the genai backend"))
		}
	case LLMBackendEndpoint:
		if c.LLM.EmbedEndpoint == "" {
			errs = append(errs, errors.New("GEMINI_ENDPOINT or GEMINI_EMBED_ENDPOINT is required for the endpoint backend"))
		}
		if c.LLM.GenerateEndpoint == "" {
			errs = append(errs, errors.New("GEMINI_ENDPOINT or GEMINI_GENERATE_ENDPOINT is required for the endpoint backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM backend %q", c.LLM.Backend))
	}

	switch c.Index.Backend {
	case IndexBackendPinecone:
		if c.Index.PineconeAPIKey == "" {
			errs = append(errs, errors.New("PINECONE_API_KEY is required for the pinecone backend"))
		}
		if c.Index.Name == "" && c.Index.PineconeHost == "" {
			errs = append(errs, errors.New("INDEX_NAME or PINECONE_HOST is required for the pinecone backend"))
		}
	case IndexBackendPgVector:
		if c.Index.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the pgvector backend"))
		}
	case IndexBackendBolt:
		if c.Index.BoltPath == "" {
			errs = append(errs, errors.New("BOLT_PATH is required for the bolt backend"))
		}
	case IndexBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown vector backend %q", c.Index.Backend))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
