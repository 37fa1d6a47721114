package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
// LLMAPIKey vacío no es un error: el análisis corre en modo local.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	KVCacheSize   int    `env:"KV_CACHE_SIZE" envDefault:"1024"`

	LLMAPIKey          string        `env:"LLM_API_KEY"`
	LLMBaseURL         string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel           string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMProvider        string        `env:"LLM_PROVIDER" envDefault:"http"`
	LLMTemperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens       int           `env:"LLM_MAX_TOKENS" envDefault:"1000"`
	LLMAnalysisTimeout time.Duration `env:"LLM_ANALYSIS_TIMEOUT" envDefault:"30s"`
	LLMReframeTimeout  time.Duration `env:"LLM_REFRAME_TIMEOUT" envDefault:"15s"`
	LLMCallsPerHour    int           `env:"LLM_CALLS_PER_HOUR" envDefault:"30"`

	KeywordWeight       float64 `env:"ANALYSIS_KEYWORD_WEIGHT" envDefault:"2"`
	PhraseWeight        float64 `env:"ANALYSIS_PHRASE_WEIGHT" envDefault:"5"`
	BaseConfidence      float64 `env:"ANALYSIS_BASE_CONFIDENCE" envDefault:"0.7"`
	ConfidenceStep      float64 `env:"ANALYSIS_CONFIDENCE_STEP" envDefault:"0.05"`
	MaxConfidence       float64 `env:"ANALYSIS_MAX_CONFIDENCE" envDefault:"0.95"`
	HighSeverityMatches int     `env:"DISTORTION_HIGH_SEVERITY" envDefault:"4"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RemoteEnabled indica si hay credencial para el modelo remoto.
func (c *Config) RemoteEnabled() bool {
	return c != nil && c.LLMAPIKey != ""
}
