package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	LogLevel        string
	OpenAIAPIKey    string
	OpenAIModel     string
	NarratorTimeout time.Duration
	NatsURL         string
	NatsToken       string
	NatsQueue       string
	LexiconPath     string
	MaxUploadMB     int
}

func Load() Config {
	return Config{
		Port:            envInt("REALMBTI_PORT", 8080),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIModel:     envStr("OPENAI_MODEL_NAME", "o3-mini"),
		NarratorTimeout: time.Duration(envInt("NARRATOR_TIMEOUT_SECONDS", 60)) * time.Second,
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		NatsQueue:       envStr("NATS_QUEUE", "realmbti-workers"),
		LexiconPath:     envStr("LEXICON_PATH", ""),
		MaxUploadMB:     envInt("MAX_UPLOAD_MB", 32),
	}
}

// LoadEnvFile seeds the environment from a dotenv file without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MaxUploadBytes is the multipart body limit.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// NarratorEnabled reports whether LLM credentials are configured.
func (c Config) NarratorEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
