package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLMConfig selects and tunes the inference provider.
type LLMConfig struct {
	Provider     string // bedrock | openai | gemini
	Model        string
	MaxTokens    int
	Temperature  float32
	Timeout      time.Duration
	StrictSchema bool
}

// AWSConfig holds Bedrock settings. Empty keys fall back to the default credential chain.
type AWSConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
}

// MinIOConfig holds object storage settings for the upload archive.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	AllowedOrigins string
	MaxUploadMB    int
	MaxPages       int
	LogLevel       string
	FrameworksFile string
	ArchiveEnabled bool

	LLM    LLMConfig
	AWS    AWSConfig
	OpenAI OpenAIConfig
	Gemini GeminiConfig
	MinIO  MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	port := getEnv("BACKEND_PORT", getEnv("PORT", "5000"))
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:"+port),
		Port:           port,
		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 25),
		MaxPages:       getEnvInt("MAX_PAGES", 500),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrameworksFile: getEnv("FRAMEWORKS_FILE", ""),
		ArchiveEnabled: getEnvBool("ARCHIVE_ENABLED", false),
		LLM: LLMConfig{
			Provider:     strings.ToLower(getEnv("LLM_PROVIDER", "bedrock")),
			Model:        getEnv("LLM_MODEL", ""),
			MaxTokens:    getEnvInt("LLM_MAX_TOKENS", 4096),
			Temperature:  float32(getEnvFloat("LLM_TEMPERATURE", 0)),
			Timeout:      getEnvDuration("LLM_TIMEOUT", 120*time.Second),
			StrictSchema: getEnvBool("LLM_STRICT_SCHEMA", false),
		},
		AWS: AWSConfig{
			Region:    getEnv("AWS_REGION", "us-east-1"),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Validate reports settings that would make the service unusable at startup.
func (c *AppConfig) Validate() error {
	switch c.LLM.Provider {
	case "bedrock":
		if c.AWS.Region == "" {
			return fmt.Errorf("AWS_REGION is required for the bedrock provider")
		}
		if (c.AWS.AccessKey == "") != (c.AWS.SecretKey == "") {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *AppConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
