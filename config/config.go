package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultSessionID = "default_session"
)

type Config struct {
	Port    string
	LogMode string

	LLMProvider     string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	LLMModel        string
	LLMTemperature  float64
	LLMMaxTokens    int

	CurriculumPaths []string
	DatabaseURL     string
	WatchCurriculum bool

	SessionCapacity int
	RequestTimeout  time.Duration
	AllowedOrigins  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file loaded: %v", err)
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI))

	return &Config{
		Port:    getEnv("PORT", "5000"),
		LogMode: getEnv("LOG_MODE", "development"),

		LLMProvider:     provider,
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		LLMModel:        getEnv("LLM_MODEL", defaultModel(provider)),
		LLMTemperature:  getFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:    getInt("LLM_MAX_TOKENS", 800),

		CurriculumPaths: getList("CURRICULUM_PATHS", []string{"assets/data/chatbot.json", "chatbot.json"}),
		DatabaseURL:     os.Getenv("DB_URL"),
		WatchCurriculum: getBool("CURRICULUM_WATCH", false),

		SessionCapacity: getInt("SESSION_CAPACITY", 10000),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 60*time.Second),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "*"),
	}
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

func defaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return "claude-sonnet-4-20250514"
	}
	return "gpt-4"
}

func getEnv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func getInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getFloat(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getList(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
