package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	LLM       LLMConfig
	Cache     CacheConfig
	Retention RetentionConfig
	S3        S3Config
	Telegram  TelegramConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// LLMConfig selects and configures the completion provider.
// Provider is "openai" or "gigachat".
type LLMConfig struct {
	Provider         string
	Timeout          time.Duration
	InsightTimeout   time.Duration
	OpenAIKey        string
	OpenAIModel      string
	GigaChatKey      string
	GigaChatScope    string
	GigaChatNoVerify bool
}

type CacheConfig struct {
	CriteriaTTL time.Duration
	MaxEntries  int
}

type RetentionConfig struct {
	MaxConversationsPerAgent int
	ConversationTTL          time.Duration
	CleanupInterval          time.Duration
	// DashboardHourOffset shifts UTC hour buckets to local time at read time.
	DashboardHourOffset int
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type TelegramConfig struct {
	Token       string
	BotUsername string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables may be set directly

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	llmTimeout, _ := strconv.Atoi(getEnv("LLM_TIMEOUT_SECONDS", "10"))
	insightTimeout, _ := strconv.Atoi(getEnv("LLM_INSIGHT_TIMEOUT_SECONDS", "15"))
	criteriaTTLDays, _ := strconv.Atoi(getEnv("CRITERIA_TTL_DAYS", "7"))
	maxCached, _ := strconv.Atoi(getEnv("MAX_CACHED_CRITERIA", "100"))
	maxConvs, _ := strconv.Atoi(getEnv("MAX_CONVERSATIONS_PER_AGENT", "10"))
	convTTLDays, _ := strconv.Atoi(getEnv("CONVERSATION_TTL_DAYS", "7"))
	cleanupMinutes, _ := strconv.Atoi(getEnv("CLEANUP_INTERVAL_MINUTES", "60"))
	hourOffset, _ := strconv.Atoi(getEnv("DASHBOARD_HOUR_OFFSET", "3"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "investmate"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		LLM: LLMConfig{
			Provider:         getEnv("LLM_PROVIDER", "openai"),
			Timeout:          time.Duration(llmTimeout) * time.Second,
			InsightTimeout:   time.Duration(insightTimeout) * time.Second,
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4-turbo"),
			GigaChatKey:      getEnv("GIGACHAT_API_KEY", ""),
			GigaChatScope:    getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			GigaChatNoVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "false") == "true",
		},
		Cache: CacheConfig{
			CriteriaTTL: time.Duration(criteriaTTLDays) * 24 * time.Hour,
			MaxEntries:  maxCached,
		},
		Retention: RetentionConfig{
			MaxConversationsPerAgent: maxConvs,
			ConversationTTL:          time.Duration(convTTLDays) * 24 * time.Hour,
			CleanupInterval:          time.Duration(cleanupMinutes) * time.Minute,
			DashboardHourOffset:      hourOffset,
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
			Region:    getEnv("S3_REGION", "us-east-2"),
			Bucket:    getEnv("S3_BUCKET_NAME", ""),
			AccessKey: getEnv("S3_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UseSSL:    getEnv("S3_USE_SSL", "true") == "true",
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			BotUsername: getEnv("TELEGRAM_BOT_USERNAME", "InvestMateAI_bot"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
