package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port    string
	GinMode string

	// AI provider
	AIProvider        string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITemperature float64
	OllamaBaseURL     string
	OllamaModel       string

	// sessions
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	ContextWindowSize int

	// uploads
	MaxUploadBytes int64

	CORSAllowOrigins []string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3002"
	}

	aiProvider := os.Getenv("AI_PROVIDER")
	if aiProvider == "" {
		aiProvider = "openai"
	}

	openAIBaseURL := os.Getenv("OPENAI_BASE_URL")
	if openAIBaseURL == "" {
		openAIBaseURL = "https://api.openai.com/v1"
	}
	openAIModel := os.Getenv("OPENAI_MODEL")
	if openAIModel == "" {
		openAIModel = "gpt-4"
	}
	temperature := 0.1
	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			temperature = f
		}
	}

	ollamaBaseURL := os.Getenv("OLLAMA_BASE_URL")
	if ollamaBaseURL == "" {
		ollamaBaseURL = "http://localhost:11434"
	}
	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3:latest"
	}

	sessionTTL := 48 * time.Hour
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionTTL = time.Duration(n) * time.Hour
		}
	}

	sweepInterval := time.Hour
	if v := os.Getenv("SWEEP_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sweepInterval = time.Duration(n) * time.Minute
		}
	}

	// Last 6 entries = 3 question/response pairs.
	windowSize := 6
	if v := os.Getenv("CHAT_CONTEXT_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			windowSize = n
		}
	}

	maxUpload := int64(20 << 20)
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxUpload = n
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		Port:    port,
		GinMode: os.Getenv("GIN_MODE"),

		AIProvider:        aiProvider,
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     openAIBaseURL,
		OpenAIModel:       openAIModel,
		OpenAITemperature: temperature,
		OllamaBaseURL:     ollamaBaseURL,
		OllamaModel:       ollamaModel,

		SessionTTL:        sessionTTL,
		SweepInterval:     sweepInterval,
		ContextWindowSize: windowSize,

		MaxUploadBytes: maxUpload,

		CORSAllowOrigins: origins,
	}
}
