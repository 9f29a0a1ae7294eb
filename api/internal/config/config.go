package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string

	// MinSharedQuestions is the smallest number of commonly answered
	// questions before two users can be matched.
	MinSharedQuestions int
	// MatchLimit caps how many candidates /match shows at once.
	MatchLimit int

	Debug bool
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s must be an integer, got %q", k, v)
	}
	return n
}

func Load() *Config {
	// Local runs keep secrets in .env; deployed runs use real env vars.
	_ = godotenv.Load()

	return &Config{
		TelegramBotToken: mustEnv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      mustEnv("DATABASE_URL"),

		MinSharedQuestions: getEnvInt("MIN_SHARED_QUESTIONS", 3),
		MatchLimit:         getEnvInt("MATCH_LIMIT", 5),

		Debug: getEnv("DEBUG", "") != "",
	}
}
