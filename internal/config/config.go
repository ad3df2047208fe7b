package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/roccity/rally/internal/league"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper to get an env var with a fallback for optional settings.
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Error: environment variable %s must be an integer, got %q", key, value)
		}
		return parsed
	}

	mode := league.ModeFlat
	if strings.EqualFold(getEnv("LEAGUE_MODE", "flat"), string(league.ModeTiered)) {
		mode = league.ModeTiered
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME", "rally.db"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT", "8080"),
		League: LeagueConfig{
			Mode:            mode,
			CourtSize:       getEnvInt("COURT_SIZE", 4),
			CourtThresholds: parseCourtThresholds(getEnv("COURT_THRESHOLDS", "8:2,12:3,16:4")),
			PromotionCount:  getEnvInt("PROMOTION_COUNT", 2),
			RelegationCount: getEnvInt("RELEGATION_COUNT", 2),
		},
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
	}
	return cfg
}

// parseCourtThresholds parses "minPlayers:courts" pairs, e.g. "8:2,12:3,16:4".
func parseCourtThresholds(raw string) map[int]int {
	thresholds := make(map[int]int)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			log.Fatalf("Error: malformed COURT_THRESHOLDS entry %q", pair)
		}
		players, err := strconv.Atoi(parts[0])
		if err != nil {
			log.Fatalf("Error: malformed COURT_THRESHOLDS entry %q", pair)
		}
		courts, err := strconv.Atoi(parts[1])
		if err != nil {
			log.Fatalf("Error: malformed COURT_THRESHOLDS entry %q", pair)
		}
		thresholds[players] = courts
	}
	if len(thresholds) == 0 {
		log.Fatalf("Error: COURT_THRESHOLDS is empty")
	}
	return thresholds
}
