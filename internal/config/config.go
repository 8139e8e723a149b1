package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config is the whole environment surface, read once at startup.
type Config struct {
	TargetURL string
	UserAgent string

	TelegramBotToken string
	TelegramChatIDs  []string

	HistoryFile string

	SheetsCredentialsFile string
	SheetsSpreadsheetID   string
	SheetsWorksheet       string

	HealthcheckURL string

	PollMin time.Duration
	PollMax time.Duration

	// EmptyPageRemovals lets a rendered-but-empty listing deactivate every
	// active offer. Off by default: the safe reading of an empty page is
	// "the page glitched", not "everything was withdrawn at once".
	EmptyPageRemovals bool

	// SelectorsFile overrides the embedded selector registry.
	SelectorsFile string

	// StatusAddr serves /healthz and /status when set, e.g. ":8081".
	StatusAddr string
}

// Load reads .env when present, then the environment. Telegram credentials
// and the history file path are required; spreadsheet settings are optional
// and their absence only disables that sink.
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] Loaded .env")
	}

	cfg := Config{
		TargetURL:             envString("TARGET_URL", "https://www.bet365.it/#/HO/"),
		UserAgent:             envString("USER_AGENT", defaultUserAgent),
		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatIDs:       splitList(os.Getenv("TELEGRAM_CHAT_IDS")),
		HistoryFile:           os.Getenv("SUPERQUOTE_HISTORY_FILE"),
		SheetsCredentialsFile: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_FILE"),
		SheetsSpreadsheetID:   os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
		SheetsWorksheet:       envString("GOOGLE_SHEETS_WORKSHEET_NAME", "Foglio1"),
		HealthcheckURL:        os.Getenv("HEALTHCHECK_URL"),
		PollMin:               time.Duration(envInt("POLL_MIN_SECONDS", 75)) * time.Second,
		PollMax:               time.Duration(envInt("POLL_MAX_SECONDS", 115)) * time.Second,
		EmptyPageRemovals:     envBool("EMPTY_PAGE_REMOVALS", false),
		SelectorsFile:         os.Getenv("SELECTORS_FILE"),
		StatusAddr:            os.Getenv("STATUS_ADDR"),
	}

	if cfg.TelegramBotToken == "" || len(cfg.TelegramChatIDs) == 0 || cfg.HistoryFile == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_IDS and SUPERQUOTE_HISTORY_FILE are required")
	}
	if cfg.PollMin <= 0 || cfg.PollMax < cfg.PollMin {
		return Config{}, fmt.Errorf("poll interval misconfigured: min %s, max %s", cfg.PollMin, cfg.PollMax)
	}
	return cfg, nil
}

// SheetsEnabled reports whether the spreadsheet sink is configured. A key
// file that is named but unreadable is caught later, at sink construction.
func (c Config) SheetsEnabled() bool {
	return c.SheetsCredentialsFile != "" && c.SheetsSpreadsheetID != ""
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] ⚠️ %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] ⚠️ %s=%q is not a boolean, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
