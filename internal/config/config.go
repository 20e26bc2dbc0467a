package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Gates holds the minimum clarity score required before each action may
// be emitted. Values are in [0,1].
type Gates struct {
	Relocation       float64 `yaml:"relocation"`
	LongTermClosure  float64 `yaml:"long_term_closure"`
	PermanentClosure float64 `yaml:"permanent_closure"`
	PaymentIssue     float64 `yaml:"payment_issue"`
	TemporaryClosure float64 `yaml:"temporary_closure"`
	ChangeHours      float64 `yaml:"change_hours"`
	HolidayHours     float64 `yaml:"holiday_hours"`
}

// HoursPolicy controls when extracted hours count as a real change.
// The thresholds drifted between script revisions, so they are config
// rather than constants.
type HoursPolicy struct {
	ToleranceMinutes       int     `yaml:"tolerance_minutes"`
	MinDifferingDays       int     `yaml:"min_differing_days"`
	MinCompleteDays        int     `yaml:"min_complete_days"`
	SingleDayConfidenceBar float64 `yaml:"single_day_confidence_bar"`
}

type Config struct {
	ModeBaseURL  string `yaml:"mode_base_url"`
	ModeAccount  string `yaml:"mode_account"`
	ModeToken    string `yaml:"mode_token"`
	ModeSecret   string `yaml:"mode_secret"`
	ModeReportID string `yaml:"mode_report_id"`
	ModeQueryID  string `yaml:"mode_query_id"`

	ModePollIntervalSeconds int `yaml:"mode_poll_interval_seconds"`
	ModePollTimeoutSeconds  int `yaml:"mode_poll_timeout_seconds"`

	VisionProvider  string `yaml:"vision_provider"`
	VisionModel     string `yaml:"vision_model"`
	VisionMaxTokens int    `yaml:"vision_max_tokens"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	DBPath    string `yaml:"db_path"`
	OutputDir string `yaml:"output_dir"`

	Schedule string `yaml:"schedule"` // 5-field cron; empty = run once
	Timezone string `yaml:"timezone"`

	ClassifyDelayMillis        int `yaml:"classify_delay_ms"`
	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`

	HolidaySeasonYear  int    `yaml:"holiday_season_year"`
	HolidayWindowStart string `yaml:"holiday_window_start"` // YYYY-MM-DD
	MinImageConfidence float64 `yaml:"min_image_confidence"`

	Gates       Gates       `yaml:"gates"`
	HoursPolicy HoursPolicy `yaml:"hours_policy"`
	LexiconPath string      `yaml:"lexicon_path"`

	Location *time.Location `yaml:"-"`
}

// DefaultGates returns the production clarity gates. Relocation carries
// the highest gate: wrong address data causes real-world harm.
func DefaultGates() Gates {
	return Gates{
		Relocation:       0.92,
		LongTermClosure:  0.75,
		PermanentClosure: 0.85,
		PaymentIssue:     0.75,
		TemporaryClosure: 0.75,
		ChangeHours:      0.90,
		HolidayHours:     0.90,
	}
}

// DefaultHoursPolicy returns the latest-revision change policy:
// 30-minute tolerance, at least 2 differing days, 4 complete days
// required before any change is considered.
func DefaultHoursPolicy() HoursPolicy {
	return HoursPolicy{
		ToleranceMinutes:       30,
		MinDifferingDays:       2,
		MinCompleteDays:        4,
		SingleDayConfidenceBar: 0.93,
	}
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values.
	envOverride(&cfg.ModeBaseURL, "MODE_BASE_URL")
	envOverride(&cfg.ModeAccount, "MODE_ACCOUNT")
	envOverride(&cfg.ModeToken, "MODE_TOKEN")
	envOverride(&cfg.ModeSecret, "MODE_SECRET")
	envOverride(&cfg.ModeReportID, "MODE_REPORT_ID")
	envOverride(&cfg.ModeQueryID, "MODE_QUERY_ID")
	envOverrideInt(&cfg.ModePollIntervalSeconds, "MODE_POLL_INTERVAL_SECONDS")
	envOverrideInt(&cfg.ModePollTimeoutSeconds, "MODE_POLL_TIMEOUT_SECONDS")
	envOverride(&cfg.VisionProvider, "VISION_PROVIDER")
	envOverride(&cfg.VisionModel, "VISION_MODEL")
	envOverrideInt(&cfg.VisionMaxTokens, "VISION_MAX_TOKENS")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.OutputDir, "OUTPUT_DIR")
	envOverride(&cfg.Schedule, "SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverrideInt(&cfg.ClassifyDelayMillis, "CLASSIFY_DELAY_MS")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.HolidaySeasonYear, "HOLIDAY_SEASON_YEAR")
	envOverride(&cfg.HolidayWindowStart, "HOLIDAY_WINDOW_START")
	envOverrideFloat(&cfg.MinImageConfidence, "MIN_IMAGE_CONFIDENCE")
	envOverride(&cfg.LexiconPath, "LEXICON_PATH")

	applyDefaults(&cfg)

	// Validate required fields.
	required := map[string]string{
		"mode_account":     cfg.ModeAccount,
		"mode_token":       cfg.ModeToken,
		"mode_secret":      cfg.ModeSecret,
		"mode_report_id":   cfg.ModeReportID,
		"mode_query_id":    cfg.ModeQueryID,
		"slack_bot_token":  cfg.SlackBotToken,
		"slack_channel_id": cfg.SlackChannelID,
	}
	for name, val := range required {
		if val == "" {
			log.Fatalf("Required config '%s' is not set (via config.yaml or env var)", name)
		}
	}

	switch cfg.VisionProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when vision_provider=anthropic")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("openai_api_key is required when vision_provider=openai")
		}
	default:
		log.Fatalf("vision_provider must be 'anthropic' or 'openai', got '%s'", cfg.VisionProvider)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
		cfg.Timezone = time.Local.String()
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if err := Validate(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if cfg.LexiconPath != "" {
		if _, err := LoadLexicons(cfg.LexiconPath); err != nil {
			log.Fatalf("invalid lexicon_path '%s': %v", cfg.LexiconPath, err)
		}
	}

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ModeBaseURL == "" {
		cfg.ModeBaseURL = "https://app.mode.com"
	}
	if cfg.ModePollIntervalSeconds == 0 {
		cfg.ModePollIntervalSeconds = 10
	}
	if cfg.ModePollTimeoutSeconds == 0 {
		cfg.ModePollTimeoutSeconds = 300
	}
	if cfg.VisionProvider == "" {
		cfg.VisionProvider = "anthropic"
	}
	if cfg.VisionMaxTokens == 0 {
		cfg.VisionMaxTokens = 1000
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./storebot.db"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.ClassifyDelayMillis == 0 {
		cfg.ClassifyDelayMillis = 500
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = 30
	}
	if cfg.HolidaySeasonYear == 0 {
		cfg.HolidaySeasonYear = time.Now().Year()
	}
	if cfg.MinImageConfidence == 0 {
		cfg.MinImageConfidence = 0.5
	}
	if (cfg.Gates == Gates{}) {
		cfg.Gates = DefaultGates()
	}
	if (cfg.HoursPolicy == HoursPolicy{}) {
		cfg.HoursPolicy = DefaultHoursPolicy()
	}
}

// Validate checks numeric ranges on an otherwise-populated config.
// Split out of LoadConfig so tests can exercise it without log.Fatalf.
func Validate(cfg Config) error {
	gateFields := map[string]float64{
		"relocation":        cfg.Gates.Relocation,
		"long_term_closure": cfg.Gates.LongTermClosure,
		"permanent_closure": cfg.Gates.PermanentClosure,
		"payment_issue":     cfg.Gates.PaymentIssue,
		"temporary_closure": cfg.Gates.TemporaryClosure,
		"change_hours":      cfg.Gates.ChangeHours,
		"holiday_hours":     cfg.Gates.HolidayHours,
	}
	for name, v := range gateFields {
		if v < 0 || v > 1 {
			return fmt.Errorf("gate %s=%f out of [0,1]", name, v)
		}
	}
	if cfg.HoursPolicy.ToleranceMinutes < 0 || cfg.HoursPolicy.ToleranceMinutes > 720 {
		return fmt.Errorf("tolerance_minutes=%d out of [0,720]", cfg.HoursPolicy.ToleranceMinutes)
	}
	if cfg.HoursPolicy.MinDifferingDays < 1 || cfg.HoursPolicy.MinDifferingDays > 7 {
		return fmt.Errorf("min_differing_days=%d out of [1,7]", cfg.HoursPolicy.MinDifferingDays)
	}
	if cfg.HoursPolicy.MinCompleteDays < 1 || cfg.HoursPolicy.MinCompleteDays > 7 {
		return fmt.Errorf("min_complete_days=%d out of [1,7]", cfg.HoursPolicy.MinCompleteDays)
	}
	if cfg.HoursPolicy.SingleDayConfidenceBar < 0 || cfg.HoursPolicy.SingleDayConfidenceBar > 1 {
		return fmt.Errorf("single_day_confidence_bar=%f out of [0,1]", cfg.HoursPolicy.SingleDayConfidenceBar)
	}
	if cfg.ModePollIntervalSeconds < 1 {
		return fmt.Errorf("mode_poll_interval_seconds=%d must be >= 1", cfg.ModePollIntervalSeconds)
	}
	if cfg.ModePollTimeoutSeconds < cfg.ModePollIntervalSeconds {
		return fmt.Errorf("mode_poll_timeout_seconds=%d must be >= poll interval", cfg.ModePollTimeoutSeconds)
	}
	if cfg.MinImageConfidence < 0 || cfg.MinImageConfidence > 1 {
		return fmt.Errorf("min_image_confidence=%f out of [0,1]", cfg.MinImageConfidence)
	}
	if cfg.HolidayWindowStart != "" {
		if _, err := time.Parse("2006-01-02", cfg.HolidayWindowStart); err != nil {
			return fmt.Errorf("holiday_window_start '%s': %w", cfg.HolidayWindowStart, err)
		}
	}
	return nil
}

// HolidayWindowOpen reports whether holiday-hours monitoring has begun.
// An unset window start means always open.
func (c Config) HolidayWindowOpen(now time.Time) bool {
	if c.HolidayWindowStart == "" {
		return true
	}
	start, err := time.Parse("2006-01-02", c.HolidayWindowStart)
	if err != nil {
		return true
	}
	return !now.Before(start)
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
