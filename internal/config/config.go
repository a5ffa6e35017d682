package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`      // current application environment (local, dev, prod etc)
	TelegramAPIToken string   `mapstructure:"-"`        // Telegram API token loaded from environment
	AdminID          int64    `mapstructure:"admin_id"` // Telegram user id allowed to use admin commands
	Storage          Storage  `mapstructure:"storage"`  // paths to JSON-backed stores
	Practice         Practice `mapstructure:"practice"` // practice test settings
	Exam             Exam     `mapstructure:"exam"`     // timed exam settings
}

// Storage holds paths to the JSON documents backing the stores.
type Storage struct {
	QuestionsPath   string `mapstructure:"questions_path"`
	StatsPath       string `mapstructure:"stats_path"`
	LeaderboardPath string `mapstructure:"leaderboard_path"`
	BadgesPath      string `mapstructure:"badges_path"`
}

// Practice configures practice test sessions.
type Practice struct {
	QuestionCount int           `mapstructure:"question_count"` // questions per practice test
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`   // abandoned sessions older than this are evicted
}

// Exam configures the timed exam mode.
type Exam struct {
	QuestionCount int           `mapstructure:"question_count"` // fixed exam length
	Duration      time.Duration `mapstructure:"duration"`       // wall-clock exam deadline
	TickInterval  time.Duration `mapstructure:"tick_interval"`  // countdown wake-up interval
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("admin_id", 0)
	v.SetDefault("storage.questions_path", "data/questions.json")
	v.SetDefault("storage.stats_path", "data/user_stats.json")
	v.SetDefault("storage.leaderboard_path", "data/leaderboard.json")
	v.SetDefault("storage.badges_path", "data/user_badges.json")
	v.SetDefault("practice.question_count", 10)
	v.SetDefault("practice.idle_timeout", "24h")
	v.SetDefault("exam.question_count", 20)
	v.SetDefault("exam.duration", "20m")
	v.SetDefault("exam.tick_interval", "10s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("admin_id", "ADMIN_ID")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
