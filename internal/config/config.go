package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

var (
	ServiceName    = "trade-exec-service"
	ServiceVersion = ""
)

var (
	Env *EnvConfig
)

type EnvConfig struct {
	Env                     string                    `mapstructure:"env"`
	Log                     LogConfig                 `mapstructure:"log"`
	GracefulShutdownTimeout time.Duration             `mapstructure:"graceful_shutdown_timeout"`
	APIKeys                 []APIKeyConfig            `mapstructure:"api_keys"`
	Port                    map[string]string         `mapstructure:"port"`
	Exchange                ExchangeConfig            `mapstructure:"exchange"`
	Database                map[string]DatabaseConfig `mapstructure:"database"`
	Redis                   map[string]RedisConfig    `mapstructure:"redis"`
	NatsJetstream           NatsJetstreamConfig       `mapstructure:"nats_jetstream"`
	Strategy                StrategyConfig            `mapstructure:"strategy"`
}

type StrategyConfig struct {
	Bracket BracketStrategyConfig `mapstructure:"bracket"`
	Grid    GridStrategyConfig    `mapstructure:"grid"`
	Twap    TwapStrategyConfig    `mapstructure:"twap"`
}

type BracketStrategyConfig struct {
	// DefaultOffsetPct is applied to the current price when the caller
	// omits a take-profit or stop offset, e.g. 0.01 for 1%.
	DefaultOffsetPct decimal.Decimal `mapstructure:"default_offset_pct"`
}

type GridStrategyConfig struct {
	DefaultSteps    int             `mapstructure:"default_steps"`
	DefaultLowerPct decimal.Decimal `mapstructure:"default_lower_pct"`
	DefaultUpperPct decimal.Decimal `mapstructure:"default_upper_pct"`
	PaceInterval    time.Duration   `mapstructure:"pace_interval"`
}

type TwapStrategyConfig struct {
	DefaultChunks   int           `mapstructure:"default_chunks"`
	DefaultInterval time.Duration `mapstructure:"default_interval"`
}

type APIKeyConfig struct {
	Name      string `mapstructure:"name"`
	Key       string `mapstructure:"key"`
	Active    bool   `mapstructure:"active"`
	ExpiredAt any    `mapstructure:"expired_at"`
}

type NatsJetstreamConfig struct {
	URL             string                   `mapstructure:"url"`
	MaxRetries      int                      `mapstructure:"max_retries"`
	ReconnectFactor float64                  `mapstructure:"reconnect_factor"`
	MinJitter       time.Duration            `mapstructure:"min_jitter"`
	MaxJitter       time.Duration            `mapstructure:"max_jitter"`
	TimeoutHandler  map[string]time.Duration `mapstructure:"timeout_handler"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	ReconnectFactor float64       `mapstructure:"reconnect_factor"`
	MinJitter       time.Duration `mapstructure:"min_jitter"`
	MaxJitter       time.Duration `mapstructure:"max_jitter"`
	MaxRetry        int           `mapstructure:"max_retry"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxActiveConns  int           `mapstructure:"max_active_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type LogConfig struct {
	ShowCaller bool   `mapstructure:"show_caller"`
	LogLevel   string `mapstructure:"log_level"`
}

type ExchangeConfig struct {
	APIKey         string   `mapstructure:"api_key"`
	APISecret      string   `mapstructure:"api_secret"`
	BaseURL        string   `mapstructure:"base_url"`
	WSURL          string   `mapstructure:"ws_url"`
	RecvWindow     int64    `mapstructure:"recv_window"`
	WatchedSymbols []string `mapstructure:"watched_symbols"`
}

type RedisConfig struct {
	CacheDSN string `mapstructure:"cache_dsn"`
}

func LoadConfig(configPath string) error {
	viper.Reset()

	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	} else {
		ext := strings.ToLower(filepath.Ext(configPath))
		if ext == ".yml" || ext == ".yaml" {
			viper.SetConfigFile(configPath)
		} else {
			viper.SetConfigName(filepath.Base(configPath))
			viper.SetConfigType("yml")
			configDir := filepath.Dir(configPath)
			if configDir == "." || configDir == "" {
				viper.AddConfigPath(".")
			} else {
				viper.AddConfigPath(configDir)
			}
		}
	}

	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = viper.Unmarshal(&Env)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	applyExchangeEnvOverrides(&Env.Exchange)
	applyStrategyDefaults(&Env.Strategy)

	return nil
}

// applyExchangeEnvOverrides keeps the original environment-variable contract:
// credentials present in the environment win over the config file.
func applyExchangeEnvOverrides(cfg *ExchangeConfig) {
	if key := strings.TrimSpace(os.Getenv("BINANCE_API_KEY")); key != "" {
		cfg.APIKey = key
	}
	if secret := strings.TrimSpace(os.Getenv("BINANCE_API_SECRET")); secret != "" {
		cfg.APISecret = secret
	}
	if baseURL := strings.TrimSpace(os.Getenv("BINANCE_BASE_URL")); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if wsURL := strings.TrimSpace(os.Getenv("BINANCE_WS_URL")); wsURL != "" {
		cfg.WSURL = wsURL
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://testnet.binance.vision"
	}
	if cfg.RecvWindow <= 0 || cfg.RecvWindow > 60000 {
		cfg.RecvWindow = 5000
	}
}

func applyStrategyDefaults(cfg *StrategyConfig) {
	if cfg.Bracket.DefaultOffsetPct.LessThanOrEqual(decimal.Zero) {
		cfg.Bracket.DefaultOffsetPct = decimal.NewFromFloat(0.01)
	}
	if cfg.Grid.DefaultSteps <= 0 {
		cfg.Grid.DefaultSteps = 5
	}
	if cfg.Grid.DefaultLowerPct.LessThanOrEqual(decimal.Zero) {
		cfg.Grid.DefaultLowerPct = decimal.NewFromFloat(0.98)
	}
	if cfg.Grid.DefaultUpperPct.LessThanOrEqual(decimal.Zero) {
		cfg.Grid.DefaultUpperPct = decimal.NewFromFloat(1.02)
	}
	if cfg.Grid.PaceInterval <= 0 {
		cfg.Grid.PaceInterval = 500 * time.Millisecond
	}
	if cfg.Twap.DefaultChunks <= 0 {
		cfg.Twap.DefaultChunks = 4
	}
	if cfg.Twap.DefaultInterval <= 0 {
		cfg.Twap.DefaultInterval = 10 * time.Second
	}
}
