package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port               string `mapstructure:"port"`
	ReadTimeoutSec     int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec    int    `mapstructure:"write_timeout_sec"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Scheduler struct {
	JobDurationSec int `mapstructure:"job_duration_sec"`
}

// Storage selects where presale state lives: "memory" or "postgres".
type Storage struct {
	Driver string `mapstructure:"driver"`
}

// Oracle selects the price feed: "http" reads a feed gateway at BaseURL,
// "chainlink" calls aggregator contracts through RPCURL.
type Oracle struct {
	Source         string `mapstructure:"source"`
	BaseURL        string `mapstructure:"base_url"`
	RPCURL         string `mapstructure:"rpc_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type API struct {
	RateLimitRPS        float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst      int     `mapstructure:"rate_limit_burst"`
	SignatureMaxSkewSec int     `mapstructure:"signature_max_skew_sec"`
	MaxBodyBytes        int64   `mapstructure:"max_body_bytes"`
	TrustProxyHeaders   bool    `mapstructure:"trust_proxy_headers"`
}

type Cache struct {
	MaxItems int64 `mapstructure:"max_items"`
}

type PayToken struct {
	Currency string `mapstructure:"currency"`
	Oracle   string `mapstructure:"oracle"`
}

type Token struct {
	Address  string `mapstructure:"address"`
	Decimals uint8  `mapstructure:"decimals"`
}

type Allocation struct {
	Token  string `mapstructure:"token"`
	Holder string `mapstructure:"holder"`
	Amount string `mapstructure:"amount"`
}

// Presale holds the sale parameters and the state written on first start.
// Amounts are decimal strings in base units.
type Presale struct {
	Owner             string       `mapstructure:"owner"`
	SaleToken         string       `mapstructure:"sale_token"`
	Treasury          string       `mapstructure:"treasury"`
	SalePrice         string       `mapstructure:"sale_price"`
	SalePriceDecimals uint8        `mapstructure:"sale_price_decimals"`
	PayTokens         []PayToken   `mapstructure:"pay_tokens"`
	Tokens            []Token      `mapstructure:"tokens"`
	Allocations       []Allocation `mapstructure:"allocations"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	Logging    Logging    `mapstructure:"logging"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	Storage    Storage    `mapstructure:"storage"`
	Oracle     Oracle     `mapstructure:"oracle"`
	API        API        `mapstructure:"api"`
	Cache      Cache      `mapstructure:"cache"`
	Presale    Presale    `mapstructure:"presale"`
}

func Init() (*AppConfig, error) {
	return Load("config.yaml")
}

// Load reads path, then overrides secrets and endpoints from the environment
// (and from .env when present).
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("http_server.port", "8080")
	v.SetDefault("http_server.read_timeout_sec", 5)
	v.SetDefault("http_server.write_timeout_sec", 15)
	v.SetDefault("http_server.shutdown_timeout_sec", 10)
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("scheduler.job_duration_sec", 30)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("oracle.source", "http")
	v.SetDefault("oracle.timeout_seconds", 5)
	v.SetDefault("api.rate_limit_rps", 5)
	v.SetDefault("api.rate_limit_burst", 10)
	v.SetDefault("api.signature_max_skew_sec", 120)
	v.SetDefault("api.max_body_bytes", 1024)
	v.SetDefault("api.trust_proxy_headers", false)
	v.SetDefault("cache.max_items", 1024)

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// oracle env vars
	_ = v.BindEnv("oracle.source", "ORACLE_SOURCE")
	_ = v.BindEnv("oracle.base_url", "ORACLE_BASE_URL")
	_ = v.BindEnv("oracle.rpc_url", "ORACLE_RPC_URL")

	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("presale.owner", "PRESALE_OWNER")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *AppConfig) validate() error {
	switch cfg.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	switch cfg.Oracle.Source {
	case "http":
		if strings.TrimSpace(cfg.Oracle.BaseURL) == "" {
			return errors.New("oracle.base_url is required for the http source")
		}
	case "chainlink":
		if strings.TrimSpace(cfg.Oracle.RPCURL) == "" {
			return errors.New("oracle.rpc_url is required for the chainlink source")
		}
	default:
		return fmt.Errorf("unknown oracle source %q", cfg.Oracle.Source)
	}
	if cfg.Presale.SaleToken == "" || cfg.Presale.Treasury == "" || cfg.Presale.SalePrice == "" {
		return errors.New("presale.sale_token, presale.treasury and presale.sale_price are required")
	}
	return nil
}
