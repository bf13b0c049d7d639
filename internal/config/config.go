package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type VipConfig struct {
	Env            string `yaml:"env" env:"VIP_ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	GRPCServer     `yaml:"grpc_server"`
	PaymentDB      `yaml:"payment_db"`
	LogConfig      `yaml:"log_config"`
	Gateway        `yaml:"gateway"`
	Payment        `yaml:"payment"`
	Auth           `yaml:"auth"`
	KafkaService   `yaml:"kafka-service"`
	Callback       `yaml:"callback"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type PaymentDB struct {
	Dsn            string `yaml:"dsn" env:"PAYMENT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"PAYMENT_DB_MIGRATIONS" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type Gateway struct {
	BaseURL     string        `yaml:"base_url" env:"GATEWAY_BASE_URL" env-default:"https://api.oxapay.com"`
	MerchantKey string        `yaml:"merchant_key" env:"GATEWAY_MERCHANT_KEY"`
	Sandbox     bool          `yaml:"sandbox" env:"GATEWAY_SANDBOX"`
	Lifetime    time.Duration `yaml:"lifetime" env:"GATEWAY_LIFETIME" env-default:"60m"`
	CallbackURL string        `yaml:"callback_url" env:"GATEWAY_CALLBACK_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"GATEWAY_TIMEOUT" env-default:"10s"`
}

type Payment struct {
	TestMode            bool          `yaml:"test_mode" env:"PAYMENT_TEST_MODE"`
	VipPriceProduction  string        `yaml:"vip_price_production" env:"VIP_PRICE_PRODUCTION" env-default:"29.99"`
	VipPriceTest        string        `yaml:"vip_price_test" env:"VIP_PRICE_TEST" env-default:"1"`
	SweepInterval       time.Duration `yaml:"sweep_interval" env:"PAYMENT_SWEEP_INTERVAL" env-default:"30s"`
	ExpiryGrace         time.Duration `yaml:"expiry_grace" env:"PAYMENT_EXPIRY_GRACE" env-default:"2m"`
	ReservationTTL      time.Duration `yaml:"reservation_ttl" env:"PAYMENT_RESERVATION_TTL" env-default:"1m"`
	CurrenciesCacheTTL  time.Duration `yaml:"currencies_cache_ttl" env:"PAYMENT_CURRENCIES_TTL" env-default:"5m"`
	SupportedCurrencies []string      `yaml:"supported_currencies" env:"PAYMENT_CURRENCIES" env-default:"USDT,BTC,ETH,LTC,TRX"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER"`
}

type KafkaService struct {
	Host  string `yaml:"host" env:"KAFKA_HOST"`
	Port  string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"payment-events"`
}

type Callback struct {
	EntitlementURL string `yaml:"entitlement_url" env:"ENTITLEMENT_CALLBACK_URL"`
}

// VipPrices parses the configured USD prices.
func (p Payment) VipPrices() (production, test decimal.Decimal, err error) {
	production, err = decimal.NewFromString(p.VipPriceProduction)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid vip_price_production: %w", err)
	}
	test, err = decimal.NewFromString(p.VipPriceTest)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid vip_price_test: %w", err)
	}
	return production, test, nil
}

func Load(configPath string) (*VipConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg VipConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, _, err := cfg.Payment.VipPrices(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *VipConfig {

	// Processing env config variable and file
	configPath := os.Getenv("VIP_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("VIP_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}
