package config

import (
	// Go Internal Packages
	"time"

	// Local Packages
	errors "pay-broker/errors"
)

var DefaultConfig = []byte(`
application: "pay-broker"

logger:
  level: "debug"

is_prod_mode: false

http:
  addr: ":8000"
  read_timeout: "10s"
  write_timeout: "30s"
  cors_origins:
    - "*"

pricing:
  unit_price: 550000

gateway:
  base_url: "https://api.zarinpal.com/pg/v4/payment"
  callback_url: "http://localhost:8000/verify_payment"
  timeout: "15s"

registry:
  command: "manjaliof"

ledger:
  driver: "mongo"

mongo:
  uri: "mongodb://localhost:27017"
  database: "paybroker"

postgres:
  uri: ""

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  brokers:
    - "localhost:9092"
  publish: true
  topic: "payments.audit"
  records_per_poll: 500
  consumer_name: "pay-audit"
`)

const (
	LedgerMongo    = "mongo"
	LedgerPostgres = "postgres"
)

type Config struct {
	Application string   `koanf:"application"`
	Logger      Logger   `koanf:"logger"`
	IsProdMode  bool     `koanf:"is_prod_mode"`
	HTTP        HTTP     `koanf:"http"`
	Pricing     Pricing  `koanf:"pricing"`
	Gateway     Gateway  `koanf:"gateway"`
	Registry    Registry `koanf:"registry"`
	Ledger      Ledger   `koanf:"ledger"`
	Mongo       Mongo    `koanf:"mongo"`
	Postgres    Postgres `koanf:"postgres"`
	Redis       Redis    `koanf:"redis"`
	Kafka       Kafka    `koanf:"kafka"`

	// ValidTokens is the raw "referrer=token,..." list. Tokens is filled from it
	// by LoadSecrets and is read-only afterwards.
	ValidTokens string            `koanf:"valid_tokens"`
	Tokens      map[string]string `koanf:"-"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type HTTP struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	CORSOrigins  []string      `koanf:"cors_origins"`
}

type Pricing struct {
	UnitPrice uint64 `koanf:"unit_price"`
}

type Gateway struct {
	BaseURL     string        `koanf:"base_url"`
	MerchantID  string        `koanf:"merchant_id"`
	CallbackURL string        `koanf:"callback_url"`
	Timeout     time.Duration `koanf:"timeout"`
}

type Registry struct {
	Command string `koanf:"command"`
}

type Ledger struct {
	Driver string `koanf:"driver"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Postgres struct {
	URI string `koanf:"uri"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Brokers        []string `koanf:"brokers"`
	Publish        bool     `koanf:"publish"`
	Topic          string   `koanf:"topic"`
	RecordsPerPoll int      `koanf:"records_per_poll"`
	ConsumerName   string   `koanf:"consumer_name"`
}

// Validate validates the configuration needed by the payment server
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.HTTP.Addr == "" {
		ve.Add("http.addr", "cannot be empty")
	}
	if c.Pricing.UnitPrice == 0 {
		ve.Add("pricing.unit_price", "must be positive")
	}
	if len(c.Tokens) == 0 {
		ve.Add("valid_tokens", "cannot be empty")
	}
	if c.Gateway.BaseURL == "" {
		ve.Add("gateway.base_url", "cannot be empty")
	}
	if c.Gateway.MerchantID == "" {
		ve.Add("gateway.merchant_id", "cannot be empty")
	}
	if c.Gateway.CallbackURL == "" {
		ve.Add("gateway.callback_url", "cannot be empty")
	}
	if c.Registry.Command == "" {
		ve.Add("registry.command", "cannot be empty")
	}

	switch c.Ledger.Driver {
	case LedgerMongo:
		c.validateMongo(ve)
	case LedgerPostgres:
		if c.Postgres.URI == "" {
			ve.Add("postgres.uri", "cannot be empty")
		}
	default:
		ve.Add("ledger.driver", "must be one of mongo, postgres")
	}

	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if c.Kafka.Publish {
		c.validateKafka(ve)
	}

	return ve.Err()
}

// ValidateAudit validates the configuration needed by the audit consumer
func (c *Config) ValidateAudit() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	c.validateMongo(ve)
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	c.validateKafka(ve)
	if c.Kafka.ConsumerName == "" {
		ve.Add("kafka.consumer_name", "cannot be empty")
	}
	if c.Kafka.RecordsPerPoll <= 0 {
		ve.Add("kafka.records_per_poll", "must be positive")
	}

	return ve.Err()
}

// ValidateRedis validates the configuration needed to read the incident queue
func (c *Config) ValidateRedis() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}

	return ve.Err()
}

func (c *Config) validateMongo(ve *errors.ValidationErrors) {
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Mongo.Database == "" {
		ve.Add("mongo.database", "cannot be empty")
	}
}

func (c *Config) validateKafka(ve *errors.ValidationErrors) {
	if len(c.Kafka.Brokers) == 0 {
		ve.Add("kafka.brokers", "cannot be empty")
	}
	if c.Kafka.Topic == "" {
		ve.Add("kafka.topic", "cannot be empty")
	}
}
