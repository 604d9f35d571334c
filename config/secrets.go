package config

import (
	// Go Internal Packages
	"fmt"
	"os"
	"strings"

	// Local Packages
	errors "pay-broker/errors"

	// External Packages
	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

// LoadKoanf loads the default configuration and overrides it with the config
// file at path when it exists
func LoadKoanf(path string) *koanf.Koanf {
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser())
	if path != "" {
		_ = k.Load(file.Provider(path), yaml.Parser())
	}
	return k
}

// LoadSecrets loads the secret variables from the environment (and a .env file
// when present) and overrides the config. Tokens are parsed here once.
func LoadSecrets(k Config) (Config, error) {
	_ = godotenv.Load()

	if v := os.Getenv("VALID_TOKENS"); v != "" {
		k.ValidTokens = v
	}
	if v := os.Getenv("MERCHANT_ID"); v != "" {
		k.Gateway.MerchantID = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		k.Mongo.URI = v
	}
	if v := os.Getenv("POSTGRES_URI"); v != "" {
		k.Postgres.URI = v
	}
	if v := os.Getenv("REDIS_URI"); v != "" {
		k.Redis.URI = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		k.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		k.Kafka.Brokers = strings.Split(v, ",")
	}

	IsProdMode := os.Getenv("IS_PROD_MODE")
	k.IsProdMode = k.IsProdMode || IsProdMode == "true"

	tokens, err := ParseTokens(k.ValidTokens)
	if err != nil {
		return k, err
	}
	k.Tokens = tokens
	return k, nil
}

// ParseTokens parses "referrer=token[,referrer=token...]" into a map keyed by
// referrer. An empty string yields an empty map.
func ParseTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	owners := make(map[string]string)
	ve := errors.ValidationErrs()

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		referrer, token, ok := strings.Cut(pair, "=")
		referrer, token = strings.TrimSpace(referrer), strings.TrimSpace(token)
		switch {
		case !ok:
			ve.Add("valid_tokens", fmt.Sprintf("pair %q is not referrer=token", pair))
			continue
		case referrer == "":
			ve.Add("valid_tokens", fmt.Sprintf("pair %q has no referrer", pair))
			continue
		case token == "":
			ve.Add("valid_tokens", fmt.Sprintf("referrer %q has no token", referrer))
			continue
		}

		if _, dup := tokens[referrer]; dup {
			ve.Add("valid_tokens", fmt.Sprintf("referrer %q is listed twice", referrer))
			continue
		}
		if owner, shared := owners[token]; shared {
			ve.Add("valid_tokens", fmt.Sprintf("referrers %q and %q share a token", owner, referrer))
			continue
		}
		tokens[referrer] = token
		owners[token] = referrer
	}

	if err := ve.Err(); err != nil {
		return nil, errors.ValidationFailedErr(err)
	}
	return tokens, nil
}
