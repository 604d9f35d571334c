package config

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefault(t *testing.T) Config {
	t.Helper()
	var c Config
	require.NoError(t, LoadKoanf("").Unmarshal("", &c))
	return c
}

func TestParseTokens(t *testing.T) {
	tokens, err := ParseTokens("testcase=somestrongtoken, other = second")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"testcase": "somestrongtoken", "other": "second"}, tokens)
}

func TestParseTokensEmpty(t *testing.T) {
	tokens, err := ParseTokens("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestParseTokensRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"justatoken",
		"=token",
		"ref=",
		"ref=a,ref=b",
		"one=same,two=same",
	} {
		_, err := ParseTokens(raw)
		assert.Error(t, err, raw)
	}
}

func TestDefaultConfigNeedsSecrets(t *testing.T) {
	c := loadDefault(t)
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid_tokens")
	assert.Contains(t, err.Error(), "gateway.merchant_id")
}

func TestValidateWithSecrets(t *testing.T) {
	c := loadDefault(t)
	c.Tokens = map[string]string{"ref": "token"}
	c.Gateway.MerchantID = "merchant"
	assert.NoError(t, c.Validate())
	assert.Equal(t, uint64(550000), c.Pricing.UnitPrice)
}

func TestValidateLedgerDriver(t *testing.T) {
	c := loadDefault(t)
	c.Tokens = map[string]string{"ref": "token"}
	c.Gateway.MerchantID = "merchant"

	c.Ledger.Driver = "sqlite"
	assert.ErrorContains(t, c.Validate(), "ledger.driver")

	c.Ledger.Driver = LedgerPostgres
	assert.ErrorContains(t, c.Validate(), "postgres.uri")

	c.Postgres.URI = "postgres://localhost/paybroker"
	assert.NoError(t, c.Validate())
}

func TestLoadSecretsFromEnv(t *testing.T) {
	t.Setenv("VALID_TOKENS", "testreffer=somestrongtoken")
	t.Setenv("MERCHANT_ID", "merchant-id")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadSecrets(loadDefault(t))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"testreffer": "somestrongtoken"}, c.Tokens)
	assert.Equal(t, "merchant-id", c.Gateway.MerchantID)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.NoError(t, c.Validate())
}

func TestValidateAudit(t *testing.T) {
	c := loadDefault(t)
	assert.NoError(t, c.ValidateAudit())

	c.Kafka.ConsumerName = ""
	assert.ErrorContains(t, c.ValidateAudit(), "kafka.consumer_name")
}

func TestValidateRedisIgnoresServerSecrets(t *testing.T) {
	c := loadDefault(t)
	c.Ledger.Driver = "sqlite"
	assert.Error(t, c.Validate())
	assert.NoError(t, c.ValidateRedis())

	c.Redis.URI = ""
	assert.ErrorContains(t, c.ValidateRedis(), "redis.uri")
}
