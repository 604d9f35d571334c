package gateway

import (
	// Go Internal Packages
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	// External Packages
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captured struct {
	path string
	body map[string]any
}

func newTestClient(t *testing.T, status int, reply string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	conf := Config{
		BaseURL:     srv.URL + "/pg/v4/payment/",
		MerchantID:  "merchant-1",
		CallbackURL: "https://example.test/verify_payment",
		Timeout:     time.Second,
	}
	return NewClient(conf, zap.NewNop()), got
}

func TestRequestAuthority(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK,
		`{"data":{"code":100,"message":"Success","authority":"A0000000000000000000000000000123456","fee_type":"Merchant","fee":100},"errors":[]}`)

	authority, err := c.RequestAuthority(context.Background(), "someone,anotherone", 1111110)
	require.NoError(t, err)
	assert.Equal(t, "A0000000000000000000000000000123456", authority)

	assert.Equal(t, "/pg/v4/payment/request.json", got.path)
	assert.Equal(t, "merchant-1", got.body["merchant_id"])
	assert.Equal(t, "someone,anotherone", got.body["description"])
	assert.Equal(t, "https://example.test/verify_payment", got.body["callback_url"])
	assert.EqualValues(t, 1111110, got.body["amount"])
}

func TestRequestAuthorityRewritesDescription(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"data":{"code":100,"message":"Success","authority":"A1"},"errors":[]}`)

	_, err := c.RequestAuthority(context.Background(), "philip,ipsum,arian", 1)
	require.NoError(t, err)
	assert.Equal(t, "philserver,serversum,arian", got.body["description"])
}

func TestRequestAuthorityTranslatesCode(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"data":{"code":-12,"message":"","authority":""},"errors":[]}`)

	_, err := c.RequestAuthority(context.Background(), "a", 1)
	assert.EqualError(t, err, "too many attempts in a short period")
}

func TestRequestAuthorityErrorsObject(t *testing.T) {
	c, _ := newTestClient(t, http.StatusUnprocessableEntity, `{"data":[],"errors":{"code":-9,"message":"The input params invalid","validations":[]}}`)

	_, err := c.RequestAuthority(context.Background(), "a", 1)
	assert.EqualError(t, err, "validation error")
}

func TestRequestAuthorityBadBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	_, err := c.RequestAuthority(context.Background(), "a", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deserializing '<html>bad gateway</html>' failed")
}

func TestVerify(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"data":{"code":100,"message":"Verified","card_pan":"5022-29**-****-2328","ref_id":201,"fee":0},"errors":[]}`)

	require.NoError(t, c.Verify(context.Background(), "AUTH1", 555555))
	assert.Equal(t, "/pg/v4/payment/verify.json", got.path)
	assert.Equal(t, "AUTH1", got.body["authority"])
	assert.EqualValues(t, 555555, got.body["amount"])
}

func TestVerifyAlreadyVerifiedIsAnError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"data":{"code":101,"message":"Verified"},"errors":[]}`)

	err := c.Verify(context.Background(), "AUTH1", 555555)
	assert.EqualError(t, err, "transaction already verified")
}

func TestVerifySendFailure(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, zap.NewNop())

	err := c.Verify(context.Background(), "AUTH1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send failed")
}

func TestCodeString(t *testing.T) {
	assert.True(t, CodeSuccess.IsSuccess())
	assert.False(t, Code(101).IsSuccess())
	assert.Equal(t, "payment failed", Code(-51).String())
	assert.Equal(t, "Unknown error", Code(7).String())
}
