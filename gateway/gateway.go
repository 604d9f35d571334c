package gateway

import (
	// Go Internal Packages
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	// Local Packages
	errors "pay-broker/errors"

	// External Packages
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL     string
	MerchantID  string
	CallbackURL string
	Timeout     time.Duration
}

// Client talks to the payment gateway JSON API. Calls are never retried.
type Client struct {
	conf       Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(conf Config, logger *zap.Logger) *Client {
	return &Client{
		conf:       conf,
		httpClient: &http.Client{Timeout: conf.Timeout},
		logger:     logger,
	}
}

type requestPayment struct {
	MerchantID  string `json:"merchant_id"`
	Amount      uint64 `json:"amount"`
	CallbackURL string `json:"callback_url"`
	Description string `json:"description"`
}

type verifyPayment struct {
	MerchantID string `json:"merchant_id"`
	Amount     uint64 `json:"amount"`
	Authority  string `json:"authority"`
}

type result struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

type resultData struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Authority string `json:"authority"`
}

// The gateway rejects descriptions mentioning "ip".
var descriptionReplacer = strings.NewReplacer("ip", "server")

// RequestAuthority asks the gateway for an authority paying amount, described
// by description. The gateway code is translated to a readable message.
func (c *Client) RequestAuthority(ctx context.Context, description string, amount uint64) (string, error) {
	body := requestPayment{
		MerchantID:  c.conf.MerchantID,
		Amount:      amount,
		CallbackURL: c.conf.CallbackURL,
		Description: descriptionReplacer.Replace(description),
	}

	data, err := c.call(ctx, "request.json", body)
	if err != nil {
		return "", err
	}
	if !data.Code.IsSuccess() {
		return "", errors.New(data.Code.String())
	}
	if data.Authority == "" {
		return "", errors.New("gateway returned an empty authority")
	}

	c.logger.Info("authority issued", zap.String("authority", data.Authority), zap.Uint64("amount", amount))
	return data.Authority, nil
}

// Verify confirms that authority was paid for exactly amount.
func (c *Client) Verify(ctx context.Context, authority string, amount uint64) error {
	body := verifyPayment{
		MerchantID: c.conf.MerchantID,
		Amount:     amount,
		Authority:  authority,
	}

	data, err := c.call(ctx, "verify.json", body)
	if err != nil {
		return err
	}
	if !data.Code.IsSuccess() {
		return errors.New(data.Code.String())
	}
	return nil
}

func (c *Client) call(ctx context.Context, endpoint string, body any) (resultData, error) {
	var data resultData

	payload, err := json.Marshal(body)
	if err != nil {
		return data, fmt.Errorf("encoding request failed: %w", err)
	}

	url := strings.TrimRight(c.conf.BaseURL, "/") + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return data, fmt.Errorf("send failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return data, fmt.Errorf("send failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return data, fmt.Errorf("receiving failed: %w", err)
	}

	return decodeResult(raw)
}

// decodeResult reads the code from "data", falling back to "errors" which the
// gateway fills instead on failures.
func decodeResult(raw []byte) (resultData, error) {
	var res result
	var data resultData

	if err := json.Unmarshal(raw, &res); err != nil {
		return data, fmt.Errorf("deserializing '%s' failed: %w", raw, err)
	}
	if err := json.Unmarshal(res.Data, &data); err == nil && data.Code != 0 {
		return data, nil
	}

	var failure resultData
	if err := json.Unmarshal(res.Errors, &failure); err == nil && failure.Code != 0 {
		return failure, nil
	}
	return data, fmt.Errorf("deserializing '%s' failed: no status code", raw)
}
