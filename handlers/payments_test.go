package handlers

import (
	// Go Internal Packages
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	// Local Packages
	auth "pay-broker/auth"
	errors "pay-broker/errors"
	models "pay-broker/models"
	payments "pay-broker/services/payments"
	utils "pay-broker/utils"

	// External Packages
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memLedger keeps names joined the way the real ledgers store them.
type memLedger struct {
	names   map[string]string
	amounts map[string]uint64
}

func (l *memLedger) InsertTransaction(_ context.Context, tx models.Transaction) error {
	if _, ok := l.names[tx.Authority]; ok {
		return errors.ErrDuplicateAuthority
	}
	l.names[tx.Authority] = utils.JoinNames(tx.ClientNames)
	l.amounts[tx.Authority] = tx.Amount
	return nil
}

func (l *memLedger) FindTransaction(_ context.Context, authority string) (models.Transaction, error) {
	names, ok := l.names[authority]
	if !ok {
		return models.Transaction{}, errors.ErrAuthorityNotFound
	}
	return models.Transaction{Authority: authority, ClientNames: utils.SplitNames(names), Amount: l.amounts[authority]}, nil
}

type stubGateway struct {
	authority string
	verified  []uint64
}

func (g *stubGateway) RequestAuthority(context.Context, string, uint64) (string, error) {
	return g.authority, nil
}

func (g *stubGateway) Verify(_ context.Context, _ string, amount uint64) error {
	g.verified = append(g.verified, amount)
	return nil
}

type stubRegistry struct {
	validateErr error
	paid        []string
}

func (r *stubRegistry) ValidateClients(context.Context, []string, string) error {
	return r.validateErr
}

func (r *stubRegistry) MakeClientPaid(_ context.Context, name string) error {
	r.paid = append(r.paid, name)
	return nil
}

type env struct {
	server   *httptest.Server
	ledger   *memLedger
	gateway  *stubGateway
	registry *stubRegistry
	calls    int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		ledger:   &memLedger{names: map[string]string{}, amounts: map[string]uint64{}},
		gateway:  &stubGateway{authority: "AUTH1"},
		registry: &stubRegistry{},
	}
	orch := payments.NewOrchestrator(payments.Config{UnitPrice: 550000}, zap.NewNop(), e.ledger, e.gateway, e.registry, nil, nil)
	authenticator := auth.NewAuthenticator(map[string]string{"testcase": "somestrongtoken"})
	h := NewPaymentHandler(countingService{orch, &e.calls}, authenticator, zap.NewNop())

	e.server = httptest.NewServer(NewRouter(h, nil, []string{"*"}, zap.NewNop()))
	t.Cleanup(e.server.Close)
	return e
}

type countingService struct {
	PaymentService
	calls *int
}

func (s countingService) CreatePayment(ctx context.Context, referrer string, clients []string) (string, error) {
	*s.calls++
	return s.PaymentService.CreatePayment(ctx, referrer, clients)
}

func (s countingService) VerifyPayment(ctx context.Context, authority string) error {
	*s.calls++
	return s.PaymentService.VerifyPayment(ctx, authority)
}

func (e *env) post(t *testing.T, path, token, body string) (int, models.RequestResult) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.HeaderName, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result models.RequestResult
	require.NoError(t, json.Unmarshal(raw, &result), string(raw))
	return resp.StatusCode, result
}

func TestCreateAndVerifyPayment(t *testing.T) {
	e := newEnv(t)

	status, result := e.post(t, "/create_payment", "somestrongtoken", `{"clients":["a","b"]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.RequestResult{Success: true, Message: "AUTH1"}, result)
	assert.Equal(t, "a,b", e.ledger.names["AUTH1"])

	status, result = e.post(t, "/verify_payment", "", `{"authority":"AUTH1"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.RequestResult{Success: true, Message: ""}, result)
	assert.Equal(t, []string{"a", "b"}, e.registry.paid)
	assert.Equal(t, []uint64{1111110}, e.gateway.verified)
}

func TestVerifyUnknownAuthority(t *testing.T) {
	e := newEnv(t)

	status, result := e.post(t, "/verify_payment", "", `{"authority":"NEVER"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.RequestResult{Success: false, Message: "cannot find authority in db: authority not exists"}, result)
	assert.Empty(t, e.gateway.verified)
	assert.Empty(t, e.registry.paid)
}

func TestCreatePaymentBusinessFailuresUseEnvelope(t *testing.T) {
	e := newEnv(t)

	status, result := e.post(t, "/create_payment", "somestrongtoken", `{"clients":[]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.RequestResult{Message: "at least provide one client"}, result)

	e.registry.validateErr = errors.New("cannot find clients")
	status, result = e.post(t, "/create_payment", "somestrongtoken", `{"clients":["ghost"]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.RequestResult{Message: "cannot validate clients: cannot find clients"}, result)
}

func TestCreatePaymentUnauthenticated(t *testing.T) {
	e := newEnv(t)

	missingStatus, missing := e.post(t, "/create_payment", "", `{"clients":["a"]}`)
	wrongStatus, wrong := e.post(t, "/create_payment", "wrong_token", `not even json`)

	assert.Equal(t, http.StatusUnauthorized, missingStatus)
	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.False(t, missing.Success)
	assert.False(t, wrong.Success)
	assert.NotEqual(t, missing.Message, wrong.Message)
	assert.Zero(t, e.calls)
}

func TestCreatePaymentEmptyTokenHeader(t *testing.T) {
	e := newEnv(t)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/create_payment", strings.NewReader(`{"clients":["a"]}`))
	require.NoError(t, err)
	req.Header.Set(auth.HeaderName, "")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result models.RequestResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized token", result.Message)
	assert.Zero(t, e.calls)
}

func TestMalformedBodies(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		path   string
		body   string
		status int
	}{
		{"/create_payment", ``, http.StatusBadRequest},
		{"/create_payment", `{"clients":`, http.StatusBadRequest},
		{"/create_payment", `[]`, http.StatusUnprocessableEntity},
		{"/create_payment", `{}`, http.StatusUnprocessableEntity},
		{"/create_payment", `{"clients":null}`, http.StatusUnprocessableEntity},
		{"/create_payment", `{"clients":"a"}`, http.StatusUnprocessableEntity},
		{"/create_payment", `{"clients":[1,2]}`, http.StatusUnprocessableEntity},
		{"/verify_payment", ``, http.StatusBadRequest},
		{"/verify_payment", `{"authority":1}`, http.StatusUnprocessableEntity},
		{"/verify_payment", `{"other":"x"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		status, result := e.post(t, tt.path, "somestrongtoken", tt.body)
		assert.Equal(t, tt.status, status, "%s %s", tt.path, tt.body)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Message)
	}
	assert.Zero(t, e.calls)
}

func TestCreatePaymentPreflight(t *testing.T) {
	e := newEnv(t)

	req, err := http.NewRequest(http.MethodOptions, e.server.URL+"/create_payment", nil)
	require.NoError(t, err)
	origin := "https://panel.example.test"
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", auth.HeaderName)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, []string{"*", origin}, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Zero(t, e.calls)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	resp, err := http.Get(e.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, string(raw))
}
