package handlers

import (
	// Go Internal Packages
	"bytes"
	"context"
	"io"
	"net/http"

	// Local Packages
	auth "pay-broker/auth"
	errors "pay-broker/errors"
	models "pay-broker/models"

	// External Packages
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

type PaymentService interface {
	CreatePayment(ctx context.Context, referrer string, clients []string) (string, error)
	VerifyPayment(ctx context.Context, authority string) error
}

type Authenticator interface {
	Authenticate(credential string, present bool) (string, error)
}

type PaymentHandler struct {
	service PaymentService
	auth    Authenticator
	logger  *zap.Logger
}

func NewPaymentHandler(service PaymentService, authenticator Authenticator, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, auth: authenticator, logger: logger}
}

// CreatePayment authenticates the referrer before reading the body.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	values, present := r.Header[http.CanonicalHeaderKey(auth.HeaderName)]
	credential := ""
	if present && len(values) > 0 {
		credential = values[0]
	}

	referrer, err := h.auth.Authenticate(credential, present)
	if err != nil {
		h.logger.Warn("rejected create payment", zap.String("remote", r.RemoteAddr), zap.Error(err))
		writeResult(w, http.StatusUnauthorized, models.RequestResult{Message: err.Error()})
		return
	}

	fields, status, err := readFields(w, r)
	if err != nil {
		writeResult(w, status, models.RequestResult{Message: err.Error()})
		return
	}

	var args models.CreatePaymentArgs
	if err := decodeField(fields, "clients", &args.Clients); err != nil {
		writeResult(w, http.StatusUnprocessableEntity, models.RequestResult{Message: err.Error()})
		return
	}

	authority, err := h.service.CreatePayment(r.Context(), referrer, args.Clients)
	if err != nil {
		writeResult(w, http.StatusOK, models.RequestResult{Message: err.Error()})
		return
	}
	writeResult(w, http.StatusOK, models.RequestResult{Success: true, Message: authority})
}

// VerifyPayment is the public callback of the gateway and is not authenticated.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	fields, status, err := readFields(w, r)
	if err != nil {
		writeResult(w, status, models.RequestResult{Message: err.Error()})
		return
	}

	var args models.VerifyPaymentArgs
	if err := decodeField(fields, "authority", &args.Authority); err != nil {
		writeResult(w, http.StatusUnprocessableEntity, models.RequestResult{Message: err.Error()})
		return
	}

	if err := h.service.VerifyPayment(r.Context(), args.Authority); err != nil {
		writeResult(w, http.StatusOK, models.RequestResult{Message: err.Error()})
		return
	}
	writeResult(w, http.StatusOK, models.RequestResult{Success: true})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// readFields reads a JSON object body. An empty or unparsable body is a 400,
// valid JSON that is not an object is a 422.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, int, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, http.StatusBadRequest, errors.InvalidBodyErr(err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, http.StatusBadRequest, errors.InvalidBodyErr(errors.New("empty body"))
	}
	if !json.Valid(raw) {
		return nil, http.StatusBadRequest, errors.InvalidBodyErr(errors.New("malformed json"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, http.StatusUnprocessableEntity, errors.InvalidBodyErr(errors.New("expected a json object"))
	}
	return fields, 0, nil
}

// decodeField requires name to be present, not null and of dst's type.
func decodeField(fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errors.EmptyParamErr(name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		ve := errors.ValidationErrs()
		ve.Add(name, "has the wrong type")
		return errors.ValidationFailedErr(ve.Err())
	}
	return nil
}

func writeResult(w http.ResponseWriter, status int, result models.RequestResult) {
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
