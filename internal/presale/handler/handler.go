package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"presale/internal/auth"
	"presale/internal/domain"
	"presale/internal/observability"
	"presale/internal/presale"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

const defaultMaxRequestBytes = 1024

type Service interface {
	Info(ctx context.Context) (presale.Info, error)
	PayTokens(ctx context.Context) ([]domain.PayToken, error)
	PayTokenOracle(ctx context.Context, currency common.Address) (common.Address, bool, error)
	Quote(ctx context.Context, amount *uint256.Int, currency common.Address) (*uint256.Int, error)
	Buy(ctx context.Context, req domain.ExchangeRequest) (domain.Purchase, error)
	AddPayToken(ctx context.Context, caller, currency, oracle common.Address, decimals *uint8) error
	Withdraw(ctx context.Context, caller, currency common.Address, amount *uint256.Int) error
	TransferOwnership(ctx context.Context, caller, newOwner common.Address) error
	UpgradeTo(ctx context.Context, caller, impl common.Address) error
	Approve(ctx context.Context, owner, token, spender common.Address, amount *uint256.Int) error
	BalanceOf(ctx context.Context, token, holder common.Address) (*uint256.Int, error)
}

type Handler struct {
	service  Service
	metrics  *observability.Metrics
	maxBytes int64
}

// NewPresaleHandler limits request bodies to maxBodyBytes, the same bound the
// signature verifier applies.
func NewPresaleHandler(service Service, metrics *observability.Metrics, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxRequestBytes
	}
	return &Handler{service: service, metrics: metrics, maxBytes: maxBodyBytes}
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:  errorMsg,
		Reason: reason,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientPayment),
		errors.Is(err, domain.ErrZeroAmount),
		errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrSlippageExceeded),
		errors.Is(err, domain.ErrInsufficientAllowance),
		errors.Is(err, domain.ErrZeroAddress),
		errors.Is(err, domain.ErrNativeValueNotAccepted),
		errors.Is(err, domain.ErrAmountOverflow),
		errors.Is(err, domain.ErrUnknownDecimals):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientLiquidity),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrDuplicateRequest),
		errors.Is(err, domain.ErrAlreadyInitialized),
		errors.Is(err, domain.ErrDecimalsMismatch):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOracleUnavailable),
		errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail answers with the status and reason of a failed operation.
func (h *Handler) fail(w http.ResponseWriter, operation string, err error, fields logrus.Fields) {
	reason := domain.Reason(err)
	h.metrics.OperationErrors.WithLabelValues(operation, reason).Inc()

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		msg := "ups, couldn't complete " + operation + " this time"
		logrus.WithError(err).WithFields(fields).WithField("handler", operation).Error(msg)
		writeError(w, status, msg, reason)
		return
	}
	writeError(w, status, err.Error(), reason)
}

// decodeBody reads a small JSON body and rejects unknown fields.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func callerOf(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	caller, ok := auth.Caller(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "request is not signed", "")
	}
	return caller, ok
}

// parseAddress accepts a hex address or "native" for the native coin.
func parseAddress(field, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "native") {
		return domain.NativeCurrency, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", field, s)
	}
	return common.HexToAddress(s), nil
}

func parseAmount(field, s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%s is required", field)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected a non-negative decimal integer", field, s)
	}
	return v, nil
}

// parseOptionalAmount treats an empty string as zero.
func parseOptionalAmount(field, s string) (*uint256.Int, error) {
	if strings.TrimSpace(s) == "" {
		return new(uint256.Int), nil
	}
	return parseAmount(field, s)
}
