package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"presale/internal/auth"
	"presale/internal/domain"
	"presale/internal/observability"
	"presale/internal/presale"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) Info(ctx context.Context) (presale.Info, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(presale.Info)
	return v, args.Error(1)
}

func (m *MockService) PayTokens(ctx context.Context) ([]domain.PayToken, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.PayToken)
	return v, args.Error(1)
}

func (m *MockService) PayTokenOracle(ctx context.Context, currency common.Address) (common.Address, bool, error) {
	args := m.Called(ctx, currency)
	v, _ := args.Get(0).(common.Address)
	return v, args.Bool(1), args.Error(2)
}

func (m *MockService) Quote(ctx context.Context, amount *uint256.Int, currency common.Address) (*uint256.Int, error) {
	args := m.Called(ctx, amount, currency)
	v, _ := args.Get(0).(*uint256.Int)
	return v, args.Error(1)
}

func (m *MockService) Buy(ctx context.Context, req domain.ExchangeRequest) (domain.Purchase, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(domain.Purchase)
	return v, args.Error(1)
}

func (m *MockService) AddPayToken(ctx context.Context, caller, currency, oracle common.Address, decimals *uint8) error {
	return m.Called(ctx, caller, currency, oracle, decimals).Error(0)
}

func (m *MockService) Withdraw(ctx context.Context, caller, currency common.Address, amount *uint256.Int) error {
	return m.Called(ctx, caller, currency, amount).Error(0)
}

func (m *MockService) TransferOwnership(ctx context.Context, caller, newOwner common.Address) error {
	return m.Called(ctx, caller, newOwner).Error(0)
}

func (m *MockService) UpgradeTo(ctx context.Context, caller, impl common.Address) error {
	return m.Called(ctx, caller, impl).Error(0)
}

func (m *MockService) Approve(ctx context.Context, owner, token, spender common.Address, amount *uint256.Int) error {
	return m.Called(ctx, owner, token, spender, amount).Error(0)
}

func (m *MockService) BalanceOf(ctx context.Context, token, holder common.Address) (*uint256.Int, error) {
	args := m.Called(ctx, token, holder)
	v, _ := args.Get(0).(*uint256.Int)
	return v, args.Error(1)
}

type errorJSON struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	buyer    = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	treasury = common.HexToAddress("0x00000000000000000000000000000000005a1e00")
	usdt     = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	usdtFeed = common.HexToAddress("0xB97Ad0E74fa7d920791E90258A6E2085088b4320")
)

func newHandler() (*Handler, *MockService, *observability.Metrics) {
	svc := new(MockService)
	m := observability.NewMetrics(prometheus.NewRegistry(), "test")
	return NewPresaleHandler(svc, m, 1024), svc, m
}

func signed(req *http.Request, caller common.Address) *http.Request {
	return req.WithContext(auth.WithCaller(req.Context(), caller))
}

func amountEq(want string) any {
	return mock.MatchedBy(func(v *uint256.Int) bool { return v != nil && v.Dec() == want })
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorJSON {
	t.Helper()
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	return ej
}

// --- statusFor ---

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrZeroAmount, http.StatusBadRequest},
		{domain.ErrUnsupportedCurrency, http.StatusBadRequest},
		{domain.ErrSlippageExceeded, http.StatusBadRequest},
		{domain.ErrInsufficientAllowance, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", domain.ErrInsufficientPayment, domain.ErrInsufficientBalance), http.StatusBadRequest},
		{domain.ErrNotOwner, http.StatusForbidden},
		{domain.ErrInsufficientLiquidity, http.StatusConflict},
		{domain.ErrInsufficientBalance, http.StatusConflict},
		{domain.ErrDuplicateRequest, http.StatusConflict},
		{domain.ErrDecimalsMismatch, http.StatusConflict},
		{domain.ErrUnknownDecimals, http.StatusBadRequest},
		{domain.ErrOracleUnavailable, http.StatusServiceUnavailable},
		{domain.ErrNotInitialized, http.StatusServiceUnavailable},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			require.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

// --- GetInfo ---

func TestHandler_GetInfo_OK(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("Info", mock.Anything).Return(presale.Info{
		Owner:             owner,
		SaleToken:         usdt,
		SalePrice:         uint256.NewInt(1_000_000_000_000_000_000),
		SalePriceDecimals: 18,
		Treasury:          treasury,
	}, nil).Once()
	rr := httptest.NewRecorder()

	h.GetInfo(rr, httptest.NewRequest(http.MethodGet, "/presale/info", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetInfoResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, owner, res.Owner)
	require.Equal(t, "1000000000000000000", res.SalePrice)
	require.Equal(t, treasury, res.Treasury)
}

// --- GetPayTokens / GetPayToken ---

func TestHandler_GetPayTokens_OK(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("PayTokens", mock.Anything).Return([]domain.PayToken{
		{Currency: domain.NativeCurrency, Oracle: usdtFeed},
		{Currency: usdt, Oracle: usdtFeed},
	}, nil).Once()
	rr := httptest.NewRecorder()

	h.GetPayTokens(rr, httptest.NewRequest(http.MethodGet, "/presale/pay-tokens", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetPayTokensResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res.PayTokens, 2)
	require.Equal(t, domain.NativeCurrency, res.PayTokens[0].Currency)
}

func TestHandler_GetPayToken(t *testing.T) {
	cases := []struct {
		name     string
		param    string
		found    bool
		wantCode int
	}{
		{name: "bound", param: usdt.Hex(), found: true, wantCode: http.StatusOK},
		{name: "native alias", param: "NATIVE", found: true, wantCode: http.StatusOK},
		{name: "unbound", param: usdt.Hex(), found: false, wantCode: http.StatusNotFound},
		{name: "not an address", param: "usdt", wantCode: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc, _ := newHandler()
			svc.On("PayTokenOracle", mock.Anything, mock.Anything).Return(usdtFeed, tc.found, nil).Maybe()

			req := httptest.NewRequest(http.MethodGet, "/presale/pay-tokens/x", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("currency", tc.param)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()

			h.GetPayToken(rr, req)

			require.Equal(t, tc.wantCode, rr.Code)
			if tc.wantCode == http.StatusBadRequest {
				svc.AssertNotCalled(t, "PayTokenOracle", mock.Anything, mock.Anything)
			}
		})
	}
}

// --- GetQuote ---

func TestHandler_GetQuote_OK(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("Quote", mock.Anything, amountEq("100"), usdt).Return(uint256.NewInt(101), nil).Once()
	rr := httptest.NewRecorder()

	h.GetQuote(rr, httptest.NewRequest(http.MethodGet, "/presale/quote?amount=100&currency="+usdt.Hex(), nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetQuoteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "101", res.PayAmount)
	require.Equal(t, "100", res.SaleAmount)
	svc.AssertExpectations(t)
}

func TestHandler_GetQuote_BadInput(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{name: "missing amount", query: "currency=" + usdt.Hex()},
		{name: "negative amount", query: "amount=-1&currency=" + usdt.Hex()},
		{name: "fractional amount", query: "amount=1.5&currency=" + usdt.Hex()},
		{name: "bad currency", query: "amount=1&currency=0x123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc, _ := newHandler()
			rr := httptest.NewRecorder()

			h.GetQuote(rr, httptest.NewRequest(http.MethodGet, "/presale/quote?"+tc.query, nil))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.NotEmpty(t, decodeError(t, rr).Error)
			svc.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_GetQuote_DomainErrors(t *testing.T) {
	cases := []struct {
		err        error
		wantCode   int
		wantReason string
	}{
		{domain.ErrZeroAmount, http.StatusBadRequest, "ZeroAmount"},
		{domain.ErrUnsupportedCurrency, http.StatusBadRequest, "UnsupportedCurrency"},
		{domain.ErrOracleUnavailable, http.StatusServiceUnavailable, "OracleUnavailable"},
		{errors.New("db down"), http.StatusInternalServerError, "Internal"},
	}
	for _, tc := range cases {
		t.Run(tc.wantReason, func(t *testing.T) {
			h, svc, m := newHandler()
			svc.On("Quote", mock.Anything, mock.Anything, usdt).Return(nil, tc.err).Once()
			rr := httptest.NewRecorder()

			h.GetQuote(rr, httptest.NewRequest(http.MethodGet, "/presale/quote?amount=0&currency="+usdt.Hex(), nil))

			require.Equal(t, tc.wantCode, rr.Code)
			require.Equal(t, tc.wantReason, decodeError(t, rr).Reason)
			require.Equal(t, float64(1), testutil.ToFloat64(m.OperationErrors.WithLabelValues("quote", tc.wantReason)))
		})
	}
}

// --- Buy ---

func TestHandler_Buy_OK(t *testing.T) {
	h, svc, m := newHandler()
	id := uuid.New()
	body := fmt.Sprintf(`{"request_id":%q,"amount":"100","currency":"native","max_pay_amount":"2","native_value":"3"}`, id)

	svc.On("Buy", mock.Anything, mock.MatchedBy(func(req domain.ExchangeRequest) bool {
		return req.RequestID == id &&
			req.Buyer == buyer &&
			req.PayCurrency == domain.NativeCurrency &&
			req.SaleAmount.Dec() == "100" &&
			req.MaxPayAmount.Dec() == "2" &&
			req.NativeValue.Dec() == "3"
	})).Return(domain.Purchase{
		ID:          id,
		Buyer:       buyer,
		PayCurrency: domain.NativeCurrency,
		SaleAmount:  uint256.NewInt(100),
		PayAmount:   uint256.NewInt(2),
		Refund:      uint256.NewInt(1),
		CreatedAt:   time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
	}, nil).Once()

	req := signed(httptest.NewRequest(http.MethodPost, "/presale/buy", bytes.NewBufferString(body)), buyer)
	rr := httptest.NewRecorder()

	h.Buy(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res BuyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, id.String(), res.PurchaseID)
	require.Equal(t, "1", res.Refund)
	require.Equal(t, float64(1), testutil.ToFloat64(m.PurchasesTotal.WithLabelValues(domain.NativeCurrency.Hex())))
	svc.AssertExpectations(t)
}

func TestHandler_Buy_NativeValueDefaultsToZero(t *testing.T) {
	h, svc, _ := newHandler()
	body := fmt.Sprintf(`{"amount":"1","currency":%q,"max_pay_amount":"1"}`, usdt.Hex())
	svc.On("Buy", mock.Anything, mock.MatchedBy(func(req domain.ExchangeRequest) bool {
		return req.RequestID == uuid.Nil && req.NativeValue.IsZero()
	})).Return(domain.Purchase{
		ID: uuid.New(), SaleAmount: uint256.NewInt(1), PayAmount: uint256.NewInt(1), Refund: new(uint256.Int),
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.Buy(rr, signed(httptest.NewRequest(http.MethodPost, "/presale/buy", bytes.NewBufferString(body)), buyer))

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Buy_Unsigned(t *testing.T) {
	h, svc, _ := newHandler()
	rr := httptest.NewRecorder()

	h.Buy(rr, httptest.NewRequest(http.MethodPost, "/presale/buy", bytes.NewBufferString(`{}`)))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything)
}

func TestHandler_Buy_InvalidBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `amount=1`},
		{name: "unknown field", body: `{"amount":"1","currency":"native","max_pay_amount":"1","buyer":"0x01"}`},
		{name: "bad request id", body: `{"request_id":"abc","amount":"1","currency":"native","max_pay_amount":"1"}`},
		{name: "missing max pay", body: `{"amount":"1","currency":"native"}`},
		{name: "numeric amount", body: `{"amount":1,"currency":"native","max_pay_amount":"1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc, _ := newHandler()
			rr := httptest.NewRecorder()

			h.Buy(rr, signed(httptest.NewRequest(http.MethodPost, "/presale/buy", bytes.NewBufferString(tc.body)), buyer))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_BodyLimitFollowsConfig(t *testing.T) {
	svc := new(MockService)
	svc.On("Buy", mock.Anything, mock.Anything).Return(domain.Purchase{
		ID: uuid.New(), Buyer: buyer, SaleAmount: uint256.NewInt(1), PayCurrency: domain.NativeCurrency,
		PayAmount: uint256.NewInt(1), Refund: new(uint256.Int),
	}, nil).Maybe()
	m := observability.NewMetrics(prometheus.NewRegistry(), "test")
	body := fmt.Sprintf(`{"amount":"1","currency":"native","max_pay_amount":"1","native_value":"1","request_id":%q}`, uuid.New())

	small := NewPresaleHandler(svc, m, 32)
	rr := httptest.NewRecorder()
	small.Buy(rr, signed(httptest.NewRequest(http.MethodPost, "/presale/buy", bytes.NewBufferString(body)), buyer))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	large := NewPresaleHandler(svc, m, 4096)
	rr = httptest.NewRecorder()
	large.Buy(rr, signed(httptest.NewRequest(http.MethodPost, "/presale/buy", bytes.NewBufferString(body)), buyer))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Equal(t, int64(defaultMaxRequestBytes), NewPresaleHandler(svc, m, 0).maxBytes)
}

func TestHandler_Buy_DomainErrors(t *testing.T) {
	cases := []struct {
		err        error
		wantCode   int
		wantReason string
	}{
		{domain.ErrSlippageExceeded, http.StatusBadRequest, "SlippageExceeded"},
		{domain.ErrInsufficientPayment, http.StatusBadRequest, "InsufficientPayment"},
		{domain.ErrNativeValueNotAccepted, http.StatusBadRequest, "NativeValueNotAccepted"},
		{domain.ErrInsufficientLiquidity, http.StatusConflict, "InsufficientLiquidity"},
		{domain.ErrDuplicateRequest, http.StatusConflict, "DuplicateRequest"},
		{domain.ErrOracleUnavailable, http.StatusServiceUnavailable, "OracleUnavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.wantReason, func(t *testing.T) {
			h, svc, m := newHandler()
			svc.On("Buy", mock.Anything, mock.Anything).Return(domain.Purchase{}, tc.err).Once()
			body := `{"amount":"1","currency":"native","max_pay_amount":"1","native_value":"1"}`
			rr := httptest.NewRecorder()

			h.Buy(rr, signed(httptest.NewRequest(http.MethodPost, "/presale/buy", bytes.NewBufferString(body)), buyer))

			require.Equal(t, tc.wantCode, rr.Code)
			require.Equal(t, tc.wantReason, decodeError(t, rr).Reason)
			require.Equal(t, float64(0), testutil.ToFloat64(m.PurchasesTotal.WithLabelValues(domain.NativeCurrency.Hex())))
		})
	}
}

// --- admin ---

func TestHandler_AddPayToken_OK(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("AddPayToken", mock.Anything, owner, usdt, usdtFeed, (*uint8)(nil)).Return(nil).Once()
	body := fmt.Sprintf(`{"currency":%q,"oracle":%q}`, usdt.Hex(), usdtFeed.Hex())
	rr := httptest.NewRecorder()

	h.AddPayToken(rr, signed(httptest.NewRequest(http.MethodPost, "/admin/pay-tokens", bytes.NewBufferString(body)), owner))

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestHandler_AddPayToken_PassesDecimals(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("AddPayToken", mock.Anything, owner, usdt, usdtFeed, mock.MatchedBy(func(d *uint8) bool {
		return d != nil && *d == 6
	})).Return(nil).Once()
	body := fmt.Sprintf(`{"currency":%q,"oracle":%q,"decimals":6}`, usdt.Hex(), usdtFeed.Hex())
	rr := httptest.NewRecorder()

	h.AddPayToken(rr, signed(httptest.NewRequest(http.MethodPost, "/admin/pay-tokens", bytes.NewBufferString(body)), owner))

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestHandler_AddPayToken_UnknownDecimals(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("AddPayToken", mock.Anything, owner, usdt, usdtFeed, (*uint8)(nil)).
		Return(fmt.Errorf("decimals of %s must be given: %w", usdt.Hex(), domain.ErrUnknownDecimals)).Once()
	body := fmt.Sprintf(`{"currency":%q,"oracle":%q}`, usdt.Hex(), usdtFeed.Hex())
	rr := httptest.NewRecorder()

	h.AddPayToken(rr, signed(httptest.NewRequest(http.MethodPost, "/admin/pay-tokens", bytes.NewBufferString(body)), owner))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "UnknownDecimals", decodeError(t, rr).Reason)
}

func TestHandler_Admin_NotOwner(t *testing.T) {
	cases := []struct {
		name   string
		call   func(h *Handler, w http.ResponseWriter, r *http.Request)
		method string
		body   string
		op     string
	}{
		{
			name: "add pay token", call: (*Handler).AddPayToken, method: "AddPayToken",
			body: fmt.Sprintf(`{"currency":%q,"oracle":%q}`, usdt.Hex(), usdtFeed.Hex()), op: "add_pay_token",
		},
		{
			name: "withdraw", call: (*Handler).Withdraw, method: "Withdraw",
			body: `{"currency":"native","amount":"5"}`, op: "withdraw",
		},
		{
			name: "transfer ownership", call: (*Handler).TransferOwnership, method: "TransferOwnership",
			body: fmt.Sprintf(`{"new_owner":%q}`, buyer.Hex()), op: "transfer_ownership",
		},
		{
			name: "upgrade", call: (*Handler).Upgrade, method: "UpgradeTo",
			body: fmt.Sprintf(`{"implementation":%q}`, usdtFeed.Hex()), op: "upgrade",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc, m := newHandler()
			svc.On(tc.method, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrNotOwner).Maybe()
			svc.On(tc.method, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrNotOwner).Maybe()
			svc.On(tc.method, mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrNotOwner).Maybe()
			rr := httptest.NewRecorder()

			tc.call(h, rr, signed(httptest.NewRequest(http.MethodPost, "/admin", bytes.NewBufferString(tc.body)), buyer))

			require.Equal(t, http.StatusForbidden, rr.Code)
			require.Equal(t, "NotOwner", decodeError(t, rr).Reason)
			require.Equal(t, float64(1), testutil.ToFloat64(m.OperationErrors.WithLabelValues(tc.op, "NotOwner")))
		})
	}
}

func TestHandler_Withdraw_InsufficientBalance(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("Withdraw", mock.Anything, owner, domain.NativeCurrency, amountEq("5")).Return(domain.ErrInsufficientBalance).Once()
	rr := httptest.NewRecorder()

	h.Withdraw(rr, signed(httptest.NewRequest(http.MethodPost, "/admin/withdraw", bytes.NewBufferString(`{"currency":"native","amount":"5"}`)), owner))

	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "InsufficientBalance", decodeError(t, rr).Reason)
}

func TestHandler_TransferOwnership_BadAddress(t *testing.T) {
	h, svc, _ := newHandler()
	rr := httptest.NewRecorder()

	h.TransferOwnership(rr, signed(httptest.NewRequest(http.MethodPost, "/admin/ownership", bytes.NewBufferString(`{"new_owner":"bob"}`)), owner))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "TransferOwnership", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Upgrade_OK(t *testing.T) {
	h, svc, _ := newHandler()
	impl := common.HexToAddress("0x00000000000000000000000000000000000001a2")
	svc.On("UpgradeTo", mock.Anything, owner, impl).Return(nil).Once()
	rr := httptest.NewRecorder()

	h.Upgrade(rr, signed(httptest.NewRequest(http.MethodPost, "/admin/upgrade", bytes.NewBufferString(fmt.Sprintf(`{"implementation":%q}`, impl.Hex()))), owner))

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

// --- ledger ---

func TestHandler_Approve_UsesSignerAsOwner(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("Approve", mock.Anything, buyer, usdt, treasury, amountEq("100")).Return(nil).Once()
	body := fmt.Sprintf(`{"token":%q,"spender":%q,"amount":"100"}`, usdt.Hex(), treasury.Hex())
	rr := httptest.NewRecorder()

	h.Approve(rr, signed(httptest.NewRequest(http.MethodPost, "/ledger/approve", bytes.NewBufferString(body)), buyer))

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestHandler_GetBalance_OK(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("BalanceOf", mock.Anything, usdt, buyer).Return(uint256.NewInt(900), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/ledger/balances/x/y", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", usdt.Hex())
	rctx.URLParams.Add("holder", buyer.Hex())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	h.GetBalance(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetBalanceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "900", res.Balance)
}

func TestHandler_GetBalance_Internal(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("BalanceOf", mock.Anything, usdt, buyer).Return(nil, errors.New("db down")).Once()

	req := httptest.NewRequest(http.MethodGet, "/ledger/balances/x/y", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", usdt.Hex())
	rctx.URLParams.Add("holder", buyer.Hex())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	h.GetBalance(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	ej := decodeError(t, rr)
	require.Equal(t, "Internal", ej.Reason)
	require.NotContains(t, ej.Error, "db down")
}
