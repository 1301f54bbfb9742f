package handler

import (
	"fmt"
	"net/http"
	"presale/internal/domain"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BuyRequest struct {
	RequestID    string `json:"request_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	Amount       string `json:"amount" example:"100000000000000000000"`
	Currency     string `json:"currency" example:"0x55d398326f99059fF775485246999027B3197955"`
	MaxPayAmount string `json:"max_pay_amount" example:"100000000000000000000"`
	NativeValue  string `json:"native_value" example:"0"`
}

type BuyResponse struct {
	PurchaseID  string         `json:"purchase_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	Buyer       common.Address `json:"buyer" swaggertype:"string" example:"0x0000000000000000000000000000000000000b0b"`
	Currency    common.Address `json:"currency" swaggertype:"string" example:"0x55d398326f99059fF775485246999027B3197955"`
	SaleAmount  string         `json:"sale_amount" example:"100000000000000000000"`
	PayAmount   string         `json:"pay_amount" example:"100000000000000000000"`
	Refund      string         `json:"refund" example:"0"`
	PurchasedAt time.Time      `json:"purchased_at" example:"2025-01-02T15:04:05Z"`
}

// Buy godoc
// @Summary Buy the sale token
// @Description Pays with a registered currency at the live oracle price; the signer is the buyer
// @Tags Presale
// @Accept json
// @Produce json
// @Param X-Timestamp header string true "Unix seconds"
// @Param X-Signature header string true "EIP-191 signature"
// @Param request body BuyRequest true "Purchase"
// @Success 200 {object} BuyResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Failure 503 {object} errorResponse "oracle unavailable"
// @Failure 500 {object} errorResponse
// @Router /presale/buy [post]
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	buyer, ok := callerOf(w, r)
	if !ok {
		return
	}

	var req BuyRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	ex, err := toExchangeRequest(buyer, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	p, err := h.service.Buy(r.Context(), ex)
	if err != nil {
		h.fail(w, "buy", err, logrus.Fields{
			"buyer":    buyer.Hex(),
			"currency": ex.PayCurrency.Hex(),
			"amount":   ex.SaleAmount.Dec(),
		})
		return
	}
	h.metrics.PurchasesTotal.WithLabelValues(p.PayCurrency.Hex()).Inc()

	writeJSON(w, http.StatusOK, BuyResponse{
		PurchaseID:  p.ID.String(),
		Buyer:       p.Buyer,
		Currency:    p.PayCurrency,
		SaleAmount:  p.SaleAmount.Dec(),
		PayAmount:   p.PayAmount.Dec(),
		Refund:      p.Refund.Dec(),
		PurchasedAt: p.CreatedAt,
	})
}

func toExchangeRequest(buyer common.Address, req BuyRequest) (domain.ExchangeRequest, error) {
	ex := domain.ExchangeRequest{Buyer: buyer}
	var err error
	if req.RequestID != "" {
		if ex.RequestID, err = uuid.Parse(req.RequestID); err != nil {
			return ex, fmt.Errorf("invalid request_id: %w", err)
		}
	}
	if ex.PayCurrency, err = parseAddress("currency", req.Currency); err != nil {
		return ex, err
	}
	if ex.SaleAmount, err = parseAmount("amount", req.Amount); err != nil {
		return ex, err
	}
	if ex.MaxPayAmount, err = parseAmount("max_pay_amount", req.MaxPayAmount); err != nil {
		return ex, err
	}
	if ex.NativeValue, err = parseOptionalAmount("native_value", req.NativeValue); err != nil {
		return ex, err
	}
	return ex, nil
}
