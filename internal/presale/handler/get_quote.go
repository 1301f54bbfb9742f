package handler

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

type GetQuoteResponse struct {
	Currency   common.Address `json:"currency" swaggertype:"string" example:"0x55d398326f99059fF775485246999027B3197955"`
	SaleAmount string         `json:"sale_amount" example:"100000000000000000000"`
	PayAmount  string         `json:"pay_amount" example:"100000000000000000000"`
}

// GetQuote godoc
// @Summary Quote a purchase
// @Description Amount of currency needed right now to buy amount of the sale token, rounded up
// @Tags Presale
// @Produce json
// @Param amount query string true "Sale token amount in base units"
// @Param currency query string true "Currency address or native"
// @Success 200 {object} GetQuoteResponse
// @Failure 400 {object} errorResponse
// @Failure 503 {object} errorResponse "oracle unavailable"
// @Failure 500 {object} errorResponse
// @Router /presale/quote [get]
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	currency, err := parseAddress("currency", q.Get("currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	amount, err := parseAmount("amount", q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	pay, err := h.service.Quote(r.Context(), amount, currency)
	if err != nil {
		h.fail(w, "quote", err, logrus.Fields{"currency": currency.Hex(), "amount": amount.Dec()})
		return
	}

	writeJSON(w, http.StatusOK, GetQuoteResponse{
		Currency:   currency,
		SaleAmount: amount.Dec(),
		PayAmount:  pay.Dec(),
	})
}
