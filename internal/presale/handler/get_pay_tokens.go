package handler

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type PayTokenResponse struct {
	Currency common.Address `json:"currency" swaggertype:"string" example:"0x55d398326f99059fF775485246999027B3197955"`
	Oracle   common.Address `json:"oracle" swaggertype:"string" example:"0xB97Ad0E74fa7d920791E90258A6E2085088b4320"`
}

type GetPayTokensResponse struct {
	PayTokens []PayTokenResponse `json:"pay_tokens"`
}

// GetPayTokens godoc
// @Summary List accepted payment currencies
// @Description Every registered payment currency with its USD price oracle, in registration order
// @Tags Presale
// @Produce json
// @Success 200 {object} GetPayTokensResponse
// @Failure 500 {object} errorResponse
// @Router /presale/pay-tokens [get]
func (h *Handler) GetPayTokens(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.PayTokens(r.Context())
	if err != nil {
		h.fail(w, "pay_tokens", err, logrus.Fields{})
		return
	}

	res := GetPayTokensResponse{PayTokens: make([]PayTokenResponse, 0, len(list))}
	for _, pt := range list {
		res.PayTokens = append(res.PayTokens, PayTokenResponse{Currency: pt.Currency, Oracle: pt.Oracle})
	}
	writeJSON(w, http.StatusOK, res)
}

// GetPayToken godoc
// @Summary Get oracle of a payment currency
// @Tags Presale
// @Produce json
// @Param currency path string true "Currency address or native"
// @Success 200 {object} PayTokenResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /presale/pay-tokens/{currency} [get]
func (h *Handler) GetPayToken(w http.ResponseWriter, r *http.Request) {
	currency, err := parseAddress("currency", chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	oracle, ok, err := h.service.PayTokenOracle(r.Context(), currency)
	if err != nil {
		h.fail(w, "pay_token", err, logrus.Fields{"currency": currency.Hex()})
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "pay token not found", "UnsupportedCurrency")
		return
	}
	writeJSON(w, http.StatusOK, PayTokenResponse{Currency: currency, Oracle: oracle})
}
