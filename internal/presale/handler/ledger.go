package handler

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type ApproveRequest struct {
	Token   string `json:"token" example:"0x55d398326f99059fF775485246999027B3197955"`
	Spender string `json:"spender" example:"0x00000000000000000000000000000000005a1e00"`
	Amount  string `json:"amount" example:"100000000000000000000"`
}

type GetBalanceResponse struct {
	Token   common.Address `json:"token" swaggertype:"string" example:"0x55d398326f99059fF775485246999027B3197955"`
	Holder  common.Address `json:"holder" swaggertype:"string" example:"0x0000000000000000000000000000000000000b0b"`
	Balance string         `json:"balance" example:"900000000000000000000"`
}

// Approve godoc
// @Summary Approve a spender
// @Description Lets spender pull up to amount of token from the signer; buyers approve the treasury before paying with a token
// @Tags Ledger
// @Accept json
// @Produce json
// @Param X-Timestamp header string true "Unix seconds"
// @Param X-Signature header string true "EIP-191 signature of the holder"
// @Param request body ApproveRequest true "Allowance"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /ledger/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req ApproveRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	token, err := parseAddress("token", req.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	spender, err := parseAddress("spender", req.Spender)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err = h.service.Approve(r.Context(), owner, token, spender, amount); err != nil {
		h.fail(w, "approve", err, logrus.Fields{"owner": owner.Hex(), "token": token.Hex()})
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}

// GetBalance godoc
// @Summary Ledger balance
// @Tags Ledger
// @Produce json
// @Param token path string true "Token address or native"
// @Param holder path string true "Holder address"
// @Success 200 {object} GetBalanceResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /ledger/balances/{token}/{holder} [get]
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	token, err := parseAddress("token", chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	holder, err := parseAddress("holder", chi.URLParam(r, "holder"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	balance, err := h.service.BalanceOf(r.Context(), token, holder)
	if err != nil {
		h.fail(w, "balance", err, logrus.Fields{"token": token.Hex(), "holder": holder.Hex()})
		return
	}
	writeJSON(w, http.StatusOK, GetBalanceResponse{Token: token, Holder: holder, Balance: balance.Dec()})
}
