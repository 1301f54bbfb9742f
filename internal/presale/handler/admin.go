package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type AddPayTokenRequest struct {
	Currency string `json:"currency" example:"0x55d398326f99059fF775485246999027B3197955"`
	Oracle   string `json:"oracle" example:"0xB97Ad0E74fa7d920791E90258A6E2085088b4320"`
	// Decimals is required the first time a token is listed.
	Decimals *uint8 `json:"decimals,omitempty" example:"18"`
}

type WithdrawRequest struct {
	Currency string `json:"currency" example:"native"`
	Amount   string `json:"amount" example:"1000000000000000000"`
}

type TransferOwnershipRequest struct {
	NewOwner string `json:"new_owner" example:"0x0000000000000000000000000000000000000b0b"`
}

type UpgradeRequest struct {
	Implementation string `json:"implementation" example:"0x00000000000000000000000000000000000001a2"`
}

type okResponse struct {
	Status string `json:"status" example:"ok"`
}

// AddPayToken godoc
// @Summary Register or rebind a payment currency
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Timestamp header string true "Unix seconds"
// @Param X-Signature header string true "EIP-191 signature of the owner"
// @Param request body AddPayTokenRequest true "Binding"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 409 {object} errorResponse "decimals differ from the recorded ones"
// @Failure 500 {object} errorResponse
// @Router /admin/pay-tokens [post]
func (h *Handler) AddPayToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req AddPayTokenRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	currency, err := parseAddress("currency", req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	oracle, err := parseAddress("oracle", req.Oracle)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err = h.service.AddPayToken(r.Context(), caller, currency, oracle, req.Decimals); err != nil {
		h.fail(w, "add_pay_token", err, logrus.Fields{"caller": caller.Hex(), "currency": currency.Hex()})
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}

// Withdraw godoc
// @Summary Withdraw treasury funds to the owner
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Timestamp header string true "Unix seconds"
// @Param X-Signature header string true "EIP-191 signature of the owner"
// @Param request body WithdrawRequest true "Withdrawal"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 409 {object} errorResponse "insufficient balance"
// @Failure 500 {object} errorResponse
// @Router /admin/withdraw [post]
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req WithdrawRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	currency, err := parseAddress("currency", req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err = h.service.Withdraw(r.Context(), caller, currency, amount); err != nil {
		h.fail(w, "withdraw", err, logrus.Fields{"caller": caller.Hex(), "currency": currency.Hex(), "amount": amount.Dec()})
		return
	}
	logrus.WithFields(logrus.Fields{"currency": currency.Hex(), "amount": amount.Dec()}).Info("Treasury withdrawal")
	writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}

// TransferOwnership godoc
// @Summary Hand the presale over to a new owner
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Timestamp header string true "Unix seconds"
// @Param X-Signature header string true "EIP-191 signature of the owner"
// @Param request body TransferOwnershipRequest true "New owner"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /admin/ownership [post]
func (h *Handler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req TransferOwnershipRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	newOwner, err := parseAddress("new_owner", req.NewOwner)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err = h.service.TransferOwnership(r.Context(), caller, newOwner); err != nil {
		h.fail(w, "transfer_ownership", err, logrus.Fields{"caller": caller.Hex(), "new_owner": newOwner.Hex()})
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}

// Upgrade godoc
// @Summary Authorize a new implementation
// @Description Records the implementation; the service is then redeployed at that version
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Timestamp header string true "Unix seconds"
// @Param X-Signature header string true "EIP-191 signature of the owner"
// @Param request body UpgradeRequest true "Implementation"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /admin/upgrade [post]
func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req UpgradeRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	impl, err := parseAddress("implementation", req.Implementation)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err = h.service.UpgradeTo(r.Context(), caller, impl); err != nil {
		h.fail(w, "upgrade", err, logrus.Fields{"caller": caller.Hex(), "implementation": impl.Hex()})
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}
