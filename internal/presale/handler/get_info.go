package handler

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

type GetInfoResponse struct {
	Owner             common.Address `json:"owner" swaggertype:"string" example:"0x00000000000000000000000000000000000a11ce"`
	Implementation    common.Address `json:"implementation" swaggertype:"string" example:"0x0000000000000000000000000000000000000000"`
	SaleToken         common.Address `json:"sale_token" swaggertype:"string" example:"0x2d9d3C6A4A22f9E4c4A2Bd0C8B6F2a9c5e1d7E11"`
	SalePrice         string         `json:"sale_price" example:"1000000000000000000"`
	SalePriceDecimals uint8          `json:"sale_price_decimals" example:"18"`
	Treasury          common.Address `json:"treasury" swaggertype:"string" example:"0x00000000000000000000000000000000005a1e00"`
}

// GetInfo godoc
// @Summary Presale parameters
// @Description Owner, authorized implementation, sale token, its USD price and the treasury
// @Tags Presale
// @Produce json
// @Success 200 {object} GetInfoResponse
// @Failure 500 {object} errorResponse
// @Router /presale/info [get]
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context())
	if err != nil {
		h.fail(w, "info", err, logrus.Fields{})
		return
	}

	writeJSON(w, http.StatusOK, GetInfoResponse{
		Owner:             info.Owner,
		Implementation:    info.Implementation,
		SaleToken:         info.SaleToken,
		SalePrice:         info.SalePrice.Dec(),
		SalePriceDecimals: info.SalePriceDecimals,
		Treasury:          info.Treasury,
	})
}
