package app

import (
	"fmt"
	"presale/internal/config"
	"presale/internal/domain"
	"presale/internal/presale"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// buildPresale turns the presale section of the config into the sale
// parameters and the state written on first start.
func buildPresale(cfg config.Presale) (presale.Sale, presale.Genesis, error) {
	var (
		sale presale.Sale
		gen  presale.Genesis
		err  error
	)
	if sale.Token, err = parseAddress("presale.sale_token", cfg.SaleToken); err != nil {
		return sale, gen, err
	}
	if sale.Treasury, err = parseAddress("presale.treasury", cfg.Treasury); err != nil {
		return sale, gen, err
	}
	price, err := uint256.FromDecimal(strings.TrimSpace(cfg.SalePrice))
	if err != nil {
		return sale, gen, fmt.Errorf("invalid presale.sale_price %q: %w", cfg.SalePrice, err)
	}
	sale.Price = domain.Price{Value: price, Decimals: cfg.SalePriceDecimals}

	if cfg.Owner != "" {
		if gen.Owner, err = parseAddress("presale.owner", cfg.Owner); err != nil {
			return sale, gen, err
		}
	}
	for i, pt := range cfg.PayTokens {
		currency, err := parseAddress(fmt.Sprintf("presale.pay_tokens[%d].currency", i), pt.Currency)
		if err != nil {
			return sale, gen, err
		}
		oracle, err := parseAddress(fmt.Sprintf("presale.pay_tokens[%d].oracle", i), pt.Oracle)
		if err != nil {
			return sale, gen, err
		}
		gen.PayTokens = append(gen.PayTokens, domain.PayToken{Currency: currency, Oracle: oracle})
	}
	gen.Decimals = make(map[common.Address]uint8, len(cfg.Tokens))
	for i, t := range cfg.Tokens {
		addr, err := parseAddress(fmt.Sprintf("presale.tokens[%d].address", i), t.Address)
		if err != nil {
			return sale, gen, err
		}
		gen.Decimals[addr] = t.Decimals
	}
	for i, a := range cfg.Allocations {
		token, err := parseAddress(fmt.Sprintf("presale.allocations[%d].token", i), a.Token)
		if err != nil {
			return sale, gen, err
		}
		holder, err := parseAddress(fmt.Sprintf("presale.allocations[%d].holder", i), a.Holder)
		if err != nil {
			return sale, gen, err
		}
		amount, err := uint256.FromDecimal(strings.TrimSpace(a.Amount))
		if err != nil {
			return sale, gen, fmt.Errorf("invalid presale.allocations[%d].amount %q: %w", i, a.Amount, err)
		}
		gen.Allocations = append(gen.Allocations, presale.Allocation{Token: token, Holder: holder, Amount: amount})
	}
	return sale, gen, nil
}

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
