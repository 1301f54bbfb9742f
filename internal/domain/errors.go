package domain

import "errors"

var (
	ErrZeroAmount             = errors.New("amount is zero")
	ErrUnsupportedCurrency    = errors.New("not supported token")
	ErrSlippageExceeded       = errors.New("pay amount exceeds max pay amount")
	ErrInsufficientPayment    = errors.New("attached native value is below pay amount")
	ErrInsufficientLiquidity  = errors.New("not enough sale token in treasury")
	ErrOracleUnavailable      = errors.New("oracle price unavailable")
	ErrNotOwner               = errors.New("caller is not the owner")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientAllowance  = errors.New("insufficient allowance")
	ErrAmountOverflow         = errors.New("amount overflows 256 bits")
	ErrZeroAddress            = errors.New("zero address")
	ErrNativeValueNotAccepted = errors.New("native value attached to token payment")
	ErrDuplicateRequest       = errors.New("request already processed")
	ErrNotInitialized         = errors.New("presale is not initialized")
	ErrAlreadyInitialized     = errors.New("presale is already initialized")
	ErrUnknownDecimals        = errors.New("token decimals are unknown")
	ErrDecimalsMismatch       = errors.New("token decimals differ from the recorded ones")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrZeroAmount, "ZeroAmount"},
	{ErrUnsupportedCurrency, "UnsupportedCurrency"},
	{ErrSlippageExceeded, "SlippageExceeded"},
	{ErrInsufficientPayment, "InsufficientPayment"},
	{ErrInsufficientLiquidity, "InsufficientLiquidity"},
	{ErrOracleUnavailable, "OracleUnavailable"},
	{ErrNotOwner, "NotOwner"},
	{ErrInsufficientBalance, "InsufficientBalance"},
	{ErrInsufficientAllowance, "InsufficientAllowance"},
	{ErrAmountOverflow, "AmountOverflow"},
	{ErrZeroAddress, "ZeroAddress"},
	{ErrNativeValueNotAccepted, "NativeValueNotAccepted"},
	{ErrDuplicateRequest, "DuplicateRequest"},
	{ErrNotInitialized, "NotInitialized"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrUnknownDecimals, "UnknownDecimals"},
	{ErrDecimalsMismatch, "DecimalsMismatch"},
}

// Reason returns the stable name of the first known error in err's chain,
// or "Internal" when err matches none of them.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "Internal"
}
