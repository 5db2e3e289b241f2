// Package validation provides the result value returned by every check the
// ledger performs.
package validation

import "fmt"

// Code identifies the rule a failed check broke.
type Code string

// Set of rule codes reported by the ledger.
const (
	MissingAddress              Code = "MissingAddress"
	NonPositiveAmount           Code = "NonPositiveAmount"
	MissingSignatureOrReference Code = "MissingSignatureOrReference"
	SignatureVerificationError  Code = "SignatureVerificationError"
	InvalidSignature            Code = "InvalidSignature"
	TamperedHash                Code = "TamperedHash"
	ExcessiveFeeOrReward        Code = "ExcessiveFeeOrReward"
	InsufficientInputAmount     Code = "InsufficientInputAmount"
	InvalidOutputLineage        Code = "InvalidOutputLineage"
	MissingInputs               Code = "MissingInputs"
	NoFeeTx                     Code = "NoFeeTx"
	TooManyFees                 Code = "TooManyFees"
	FeeNotPaidToMiner           Code = "FeeNotPaidToMiner"
	InvalidTransactionsInBlock  Code = "InvalidTransactionsInBlock"
	InvalidIndex                Code = "InvalidIndex"
	InvalidTimestamp            Code = "InvalidTimestamp"
	InvalidPreviousHash         Code = "InvalidPreviousHash"
	NotMined                    Code = "NotMined"
	InvalidHash                 Code = "InvalidHash"
	WalletHasPendingTx          Code = "WalletHasPendingTx"
	SpentOrNonexistentTxo       Code = "SpentOrNonexistentTxo"
	DuplicateTx                 Code = "DuplicateTx"
	NoNextBlockAvailable        Code = "NoNextBlockAvailable"
	MempoolMismatch             Code = "MempoolMismatch"
	UnexpectedFeeTx             Code = "UnexpectedFeeTx"
	AmountOverflow              Code = "AmountOverflow"
)

// Result is the success/message pair produced by a check. A successful
// result may carry a message, such as the hash of an accepted entity.
type Result struct {
	Success bool   `json:"success"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK returns a successful result.
func OK() Result {
	return Result{Success: true}
}

// OKWith returns a successful result carrying a message.
func OKWith(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail returns a failed result for the specified rule.
func Fail(code Code, format string, args ...any) Result {
	return Result{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Annotate returns a copy of the result with the prefix added to the
// message. Successful results are returned untouched.
func (r Result) Annotate(prefix string) Result {
	if r.Success {
		return r
	}

	r.Message = fmt.Sprintf("%s: %s", prefix, r.Message)
	return r
}

// Error implements the error interface so a failed result can travel
// through error returns.
func (r Result) Error() string {
	if r.Code == "" {
		return r.Message
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}
