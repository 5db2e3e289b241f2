package database

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// TxInput references an output produced by a previous transaction and
// carries the signature proving the right to spend it.
type TxInput struct {
	fromAddress    string
	amount         uint64
	signature      string
	previousTxHash string
}

// NewTxInput constructs an unsigned input spending the amount from the
// output produced by the previous transaction.
func NewTxInput(fromAddress string, amount uint64, previousTxHash string) TxInput {
	return TxInput{
		fromAddress:    fromAddress,
		amount:         amount,
		previousTxHash: previousTxHash,
	}
}

// TxInputFromOutput constructs an unsigned input that spends the output.
func TxInputFromOutput(out TxOutput) TxInput {
	return TxInput{
		fromAddress:    out.toAddress,
		amount:         out.amount,
		previousTxHash: out.producingTxHash,
	}
}

// FromAddress returns the address spending the value.
func (in TxInput) FromAddress() string {
	return in.fromAddress
}

// Amount returns the value being spent.
func (in TxInput) Amount() uint64 {
	return in.amount
}

// Signature returns the hex DER signature, empty until signed.
func (in TxInput) Signature() string {
	return in.signature
}

// PreviousTxHash returns the hash of the transaction whose output is spent.
func (in TxInput) PreviousTxHash() string {
	return in.previousTxHash
}

// Hash returns the hash of the previous transaction hash, address and
// amount. The signature is not part of the hash.
func (in TxInput) Hash() string {
	return hashOf(in.previousTxHash, in.fromAddress, itoa(in.amount))
}

// Sign signs the input's hash with the private key and stores the signature.
func (in *TxInput) Sign(privateKey string) error {
	sig, err := keypair.Sign(privateKey, in.Hash())
	if err != nil {
		return fmt.Errorf("signing input: %w", err)
	}

	in.signature = sig
	return nil
}

// IsValid checks the input is signed by the owner of the from address.
func (in TxInput) IsValid() validation.Result {
	if strings.TrimSpace(in.signature) == "" || strings.TrimSpace(in.previousTxHash) == "" {
		return validation.Fail(validation.MissingSignatureOrReference, "input has no signature or previous transaction reference")
	}

	if in.amount < 1 {
		return validation.Fail(validation.NonPositiveAmount, "input amount must be greater than zero")
	}

	ok, err := keypair.Verify(in.fromAddress, in.Hash(), in.signature)
	if err != nil {
		return validation.Fail(validation.SignatureVerificationError, "input signature can't be verified: %s", err)
	}

	if !ok {
		return validation.Fail(validation.InvalidSignature, "input signature does not match %s", short(in.fromAddress))
	}

	return validation.OK()
}

// String implements the fmt.Stringer interface for logging.
func (in TxInput) String() string {
	return fmt.Sprintf("%s:%d:%s", short(in.fromAddress), in.amount, short(in.previousTxHash))
}
