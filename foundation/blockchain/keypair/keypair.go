// Package keypair provides secp256k1 key handling and the DER signature
// support used to spend transaction outputs.
package keypair

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned when key material is neither a 64 character hex
// scalar nor a valid WIF string.
var ErrInvalidKey = errors.New("invalid key material")

// Mainnet WIF version byte and the suffix marking a compressed public key.
const (
	wifVersion    = 0x80
	wifCompressed = 0x01
)

// =============================================================================

// Keypair holds a private key and the compressed public key derived from it,
// both hex encoded. The public key is the address funds are paid to.
type Keypair struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
}

// Generate constructs a fresh random keypair.
func Generate() (Keypair, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return Keypair{}, fmt.Errorf("generating key: %w", err)
	}

	return fromECDSA(pk), nil
}

// Recover rebuilds the keypair from a raw hex private key or a WIF encoded
// private key.
func Recover(material string) (Keypair, error) {
	material = strings.TrimSpace(material)

	if len(material) == 64 {
		if _, err := hex.DecodeString(material); err == nil {
			pk, err := crypto.HexToECDSA(material)
			if err != nil {
				return Keypair{}, fmt.Errorf("%w: %s", ErrInvalidKey, err)
			}
			return fromECDSA(pk), nil
		}
	}

	priv, err := decodeWIF(material)
	if err != nil {
		return Keypair{}, fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	pk, err := crypto.ToECDSA(priv)
	if err != nil {
		return Keypair{}, fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	return fromECDSA(pk), nil
}

// Load reads a private key file written by Save.
func Load(path string) (Keypair, error) {
	pk, err := crypto.LoadECDSA(path)
	if err != nil {
		return Keypair{}, fmt.Errorf("loading key file: %w", err)
	}

	return fromECDSA(pk), nil
}

// Save writes the private key to the specified file.
func (kp Keypair) Save(path string) error {
	pk, err := crypto.HexToECDSA(kp.PrivateKey)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	return crypto.SaveECDSA(path, pk)
}

// WIF returns the private key in compressed mainnet WIF encoding.
func (kp Keypair) WIF() (string, error) {
	b, err := hex.DecodeString(kp.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	if len(b) != 32 {
		return "", fmt.Errorf("%w: private key must be 32 bytes", ErrInvalidKey)
	}

	payload := append(b, wifCompressed)

	return base58.CheckEncode(payload, wifVersion), nil
}

// decodeWIF returns the 32 byte private key held by a WIF string. Both the
// compressed and uncompressed forms are accepted.
func decodeWIF(s string) ([]byte, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, err
	}

	if version != wifVersion {
		return nil, fmt.Errorf("unexpected WIF version 0x%02x", version)
	}

	switch {
	case len(payload) == 33 && payload[32] == wifCompressed:
		return payload[:32], nil
	case len(payload) == 32:
		return payload, nil
	}

	return nil, errors.New("malformed WIF payload")
}

// Sign signs the message hash with the keypair's private key.
func (kp Keypair) Sign(messageHash string) (string, error) {
	return Sign(kp.PrivateKey, messageHash)
}

// =============================================================================

// Sign uses the hex private key to sign the hex message hash and returns the
// DER encoded signature as hex.
func Sign(privateKey string, messageHash string) (string, error) {
	b, err := hex.DecodeString(privateKey)
	if err != nil || len(b) != 32 {
		return "", fmt.Errorf("%w: private key must be 32 bytes of hex", ErrInvalidKey)
	}

	hash, err := hex.DecodeString(messageHash)
	if err != nil {
		return "", fmt.Errorf("decoding message hash: %w", err)
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		return "", fmt.Errorf("%w: scalar is not below the curve order", ErrInvalidKey)
	}
	if scalar.IsZero() {
		return "", fmt.Errorf("%w: zero scalar", ErrInvalidKey)
	}

	sig := decredecdsa.Sign(secp256k1.NewPrivateKey(&scalar), hash)

	return hex.EncodeToString(sig.Serialize()), nil
}

// Verify checks the hex DER signature over the hex message hash against the
// hex compressed public key. An error is returned when any of the values
// can't be decoded, which is different from a signature that doesn't match.
func Verify(publicKey string, messageHash string, signature string) (bool, error) {
	pubBytes, err := hex.DecodeString(publicKey)
	if err != nil {
		return false, fmt.Errorf("decoding public key: %w", err)
	}

	pub, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false, fmt.Errorf("parsing public key: %w", err)
	}

	hash, err := hex.DecodeString(messageHash)
	if err != nil {
		return false, fmt.Errorf("decoding message hash: %w", err)
	}

	sigBytes, err := hex.DecodeString(signature)
	if err != nil {
		return false, fmt.Errorf("decoding signature: %w", err)
	}

	sig, err := decredecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false, fmt.Errorf("parsing signature: %w", err)
	}

	return sig.Verify(hash, pub), nil
}

// =============================================================================

// fromECDSA converts the go-ethereum key into its hex representation.
func fromECDSA(pk *ecdsa.PrivateKey) Keypair {
	return Keypair{
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(pk)),
		PublicKey:  hex.EncodeToString(crypto.CompressPubkey(&pk.PublicKey)),
	}
}
