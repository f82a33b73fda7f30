package sui

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/blake2b"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

const (
	// Signature scheme flag for ed25519 keys.
	ed25519Flag = 0x00

	// Sui's registered coin type for BIP-44 style derivation.
	suiCoinType = 784
)

// Signer holds the locally derived ed25519 keypair used to sign
// transaction bytes produced by the aggregator.
type Signer struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	address string
}

// NewSigner initializes signing key material from a base64 private key
// or, failing that, a BIP-39 mnemonic. Both absent or malformed is
// fatal: nothing downstream can execute without signing capability.
func NewSigner(privateKeyB64, mnemonic string) (*Signer, error) {
	if privateKeyB64 != "" {
		return NewSignerFromKey(privateKeyB64)
	}
	if mnemonic != "" {
		return NewSignerFromMnemonic(mnemonic)
	}
	return nil, fmt.Errorf("%w: no private key or mnemonic configured", models.ErrKeypairInit)
}

// NewSignerFromKey builds a signer from a base64-encoded 32-byte
// ed25519 seed, optionally prefixed with the scheme flag byte.
func NewSignerFromKey(b64 string) (*Signer, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not valid base64: %v", models.ErrKeypairInit, err)
	}

	switch len(raw) {
	case ed25519.SeedSize:
	case ed25519.SeedSize + 1:
		if raw[0] != ed25519Flag {
			return nil, fmt.Errorf("%w: unsupported signature scheme flag 0x%02x", models.ErrKeypairInit, raw[0])
		}
		raw = raw[1:]
	default:
		return nil, fmt.Errorf("%w: private key must be 32 or 33 bytes, got %d", models.ErrKeypairInit, len(raw))
	}

	return newSignerFromSeed(raw), nil
}

// NewSignerFromMnemonic derives the keypair from a BIP-39 mnemonic at
// Sui's default path m/44'/784'/0'/0'/0' (SLIP-0010, ed25519).
func NewSignerFromMnemonic(mnemonic string) (*Signer, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: bad mnemonic: %v", models.ErrKeypairInit, err)
	}

	key := deriveEd25519Key(seed, []uint32{44, suiCoinType, 0, 0, 0})
	return newSignerFromSeed(key), nil
}

func newSignerFromSeed(seed []byte) *Signer {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	// Address = blake2b-256(flag || pubkey).
	payload := append([]byte{ed25519Flag}, pub...)
	digest := blake2b.Sum256(payload)

	return &Signer{
		priv:    priv,
		pub:     pub,
		address: "0x" + hex.EncodeToString(digest[:]),
	}
}

// deriveEd25519Key walks a SLIP-0010 hardened derivation path. All
// segments are hardened; ed25519 does not support non-hardened children.
func deriveEd25519Key(seed []byte, path []uint32) []byte {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chain := sum[:32], sum[32:]

	for _, segment := range path {
		var index [4]byte
		binary.BigEndian.PutUint32(index[:], segment|0x80000000)

		mac = hmac.New(sha512.New, chain)
		mac.Write([]byte{0x00})
		mac.Write(key)
		mac.Write(index[:])
		sum = mac.Sum(nil)
		key, chain = sum[:32], sum[32:]
	}

	return key
}

// Address returns the 0x-prefixed Sui address for this keypair.
func (s *Signer) Address() string {
	return s.address
}

// SignTransaction produces a serialized Sui signature over base64
// transaction bytes: base64(flag || sig || pubkey), where the signed
// message is blake2b-256 of the TransactionData intent plus tx bytes.
func (s *Signer) SignTransaction(txBytesB64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(txBytesB64)
	if err != nil {
		return "", fmt.Errorf("transaction bytes are not valid base64: %w", err)
	}

	// Intent: scope=TransactionData(0), version=0, app=Sui(0).
	message := append([]byte{0, 0, 0}, txBytes...)
	digest := blake2b.Sum256(message)
	sig := ed25519.Sign(s.priv, digest[:])

	serialized := make([]byte, 0, 1+len(sig)+len(s.pub))
	serialized = append(serialized, ed25519Flag)
	serialized = append(serialized, sig...)
	serialized = append(serialized, s.pub...)
	return base64.StdEncoding.EncodeToString(serialized), nil
}
