package sui

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

func testSeed() []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestNewSignerFromKey(t *testing.T) {
	t.Run("RawSeed", func(t *testing.T) {
		s, err := NewSignerFromKey(base64.StdEncoding.EncodeToString(testSeed()))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(s.Address(), "0x"))
		assert.Len(t, s.Address(), 66, "0x plus 32 bytes of hex")
	})

	t.Run("FlaggedSeed", func(t *testing.T) {
		flagged := append([]byte{0x00}, testSeed()...)
		s, err := NewSignerFromKey(base64.StdEncoding.EncodeToString(flagged))
		require.NoError(t, err)

		raw, err := NewSignerFromKey(base64.StdEncoding.EncodeToString(testSeed()))
		require.NoError(t, err)
		assert.Equal(t, raw.Address(), s.Address(), "flag byte is stripped, same key")
	})

	t.Run("BadBase64", func(t *testing.T) {
		_, err := NewSignerFromKey("not base64 at all!!!")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrKeypairInit)
	})

	t.Run("WrongLength", func(t *testing.T) {
		_, err := NewSignerFromKey(base64.StdEncoding.EncodeToString([]byte("short")))
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrKeypairInit)
	})

	t.Run("UnsupportedScheme", func(t *testing.T) {
		flagged := append([]byte{0x01}, testSeed()...)
		_, err := NewSignerFromKey(base64.StdEncoding.EncodeToString(flagged))
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrKeypairInit)
	})
}

func TestNewSignerFromMnemonic(t *testing.T) {
	// Standard BIP-39 test vector mnemonic.
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	s, err := NewSignerFromMnemonic(mnemonic)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.Address(), "0x"))

	// Derivation is deterministic.
	again, err := NewSignerFromMnemonic(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), again.Address())

	_, err = NewSignerFromMnemonic("definitely not a valid mnemonic")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrKeypairInit)
}

func TestNewSignerPrecedence(t *testing.T) {
	_, err := NewSigner("", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrKeypairInit)

	key := base64.StdEncoding.EncodeToString(testSeed())
	s, err := NewSigner(key, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	require.NoError(t, err)

	fromKey, err := NewSignerFromKey(key)
	require.NoError(t, err)
	assert.Equal(t, fromKey.Address(), s.Address(), "private key wins over mnemonic")
}

func TestSignTransaction(t *testing.T) {
	s, err := NewSignerFromKey(base64.StdEncoding.EncodeToString(testSeed()))
	require.NoError(t, err)

	txBytes := base64.StdEncoding.EncodeToString([]byte("demo transaction bytes"))

	sig, err := s.SignTransaction(txBytes)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)
	require.Len(t, decoded, 97, "flag + 64-byte signature + 32-byte pubkey")
	assert.Equal(t, byte(0x00), decoded[0])

	// Same input, same signature (ed25519 is deterministic).
	sig2, err := s.SignTransaction(txBytes)
	require.NoError(t, err)
	assert.Equal(t, sig, sig2)

	_, err = s.SignTransaction("!!! not base64 !!!")
	require.Error(t, err)
}
