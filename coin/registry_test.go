package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txforgeorg/libtxforge-go/txproto"
)

type stubBackend struct{ coin Coin }

func (s stubBackend) Coin() Coin { return s.coin }
func (s stubBackend) BuildInput(from, to, amount, asset, memo, chainParam string) (*txproto.SigningInput, error) {
	return &txproto.SigningInput{Coin: uint32(s.coin)}, nil
}
func (s stubBackend) PreImageHashes(*txproto.SigningInput) *txproto.PreSigningOutput {
	return &txproto.PreSigningOutput{}
}
func (s stubBackend) Compile(*txproto.SigningInput, [][]byte, [][]byte) (*txproto.SigningOutput, error) {
	return &txproto.SigningOutput{}, nil
}
func (s stubBackend) Sign(*txproto.SigningInput) (*txproto.SigningOutput, error) {
	return &txproto.SigningOutput{}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	// A coin id no chain package claims.
	const testCoin = Coin(0x7fffffff)
	Register(stubBackend{coin: testCoin})

	b, ok := Lookup(testCoin)
	require.True(t, ok)
	assert.Equal(t, testCoin, b.Coin())

	_, ok = Lookup(Coin(0x7ffffffe))
	assert.False(t, ok)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	const testCoin = Coin(0x7ffffff0)
	Register(stubBackend{coin: testCoin})
	assert.Panics(t, func() {
		Register(stubBackend{coin: testCoin})
	})
}

func TestCoin_String(t *testing.T) {
	assert.Equal(t, "bitcoin", Bitcoin.String())
	assert.Equal(t, "ethereum", Ethereum.String())
	assert.Equal(t, "binance", BinanceChain.String())
	assert.Equal(t, "unknown", Coin(12345).String())
}
