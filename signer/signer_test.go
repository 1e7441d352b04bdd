package signer

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/compiler"
	"github.com/txforgeorg/libtxforge-go/txproto"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestSign_MatchesExternalSigning checks that the one-step path and the
// staged preimage/compile path produce identical bytes for every chain.
func TestSign_MatchesExternalSigning(t *testing.T) {
	t.Run("binance", func(t *testing.T) {
		inputData, err := compiler.BuildInput(coin.BinanceChain,
			"bnb1grpf0955h0ykzq3ar5nmum7y6gdfl6lxfn46h2",
			"bnb1hlly02l6ahjsgxw9wlcswnlwdhg4xhx38yxpd5",
			"1", "BNB", "", "Binance-Chain-Nile")
		require.NoError(t, err)

		staged, err := compiler.CompileWithSignatures(coin.BinanceChain, inputData,
			[][]byte{mustHex(t, "1b1181faec30b60a2ddaa2804c253cf264c69180ec31814929b5de62088c0c5a45e8a816d1208fc5366bb8b041781a6771248550d04094c3d7a504f9e8310679")},
			[][]byte{mustHex(t, "026a35920088d98c3888ca68c53dfc93f4564602606cbb87f0fe5ee533db38e502")})
		require.NoError(t, err)

		var in txproto.SigningInput
		require.NoError(t, in.Unmarshal(inputData))
		in.PrivateKeys = [][]byte{mustHex(t, "95949f757db1f57ca94a5dff23314accbe7abee89597bf6a3c7382c84d7eb832")}
		direct, err := Sign(coin.BinanceChain, in.Marshal())
		require.NoError(t, err)

		assertSameEncoded(t, staged, direct)
	})

	t.Run("ethereum", func(t *testing.T) {
		in := &txproto.SigningInput{
			Coin:     uint32(coin.Ethereum),
			From:     "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F",
			To:       "0x3535353535353535353535353535353535353535",
			Amount:   "1000000000000000000",
			Nonce:    []byte{0x0b},
			GasPrice: mustHex(t, "04a817c800"),
			GasLimit: mustHex(t, "5208"),
		}
		staged, err := compiler.CompileWithSignatures(coin.Ethereum, in.Marshal(),
			[][]byte{mustHex(t, "360a84fb41ad07f07c845fedc34cde728421803ebbaae392fc39c116b29fc07b53bd9d1376e15a191d844db458893b928f3efbfee90c9febf51ab84c9796677900")},
			[][]byte{mustHex(t, "044bc2a31265153f07e70e0bab08724e6b85e217f8cd628ceb62974247bb493382ce28cab79ad7119ee1ad3ebcdb98a16805211530ecc6cfefa1b88e6dff99232a")})
		require.NoError(t, err)

		in.PrivateKeys = [][]byte{bytes.Repeat([]byte{0x46}, 32)}
		direct, err := Sign(coin.Ethereum, in.Marshal())
		require.NoError(t, err)

		assertSameEncoded(t, staged, direct)
	})
}

func assertSameEncoded(t *testing.T, stagedData, directData []byte) {
	t.Helper()
	var staged, direct txproto.SigningOutput
	require.NoError(t, staged.Unmarshal(stagedData))
	require.NoError(t, direct.Unmarshal(directData))
	require.Equal(t, txproto.OK, staged.Error, staged.ErrorMessage)
	require.Equal(t, txproto.OK, direct.Error, direct.ErrorMessage)
	require.NotEmpty(t, staged.Encoded)
	assert.Equal(t, hex.EncodeToString(staged.Encoded), hex.EncodeToString(direct.Encoded))
}

func TestSign_UnsupportedCoin(t *testing.T) {
	data, err := Sign(coin.Coin(999999), nil)
	require.NoError(t, err)
	var out txproto.SigningOutput
	require.NoError(t, out.Unmarshal(data))
	assert.Equal(t, txproto.ErrorUnsupportedCoin, out.Error)
}
