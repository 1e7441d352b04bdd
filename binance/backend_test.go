package binance

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/txproto"
)

// Reference transfer: 1 BNB unit on the Nile testnet chain.
const (
	fixtureFrom    = "bnb1grpf0955h0ykzq3ar5nmum7y6gdfl6lxfn46h2"
	fixtureTo      = "bnb1hlly02l6ahjsgxw9wlcswnlwdhg4xhx38yxpd5"
	fixtureChainID = "Binance-Chain-Nile"

	fixtureDigest  = "3f3fece9059e714d303a9a1496ddade8f2c38fa78fc4cc2e505c5dbb0ea678d1"
	fixturePubKey  = "026a35920088d98c3888ca68c53dfc93f4564602606cbb87f0fe5ee533db38e502"
	fixtureSig     = "1b1181faec30b60a2ddaa2804c253cf264c69180ec31814929b5de62088c0c5a45e8a816d1208fc5366bb8b041781a6771248550d04094c3d7a504f9e8310679"
	fixturePrivKey = "95949f757db1f57ca94a5dff23314accbe7abee89597bf6a3c7382c84d7eb832"

	fixtureSignedTx = "b801f0625dee0a462a2c87fa0a1f0a1440c2979694bbc961023d1d27be6fc4d21a9febe612070a03424e421001121f0a14bffe47abfaede50419c577f1074fee6dd1535cd112070a03424e421001126a0a26eb5ae98721026a35920088d98c3888ca68c53dfc93f4564602606cbb87f0fe5ee533db38e50212401b1181faec30b60a2ddaa2804c253cf264c69180ec31814929b5de62088c0c5a45e8a816d1208fc5366bb8b041781a6771248550d04094c3d7a504f9e8310679"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func fixtureInput() *txproto.SigningInput {
	return &txproto.SigningInput{
		Coin:       uint32(coin.BinanceChain),
		From:       fixtureFrom,
		To:         fixtureTo,
		Amount:     "1",
		Asset:      "BNB",
		ChainParam: fixtureChainID,
	}
}

func TestDecodeAddress(t *testing.T) {
	keyHash, err := decodeAddress(fixtureFrom)
	require.NoError(t, err)
	assert.Equal(t, "40c2979694bbc961023d1d27be6fc4d21a9febe6", hex.EncodeToString(keyHash))

	_, err = decodeAddress("bc1qhkfq3zahaqkkzx5mjnamwjsfpq2jk7z00ppggv")
	assert.ErrorIs(t, err, coin.ErrInvalidAddress)
}

func TestBackend_PreImageHashes(t *testing.T) {
	out := Backend{}.PreImageHashes(fixtureInput())
	require.Equal(t, txproto.OK, out.Error, out.ErrorMessage)
	require.Len(t, out.Digests, 1)
	assert.Equal(t, fixtureDigest, hex.EncodeToString(out.Digests[0].Digest))
	assert.Empty(t, out.Digests[0].Identity)
}

func TestBackend_PreImageHashes_BadAddress(t *testing.T) {
	in := fixtureInput()
	in.To = "bnb1grpf0955h0ykzq3ar5nmum7y6gdfl6lxaaaaaa"
	out := Backend{}.PreImageHashes(in)
	assert.Equal(t, txproto.ErrorInvalidAddress, out.Error)
}

func TestBackend_Compile(t *testing.T) {
	out, err := Backend{}.Compile(fixtureInput(),
		[][]byte{mustHex(t, fixtureSig)},
		[][]byte{mustHex(t, fixturePubKey)})
	require.NoError(t, err)
	require.Equal(t, txproto.OK, out.Error, out.ErrorMessage)
	assert.Equal(t, fixtureSignedTx, hex.EncodeToString(out.Encoded))
}

func TestBackend_Compile_WrongPairCount(t *testing.T) {
	sig := mustHex(t, fixtureSig)
	pub := mustHex(t, fixturePubKey)
	out, err := Backend{}.Compile(fixtureInput(), [][]byte{sig, sig}, [][]byte{pub, pub})
	require.NoError(t, err)
	assert.Equal(t, txproto.ErrorInvalidParams, out.Error)
}

func TestBackend_Compile_MalformedPublicKey(t *testing.T) {
	_, err := Backend{}.Compile(fixtureInput(),
		[][]byte{mustHex(t, fixtureSig)},
		[][]byte{mustHex(t, fixtureDigest)}) // 32 bytes, not a key
	require.Error(t, err)
	assert.ErrorIs(t, err, coin.ErrInvalidPublicKey)
}

func TestBackend_Compile_WrongSignature(t *testing.T) {
	sig := mustHex(t, fixtureSig)
	sig[5] ^= 0x01
	out, err := Backend{}.Compile(fixtureInput(), [][]byte{sig}, [][]byte{mustHex(t, fixturePubKey)})
	require.NoError(t, err)
	assert.Equal(t, txproto.ErrorSigning, out.Error)
	assert.Empty(t, out.Encoded)
}

func TestBackend_Sign_MatchesCompile(t *testing.T) {
	in := fixtureInput()
	in.PrivateKeys = [][]byte{mustHex(t, fixturePrivKey)}
	out, err := Backend{}.Sign(in)
	require.NoError(t, err)
	require.Equal(t, txproto.OK, out.Error, out.ErrorMessage)
	assert.Equal(t, fixtureSignedTx, hex.EncodeToString(out.Encoded))
}

func TestBackend_BuildInput(t *testing.T) {
	in, err := Backend{}.BuildInput(fixtureFrom, fixtureTo, "1", "", "", fixtureChainID)
	require.NoError(t, err)
	assert.Equal(t, "BNB", in.Asset)
	assert.Equal(t, fixtureChainID, in.ChainParam)

	_, err = Backend{}.BuildInput(fixtureFrom, fixtureTo, "0", "", "", fixtureChainID)
	assert.ErrorIs(t, err, coin.ErrInvalidAmount)
}

func TestSignDocBytes_Canonical(t *testing.T) {
	doc, err := signDocBytes(fixtureChainID, fixtureFrom, fixtureTo, "BNB", 1, "", 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t,
		`{"account_number":"0","chain_id":"Binance-Chain-Nile","data":null,"memo":"","msgs":[{"inputs":[{"address":"bnb1grpf0955h0ykzq3ar5nmum7y6gdfl6lxfn46h2","coins":[{"amount":1,"denom":"BNB"}]}],"outputs":[{"address":"bnb1hlly02l6ahjsgxw9wlcswnlwdhg4xhx38yxpd5","coins":[{"amount":1,"denom":"BNB"}]}]}],"sequence":"0","source":"0"}`,
		string(doc))
}
