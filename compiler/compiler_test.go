package compiler

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/txproto"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestPipeline_Binance drives a Beacon Chain transfer through all four
// stages over serialized records, the way a remote caller would.
func TestPipeline_Binance(t *testing.T) {
	inputData, err := BuildInput(coin.BinanceChain,
		"bnb1grpf0955h0ykzq3ar5nmum7y6gdfl6lxfn46h2",
		"bnb1hlly02l6ahjsgxw9wlcswnlwdhg4xhx38yxpd5",
		"1", "BNB", "", "Binance-Chain-Nile")
	require.NoError(t, err)

	var pre txproto.PreSigningOutput
	require.NoError(t, pre.Unmarshal(PreImageHashes(coin.BinanceChain, inputData)))
	require.Equal(t, txproto.OK, pre.Error, pre.ErrorMessage)
	require.Len(t, pre.Digests, 1)
	assert.Equal(t,
		"3f3fece9059e714d303a9a1496ddade8f2c38fa78fc4cc2e505c5dbb0ea678d1",
		hex.EncodeToString(pre.Digests[0].Digest))

	// Signature produced outside the library against the reported digest.
	sig := mustHex(t, "1b1181faec30b60a2ddaa2804c253cf264c69180ec31814929b5de62088c0c5a45e8a816d1208fc5366bb8b041781a6771248550d04094c3d7a504f9e8310679")
	pub := mustHex(t, "026a35920088d98c3888ca68c53dfc93f4564602606cbb87f0fe5ee533db38e502")

	outData, err := CompileWithSignatures(coin.BinanceChain, inputData, [][]byte{sig}, [][]byte{pub})
	require.NoError(t, err)
	var out txproto.SigningOutput
	require.NoError(t, out.Unmarshal(outData))
	require.Equal(t, txproto.OK, out.Error, out.ErrorMessage)
	assert.Equal(t,
		"b801f0625dee0a462a2c87fa0a1f0a1440c2979694bbc961023d1d27be6fc4d21a9febe612070a03424e421001121f0a14bffe47abfaede50419c577f1074fee6dd1535cd112070a03424e421001126a0a26eb5ae98721026a35920088d98c3888ca68c53dfc93f4564602606cbb87f0fe5ee533db38e50212401b1181faec30b60a2ddaa2804c253cf264c69180ec31814929b5de62088c0c5a45e8a816d1208fc5366bb8b041781a6771248550d04094c3d7a504f9e8310679",
		hex.EncodeToString(out.Encoded))
}

// TestPipeline_Bitcoin exercises plan, preimage and compile with a
// caller-declared UTXO set.
func TestPipeline_Bitcoin(t *testing.T) {
	inputData, err := BuildInput(coin.Bitcoin,
		"bc1qhkfq3zahaqkkzx5mjnamwjsfpq2jk7z00ppggv",
		"bc1q2dsdlq3343vk29runkgv4yc292hmq53jedfjmp",
		"1200000", "", "", "")
	require.NoError(t, err)

	var in txproto.SigningInput
	require.NoError(t, in.Unmarshal(inputData))
	in.Utxos = []txproto.Utxo{
		{
			OutPoint: txproto.OutPoint{
				Hash:     mustHex(t, "07c42b969286be06fae38528c85f0a1ce508d4df837eb5ac4cf5f2a7a9d65fa8"),
				Sequence: 0xffffffff,
			},
			Script: mustHex(t, "0014bd92088bb7e82d611a9b94fbb74a0908152b784f"),
			Amount: 600000,
		},
		{
			OutPoint: txproto.OutPoint{
				Hash:     mustHex(t, "d6892a5aa54e3b8fe430efd23f49a8950733aaa9d7c915d9989179f48dd1905e"),
				Index:    1,
				Sequence: 0xffffffff,
			},
			Script: mustHex(t, "0014bd92088bb7e82d611a9b94fbb74a0908152b784f"),
			Amount: 500000,
		},
		{
			OutPoint: txproto.OutPoint{
				Hash:     mustHex(t, "6021efcf7555f90627364339fc921139dd40a06ccb2cb2a2a4f8f4ea7a2dc74d"),
				Sequence: 0xffffffff,
			},
			Script: mustHex(t, "00146641abedacf9483b793afe1718689cc9420bbb1c"),
			Amount: 400000,
		},
	}
	inputData = in.Marshal()

	var plan txproto.TransactionPlan
	require.NoError(t, plan.Unmarshal(Plan(coin.Bitcoin, inputData)))
	require.Equal(t, txproto.OK, plan.Error)
	assert.Equal(t, uint64(277), plan.Fee)
	assert.Equal(t, uint64(299723), plan.Change)

	var pre txproto.PreSigningOutput
	require.NoError(t, pre.Unmarshal(PreImageHashes(coin.Bitcoin, inputData)))
	require.Equal(t, txproto.OK, pre.Error, pre.ErrorMessage)
	require.Len(t, pre.Digests, 3)

	// Each digest names the identity that must sign it.
	assert.Equal(t, "6641abedacf9483b793afe1718689cc9420bbb1c", hex.EncodeToString(pre.Digests[0].Identity))
	assert.Equal(t, "bd92088bb7e82d611a9b94fbb74a0908152b784f", hex.EncodeToString(pre.Digests[1].Identity))
}

func TestBuildInput_UnsupportedCoin(t *testing.T) {
	_, err := BuildInput(coin.Coin(999999), "a", "b", "1", "", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, coin.ErrUnsupportedCoin)
}

func TestPreImageHashes_UnsupportedCoin(t *testing.T) {
	var out txproto.PreSigningOutput
	require.NoError(t, out.Unmarshal(PreImageHashes(coin.Coin(999999), nil)))
	assert.Equal(t, txproto.ErrorUnsupportedCoin, out.Error)
}

func TestCompileWithSignatures_UnsupportedCoin(t *testing.T) {
	data, err := CompileWithSignatures(coin.Coin(999999), nil, nil, nil)
	require.NoError(t, err)
	var out txproto.SigningOutput
	require.NoError(t, out.Unmarshal(data))
	assert.Equal(t, txproto.ErrorUnsupportedCoin, out.Error)
	assert.Empty(t, out.Encoded)
}

func TestPlan_NonUtxoCoin(t *testing.T) {
	var plan txproto.TransactionPlan
	require.NoError(t, plan.Unmarshal(Plan(coin.Ethereum, (&txproto.SigningInput{}).Marshal())))
	assert.Equal(t, txproto.ErrorUnsupportedCoin, plan.Error)
}
