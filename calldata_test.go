package api

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCalldata(t *testing.T) {
	assert := assert.New(t)

	s := big.NewInt(12345)
	x := big.NewInt(5)
	p := []*big.Int{subModN(new(big.Int), big.NewInt(35)), big.NewInt(7)}
	proof, err := Prove(x, p, s)
	require.NoError(t, err)

	blob, err := EncodeCalldata(proof)
	require.NoError(t, err)
	assert.Len(blob, CALLDATA_LENGTH)
	assert.Equal(CalldataSelector(), blob[:4])
	assert.Equal(byte(CHALLENGE_VERSION), blob[4])

	// static fields come straight from the proof
	assert.Equal(uint256Bytes(proof.C.X), blob[5:37])
	assert.Equal(uint256Bytes(proof.W.X), blob[37:69])
	assert.Equal(uint256Bytes(proof.Z), blob[325:357])
	assert.Equal(uint256Bytes(proof.X), blob[357:389])
	a1 := pointAddress(proof.A1)
	a2 := pointAddress(proof.A2)
	assert.Equal(a1[:], blob[389:409])
	assert.Equal(a2[:], blob[409:429])
	assert.Equal(challengeParity(proof.C, proof.W), blob[429])

	// derived helper points
	X, err := pointBaseMult(proof.X)
	require.NoError(t, err)
	assert.Equal(uint256Bytes(X.X), blob[69:101])
	assert.Equal(uint256Bytes(X.Y), blob[101:133])

	// Hinv * (Px - Xx) = 1 mod P
	hinv := new(big.Int).SetBytes(blob[261:293])
	product := new(big.Int).Mul(hinv, new(big.Int).Sub(proof.P.X, X.X))
	assert.Equal(0, product.Mod(product, curveP).Cmp(bigOne))

	// Hinv2 * (zTx - eCx) = 1 mod P
	hinv2 := new(big.Int).SetBytes(blob[293:325])
	zTx := new(big.Int).SetBytes(blob[133:165])
	eCx := new(big.Int).SetBytes(blob[197:229])
	product2 := new(big.Int).Mul(hinv2, new(big.Int).Sub(zTx, eCx))
	assert.Equal(0, product2.Mod(product2, curveP).Cmp(bigOne))
}

func TestEncodeCalldataInvalidProof(t *testing.T) {
	assert := assert.New(t)

	s := big.NewInt(31337)
	x := big.NewInt(3)
	p := randomVanishingPoly(t, 4, x)
	proof, err := Prove(x, p, s)
	require.NoError(t, err)

	// push C off curve: derived fields are zero-filled, static fields kept
	bad := *proof
	bad.C = NewPoint(new(big.Int).Mod(new(big.Int).Add(proof.C.X, bigOne), curveP), proof.C.Y)
	blob, err := EncodeCalldata(&bad)
	require.NoError(t, err)
	assert.Len(blob, CALLDATA_LENGTH)
	assert.True(bytes.Equal(blob[69:325], make([]byte, 256)), "derived fields not zeroed")
	assert.Equal(uint256Bytes(bad.C.X), blob[5:37])

	_, err = EncodeCalldata(nil)
	assert.ErrorIs(err, ErrInvalidInput)
}
