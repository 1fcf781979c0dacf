package api

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointArithmetic(t *testing.T) {
	assert := assert.New(t)

	G := basePoint()
	assert.Nil(validatePoint(G))

	two := big.NewInt(2)
	doubled, err := pointScalarMult(G, two)
	require.NoError(t, err)
	added, err := pointAdd(G, G)
	require.NoError(t, err)
	assert.True(doubled.Equal(added))

	back, err := pointSub(added, G)
	require.NoError(t, err)
	assert.True(back.Equal(G))

	// G - G is the point at infinity and must fail.
	_, err = pointSub(G, G)
	assert.ErrorIs(err, ErrInvalidInput)

	// Scalar multiples reduce mod N, so k = N acts like zero.
	_, err = pointBaseMult(new(big.Int).Set(curveN))
	assert.ErrorIs(err, ErrInvalidInput)
}

func TestValidatePointRejectsOutOfRange(t *testing.T) {
	assert := assert.New(t)

	G := basePoint()
	bad := NewPoint(new(big.Int).Add(G.X, curveP), G.Y)
	assert.ErrorIs(validatePoint(bad), ErrInvalidInput)

	offCurve := NewPoint(G.X, new(big.Int).Add(G.Y, bigOne))
	assert.ErrorIs(validatePoint(offCurve), ErrInvalidInput)

	assert.ErrorIs(validatePoint(NewPoint(new(big.Int), new(big.Int))), ErrInvalidInput)
}

func TestECDHSymmetry(t *testing.T) {
	assert := assert.New(t)

	a, err := randomScalar()
	require.NoError(t, err)
	b, err := randomScalar()
	require.NoError(t, err)

	A, err := pointBaseMult(a)
	require.NoError(t, err)
	B, err := pointBaseMult(b)
	require.NoError(t, err)

	left, err := ecdh(a, B)
	require.NoError(t, err)
	right, err := ecdh(b, A)
	require.NoError(t, err)
	assert.Equal(left, right)
	assert.Len(left, 32)
}

func TestECAddress(t *testing.T) {
	assert := assert.New(t)

	G := basePoint()
	addr := pointAddress(G)
	digest := keccak256(uint256Bytes(G.X), uint256Bytes(G.Y))
	assert.Equal(digest[12:], addr[:])
}

func TestDeterministicNonce(t *testing.T) {
	assert := assert.New(t)

	w := big.NewInt(7)
	x := big.NewInt(5)
	var addr [20]byte
	addr[19] = 1

	k1 := deterministicNonce(w, x, addr, "context")
	k2 := deterministicNonce(w, x, addr, "context")
	assert.Equal(0, k1.Cmp(k2))
	assert.True(scalarInRange(k1))

	k3 := deterministicNonce(w, x, addr, "other")
	assert.NotEqual(0, k1.Cmp(k3))

	k4 := deterministicNonce(big.NewInt(8), x, addr, "context")
	assert.NotEqual(0, k1.Cmp(k4))
}

func TestHKDFKeccak(t *testing.T) {
	assert := assert.New(t)

	okm1, err := hkdfKeccak([]byte("secret"), nil, []byte(OT_KEY_DERIVATION_INFO), 64)
	require.NoError(t, err)
	okm2, err := hkdfKeccak([]byte("secret"), nil, []byte(OT_KEY_DERIVATION_INFO), 64)
	require.NoError(t, err)
	assert.Equal(okm1, okm2)
	assert.Len(okm1, 64)

	okm3, err := hkdfKeccak([]byte("secret"), nil, []byte("other-info"), 64)
	require.NoError(t, err)
	assert.NotEqual(okm1, okm3)
}
