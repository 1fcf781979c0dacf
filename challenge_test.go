package api

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChallengePacking(t *testing.T) {
	assert := assert.New(t)

	cx := big.NewInt(101)
	wx := big.NewInt(102)
	px := big.NewInt(103)
	py := big.NewInt(104)
	x := big.NewInt(5)
	var a1, a2 [20]byte
	a1[0], a2[0] = 0xaa, 0xbb

	// the challenge is Keccak256 of the exact 202-byte packing, mod N
	input := make([]byte, 0, CHALLENGE_INPUT_LENGTH)
	input = append(input, 0x01)
	input = append(input, uint256Bytes(cx)...)
	input = append(input, uint256Bytes(wx)...)
	input = append(input, uint256Bytes(px)...)
	input = append(input, uint256Bytes(py)...)
	input = append(input, a1[:]...)
	input = append(input, a2[:]...)
	input = append(input, uint256Bytes(x)...)
	input = append(input, 0x03)
	assert.Len(input, CHALLENGE_INPUT_LENGTH)
	expected := new(big.Int).Mod(new(big.Int).SetBytes(keccak256(input)), curveN)

	e := buildChallenge(cx, wx, px, py, a1, a2, x, 0x03)
	assert.Equal(0, expected.Cmp(e))
}

func TestBuildChallengeSensitivity(t *testing.T) {
	assert := assert.New(t)

	var a1, a2 [20]byte
	base := buildChallenge(big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4), a1, a2, big.NewInt(5), 0)
	assert.NotEqual(0, base.Cmp(buildChallenge(big.NewInt(9), big.NewInt(2), big.NewInt(3), big.NewInt(4), a1, a2, big.NewInt(5), 0)))
	assert.NotEqual(0, base.Cmp(buildChallenge(big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4), a1, a2, big.NewInt(5), 1)))
	var other [20]byte
	other[19] = 1
	assert.NotEqual(0, base.Cmp(buildChallenge(big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4), other, a2, big.NewInt(5), 0)))
}

func TestChallengeParity(t *testing.T) {
	assert := assert.New(t)

	s, err := randomScalar()
	require.NoError(t, err)
	p, err := pointBaseMult(s)
	require.NoError(t, err)

	parity := challengeParity(basePoint(), p)
	expected := byte(basePoint().Y.Bit(0)) | byte(p.Y.Bit(0))<<1
	assert.Equal(expected, parity)
}
