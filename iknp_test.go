package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runIKNP(t *testing.T, n, k uint, choices *BitVector) (*IKNPReceiver, [][32]byte, [][32]byte) {
	t.Helper()
	recv, err := NewIKNPReceiver(n, k, choices)
	require.NoError(t, err)
	snd, err := NewIKNPSender(recv.BaseParams(), k)
	require.NoError(t, err)
	cts, err := recv.Round1(snd.BaseKeys())
	require.NoError(t, err)
	k0, k1, err := snd.Round2(cts, n)
	require.NoError(t, err)
	return recv, k0, k1
}

func TestIKNPExtension(t *testing.T) {
	assert := assert.New(t)

	// k=128 base OTs stretched to n=256 random OTs
	recv, k0, k1 := runIKNP(t, 256, 128, nil)

	choices := recv.Choices()
	keys := recv.Keys()
	for i := uint(0); i < 256; i++ {
		expected := k0[i]
		if choices.Bit(i) == 1 {
			expected = k1[i]
		}
		assert.Equal(expected, keys[i], "row %d", i)
		assert.NotEqual(k0[i], k1[i], "row %d key pair collapsed", i)
	}
}

func TestIKNPChosenChoices(t *testing.T) {
	assert := assert.New(t)

	choices, err := NewBitVectorFromBytes([]byte{0b10110100, 0b01}, 10)
	require.NoError(t, err)
	recv, k0, k1 := runIKNP(t, 10, 64, choices)

	keys := recv.Keys()
	for i := uint(0); i < 10; i++ {
		expected := k0[i]
		if choices.Bit(i) == 1 {
			expected = k1[i]
		}
		assert.Equal(expected, keys[i], "row %d", i)
	}
}

func TestIKNPChoiceLengthMismatch(t *testing.T) {
	choices := NewBitVector(5)
	_, err := NewIKNPReceiver(10, 64, choices)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
