package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTRoundTrip(t *testing.T) {
	assert := assert.New(t)

	sender, err := NewOTSender()
	require.NoError(t, err)

	choices, err := NewBitVectorFromBytes([]byte{0b0110}, 4)
	require.NoError(t, err)
	receiver, err := NewOTReceiver(sender.Params(), choices)
	require.NoError(t, err)

	pairs := make([]*OTMessagePair, 4)
	for i := range pairs {
		pairs[i] = &OTMessagePair{
			M0: keccak256([]byte{byte(i), 0}),
			M1: keccak256([]byte{byte(i), 1}),
		}
	}
	cts, err := sender.Encrypt(receiver.PublicKeys(), pairs)
	require.NoError(t, err)

	msgs, err := receiver.Decrypt(cts)
	require.NoError(t, err)
	for i, msg := range msgs {
		if choices.Bit(uint(i)) == 0 {
			assert.Equal(pairs[i].M0, msg, "ot %d", i)
		} else {
			assert.Equal(pairs[i].M1, msg, "ot %d", i)
		}
	}
}

func TestOTMACFailure(t *testing.T) {
	sender, err := NewOTSender()
	require.NoError(t, err)
	choices := NewBitVector(1)
	receiver, err := NewOTReceiver(sender.Params(), choices)
	require.NoError(t, err)

	pairs := []*OTMessagePair{{M0: make([]byte, 32), M1: make([]byte, 32)}}
	cts, err := sender.Encrypt(receiver.PublicKeys(), pairs)
	require.NoError(t, err)

	cts[0][0].Body[0] ^= 0xff
	_, err = receiver.Decrypt(cts)
	assert.ErrorIs(t, err, ErrMACFailed)
}

func TestOTVariableMessageLength(t *testing.T) {
	assert := assert.New(t)

	sender, err := NewOTSender()
	require.NoError(t, err)
	choices := NewBitVector(1)
	choices.SetBit(0, 1)
	receiver, err := NewOTReceiver(sender.Params(), choices)
	require.NoError(t, err)

	long := make([]byte, 120)
	for i := range long {
		long[i] = byte(i)
	}
	pairs := []*OTMessagePair{{M0: make([]byte, 120), M1: long}}
	cts, err := sender.Encrypt(receiver.PublicKeys(), pairs)
	require.NoError(t, err)
	msgs, err := receiver.Decrypt(cts)
	require.NoError(t, err)
	assert.Equal(long, msgs[0])
}

func TestOTLengthMismatch(t *testing.T) {
	sender, err := NewOTSender()
	require.NoError(t, err)
	choices := NewBitVector(2)
	receiver, err := NewOTReceiver(sender.Params(), choices)
	require.NoError(t, err)

	_, err = sender.Encrypt(receiver.PublicKeys(), []*OTMessagePair{{M0: nil, M1: nil}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
