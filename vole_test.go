package api

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProveThresholdVOLE(t *testing.T) {
	assert := assert.New(t)

	s := big.NewInt(1029384756)
	x := big.NewInt(17)
	p := randomVanishingPoly(t, 12, x)

	shares, err := ShareSRS(3, 12, s)
	require.NoError(t, err)
	pub, err := pointBaseMult(s)
	require.NoError(t, err)

	proof, err := ProveThresholdVOLE(x, p, shares, pub)
	require.NoError(t, err)
	assert.True(proof.Verify())

	// byte-exactly the same transcript shape as the interactive variant
	interactive, err := ProveThreshold(x, p, shares, pub)
	require.NoError(t, err)
	assert.Equal(interactive.ToBytes(), proof.ToBytes())

	mutated := *proof
	mutated.Z = addModN(proof.Z, bigOne)
	assert.False(mutated.Verify())
}

func voleFixture(t *testing.T, numNodes int) (*big.Int, *Point, []*NodeAwaitingChallenge, []*Round1Share, *AggregatedChallenge) {
	t.Helper()
	s := big.NewInt(5646873)
	x := big.NewInt(23)
	p := randomVanishingPoly(t, 6, x)
	shares, err := ShareSRS(numNodes, 6, s)
	require.NoError(t, err)
	pub, err := pointBaseMult(s)
	require.NoError(t, err)

	states := make([]*NodeAwaitingChallenge, numNodes)
	round1 := make([]*Round1Share, numNodes)
	for i := 0; i < numNodes; i++ {
		states[i], round1[i], err = NewProverNode(i, shares[i]).Round1(x, p, pub)
		require.NoError(t, err)
	}
	dealer, err := NewThresholdDealer(x, pub, numNodes)
	require.NoError(t, err)
	_, agg, err := dealer.ReceiveShares(round1)
	require.NoError(t, err)
	return x, pub, states, round1, agg
}

func TestAggregateVOLERejectsDuplicateIndex(t *testing.T) {
	x, pub, states, round1, agg := voleFixture(t, 2)

	pool := &ROLEReceiverPool{samples: []*OLEReceiverSample{
		{Index: 0, X: agg.E, Y: big.NewInt(1)},
	}}
	sample := &OLESenderSample{Index: 0, A: big.NewInt(2), B: big.NewInt(3)}

	masked := make([]*VOLEShare, 2)
	var err error
	for i := range masked {
		masked[i], err = states[i].MaskedShare(round1[i], sample)
		require.NoError(t, err)
	}
	_, err = AggregateVOLE(x, pub, masked, pool)
	assert.ErrorIs(t, err, ErrDuplicateOLEIndex)
}

func TestAggregateVOLERejectsForeignEvaluation(t *testing.T) {
	x, pub, states, round1, agg := voleFixture(t, 1)

	// a sample evaluated at some x != e must be refused
	pool := &ROLEReceiverPool{samples: []*OLEReceiverSample{
		{Index: 0, X: addModN(agg.E, bigOne), Y: big.NewInt(1)},
	}}
	sample := &OLESenderSample{Index: 0, A: big.NewInt(2), B: big.NewInt(3)}
	masked, err := states[0].MaskedShare(round1[0], sample)
	require.NoError(t, err)

	_, err = AggregateVOLE(x, pub, []*VOLEShare{masked}, pool)
	assert.ErrorIs(t, err, ErrChallengeMismatch)
}

func TestMaskedShareReconstruction(t *testing.T) {
	assert := assert.New(t)

	x, pub, states, round1, agg := voleFixture(t, 2)

	// trusted samples evaluated at the challenge reproduce the
	// interactive responses exactly
	samples := make([]*OLESenderSample, 2)
	receiver := &ROLEReceiverPool{samples: make([]*OLEReceiverSample, 2)}
	for i := range samples {
		a, err := randomScalar()
		require.NoError(t, err)
		b, err := randomScalar()
		require.NoError(t, err)
		samples[i] = &OLESenderSample{Index: i, A: a, B: b}
		receiver.samples[i] = &OLEReceiverSample{Index: i, X: agg.E, Y: addModN(mulModN(a, agg.E), b)}
	}

	masked := make([]*VOLEShare, 2)
	zs := make([]*big.Int, 2)
	for i := range masked {
		var err error
		masked[i], err = states[i].MaskedShare(round1[i], samples[i])
		require.NoError(t, err)
		zs[i], err = states[i].Round2(agg)
		require.NoError(t, err)
	}

	proof, err := AggregateVOLE(x, pub, masked, receiver)
	require.NoError(t, err)
	assert.True(proof.Verify())
	assert.Equal(0, proof.Z.Cmp(addModN(zs[0], zs[1])))
}
