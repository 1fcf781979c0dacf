package api

import (
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// One-round VOLE-masked threshold proving. A node offsets its witness share
// and nonce by a fresh OLE sample (a, b) and sends everything in a single
// message; the aggregator reconstructs z_i through the receiver view
// (e, y = a*e + b) of the same sample. Reusing a sample for a second
// challenge leaks (a, b) and with it (w, k), so every sample is single-use.

// MaskedShare turns a Round 1 state and its broadcast into the one-round
// VOLE message: DeltaW = w - a, DeltaK = k - b.
func (n *NodeAwaitingChallenge) MaskedShare(r1 *Round1Share, sample *OLESenderSample) (*VOLEShare, error) {
	if r1 == nil || sample == nil || sample.A == nil || sample.B == nil {
		return nil, fmt.Errorf("masked share inputs: %w", ErrInvalidInput)
	}
	if r1.Index != n.Index {
		return nil, fmt.Errorf("masked share for node %d with broadcast of %d: %w", n.Index, r1.Index, ErrInvalidInput)
	}
	return &VOLEShare{
		Index:    n.Index,
		C:        r1.C,
		W:        r1.W,
		A1:       r1.A1,
		A2:       r1.A2,
		DeltaW:   subModN(n.wShare, sample.A),
		DeltaK:   subModN(n.k, sample.B),
		OLEIndex: sample.Index,
	}, nil
}

// AggregateVOLE sums the masked shares, derives the challenge and rebuilds
// z = sum_i (y_i + e*DeltaW_i + DeltaK_i). Every share must reference a
// distinct OLE sample whose receiver input equals the challenge.
func AggregateVOLE(x *big.Int, pub *Point, shares []*VOLEShare, pool *ROLEReceiverPool) (*DLEQProof, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("no VOLE shares: %w", ErrLengthMismatch)
	}
	if !scalarInRange(x) {
		return nil, fmt.Errorf("VOLE evaluation point out of range: %w", ErrInvalidInput)
	}
	if err := validatePoint(pub); err != nil {
		return nil, err
	}
	cs := make([]*Point, len(shares))
	ws := make([]*Point, len(shares))
	a1s := make([]*Point, len(shares))
	a2s := make([]*Point, len(shares))
	for i, share := range shares {
		cs[i], ws[i], a1s[i], a2s[i] = share.C, share.W, share.A1, share.A2
	}
	C, err := sumPoints(cs)
	if err != nil {
		return nil, err
	}
	W, err := sumPoints(ws)
	if err != nil {
		return nil, err
	}
	A1, err := sumPoints(a1s)
	if err != nil {
		return nil, err
	}
	A2, err := sumPoints(a2s)
	if err != nil {
		return nil, err
	}
	e := challengeForPoints(C, W, pub, A1, A2, x)

	z := new(big.Int)
	seen := make(map[int]bool, len(shares))
	for _, share := range shares {
		if share.DeltaW == nil || share.DeltaK == nil {
			return nil, fmt.Errorf("VOLE share %d deltas: %w", share.Index, ErrInvalidInput)
		}
		if seen[share.OLEIndex] {
			return nil, fmt.Errorf("VOLE share %d reuses sample %d: %w", share.Index, share.OLEIndex, ErrDuplicateOLEIndex)
		}
		seen[share.OLEIndex] = true
		sample, err := pool.SampleAt(share.OLEIndex)
		if err != nil {
			return nil, err
		}
		if sample.X.Cmp(e) != 0 {
			return nil, fmt.Errorf("VOLE sample %d evaluated away from the challenge: %w", share.OLEIndex, ErrChallengeMismatch)
		}
		zi := addModN(sample.Y, addModN(mulModN(e, share.DeltaW), share.DeltaK))
		z = addModN(z, zi)
	}
	logger.Debug().Int("nodes", len(shares)).Msg("aggregated VOLE shares")
	return &DLEQProof{C: C, W: W, P: pub.Clone(), A1: A1, A2: A2, X: new(big.Int).Set(x), Z: z}, nil
}

// ProveThresholdVOLE runs the full masked session in process: Round 1 fans
// out, the challenge fixes the OLE inputs, and the chosen-input extension
// supplies one sample per node.
func ProveThresholdVOLE(x *big.Int, coeffs []*big.Int, shares [][]*big.Int, pub *Point) (*DLEQProof, error) {
	numNodes := len(shares)
	dealer, err := NewThresholdDealer(x, pub, numNodes)
	if err != nil {
		return nil, err
	}

	states := make([]*NodeAwaitingChallenge, numNodes)
	round1 := make([]*Round1Share, numNodes)
	var g errgroup.Group
	for i := 0; i < numNodes; i++ {
		i := i
		g.Go(func() error {
			node := NewProverNode(i, shares[i])
			state, share, err := node.Round1(x, coeffs, pub)
			if err != nil {
				return err
			}
			states[i], round1[i] = state, share
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	_, agg, err := dealer.ReceiveShares(round1)
	if err != nil {
		return nil, err
	}

	params := &ROLEParams{NumOLEs: numNodes, BitLength: 256, K: DEFAULT_SECURITY_PARAM}
	inputs := make([]*big.Int, numNodes)
	for i := range inputs {
		inputs[i] = agg.E
	}
	senderPool, receiverPool, err := RoleExtendChosen(params, inputs)
	if err != nil {
		return nil, err
	}

	masked := make([]*VOLEShare, numNodes)
	for i, state := range states {
		sample, err := senderPool.Next()
		if err != nil {
			return nil, err
		}
		if masked[i], err = state.MaskedShare(round1[i], sample); err != nil {
			return nil, err
		}
	}
	return AggregateVOLE(x, pub, masked, receiverPool)
}
