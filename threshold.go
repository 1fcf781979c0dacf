package api

import (
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// ProverNode holds one additive share row sigma = [s_{i,0}, ..., s_{i,d}]
// of the scalar reference string. Column-wise the rows sum to [s^0, ..., s^d].
type ProverNode struct {
	Index int
	Sigma []*big.Int
}

func NewProverNode(index int, sigma []*big.Int) *ProverNode {
	return &ProverNode{Index: index, Sigma: sigma}
}

// NodeAwaitingChallenge carries the node secrets between rounds: the nonce
// and witness share never leave the node.
type NodeAwaitingChallenge struct {
	Index  int
	x      *big.Int
	pub    *Point
	wShare *big.Int
	k      *big.Int
}

// Round1 computes the node's share of the commitment and witness along with
// its Schnorr commitments. The returned share is broadcast; the returned
// state stays private.
func (n *ProverNode) Round1(x *big.Int, coeffs []*big.Int, pub *Point) (*NodeAwaitingChallenge, *Round1Share, error) {
	if !scalarInRange(x) {
		return nil, nil, fmt.Errorf("node %d evaluation point out of range: %w", n.Index, ErrInvalidInput)
	}
	if err := validatePoint(pub); err != nil {
		return nil, nil, err
	}
	p := normalizeCoeffs(coeffs)
	if len(p) > len(n.Sigma) {
		return nil, nil, fmt.Errorf("node %d polynomial of %d terms with share row of %d: %w", n.Index, len(p), len(n.Sigma), ErrLengthMismatch)
	}
	q, err := polyDivByLinear(p, x)
	if err != nil {
		return nil, nil, err
	}
	psShare := innerProductModN(p, n.Sigma)
	wShare := innerProductModN(q, n.Sigma)

	C, err := pointBaseMult(psShare)
	if err != nil {
		return nil, nil, err
	}
	W, err := pointBaseMult(wShare)
	if err != nil {
		return nil, nil, err
	}
	T, err := dleqBase(pub, x)
	if err != nil {
		return nil, nil, err
	}

	k := deterministicNonce(wShare, x, pub.X, pub.Y, C.X, W.X)
	A1, err := pointBaseMult(k)
	if err != nil {
		return nil, nil, err
	}
	A2, err := pointScalarMult(T, k)
	if err != nil {
		return nil, nil, err
	}

	state := &NodeAwaitingChallenge{Index: n.Index, x: new(big.Int).Set(x), pub: pub.Clone(), wShare: wShare, k: k}
	share := &Round1Share{Index: n.Index, C: C, W: W, A1: A1, A2: A2}
	return state, share, nil
}

// Round2 releases the response z_i = k_i + e*w_i. The node recomputes the
// challenge from the aggregated points and refuses on mismatch.
func (n *NodeAwaitingChallenge) Round2(agg *AggregatedChallenge) (*big.Int, error) {
	for _, p := range []*Point{agg.C, agg.W, agg.A1, agg.A2} {
		if err := validatePoint(p); err != nil {
			return nil, err
		}
	}
	e := challengeForPoints(agg.C, agg.W, n.pub, agg.A1, agg.A2, n.x)
	if e.Cmp(agg.E) != 0 {
		return nil, fmt.Errorf("node %d refuses response: %w", n.Index, ErrChallengeMismatch)
	}
	return addModN(n.k, mulModN(e, n.wShare)), nil
}

// DealerAwaitingShares is the aggregator before the Round 1 barrier.
type DealerAwaitingShares struct {
	x        *big.Int
	pub      *Point
	numNodes int
}

func NewThresholdDealer(x *big.Int, pub *Point, numNodes int) (*DealerAwaitingShares, error) {
	if numNodes < 1 {
		return nil, fmt.Errorf("dealer with %d nodes: %w", numNodes, ErrInvalidInput)
	}
	if !scalarInRange(x) {
		return nil, fmt.Errorf("dealer evaluation point out of range: %w", ErrInvalidInput)
	}
	if err := validatePoint(pub); err != nil {
		return nil, err
	}
	return &DealerAwaitingShares{x: new(big.Int).Set(x), pub: pub.Clone(), numNodes: numNodes}, nil
}

// ReceiveShares sums the Round 1 broadcasts and derives the challenge. Point
// sums are commutative, so share order does not matter.
func (d *DealerAwaitingShares) ReceiveShares(shares []*Round1Share) (*DealerAwaitingResponses, *AggregatedChallenge, error) {
	if len(shares) != d.numNodes {
		return nil, nil, fmt.Errorf("dealer got %d of %d shares: %w", len(shares), d.numNodes, ErrLengthMismatch)
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
		return nil, nil, err
	}
	W, err := sumPoints(ws)
	if err != nil {
		return nil, nil, err
	}
	A1, err := sumPoints(a1s)
	if err != nil {
		return nil, nil, err
	}
	A2, err := sumPoints(a2s)
	if err != nil {
		return nil, nil, err
	}
	e := challengeForPoints(C, W, d.pub, A1, A2, d.x)
	agg := &AggregatedChallenge{C: C, W: W, A1: A1, A2: A2, E: e}
	logger.Debug().Int("nodes", d.numNodes).Msg("aggregated round 1 shares")
	return &DealerAwaitingResponses{x: d.x, pub: d.pub, agg: agg}, agg, nil
}

// DealerAwaitingResponses is the aggregator after broadcasting the challenge.
type DealerAwaitingResponses struct {
	x   *big.Int
	pub *Point
	agg *AggregatedChallenge
}

// ReceiveResponses folds the node responses into the final proof.
func (d *DealerAwaitingResponses) ReceiveResponses(zs []*big.Int) (*DLEQProof, error) {
	if len(zs) == 0 {
		return nil, fmt.Errorf("dealer got no responses: %w", ErrLengthMismatch)
	}
	z := new(big.Int)
	for _, zi := range zs {
		if zi == nil {
			return nil, fmt.Errorf("nil response: %w", ErrInvalidInput)
		}
		z = addModN(z, zi)
	}
	return &DLEQProof{
		C:  d.agg.C,
		W:  d.agg.W,
		P:  d.pub,
		A1: d.agg.A1,
		A2: d.agg.A2,
		X:  new(big.Int).Set(d.x),
		Z:  z,
	}, nil
}

// PublicPointForShares recovers P = s*G from the share rows without
// reconstructing s, as the sum of the per-node s_{i,1}*G points.
func PublicPointForShares(shares [][]*big.Int) (*Point, error) {
	points := make([]*Point, len(shares))
	for i, sigma := range shares {
		if len(sigma) < 2 {
			return nil, fmt.Errorf("share row %d too short: %w", i, ErrLengthMismatch)
		}
		p, err := pointBaseMult(sigma[1])
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return sumPoints(points)
}

// ProveThreshold runs the full two-round session in process: Round 1 fans
// out across the nodes, aggregation is the barrier, Round 2 collects the
// responses.
func ProveThreshold(x *big.Int, coeffs []*big.Int, shares [][]*big.Int, pub *Point) (*DLEQProof, error) {
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

	next, agg, err := dealer.ReceiveShares(round1)
	if err != nil {
		return nil, err
	}
	zs := make([]*big.Int, numNodes)
	for i, state := range states {
		if zs[i], err = state.Round2(agg); err != nil {
			return nil, err
		}
	}
	return next.ReceiveResponses(zs)
}
