package api

import "math/big"

// Round1Share is the broadcast of one threshold node: its additive
// contribution to the commitment, witness and Schnorr commitments.
type Round1Share struct {
	Index int
	C     *Point
	W     *Point
	A1    *Point
	A2    *Point
}

// AggregatedChallenge is what the aggregator sends back after the Round 1
// barrier: the summed points and the Fiat-Shamir challenge over them.
// Nodes recompute E locally before releasing a response.
type AggregatedChallenge struct {
	C  *Point
	W  *Point
	A1 *Point
	A2 *Point
	E  *big.Int
}

// VOLEShare is the single message of the masked one-round variant. DeltaW
// and DeltaK are the node's secrets offset by a fresh OLE sample (a, b);
// the aggregator recovers z_i through the receiver side of that sample.
type VOLEShare struct {
	Index    int
	C        *Point
	W        *Point
	A1       *Point
	A2       *Point
	DeltaW   *big.Int
	DeltaK   *big.Int
	OLEIndex int
}

// OLESenderSample is the sender view (a, b) of one OLE correlation.
type OLESenderSample struct {
	Index int
	A     *big.Int
	B     *big.Int
}

// OLEReceiverSample is the receiver view (x, y) with y = a*x + b mod N.
type OLEReceiverSample struct {
	Index int
	X     *big.Int
	Y     *big.Int
}
