package api

import "math/big"

// challengeParity packs the y-parities of C and W into one byte:
// bit 0 is Cy&1, bit 1 is Wy&1.
func challengeParity(c, w *Point) byte {
	return byte(c.Y.Bit(0)) | byte(w.Y.Bit(0))<<1
}

// buildChallenge derives the Fiat-Shamir challenge e from the exact
// 202-byte packing
//
//	0x01 || Cx || Wx || Px || Py || A1addr || A2addr || x || parity
//
// with 32-byte big-endian coordinates and scalars and 20-byte addresses.
// The on-chain verifier recomputes the same digest from calldata, so the
// layout must not drift.
func buildChallenge(cx, wx, px, py *big.Int, a1addr, a2addr [20]byte, x *big.Int, parity byte) *big.Int {
	input := make([]byte, 0, CHALLENGE_INPUT_LENGTH)
	input = append(input, CHALLENGE_VERSION)
	input = append(input, uint256Bytes(cx)...)
	input = append(input, uint256Bytes(wx)...)
	input = append(input, uint256Bytes(px)...)
	input = append(input, uint256Bytes(py)...)
	input = append(input, a1addr[:]...)
	input = append(input, a2addr[:]...)
	input = append(input, uint256Bytes(x)...)
	input = append(input, parity)

	e := new(big.Int).SetBytes(keccak256(input))
	return e.Mod(e, curveN)
}

// challengeForPoints applies buildChallenge to a transcript of proof points.
func challengeForPoints(c, w, p, a1, a2 *Point, x *big.Int) *big.Int {
	return buildChallenge(c.X, w.X, p.X, p.Y, pointAddress(a1), pointAddress(a2), x, challengeParity(c, w))
}
