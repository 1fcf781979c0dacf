package api

import (
	"fmt"
	"math/big"
)

// DLEQProof shows that the committed polynomial behind C vanishes at x: W is
// the quotient witness and (A1, A2, z) is a Schnorr argument that
// log_G(W) = log_T(C) with T = P - x*G.
type DLEQProof struct {
	C  *Point
	W  *Point
	P  *Point
	A1 *Point
	A2 *Point
	X  *big.Int
	Z  *big.Int
}

// Prove commits to the polynomial with the trusted-setup scalar s and proves
// p(x) = 0 with a deterministic nonce.
func Prove(x *big.Int, coeffs []*big.Int, s *big.Int) (*DLEQProof, error) {
	return prove(x, coeffs, s, nil, false)
}

// ProveWithRNG is Prove with a uniform nonce from the CSPRNG.
func ProveWithRNG(x *big.Int, coeffs []*big.Int, s *big.Int) (*DLEQProof, error) {
	return prove(x, coeffs, s, nil, true)
}

// ProveWithSRS computes the commitment and witness through the reference
// string multiscalar path instead of direct exponent evaluation.
func ProveWithSRS(x *big.Int, coeffs []*big.Int, s *big.Int, srs *SRS) (*DLEQProof, error) {
	if srs == nil {
		return nil, fmt.Errorf("nil SRS: %w", ErrInvalidInput)
	}
	return prove(x, coeffs, s, srs, false)
}

func prove(x *big.Int, coeffs []*big.Int, s *big.Int, srs *SRS, randomNonce bool) (*DLEQProof, error) {
	if !scalarInRange(x) {
		return nil, fmt.Errorf("evaluation point out of range: %w", ErrInvalidInput)
	}
	p := normalizeCoeffs(coeffs)
	if polyEval(p, x).Sign() != 0 {
		return nil, fmt.Errorf("prove at x: %w", ErrPolynomialNonZero)
	}
	sm := reduceModN(s)
	if sm.Sign() == 0 {
		return nil, fmt.Errorf("trusted-setup scalar is zero: %w", ErrDegenerateSetup)
	}
	if sm.Cmp(x) == 0 {
		return nil, fmt.Errorf("trusted-setup scalar equals evaluation point: %w", ErrDegenerateSetup)
	}

	q, err := polyDivByLinear(p, x)
	if err != nil {
		return nil, err
	}
	ps := polyEval(p, sm)
	qs := polyEval(q, sm)
	if ps.Sign() == 0 || qs.Sign() == 0 {
		return nil, fmt.Errorf("polynomial vanishes at the setup point: %w", ErrDegenerateSetup)
	}

	var C, W *Point
	if srs != nil {
		if len(p) > srs.Len() {
			return nil, fmt.Errorf("prove degree %d with SRS of %d: %w", len(p)-1, srs.Len(), ErrDegreeExceedsSRS)
		}
		if C, err = srs.Commit(p); err != nil {
			return nil, err
		}
		if W, err = srs.Commit(q); err != nil {
			return nil, err
		}
	} else {
		if C, err = pointBaseMult(ps); err != nil {
			return nil, err
		}
		if W, err = pointBaseMult(qs); err != nil {
			return nil, err
		}
	}

	P, err := pointBaseMult(sm)
	if err != nil {
		return nil, err
	}
	if srs != nil && !P.Equal(srs.PublicPoint()) {
		return nil, fmt.Errorf("SRS does not match the setup scalar: %w", ErrInvalidInput)
	}
	T, err := dleqBase(P, x)
	if err != nil {
		return nil, err
	}

	var k *big.Int
	if randomNonce {
		if k, err = randomScalar(); err != nil {
			return nil, err
		}
	} else {
		k = deterministicNonce(qs, x, P.X, P.Y, C.X, W.X)
	}

	A1, err := pointBaseMult(k)
	if err != nil {
		return nil, err
	}
	A2, err := pointScalarMult(T, k)
	if err != nil {
		return nil, err
	}

	e := challengeForPoints(C, W, P, A1, A2, x)
	z := addModN(k, mulModN(e, qs))

	return &DLEQProof{C: C, W: W, P: P, A1: A1, A2: A2, X: new(big.Int).Set(x), Z: z}, nil
}

// dleqBase computes T = P - x*G, failing on the degenerate T = infinity.
func dleqBase(P *Point, x *big.Int) (*Point, error) {
	xG, err := pointBaseMult(x)
	if err != nil {
		return nil, err
	}
	T, err := pointSub(P, xG)
	if err != nil {
		return nil, fmt.Errorf("degenerate DLEQ base: %w", ErrDegenerateSetup)
	}
	return T, nil
}

// Verify checks the proof against the algebraic identities the on-chain
// verifier enforces: A1 = z*G - e*W and A2 = z*T - e*C. Any range, curve or
// identity failure yields false.
func (proof *DLEQProof) Verify() bool {
	if proof == nil || !scalarInRange(proof.X) || !scalarInRange(proof.Z) {
		return false
	}
	for _, p := range []*Point{proof.C, proof.W, proof.P, proof.A1, proof.A2} {
		if validatePoint(p) != nil {
			return false
		}
	}
	T, err := dleqBase(proof.P, proof.X)
	if err != nil {
		return false
	}
	e := challengeForPoints(proof.C, proof.W, proof.P, proof.A1, proof.A2, proof.X)

	rhs1, err := lincombSub(proof.Z, basePoint(), e, proof.W)
	if err != nil {
		return false
	}
	rhs2, err := lincombSub(proof.Z, T, e, proof.C)
	if err != nil {
		return false
	}
	return proof.A1.Equal(rhs1) && proof.A2.Equal(rhs2)
}

// lincombSub computes a*B - e*Q, tolerating e = 0 mod N.
func lincombSub(a *big.Int, B *Point, e *big.Int, Q *Point) (*Point, error) {
	aB, err := pointScalarMult(B, a)
	if err != nil {
		return nil, err
	}
	if reduceModN(e).Sign() == 0 {
		return aB, nil
	}
	eQ, err := pointScalarMult(Q, e)
	if err != nil {
		return nil, err
	}
	return pointSub(aB, eQ)
}

// ToBytes packs the proof as C||W||P||A1||A2||x||z, 384 bytes.
func (proof *DLEQProof) ToBytes() []byte {
	out := make([]byte, 0, 384)
	for _, p := range []*Point{proof.C, proof.W, proof.P, proof.A1, proof.A2} {
		out = append(out, p.Bytes()...)
	}
	out = append(out, uint256Bytes(proof.X)...)
	out = append(out, uint256Bytes(proof.Z)...)
	return out
}

// DLEQProofFromBytes reverses ToBytes.
func DLEQProofFromBytes(buf []byte) (*DLEQProof, error) {
	if len(buf) != 384 {
		return nil, fmt.Errorf("proof encoding of %d bytes: %w", len(buf), ErrLengthMismatch)
	}
	points := make([]*Point, 5)
	for i := range points {
		p, err := pointFromBytes(buf[i*64 : (i+1)*64])
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return &DLEQProof{
		C:  points[0],
		W:  points[1],
		P:  points[2],
		A1: points[3],
		A2: points[4],
		X:  new(big.Int).SetBytes(buf[320:352]),
		Z:  new(big.Int).SetBytes(buf[352:384]),
	}, nil
}
