package api

import (
	"fmt"
	"math/big"
)

// Calldata encoder for the on-chain assembly verifier. The contract
// reconstructs X = x*G and T = P - X, then checks A1 = z*G - e*W and
// A2 = z*T - e*C through the ecrecover precompile: a target equals
// alpha*G + beta*Q iff ecrecover(alpha*Qx mod N, 27 + (Qy & 1), Qx,
// beta*Qx mod N) returns ecAddress(target). The caller supplies the two
// modular inverses so the contract never inverts.

// CalldataSelector is the 4-byte function selector of the verifier entry.
func CalldataSelector() []byte {
	return keccak256([]byte(VERIFY_POLYNOMIAL_ABI))[:4]
}

type calldataDerived struct {
	Xx, Xy   *big.Int
	zTx, zTy *big.Int
	eCx, eCy *big.Int
	hinv     *big.Int
	hinv2    *big.Int
}

// deriveCalldata computes the helper points and inverses, or reports that
// the proof cannot produce them.
func deriveCalldata(proof *DLEQProof) (*calldataDerived, bool) {
	if !scalarInRange(proof.X) || !scalarInRange(proof.Z) {
		return nil, false
	}
	for _, p := range []*Point{proof.C, proof.W, proof.P, proof.A1, proof.A2} {
		if validatePoint(p) != nil {
			return nil, false
		}
	}
	X, err := pointBaseMult(proof.X)
	if err != nil {
		return nil, false
	}
	T, err := pointSub(proof.P, X)
	if err != nil {
		return nil, false
	}
	zT, err := pointScalarMult(T, proof.Z)
	if err != nil {
		return nil, false
	}
	e := challengeForPoints(proof.C, proof.W, proof.P, proof.A1, proof.A2, proof.X)
	eC, err := pointScalarMult(proof.C, e)
	if err != nil {
		return nil, false
	}
	hinv := new(big.Int).ModInverse(new(big.Int).Sub(proof.P.X, X.X), curveP)
	hinv2 := new(big.Int).ModInverse(new(big.Int).Sub(zT.X, eC.X), curveP)
	if hinv == nil || hinv2 == nil {
		return nil, false
	}
	return &calldataDerived{
		Xx: X.X, Xy: X.Y,
		zTx: zT.X, zTy: zT.Y,
		eCx: eC.X, eCy: eC.Y,
		hinv: hinv, hinv2: hinv2,
	}, true
}

// EncodeCalldata emits the 430-byte blob the verifier contract accepts iff
// the proof is valid. A proof whose inputs are out of range or off curve is
// encoded with zero-filled derived fields so the contract rejects it,
// rather than forcing invalid inversions here.
func EncodeCalldata(proof *DLEQProof) ([]byte, error) {
	if proof == nil || proof.C == nil || proof.W == nil || proof.P == nil ||
		proof.A1 == nil || proof.A2 == nil || proof.X == nil || proof.Z == nil {
		return nil, fmt.Errorf("encode calldata: %w", ErrInvalidInput)
	}
	for _, v := range []*big.Int{
		proof.C.X, proof.C.Y, proof.W.X, proof.W.Y, proof.P.X, proof.P.Y,
		proof.A1.X, proof.A1.Y, proof.A2.X, proof.A2.Y, proof.X, proof.Z,
	} {
		if v == nil || v.Sign() < 0 || v.BitLen() > 256 {
			return nil, fmt.Errorf("encode calldata value does not fit a word: %w", ErrInvalidInput)
		}
	}
	derived, ok := deriveCalldata(proof)
	if !ok {
		zero := new(big.Int)
		derived = &calldataDerived{
			Xx: zero, Xy: zero,
			zTx: zero, zTy: zero,
			eCx: zero, eCy: zero,
			hinv: zero, hinv2: zero,
		}
	}

	out := make([]byte, 0, CALLDATA_LENGTH)
	out = append(out, CalldataSelector()...)
	out = append(out, CHALLENGE_VERSION)
	for _, v := range []*big.Int{
		proof.C.X, proof.W.X,
		derived.Xx, derived.Xy,
		derived.zTx, derived.zTy,
		derived.eCx, derived.eCy,
		derived.hinv, derived.hinv2,
		proof.Z, proof.X,
	} {
		out = append(out, uint256Bytes(v)...)
	}
	a1 := pointAddress(proof.A1)
	a2 := pointAddress(proof.A2)
	out = append(out, a1[:]...)
	out = append(out, a2[:]...)
	out = append(out, challengeParity(proof.C, proof.W))
	return out, nil
}
