package api

import (
	"fmt"
	"math/big"
)

// Polynomials are ascending coefficient vectors [a_0, ..., a_d] over F_N.

// normalizeCoeffs reduces every coefficient into [0, N).
func normalizeCoeffs(coeffs []*big.Int) []*big.Int {
	out := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		out[i] = reduceModN(c)
	}
	return out
}

// polyEval evaluates p at x mod N by Horner's rule.
func polyEval(coeffs []*big.Int, x *big.Int) *big.Int {
	acc := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = addModN(mulModN(acc, x), coeffs[i])
	}
	return acc
}

// polyDivByLinear divides p by (X - x) with synthetic division, requiring a
// zero remainder, i.e. p(x) = 0. The quotient has degree d-1.
func polyDivByLinear(coeffs []*big.Int, x *big.Int) ([]*big.Int, error) {
	d := len(coeffs) - 1
	if d < 1 {
		return nil, fmt.Errorf("polynomial degree %d too small to divide: %w", d, ErrInvalidInput)
	}
	b := make([]*big.Int, len(coeffs))
	b[d] = reduceModN(coeffs[d])
	for i := d - 1; i >= 0; i-- {
		b[i] = addModN(coeffs[i], mulModN(x, b[i+1]))
	}
	if b[0].Sign() != 0 {
		return nil, fmt.Errorf("remainder p(x) != 0: %w", ErrPolynomialNonZero)
	}
	return b[1:], nil
}

// powersOf returns [s^0, s^1, ..., s^degree] mod N.
func powersOf(s *big.Int, degree int) []*big.Int {
	out := make([]*big.Int, degree+1)
	out[0] = big.NewInt(1)
	for i := 1; i <= degree; i++ {
		out[i] = mulModN(out[i-1], s)
	}
	return out
}

// innerProductModN is <a, b> mod N over min(len(a), len(b)) terms.
func innerProductModN(a, b []*big.Int) *big.Int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	acc := new(big.Int)
	for i := 0; i < n; i++ {
		acc = addModN(acc, mulModN(a[i], b[i]))
	}
	return acc
}
