package api

import (
	"fmt"
	"math/big"
)

// SRS is the centralized trusted setup [G, s*G, ..., s^d*G].
type SRS struct {
	Points []*Point
}

// NewSRS derives the powers-of-s reference string for polynomials up to the
// given degree. s must be nonzero mod N.
func NewSRS(s *big.Int, degree int) (*SRS, error) {
	if degree < 1 {
		return nil, fmt.Errorf("SRS degree %d: %w", degree, ErrInvalidInput)
	}
	sm := reduceModN(s)
	if sm.Sign() == 0 {
		return nil, fmt.Errorf("SRS secret is zero mod N: %w", ErrDegenerateSetup)
	}
	points := make([]*Point, degree+1)
	for i, power := range powersOf(sm, degree) {
		p, err := pointBaseMult(power)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	logger.Debug().Int("degree", degree).Msg("generated SRS")
	return &SRS{Points: points}, nil
}

func (srs *SRS) Len() int {
	return len(srs.Points)
}

// PublicPoint is s*G, the second DLEQ base anchor.
func (srs *SRS) PublicPoint() *Point {
	return srs.Points[1].Clone()
}

// Commit computes sum_i c_i * srs[i], skipping zero coefficients. The zero
// polynomial has no commitment.
func (srs *SRS) Commit(coeffs []*big.Int) (*Point, error) {
	if len(coeffs) == 0 || len(coeffs) > srs.Len() {
		return nil, fmt.Errorf("commit to %d coefficients with SRS of %d: %w", len(coeffs), srs.Len(), ErrDegreeExceedsSRS)
	}
	var acc *Point
	for i, c := range coeffs {
		cm := reduceModN(c)
		if cm.Sign() == 0 {
			continue
		}
		term, err := pointScalarMult(srs.Points[i], cm)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = term
			continue
		}
		acc, err = pointAdd(acc, term)
		if err != nil {
			return nil, err
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("commitment to the zero polynomial: %w", ErrDegenerateSetup)
	}
	return acc, nil
}

// ShareSRS splits the scalar reference string [s^0, ..., s^d] into numNodes
// additive share rows: column k of the result sums to s^k mod N. The first
// numNodes-1 rows are uniform; the last row is the column-wise complement.
func ShareSRS(numNodes, degree int, s *big.Int) ([][]*big.Int, error) {
	if numNodes < 1 || degree < 1 {
		return nil, fmt.Errorf("share SRS for %d nodes degree %d: %w", numNodes, degree, ErrInvalidInput)
	}
	sm := reduceModN(s)
	if sm.Sign() == 0 {
		return nil, fmt.Errorf("shared SRS secret is zero mod N: %w", ErrDegenerateSetup)
	}
	powers := powersOf(sm, degree)
	shares := make([][]*big.Int, numNodes)
	for i := 0; i < numNodes-1; i++ {
		shares[i] = make([]*big.Int, degree+1)
		for k := 0; k <= degree; k++ {
			r, err := randomScalar()
			if err != nil {
				return nil, err
			}
			shares[i][k] = r
		}
	}
	last := make([]*big.Int, degree+1)
	for k := 0; k <= degree; k++ {
		acc := new(big.Int).Set(powers[k])
		for i := 0; i < numNodes-1; i++ {
			acc = subModN(acc, shares[i][k])
		}
		last[k] = acc
	}
	shares[numNodes-1] = last
	logger.Debug().Int("nodes", numNodes).Int("degree", degree).Msg("shared SRS")
	return shares, nil
}
